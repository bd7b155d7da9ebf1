package models

// Environment is a metagame period that groups decks and matches
type Environment struct {
	ID   int64  `db:"id" json:"id"`
	Name string `db:"name" json:"name" validate:"required"`
}

// MatchType distinguishes match contexts (ladder, tournament, private leagues)
type MatchType struct {
	ID        int64  `db:"id" json:"id"`
	Name      string `db:"name" json:"name" validate:"required"`
	IsPrivate bool   `db:"is_private" json:"is_private"`
}
