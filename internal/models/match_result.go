package models

import "time"

// DefaultMatchTypeID is assigned to match results created without a match type
const DefaultMatchTypeID int64 = 1

// MatchResult records a completed match between two decks
type MatchResult struct {
	ID            int64     `db:"id" json:"id"`
	EnvironmentID int64     `db:"environment_id" json:"environment_id" validate:"gte=0"`
	MatchTypeID   int64     `db:"match_type_id" json:"match_type_id" validate:"gte=0"`
	FirstDeckID   int64     `db:"first_deck_id" json:"first_deck_id" validate:"gte=0"`
	SecondDeckID  int64     `db:"second_deck_id" json:"second_deck_id" validate:"gte=0"`
	WinningDeckID int64     `db:"winning_deck_id" json:"winning_deck_id" validate:"required,gt=0"`
	LosingDeckID  int64     `db:"losing_deck_id" json:"losing_deck_id" validate:"gte=0"`
	CreatedAt     time.Time `db:"created_at" json:"created_at,omitempty"`
}

// Involves reports whether the deck took part in the match
func (m *MatchResult) Involves(deckID int64) bool {
	return m.FirstDeckID == deckID || m.SecondDeckID == deckID
}

// Opponent returns the other participant, or 0 if the deck did not play
func (m *MatchResult) Opponent(deckID int64) int64 {
	switch deckID {
	case m.FirstDeckID:
		return m.SecondDeckID
	case m.SecondDeckID:
		return m.FirstDeckID
	}
	return 0
}

// Loser returns the losing deck, deriving it from the participants when unset
func (m *MatchResult) Loser() int64 {
	if m.LosingDeckID != 0 {
		return m.LosingDeckID
	}
	return m.Opponent(m.WinningDeckID)
}

// HasHandInfo reports whether play order was recorded. Legacy imports store
// both deck slots as 0 and keep only the winner/loser pair.
func (m *MatchResult) HasHandInfo() bool {
	return m.FirstDeckID != 0 || m.SecondDeckID != 0
}

// MatchResultFilter narrows match result queries. Nil fields are ignored.
type MatchResultFilter struct {
	EnvironmentID *int64
	MatchTypeID   *int64
	FirstDeckID   *int64
	SecondDeckID  *int64
	WinningDeckID *int64
	LosingDeckID  *int64
}
