package models

import "time"

// Deck represents a ranked competitive deck within an environment
type Deck struct {
	ID            int64     `db:"id" json:"id" validate:"required,gt=0"`
	Name          string    `db:"name" json:"name" validate:"required,min=1,max=255"`
	EnvironmentID int64     `db:"environment_id" json:"environment_id" validate:"gte=0"`
	DeckCode      *string   `db:"deck_code" json:"deck_code,omitempty"`
	Description   *string   `db:"description" json:"description,omitempty"`
	CreatedAt     time.Time `db:"created_at" json:"created_at,omitempty"`
}

