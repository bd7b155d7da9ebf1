package models

import "fmt"

// MatchupPrior holds virtual observations for an ordered deck pairing.
// PriorWins counts wins of DeckA over DeckB.
type MatchupPrior struct {
	DeckAID      int64 `db:"deck_a_id" json:"deck_a_id" validate:"required,gt=0"`
	DeckBID      int64 `db:"deck_b_id" json:"deck_b_id" validate:"required,gt=0,nefield=DeckAID"`
	PriorMatches int   `db:"prior_matches" json:"prior_matches" validate:"gte=0"`
	PriorWins    int   `db:"prior_wins" json:"prior_wins" validate:"gte=0,ltefield=PriorMatches"`
}

// PriorKey formats the lookup key for an ordered pairing
func PriorKey(deckA, deckB int64) string {
	return fmt.Sprintf("%d_%d", deckA, deckB)
}

// Key returns the lookup key of this prior
func (p MatchupPrior) Key() string {
	return PriorKey(p.DeckAID, p.DeckBID)
}

// WinsFor returns the virtual wins from the given deck's side of the pairing.
func (p MatchupPrior) WinsFor(deckID int64) int {
	if deckID == p.DeckBID {
		return p.PriorMatches - p.PriorWins
	}
	return p.PriorWins
}
