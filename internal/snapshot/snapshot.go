// Package snapshot validates ranking inputs at the service boundary and loads
// offline snapshots for the CLI.
package snapshot

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sort"

	"github.com/go-playground/validator/v10"

	"github.com/yourusername/deck-ranker/internal/models"
	"github.com/yourusername/deck-ranker/internal/winrate"
)

// Boundary errors. The engine assumes none of these hold.
var (
	ErrNoDecks                = models.NewValidationError("no_decks", "no decks found")
	ErrNoMatches              = models.NewValidationError("no_matches", "no match results found")
	ErrPriorWinsExceedMatches = models.NewValidationError("prior_wins_exceed_matches", "prior wins cannot exceed prior matches")
	ErrNegativePriorCount     = models.NewValidationError("negative_prior_count", "prior counts cannot be negative")
	ErrPriorKeyMismatch       = models.NewValidationError("prior_key_mismatch", "prior key does not match its deck pair")
	ErrInvalidWinner          = models.NewValidationError("invalid_winner", "winning deck must be one of the two participants")
	ErrInvalidLoser           = models.NewValidationError("invalid_loser", "losing deck must be the other participant")
	ErrInvalidDeck            = models.NewValidationError("invalid_deck", "deck failed validation")
)

// Snapshot is a consistent read of everything one ranking run needs
type Snapshot struct {
	Decks              []models.Deck                  `json:"decks" validate:"dive"`
	Matches            []models.MatchResult           `json:"matches"`
	Priors             map[string]models.MatchupPrior `json:"priors,omitempty"`
	EnvironmentOffsets map[int64]float64              `json:"environment_offsets,omitempty"`
}

var structValidator = validator.New()

// Validate rejects snapshots the engine must never see
func (s *Snapshot) Validate() error {
	if len(s.Decks) == 0 {
		return ErrNoDecks
	}
	if len(s.Matches) == 0 {
		return ErrNoMatches
	}
	if err := structValidator.Struct(s); err != nil {
		var fieldErrs validator.ValidationErrors
		if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
			return fmt.Errorf("%w: %s failed on %s", ErrInvalidDeck, fieldErrs[0].Namespace(), fieldErrs[0].Tag())
		}
		return fmt.Errorf("%w: %v", ErrInvalidDeck, err)
	}
	for i := range s.Matches {
		if err := ValidateMatch(&s.Matches[i]); err != nil {
			return fmt.Errorf("match %d: %w", s.Matches[i].ID, err)
		}
	}
	keys := make([]string, 0, len(s.Priors))
	for key := range s.Priors {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	for _, key := range keys {
		prior := s.Priors[key]
		if err := ValidatePrior(prior); err != nil {
			return fmt.Errorf("prior %s: %w", key, err)
		}
		if key != prior.Key() {
			return fmt.Errorf("%w: key %s, pair %s", ErrPriorKeyMismatch, key, prior.Key())
		}
	}
	return nil
}

// ValidateMatch checks the winner/loser invariant of a single match
func ValidateMatch(m *models.MatchResult) error {
	if !m.HasHandInfo() {
		// Legacy records carry only the winner/loser pair.
		if m.LosingDeckID == 0 || m.LosingDeckID == m.WinningDeckID {
			return ErrInvalidLoser
		}
		return nil
	}
	if m.FirstDeckID == m.SecondDeckID {
		return fmt.Errorf("%w: deck %d cannot play itself", ErrInvalidWinner, m.FirstDeckID)
	}
	if !m.Involves(m.WinningDeckID) {
		return fmt.Errorf("%w: got %d", ErrInvalidWinner, m.WinningDeckID)
	}
	if m.LosingDeckID != 0 && m.LosingDeckID != m.Opponent(m.WinningDeckID) {
		return fmt.Errorf("%w: got %d", ErrInvalidLoser, m.LosingDeckID)
	}
	return nil
}

// ValidatePrior checks pseudo-count bounds
func ValidatePrior(p models.MatchupPrior) error {
	if p.PriorMatches < 0 || p.PriorWins < 0 {
		return ErrNegativePriorCount
	}
	if p.PriorWins > p.PriorMatches {
		return ErrPriorWinsExceedMatches
	}
	return nil
}

// Normalize fills play order for legacy matches so the engine can tally them.
// Records that already carry play order are left untouched.
func (s *Snapshot) Normalize() {
	for i := range s.Matches {
		m := &s.Matches[i]
		if !m.HasHandInfo() {
			m.FirstDeckID = m.WinningDeckID
			m.SecondDeckID = m.LosingDeckID
		}
	}
}

// Input converts the snapshot into engine input
func (s *Snapshot) Input() winrate.Input {
	return winrate.Input{
		Decks:              s.Decks,
		Matches:            s.Matches,
		Priors:             s.Priors,
		EnvironmentOffsets: s.EnvironmentOffsets,
	}
}

// LoadFile reads a JSON snapshot from disk
func LoadFile(path string) (*Snapshot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("snapshot file not found at %s: %w", path, err)
		}
		return nil, fmt.Errorf("failed to read snapshot file: %w", err)
	}

	snap := &Snapshot{}
	if err := json.Unmarshal(data, snap); err != nil {
		return nil, fmt.Errorf("failed to parse snapshot file: %w", err)
	}
	return snap, nil
}
