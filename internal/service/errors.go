package service

import "github.com/yourusername/deck-ranker/internal/models"

// Request validation errors
var (
	ErrInvalidParameters   = models.NewValidationError("invalid_parameters", "invalid ranking parameters")
	ErrInvalidHand         = models.NewValidationError("invalid_hand", "hand must be first or second")
	ErrMissingParticipants = models.NewValidationError("missing_participants", "first and second deck are required")
	ErrUnknownEnvironment  = models.NewValidationError("unknown_environment", "environment does not exist")
	ErrUnknownMatchType    = models.NewValidationError("unknown_match_type", "match type does not exist")
	ErrUnknownDeck         = models.NewValidationError("unknown_deck", "deck does not exist")
	ErrEmptyBatch          = models.NewValidationError("empty_batch", "batch contains no match results")
	ErrMixedBatch          = models.NewValidationError("mixed_batch", "batch match results must share environment, match type and decks")
	ErrInvalidPrior        = models.NewValidationError("invalid_prior", "prior must name two different decks")

	ErrEnvironmentNameRequired = models.NewValidationError("environment_name_required", "environment name is required")
	ErrDeckNameRequired        = models.NewValidationError("deck_name_required", "deck name is required")
)

// RankingCache is the cache surface the services depend on
type RankingCache interface {
	Get(key string) *models.Ranking
	Set(key string, ranking *models.Ranking)
	InvalidateEnvironment(environmentID int64)
	Clear()
}
