package repository

import (
	"context"

	"github.com/yourusername/deck-ranker/internal/models"
)

// DeckRepository defines the interface for deck data access
type DeckRepository interface {
	Create(ctx context.Context, deck *models.Deck) error
	GetByID(ctx context.Context, id int64) (*models.Deck, error)
	// List returns every deck, or only the environment's decks when environmentID is non-nil
	List(ctx context.Context, environmentID *int64) ([]models.Deck, error)
}

// MatchResultRepository defines the interface for match result data access
type MatchResultRepository interface {
	Create(ctx context.Context, result *models.MatchResult) error
	CreateBatch(ctx context.Context, results []*models.MatchResult) error
	GetByID(ctx context.Context, id int64) (*models.MatchResult, error)
	List(ctx context.Context, filter models.MatchResultFilter) ([]models.MatchResult, error)
	Delete(ctx context.Context, id int64) error
}

// MatchupPriorRepository defines the interface for matchup prior data access
type MatchupPriorRepository interface {
	// ListAll returns priors keyed by "{deck_a}_{deck_b}"
	ListAll(ctx context.Context) (map[string]models.MatchupPrior, error)
	Upsert(ctx context.Context, prior *models.MatchupPrior) error
}

// EnvironmentRepository defines the interface for environment data access
type EnvironmentRepository interface {
	Create(ctx context.Context, env *models.Environment) error
	GetByID(ctx context.Context, id int64) (*models.Environment, error)
	List(ctx context.Context) ([]models.Environment, error)
}

// MatchTypeRepository defines the interface for match type data access
type MatchTypeRepository interface {
	GetByID(ctx context.Context, id int64) (*models.MatchType, error)
	List(ctx context.Context) ([]models.MatchType, error)
}
