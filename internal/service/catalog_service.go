package service

import (
	"context"

	"github.com/yourusername/deck-ranker/internal/models"
	"github.com/yourusername/deck-ranker/internal/repository"
)

// CatalogService manages environments, match types and decks
type CatalogService struct {
	envRepo       repository.EnvironmentRepository
	matchTypeRepo repository.MatchTypeRepository
	deckRepo      repository.DeckRepository
	cache         RankingCache
}

// NewCatalogService creates a new catalog service
func NewCatalogService(
	envRepo repository.EnvironmentRepository,
	matchTypeRepo repository.MatchTypeRepository,
	deckRepo repository.DeckRepository,
	cache RankingCache,
) *CatalogService {
	return &CatalogService{envRepo: envRepo, matchTypeRepo: matchTypeRepo, deckRepo: deckRepo, cache: cache}
}

// ListEnvironments returns every environment
func (s *CatalogService) ListEnvironments(ctx context.Context) ([]models.Environment, error) {
	return s.envRepo.List(ctx)
}

// CreateEnvironment stores a new environment
func (s *CatalogService) CreateEnvironment(ctx context.Context, env *models.Environment) error {
	if env.Name == "" {
		return ErrEnvironmentNameRequired
	}
	return s.envRepo.Create(ctx, env)
}

// ListMatchTypes returns every match type
func (s *CatalogService) ListMatchTypes(ctx context.Context) ([]models.MatchType, error) {
	return s.matchTypeRepo.List(ctx)
}

// ListDecks returns decks, optionally scoped to one environment
func (s *CatalogService) ListDecks(ctx context.Context, environmentID *int64) ([]models.Deck, error) {
	return s.deckRepo.List(ctx, environmentID)
}

// CreateDeck stores a new deck in an existing environment. Cached rankings for
// that environment are dropped so the deck joins the next calculation.
func (s *CatalogService) CreateDeck(ctx context.Context, deck *models.Deck) error {
	if deck.Name == "" {
		return ErrDeckNameRequired
	}
	if _, err := s.envRepo.GetByID(ctx, deck.EnvironmentID); err != nil {
		return referenceError(err, ErrUnknownEnvironment, deck.EnvironmentID)
	}
	if err := s.deckRepo.Create(ctx, deck); err != nil {
		return err
	}
	if s.cache != nil {
		s.cache.InvalidateEnvironment(deck.EnvironmentID)
	}
	return nil
}
