package service

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/yourusername/deck-ranker/internal/logger"
	"github.com/yourusername/deck-ranker/internal/models"
	"github.com/yourusername/deck-ranker/internal/repository"
	"github.com/yourusername/deck-ranker/internal/snapshot"
)

// PriorService manages matchup priors
type PriorService struct {
	priorRepo repository.MatchupPriorRepository
	cache     RankingCache
	audit     *logger.AuditLogger
}

// NewPriorService creates a new prior service. cache may be nil.
func NewPriorService(priorRepo repository.MatchupPriorRepository, cache RankingCache, log *logrus.Logger) *PriorService {
	return &PriorService{
		priorRepo: priorRepo,
		cache:     cache,
		audit:     logger.NewAuditLogger(log),
	}
}

// List returns every prior keyed by "{deck_a}_{deck_b}"
func (s *PriorService) List(ctx context.Context) (map[string]models.MatchupPrior, error) {
	return s.priorRepo.ListAll(ctx)
}

// Upsert creates or replaces a prior. Priors are not scoped to an
// environment, so every cached ranking is dropped.
func (s *PriorService) Upsert(ctx context.Context, prior *models.MatchupPrior) error {
	if prior.DeckAID <= 0 || prior.DeckBID <= 0 || prior.DeckAID == prior.DeckBID {
		return fmt.Errorf("%w: got %d and %d", ErrInvalidPrior, prior.DeckAID, prior.DeckBID)
	}
	if err := snapshot.ValidatePrior(*prior); err != nil {
		return err
	}

	if err := s.priorRepo.Upsert(ctx, prior); err != nil {
		return err
	}

	s.audit.LogPriorChange(prior.DeckAID, prior.DeckBID, prior.PriorMatches, prior.PriorWins)
	if s.cache != nil {
		s.cache.Clear()
	}
	return nil
}
