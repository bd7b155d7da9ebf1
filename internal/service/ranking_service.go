// Package service provides the ranking, statistics and data-entry use cases.
package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/yourusername/deck-ranker/internal/logger"
	"github.com/yourusername/deck-ranker/internal/metrics"
	"github.com/yourusername/deck-ranker/internal/models"
	"github.com/yourusername/deck-ranker/internal/repository"
	"github.com/yourusername/deck-ranker/internal/snapshot"
	"github.com/yourusername/deck-ranker/internal/winrate"
)

// RankingService loads a snapshot and runs the win-rate engine over it
type RankingService struct {
	deckRepo      repository.DeckRepository
	matchRepo     repository.MatchResultRepository
	priorRepo     repository.MatchupPriorRepository
	cache         RankingCache
	defaults      winrate.Config
	logger        *logrus.Logger
	rankingLogger *logger.RankingLogger
}

// NewRankingService creates a new ranking service. cache may be nil.
func NewRankingService(
	deckRepo repository.DeckRepository,
	matchRepo repository.MatchResultRepository,
	priorRepo repository.MatchupPriorRepository,
	cache RankingCache,
	defaults winrate.Config,
	log *logrus.Logger,
) *RankingService {
	return &RankingService{
		deckRepo:      deckRepo,
		matchRepo:     matchRepo,
		priorRepo:     priorRepo,
		cache:         cache,
		defaults:      defaults,
		logger:        log,
		rankingLogger: logger.NewRankingLogger(log),
	}
}

// ResolveConfig applies request overrides to the configured defaults
func ResolveConfig(defaults winrate.Config, req models.RankingRequest) (winrate.Config, error) {
	cfg := defaults
	if req.Sensitivity != nil {
		cfg.Sensitivity = *req.Sensitivity
	}
	if req.PriorWeight != nil {
		cfg.PriorWeight = *req.PriorWeight
	}
	if req.SparsePolicy != "" {
		policy, err := winrate.ParseSparsePolicy(req.SparsePolicy)
		if err != nil {
			return cfg, fmt.Errorf("%w: %v", ErrInvalidParameters, err)
		}
		cfg.Policy = policy
	}
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("%w: %v", ErrInvalidParameters, err)
	}
	return cfg, nil
}

// Calculate ranks the decks selected by the request
func (s *RankingService) Calculate(ctx context.Context, req models.RankingRequest) (*models.Ranking, error) {
	cfg, err := ResolveConfig(s.defaults, req)
	if err != nil {
		return nil, err
	}

	key := req.CacheKey()
	if s.cache != nil {
		if cached := s.cache.Get(key); cached != nil {
			s.rankingLogger.LogCacheLookup(key, true)
			return cached, nil
		}
		s.rankingLogger.LogCacheLookup(key, false)
	}

	snap, err := s.loadSnapshot(ctx, req, cfg)
	if err != nil {
		return nil, err
	}

	ranking, err := RankSnapshot(snap, cfg)
	if err != nil {
		s.reject(req, err)
		return nil, err
	}
	ranking.EnvironmentID = req.EnvironmentID
	ranking.MatchTypeID = req.MatchTypeID

	s.rankingLogger.LogComputation(
		ranking.RunID, derefID(req.EnvironmentID), ranking.DeckCount, ranking.MatchCount,
		ranking.Iterations, ranking.Converged, ranking.MaxChange, ranking.DurationMs,
	)

	if s.cache != nil {
		s.cache.Set(key, ranking)
	}
	return ranking, nil
}

// loadSnapshot reads decks, matches and priors concurrently
func (s *RankingService) loadSnapshot(ctx context.Context, req models.RankingRequest, cfg winrate.Config) (*snapshot.Snapshot, error) {
	var (
		decks   []models.Deck
		matches []models.MatchResult
		priors  map[string]models.MatchupPrior
	)

	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		if decks, err = s.deckRepo.List(gCtx, req.EnvironmentID); err != nil {
			return fmt.Errorf("failed to load decks: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		matches, err = s.matchRepo.List(gCtx, models.MatchResultFilter{
			EnvironmentID: req.EnvironmentID,
			MatchTypeID:   req.MatchTypeID,
		})
		if err != nil {
			return fmt.Errorf("failed to load match results: %w", err)
		}
		return nil
	})
	if cfg.Policy == winrate.PolicyPriorBlend {
		g.Go(func() error {
			var err error
			if priors, err = s.priorRepo.ListAll(gCtx); err != nil {
				return fmt.Errorf("failed to load matchup priors: %w", err)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return &snapshot.Snapshot{
		Decks:              decks,
		Matches:            matches,
		Priors:             priors,
		EnvironmentOffsets: req.EnvironmentOffsets,
	}, nil
}

func (s *RankingService) reject(req models.RankingRequest, err error) {
	code := "unknown"
	var verr *models.ValidationError
	if errors.As(err, &verr) {
		code = verr.Code
	}
	metrics.RecordSnapshotRejected(code)
	s.rankingLogger.LogSnapshotRejected(derefID(req.EnvironmentID), err)
}

// RankSnapshot validates a snapshot and runs the engine over it
func RankSnapshot(snap *snapshot.Snapshot, cfg winrate.Config) (*models.Ranking, error) {
	engine, err := winrate.NewEngine(cfg)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidParameters, err)
	}

	snap.Normalize()
	if err := snap.Validate(); err != nil {
		return nil, err
	}

	start := time.Now()
	result := engine.Compute(snap.Input())
	elapsed := time.Since(start)

	metrics.RecordRankingComputation(elapsed.Seconds(), result.Iterations, result.Converged)

	ranking := &models.Ranking{
		RunID:        uuid.NewString(),
		Calculations: result.Reports,
		Ranked:       winrate.Ranked(result.Reports),
		Sensitivity:  cfg.Sensitivity,
		PriorWeight:  cfg.PriorWeight,
		SparsePolicy: string(cfg.Policy),
		Iterations:   result.Iterations,
		Converged:    result.Converged,
		DeckCount:    len(result.Reports),
		MatchCount:   len(snap.Matches),
		MaxChange:    result.MaxChange,
		DurationMs:   float64(elapsed.Microseconds()) / 1000,
		ComputedAt:   start.UTC(),
	}
	return ranking, nil
}

func derefID(id *int64) int64 {
	if id == nil {
		return 0
	}
	return *id
}
