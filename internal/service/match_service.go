package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/sirupsen/logrus"

	"github.com/yourusername/deck-ranker/internal/logger"
	"github.com/yourusername/deck-ranker/internal/metrics"
	"github.com/yourusername/deck-ranker/internal/models"
	"github.com/yourusername/deck-ranker/internal/repository"
	"github.com/yourusername/deck-ranker/internal/snapshot"
)

// MatchService records and removes match results
type MatchService struct {
	envRepo       repository.EnvironmentRepository
	matchTypeRepo repository.MatchTypeRepository
	deckRepo      repository.DeckRepository
	matchRepo     repository.MatchResultRepository
	cache         RankingCache
	validate      *validator.Validate
	audit         *logger.AuditLogger
}

// NewMatchService creates a new match service. cache may be nil.
func NewMatchService(
	envRepo repository.EnvironmentRepository,
	matchTypeRepo repository.MatchTypeRepository,
	deckRepo repository.DeckRepository,
	matchRepo repository.MatchResultRepository,
	cache RankingCache,
	log *logrus.Logger,
) *MatchService {
	return &MatchService{
		envRepo:       envRepo,
		matchTypeRepo: matchTypeRepo,
		deckRepo:      deckRepo,
		matchRepo:     matchRepo,
		cache:         cache,
		validate:      validator.New(),
		audit:         logger.NewAuditLogger(log),
	}
}

// Create stores a single match result
func (s *MatchService) Create(ctx context.Context, result *models.MatchResult) error {
	if err := s.prepare(result); err != nil {
		return err
	}
	if err := s.checkReferences(ctx, result); err != nil {
		return err
	}

	if err := s.matchRepo.Create(ctx, result); err != nil {
		return err
	}

	s.recorded(result, 1)
	return nil
}

// CreateBatch stores several results of the same pairing atomically
func (s *MatchService) CreateBatch(ctx context.Context, results []*models.MatchResult) error {
	if len(results) == 0 {
		return ErrEmptyBatch
	}

	first := results[0]
	for i, result := range results {
		if err := s.prepare(result); err != nil {
			return fmt.Errorf("match result %d: %w", i, err)
		}
		if result.EnvironmentID != first.EnvironmentID ||
			result.MatchTypeID != first.MatchTypeID ||
			result.FirstDeckID != first.FirstDeckID ||
			result.SecondDeckID != first.SecondDeckID {
			return fmt.Errorf("match result %d: %w", i, ErrMixedBatch)
		}
	}
	if err := s.checkReferences(ctx, first); err != nil {
		return err
	}

	if err := s.matchRepo.CreateBatch(ctx, results); err != nil {
		return err
	}

	s.recorded(first, len(results))
	return nil
}

// List returns match results matching the filter
func (s *MatchService) List(ctx context.Context, filter models.MatchResultFilter) ([]models.MatchResult, error) {
	return s.matchRepo.List(ctx, filter)
}

// Get returns a match result by ID
func (s *MatchService) Get(ctx context.Context, id int64) (*models.MatchResult, error) {
	return s.matchRepo.GetByID(ctx, id)
}

// Delete removes a match result
func (s *MatchService) Delete(ctx context.Context, id int64) error {
	result, err := s.matchRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.matchRepo.Delete(ctx, id); err != nil {
		return err
	}

	s.audit.LogMatchDeleted(id)
	if s.cache != nil {
		s.cache.InvalidateEnvironment(result.EnvironmentID)
	}
	return nil
}

// prepare fills defaults and checks the participant invariants
func (s *MatchService) prepare(result *models.MatchResult) error {
	if result.MatchTypeID == 0 {
		result.MatchTypeID = models.DefaultMatchTypeID
	}
	if err := s.validate.Struct(result); err != nil {
		return fmt.Errorf("%w: %v", snapshot.ErrInvalidWinner, err)
	}
	if result.FirstDeckID == 0 || result.SecondDeckID == 0 {
		return ErrMissingParticipants
	}
	if err := snapshot.ValidateMatch(result); err != nil {
		return err
	}
	if result.LosingDeckID == 0 {
		result.LosingDeckID = result.Loser()
	}
	return nil
}

func (s *MatchService) checkReferences(ctx context.Context, result *models.MatchResult) error {
	if _, err := s.envRepo.GetByID(ctx, result.EnvironmentID); err != nil {
		return referenceError(err, ErrUnknownEnvironment, result.EnvironmentID)
	}
	if _, err := s.matchTypeRepo.GetByID(ctx, result.MatchTypeID); err != nil {
		return referenceError(err, ErrUnknownMatchType, result.MatchTypeID)
	}
	for _, deckID := range []int64{result.FirstDeckID, result.SecondDeckID} {
		if _, err := s.deckRepo.GetByID(ctx, deckID); err != nil {
			return referenceError(err, ErrUnknownDeck, deckID)
		}
	}
	return nil
}

func (s *MatchService) recorded(result *models.MatchResult, count int) {
	metrics.RecordMatchResults(count)
	s.audit.LogMatchRecorded(result.EnvironmentID, result.MatchTypeID, result.WinningDeckID, result.LosingDeckID, count)
	if s.cache != nil {
		s.cache.InvalidateEnvironment(result.EnvironmentID)
	}
}

// referenceError turns a missing row into a client error
func referenceError(err error, missing *models.ValidationError, id int64) error {
	if errors.Is(err, models.ErrNotFound) {
		return fmt.Errorf("%w: id %d", missing, id)
	}
	return err
}
