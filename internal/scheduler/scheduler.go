// Package scheduler recomputes rankings on a cron schedule.
package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"

	"github.com/yourusername/deck-ranker/internal/logger"
	"github.com/yourusername/deck-ranker/internal/metrics"
	"github.com/yourusername/deck-ranker/internal/models"
)

// RankingCalculator runs one ranking computation
type RankingCalculator interface {
	Calculate(ctx context.Context, req models.RankingRequest) (*models.Ranking, error)
}

// Scheduler manages scheduled ranking recomputes
type Scheduler struct {
	cron            *cron.Cron
	rankings        RankingCalculator
	logger          *logrus.Logger
	rankingLogger   *logger.RankingLogger
	mu              sync.RWMutex
	isRunning       bool
	jobIDs          []cron.EntryID
	jobTimeout      time.Duration
	gracefulTimeout time.Duration
}

// NewScheduler creates a new scheduler
func NewScheduler(rankings RankingCalculator, log *logrus.Logger) *Scheduler {
	return &Scheduler{
		cron:            cron.New(cron.WithLocation(time.UTC)),
		rankings:        rankings,
		logger:          log,
		rankingLogger:   logger.NewRankingLogger(log),
		jobIDs:          make([]cron.EntryID, 0),
		jobTimeout:      5 * time.Minute,
		gracefulTimeout: 30 * time.Second,
	}
}

// ScheduleRecompute schedules a recompute of every listed environment
func (s *Scheduler) ScheduleRecompute(cronExpression string, environmentIDs []int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.isRunning {
		return fmt.Errorf("cannot schedule job while scheduler is running")
	}
	if len(environmentIDs) == 0 {
		return fmt.Errorf("no environments to recompute")
	}

	ids := append([]int64(nil), environmentIDs...)
	jobFunc := func() {
		ctx, cancel := context.WithTimeout(context.Background(), s.jobTimeout)
		defer cancel()
		s.RecomputeOnce(ctx, ids)
	}

	entryID, err := s.cron.AddFunc(cronExpression, jobFunc)
	if err != nil {
		return fmt.Errorf("failed to add job: %w", err)
	}

	s.jobIDs = append(s.jobIDs, entryID)
	s.logger.WithFields(logrus.Fields{
		"cron":         cronExpression,
		"environments": ids,
	}).Info("Scheduled ranking recompute")

	return nil
}

// RecomputeOnce ranks each environment and publishes the per-deck gauges.
// It returns the number of environments that failed.
func (s *Scheduler) RecomputeOnce(ctx context.Context, environmentIDs []int64) int {
	start := time.Now()
	failures := 0

	for _, id := range environmentIDs {
		if ctx.Err() != nil {
			failures++
			continue
		}
		envID := id
		ranking, err := s.rankings.Calculate(ctx, models.RankingRequest{EnvironmentID: &envID})
		if err != nil {
			failures++
			s.logger.WithError(err).WithField("environment_id", envID).Warn("Scheduled recompute failed")
			continue
		}
		metrics.PublishRanking(envID, ranking.Calculations)
	}

	s.rankingLogger.LogScheduledRecompute(len(environmentIDs), failures, float64(time.Since(start).Microseconds())/1000)
	return failures
}

// Start starts the scheduler
func (s *Scheduler) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.isRunning {
		return fmt.Errorf("scheduler is already running")
	}

	if len(s.jobIDs) == 0 {
		return fmt.Errorf("no jobs scheduled")
	}

	s.cron.Start()
	s.isRunning = true
	s.logger.WithField("jobs", len(s.jobIDs)).Info("Scheduler started")

	return nil
}

// Stop waits for running jobs, up to the graceful timeout
func (s *Scheduler) Stop() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.isRunning {
		return nil
	}

	stopCtx := s.cron.Stop()
	s.isRunning = false

	select {
	case <-stopCtx.Done():
		s.logger.Info("Scheduler stopped")
		return nil
	case <-time.After(s.gracefulTimeout):
		return fmt.Errorf("scheduler jobs still running after %s", s.gracefulTimeout)
	}
}

// IsRunning returns whether the scheduler is currently running
func (s *Scheduler) IsRunning() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.isRunning
}

// GetNextRun returns the time of the next scheduled job run
func (s *Scheduler) GetNextRun() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.isRunning || len(s.jobIDs) == 0 {
		return time.Time{}
	}

	nextRun := time.Time{}
	for _, jobID := range s.jobIDs {
		entry := s.cron.Entry(jobID)
		if entry.Valid() {
			nextTime := entry.Next
			if nextRun.IsZero() || nextTime.Before(nextRun) {
				nextRun = nextTime
			}
		}
	}

	return nextRun
}
