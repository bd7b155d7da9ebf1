package logger

import (
	"github.com/sirupsen/logrus"
)

// RankingLogger provides dedicated logging for ranking computations.
type RankingLogger struct {
	*logrus.Entry
}

// NewRankingLogger creates a new ranking logger.
func NewRankingLogger(baseLogger *logrus.Logger) *RankingLogger {
	return &RankingLogger{
		Entry: baseLogger.WithField("component", "ranking"),
	}
}

// LogComputation logs a completed ranking computation.
func (rl *RankingLogger) LogComputation(runID string, environmentID int64, decks, matches, iterations int, converged bool, maxChange, durationMs float64) {
	entry := rl.WithFields(logrus.Fields{
		"run_id":         runID,
		"environment_id": environmentID,
		"decks":          decks,
		"matches":        matches,
		"iterations":     iterations,
		"converged":      converged,
		"max_change":     maxChange,
		"duration_ms":    durationMs,
	})
	if !converged {
		entry.Warn("Ranking computation hit the iteration cap")
		return
	}
	entry.Info("Ranking computation completed")
}

// LogSnapshotRejected logs a snapshot that failed boundary validation.
func (rl *RankingLogger) LogSnapshotRejected(environmentID int64, reason error) {
	rl.WithFields(logrus.Fields{
		"environment_id": environmentID,
		"reason":         reason.Error(),
	}).Warn("Ranking snapshot rejected")
}

// LogCacheLookup logs a ranking cache lookup.
func (rl *RankingLogger) LogCacheLookup(key string, hit bool) {
	rl.WithFields(logrus.Fields{
		"cache_key": key,
		"cache_hit": hit,
	}).Debug("Ranking cache lookup")
}

// LogScheduledRecompute logs one scheduled recompute pass.
func (rl *RankingLogger) LogScheduledRecompute(environments, failures int, durationMs float64) {
	entry := rl.WithFields(logrus.Fields{
		"event_type":   "scheduled_recompute",
		"environments": environments,
		"failures":     failures,
		"duration_ms":  durationMs,
	})
	if failures > 0 {
		entry.Warn("Scheduled ranking recompute finished with failures")
		return
	}
	entry.Info("Scheduled ranking recompute finished")
}
