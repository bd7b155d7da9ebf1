package logger

import (
	"github.com/sirupsen/logrus"
)

// AuditLogger provides dedicated audit trail logging for ranking inputs.
type AuditLogger struct {
	*logrus.Entry
}

// NewAuditLogger creates a new audit logger.
func NewAuditLogger(baseLogger *logrus.Logger) *AuditLogger {
	return &AuditLogger{
		Entry: baseLogger.WithField("component", "audit"),
	}
}

// LogMatchRecorded logs newly stored match results.
func (al *AuditLogger) LogMatchRecorded(environmentID, matchTypeID, winningDeckID, losingDeckID int64, count int) {
	al.WithFields(logrus.Fields{
		"environment_id":  environmentID,
		"match_type_id":   matchTypeID,
		"winning_deck_id": winningDeckID,
		"losing_deck_id":  losingDeckID,
		"count":           count,
	}).Info("Match results recorded")
}

// LogMatchDeleted logs a deleted match result.
func (al *AuditLogger) LogMatchDeleted(matchID int64) {
	al.WithField("match_id", matchID).Info("Match result deleted")
}

// LogPriorChange logs a matchup prior upsert.
func (al *AuditLogger) LogPriorChange(deckAID, deckBID int64, priorMatches, priorWins int) {
	al.WithFields(logrus.Fields{
		"deck_a_id":     deckAID,
		"deck_b_id":     deckBID,
		"prior_matches": priorMatches,
		"prior_wins":    priorWins,
	}).Info("Matchup prior changed")
}
