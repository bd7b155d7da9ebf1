package repository

import (
	"context"
	"fmt"

	"github.com/yourusername/deck-ranker/internal/database"
	"github.com/yourusername/deck-ranker/internal/models"
)

// PostgresMatchupPriorRepository implements MatchupPriorRepository for PostgreSQL
type PostgresMatchupPriorRepository struct {
	db *database.DB
}

// NewPostgresMatchupPriorRepository creates a new matchup prior repository
func NewPostgresMatchupPriorRepository(db *database.DB) MatchupPriorRepository {
	return &PostgresMatchupPriorRepository{db: db}
}

// ListAll retrieves every prior keyed by its ordered pair
func (r *PostgresMatchupPriorRepository) ListAll(ctx context.Context) (map[string]models.MatchupPrior, error) {
	query := `
		SELECT deck_a_id, deck_b_id, prior_matches, prior_wins
		FROM deck_matchup_priors
		ORDER BY deck_a_id, deck_b_id
	`

	rows, err := r.db.GetPool().Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query matchup priors: %w", err)
	}
	defer rows.Close()

	priors := make(map[string]models.MatchupPrior)
	for rows.Next() {
		var prior models.MatchupPrior
		if err := rows.Scan(&prior.DeckAID, &prior.DeckBID, &prior.PriorMatches, &prior.PriorWins); err != nil {
			return nil, fmt.Errorf("failed to scan matchup prior: %w", err)
		}
		priors[prior.Key()] = prior
	}

	return priors, rows.Err()
}

// Upsert creates or replaces the prior for an ordered pair
func (r *PostgresMatchupPriorRepository) Upsert(ctx context.Context, prior *models.MatchupPrior) error {
	query := `
		INSERT INTO deck_matchup_priors (deck_a_id, deck_b_id, prior_matches, prior_wins)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (deck_a_id, deck_b_id) DO UPDATE SET
			prior_matches = EXCLUDED.prior_matches,
			prior_wins = EXCLUDED.prior_wins,
			updated_at = NOW()
	`

	_, err := r.db.GetPool().Exec(ctx, query, prior.DeckAID, prior.DeckBID, prior.PriorMatches, prior.PriorWins)
	if err != nil {
		return fmt.Errorf("failed to upsert matchup prior: %w", err)
	}

	return nil
}
