package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/yourusername/deck-ranker/internal/database"
	"github.com/yourusername/deck-ranker/internal/models"
)

const (
	matchResultColumns = "id, environment_id, match_type_id, first_deck_id, second_deck_id, winning_deck_id, losing_deck_id, created_at"
	insertMatchResult  = `
		INSERT INTO match_results (environment_id, match_type_id, first_deck_id, second_deck_id, winning_deck_id, losing_deck_id)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at
	`
)

// PostgresMatchResultRepository implements MatchResultRepository for PostgreSQL
type PostgresMatchResultRepository struct {
	db *database.DB
}

// NewPostgresMatchResultRepository creates a new match result repository
func NewPostgresMatchResultRepository(db *database.DB) MatchResultRepository {
	return &PostgresMatchResultRepository{db: db}
}

// Create inserts a new match result and fills its ID
func (r *PostgresMatchResultRepository) Create(ctx context.Context, result *models.MatchResult) error {
	err := r.db.GetPool().QueryRow(ctx, insertMatchResult, matchResultArgs(result)...).
		Scan(&result.ID, &result.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create match result: %w", err)
	}
	return nil
}

// CreateBatch inserts match results in one transaction. Either all rows are
// stored or none are.
func (r *PostgresMatchResultRepository) CreateBatch(ctx context.Context, results []*models.MatchResult) error {
	if len(results) == 0 {
		return nil
	}

	return r.db.WithTransaction(ctx, func(tx pgx.Tx) error {
		batch := &pgx.Batch{}
		for _, result := range results {
			batch.Queue(insertMatchResult, matchResultArgs(result)...)
		}

		br := tx.SendBatch(ctx, batch)
		for i, result := range results {
			if err := br.QueryRow().Scan(&result.ID, &result.CreatedAt); err != nil {
				_ = br.Close()
				return fmt.Errorf("failed to insert match result %d of batch: %w", i, err)
			}
		}
		if err := br.Close(); err != nil {
			return fmt.Errorf("failed to close match result batch: %w", err)
		}
		return nil
	})
}

// GetByID retrieves a match result by ID
func (r *PostgresMatchResultRepository) GetByID(ctx context.Context, id int64) (*models.MatchResult, error) {
	query := "SELECT " + matchResultColumns + " FROM match_results WHERE id = $1"

	result := &models.MatchResult{}
	err := r.db.GetPool().QueryRow(ctx, query, id).Scan(scanTargets(result)...)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get match result: %w", err)
	}

	return result, nil
}

// List retrieves match results matching the filter, oldest first
func (r *PostgresMatchResultRepository) List(ctx context.Context, filter models.MatchResultFilter) ([]models.MatchResult, error) {
	where, args := buildMatchResultFilter(filter)
	query := "SELECT " + matchResultColumns + " FROM match_results" + where + " ORDER BY id ASC"

	rows, err := r.db.GetPool().Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query match results: %w", err)
	}
	defer rows.Close()

	var results []models.MatchResult
	for rows.Next() {
		var result models.MatchResult
		if err := rows.Scan(scanTargets(&result)...); err != nil {
			return nil, fmt.Errorf("failed to scan match result: %w", err)
		}
		results = append(results, result)
	}

	return results, rows.Err()
}

// Delete deletes a match result
func (r *PostgresMatchResultRepository) Delete(ctx context.Context, id int64) error {
	commandTag, err := r.db.GetPool().Exec(ctx, "DELETE FROM match_results WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("failed to delete match result: %w", err)
	}

	if commandTag.RowsAffected() == 0 {
		return models.ErrNotFound
	}

	return nil
}

func matchResultArgs(result *models.MatchResult) []interface{} {
	return []interface{}{
		result.EnvironmentID, result.MatchTypeID, result.FirstDeckID,
		result.SecondDeckID, result.WinningDeckID, result.LosingDeckID,
	}
}

func scanTargets(result *models.MatchResult) []interface{} {
	return []interface{}{
		&result.ID, &result.EnvironmentID, &result.MatchTypeID, &result.FirstDeckID,
		&result.SecondDeckID, &result.WinningDeckID, &result.LosingDeckID, &result.CreatedAt,
	}
}

// buildMatchResultFilter renders the non-nil filter fields as a WHERE clause
func buildMatchResultFilter(filter models.MatchResultFilter) (string, []interface{}) {
	conditions := []struct {
		column string
		value  *int64
	}{
		{"environment_id", filter.EnvironmentID},
		{"match_type_id", filter.MatchTypeID},
		{"first_deck_id", filter.FirstDeckID},
		{"second_deck_id", filter.SecondDeckID},
		{"winning_deck_id", filter.WinningDeckID},
		{"losing_deck_id", filter.LosingDeckID},
	}

	var clauses []string
	var args []interface{}
	for _, c := range conditions {
		if c.value == nil {
			continue
		}
		args = append(args, *c.value)
		clauses = append(clauses, fmt.Sprintf("%s = $%d", c.column, len(args)))
	}

	if len(clauses) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(clauses, " AND "), args
}
