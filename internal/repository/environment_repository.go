package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/yourusername/deck-ranker/internal/database"
	"github.com/yourusername/deck-ranker/internal/models"
)

// uniqueViolation is the PostgreSQL SQLSTATE for unique constraint failures
const uniqueViolation = "23505"

// PostgresEnvironmentRepository implements EnvironmentRepository for PostgreSQL
type PostgresEnvironmentRepository struct {
	db *database.DB
}

// NewPostgresEnvironmentRepository creates a new environment repository
func NewPostgresEnvironmentRepository(db *database.DB) EnvironmentRepository {
	return &PostgresEnvironmentRepository{db: db}
}

// Create inserts a new environment and fills its ID
func (r *PostgresEnvironmentRepository) Create(ctx context.Context, env *models.Environment) error {
	err := r.db.GetPool().QueryRow(ctx,
		"INSERT INTO environments (name) VALUES ($1) RETURNING id", env.Name,
	).Scan(&env.ID)

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		return models.ErrDuplicateKey
	}
	if err != nil {
		return fmt.Errorf("failed to create environment: %w", err)
	}

	return nil
}

// GetByID retrieves an environment by ID
func (r *PostgresEnvironmentRepository) GetByID(ctx context.Context, id int64) (*models.Environment, error) {
	env := &models.Environment{}
	err := r.db.GetPool().QueryRow(ctx, "SELECT id, name FROM environments WHERE id = $1", id).
		Scan(&env.ID, &env.Name)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get environment: %w", err)
	}

	return env, nil
}

// List retrieves all environments
func (r *PostgresEnvironmentRepository) List(ctx context.Context) ([]models.Environment, error) {
	rows, err := r.db.GetPool().Query(ctx, "SELECT id, name FROM environments ORDER BY id ASC")
	if err != nil {
		return nil, fmt.Errorf("failed to query environments: %w", err)
	}
	defer rows.Close()

	var envs []models.Environment
	for rows.Next() {
		var env models.Environment
		if err := rows.Scan(&env.ID, &env.Name); err != nil {
			return nil, fmt.Errorf("failed to scan environment: %w", err)
		}
		envs = append(envs, env)
	}

	return envs, rows.Err()
}

// PostgresMatchTypeRepository implements MatchTypeRepository for PostgreSQL
type PostgresMatchTypeRepository struct {
	db *database.DB
}

// NewPostgresMatchTypeRepository creates a new match type repository
func NewPostgresMatchTypeRepository(db *database.DB) MatchTypeRepository {
	return &PostgresMatchTypeRepository{db: db}
}

// GetByID retrieves a match type by ID
func (r *PostgresMatchTypeRepository) GetByID(ctx context.Context, id int64) (*models.MatchType, error) {
	mt := &models.MatchType{}
	err := r.db.GetPool().QueryRow(ctx, "SELECT id, name, is_private FROM match_types WHERE id = $1", id).
		Scan(&mt.ID, &mt.Name, &mt.IsPrivate)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get match type: %w", err)
	}

	return mt, nil
}

// List retrieves all match types
func (r *PostgresMatchTypeRepository) List(ctx context.Context) ([]models.MatchType, error) {
	rows, err := r.db.GetPool().Query(ctx, "SELECT id, name, is_private FROM match_types ORDER BY id ASC")
	if err != nil {
		return nil, fmt.Errorf("failed to query match types: %w", err)
	}
	defer rows.Close()

	var types []models.MatchType
	for rows.Next() {
		var mt models.MatchType
		if err := rows.Scan(&mt.ID, &mt.Name, &mt.IsPrivate); err != nil {
			return nil, fmt.Errorf("failed to scan match type: %w", err)
		}
		types = append(types, mt)
	}

	return types, rows.Err()
}
