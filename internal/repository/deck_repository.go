package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/yourusername/deck-ranker/internal/database"
	"github.com/yourusername/deck-ranker/internal/models"
)

const deckColumns = "id, name, environment_id, deck_code, description, created_at"

// PostgresDeckRepository implements DeckRepository for PostgreSQL
type PostgresDeckRepository struct {
	db *database.DB
}

// NewPostgresDeckRepository creates a new deck repository
func NewPostgresDeckRepository(db *database.DB) DeckRepository {
	return &PostgresDeckRepository{db: db}
}

// Create inserts a new deck and fills its ID
func (r *PostgresDeckRepository) Create(ctx context.Context, deck *models.Deck) error {
	query := `
		INSERT INTO decks (name, environment_id, deck_code, description)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at
	`

	err := r.db.GetPool().QueryRow(ctx, query,
		deck.Name, deck.EnvironmentID, deck.DeckCode, deck.Description,
	).Scan(&deck.ID, &deck.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create deck: %w", err)
	}

	return nil
}

// GetByID retrieves a deck by ID
func (r *PostgresDeckRepository) GetByID(ctx context.Context, id int64) (*models.Deck, error) {
	query := "SELECT " + deckColumns + " FROM decks WHERE id = $1"

	deck := &models.Deck{}
	err := r.db.GetPool().QueryRow(ctx, query, id).Scan(
		&deck.ID, &deck.Name, &deck.EnvironmentID, &deck.DeckCode, &deck.Description, &deck.CreatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get deck: %w", err)
	}

	return deck, nil
}

// List retrieves decks ordered by ID
func (r *PostgresDeckRepository) List(ctx context.Context, environmentID *int64) ([]models.Deck, error) {
	query := "SELECT " + deckColumns + " FROM decks"
	var args []interface{}
	if environmentID != nil {
		query += " WHERE environment_id = $1"
		args = append(args, *environmentID)
	}
	query += " ORDER BY id ASC"

	rows, err := r.db.GetPool().Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query decks: %w", err)
	}
	defer rows.Close()

	var decks []models.Deck
	for rows.Next() {
		var deck models.Deck
		if err := rows.Scan(
			&deck.ID, &deck.Name, &deck.EnvironmentID, &deck.DeckCode, &deck.Description, &deck.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan deck: %w", err)
		}
		decks = append(decks, deck)
	}

	return decks, rows.Err()
}
