package database

import (
	"context"
	"fmt"
)

// schemaStatements create the ranking tables. Every statement is idempotent.
var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS environments (
		id         BIGSERIAL PRIMARY KEY,
		name       TEXT NOT NULL UNIQUE,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS match_types (
		id         BIGSERIAL PRIMARY KEY,
		name       TEXT NOT NULL UNIQUE,
		is_private BOOLEAN NOT NULL DEFAULT FALSE
	)`,
	`INSERT INTO match_types (id, name, is_private)
		VALUES (1, 'default', FALSE)
		ON CONFLICT (id) DO NOTHING`,
	`CREATE TABLE IF NOT EXISTS decks (
		id             BIGSERIAL PRIMARY KEY,
		name           TEXT NOT NULL,
		environment_id BIGINT NOT NULL DEFAULT 0,
		deck_code      TEXT,
		description    TEXT,
		created_at     TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE INDEX IF NOT EXISTS idx_decks_environment ON decks (environment_id)`,
	`CREATE TABLE IF NOT EXISTS match_results (
		id              BIGSERIAL PRIMARY KEY,
		environment_id  BIGINT NOT NULL DEFAULT 0,
		match_type_id   BIGINT NOT NULL DEFAULT 1,
		first_deck_id   BIGINT NOT NULL DEFAULT 0,
		second_deck_id  BIGINT NOT NULL DEFAULT 0,
		winning_deck_id BIGINT NOT NULL,
		losing_deck_id  BIGINT NOT NULL,
		created_at      TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE INDEX IF NOT EXISTS idx_match_results_environment ON match_results (environment_id, match_type_id)`,
	`CREATE TABLE IF NOT EXISTS deck_matchup_priors (
		deck_a_id     BIGINT NOT NULL,
		deck_b_id     BIGINT NOT NULL,
		prior_matches INTEGER NOT NULL CHECK (prior_matches >= 0),
		prior_wins    INTEGER NOT NULL CHECK (prior_wins >= 0 AND prior_wins <= prior_matches),
		updated_at    TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		PRIMARY KEY (deck_a_id, deck_b_id)
	)`,
}

// EnsureSchema creates missing tables and indexes
func (db *DB) EnsureSchema(ctx context.Context) error {
	for _, stmt := range schemaStatements {
		if _, err := db.pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("failed to apply schema: %w", err)
		}
	}
	return nil
}
