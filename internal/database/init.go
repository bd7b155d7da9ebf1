package database

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/yourusername/deck-ranker/internal/config"
)

// Initialize creates a database connection pool and applies the schema when configured
func Initialize(ctx context.Context, cfg *config.Config, log *logrus.Logger) (*DB, error) {
	db, err := NewDB(ctx, &cfg.Database)
	if err != nil {
		return nil, err
	}

	if !cfg.Database.EnsureSchema {
		return db, nil
	}

	if err := db.EnsureSchema(ctx); err != nil {
		db.Close()
		return nil, err
	}
	log.WithField("database", cfg.Database.Name).Info("Database schema ensured")

	return db, nil
}
