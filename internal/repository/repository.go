// Package repository provides PostgreSQL-backed data access for ranking inputs.
package repository

import (
	"fmt"

	"github.com/yourusername/deck-ranker/internal/database"
)

// Repositories holds all repository implementations
type Repositories struct {
	Deck         DeckRepository
	MatchResult  MatchResultRepository
	MatchupPrior MatchupPriorRepository
	Environment  EnvironmentRepository
	MatchType    MatchTypeRepository
}

// NewRepositories creates and returns all repository implementations
func NewRepositories(db *database.DB) (*Repositories, error) {
	if db == nil {
		return nil, fmt.Errorf("database connection is required")
	}

	return &Repositories{
		Deck:         NewPostgresDeckRepository(db),
		MatchResult:  NewPostgresMatchResultRepository(db),
		MatchupPrior: NewPostgresMatchupPriorRepository(db),
		Environment:  NewPostgresEnvironmentRepository(db),
		MatchType:    NewPostgresMatchTypeRepository(db),
	}, nil
}
