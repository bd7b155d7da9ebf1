package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/deck-ranker/internal/cache"
	"github.com/yourusername/deck-ranker/internal/models"
	"github.com/yourusername/deck-ranker/internal/snapshot"
	"github.com/yourusername/deck-ranker/internal/winrate"
)

func TestPriorServiceUpsert(t *testing.T) {
	priors := new(MockMatchupPriorRepository)
	cache := new(MockRankingCache)
	service := NewPriorService(priors, cache, quietLogger())

	prior := &models.MatchupPrior{DeckAID: 1, DeckBID: 2, PriorMatches: 20, PriorWins: 12}
	priors.On("Upsert", mock.Anything, prior).Return(nil)
	cache.On("Clear").Return()

	require.NoError(t, service.Upsert(context.Background(), prior))
	priors.AssertExpectations(t)
	cache.AssertExpectations(t)
}

func TestPriorServiceUpsertRejects(t *testing.T) {
	tests := []struct {
		name    string
		prior   models.MatchupPrior
		wantErr error
	}{
		{name: "same deck", prior: models.MatchupPrior{DeckAID: 1, DeckBID: 1, PriorMatches: 2}, wantErr: ErrInvalidPrior},
		{name: "missing deck", prior: models.MatchupPrior{DeckAID: 1, PriorMatches: 2}, wantErr: ErrInvalidPrior},
		{name: "wins exceed matches", prior: models.MatchupPrior{DeckAID: 1, DeckBID: 2, PriorMatches: 2, PriorWins: 3}, wantErr: snapshot.ErrPriorWinsExceedMatches},
		{name: "negative matches", prior: models.MatchupPrior{DeckAID: 1, DeckBID: 2, PriorMatches: -1}, wantErr: snapshot.ErrNegativePriorCount},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			priors := new(MockMatchupPriorRepository)
			cache := new(MockRankingCache)
			service := NewPriorService(priors, cache, quietLogger())
			prior := tt.prior

			err := service.Upsert(context.Background(), &prior)
			assert.ErrorIs(t, err, tt.wantErr)
			priors.AssertNotCalled(t, "Upsert", mock.Anything, mock.Anything)
			cache.AssertNotCalled(t, "Clear")
		})
	}
}

func TestCatalogServiceCreateDeck(t *testing.T) {
	envs := new(MockEnvironmentRepository)
	decks := new(MockDeckRepository)
	cache := new(MockRankingCache)
	service := NewCatalogService(envs, new(MockMatchTypeRepository), decks, cache)

	envs.On("GetByID", mock.Anything, int64(1)).Return(&models.Environment{ID: 1}, nil)
	envs.On("GetByID", mock.Anything, int64(2)).Return(nil, models.ErrNotFound)
	decks.On("Create", mock.Anything, mock.AnythingOfType("*models.Deck")).Return(nil)
	cache.On("InvalidateEnvironment", int64(1)).Return()

	require.NoError(t, service.CreateDeck(context.Background(), &models.Deck{Name: "Aggro", EnvironmentID: 1}))
	assert.ErrorIs(t, service.CreateDeck(context.Background(), &models.Deck{Name: "Aggro", EnvironmentID: 2}), ErrUnknownEnvironment)
	assert.ErrorIs(t, service.CreateDeck(context.Background(), &models.Deck{EnvironmentID: 1}), ErrDeckNameRequired)
	decks.AssertNumberOfCalls(t, "Create", 1)
	cache.AssertNumberOfCalls(t, "InvalidateEnvironment", 1)
}

func TestCatalogServiceCreateDeckStoreFailureKeepsCache(t *testing.T) {
	envs := new(MockEnvironmentRepository)
	decks := new(MockDeckRepository)
	cache := new(MockRankingCache)
	service := NewCatalogService(envs, new(MockMatchTypeRepository), decks, cache)

	envs.On("GetByID", mock.Anything, int64(1)).Return(&models.Environment{ID: 1}, nil)
	decks.On("Create", mock.Anything, mock.AnythingOfType("*models.Deck")).Return(models.ErrDuplicateKey)

	err := service.CreateDeck(context.Background(), &models.Deck{Name: "Aggro", EnvironmentID: 1})
	assert.ErrorIs(t, err, models.ErrDuplicateKey)
	cache.AssertNotCalled(t, "InvalidateEnvironment", mock.Anything)
}

func TestCreateDeckJoinsCachedRanking(t *testing.T) {
	decks := new(MockDeckRepository)
	matches := new(MockMatchResultRepository)
	priors := new(MockMatchupPriorRepository)
	envs := new(MockEnvironmentRepository)
	rankingCache := cache.NewRankingCache(time.Hour)

	rankings := NewRankingService(decks, matches, priors, rankingCache, winrate.DefaultConfig(), quietLogger())
	catalog := NewCatalogService(envs, new(MockMatchTypeRepository), decks, rankingCache)
	req := models.RankingRequest{EnvironmentID: int64Ptr(1)}

	decks.On("List", mock.Anything, int64Ptr(1)).Return(testDecks(1, 1, 2), nil).Once()
	decks.On("List", mock.Anything, int64Ptr(1)).Return(testDecks(1, 1, 2, 3), nil).Once()
	matches.On("List", mock.Anything, models.MatchResultFilter{EnvironmentID: int64Ptr(1)}).Return(played(1, 1, 2, 3), nil)
	priors.On("ListAll", mock.Anything).Return(map[string]models.MatchupPrior{}, nil)
	envs.On("GetByID", mock.Anything, int64(1)).Return(&models.Environment{ID: 1}, nil)
	decks.On("Create", mock.Anything, mock.AnythingOfType("*models.Deck")).Return(nil)

	before, err := rankings.Calculate(context.Background(), req)
	require.NoError(t, err)
	assert.Len(t, before.Calculations, 2)

	require.NoError(t, catalog.CreateDeck(context.Background(), &models.Deck{Name: "Midrange", EnvironmentID: 1}))

	after, err := rankings.Calculate(context.Background(), req)
	require.NoError(t, err)
	assert.Len(t, after.Calculations, 3)
	assert.Contains(t, after.Calculations, int64(3))
	decks.AssertNumberOfCalls(t, "List", 2)
}

func TestCatalogServiceCreateEnvironment(t *testing.T) {
	envs := new(MockEnvironmentRepository)
	service := NewCatalogService(envs, new(MockMatchTypeRepository), new(MockDeckRepository), nil)

	envs.On("Create", mock.Anything, mock.AnythingOfType("*models.Environment")).Return(nil)

	require.NoError(t, service.CreateEnvironment(context.Background(), &models.Environment{Name: "Season 5"}))
	assert.ErrorIs(t, service.CreateEnvironment(context.Background(), &models.Environment{}), ErrEnvironmentNameRequired)
}
