package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/deck-ranker/internal/models"
	"github.com/yourusername/deck-ranker/internal/snapshot"
)

type matchFixture struct {
	envs       *MockEnvironmentRepository
	matchTypes *MockMatchTypeRepository
	decks      *MockDeckRepository
	matches    *MockMatchResultRepository
	cache      *MockRankingCache
	service    *MatchService
}

func newMatchFixture() *matchFixture {
	f := &matchFixture{
		envs:       new(MockEnvironmentRepository),
		matchTypes: new(MockMatchTypeRepository),
		decks:      new(MockDeckRepository),
		matches:    new(MockMatchResultRepository),
		cache:      new(MockRankingCache),
	}
	f.service = NewMatchService(f.envs, f.matchTypes, f.decks, f.matches, f.cache, quietLogger())
	return f
}

func (f *matchFixture) expectReferences() {
	f.envs.On("GetByID", mock.Anything, int64(1)).Return(&models.Environment{ID: 1, Name: "Season 4"}, nil)
	f.matchTypes.On("GetByID", mock.Anything, models.DefaultMatchTypeID).Return(&models.MatchType{ID: 1, Name: "default"}, nil)
	f.decks.On("GetByID", mock.Anything, int64(1)).Return(&models.Deck{ID: 1, Name: "Aggro"}, nil)
	f.decks.On("GetByID", mock.Anything, int64(2)).Return(&models.Deck{ID: 2, Name: "Control"}, nil)
}

func TestMatchServiceCreate(t *testing.T) {
	f := newMatchFixture()
	f.expectReferences()
	f.matches.On("Create", mock.Anything, mock.AnythingOfType("*models.MatchResult")).Return(nil)
	f.cache.On("InvalidateEnvironment", int64(1)).Return()

	result := &models.MatchResult{EnvironmentID: 1, FirstDeckID: 1, SecondDeckID: 2, WinningDeckID: 2}
	require.NoError(t, f.service.Create(context.Background(), result))

	assert.Equal(t, models.DefaultMatchTypeID, result.MatchTypeID)
	assert.Equal(t, int64(1), result.LosingDeckID)
	f.matches.AssertExpectations(t)
	f.cache.AssertExpectations(t)
}

func TestMatchServiceCreateRejectsInvalidResults(t *testing.T) {
	tests := []struct {
		name    string
		result  models.MatchResult
		wantErr error
	}{
		{
			name:    "missing winner",
			result:  models.MatchResult{EnvironmentID: 1, FirstDeckID: 1, SecondDeckID: 2},
			wantErr: snapshot.ErrInvalidWinner,
		},
		{
			name:    "missing second deck",
			result:  models.MatchResult{EnvironmentID: 1, FirstDeckID: 1, WinningDeckID: 1},
			wantErr: ErrMissingParticipants,
		},
		{
			name:    "winner did not play",
			result:  models.MatchResult{EnvironmentID: 1, FirstDeckID: 1, SecondDeckID: 2, WinningDeckID: 3},
			wantErr: snapshot.ErrInvalidWinner,
		},
		{
			name:    "mirror match",
			result:  models.MatchResult{EnvironmentID: 1, FirstDeckID: 1, SecondDeckID: 1, WinningDeckID: 1},
			wantErr: snapshot.ErrInvalidWinner,
		},
		{
			name:    "loser is the winner",
			result:  models.MatchResult{EnvironmentID: 1, FirstDeckID: 1, SecondDeckID: 2, WinningDeckID: 1, LosingDeckID: 1},
			wantErr: snapshot.ErrInvalidLoser,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newMatchFixture()
			result := tt.result

			err := f.service.Create(context.Background(), &result)
			assert.ErrorIs(t, err, tt.wantErr)
			f.matches.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
		})
	}
}

func TestMatchServiceCreateUnknownReferences(t *testing.T) {
	f := newMatchFixture()
	f.envs.On("GetByID", mock.Anything, int64(1)).Return(&models.Environment{ID: 1}, nil)
	f.matchTypes.On("GetByID", mock.Anything, models.DefaultMatchTypeID).Return(&models.MatchType{ID: 1}, nil)
	f.decks.On("GetByID", mock.Anything, int64(1)).Return(&models.Deck{ID: 1}, nil)
	f.decks.On("GetByID", mock.Anything, int64(5)).Return(nil, models.ErrNotFound)

	result := &models.MatchResult{EnvironmentID: 1, FirstDeckID: 1, SecondDeckID: 5, WinningDeckID: 1}
	err := f.service.Create(context.Background(), result)

	assert.ErrorIs(t, err, ErrUnknownDeck)
	f.matches.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestMatchServiceCreateBatch(t *testing.T) {
	f := newMatchFixture()
	f.expectReferences()
	f.matches.On("CreateBatch", mock.Anything, mock.Anything).Return(nil)
	f.cache.On("InvalidateEnvironment", int64(1)).Return()

	batch := []*models.MatchResult{
		{EnvironmentID: 1, FirstDeckID: 1, SecondDeckID: 2, WinningDeckID: 1},
		{EnvironmentID: 1, FirstDeckID: 1, SecondDeckID: 2, WinningDeckID: 2},
	}
	require.NoError(t, f.service.CreateBatch(context.Background(), batch))

	assert.Equal(t, int64(2), batch[0].LosingDeckID)
	assert.Equal(t, int64(1), batch[1].LosingDeckID)
	f.matches.AssertExpectations(t)
}

func TestMatchServiceCreateBatchRejects(t *testing.T) {
	f := newMatchFixture()

	err := f.service.CreateBatch(context.Background(), nil)
	assert.ErrorIs(t, err, ErrEmptyBatch)

	err = f.service.CreateBatch(context.Background(), []*models.MatchResult{
		{EnvironmentID: 1, FirstDeckID: 1, SecondDeckID: 2, WinningDeckID: 1},
		{EnvironmentID: 1, FirstDeckID: 2, SecondDeckID: 1, WinningDeckID: 1},
	})
	assert.ErrorIs(t, err, ErrMixedBatch)
	f.matches.AssertNotCalled(t, "CreateBatch", mock.Anything, mock.Anything)
}

func TestMatchServiceDelete(t *testing.T) {
	f := newMatchFixture()
	f.matches.On("GetByID", mock.Anything, int64(42)).Return(&models.MatchResult{ID: 42, EnvironmentID: 3}, nil)
	f.matches.On("Delete", mock.Anything, int64(42)).Return(nil)
	f.cache.On("InvalidateEnvironment", int64(3)).Return()

	require.NoError(t, f.service.Delete(context.Background(), 42))
	f.cache.AssertExpectations(t)
}

func TestMatchServiceDeleteMissing(t *testing.T) {
	f := newMatchFixture()
	f.matches.On("GetByID", mock.Anything, int64(42)).Return(nil, models.ErrNotFound)

	err := f.service.Delete(context.Background(), 42)
	assert.ErrorIs(t, err, models.ErrNotFound)
	f.cache.AssertNotCalled(t, "InvalidateEnvironment", mock.Anything)
}
