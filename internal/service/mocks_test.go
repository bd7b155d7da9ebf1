package service

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/yourusername/deck-ranker/internal/models"
)

// MockDeckRepository mocks deck repository
type MockDeckRepository struct {
	mock.Mock
}

func (m *MockDeckRepository) Create(ctx context.Context, deck *models.Deck) error {
	args := m.Called(ctx, deck)
	return args.Error(0)
}

func (m *MockDeckRepository) GetByID(ctx context.Context, id int64) (*models.Deck, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Deck), args.Error(1)
}

func (m *MockDeckRepository) List(ctx context.Context, environmentID *int64) ([]models.Deck, error) {
	args := m.Called(ctx, environmentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Deck), args.Error(1)
}

// MockMatchResultRepository mocks match result repository
type MockMatchResultRepository struct {
	mock.Mock
}

func (m *MockMatchResultRepository) Create(ctx context.Context, result *models.MatchResult) error {
	args := m.Called(ctx, result)
	return args.Error(0)
}

func (m *MockMatchResultRepository) CreateBatch(ctx context.Context, results []*models.MatchResult) error {
	args := m.Called(ctx, results)
	return args.Error(0)
}

func (m *MockMatchResultRepository) GetByID(ctx context.Context, id int64) (*models.MatchResult, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.MatchResult), args.Error(1)
}

func (m *MockMatchResultRepository) List(ctx context.Context, filter models.MatchResultFilter) ([]models.MatchResult, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.MatchResult), args.Error(1)
}

func (m *MockMatchResultRepository) Delete(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockMatchupPriorRepository mocks matchup prior repository
type MockMatchupPriorRepository struct {
	mock.Mock
}

func (m *MockMatchupPriorRepository) ListAll(ctx context.Context) (map[string]models.MatchupPrior, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]models.MatchupPrior), args.Error(1)
}

func (m *MockMatchupPriorRepository) Upsert(ctx context.Context, prior *models.MatchupPrior) error {
	args := m.Called(ctx, prior)
	return args.Error(0)
}

// MockEnvironmentRepository mocks environment repository
type MockEnvironmentRepository struct {
	mock.Mock
}

func (m *MockEnvironmentRepository) Create(ctx context.Context, env *models.Environment) error {
	args := m.Called(ctx, env)
	return args.Error(0)
}

func (m *MockEnvironmentRepository) GetByID(ctx context.Context, id int64) (*models.Environment, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Environment), args.Error(1)
}

func (m *MockEnvironmentRepository) List(ctx context.Context) ([]models.Environment, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Environment), args.Error(1)
}

// MockMatchTypeRepository mocks match type repository
type MockMatchTypeRepository struct {
	mock.Mock
}

func (m *MockMatchTypeRepository) GetByID(ctx context.Context, id int64) (*models.MatchType, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.MatchType), args.Error(1)
}

func (m *MockMatchTypeRepository) List(ctx context.Context) ([]models.MatchType, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.MatchType), args.Error(1)
}

// MockRankingCache mocks the ranking cache
type MockRankingCache struct {
	mock.Mock
}

func (m *MockRankingCache) Get(key string) *models.Ranking {
	args := m.Called(key)
	if args.Get(0) == nil {
		return nil
	}
	return args.Get(0).(*models.Ranking)
}

func (m *MockRankingCache) Set(key string, ranking *models.Ranking) {
	m.Called(key, ranking)
}

func (m *MockRankingCache) InvalidateEnvironment(environmentID int64) {
	m.Called(environmentID)
}

func (m *MockRankingCache) Clear() {
	m.Called()
}

func int64Ptr(v int64) *int64 {
	return &v
}

func float64Ptr(v float64) *float64 {
	return &v
}

func testDecks(envID int64, ids ...int64) []models.Deck {
	decks := make([]models.Deck, 0, len(ids))
	for _, id := range ids {
		decks = append(decks, models.Deck{ID: id, Name: deckName(id), EnvironmentID: envID})
	}
	return decks
}

func deckName(id int64) string {
	return map[int64]string{1: "Aggro", 2: "Control", 3: "Midrange", 4: "Combo"}[id]
}

// played builds count results where first beat second with first on the play
func played(envID, first, second int64, count int) []models.MatchResult {
	results := make([]models.MatchResult, 0, count)
	for i := 0; i < count; i++ {
		results = append(results, models.MatchResult{
			EnvironmentID: envID,
			MatchTypeID:   models.DefaultMatchTypeID,
			FirstDeckID:   first,
			SecondDeckID:  second,
			WinningDeckID: first,
			LosingDeckID:  second,
		})
	}
	return results
}
