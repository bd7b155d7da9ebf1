package api

import (
	"context"

	"github.com/yourusername/deck-ranker/internal/models"
	"github.com/yourusername/deck-ranker/internal/service"
)

// MockRankingCalculator
type MockRankingCalculator struct {
	CalculateFunc func(ctx context.Context, req models.RankingRequest) (*models.Ranking, error)
}

func (m *MockRankingCalculator) Calculate(ctx context.Context, req models.RankingRequest) (*models.Ranking, error) {
	if m.CalculateFunc != nil {
		return m.CalculateFunc(ctx, req)
	}
	return &models.Ranking{RunID: "mock"}, nil
}

// MockStatisticsProvider
type MockStatisticsProvider struct {
	DeckStatisticsFunc func(ctx context.Context, environmentID int64, matchTypeID *int64) (*service.StatisticsReport, error)
	DeckMatchupsFunc   func(ctx context.Context, environmentID int64, matchTypeID *int64, hand string) (*service.MatchupReport, error)
}

func (m *MockStatisticsProvider) DeckStatistics(ctx context.Context, environmentID int64, matchTypeID *int64) (*service.StatisticsReport, error) {
	if m.DeckStatisticsFunc != nil {
		return m.DeckStatisticsFunc(ctx, environmentID, matchTypeID)
	}
	return &service.StatisticsReport{EnvironmentID: environmentID}, nil
}

func (m *MockStatisticsProvider) DeckMatchups(ctx context.Context, environmentID int64, matchTypeID *int64, hand string) (*service.MatchupReport, error) {
	if m.DeckMatchupsFunc != nil {
		return m.DeckMatchupsFunc(ctx, environmentID, matchTypeID, hand)
	}
	return &service.MatchupReport{EnvironmentID: environmentID, Hand: hand}, nil
}

// MockMatchRecorder
type MockMatchRecorder struct {
	CreateFunc      func(ctx context.Context, result *models.MatchResult) error
	CreateBatchFunc func(ctx context.Context, results []*models.MatchResult) error
	ListFunc        func(ctx context.Context, filter models.MatchResultFilter) ([]models.MatchResult, error)
	GetFunc         func(ctx context.Context, id int64) (*models.MatchResult, error)
	DeleteFunc      func(ctx context.Context, id int64) error
}

func (m *MockMatchRecorder) Create(ctx context.Context, result *models.MatchResult) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, result)
	}
	return nil
}

func (m *MockMatchRecorder) CreateBatch(ctx context.Context, results []*models.MatchResult) error {
	if m.CreateBatchFunc != nil {
		return m.CreateBatchFunc(ctx, results)
	}
	return nil
}

func (m *MockMatchRecorder) List(ctx context.Context, filter models.MatchResultFilter) ([]models.MatchResult, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx, filter)
	}
	return []models.MatchResult{}, nil
}

func (m *MockMatchRecorder) Get(ctx context.Context, id int64) (*models.MatchResult, error) {
	if m.GetFunc != nil {
		return m.GetFunc(ctx, id)
	}
	return &models.MatchResult{ID: id}, nil
}

func (m *MockMatchRecorder) Delete(ctx context.Context, id int64) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, id)
	}
	return nil
}

// MockPriorStore
type MockPriorStore struct {
	ListFunc   func(ctx context.Context) (map[string]models.MatchupPrior, error)
	UpsertFunc func(ctx context.Context, prior *models.MatchupPrior) error
}

func (m *MockPriorStore) List(ctx context.Context) (map[string]models.MatchupPrior, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx)
	}
	return map[string]models.MatchupPrior{}, nil
}

func (m *MockPriorStore) Upsert(ctx context.Context, prior *models.MatchupPrior) error {
	if m.UpsertFunc != nil {
		return m.UpsertFunc(ctx, prior)
	}
	return nil
}

// MockCatalog
type MockCatalog struct {
	CreateDeckFunc func(ctx context.Context, deck *models.Deck) error
	ListDecksFunc  func(ctx context.Context, environmentID *int64) ([]models.Deck, error)
}

func (m *MockCatalog) ListEnvironments(ctx context.Context) ([]models.Environment, error) {
	return []models.Environment{{ID: 1, Name: "Season 4"}}, nil
}

func (m *MockCatalog) CreateEnvironment(ctx context.Context, env *models.Environment) error {
	env.ID = 1
	return nil
}

func (m *MockCatalog) ListMatchTypes(ctx context.Context) ([]models.MatchType, error) {
	return []models.MatchType{{ID: 1, Name: "default"}}, nil
}

func (m *MockCatalog) ListDecks(ctx context.Context, environmentID *int64) ([]models.Deck, error) {
	if m.ListDecksFunc != nil {
		return m.ListDecksFunc(ctx, environmentID)
	}
	return []models.Deck{}, nil
}

func (m *MockCatalog) CreateDeck(ctx context.Context, deck *models.Deck) error {
	if m.CreateDeckFunc != nil {
		return m.CreateDeckFunc(ctx, deck)
	}
	return nil
}
