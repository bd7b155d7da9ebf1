package scheduler

import (
	"context"
	"errors"
	"io"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/deck-ranker/internal/metrics"
	"github.com/yourusername/deck-ranker/internal/models"
)

// MockRankingCalculator mocks the ranking service
type MockRankingCalculator struct {
	mock.Mock
}

func (m *MockRankingCalculator) Calculate(ctx context.Context, req models.RankingRequest) (*models.Ranking, error) {
	args := m.Called(ctx, *req.EnvironmentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Ranking), args.Error(1)
}

func quietLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

func TestRecomputeOncePublishesRankings(t *testing.T) {
	calc := new(MockRankingCalculator)
	calc.On("Calculate", mock.Anything, int64(71)).Return(&models.Ranking{
		Calculations: map[int64]models.WinRateReport{
			1: {DeckID: 1, AverageWinRate: 0.75, WeightedWinRate: 0.8},
			2: {DeckID: 2, AverageWinRate: 0.25, WeightedWinRate: 0.2},
		},
	}, nil)
	calc.On("Calculate", mock.Anything, int64(72)).Return(nil, errors.New("no decks found"))

	s := NewScheduler(calc, quietLogger())
	failures := s.RecomputeOnce(context.Background(), []int64{71, 72})

	assert.Equal(t, 1, failures)
	assert.Equal(t, 0.8, testutil.ToFloat64(metrics.DeckWeightedWinRate.WithLabelValues("71", "1")))
	assert.Equal(t, 0.25, testutil.ToFloat64(metrics.DeckAverageWinRate.WithLabelValues("71", "2")))
	assert.Equal(t, 2.0, testutil.ToFloat64(metrics.RankedDecks.WithLabelValues("71")))
	calc.AssertExpectations(t)
}

func TestRecomputeOnceStopsOnCancelledContext(t *testing.T) {
	calc := new(MockRankingCalculator)
	s := NewScheduler(calc, quietLogger())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	assert.Equal(t, 2, s.RecomputeOnce(ctx, []int64{1, 2}))
	calc.AssertNotCalled(t, "Calculate", mock.Anything, mock.Anything)
}

func TestScheduleRecompute(t *testing.T) {
	s := NewScheduler(new(MockRankingCalculator), quietLogger())

	assert.Error(t, s.Start(), "start without jobs")
	assert.Error(t, s.ScheduleRecompute("every minute", []int64{1}))
	assert.Error(t, s.ScheduleRecompute("*/15 * * * *", nil))

	require.NoError(t, s.ScheduleRecompute("*/15 * * * *", []int64{1, 2}))
	require.NoError(t, s.Start())
	assert.True(t, s.IsRunning())
	assert.False(t, s.GetNextRun().IsZero())
	assert.Error(t, s.ScheduleRecompute("@hourly", []int64{3}))

	require.NoError(t, s.Stop())
	assert.False(t, s.IsRunning())
}
