package metrics

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/yourusername/deck-ranker/internal/models"
)

// Per-deck gauges published after each scheduled recompute
var (
	DeckWeightedWinRate = prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "deck_weighted_win_rate",
		Help:      "Latest weighted win rate of each deck",
	}, []string{"environment_id", "deck_id"})

	DeckAverageWinRate = prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "deck_average_win_rate",
		Help:      "Latest average win rate of each deck",
	}, []string{"environment_id", "deck_id"})
)

// PublishRanking replaces the per-deck gauges of one environment.
func PublishRanking(environmentID int64, reports map[int64]models.WinRateReport) {
	env := strconv.FormatInt(environmentID, 10)
	DeckWeightedWinRate.DeletePartialMatch(prometheus.Labels{"environment_id": env})
	DeckAverageWinRate.DeletePartialMatch(prometheus.Labels{"environment_id": env})

	for id, report := range reports {
		deck := strconv.FormatInt(id, 10)
		DeckWeightedWinRate.WithLabelValues(env, deck).Set(report.WeightedWinRate)
		DeckAverageWinRate.WithLabelValues(env, deck).Set(report.AverageWinRate)
	}
	RankedDecks.WithLabelValues(env).Set(float64(len(reports)))
}
