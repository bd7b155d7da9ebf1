// Package metrics provides the centralized Prometheus metrics registry for the deck ranker.
package metrics

import (
	"net/http"
	"strconv"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "deck_ranker"

// Global registry instance
var (
	registry *prometheus.Registry
	once     sync.Once
)

// Counter metrics
var (
	RankingComputationsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "ranking_computations_total",
		Help:      "Total number of ranking computations by outcome",
	}, []string{"outcome"})
	RankingSnapshotsRejectedTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "ranking_snapshots_rejected_total",
		Help:      "Total number of ranking snapshots rejected at the boundary",
	}, []string{"code"})
	MatchResultsRecordedTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "match_results_recorded_total",
		Help:      "Total number of match results stored",
	})
	HTTPRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "http_requests_total",
		Help:      "Total number of HTTP requests by route and status",
	}, []string{"method", "route", "status"})
)

// Gauge metrics
var (
	RankingCacheHitRatio = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "ranking_cache_hit_ratio",
		Help:      "Hit ratio of the ranking result cache",
	})
	RankedDecks = prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "ranked_decks",
		Help:      "Number of decks in the latest ranking per environment",
	}, []string{"environment_id"})
)

// Histogram metrics
var (
	RankingComputationDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "ranking_computation_duration_seconds",
		Help:      "Duration of engine runs in seconds",
		Buckets:   []float64{0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5},
	})
	RankingIterations = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "ranking_iterations",
		Help:      "Refinement rounds used per engine run",
		Buckets:   []float64{1, 2, 5, 10, 20, 50, 100},
	})
	HTTPRequestDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "http_request_duration_seconds",
		Help:      "Duration of HTTP requests in seconds",
		Buckets:   prometheus.DefBuckets,
	}, []string{"method", "route"})
)

// InitRegistry initializes the global Prometheus registry.
func InitRegistry() *prometheus.Registry {
	once.Do(func() {
		registry = prometheus.NewRegistry()

		// Register counter metrics
		registry.MustRegister(RankingComputationsTotal)
		registry.MustRegister(RankingSnapshotsRejectedTotal)
		registry.MustRegister(MatchResultsRecordedTotal)
		registry.MustRegister(HTTPRequestsTotal)

		// Register gauge metrics
		registry.MustRegister(RankingCacheHitRatio)
		registry.MustRegister(RankedDecks)
		registry.MustRegister(DeckWeightedWinRate)
		registry.MustRegister(DeckAverageWinRate)

		// Register histogram metrics
		registry.MustRegister(RankingComputationDuration)
		registry.MustRegister(RankingIterations)
		registry.MustRegister(HTTPRequestDuration)
	})
	return registry
}

// GetRegistry returns the global Prometheus registry.
func GetRegistry() *prometheus.Registry {
	return InitRegistry()
}

// Handler returns the Prometheus HTTP handler.
func Handler() http.Handler {
	return promhttp.HandlerFor(GetRegistry(), promhttp.HandlerOpts{})
}

// RecordRankingComputation records one engine run.
func RecordRankingComputation(durationSeconds float64, iterations int, converged bool) {
	outcome := "converged"
	if !converged {
		outcome = "iteration_cap"
	}
	RankingComputationsTotal.WithLabelValues(outcome).Inc()
	RankingComputationDuration.Observe(durationSeconds)
	RankingIterations.Observe(float64(iterations))
}

// RecordSnapshotRejected records a snapshot rejected at the boundary.
func RecordSnapshotRejected(code string) {
	RankingSnapshotsRejectedTotal.WithLabelValues(code).Inc()
}

// RecordMatchResults records stored match results.
func RecordMatchResults(count int) {
	MatchResultsRecordedTotal.Add(float64(count))
}

// UpdateCacheHitRatio updates the ranking cache hit ratio gauge.
func UpdateCacheHitRatio(ratio float64) {
	RankingCacheHitRatio.Set(ratio)
}

// RecordHTTPRequest records a served HTTP request.
func RecordHTTPRequest(method, route string, status int, durationSeconds float64) {
	HTTPRequestsTotal.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	HTTPRequestDuration.WithLabelValues(method, route).Observe(durationSeconds)
}
