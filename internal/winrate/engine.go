// Package winrate ranks decks by a damped fixed-point iteration over pairwise win rates.
package winrate

import (
	"math"
	"sort"

	"github.com/yourusername/deck-ranker/internal/models"
)

// maxExponent keeps math.Exp finite. Exponents above it are shifted down
// uniformly, which leaves every weight ratio unchanged.
const maxExponent = 700.0

// Input is an immutable snapshot of everything the engine reads
type Input struct {
	Decks              []models.Deck
	Matches            []models.MatchResult
	Priors             map[string]models.MatchupPrior
	EnvironmentOffsets map[int64]float64
}

// Result holds per-deck reports and convergence diagnostics
type Result struct {
	Reports    map[int64]models.WinRateReport
	Iterations int
	Converged  bool
	MaxChange  float64

	table *pairTable
}

// PairwiseRate returns the posterior win rate of deck a against deck b
func (r Result) PairwiseRate(a, b int64) (float64, bool) {
	if r.table == nil {
		return 0, false
	}
	i, okA := r.table.index[a]
	j, okB := r.table.index[b]
	if !okA || !okB || i == j {
		return 0, false
	}
	return r.table.rate(i, j), true
}

// Engine computes win-rate reports. It holds no per-call state and is safe
// for concurrent use.
type Engine struct {
	cfg Config
}

// NewEngine creates an engine after validating its configuration
func NewEngine(cfg Config) (*Engine, error) {
	if cfg.Policy == "" {
		cfg.Policy = PolicyPriorBlend
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Engine{cfg: cfg}, nil
}

// Config returns the engine configuration
func (e *Engine) Config() Config {
	return e.cfg
}

// ComputeReports returns one report per roster deck
func (e *Engine) ComputeReports(
	decks []models.Deck,
	matches []models.MatchResult,
	priors map[string]models.MatchupPrior,
	environmentOffsets map[int64]float64,
) map[int64]models.WinRateReport {
	return e.Compute(Input{
		Decks:              decks,
		Matches:            matches,
		Priors:             priors,
		EnvironmentOffsets: environmentOffsets,
	}).Reports
}

// Pairwise runs only the per-pair aggregation. The result carries posterior
// rates but no reports.
func (e *Engine) Pairwise(in Input) Result {
	return Result{
		Reports:   map[int64]models.WinRateReport{},
		Converged: true,
		table:     buildPairTable(in.Decks, in.Matches, in.Priors, e.cfg),
	}
}

// Compute runs both stages and returns reports with diagnostics
func (e *Engine) Compute(in Input) Result {
	table := buildPairTable(in.Decks, in.Matches, in.Priors, e.cfg)
	n := table.size()

	average := table.averages()
	result := Result{
		Reports: make(map[int64]models.WinRateReport, n),
		table:   table,
	}
	if n == 0 {
		result.Converged = true
		return result
	}

	factors := make([]float64, n)
	for i, id := range table.ids {
		factors[i] = in.EnvironmentOffsets[id]/10 + 1
	}

	current := make([]float64, n)
	copy(current, average)
	next := make([]float64, n)
	exponents := make([]float64, n)
	weights := make([]float64, n)
	squared := e.cfg.Sensitivity * e.cfg.Sensitivity

	for round := 1; round <= MaxIterations; round++ {
		result.Iterations = round

		highest := math.Inf(-1)
		for o := 0; o < n; o++ {
			exponents[o] = current[o] * squared / weightDivisor
			if exponents[o] > highest {
				highest = exponents[o]
			}
		}
		shift := 0.0
		if highest > maxExponent {
			shift = highest - maxExponent
		}
		for o := 0; o < n; o++ {
			weights[o] = math.Exp(exponents[o]-shift) * factors[o]
		}

		for d := 0; d < n; d++ {
			next[d] = dampen(current[d], weightedRate(table, weights, d))
		}

		result.MaxChange = 0
		for d := 0; d < n; d++ {
			if change := math.Abs(next[d] - current[d]); change > result.MaxChange {
				result.MaxChange = change
			}
		}
		if result.MaxChange < ConvergenceThreshold {
			result.Converged = true
			break
		}
		current, next = next, current
	}

	for i, id := range table.ids {
		result.Reports[id] = models.WinRateReport{
			DeckID:            id,
			AverageWinRate:    average[i],
			WeightedWinRate:   current[i],
			EnvironmentOffset: in.EnvironmentOffsets[id],
		}
	}
	return result
}

// weightedRate is the opponent-weighted mean of deck d's pairwise rates over
// the whole roster, opponents without data included.
func weightedRate(table *pairTable, weights []float64, d int) float64 {
	var totalWeight, weightedSum float64
	for o := range weights {
		if o == d {
			continue
		}
		totalWeight += weights[o]
		weightedSum += weights[o] * table.rate(d, o)
	}
	if totalWeight > 0 {
		return weightedSum / totalWeight
	}
	return 0
}

func dampen(current, raw float64) float64 {
	return current*DampingFactor + raw*(1-DampingFactor)
}

// Ranked orders reports by weighted win rate, strongest first. Ties fall back
// to average win rate and then deck ID so the order is stable.
func Ranked(reports map[int64]models.WinRateReport) []models.WinRateReport {
	ranked := make([]models.WinRateReport, 0, len(reports))
	for _, report := range reports {
		ranked = append(ranked, report)
	}
	sort.Slice(ranked, func(i, j int) bool {
		a, b := ranked[i], ranked[j]
		if a.WeightedWinRate != b.WeightedWinRate {
			return a.WeightedWinRate > b.WeightedWinRate
		}
		if a.AverageWinRate != b.AverageWinRate {
			return a.AverageWinRate > b.AverageWinRate
		}
		return a.DeckID < b.DeckID
	})
	return ranked
}
