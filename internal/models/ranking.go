package models

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"
)

// RankingRequest selects the data and tuning of one ranking run.
// Nil fields fall back to configured defaults.
type RankingRequest struct {
	EnvironmentID      *int64            `json:"environment_id,omitempty"`
	MatchTypeID        *int64            `json:"match_type_id,omitempty"`
	Sensitivity        *float64          `json:"sensitivity,omitempty" validate:"omitempty,gte=1,lte=100"`
	PriorWeight        *float64          `json:"prior_weight,omitempty" validate:"omitempty,gte=0"`
	SparsePolicy       string            `json:"sparse_policy,omitempty"`
	EnvironmentOffsets map[int64]float64 `json:"environment_offsets,omitempty"`
}

// CacheKey fingerprints the request. Offsets are sorted so equal requests
// share a key regardless of map order.
func (r RankingRequest) CacheKey() string {
	var b strings.Builder
	b.WriteString("env=")
	b.WriteString(optionalID(r.EnvironmentID))
	b.WriteString("|type=")
	b.WriteString(optionalID(r.MatchTypeID))
	b.WriteString("|t=")
	b.WriteString(optionalFloat(r.Sensitivity))
	b.WriteString("|pw=")
	b.WriteString(optionalFloat(r.PriorWeight))
	b.WriteString("|policy=")
	b.WriteString(r.SparsePolicy)

	ids := make([]int64, 0, len(r.EnvironmentOffsets))
	for id := range r.EnvironmentOffsets {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	b.WriteString("|off=")
	for _, id := range ids {
		fmt.Fprintf(&b, "%d:%s,", id, strconv.FormatFloat(r.EnvironmentOffsets[id], 'g', -1, 64))
	}
	return b.String()
}

// EnvironmentKeyPrefix is the cache key prefix of every request scoped to the environment
func EnvironmentKeyPrefix(environmentID *int64) string {
	return "env=" + optionalID(environmentID) + "|"
}

func optionalID(id *int64) string {
	if id == nil {
		return "*"
	}
	return strconv.FormatInt(*id, 10)
}

func optionalFloat(v *float64) string {
	if v == nil {
		return "default"
	}
	return strconv.FormatFloat(*v, 'g', -1, 64)
}

// Ranking is the result of one ranking run
type Ranking struct {
	RunID         string                  `json:"run_id"`
	EnvironmentID *int64                  `json:"environment_id,omitempty"`
	MatchTypeID   *int64                  `json:"match_type_id,omitempty"`
	Calculations  map[int64]WinRateReport `json:"calculations"`
	Ranked        []WinRateReport         `json:"ranked"`
	Sensitivity   float64                 `json:"sensitivity"`
	PriorWeight   float64                 `json:"prior_weight"`
	SparsePolicy  string                  `json:"sparse_policy"`
	Iterations    int                     `json:"iterations"`
	Converged     bool                    `json:"converged"`
	MaxChange     float64                 `json:"max_change"`
	DurationMs    float64                 `json:"duration_ms"`
	DeckCount     int                     `json:"deck_count"`
	MatchCount    int                     `json:"match_count"`
	ComputedAt    time.Time               `json:"computed_at"`
}
