package winrate

import (
	"fmt"
	"strings"
)

// Iteration constants. They are tuned empirically and changing them changes rankings.
const (
	DampingFactor        = 0.1
	MaxIterations        = 100
	ConvergenceThreshold = 0.01
	weightDivisor        = 500.0
)

// SparsePolicy selects how pairings with little or no data are scored
type SparsePolicy string

const (
	// PolicyPriorBlend folds matchup priors into the empirical tally
	PolicyPriorBlend SparsePolicy = "prior-blend"
	// PolicyNeutralFallback scores pairings below MinValidMatches as 0.5 and ignores priors
	PolicyNeutralFallback SparsePolicy = "neutral-fallback"
	// PolicyRawEmpirical uses observed matches only
	PolicyRawEmpirical SparsePolicy = "raw-empirical"
)

// ParseSparsePolicy converts a configuration string into a policy.
// An empty string selects PolicyPriorBlend.
func ParseSparsePolicy(s string) (SparsePolicy, error) {
	switch SparsePolicy(strings.ToLower(strings.TrimSpace(s))) {
	case "", PolicyPriorBlend:
		return PolicyPriorBlend, nil
	case PolicyNeutralFallback:
		return PolicyNeutralFallback, nil
	case PolicyRawEmpirical:
		return PolicyRawEmpirical, nil
	}
	return "", fmt.Errorf("unknown sparse pairing policy %q", s)
}

// Config holds engine tuning parameters
type Config struct {
	// Sensitivity (T) sharpens how much beating strong opponents counts
	Sensitivity float64
	// PriorWeight scales prior pseudo-counts under PolicyPriorBlend
	PriorWeight float64
	// MinValidMatches is the neutral-fallback threshold
	MinValidMatches int
	Policy          SparsePolicy
}

// DefaultConfig returns the defaults used by the calculate endpoint
func DefaultConfig() Config {
	return Config{
		Sensitivity:     30.0,
		PriorWeight:     1.0,
		MinValidMatches: 10,
		Policy:          PolicyPriorBlend,
	}
}

// Validate validates engine parameters
func (c Config) Validate() error {
	if c.Sensitivity < 1.0 || c.Sensitivity > 100.0 {
		return fmt.Errorf("sensitivity must be between 1 and 100, got %v", c.Sensitivity)
	}
	if c.PriorWeight < 0 {
		return fmt.Errorf("prior weight cannot be negative, got %v", c.PriorWeight)
	}
	if c.MinValidMatches < 0 {
		return fmt.Errorf("min valid matches cannot be negative, got %d", c.MinValidMatches)
	}
	if _, err := ParseSparsePolicy(string(c.Policy)); err != nil {
		return err
	}
	return nil
}
