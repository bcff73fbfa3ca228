package recommend

import (
	"fmt"
	"math"
)

// Signal names used as keys in the weight table and the scoring breakdown.
const (
	SignalSimilarity    = "similarity"
	SignalSkillOverlap  = "skill_overlap"
	SignalQualification = "qualification_fit"
	SignalLocation      = "location_match"
	SignalStipend       = "stipend_match"
	SignalRecency       = "recency"
)

// signalOrder fixes the summation order of the weighted signals. Summing in
// map iteration order would let float rounding differ between identical
// requests.
var signalOrder = []string{
	SignalSimilarity,
	SignalSkillOverlap,
	SignalQualification,
	SignalLocation,
	SignalStipend,
	SignalRecency,
}

const weightSumTolerance = 1e-6

// Config holds the tunable scoring parameters. Values come from the config
// file; zero values are filled with defaults by Normalize.
type Config struct {
	Weights           map[string]float64 `mapstructure:"weights"`
	TopKRetrieval     int                `mapstructure:"top_k_retrieval"`
	MaxResults        int                `mapstructure:"max_results"`
	MinScoreThreshold float64            `mapstructure:"min_score_threshold"`
}

// DefaultWeights returns the default signal weight table.
func DefaultWeights() map[string]float64 {
	return map[string]float64{
		SignalSimilarity:    0.60,
		SignalSkillOverlap:  0.15,
		SignalQualification: 0.10,
		SignalLocation:      0.10,
		SignalStipend:       0.03,
		SignalRecency:       0.02,
	}
}

// DefaultConfig returns the scoring configuration used when the config file
// does not override it.
func DefaultConfig() Config {
	return Config{
		Weights:           DefaultWeights(),
		TopKRetrieval:     20,
		MaxResults:        5,
		MinScoreThreshold: 0.1,
	}
}

// Normalize fills unset fields with defaults and validates the result.
// An invalid weight table is a startup error, not a per-request one.
func (c *Config) Normalize() error {
	if len(c.Weights) == 0 {
		c.Weights = DefaultWeights()
	}
	if c.TopKRetrieval <= 0 {
		c.TopKRetrieval = 20
	}
	if c.MaxResults <= 0 {
		c.MaxResults = 5
	}
	if c.MinScoreThreshold < 0 {
		return fmt.Errorf("min_score_threshold must not be negative: %f", c.MinScoreThreshold)
	}

	known := DefaultWeights()
	var sum float64
	for name, weight := range c.Weights {
		if _, ok := known[name]; !ok {
			return fmt.Errorf("unknown scoring signal %q in weights", name)
		}
		if weight < 0 {
			return fmt.Errorf("weight for %q must not be negative: %f", name, weight)
		}
		sum += weight
	}
	for name := range known {
		if _, ok := c.Weights[name]; !ok {
			return fmt.Errorf("weights missing scoring signal %q", name)
		}
	}

	if math.Abs(sum-1.0) > weightSumTolerance {
		return fmt.Errorf("weights must sum to 1.0, got %f", sum)
	}

	return nil
}
