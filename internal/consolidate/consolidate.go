// Package consolidate turns the per-agent scores into one final result.
// Everything here is pure arithmetic over its inputs: no completion calls,
// no randomness, no clock reads. Same inputs, same output, always.
package consolidate

import (
	"math"

	"newsgrade/internal/classify"
	"newsgrade/internal/weights"
)

// Score bounds shared by every stage of consolidation.
const (
	minScore = 0.1
	maxScore = 10.0

	// neutralScore stands in for any absent absolute component.
	neutralScore = 5.0

	// historicalBound limits the additive adjustment's reach.
	historicalBound = 1.5
)

// Inputs collects everything consolidation needs about one article.
type Inputs struct {
	// Scores holds absolute agent scores by agent name. Missing entries
	// default to the neutral 5.0.
	Scores map[string]float64
	// HistoricalAdjustment is additive and may be negative.
	HistoricalAdjustment float64
	ContentType          classify.ContentType
	DepthLevel           string
	TechnicalElements    []string
	IndustryChanging     bool
}

// Result is the consolidated score with its audit trail.
type Result struct {
	// Raw is the normalized weighted sum before the adjustment.
	Raw float64
	// Adjustment is the historical term after clamping to ±1.5.
	Adjustment float64
	// Final = round1(clamp(Raw + Adjustment)).
	Final float64
	// Components are the exact values that entered the weighted sum,
	// defaults included.
	Components map[string]float64
	Warnings   []string
	// RequiresHumanReview is set by any pitfall violation.
	RequiresHumanReview bool
}

// Consolidate computes the weighted score. The sum is normalized by the
// total active weight so that uniform inputs are preserved: seven 7.0
// scores with a zero adjustment consolidate to exactly 7.0.
func Consolidate(in Inputs, cfg weights.Config) Result {
	components := make(map[string]float64, len(cfg.Weights))
	sum, active := 0.0, cfg.Active()
	for agent, w := range cfg.Weights {
		v, ok := in.Scores[agent]
		if !ok {
			v = neutralScore
		}
		components[agent] = v
		sum += w * v
	}
	raw := neutralScore
	if active > 0 {
		raw = sum / active
	}

	adj := clamp(in.HistoricalAdjustment, -historicalBound, historicalBound)
	final := round1(clamp(raw+adj, minScore, maxScore))

	warnings, review := checkPitfalls(in, final)
	return Result{
		Raw:                 raw,
		Adjustment:          adj,
		Final:               final,
		Components:          components,
		Warnings:            warnings,
		RequiresHumanReview: review,
	}
}

// Confidence measures sub-score agreement: tightly clustered components
// give high confidence, scattered ones do not. Derived as
// 1 − stddev/4, floored at 0.1.
func Confidence(components map[string]float64) float64 {
	if len(components) < 2 {
		return 0.5
	}
	mean := 0.0
	for _, v := range components {
		mean += v
	}
	mean /= float64(len(components))

	variance := 0.0
	for _, v := range components {
		d := v - mean
		variance += d * d
	}
	sd := math.Sqrt(variance / float64(len(components)))
	return clamp(1.0-sd/4.0, 0.1, 1.0)
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func round1(v float64) float64 { return math.Round(v*10) / 10 }
