package consolidate

import (
	"math"

	"newsgrade/internal/weights"
)

// DefaultDivergenceThreshold is the human-vs-weighted gap that flags a
// result when no override is configured.
const DefaultDivergenceThreshold = 2.0

// ConsensusResult reports how far the human reading sits from the
// machine-weighted view.
type ConsensusResult struct {
	WeightedScore float64
	HumanScore    float64
	Difference    float64
	Divergent     bool
}

// Consensus recomputes a weighted average under its own profile (by
// convention one without a historical share) and compares it against the
// human score. Missing components default to neutral, same as Consolidate.
func Consensus(scores map[string]float64, cfg weights.Config) ConsensusResult {
	return ConsensusAt(scores, cfg, DefaultDivergenceThreshold)
}

// ConsensusAt is Consensus with a caller-chosen divergence threshold.
func ConsensusAt(scores map[string]float64, cfg weights.Config, threshold float64) ConsensusResult {
	if threshold <= 0 {
		threshold = DefaultDivergenceThreshold
	}
	sum, active := 0.0, cfg.Active()
	for agent, w := range cfg.Weights {
		v, ok := scores[agent]
		if !ok {
			v = neutralScore
		}
		sum += w * v
	}
	weighted := neutralScore
	if active > 0 {
		weighted = clamp(sum/active, minScore, maxScore)
	}

	human, ok := scores[weights.HumanReasoning]
	if !ok {
		human = neutralScore
	}
	diff := math.Abs(human - weighted)
	return ConsensusResult{
		WeightedScore: round1(weighted),
		HumanScore:    human,
		Difference:    round1(diff),
		Divergent:     diff > threshold,
	}
}
