package agents

import (
	"context"

	"newsgrade/internal/llm"
	"newsgrade/internal/weights"
)

const StageHistorical = weights.HistoricalReflection

// historicalBound limits how far pattern matching can push the final score.
const historicalBound = 1.5

// HistoricalResult carries an additive adjustment, not an absolute score,
// so it lives outside the AgentScore range rules.
type HistoricalResult struct {
	Adjustment float64
	Patterns   []string
	Reasoning  string
	Fallback   bool
}

// ReflectHistory produces the additive historical adjustment, clamped to
// [-1.5, +1.5]. Failures fall back to a neutral 0.0.
func ReflectHistory(ctx context.Context, c llm.Client, in Input, opt Options) HistoricalResult {
	opt = opt.norm()
	res := invoke(ctx, c, StageHistorical, historicalPrompt, in, opt)
	if !res.OK {
		return HistoricalResult{Fallback: true, Reasoning: "historical reflection unavailable"}
	}
	adj := res.Number("historical_adjustment", 0.0)
	if adj > historicalBound {
		adj = historicalBound
	} else if adj < -historicalBound {
		adj = -historicalBound
	}
	return HistoricalResult{
		Adjustment: adj,
		Patterns:   stringList(res.Value["patterns"]),
		Reasoning:  res.Text("reasoning", ""),
	}
}
