package agents

import (
	"context"

	"newsgrade/internal/classify"
	"newsgrade/internal/llm"
	"newsgrade/internal/weights"
)

const StageContext = weights.ContextEvaluator

type ContextResult struct {
	Score          classify.AgentScore
	ShouldContinue bool
}

// EvaluateContext is the gatekeeper stage. A fallback score is mid-range,
// so a failed call never triggers the early exit by itself.
func EvaluateContext(ctx context.Context, c llm.Client, in Input, opt Options) ContextResult {
	opt = opt.norm()
	res := invoke(ctx, c, StageContext, contextPrompt, in, opt)
	if !res.OK {
		return ContextResult{
			Score:          classify.FallbackScore(StageContext, opt.FallbackScore, "context evaluation unavailable"),
			ShouldContinue: true,
		}
	}
	value := clampScore(res.Number("context_score", opt.FallbackScore))
	score, err := classify.NewAgentScore(StageContext, value, res.Number("confidence", 0.8), res.Text("reasoning", ""))
	if err != nil {
		return ContextResult{
			Score:          classify.FallbackScore(StageContext, opt.FallbackScore, err.Error()),
			ShouldContinue: true,
		}
	}
	return ContextResult{
		Score:          score,
		ShouldContinue: res.Flag("should_continue", true) && value >= opt.ContextFloor,
	}
}
