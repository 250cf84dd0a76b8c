package agents

import (
	"context"

	"newsgrade/internal/classify"
	"newsgrade/internal/llm"
	"newsgrade/internal/weights"
)

const StageHuman = weights.HumanReasoning

type HumanResult struct {
	Score     classify.AgentScore
	Reasoning map[string]string
}

// JudgeAsHuman rates the article the way a busy reader would. Its score
// also anchors the consensus divergence check.
func JudgeAsHuman(ctx context.Context, c llm.Client, in Input, opt Options) HumanResult {
	opt = opt.norm()
	res := invoke(ctx, c, StageHuman, humanPrompt, in, opt)
	if !res.OK {
		return HumanResult{Score: classify.FallbackScore(StageHuman, opt.FallbackScore, "human reasoning unavailable")}
	}
	value := clampScore(res.Number("human_score", opt.FallbackScore))
	score, err := classify.NewAgentScore(StageHuman, value, res.Number("confidence", 0.8), res.Text("explanation", ""))
	if err != nil {
		return HumanResult{Score: classify.FallbackScore(StageHuman, opt.FallbackScore, err.Error())}
	}
	return HumanResult{Score: score, Reasoning: stringMap(res.Value["reasoning"])}
}

func stringMap(v any) map[string]string {
	m, ok := v.(map[string]any)
	if !ok {
		return nil
	}
	out := make(map[string]string, len(m))
	for k, vv := range m {
		if s, ok := vv.(string); ok {
			out[k] = s
		}
	}
	return out
}
