package agents

import (
	"context"

	"newsgrade/internal/classify"
	"newsgrade/internal/llm"
	"newsgrade/internal/weights"
)

const StageDepth = weights.DepthAnalyzer

type DepthResult struct {
	Score             classify.AgentScore
	Level             string
	TechnicalElements []string
}

// AnalyzeDepth rates analytical substance. Level and technical elements
// feed the consolidation pitfall checks.
func AnalyzeDepth(ctx context.Context, c llm.Client, in Input, opt Options) DepthResult {
	opt = opt.norm()
	res := invoke(ctx, c, StageDepth, depthPrompt, in, opt)
	if !res.OK {
		return DepthResult{Score: classify.FallbackScore(StageDepth, opt.FallbackScore, "depth analysis unavailable"), Level: "basic"}
	}
	value := clampScore(res.Number("depth_score", opt.FallbackScore))
	score, err := classify.NewAgentScore(StageDepth, value, res.Number("confidence", 0.8), res.Text("justification", ""))
	if err != nil {
		return DepthResult{Score: classify.FallbackScore(StageDepth, opt.FallbackScore, err.Error()), Level: "basic"}
	}
	return DepthResult{
		Score:             score,
		Level:             res.Text("depth_level", "basic"),
		TechnicalElements: stringList(res.Value["technical_elements"]),
	}
}

func stringList(v any) []string {
	items, ok := v.([]any)
	if !ok {
		return nil
	}
	out := make([]string, 0, len(items))
	for _, it := range items {
		if s, ok := it.(string); ok && s != "" {
			out = append(out, s)
		}
	}
	return out
}
