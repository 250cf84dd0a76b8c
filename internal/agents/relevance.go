package agents

import (
	"context"

	"newsgrade/internal/classify"
	"newsgrade/internal/llm"
	"newsgrade/internal/weights"
)

const StageRelevance = weights.RelevanceAnalyzer

type RelevanceResult struct {
	Score            classify.AgentScore
	IndustryChanging bool
}

func AnalyzeRelevance(ctx context.Context, c llm.Client, in Input, opt Options) RelevanceResult {
	opt = opt.norm()
	res := invoke(ctx, c, StageRelevance, relevancePrompt, in, opt)
	if !res.OK {
		return RelevanceResult{Score: classify.FallbackScore(StageRelevance, opt.FallbackScore, "relevance analysis unavailable")}
	}
	value := clampScore(res.Number("relevance_score", opt.FallbackScore))
	score, err := classify.NewAgentScore(StageRelevance, value, res.Number("confidence", 0.8), res.Text("explanation", ""))
	if err != nil {
		return RelevanceResult{Score: classify.FallbackScore(StageRelevance, opt.FallbackScore, err.Error())}
	}
	return RelevanceResult{Score: score, IndustryChanging: res.Flag("industry_changing", false)}
}
