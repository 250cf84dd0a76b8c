package agents

import (
	"context"

	"newsgrade/internal/classify"
	"newsgrade/internal/llm"
	"newsgrade/internal/weights"
)

const StageReflective = weights.ReflectiveValidator

type ReflectiveResult struct {
	Score               classify.AgentScore
	ProcessIssues       []string
	SuggestedAdjustment float64
}

// ValidateReflectively audits how coherent the evaluation so far looks.
// The sub-scores collected earlier ride along in the input summary field.
func ValidateReflectively(ctx context.Context, c llm.Client, in Input, opt Options) ReflectiveResult {
	opt = opt.norm()
	res := invoke(ctx, c, StageReflective, reflectivePrompt, in, opt)
	if !res.OK {
		return ReflectiveResult{Score: classify.FallbackScore(StageReflective, opt.FallbackScore, "reflective validation unavailable")}
	}
	value := clampScore(res.Number("reflective_score", opt.FallbackScore))
	score, err := classify.NewAgentScore(StageReflective, value, res.Number("confidence", 0.8), "")
	if err != nil {
		return ReflectiveResult{Score: classify.FallbackScore(StageReflective, opt.FallbackScore, err.Error())}
	}
	return ReflectiveResult{
		Score:               score,
		ProcessIssues:       stringList(res.Value["process_issues"]),
		SuggestedAdjustment: res.Number("suggested_adjustment", 0.0),
	}
}
