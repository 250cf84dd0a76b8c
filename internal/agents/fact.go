package agents

import (
	"context"

	"newsgrade/internal/classify"
	"newsgrade/internal/llm"
	"newsgrade/internal/weights"
)

const StageFact = weights.FactChecker

type FactResult struct {
	Score      classify.AgentScore
	Claims     []Claim
	CredImpact string
}

type Claim struct {
	Text     string `json:"text"`
	Veracity string `json:"veracity"`
}

// CheckFacts scores overall credibility and keeps the per-claim verdicts
// for the rationale.
func CheckFacts(ctx context.Context, c llm.Client, in Input, opt Options) FactResult {
	opt = opt.norm()
	res := invoke(ctx, c, StageFact, factPrompt, in, opt)
	if !res.OK {
		return FactResult{Score: classify.FallbackScore(StageFact, opt.FallbackScore, "fact check unavailable")}
	}
	value := clampScore(res.Number("credibility_score", opt.FallbackScore))
	score, err := classify.NewAgentScore(StageFact, value, res.Number("confidence", 0.8), res.Text("cred_impact", ""))
	if err != nil {
		return FactResult{Score: classify.FallbackScore(StageFact, opt.FallbackScore, err.Error())}
	}
	return FactResult{
		Score:      score,
		Claims:     decodeClaims(res.Value["claims"]),
		CredImpact: res.Text("cred_impact", ""),
	}
}

func decodeClaims(v any) []Claim {
	items, ok := v.([]any)
	if !ok {
		return nil
	}
	out := make([]Claim, 0, len(items))
	for _, it := range items {
		m, ok := it.(map[string]any)
		if !ok {
			continue
		}
		cl := Claim{}
		if s, ok := m["text"].(string); ok {
			cl.Text = s
		}
		if s, ok := m["veracity"].(string); ok {
			cl.Veracity = s
		}
		if cl.Text != "" {
			out = append(out, cl)
		}
	}
	return out
}
