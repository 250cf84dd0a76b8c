package agents

import (
	"context"
	"strings"
	"unicode"

	"newsgrade/internal/classify"
	"newsgrade/internal/llm"
	"newsgrade/internal/weights"
)

const StageStructure = weights.StructureAnalyzer

// structureCeiling is the programmatic cap for shouty text; it applies to
// the LLM score and the fallback alike.
const structureCeiling = 5.0

type StructureResult struct {
	Score  classify.AgentScore
	Capped bool
}

// AnalyzeStructure combines the LLM structure score with deterministic
// heuristics: heavily capitalized text or an excess of !/? caps the score
// regardless of what the model said.
func AnalyzeStructure(ctx context.Context, c llm.Client, in Input, opt Options) StructureResult {
	opt = opt.norm()
	capped := shouty(in.Title, in.Content)

	res := invoke(ctx, c, StageStructure, structurePrompt, in, opt)
	if !res.OK {
		value := opt.FallbackScore
		if capped && value > structureCeiling {
			value = structureCeiling
		}
		return StructureResult{Score: classify.FallbackScore(StageStructure, value, "structure analysis unavailable"), Capped: capped}
	}
	value := clampScore(res.Number("structure_score", opt.FallbackScore))
	if capped && value > structureCeiling {
		value = structureCeiling
	}
	score, err := classify.NewAgentScore(StageStructure, value, res.Number("confidence", 0.8), res.Text("explanation", ""))
	if err != nil {
		return StructureResult{Score: classify.FallbackScore(StageStructure, opt.FallbackScore, err.Error()), Capped: capped}
	}
	return StructureResult{Score: score, Capped: capped}
}

// shouty flags all-caps-heavy text and punctuation abuse.
func shouty(title, content string) bool {
	sample := title + " " + content
	var letters, upper int
	for _, r := range sample {
		if unicode.IsLetter(r) {
			letters++
			if unicode.IsUpper(r) {
				upper++
			}
		}
	}
	if letters > 20 && float64(upper)/float64(letters) > 0.3 {
		return true
	}
	marks := strings.Count(sample, "!") + strings.Count(sample, "?")
	wordsN := len(strings.Fields(sample))
	return marks > 5 && wordsN > 0 && marks*20 > wordsN
}
