package consolidate

import (
	"fmt"

	"newsgrade/internal/classify"
)

// typeCeilings are plausibility ceilings per content type. Exceeding one
// does not change the score; it flags the result for review.
var typeCeilings = map[classify.ContentType]float64{
	classify.ContentTweet:    5.5,
	classify.ContentBlog:     8.0,
	classify.ContentResearch: 10.0,
	classify.ContentNews:     7.0,
}

// pitfall is one row of the declarative plausibility table: a predicate
// over the inputs and final score, and the warning it emits.
type pitfall struct {
	applies func(in Inputs, score float64) bool
	message func(in Inputs, score float64) string
}

var pitfalls = []pitfall{
	{
		applies: func(in Inputs, score float64) bool {
			ceiling, ok := typeCeilings[in.ContentType]
			return ok && score > ceiling
		},
		message: func(in Inputs, score float64) string {
			return fmt.Sprintf("score %.1f exceeds the %.1f ceiling for %s content", score, typeCeilings[in.ContentType], in.ContentType)
		},
	},
	{
		applies: func(in Inputs, score float64) bool {
			return in.DepthLevel == "basic" && score > 5.0
		},
		message: func(in Inputs, score float64) string {
			return fmt.Sprintf("score %.1f with only basic analytical depth", score)
		},
	},
	{
		applies: func(in Inputs, score float64) bool {
			return score >= 7.0 && len(in.TechnicalElements) == 0
		},
		message: func(in Inputs, score float64) string {
			return fmt.Sprintf("score %.1f without technical elements to justify it", score)
		},
	},
	{
		applies: func(in Inputs, score float64) bool {
			return score >= 9.0 && !in.IndustryChanging
		},
		message: func(in Inputs, score float64) string {
			return fmt.Sprintf("score %.1f without an industry-changing development", score)
		},
	},
}

// checkPitfalls runs every table row; each violation appends a warning.
// Any violation at all marks the result for human review.
func checkPitfalls(in Inputs, score float64) ([]string, bool) {
	var warnings []string
	for _, p := range pitfalls {
		if p.applies(in, score) {
			warnings = append(warnings, p.message(in, score))
		}
	}
	return warnings, len(warnings) > 0
}
