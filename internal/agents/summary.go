package agents

import (
	"context"
	"strings"
	"unicode/utf8"

	"newsgrade/internal/llm"
)

const StageSummary = "summary_agent"

type SummaryResult struct {
	Title    string
	Summary  string
	Fallback bool
}

// Summarize produces the title/summary pair carried into the final
// classification. On failure the original title and a leading excerpt of
// the content stand in.
func Summarize(ctx context.Context, c llm.Client, in Input, opt Options) SummaryResult {
	opt = opt.norm()
	res := invoke(ctx, c, StageSummary, summaryPrompt, in, opt)
	if !res.OK {
		return SummaryResult{Title: in.Title, Summary: excerpt(in.Content, 200), Fallback: true}
	}
	return SummaryResult{
		Title:   res.Text("title", in.Title),
		Summary: res.Text("summary", excerpt(in.Content, 200)),
	}
}

func excerpt(s string, max int) string {
	s = strings.TrimSpace(s)
	if len(s) <= max {
		return s
	}
	for max > 0 && !utf8.RuneStart(s[max]) {
		max--
	}
	cut := s[:max]
	if idx := strings.LastIndex(cut, " "); idx > max/2 {
		cut = cut[:idx]
	}
	return cut + "…"
}
