package agents

import (
	"context"
	"errors"
	"strings"
	"testing"
	"unicode/utf8"

	"newsgrade/internal/llm"
)

var sampleInput = Input{
	Title:   "ETF flows turn positive",
	Content: "Spot bitcoin ETF inflows resumed this week after three weeks of outflows, led by the largest funds.",
}

func TestFactCheckerFailureFallsBack(t *testing.T) {
	fake := llm.NewFakeClient()
	fake.FailStage(StageFact, errors.New("boom"))

	res := CheckFacts(context.Background(), fake, sampleInput, Options{})
	if !res.Score.Fallback {
		t.Fatal("failed fact check must be flagged as fallback")
	}
	if res.Score.Value != 5.0 {
		t.Fatalf("fallback score = %v, want 5.0", res.Score.Value)
	}
	if res.Score.Confidence != 0.0 {
		t.Fatalf("fallback confidence = %v, want 0", res.Score.Confidence)
	}
}

func TestFactCheckerGenuineScore(t *testing.T) {
	fake := llm.NewFakeClient()
	fake.SetScore(StageFact, 8.2)

	res := CheckFacts(context.Background(), fake, sampleInput, Options{})
	if res.Score.Fallback {
		t.Fatal("genuine score must not be flagged")
	}
	if res.Score.Value != 8.2 {
		t.Fatalf("score = %v, want 8.2", res.Score.Value)
	}
	if len(res.Claims) == 0 {
		t.Fatal("claims missing from genuine result")
	}
}

func TestContextEarlyExitThreshold(t *testing.T) {
	fake := llm.NewFakeClient()
	fake.SetScore(StageContext, 2.5)
	res := EvaluateContext(context.Background(), fake, sampleInput, Options{})
	if res.ShouldContinue {
		t.Fatal("score below 3.0 must stop the run")
	}

	fake.SetScore(StageContext, 3.0)
	res = EvaluateContext(context.Background(), fake, sampleInput, Options{})
	if !res.ShouldContinue {
		t.Fatal("score of exactly 3.0 must continue")
	}
}

func TestContextFailureContinues(t *testing.T) {
	fake := llm.NewFakeClient()
	fake.FailStage(StageContext, errors.New("down"))
	res := EvaluateContext(context.Background(), fake, sampleInput, Options{})
	if !res.ShouldContinue {
		t.Fatal("a failed gatekeeper call must not skip the article")
	}
	if !res.Score.Fallback {
		t.Fatal("substituted context score must be flagged")
	}
}

func TestStructureCapOnShoutyText(t *testing.T) {
	fake := llm.NewFakeClient()
	fake.SetScore(StageStructure, 9.0)

	shoutyIn := Input{
		Title:   "HUGE!!! BITCOIN TO THE MOON???",
		Content: "THIS IS ABSOLUTELY MASSIVE NEWS!!! EVERYONE MUST SEE THIS??? UNBELIEVABLE GAINS!!!",
	}
	res := AnalyzeStructure(context.Background(), fake, shoutyIn, Options{})
	if !res.Capped {
		t.Fatal("shouty text must trip the cap")
	}
	if res.Score.Value > 5.0 {
		t.Fatalf("capped score = %v, want <= 5.0", res.Score.Value)
	}

	calm := AnalyzeStructure(context.Background(), fake, sampleInput, Options{})
	if calm.Capped || calm.Score.Value != 9.0 {
		t.Fatalf("calm text must keep the model score, got %+v", calm)
	}
}

func TestHistoricalAdjustmentClamped(t *testing.T) {
	fake := llm.NewFakeClient()
	fake.SetScore(StageHistorical, 4.0)
	res := ReflectHistory(context.Background(), fake, sampleInput, Options{})
	if res.Adjustment != 1.5 {
		t.Fatalf("adjustment = %v, want clamp to 1.5", res.Adjustment)
	}

	fake.FailStage(StageHistorical, errors.New("down"))
	res = ReflectHistory(context.Background(), fake, sampleInput, Options{})
	if res.Adjustment != 0.0 || !res.Fallback {
		t.Fatalf("failed reflection must be neutral fallback, got %+v", res)
	}
}

func TestExcerptRespectsRuneBoundaries(t *testing.T) {
	long := "x" + strings.Repeat("₿", 80)
	got := excerpt(long, 200)
	if !utf8.ValidString(got) {
		t.Fatalf("excerpt split a rune: %q", got)
	}
	if !strings.HasSuffix(got, "…") {
		t.Fatalf("missing ellipsis: %q", got)
	}
}

func TestSummaryFallbackUsesExcerpt(t *testing.T) {
	fake := llm.NewFakeClient()
	fake.FailStage(StageSummary, errors.New("down"))
	res := Summarize(context.Background(), fake, sampleInput, Options{})
	if !res.Fallback || res.Title != sampleInput.Title || res.Summary == "" {
		t.Fatalf("unexpected summary fallback: %+v", res)
	}
}
