package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
)

// FakeClient returns deterministic, minimal JSON payloads per stage for
// offline runs and tests. Individual stages can be overridden with a fixed
// score, a raw payload, or a forced error.
type FakeClient struct {
	mu        sync.Mutex
	scores    map[string]float64
	payloads  map[string]json.RawMessage
	failures  map[string]error
	callCount map[string]int
}

func NewFakeClient() *FakeClient {
	return &FakeClient{
		scores:    make(map[string]float64),
		payloads:  make(map[string]json.RawMessage),
		failures:  make(map[string]error),
		callCount: make(map[string]int),
	}
}

func (f *FakeClient) Name() string { return "FakeLLM" }
func (f *FakeClient) Close() error { return nil }

// SetScore fixes the numeric score the fake returns for a stage.
func (f *FakeClient) SetScore(stage string, score float64) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.scores[stage] = score
}

// SetPayload fixes the raw response for a stage, bypassing canned output.
func (f *FakeClient) SetPayload(stage string, raw json.RawMessage) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.payloads[stage] = raw
}

// FailStage makes every call for the stage return err.
func (f *FakeClient) FailStage(stage string, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.failures[stage] = err
}

// Calls reports how many times a stage was invoked.
func (f *FakeClient) Calls(stage string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.callCount[stage]
}

func (f *FakeClient) GenerateJSON(ctx context.Context, prompt string, input any) (json.RawMessage, error) {
	stage := StageFrom(ctx)
	if hook := HookFrom(ctx); hook != nil {
		hook.Before(ctx, stage, prompt, input)
	}
	raw, err := f.generate(stage)
	if hook := HookFrom(ctx); hook != nil {
		hook.After(ctx, stage, raw, err)
	}
	return raw, err
}

func (f *FakeClient) generate(stage string) (json.RawMessage, error) {
	f.mu.Lock()
	f.callCount[stage]++
	if err, ok := f.failures[stage]; ok {
		f.mu.Unlock()
		return nil, err
	}
	if raw, ok := f.payloads[stage]; ok {
		f.mu.Unlock()
		return raw, nil
	}
	score, ok := f.scores[stage]
	f.mu.Unlock()
	if !ok {
		score = 7.0
	}

	var obj any
	switch stage {
	case "summary_agent":
		obj = map[string]any{
			"title":   "fake title",
			"summary": "A concise fake summary of the article for offline runs.",
		}
	case "context_evaluator":
		obj = map[string]any{
			"context_score":    score,
			"reasoning":        "fake context reasoning",
			"quality_category": "Very Good",
			"should_continue":  score >= 3.0,
		}
	case "fact_checker":
		obj = map[string]any{
			"claims":            []any{map[string]any{"text": "fake claim", "veracity": "TRUE"}},
			"cred_impact":       "no impact",
			"credibility_score": score,
		}
	case "depth_analyzer":
		obj = map[string]any{
			"depth_score":        score,
			"depth_level":        "substantial",
			"technical_elements": []string{"on-chain data"},
			"justification":      "fake depth justification",
		}
	case "relevance_analyzer":
		obj = map[string]any{
			"relevance_score":   score,
			"industry_changing": false,
			"explanation":       "fake relevance explanation",
		}
	case "structure_analyzer":
		obj = map[string]any{
			"structure_score": score,
			"explanation":     "fake structure explanation",
		}
	case "historical_reflection":
		adj := 0.0
		if ok {
			adj = score
		}
		obj = map[string]any{
			"historical_adjustment": adj,
			"patterns":              []string{},
			"reasoning":             "no matching historical pattern",
		}
	case "reflective_validator":
		obj = map[string]any{
			"reflective_score":     score,
			"process_issues":       []string{},
			"suggested_adjustment": 0.0,
		}
	case "human_reasoning":
		obj = map[string]any{
			"human_score": score,
			"reasoning": map[string]string{
				"readability":     "high",
				"practical_value": "medium",
				"engagement":      "medium",
				"trust":           "high",
			},
			"explanation": "fake human explanation",
		}
	default:
		return nil, fmt.Errorf("llm: fake client has no payload for stage %q", stage)
	}
	b, _ := json.Marshal(obj)
	return json.RawMessage(b), nil
}
