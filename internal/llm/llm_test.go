package llm

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"
)

func TestStageFromDefaultsToUnknown(t *testing.T) {
	if got := StageFrom(context.Background()); got != "unknown" {
		t.Fatalf("StageFrom = %q, want unknown", got)
	}
	ctx := WithStage(context.Background(), "fact_checker")
	if got := StageFrom(ctx); got != "fact_checker" {
		t.Fatalf("StageFrom = %q", got)
	}
}

type recordingHook struct {
	before, after int
	lastErr       error
}

func (h *recordingHook) Before(_ context.Context, stage, prompt string, input any) { h.before++ }
func (h *recordingHook) After(_ context.Context, stage string, raw json.RawMessage, err error) {
	h.after++
	h.lastErr = err
}

func TestHookObservesCalls(t *testing.T) {
	fake := NewFakeClient()
	hook := &recordingHook{}
	c := WithHook(fake, hook)

	ctx := WithStage(context.Background(), "fact_checker")
	if _, err := c.GenerateJSON(ctx, "p", nil); err != nil {
		t.Fatalf("GenerateJSON: %v", err)
	}
	if HookFrom(ctx) != nil {
		t.Fatal("hook must not leak into the caller's context")
	}

	fake.FailStage("fact_checker", errors.New("down"))
	if _, err := c.GenerateJSON(ctx, "p", nil); err == nil {
		t.Fatal("expected forced failure")
	}
	if hook.before != 2 || hook.after != 2 {
		t.Fatalf("hook counts = %d/%d, want 2/2", hook.before, hook.after)
	}
	if hook.lastErr == nil {
		t.Fatal("hook missed the failure")
	}
}

func TestFakeClientCountsCalls(t *testing.T) {
	fake := NewFakeClient()
	ctx := WithStage(context.Background(), "human_reasoning")
	for i := 0; i < 3; i++ {
		if _, err := fake.GenerateJSON(ctx, "p", nil); err != nil {
			t.Fatalf("GenerateJSON: %v", err)
		}
	}
	if got := fake.Calls("human_reasoning"); got != 3 {
		t.Fatalf("Calls = %d, want 3", got)
	}
}

func TestPermanentErrorDetection(t *testing.T) {
	base := errors.New("context too long")
	wrapped := NewPermanentError(base)
	if !IsPermanent(wrapped) {
		t.Fatal("IsPermanent must see the wrapper")
	}
	if !errors.Is(wrapped, base) {
		t.Fatal("wrapped error must unwrap to the original")
	}
	if IsPermanent(base) {
		t.Fatal("plain errors are not permanent")
	}
}

func TestRetryStopsOnPermanentError(t *testing.T) {
	calls := 0
	_, err := generateWithRetry(context.Background(), 3, time.Millisecond, func() (json.RawMessage, error) {
		calls++
		return nil, NewPermanentError(errors.New("request exceeds context window"))
	})
	if calls != 1 {
		t.Fatalf("calls = %d, want 1", calls)
	}
	if !IsPermanent(err) {
		t.Fatalf("returned error lost the permanent marker: %v", err)
	}
}

func TestRetryRecoversFromTransientError(t *testing.T) {
	calls := 0
	raw, err := generateWithRetry(context.Background(), 3, time.Millisecond, func() (json.RawMessage, error) {
		calls++
		if calls < 3 {
			return nil, errors.New("flaky upstream")
		}
		return json.RawMessage(`{"ok":true}`), nil
	})
	if err != nil {
		t.Fatalf("generateWithRetry: %v", err)
	}
	if calls != 3 {
		t.Fatalf("calls = %d, want 3", calls)
	}
	if len(raw) == 0 {
		t.Fatal("missing payload")
	}
}

func TestRetryExhaustsAttempts(t *testing.T) {
	calls := 0
	_, err := generateWithRetry(context.Background(), 3, time.Millisecond, func() (json.RawMessage, error) {
		calls++
		return nil, errors.New("still down")
	})
	if calls != 3 {
		t.Fatalf("calls = %d, want 3", calls)
	}
	if err == nil {
		t.Fatal("expected the last error back")
	}
}

func TestRPSLimiterHonorsCancel(t *testing.T) {
	l := newRPSLimiter(0.001, 1)
	defer l.Stop()
	if err := l.Acquire(context.Background()); err != nil {
		t.Fatalf("initial token: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	if err := l.Acquire(ctx); err == nil {
		t.Fatal("Acquire must fail once the context expires")
	}
}
