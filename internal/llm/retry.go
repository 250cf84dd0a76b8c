package llm

import (
	"context"
	"encoding/json"
	"time"
)

// generateWithRetry runs fn until it succeeds or attempts are spent, with
// exponential backoff between tries. Permanent errors and context
// cancellation stop the loop immediately.
func generateWithRetry(ctx context.Context, attempts int, backoff time.Duration, fn func() (json.RawMessage, error)) (json.RawMessage, error) {
	var lastErr error
	for attempt := 0; attempt < attempts; attempt++ {
		raw, err := fn()
		if err == nil {
			return raw, nil
		}
		lastErr = err
		if IsPermanent(err) || ctx.Err() != nil {
			break
		}
		if attempt < attempts-1 {
			time.Sleep(backoff << attempt)
		}
	}
	return nil, lastErr
}
