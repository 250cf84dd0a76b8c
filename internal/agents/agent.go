// Package agents implements the scoring stages of the classification
// pipeline: a deterministic preprocessor plus LLM-backed evaluators that
// each make one completion call and decode it leniently. A failed or
// unparsable call never surfaces as an error; the stage substitutes a
// flagged fallback score and the run continues.
package agents

import (
	"context"
	"log"
	"time"

	"newsgrade/internal/jsonutil"
	"newsgrade/internal/llm"
)

// Input is the material handed to every LLM stage.
type Input struct {
	Title   string `json:"title"`
	Content string `json:"content"`
	Summary string `json:"summary,omitempty"`
}

// Options tunes stage behavior. Zero value gets sane defaults via norm().
type Options struct {
	// Timeout bounds each completion call. A timeout is treated exactly
	// like a parse failure.
	Timeout time.Duration
	// FallbackScore replaces a failed absolute score. Adjustment stages
	// always fall back to 0.0 regardless.
	FallbackScore float64
	// ContextFloor is the early-exit threshold for the context stage.
	ContextFloor float64
}

func (o Options) norm() Options {
	if o.Timeout <= 0 {
		o.Timeout = 45 * time.Second
	}
	if o.FallbackScore == 0 {
		o.FallbackScore = 5.0
	}
	if o.ContextFloor == 0 {
		o.ContextFloor = 3.0
	}
	return o
}

// invoke runs one stage call under its own timeout and decodes the reply.
// Transport errors and parse failures both come back as a failed Result.
func invoke(ctx context.Context, c llm.Client, stage, prompt string, in Input, opt Options) jsonutil.Result {
	ctx = llm.WithStage(ctx, stage)
	ctx, cancel := context.WithTimeout(ctx, opt.Timeout)
	defer cancel()

	raw, err := c.GenerateJSON(ctx, prompt, in)
	if err != nil {
		log.Printf("[%s] completion failed: %v", stage, err)
		return jsonutil.Result{Err: err}
	}
	res := jsonutil.Decode(raw)
	if !res.OK {
		log.Printf("[%s] unparsable reply: %v", stage, res.Err)
	}
	return res
}

func clampScore(v float64) float64 {
	if v < 0.1 {
		return 0.1
	}
	if v > 10.0 {
		return 10.0
	}
	return v
}
