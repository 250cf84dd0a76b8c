package pipeline

import (
	"context"
	"log"
	"sync"

	"newsgrade/internal/classify"
)

// ResultStore persists one article's final state. Implementations are not
// required to be concurrency-safe; the batch runner serializes writes.
type ResultStore interface {
	Save(ctx context.Context, a *classify.Article) error
}

// Batch runs many articles through a shared Runner with bounded
// parallelism. All store writes go through a single writer goroutine, so
// the duplicate memory and the result store never see concurrent access.
type Batch struct {
	Runner      *Runner
	Store       ResultStore // optional
	Concurrency int
}

// Summary counts terminal outcomes of one batch.
type Summary struct {
	Classified int
	Skipped    int
	Errored    int
	Incomplete int
}

// Process runs the batch. On cancellation, in-flight articles stop at
// their next stage boundary and are still handed to the writer so partial
// state persists; they count as Incomplete in the summary.
func (b *Batch) Process(ctx context.Context, articles []*classify.Article) Summary {
	conc := b.Concurrency
	if conc < 1 {
		conc = 1
	}

	done := make(chan *classify.Article, len(articles))
	var wg sync.WaitGroup
	sem := make(chan struct{}, conc)

	for _, a := range articles {
		wg.Add(1)
		go func(a *classify.Article) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()
			b.Runner.Run(ctx, a)
			done <- a
		}(a)
	}

	go func() {
		wg.Wait()
		close(done)
	}()

	// Single-writer loop: persistence and duplicate-memory appends happen
	// here only, in completion order.
	var sum Summary
	for a := range done {
		switch a.Status {
		case classify.StatusClassified:
			sum.Classified++
			if b.Runner.Duplicates != nil {
				if err := b.Runner.Duplicates.Remember(context.WithoutCancel(ctx), a); err != nil {
					log.Printf("duplicate memory append failed for %s: %v", a.ID, err)
				}
			}
		case classify.StatusSkipped:
			sum.Skipped++
		case classify.StatusErrored:
			sum.Errored++
		default:
			sum.Incomplete++
		}
		if b.Store != nil {
			if err := b.Store.Save(context.WithoutCancel(ctx), a); err != nil {
				log.Printf("save failed for %s: %v", a.ID, err)
			}
		}
	}
	return sum
}
