package store

import (
	"context"
	"testing"

	"newsgrade/internal/classify"
)

func TestJSONFileStoreRoundTrip(t *testing.T) {
	s, err := NewJSONFileStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewJSONFileStore: %v", err)
	}
	ctx := context.Background()

	a, err := classify.NewArticle("a1", "https://example.com/a1", "Title", "long enough content body")
	if err != nil {
		t.Fatal(err)
	}
	c, err := classify.FromScore(7.2, "summary", "rationale", 0.9, map[string]float64{"fact_checker": 7.0}, nil)
	if err != nil {
		t.Fatal(err)
	}
	a.SetClassification(c)

	if err := s.Save(ctx, a); err != nil {
		t.Fatalf("Save: %v", err)
	}
	got, err := s.Load(ctx, "a1")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got.Status != classify.StatusClassified || got.Result == nil || got.Result.FinalScore != 7.2 {
		t.Fatalf("round trip lost data: %+v", got)
	}

	ids, err := s.List(ctx)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(ids) != 1 || ids[0] != "a1" {
		t.Fatalf("List = %v", ids)
	}
}

func TestJSONFileStoreOverwrite(t *testing.T) {
	s, err := NewJSONFileStore(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	ctx := context.Background()

	a, _ := classify.NewArticle("a1", "https://example.com/a1", "Title", "long enough content body")
	a.MarkSkipped("too short")
	if err := s.Save(ctx, a); err != nil {
		t.Fatal(err)
	}

	b, _ := classify.NewArticle("a1", "https://example.com/a1", "Title", "long enough content body")
	c, _ := classify.FromScore(6.0, "s", "r", 0.8, nil, nil)
	b.SetClassification(c)
	if err := s.Save(ctx, b); err != nil {
		t.Fatal(err)
	}

	got, err := s.Load(ctx, "a1")
	if err != nil {
		t.Fatal(err)
	}
	if got.Status != classify.StatusClassified {
		t.Fatalf("overwrite did not take: %q", got.Status)
	}
}
