package dupmem

import (
	"context"
	"path/filepath"
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"newsgrade/internal/classify"
)

func newArticle(t *testing.T, id, title, content string) *classify.Article {
	t.Helper()
	a, err := classify.NewArticle(id, "https://example.com/"+id, title, content)
	if err != nil {
		t.Fatalf("NewArticle: %v", err)
	}
	return a
}

const bodyA = "Spot bitcoin ETF inflows resumed this week after three weeks of outflows, led by the largest funds and a rebound in basis demand."

func fileMemory(t *testing.T, opts ...Option) *Memory {
	t.Helper()
	path := filepath.Join(t.TempDir(), "dupmem.json")
	return New(NewJSONFileBackend(path), opts...)
}

func TestExactDuplicateRoundTrip(t *testing.T) {
	m := fileMemory(t)
	ctx := context.Background()
	a := newArticle(t, "a1", "ETF flows turn positive", bodyA)

	dup, _, err := m.IsDuplicate(ctx, a)
	if err != nil || dup {
		t.Fatalf("fresh article flagged duplicate: %v %v", dup, err)
	}
	if err := m.Remember(ctx, a); err != nil {
		t.Fatalf("Remember: %v", err)
	}

	// Same content, different punctuation and case: normalization makes
	// the hashes collide.
	b := newArticle(t, "a2", "ETF Flows Turn Positive!", "SPOT BITCOIN etf inflows resumed this week, after three weeks of outflows — led by the largest funds and a rebound in basis demand!!")
	dup, matched, err := m.IsDuplicate(ctx, b)
	if err != nil {
		t.Fatalf("IsDuplicate: %v", err)
	}
	if !dup || matched != "a1" {
		t.Fatalf("near-identical article not matched: dup=%v matched=%q", dup, matched)
	}
}

func TestDistinctArticlesAreNotDuplicates(t *testing.T) {
	m := fileMemory(t)
	ctx := context.Background()
	if err := m.Remember(ctx, newArticle(t, "a1", "ETF flows turn positive", bodyA)); err != nil {
		t.Fatal(err)
	}
	other := newArticle(t, "a2", "Treasury yields spike after auction", "A weak seven year auction pushed treasury yields sharply higher on Thursday as dealers absorbed a larger than usual share of the sale.")
	dup, _, err := m.IsDuplicate(ctx, other)
	if err != nil {
		t.Fatalf("IsDuplicate: %v", err)
	}
	if dup {
		t.Fatal("unrelated article flagged as duplicate")
	}
}

func TestSimilarityMatchWithoutExactHash(t *testing.T) {
	m := fileMemory(t, WithThreshold(0.7))
	ctx := context.Background()
	if err := m.Remember(ctx, newArticle(t, "a1", "Bitcoin ETF inflows resume after outflow streak", bodyA)); err != nil {
		t.Fatal(err)
	}
	// Rewritten lede, same story: hash differs, word sets mostly overlap.
	rewrite := newArticle(t, "a2", "Bitcoin ETF inflows resume after streak of outflows", "Spot bitcoin ETF inflows resumed this week after three weeks of outflows, led by the largest funds and renewed basis demand.")
	dup, matched, err := m.IsDuplicate(ctx, rewrite)
	if err != nil {
		t.Fatalf("IsDuplicate: %v", err)
	}
	if !dup || matched != "a1" {
		t.Fatalf("rewrite not matched: dup=%v matched=%q", dup, matched)
	}
}

func TestRetentionPrunesOldRecords(t *testing.T) {
	current := time.Now()
	clock := func() time.Time { return current }
	path := filepath.Join(t.TempDir(), "dupmem.json")
	m := New(NewJSONFileBackend(path), withClock(clock))
	ctx := context.Background()

	if err := m.Remember(ctx, newArticle(t, "a1", "ETF flows turn positive", bodyA)); err != nil {
		t.Fatal(err)
	}

	// Eight days later the record is outside the window.
	current = current.Add(8 * 24 * time.Hour)
	dup, _, err := m.IsDuplicate(ctx, newArticle(t, "a2", "ETF flows turn positive", bodyA))
	if err != nil {
		t.Fatalf("IsDuplicate: %v", err)
	}
	if dup {
		t.Fatal("expired record still matches")
	}
}

func TestExcerptKeepsRunesWhole(t *testing.T) {
	// 50 three-byte runes put the 100-byte limit inside a rune.
	title := strings.Repeat("€", 50)
	got := excerpt(title, titleLimit)
	if !utf8.ValidString(got) {
		t.Fatalf("excerpt split a rune: %q", got)
	}
	if len(got) > titleLimit {
		t.Fatalf("excerpt length = %d, want <= %d", len(got), titleLimit)
	}
}

func TestMemorySurvivesReload(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dupmem.json")
	ctx := context.Background()

	first := New(NewJSONFileBackend(path))
	if err := first.Remember(ctx, newArticle(t, "a1", "ETF flows turn positive", bodyA)); err != nil {
		t.Fatal(err)
	}

	second := New(NewJSONFileBackend(path))
	dup, matched, err := second.IsDuplicate(ctx, newArticle(t, "a2", "ETF flows turn positive", bodyA))
	if err != nil {
		t.Fatalf("IsDuplicate: %v", err)
	}
	if !dup || matched != "a1" {
		t.Fatalf("reloaded memory lost the record: dup=%v matched=%q", dup, matched)
	}
}
