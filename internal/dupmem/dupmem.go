// Package dupmem remembers recently classified articles and answers
// whether a new one is a re-run of something already seen. Matching is
// exact (hash of normalized content) or fuzzy (word-set similarity over
// title and opening paragraph).
package dupmem

import (
	"context"
	"crypto/md5"
	"encoding/hex"
	"regexp"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	lru "github.com/hashicorp/golang-lru/v2"

	"newsgrade/internal/classify"
)

// Record is one remembered article. Excerpts are bounded so the memory
// file stays small regardless of article size.
type Record struct {
	ID               string    `json:"id"`
	URL              string    `json:"url"`
	Timestamp        time.Time `json:"timestamp"`
	TitleExcerpt     string    `json:"title_excerpt"`
	ParagraphExcerpt string    `json:"paragraph_excerpt"`
	ContentHash      string    `json:"content_hash"`
	WordCount        int       `json:"word_count"`
}

// Backend persists the record set. Implementations need not be
// concurrency-safe; Memory serializes all access.
type Backend interface {
	Load(ctx context.Context) ([]Record, error)
	Append(ctx context.Context, r Record) error
	Replace(ctx context.Context, records []Record) error
	Close() error
}

const (
	titleLimit     = 100
	paragraphLimit = 200

	// similarity blend: titles dominate, opening paragraphs confirm
	titleWeight     = 0.6
	paragraphWeight = 0.4

	defaultThreshold = 0.85
	defaultRetention = 7 * 24 * time.Hour
	cacheSize        = 1024
)

// Memory is the duplicate checker. Construct with New and inject it;
// every instance owns its backend exclusively.
type Memory struct {
	mu        sync.Mutex
	backend   Backend
	retention time.Duration
	threshold float64
	hashCache *lru.Cache[string, string]
	records   []Record
	loaded    bool
	now       func() time.Time
}

// Option tunes a Memory.
type Option func(*Memory)

// WithRetention overrides the 7-day pruning window.
func WithRetention(d time.Duration) Option {
	return func(m *Memory) { m.retention = d }
}

// WithThreshold overrides the 0.85 similarity threshold.
func WithThreshold(t float64) Option {
	return func(m *Memory) { m.threshold = t }
}

func withClock(now func() time.Time) Option {
	return func(m *Memory) { m.now = now }
}

func New(backend Backend, opts ...Option) *Memory {
	cache, _ := lru.New[string, string](cacheSize)
	m := &Memory{
		backend:   backend,
		retention: defaultRetention,
		threshold: defaultThreshold,
		hashCache: cache,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// IsDuplicate reports whether the article matches a remembered one, and
// which. Expired records are pruned before matching.
func (m *Memory) IsDuplicate(ctx context.Context, a *classify.Article) (bool, string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.ensure(ctx); err != nil {
		return false, "", err
	}

	hash := contentHash(a.Content)
	if id, ok := m.hashCache.Get(hash); ok {
		return true, id, nil
	}
	for _, r := range m.records {
		if r.ContentHash == hash {
			m.hashCache.Add(hash, r.ID)
			return true, r.ID, nil
		}
	}

	title := wordSet(excerpt(a.Title, titleLimit))
	para := wordSet(excerpt(a.Content, paragraphLimit))
	for _, r := range m.records {
		sim := titleWeight*jaccard(title, wordSet(r.TitleExcerpt)) +
			paragraphWeight*jaccard(para, wordSet(r.ParagraphExcerpt))
		if sim >= m.threshold {
			return true, r.ID, nil
		}
	}
	return false, "", nil
}

// Remember appends the article to the memory.
func (m *Memory) Remember(ctx context.Context, a *classify.Article) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.ensure(ctx); err != nil {
		return err
	}
	r := Record{
		ID:               a.ID,
		URL:              a.URL,
		Timestamp:        m.now(),
		TitleExcerpt:     excerpt(a.Title, titleLimit),
		ParagraphExcerpt: excerpt(a.Content, paragraphLimit),
		ContentHash:      contentHash(a.Content),
		WordCount:        a.WordCount(),
	}
	if err := m.backend.Append(ctx, r); err != nil {
		return err
	}
	m.records = append(m.records, r)
	m.hashCache.Add(r.ContentHash, r.ID)
	return nil
}

func (m *Memory) Close() error { return m.backend.Close() }

// ensure loads the backing set once and prunes expired records.
func (m *Memory) ensure(ctx context.Context) error {
	if !m.loaded {
		records, err := m.backend.Load(ctx)
		if err != nil {
			return err
		}
		m.records = records
		m.loaded = true
	}

	cutoff := m.now().Add(-m.retention)
	kept := m.records[:0]
	for _, r := range m.records {
		if r.Timestamp.After(cutoff) {
			kept = append(kept, r)
		}
	}
	if len(kept) != len(m.records) {
		m.records = kept
		m.hashCache.Purge()
		if err := m.backend.Replace(ctx, kept); err != nil {
			return err
		}
	}
	m.records = kept
	return nil
}

var nonWordRe = regexp.MustCompile(`[^a-z0-9\s]+`)

func normalize(s string) string {
	s = strings.ToLower(s)
	s = nonWordRe.ReplaceAllString(s, " ")
	return strings.Join(strings.Fields(s), " ")
}

func contentHash(content string) string {
	sum := md5.Sum([]byte(normalize(content)))
	return hex.EncodeToString(sum[:])
}

func excerpt(s string, limit int) string {
	s = strings.TrimSpace(s)
	if len(s) <= limit {
		return s
	}
	// Back off to a rune boundary so stored excerpts stay valid UTF-8.
	for limit > 0 && !utf8.RuneStart(s[limit]) {
		limit--
	}
	return s[:limit]
}

func wordSet(s string) map[string]struct{} {
	out := make(map[string]struct{})
	for _, w := range strings.Fields(normalize(s)) {
		out[w] = struct{}{}
	}
	return out
}

func jaccard(a, b map[string]struct{}) float64 {
	if len(a) == 0 && len(b) == 0 {
		return 0
	}
	inter := 0
	for w := range a {
		if _, ok := b[w]; ok {
			inter++
		}
	}
	union := len(a) + len(b) - inter
	if union == 0 {
		return 0
	}
	return float64(inter) / float64(union)
}
