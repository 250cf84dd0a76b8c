package classify

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// Status is the article's lifecycle state. Terminal states are exactly
// Classified, Skipped, and Errored; every terminal article carries a reason.
type Status string

const (
	StatusPending    Status = "pending"
	StatusProcessing Status = "processing"
	StatusClassified Status = "classified"
	StatusSkipped    Status = "skipped"
	StatusErrored    Status = "error"
)

// ContentType drives content-type score ceilings during consolidation.
type ContentType string

const (
	ContentNews     ContentType = "news_article"
	ContentBlog     ContentType = "blog_post"
	ContentPress    ContentType = "press_release"
	ContentResearch ContentType = "research_paper"
	ContentOpinion  ContentType = "opinion"
	ContentTweet    ContentType = "tweet"
	ContentChart    ContentType = "chart_analysis"
	ContentUnknown  ContentType = "unknown"
)

// ErrInvalidArticle wraps all required-input failures detected before the
// pipeline runs.
var ErrInvalidArticle = errors.New("invalid article")

// Article is the aggregate the pipeline mutates while a run is in flight.
// One run owns one article exclusively; there is no cross-run sharing.
type Article struct {
	ID          string                `json:"id"`
	URL         string                `json:"url"`
	Title       string                `json:"title"`
	Content     string                `json:"content"`
	Description string                `json:"description,omitempty"`
	ContentType ContentType           `json:"content_type"`
	Status      Status                `json:"status"`
	Scores      map[string]AgentScore `json:"scores"`
	Result      *Classification       `json:"classification,omitempty"`
	CreatedAt   time.Time             `json:"created_at"`
	ProcessedAt *time.Time            `json:"processed_at,omitempty"`
	Metadata    map[string]any        `json:"metadata"`
}

// NewArticle validates required input up front. Malformed input is the one
// fatal per-article error class; everything later degrades gracefully.
func NewArticle(id, url, title, content string) (*Article, error) {
	if strings.TrimSpace(id) == "" {
		return nil, fmt.Errorf("%w: id is required", ErrInvalidArticle)
	}
	if strings.TrimSpace(url) == "" {
		return nil, fmt.Errorf("%w: url is required", ErrInvalidArticle)
	}
	if strings.TrimSpace(title) == "" {
		return nil, fmt.Errorf("%w: title is required", ErrInvalidArticle)
	}
	if len(strings.TrimSpace(content)) < 10 {
		return nil, fmt.Errorf("%w: content must be at least 10 characters", ErrInvalidArticle)
	}
	return &Article{
		ID:          id,
		URL:         url,
		Title:       title,
		Content:     content,
		ContentType: DetectContentType(content),
		Status:      StatusPending,
		Scores:      make(map[string]AgentScore),
		CreatedAt:   time.Now(),
		Metadata:    make(map[string]any),
	}, nil
}

// DetectContentType guesses the content type from textual markers. First
// match wins; press-release markers take priority because they also drive
// the spam-filter override.
func DetectContentType(content string) ContentType {
	lower := strings.ToLower(content)
	contains := func(markers ...string) bool {
		for _, m := range markers {
			if strings.Contains(lower, m) {
				return true
			}
		}
		return false
	}
	switch {
	case contains("press release", "business wire", "pr newswire"):
		return ContentPress
	case contains("research", "study", "analysis", "report"):
		return ContentResearch
	case contains("opinion", "editorial", "commentary"):
		return ContentOpinion
	case contains("blog", "post", "author:"):
		return ContentBlog
	case contains("news", "breaking", "reported", "announced"):
		return ContentNews
	default:
		return ContentUnknown
	}
}

// AddScore records one agent's score. A stage writes its field exactly once
// per article.
func (a *Article) AddScore(agentName string, score AgentScore) {
	a.Scores[agentName] = score
}

// SetClassification freezes the final result and moves the article to its
// terminal classified state.
func (a *Article) SetClassification(c Classification) {
	a.Result = &c
	a.Status = StatusClassified
	now := time.Now()
	a.ProcessedAt = &now
}

// MarkSkipped terminates the run for a business rule, not an error.
func (a *Article) MarkSkipped(reason string) {
	a.Status = StatusSkipped
	a.Metadata["skip_reason"] = reason
	now := time.Now()
	a.ProcessedAt = &now
}

// MarkErrored terminates the run with a defect; the message is preserved for
// diagnostics.
func (a *Article) MarkErrored(msg string) {
	a.Status = StatusErrored
	a.Metadata["error"] = msg
	now := time.Now()
	a.ProcessedAt = &now
}

// Terminal reports whether the article has left the processing state.
func (a *Article) Terminal() bool {
	return a.Status == StatusClassified || a.Status == StatusSkipped || a.Status == StatusErrored
}

// StatusReason returns the human-readable reason attached to the terminal
// state, or "" while the article is still live.
func (a *Article) StatusReason() string {
	switch a.Status {
	case StatusSkipped:
		if r, ok := a.Metadata["skip_reason"].(string); ok {
			return r
		}
	case StatusErrored:
		if r, ok := a.Metadata["error"].(string); ok {
			return r
		}
	case StatusClassified:
		return "classified"
	}
	return ""
}

func (a *Article) WordCount() int { return len(strings.Fields(a.Content)) }

// FinalScore returns the consolidated score when classified.
func (a *Article) FinalScore() (float64, bool) {
	if a.Result == nil {
		return 0, false
	}
	return a.Result.FinalScore, true
}
