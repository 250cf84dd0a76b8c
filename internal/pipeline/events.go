package pipeline

import "time"

// Event types published to the sink.
const (
	EventArticleStarted = "article_started"
	EventStageDone      = "stage_done"
	EventArticleDone    = "article_done"
)

// Event is one progress notification. Score is only meaningful for
// stage_done events of scoring stages and for article_done.
type Event struct {
	Type      string    `json:"type"`
	ArticleID string    `json:"article_id"`
	Stage     string    `json:"stage,omitempty"`
	Status    string    `json:"status,omitempty"`
	Score     float64   `json:"score,omitempty"`
	Time      time.Time `json:"time"`
}

// EventSink receives progress events. Publish must not block the pipeline;
// implementations drop rather than stall.
type EventSink interface {
	Publish(Event)
}

type nopSink struct{}

func (nopSink) Publish(Event) {}
