// Package notify pushes finished classifications to external chat via a
// plain JSON webhook. Message formatting beyond this structured payload
// belongs to the receiving side.
package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"
	"unicode/utf8"

	"newsgrade/internal/classify"
)

// Notifier receives terminal articles worth telling someone about.
type Notifier interface {
	Notify(ctx context.Context, a *classify.Article) error
}

// Payload is the wire format POSTed to the webhook.
type Payload struct {
	ArticleID  string   `json:"article_id"`
	Title      string   `json:"title"`
	URL        string   `json:"url"`
	FinalScore float64  `json:"final_score"`
	Category   string   `json:"category"`
	Quality    string   `json:"quality_level"`
	Rationale  string   `json:"rationale"`
	Warnings   []string `json:"warnings,omitempty"`
}

// Webhook posts one JSON payload per article.
type Webhook struct {
	url    string
	client *http.Client
}

func NewWebhook(url string) *Webhook {
	return &Webhook{
		url:    url,
		client: &http.Client{Timeout: 10 * time.Second},
	}
}

const rationaleLimit = 300

func (w *Webhook) Notify(ctx context.Context, a *classify.Article) error {
	if a.Result == nil {
		return fmt.Errorf("notify: article %s has no classification", a.ID)
	}
	p := Payload{
		ArticleID:  a.ID,
		Title:      a.Title,
		URL:        a.URL,
		FinalScore: a.Result.FinalScore,
		Category:   string(a.Result.Category),
		Quality:    string(a.Result.Quality),
		Rationale:  truncate(a.Result.Rationale, rationaleLimit),
		Warnings:   a.Result.Warnings,
	}
	body, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("notify: marshal %s: %w", a.ID, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, w.url, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := w.client.Do(req)
	if err != nil {
		return fmt.Errorf("notify: post %s: %w", a.ID, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		return fmt.Errorf("notify: webhook returned %d for %s", resp.StatusCode, a.ID)
	}
	return nil
}

func truncate(s string, max int) string {
	s = strings.TrimSpace(s)
	if len(s) <= max {
		return s
	}
	for max > 0 && !utf8.RuneStart(s[max]) {
		max--
	}
	return s[:max] + "…"
}
