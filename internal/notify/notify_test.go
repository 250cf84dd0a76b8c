package notify

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"unicode/utf8"

	"newsgrade/internal/classify"
)

func TestWebhookPostsPayload(t *testing.T) {
	var got Payload
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Content-Type") != "application/json" {
			t.Errorf("content type = %q", r.Header.Get("Content-Type"))
		}
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("decode body: %v", err)
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	a, err := classify.NewArticle("a1", "https://example.com/a1", "ETF flows", "long enough content body")
	if err != nil {
		t.Fatal(err)
	}
	c, err := classify.FromScore(7.1, "summary", "rationale", 0.85, nil, nil)
	if err != nil {
		t.Fatal(err)
	}
	a.SetClassification(c)

	if err := NewWebhook(srv.URL).Notify(context.Background(), a); err != nil {
		t.Fatalf("Notify: %v", err)
	}
	if got.ArticleID != "a1" || got.FinalScore != 7.1 || got.Category != "Excellent" {
		t.Fatalf("payload mismatch: %+v", got)
	}
}

func TestWebhookRejectsErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusBadGateway)
	}))
	defer srv.Close()

	a, _ := classify.NewArticle("a1", "https://example.com/a1", "Title", "long enough content body")
	c, _ := classify.FromScore(5.0, "s", "r", 0.5, nil, nil)
	a.SetClassification(c)

	if err := NewWebhook(srv.URL).Notify(context.Background(), a); err == nil {
		t.Fatal("non-2xx response must surface as an error")
	}
}

func TestTruncateRespectsRuneBoundaries(t *testing.T) {
	// The leading byte shifts the three-byte runes off the limit boundary.
	long := "x" + strings.Repeat("₿", 150)
	got := truncate(long, rationaleLimit)
	if !utf8.ValidString(got) {
		t.Fatalf("truncate split a rune: %q", got)
	}
	if !strings.HasSuffix(got, "…") {
		t.Fatalf("missing ellipsis: %q", got)
	}
}

func TestWebhookRequiresClassification(t *testing.T) {
	a, _ := classify.NewArticle("a1", "https://example.com/a1", "Title", "long enough content body")
	if err := NewWebhook("http://localhost:0").Notify(context.Background(), a); err == nil {
		t.Fatal("unclassified article must be rejected")
	}
}
