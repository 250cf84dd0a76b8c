package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	_ "github.com/jackc/pgx/v5/stdlib"

	"newsgrade/internal/classify"
)

// PostgresStore writes one row per article. Re-saving an id overwrites
// the previous row, so re-runs converge on the latest result.
type PostgresStore struct {
	db *sql.DB
	sb sq.StatementBuilderType
}

const resultSchema = `
CREATE TABLE IF NOT EXISTS classified_articles (
    id            TEXT PRIMARY KEY,
    url           TEXT NOT NULL,
    title         TEXT NOT NULL,
    content_type  TEXT NOT NULL,
    status        TEXT NOT NULL,
    status_reason TEXT NOT NULL DEFAULT '',
    final_score   DOUBLE PRECISION,
    category      TEXT,
    quality       TEXT,
    summary       TEXT,
    rationale     TEXT,
    confidence    DOUBLE PRECISION,
    scores        JSONB NOT NULL DEFAULT '{}',
    warnings      JSONB NOT NULL DEFAULT '[]',
    processed_at  TIMESTAMPTZ
);
`

func OpenPostgresStore(ctx context.Context, dsn string) (*PostgresStore, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("store: open postgres: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("store: ping postgres: %w", err)
	}
	if _, err := db.ExecContext(ctx, resultSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("store: ensure schema: %w", err)
	}
	return &PostgresStore{db: db, sb: sq.StatementBuilder.PlaceholderFormat(sq.Dollar)}, nil
}

func (s *PostgresStore) Save(ctx context.Context, a *classify.Article) error {
	scores, err := json.Marshal(a.Scores)
	if err != nil {
		return fmt.Errorf("store: marshal scores for %s: %w", a.ID, err)
	}

	var (
		finalScore, confidence sql.NullFloat64
		category, quality      sql.NullString
		summary, rationale     sql.NullString
		warnings               = []byte("[]")
	)
	if a.Result != nil {
		finalScore = sql.NullFloat64{Float64: a.Result.FinalScore, Valid: true}
		confidence = sql.NullFloat64{Float64: a.Result.Confidence, Valid: true}
		category = sql.NullString{String: string(a.Result.Category), Valid: true}
		quality = sql.NullString{String: string(a.Result.Quality), Valid: true}
		summary = sql.NullString{String: a.Result.Summary, Valid: true}
		rationale = sql.NullString{String: a.Result.Rationale, Valid: true}
		if w, err := json.Marshal(a.Result.Warnings); err == nil {
			warnings = w
		}
	}

	_, err = s.sb.Insert("classified_articles").
		Columns("id", "url", "title", "content_type", "status", "status_reason",
			"final_score", "category", "quality", "summary", "rationale",
			"confidence", "scores", "warnings", "processed_at").
		Values(a.ID, a.URL, a.Title, string(a.ContentType), string(a.Status), a.StatusReason(),
			finalScore, category, quality, summary, rationale,
			confidence, scores, warnings, a.ProcessedAt).
		Suffix(`ON CONFLICT (id) DO UPDATE SET
			status = EXCLUDED.status,
			status_reason = EXCLUDED.status_reason,
			final_score = EXCLUDED.final_score,
			category = EXCLUDED.category,
			quality = EXCLUDED.quality,
			summary = EXCLUDED.summary,
			rationale = EXCLUDED.rationale,
			confidence = EXCLUDED.confidence,
			scores = EXCLUDED.scores,
			warnings = EXCLUDED.warnings,
			processed_at = EXCLUDED.processed_at`).
		RunWith(s.db).ExecContext(ctx)
	if err != nil {
		return fmt.Errorf("store: save %s: %w", a.ID, err)
	}
	return nil
}

func (s *PostgresStore) Close() error { return s.db.Close() }
