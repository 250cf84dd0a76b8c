package dupmem

import (
	"context"
	"database/sql"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	_ "github.com/jackc/pgx/v5/stdlib"
)

// PostgresBackend keeps the record set in a single table, for deployments
// where several runs share one duplicate memory.
type PostgresBackend struct {
	db *sql.DB
	sb sq.StatementBuilderType
}

const dupSchema = `
CREATE TABLE IF NOT EXISTS duplicate_memory (
    id                TEXT PRIMARY KEY,
    url               TEXT NOT NULL,
    ts                TIMESTAMPTZ NOT NULL,
    title_excerpt     TEXT NOT NULL,
    paragraph_excerpt TEXT NOT NULL,
    content_hash      TEXT NOT NULL,
    word_count        INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS duplicate_memory_hash_idx ON duplicate_memory (content_hash);
`

// OpenPostgresBackend connects and ensures the schema exists.
func OpenPostgresBackend(ctx context.Context, dsn string) (*PostgresBackend, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("dupmem: open postgres: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("dupmem: ping postgres: %w", err)
	}
	if _, err := db.ExecContext(ctx, dupSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("dupmem: ensure schema: %w", err)
	}
	return &PostgresBackend{
		db: db,
		sb: sq.StatementBuilder.PlaceholderFormat(sq.Dollar),
	}, nil
}

func (b *PostgresBackend) Load(ctx context.Context) ([]Record, error) {
	q := b.sb.Select("id", "url", "ts", "title_excerpt", "paragraph_excerpt", "content_hash", "word_count").
		From("duplicate_memory").
		OrderBy("ts ASC")
	rows, err := q.RunWith(b.db).QueryContext(ctx)
	if err != nil {
		return nil, fmt.Errorf("dupmem: load: %w", err)
	}
	defer rows.Close()

	var records []Record
	for rows.Next() {
		var r Record
		if err := rows.Scan(&r.ID, &r.URL, &r.Timestamp, &r.TitleExcerpt, &r.ParagraphExcerpt, &r.ContentHash, &r.WordCount); err != nil {
			return nil, err
		}
		records = append(records, r)
	}
	return records, rows.Err()
}

func (b *PostgresBackend) Append(ctx context.Context, r Record) error {
	_, err := b.sb.Insert("duplicate_memory").
		Columns("id", "url", "ts", "title_excerpt", "paragraph_excerpt", "content_hash", "word_count").
		Values(r.ID, r.URL, r.Timestamp, r.TitleExcerpt, r.ParagraphExcerpt, r.ContentHash, r.WordCount).
		Suffix("ON CONFLICT (id) DO NOTHING").
		RunWith(b.db).ExecContext(ctx)
	if err != nil {
		return fmt.Errorf("dupmem: append %s: %w", r.ID, err)
	}
	return nil
}

// Replace rewrites the whole set; pruning uses it after dropping expired
// records.
func (b *PostgresBackend) Replace(ctx context.Context, records []Record) error {
	tx, err := b.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, "DELETE FROM duplicate_memory"); err != nil {
		return fmt.Errorf("dupmem: clear: %w", err)
	}
	for _, r := range records {
		_, err := b.sb.Insert("duplicate_memory").
			Columns("id", "url", "ts", "title_excerpt", "paragraph_excerpt", "content_hash", "word_count").
			Values(r.ID, r.URL, r.Timestamp, r.TitleExcerpt, r.ParagraphExcerpt, r.ContentHash, r.WordCount).
			RunWith(tx).ExecContext(ctx)
		if err != nil {
			return fmt.Errorf("dupmem: reinsert %s: %w", r.ID, err)
		}
	}
	return tx.Commit()
}

func (b *PostgresBackend) Close() error { return b.db.Close() }
