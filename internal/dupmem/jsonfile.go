package dupmem

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// JSONFileBackend keeps the record set in a single JSON file. Writes go
// through a temp file and rename so a crash never leaves a half-written
// memory behind.
type JSONFileBackend struct {
	path string
}

func NewJSONFileBackend(path string) *JSONFileBackend {
	return &JSONFileBackend{path: path}
}

func (b *JSONFileBackend) Load(ctx context.Context) ([]Record, error) {
	data, err := os.ReadFile(b.path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("dupmem: read %s: %w", b.path, err)
	}
	var records []Record
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("dupmem: parse %s: %w", b.path, err)
	}
	return records, nil
}

func (b *JSONFileBackend) Append(ctx context.Context, r Record) error {
	records, err := b.Load(ctx)
	if err != nil {
		return err
	}
	return b.Replace(ctx, append(records, r))
}

func (b *JSONFileBackend) Replace(ctx context.Context, records []Record) error {
	if records == nil {
		records = []Record{}
	}
	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(b.path), 0o755); err != nil {
		return err
	}
	tmp := b.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("dupmem: write %s: %w", tmp, err)
	}
	return os.Rename(tmp, b.path)
}

func (b *JSONFileBackend) Close() error { return nil }
