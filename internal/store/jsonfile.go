// Package store persists pipeline results. The JSON-file flavor is the
// default; Postgres serves deployments where results feed other systems.
package store

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"newsgrade/internal/classify"
)

// JSONFileStore writes one file per article into a directory. Writes are
// temp-file-and-rename so readers never see partial JSON. The batch
// runner serializes calls; the store itself does no locking.
type JSONFileStore struct {
	dir string
}

func NewJSONFileStore(dir string) (*JSONFileStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("store: create %s: %w", dir, err)
	}
	return &JSONFileStore{dir: dir}, nil
}

func (s *JSONFileStore) Save(ctx context.Context, a *classify.Article) error {
	data, err := json.MarshalIndent(a, "", "  ")
	if err != nil {
		return fmt.Errorf("store: marshal %s: %w", a.ID, err)
	}
	path := filepath.Join(s.dir, a.ID+".json")
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("store: write %s: %w", tmp, err)
	}
	return os.Rename(tmp, path)
}

// Load reads one saved article back by id.
func (s *JSONFileStore) Load(ctx context.Context, id string) (*classify.Article, error) {
	data, err := os.ReadFile(filepath.Join(s.dir, id+".json"))
	if err != nil {
		return nil, fmt.Errorf("store: read %s: %w", id, err)
	}
	var a classify.Article
	if err := json.Unmarshal(data, &a); err != nil {
		return nil, fmt.Errorf("store: parse %s: %w", id, err)
	}
	return &a, nil
}

// List returns the ids of every saved article.
func (s *JSONFileStore) List(ctx context.Context) ([]string, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, err
	}
	var ids []string
	for _, e := range entries {
		name := e.Name()
		if filepath.Ext(name) == ".json" {
			ids = append(ids, name[:len(name)-len(".json")])
		}
	}
	return ids, nil
}

func (s *JSONFileStore) Close() error { return nil }
