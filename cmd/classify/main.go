package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/google/uuid"

	"newsgrade/internal/archive"
	"newsgrade/internal/classify"
	"newsgrade/internal/config"
	"newsgrade/internal/dupmem"
	"newsgrade/internal/export"
	"newsgrade/internal/llm"
	"newsgrade/internal/monitor"
	"newsgrade/internal/notify"
	"newsgrade/internal/pipeline"
	"newsgrade/internal/store"
	"newsgrade/internal/weights"
)

type rawArticle struct {
	ID          string `json:"id"`
	URL         string `json:"url"`
	Title       string `json:"title"`
	Content     string `json:"content"`
	Description string `json:"description"`
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}
	if err := os.MkdirAll(cfg.OutDir, 0o755); err != nil {
		log.Fatal(err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	client, err := newClient(ctx, cfg)
	if err != nil {
		log.Fatal(err)
	}
	defer client.Close()

	profile, err := loadProfile(cfg)
	if err != nil {
		log.Fatal(err)
	}
	if err := profile.Validate(); err != nil {
		log.Fatal(err)
	}

	memory, err := newDupMemory(ctx, cfg)
	if err != nil {
		log.Fatal(err)
	}
	defer memory.Close()

	var resultStore pipeline.ResultStore
	if cfg.PostgresDSN != "" {
		pg, err := store.OpenPostgresStore(ctx, cfg.PostgresDSN)
		if err != nil {
			log.Fatal(err)
		}
		defer pg.Close()
		resultStore = pg
	} else {
		js, err := store.NewJSONFileStore(filepath.Join(cfg.OutDir, "articles"))
		if err != nil {
			log.Fatal(err)
		}
		resultStore = js
	}

	runner := &pipeline.Runner{
		Client:           client,
		Weights:          profile,
		ConsensusWeights: weights.Consensus(),
		Duplicates:       memory,
	}

	if cfg.MonitorAddr != "" {
		hub := monitor.NewHub()
		srv := monitor.NewServer(cfg.MonitorAddr, hub)
		runner.Events = hub
		go func() {
			if err := srv.Start(); err != nil {
				log.Printf("monitor server: %v", err)
			}
		}()
		defer srv.Shutdown(context.Background())
	}

	articles, invalid := loadArticles(cfg.InputPath)
	log.Printf("loaded %d articles (%d invalid) from %s", len(articles), invalid, cfg.InputPath)

	batch := &pipeline.Batch{Runner: runner, Store: resultStore, Concurrency: cfg.Concurrency}
	sum := batch.Process(ctx, articles)
	log.Printf("batch done: %d classified, %d skipped, %d errored, %d incomplete",
		sum.Classified, sum.Skipped, sum.Errored, sum.Incomplete)

	if err := writeExports(cfg.OutDir, articles); err != nil {
		log.Fatal(err)
	}

	if cfg.WebhookURL != "" {
		hook := notify.NewWebhook(cfg.WebhookURL)
		for _, a := range articles {
			if a.Status != classify.StatusClassified {
				continue
			}
			if err := hook.Notify(ctx, a); err != nil {
				log.Printf("notify %s: %v", a.ID, err)
			}
		}
	}

	if cfg.S3 {
		s3, err := archive.NewS3Store(cfg.Archive)
		if err != nil {
			log.Fatal(err)
		}
		for _, a := range articles {
			if !a.Terminal() {
				continue
			}
			if err := s3.Archive(ctx, a); err != nil {
				log.Printf("archive %s: %v", a.ID, err)
			}
		}
	}
}

func newClient(ctx context.Context, cfg *config.Config) (llm.Client, error) {
	switch cfg.Provider {
	case "gemini":
		apiKey := os.Getenv("GEMINI_API_KEY")
		if apiKey == "" {
			return nil, fmt.Errorf("GEMINI_API_KEY is not set")
		}
		return llm.NewGeminiClient(ctx, apiKey, cfg.Model)
	case "groq":
		apiKey := os.Getenv("GROQ_API_KEY")
		if apiKey == "" {
			return nil, fmt.Errorf("GROQ_API_KEY is not set")
		}
		return llm.NewGroqClient(apiKey, cfg.Model)
	case "fake":
		return llm.NewFakeClient(), nil
	}
	return nil, fmt.Errorf("unknown provider %q", cfg.Provider)
}

// newDupMemory follows the result store: a Postgres DSN moves the
// duplicate memory into the shared table, otherwise it lives in a local
// JSON file. Closing the memory closes the backend.
func newDupMemory(ctx context.Context, cfg *config.Config) (*dupmem.Memory, error) {
	if cfg.PostgresDSN != "" {
		backend, err := dupmem.OpenPostgresBackend(ctx, cfg.PostgresDSN)
		if err != nil {
			return nil, err
		}
		return dupmem.New(backend), nil
	}
	return dupmem.New(dupmem.NewJSONFileBackend(cfg.DupMemPath)), nil
}

func loadProfile(cfg *config.Config) (weights.Config, error) {
	if cfg.ProfileFile != "" {
		profiles, err := weights.LoadFile(cfg.ProfileFile)
		if err != nil {
			return weights.Config{}, err
		}
		if p, ok := profiles[cfg.Profile]; ok {
			return p, nil
		}
	}
	return weights.Builtin(cfg.Profile)
}

func loadArticles(path string) ([]*classify.Article, int) {
	data, err := os.ReadFile(path)
	if err != nil {
		log.Fatal(err)
	}
	var raws []rawArticle
	if err := json.Unmarshal(data, &raws); err != nil {
		log.Fatalf("parse %s: %v", path, err)
	}

	var articles []*classify.Article
	invalid := 0
	for _, r := range raws {
		if r.ID == "" {
			r.ID = uuid.NewString()
		}
		a, err := classify.NewArticle(r.ID, r.URL, r.Title, r.Content)
		if err != nil {
			log.Printf("invalid article %s: %v", r.ID, err)
			invalid++
			continue
		}
		a.Description = r.Description
		articles = append(articles, a)
	}
	return articles, invalid
}

func writeExports(outDir string, articles []*classify.Article) error {
	records := make([]export.Record, 0, len(articles))
	for _, a := range articles {
		records = append(records, export.FromArticle(a))
	}

	csvFile, err := os.Create(filepath.Join(outDir, "results.csv"))
	if err != nil {
		return err
	}
	defer csvFile.Close()
	if err := export.WriteCSV(csvFile, records); err != nil {
		return err
	}

	jsonFile, err := os.Create(filepath.Join(outDir, "results.json"))
	if err != nil {
		return err
	}
	defer jsonFile.Close()
	return export.WriteJSON(jsonFile, records)
}
