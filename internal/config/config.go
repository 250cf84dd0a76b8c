// Package config assembles runtime configuration from flags and the
// environment. A .env file is honored when present; flags win over env.
package config

import (
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"

	"newsgrade/internal/archive"
)

// Config is everything cmd/classify needs to wire the pipeline.
type Config struct {
	Provider    string // gemini | groq | fake
	Model       string
	InputPath   string
	OutDir      string
	Concurrency int
	Profile     string
	ProfileFile string

	MonitorAddr string // empty disables the monitor server
	PostgresDSN string // empty selects the JSON-file stores
	WebhookURL  string // empty disables notifications
	DupMemPath  string

	Archive archive.S3Config
	S3      bool
}

// Load parses flags and the environment. Call once from main.
func Load() (*Config, error) {
	_ = godotenv.Load()

	provider := flag.String("provider", envDefault("LLM_PROVIDER", "gemini"), "LLM provider: gemini, groq, or fake")
	model := flag.String("model", envDefault("LLM_MODEL", "gemini-2.5-flash"), "model id")
	input := flag.String("in", "", "path to the input JSON file of raw articles")
	outDir := flag.String("out", "out", "output directory")
	concurrency := flag.Int("concurrency", envInt("CLASSIFY_CONCURRENCY", 4), "parallel per-article runs")
	profile := flag.String("profile", envDefault("WEIGHT_PROFILE", "default"), "weight profile name")
	profileFile := flag.String("profiles", os.Getenv("WEIGHT_PROFILE_FILE"), "optional YAML file with extra weight profiles")
	monitorAddr := flag.String("monitor", os.Getenv("MONITOR_ADDR"), "address for the live-progress server, e.g. :8090")
	pgDSN := flag.String("pg", os.Getenv("DATABASE_URL"), "Postgres DSN; empty keeps JSON-file storage")
	webhook := flag.String("webhook", os.Getenv("NOTIFY_WEBHOOK_URL"), "webhook URL for finished classifications")
	dupPath := flag.String("dupmem", envDefault("DUPMEM_PATH", "out/dupmem.json"), "duplicate-memory JSON file")
	useS3 := flag.Bool("s3", envBool("ARCHIVE_S3", false), "archive full article JSON to S3-compatible storage")
	flag.Parse()

	if *input == "" {
		return nil, fmt.Errorf("-in is required")
	}
	if *concurrency < 1 {
		return nil, fmt.Errorf("-concurrency must be at least 1")
	}

	cfg := &Config{
		Provider:    strings.ToLower(strings.TrimSpace(*provider)),
		Model:       *model,
		InputPath:   *input,
		OutDir:      *outDir,
		Concurrency: *concurrency,
		Profile:     *profile,
		ProfileFile: *profileFile,
		MonitorAddr: *monitorAddr,
		PostgresDSN: *pgDSN,
		WebhookURL:  *webhook,
		DupMemPath:  *dupPath,
		S3:          *useS3,
	}
	if cfg.S3 {
		cfg.Archive = archive.S3Config{
			Endpoint:  firstNonEmpty(os.Getenv("ARCHIVE_S3_ENDPOINT"), "minio:9000"),
			Region:    firstNonEmpty(os.Getenv("ARCHIVE_S3_REGION"), "us-east-1"),
			AccessKey: firstNonEmpty(os.Getenv("ARCHIVE_S3_ACCESS_KEY"), os.Getenv("MINIO_ROOT_USER")),
			SecretKey: firstNonEmpty(os.Getenv("ARCHIVE_S3_SECRET_KEY"), os.Getenv("MINIO_ROOT_PASSWORD")),
			Bucket:    firstNonEmpty(os.Getenv("ARCHIVE_S3_BUCKET"), "newsgrade-archive"),
			UseSSL:    envBool("ARCHIVE_S3_USE_SSL", false),
		}
	}
	return cfg, nil
}

func envDefault(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}

func envInt(key string, def int) int {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

func envBool(key string, def bool) bool {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return def
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return strings.TrimSpace(v)
		}
	}
	return ""
}
