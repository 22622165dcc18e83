package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Load reads configuration from environment variables (optionally .env,
// which takes precedence so a checked-in .env can drive local development
// deterministically), applying spec.md §6's defaults and failing fast if a
// required variable is absent.
func Load() (Config, error) {
	_ = godotenv.Overload()

	cfg := Config{}
	cfg.ProjectID = strings.TrimSpace(os.Getenv("PROJECT_ID"))
	cfg.Location = strings.TrimSpace(os.Getenv("LOCATION"))
	cfg.IndexEndpointID = strings.TrimSpace(os.Getenv("INDEX_ENDPOINT_ID"))
	cfg.DeployedIndexID = strings.TrimSpace(os.Getenv("DEPLOYED_INDEX_ID"))

	cfg.EmbeddingModel = firstNonEmpty(strings.TrimSpace(os.Getenv("EMBEDDING_MODEL")), "text-embedding-004")
	cfg.SummaryModel = firstNonEmpty(strings.TrimSpace(os.Getenv("SUMMARY_MODEL")), "gemini-1.5-flash")
	cfg.CacheTTLSeconds = intFromEnv("CACHE_TTL_SECONDS", 300)
	cfg.CacheMaxEntries = intFromEnv("CACHE_MAX_ENTRIES", 1000)
	cfg.DefaultTopK = intFromEnv("DEFAULT_TOP_K", 10)
	cfg.MaxTopK = intFromEnv("MAX_TOP_K", 100)
	cfg.RequestTimeoutSeconds = intFromEnv("REQUEST_TIMEOUT_SECONDS", 30)
	cfg.HTTPPort = intFromEnv("HTTP_PORT", 8080)

	cfg.ChunkSize = intFromEnv("CHUNK_SIZE", 450)
	cfg.Overlap = intFromEnv("CHUNK_OVERLAP", 80)

	cfg.VectorBackend = strings.TrimSpace(os.Getenv("VECTOR_BACKEND"))
	cfg.VectorMetric = firstNonEmpty(strings.TrimSpace(os.Getenv("VECTOR_METRIC")), "cosine")
	cfg.IngestDSN = firstNonEmpty(strings.TrimSpace(os.Getenv("INGEST_DSN")), strings.TrimSpace(os.Getenv("DATABASE_URL")))

	cfg.OTelEndpoint = strings.TrimSpace(os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT"))
	cfg.LogLevel = firstNonEmpty(strings.TrimSpace(os.Getenv("LOG_LEVEL")), "info")

	var missing []string
	if cfg.ProjectID == "" {
		missing = append(missing, "PROJECT_ID")
	}
	if cfg.Location == "" {
		missing = append(missing, "LOCATION")
	}
	if cfg.IndexEndpointID == "" {
		missing = append(missing, "INDEX_ENDPOINT_ID")
	}
	if cfg.DeployedIndexID == "" {
		missing = append(missing, "DEPLOYED_INDEX_ID")
	}
	if len(missing) > 0 {
		return Config{}, fmt.Errorf("missing required environment variables: %s", strings.Join(missing, ", "))
	}
	if cfg.MaxTopK < cfg.DefaultTopK {
		return Config{}, errors.New("MAX_TOP_K must be >= DEFAULT_TOP_K")
	}
	return cfg, nil
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}

func intFromEnv(key string, def int) int {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}
