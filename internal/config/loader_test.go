package config

import (
	"os"
	"testing"

	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T, keys ...string) {
	t.Helper()
	for _, k := range keys {
		old, had := os.LookupEnv(k)
		_ = os.Unsetenv(k)
		t.Cleanup(func() {
			if had {
				_ = os.Setenv(k, old)
			}
		})
	}
}

func setEnv(t *testing.T, key, val string) {
	t.Helper()
	old, had := os.LookupEnv(key)
	_ = os.Setenv(key, val)
	t.Cleanup(func() {
		if had {
			_ = os.Setenv(key, old)
		} else {
			_ = os.Unsetenv(key)
		}
	})
}

var requiredKeys = []string{"PROJECT_ID", "LOCATION", "INDEX_ENDPOINT_ID", "DEPLOYED_INDEX_ID"}

func TestLoad_FailsFastOnMissingRequired(t *testing.T) {
	clearEnv(t, append(requiredKeys, "EMBEDDING_MODEL", "SUMMARY_MODEL")...)
	_, err := Load()
	require.Error(t, err)
	require.Contains(t, err.Error(), "PROJECT_ID")
}

func TestLoad_AppliesDefaults(t *testing.T) {
	clearEnv(t, "EMBEDDING_MODEL", "SUMMARY_MODEL", "CACHE_TTL_SECONDS", "DEFAULT_TOP_K", "MAX_TOP_K")
	setEnv(t, "PROJECT_ID", "proj")
	setEnv(t, "LOCATION", "us-central1")
	setEnv(t, "INDEX_ENDPOINT_ID", "localhost:6334")
	setEnv(t, "DEPLOYED_INDEX_ID", "chunks")

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, "text-embedding-004", cfg.EmbeddingModel)
	require.Equal(t, "gemini-1.5-flash", cfg.SummaryModel)
	require.Equal(t, 300, cfg.CacheTTLSeconds)
	require.Equal(t, 10, cfg.DefaultTopK)
	require.Equal(t, 100, cfg.MaxTopK)
}

func TestLoad_RejectsMaxTopKBelowDefault(t *testing.T) {
	setEnv(t, "PROJECT_ID", "proj")
	setEnv(t, "LOCATION", "us-central1")
	setEnv(t, "INDEX_ENDPOINT_ID", "localhost:6334")
	setEnv(t, "DEPLOYED_INDEX_ID", "chunks")
	setEnv(t, "DEFAULT_TOP_K", "50")
	setEnv(t, "MAX_TOP_K", "10")

	_, err := Load()
	require.Error(t, err)
}

func TestIntFromEnv(t *testing.T) {
	key := "VECSEARCH_TEST_INT_FROM_ENV"
	clearEnv(t, key)
	require.Equal(t, 7, intFromEnv(key, 7))
	setEnv(t, key, "123")
	require.Equal(t, 123, intFromEnv(key, 7))
}

func TestFirstNonEmpty(t *testing.T) {
	require.Equal(t, "foo", firstNonEmpty("", "foo", "bar"))
	require.Equal(t, "", firstNonEmpty())
}
