package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadDefaultsToMockMode(t *testing.T) {
	for _, key := range []string{"MONGO_URI", "SCYLLA_HOSTS", "KAFKA_BROKERS", "REDIS_ADDR", "S3_ENDPOINT", "RETRY_BACKOFF", "SEARCH_CACHE_TTL"} {
		t.Setenv(key, "")
	}
	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if !cfg.MockMode() {
		t.Fatalf("expected mock mode, got %+v", cfg)
	}
	if len(cfg.RetryBackoff) != 3 || cfg.RetryBackoff[1] != 5*time.Second {
		t.Fatalf("unexpected backoff %v", cfg.RetryBackoff)
	}
	if cfg.SearchCacheTTL != time.Minute {
		t.Fatalf("unexpected cache ttl %v", cfg.SearchCacheTTL)
	}
}

func TestLoadParsesLists(t *testing.T) {
	t.Setenv("KAFKA_BROKERS", "kafka-1:9092, kafka-2:9092,")
	t.Setenv("SCYLLA_HOSTS", "scylla")
	t.Setenv("S3_ENDPOINT", "http://minio:9000")
	t.Setenv("S3_PUBLIC_ENDPOINT", "")
	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(cfg.KafkaBrokers) != 2 || cfg.KafkaBrokers[1] != "kafka-2:9092" {
		t.Fatalf("unexpected brokers %v", cfg.KafkaBrokers)
	}
	if cfg.S3PublicEndpoint != "http://minio:9000" {
		t.Fatalf("public endpoint = %q", cfg.S3PublicEndpoint)
	}
	if cfg.MockMode() {
		t.Fatalf("backends configured but mock mode reported")
	}
}

func TestLoadRejectsBadValues(t *testing.T) {
	cases := map[string]string{
		"SCYLLA_TIMEOUT": "soon",
		"S3_USE_SSL":     "maybe",
		"RETRY_BACKOFF":  "1s,later",
	}
	for key, value := range cases {
		t.Run(key, func(t *testing.T) {
			t.Setenv(key, value)
			if _, err := Load(); err == nil {
				t.Fatalf("expected error for %s=%q", key, value)
			}
		})
	}
}

func TestLoadDotEnvKeepsExistingValues(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "test.env")
	if err := os.WriteFile(path, []byte("HTTP_ADDR=:9999\nMONGO_DB=fromfile\n"), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}
	t.Setenv("HTTP_ADDR", ":7000")
	t.Setenv("MONGO_DB", "")
	os.Unsetenv("MONGO_DB")
	if err := LoadDotEnv(path, filepath.Join(dir, "missing.env")); err != nil {
		t.Fatalf("load dotenv: %v", err)
	}
	if got := os.Getenv("HTTP_ADDR"); got != ":7000" {
		t.Fatalf("HTTP_ADDR overwritten: %q", got)
	}
	if got := os.Getenv("MONGO_DB"); got != "fromfile" {
		t.Fatalf("MONGO_DB = %q", got)
	}
}
