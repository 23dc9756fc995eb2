package config

import (
	"flag"
	"os"
	"strings"
	"testing"
	"time"
)

// resetFlagSet создаёт новый FlagSet перед каждым вызовом NewConfig,
// чтобы избежать повторной регистрации одних и тех же флагов между тестами.
func resetFlagSet(t *testing.T) {
	t.Helper()
	flag.CommandLine = flag.NewFlagSet(os.Args[0], flag.ContinueOnError)
	flag.CommandLine.SetOutput(os.Stderr)
}

func TestNewConfig_DefaultsWhenEnvEmpty(t *testing.T) {
	t.Setenv("DATABASE_URI", "")
	t.Setenv("AUTH_SECRET", "")
	t.Setenv("BASE_URL", "")
	t.Setenv("ENABLE_HTTPS", "")
	t.Setenv("BLOB_MAX_MB", "")
	t.Setenv("PUBLIC_URL", "")
	t.Setenv("TOKEN_FILE", "")
	t.Setenv("SESSION_TTL", "")

	resetFlagSet(t)
	cfg := NewConfig()

	if cfg.AuthSecret != "dev-secret-key" {
		t.Fatalf("AuthSecret default expected 'dev-secret-key', got %q", cfg.AuthSecret)
	}
	if cfg.BlobMaxSizeMB != 20 {
		t.Fatalf("BlobMaxSizeMB default expected 20, got %d", cfg.BlobMaxSizeMB)
	}
	if cfg.SessionTTL != 24*time.Hour {
		t.Fatalf("SessionTTL default expected 24h, got %s", cfg.SessionTTL)
	}
	if cfg.BaseURL != "localhost:8081" {
		t.Fatalf("BaseURL default expected 'localhost:8081', got %q", cfg.BaseURL)
	}
	if cfg.ServerURL != "http://localhost:8081" {
		t.Fatalf("ServerURL default expected 'http://localhost:8081', got %q", cfg.ServerURL)
	}
	if cfg.PublicURL != cfg.ServerURL {
		t.Fatalf("PublicURL must default to ServerURL, got %q", cfg.PublicURL)
	}
	if cfg.TokenFile == "" || cfg.DatabaseDSN == "" || cfg.BlobDir == "" {
		t.Fatalf("defaults must be non-empty: TokenFile=%q DatabaseDSN=%q BlobDir=%q", cfg.TokenFile, cfg.DatabaseDSN, cfg.BlobDir)
	}
}

func TestNewConfig_BaseURLAndHTTPS(t *testing.T) {
	t.Setenv("BASE_URL", "example.com:443")
	t.Setenv("ENABLE_HTTPS", "true")
	t.Setenv("AUTH_SECRET", "top")
	t.Setenv("BLOB_MAX_MB", "10")
	t.Setenv("PUBLIC_URL", "https://cases.example.com/")

	resetFlagSet(t)
	cfg := NewConfig()

	if cfg.ServerURL != "https://example.com:443" {
		t.Fatalf("ServerURL expected 'https://example.com:443', got %q", cfg.ServerURL)
	}
	if cfg.AuthSecret != "top" {
		t.Fatalf("AuthSecret expected from env 'top', got %q", cfg.AuthSecret)
	}
	if cfg.BlobMaxSizeMB != 10 {
		t.Fatalf("BlobMaxSizeMB expected 10, got %d", cfg.BlobMaxSizeMB)
	}
	// завершающий слэш обрезается
	if cfg.PublicURL != "https://cases.example.com" {
		t.Fatalf("PublicURL expected without trailing slash, got %q", cfg.PublicURL)
	}
}

func TestNewConfig_InvalidBaseURLFallback(t *testing.T) {
	// Невалидный BASE_URL (со схемой) должен откатиться на localhost:8081
	t.Setenv("BASE_URL", "http://bad:8080")
	t.Setenv("ENABLE_HTTPS", "false")
	t.Setenv("PUBLIC_URL", "")

	resetFlagSet(t)
	cfg := NewConfig()

	if cfg.BaseURL != "localhost:8081" {
		t.Fatalf("invalid BASE_URL must fallback to 'localhost:8081', got %q", cfg.BaseURL)
	}
	if !strings.HasPrefix(cfg.ServerURL, "http://localhost:8081") {
		t.Fatalf("ServerURL must reflect fallback base, got %q", cfg.ServerURL)
	}
}

func TestFromEnv_IgnoresFlags(t *testing.T) {
	t.Setenv("REDIS_ADDR", "localhost:6379")
	t.Setenv("WORKER_CONCURRENCY", "")

	cfg := FromEnv()
	if cfg.RedisAddr != "localhost:6379" {
		t.Fatalf("RedisAddr expected from env, got %q", cfg.RedisAddr)
	}
	if cfg.WorkerConcurrency != 2 {
		t.Fatalf("WorkerConcurrency default expected 2, got %d", cfg.WorkerConcurrency)
	}
}
