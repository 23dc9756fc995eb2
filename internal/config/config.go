package config

import (
	"flag"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/caarlos0/env/v6"
	"github.com/joho/godotenv"
)

type Config struct {
	// Server-side settings
	DatabaseDSN   string        `env:"DATABASE_URI"`
	AuthSecret    string        `env:"AUTH_SECRET"`
	SessionTTL    time.Duration `env:"SESSION_TTL"`
	BlobMaxSizeMB int           `env:"BLOB_MAX_MB"`
	BlobDir       string        `env:"BLOB_DIR"`
	AdminEmail    string        `env:"ADMIN_EMAIL"`
	AdminPassword string        `env:"ADMIN_PASSWORD"`

	// S3/MinIO хранилище вложений. Если S3Endpoint пуст, используется BlobDir.
	S3Endpoint  string `env:"S3_ENDPOINT"`
	S3AccessKey string `env:"S3_ACCESS_KEY"`
	S3SecretKey string `env:"S3_SECRET_KEY"`
	S3Bucket    string `env:"S3_BUCKET"`
	S3UseSSL    bool   `env:"S3_USE_SSL"`
	S3Region    string `env:"S3_REGION"`

	// Очередь уведомлений о новых обращениях (asynq/redis). Пустой адрес: без очереди.
	RedisAddr         string `env:"REDIS_ADDR"`
	RedisPassword     string `env:"REDIS_PASSWORD"`
	RedisDB           int    `env:"REDIS_DB"`
	WorkerConcurrency int    `env:"WORKER_CONCURRENCY"`

	// Shared settings
	BaseURL     string `env:"BASE_URL"`
	EnableHTTPS bool   `env:"ENABLE_HTTPS"`
	PublicURL   string `env:"PUBLIC_URL"`

	// Console-side settings
	ServerURL string `env:"-"`
	TokenFile string `env:"TOKEN_FILE"`
	Version   bool   `env:"-"` // show console version and exit (flag only)
}

func NewConfig() *Config {
	_ = godotenv.Load()

	cfg := &Config{}
	_ = env.Parse(cfg)

	// Server flags
	flag.StringVar(&cfg.DatabaseDSN, "d", cfg.DatabaseDSN, "строка подключения к БД (postgres://... или путь к sqlite)")
	flag.StringVar(&cfg.AuthSecret, "auth-secret", cfg.AuthSecret, "секрет для подписи JWT")
	flag.DurationVar(&cfg.SessionTTL, "session-ttl", cfg.SessionTTL, "время жизни сессии администратора")
	flag.IntVar(&cfg.BlobMaxSizeMB, "blob-max-mb", cfg.BlobMaxSizeMB, "максимальный размер PDF в мегабайтах")
	flag.StringVar(&cfg.BlobDir, "blob-dir", cfg.BlobDir, "каталог для вложений, если S3 не настроен")
	flag.StringVar(&cfg.S3Endpoint, "s3-endpoint", cfg.S3Endpoint, "S3/MinIO endpoint (host:port)")
	flag.StringVar(&cfg.S3Bucket, "s3-bucket", cfg.S3Bucket, "bucket для вложений")
	flag.StringVar(&cfg.RedisAddr, "redis", cfg.RedisAddr, "адрес redis для очереди уведомлений")
	// Shared/console flags
	flag.StringVar(&cfg.BaseURL, "base-url", cfg.BaseURL, "address of the CaseTrack server (host:port)")
	flag.BoolVar(&cfg.EnableHTTPS, "https", cfg.EnableHTTPS, "enable HTTPS (console: prefer https scheme for BaseURL)")
	flag.StringVar(&cfg.PublicURL, "public-url", cfg.PublicURL, "external URL used to build public attachment links")
	flag.StringVar(&cfg.TokenFile, "token-file", cfg.TokenFile, "path to auth token file (console)")
	flag.BoolVar(&cfg.Version, "version", cfg.Version, "Show console version and exit")

	flag.Parse()

	applyDefaults(cfg)
	return cfg
}

// applyDefaults заполняет незаданные значения. Вынесено отдельно, чтобы casectl
// мог использовать те же значения по умолчанию без разбора глобальных флагов.
func applyDefaults(cfg *Config) {
	if cfg.AuthSecret == "" {
		cfg.AuthSecret = "dev-secret-key"
	}
	if cfg.SessionTTL <= 0 {
		cfg.SessionTTL = 24 * time.Hour
	}
	if cfg.BlobMaxSizeMB <= 0 {
		cfg.BlobMaxSizeMB = 20
	}
	if cfg.DatabaseDSN == "" {
		cfg.DatabaseDSN = "casetrack.db"
	}
	if cfg.BlobDir == "" {
		cfg.BlobDir = "case-pdfs"
	}
	if cfg.S3Bucket == "" {
		cfg.S3Bucket = "case-pdfs"
	}
	if cfg.WorkerConcurrency <= 0 {
		cfg.WorkerConcurrency = 2
	}
	// validate BaseURL: must be in "address:port" (no scheme, no path). Otherwise use default.
	hostPortRe := regexp.MustCompile(`^[A-Za-z0-9\.\-]+:\d{1,5}$`)
	if !hostPortRe.MatchString(cfg.BaseURL) {
		cfg.BaseURL = "localhost:8081"
	}

	if cfg.EnableHTTPS {
		cfg.ServerURL = "https://" + cfg.BaseURL
	} else {
		cfg.ServerURL = "http://" + cfg.BaseURL
	}
	if cfg.PublicURL == "" {
		cfg.PublicURL = cfg.ServerURL
	}
	cfg.PublicURL = strings.TrimRight(cfg.PublicURL, "/")

	if cfg.TokenFile == "" {
		home, _ := os.UserHomeDir()
		cfg.TokenFile = filepath.Join(home, ".casetrack_token")
	}
}

// FromEnv собирает конфигурацию только из окружения (.env + переменные), без флагов.
func FromEnv() *Config {
	_ = godotenv.Load()
	cfg := &Config{}
	_ = env.Parse(cfg)
	applyDefaults(cfg)
	return cfg
}
