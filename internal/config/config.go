package config

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	pkgRetry "github.com/futig/docsearch-backend/internal/pkg/retry"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	StoreDriverPostgres = "postgres"
	StoreDriverSQLite   = "sqlite"
	StoreDriverMemory   = "memory"
)

// Config holds the application configuration
type Config struct {
	// Server configuration
	ServerAddr string `env:"SERVER_ADDR" envDefault:":8080"`

	// Storage configuration
	StoreDriver string `env:"STORE_DRIVER" envDefault:"postgres"`
	StorageDir  string `env:"STORAGE_DIR" envDefault:"data/files"`
	SQLitePath  string `env:"SQLITE_PATH" envDefault:"data/docsearch.db"`

	// Database configuration
	DatabaseURL         string        `env:"DATABASE_URL"`
	DBMaxConns          int           `env:"DB_MAX_CONNS" envDefault:"25"`
	DBMinConns          int           `env:"DB_MIN_CONNS" envDefault:"5"`
	DBMaxConnLifetime   time.Duration `env:"DB_MAX_CONN_LIFETIME" envDefault:"1h"`
	DBMaxConnIdleTime   time.Duration `env:"DB_MAX_CONN_IDLE_TIME" envDefault:"30m"`
	DBHealthCheckPeriod time.Duration `env:"DB_HEALTH_CHECK_PERIOD" envDefault:"1m"`

	// External service configurations
	EmbeddingCfg EmbeddingConfig `envPrefix:"EMBEDDING_"`
	LLMCfg       LLMConfig       `envPrefix:"LLM_"`

	// Pipeline configuration
	SearchCfg SearchConfig     `envPrefix:"SEARCH_"`
	IngestCfg IngestConfig     `envPrefix:"INGEST_"`
	EvalCfg   EvaluationConfig `envPrefix:"EVAL_"`

	// Logging configuration
	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`

	// File upload configuration
	FileUploadCfg FileUploadConfig `envPrefix:"FILE_UPLOAD_"`

	// Mock configuration
	EnableMocks bool `env:"ENABLE_MOCKS" envDefault:"false"`

	// Telegram bot configuration (optional)
	TelegramCfg TelegramConfig `envPrefix:"TELEGRAM_"`

	// Evaluation categories (loaded from YAML file)
	EvaluationCategories []string

	// Environment (set from flag, not from env var)
	Environment string
}

// TelegramConfig holds Telegram bot configuration
type TelegramConfig struct {
	BotToken           string        `env:"BOT_TOKEN"`
	OrganizationID     string        `env:"ORGANIZATION_ID"`
	UpdateTimeout      int           `env:"UPDATE_TIMEOUT" envDefault:"60"`
	RateLimitPerMinute int           `env:"RATE_LIMIT_PER_MINUTE" envDefault:"20"`
	RateLimitBurst     int           `env:"RATE_LIMIT_BURST" envDefault:"5"`
	HistoryTurns       int           `env:"HISTORY_TURNS" envDefault:"10"`
	HistoryTTL         time.Duration `env:"HISTORY_TTL" envDefault:"30m"`
	ShutdownTimeout    int           `env:"SHUTDOWN_TIMEOUT" envDefault:"30"` // seconds
}

type EmbeddingConfig struct {
	HTTPClientConfig
	Model      string               `env:"MODEL" envDefault:"text-embedding-3-small"`
	Dimensions int                  `env:"DIMENSIONS" envDefault:"1536"`
	Retry      pkgRetry.RetryConfig `envPrefix:"RETRY_"`
}

type LLMConfig struct {
	HTTPClientConfig
	Model       string               `env:"MODEL" envDefault:"gpt-4o-mini"`
	Temperature float32              `env:"TEMPERATURE" envDefault:"0.3"`
	MaxTokens   int                  `env:"MAX_TOKENS" envDefault:"300"`
	Retry       pkgRetry.RetryConfig `envPrefix:"RETRY_"`
}

type HTTPClientConfig struct {
	RequestTimeout        time.Duration `env:"TIMEOUT" envDefault:"60s"`
	ConnTimeout           time.Duration `env:"CONN_TIMEOUT" envDefault:"10s"`
	KeepAlive             time.Duration `env:"KEEP_ALIVE" envDefault:"90s"`
	IdleConnTimeout       time.Duration `env:"IDLE_CONN_TIMEOUT" envDefault:"90s"`
	ResponseHeaderTimeout time.Duration `env:"RESPONSE_HEADER_TIMEOUT" envDefault:"60s"`
	Token                 string        `env:"API_KEY"`
	Url                   string        `env:"BASE_URL" envDefault:"https://api.openai.com/v1"`
}

// SearchConfig tunes the query path
type SearchConfig struct {
	CandidateLimit int           `env:"CANDIDATE_LIMIT" envDefault:"20"`
	CacheTTL       time.Duration `env:"CACHE_TTL" envDefault:"5m"`
	RankWorkers    int           `env:"RANK_WORKERS" envDefault:"1"`
}

// IngestConfig tunes the ingestion path
type IngestConfig struct {
	ChunkMaxSize     int `env:"CHUNK_MAX_SIZE" envDefault:"1000"`
	EmbedConcurrency int `env:"EMBED_CONCURRENCY" envDefault:"8"`
}

// EvaluationConfig tunes the evaluation harness
type EvaluationConfig struct {
	CategoriesFile        string  `env:"CATEGORIES_FILE" envDefault:"internal/config/evaluation_categories.yaml"`
	MaxGenerationAttempts int     `env:"MAX_GENERATION_ATTEMPTS" envDefault:"3"`
	MaxDocumentChars      int     `env:"MAX_DOCUMENT_CHARS" envDefault:"12000"`
	PassThreshold         float64 `env:"PASS_THRESHOLD" envDefault:"0.85"`
}

// FileUploadConfig holds file upload limits
type FileUploadConfig struct {
	MaxFileSize   int64 `env:"MAX_FILE_SIZE" envDefault:"20971520"`   // 20 MiB
	MaxUploadSize int64 `env:"MAX_UPLOAD_SIZE" envDefault:"33554432"` // 32 MiB
}

// evaluationCategories represents the structure of evaluation_categories.yaml
type evaluationCategories struct {
	Categories []string `yaml:"categories"`
}

// LoadConfig reads the -env flag and loads the matching configuration.
func LoadConfig() (*Config, error) {
	envFlag := flag.String("env", "local", "Environment to run (local, prod, or custom)")
	flag.Parse()

	return Load(*envFlag)
}

// Load loads configuration for the given environment name.
func Load(environment string) (*Config, error) {
	envFile := getEnvFile(environment)
	// Try to load env file, but don't fail if it's missing.
	// In containerized/prod environments variables are usually set externally.
	if err := godotenv.Load(envFile); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not load %s file (this is ok if env vars are set externally): %v\n", envFile, err)
	}

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, err
	}

	cfg.Environment = environment

	// Validate configuration
	if err := validateConfig(cfg); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	// Load evaluation categories from YAML file
	if err := loadEvaluationCategories(cfg); err != nil {
		return nil, fmt.Errorf("load evaluation categories: %w", err)
	}

	return cfg, nil
}

func validateConfig(cfg *Config) error {
	var errs []string

	switch cfg.StoreDriver {
	case StoreDriverPostgres:
		if cfg.DatabaseURL == "" {
			errs = append(errs, "DATABASE_URL is required when STORE_DRIVER=postgres")
		}
	case StoreDriverSQLite, StoreDriverMemory:
	default:
		errs = append(errs, fmt.Sprintf("STORE_DRIVER must be one of postgres, sqlite, memory, got %q", cfg.StoreDriver))
	}

	// Validate Database configuration
	if cfg.DBMaxConns < 1 || cfg.DBMaxConns > 200 {
		errs = append(errs, fmt.Sprintf("DB_MAX_CONNS must be between 1 and 200, got %d", cfg.DBMaxConns))
	}

	if cfg.DBMinConns < 0 || cfg.DBMinConns > cfg.DBMaxConns {
		errs = append(errs, fmt.Sprintf("DB_MIN_CONNS must be between 0 and DB_MAX_CONNS(%d), got %d", cfg.DBMaxConns, cfg.DBMinConns))
	}

	if !cfg.EnableMocks {
		if cfg.EmbeddingCfg.Token == "" {
			errs = append(errs, "EMBEDDING_API_KEY is required unless ENABLE_MOCKS=true")
		}
		if cfg.LLMCfg.Token == "" {
			errs = append(errs, "LLM_API_KEY is required unless ENABLE_MOCKS=true")
		}
	}

	if cfg.EmbeddingCfg.Dimensions < 1 {
		errs = append(errs, fmt.Sprintf("EMBEDDING_DIMENSIONS must be positive, got %d", cfg.EmbeddingCfg.Dimensions))
	}

	if cfg.SearchCfg.CandidateLimit < 1 || cfg.SearchCfg.CandidateLimit > 1000 {
		errs = append(errs, fmt.Sprintf("SEARCH_CANDIDATE_LIMIT must be between 1 and 1000, got %d", cfg.SearchCfg.CandidateLimit))
	}

	if cfg.SearchCfg.RankWorkers < 1 || cfg.SearchCfg.RankWorkers > 64 {
		errs = append(errs, fmt.Sprintf("SEARCH_RANK_WORKERS must be between 1 and 64, got %d", cfg.SearchCfg.RankWorkers))
	}

	if cfg.IngestCfg.ChunkMaxSize < 100 {
		errs = append(errs, fmt.Sprintf("INGEST_CHUNK_MAX_SIZE must be at least 100, got %d", cfg.IngestCfg.ChunkMaxSize))
	}

	if cfg.IngestCfg.EmbedConcurrency < 1 || cfg.IngestCfg.EmbedConcurrency > 64 {
		errs = append(errs, fmt.Sprintf("INGEST_EMBED_CONCURRENCY must be between 1 and 64, got %d", cfg.IngestCfg.EmbedConcurrency))
	}

	if cfg.EvalCfg.MaxGenerationAttempts < 1 || cfg.EvalCfg.MaxGenerationAttempts > 10 {
		errs = append(errs, fmt.Sprintf("EVAL_MAX_GENERATION_ATTEMPTS must be between 1 and 10, got %d", cfg.EvalCfg.MaxGenerationAttempts))
	}

	if cfg.EvalCfg.PassThreshold <= 0 || cfg.EvalCfg.PassThreshold > 1 {
		errs = append(errs, fmt.Sprintf("EVAL_PASS_THRESHOLD must be within (0, 1], got %v", cfg.EvalCfg.PassThreshold))
	}

	if cfg.TelegramCfg.RateLimitPerMinute < 1 || cfg.TelegramCfg.RateLimitPerMinute > 60 {
		errs = append(errs, fmt.Sprintf("TELEGRAM_RATE_LIMIT_PER_MINUTE must be between 1 and 60, got %d", cfg.TelegramCfg.RateLimitPerMinute))
	}

	if cfg.TelegramCfg.RateLimitBurst < 1 || cfg.TelegramCfg.RateLimitBurst > 20 {
		errs = append(errs, fmt.Sprintf("TELEGRAM_RATE_LIMIT_BURST must be between 1 and 20, got %d", cfg.TelegramCfg.RateLimitBurst))
	}

	if len(errs) > 0 {
		return errors.New("configuration validation errors:\n  - " + strings.Join(errs, "\n  - "))
	}

	return nil
}

// ValidateTelegram checks the settings only the bot needs.
func (c *Config) ValidateTelegram() error {
	if c.TelegramCfg.BotToken == "" {
		return errors.New("TELEGRAM_BOT_TOKEN is required")
	}
	if c.TelegramCfg.OrganizationID == "" {
		return errors.New("TELEGRAM_ORGANIZATION_ID is required")
	}
	if c.TelegramCfg.ShutdownTimeout < 1 || c.TelegramCfg.ShutdownTimeout > 300 {
		return fmt.Errorf("TELEGRAM_SHUTDOWN_TIMEOUT must be between 1 and 300 seconds, got %d", c.TelegramCfg.ShutdownTimeout)
	}
	return nil
}

// DefaultEvaluationCategories is used when no categories file is present.
var DefaultEvaluationCategories = []string{
	"procedures",
	"requirements",
	"quantities and measurements",
	"timing and schedules",
	"exceptions and edge cases",
	"customer-facing questions",
	"troubleshooting",
}

func loadEvaluationCategories(cfg *Config) error {
	path := filepath.Clean(cfg.EvalCfg.CategoriesFile)

	// Check if file exists
	if _, err := os.Stat(path); os.IsNotExist(err) {
		fmt.Fprintf(os.Stderr, "Warning: evaluation categories file not found at %s, using defaults\n", path)
		cfg.EvaluationCategories = DefaultEvaluationCategories
		return nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read evaluation categories file: %w", err)
	}

	categories, err := ParseEvaluationCategories(data)
	if err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}

	cfg.EvaluationCategories = categories
	return nil
}

// ParseEvaluationCategories decodes the categories YAML document. At least
// six distinct categories are required so generated batches can spread out.
func ParseEvaluationCategories(data []byte) ([]string, error) {
	if len(data) == 0 {
		return nil, errors.New("evaluation categories file is empty")
	}

	var doc evaluationCategories
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse evaluation categories YAML: %w", err)
	}

	seen := make(map[string]bool, len(doc.Categories))
	categories := make([]string, 0, len(doc.Categories))
	for _, c := range doc.Categories {
		c = strings.TrimSpace(c)
		key := strings.ToLower(c)
		if c == "" || seen[key] {
			continue
		}
		seen[key] = true
		categories = append(categories, c)
	}

	if len(categories) < 6 {
		return nil, fmt.Errorf("at least 6 distinct categories are required, got %d", len(categories))
	}

	return categories, nil
}

func getEnvFile(environment string) string {
	switch environment {
	case "prod", "production":
		return ".env.prod"
	case "local", "dev", "development":
		return ".env.local"
	default:
		return fmt.Sprintf(".env.%s", environment)
	}
}
