package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validConfig() *Config {
	return &Config{
		StoreDriver:  StoreDriverMemory,
		DBMaxConns:   25,
		DBMinConns:   5,
		EnableMocks:  true,
		EmbeddingCfg: EmbeddingConfig{Dimensions: 64},
		SearchCfg:    SearchConfig{CandidateLimit: 20, RankWorkers: 1},
		IngestCfg:    IngestConfig{ChunkMaxSize: 1000, EmbedConcurrency: 8},
		EvalCfg:      EvaluationConfig{MaxGenerationAttempts: 3, PassThreshold: 0.85},
		TelegramCfg:  TelegramConfig{RateLimitPerMinute: 20, RateLimitBurst: 5},
	}
}

func TestValidateConfig(t *testing.T) {
	require.NoError(t, validateConfig(validConfig()))

	cfg := validConfig()
	cfg.StoreDriver = StoreDriverPostgres
	err := validateConfig(cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "DATABASE_URL")

	cfg = validConfig()
	cfg.EnableMocks = false
	err = validateConfig(cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "EMBEDDING_API_KEY")
	assert.Contains(t, err.Error(), "LLM_API_KEY")

	cfg = validConfig()
	cfg.StoreDriver = "mongo"
	assert.Error(t, validateConfig(cfg))
}

func TestValidateTelegram(t *testing.T) {
	cfg := validConfig()
	assert.Error(t, cfg.ValidateTelegram())

	cfg.TelegramCfg.BotToken = "token"
	cfg.TelegramCfg.OrganizationID = "org"
	cfg.TelegramCfg.ShutdownTimeout = 30
	assert.NoError(t, cfg.ValidateTelegram())
}

func TestParseEvaluationCategories(t *testing.T) {
	data := []byte(`
categories:
  - procedures
  - requirements
  - Procedures
  - quantities
  - timing
  - exceptions
  - troubleshooting
`)
	categories, err := ParseEvaluationCategories(data)
	require.NoError(t, err)
	assert.Equal(t, []string{"procedures", "requirements", "quantities", "timing", "exceptions", "troubleshooting"}, categories)

	_, err = ParseEvaluationCategories([]byte("categories: [a, b]"))
	assert.Error(t, err)

	_, err = ParseEvaluationCategories(nil)
	assert.Error(t, err)
}

func TestGetEnvFile(t *testing.T) {
	assert.Equal(t, ".env.prod", getEnvFile("production"))
	assert.Equal(t, ".env.local", getEnvFile("dev"))
	assert.Equal(t, ".env.staging", getEnvFile("staging"))
}
