package builder

import (
	"context"
	"testing"
	"time"

	"github.com/futig/docsearch-backend/internal/config"
	"github.com/futig/docsearch-backend/internal/entity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func memoryConfig(t *testing.T) *config.Config {
	return &config.Config{
		StoreDriver:  config.StoreDriverMemory,
		StorageDir:   t.TempDir(),
		EnableMocks:  true,
		EmbeddingCfg: config.EmbeddingConfig{Dimensions: 128},
		SearchCfg: config.SearchConfig{
			CandidateLimit: 20,
			CacheTTL:       time.Minute,
			RankWorkers:    2,
		},
		IngestCfg: config.IngestConfig{
			ChunkMaxSize:     1000,
			EmbedConcurrency: 4,
		},
		EvalCfg: config.EvaluationConfig{
			MaxGenerationAttempts: 3,
			MaxDocumentChars:      12000,
			PassThreshold:         0.85,
		},
		FileUploadCfg: config.FileUploadConfig{
			MaxFileSize:   1 << 20,
			MaxUploadSize: 2 << 20,
		},
		EvaluationCategories: config.DefaultEvaluationCategories,
	}
}

const handbook = `Detroit-style pizza is baked in a rectangular steel pan for 12 minutes.

Returns are accepted within 30 days with a receipt.`

func TestNewCore_IngestThenSearch(t *testing.T) {
	ctx := context.Background()

	core, err := NewCore(ctx, memoryConfig(t), zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(core.Close)

	file, err := core.Documents.Ingest(ctx, &entity.UploadFileRequest{
		OrganizationID: "org-1",
		FileName:       "handbook.txt",
		ContentType:    "text/plain",
		Content:        []byte(handbook),
	})
	require.NoError(t, err)
	assert.True(t, file.HasEmbeddings)

	result, err := core.Search.Search(ctx, "How is Detroit-style pizza baked?", "org-1", nil)
	require.NoError(t, err)
	assert.Contains(t, result.Content, "steel pan")
	assert.Greater(t, result.Similarity, 0.0)

	result, err = core.Search.Search(ctx, "How is Detroit-style pizza baked?", "org-2", nil)
	require.NoError(t, err)
	assert.Equal(t, entity.NoAnswer(), result)
}

func TestNewCore_GenerateQuestionsWithMocks(t *testing.T) {
	ctx := context.Background()

	core, err := NewCore(ctx, memoryConfig(t), zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(core.Close)

	_, err = core.Documents.Ingest(ctx, &entity.UploadFileRequest{
		OrganizationID: "org-1",
		FileName:       "handbook.txt",
		Content:        []byte(handbook),
	})
	require.NoError(t, err)

	cases, err := core.Evaluation.GenerateTestQueries(ctx, &entity.GenerateQueriesRequest{
		OrganizationID: "org-1",
		FileName:       "handbook.txt",
		Count:          7,
	})
	require.NoError(t, err)
	assert.Len(t, cases, 7)
}

func TestSetupStore_RejectsUnknownDriver(t *testing.T) {
	cfg := memoryConfig(t)
	cfg.StoreDriver = "cassandra"

	_, err := NewCore(context.Background(), cfg, zap.NewNop())

	assert.ErrorContains(t, err, "unknown store driver")
}
