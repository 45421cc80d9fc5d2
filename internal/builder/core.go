package builder

import (
	"context"
	"fmt"

	"github.com/futig/docsearch-backend/internal/chunker"
	"github.com/futig/docsearch-backend/internal/config"
	"github.com/futig/docsearch-backend/internal/entity"
	"github.com/futig/docsearch-backend/internal/extractor"
	"github.com/futig/docsearch-backend/internal/integration/embedding"
	"github.com/futig/docsearch-backend/internal/integration/llm"
	"github.com/futig/docsearch-backend/internal/metrics"
	"github.com/futig/docsearch-backend/internal/pkg/cache"
	"github.com/futig/docsearch-backend/internal/pkg/formatter"
	"github.com/futig/docsearch-backend/internal/pkg/validator"
	"github.com/futig/docsearch-backend/internal/ranker"
	"github.com/futig/docsearch-backend/internal/storage"
	"github.com/futig/docsearch-backend/internal/synthesizer"
	"github.com/futig/docsearch-backend/internal/usecase/document"
	"github.com/futig/docsearch-backend/internal/usecase/evaluation"
	"github.com/futig/docsearch-backend/internal/usecase/search"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/zap"
)

// Core is the search pipeline shared by the HTTP server, the Telegram bot
// and the CLI.
type Core struct {
	Config     *config.Config
	Logger     *zap.Logger
	Registry   *prometheus.Registry
	Metrics    *metrics.Metrics
	Documents  *document.DocumentUsecase
	Search     *search.SearchUsecase
	Evaluation *evaluation.EvaluationUsecase

	stores *stores
}

// NewCore opens the configured store and wires every pipeline component.
func NewCore(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*Core, error) {
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	m := metrics.New(registry)

	st, err := setupStore(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}
	logger.Info("Repositories initialized", zap.String("driver", cfg.StoreDriver))

	files, err := storage.NewLocal(cfg.StorageDir)
	if err != nil {
		st.close()
		return nil, fmt.Errorf("setup file storage: %w", err)
	}

	// Initialize external service connectors (with mock support)
	var embedder embedding.Embedder
	var generator synthesizer.Generator

	if cfg.EnableMocks {
		logger.Info("Using mock connectors for external services")
		embedder = embedding.NewMockConnector(cfg.EmbeddingCfg.Dimensions)
		generator = llm.NewMockConnector(cfg.EvaluationCategories)
	} else {
		logger.Info("Using real connectors for external services")
		embedder = embedding.NewConnector(cfg.EmbeddingCfg, cfg.IngestCfg.EmbedConcurrency, m.ObserveExternalCall)
		generator = llm.NewConnector(cfg.LLMCfg, m.ObserveExternalCall)
	}

	gateway := embedding.NewGateway(embedder, cache.New[[]float32](cfg.SearchCfg.CacheTTL), m)
	generative := synthesizer.NewGenerative(generator, cache.New[entity.SearchResult](cfg.SearchCfg.CacheTTL), m)
	fileValidator := validator.NewValidator(cfg.FileUploadCfg)

	documentUC := document.NewUsecase(
		st.chunks,
		st.files,
		files,
		extractor.New(),
		chunker.New(cfg.IngestCfg.ChunkMaxSize),
		gateway,
		fileValidator,
		m,
		cfg.IngestCfg.EmbedConcurrency,
	)

	searchUC := search.NewUsecase(
		st.chunks,
		gateway,
		ranker.New(cfg.SearchCfg.RankWorkers),
		generative,
		fileValidator,
		m,
		cfg.SearchCfg.CandidateLimit,
	)

	evaluationUC := evaluation.NewUsecase(
		st.chunks,
		st.grades,
		generator,
		searchUC,
		formatter.NewFactory(),
		fileValidator,
		cfg.EvaluationCategories,
		cfg.EvalCfg,
	)
	logger.Info("Use cases initialized")

	return &Core{
		Config:     cfg,
		Logger:     logger,
		Registry:   registry,
		Metrics:    m,
		Documents:  documentUC,
		Search:     searchUC,
		Evaluation: evaluationUC,
		stores:     st,
	}, nil
}

// Close releases the document store.
func (c *Core) Close() {
	c.stores.close()
}
