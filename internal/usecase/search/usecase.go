package search

import (
	"context"
	"fmt"
	"time"

	"github.com/futig/docsearch-backend/internal/entity"
	"github.com/futig/docsearch-backend/internal/metrics"
	"github.com/futig/docsearch-backend/internal/pkg/validator"
	"github.com/futig/docsearch-backend/internal/repository"
	"github.com/futig/docsearch-backend/internal/synthesizer"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

// SearchUsecase answers questions from an organization's documents:
// embed the query, fetch candidates, rank them and synthesize an answer.
type SearchUsecase struct {
	chunkRepo      repository.ChunkRepository
	embedder       QueryEmbedder
	ranker         Ranker
	generative     Synthesizer
	validator      *validator.Validator
	metrics        SearchMetrics
	candidateLimit int
}

// NewUsecase creates a new search use case
func NewUsecase(
	chunkRepo repository.ChunkRepository,
	embedder QueryEmbedder,
	ranker Ranker,
	generative Synthesizer,
	validator *validator.Validator,
	metrics SearchMetrics,
	candidateLimit int,
) *SearchUsecase {
	if candidateLimit <= 0 {
		candidateLimit = repository.DefaultCandidateLimit
	}
	return &SearchUsecase{
		chunkRepo:      chunkRepo,
		embedder:       embedder,
		ranker:         ranker,
		generative:     generative,
		validator:      validator,
		metrics:        metrics,
		candidateLimit: candidateLimit,
	}
}

// Search answers query in generative mode. Nothing relevant yields the
// no-answer result, never an error.
func (uc *SearchUsecase) Search(
	ctx context.Context,
	query string,
	organizationID string,
	history []entity.Turn,
) (entity.SearchResult, error) {
	return uc.Run(ctx, &entity.SearchRequest{
		OrganizationID: organizationID,
		Query:          query,
		History:        history,
		Mode:           entity.SearchModeGenerative,
	})
}

// Run executes a search request in the requested mode, generative by default.
func (uc *SearchUsecase) Run(ctx context.Context, req *entity.SearchRequest) (entity.SearchResult, error) {
	if err := uc.validator.ValidateSearch(req); err != nil {
		return entity.SearchResult{}, err
	}

	mode := req.Mode
	if mode == "" {
		mode = entity.SearchModeGenerative
	}

	start := time.Now()
	result, outcome, err := uc.run(ctx, req, mode)
	uc.metrics.ObserveSearch(string(mode), outcome, time.Since(start))
	if err != nil {
		ctxzap.Error(ctx, "search failed",
			zap.String("organization_id", req.OrganizationID),
			zap.String("mode", string(mode)),
			zap.Error(err),
		)
		return entity.SearchResult{}, err
	}

	ctxzap.Info(ctx, "search completed",
		zap.String("organization_id", req.OrganizationID),
		zap.String("mode", string(mode)),
		zap.String("outcome", outcome),
		zap.Float64("similarity", result.Similarity),
		zap.Duration("elapsed", time.Since(start)),
	)

	return result, nil
}

func (uc *SearchUsecase) run(
	ctx context.Context,
	req *entity.SearchRequest,
	mode entity.SearchMode,
) (entity.SearchResult, string, error) {
	queryEmbedding, err := uc.embedder.EmbedQuery(ctx, req.Query)
	if err != nil {
		return entity.SearchResult{}, metrics.OutcomeError, fmt.Errorf("embed query: %w", err)
	}

	chunks, err := uc.chunkRepo.FetchCandidates(ctx, req.OrganizationID, uc.candidateLimit)
	if err != nil {
		return entity.SearchResult{}, metrics.OutcomeError, fmt.Errorf("fetch candidates: %w", err)
	}

	ranked, err := uc.ranker.Rank(ctx, queryEmbedding, req.Query, chunks)
	if err != nil {
		return entity.SearchResult{}, metrics.OutcomeError, fmt.Errorf("rank candidates: %w", err)
	}

	ctxzap.Debug(ctx, "candidates ranked",
		zap.Int("fetched", len(chunks)),
		zap.Int("ranked", len(ranked)),
	)

	if len(ranked) == 0 {
		return entity.NoAnswer(), metrics.OutcomeNoMatch, nil
	}

	var result entity.SearchResult
	switch mode {
	case entity.SearchModeExtractive:
		result = synthesizer.Extractive(req.Query, ranked)
	default:
		result, err = uc.generative.Synthesize(ctx, req.Query, ranked, req.History)
		if err != nil {
			return entity.SearchResult{}, metrics.OutcomeError, err
		}
	}

	if result.Content == entity.NoAnswerMessage {
		return result, metrics.OutcomeNoMatch, nil
	}
	return result, metrics.OutcomeAnswered, nil
}
