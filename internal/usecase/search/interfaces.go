package search

import (
	"context"
	"time"

	"github.com/futig/docsearch-backend/internal/entity"
)

type QueryEmbedder interface {
	EmbedQuery(ctx context.Context, query string) ([]float32, error)
}

type Ranker interface {
	Rank(ctx context.Context, queryEmbedding []float32, queryText string, candidates []entity.DocumentChunk) ([]entity.RankedCandidate, error)
}

type Synthesizer interface {
	Synthesize(ctx context.Context, query string, candidates []entity.RankedCandidate, history []entity.Turn) (entity.SearchResult, error)
}

type SearchMetrics interface {
	ObserveSearch(mode, outcome string, elapsed time.Duration)
}
