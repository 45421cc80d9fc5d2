package embedding

import (
	"context"
	"time"

	"github.com/futig/docsearch-backend/internal/metrics"
	"github.com/futig/docsearch-backend/internal/pkg/cache"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

const DefaultQueryCacheTTL = 5 * time.Minute

// Embedder turns text into a fixed-length vector.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
	Dimensions() int
}

// Gateway fronts an Embedder with a query cache keyed by the exact query
// string. Document text goes through Embed and is never cached.
type Gateway struct {
	embedder Embedder
	queries  *cache.TTL[[]float32]
	metrics  *metrics.Metrics
}

func NewGateway(embedder Embedder, queryCache *cache.TTL[[]float32], m *metrics.Metrics) *Gateway {
	if queryCache == nil {
		queryCache = cache.New[[]float32](DefaultQueryCacheTTL)
	}
	return &Gateway{
		embedder: embedder,
		queries:  queryCache,
		metrics:  m,
	}
}

func (g *Gateway) Dimensions() int {
	return g.embedder.Dimensions()
}

// Embed embeds document text without caching.
func (g *Gateway) Embed(ctx context.Context, text string) ([]float32, error) {
	return g.embedder.Embed(ctx, text)
}

// EmbedQuery embeds a user query, reusing a cached vector for the same
// string within the cache TTL.
func (g *Gateway) EmbedQuery(ctx context.Context, query string) ([]float32, error) {
	if vec, ok := g.queries.Get(query); ok {
		g.metrics.CacheLookup("query_embedding", true)
		ctxzap.Debug(ctx, "query embedding cache hit")
		return vec, nil
	}
	g.metrics.CacheLookup("query_embedding", false)

	vec, err := g.embedder.Embed(ctx, query)
	if err != nil {
		return nil, err
	}

	g.queries.Set(query, vec)
	ctxzap.Debug(ctx, "query embedding cached", zap.Int("dimensions", len(vec)))

	return vec, nil
}
