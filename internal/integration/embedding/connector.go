package embedding

import (
	"context"
	"fmt"
	"strings"

	"github.com/futig/docsearch-backend/internal/config"
	"github.com/futig/docsearch-backend/internal/entity"
	"github.com/futig/docsearch-backend/internal/integration/common"
	pkgRetry "github.com/futig/docsearch-backend/internal/pkg/retry"
	pkgHTTP "github.com/futig/docsearch-backend/pkg/http"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	openai "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"
)

// Connector calls an OpenAI-compatible embeddings endpoint, one input per call.
type Connector struct {
	client *openai.Client
	config config.EmbeddingConfig
}

// NewConnector sizes the connection pool for fanOut concurrent requests.
func NewConnector(cfg config.EmbeddingConfig, fanOut int, observe pkgHTTP.ObserveFunc) *Connector {
	return &Connector{
		client: common.NewOpenAIClient(cfg.HTTPClientConfig, "embedding", fanOut, observe),
		config: cfg,
	}
}

func (c *Connector) Dimensions() int {
	return c.config.Dimensions
}

// Embed returns the embedding vector for text.
func (c *Connector) Embed(ctx context.Context, text string) ([]float32, error) {
	if strings.TrimSpace(text) == "" {
		return nil, fmt.Errorf("embed text: %w", entity.ErrMissingField)
	}

	req := openai.EmbeddingRequest{
		Input: []string{text},
		Model: openai.EmbeddingModel(c.config.Model),
	}
	// text-embedding-3 models accept a reduced dimension; older ones reject the field
	if strings.HasPrefix(c.config.Model, "text-embedding-3") {
		req.Dimensions = c.config.Dimensions
	}

	resp, err := pkgRetry.Do(ctx, &c.config.Retry, func(ctx context.Context) (openai.EmbeddingResponse, error) {
		return c.client.CreateEmbeddings(ctx, req)
	})
	if err != nil {
		return nil, fmt.Errorf("create embedding: %w", err)
	}

	if len(resp.Data) == 0 || len(resp.Data[0].Embedding) == 0 {
		return nil, entity.ErrEmptyEmbedding
	}
	if got := len(resp.Data[0].Embedding); c.config.Dimensions > 0 && got != c.config.Dimensions {
		return nil, fmt.Errorf("%w: model %s returned %d values, configured %d",
			entity.ErrDimensionMismatch, c.config.Model, got, c.config.Dimensions)
	}

	ctxzap.Debug(ctx, "embedding created",
		zap.Int("input_length", len(text)),
		zap.Int("dimensions", len(resp.Data[0].Embedding)),
		zap.Int("prompt_tokens", resp.Usage.PromptTokens),
	)

	return resp.Data[0].Embedding, nil
}
