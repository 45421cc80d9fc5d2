package document

import (
	"context"

	"github.com/futig/docsearch-backend/internal/entity"
)

type Extractor interface {
	Extract(fileName, contentType string, data []byte) (entity.ExtractedDocument, error)
}

type Chunker interface {
	Chunk(text string) []entity.TextChunk
}

type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}

type FileStorage interface {
	Put(ctx context.Context, path string, data []byte) error
	Delete(ctx context.Context, path string) error
}

type IngestMetrics interface {
	AddIngestedChunks(n int)
}
