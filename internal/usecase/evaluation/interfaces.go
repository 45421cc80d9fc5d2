package evaluation

import (
	"context"

	"github.com/futig/docsearch-backend/internal/entity"
	"github.com/futig/docsearch-backend/internal/pkg/formatter"
)

type Generator interface {
	Complete(ctx context.Context, req entity.CompletionRequest) (string, error)
}

type Searcher interface {
	Search(ctx context.Context, query, organizationID string, history []entity.Turn) (entity.SearchResult, error)
}

type FormatterFactory interface {
	Create(format entity.ResultFormat) (formatter.Formatter, error)
}
