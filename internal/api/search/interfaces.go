package search

import (
	"context"

	"github.com/futig/docsearch-backend/internal/entity"
)

type SearchUsecase interface {
	Run(ctx context.Context, req *entity.SearchRequest) (entity.SearchResult, error)
}
