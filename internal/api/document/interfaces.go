package document

import (
	"context"

	"github.com/futig/docsearch-backend/internal/entity"
)

type DocumentUsecase interface {
	Ingest(ctx context.Context, req *entity.UploadFileRequest) (*entity.SourceFile, error)
	ListFiles(ctx context.Context, organizationID string) ([]*entity.SourceFile, error)
	DeleteFile(ctx context.Context, organizationID, fileID string) error
}
