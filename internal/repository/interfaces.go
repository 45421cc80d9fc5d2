package repository

import (
	"context"

	"github.com/futig/docsearch-backend/internal/entity"
)

// DefaultCandidateLimit bounds FetchCandidates when the caller passes no limit.
const DefaultCandidateLimit = 20

// ChunkRepository stores embedded document chunks. Chunks are unique per
// (organization, source file name, chunk index) and re-inserting one
// replaces it.
type ChunkRepository interface {
	InsertChunks(ctx context.Context, chunks []entity.DocumentChunk) error
	// FetchCandidates scans an organization's chunks ordered by file name and
	// chunk index. There is no similarity filtering at this layer.
	FetchCandidates(ctx context.Context, organizationID string, limit int) ([]entity.DocumentChunk, error)
	ListChunks(ctx context.Context, organizationID, fileName string) ([]entity.DocumentChunk, error)
	DeleteByStoragePath(ctx context.Context, storagePath string) (int64, error)
}

// FileRepository stores uploaded file metadata. Storage paths are unique and
// adding a file under an existing path resets it.
type FileRepository interface {
	AddFile(ctx context.Context, file entity.SourceFile) (*entity.SourceFile, error)
	GetFile(ctx context.Context, fileID string) (*entity.SourceFile, error)
	ListFiles(ctx context.Context, organizationID string) ([]*entity.SourceFile, error)
	MarkIngested(ctx context.Context, storagePath string) error
	DeleteFile(ctx context.Context, fileID string) error
}

// GradeRepository is the append-only log of graded responses.
type GradeRepository interface {
	AddGrade(ctx context.Context, grade entity.GradeRecord) (*entity.GradeRecord, error)
	ListRecentGrades(ctx context.Context, organizationID string, limit int) ([]entity.GradeRecord, error)
}

func normalizeLimit(limit int) int {
	if limit <= 0 {
		return DefaultCandidateLimit
	}
	return limit
}

// CheckDimensions verifies every chunk carries an embedding of the same
// length, and that it matches stored when stored is non-zero.
func CheckDimensions(chunks []entity.DocumentChunk, stored int) error {
	want := stored
	for _, c := range chunks {
		if len(c.Embedding) == 0 {
			return entity.ErrEmptyEmbedding
		}
		if want == 0 {
			want = len(c.Embedding)
		}
		if len(c.Embedding) != want {
			return entity.ErrDimensionMismatch
		}
	}
	return nil
}
