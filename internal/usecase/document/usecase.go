package document

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/futig/docsearch-backend/internal/entity"
	"github.com/futig/docsearch-backend/internal/pkg/validator"
	"github.com/futig/docsearch-backend/internal/repository"
	"github.com/futig/docsearch-backend/internal/storage"
	"github.com/google/uuid"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const defaultEmbedConcurrency = 8

// DocumentUsecase ingests uploaded files into the chunk store and manages
// their metadata.
type DocumentUsecase struct {
	chunkRepo   repository.ChunkRepository
	fileRepo    repository.FileRepository
	storage     FileStorage
	extractor   Extractor
	chunker     Chunker
	embedder    Embedder
	validator   *validator.Validator
	metrics     IngestMetrics
	concurrency int
}

// NewUsecase creates a new document use case
func NewUsecase(
	chunkRepo repository.ChunkRepository,
	fileRepo repository.FileRepository,
	fileStorage FileStorage,
	extractor Extractor,
	chunker Chunker,
	embedder Embedder,
	validator *validator.Validator,
	metrics IngestMetrics,
	concurrency int,
) *DocumentUsecase {
	if concurrency <= 0 {
		concurrency = defaultEmbedConcurrency
	}
	return &DocumentUsecase{
		chunkRepo:   chunkRepo,
		fileRepo:    fileRepo,
		storage:     fileStorage,
		extractor:   extractor,
		chunker:     chunker,
		embedder:    embedder,
		validator:   validator,
		metrics:     metrics,
		concurrency: concurrency,
	}
}

// Ingest stores the raw file, extracts and chunks its text, embeds every
// chunk and only then writes the chunks and flags the file as ingested.
// A failure before the insert leaves the file record with has_embeddings
// false; re-uploading the same file repairs it.
func (uc *DocumentUsecase) Ingest(ctx context.Context, req *entity.UploadFileRequest) (*entity.SourceFile, error) {
	if err := uc.validator.ValidateUpload(req); err != nil {
		return nil, err
	}

	start := time.Now()
	fileName := validator.SanitizeFilename(req.FileName)
	storagePath := storage.ObjectPath(req.OrganizationID, fileName)

	ctx = ctxzap.ToContext(ctx, ctxzap.Extract(ctx).With(
		zap.String("organization_id", req.OrganizationID),
		zap.String("file_name", fileName),
	))

	if err := uc.storage.Put(ctx, storagePath, req.Content); err != nil {
		return nil, fmt.Errorf("store file: %w", err)
	}

	file, err := uc.fileRepo.AddFile(ctx, entity.SourceFile{
		ID:             uuid.New().String(),
		OrganizationID: req.OrganizationID,
		FileName:       fileName,
		StoragePath:    storagePath,
		FileType:       strings.TrimPrefix(strings.ToLower(filepath.Ext(fileName)), "."),
		FileSize:       int64(len(req.Content)),
	})
	if err != nil {
		return nil, fmt.Errorf("save file metadata: %w", err)
	}

	doc, err := uc.extractor.Extract(fileName, req.ContentType, req.Content)
	if err != nil {
		return nil, fmt.Errorf("extract text: %w", err)
	}

	textChunks := uc.chunker.Chunk(doc.Text)
	if len(textChunks) == 0 {
		return nil, entity.ErrEmptyDocument
	}

	ctxzap.Info(ctx, "document chunked",
		zap.Int("chunks", len(textChunks)),
		zap.Int("pages", doc.PageCount),
	)

	embeddings, err := uc.embedChunks(ctx, textChunks)
	if err != nil {
		return nil, fmt.Errorf("embed chunks: %w", err)
	}

	chunks := make([]entity.DocumentChunk, len(textChunks))
	for i, tc := range textChunks {
		chunks[i] = entity.DocumentChunk{
			ID:             uuid.New().String(),
			OrganizationID: req.OrganizationID,
			SourceFileName: fileName,
			StoragePath:    storagePath,
			Content:        tc.Text,
			Embedding:      embeddings[i],
			ChunkIndex:     tc.Index,
			TotalChunks:    tc.Total,
			PageCount:      doc.PageCount,
		}
	}

	// A shorter new version must not leave chunks of the old one behind.
	removed, err := uc.chunkRepo.DeleteByStoragePath(ctx, storagePath)
	if err != nil {
		return nil, fmt.Errorf("remove previous chunks: %w", err)
	}
	if removed > 0 {
		ctxzap.Debug(ctx, "previous chunks removed", zap.Int64("removed", removed))
	}

	if err := uc.chunkRepo.InsertChunks(ctx, chunks); err != nil {
		return nil, fmt.Errorf("insert chunks: %w", err)
	}

	if err := uc.fileRepo.MarkIngested(ctx, storagePath); err != nil {
		return nil, fmt.Errorf("mark ingested: %w", err)
	}
	file.HasEmbeddings = true

	uc.metrics.AddIngestedChunks(len(chunks))

	ctxzap.Info(ctx, "document ingested",
		zap.String("file_id", file.ID),
		zap.Int("chunks", len(chunks)),
		zap.Duration("elapsed", time.Since(start)),
	)

	return file, nil
}

// embedChunks embeds chunks concurrently. The first failure cancels the rest.
func (uc *DocumentUsecase) embedChunks(ctx context.Context, chunks []entity.TextChunk) ([][]float32, error) {
	embeddings := make([][]float32, len(chunks))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(uc.concurrency)

	for i, c := range chunks {
		g.Go(func() error {
			emb, err := uc.embedder.Embed(gctx, c.Text)
			if err != nil {
				return fmt.Errorf("chunk %d: %w", c.Index, err)
			}
			embeddings[i] = emb
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return embeddings, nil
}

func (uc *DocumentUsecase) ListFiles(ctx context.Context, organizationID string) ([]*entity.SourceFile, error) {
	if organizationID == "" {
		return nil, fmt.Errorf("%w: organization_id", entity.ErrMissingField)
	}

	files, err := uc.fileRepo.ListFiles(ctx, organizationID)
	if err != nil {
		return nil, fmt.Errorf("list files: %w", err)
	}
	return files, nil
}

// DeleteFile removes a file's chunks, its metadata and the stored object.
// Files of other organizations are reported as not found.
func (uc *DocumentUsecase) DeleteFile(ctx context.Context, organizationID, fileID string) error {
	file, err := uc.fileRepo.GetFile(ctx, fileID)
	if err != nil {
		return err
	}
	if file.OrganizationID != organizationID {
		return entity.ErrFileNotFound
	}

	removed, err := uc.chunkRepo.DeleteByStoragePath(ctx, file.StoragePath)
	if err != nil {
		return fmt.Errorf("delete chunks: %w", err)
	}

	if err := uc.fileRepo.DeleteFile(ctx, fileID); err != nil {
		return fmt.Errorf("delete file metadata: %w", err)
	}

	if err := uc.storage.Delete(ctx, file.StoragePath); err != nil {
		ctxzap.Warn(ctx, "failed to delete stored object",
			zap.String("storage_path", file.StoragePath),
			zap.Error(err),
		)
	}

	ctxzap.Info(ctx, "file deleted",
		zap.String("file_id", fileID),
		zap.Int64("chunks_removed", removed),
	)
	return nil
}
