package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/futig/docsearch-backend/internal/entity"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
)

var _ FileRepository = &FilePostgres{}

const fileColumns = `id, organization_id, file_name, storage_path, file_type, file_size, has_embeddings, created_at`

// FilePostgres implements FileRepository using PostgreSQL
type FilePostgres struct {
	db *pgxpool.Pool
}

func NewFilePostgres(db *pgxpool.Pool) *FilePostgres {
	return &FilePostgres{db: db}
}

func (r *FilePostgres) AddFile(ctx context.Context, file entity.SourceFile) (*entity.SourceFile, error) {
	fileID, err := uuid.Parse(file.ID)
	if err != nil {
		return nil, fmt.Errorf("parse file ID: %w", err)
	}

	row := r.db.QueryRow(ctx, `
		INSERT INTO source_files (id, organization_id, file_name, storage_path, file_type, file_size)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (storage_path) DO UPDATE SET
			file_type      = EXCLUDED.file_type,
			file_size      = EXCLUDED.file_size,
			has_embeddings = FALSE
		RETURNING `+fileColumns,
		pgtype.UUID{Bytes: fileID, Valid: true}, file.OrganizationID, file.FileName, file.StoragePath, file.FileType, file.FileSize,
	)

	result, err := scanFile(row)
	if err != nil {
		return nil, fmt.Errorf("add file: %w", err)
	}

	return result, nil
}

func (r *FilePostgres) GetFile(ctx context.Context, fileID string) (*entity.SourceFile, error) {
	fid, err := uuid.Parse(fileID)
	if err != nil {
		return nil, fmt.Errorf("parse file ID %q: %w", fileID, entity.ErrFileNotFound)
	}

	row := r.db.QueryRow(ctx, `SELECT `+fileColumns+` FROM source_files WHERE id = $1`, pgtype.UUID{Bytes: fid, Valid: true})
	result, err := scanFile(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, entity.ErrFileNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get file: %w", err)
	}

	return result, nil
}

func (r *FilePostgres) ListFiles(ctx context.Context, organizationID string) ([]*entity.SourceFile, error) {
	rows, err := r.db.Query(ctx,
		`SELECT `+fileColumns+` FROM source_files WHERE organization_id = $1 ORDER BY created_at DESC, file_name`,
		organizationID,
	)
	if err != nil {
		return nil, fmt.Errorf("list files: %w", err)
	}

	files, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (*entity.SourceFile, error) {
		return scanFile(row)
	})
	if err != nil {
		return nil, fmt.Errorf("scan files: %w", err)
	}

	return files, nil
}

func (r *FilePostgres) MarkIngested(ctx context.Context, storagePath string) error {
	tag, err := r.db.Exec(ctx, `UPDATE source_files SET has_embeddings = TRUE WHERE storage_path = $1`, storagePath)
	if err != nil {
		return fmt.Errorf("mark ingested: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return entity.ErrFileNotFound
	}
	return nil
}

func (r *FilePostgres) DeleteFile(ctx context.Context, fileID string) error {
	fid, err := uuid.Parse(fileID)
	if err != nil {
		return fmt.Errorf("parse file ID %q: %w", fileID, entity.ErrFileNotFound)
	}

	tag, err := r.db.Exec(ctx, `DELETE FROM source_files WHERE id = $1`, pgtype.UUID{Bytes: fid, Valid: true})
	if err != nil {
		return fmt.Errorf("delete file: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return entity.ErrFileNotFound
	}

	return nil
}
