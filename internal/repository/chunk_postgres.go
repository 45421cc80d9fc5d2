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
	"github.com/pgvector/pgvector-go"
)

var _ ChunkRepository = &ChunkPostgres{}

const chunkColumns = `id, organization_id, source_file_name, storage_path, content, embedding,
	chunk_index, total_chunks, page_count, created_at`

const upsertChunkQuery = `
INSERT INTO document_chunks (id, organization_id, source_file_name, storage_path, content, embedding,
	chunk_index, total_chunks, page_count)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
ON CONFLICT ON CONSTRAINT uq_document_chunks_position DO UPDATE SET
	storage_path = EXCLUDED.storage_path,
	content      = EXCLUDED.content,
	embedding    = EXCLUDED.embedding,
	total_chunks = EXCLUDED.total_chunks,
	page_count   = EXCLUDED.page_count`

// ChunkPostgres implements ChunkRepository on PostgreSQL with pgvector.
type ChunkPostgres struct {
	db *pgxpool.Pool
}

func NewChunkPostgres(db *pgxpool.Pool) *ChunkPostgres {
	return &ChunkPostgres{db: db}
}

// InsertChunks upserts the whole batch in one transaction.
func (r *ChunkPostgres) InsertChunks(ctx context.Context, chunks []entity.DocumentChunk) error {
	if len(chunks) == 0 {
		return nil
	}

	stored, err := r.storedDimensions(ctx)
	if err != nil {
		return err
	}
	if err := CheckDimensions(chunks, stored); err != nil {
		return fmt.Errorf("insert chunks: %w", err)
	}

	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	batch := &pgx.Batch{}
	for _, c := range chunks {
		chunkID, err := uuid.Parse(c.ID)
		if err != nil {
			return fmt.Errorf("parse chunk ID: %w", err)
		}
		batch.Queue(upsertChunkQuery,
			pgtype.UUID{Bytes: chunkID, Valid: true}, c.OrganizationID, c.SourceFileName, c.StoragePath, c.Content,
			pgvector.NewVector(c.Embedding), c.ChunkIndex, c.TotalChunks, c.PageCount,
		)
	}

	br := tx.SendBatch(ctx, batch)
	for i := range chunks {
		if _, err := br.Exec(); err != nil {
			br.Close()
			return fmt.Errorf("upsert chunk %d: %w", chunks[i].ChunkIndex, err)
		}
	}
	if err := br.Close(); err != nil {
		return fmt.Errorf("close batch: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit chunks: %w", err)
	}

	return nil
}

func (r *ChunkPostgres) storedDimensions(ctx context.Context) (int, error) {
	var dims int
	err := r.db.QueryRow(ctx, `SELECT vector_dims(embedding) FROM document_chunks LIMIT 1`).Scan(&dims)
	if errors.Is(err, pgx.ErrNoRows) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("read stored embedding dimension: %w", err)
	}
	return dims, nil
}

func (r *ChunkPostgres) FetchCandidates(ctx context.Context, organizationID string, limit int) ([]entity.DocumentChunk, error) {
	rows, err := r.db.Query(ctx,
		`SELECT `+chunkColumns+` FROM document_chunks
		WHERE organization_id = $1
		ORDER BY source_file_name, chunk_index
		LIMIT $2`,
		organizationID, normalizeLimit(limit),
	)
	if err != nil {
		return nil, fmt.Errorf("fetch candidates: %w", err)
	}

	return collectChunks(rows)
}

func (r *ChunkPostgres) ListChunks(ctx context.Context, organizationID, fileName string) ([]entity.DocumentChunk, error) {
	rows, err := r.db.Query(ctx,
		`SELECT `+chunkColumns+` FROM document_chunks
		WHERE organization_id = $1 AND source_file_name = $2
		ORDER BY chunk_index`,
		organizationID, fileName,
	)
	if err != nil {
		return nil, fmt.Errorf("list chunks: %w", err)
	}

	return collectChunks(rows)
}

func (r *ChunkPostgres) DeleteByStoragePath(ctx context.Context, storagePath string) (int64, error) {
	tag, err := r.db.Exec(ctx, `DELETE FROM document_chunks WHERE storage_path = $1`, storagePath)
	if err != nil {
		return 0, fmt.Errorf("delete chunks: %w", err)
	}
	return tag.RowsAffected(), nil
}

func collectChunks(rows pgx.Rows) ([]entity.DocumentChunk, error) {
	chunks, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (entity.DocumentChunk, error) {
		var (
			c   entity.DocumentChunk
			id  pgtype.UUID
			emb pgvector.Vector
		)
		err := row.Scan(&id, &c.OrganizationID, &c.SourceFileName, &c.StoragePath, &c.Content, &emb,
			&c.ChunkIndex, &c.TotalChunks, &c.PageCount, &c.CreatedAt)
		c.ID = uuid.UUID(id.Bytes).String()
		c.Embedding = emb.Slice()
		return c, err
	})
	if err != nil {
		return nil, fmt.Errorf("scan chunks: %w", err)
	}
	return chunks, nil
}
