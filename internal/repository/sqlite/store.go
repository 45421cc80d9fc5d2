// Package sqlite is a single-file document store for local and CLI use.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/binary"
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"time"

	"github.com/golang-migrate/migrate/v4"
	migratesqlite "github.com/golang-migrate/migrate/v4/database/sqlite"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	_ "modernc.org/sqlite" // SQLite driver

	"github.com/futig/docsearch-backend/internal/entity"
	"github.com/futig/docsearch-backend/internal/repository"
	"github.com/futig/docsearch-backend/internal/repository/sqlite/migrations"
)

var (
	_ repository.ChunkRepository = (*Store)(nil)
	_ repository.FileRepository  = (*Store)(nil)
	_ repository.GradeRepository = (*Store)(nil)
)

// Store implements the chunk, file and grade repositories on SQLite.
type Store struct {
	db *sql.DB
}

// NewStore opens (creating if needed) the database at path and migrates it.
func NewStore(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o700); err != nil {
			return nil, fmt.Errorf("creating data directory: %w", err)
		}
	}

	// WAL mode lets the query path read while ingestion writes
	db, err := sql.Open("sqlite", path+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return s, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

// migrate applies the embedded migrations with golang-migrate. The driver
// owns db once wrapped, so the migrate instance is never closed here.
func (s *Store) migrate() error {
	src, err := iofs.New(migrations.FS, ".")
	if err != nil {
		return fmt.Errorf("open embedded migrations: %w", err)
	}

	driver, err := migratesqlite.WithInstance(s.db, &migratesqlite.Config{})
	if err != nil {
		return fmt.Errorf("create migration driver: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", src, "sqlite", driver)
	if err != nil {
		return fmt.Errorf("create migration instance: %w", err)
	}

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("run migrations: %w", err)
	}
	return nil
}

// ==================== Chunks ====================

func (s *Store) InsertChunks(ctx context.Context, chunks []entity.DocumentChunk) error {
	if len(chunks) == 0 {
		return nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	var stored int
	err = tx.QueryRowContext(ctx, "SELECT dimensions FROM document_chunks LIMIT 1").Scan(&stored)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("read stored embedding dimension: %w", err)
	}
	if err := repository.CheckDimensions(chunks, stored); err != nil {
		return fmt.Errorf("insert chunks: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO document_chunks (id, organization_id, source_file_name, storage_path, content,
			embedding, dimensions, chunk_index, total_chunks, page_count, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(organization_id, source_file_name, chunk_index) DO UPDATE SET
			storage_path = excluded.storage_path,
			content = excluded.content,
			embedding = excluded.embedding,
			dimensions = excluded.dimensions,
			total_chunks = excluded.total_chunks,
			page_count = excluded.page_count
	`)
	if err != nil {
		return fmt.Errorf("prepare chunk insert: %w", err)
	}
	defer stmt.Close()

	now := time.Now().UTC().UnixNano()
	for _, c := range chunks {
		_, err := stmt.ExecContext(ctx, c.ID, c.OrganizationID, c.SourceFileName, c.StoragePath, c.Content,
			encodeEmbedding(c.Embedding), len(c.Embedding), c.ChunkIndex, c.TotalChunks, c.PageCount, now)
		if err != nil {
			return fmt.Errorf("upsert chunk %d: %w", c.ChunkIndex, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit chunks: %w", err)
	}
	return nil
}

const chunkColumns = `id, organization_id, source_file_name, storage_path, content, embedding,
	chunk_index, total_chunks, page_count, created_at`

func (s *Store) FetchCandidates(ctx context.Context, organizationID string, limit int) ([]entity.DocumentChunk, error) {
	if limit <= 0 {
		limit = repository.DefaultCandidateLimit
	}

	rows, err := s.db.QueryContext(ctx, `SELECT `+chunkColumns+` FROM document_chunks
		WHERE organization_id = ?
		ORDER BY source_file_name, chunk_index
		LIMIT ?`, organizationID, limit)
	if err != nil {
		return nil, fmt.Errorf("fetch candidates: %w", err)
	}
	return scanChunks(rows)
}

func (s *Store) ListChunks(ctx context.Context, organizationID, fileName string) ([]entity.DocumentChunk, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+chunkColumns+` FROM document_chunks
		WHERE organization_id = ? AND source_file_name = ?
		ORDER BY chunk_index`, organizationID, fileName)
	if err != nil {
		return nil, fmt.Errorf("list chunks: %w", err)
	}
	return scanChunks(rows)
}

func (s *Store) DeleteByStoragePath(ctx context.Context, storagePath string) (int64, error) {
	res, err := s.db.ExecContext(ctx, "DELETE FROM document_chunks WHERE storage_path = ?", storagePath)
	if err != nil {
		return 0, fmt.Errorf("delete chunks: %w", err)
	}
	return res.RowsAffected()
}

func scanChunks(rows *sql.Rows) ([]entity.DocumentChunk, error) {
	defer rows.Close()

	var chunks []entity.DocumentChunk
	for rows.Next() {
		var (
			c         entity.DocumentChunk
			blob      []byte
			createdAt int64
		)
		if err := rows.Scan(&c.ID, &c.OrganizationID, &c.SourceFileName, &c.StoragePath, &c.Content,
			&blob, &c.ChunkIndex, &c.TotalChunks, &c.PageCount, &createdAt); err != nil {
			return nil, fmt.Errorf("scan chunk: %w", err)
		}
		c.Embedding = decodeEmbedding(blob)
		c.CreatedAt = time.Unix(0, createdAt).UTC()
		chunks = append(chunks, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate chunks: %w", err)
	}
	return chunks, nil
}

// ==================== Files ====================

const fileColumns = `id, organization_id, file_name, storage_path, file_type, file_size, has_embeddings, created_at`

func (s *Store) AddFile(ctx context.Context, file entity.SourceFile) (*entity.SourceFile, error) {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO source_files (id, organization_id, file_name, storage_path, file_type, file_size, has_embeddings, created_at)
		VALUES (?, ?, ?, ?, ?, ?, 0, ?)
		ON CONFLICT(storage_path) DO UPDATE SET
			file_type = excluded.file_type,
			file_size = excluded.file_size,
			has_embeddings = 0
	`, file.ID, file.OrganizationID, file.FileName, file.StoragePath, file.FileType, file.FileSize, time.Now().UTC().UnixNano())
	if err != nil {
		return nil, fmt.Errorf("add file: %w", err)
	}

	row := s.db.QueryRowContext(ctx, `SELECT `+fileColumns+` FROM source_files WHERE storage_path = ?`, file.StoragePath)
	return scanFile(row)
}

func (s *Store) GetFile(ctx context.Context, fileID string) (*entity.SourceFile, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+fileColumns+` FROM source_files WHERE id = ?`, fileID)
	f, err := scanFile(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, entity.ErrFileNotFound
	}
	return f, err
}

func (s *Store) ListFiles(ctx context.Context, organizationID string) ([]*entity.SourceFile, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+fileColumns+` FROM source_files
		WHERE organization_id = ? ORDER BY created_at DESC, file_name`, organizationID)
	if err != nil {
		return nil, fmt.Errorf("list files: %w", err)
	}
	defer rows.Close()

	files := []*entity.SourceFile{}
	for rows.Next() {
		f, err := scanFile(rows)
		if err != nil {
			return nil, err
		}
		files = append(files, f)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate files: %w", err)
	}
	return files, nil
}

func (s *Store) MarkIngested(ctx context.Context, storagePath string) error {
	res, err := s.db.ExecContext(ctx, "UPDATE source_files SET has_embeddings = 1 WHERE storage_path = ?", storagePath)
	if err != nil {
		return fmt.Errorf("mark ingested: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return entity.ErrFileNotFound
	}
	return nil
}

func (s *Store) DeleteFile(ctx context.Context, fileID string) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM source_files WHERE id = ?", fileID)
	if err != nil {
		return fmt.Errorf("delete file: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return entity.ErrFileNotFound
	}
	return nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanFile(row scanner) (*entity.SourceFile, error) {
	var (
		f         entity.SourceFile
		ingested  int
		createdAt int64
	)
	err := row.Scan(&f.ID, &f.OrganizationID, &f.FileName, &f.StoragePath, &f.FileType, &f.FileSize, &ingested, &createdAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scan file: %w", err)
	}
	f.HasEmbeddings = ingested != 0
	f.CreatedAt = time.Unix(0, createdAt).UTC()
	return &f, nil
}

// ==================== Grades ====================

func (s *Store) AddGrade(ctx context.Context, grade entity.GradeRecord) (*entity.GradeRecord, error) {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO grade_records (id, test_id, organization_id, query, bot_response, expected_answer, score, graded_by, graded_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, grade.ID, grade.TestID, grade.OrganizationID, grade.Query, grade.BotResponse,
		grade.ExpectedAnswer, grade.Score, grade.GradedBy, grade.GradedAt.UTC().UnixNano())
	if err != nil {
		return nil, fmt.Errorf("add grade: %w", err)
	}

	grade.GradedAt = grade.GradedAt.UTC()
	return &grade, nil
}

func (s *Store) ListRecentGrades(ctx context.Context, organizationID string, limit int) ([]entity.GradeRecord, error) {
	if limit <= 0 {
		limit = repository.DefaultCandidateLimit
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, test_id, organization_id, query, bot_response, expected_answer, score, graded_by, graded_at
		FROM grade_records WHERE organization_id = ?
		ORDER BY graded_at DESC LIMIT ?`, organizationID, limit)
	if err != nil {
		return nil, fmt.Errorf("list grades: %w", err)
	}
	defer rows.Close()

	var grades []entity.GradeRecord
	for rows.Next() {
		var (
			g        entity.GradeRecord
			gradedAt int64
		)
		if err := rows.Scan(&g.ID, &g.TestID, &g.OrganizationID, &g.Query, &g.BotResponse,
			&g.ExpectedAnswer, &g.Score, &g.GradedBy, &gradedAt); err != nil {
			return nil, fmt.Errorf("scan grade: %w", err)
		}
		g.GradedAt = time.Unix(0, gradedAt).UTC()
		grades = append(grades, g)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate grades: %w", err)
	}
	return grades, nil
}

// encodeEmbedding converts float32 slice to bytes (little-endian).
func encodeEmbedding(embedding []float32) []byte {
	buf := make([]byte, len(embedding)*4)
	for i, f := range embedding {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(f))
	}
	return buf
}

// decodeEmbedding converts bytes to float32 slice (little-endian).
func decodeEmbedding(data []byte) []float32 {
	floats := make([]float32, len(data)/4)
	for i := range floats {
		floats[i] = math.Float32frombits(binary.LittleEndian.Uint32(data[i*4:]))
	}
	return floats
}
