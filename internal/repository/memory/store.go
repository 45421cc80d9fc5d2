// Package memory is an in-process document store for tests and mock mode.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/futig/docsearch-backend/internal/entity"
	"github.com/futig/docsearch-backend/internal/repository"
)

var (
	_ repository.ChunkRepository = (*Store)(nil)
	_ repository.FileRepository  = (*Store)(nil)
	_ repository.GradeRepository = (*Store)(nil)
)

type chunkKey struct {
	organizationID string
	fileName       string
	index          int
}

// Store keeps everything in maps guarded by one RWMutex.
type Store struct {
	mu         sync.RWMutex
	chunks     map[chunkKey]entity.DocumentChunk
	files      map[string]entity.SourceFile
	grades     []entity.GradeRecord
	dimensions int
	now        func() time.Time
}

func NewStore() *Store {
	return &Store{
		chunks: make(map[chunkKey]entity.DocumentChunk),
		files:  make(map[string]entity.SourceFile),
		now:    time.Now,
	}
}

func (s *Store) InsertChunks(_ context.Context, chunks []entity.DocumentChunk) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := repository.CheckDimensions(chunks, s.dimensions); err != nil {
		return err
	}

	now := s.now().UTC()
	for _, c := range chunks {
		key := chunkKey{c.OrganizationID, c.SourceFileName, c.ChunkIndex}
		if existing, ok := s.chunks[key]; ok {
			c.ID = existing.ID
			c.CreatedAt = existing.CreatedAt
		} else if c.CreatedAt.IsZero() {
			c.CreatedAt = now
		}
		c.Embedding = append([]float32(nil), c.Embedding...)
		s.chunks[key] = c
		s.dimensions = len(c.Embedding)
	}

	return nil
}

func (s *Store) FetchCandidates(_ context.Context, organizationID string, limit int) ([]entity.DocumentChunk, error) {
	if limit <= 0 {
		limit = repository.DefaultCandidateLimit
	}

	out := s.collect(func(c entity.DocumentChunk) bool { return c.OrganizationID == organizationID })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (s *Store) ListChunks(_ context.Context, organizationID, fileName string) ([]entity.DocumentChunk, error) {
	return s.collect(func(c entity.DocumentChunk) bool {
		return c.OrganizationID == organizationID && c.SourceFileName == fileName
	}), nil
}

// collect returns matching chunks ordered by file name and chunk index.
func (s *Store) collect(match func(entity.DocumentChunk) bool) []entity.DocumentChunk {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]entity.DocumentChunk, 0)
	for _, c := range s.chunks {
		if match(c) {
			out = append(out, c)
		}
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].SourceFileName != out[j].SourceFileName {
			return out[i].SourceFileName < out[j].SourceFileName
		}
		return out[i].ChunkIndex < out[j].ChunkIndex
	})
	return out
}

func (s *Store) DeleteByStoragePath(_ context.Context, storagePath string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var n int64
	for k, c := range s.chunks {
		if c.StoragePath == storagePath {
			delete(s.chunks, k)
			n++
		}
	}
	if len(s.chunks) == 0 {
		s.dimensions = 0
	}
	return n, nil
}

func (s *Store) AddFile(_ context.Context, file entity.SourceFile) (*entity.SourceFile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for id, existing := range s.files {
		if existing.StoragePath == file.StoragePath {
			existing.FileType = file.FileType
			existing.FileSize = file.FileSize
			existing.HasEmbeddings = false
			s.files[id] = existing
			return &existing, nil
		}
	}

	file.HasEmbeddings = false
	if file.CreatedAt.IsZero() {
		file.CreatedAt = s.now().UTC()
	}
	s.files[file.ID] = file
	return &file, nil
}

func (s *Store) GetFile(_ context.Context, fileID string) (*entity.SourceFile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	f, ok := s.files[fileID]
	if !ok {
		return nil, entity.ErrFileNotFound
	}
	return &f, nil
}

func (s *Store) ListFiles(_ context.Context, organizationID string) ([]*entity.SourceFile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	files := []*entity.SourceFile{}
	for _, f := range s.files {
		if f.OrganizationID == organizationID {
			f := f
			files = append(files, &f)
		}
	}

	sort.Slice(files, func(i, j int) bool {
		if !files[i].CreatedAt.Equal(files[j].CreatedAt) {
			return files[i].CreatedAt.After(files[j].CreatedAt)
		}
		return files[i].FileName < files[j].FileName
	})
	return files, nil
}

func (s *Store) MarkIngested(_ context.Context, storagePath string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for id, f := range s.files {
		if f.StoragePath == storagePath {
			f.HasEmbeddings = true
			s.files[id] = f
			return nil
		}
	}
	return entity.ErrFileNotFound
}

func (s *Store) DeleteFile(_ context.Context, fileID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.files[fileID]; !ok {
		return entity.ErrFileNotFound
	}
	delete(s.files, fileID)
	return nil
}

func (s *Store) AddGrade(_ context.Context, grade entity.GradeRecord) (*entity.GradeRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.grades = append(s.grades, grade)
	return &grade, nil
}

// ListRecentGrades returns the newest grades first.
func (s *Store) ListRecentGrades(_ context.Context, organizationID string, limit int) ([]entity.GradeRecord, error) {
	if limit <= 0 {
		limit = repository.DefaultCandidateLimit
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []entity.GradeRecord
	for _, g := range s.grades {
		if g.OrganizationID == organizationID {
			out = append(out, g)
		}
	}

	sort.SliceStable(out, func(i, j int) bool { return out[i].GradedAt.After(out[j].GradedAt) })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}
