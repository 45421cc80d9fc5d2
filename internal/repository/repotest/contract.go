// Package repotest holds behaviour tests shared by every store
// implementation.
package repotest

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/futig/docsearch-backend/internal/entity"
	"github.com/futig/docsearch-backend/internal/repository"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Store is the full set of repositories a backend provides.
type Store interface {
	repository.ChunkRepository
	repository.FileRepository
	repository.GradeRepository
}

func chunks(org, file string, n int, dims int) []entity.DocumentChunk {
	out := make([]entity.DocumentChunk, n)
	for i := range out {
		emb := make([]float32, dims)
		emb[i%dims] = 1
		out[i] = entity.DocumentChunk{
			ID:             uuid.NewString(),
			OrganizationID: org,
			SourceFileName: file,
			StoragePath:    org + "/" + file,
			Content:        fmt.Sprintf("%s paragraph %d", file, i+1),
			Embedding:      emb,
			ChunkIndex:     i + 1,
			TotalChunks:    n,
			PageCount:      1,
		}
	}
	return out
}

// Run exercises newStore against the repository contract.
func Run(t *testing.T, newStore func(t *testing.T) Store) {
	t.Run("FetchCandidatesOrderedAndLimited", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()

		require.NoError(t, s.InsertChunks(ctx, chunks("org-1", "b.pdf", 3, 4)))
		require.NoError(t, s.InsertChunks(ctx, chunks("org-1", "a.pdf", 2, 4)))
		require.NoError(t, s.InsertChunks(ctx, chunks("org-2", "a.pdf", 2, 4)))

		got, err := s.FetchCandidates(ctx, "org-1", 0)
		require.NoError(t, err)
		require.Len(t, got, 5)

		var order []string
		for _, c := range got {
			order = append(order, fmt.Sprintf("%s#%d", c.SourceFileName, c.ChunkIndex))
			assert.Equal(t, "org-1", c.OrganizationID)
			assert.Len(t, c.Embedding, 4)
		}
		assert.Equal(t, []string{"a.pdf#1", "a.pdf#2", "b.pdf#1", "b.pdf#2", "b.pdf#3"}, order)

		limited, err := s.FetchCandidates(ctx, "org-1", 2)
		require.NoError(t, err)
		assert.Len(t, limited, 2)

		none, err := s.FetchCandidates(ctx, "org-3", 20)
		require.NoError(t, err)
		assert.Empty(t, none)
	})

	t.Run("InsertChunksIsIdempotent", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()

		first := chunks("org-1", "menu.pdf", 3, 4)
		require.NoError(t, s.InsertChunks(ctx, first))

		again := chunks("org-1", "menu.pdf", 3, 4)
		again[0].Content = "rewritten"
		require.NoError(t, s.InsertChunks(ctx, again))

		got, err := s.ListChunks(ctx, "org-1", "menu.pdf")
		require.NoError(t, err)
		require.Len(t, got, 3)
		assert.Equal(t, "rewritten", got[0].Content)
		assert.Equal(t, first[0].ID, got[0].ID, "re-ingestion keeps the original row")
	})

	t.Run("InsertChunksRejectsDimensionMismatch", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()

		require.NoError(t, s.InsertChunks(ctx, chunks("org-1", "a.pdf", 1, 4)))

		err := s.InsertChunks(ctx, chunks("org-1", "b.pdf", 2, 8))
		assert.ErrorIs(t, err, entity.ErrDimensionMismatch)

		mixed := append(chunks("org-1", "c.pdf", 1, 4), chunks("org-1", "d.pdf", 1, 3)...)
		err = s.InsertChunks(ctx, mixed)
		assert.ErrorIs(t, err, entity.ErrDimensionMismatch)

		got, err := s.FetchCandidates(ctx, "org-1", 20)
		require.NoError(t, err)
		assert.Len(t, got, 1, "rejected batches leave nothing behind")
	})

	t.Run("DeleteByStoragePath", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()

		require.NoError(t, s.InsertChunks(ctx, chunks("org-1", "a.pdf", 3, 4)))
		require.NoError(t, s.InsertChunks(ctx, chunks("org-1", "b.pdf", 1, 4)))

		n, err := s.DeleteByStoragePath(ctx, "org-1/a.pdf")
		require.NoError(t, err)
		assert.EqualValues(t, 3, n)

		got, err := s.FetchCandidates(ctx, "org-1", 20)
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, "b.pdf", got[0].SourceFileName)
	})

	t.Run("FilesLifecycle", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()

		file := entity.SourceFile{
			ID:             uuid.NewString(),
			OrganizationID: "org-1",
			FileName:       "menu.pdf",
			StoragePath:    "org-1/menu.pdf",
			FileType:       "pdf",
			FileSize:       1024,
		}

		added, err := s.AddFile(ctx, file)
		require.NoError(t, err)
		assert.Equal(t, file.ID, added.ID)
		assert.False(t, added.HasEmbeddings)

		require.NoError(t, s.MarkIngested(ctx, file.StoragePath))
		got, err := s.GetFile(ctx, file.ID)
		require.NoError(t, err)
		assert.True(t, got.HasEmbeddings)

		// same storage path resets the ingestion flag and keeps the row
		reupload := file
		reupload.ID = uuid.NewString()
		reupload.FileSize = 2048
		readded, err := s.AddFile(ctx, reupload)
		require.NoError(t, err)
		assert.Equal(t, file.ID, readded.ID)
		assert.EqualValues(t, 2048, readded.FileSize)
		assert.False(t, readded.HasEmbeddings)

		files, err := s.ListFiles(ctx, "org-1")
		require.NoError(t, err)
		require.Len(t, files, 1)

		others, err := s.ListFiles(ctx, "org-2")
		require.NoError(t, err)
		assert.Empty(t, others)

		require.NoError(t, s.DeleteFile(ctx, file.ID))
		_, err = s.GetFile(ctx, file.ID)
		assert.ErrorIs(t, err, entity.ErrFileNotFound)
		assert.ErrorIs(t, s.DeleteFile(ctx, file.ID), entity.ErrFileNotFound)
		assert.ErrorIs(t, s.MarkIngested(ctx, "org-1/missing.pdf"), entity.ErrFileNotFound)
	})

	t.Run("GradesNewestFirst", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()
		base := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

		for i := 0; i < 5; i++ {
			_, err := s.AddGrade(ctx, entity.GradeRecord{
				ID:             uuid.NewString(),
				TestID:         fmt.Sprintf("t-%d", i),
				OrganizationID: "org-1",
				Query:          "q",
				BotResponse:    "r",
				ExpectedAnswer: "e",
				Score:          float64(i) / 10,
				GradedBy:       "reviewer",
				GradedAt:       base.Add(time.Duration(i) * time.Hour),
			})
			require.NoError(t, err)
		}

		got, err := s.ListRecentGrades(ctx, "org-1", 3)
		require.NoError(t, err)
		require.Len(t, got, 3)
		assert.Equal(t, "t-4", got[0].TestID)
		assert.Equal(t, "t-2", got[2].TestID)
		assert.True(t, got[0].GradedAt.Equal(base.Add(4*time.Hour)))

		none, err := s.ListRecentGrades(ctx, "org-2", 3)
		require.NoError(t, err)
		assert.Empty(t, none)
	})
}
