package search

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/futig/docsearch-backend/internal/config"
	"github.com/futig/docsearch-backend/internal/entity"
	"github.com/futig/docsearch-backend/internal/integration/llm"
	"github.com/futig/docsearch-backend/internal/metrics"
	"github.com/futig/docsearch-backend/internal/pkg/cache"
	"github.com/futig/docsearch-backend/internal/pkg/validator"
	"github.com/futig/docsearch-backend/internal/ranker"
	"github.com/futig/docsearch-backend/internal/repository/memory"
	"github.com/futig/docsearch-backend/internal/synthesizer"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	detroitQuery  = "What cheese is mandatory for the Detroit-style pizza?"
	detroitAnswer = "Wisconsin brick cheese blend is mandatory for the Detroit-style pizza."
	detroitChunk  = "Detroit-style pizza is baked in a steel pan.\n- " + detroitAnswer + "\nBake it at 500 degrees."
)

type fakeEmbedder struct {
	vec []float32
	err error
}

func (f *fakeEmbedder) EmbedQuery(context.Context, string) ([]float32, error) {
	return f.vec, f.err
}

type fixture struct {
	uc      *SearchUsecase
	store   *memory.Store
	metrics *metrics.Metrics
}

func newFixture(t *testing.T, embedder QueryEmbedder, generator synthesizer.Generator) fixture {
	t.Helper()

	store := memory.NewStore()
	m := metrics.New(prometheus.NewRegistry())
	if generator == nil {
		generator = llm.NewMockConnector(nil)
	}
	gen := synthesizer.NewGenerative(generator, cache.New[entity.SearchResult](synthesizer.DefaultResponseCacheTTL), m)

	uc := NewUsecase(
		store,
		embedder,
		ranker.New(1),
		gen,
		validator.NewValidator(config.FileUploadConfig{}),
		m,
		20,
	)
	return fixture{uc: uc, store: store, metrics: m}
}

func seed(t *testing.T, store *memory.Store) {
	t.Helper()

	norm := float32(math.Sqrt(0.82))
	err := store.InsertChunks(context.Background(), []entity.DocumentChunk{
		{
			ID: "c1", OrganizationID: "org-1", SourceFileName: "menu.txt", StoragePath: "org-1/menu.txt",
			Content: detroitChunk, Embedding: []float32{0.9 / norm, 0.1 / norm, 0},
			ChunkIndex: 1, TotalChunks: 2,
		},
		{
			ID: "c2", OrganizationID: "org-1", SourceFileName: "menu.txt", StoragePath: "org-1/menu.txt",
			Content: "Ovens are cleaned every Sunday.", Embedding: []float32{0, 0, 1},
			ChunkIndex: 2, TotalChunks: 2,
		},
	})
	require.NoError(t, err)
}

func TestSearch_ExtractiveDetroitScenario(t *testing.T) {
	f := newFixture(t, &fakeEmbedder{vec: []float32{1, 0, 0}}, nil)
	seed(t, f.store)

	got, err := f.uc.Run(context.Background(), &entity.SearchRequest{
		OrganizationID: "org-1",
		Query:          detroitQuery,
		Mode:           entity.SearchModeExtractive,
	})
	require.NoError(t, err)
	assert.Equal(t, detroitAnswer, got.Content)
	assert.InDelta(t, 0.9/math.Sqrt(0.82), got.Similarity, 1e-6)

	assert.Equal(t, 1.0, testutil.ToFloat64(f.metrics.SearchTotal.WithLabelValues(metrics.OutcomeAnswered)))
}

func TestSearch_GenerativeUsesTopPassage(t *testing.T) {
	f := newFixture(t, &fakeEmbedder{vec: []float32{1, 0, 0}}, nil)
	seed(t, f.store)

	got, err := f.uc.Search(context.Background(), detroitQuery, "org-1", nil)
	require.NoError(t, err)
	assert.Equal(t, "Detroit-style pizza is baked in a steel pan.", got.Content)
	assert.Greater(t, got.Similarity, 0.9)
}

func TestSearch_NoMatchReturnsSentinel(t *testing.T) {
	f := newFixture(t, &fakeEmbedder{vec: []float32{0.1, -0.9, 0}}, nil)
	seed(t, f.store)

	got, err := f.uc.Search(context.Background(), "parking rules downtown", "org-1", nil)
	require.NoError(t, err)
	assert.Equal(t, entity.NoAnswer(), got)

	assert.Equal(t, 1.0, testutil.ToFloat64(f.metrics.SearchTotal.WithLabelValues(metrics.OutcomeNoMatch)))
}

func TestSearch_EmptyOrganizationStore(t *testing.T) {
	f := newFixture(t, &fakeEmbedder{vec: []float32{1, 0, 0}}, nil)

	got, err := f.uc.Search(context.Background(), detroitQuery, "org-without-documents", nil)
	require.NoError(t, err)
	assert.Equal(t, entity.NoAnswerMessage, got.Content)
	assert.Zero(t, got.Similarity)
}

func TestSearch_ValidationHappensFirst(t *testing.T) {
	embedder := &fakeEmbedder{err: errors.New("must not be called")}
	f := newFixture(t, embedder, nil)

	_, err := f.uc.Search(context.Background(), "  ", "org-1", nil)
	assert.ErrorIs(t, err, entity.ErrMissingField)

	_, err = f.uc.Search(context.Background(), detroitQuery, "", nil)
	assert.ErrorIs(t, err, entity.ErrMissingField)
}

func TestSearch_PropagatesExternalFailures(t *testing.T) {
	embedErr := errors.New("embedding service unavailable")
	f := newFixture(t, &fakeEmbedder{err: embedErr}, nil)

	_, err := f.uc.Search(context.Background(), detroitQuery, "org-1", nil)
	assert.ErrorIs(t, err, embedErr)
	assert.Equal(t, 1.0, testutil.ToFloat64(f.metrics.SearchTotal.WithLabelValues(metrics.OutcomeError)))

	genErr := errors.New("model overloaded")
	f = newFixture(t, &fakeEmbedder{vec: []float32{1, 0, 0}}, failingGenerator{err: genErr})
	seed(t, f.store)

	_, err = f.uc.Search(context.Background(), detroitQuery, "org-1", nil)
	assert.ErrorIs(t, err, genErr)
}

type failingGenerator struct{ err error }

func (g failingGenerator) Complete(context.Context, entity.CompletionRequest) (string, error) {
	return "", g.err
}
