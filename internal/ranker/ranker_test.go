package ranker

import (
	"context"
	"fmt"
	"math"
	"math/rand"
	"testing"

	"github.com/futig/docsearch-backend/internal/entity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func chunk(id, content string, emb ...float32) entity.DocumentChunk {
	return entity.DocumentChunk{ID: id, Content: content, Embedding: emb}
}

func unitVector(rng *rand.Rand, dim int) []float32 {
	v := make([]float32, dim)
	var norm float64
	for i := range v {
		v[i] = float32(rng.NormFloat64())
		norm += float64(v[i]) * float64(v[i])
	}
	for i := range v {
		v[i] = float32(float64(v[i]) / math.Sqrt(norm))
	}
	return v
}

func TestCosineSimilarity_Range(t *testing.T) {
	rng := rand.New(rand.NewSource(42))

	for i := 0; i < 200; i++ {
		a, b := unitVector(rng, 32), unitVector(rng, 32)
		sim := CosineSimilarity(a, b)
		assert.GreaterOrEqual(t, sim, -1.0)
		assert.LessOrEqual(t, sim, 1.0)
		assert.InDelta(t, 1.0, CosineSimilarity(a, a), 1e-9)
	}
}

func TestCosineSimilarity_Degenerate(t *testing.T) {
	assert.Zero(t, CosineSimilarity(nil, nil))
	assert.Zero(t, CosineSimilarity([]float32{1, 0}, []float32{1, 0, 0}))
	assert.Zero(t, CosineSimilarity([]float32{0, 0}, []float32{1, 0}))
	assert.InDelta(t, -1.0, CosineSimilarity([]float32{1, 0}, []float32{-2, 0}), 1e-9)
}

func TestQueryTerms(t *testing.T) {
	terms := QueryTerms("What cheese is mandatory for the Detroit-style pizza? What cheese!")
	assert.Equal(t, []string{"what", "cheese", "mandatory", "for", "the", "detroit-style", "pizza"}, terms)
	assert.Empty(t, QueryTerms("is a ok"))
}

func TestTermMatchRatio(t *testing.T) {
	terms := []string{"cheese", "pizza", "brick", "oven"}
	assert.InDelta(t, 0.5, TermMatchRatio(terms, "Brick CHEESE on top"), 1e-9)
	assert.Zero(t, TermMatchRatio(nil, "anything"))
}

func TestSignals(t *testing.T) {
	r := New(1)
	c := r.score([]float32{1, 0}, nil, chunk("1", "1. Staff must proof the dough for 48 hours.", 1, 0))

	assert.True(t, c.HasSpecificDetails)
	assert.True(t, c.HasNumbers)
	assert.True(t, c.IsListItem)
	assert.InDelta(t, 1.2*1.1*1.1, c.AdjustedSimilarity, 1e-9)

	plain := r.score([]float32{1, 0}, nil, chunk("2", "A story about the founder.", 1, 0))
	assert.False(t, plain.HasSpecificDetails || plain.HasNumbers || plain.IsListItem)
	assert.InDelta(t, 1.0, plain.AdjustedSimilarity, 1e-9)
}

func TestRank_EmptyCandidates(t *testing.T) {
	got, err := New(1).Rank(context.Background(), []float32{1, 0}, "anything", nil)
	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestRank_FiltersAndLimits(t *testing.T) {
	candidates := []entity.DocumentChunk{
		chunk("low", "unrelated text", 0.05, 1),
		chunk("a", "alpha", 0.9, 0.1),
		chunk("b", "beta", 0.8, 0.2),
		chunk("c", "gamma", 0.7, 0.3),
		chunk("d", "delta", 0.6, 0.4),
		chunk("terms", "the pizza oven", 0, 1),
	}

	got, err := New(1).Rank(context.Background(), []float32{1, 0}, "pizza oven", candidates)
	require.NoError(t, err)

	require.Len(t, got, DefaultTopK)
	assert.Equal(t, "a", got[0].Chunk.ID)
	assert.Equal(t, "b", got[1].Chunk.ID)
	assert.Equal(t, "c", got[2].Chunk.ID)

	r := New(1)
	r.TopK = 10
	got, err = r.Rank(context.Background(), []float32{1, 0}, "pizza oven", candidates)
	require.NoError(t, err)

	ids := make([]string, 0, len(got))
	for _, c := range got {
		ids = append(ids, c.Chunk.ID)
	}
	assert.NotContains(t, ids, "low")
	assert.Contains(t, ids, "terms", "kept on term match alone")
}

func TestRank_AllBelowThresholds(t *testing.T) {
	candidates := []entity.DocumentChunk{
		chunk("1", "nothing relevant", 0.01, 1),
		chunk("2", "still nothing", -0.5, 1),
	}

	got, err := New(1).Rank(context.Background(), []float32{1, 0}, "pizza oven", candidates)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestRank_TiesKeepInputOrder(t *testing.T) {
	candidates := []entity.DocumentChunk{
		chunk("first", "same", 1, 0),
		chunk("second", "same", 1, 0),
		chunk("third", "same", 1, 0),
	}

	got, err := New(1).Rank(context.Background(), []float32{1, 0}, "q", candidates)
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, []string{"first", "second", "third"}, []string{got[0].Chunk.ID, got[1].Chunk.ID, got[2].Chunk.ID})
}

func TestRank_Monotonicity(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	query := []float32{1, 0}

	position := func(cs []entity.DocumentChunk, id string) int {
		r := New(1)
		r.TopK = len(cs)
		got, err := r.Rank(context.Background(), query, "", cs)
		require.NoError(t, err)
		for i, c := range got {
			if c.Chunk.ID == id {
				return i
			}
		}
		return len(cs)
	}

	for trial := 0; trial < 50; trial++ {
		cs := make([]entity.DocumentChunk, 8)
		for i := range cs {
			angle := rng.Float64() * math.Pi / 2
			cs[i] = chunk(fmt.Sprint(i), "plain words", float32(math.Cos(angle)), float32(math.Sin(angle)))
		}

		target := rng.Intn(len(cs))
		before := position(cs, cs[target].ID)

		// rotate the target toward the query
		x, y := cs[target].Embedding[0], cs[target].Embedding[1]
		cs[target].Embedding = []float32{x + 0.5, y * 0.5}
		after := position(cs, cs[target].ID)

		assert.LessOrEqual(t, after, before)
	}
}

func TestRank_DetroitScenario(t *testing.T) {
	candidates := []entity.DocumentChunk{
		chunk("history", "Our founder opened the first shop in 1987 and loved jazz.", 0.3, 0.95),
		chunk("cheese", "Wisconsin brick cheese blend is mandatory for the Detroit-style pizza. Spread it to the edges of the pan.", 0.93, 0.37),
		chunk("sauce", "Sauce is ladled in two racing stripes after baking.", 0.6, 0.8),
	}

	got, err := New(1).Rank(context.Background(), []float32{1, 0.3}, "What cheese is mandatory for the Detroit-style pizza?", candidates)
	require.NoError(t, err)
	require.NotEmpty(t, got)
	assert.Equal(t, "cheese", got[0].Chunk.ID)
	assert.True(t, got[0].HasSpecificDetails)
}

func TestRank_WorkersMatchSequential(t *testing.T) {
	rng := rand.New(rand.NewSource(99))
	query := unitVector(rng, 16)

	cs := make([]entity.DocumentChunk, 40)
	for i := range cs {
		content := "plain passage"
		if i%3 == 0 {
			content = "Staff must wait 10 minutes."
		}
		cs[i] = chunk(fmt.Sprint(i), content, unitVector(rng, 16)...)
	}

	seq := New(1)
	seq.TopK = len(cs)
	par := New(8)
	par.TopK = len(cs)

	want, err := seq.Rank(context.Background(), query, "staff wait", cs)
	require.NoError(t, err)
	got, err := par.Rank(context.Background(), query, "staff wait", cs)
	require.NoError(t, err)

	assert.Equal(t, want, got)
}

func TestRank_WorkersRespectCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	cs := []entity.DocumentChunk{chunk("1", "a", 1, 0), chunk("2", "b", 0, 1)}
	_, err := New(4).Rank(ctx, []float32{1, 0}, "q", cs)
	assert.ErrorIs(t, err, context.Canceled)
}
