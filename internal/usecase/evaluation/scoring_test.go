package evaluation

import (
	"math/rand"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStringSimilarity(t *testing.T) {
	assert.InDelta(t, 1-3.0/7.0, StringSimilarity("kitten", "sitting"), 1e-9)
	assert.Equal(t, 1.0, StringSimilarity("Same Text", "same text"))
	assert.Equal(t, 1.0, StringSimilarity("", ""))
	assert.Equal(t, 0.0, StringSimilarity("abc", ""))
	assert.InDelta(t, 0.6, StringSimilarity("пицца", "пицы"), 1e-9, "distance counts runes, not bytes")
	assert.Equal(t, 1.0, StringSimilarity("ПИЦЦА", "пицца"))
}

func TestKeywordCoverage(t *testing.T) {
	expected := "Wisconsin brick cheese is mandatory."
	assert.Equal(t, 1.0, KeywordCoverage("wisconsin BRICK cheese, mandatory", expected))
	assert.InDelta(t, 0.5, KeywordCoverage("Brick cheese only.", expected), 1e-9)
	assert.Equal(t, 1.0, KeywordCoverage("anything", "a to be"))
}

func TestEvaluateResponse_ExactMatchScoresOne(t *testing.T) {
	answer := "Wisconsin brick cheese blend is mandatory for the Detroit-style pizza."
	got := EvaluateResponse(answer, answer)

	assert.InDelta(t, 1.0, got.Overall, 1e-9)
	assert.Equal(t, 1.0, got.Penalty)
}

func TestEvaluateResponse_EmptyExpected(t *testing.T) {
	assert.Equal(t, 0.0, EvaluateResponse("something", "").Overall)
	assert.Equal(t, 1.0, EvaluateResponse("", "").Overall)
}

func TestEvaluateResponse_LengthRatio(t *testing.T) {
	expected := "Dough rests overnight."
	shorter := EvaluateResponse("Overnight.", expected)
	assert.Equal(t, 1.0, shorter.LengthRatio)

	longer := EvaluateResponse("Dough rests overnight in the cooler.", expected)
	assert.InDelta(t, float64(len(expected))/float64(len("Dough rests overnight in the cooler.")), longer.LengthRatio, 1e-9)
}

func TestEvaluateResponse_Penalties(t *testing.T) {
	expected := strings.Repeat("The pan is twelve by eighteen inches and bakes hot. ", 4)

	tests := []struct {
		name     string
		response string
		penalty  float64
	}{
		{name: "clean", response: "The pan is twelve by eighteen inches.", penalty: 1},
		{name: "bullet character", response: "• The pan is large.", penalty: 0.7},
		{name: "dash list", response: "Pan sizes:\n- large\n- small", penalty: 0.7},
		{name: "header vocabulary", response: "Pan specifications are large.", penalty: 0.8},
		{name: "dimensions", response: "The pan is 12x18.", penalty: 0.85},
		{name: "spaced dimensions", response: "The pan is 12 × 18.", penalty: 0.85},
		{name: "temperature", response: "Bake at 500°F.", penalty: 0.85},
		{name: "degrees word", response: "Bake at 500 degrees F.", penalty: 0.85},
		{name: "stacked", response: "Quality control:\n* pan 12x18 at 500°F", penalty: 0.7 * 0.8 * 0.85 * 0.85},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := EvaluateResponse(tt.response, expected)
			assert.InDelta(t, tt.penalty, got.Penalty, 1e-9)
		})
	}
}

func TestEvaluateResponse_VerbosityPenalty(t *testing.T) {
	expected := "Dough rests overnight."
	got := EvaluateResponse(strings.Repeat("Dough rests overnight. ", 3), expected)

	assert.InDelta(t, 0.3, got.Penalty, 1e-9)
	assert.Less(t, got.Overall, 0.3)
}

func TestEvaluateResponse_NeverExceedsOne(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	vocabulary := []string{"dough", "cheese", "pan", "•", "-", "12x18", "°C", "oven", "\n", "rests", "brick"}

	sentence := func() string {
		n := rng.Intn(12)
		parts := make([]string, n)
		for i := range parts {
			parts[i] = vocabulary[rng.Intn(len(vocabulary))]
		}
		return strings.Join(parts, " ")
	}

	for i := 0; i < 500; i++ {
		got := EvaluateResponse(sentence(), sentence())
		assert.GreaterOrEqual(t, got.Overall, 0.0)
		assert.LessOrEqual(t, got.Overall, 1.0)
	}
}
