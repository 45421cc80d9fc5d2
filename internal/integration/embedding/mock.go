package embedding

import (
	"context"
	"fmt"
	"hash/fnv"
	"math"
	"strings"
	"unicode"

	"github.com/futig/docsearch-backend/internal/entity"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
)

// MockConnector - детерминированные эмбеддинги без внешнего сервиса.
// Each lower-cased word is hashed into one bucket so texts sharing
// vocabulary get a positive cosine similarity.
type MockConnector struct {
	dimensions int
}

func NewMockConnector(dimensions int) *MockConnector {
	if dimensions <= 0 {
		dimensions = 256
	}
	return &MockConnector{dimensions: dimensions}
}

func (m *MockConnector) Dimensions() int {
	return m.dimensions
}

func (m *MockConnector) Embed(ctx context.Context, text string) ([]float32, error) {
	if strings.TrimSpace(text) == "" {
		return nil, fmt.Errorf("embed text: %w", entity.ErrMissingField)
	}

	ctxzap.Debug(ctx, "[MOCK] embedding text")

	vec := make([]float32, m.dimensions)
	words := strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	for _, w := range words {
		h := fnv.New32a()
		_, _ = h.Write([]byte(w))
		vec[h.Sum32()%uint32(m.dimensions)]++
	}

	var norm float64
	for _, v := range vec {
		norm += float64(v) * float64(v)
	}
	if norm == 0 {
		// Только знаки препинания: возвращаем единичный вектор
		vec[0] = 1
		return vec, nil
	}

	norm = math.Sqrt(norm)
	for i := range vec {
		vec[i] = float32(float64(vec[i]) / norm)
	}

	return vec, nil
}
