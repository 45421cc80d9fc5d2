package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/futig/docsearch-backend/internal/entity"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

var (
	mockCountPattern    = regexp.MustCompile(`exactly (\d+)`)
	mockSentencePattern = regexp.MustCompile(`[^.!?]+[.!?]?`)
	mockComplexities    = []entity.Complexity{entity.ComplexitySimple, entity.ComplexityMedium, entity.ComplexityComplex}
	mockTones           = []string{"casual", "formal", "urgent"}
)

// MockConnector - мок-реализация LLM коннектора для локального запуска.
// Plain requests are answered with the first sentence of the top passage;
// JSON requests get a question batch spread across the configured categories.
type MockConnector struct {
	categories []string
}

func NewMockConnector(categories []string) *MockConnector {
	return &MockConnector{categories: categories}
}

func (m *MockConnector) Complete(ctx context.Context, req entity.CompletionRequest) (string, error) {
	if req.JSONResponse {
		return m.questions(ctx, req)
	}

	ctxzap.Info(ctx, "[MOCK] generating answer via LLM")

	for _, line := range strings.Split(req.SystemPrompt, "\n") {
		if text, ok := strings.CutPrefix(strings.TrimSpace(line), "[1] "); ok {
			if s := firstSentence(text); s != "" {
				return s, nil
			}
		}
	}

	return "I'm not sure about that one, could you rephrase the question?", nil
}

func (m *MockConnector) questions(ctx context.Context, req entity.CompletionRequest) (string, error) {
	count := 5
	if match := mockCountPattern.FindStringSubmatch(req.SystemPrompt); match != nil {
		if n, err := strconv.Atoi(match[1]); err == nil && n > 0 {
			count = n
		}
	}

	var document string
	if len(req.Messages) > 0 {
		document = req.Messages[len(req.Messages)-1].Content
	}
	sentences := mockSentencePattern.FindAllString(document, -1)

	categories := m.categories
	if len(categories) == 0 {
		categories = []string{"general"}
	}

	out := entity.GeneratedQuestions{Questions: make([]entity.GeneratedQuestion, 0, count)}
	for i := 0; i < count; i++ {
		answer := "It depends on the situation."
		if len(sentences) > 0 {
			answer = strings.TrimSpace(sentences[i%len(sentences)])
		}
		topic := strings.Join(firstWords(answer, 4), " ")

		out.Questions = append(out.Questions, entity.GeneratedQuestion{
			Query:          fmt.Sprintf("Question %d: what should I know about %s?", i+1, strings.ToLower(topic)),
			ExpectedAnswer: answer,
			Category:       categories[i%len(categories)],
			Complexity:     string(mockComplexities[i%len(mockComplexities)]),
			Tone:           mockTones[i%len(mockTones)],
		})
	}

	ctxzap.Info(ctx, "[MOCK] questions generated", zap.Int("count", len(out.Questions)))

	data, err := json.Marshal(out)
	if err != nil {
		return "", fmt.Errorf("marshal mock questions: %w", err)
	}
	return string(data), nil
}

func firstSentence(text string) string {
	if s := mockSentencePattern.FindString(text); s != "" {
		return strings.TrimSpace(s)
	}
	return strings.TrimSpace(text)
}

func firstWords(text string, n int) []string {
	words := strings.Fields(strings.Trim(text, ".!? "))
	if len(words) > n {
		words = words[:n]
	}
	return words
}
