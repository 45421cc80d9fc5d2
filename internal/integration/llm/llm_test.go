package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/futig/docsearch-backend/internal/config"
	"github.com/futig/docsearch-backend/internal/entity"
	pkgRetry "github.com/futig/docsearch-backend/internal/pkg/retry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type chatRequest struct {
	Model          string  `json:"model"`
	Temperature    float32 `json:"temperature"`
	MaxTokens      int     `json:"max_tokens"`
	ResponseFormat *struct {
		Type string `json:"type"`
	} `json:"response_format"`
	Messages []struct {
		Role    string `json:"role"`
		Content string `json:"content"`
	} `json:"messages"`
}

func newChatServer(t *testing.T, reply string, got *chatRequest) *httptest.Server {
	t.Helper()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.NoError(t, json.NewDecoder(r.Body).Decode(got))

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"id":     "cmpl-1",
			"object": "chat.completion",
			"model":  got.Model,
			"choices": []map[string]any{
				{
					"index":         0,
					"message":       map[string]string{"role": "assistant", "content": reply},
					"finish_reason": "stop",
				},
			},
			"usage": map[string]int{"prompt_tokens": 10, "completion_tokens": 5, "total_tokens": 15},
		})
	}))
	t.Cleanup(srv.Close)

	return srv
}

func testConfig(url string) config.LLMConfig {
	return config.LLMConfig{
		HTTPClientConfig: config.HTTPClientConfig{
			Url:            url,
			Token:          "test-key",
			RequestTimeout: 5 * time.Second,
		},
		Model:       "gpt-4o-mini",
		Temperature: 0.3,
		MaxTokens:   300,
		Retry:       pkgRetry.RetryConfig{Attempts: 2, Delay: time.Millisecond, MaxDelay: 2 * time.Millisecond},
	}
}

func TestConnector_CompleteBuildsChatRequest(t *testing.T) {
	var got chatRequest
	srv := newChatServer(t, "Use Wisconsin brick cheese.", &got)
	c := NewConnector(testConfig(srv.URL), nil)

	out, err := c.Complete(context.Background(), entity.CompletionRequest{
		SystemPrompt: "be brief",
		Messages: []entity.CompletionMessage{
			{Role: "user", Content: "hi"},
			{Role: "assistant", Content: "hello"},
			{Role: "user", Content: "what cheese?"},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, "Use Wisconsin brick cheese.", out)

	assert.Equal(t, "gpt-4o-mini", got.Model)
	assert.Equal(t, 300, got.MaxTokens)
	assert.InDelta(t, 0.3, got.Temperature, 1e-6)
	assert.Nil(t, got.ResponseFormat)
	require.Len(t, got.Messages, 4)
	assert.Equal(t, "system", got.Messages[0].Role)
	assert.Equal(t, "assistant", got.Messages[2].Role)
	assert.Equal(t, "what cheese?", got.Messages[3].Content)
}

func TestConnector_CompleteJSONMode(t *testing.T) {
	var got chatRequest
	srv := newChatServer(t, `{"questions":[]}`, &got)
	c := NewConnector(testConfig(srv.URL), nil)

	_, err := c.Complete(context.Background(), entity.CompletionRequest{
		SystemPrompt: "json please",
		Messages:     []entity.CompletionMessage{{Role: "user", Content: "doc"}},
		Temperature:  0.8,
		MaxTokens:    2000,
		JSONResponse: true,
	})
	require.NoError(t, err)
	require.NotNil(t, got.ResponseFormat)
	assert.Equal(t, "json_object", got.ResponseFormat.Type)
	assert.Equal(t, 2000, got.MaxTokens)
}

func TestConnector_CompleteEmptyOutput(t *testing.T) {
	var got chatRequest
	srv := newChatServer(t, "   ", &got)
	c := NewConnector(testConfig(srv.URL), nil)

	_, err := c.Complete(context.Background(), entity.CompletionRequest{
		Messages: []entity.CompletionMessage{{Role: "user", Content: "q"}},
	})
	assert.ErrorIs(t, err, entity.ErrEmptyCompletion)
}

func TestMockConnector_AnswersFromTopPassage(t *testing.T) {
	m := NewMockConnector(nil)

	out, err := m.Complete(context.Background(), entity.CompletionRequest{
		SystemPrompt: "rules\n[1] Wisconsin brick cheese is mandatory. Bake at 500.\n[2] other",
	})
	require.NoError(t, err)
	assert.Equal(t, "Wisconsin brick cheese is mandatory.", out)
}

func TestMockConnector_GeneratesQuestionBatch(t *testing.T) {
	categories := []string{"a", "b", "c", "d", "e", "f"}
	m := NewMockConnector(categories)

	out, err := m.Complete(context.Background(), entity.CompletionRequest{
		SystemPrompt: "Generate exactly 6 test questions",
		Messages:     []entity.CompletionMessage{{Role: "user", Content: "Dough rests overnight. Cheese goes to the edge."}},
		JSONResponse: true,
	})
	require.NoError(t, err)

	var batch entity.GeneratedQuestions
	require.NoError(t, json.Unmarshal([]byte(out), &batch))
	require.Len(t, batch.Questions, 6)

	seen := map[string]bool{}
	for _, q := range batch.Questions {
		seen[q.Category] = true
		assert.True(t, entity.Complexity(q.Complexity).Valid())
		assert.NotEmpty(t, q.ExpectedAnswer)
	}
	assert.Len(t, seen, 6)
}
