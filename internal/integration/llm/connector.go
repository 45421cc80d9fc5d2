package llm

import (
	"context"
	"fmt"
	"strings"

	"github.com/futig/docsearch-backend/internal/config"
	"github.com/futig/docsearch-backend/internal/entity"
	"github.com/futig/docsearch-backend/internal/integration/common"
	pkgRetry "github.com/futig/docsearch-backend/internal/pkg/retry"
	pkgHTTP "github.com/futig/docsearch-backend/pkg/http"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	openai "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"
)

// Connector talks to an OpenAI-compatible chat completions endpoint.
type Connector struct {
	client *openai.Client
	config config.LLMConfig
}

func NewConnector(cfg config.LLMConfig, observe pkgHTTP.ObserveFunc) *Connector {
	return &Connector{
		client: common.NewOpenAIClient(cfg.HTTPClientConfig, "llm", 0, observe),
		config: cfg,
	}
}

// Complete sends the system prompt and messages and returns the first
// choice's content. Zero temperature or token limits fall back to config.
func (c *Connector) Complete(ctx context.Context, req entity.CompletionRequest) (string, error) {
	chatReq := openai.ChatCompletionRequest{
		Model:       c.config.Model,
		Messages:    toChatMessages(req),
		Temperature: req.Temperature,
		MaxTokens:   req.MaxTokens,
	}
	if chatReq.Temperature == 0 {
		chatReq.Temperature = c.config.Temperature
	}
	if chatReq.MaxTokens == 0 {
		chatReq.MaxTokens = c.config.MaxTokens
	}
	if req.JSONResponse {
		chatReq.ResponseFormat = &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		}
	}

	ctxzap.Debug(ctx, "requesting completion",
		zap.String("model", chatReq.Model),
		zap.Int("messages", len(chatReq.Messages)),
		zap.Bool("json", req.JSONResponse),
	)

	resp, err := pkgRetry.Do(ctx, &c.config.Retry, func(ctx context.Context) (openai.ChatCompletionResponse, error) {
		return c.client.CreateChatCompletion(ctx, chatReq)
	})
	if err != nil {
		return "", fmt.Errorf("create chat completion: %w", err)
	}

	if len(resp.Choices) == 0 || strings.TrimSpace(resp.Choices[0].Message.Content) == "" {
		return "", entity.ErrEmptyCompletion
	}

	ctxzap.Info(ctx, "completion received",
		zap.Int("prompt_tokens", resp.Usage.PromptTokens),
		zap.Int("completion_tokens", resp.Usage.CompletionTokens),
		zap.String("finish_reason", string(resp.Choices[0].FinishReason)),
	)

	return resp.Choices[0].Message.Content, nil
}

func toChatMessages(req entity.CompletionRequest) []openai.ChatCompletionMessage {
	msgs := make([]openai.ChatCompletionMessage, 0, len(req.Messages)+1)
	if req.SystemPrompt != "" {
		msgs = append(msgs, openai.ChatCompletionMessage{
			Role:    openai.ChatMessageRoleSystem,
			Content: req.SystemPrompt,
		})
	}

	for _, m := range req.Messages {
		role := openai.ChatMessageRoleUser
		if m.Role == string(entity.TurnRoleAssistant) {
			role = openai.ChatMessageRoleAssistant
		}
		msgs = append(msgs, openai.ChatCompletionMessage{
			Role:    role,
			Content: m.Content,
		})
	}

	return msgs
}
