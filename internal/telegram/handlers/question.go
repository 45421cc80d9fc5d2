package handlers

import (
	"context"
	"fmt"
	"strings"

	"github.com/futig/docsearch-backend/internal/entity"
	"github.com/futig/docsearch-backend/internal/telegram/keyboard"
	"github.com/futig/docsearch-backend/internal/telegram/render"
	"github.com/futig/docsearch-backend/internal/telegram/state"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

// QuestionHandler answers free-text questions against the organization's
// documents, carrying the chat's recent history along.
type QuestionHandler struct {
	searcher       Searcher
	history        *state.History
	sender         *MessageSender
	typing         *TypingNotifier
	organizationID string
}

func NewQuestionHandler(
	api Sender,
	searcher Searcher,
	history *state.History,
	organizationID string,
) *QuestionHandler {
	return &QuestionHandler{
		searcher:       searcher,
		history:        history,
		sender:         NewMessageSender(api),
		typing:         NewTypingNotifier(api),
		organizationID: organizationID,
	}
}

func (h *QuestionHandler) Handle(ctx context.Context, msg *Message) error {
	question := strings.TrimSpace(msg.Text)
	if question == "" {
		return h.sender.Send(msg.ChatID, render.MsgTextOnly, nil)
	}

	stopTyping := h.typing.Start(ctx, msg.ChatID)
	result, err := h.searcher.Search(ctx, question, h.organizationID, h.history.Get(msg.ChatID))
	stopTyping()

	if err != nil {
		ctxzap.Error(ctx, "search failed",
			zap.Error(err),
			zap.Int64("chat_id", msg.ChatID),
		)
		if sendErr := h.sender.Send(msg.ChatID, render.ErrSearchFailed, nil); sendErr != nil {
			return fmt.Errorf("report search failure: %w", sendErr)
		}
		return nil
	}

	// No-answer replies are not remembered.
	if result.Content != entity.NoAnswerMessage {
		h.history.Append(msg.ChatID,
			entity.Turn{Role: entity.TurnRoleUser, Content: question},
			entity.Turn{Role: entity.TurnRoleAssistant, Content: result.Content},
		)
	}

	ctxzap.Info(ctx, "question answered",
		zap.Int64("chat_id", msg.ChatID),
		zap.Float64("similarity", result.Similarity),
	)

	return h.sender.Reply(msg.ChatID, msg.MessageID, result.Content, keyboard.Answer())
}
