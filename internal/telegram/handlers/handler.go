package handlers

import (
	"context"

	"github.com/futig/docsearch-backend/internal/entity"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// Message represents a normalized incoming message
type Message struct {
	ChatID    int64
	UserID    int64
	MessageID int
	Text      string
}

// Handler processes one incoming message
type Handler interface {
	Handle(ctx context.Context, msg *Message) error
}

// Sender is the part of the Bot API the handlers talk to.
type Sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error)
}

type Searcher interface {
	Search(
		ctx context.Context,
		query string,
		organizationID string,
		history []entity.Turn,
	) (entity.SearchResult, error)
}
