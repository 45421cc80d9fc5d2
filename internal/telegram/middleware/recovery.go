package middleware

import (
	"runtime/debug"

	"github.com/futig/docsearch-backend/internal/telegram/render"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"
)

// Recovery turns a handler panic into a logged error and a generic apology
// in the chat.
type Recovery struct {
	logger *zap.Logger
	api    Sender
}

func NewRecovery(logger *zap.Logger, api Sender) *Recovery {
	return &Recovery{logger: logger, api: api}
}

func (m *Recovery) Handle(update tgbotapi.Update, next func(tgbotapi.Update)) {
	defer func() {
		if p := recover(); p != nil {
			m.report(update, p)
		}
	}()
	next(update)
}

func (m *Recovery) report(update tgbotapi.Update, p any) {
	_, chatID := updateIDs(update)
	m.logger.Error("telegram handler panicked",
		zap.Any("panic", p),
		zap.Int("update_id", update.UpdateID),
		zap.Int64("chat_id", chatID),
		zap.ByteString("stack", debug.Stack()),
	)

	if chatID == 0 {
		return
	}
	if _, err := m.api.Send(tgbotapi.NewMessage(chatID, render.ErrGeneric)); err != nil {
		m.logger.Warn("send panic notice", zap.Error(err), zap.Int64("chat_id", chatID))
	}
}
