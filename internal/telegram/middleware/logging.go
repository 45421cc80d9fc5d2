package middleware

import (
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"
)

// Logging writes one line per handled update.
type Logging struct {
	logger *zap.Logger
}

func NewLogging(logger *zap.Logger) *Logging {
	return &Logging{logger: logger}
}

func (m *Logging) Handle(update tgbotapi.Update, next func(tgbotapi.Update)) {
	started := time.Now()
	next(update)

	userID, chatID := updateIDs(update)
	m.logger.Info("telegram update handled",
		zap.Int("update_id", update.UpdateID),
		zap.String("kind", Kind(update)),
		zap.Int64("user_id", userID),
		zap.Int64("chat_id", chatID),
		zap.Duration("elapsed", time.Since(started)),
	)
}
