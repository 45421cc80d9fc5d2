package telegram

import (
	"context"
	"fmt"

	"github.com/futig/docsearch-backend/internal/config"
	"github.com/futig/docsearch-backend/internal/telegram/bot"
	"github.com/futig/docsearch-backend/internal/telegram/handlers"
	"github.com/futig/docsearch-backend/internal/telegram/state"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"
)

// Bot is the main telegram bot interface
type Bot interface {
	Start(ctx context.Context) error
	Stop() error
}

// NewBot authorizes against the Bot API and builds a bot answering
// questions for the configured organization.
func NewBot(
	cfg *config.TelegramConfig,
	searcher handlers.Searcher,
	logger *zap.Logger,
) (Bot, error) {
	api, err := tgbotapi.NewBotAPI(cfg.BotToken)
	if err != nil {
		return nil, fmt.Errorf("create bot API: %w", err)
	}
	api.Debug = false

	logger.Info("telegram bot authorized",
		zap.String("username", api.Self.UserName),
		zap.Int64("id", api.Self.ID),
	)

	history := state.NewHistory(cfg.HistoryTTL, cfg.HistoryTurns)

	return bot.New(cfg, api, searcher, history, logger), nil
}
