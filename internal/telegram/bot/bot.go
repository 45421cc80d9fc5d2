package bot

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/futig/docsearch-backend/internal/config"
	"github.com/futig/docsearch-backend/internal/telegram/handlers"
	"github.com/futig/docsearch-backend/internal/telegram/keyboard"
	"github.com/futig/docsearch-backend/internal/telegram/middleware"
	"github.com/futig/docsearch-backend/internal/telegram/render"
	"github.com/futig/docsearch-backend/internal/telegram/state"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

// API is the subset of *tgbotapi.BotAPI the bot depends on.
type API interface {
	handlers.Sender
	GetUpdatesChan(config tgbotapi.UpdateConfig) tgbotapi.UpdatesChannel
	StopReceivingUpdates()
}

// Bot represents the Telegram bot
type Bot struct {
	api         API
	cfg         *config.TelegramConfig
	history     *state.History
	questions   handlers.Handler
	logger      *zap.Logger
	middlewares []middleware.Middleware
	updatesChan tgbotapi.UpdatesChannel
	stopChan    chan struct{}
	stopOnce    sync.Once
	wg          sync.WaitGroup
}

// New wires the question handler and the middleware chain. Updates pass
// through rate limiting, then logging, then panic recovery.
func New(
	cfg *config.TelegramConfig,
	api API,
	searcher handlers.Searcher,
	history *state.History,
	logger *zap.Logger,
) *Bot {
	return &Bot{
		api:         api,
		cfg:         cfg,
		history:     history,
		questions:   handlers.NewQuestionHandler(api, searcher, history, cfg.OrganizationID),
		logger:      logger,
		stopChan:    make(chan struct{}),
		middlewares: []middleware.Middleware{
			middleware.NewRateLimiter(cfg.RateLimitPerMinute, cfg.RateLimitBurst, logger, api),
			middleware.NewLogging(logger),
			middleware.NewRecovery(logger, api),
		},
	}
}

// Start starts the bot
func (b *Bot) Start(ctx context.Context) error {
	b.logger.Info("starting telegram bot",
		zap.String("organization_id", b.cfg.OrganizationID),
	)

	u := tgbotapi.NewUpdate(0)
	u.Timeout = b.cfg.UpdateTimeout
	b.updatesChan = b.api.GetUpdatesChan(u)

	ctx = ctxzap.ToContext(ctx, b.logger)
	go b.processUpdates(ctx)

	b.logger.Info("telegram bot started successfully")
	return nil
}

// Stop stops the bot gracefully with timeout
func (b *Bot) Stop() error {
	b.logger.Info("stopping telegram bot")

	b.stopOnce.Do(func() {
		close(b.stopChan)
		b.api.StopReceivingUpdates()
	})

	done := make(chan struct{})
	go func() {
		b.wg.Wait()
		close(done)
	}()

	shutdownTimeout := time.Duration(b.cfg.ShutdownTimeout) * time.Second
	select {
	case <-done:
		b.logger.Info("all handlers completed gracefully")
	case <-time.After(shutdownTimeout):
		b.logger.Warn("shutdown timeout exceeded, some handlers may not have completed",
			zap.Duration("timeout", shutdownTimeout),
		)
		return fmt.Errorf("shutdown timeout exceeded")
	}

	b.logger.Info("telegram bot stopped successfully")
	return nil
}

// processUpdates processes incoming updates
func (b *Bot) processUpdates(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			ctxzap.Info(ctx, "context cancelled, stopping update processing")
			return
		case <-b.stopChan:
			ctxzap.Info(ctx, "stop signal received, stopping update processing")
			return
		case update, ok := <-b.updatesChan:
			if !ok {
				return
			}
			b.wg.Add(1)
			go func(u tgbotapi.Update) {
				defer b.wg.Done()
				middleware.Chain(func(u tgbotapi.Update) { b.handleUpdate(ctx, u) }, b.middlewares...)(u)
			}(update)
		}
	}
}

// handleUpdate routes update to appropriate handler
func (b *Bot) handleUpdate(ctx context.Context, update tgbotapi.Update) {
	if update.CallbackQuery != nil {
		b.handleCallbackQuery(ctx, update.CallbackQuery)
		return
	}

	if update.Message != nil {
		b.handleMessage(ctx, update.Message)
	}
}

func (b *Bot) handleMessage(ctx context.Context, message *tgbotapi.Message) {
	if message.Chat == nil || message.From == nil {
		return
	}

	if message.IsCommand() {
		b.handleCommand(ctx, message)
		return
	}

	msg := &handlers.Message{
		ChatID:    message.Chat.ID,
		UserID:    message.From.ID,
		MessageID: message.MessageID,
		Text:      message.Text,
	}

	if err := b.questions.Handle(ctx, msg); err != nil {
		ctxzap.Error(ctx, "handler error",
			zap.Error(err),
			zap.Int64("user_id", msg.UserID),
		)
		b.sendError(msg.ChatID, render.ErrGeneric)
	}
}

// handleCommand handles bot commands
func (b *Bot) handleCommand(ctx context.Context, message *tgbotapi.Message) {
	command := message.Command()
	chatID := message.Chat.ID

	ctxzap.Info(ctx, "command received",
		zap.String("command", command),
		zap.Int64("user_id", message.From.ID),
	)

	switch command {
	case "start":
		b.history.Reset(chatID)
		b.reply(ctx, chatID, render.MsgWelcome)
	case "help":
		b.reply(ctx, chatID, render.MsgHelp)
	case "reset":
		b.history.Reset(chatID)
		b.reply(ctx, chatID, render.MsgHistoryReset)
	default:
		b.sendError(chatID, render.MsgUnknownCmd)
	}
}

// handleCallbackQuery handles callback button clicks
func (b *Bot) handleCallbackQuery(ctx context.Context, query *tgbotapi.CallbackQuery) {
	callbackData, err := keyboard.ParseCallback(query.Data)
	if err != nil {
		ctxzap.Error(ctx, "invalid callback data",
			zap.Error(err),
			zap.String("data", query.Data),
		)
		b.answerCallback(query.ID, render.CallbackInvalidData)
		return
	}

	if !callbackData.IsReset() || query.Message == nil || query.Message.Chat == nil {
		b.answerCallback(query.ID, render.CallbackUnknownAction)
		return
	}

	chatID := query.Message.Chat.ID
	b.history.Reset(chatID)
	b.answerCallback(query.ID, "")
	b.reply(ctx, chatID, render.MsgHistoryReset)
}

func (b *Bot) reply(ctx context.Context, chatID int64, text string) {
	if _, err := b.api.Send(tgbotapi.NewMessage(chatID, text)); err != nil {
		ctxzap.Error(ctx, "failed to send message",
			zap.Error(err),
			zap.Int64("chat_id", chatID),
		)
	}
}

// sendError sends an error message
func (b *Bot) sendError(chatID int64, text string) {
	if _, err := b.api.Send(tgbotapi.NewMessage(chatID, text)); err != nil {
		b.logger.Error("failed to send error message",
			zap.Error(err),
			zap.Int64("chat_id", chatID),
		)
	}
}

// answerCallback answers a callback query
func (b *Bot) answerCallback(callbackID string, text string) {
	callback := tgbotapi.NewCallback(callbackID, text)
	if _, err := b.api.Request(callback); err != nil {
		b.logger.Error("failed to answer callback",
			zap.Error(err),
			zap.String("callback_id", callbackID),
		)
	}
}
