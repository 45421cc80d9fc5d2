package handlers

import (
	"context"
	"sync"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

// Telegram clears the typing status after about five seconds.
const typingRefreshInterval = 4 * time.Second

// TypingNotifier keeps the "typing..." status visible while a slow
// operation runs.
type TypingNotifier struct {
	api      Sender
	interval time.Duration
}

func NewTypingNotifier(api Sender) *TypingNotifier {
	return &TypingNotifier{api: api, interval: typingRefreshInterval}
}

// Start shows the typing status immediately and refreshes it until the
// returned stop function is called.
func (t *TypingNotifier) Start(ctx context.Context, chatID int64) (stop func()) {
	t.send(ctx, chatID)

	done := make(chan struct{})
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		ticker := time.NewTicker(t.interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-done:
				return
			case <-ticker.C:
				t.send(ctx, chatID)
			}
		}
	}()

	var once sync.Once
	return func() {
		once.Do(func() {
			close(done)
			wg.Wait()
		})
	}
}

func (t *TypingNotifier) send(ctx context.Context, chatID int64) {
	action := tgbotapi.NewChatAction(chatID, tgbotapi.ChatTyping)
	if _, err := t.api.Request(action); err != nil {
		ctxzap.Debug(ctx, "failed to send typing action",
			zap.Error(err),
			zap.Int64("chat_id", chatID),
		)
	}
}
