package middleware

import (
	"sync"
	"time"

	"github.com/futig/docsearch-backend/internal/telegram/render"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

const (
	warningInterval   = 30 * time.Second
	cleanupInterval   = 10 * time.Minute
	inactiveThreshold = time.Hour
)

// visitor tracks rate limit state for a single user
type visitor struct {
	limiter       *rate.Limiter
	lastSeen      time.Time
	warningsSent  int
	lastWarningAt time.Time
}

// RateLimiter limits every user to a steady request rate with a
// small burst allowance.
type RateLimiter struct {
	mu          sync.Mutex
	visitors    map[int64]*visitor
	limit       rate.Limit
	burst       int
	lastCleanup time.Time
	now         func() time.Time
	logger      *zap.Logger
	api         Sender
}

// NewRateLimiter allows perMinute updates per user with the given burst.
func NewRateLimiter(
	requestsPerMinute int,
	burstSize int,
	logger *zap.Logger,
	api Sender,
) *RateLimiter {
	return &RateLimiter{
		visitors:    make(map[int64]*visitor),
		limit:       rate.Limit(float64(requestsPerMinute) / 60.0),
		burst:       burstSize,
		lastCleanup: time.Now(),
		now:         time.Now,
		logger:      logger,
		api:         api,
	}
}

// Handle processes the update through rate limiting
func (rl *RateLimiter) Handle(update tgbotapi.Update, next func(tgbotapi.Update)) {
	userID, chatID := updateIDs(update)
	if userID == 0 {
		next(update)
		return
	}

	if !rl.allow(userID, chatID) {
		rl.logger.Warn("rate limit exceeded",
			zap.Int64("user_id", userID),
			zap.Int64("chat_id", chatID),
		)
		return
	}

	next(update)
}

func (rl *RateLimiter) allow(userID, chatID int64) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	rl.cleanup(now)

	v, ok := rl.visitors[userID]
	if !ok {
		v = &visitor{limiter: rate.NewLimiter(rl.limit, rl.burst)}
		rl.visitors[userID] = v
	}
	v.lastSeen = now

	if v.limiter.AllowN(now, 1) {
		v.warningsSent = 0
		return true
	}

	if now.Sub(v.lastWarningAt) > warningInterval {
		v.warningsSent++
		v.lastWarningAt = now
		rl.sendWarning(chatID, v.warningsSent)
	}

	return false
}

// cleanup forgets users that have been silent for an hour. Caller holds mu.
func (rl *RateLimiter) cleanup(now time.Time) {
	if now.Sub(rl.lastCleanup) < cleanupInterval {
		return
	}
	rl.lastCleanup = now

	for userID, v := range rl.visitors {
		if now.Sub(v.lastSeen) > inactiveThreshold {
			delete(rl.visitors, userID)
		}
	}
}

func (rl *RateLimiter) sendWarning(chatID int64, warningCount int) {
	if chatID == 0 {
		return
	}
	msg := tgbotapi.NewMessage(chatID, render.RateLimitWarning(warningCount))
	if _, err := rl.api.Send(msg); err != nil {
		rl.logger.Error("failed to send rate limit warning",
			zap.Error(err),
			zap.Int64("chat_id", chatID),
		)
	}
}
