package state

import (
	"strconv"
	"sync"
	"time"

	"github.com/futig/docsearch-backend/internal/entity"
	"github.com/futig/docsearch-backend/internal/pkg/cache"
)

// History keeps the recent conversation of every chat. A chat that stays
// silent longer than the TTL starts over.
type History struct {
	mu       sync.Mutex
	turns    *cache.TTL[[]entity.Turn]
	maxTurns int
}

func NewHistory(ttl time.Duration, maxTurns int, opts ...cache.Option) *History {
	return &History{
		turns:    cache.New[[]entity.Turn](ttl, opts...),
		maxTurns: maxTurns,
	}
}

// Get returns a copy of the chat's turns, oldest first.
func (h *History) Get(chatID int64) []entity.Turn {
	h.mu.Lock()
	defer h.mu.Unlock()

	turns, _ := h.turns.Get(key(chatID))
	out := make([]entity.Turn, len(turns))
	copy(out, turns)
	return out
}

// Append adds turns and keeps only the newest maxTurns. It also refreshes
// the chat's expiry.
func (h *History) Append(chatID int64, turns ...entity.Turn) {
	h.mu.Lock()
	defer h.mu.Unlock()

	k := key(chatID)
	current, _ := h.turns.Get(k)

	next := make([]entity.Turn, 0, len(current)+len(turns))
	next = append(next, current...)
	next = append(next, turns...)
	if h.maxTurns > 0 && len(next) > h.maxTurns {
		next = next[len(next)-h.maxTurns:]
	}

	h.turns.Set(k, next)
}

func (h *History) Reset(chatID int64) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.turns.Delete(key(chatID))
}

func key(chatID int64) string {
	return strconv.FormatInt(chatID, 10)
}
