package state

import (
	"sync"
	"testing"
	"time"

	"github.com/futig/docsearch-backend/internal/entity"
	"github.com/futig/docsearch-backend/internal/pkg/cache"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (f *fakeClock) Now() time.Time {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.now
}

func (f *fakeClock) Advance(d time.Duration) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.now = f.now.Add(d)
}

func userTurn(text string) entity.Turn {
	return entity.Turn{Role: entity.TurnRoleUser, Content: text}
}

func TestHistory_AppendKeepsNewestTurns(t *testing.T) {
	h := NewHistory(time.Hour, 3)

	h.Append(1, userTurn("a"), userTurn("b"))
	h.Append(1, userTurn("c"), userTurn("d"))

	got := h.Get(1)
	require.Len(t, got, 3)
	assert.Equal(t, "b", got[0].Content)
	assert.Equal(t, "d", got[2].Content)
}

func TestHistory_ChatsAreIndependent(t *testing.T) {
	h := NewHistory(time.Hour, 10)

	h.Append(1, userTurn("first chat"))
	h.Append(2, userTurn("second chat"))

	assert.Equal(t, "first chat", h.Get(1)[0].Content)
	assert.Equal(t, "second chat", h.Get(2)[0].Content)
	assert.Empty(t, h.Get(3))
}

func TestHistory_GetReturnsCopy(t *testing.T) {
	h := NewHistory(time.Hour, 10)
	h.Append(1, userTurn("original"))

	got := h.Get(1)
	got[0].Content = "mutated"

	assert.Equal(t, "original", h.Get(1)[0].Content)
}

func TestHistory_Reset(t *testing.T) {
	h := NewHistory(time.Hour, 10)
	h.Append(1, userTurn("a"))

	h.Reset(1)

	assert.Empty(t, h.Get(1))
}

func TestHistory_ExpiresAfterSilence(t *testing.T) {
	clock := &fakeClock{now: time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)}
	h := NewHistory(30*time.Minute, 10, cache.WithClock(clock))

	h.Append(1, userTurn("a"))
	clock.Advance(20 * time.Minute)
	h.Append(1, userTurn("b"))
	clock.Advance(20 * time.Minute)

	assert.Len(t, h.Get(1), 2, "append refreshes expiry")

	clock.Advance(31 * time.Minute)
	assert.Empty(t, h.Get(1))
}
