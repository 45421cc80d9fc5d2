package handlers

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/futig/docsearch-backend/internal/entity"
	"github.com/futig/docsearch-backend/internal/telegram/render"
	"github.com/futig/docsearch-backend/internal/telegram/state"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSender struct {
	mu       sync.Mutex
	messages []tgbotapi.MessageConfig
	actions  int
}

func (f *fakeSender) Send(c tgbotapi.Chattable) (tgbotapi.Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if m, ok := c.(tgbotapi.MessageConfig); ok {
		f.messages = append(f.messages, m)
	}
	return tgbotapi.Message{MessageID: len(f.messages)}, nil
}

func (f *fakeSender) Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := c.(tgbotapi.ChatActionConfig); ok {
		f.actions++
	}
	return &tgbotapi.APIResponse{Ok: true}, nil
}

type fakeSearcher struct {
	result  entity.SearchResult
	err     error
	orgID   string
	query   string
	history []entity.Turn
}

func (f *fakeSearcher) Search(
	_ context.Context,
	query string,
	organizationID string,
	history []entity.Turn,
) (entity.SearchResult, error) {
	f.query = query
	f.orgID = organizationID
	f.history = history
	return f.result, f.err
}

func newQuestionHandler(searcher Searcher) (*QuestionHandler, *fakeSender, *state.History) {
	sender := &fakeSender{}
	history := state.NewHistory(time.Hour, 10)
	return NewQuestionHandler(sender, searcher, history, "org-1"), sender, history
}

func TestQuestionHandler_AnswersAndRemembers(t *testing.T) {
	searcher := &fakeSearcher{result: entity.SearchResult{Content: "Baked in a steel pan.", Similarity: 0.8}}
	h, sender, history := newQuestionHandler(searcher)

	err := h.Handle(context.Background(), &Message{ChatID: 5, UserID: 7, MessageID: 42, Text: "  How is it baked?  "})
	require.NoError(t, err)

	assert.Equal(t, "How is it baked?", searcher.query)
	assert.Equal(t, "org-1", searcher.orgID)
	assert.Empty(t, searcher.history)

	require.Len(t, sender.messages, 1)
	reply := sender.messages[0]
	assert.Equal(t, "Baked in a steel pan.", reply.Text)
	assert.Equal(t, 42, reply.ReplyToMessageID)
	assert.NotNil(t, reply.ReplyMarkup)
	assert.GreaterOrEqual(t, sender.actions, 1)

	turns := history.Get(5)
	require.Len(t, turns, 2)
	assert.Equal(t, entity.TurnRoleUser, turns[0].Role)
	assert.Equal(t, entity.TurnRoleAssistant, turns[1].Role)

	require.NoError(t, h.Handle(context.Background(), &Message{ChatID: 5, Text: "And the cheese?"}))
	assert.Len(t, searcher.history, 2)
}

func TestQuestionHandler_NoAnswerIsNotRemembered(t *testing.T) {
	searcher := &fakeSearcher{result: entity.NoAnswer()}
	h, sender, history := newQuestionHandler(searcher)

	require.NoError(t, h.Handle(context.Background(), &Message{ChatID: 5, Text: "Unrelated?"}))

	require.Len(t, sender.messages, 1)
	assert.Equal(t, entity.NoAnswerMessage, sender.messages[0].Text)
	assert.Empty(t, history.Get(5))
}

func TestQuestionHandler_SearchFailure(t *testing.T) {
	searcher := &fakeSearcher{err: errors.New("embedding service down")}
	h, sender, history := newQuestionHandler(searcher)

	require.NoError(t, h.Handle(context.Background(), &Message{ChatID: 5, Text: "Anything?"}))

	require.Len(t, sender.messages, 1)
	assert.Equal(t, render.ErrSearchFailed, sender.messages[0].Text)
	assert.Empty(t, history.Get(5))
}

func TestQuestionHandler_EmptyText(t *testing.T) {
	searcher := &fakeSearcher{}
	h, sender, _ := newQuestionHandler(searcher)

	require.NoError(t, h.Handle(context.Background(), &Message{ChatID: 5, Text: "   "}))

	require.Len(t, sender.messages, 1)
	assert.Equal(t, render.MsgTextOnly, sender.messages[0].Text)
	assert.Empty(t, searcher.query)
}

func TestMessageSender_TruncatesLongText(t *testing.T) {
	sender := &fakeSender{}
	s := NewMessageSender(sender)

	long := make([]rune, maxMessageLength+100)
	for i := range long {
		long[i] = 'я'
	}

	require.NoError(t, s.Send(1, string(long), nil))

	require.Len(t, sender.messages, 1)
	assert.Len(t, []rune(sender.messages[0].Text), maxMessageLength)
}

func TestTypingNotifier_RefreshesUntilStopped(t *testing.T) {
	sender := &fakeSender{}
	n := NewTypingNotifier(sender)
	n.interval = 5 * time.Millisecond

	stop := n.Start(context.Background(), 1)
	require.Eventually(t, func() bool {
		sender.mu.Lock()
		defer sender.mu.Unlock()
		return sender.actions >= 3
	}, time.Second, time.Millisecond)
	stop()
	stop()

	sender.mu.Lock()
	after := sender.actions
	sender.mu.Unlock()

	time.Sleep(20 * time.Millisecond)

	sender.mu.Lock()
	defer sender.mu.Unlock()
	assert.Equal(t, after, sender.actions)
}
