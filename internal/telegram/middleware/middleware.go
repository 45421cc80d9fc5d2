// Package middleware wraps update handling with cross-cutting concerns.
package middleware

import (
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// Sender delivers notices to the user when a middleware short-circuits.
type Sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

// Middleware runs around the handling of one update. Not calling next drops
// the update.
type Middleware interface {
	Handle(update tgbotapi.Update, next func(tgbotapi.Update))
}

// Chain composes middlewares around final. The first middleware is the
// outermost.
func Chain(final func(tgbotapi.Update), mws ...Middleware) func(tgbotapi.Update) {
	h := final
	for i := len(mws) - 1; i >= 0; i-- {
		mw, next := mws[i], h
		h = func(u tgbotapi.Update) { mw.Handle(u, next) }
	}
	return h
}

// Kind classifies an update for logs.
func Kind(update tgbotapi.Update) string {
	switch {
	case update.Message != nil && update.Message.IsCommand():
		return "command"
	case update.Message != nil && update.Message.Text != "":
		return "text"
	case update.Message != nil:
		return "media"
	case update.CallbackQuery != nil:
		return "callback"
	default:
		return "other"
	}
}

// updateIDs extracts the user and chat an update came from. Both are zero
// for update kinds the bot does not handle.
func updateIDs(update tgbotapi.Update) (userID, chatID int64) {
	switch {
	case update.Message != nil:
		if update.Message.From != nil {
			userID = update.Message.From.ID
		}
		if update.Message.Chat != nil {
			chatID = update.Message.Chat.ID
		}
	case update.CallbackQuery != nil:
		if update.CallbackQuery.From != nil {
			userID = update.CallbackQuery.From.ID
		}
		if update.CallbackQuery.Message != nil && update.CallbackQuery.Message.Chat != nil {
			chatID = update.CallbackQuery.Message.Chat.ID
		}
	}
	return userID, chatID
}
