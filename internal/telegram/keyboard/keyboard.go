// Package keyboard encodes the bot's inline buttons and their callback data.
package keyboard

import (
	"fmt"
	"strings"

	"github.com/futig/docsearch-backend/internal/telegram/render"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

const (
	ActionReset = "reset"
	actionKey   = "action"
)

// CallbackData is callback payload in key:value form.
type CallbackData struct {
	Key   string
	Value string
}

func ParseCallback(data string) (*CallbackData, error) {
	key, value, ok := strings.Cut(data, ":")
	if !ok || key == "" {
		return nil, fmt.Errorf("invalid callback data %q", data)
	}
	return &CallbackData{Key: key, Value: value}, nil
}

func EncodeCallback(key, value string) string {
	return key + ":" + value
}

// IsReset reports whether the callback asks to forget the conversation.
func (c *CallbackData) IsReset() bool {
	return c.Key == actionKey && c.Value == ActionReset
}

// Answer is attached under every answer so the user can start over.
func Answer() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(render.BtnNewDialog, EncodeCallback(actionKey, ActionReset)),
		),
	)
}
