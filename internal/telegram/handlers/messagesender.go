package handlers

import (
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// Telegram rejects longer messages.
const maxMessageLength = 4096

// MessageSender wraps outgoing text messages.
type MessageSender struct {
	api Sender
}

func NewMessageSender(api Sender) *MessageSender {
	return &MessageSender{api: api}
}

// Send sends text to chatID with an optional reply markup.
func (s *MessageSender) Send(chatID int64, text string, replyMarkup interface{}) error {
	return s.send(tgbotapi.NewMessage(chatID, truncate(text)), replyMarkup)
}

// Reply sends text as a reply to messageID.
func (s *MessageSender) Reply(chatID int64, messageID int, text string, replyMarkup interface{}) error {
	msg := tgbotapi.NewMessage(chatID, truncate(text))
	msg.ReplyToMessageID = messageID
	return s.send(msg, replyMarkup)
}

func (s *MessageSender) send(msg tgbotapi.MessageConfig, replyMarkup interface{}) error {
	if replyMarkup != nil {
		msg.ReplyMarkup = replyMarkup
	}
	if _, err := s.api.Send(msg); err != nil {
		return fmt.Errorf("send message: %w", err)
	}
	return nil
}

func truncate(text string) string {
	runes := []rune(text)
	if len(runes) <= maxMessageLength {
		return text
	}
	return string(runes[:maxMessageLength-1]) + "…"
}
