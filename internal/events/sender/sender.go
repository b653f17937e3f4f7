package sender

import (
	"unicode/utf8"

	"github.com/letsssgooo/quizwebapp/internal/client"
)

// MaxMessageLength - лимит Telegram на длину текста сообщения.
const MaxMessageLength = 4096

// TelegramSender реализует отправку сообщений через Telegram Bot API.
type TelegramSender struct {
	client client.Client
}

var _ Sender = (*TelegramSender)(nil)

// NewSender создает новый объект структуры TelegramSender.
func NewSender(client client.Client) *TelegramSender {
	return &TelegramSender{client: client}
}

// Message отправляет текстовое сообщение.
func (s *TelegramSender) Message(chatID int64, text string, opts *client.SendOptions) (*client.Message, error) {
	return s.client.SendMessage(chatID, Truncate(text, MaxMessageLength), opts)
}

// Edit заменяет текст сообщения messageID.
func (s *TelegramSender) Edit(chatID int64, messageID int, text string, opts *client.SendOptions) error {
	return s.client.EditMessage(chatID, messageID, Truncate(text, MaxMessageLength), opts)
}

// Answer отвечает на callback query.
func (s *TelegramSender) Answer(callbackID string, text string) error {
	return s.client.AnswerCallback(callbackID, text)
}

// Document отправляет файл как документ.
func (s *TelegramSender) Document(chatID int64, fileName string, data []byte) error {
	return s.client.SendDocument(chatID, fileName, data)
}

// Truncate обрезает text до limit символов.
func Truncate(text string, limit int) string {
	if utf8.RuneCountInString(text) <= limit {
		return text
	}

	runes := []rune(text)

	return string(runes[:limit])
}
