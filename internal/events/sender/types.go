package sender

import "github.com/letsssgooo/quizwebapp/internal/client"

// Sender определяет основной интерфейс для отправки сообщений.
type Sender interface {
	// Message отправляет текстовое сообщение.
	Message(chatID int64, text string, opts *client.SendOptions) (*client.Message, error)

	// Edit заменяет текст ранее отправленного сообщения.
	Edit(chatID int64, messageID int, text string, opts *client.SendOptions) error

	// Answer закрывает индикатор загрузки на inline кнопке.
	Answer(callbackID string, text string) error

	// Document отправляет файл как документ.
	Document(chatID int64, fileName string, data []byte) error
}
