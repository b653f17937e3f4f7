// Package clienttest содержит фейковый Telegram клиент для тестов.
package clienttest

import (
	"context"
	"errors"
	"sync"

	"github.com/letsssgooo/quizwebapp/internal/client"
)

// SentMessage - сообщение, отправленное через фейковый клиент.
type SentMessage struct {
	ChatID    int64
	MessageID int
	Text      string
	Opts      *client.SendOptions
	Edited    bool
}

// SentDocument - документ, отправленный через фейковый клиент.
type SentDocument struct {
	ChatID   int64
	FileName string
	Data     []byte
}

// Fake записывает все вызовы и отдает заранее заданные файлы и обновления.
type Fake struct {
	mu sync.Mutex

	Messages      []SentMessage
	Documents     []SentDocument
	Answered      []string
	Webhook       string
	WebhookSecret string
	Files         map[string][]byte
	Updates       [][]client.Update
	Offsets       []int
	SendErr       error

	nextID int
}

var _ client.Client = (*Fake)(nil)

// NewFake создает пустой фейковый клиент.
func NewFake() *Fake {
	return &Fake{Files: make(map[string][]byte)}
}

func (f *Fake) SendMessage(chatID int64, text string, opts *client.SendOptions) (*client.Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.SendErr != nil {
		return nil, f.SendErr
	}

	f.nextID++
	f.Messages = append(f.Messages, SentMessage{ChatID: chatID, MessageID: f.nextID, Text: text, Opts: opts})

	return &client.Message{MessageID: f.nextID, Chat: &client.Chat{ID: chatID}, Text: text}, nil
}

func (f *Fake) EditMessage(chatID int64, messageID int, text string, opts *client.SendOptions) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.Messages = append(f.Messages, SentMessage{
		ChatID: chatID, MessageID: messageID, Text: text, Opts: opts, Edited: true,
	})

	return nil
}

func (f *Fake) AnswerCallback(callbackID string, _ string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.Answered = append(f.Answered, callbackID)

	return nil
}

// GetUpdates отдает очередную пачку из Updates, а затем ждет отмены ctx.
func (f *Fake) GetUpdates(ctx context.Context, offset int, _ int) ([]client.Update, error) {
	f.mu.Lock()
	f.Offsets = append(f.Offsets, offset)
	if len(f.Updates) > 0 {
		batch := f.Updates[0]
		f.Updates = f.Updates[1:]
		f.mu.Unlock()

		return batch, nil
	}
	f.mu.Unlock()

	<-ctx.Done()

	return nil, ctx.Err()
}

func (f *Fake) GetFile(fileID string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if _, ok := f.Files[fileID]; !ok {
		return "", errors.New("file not found")
	}

	return fileID, nil
}

func (f *Fake) DownloadFile(filePath string) ([]byte, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	data, ok := f.Files[filePath]
	if !ok {
		return nil, errors.New("file not found")
	}

	return data, nil
}

func (f *Fake) SendDocument(chatID int64, fileName string, data []byte) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.Documents = append(f.Documents, SentDocument{ChatID: chatID, FileName: fileName, Data: data})

	return nil
}

func (f *Fake) SetWebhook(url, secret string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.Webhook = url
	f.WebhookSecret = secret

	return nil
}

func (f *Fake) DeleteWebhook() error {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.Webhook = ""
	f.WebhookSecret = ""

	return nil
}

// MessagesTo возвращает тексты сообщений, отправленных в chatID.
func (f *Fake) MessagesTo(chatID int64) []SentMessage {
	f.mu.Lock()
	defer f.mu.Unlock()

	var out []SentMessage
	for _, m := range f.Messages {
		if m.ChatID == chatID {
			out = append(out, m)
		}
	}

	return out
}

// LastTo возвращает последнее сообщение в chatID.
func (f *Fake) LastTo(chatID int64) (SentMessage, bool) {
	msgs := f.MessagesTo(chatID)
	if len(msgs) == 0 {
		return SentMessage{}, false
	}

	return msgs[len(msgs)-1], true
}

// Reset очищает записанные вызовы.
func (f *Fake) Reset() {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.Messages = nil
	f.Documents = nil
	f.Answered = nil
}
