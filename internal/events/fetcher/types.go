package fetcher

import (
	"context"

	"github.com/letsssgooo/quizwebapp/internal/client"
)

// Fetcher  определяет основной интерфейс для получения сообщений.
type Fetcher interface {
	// GetUpdates получает слайс Update, учитывая timeout
	GetUpdates(ctx context.Context, timeout int) ([]client.Update, error)
}

// HandleFunc обрабатывает одно обновление.
type HandleFunc func(ctx context.Context, update client.Update) error
