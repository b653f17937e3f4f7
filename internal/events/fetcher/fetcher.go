package fetcher

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/letsssgooo/quizwebapp/internal/client"
)

// retryDelay - пауза после неудачного запроса обновлений.
const retryDelay = 3 * time.Second

// TelegramFetcher реализует Fetcher через Telegram Bot API.
type TelegramFetcher struct {
	client client.Client
	offset int
}

func NewTelegramFetcher(client client.Client) *TelegramFetcher {
	return &TelegramFetcher{
		client: client,
		offset: 0,
	}
}

// GetUpdates получает слайс Update, учитывая timeout
func (f *TelegramFetcher) GetUpdates(ctx context.Context, timeout int) ([]client.Update, error) {
	updates, err := f.client.GetUpdates(ctx, f.offset, timeout)
	if err != nil {
		return nil, err
	}

	if len(updates) != 0 {
		f.offset = updates[len(updates)-1].UpdateID + 1
	}

	return updates, nil
}

// Listen опрашивает Telegram до отмены ctx и передает каждое обновление в handle.
// Ошибки обработчика логируются и не останавливают цикл.
func Listen(ctx context.Context, f Fetcher, timeout int, handle HandleFunc, log *slog.Logger) error {
	for {
		if err := ctx.Err(); err != nil {
			return nil
		}

		updates, err := f.GetUpdates(ctx, timeout)
		if err != nil {
			if errors.Is(err, context.Canceled) || ctx.Err() != nil {
				return nil
			}

			log.Error("failed to get updates", slog.String("error", err.Error()))

			select {
			case <-ctx.Done():
				return nil
			case <-time.After(retryDelay):
			}

			continue
		}

		for _, update := range updates {
			if err = handle(ctx, update); err != nil {
				log.Error("failed to handle update",
					slog.Int("update_id", update.UpdateID),
					slog.String("error", err.Error()),
				)
			}
		}
	}
}
