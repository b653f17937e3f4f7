package fetcher

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/letsssgooo/quizwebapp/internal/client"
	"github.com/letsssgooo/quizwebapp/internal/client/clienttest"
)

func TestGetUpdatesAdvancesOffset(t *testing.T) {
	fake := clienttest.NewFake()
	fake.Updates = [][]client.Update{
		{{UpdateID: 5}, {UpdateID: 6}},
		{{UpdateID: 9}},
	}

	f := NewTelegramFetcher(fake)

	updates, err := f.GetUpdates(context.Background(), 0)
	require.NoError(t, err)
	assert.Len(t, updates, 2)

	_, err = f.GetUpdates(context.Background(), 0)
	require.NoError(t, err)

	assert.Equal(t, []int{0, 7}, fake.Offsets)
	assert.Equal(t, 10, f.offset)
}

func TestListenDeliversUntilCancelled(t *testing.T) {
	fake := clienttest.NewFake()
	fake.Updates = [][]client.Update{{{UpdateID: 1}, {UpdateID: 2}}}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var (
		mu   sync.Mutex
		seen []int
	)

	handle := func(_ context.Context, update client.Update) error {
		mu.Lock()
		defer mu.Unlock()

		seen = append(seen, update.UpdateID)
		if len(seen) == 2 {
			cancel()
		}

		return errors.New("handler failure is only logged")
	}

	done := make(chan error, 1)
	go func() {
		done <- Listen(ctx, NewTelegramFetcher(fake), 0, handle, slog.New(slog.NewTextHandler(io.Discard, nil)))
	}()

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("Listen did not stop after cancel")
	}

	assert.Equal(t, []int{1, 2}, seen)
}
