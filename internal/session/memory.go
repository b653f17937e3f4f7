package session

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
)

// MemoryStore хранит сессии в памяти процесса. Сессии старше ttl считаются истекшими.
type MemoryStore struct {
	sessions map[int64]*Session
	ttl      time.Duration
	now      func() time.Time
	mu       sync.Mutex
}

// NewMemoryStore создает MemoryStore. ttl <= 0 отключает истечение сессий.
func NewMemoryStore(ttl time.Duration) *MemoryStore {
	return &MemoryStore{
		sessions: make(map[int64]*Session),
		ttl:      ttl,
		now:      time.Now,
	}
}

// Get возвращает копию сессии пользователя.
func (m *MemoryStore) Get(_ context.Context, userID int64) (*Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	s, ok := m.sessions[userID]
	if !ok {
		return nil, ErrNoSession
	}

	if m.expired(s) {
		delete(m.sessions, userID)
		return nil, ErrNoSession
	}

	return s.clone(), nil
}

// Save сохраняет копию сессии.
func (m *MemoryStore) Save(_ context.Context, s *Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	stored := s.clone()
	stored.UpdatedAt = m.now()
	m.sessions[s.UserID] = stored

	return nil
}

// Delete удаляет сессию пользователя.
func (m *MemoryStore) Delete(_ context.Context, userID int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.sessions, userID)

	return nil
}

// Len возвращает количество хранимых сессий, включая еще не удаленные истекшие.
func (m *MemoryStore) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()

	return len(m.sessions)
}

// Sweep удаляет истекшие сессии и возвращает их количество.
func (m *MemoryStore) Sweep() int {
	m.mu.Lock()
	defer m.mu.Unlock()

	removed := 0

	for userID, s := range m.sessions {
		if m.expired(s) {
			delete(m.sessions, userID)
			removed++
		}
	}

	return removed
}

// StartSweeper запускает периодическую очистку по cron-расписанию schedule
// (например, "@every 1m"). Остановка - через Stop у возвращенного планировщика.
func (m *MemoryStore) StartSweeper(schedule string) (*cron.Cron, error) {
	c := cron.New()

	_, err := c.AddFunc(schedule, func() {
		if removed := m.Sweep(); removed > 0 {
			slog.Debug("expired sessions removed", slog.Int("count", removed))
		}
	})
	if err != nil {
		return nil, err
	}

	c.Start()

	return c, nil
}

func (m *MemoryStore) expired(s *Session) bool {
	return m.ttl > 0 && m.now().Sub(s.UpdatedAt) > m.ttl
}
