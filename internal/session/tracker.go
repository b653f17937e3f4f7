package session

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"
)

// Tracker отслеживает, какой сценарий ведет каждый пользователь.
type Tracker struct {
	store Store
	locks *userLocks
	now   func() time.Time
}

// NewTracker создает Tracker поверх хранилища store.
func NewTracker(store Store) *Tracker {
	return &Tracker{
		store: store,
		locks: &userLocks{locks: make(map[int64]*userLock)},
		now:   time.Now,
	}
}

// Lock захватывает блокировку пользователя, чтобы шаги его сценария не
// выполнялись одновременно. Возвращает функцию освобождения.
func (t *Tracker) Lock(userID int64) func() {
	return t.locks.lock(userID)
}

// Get возвращает текущую сессию пользователя; без активного сценария - Idle.
func (t *Tracker) Get(ctx context.Context, userID int64) (*Session, error) {
	s, err := t.store.Get(ctx, userID)
	if errors.Is(err, ErrNoSession) {
		return Idle(userID), nil
	}

	if err != nil {
		return nil, fmt.Errorf("failed to load session of %d: %w", userID, err)
	}

	return s, nil
}

// Begin начинает сценарий с шага state, заменяя прежний сценарий пользователя.
func (t *Tracker) Begin(ctx context.Context, userID int64, state State) (*Session, error) {
	s := &Session{UserID: userID, State: state}

	switch state {
	case StateAwaitingRoleTargetID, StateAwaitingRoleChoice:
		s.Role = &RoleChange{}
	case StateAwaitingBanTargetID, StateAwaitingBanReason:
		s.Ban = &BanTarget{}
	case StateAwaitingQuizTitle, StateAwaitingQuizCode, StateAwaitingQuizBody:
		s.Draft = &QuizDraft{}
	}

	if err := t.save(ctx, s); err != nil {
		return nil, err
	}

	return s, nil
}

// Advance переводит сессию на шаг next и сохраняет ее.
func (t *Tracker) Advance(ctx context.Context, s *Session, next State) error {
	s.State = next

	return t.save(ctx, s)
}

// Finish возвращает пользователя в Idle.
func (t *Tracker) Finish(ctx context.Context, userID int64) error {
	if err := t.store.Delete(ctx, userID); err != nil {
		return fmt.Errorf("failed to delete session of %d: %w", userID, err)
	}

	return nil
}

func (t *Tracker) save(ctx context.Context, s *Session) error {
	if s.IsIdle() {
		return t.Finish(ctx, s.UserID)
	}

	if err := s.Validate(); err != nil {
		return err
	}

	s.UpdatedAt = t.now()

	if err := t.store.Save(ctx, s); err != nil {
		return fmt.Errorf("failed to save session of %d: %w", s.UserID, err)
	}

	return nil
}

// userLocks - мьютексы по пользователям. Запись удаляется, когда ее никто не держит.
type userLocks struct {
	mu    sync.Mutex
	locks map[int64]*userLock
}

type userLock struct {
	mu   sync.Mutex
	refs int
}

func (l *userLocks) lock(userID int64) func() {
	l.mu.Lock()
	ul, ok := l.locks[userID]
	if !ok {
		ul = &userLock{}
		l.locks[userID] = ul
	}
	ul.refs++
	l.mu.Unlock()

	ul.mu.Lock()

	return func() {
		ul.mu.Unlock()

		l.mu.Lock()
		ul.refs--
		if ul.refs == 0 {
			delete(l.locks, userID)
		}
		l.mu.Unlock()
	}
}
