package session

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/letsssgooo/quizwebapp/internal/domain/models"
)

func TestTracker_GetWithoutSessionIsIdle(t *testing.T) {
	tracker := NewTracker(NewMemoryStore(time.Hour))

	s, err := tracker.Get(context.Background(), 1)
	require.NoError(t, err)
	assert.True(t, s.IsIdle())
	assert.Equal(t, int64(1), s.UserID)
}

func TestTracker_BeginAllocatesWorkflowData(t *testing.T) {
	testCases := []struct {
		state     State
		wantRole  bool
		wantBan   bool
		wantDraft bool
	}{
		{state: StateAwaitingRoleTargetID, wantRole: true},
		{state: StateAwaitingBanTargetID, wantBan: true},
		{state: StateAwaitingQuizTitle, wantDraft: true},
		{state: StateAwaitingQuizCodeToTake},
		{state: StateAwaitingResultsCode},
	}

	for _, tc := range testCases {
		t.Run(string(tc.state), func(t *testing.T) {
			tracker := NewTracker(NewMemoryStore(time.Hour))

			_, err := tracker.Begin(context.Background(), 1, tc.state)
			require.NoError(t, err)

			s, err := tracker.Get(context.Background(), 1)
			require.NoError(t, err)
			assert.Equal(t, tc.state, s.State)
			assert.Equal(t, tc.wantRole, s.Role != nil)
			assert.Equal(t, tc.wantBan, s.Ban != nil)
			assert.Equal(t, tc.wantDraft, s.Draft != nil)
		})
	}
}

func TestTracker_QuizCreationLifecycle(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore(time.Hour)
	tracker := NewTracker(store)

	s, err := tracker.Begin(ctx, 7, StateAwaitingQuizTitle)
	require.NoError(t, err)
	assert.Equal(t, 1, store.Len())

	s.Draft.Title = "Math"
	require.NoError(t, tracker.Advance(ctx, s, StateAwaitingQuizCode))

	s, err = tracker.Get(ctx, 7)
	require.NoError(t, err)
	assert.Equal(t, StateAwaitingQuizCode, s.State)
	assert.Equal(t, "Math", s.Draft.Title)

	s.Draft.Code = "m1"
	s.Draft.Questions = []models.Question{{Text: "Q", Options: []string{"A"}}}
	require.NoError(t, tracker.Advance(ctx, s, StateAwaitingQuizBody))

	s, err = tracker.Get(ctx, 7)
	require.NoError(t, err)
	assert.Equal(t, "m1", s.Draft.Code)
	assert.Len(t, s.Draft.Questions, 1)

	require.NoError(t, tracker.Finish(ctx, 7))
	assert.Equal(t, 0, store.Len())

	s, err = tracker.Get(ctx, 7)
	require.NoError(t, err)
	assert.True(t, s.IsIdle())
}

func TestTracker_AdvanceToIdleRemovesEntry(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore(time.Hour)
	tracker := NewTracker(store)

	s, err := tracker.Begin(ctx, 3, StateAwaitingQuizCodeToTake)
	require.NoError(t, err)

	require.NoError(t, tracker.Advance(ctx, s, StateIdle))
	assert.Equal(t, 0, store.Len())
}

func TestTracker_AdvanceRejectsMismatchedData(t *testing.T) {
	ctx := context.Background()
	tracker := NewTracker(NewMemoryStore(time.Hour))

	s, err := tracker.Begin(ctx, 3, StateAwaitingRoleTargetID)
	require.NoError(t, err)

	assert.Error(t, tracker.Advance(ctx, s, StateAwaitingBanReason))
}

func TestTracker_BeginReplacesWorkflow(t *testing.T) {
	ctx := context.Background()
	tracker := NewTracker(NewMemoryStore(time.Hour))

	_, err := tracker.Begin(ctx, 3, StateAwaitingBanTargetID)
	require.NoError(t, err)
	_, err = tracker.Begin(ctx, 3, StateAwaitingRoleTargetID)
	require.NoError(t, err)

	s, err := tracker.Get(ctx, 3)
	require.NoError(t, err)
	assert.Equal(t, StateAwaitingRoleTargetID, s.State)
	assert.Nil(t, s.Ban)
	assert.NotNil(t, s.Role)
}

func TestTracker_LockSerializesSameUser(t *testing.T) {
	tracker := NewTracker(NewMemoryStore(time.Hour))

	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		active  int
		maxSeen int
	)

	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()

			unlock := tracker.Lock(1)
			defer unlock()

			mu.Lock()
			active++
			if active > maxSeen {
				maxSeen = active
			}
			mu.Unlock()

			time.Sleep(time.Millisecond)

			mu.Lock()
			active--
			mu.Unlock()
		}()
	}

	wg.Wait()

	assert.Equal(t, 1, maxSeen)
	assert.Empty(t, tracker.locks.locks)
}

func TestTracker_LockDifferentUsersDoNotBlock(t *testing.T) {
	tracker := NewTracker(NewMemoryStore(time.Hour))

	unlockFirst := tracker.Lock(1)
	defer unlockFirst()

	done := make(chan struct{})
	go func() {
		unlock := tracker.Lock(2)
		unlock()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("lock of another user is blocked")
	}
}

func TestSession_Validate(t *testing.T) {
	assert.NoError(t, (&Session{State: StateIdle}).Validate())
	assert.NoError(t, (&Session{State: StateAwaitingRoleChoice, Role: &RoleChange{TargetID: 1}}).Validate())
	assert.Error(t, (&Session{State: StateAwaitingRoleChoice}).Validate())
	assert.Error(t, (&Session{State: StateAwaitingQuizBody, Draft: &QuizDraft{}, Ban: &BanTarget{}}).Validate())
	assert.Error(t, (&Session{State: "unknown"}).Validate())
}
