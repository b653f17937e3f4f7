package postgres

import (
	"context"
	"errors"
	"fmt"
	"os"
	"testing"

	"github.com/jackc/pgconn"
	"github.com/jackc/pgx/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/letsssgooo/quizwebapp/internal/domain/models"
	"github.com/letsssgooo/quizwebapp/internal/storage"
)

func TestWrapErr(t *testing.T) {
	assert.NoError(t, wrapErr("op", nil))
	assert.ErrorIs(t, wrapErr("op", pgx.ErrNoRows), storage.ErrNotFound)

	cause := errors.New("connection refused")
	err := wrapErr("op", cause)
	assert.ErrorIs(t, err, storage.ErrUnavailable)
	assert.ErrorIs(t, err, cause)
}

func TestIsUniqueViolation(t *testing.T) {
	assert.True(t, isUniqueViolation(&pgconn.PgError{Code: uniqueViolation}))
	assert.True(t, isUniqueViolation(fmt.Errorf("wrapped: %w", &pgconn.PgError{Code: uniqueViolation})))
	assert.False(t, isUniqueViolation(&pgconn.PgError{Code: "23503"}))
	assert.False(t, isUniqueViolation(errors.New("boom")))
	assert.False(t, isUniqueViolation(nil))
}

// newTestStorage подключается к базе из QUIZBOT_TEST_DATABASE_URL и очищает таблицы.
func newTestStorage(t *testing.T) *Storage {
	t.Helper()

	dsn := os.Getenv("QUIZBOT_TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("QUIZBOT_TEST_DATABASE_URL is not set")
	}

	require.NoError(t, Migrate(dsn))

	ctx := context.Background()
	st, err := NewStorage(ctx, dsn)
	require.NoError(t, err)
	t.Cleanup(st.Close)

	require.NoError(t, st.Ping(ctx))

	_, err = st.pool.Exec(ctx, `TRUNCATE users, quizzes, results RESTART IDENTITY`)
	require.NoError(t, err)

	return st
}

func TestStorage_PingAfterClose(t *testing.T) {
	st := newTestStorage(t)
	st.Close()

	assert.ErrorIs(t, st.Ping(context.Background()), storage.ErrUnavailable)
}

func TestStorage_Users(t *testing.T) {
	st := newTestStorage(t)
	ctx := context.Background()

	require.NoError(t, st.UpsertUser(ctx, models.User{ID: 1, Name: "Ann", Role: models.RoleStudent, Lang: "ru"}))
	require.NoError(t, st.UpsertUser(ctx, models.User{ID: 1, Name: "Anna", Role: models.RoleAdmin, Lang: "en"}))

	user, err := st.GetUser(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, "Anna", user.Name)
	assert.Equal(t, models.RoleStudent, user.Role)
	assert.Nil(t, user.BanReason)

	require.NoError(t, st.SetRole(ctx, 1, models.RoleTeacher))
	require.NoError(t, st.BanUser(ctx, 1, "spam"))

	user, err = st.GetUser(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, models.RoleTeacher, user.Role)
	assert.True(t, user.IsBanned)
	require.NotNil(t, user.BanReason)
	assert.Equal(t, "spam", *user.BanReason)

	_, err = st.GetUser(ctx, 2)
	assert.ErrorIs(t, err, storage.ErrNotFound)

	users, err := st.ListUsers(ctx)
	require.NoError(t, err)
	assert.Len(t, users, 1)
}

func TestStorage_QuizzesAndResults(t *testing.T) {
	st := newTestStorage(t)
	ctx := context.Background()

	quiz := models.Quiz{
		Code:      "geo",
		Title:     "Geography",
		CreatorID: 1,
		Questions: []models.Question{{Text: "Capital of France?", Options: []string{"Berlin", "Paris"}, Correct: 1}},
	}
	require.NoError(t, st.CreateQuiz(ctx, quiz))
	assert.ErrorIs(t, st.CreateQuiz(ctx, quiz), storage.ErrDuplicateCode)

	stored, err := st.GetQuiz(ctx, "geo")
	require.NoError(t, err)
	assert.Equal(t, quiz.Questions, stored.Questions)

	require.NoError(t, st.UpsertUser(ctx, models.User{ID: 7, Name: "Bob"}))
	_, err = st.SaveResult(ctx, models.Result{UserID: 7, QuizCode: "geo", Score: 1, Total: 1, Answers: []int{1}})
	require.NoError(t, err)

	taken, err := st.HasTaken(ctx, 7, "geo")
	require.NoError(t, err)
	assert.True(t, taken)

	leaderboard, err := st.GetLeaderboard(ctx, "geo")
	require.NoError(t, err)
	assert.Equal(t, []models.LeaderboardEntry{{Name: "Bob", Score: 1, Total: 1}}, leaderboard)

	require.NoError(t, st.BanUser(ctx, 7, "cheat"))
	require.NoError(t, st.ResetUser(ctx, 7))

	user, err := st.GetUser(ctx, 7)
	require.NoError(t, err)
	assert.False(t, user.IsBanned)

	results, err := st.ListResultsFor(ctx, 7)
	require.NoError(t, err)
	assert.Empty(t, results)
}
