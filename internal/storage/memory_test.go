package storage

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/letsssgooo/quizwebapp/internal/domain/models"
)

func TestMemoryStorage_UpsertUserPreservesRoleAndBan(t *testing.T) {
	ctx := context.Background()
	st := NewMemoryStorage()

	require.NoError(t, st.UpsertUser(ctx, models.User{ID: 1, Name: "Ann", Role: models.RoleStudent, Lang: "ru"}))
	require.NoError(t, st.BanUser(ctx, 1, "spam"))
	require.NoError(t, st.UpsertUser(ctx, models.User{ID: 1, Name: "Anna", Role: models.RoleAdmin, Lang: "en", Username: "anna"}))

	user, err := st.GetUser(ctx, 1)
	require.NoError(t, err)

	assert.Equal(t, "Anna", user.Name)
	assert.Equal(t, "en", user.Lang)
	assert.Equal(t, "anna", user.Username)
	assert.Equal(t, models.RoleStudent, user.Role)
	assert.True(t, user.IsBanned)
	require.NotNil(t, user.BanReason)
	assert.Equal(t, "spam", *user.BanReason)
}

func TestMemoryStorage_UpsertUserDefaults(t *testing.T) {
	ctx := context.Background()
	st := NewMemoryStorage()

	require.NoError(t, st.UpsertUser(ctx, models.User{ID: 5, Name: "Bob"}))

	user, err := st.GetUser(ctx, 5)
	require.NoError(t, err)
	assert.Equal(t, models.RoleStudent, user.Role)
	assert.Equal(t, models.DefaultLang, user.Lang)
}

func TestMemoryStorage_GetUserNotFound(t *testing.T) {
	user, err := NewMemoryStorage().GetUser(context.Background(), 42)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Nil(t, user)
}

func TestMemoryStorage_ListUsersOrdered(t *testing.T) {
	ctx := context.Background()
	st := NewMemoryStorage()

	for _, id := range []int64{30, 10, 20} {
		require.NoError(t, st.UpsertUser(ctx, models.User{ID: id}))
	}

	users, err := st.ListUsers(ctx)
	require.NoError(t, err)
	require.Len(t, users, 3)
	assert.Equal(t, int64(10), users[0].ID)
	assert.Equal(t, int64(30), users[2].ID)
}

func TestMemoryStorage_SetRole(t *testing.T) {
	ctx := context.Background()
	st := NewMemoryStorage()

	require.NoError(t, st.UpsertUser(ctx, models.User{ID: 1}))
	require.NoError(t, st.SetRole(ctx, 1, models.RoleTeacher))
	require.NoError(t, st.SetRole(ctx, 99, models.RoleTeacher))

	user, err := st.GetUser(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, models.RoleTeacher, user.Role)
}

func TestMemoryStorage_ResetUser(t *testing.T) {
	ctx := context.Background()
	st := NewMemoryStorage()

	require.NoError(t, st.UpsertUser(ctx, models.User{ID: 1, Name: "Ann"}))
	require.NoError(t, st.UpsertUser(ctx, models.User{ID: 2, Name: "Bob"}))
	require.NoError(t, st.BanUser(ctx, 1, "cheating"))

	_, err := st.SaveResult(ctx, models.Result{UserID: 1, QuizCode: "q1", Score: 1, Total: 2})
	require.NoError(t, err)
	_, err = st.SaveResult(ctx, models.Result{UserID: 2, QuizCode: "q1", Score: 2, Total: 2})
	require.NoError(t, err)
	_, err = st.SaveResult(ctx, models.Result{UserID: 1, QuizCode: "q2", Score: 0, Total: 1})
	require.NoError(t, err)

	require.NoError(t, st.ResetUser(ctx, 1))

	user, err := st.GetUser(ctx, 1)
	require.NoError(t, err)
	assert.False(t, user.IsBanned)
	assert.Nil(t, user.BanReason)

	results, err := st.ListResultsFor(ctx, 1)
	require.NoError(t, err)
	assert.Empty(t, results)

	others, err := st.ListResultsFor(ctx, 2)
	require.NoError(t, err)
	assert.Len(t, others, 1)
}

func TestMemoryStorage_CreateQuizDuplicateCode(t *testing.T) {
	ctx := context.Background()
	st := NewMemoryStorage()

	quiz := models.Quiz{
		Code:      "math",
		Title:     "Math",
		CreatorID: 1,
		Questions: []models.Question{{Text: "2+2?", Options: []string{"3", "4"}, Correct: 1}},
	}

	require.NoError(t, st.CreateQuiz(ctx, quiz))

	quiz.Title = "Other"
	assert.ErrorIs(t, st.CreateQuiz(ctx, quiz), ErrDuplicateCode)

	stored, err := st.GetQuiz(ctx, "math")
	require.NoError(t, err)
	assert.Equal(t, "Math", stored.Title)
	assert.Equal(t, 1, stored.Questions[0].Correct)
}

func TestMemoryStorage_GetQuizNotFound(t *testing.T) {
	quiz, err := NewMemoryStorage().GetQuiz(context.Background(), "nope")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Nil(t, quiz)
}

func TestMemoryStorage_ResultsAndLeaderboard(t *testing.T) {
	ctx := context.Background()
	st := NewMemoryStorage()

	require.NoError(t, st.UpsertUser(ctx, models.User{ID: 1, Name: "Ann"}))
	require.NoError(t, st.UpsertUser(ctx, models.User{ID: 2, Name: "Bob"}))

	taken, err := st.HasTaken(ctx, 1, "q1")
	require.NoError(t, err)
	assert.False(t, taken)

	firstID, err := st.SaveResult(ctx, models.Result{UserID: 1, QuizCode: "q1", Score: 1, Total: 3, Answers: []int{0, 1, 2}})
	require.NoError(t, err)
	secondID, err := st.SaveResult(ctx, models.Result{UserID: 2, QuizCode: "q1", Score: 3, Total: 3})
	require.NoError(t, err)
	_, err = st.SaveResult(ctx, models.Result{UserID: 1, QuizCode: "q1", Score: 1, Total: 3})
	require.NoError(t, err)
	_, err = st.SaveResult(ctx, models.Result{UserID: 1, QuizCode: "other", Score: 9, Total: 9})
	require.NoError(t, err)

	assert.Less(t, firstID, secondID)

	taken, err = st.HasTaken(ctx, 1, "q1")
	require.NoError(t, err)
	assert.True(t, taken)

	leaderboard, err := st.GetLeaderboard(ctx, "q1")
	require.NoError(t, err)
	assert.Equal(t, []models.LeaderboardEntry{
		{Name: "Bob", Score: 3, Total: 3},
		{Name: "Ann", Score: 1, Total: 3},
		{Name: "Ann", Score: 1, Total: 3},
	}, leaderboard)
}

func TestMemoryStorage_QuizAndResultAreCopied(t *testing.T) {
	ctx := context.Background()
	st := NewMemoryStorage()

	quiz := models.Quiz{
		Code:      "math",
		Title:     "Math",
		CreatorID: 1,
		Questions: []models.Question{{Text: "2+2?", Options: []string{"3", "4"}, Correct: 1}},
	}
	require.NoError(t, st.CreateQuiz(ctx, quiz))

	quiz.Questions[0].Text = "changed by caller"
	quiz.Questions[0].Options[0] = "changed by caller"

	stored, err := st.GetQuiz(ctx, "math")
	require.NoError(t, err)

	stored.Questions[0].Correct = 0
	stored.Questions[0].Options[1] = "changed by reader"

	again, err := st.GetQuiz(ctx, "math")
	require.NoError(t, err)
	assert.Equal(t, []models.Question{{Text: "2+2?", Options: []string{"3", "4"}, Correct: 1}}, again.Questions)

	answers := []int{1, 0}
	_, err = st.SaveResult(ctx, models.Result{UserID: 1, QuizCode: "math", Score: 1, Total: 1, Answers: answers})
	require.NoError(t, err)

	answers[0] = 9

	results, err := st.ListResultsFor(ctx, 1)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, []int{1, 0}, results[0].Answers)

	results[0].Answers[1] = 9

	results, err = st.ListResultsFor(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, []int{1, 0}, results[0].Answers)
}
