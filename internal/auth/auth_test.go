package auth

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/letsssgooo/quizwebapp/internal/domain/models"
)

func TestParseUserID(t *testing.T) {
	testCases := []struct {
		name     string
		message  string
		expected int64
		wantErr  bool
	}{
		{name: "plain", message: "12345", expected: 12345},
		{name: "with spaces", message: "  777 \n", expected: 777},
		{name: "letters", message: "abc", wantErr: true},
		{name: "mixed", message: "12a", wantErr: true},
		{name: "empty", message: "", wantErr: true},
		{name: "negative", message: "-5", wantErr: true},
		{name: "zero", message: "0", wantErr: true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			id, err := ParseUserID(tc.message)
			if tc.wantErr {
				assert.ErrorIs(t, err, ErrValidation)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tc.expected, id)
		})
	}
}

func TestParseRole(t *testing.T) {
	testCases := []struct {
		name     string
		message  string
		expected models.Role
		wantErr  bool
	}{
		{name: "keyword", message: "teacher", expected: models.RoleTeacher},
		{name: "upper case", message: " ADMIN ", expected: models.RoleAdmin},
		{name: "callback data", message: "role_student", expected: models.RoleStudent},
		{name: "unknown", message: "parent", wantErr: true},
		{name: "two words", message: "admin teacher", wantErr: true},
		{name: "empty", message: "", wantErr: true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			role, err := ParseRole(tc.message)
			if tc.wantErr {
				assert.ErrorIs(t, err, ErrValidation)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tc.expected, role)
		})
	}
}

func TestParseQuizCode(t *testing.T) {
	code, err := ParseQuizCode("  math-101 ")
	require.NoError(t, err)
	assert.Equal(t, "math-101", code)

	for _, bad := range []string{"", "   ", "two words", "a/b", strings.Repeat("x", maxQuizCodeLen+1)} {
		_, err = ParseQuizCode(bad)
		assert.ErrorIs(t, err, ErrValidation, bad)
	}
}

func TestBotAuth(t *testing.T) {
	a := NewBotAuth(42)

	assert.True(t, a.IsConfiguredAdmin(42))
	assert.False(t, a.IsConfiguredAdmin(1))
	assert.False(t, NewBotAuth(0).IsConfiguredAdmin(0))

	admin := &models.User{Role: models.RoleAdmin}
	teacher := &models.User{Role: models.RoleTeacher}
	student := &models.User{Role: models.RoleStudent}

	assert.True(t, a.CanManage(admin))
	assert.False(t, a.CanManage(teacher))
	assert.False(t, a.CanManage(nil))

	assert.True(t, a.CanViewResults(admin))
	assert.True(t, a.CanViewResults(teacher))
	assert.False(t, a.CanViewResults(student))
}
