package sender

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/letsssgooo/quizwebapp/internal/client/clienttest"
)

func TestTruncate(t *testing.T) {
	tests := []struct {
		name  string
		text  string
		limit int
		want  string
	}{
		{"short", "abc", 5, "abc"},
		{"exact", "abcde", 5, "abcde"},
		{"long", "abcdef", 5, "abcde"},
		{"cyrillic", "привет", 3, "при"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Truncate(tt.text, tt.limit))
		})
	}
}

func TestSenderDelegates(t *testing.T) {
	fake := clienttest.NewFake()
	s := NewSender(fake)

	msg, err := s.Message(1, strings.Repeat("я", MaxMessageLength+10), nil)
	require.NoError(t, err)
	assert.Equal(t, MaxMessageLength, utf8.RuneCountInString(msg.Text))

	require.NoError(t, s.Edit(1, msg.MessageID, "edited", nil))
	require.NoError(t, s.Answer("cb-1", ""))
	require.NoError(t, s.Document(1, "r.xlsx", []byte{1}))

	last, ok := fake.LastTo(1)
	require.True(t, ok)
	assert.True(t, last.Edited)
	assert.Equal(t, "edited", last.Text)
	assert.Equal(t, []string{"cb-1"}, fake.Answered)
	assert.Equal(t, "r.xlsx", fake.Documents[0].FileName)
}
