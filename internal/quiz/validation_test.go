package quiz

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/letsssgooo/quizwebapp/internal/domain/models"
)

func TestValidateQuestions(t *testing.T) {
	tooMany := make([]models.Question, MaxQuestions+1)
	for i := range tooMany {
		tooMany[i] = models.Question{Text: "Q", Options: []string{"A"}}
	}

	testCases := []struct {
		name      string
		questions []models.Question
		wantErr   error
	}{
		{
			name:      "valid",
			questions: []models.Question{{Text: "Q", Options: []string{"A", "B"}, Correct: 1}},
		},
		{
			name:    "empty list",
			wantErr: ErrNoQuestionsFound,
		},
		{
			name:      "missing text",
			questions: []models.Question{{Options: []string{"A"}}},
			wantErr:   ErrInvalidQuestion,
		},
		{
			name:      "missing options",
			questions: []models.Question{{Text: "Q"}},
			wantErr:   ErrInvalidQuestion,
		},
		{
			name:      "correct index negative",
			questions: []models.Question{{Text: "Q", Options: []string{"A"}, Correct: -1}},
			wantErr:   ErrInvalidQuestion,
		},
		{
			name:      "exactly max questions",
			questions: tooMany[:MaxQuestions],
		},
		{
			name:      "too many questions",
			questions: tooMany,
			wantErr:   ErrInvalidQuestion,
		},
		{
			name:      "correct index out of range",
			questions: []models.Question{{Text: "Q", Options: []string{"A", "B"}, Correct: 2}},
			wantErr:   ErrInvalidQuestion,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			err := ValidateQuestions(tc.questions)
			if tc.wantErr == nil {
				assert.NoError(t, err)
				return
			}

			assert.ErrorIs(t, err, tc.wantErr)
		})
	}
}
