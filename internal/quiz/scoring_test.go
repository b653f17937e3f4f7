package quiz

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/letsssgooo/quizwebapp/internal/domain/models"
)

func TestScore(t *testing.T) {
	questions := []models.Question{
		{Text: "Q1", Options: []string{"A", "B"}, Correct: 1},
		{Text: "Q2", Options: []string{"A", "B", "C"}, Correct: 0},
		{Text: "Q3", Options: []string{"A", "B", "C"}, Correct: 2},
	}

	testCases := []struct {
		name          string
		answers       []int
		expectedScore int
	}{
		{name: "all correct", answers: []int{1, 0, 2}, expectedScore: 3},
		{name: "all wrong", answers: []int{0, 1, 1}, expectedScore: 0},
		{name: "partial", answers: []int{1, 2, 2}, expectedScore: 2},
		{name: "missing answers", answers: []int{1}, expectedScore: 1},
		{name: "no answers", answers: nil, expectedScore: 0},
		{name: "out of range and unanswered", answers: []int{7, -1, 2}, expectedScore: 1},
		{name: "extra answers ignored", answers: []int{1, 0, 2, 0, 0}, expectedScore: 3},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			score, total := Score(questions, tc.answers)
			assert.Equal(t, tc.expectedScore, score)
			assert.Equal(t, 3, total)
		})
	}
}

func TestIndexToLetter(t *testing.T) {
	assert.Equal(t, "A", IndexToLetter(0))
	assert.Equal(t, "F", IndexToLetter(5))
	assert.Equal(t, "", IndexToLetter(6))
	assert.Equal(t, "", IndexToLetter(-1))
}
