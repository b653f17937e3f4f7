package quiz

import (
	"errors"
	"fmt"

	"github.com/letsssgooo/quizwebapp/internal/domain/models"
)

// ErrInvalidQuestion возвращается для вопроса, который нельзя сохранить.
var ErrInvalidQuestion = errors.New("invalid question")

// MaxQuestions - максимальное число вопросов в одном квизе.
const MaxQuestions = 500

// ValidateQuestions проверяет на корректность вопросы квиза перед сохранением.
func ValidateQuestions(questions []models.Question) error {
	if len(questions) == 0 {
		return ErrNoQuestionsFound
	}

	if len(questions) > MaxQuestions {
		return fmt.Errorf("%w: %d questions, at most %d allowed", ErrInvalidQuestion, len(questions), MaxQuestions)
	}

	for i, question := range questions {
		if question.Text == "" {
			return fmt.Errorf("%w: missing text of %d question", ErrInvalidQuestion, i)
		}

		if len(question.Options) == 0 {
			return fmt.Errorf("%w: missing options of %d question", ErrInvalidQuestion, i)
		}

		if question.Correct < 0 {
			return fmt.Errorf("%w: index of correct answer must not be negative in %d question", ErrInvalidQuestion, i)
		}

		if question.Correct >= len(question.Options) {
			return fmt.Errorf("%w: index of correct answer in %d question is out of range", ErrInvalidQuestion, i)
		}
	}

	return nil
}
