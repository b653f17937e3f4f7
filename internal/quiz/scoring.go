package quiz

import "github.com/letsssgooo/quizwebapp/internal/domain/models"

// AnswerLetters - буквы для вывода вариантов ответа (A-F для до 6 вариантов).
var AnswerLetters = []string{"A", "B", "C", "D", "E", "F"}

// IndexToLetter преобразует индекс в букву (0=A, 1=B, ...).
func IndexToLetter(idx int) string {
	if idx >= 0 && idx < len(AnswerLetters) {
		return AnswerLetters[idx]
	}

	return ""
}

// Score считает результат по индексам ответов. answers[i] - выбранный вариант
// на i-й вопрос; пропущенные и выходящие за диапазон ответы не засчитываются.
func Score(questions []models.Question, answers []int) (score, total int) {
	total = len(questions)

	for i, question := range questions {
		if i < len(answers) && answers[i] == question.Correct {
			score++
		}
	}

	return score, total
}
