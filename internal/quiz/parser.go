package quiz

import (
	"errors"
	"strings"

	"github.com/letsssgooo/quizwebapp/internal/domain/models"
)

// ErrNoQuestionsFound возвращается, если в тексте не нашлось ни одного вопроса.
var ErrNoQuestionsFound = errors.New("no questions found")

// CorrectMarkers - подстроки, которыми автор отмечает правильный вариант ответа.
var CorrectMarkers = []string{"(+)", "(v)", "(correct)"}

// ParseQuestions разбирает текст автора в список вопросов.
//
// Блоки разделяются пустыми строками. Первая непустая строка блока - текст вопроса,
// остальные - варианты ответа в исходном порядке. Блоки меньше чем из двух строк
// пропускаются. Правильным считается последний вариант с маркером, без маркеров - первый.
func ParseQuestions(text string) ([]models.Question, error) {
	text = strings.ReplaceAll(text, "\r\n", "\n")

	questions := make([]models.Question, 0)

	for _, lines := range splitBlocks(text) {
		if len(lines) < 2 {
			continue
		}

		question := models.Question{
			Text:    lines[0],
			Options: make([]string, 0, len(lines)-1),
		}

		for i, line := range lines[1:] {
			if hasMarker(line) {
				question.Correct = i
				line = stripMarkers(line)
			}

			question.Options = append(question.Options, strings.TrimSpace(line))
		}

		questions = append(questions, question)
	}

	if len(questions) == 0 {
		return nil, ErrNoQuestionsFound
	}

	return questions, nil
}

// splitBlocks делит текст на блоки обрезанных строк. Блок заканчивается на строке,
// в которой нет ничего, кроме пробельных символов Unicode.
func splitBlocks(text string) [][]string {
	blocks := make([][]string, 0)
	current := make([]string, 0)

	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line != "" {
			current = append(current, line)
			continue
		}

		if len(current) > 0 {
			blocks = append(blocks, current)
			current = make([]string, 0)
		}
	}

	if len(current) > 0 {
		blocks = append(blocks, current)
	}

	return blocks
}

func hasMarker(line string) bool {
	for _, marker := range CorrectMarkers {
		if strings.Contains(line, marker) {
			return true
		}
	}

	return false
}

func stripMarkers(line string) string {
	for _, marker := range CorrectMarkers {
		line = strings.ReplaceAll(line, marker, "")
	}

	return line
}
