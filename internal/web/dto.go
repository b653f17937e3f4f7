package web

import "github.com/letsssgooo/quizwebapp/internal/domain/models"

// submitResultRequest - тело POST /api/submit_result.
// Score и Total от клиента только сверяются с результатом, посчитанным сервером.
// Ограничение на длину Answers совпадает с quiz.MaxQuestions.
type submitResultRequest struct {
	UserID   int64  `json:"user_id" binding:"required,gt=0"`
	QuizCode string `json:"quiz_code" binding:"required,max=64"`
	Score    *int   `json:"score" binding:"omitempty,gte=0"`
	Total    *int   `json:"total" binding:"omitempty,gte=0"`
	Answers  []int  `json:"answers" binding:"required,max=500"`
}

type submitResultResponse struct {
	Status string `json:"status"`
	Score  int    `json:"score"`
	Total  int    `json:"total"`
}

type questionResponse struct {
	Text    string   `json:"text"`
	Options []string `json:"options"`
	Correct int      `json:"correct"`
}

type quizResponse struct {
	Code      string             `json:"code"`
	Title     string             `json:"title"`
	IsRandom  bool               `json:"is_random"`
	Questions []questionResponse `json:"questions"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func newQuizResponse(q *models.Quiz) quizResponse {
	questions := make([]questionResponse, 0, len(q.Questions))
	for _, question := range q.Questions {
		questions = append(questions, questionResponse{
			Text:    question.Text,
			Options: question.Options,
			Correct: question.Correct,
		})
	}

	return quizResponse{
		Code:      q.Code,
		Title:     q.Title,
		IsRandom:  q.IsRandom,
		Questions: questions,
	}
}
