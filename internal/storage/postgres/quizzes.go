package postgres

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/letsssgooo/quizwebapp/internal/domain/models"
	"github.com/letsssgooo/quizwebapp/internal/storage"
)

func (s *Storage) CreateQuiz(ctx context.Context, quiz models.Quiz) error {
	query := `
	INSERT INTO quizzes (code, title, creator_id, questions, is_random) VALUES ($1, $2, $3, $4, $5)
	`

	questions, err := json.Marshal(quiz.Questions)
	if err != nil {
		return fmt.Errorf("failed to encode questions: %w", err)
	}

	_, err = s.pool.Exec(ctx, query, quiz.Code, quiz.Title, quiz.CreatorID, questions, quiz.IsRandom)
	if isUniqueViolation(err) {
		return storage.ErrDuplicateCode
	}

	return wrapErr("create quiz", err)
}

func (s *Storage) GetQuiz(ctx context.Context, code string) (*models.Quiz, error) {
	query := `
	SELECT code, COALESCE(title, ''), COALESCE(creator_id, 0), questions, is_random
	FROM quizzes WHERE code = $1
	`

	var (
		quiz      models.Quiz
		questions []byte
	)

	err := s.pool.QueryRow(ctx, query, code).Scan(
		&quiz.Code,
		&quiz.Title,
		&quiz.CreatorID,
		&questions,
		&quiz.IsRandom,
	)
	if err != nil {
		return nil, wrapErr("get quiz", err)
	}

	if err = json.Unmarshal(questions, &quiz.Questions); err != nil {
		return nil, fmt.Errorf("failed to decode questions of quiz %s: %w", code, err)
	}

	return &quiz, nil
}
