package postgres

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v4"

	"github.com/letsssgooo/quizwebapp/internal/domain/models"
)

func (s *Storage) SaveResult(ctx context.Context, result models.Result) (int64, error) {
	query := `
	INSERT INTO results (user_id, quiz_code, score, total, answers)
	VALUES ($1, $2, $3, $4, $5)
	RETURNING id
	`

	answers, err := json.Marshal(result.Answers)
	if err != nil {
		return 0, fmt.Errorf("failed to encode answers: %w", err)
	}

	var id int64

	err = s.pool.QueryRow(ctx, query, result.UserID, result.QuizCode, result.Score, result.Total, answers).Scan(&id)
	if err != nil {
		return 0, wrapErr("save result", err)
	}

	return id, nil
}

func (s *Storage) HasTaken(ctx context.Context, userID int64, code string) (bool, error) {
	query := `
	SELECT EXISTS(SELECT 1 FROM results WHERE user_id = $1 AND quiz_code = $2)
	`

	var taken bool
	if err := s.pool.QueryRow(ctx, query, userID, code).Scan(&taken); err != nil {
		return false, wrapErr("has taken", err)
	}

	return taken, nil
}

func (s *Storage) GetLeaderboard(ctx context.Context, code string) ([]models.LeaderboardEntry, error) {
	query := `
	SELECT COALESCE(u.name, ''), r.score, r.total
	FROM results r
	JOIN users u ON r.user_id = u.user_id
	WHERE r.quiz_code = $1
	ORDER BY r.score DESC, r.id
	`

	rows, err := s.pool.Query(ctx, query, code)
	if err != nil {
		return nil, wrapErr("get leaderboard", err)
	}
	defer rows.Close()

	entries := make([]models.LeaderboardEntry, 0)

	for rows.Next() {
		var entry models.LeaderboardEntry
		if err = rows.Scan(&entry.Name, &entry.Score, &entry.Total); err != nil {
			return nil, wrapErr("get leaderboard", err)
		}

		entries = append(entries, entry)
	}

	return entries, wrapErr("get leaderboard", rows.Err())
}

func (s *Storage) ListResultsFor(ctx context.Context, userID int64) ([]models.Result, error) {
	query := `
	SELECT id, user_id, quiz_code, score, total, answers
	FROM results WHERE user_id = $1 ORDER BY id
	`

	rows, err := s.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, wrapErr("list results", err)
	}
	defer rows.Close()

	results := make([]models.Result, 0)

	for rows.Next() {
		var (
			result  models.Result
			answers []byte
		)

		err = rows.Scan(&result.ID, &result.UserID, &result.QuizCode, &result.Score, &result.Total, &answers)
		if err != nil {
			return nil, wrapErr("list results", err)
		}

		if len(answers) > 0 {
			if err = json.Unmarshal(answers, &result.Answers); err != nil {
				return nil, fmt.Errorf("failed to decode answers of result %d: %w", result.ID, err)
			}
		}

		results = append(results, result)
	}

	return results, wrapErr("list results", rows.Err())
}

// ResetUser снимает бан и удаляет результаты пользователя в одной транзакции.
func (s *Storage) ResetUser(ctx context.Context, id int64) error {
	err := s.pool.BeginFunc(ctx, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, `UPDATE users SET is_banned = FALSE, ban_reason = NULL WHERE user_id = $1`, id); err != nil {
			return err
		}

		_, err := tx.Exec(ctx, `DELETE FROM results WHERE user_id = $1`, id)

		return err
	})

	return wrapErr("reset user", err)
}
