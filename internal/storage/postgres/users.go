package postgres

import (
	"context"

	"github.com/letsssgooo/quizwebapp/internal/domain/models"
)

func (s *Storage) UpsertUser(ctx context.Context, user models.User) error {
	query := `
	INSERT INTO users (user_id, name, role, lang, username, telegram_name)
	VALUES ($1, $2, $3, $4, $5, $6)
	ON CONFLICT (user_id) DO UPDATE
	SET name = $2, lang = $4, username = $5, telegram_name = $6
	`

	role := user.Role
	if role == "" {
		role = models.RoleStudent
	}

	lang := user.Lang
	if lang == "" {
		lang = models.DefaultLang
	}

	_, err := s.pool.Exec(ctx, query, user.ID, user.Name, string(role), lang, user.Username, user.TelegramName)

	return wrapErr("upsert user", err)
}

func (s *Storage) GetUser(ctx context.Context, id int64) (*models.User, error) {
	query := `
	SELECT user_id, COALESCE(name, ''), role, lang, COALESCE(username, ''),
	       COALESCE(telegram_name, ''), is_banned, ban_reason
	FROM users WHERE user_id = $1
	`

	var (
		user models.User
		role string
	)

	err := s.pool.QueryRow(ctx, query, id).Scan(
		&user.ID,
		&user.Name,
		&role,
		&user.Lang,
		&user.Username,
		&user.TelegramName,
		&user.IsBanned,
		&user.BanReason,
	)
	if err != nil {
		return nil, wrapErr("get user", err)
	}

	user.Role = models.Role(role)

	return &user, nil
}

func (s *Storage) ListUsers(ctx context.Context) ([]models.User, error) {
	query := `
	SELECT user_id, COALESCE(name, ''), role, lang, COALESCE(username, ''),
	       COALESCE(telegram_name, ''), is_banned, ban_reason
	FROM users ORDER BY user_id
	`

	rows, err := s.pool.Query(ctx, query)
	if err != nil {
		return nil, wrapErr("list users", err)
	}
	defer rows.Close()

	users := make([]models.User, 0)

	for rows.Next() {
		var (
			user models.User
			role string
		)

		err = rows.Scan(
			&user.ID,
			&user.Name,
			&role,
			&user.Lang,
			&user.Username,
			&user.TelegramName,
			&user.IsBanned,
			&user.BanReason,
		)
		if err != nil {
			return nil, wrapErr("list users", err)
		}

		user.Role = models.Role(role)
		users = append(users, user)
	}

	return users, wrapErr("list users", rows.Err())
}

func (s *Storage) SetRole(ctx context.Context, id int64, role models.Role) error {
	query := `
	UPDATE users SET role = $1 WHERE user_id = $2
	`

	_, err := s.pool.Exec(ctx, query, string(role), id)

	return wrapErr("set role", err)
}

func (s *Storage) BanUser(ctx context.Context, id int64, reason string) error {
	query := `
	UPDATE users SET is_banned = TRUE, ban_reason = $1 WHERE user_id = $2
	`

	_, err := s.pool.Exec(ctx, query, reason, id)

	return wrapErr("ban user", err)
}
