package storage

import (
	"context"
	"errors"

	"github.com/letsssgooo/quizwebapp/internal/domain/models"
)

// Ошибки хранилища
var (
	// ErrNotFound - запись не найдена.
	ErrNotFound = errors.New("record not found")

	// ErrDuplicateCode - квиз с таким кодом уже существует.
	ErrDuplicateCode = errors.New("quiz code already exists")

	// ErrUnavailable - хранилище недоступно или вернуло непредвиденную ошибку.
	ErrUnavailable = errors.New("storage unavailable")
)

// Repository определяет интерфейс для хранения пользователей, квизов и результатов.
type Repository interface {
	// UpsertUser создает пользователя, а при повторном вызове обновляет имя, язык,
	// username и имя в Telegram. Роль и бан при обновлении не меняются.
	UpsertUser(ctx context.Context, user models.User) error

	// GetUser возвращает пользователя по ID или ErrNotFound.
	GetUser(ctx context.Context, id int64) (*models.User, error)

	// ListUsers возвращает всех пользователей, упорядоченных по ID.
	ListUsers(ctx context.Context) ([]models.User, error)

	// SetRole меняет роль пользователя.
	SetRole(ctx context.Context, id int64, role models.Role) error

	// BanUser банит пользователя с причиной reason.
	BanUser(ctx context.Context, id int64, reason string) error

	// ResetUser снимает бан и удаляет все результаты пользователя в одной транзакции.
	ResetUser(ctx context.Context, id int64) error

	// CreateQuiz сохраняет новый квиз. Возвращает ErrDuplicateCode, если код занят.
	CreateQuiz(ctx context.Context, quiz models.Quiz) error

	// GetQuiz возвращает квиз по коду или ErrNotFound.
	GetQuiz(ctx context.Context, code string) (*models.Quiz, error)

	// SaveResult сохраняет результат прохождения квиза и возвращает его ID.
	SaveResult(ctx context.Context, result models.Result) (int64, error)

	// HasTaken проверяет, есть ли у пользователя результат по квизу.
	HasTaken(ctx context.Context, userID int64, code string) (bool, error)

	// GetLeaderboard возвращает результаты квиза с именами пользователей.
	GetLeaderboard(ctx context.Context, code string) ([]models.LeaderboardEntry, error)

	// ListResultsFor возвращает все результаты пользователя.
	ListResultsFor(ctx context.Context, userID int64) ([]models.Result, error)
}
