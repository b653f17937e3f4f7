package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/letsssgooo/quizwebapp/internal/domain/models"
)

// ErrNoSession возвращается хранилищем, если у пользователя нет активного сценария.
var ErrNoSession = errors.New("session not found")

// State - шаг сценария, в котором находится пользователь.
type State string

const (
	StateIdle State = "idle"

	// Смена роли (админ)
	StateAwaitingRoleTargetID State = "awaiting_role_target_id"
	StateAwaitingRoleChoice   State = "awaiting_role_choice"

	// Бан или сброс пользователя (админ)
	StateAwaitingBanTargetID State = "awaiting_ban_target_id"
	StateAwaitingBanReason   State = "awaiting_ban_reason"

	// Создание квиза (админ)
	StateAwaitingQuizTitle State = "awaiting_quiz_title"
	StateAwaitingQuizCode  State = "awaiting_quiz_code"
	StateAwaitingQuizBody  State = "awaiting_quiz_body"

	// Прохождение квиза (студент)
	StateAwaitingQuizCodeToTake State = "awaiting_quiz_code_to_take"

	// Просмотр результатов (админ, преподаватель)
	StateAwaitingResultsCode State = "awaiting_results_code"
)

// RoleChange - данные сценария смены роли.
type RoleChange struct {
	TargetID int64 `json:"target_id"`
}

// BanTarget - данные сценария бана.
type BanTarget struct {
	TargetID int64 `json:"target_id"`
}

// QuizDraft - данные сценария создания квиза. Questions заполняется, если текст
// уже разобран, а код оказался занят.
type QuizDraft struct {
	Title     string            `json:"title"`
	Code      string            `json:"code"`
	Questions []models.Question `json:"questions,omitempty"`
}

// Session - состояние диалога с пользователем. State служит тегом: заполнено
// только поле данных, относящееся к текущему сценарию.
type Session struct {
	UserID    int64       `json:"user_id"`
	State     State       `json:"state"`
	Role      *RoleChange `json:"role,omitempty"`
	Ban       *BanTarget  `json:"ban,omitempty"`
	Draft     *QuizDraft  `json:"draft,omitempty"`
	UpdatedAt time.Time   `json:"updated_at"`
}

// Idle возвращает пустую сессию пользователя.
func Idle(userID int64) *Session {
	return &Session{UserID: userID, State: StateIdle}
}

// IsIdle сообщает, что у пользователя нет активного сценария.
func (s *Session) IsIdle() bool {
	return s.State == StateIdle || s.State == ""
}

// Validate проверяет, что заполнены данные именно того сценария, которому принадлежит State.
func (s *Session) Validate() error {
	var roleSet, banSet, draftSet bool

	switch s.State {
	case StateIdle, StateAwaitingQuizCodeToTake, StateAwaitingResultsCode:
	case StateAwaitingRoleTargetID, StateAwaitingRoleChoice:
		roleSet = true
	case StateAwaitingBanTargetID, StateAwaitingBanReason:
		banSet = true
	case StateAwaitingQuizTitle, StateAwaitingQuizCode, StateAwaitingQuizBody:
		draftSet = true
	default:
		return fmt.Errorf("unknown state %q", s.State)
	}

	if (s.Role != nil) != roleSet || (s.Ban != nil) != banSet || (s.Draft != nil) != draftSet {
		return fmt.Errorf("session data does not match state %q", s.State)
	}

	return nil
}

// clone копирует сессию вместе с данными сценария.
func (s *Session) clone() *Session {
	c := *s

	if s.Role != nil {
		role := *s.Role
		c.Role = &role
	}

	if s.Ban != nil {
		ban := *s.Ban
		c.Ban = &ban
	}

	if s.Draft != nil {
		draft := *s.Draft
		draft.Questions = append([]models.Question(nil), s.Draft.Questions...)
		c.Draft = &draft
	}

	return &c
}

// Store определяет интерфейс хранилища сессий.
type Store interface {
	// Get возвращает сессию пользователя или ErrNoSession.
	Get(ctx context.Context, userID int64) (*Session, error)

	// Save сохраняет сессию.
	Save(ctx context.Context, s *Session) error

	// Delete удаляет сессию. Удаление отсутствующей сессии не является ошибкой.
	Delete(ctx context.Context, userID int64) error
}
