package auth

import (
	"errors"

	"github.com/letsssgooo/quizwebapp/internal/domain/models"
)

// Ошибки авторизации
var ErrValidation = errors.New("validation error")

// RoleCallbackPrefix - префикс callback-данных кнопок выбора роли (role_admin, ...).
const RoleCallbackPrefix = "role_"

// maxQuizCodeLen - максимальная длина кода квиза.
const maxQuizCodeLen = 64

// Access определяет интерфейс проверки прав пользователя.
type Access interface {
	// IsConfiguredAdmin сообщает, что telegramID - администратор из конфигурации.
	IsConfiguredAdmin(telegramID int64) bool

	// CanManage сообщает, может ли пользователь создавать квизы и управлять пользователями.
	CanManage(user *models.User) bool

	// CanViewResults сообщает, может ли пользователь смотреть результаты квизов.
	CanViewResults(user *models.User) bool
}
