package auth

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"

	"github.com/letsssgooo/quizwebapp/internal/domain/models"
)

// ParseUserID валидирует сообщение с ID пользователя Telegram
func ParseUserID(message string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(message), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w, user id must be a number", ErrValidation)
	}

	if id <= 0 {
		return 0, fmt.Errorf("%w, user id must be positive", ErrValidation)
	}

	return id, nil
}

// ParseRole валидирует сообщение пользователя или callback кнопки и отдает роль
func ParseRole(message string) (models.Role, error) {
	message = strings.TrimSpace(message)
	if len(strings.Fields(message)) != 1 {
		return "", fmt.Errorf("%w, cannot set role to user, invalid parameter", ErrValidation)
	}

	role := models.Role(strings.ToLower(strings.TrimPrefix(message, RoleCallbackPrefix)))
	if _, ok := Roles[role]; !ok {
		return "", fmt.Errorf("%w, unknown role %q", ErrValidation, role)
	}

	return role, nil
}

// ParseQuizCode валидирует код квиза: непустой, без пробелов и '/'
func ParseQuizCode(message string) (string, error) {
	code := strings.TrimSpace(message)
	if code == "" {
		return "", fmt.Errorf("%w, quiz code is empty", ErrValidation)
	}

	if len([]rune(code)) > maxQuizCodeLen {
		return "", fmt.Errorf("%w, quiz code is longer than %d", ErrValidation, maxQuizCodeLen)
	}

	for _, r := range code {
		if unicode.IsSpace(r) || r == '/' {
			return "", fmt.Errorf("%w, quiz code must not contain spaces or '/'", ErrValidation)
		}
	}

	return code, nil
}
