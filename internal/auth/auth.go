package auth

import "github.com/letsssgooo/quizwebapp/internal/domain/models"

// Roles - допустимые роли пользователей.
var Roles = map[models.Role]struct{}{
	models.RoleAdmin:   {},
	models.RoleTeacher: {},
	models.RoleStudent: {},
}

// BotAuth реализует Access для единственного администратора из конфигурации.
type BotAuth struct {
	adminID int64
}

func NewBotAuth(adminID int64) *BotAuth {
	return &BotAuth{adminID: adminID}
}

func (q *BotAuth) IsConfiguredAdmin(telegramID int64) bool {
	return q.adminID != 0 && telegramID == q.adminID
}

func (q *BotAuth) CanManage(user *models.User) bool {
	return user != nil && user.Role == models.RoleAdmin
}

func (q *BotAuth) CanViewResults(user *models.User) bool {
	return user != nil && (user.Role == models.RoleAdmin || user.Role == models.RoleTeacher)
}
