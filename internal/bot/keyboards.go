package bot

import (
	"fmt"
	"net/url"
	"strconv"

	"github.com/letsssgooo/quizwebapp/internal/auth"
	"github.com/letsssgooo/quizwebapp/internal/client"
	"github.com/letsssgooo/quizwebapp/internal/domain/models"
)

// Callback-данные кнопок меню
const (
	cbStartQuiz   = "start_quiz"
	cbViewResults = "view_results"
	cbCreateQuiz  = "create_quiz"
	cbViewUsers   = "view_users"
	cbSetRole     = "set_role"
)

// startQuizPayload - префикс параметра /start для перехода к квизу по ссылке.
const startQuizPayload = "quiz_"

func menuText(role models.Role) string {
	switch role {
	case models.RoleAdmin:
		return msgMenuAdmin
	case models.RoleTeacher:
		return msgMenuTeacher
	default:
		return msgMenuStudent
	}
}

// menuKeyboard возвращает меню, доступное роли.
func menuKeyboard(role models.Role) *client.InlineKeyboardMarkup {
	var rows [][]client.InlineKeyboardButton

	switch role {
	case models.RoleStudent:
		rows = append(rows, button(btnStartQuiz, cbStartQuiz))
	case models.RoleTeacher:
		rows = append(rows, button(btnViewResults, cbViewResults))
	case models.RoleAdmin:
		rows = append(rows,
			button(btnCreateQuiz, cbCreateQuiz),
			button(btnViewUsers, cbViewUsers),
			button(btnSetRole, cbSetRole),
			button(btnViewResults, cbViewResults),
		)
	}

	return &client.InlineKeyboardMarkup{InlineKeyboard: rows}
}

func roleKeyboard() *client.InlineKeyboardMarkup {
	return &client.InlineKeyboardMarkup{InlineKeyboard: [][]client.InlineKeyboardButton{
		button("Admin", auth.RoleCallbackPrefix+string(models.RoleAdmin)),
		button("Teacher", auth.RoleCallbackPrefix+string(models.RoleTeacher)),
		button("Student", auth.RoleCallbackPrefix+string(models.RoleStudent)),
	}}
}

func webAppKeyboard(link string) *client.InlineKeyboardMarkup {
	return &client.InlineKeyboardMarkup{InlineKeyboard: [][]client.InlineKeyboardButton{{
		{Text: btnOpenQuiz, WebApp: &client.WebAppInfo{URL: link}},
	}}}
}

func button(text, data string) []client.InlineKeyboardButton {
	return []client.InlineKeyboardButton{{Text: text, CallbackData: data}}
}

// quizLink формирует адрес страницы квиза в Web App.
func quizLink(webAppURL, code string, userID int64) string {
	return fmt.Sprintf("%s/quiz/%s?user_id=%s", webAppURL, url.PathEscape(code), strconv.FormatInt(userID, 10))
}

// shareLink формирует ссылку https://t.me/<botUsername>?start=quiz_<code>.
func shareLink(botUsername, code string) string {
	if botUsername == "" || !isPayloadSafe(code) {
		return ""
	}

	return fmt.Sprintf("https://t.me/%s?start=%s%s", botUsername, startQuizPayload, code)
}

// isPayloadSafe проверяет, что код допустим в параметре start (A-Z, a-z, 0-9, _ и -).
func isPayloadSafe(code string) bool {
	if len(startQuizPayload)+len(code) > 64 {
		return false
	}

	for _, r := range code {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '_', r == '-':
		default:
			return false
		}
	}

	return true
}
