package models

// Файл с моделями предметной области, которые доступны извне.
// Обработчики создают экземляры моделей, заполняют их данными и
// передают в соответсвующую функцию хранилища.

// Role определяет роль пользователя в боте.
type Role string

const (
	RoleStudent Role = "student"
	RoleTeacher Role = "teacher"
	RoleAdmin   Role = "admin"
)

// DefaultLang - язык, который присваивается новым пользователям.
const DefaultLang = "ru"

// User определяет модель для таблицы пользователей
type User struct {
	ID           int64
	Name         string
	Role         Role
	Lang         string
	Username     string
	TelegramName string
	IsBanned     bool
	BanReason    *string
}

// Question - вопрос квиза. Индекс Correct указывает на элемент Options.
type Question struct {
	Text    string   `json:"text"`
	Options []string `json:"options"`
	Correct int      `json:"correct"`
}

// Quiz определяет модель для таблицы квизов
type Quiz struct {
	Code      string
	Title     string
	CreatorID int64
	Questions []Question
	IsRandom  bool
}

// Result определяет модель для таблицы с результатами квизов
type Result struct {
	ID       int64
	UserID   int64
	QuizCode string
	Score    int
	Total    int
	Answers  []int
}

// LeaderboardEntry - запись в таблице результатов квиза.
type LeaderboardEntry struct {
	Name  string
	Score int
	Total int
}
