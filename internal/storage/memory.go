package storage

import (
	"context"
	"sort"
	"sync"

	"github.com/letsssgooo/quizwebapp/internal/domain/models"
)

var _ Repository = (*MemoryStorage)(nil)

// MemoryStorage реализует Repository в памяти.
type MemoryStorage struct {
	users        map[int64]models.User
	quizzes      map[string]models.Quiz
	results      []models.Result
	lastResultID int64
	mu           sync.RWMutex
}

// NewMemoryStorage создаёт новый MemoryStorage.
func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{
		users:   make(map[int64]models.User),
		quizzes: make(map[string]models.Quiz),
	}
}

// UpsertUser создает пользователя или обновляет его данные, сохраняя роль и бан.
func (s *MemoryStorage) UpsertUser(_ context.Context, user models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, ok := s.users[user.ID]
	if !ok {
		if user.Role == "" {
			user.Role = models.RoleStudent
		}

		if user.Lang == "" {
			user.Lang = models.DefaultLang
		}

		user.IsBanned = false
		user.BanReason = nil
		s.users[user.ID] = user

		return nil
	}

	existing.Name = user.Name
	existing.Lang = user.Lang
	existing.Username = user.Username
	existing.TelegramName = user.TelegramName
	s.users[user.ID] = existing

	return nil
}

// GetUser возвращает пользователя по ID.
func (s *MemoryStorage) GetUser(_ context.Context, id int64) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	user, ok := s.users[id]
	if !ok {
		return nil, ErrNotFound
	}

	return &user, nil
}

// ListUsers возвращает всех пользователей.
func (s *MemoryStorage) ListUsers(_ context.Context) ([]models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	users := make([]models.User, 0, len(s.users))
	for _, user := range s.users {
		users = append(users, user)
	}

	sort.Slice(users, func(i, j int) bool {
		return users[i].ID < users[j].ID
	})

	return users, nil
}

// SetRole меняет роль пользователя. Несуществующий пользователь игнорируется.
func (s *MemoryStorage) SetRole(_ context.Context, id int64, role models.Role) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if user, ok := s.users[id]; ok {
		user.Role = role
		s.users[id] = user
	}

	return nil
}

// BanUser банит пользователя.
func (s *MemoryStorage) BanUser(_ context.Context, id int64, reason string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if user, ok := s.users[id]; ok {
		user.IsBanned = true
		user.BanReason = &reason
		s.users[id] = user
	}

	return nil
}

// ResetUser снимает бан и удаляет результаты пользователя.
func (s *MemoryStorage) ResetUser(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if user, ok := s.users[id]; ok {
		user.IsBanned = false
		user.BanReason = nil
		s.users[id] = user
	}

	kept := s.results[:0]
	for _, result := range s.results {
		if result.UserID != id {
			kept = append(kept, result)
		}
	}
	s.results = kept

	return nil
}

// CreateQuiz сохраняет квиз.
func (s *MemoryStorage) CreateQuiz(_ context.Context, quiz models.Quiz) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.quizzes[quiz.Code]; ok {
		return ErrDuplicateCode
	}

	s.quizzes[quiz.Code] = cloneQuiz(quiz)

	return nil
}

// GetQuiz возвращает квиз по коду.
func (s *MemoryStorage) GetQuiz(_ context.Context, code string) (*models.Quiz, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	quiz, ok := s.quizzes[code]
	if !ok {
		return nil, ErrNotFound
	}

	quiz = cloneQuiz(quiz)

	return &quiz, nil
}

// SaveResult сохраняет результат.
func (s *MemoryStorage) SaveResult(_ context.Context, result models.Result) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.lastResultID++
	result.ID = s.lastResultID
	s.results = append(s.results, cloneResult(result))

	return result.ID, nil
}

// HasTaken проверяет, проходил ли пользователь квиз.
func (s *MemoryStorage) HasTaken(_ context.Context, userID int64, code string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, result := range s.results {
		if result.UserID == userID && result.QuizCode == code {
			return true, nil
		}
	}

	return false, nil
}

// GetLeaderboard возвращает результаты квиза, лучшие сверху.
func (s *MemoryStorage) GetLeaderboard(_ context.Context, code string) ([]models.LeaderboardEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	matched := make([]models.Result, 0)
	for _, result := range s.results {
		if _, ok := s.users[result.UserID]; ok && result.QuizCode == code {
			matched = append(matched, result)
		}
	}

	sort.SliceStable(matched, func(i, j int) bool {
		if matched[i].Score != matched[j].Score {
			return matched[i].Score > matched[j].Score
		}

		return matched[i].ID < matched[j].ID
	})

	entries := make([]models.LeaderboardEntry, 0, len(matched))
	for _, result := range matched {
		entries = append(entries, models.LeaderboardEntry{
			Name:  s.users[result.UserID].Name,
			Score: result.Score,
			Total: result.Total,
		})
	}

	return entries, nil
}

// ListResultsFor возвращает результаты пользователя.
func (s *MemoryStorage) ListResultsFor(_ context.Context, userID int64) ([]models.Result, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	results := make([]models.Result, 0)
	for _, result := range s.results {
		if result.UserID == userID {
			results = append(results, cloneResult(result))
		}
	}

	return results, nil
}

// cloneQuiz копирует вопросы, чтобы вызывающий код не менял хранилище.
func cloneQuiz(quiz models.Quiz) models.Quiz {
	questions := make([]models.Question, 0, len(quiz.Questions))
	for _, q := range quiz.Questions {
		q.Options = append([]string(nil), q.Options...)
		questions = append(questions, q)
	}

	quiz.Questions = questions

	return quiz
}

func cloneResult(result models.Result) models.Result {
	result.Answers = append([]int(nil), result.Answers...)

	return result
}
