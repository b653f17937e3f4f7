package bot

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/letsssgooo/quizwebapp/internal/auth"
	"github.com/letsssgooo/quizwebapp/internal/client"
	"github.com/letsssgooo/quizwebapp/internal/domain/models"
	"github.com/letsssgooo/quizwebapp/internal/quiz"
	"github.com/letsssgooo/quizwebapp/internal/session"
	"github.com/letsssgooo/quizwebapp/internal/storage"
)

// maxDocumentSize - максимальный размер файла с вопросами.
const maxDocumentSize = 1 << 20

// maxUsersListLen - лимит длины списка пользователей в символах.
const maxUsersListLen = 4000

// resetKeyword вместо причины бана сбрасывает пользователя.
const resetKeyword = "reset"

// request - входные данные одного шага сценария.
type request struct {
	user     *models.User
	chatID   int64
	text     string
	document *client.Document
	log      *slog.Logger
}

type stepKind int

const (
	// stepStay - ввод не принят, шаг остается прежним.
	stepStay stepKind = iota
	// stepAdvance - переход на шаг next.
	stepAdvance
	// stepDone - сценарий завершен, пользователь возвращается в Idle.
	stepDone
)

func (k stepKind) String() string {
	switch k {
	case stepStay:
		return "stay"
	case stepAdvance:
		return "advance"
	default:
		return "done"
	}
}

// attachment - файл, который отправляется после ответа.
type attachment struct {
	name string
	data []byte
}

// step - результат шага сценария.
type step struct {
	kind     stepKind
	next     session.State
	reply    string
	markup    *client.InlineKeyboardMarkup
	documents []attachment
}

func stay(reply string) step {
	return step{kind: stepStay, reply: reply}
}

func advance(next session.State, reply string) step {
	return step{kind: stepAdvance, next: next, reply: reply}
}

func done(reply string) step {
	return step{kind: stepDone, reply: reply}
}

// stepFunc обрабатывает ввод пользователя на одном шаге. Изменения сессии
// сохраняются только при stepAdvance.
type stepFunc func(ctx context.Context, req *request, s *session.Session) (step, error)

func (b *Bot) transitions() map[session.State]stepFunc {
	return map[session.State]stepFunc{
		session.StateAwaitingRoleTargetID:   b.stepRoleTargetID,
		session.StateAwaitingRoleChoice:     b.stepRoleChoice,
		session.StateAwaitingBanTargetID:    b.stepBanTargetID,
		session.StateAwaitingBanReason:      b.stepBanReason,
		session.StateAwaitingQuizTitle:      b.stepQuizTitle,
		session.StateAwaitingQuizCode:       b.stepQuizCode,
		session.StateAwaitingQuizBody:       b.stepQuizBody,
		session.StateAwaitingQuizCodeToTake: b.stepQuizCodeToTake,
		session.StateAwaitingResultsCode:    b.stepResultsCode,
	}
}

// runStep выполняет шаг текущего сценария. Если edit не nil, ответ заменяет
// текст этого сообщения вместо отправки нового.
func (b *Bot) runStep(ctx context.Context, req *request, s *session.Session, edit *client.Message) error {
	from := s.State

	fn, ok := b.steps[from]
	if !ok || !b.canContinue(req.user, from) {
		req.log.Warn("workflow dropped", slog.String("state", string(from)))

		if err := b.tracker.Finish(ctx, req.user.ID); err != nil {
			return b.fail(req.chatID, err)
		}

		return b.reply(req.chatID, msgNoAccess, menuKeyboard(req.user.Role))
	}

	result, err := fn(ctx, req, s)
	if err != nil {
		return b.fail(req.chatID, err)
	}

	switch result.kind {
	case stepAdvance:
		err = b.tracker.Advance(ctx, s, result.next)
	case stepDone:
		err = b.tracker.Finish(ctx, req.user.ID)
	}

	if err != nil {
		return b.fail(req.chatID, err)
	}

	req.log.Info("workflow step",
		slog.String("state", string(from)),
		slog.String("outcome", result.kind.String()),
		slog.String("next", string(result.next)),
	)

	var opts *client.SendOptions
	if result.markup != nil {
		opts = &client.SendOptions{ReplyMarkup: result.markup}
	}

	if edit != nil {
		err = b.sender.Edit(req.chatID, edit.MessageID, result.reply, opts)
	} else {
		_, err = b.sender.Message(req.chatID, result.reply, opts)
	}

	if err != nil {
		return fmt.Errorf("failed to send reply to %d: %w", req.chatID, err)
	}

	for _, doc := range result.documents {
		if err = b.sender.Document(req.chatID, doc.name, doc.data); err != nil {
			return fmt.Errorf("failed to send %s to %d: %w", doc.name, req.chatID, err)
		}
	}

	return nil
}

// canContinue проверяет, что у пользователя все еще есть права на сценарий.
func (b *Bot) canContinue(user *models.User, state session.State) bool {
	switch state {
	case session.StateAwaitingQuizCodeToTake:
		return true
	case session.StateAwaitingResultsCode:
		return b.access.CanViewResults(user)
	default:
		return b.access.CanManage(user)
	}
}

func (b *Bot) stepRoleTargetID(_ context.Context, req *request, s *session.Session) (step, error) {
	id, err := auth.ParseUserID(req.text)
	if err != nil {
		return stay(msgBadUserID), nil
	}

	s.Role.TargetID = id

	result := advance(session.StateAwaitingRoleChoice, msgAskRole)
	result.markup = roleKeyboard()

	return result, nil
}

func (b *Bot) stepRoleChoice(ctx context.Context, req *request, s *session.Session) (step, error) {
	role, err := auth.ParseRole(req.text)
	if err != nil {
		result := stay(msgBadRole)
		result.markup = roleKeyboard()

		return result, nil
	}

	if err = b.repo.SetRole(ctx, s.Role.TargetID, role); err != nil {
		return step{}, err
	}

	return done(fmt.Sprintf(msgRoleChanged, s.Role.TargetID, role)), nil
}

func (b *Bot) stepBanTargetID(_ context.Context, req *request, s *session.Session) (step, error) {
	id, err := auth.ParseUserID(req.text)
	if err != nil {
		return stay(msgBadUserID), nil
	}

	s.Ban.TargetID = id

	return advance(session.StateAwaitingBanReason, msgAskBanReason), nil
}

func (b *Bot) stepBanReason(ctx context.Context, req *request, s *session.Session) (step, error) {
	reason := strings.TrimSpace(req.text)
	if reason == "" {
		return stay(msgEmptyBanReason), nil
	}

	target := s.Ban.TargetID

	if strings.ToLower(reason) == resetKeyword {
		if err := b.repo.ResetUser(ctx, target); err != nil {
			return step{}, err
		}

		return done(fmt.Sprintf(msgUserReset, target)), nil
	}

	if err := b.repo.BanUser(ctx, target, reason); err != nil {
		return step{}, err
	}

	if _, err := b.sender.Message(target, fmt.Sprintf(msgBanned, reason), nil); err != nil {
		req.log.Warn("failed to notify banned user",
			slog.Int64("target_id", target),
			slog.String("error", err.Error()),
		)
	}

	return done(fmt.Sprintf(msgUserBanned, target)), nil
}

func (b *Bot) stepQuizTitle(_ context.Context, req *request, s *session.Session) (step, error) {
	if req.text == "" {
		return stay(msgEmptyTitle), nil
	}

	s.Draft.Title = req.text

	return advance(session.StateAwaitingQuizCode, msgAskQuizCode), nil
}

func (b *Bot) stepQuizCode(ctx context.Context, req *request, s *session.Session) (step, error) {
	code, err := auth.ParseQuizCode(req.text)
	if err != nil {
		return stay(msgBadQuizCode), nil
	}

	_, err = b.repo.GetQuiz(ctx, code)
	switch {
	case err == nil:
		return stay(fmt.Sprintf(msgCodeTaken, code)), nil
	case !errors.Is(err, storage.ErrNotFound):
		return step{}, err
	}

	s.Draft.Code = code

	if len(s.Draft.Questions) > 0 {
		return b.createQuiz(ctx, req, s)
	}

	return advance(session.StateAwaitingQuizBody, msgAskQuizBody), nil
}

func (b *Bot) stepQuizBody(ctx context.Context, req *request, s *session.Session) (step, error) {
	text := req.text

	if req.document != nil {
		body, err := b.documentText(req.document)
		if err != nil {
			req.log.Warn("failed to read quiz document", slog.String("error", err.Error()))

			return stay(msgBadDocument), nil
		}

		text = body
	}

	questions, err := quiz.ParseQuestions(text)
	if errors.Is(err, quiz.ErrNoQuestionsFound) {
		return stay(msgNoQuestions), nil
	}

	if err != nil {
		return step{}, err
	}

	if err = quiz.ValidateQuestions(questions); err != nil {
		return stay(fmt.Sprintf(msgBadQuestions, err)), nil
	}

	s.Draft.Questions = questions

	return b.createQuiz(ctx, req, s)
}

// createQuiz сохраняет черновик. Если код успели занять, разобранные вопросы
// остаются в черновике, а пользователя просят ввести другой код.
func (b *Bot) createQuiz(ctx context.Context, req *request, s *session.Session) (step, error) {
	draft := s.Draft

	q := models.Quiz{
		Code:      draft.Code,
		Title:     draft.Title,
		CreatorID: req.user.ID,
		Questions: draft.Questions,
		IsRandom:  false,
	}

	err := b.repo.CreateQuiz(ctx, q)
	if errors.Is(err, storage.ErrDuplicateCode) {
		draft.Code = ""

		return advance(session.StateAwaitingQuizCode, fmt.Sprintf(msgCodeTaken, q.Code)), nil
	}

	if err != nil {
		return step{}, err
	}

	req.log.Info("quiz created",
		slog.String("code", q.Code),
		slog.Int("questions", len(q.Questions)),
	)

	reply := fmt.Sprintf(msgQuizCreated, q.Code, previewQuestions(q.Questions))
	if link := shareLink(b.botUsername, q.Code); link != "" {
		reply += fmt.Sprintf(msgQuizShareLink, link)
	}

	return done(reply), nil
}

func (b *Bot) stepQuizCodeToTake(ctx context.Context, req *request, s *session.Session) (step, error) {
	code, err := auth.ParseQuizCode(req.text)
	if err != nil {
		return stay(msgBadQuizCode), nil
	}

	q, err := b.repo.GetQuiz(ctx, code)
	if errors.Is(err, storage.ErrNotFound) {
		return stay(msgQuizNotFound), nil
	}

	if err != nil {
		return step{}, err
	}

	taken, err := b.repo.HasTaken(ctx, s.UserID, code)
	if err != nil {
		return step{}, err
	}

	if taken {
		return done(fmt.Sprintf(msgAlreadyTaken, q.Title)), nil
	}

	result := done(fmt.Sprintf(msgOpenQuiz, q.Title))
	result.markup = webAppKeyboard(quizLink(b.webAppURL, code, s.UserID))

	return result, nil
}

func (b *Bot) stepResultsCode(ctx context.Context, req *request, _ *session.Session) (step, error) {
	code, err := auth.ParseQuizCode(req.text)
	if err != nil {
		return stay(msgBadQuizCode), nil
	}

	q, err := b.repo.GetQuiz(ctx, code)
	if errors.Is(err, storage.ErrNotFound) {
		return stay(msgQuizNotFound), nil
	}

	if err != nil {
		return step{}, err
	}

	entries, err := b.repo.GetLeaderboard(ctx, code)
	if err != nil {
		return step{}, err
	}

	if len(entries) == 0 {
		return done(fmt.Sprintf(msgNoResults, q.Title)), nil
	}

	xlsx, err := quiz.ExportXLSX(entries)
	if err != nil {
		return step{}, err
	}

	csv, err := quiz.ExportCSV(entries)
	if err != nil {
		return step{}, err
	}

	result := done(fmt.Sprintf(msgLeaderboard, q.Title, formatLeaderboard(entries)))
	result.documents = []attachment{
		{name: "results_" + code + ".xlsx", data: xlsx},
		{name: "results_" + code + ".csv", data: csv},
	}

	return result, nil
}

// documentText скачивает текстовый документ с вопросами.
func (b *Bot) documentText(doc *client.Document) (string, error) {
	if doc.FileSize > maxDocumentSize {
		return "", fmt.Errorf("document %s is too large: %d bytes", doc.FileName, doc.FileSize)
	}

	path, err := b.client.GetFile(doc.FileID)
	if err != nil {
		return "", err
	}

	data, err := b.client.DownloadFile(path)
	if err != nil {
		return "", err
	}

	if !utf8.Valid(data) {
		return "", fmt.Errorf("document %s is not utf-8 text", doc.FileName)
	}

	return string(data), nil
}

// previewQuestions показывает вопросы с отмеченным правильным вариантом.
func previewQuestions(questions []models.Question) string {
	var sb strings.Builder

	for i, q := range questions {
		if i > 0 {
			sb.WriteString("\n\n")
		}

		fmt.Fprintf(&sb, "%d. %s", i+1, q.Text)

		for j, option := range q.Options {
			letter := quiz.IndexToLetter(j)
			if letter == "" {
				letter = strconv.Itoa(j + 1)
			}

			fmt.Fprintf(&sb, "\n%s) %s", letter, option)

			if j == q.Correct {
				sb.WriteString(msgCorrectOptMark)
			}
		}
	}

	return sb.String()
}

func formatLeaderboard(entries []models.LeaderboardEntry) string {
	var sb strings.Builder

	for i, e := range entries {
		if i > 0 {
			sb.WriteByte('\n')
		}

		fmt.Fprintf(&sb, "%d. %s — %d/%d", i+1, e.Name, e.Score, e.Total)
	}

	return sb.String()
}

// formatUsers формирует список пользователей не длиннее maxUsersListLen символов.
func formatUsers(users []models.User) string {
	if len(users) == 0 {
		return msgNoUsers
	}

	lines := make([]string, 0, len(users))
	for _, u := range users {
		lines = append(lines, fmt.Sprintf("%d | %s | %s | Ban:%t", u.ID, u.Name, u.Role, u.IsBanned))
	}

	text := strings.Join(lines, "\n")
	if utf8.RuneCountInString(text) > maxUsersListLen {
		text = string([]rune(text)[:maxUsersListLen])
	}

	return text
}
