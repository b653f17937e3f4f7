package bot

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/letsssgooo/quizwebapp/internal/auth"
	"github.com/letsssgooo/quizwebapp/internal/client"
	"github.com/letsssgooo/quizwebapp/internal/domain/models"
	"github.com/letsssgooo/quizwebapp/internal/events/fetcher"
	"github.com/letsssgooo/quizwebapp/internal/events/sender"
	"github.com/letsssgooo/quizwebapp/internal/session"
	"github.com/letsssgooo/quizwebapp/internal/storage"
)

// pollTimeout - время ожидания long polling в секундах.
const pollTimeout = 30

// Options содержит необязательные параметры бота.
type Options struct {
	// BotUsername - username бота без @ (например, "my_quiz_bot").
	// Используется для формирования ссылок: https://t.me/<BotUsername>?start=quiz_<code>
	BotUsername string

	// WebAppURL - адрес, по которому открывается страница квиза.
	WebAppURL string

	Logger *slog.Logger
}

// Bot реализует Telegram бота для квизов.
type Bot struct {
	client      client.Client
	sender      sender.Sender
	repo        storage.Repository
	tracker     *session.Tracker
	access      auth.Access
	botUsername string
	webAppURL   string
	log         *slog.Logger
	steps       map[session.State]stepFunc
}

// NewBot создаёт нового бота.
func NewBot(
	client client.Client,
	repo storage.Repository,
	tracker *session.Tracker,
	access auth.Access,
	opts Options,
) *Bot {
	log := opts.Logger
	if log == nil {
		log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	b := &Bot{
		client:      client,
		sender:      sender.NewSender(client),
		repo:        repo,
		tracker:     tracker,
		access:      access,
		botUsername: strings.TrimPrefix(opts.BotUsername, "@"),
		webAppURL:   strings.TrimRight(opts.WebAppURL, "/"),
		log:         log,
	}
	b.steps = b.transitions()

	return b
}

// Run запускает бота (long polling) и блокируется до отмены ctx.
func (b *Bot) Run(ctx context.Context) error {
	b.log.Info("bot started", slog.String("mode", "polling"))

	return fetcher.Listen(ctx, fetcher.NewTelegramFetcher(b.client), pollTimeout, b.HandleUpdate, b.log)
}

// HandleUpdate обрабатывает одно обновление.
func (b *Bot) HandleUpdate(ctx context.Context, update client.Update) error {
	log := b.log.With(
		slog.Int("update_id", update.UpdateID),
		slog.String("trace_id", uuid.NewString()),
	)

	switch {
	case update.Message != nil && update.Message.From != nil:
		log = log.With(slog.Int64("user_id", update.Message.From.ID))

		return b.handleMessage(ctx, log, update.Message)
	case update.CallbackQuery != nil && update.CallbackQuery.From != nil:
		log = log.With(slog.Int64("user_id", update.CallbackQuery.From.ID))

		return b.handleCallback(ctx, log, update.CallbackQuery)
	}

	log.Debug("update skipped")

	return nil
}

func (b *Bot) handleMessage(ctx context.Context, log *slog.Logger, msg *client.Message) error {
	from := msg.From

	chatID := from.ID
	if msg.Chat != nil {
		chatID = msg.Chat.ID
	}

	unlock := b.tracker.Lock(from.ID)
	defer unlock()

	user, err := b.loadUser(ctx, from.ID)
	if err != nil {
		return b.fail(chatID, err)
	}

	command, payload := parseCommand(msg.Text)
	if command == "/start" {
		return b.start(ctx, log, from, chatID, user, payload)
	}

	if user == nil {
		return b.reply(chatID, msgNeedStart, nil)
	}

	if user.IsBanned {
		return b.banNotice(chatID, user)
	}

	if command == "/cancel" {
		if err = b.tracker.Finish(ctx, user.ID); err != nil {
			return b.fail(chatID, err)
		}

		log.Info("workflow cancelled")

		return b.reply(chatID, msgCancelled, menuKeyboard(user.Role))
	}

	sess, err := b.tracker.Get(ctx, user.ID)
	if err != nil {
		return b.fail(chatID, err)
	}

	if sess.IsIdle() {
		return b.reply(chatID, msgUseMenu, menuKeyboard(user.Role))
	}

	req := &request{
		user:     user,
		chatID:   chatID,
		text:     strings.TrimSpace(msg.Text),
		document: msg.Document,
		log:      log,
	}

	return b.runStep(ctx, req, sess, nil)
}

func (b *Bot) handleCallback(ctx context.Context, log *slog.Logger, cb *client.CallbackQuery) error {
	from := cb.From

	chatID := from.ID
	if cb.Message != nil && cb.Message.Chat != nil {
		chatID = cb.Message.Chat.ID
	}

	unlock := b.tracker.Lock(from.ID)
	defer unlock()

	user, err := b.loadUser(ctx, from.ID)
	if err != nil {
		b.answer(log, cb.ID, "")

		return b.fail(chatID, err)
	}

	var notice string

	switch {
	case user == nil:
		notice = msgNeedStart
	case user.IsBanned:
		notice = fmt.Sprintf(msgBanned, banReason(user))
	case strings.HasPrefix(cb.Data, auth.RoleCallbackPrefix):
		notice, err = b.roleCallback(ctx, &request{user: user, chatID: chatID, text: cb.Data, log: log}, cb.Message)
	default:
		notice, err = b.startWorkflow(ctx, &request{user: user, chatID: chatID, log: log}, cb.Data)
	}

	b.answer(log, cb.ID, notice)

	return err
}

// start регистрирует пользователя и показывает меню его роли.
func (b *Bot) start(
	ctx context.Context,
	log *slog.Logger,
	from *client.User,
	chatID int64,
	user *models.User,
	payload string,
) error {
	if user != nil && user.IsBanned {
		return b.banNotice(chatID, user)
	}

	profile := models.User{
		ID:           from.ID,
		Name:         displayName(from),
		Role:         models.RoleStudent,
		Lang:         userLang(from),
		Username:     from.Username,
		TelegramName: from.FullName(),
	}

	isAdmin := b.access.IsConfiguredAdmin(from.ID)
	if isAdmin {
		profile.Role = models.RoleAdmin
	}

	if err := b.repo.UpsertUser(ctx, profile); err != nil {
		return b.fail(chatID, err)
	}

	if isAdmin && user != nil && user.Role != models.RoleAdmin {
		if err := b.repo.SetRole(ctx, from.ID, models.RoleAdmin); err != nil {
			return b.fail(chatID, err)
		}
	}

	if user == nil {
		log.Info("user registered", slog.String("role", string(profile.Role)))
	}

	user, err := b.loadUser(ctx, from.ID)
	if err != nil {
		return b.fail(chatID, err)
	}

	if user == nil {
		return b.fail(chatID, fmt.Errorf("user %d missing after upsert: %w", from.ID, storage.ErrNotFound))
	}

	if code, ok := strings.CutPrefix(payload, startQuizPayload); ok && code != "" {
		sess, err := b.tracker.Begin(ctx, user.ID, session.StateAwaitingQuizCodeToTake)
		if err != nil {
			return b.fail(chatID, err)
		}

		return b.runStep(ctx, &request{user: user, chatID: chatID, text: code, log: log}, sess, nil)
	}

	if err = b.tracker.Finish(ctx, user.ID); err != nil {
		return b.fail(chatID, err)
	}

	return b.reply(chatID, menuText(user.Role), menuKeyboard(user.Role))
}

// startWorkflow запускает сценарий по кнопке меню, заменяя текущий.
// Возвращает текст уведомления для ответа на callback.
func (b *Bot) startWorkflow(ctx context.Context, req *request, action string) (string, error) {
	var (
		state   session.State
		allowed bool
		prompt  string
	)

	switch action {
	case cbStartQuiz:
		state, allowed, prompt = session.StateAwaitingQuizCodeToTake, true, msgAskCodeToTake
	case cbViewResults:
		state, allowed, prompt = session.StateAwaitingResultsCode, b.access.CanViewResults(req.user), msgAskResultsCode
	case cbCreateQuiz:
		state, allowed, prompt = session.StateAwaitingQuizTitle, b.access.CanManage(req.user), msgAskQuizTitle
	case cbSetRole:
		state, allowed, prompt = session.StateAwaitingRoleTargetID, b.access.CanManage(req.user), msgAskRoleTargetID
	case cbViewUsers:
		state, allowed = session.StateAwaitingBanTargetID, b.access.CanManage(req.user)
	default:
		return msgUnknownAction, nil
	}

	if !allowed {
		req.log.Warn("access denied", slog.String("action", action))

		return msgNoAccess, nil
	}

	if action == cbViewUsers {
		users, err := b.repo.ListUsers(ctx)
		if err != nil {
			return "", b.fail(req.chatID, err)
		}

		prompt = fmt.Sprintf(msgUsersList, formatUsers(users))
	}

	if _, err := b.tracker.Begin(ctx, req.user.ID, state); err != nil {
		return "", b.fail(req.chatID, err)
	}

	req.log.Info("workflow started", slog.String("state", string(state)))

	return "", b.reply(req.chatID, prompt, nil)
}

// roleCallback обрабатывает нажатие кнопки выбора роли.
func (b *Bot) roleCallback(ctx context.Context, req *request, msg *client.Message) (string, error) {
	if !b.access.CanManage(req.user) {
		return msgNoAccess, nil
	}

	sess, err := b.tracker.Get(ctx, req.user.ID)
	if err != nil {
		return "", b.fail(req.chatID, err)
	}

	if sess.State != session.StateAwaitingRoleChoice {
		return msgStaleButton, nil
	}

	return "", b.runStep(ctx, req, sess, msg)
}

// NotifyResult сообщает автору квиза о новом результате.
func (b *Bot) NotifyResult(ctx context.Context, quiz models.Quiz, result models.Result) error {
	if quiz.CreatorID == 0 || quiz.CreatorID == result.UserID {
		return nil
	}

	name := strconv.FormatInt(result.UserID, 10)

	user, err := b.loadUser(ctx, result.UserID)
	if err != nil {
		return err
	}

	if user != nil && user.Name != "" {
		name = user.Name
	}

	text := fmt.Sprintf(msgResultNotice, name, result.Score, result.Total, quiz.Title)
	if _, err = b.sender.Message(quiz.CreatorID, text, nil); err != nil {
		return fmt.Errorf("failed to notify creator of %s: %w", quiz.Code, err)
	}

	return nil
}

func (b *Bot) loadUser(ctx context.Context, id int64) (*models.User, error) {
	user, err := b.repo.GetUser(ctx, id)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, nil
	}

	if err != nil {
		return nil, err
	}

	return user, nil
}

func (b *Bot) reply(chatID int64, text string, markup *client.InlineKeyboardMarkup) error {
	var opts *client.SendOptions
	if markup != nil {
		opts = &client.SendOptions{ReplyMarkup: markup}
	}

	if _, err := b.sender.Message(chatID, text, opts); err != nil {
		return fmt.Errorf("failed to send message to %d: %w", chatID, err)
	}

	return nil
}

func (b *Bot) answer(log *slog.Logger, callbackID, text string) {
	if err := b.sender.Answer(callbackID, text); err != nil {
		log.Warn("failed to answer callback", slog.String("error", err.Error()))
	}
}

func (b *Bot) banNotice(chatID int64, user *models.User) error {
	return b.reply(chatID, fmt.Sprintf(msgBanned, banReason(user)), nil)
}

// fail сообщает пользователю о внутренней ошибке и возвращает исходную ошибку.
func (b *Bot) fail(chatID int64, err error) error {
	if _, sendErr := b.sender.Message(chatID, msgInternalError, nil); sendErr != nil {
		return errors.Join(err, sendErr)
	}

	return err
}

// parseCommand отделяет команду (/start, /cancel) от ее параметра.
// Суффикс @username у команды отбрасывается.
func parseCommand(text string) (command, payload string) {
	text = strings.TrimSpace(text)
	if !strings.HasPrefix(text, "/") {
		return "", ""
	}

	command, payload, _ = strings.Cut(text, " ")
	command, _, _ = strings.Cut(command, "@")

	return strings.ToLower(command), strings.TrimSpace(payload)
}

func displayName(u *client.User) string {
	if name := u.FullName(); name != "" {
		return name
	}

	if u.Username != "" {
		return u.Username
	}

	return strconv.FormatInt(u.ID, 10)
}

func userLang(u *client.User) string {
	if u.LanguageCode == "" {
		return models.DefaultLang
	}

	return u.LanguageCode
}

func banReason(user *models.User) string {
	if user.BanReason == nil {
		return ""
	}

	return *user.BanReason
}
