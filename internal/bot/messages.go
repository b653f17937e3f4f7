package bot

// Тексты меню
const (
	msgMenuAdmin   = `🛠 Админка`
	msgMenuTeacher = `👨‍🏫 Учитель`
	msgMenuStudent = `👨‍🎓 Ученик`
)

// Кнопки
const (
	btnStartQuiz   = `▶️ Пройти тест`
	btnViewResults = `📊 Результаты`
	btnCreateQuiz  = `➕ Создать`
	btnViewUsers   = `👥 Люди & Бан`
	btnSetRole     = `👮‍♂️ Сменить роль`
	btnOpenQuiz    = `🚀 ОТКРЫТЬ ТЕСТ`
)

const msgBanned = `⛔ БАН: %s`

const msgNeedStart = `Сначала отправьте /start.`

const msgUseMenu = `Выберите действие в меню.`

const msgCancelled = `Действие отменено.`

const msgNoAccess = `нет доступа`

const msgUnknownAction = `Неизвестное действие.`

const msgStaleButton = `Эта кнопка уже неактуальна.`

const msgInternalError = `Что-то пошло не так, попробуйте позже.`

// Смена роли
const (
	msgAskRoleTargetID = `Введите ID пользователя:`
	msgAskRole         = `Выберите роль (admin, teacher, student):`
	msgBadUserID       = `Нужно число (ID).`
	msgBadRole         = `Неизвестная роль. Выберите admin, teacher или student.`
	msgRoleChanged     = `✅ Роль %d изменена на %s`
)

// Пользователи и бан
const (
	msgUsersList      = "Пользователи:\n%s\n\nВведите ID для действий:"
	msgNoUsers        = `(пусто)`
	msgAskBanReason   = `Причина бана (или напишите 'reset' для сброса):`
	msgEmptyBanReason = `Причина не может быть пустой.`
	msgUserReset      = `♻️ Пользователь %d сброшен (разбанен, результаты удалены).`
	msgUserBanned     = `⛔ Пользователь %d забанен.`
)

// Создание квиза
const (
	msgAskQuizTitle   = `Название теста:`
	msgEmptyTitle     = `Название не может быть пустым.`
	msgAskQuizCode    = `Код теста (уникальный):`
	msgBadQuizCode    = `Код должен быть одним словом без пробелов и символа "/".`
	msgCodeTaken      = `Код %s уже занят, введите другой:`
	msgAskQuizBody    = `Отправьте вопросы списком (отметьте правильные через (v) или (+)). Можно прислать .txt файлом.`
	msgNoQuestions    = `Не удалось найти вопросы. Попробуйте еще раз.`
	msgBadQuestions   = `Вопросы составлены неверно: %s`
	msgBadDocument    = `Не удалось прочитать файл, пришлите текстовый .txt файл.`
	msgQuizCreated    = "✅ Тест создан! Код: %s\n\n%s"
	msgQuizShareLink  = "\n\nСсылка для учеников: %s"
	msgCorrectOptMark = ` ✅`
)

// Прохождение квиза
const (
	msgAskCodeToTake = `Введите код теста:`
	msgQuizNotFound  = `Нет такого теста.`
	msgAlreadyTaken  = `Вы уже проходили тест %s.`
	msgOpenQuiz      = "Тест: %s найден.\nНажмите кнопку, чтобы начать."
)

// Результаты
const (
	msgAskResultsCode = `Введите код теста, результаты которого нужно показать:`
	msgNoResults      = `По тесту %s пока нет результатов.`
	msgLeaderboard    = "Результаты теста %s:\n%s"
	msgResultNotice   = `%s: %d/%d — %s`
)
