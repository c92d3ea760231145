package handler

// User-facing texts.
const (
	ErrorText   = "⚠️ Произошла ошибка, попробуйте позже."
	BlockedText = "⚠️ Вы заблокированы."
	UnknownText = "Неизвестная команда. Используйте /start"

	welcomeText = "🎮 Добро пожаловать! Выберите игру:\n" +
		"/quiz — Викторина (+5 за правильный ответ)\n" +
		"/guess — Угадай число (до 10 очков)\n" +
		"/rating — Ваш рейтинг и топ-10"

	adminHelpText = "Команды админа:\n" +
		"/toggle_quiz — вкл/выкл викторину\n" +
		"/toggle_guess — вкл/выкл угадай число\n" +
		"/block @username причина — заблокировать\n" +
		"/unblock @username — разблокировать\n" +
		"/blocked — список заблокированных\n" +
		"/user_stats @username — статистика игрока\n" +
		"/stats — общая статистика"

	blockUsageText     = "Используйте: /block @username причина"
	unblockUsageText   = "Используйте: /unblock @username"
	userStatsUsageText = "Используйте: /user_stats @username"

	blockNotFoundFmt     = "Пользователь @%s не найден в базе. Он должен хотя бы один раз написать боту."
	unblockNotFoundFmt   = "Пользователь @%s не найден."
	userStatsNotFoundFmt = "Пользователь @%s не найден или не играл."

	blockedAdminFmt    = "✅ Пользователь @%s заблокирован.\nПричина: %s"
	blockedNoticeFmt   = "⚠️ Вы были заблокированы в боте.\nПричина: %s"
	unblockedAdminFmt  = "✅ Пользователь @%s разблокирован."
	unblockedNoticeTxt = "✅ Вы были разблокированы в боте."

	noBlockedText = "Нет заблокированных пользователей."
	emptyTopText  = "— пока пусто —"

	unavailableFmt = "❌ %s временно недоступна."
)

// startKeyboard is the reply keyboard attached to the welcome message.
var startKeyboard = [][]string{
	{"/quiz", "/guess"},
	{"/rating"},
}
