package render

const (
	MsgWelcome = `👋 Привет! Я отвечаю на вопросы по документам вашей организации.

Просто напишите вопрос. Я помню последние сообщения, поэтому можно уточнять.
/reset — начать новый диалог`

	MsgHelp = `🤖 Команды бота:

/start - Приветствие
/reset - Забыть историю диалога
/help - Показать эту справку

Любое другое сообщение считается вопросом.`

	MsgHistoryReset = "🔄 Начинаем заново. Задайте вопрос."
	MsgTextOnly     = "✍️ Я понимаю только текстовые вопросы."
	MsgUnknownCmd   = "❌ Неизвестная команда. Используйте /help"

	// Inline buttons and callback answers
	BtnNewDialog          = "🔄 Новый диалог"
	CallbackInvalidData   = "❌ Неверные данные"
	CallbackUnknownAction = "❌ Неизвестное действие"

	// Errors
	ErrSearchFailed = "❌ Не удалось выполнить поиск. Попробуйте ещё раз позже."
	ErrGeneric      = "❌ Произошла ошибка. Попробуйте ещё раз или нажмите /start"
)

// RateLimitWarning escalates with every warning sent to the same user.
func RateLimitWarning(count int) string {
	switch {
	case count <= 1:
		return "⚠️ Слишком много запросов. Пожалуйста, подождите немного."
	case count == 2:
		return "⚠️ Превышен лимит запросов. Подождите ~30 секунд перед следующей попыткой."
	default:
		return "🛑 Вы отправляете запросы слишком часто. Пожалуйста, подождите минуту."
	}
}
