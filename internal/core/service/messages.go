package service

const (
	msgPaymentCreateFailed = "❌ Не удалось создать платёж. Попробуйте позже."
	msgOrderCreateFailed   = "❌ Не удалось создать заказ. Попробуйте позже."
	msgOrderCreated        = "💳 Заказ №%d создан!\n\nУслуга: %s\nСумма: %s₽\n\n👉 Оплатите:\n%s"
	btnPaid                = "✅ Я оплатил"

	msgOrderNotFound      = "❌ Заказ не найден."
	msgPaymentNotFound    = "❌ Платёж для заказа не найден."
	msgPaymentMismatch    = "❌ Неверный платёж для этого заказа."
	msgPaymentAlreadyDone = "✅ Этот платёж уже был подтверждён ранее."
	msgPaymentCheckFailed = "❌ Не удалось проверить оплату. Попробуйте позже."
	msgPaymentNotPaid     = "❌ Оплата ещё не подтверждена."
	msgTechnicalError     = "❌ Произошла техническая ошибка. Попробуйте позже."
	msgPaymentRetry       = "❌ Не удалось обработать платёж. Попробуйте оплатить снова или свяжитесь с поддержкой."
	msgPaymentStuck       = "❌ Произошла критическая ошибка. СРОЧНО свяжитесь с поддержкой (код: PAYMENT_STUCK)."
	msgPaymentStuckAlert  = "🚨 PAYMENT_STUCK\n\nЗаказ #%d: платёж %s оплачен, но статус не сохранён, откат заказа не удался.\nТребуется ручная проверка."
	msgFormTechnical      = "⚠️ Оплата получена, но произошла ошибка при отправке формы. Свяжитесь с поддержкой."
	msgFormLink           = "✅ Оплата получена!\n\n📝 Заполните опрос:\n%s\n\nПосле заполнения исполнитель подготовит отчет."
	msgCalculatorReady    = "✅ Оплата получена!\n\n💰 Финансовое моделирование доступно!\n\n📊 Создайте интерактивную модель:\n• Добавьте категории расходов\n• Укажите желаемые покупки\n• Экспериментируйте со сценариями\n• Получите персональный AI-анализ\n\nНажмите кнопку ниже, чтобы открыть калькулятор:"
	btnOpenCalculator     = "🚀 Открыть калькулятор"

	msgAdminOrdersFailed = "❌ Не удалось получить список заявок."
	msgAdminNoOrders     = "📋 Нет заявок, требующих обработки."
	msgAdminPanel        = "👨‍💼 <b>АДМИН-ПАНЕЛЬ</b>\n\nЗаявки на обработку (%d):\n\n%s\n\n━━━━━━━━━━━━━━━━━━\n📤 <b>Как отправить отчет:</b>\n1. Загрузите PDF/Excel файл\n2. В подписи укажите: <code>/send {номер заказа}</code>\n\nПример: <code>/send 3</code>"
	msgAdminPanelRow     = "#%d • %s • %s₽\n👤 %s\n📅 %s"

	msgSendUsage         = "❌ Неверный формат команды.\n\nИспользуйте: /send {номер_заказа}\n\nПример: /send 123"
	msgReportOrderMissed = "❌ Заказ #%d не найден."
	msgReportBadClient   = "❌ Некорректный Telegram ID клиента для заказа #%d."
	msgReportForwardFail = "❌ Ошибка при отправке файла клиенту по заказу #%d."
	msgReportCaption     = "📊 Отчет по заказу #%d\n\n%s\n\nВаш отчет готов!"
	msgReportSent        = "✅ Отчет отправлен\n\nЗаказ #%d\nКлиент ID: %d\nФайл: %s\nСтатус: %s"
	statusDone           = "Завершен"
	statusNotUpdated     = "не обновлен, проверьте заказ"

	msgDocumentRejected = "❌ Загрузка файлов доступна только администраторам.\n\nЕсли у вас есть вопросы, напишите их текстом."

	msgWelcome     = "👋 Добро пожаловать в Cash Healer!\n\nЯ помогу навести порядок в личных финансах. Выберите услугу:"
	btnServiceItem = "%s — %s₽"

	promptMessage  = "Пользователь написал: %q\n\nKONTEXT: chatId=%d, userId=%d, userName=%s, firstName=%s, lastName=%s"
	promptCallback = "Пользователь нажал: %s\n\nKONTEXT: chatId=%d, userId=%d"
)
