package openai

import (
	"fmt"
	"strings"

	"github.com/MikeRez0/cashhealer/internal/core/domain"
)

const systemPrompt = `Ты ассистент Telegram-бота Cash Healer, сервиса финансового коучинга.
Бот продает две услуги: «Финансовый детокс» (разбор финансов по анкете с отчетом от специалиста)
и «Финансовое моделирование» (интерактивный калькулятор бюджета с рекомендациями).
Отвечай кратко и дружелюбно на русском языке. Помогай выбрать услугу и объясняй, как она устроена.
Не обещай скидок и не принимай оплату в чате: заказ оформляется кнопками в меню бота (/start).`

var priorityMarks = map[string]string{
	"high":   "🔴 Высокий",
	"medium": "🟡 Средний",
	"low":    "🟢 Низкий",
}

func budgetPrompt(s domain.BudgetSnapshot) string {
	var b strings.Builder
	b.WriteString("Ты финансовый консультант для студентов. Проанализируй финансовую ситуацию и дай персонализированные рекомендации.\n\n")
	b.WriteString("Текущая ситуация:\n")
	fmt.Fprintf(&b, "- Текущий баланс: %d ₽\n", s.CurrentBalance)
	fmt.Fprintf(&b, "- Дней до следующего дохода: %d\n", s.DaysUntilIncome)
	fmt.Fprintf(&b, "- Следующий доход: %d ₽\n", s.NextIncome)
	fmt.Fprintf(&b, "- Всего запланированных расходов: %d ₽\n", s.TotalExpenses)
	fmt.Fprintf(&b, "- Остаток после расходов: %d ₽\n", s.AfterExpenses)
	fmt.Fprintf(&b, "- Средний дневной бюджет: %s ₽\n", s.DailyBudget.String())

	if len(s.Expenses) > 0 {
		items := make([]string, 0, len(s.Expenses))
		for _, e := range s.Expenses {
			items = append(items, fmt.Sprintf("%s: %d ₽", e.Name, e.Amount))
		}
		fmt.Fprintf(&b, "\nКатегории расходов: %s\n", strings.Join(items, ", "))
	}
	if len(s.Wishes) > 0 {
		items := make([]string, 0, len(s.Wishes))
		for _, w := range s.Wishes {
			item := fmt.Sprintf("%s: %d ₽", w.Name, w.Price)
			if mark, ok := priorityMarks[w.Priority]; ok {
				item += " (" + mark + ")"
			}
			items = append(items, item)
		}
		fmt.Fprintf(&b, "\nЖелаемые покупки (с приоритетами): %s\n", strings.Join(items, ", "))
	}

	b.WriteString(`
ОБЯЗАТЕЛЬНО проанализируй желания (если есть):
- Цель: максимально быстро реализовать желания с учетом приоритетов
- Если что-то можно купить сейчас, предложи это
- Для недоступных желаний рассчитай, сколько месяцев нужно копить
- Каждое желание покупается один раз
- Учитывай приоритеты: 🔴 Высокий > 🟡 Средний > 🟢 Низкий

Конкретные советы:
- Проверь, хватит ли денег до следующего дохода
- Если нужно, предложи 2-3 конкретных способа сэкономить
- Предложи размер подушки безопасности`)
	if s.AfterExpenses < 0 {
		b.WriteString("\n- ⚠️ КРИТИЧНО: баланс в минусе! Какие расходы сократить сейчас?")
	}
	b.WriteString(`

Формат: markdown (### заголовки, ** для важного, - для списков), конкретные цифры,
дружеский профессиональный стиль, эмодзи 💰 🎯 ⚠️ ✅ 📊. Не обрывай текст на полуслове.`)
	return b.String()
}
