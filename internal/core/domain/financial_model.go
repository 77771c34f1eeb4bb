package domain

import (
	"math"
	"time"

	"github.com/govalues/decimal"
)

type Expense struct {
	Name   string `json:"name"`
	Amount int64  `json:"amount"`
}

type Wish struct {
	Name     string `json:"name"`
	Price    int64  `json:"price"`
	Priority string `json:"priority,omitempty"`
}

// FinancialModel is a user's budget snapshot; amounts are whole rubles.
type FinancialModel struct {
	ID             uint64
	UserID         uint64
	OrderID        *uint64
	CurrentBalance int64
	NextIncome     int64
	NextIncomeDate string
	Expenses       []Expense
	Wishes         []Wish
	TotalExpenses  int64
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

type BudgetSnapshot struct {
	CurrentBalance  int64
	NextIncome      int64
	DaysUntilIncome int
	TotalExpenses   int64
	AfterExpenses   int64
	DailyBudget     decimal.Decimal
	Expenses        []Expense
	Wishes          []Wish
}

// Snapshot derives the figures the budget analysis works with.
func (m *FinancialModel) Snapshot(now time.Time) BudgetSnapshot {
	days := 1
	if income, ok := parseIncomeDate(m.NextIncomeDate); ok {
		if d := int(math.Ceil(income.Sub(now).Hours() / 24)); d > 1 {
			days = d
		}
	}

	after := m.CurrentBalance - m.TotalExpenses
	daily := decimal.Zero
	if after > 0 {
		left, err := decimal.New(after, 0)
		if err == nil {
			q, err := left.Quo(decimal.MustNew(int64(days), 0))
			if err == nil {
				daily = q.Round(2)
			}
		}
	}

	return BudgetSnapshot{
		CurrentBalance:  m.CurrentBalance,
		NextIncome:      m.NextIncome,
		DaysUntilIncome: days,
		TotalExpenses:   m.TotalExpenses,
		AfterExpenses:   after,
		DailyBudget:     daily,
		Expenses:        m.Expenses,
		Wishes:          m.Wishes,
	}
}

func parseIncomeDate(s string) (time.Time, bool) {
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range []string{time.RFC3339, "2006-01-02"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
