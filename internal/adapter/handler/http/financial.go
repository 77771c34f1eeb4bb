package http

import (
	"math"

	"github.com/MikeRez0/cashhealer/internal/core/domain"
	"github.com/MikeRez0/cashhealer/internal/core/port"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type FinancialHandler struct {
	Handler
	service port.Service
}

func NewFinancialHandler(service port.Service, logger *zap.Logger) (*FinancialHandler, error) {
	return &FinancialHandler{
		Handler: *NewHandler(logger),
		service: service,
	}, nil
}

type expenseRequest struct {
	Name   string  `json:"name"`
	Amount float64 `json:"amount"`
}

type wishRequest struct {
	Name     string  `json:"name"`
	Price    float64 `json:"price"`
	Priority string  `json:"priority"`
}

type financialModelRequest struct {
	UserID         string           `json:"userId"`
	CurrentBalance float64          `json:"currentBalance"`
	NextIncome     float64          `json:"nextIncome"`
	NextIncomeDate string           `json:"nextIncomeDate"`
	Expenses       []expenseRequest `json:"expenses"`
	Wishes         []wishRequest    `json:"wishes"`
	TotalExpenses  float64          `json:"totalExpenses"`
}

type analysisResponse struct {
	Success  bool   `json:"success"`
	Analysis string `json:"analysis"`
}

// Save stores the calculator state for the token's user and order and
// returns the budget analysis.
func (fh *FinancialHandler) Save(ctx *gin.Context) {
	req := financialModelRequest{}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		fh.handleValidationError(ctx, err)
		return
	}

	payload := getAuthPayload(ctx)
	if req.UserID != "" && req.UserID != payload.TelegramID {
		fh.handleError(ctx, domain.ErrForbidden)
		return
	}

	model := req.toDomain()
	if payload.OrderID != 0 {
		orderID := payload.OrderID
		model.OrderID = &orderID
	}

	fh.logger.Info("Financial model received",
		zap.String("telegram_id", payload.TelegramID),
		zap.Uint64("order", payload.OrderID),
		zap.Int("expenses", len(model.Expenses)),
		zap.Int("wishes", len(model.Wishes)))

	analysis, err := fh.service.SaveFinancialModel(ctx.Request.Context(), payload.TelegramID, model)
	if err != nil {
		fh.handleError(ctx, err)
		return
	}
	fh.handleSuccess(ctx, analysisResponse{Success: true, Analysis: analysis})
}

func (r financialModelRequest) toDomain() *domain.FinancialModel {
	m := &domain.FinancialModel{
		CurrentBalance: rubles(r.CurrentBalance),
		NextIncome:     rubles(r.NextIncome),
		NextIncomeDate: r.NextIncomeDate,
		TotalExpenses:  rubles(r.TotalExpenses),
		Expenses:       make([]domain.Expense, 0, len(r.Expenses)),
		Wishes:         make([]domain.Wish, 0, len(r.Wishes)),
	}
	for _, e := range r.Expenses {
		m.Expenses = append(m.Expenses, domain.Expense{Name: e.Name, Amount: rubles(e.Amount)})
	}
	for _, w := range r.Wishes {
		m.Wishes = append(m.Wishes, domain.Wish{Name: w.Name, Price: rubles(w.Price), Priority: w.Priority})
	}
	return m
}

func rubles(v float64) int64 {
	return int64(math.Round(v))
}
