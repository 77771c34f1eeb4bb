package port

import (
	"context"

	"github.com/MikeRez0/cashhealer/internal/core/domain"
)

//go:generate mockgen -source=repository.go -destination=mock/repository.go -package=mock
type Repository interface {
	// User
	UpsertUser(ctx context.Context, user *domain.User) (*domain.User, error)
	GetUserByTelegramID(ctx context.Context, telegramID string) (*domain.User, error)
	ListAdmins(ctx context.Context) ([]*domain.User, error)
	// GrantAdmin marks the given Telegram ids as admins, creating missing users.
	GrantAdmin(ctx context.Context, telegramIDs []string) error

	// Order
	// CreateOrderWithPayment stores the order and its payment atomically and leaves
	// the order in payment_pending. Nothing is stored when an error is returned.
	CreateOrderWithPayment(ctx context.Context,
		order *domain.Order, payment *domain.Payment) (*domain.Order, *domain.Payment, error)
	// ReadOrder loads the order together with its owning user.
	ReadOrder(ctx context.Context, orderID uint64) (*domain.Order, error)
	UpdateOrderStatus(ctx context.Context, orderID uint64, status domain.OrderStatus) (*domain.Order, error)
	ListOrdersByStatus(ctx context.Context, statuses []domain.OrderStatus) ([]*domain.Order, error)

	// Payment
	LatestPaymentByOrder(ctx context.Context, orderID uint64) (*domain.Payment, error)
	UpdatePaymentStatus(ctx context.Context, paymentID uint64, status domain.PaymentStatus) (*domain.Payment, error)

	// Financial model
	SaveFinancialModel(ctx context.Context, model *domain.FinancialModel) (*domain.FinancialModel, error)
}
