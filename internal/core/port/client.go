package port

import (
	"context"

	"github.com/MikeRez0/cashhealer/internal/core/domain"
)

//go:generate mockgen -source=client.go -destination=mock/client.go -package=mock
type PaymentGateway interface {
	CreatePayment(ctx context.Context, amount int64, description string) (*domain.GatewayPayment, error)
	CheckPayment(ctx context.Context, gatewayPaymentID string) (*domain.GatewayPayment, error)
}

type Messenger interface {
	SendMessage(ctx context.Context, msg domain.OutgoingMessage) (int, error)
	ForwardDocument(ctx context.Context, chatID int64, fileID string, caption string) (int, error)
	AnswerCallback(ctx context.Context, callbackID string) error
	EditMessage(ctx context.Context, chatID int64, messageID int, text string, buttons [][]domain.Button) error
}

type Agent interface {
	Reply(ctx context.Context, threadID string, prompt string) (string, error)
	AnalyzeBudget(ctx context.Context, snapshot domain.BudgetSnapshot) (string, error)
}
