package port

import (
	"context"

	"github.com/MikeRez0/cashhealer/internal/core/domain"
)

// ReportBatchCache remembers which order an admin is uploading report files for.
//
//go:generate mockgen -source=service.go -destination=mock/service.go -package=mock
type ReportBatchCache interface {
	Remember(adminID int64, orderID uint64)
	Lookup(adminID int64) (uint64, bool)
}

type EventHandler interface {
	HandleEvent(ctx context.Context, event domain.Event) error
}

type EventScheduler interface {
	ScheduleEvent(ctx context.Context, event domain.Event) error
}

type Service interface {
	EventHandler
	SaveFinancialModel(ctx context.Context, telegramID string, model *domain.FinancialModel) (string, error)
}
