package domain

import (
	"fmt"
	"time"
)

type ServiceType string

const (
	ServiceFinancialDetox    ServiceType = "financial_detox"
	ServiceFinancialModeling ServiceType = "financial_modeling"
)

func (s ServiceType) IsValid() bool {
	return s == ServiceFinancialDetox || s == ServiceFinancialModeling
}

type OrderStatus string

const (
	OrderStatusCreated          OrderStatus = "created"
	OrderStatusPaymentPending   OrderStatus = "payment_pending"
	OrderStatusPaymentConfirmed OrderStatus = "payment_confirmed"
	OrderStatusFormSent         OrderStatus = "form_sent"
	OrderStatusFormFilled       OrderStatus = "form_filled"
	OrderStatusProcessing       OrderStatus = "processing"
	OrderStatusCompleted        OrderStatus = "completed"
	OrderStatusCancelled        OrderStatus = "cancelled"
)

// orderTransitions lists the statuses reachable from each status.
// payment_confirmed -> payment_pending exists only as the compensation step
// of a failed payment confirmation.
var orderTransitions = map[OrderStatus][]OrderStatus{
	OrderStatusCreated:          {OrderStatusPaymentPending, OrderStatusCancelled},
	OrderStatusPaymentPending:   {OrderStatusPaymentConfirmed, OrderStatusCancelled},
	OrderStatusPaymentConfirmed: {OrderStatusFormSent, OrderStatusCompleted, OrderStatusPaymentPending},
	OrderStatusFormSent:         {OrderStatusFormFilled, OrderStatusProcessing, OrderStatusCompleted},
	OrderStatusFormFilled:       {OrderStatusProcessing, OrderStatusCompleted},
	OrderStatusProcessing:       {OrderStatusCompleted},
	OrderStatusCompleted:        {},
	OrderStatusCancelled:        {},
}

// AwaitingReportStatuses are the statuses of paid orders an admin still owes a report for.
var AwaitingReportStatuses = []OrderStatus{
	OrderStatusPaymentConfirmed,
	OrderStatusFormSent,
	OrderStatusFormFilled,
	OrderStatusProcessing,
}

func (s OrderStatus) String() string {
	return string(s)
}

func (s OrderStatus) IsValid() bool {
	_, ok := orderTransitions[s]
	return ok
}

func (s OrderStatus) IsTerminal() bool {
	return s.IsValid() && len(orderTransitions[s]) == 0
}

// CanTransition reports whether an order may move from s to next.
// Writing the current status again is accepted as a no-op.
func (s OrderStatus) CanTransition(next OrderStatus) error {
	if !s.IsValid() || !next.IsValid() {
		return fmt.Errorf("%w: %q -> %q", ErrInvalidStatus, s, next)
	}
	if s == next {
		return nil
	}
	for _, allowed := range orderTransitions[s] {
		if allowed == next {
			return nil
		}
	}
	return fmt.Errorf("%w: order %s -> %s", ErrInvalidTransition, s, next)
}

type Order struct {
	ID          uint64
	UserID      uint64
	ServiceType ServiceType
	Status      OrderStatus
	Price       int64
	FormURL     string
	Notes       string
	CreatedAt   time.Time
	UpdatedAt   time.Time
	CompletedAt *time.Time
	User        *User
}
