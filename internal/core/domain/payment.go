package domain

import (
	"fmt"
	"time"
)

const CurrencyRUB = "RUB"

type PaymentStatus string

const (
	PaymentStatusPending           PaymentStatus = "pending"
	PaymentStatusWaitingForCapture PaymentStatus = "waiting_for_capture"
	PaymentStatusSucceeded         PaymentStatus = "succeeded"
	PaymentStatusCanceled          PaymentStatus = "canceled"
)

var paymentTransitions = map[PaymentStatus][]PaymentStatus{
	PaymentStatusPending:           {PaymentStatusWaitingForCapture, PaymentStatusSucceeded, PaymentStatusCanceled},
	PaymentStatusWaitingForCapture: {PaymentStatusSucceeded, PaymentStatusCanceled},
	PaymentStatusSucceeded:         {},
	PaymentStatusCanceled:          {},
}

func (s PaymentStatus) String() string {
	return string(s)
}

func (s PaymentStatus) IsValid() bool {
	_, ok := paymentTransitions[s]
	return ok
}

// CanTransition reports whether a payment may move from s to next.
// A succeeded payment is the replay-protection key, so succeeded -> succeeded
// is rejected instead of being treated as a no-op.
func (s PaymentStatus) CanTransition(next PaymentStatus) error {
	if !s.IsValid() || !next.IsValid() {
		return fmt.Errorf("%w: %q -> %q", ErrInvalidStatus, s, next)
	}
	if s == PaymentStatusSucceeded && next == PaymentStatusSucceeded {
		return ErrPaymentAlreadySucceeded
	}
	if s == next {
		return nil
	}
	for _, allowed := range paymentTransitions[s] {
		if allowed == next {
			return nil
		}
	}
	return fmt.Errorf("%w: payment %s -> %s", ErrInvalidTransition, s, next)
}

type Payment struct {
	ID               uint64
	OrderID          uint64
	GatewayPaymentID string
	Amount           int64
	Currency         string
	Status           PaymentStatus
	PaymentURL       string
	CreatedAt        time.Time
	UpdatedAt        time.Time
	PaidAt           *time.Time
}

// GatewayPayment is the payment as reported by the payment provider.
type GatewayPayment struct {
	ID         string
	PaymentURL string
	Status     PaymentStatus
	Paid       bool
	Amount     int64
}
