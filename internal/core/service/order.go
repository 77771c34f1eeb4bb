package service

import (
	"context"
	"fmt"

	"github.com/MikeRez0/cashhealer/internal/core/domain"
	"go.uber.org/zap"
)

// CreateOrder requests a payment first and only then stores order and payment
// in one transaction. A gateway payment left behind by a failed transaction is
// never charged, since the user never gets its link.
func (s *Service) CreateOrder(ctx context.Context, ev domain.Event, user *domain.User,
	serviceType domain.ServiceType) error {
	offer, err := s.catalog.Offer(serviceType)
	if err != nil {
		return err
	}
	log := s.logger.With(zap.String("service", string(serviceType)), zap.Uint64("user", user.ID))

	gp, err := s.payments.CreatePayment(ctx, offer.Price, offer.Description)
	if err != nil || gp == nil || gp.ID == "" || gp.PaymentURL == "" {
		log.Error("Create gateway payment", zap.Error(err))
		s.reply(ctx, ev.ChatID, msgPaymentCreateFailed)
		return domain.ErrPaymentGateway
	}
	log = log.With(zap.String("payment", gp.ID))

	order, payment, err := s.repo.CreateOrderWithPayment(ctx,
		&domain.Order{
			UserID:      user.ID,
			ServiceType: serviceType,
			Price:       offer.Price,
			FormURL:     offer.FormURL,
		},
		&domain.Payment{
			GatewayPaymentID: gp.ID,
			Amount:           offer.Price,
			Currency:         domain.CurrencyRUB,
			PaymentURL:       gp.PaymentURL,
		})
	if err != nil {
		log.Error("Create order with payment, gateway payment abandoned", zap.Error(err))
		s.reply(ctx, ev.ChatID, msgOrderCreateFailed)
		return domain.ErrOrderCreation
	}
	log.Info("Order created", zap.Uint64("order", order.ID), zap.Uint64("payment_row", payment.ID))

	return s.send(ctx, domain.OutgoingMessage{
		ChatID: ev.ChatID,
		Text: fmt.Sprintf(msgOrderCreated,
			order.ID, offer.Title, domain.FormatRubles(order.Price), payment.PaymentURL),
		Buttons: [][]domain.Button{{
			domain.CallbackButton(btnPaid, domain.PaymentCallbackData(order.ID, payment.GatewayPaymentID)),
		}},
	})
}
