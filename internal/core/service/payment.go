package service

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strconv"

	"github.com/MikeRez0/cashhealer/internal/core/domain"
	"github.com/MikeRez0/cashhealer/internal/core/port"
	"go.uber.org/zap"
)

// ConfirmPayment handles the "I paid" click. Everything before the payment
// succeeded write fails closed; everything after it fails open.
func (s *Service) ConfirmPayment(ctx context.Context, ev domain.Event, orderID uint64, paymentID string) error {
	log := s.logger.With(zap.Uint64("order", orderID), zap.String("payment", paymentID))

	order, err := s.repo.ReadOrder(ctx, orderID)
	if err != nil {
		if !errors.Is(err, domain.ErrDataNotFound) {
			log.Error("Confirm: order lookup", zap.Error(err))
			s.reply(ctx, ev.ChatID, msgTechnicalError)
			return fmt.Errorf("%w: read order: %w", domain.ErrInternal, err)
		}
		log.Info("Confirm: order lookup", zap.Error(err))
		s.reply(ctx, ev.ChatID, msgOrderNotFound)
		return domain.ErrOrderNotFound
	}

	payment, err := s.repo.LatestPaymentByOrder(ctx, orderID)
	if err != nil && !errors.Is(err, domain.ErrDataNotFound) {
		log.Error("Confirm: payment lookup", zap.Error(err))
		s.reply(ctx, ev.ChatID, msgTechnicalError)
		return fmt.Errorf("%w: read payment: %w", domain.ErrInternal, err)
	}
	if err != nil || payment.GatewayPaymentID == "" {
		log.Info("Confirm: payment lookup", zap.Error(err))
		s.reply(ctx, ev.ChatID, msgPaymentNotFound)
		return domain.ErrPaymentNotFound
	}

	if payment.GatewayPaymentID != paymentID {
		log.Warn("Confirm: payment does not belong to order",
			zap.String("expected", payment.GatewayPaymentID))
		s.reply(ctx, ev.ChatID, msgPaymentMismatch)
		return domain.ErrPaymentMismatch
	}

	if payment.Status == domain.PaymentStatusSucceeded {
		log.Info("Confirm: repeated click")
		s.reply(ctx, ev.ChatID, msgPaymentAlreadyDone)
		return domain.ErrPaymentAlreadyConfirmed
	}

	live, err := s.payments.CheckPayment(ctx, paymentID)
	if err != nil {
		log.Error("Confirm: check gateway payment", zap.Error(err))
		s.reply(ctx, ev.ChatID, msgPaymentCheckFailed)
		return domain.ErrPaymentGateway
	}
	if !live.Paid {
		log.Info("Confirm: not paid yet", zap.String("status", string(live.Status)))
		s.reply(ctx, ev.ChatID, msgPaymentNotPaid)
		return domain.ErrPaymentNotPaid
	}

	if _, err = s.repo.UpdateOrderStatus(ctx, orderID, domain.OrderStatusPaymentConfirmed); err != nil {
		log.Error("Confirm: order status write", zap.Error(err))
		s.reply(ctx, ev.ChatID, msgTechnicalError)
		return domain.ErrInternal
	}

	if _, err = s.repo.UpdatePaymentStatus(ctx, payment.ID, domain.PaymentStatusSucceeded); err != nil {
		return s.compensateConfirm(ctx, ev, order, paymentID, err)
	}
	log.Info("Payment confirmed")

	if order.ServiceType == domain.ServiceFinancialModeling {
		s.deliverCalculator(ctx, ev, order)
		return nil
	}
	return s.deliverForm(ctx, ev, order)
}

// compensateConfirm rolls the order back to payment_pending after a failed
// payment write, so the user can click again without a paid-but-pending pair.
func (s *Service) compensateConfirm(ctx context.Context, ev domain.Event, order *domain.Order,
	paymentID string, cause error) error {
	log := s.logger.With(zap.Uint64("order", order.ID), zap.String("payment", paymentID))

	if errors.Is(cause, domain.ErrPaymentAlreadySucceeded) {
		log.Info("Confirm: payment already succeeded by a concurrent click")
		s.reply(ctx, ev.ChatID, msgPaymentAlreadyDone)
		return domain.ErrPaymentAlreadyConfirmed
	}
	log.Error("Confirm: payment status write", zap.Error(cause))

	if _, err := s.repo.UpdateOrderStatus(ctx, order.ID, domain.OrderStatusPaymentPending); err != nil {
		log.Error("PAYMENT_STUCK: order rollback failed", zap.Error(err))
		s.reply(ctx, ev.ChatID, msgPaymentStuck)
		s.alertAdmins(ctx, fmt.Sprintf(msgPaymentStuckAlert, order.ID, paymentID))
		return domain.ErrPaymentStuck
	}

	log.Warn("Confirm: order rolled back to payment_pending")
	s.reply(ctx, ev.ChatID, msgPaymentRetry)
	return domain.ErrPaymentRolledBack
}

func (s *Service) deliverForm(ctx context.Context, ev domain.Event, order *domain.Order) error {
	if _, err := s.repo.UpdateOrderStatus(ctx, order.ID, domain.OrderStatusFormSent); err != nil {
		s.logger.Error("Detox: form_sent status write",
			zap.Uint64("order", order.ID), zap.Error(err))
		s.reply(ctx, ev.ChatID, msgFormTechnical)
		return nil
	}

	formURL := order.FormURL
	if formURL == "" {
		if offer, err := s.catalog.Offer(order.ServiceType); err == nil {
			formURL = offer.FormURL
		}
	}
	return s.send(ctx, domain.OutgoingMessage{
		ChatID: ev.ChatID,
		Text:   fmt.Sprintf(msgFormLink, formURL),
	})
}

func (s *Service) deliverCalculator(ctx context.Context, ev domain.Event, order *domain.Order) {
	link := s.CalculatorLink(ev.TelegramID(), order.ID)
	if err := s.send(ctx, domain.OutgoingMessage{
		ChatID:  ev.ChatID,
		Text:    msgCalculatorReady,
		Buttons: [][]domain.Button{{domain.WebAppButton(btnOpenCalculator, link)}},
	}); err != nil {
		s.logger.Warn("Modeling: calculator link not delivered", zap.Uint64("order", order.ID))
	}

	if _, err := s.repo.UpdateOrderStatus(ctx, order.ID, domain.OrderStatusCompleted); err != nil {
		s.logger.Error("Modeling: completed status write",
			zap.Uint64("order", order.ID), zap.Error(err))
	}
}

// CalculatorLink builds the mini-app URL. The v parameter busts client caches.
func (s *Service) CalculatorLink(telegramID string, orderID uint64) string {
	q := url.Values{}
	q.Set("userId", telegramID)
	q.Set("orderId", strconv.FormatUint(orderID, 10))
	q.Set("v", strconv.FormatInt(s.now().UnixMilli(), 10))

	if s.tokens != nil {
		token, err := s.tokens.CreateToken(port.TokenPayload{TelegramID: telegramID, OrderID: orderID})
		if err != nil {
			s.logger.Warn("Calculator token", zap.Uint64("order", orderID), zap.Error(err))
		} else {
			q.Set("token", token)
		}
	}
	return s.calcURL + "/financial-modeling.html?" + q.Encode()
}
