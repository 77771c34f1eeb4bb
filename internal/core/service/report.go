package service

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/MikeRez0/cashhealer/internal/core/domain"
	"go.uber.org/zap"
)

var sendCommand = regexp.MustCompile(`(?i)/send\s+(\d+)`)

// parseSendCommand returns the order id named by a /send caption.
func parseSendCommand(caption string) (uint64, bool) {
	m := sendCommand.FindStringSubmatch(caption)
	if m == nil {
		return 0, false
	}
	id, err := strconv.ParseUint(m[1], 10, 64)
	if err != nil {
		return 0, false
	}
	return id, true
}

// ProcessAdminDocument forwards an admin's report file to the order's client.
// Only the file carrying the /send command completes the order; the rest of
// the batch reuses the cached order id and is forwarded silently.
func (s *Service) ProcessAdminDocument(ctx context.Context, ev domain.Event) error {
	log := s.logger.With(zap.Int64("admin", ev.UserID), zap.String("file", ev.FileName))

	orderID, isCommand := parseSendCommand(ev.Caption)
	switch {
	case isCommand:
		if prev, ok := s.batches.Lookup(ev.UserID); ok && prev != orderID {
			log.Warn("Report batch replaced", zap.Uint64("previous", prev), zap.Uint64("order", orderID))
		}
		s.batches.Remember(ev.UserID, orderID)
	case strings.TrimSpace(ev.Caption) == "":
		cached, ok := s.batches.Lookup(ev.UserID)
		if !ok {
			s.reply(ctx, ev.ChatID, msgSendUsage)
			return domain.ErrBadSendCommand
		}
		orderID = cached
	default:
		s.reply(ctx, ev.ChatID, msgSendUsage)
		return domain.ErrBadSendCommand
	}
	log = log.With(zap.Uint64("order", orderID))

	order, err := s.repo.ReadOrder(ctx, orderID)
	if err != nil && !errors.Is(err, domain.ErrDataNotFound) {
		log.Error("Report: order lookup", zap.Error(err))
		s.reply(ctx, ev.ChatID, msgTechnicalError)
		return fmt.Errorf("%w: read order: %w", domain.ErrInternal, err)
	}
	if err != nil {
		log.Info("Report: order lookup", zap.Error(err))
		s.reply(ctx, ev.ChatID, fmt.Sprintf(msgReportOrderMissed, orderID))
		return domain.ErrOrderNotFound
	}

	chatID, err := clientChat(order)
	if err != nil {
		log.Warn("Report: client chat", zap.Error(err))
		s.reply(ctx, ev.ChatID, fmt.Sprintf(msgReportBadClient, orderID))
		return domain.ErrBadClientChat
	}

	caption := fmt.Sprintf(msgReportCaption, order.ID, s.catalog.Title(order.ServiceType))
	if _, err = s.messenger.ForwardDocument(ctx, chatID, ev.FileID, caption); err != nil {
		log.Error("Report: forward document", zap.Error(err))
		s.reply(ctx, ev.ChatID, fmt.Sprintf(msgReportForwardFail, orderID))
		return domain.ErrMessenger
	}
	log.Info("Report file forwarded", zap.Bool("first", isCommand))

	if !isCommand {
		return nil
	}

	status := statusDone
	if _, err = s.repo.UpdateOrderStatus(ctx, order.ID, domain.OrderStatusCompleted); err != nil {
		log.Error("Report: completed status write", zap.Error(err))
		status = statusNotUpdated
	}
	fileName := ev.FileName
	if fileName == "" {
		fileName = ev.FileID
	}
	return s.send(ctx, domain.OutgoingMessage{
		ChatID: ev.ChatID,
		Text:   fmt.Sprintf(msgReportSent, order.ID, chatID, fileName, status),
	})
}

// clientChat resolves the client's chat from the owner loaded with the order.
func clientChat(order *domain.Order) (int64, error) {
	if order.User == nil {
		return 0, domain.ErrBadClientChat
	}
	return order.User.ChatID()
}

func (s *Service) RejectNonAdminDocument(ctx context.Context, ev domain.Event) error {
	s.logger.Info("Document from non-admin rejected", zap.Int64("user", ev.UserID))
	return s.send(ctx, domain.OutgoingMessage{ChatID: ev.ChatID, Text: msgDocumentRejected})
}
