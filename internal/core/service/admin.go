package service

import (
	"context"
	"fmt"
	"html"
	"strings"

	"github.com/MikeRez0/cashhealer/internal/core/domain"
	"go.uber.org/zap"
)

const adminDateLayout = "02.01.2006 15:04"

// ShowAdminPanel lists paid orders still waiting for a report, oldest first.
func (s *Service) ShowAdminPanel(ctx context.Context, ev domain.Event) error {
	orders, err := s.repo.ListOrdersByStatus(ctx, domain.AwaitingReportStatuses)
	if err != nil {
		s.logger.Error("Admin panel: list orders", zap.Error(err))
		s.reply(ctx, ev.ChatID, msgAdminOrdersFailed)
		return domain.ErrInternal
	}
	if len(orders) == 0 {
		return s.send(ctx, domain.OutgoingMessage{ChatID: ev.ChatID, Text: msgAdminNoOrders})
	}

	rows := make([]string, 0, len(orders))
	for _, o := range orders {
		client := "—"
		if o.User != nil {
			client = o.User.DisplayName()
		}
		rows = append(rows, fmt.Sprintf(msgAdminPanelRow,
			o.ID,
			html.EscapeString(s.catalog.Title(o.ServiceType)),
			domain.FormatRubles(o.Price),
			html.EscapeString(client),
			o.CreatedAt.Format(adminDateLayout)))
	}

	return s.send(ctx, domain.OutgoingMessage{
		ChatID:    ev.ChatID,
		Text:      fmt.Sprintf(msgAdminPanel, len(orders), strings.Join(rows, "\n\n")),
		ParseMode: domain.ParseModeHTML,
	})
}

// alertAdmins is best effort: failures are logged and skipped.
func (s *Service) alertAdmins(ctx context.Context, text string) {
	admins, err := s.repo.ListAdmins(ctx)
	if err != nil {
		s.logger.Error("Alert admins: list admins", zap.Error(err))
		return
	}
	for _, admin := range admins {
		chatID, err := admin.ChatID()
		if err != nil {
			s.logger.Warn("Alert admins: bad chat", zap.String("telegram_id", admin.TelegramID))
			continue
		}
		s.reply(ctx, chatID, text)
	}
}
