package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/MikeRez0/cashhealer/internal/core/domain"
	"github.com/MikeRez0/cashhealer/internal/core/port"
	"go.uber.org/zap"
)

type Options struct {
	Catalog domain.Catalog
	// CalculatorURL is the public base URL serving the financial modeling mini-app.
	CalculatorURL string
	Now           func() time.Time
}

type Service struct {
	repo      port.Repository
	payments  port.PaymentGateway
	messenger port.Messenger
	agent     port.Agent
	batches   port.ReportBatchCache
	tokens    port.TokenService
	catalog   domain.Catalog
	calcURL   string
	now       func() time.Time
	logger    *zap.Logger
}

// NewService wires the order lifecycle. agent and tokens may be nil: the agent
// fallback then answers with the service menu and calculator links carry no token.
func NewService(repo port.Repository,
	payments port.PaymentGateway,
	messenger port.Messenger,
	agent port.Agent,
	batches port.ReportBatchCache,
	tokens port.TokenService,
	opts Options,
	logger *zap.Logger,
) (*Service, error) {
	if repo == nil || payments == nil || messenger == nil || batches == nil {
		return nil, errors.New("service: repository, payment gateway, messenger and batch cache are required")
	}
	for _, st := range []domain.ServiceType{domain.ServiceFinancialDetox, domain.ServiceFinancialModeling} {
		if _, err := opts.Catalog.Offer(st); err != nil {
			return nil, fmt.Errorf("service: catalog has no offer for %s: %w", st, err)
		}
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Service{
		repo:      repo,
		payments:  payments,
		messenger: messenger,
		agent:     agent,
		batches:   batches,
		tokens:    tokens,
		catalog:   opts.Catalog,
		calcURL:   opts.CalculatorURL,
		now:       now,
		logger:    logger,
	}, nil
}

// HandleEvent runs one inbound event through the pipeline:
// ensure user, route, execute the matching lifecycle step.
func (s *Service) HandleEvent(ctx context.Context, ev domain.Event) error {
	user, err := s.EnsureUser(ctx, ev)
	if err != nil {
		return err
	}
	ev.IsAdmin = user.IsAdmin

	decision := Route(ev)
	s.logger.Debug("Route event",
		zap.String("kind", string(ev.Kind)),
		zap.Int64("chat", ev.ChatID),
		zap.Bool("admin", ev.IsAdmin),
		zap.String("action", string(decision.Action)))

	switch decision.Action {
	case domain.ActionCreateOrderDetox:
		return s.CreateOrder(ctx, ev, user, domain.ServiceFinancialDetox)
	case domain.ActionCreateOrderModeling:
		return s.CreateOrder(ctx, ev, user, domain.ServiceFinancialModeling)
	case domain.ActionConfirmPayment:
		return s.ConfirmPayment(ctx, ev, decision.OrderID, decision.PaymentID)
	case domain.ActionShowAdminPanel:
		return s.ShowAdminPanel(ctx, ev)
	case domain.ActionProcessAdminDocument:
		return s.ProcessAdminDocument(ctx, ev)
	case domain.ActionRejectNonAdminDocument:
		return s.RejectNonAdminDocument(ctx, ev)
	default:
		return s.UseAgent(ctx, ev)
	}
}

// EnsureUser upserts the sender by Telegram id. The admin flag comes from the store.
func (s *Service) EnsureUser(ctx context.Context, ev domain.Event) (*domain.User, error) {
	user, err := s.repo.UpsertUser(ctx, &domain.User{
		TelegramID: ev.TelegramID(),
		Username:   ev.UserName,
		FirstName:  ev.FirstName,
		LastName:   ev.LastName,
	})
	if err != nil {
		s.logger.Error("Upsert user", zap.Int64("telegram_id", ev.UserID), zap.Error(err))
		return nil, domain.ErrInternal
	}
	return user, nil
}

func (s *Service) send(ctx context.Context, msg domain.OutgoingMessage) error {
	_, err := s.messenger.SendMessage(ctx, msg)
	if err != nil {
		s.logger.Error("Send message", zap.Int64("chat", msg.ChatID), zap.Error(err))
		return domain.ErrMessenger
	}
	return nil
}

// reply sends plain text; delivery errors are logged only.
func (s *Service) reply(ctx context.Context, chatID int64, text string) {
	_ = s.send(ctx, domain.OutgoingMessage{ChatID: chatID, Text: text})
}
