package service

import (
	"context"
	"errors"

	"github.com/MikeRez0/cashhealer/internal/core/domain"
	"go.uber.org/zap"
)

// SaveFinancialModel stores the calculator state of a user and returns the
// assistant's budget analysis for it.
func (s *Service) SaveFinancialModel(ctx context.Context, telegramID string,
	model *domain.FinancialModel) (string, error) {
	if telegramID == "" || model == nil {
		return "", domain.ErrBadRequest
	}
	log := s.logger.With(zap.String("telegram_id", telegramID))

	user, err := s.repo.GetUserByTelegramID(ctx, telegramID)
	if errors.Is(err, domain.ErrDataNotFound) {
		user, err = s.repo.UpsertUser(ctx, &domain.User{
			TelegramID: telegramID,
			Username:   "user" + telegramID,
			FirstName:  "User",
		})
	}
	if err != nil {
		log.Error("Financial model: resolve user", zap.Error(err))
		return "", domain.ErrInternal
	}

	if model.TotalExpenses == 0 {
		for _, e := range model.Expenses {
			model.TotalExpenses += e.Amount
		}
	}
	model.UserID = user.ID

	saved, err := s.repo.SaveFinancialModel(ctx, model)
	if err != nil {
		log.Error("Financial model: save", zap.Error(err))
		return "", domain.ErrInternal
	}
	log.Info("Financial model saved", zap.Uint64("model", saved.ID))

	if s.agent == nil {
		return "", domain.ErrAgent
	}
	analysis, err := s.agent.AnalyzeBudget(ctx, saved.Snapshot(s.now()))
	if err != nil {
		log.Error("Financial model: analysis", zap.Error(err))
		return "", domain.ErrAgent
	}
	return analysis, nil
}
