package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/MikeRez0/cashhealer/internal/core/domain"
	"go.uber.org/zap"
)

const startCommand = "/start"

// UseAgent answers free text and unknown callbacks with the assistant.
// Without an assistant, or when it fails, the user gets the service menu.
func (s *Service) UseAgent(ctx context.Context, ev domain.Event) error {
	prompt := agentPrompt(ev)
	if s.agent == nil || prompt == "" || strings.HasPrefix(strings.TrimSpace(ev.Text), startCommand) {
		return s.SendWelcome(ctx, ev.ChatID)
	}

	answer, err := s.agent.Reply(ctx, ev.ThreadID(), prompt)
	if err != nil || strings.TrimSpace(answer) == "" {
		s.logger.Warn("Agent reply failed, sending menu",
			zap.String("thread", ev.ThreadID()), zap.Error(err))
		return s.SendWelcome(ctx, ev.ChatID)
	}
	return s.send(ctx, domain.OutgoingMessage{ChatID: ev.ChatID, Text: answer})
}

// SendWelcome shows the two paid services as order buttons.
func (s *Service) SendWelcome(ctx context.Context, chatID int64) error {
	detox, _ := s.catalog.Offer(domain.ServiceFinancialDetox)
	modeling, _ := s.catalog.Offer(domain.ServiceFinancialModeling)

	return s.send(ctx, domain.OutgoingMessage{
		ChatID: chatID,
		Text:   msgWelcome,
		Buttons: [][]domain.Button{
			{domain.CallbackButton(fmt.Sprintf(btnServiceItem, detox.Title, domain.FormatRubles(detox.Price)),
				domain.CallbackOrderDetox)},
			{domain.CallbackButton(fmt.Sprintf(btnServiceItem, modeling.Title, domain.FormatRubles(modeling.Price)),
				domain.CallbackOrderModeling)},
		},
	})
}

func agentPrompt(ev domain.Event) string {
	switch ev.Kind {
	case domain.EventMessage:
		if ev.Text == "" {
			return ""
		}
		return fmt.Sprintf(promptMessage,
			ev.Text, ev.ChatID, ev.UserID, ev.UserName, ev.FirstName, ev.LastName)
	case domain.EventCallback:
		if ev.CallbackData == "" {
			return ""
		}
		return fmt.Sprintf(promptCallback, ev.CallbackData, ev.ChatID, ev.UserID)
	default:
		return ""
	}
}
