package service

import (
	"github.com/MikeRez0/cashhealer/internal/core/domain"
)

// Route classifies an inbound event. It trusts ev.IsAdmin, which is decided
// once from the persisted user before routing.
func Route(ev domain.Event) domain.Decision {
	if ev.Kind == domain.EventDocument && ev.FileID != "" {
		if ev.IsAdmin {
			return domain.Decision{Action: domain.ActionProcessAdminDocument}
		}
		return domain.Decision{Action: domain.ActionRejectNonAdminDocument}
	}

	if ev.IsAdmin && ev.Kind == domain.EventMessage && ev.Text == domain.AdminPanelCommand {
		return domain.Decision{Action: domain.ActionShowAdminPanel}
	}

	if ev.Kind == domain.EventCallback && ev.CallbackData != "" {
		switch ev.CallbackData {
		case domain.CallbackOrderDetox:
			return domain.Decision{Action: domain.ActionCreateOrderDetox}
		case domain.CallbackOrderModeling:
			return domain.Decision{Action: domain.ActionCreateOrderModeling}
		}
		if orderID, paymentID, ok := domain.ParsePaymentCallback(ev.CallbackData); ok {
			return domain.Decision{
				Action:    domain.ActionConfirmPayment,
				OrderID:   orderID,
				PaymentID: paymentID,
			}
		}
	}

	return domain.Decision{Action: domain.ActionUseAgent}
}
