package domain

import (
	"strconv"
	"strings"
)

type EventKind string

const (
	EventMessage  EventKind = "message"
	EventCallback EventKind = "callback_query"
	EventDocument EventKind = "document"
)

// Event is an inbound chat update normalised by the transport.
type Event struct {
	Kind      EventKind
	ChatID    int64
	UserID    int64
	UserName  string
	FirstName string
	LastName  string
	MessageID int

	Text string

	CallbackID   string
	CallbackData string

	FileID   string
	FileName string
	FileSize int
	Caption  string

	// IsAdmin is filled from the persisted user before routing.
	IsAdmin bool
}

func (e Event) TelegramID() string {
	return strconv.FormatInt(e.UserID, 10)
}

func (e Event) ThreadID() string {
	return "telegram-user-" + e.TelegramID()
}

type Action string

const (
	ActionCreateOrderDetox       Action = "create_order_detox"
	ActionCreateOrderModeling    Action = "create_order_modeling"
	ActionConfirmPayment         Action = "confirm_payment"
	ActionShowAdminPanel         Action = "show_admin_panel"
	ActionProcessAdminDocument   Action = "process_admin_document"
	ActionRejectNonAdminDocument Action = "reject_non_admin_document"
	ActionUseAgent               Action = "use_agent"
)

// Decision is the router output: an action plus the arguments parsed for it.
type Decision struct {
	Action    Action
	OrderID   uint64
	PaymentID string
}

const (
	AdminPanelCommand     = "/admin"
	CallbackOrderDetox    = "order_detox"
	CallbackOrderModeling = "order_modeling"

	paymentCallbackPrefix = "payment_"
)

// PaymentCallbackData encodes the "I paid" button payload.
func PaymentCallbackData(orderID uint64, gatewayPaymentID string) string {
	return paymentCallbackPrefix + strconv.FormatUint(orderID, 10) + "_" + gatewayPaymentID
}

// ParsePaymentCallback decodes payment_<orderId>_<paymentId>. The payment id
// may itself contain underscores, so only the first one after the order id splits.
func ParsePaymentCallback(data string) (uint64, string, bool) {
	rest, ok := strings.CutPrefix(data, paymentCallbackPrefix)
	if !ok {
		return 0, "", false
	}
	rawOrderID, paymentID, ok := strings.Cut(rest, "_")
	if !ok || rawOrderID == "" || paymentID == "" {
		return 0, "", false
	}
	orderID, err := strconv.ParseUint(rawOrderID, 10, 64)
	if err != nil {
		return 0, "", false
	}
	return orderID, paymentID, true
}
