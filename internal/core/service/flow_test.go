package service_test

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/MikeRez0/cashhealer/internal/adapter/cache"
	"github.com/MikeRez0/cashhealer/internal/adapter/storage/memory"
	"github.com/MikeRez0/cashhealer/internal/core/domain"
	"github.com/MikeRez0/cashhealer/internal/core/port/mock"
	"github.com/MikeRez0/cashhealer/internal/core/service"
	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const (
	clientChat = int64(100)
	adminChat  = int64(500)
)

type outbox struct {
	mu        sync.Mutex
	messages  []domain.OutgoingMessage
	forwarded []string
}

func (o *outbox) last() domain.OutgoingMessage {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.messages[len(o.messages)-1]
}

// flow wires the service to the in-memory store, a real batch cache and
// recording doubles for Telegram and the payment gateway.
type flow struct {
	svc      *service.Service
	store    *memory.Store
	payments *mock.MockPaymentGateway
	out      *outbox
}

func newFlow(t *testing.T, catalog domain.Catalog) *flow {
	t.Helper()
	ctrl := gomock.NewController(t)
	store := memory.New()
	require.NoError(t, store.GrantAdmin(context.Background(), []string{fmt.Sprint(adminChat)}))

	out := &outbox{}
	messenger := mock.NewMockMessenger(ctrl)
	messenger.EXPECT().SendMessage(gomock.Any(), gomock.Any()).AnyTimes().
		DoAndReturn(func(_ context.Context, msg domain.OutgoingMessage) (int, error) {
			out.mu.Lock()
			defer out.mu.Unlock()
			out.messages = append(out.messages, msg)
			return len(out.messages), nil
		})
	messenger.EXPECT().ForwardDocument(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).AnyTimes().
		DoAndReturn(func(_ context.Context, chatID int64, fileID, _ string) (int, error) {
			out.mu.Lock()
			defer out.mu.Unlock()
			out.forwarded = append(out.forwarded, fmt.Sprintf("%d:%s", chatID, fileID))
			return len(out.forwarded), nil
		})

	payments := mock.NewMockPaymentGateway(ctrl)
	svc, err := service.NewService(store, payments, messenger, nil,
		cache.NewReportBatches(cache.DefaultSize, cache.DefaultTTL), nil,
		service.Options{Catalog: catalog, CalculatorURL: "https://bot.example.com"}, zap.NewNop())
	require.NoError(t, err)

	return &flow{svc: svc, store: store, payments: payments, out: out}
}

func clientCallback(data string) domain.Event {
	return domain.Event{Kind: domain.EventCallback, ChatID: clientChat, UserID: clientChat, CallbackData: data}
}

// order places an order through the event pipeline and returns its button payload.
func (f *flow) order(t *testing.T, callback, gatewayID string) (uint64, string) {
	t.Helper()
	f.payments.EXPECT().CreatePayment(gomock.Any(), gomock.Any(), gomock.Any()).
		Return(&domain.GatewayPayment{ID: gatewayID, PaymentURL: "https://pay/" + gatewayID,
			Status: domain.PaymentStatusPending}, nil)
	require.NoError(t, f.svc.HandleEvent(context.Background(), clientCallback(callback)))

	msg := f.out.last()
	require.Len(t, msg.Buttons, 1)
	data := msg.Buttons[0][0].CallbackData
	orderID, paymentID, ok := domain.ParsePaymentCallback(data)
	require.True(t, ok)
	assert.Equal(t, gatewayID, paymentID)
	return orderID, data
}

func (f *flow) expectPaid(gatewayID string) {
	f.payments.EXPECT().CheckPayment(gomock.Any(), gatewayID).
		Return(&domain.GatewayPayment{ID: gatewayID, Status: domain.PaymentStatusSucceeded, Paid: true}, nil)
}

func TestFlow_ModelingOrderScenario(t *testing.T) {
	f := newFlow(t, domain.NewCatalog(45000, 350, ""))

	orderID, data := f.order(t, domain.CallbackOrderModeling, "gw_1")
	assert.Equal(t, fmt.Sprintf("payment_%d_gw_1", orderID), data)

	order, err := f.store.ReadOrder(context.Background(), orderID)
	require.NoError(t, err)
	assert.Equal(t, domain.OrderStatusPaymentPending, order.Status)
	assert.Equal(t, int64(350), order.Price)
	assert.Equal(t, domain.ServiceFinancialModeling, order.ServiceType)

	payment, err := f.store.LatestPaymentByOrder(context.Background(), orderID)
	require.NoError(t, err)
	assert.Equal(t, "gw_1", payment.GatewayPaymentID)
	assert.Equal(t, domain.PaymentStatusPending, payment.Status)
}

func TestFlow_GatewayFailureLeavesStoreUntouched(t *testing.T) {
	f := newFlow(t, domain.NewCatalog(45000, 35000, ""))
	f.payments.EXPECT().CreatePayment(gomock.Any(), gomock.Any(), gomock.Any()).
		Return(nil, domain.ErrPaymentGateway)

	err := f.svc.HandleEvent(context.Background(), clientCallback(domain.CallbackOrderDetox))
	assert.ErrorIs(t, err, domain.ErrPaymentGateway)
	assert.Equal(t, 0, f.store.Calls(memory.OpCreateOrderWithPayment))
	orders, payments := f.store.Counts()
	assert.Zero(t, orders)
	assert.Zero(t, payments)
}

func TestFlow_TransactionFailureLeavesNoRows(t *testing.T) {
	f := newFlow(t, domain.NewCatalog(45000, 35000, ""))
	f.store.FailNext(memory.OpCreateOrderWithPayment, domain.ErrInternal)
	f.payments.EXPECT().CreatePayment(gomock.Any(), gomock.Any(), gomock.Any()).
		Return(&domain.GatewayPayment{ID: "gw_leak", PaymentURL: "https://pay/gw_leak"}, nil)

	err := f.svc.HandleEvent(context.Background(), clientCallback(domain.CallbackOrderDetox))
	assert.ErrorIs(t, err, domain.ErrOrderCreation)
	orders, payments := f.store.Counts()
	assert.Zero(t, orders)
	assert.Zero(t, payments)
}

func TestFlow_DetoxRoundTrip(t *testing.T) {
	f := newFlow(t, domain.NewCatalog(45000, 35000, "https://forms.example.com/detox"))

	orderID, data := f.order(t, domain.CallbackOrderDetox, "gw_d")
	f.expectPaid("gw_d")
	require.NoError(t, f.svc.HandleEvent(context.Background(), clientCallback(data)))

	assert.Equal(t, []domain.OrderStatus{
		domain.OrderStatusCreated,
		domain.OrderStatusPaymentPending,
		domain.OrderStatusPaymentConfirmed,
		domain.OrderStatusFormSent,
	}, f.store.History(orderID))
	assert.Contains(t, f.out.last().Text, "https://forms.example.com/detox")
}

func TestFlow_RepeatedConfirmIsIdempotent(t *testing.T) {
	f := newFlow(t, domain.NewCatalog(45000, 35000, "https://forms.example.com/detox"))
	ctx := context.Background()

	orderID, data := f.order(t, domain.CallbackOrderDetox, "gw_r")
	f.expectPaid("gw_r")
	require.NoError(t, f.svc.HandleEvent(ctx, clientCallback(data)))

	history := f.store.History(orderID)
	writes := f.store.Calls(memory.OpUpdateOrderStatus) + f.store.Calls(memory.OpUpdatePaymentStatus)

	for i := 0; i < 3; i++ {
		err := f.svc.HandleEvent(ctx, clientCallback(data))
		assert.ErrorIs(t, err, domain.ErrPaymentAlreadyConfirmed)
		assert.Contains(t, f.out.last().Text, "уже был подтверждён")
	}

	assert.Equal(t, history, f.store.History(orderID))
	assert.Equal(t, writes, f.store.Calls(memory.OpUpdateOrderStatus)+f.store.Calls(memory.OpUpdatePaymentStatus))
}

func TestFlow_NeverPaidWhileOrderPending(t *testing.T) {
	tests := []struct {
		name     string
		prepare  func(s *memory.Store)
		expError error
		expOrder domain.OrderStatus
		expPay   domain.PaymentStatus
	}{
		{
			name: "Order write fails",
			prepare: func(s *memory.Store) {
				s.FailNext(memory.OpUpdateOrderStatus, domain.ErrInternal)
			},
			expError: domain.ErrInternal,
			expOrder: domain.OrderStatusPaymentPending,
			expPay:   domain.PaymentStatusPending,
		},
		{
			name: "Payment write fails, order rolled back",
			prepare: func(s *memory.Store) {
				s.FailNext(memory.OpUpdatePaymentStatus, domain.ErrInternal)
			},
			expError: domain.ErrPaymentRolledBack,
			expOrder: domain.OrderStatusPaymentPending,
			expPay:   domain.PaymentStatusPending,
		},
		{
			name: "Payment write and rollback fail",
			prepare: func(s *memory.Store) {
				s.FailNext(memory.OpUpdatePaymentStatus, domain.ErrInternal)
				s.FailNext(memory.OpUpdateOrderStatus, nil)
				s.FailNext(memory.OpUpdateOrderStatus, domain.ErrInternal)
			},
			expError: domain.ErrPaymentStuck,
			expOrder: domain.OrderStatusPaymentConfirmed,
			expPay:   domain.PaymentStatusPending,
		},
		{
			name:     "No failures",
			prepare:  func(*memory.Store) {},
			expOrder: domain.OrderStatusFormSent,
			expPay:   domain.PaymentStatusSucceeded,
		},
	}

	for i, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			f := newFlow(t, domain.NewCatalog(45000, 35000, "https://forms.example.com/detox"))
			ctx := context.Background()
			gatewayID := fmt.Sprintf("gw_p%d", i)
			orderID, data := f.order(t, domain.CallbackOrderDetox, gatewayID)
			f.expectPaid(gatewayID)
			test.prepare(f.store)

			err := f.svc.HandleEvent(ctx, clientCallback(data))
			assert.Equal(t, test.expError, err)

			order, err := f.store.ReadOrder(ctx, orderID)
			require.NoError(t, err)
			payment, err := f.store.LatestPaymentByOrder(ctx, orderID)
			require.NoError(t, err)
			assert.Equal(t, test.expOrder, order.Status)
			assert.Equal(t, test.expPay, payment.Status)
			if payment.Status == domain.PaymentStatusSucceeded {
				assert.NotEqual(t, domain.OrderStatusPaymentPending, order.Status)
			}
		})
	}
}

func TestFlow_StuckPaymentAlertsAdmins(t *testing.T) {
	f := newFlow(t, domain.NewCatalog(45000, 35000, "https://forms.example.com/detox"))
	_, data := f.order(t, domain.CallbackOrderDetox, "gw_s")
	f.expectPaid("gw_s")
	f.store.FailNext(memory.OpUpdatePaymentStatus, domain.ErrInternal)
	f.store.FailNext(memory.OpUpdateOrderStatus, nil)
	f.store.FailNext(memory.OpUpdateOrderStatus, domain.ErrInternal)

	err := f.svc.HandleEvent(context.Background(), clientCallback(data))
	assert.ErrorIs(t, err, domain.ErrPaymentStuck)

	var toClient, toAdmin int
	for _, msg := range f.out.messages {
		switch msg.ChatID {
		case clientChat:
			toClient++
		case adminChat:
			toAdmin++
			assert.Contains(t, msg.Text, "gw_s")
		}
	}
	assert.Equal(t, 2, toClient)
	assert.Equal(t, 1, toAdmin)
}

func TestFlow_AdminReportBatch(t *testing.T) {
	f := newFlow(t, domain.NewCatalog(45000, 35000, "https://forms.example.com/detox"))
	ctx := context.Background()

	orderID, data := f.order(t, domain.CallbackOrderDetox, "gw_a")
	f.expectPaid("gw_a")
	require.NoError(t, f.svc.HandleEvent(ctx, clientCallback(data)))

	doc := func(fileID, caption string) domain.Event {
		return domain.Event{Kind: domain.EventDocument, ChatID: adminChat, UserID: adminChat,
			FileID: fileID, FileName: fileID + ".pdf", Caption: caption}
	}

	require.NoError(t, f.svc.HandleEvent(ctx, doc("f1", fmt.Sprintf("/send %d", orderID))))
	order, err := f.store.ReadOrder(ctx, orderID)
	require.NoError(t, err)
	assert.Equal(t, domain.OrderStatusCompleted, order.Status)
	writes := f.store.Calls(memory.OpUpdateOrderStatus)
	confirmations := len(f.out.messages)

	require.NoError(t, f.svc.HandleEvent(ctx, doc("f2", "")))
	assert.Equal(t, []string{"100:f1", "100:f2"}, f.out.forwarded)
	assert.Equal(t, writes, f.store.Calls(memory.OpUpdateOrderStatus))
	assert.Equal(t, confirmations, len(f.out.messages))
}

func TestFlow_NonAdminDocumentTouchesNoOrders(t *testing.T) {
	f := newFlow(t, domain.NewCatalog(45000, 35000, ""))

	err := f.svc.HandleEvent(context.Background(), domain.Event{Kind: domain.EventDocument,
		ChatID: clientChat, UserID: clientChat, FileID: "f1", Caption: "/send 1"})
	require.NoError(t, err)
	assert.Zero(t, f.store.Calls(memory.OpReadOrder))
	assert.Zero(t, f.store.Calls(memory.OpUpdateOrderStatus))
	assert.Empty(t, f.out.forwarded)
	assert.Contains(t, f.out.last().Text, "только администраторам")
}
