package e2etest_test

import (
	"context"
	"fmt"
	"log"
	"os"
	"sync"
	"testing"

	"github.com/MikeRez0/cashhealer/internal/adapter/cache"
	"github.com/MikeRez0/cashhealer/internal/adapter/config"
	"github.com/MikeRez0/cashhealer/internal/adapter/storage"
	"github.com/MikeRez0/cashhealer/internal/adapter/storage/repository"
	"github.com/MikeRez0/cashhealer/internal/core/domain"
	"github.com/MikeRez0/cashhealer/internal/core/port/mock"
	"github.com/MikeRez0/cashhealer/internal/core/service"
	"github.com/golang/mock/gomock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// TEST_DATABASE_URI points at a disposable Postgres database; the suite
// truncates every table before running.
const dsnEnv = "TEST_DATABASE_URI"

var repo *repository.Repository

func TestMain(m *testing.M) {
	dsn := os.Getenv(dsnEnv)
	if dsn == "" {
		fmt.Printf("%s is not set, skipping Postgres tests\n", dsnEnv)
		os.Exit(0)
	}

	ctx := context.Background()
	db, err := storage.NewDBStorage(ctx, &config.Database{DSN: dsn})
	if err != nil {
		log.Fatal(err)
	}
	if err = db.RunMigrations(); err != nil {
		log.Fatal(err)
	}
	if _, err = db.Exec(ctx,
		"TRUNCATE financial_models, payments, orders, users RESTART IDENTITY CASCADE"); err != nil {
		log.Fatal(err)
	}
	repo, err = repository.NewRepository(db)
	if err != nil {
		log.Fatal(err)
	}

	code := m.Run()
	db.Close()
	os.Exit(code)
}

var nextTelegramID = struct {
	sync.Mutex
	id int64
}{id: 700000}

func newTelegramID() int64 {
	nextTelegramID.Lock()
	defer nextTelegramID.Unlock()
	nextTelegramID.id++
	return nextTelegramID.id
}

type deps struct {
	svc       *service.Service
	payments  *mock.MockPaymentGateway
	messenger *mock.MockMessenger
}

func newService(t *testing.T) *deps {
	t.Helper()
	mockCtrl := gomock.NewController(t)
	d := &deps{
		payments:  mock.NewMockPaymentGateway(mockCtrl),
		messenger: mock.NewMockMessenger(mockCtrl),
	}
	d.messenger.EXPECT().SendMessage(gomock.Any(), gomock.Any()).Return(1, nil).AnyTimes()
	d.messenger.EXPECT().ForwardDocument(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		Return(1, nil).AnyTimes()

	svc, err := service.NewService(repo, d.payments, d.messenger, nil,
		cache.NewReportBatches(cache.DefaultSize, cache.DefaultTTL), nil,
		service.Options{
			Catalog:       domain.NewCatalog(45000, 35000, "https://forms.example.com/detox"),
			CalculatorURL: "https://bot.example.com",
		}, zap.NewNop())
	require.NoError(t, err)
	d.svc = svc
	return d
}

func (d *deps) placeOrder(t *testing.T, telegramID int64, callback string) (uint64, string) {
	t.Helper()
	gatewayID := "gw_" + uuid.NewString()
	d.payments.EXPECT().CreatePayment(gomock.Any(), gomock.Any(), gomock.Any()).
		Return(&domain.GatewayPayment{ID: gatewayID, PaymentURL: "https://pay/" + gatewayID,
			Status: domain.PaymentStatusPending}, nil)

	err := d.svc.HandleEvent(context.Background(), domain.Event{
		Kind: domain.EventCallback, ChatID: telegramID, UserID: telegramID, CallbackData: callback,
	})
	require.NoError(t, err)

	user, err := repo.GetUserByTelegramID(context.Background(), fmt.Sprint(telegramID))
	require.NoError(t, err)
	orders, err := repo.ListOrdersByUser(context.Background(), user.ID)
	require.NoError(t, err)
	require.NotEmpty(t, orders)
	return orders[0].ID, gatewayID
}

func (d *deps) confirm(telegramID int64, orderID uint64, gatewayID string) error {
	return d.svc.HandleEvent(context.Background(), domain.Event{
		Kind: domain.EventCallback, ChatID: telegramID, UserID: telegramID,
		CallbackData: domain.PaymentCallbackData(orderID, gatewayID),
	})
}

func TestServiceDB_DetoxLifecycle(t *testing.T) {
	d := newService(t)
	ctx := context.Background()
	client := newTelegramID()

	orderID, gatewayID := d.placeOrder(t, client, domain.CallbackOrderDetox)

	order, err := repo.ReadOrder(ctx, orderID)
	require.NoError(t, err)
	assert.Equal(t, domain.OrderStatusPaymentPending, order.Status)
	assert.Equal(t, int64(45000), order.Price)
	require.NotNil(t, order.User)
	assert.Equal(t, fmt.Sprint(client), order.User.TelegramID)

	d.payments.EXPECT().CheckPayment(gomock.Any(), gatewayID).
		Return(&domain.GatewayPayment{ID: gatewayID, Status: domain.PaymentStatusSucceeded, Paid: true}, nil)
	require.NoError(t, d.confirm(client, orderID, gatewayID))

	order, err = repo.ReadOrder(ctx, orderID)
	require.NoError(t, err)
	assert.Equal(t, domain.OrderStatusFormSent, order.Status)

	payment, err := repo.LatestPaymentByOrder(ctx, orderID)
	require.NoError(t, err)
	assert.Equal(t, domain.PaymentStatusSucceeded, payment.Status)
	assert.NotNil(t, payment.PaidAt)

	// replay of the same button press
	err = d.confirm(client, orderID, gatewayID)
	assert.ErrorIs(t, err, domain.ErrPaymentAlreadyConfirmed)

	awaiting, err := repo.ListOrdersByStatus(ctx, domain.AwaitingReportStatuses)
	require.NoError(t, err)
	var found bool
	for _, o := range awaiting {
		found = found || o.ID == orderID
	}
	assert.True(t, found)
}

func TestServiceDB_AdminReportCompletesOrder(t *testing.T) {
	d := newService(t)
	ctx := context.Background()
	client, admin := newTelegramID(), newTelegramID()
	require.NoError(t, repo.GrantAdmin(ctx, []string{fmt.Sprint(admin)}))

	orderID, gatewayID := d.placeOrder(t, client, domain.CallbackOrderModeling)
	d.payments.EXPECT().CheckPayment(gomock.Any(), gatewayID).
		Return(&domain.GatewayPayment{ID: gatewayID, Status: domain.PaymentStatusSucceeded, Paid: true}, nil)
	require.NoError(t, d.confirm(client, orderID, gatewayID))

	// modeling orders complete as soon as the calculator link is delivered
	order, err := repo.ReadOrder(ctx, orderID)
	require.NoError(t, err)
	assert.Equal(t, domain.OrderStatusCompleted, order.Status)
	assert.NotNil(t, order.CompletedAt)

	orderID, gatewayID = d.placeOrder(t, client, domain.CallbackOrderDetox)
	d.payments.EXPECT().CheckPayment(gomock.Any(), gatewayID).
		Return(&domain.GatewayPayment{ID: gatewayID, Status: domain.PaymentStatusSucceeded, Paid: true}, nil)
	require.NoError(t, d.confirm(client, orderID, gatewayID))

	err = d.svc.HandleEvent(ctx, domain.Event{
		Kind: domain.EventDocument, ChatID: admin, UserID: admin,
		FileID: "report-1", Caption: fmt.Sprintf("/send %d", orderID),
	})
	require.NoError(t, err)

	order, err = repo.ReadOrder(ctx, orderID)
	require.NoError(t, err)
	assert.Equal(t, domain.OrderStatusCompleted, order.Status)
}

func TestRepositoryDB_CreateOrderIsAtomic(t *testing.T) {
	ctx := context.Background()
	user, err := repo.UpsertUser(ctx, &domain.User{TelegramID: fmt.Sprint(newTelegramID()), FirstName: "A"})
	require.NoError(t, err)

	gatewayID := "gw_" + uuid.NewString()
	_, _, err = repo.CreateOrderWithPayment(ctx,
		&domain.Order{UserID: user.ID, ServiceType: domain.ServiceFinancialDetox, Price: 45000},
		&domain.Payment{GatewayPaymentID: gatewayID, Amount: 45000})
	require.NoError(t, err)

	// a second order reusing the gateway id must leave no order row behind
	_, _, err = repo.CreateOrderWithPayment(ctx,
		&domain.Order{UserID: user.ID, ServiceType: domain.ServiceFinancialModeling, Price: 35000},
		&domain.Payment{GatewayPaymentID: gatewayID, Amount: 35000})
	assert.ErrorIs(t, err, domain.ErrConflictingData)

	orders, err := repo.ListOrdersByUser(ctx, user.ID)
	require.NoError(t, err)
	assert.Len(t, orders, 1)
}

func TestRepositoryDB_TransitionsAreChecked(t *testing.T) {
	ctx := context.Background()
	user, err := repo.UpsertUser(ctx, &domain.User{TelegramID: fmt.Sprint(newTelegramID())})
	require.NoError(t, err)

	order, payment, err := repo.CreateOrderWithPayment(ctx,
		&domain.Order{UserID: user.ID, ServiceType: domain.ServiceFinancialDetox, Price: 45000},
		&domain.Payment{GatewayPaymentID: "gw_" + uuid.NewString(), Amount: 45000})
	require.NoError(t, err)

	_, err = repo.UpdateOrderStatus(ctx, order.ID, domain.OrderStatusCompleted)
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)

	_, err = repo.UpdatePaymentStatus(ctx, payment.ID, domain.PaymentStatusSucceeded)
	require.NoError(t, err)
	_, err = repo.UpdatePaymentStatus(ctx, payment.ID, domain.PaymentStatusSucceeded)
	assert.ErrorIs(t, err, domain.ErrPaymentAlreadySucceeded)

	_, err = repo.ReadOrder(ctx, order.ID+1000)
	assert.ErrorIs(t, err, domain.ErrDataNotFound)
}

func TestRepositoryDB_WritesReturnCommittedRows(t *testing.T) {
	ctx := context.Background()
	user, err := repo.UpsertUser(ctx, &domain.User{TelegramID: fmt.Sprint(newTelegramID()), FirstName: "B"})
	require.NoError(t, err)

	order, payment, err := repo.CreateOrderWithPayment(ctx,
		&domain.Order{UserID: user.ID, ServiceType: domain.ServiceFinancialDetox, Price: 45000},
		&domain.Payment{GatewayPaymentID: "gw_" + uuid.NewString(), Amount: 45000})
	require.NoError(t, err)
	read, err := repo.ReadOrder(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, read, order)
	latest, err := repo.LatestPaymentByOrder(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, latest, payment)

	paid, err := repo.UpdatePaymentStatus(ctx, payment.ID, domain.PaymentStatusSucceeded)
	require.NoError(t, err)
	assert.Equal(t, domain.PaymentStatusSucceeded, paid.Status)
	require.NotNil(t, paid.PaidAt)
	latest, err = repo.LatestPaymentByOrder(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, latest, paid)

	confirmed, err := repo.UpdateOrderStatus(ctx, order.ID, domain.OrderStatusPaymentConfirmed)
	require.NoError(t, err)
	read, err = repo.ReadOrder(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, read, confirmed)

	// a rejected move commits nothing
	_, err = repo.UpdateOrderStatus(ctx, order.ID, domain.OrderStatusCreated)
	require.Error(t, err)
	read, err = repo.ReadOrder(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, confirmed, read)
}

func TestRepositoryDB_FinancialModelUpsert(t *testing.T) {
	ctx := context.Background()
	user, err := repo.UpsertUser(ctx, &domain.User{TelegramID: fmt.Sprint(newTelegramID())})
	require.NoError(t, err)
	order, _, err := repo.CreateOrderWithPayment(ctx,
		&domain.Order{UserID: user.ID, ServiceType: domain.ServiceFinancialModeling, Price: 35000},
		&domain.Payment{GatewayPaymentID: "gw_" + uuid.NewString(), Amount: 35000})
	require.NoError(t, err)

	first, err := repo.SaveFinancialModel(ctx, &domain.FinancialModel{
		UserID: user.ID, OrderID: &order.ID, CurrentBalance: 1000,
		Expenses: []domain.Expense{{Name: "Еда", Amount: 500}},
	})
	require.NoError(t, err)

	second, err := repo.SaveFinancialModel(ctx, &domain.FinancialModel{
		UserID: user.ID, OrderID: &order.ID, CurrentBalance: 2000,
		Wishes: []domain.Wish{{Name: "Книга", Price: 900, Priority: "low"}},
	})
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, int64(2000), second.CurrentBalance)
	assert.Equal(t, []domain.Wish{{Name: "Книга", Price: 900, Priority: "low"}}, second.Wishes)
	assert.Empty(t, second.Expenses)

	third, err := repo.SaveFinancialModel(ctx, &domain.FinancialModel{UserID: user.ID, CurrentBalance: 1})
	require.NoError(t, err)
	assert.NotEqual(t, first.ID, third.ID)
}
