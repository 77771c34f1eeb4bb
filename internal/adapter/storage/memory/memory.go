// Package memory is an in-process Repository used for local runs without a
// database and as the stateful double in service tests.
package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/MikeRez0/cashhealer/internal/core/domain"
)

// Op names a repository method for failure injection.
type Op string

const (
	OpUpsertUser             Op = "UpsertUser"
	OpCreateOrderWithPayment Op = "CreateOrderWithPayment"
	OpReadOrder              Op = "ReadOrder"
	OpUpdateOrderStatus      Op = "UpdateOrderStatus"
	OpLatestPayment          Op = "LatestPaymentByOrder"
	OpUpdatePaymentStatus    Op = "UpdatePaymentStatus"
	OpSaveFinancialModel     Op = "SaveFinancialModel"
)

type Store struct {
	mu sync.Mutex

	users      map[uint64]*domain.User
	byTelegram map[string]uint64
	orders     map[uint64]*domain.Order
	payments   map[uint64]*domain.Payment
	models     map[uint64]*domain.FinancialModel
	history    map[uint64][]domain.OrderStatus

	lastUserID, lastOrderID, lastPaymentID, lastModelID uint64

	failures map[Op][]error
	calls    map[Op]int
	now      func() time.Time
}

func New() *Store {
	return &Store{
		users:      make(map[uint64]*domain.User),
		byTelegram: make(map[string]uint64),
		orders:     make(map[uint64]*domain.Order),
		payments:   make(map[uint64]*domain.Payment),
		models:     make(map[uint64]*domain.FinancialModel),
		history:    make(map[uint64][]domain.OrderStatus),
		failures:   make(map[Op][]error),
		calls:      make(map[Op]int),
		now:        time.Now,
	}
}

// FailNext makes the next call of op return err. Calls queue up in order.
func (s *Store) FailNext(op Op, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failures[op] = append(s.failures[op], err)
}

// Calls reports how many times op was invoked, failed calls included.
func (s *Store) Calls(op Op) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls[op]
}

// History returns every status the order has been in, in order.
func (s *Store) History(orderID uint64) []domain.OrderStatus {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]domain.OrderStatus(nil), s.history[orderID]...)
}

// Counts returns the number of stored orders and payments.
func (s *Store) Counts() (int, int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.orders), len(s.payments)
}

// enter must be called with the lock held.
func (s *Store) enter(op Op) error {
	s.calls[op]++
	queue := s.failures[op]
	if len(queue) == 0 {
		return nil
	}
	s.failures[op] = queue[1:]
	return queue[0]
}

func (s *Store) UpsertUser(_ context.Context, user *domain.User) (*domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.enter(OpUpsertUser); err != nil {
		return nil, err
	}

	now := s.now()
	if id, ok := s.byTelegram[user.TelegramID]; ok {
		u := s.users[id]
		u.Username, u.FirstName, u.LastName = user.Username, user.FirstName, user.LastName
		u.UpdatedAt = now
		c := *u
		return &c, nil
	}

	s.lastUserID++
	u := &domain.User{
		ID:         s.lastUserID,
		TelegramID: user.TelegramID,
		Username:   user.Username,
		FirstName:  user.FirstName,
		LastName:   user.LastName,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	s.users[u.ID] = u
	s.byTelegram[u.TelegramID] = u.ID
	c := *u
	return &c, nil
}

func (s *Store) GetUserByTelegramID(_ context.Context, telegramID string) (*domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	id, ok := s.byTelegram[telegramID]
	if !ok {
		return nil, domain.ErrDataNotFound
	}
	c := *s.users[id]
	return &c, nil
}

func (s *Store) ListAdmins(_ context.Context) ([]*domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var admins []*domain.User
	for _, u := range s.users {
		if u.IsAdmin {
			c := *u
			admins = append(admins, &c)
		}
	}
	sort.Slice(admins, func(i, j int) bool { return admins[i].ID < admins[j].ID })
	return admins, nil
}

func (s *Store) GrantAdmin(_ context.Context, telegramIDs []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.now()
	for _, tid := range telegramIDs {
		if id, ok := s.byTelegram[tid]; ok {
			s.users[id].IsAdmin = true
			continue
		}
		s.lastUserID++
		s.users[s.lastUserID] = &domain.User{
			ID: s.lastUserID, TelegramID: tid, IsAdmin: true, CreatedAt: now, UpdatedAt: now,
		}
		s.byTelegram[tid] = s.lastUserID
	}
	return nil
}

// CreateOrderWithPayment stages all writes and publishes them only at the end,
// so an injected failure leaves nothing behind.
func (s *Store) CreateOrderWithPayment(_ context.Context,
	order *domain.Order, payment *domain.Payment) (*domain.Order, *domain.Payment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.enter(OpCreateOrderWithPayment); err != nil {
		return nil, nil, err
	}
	if _, ok := s.users[order.UserID]; !ok {
		return nil, nil, fmt.Errorf("%w: user %d", domain.ErrDataNotFound, order.UserID)
	}
	for _, p := range s.payments {
		if p.GatewayPaymentID == payment.GatewayPaymentID {
			return nil, nil, domain.ErrConflictingData
		}
	}

	now := s.now()
	o := *order
	o.ID = s.lastOrderID + 1
	o.Status = domain.OrderStatusCreated
	o.CreatedAt, o.UpdatedAt = now, now
	o.User = nil

	p := *payment
	p.ID = s.lastPaymentID + 1
	p.OrderID = o.ID
	p.Status = domain.PaymentStatusPending
	if p.Currency == "" {
		p.Currency = domain.CurrencyRUB
	}
	p.CreatedAt, p.UpdatedAt = now, now

	if err := o.Status.CanTransition(domain.OrderStatusPaymentPending); err != nil {
		return nil, nil, err
	}
	o.Status = domain.OrderStatusPaymentPending

	s.lastOrderID, s.lastPaymentID = o.ID, p.ID
	s.orders[o.ID] = &o
	s.payments[p.ID] = &p
	s.history[o.ID] = []domain.OrderStatus{domain.OrderStatusCreated, domain.OrderStatusPaymentPending}

	oc, pc := o, p
	return &oc, &pc, nil
}

func (s *Store) ReadOrder(_ context.Context, orderID uint64) (*domain.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.enter(OpReadOrder); err != nil {
		return nil, err
	}
	o, ok := s.orders[orderID]
	if !ok {
		return nil, domain.ErrDataNotFound
	}
	return s.withUser(o), nil
}

func (s *Store) withUser(o *domain.Order) *domain.Order {
	c := *o
	if u, ok := s.users[o.UserID]; ok {
		uc := *u
		c.User = &uc
	}
	return &c
}

func (s *Store) UpdateOrderStatus(_ context.Context, orderID uint64,
	status domain.OrderStatus) (*domain.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.enter(OpUpdateOrderStatus); err != nil {
		return nil, err
	}
	o, ok := s.orders[orderID]
	if !ok {
		return nil, domain.ErrDataNotFound
	}
	if err := o.Status.CanTransition(status); err != nil {
		return nil, err
	}
	if o.Status != status {
		now := s.now()
		o.Status = status
		o.UpdatedAt = now
		if status == domain.OrderStatusCompleted {
			o.CompletedAt = &now
		}
		s.history[orderID] = append(s.history[orderID], status)
	}
	return s.withUser(o), nil
}

func (s *Store) ListOrdersByStatus(_ context.Context, statuses []domain.OrderStatus) ([]*domain.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	want := make(map[domain.OrderStatus]bool, len(statuses))
	for _, st := range statuses {
		want[st] = true
	}
	var list []*domain.Order
	for _, o := range s.orders {
		if want[o.Status] {
			list = append(list, s.withUser(o))
		}
	}
	sort.Slice(list, func(i, j int) bool { return list[i].ID < list[j].ID })
	return list, nil
}

// ListOrdersByUser returns the user's orders, newest first. It is outside
// port.Repository and serves inspection and tests.
func (s *Store) ListOrdersByUser(_ context.Context, userID uint64) ([]*domain.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var list []*domain.Order
	for _, o := range s.orders {
		if o.UserID == userID {
			list = append(list, s.withUser(o))
		}
	}
	sort.Slice(list, func(i, j int) bool { return list[i].ID > list[j].ID })
	return list, nil
}

func (s *Store) LatestPaymentByOrder(_ context.Context, orderID uint64) (*domain.Payment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.enter(OpLatestPayment); err != nil {
		return nil, err
	}
	var latest *domain.Payment
	for _, p := range s.payments {
		if p.OrderID == orderID && (latest == nil || p.ID > latest.ID) {
			latest = p
		}
	}
	if latest == nil {
		return nil, domain.ErrDataNotFound
	}
	c := *latest
	return &c, nil
}

// Payment returns a stored payment by row id, for assertions.
func (s *Store) Payment(paymentID uint64) (*domain.Payment, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.payments[paymentID]
	if !ok {
		return nil, false
	}
	c := *p
	return &c, true
}

func (s *Store) UpdatePaymentStatus(_ context.Context, paymentID uint64,
	status domain.PaymentStatus) (*domain.Payment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.enter(OpUpdatePaymentStatus); err != nil {
		return nil, err
	}
	p, ok := s.payments[paymentID]
	if !ok {
		return nil, domain.ErrDataNotFound
	}
	if err := p.Status.CanTransition(status); err != nil {
		return nil, err
	}
	now := s.now()
	if p.Status != status {
		p.Status = status
		p.UpdatedAt = now
		if status == domain.PaymentStatusSucceeded {
			p.PaidAt = &now
		}
	}
	c := *p
	return &c, nil
}

// SaveFinancialModel updates the user's latest model when it belongs to the
// same order and inserts a new one otherwise.
func (s *Store) SaveFinancialModel(_ context.Context, model *domain.FinancialModel) (*domain.FinancialModel, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.enter(OpSaveFinancialModel); err != nil {
		return nil, err
	}
	now := s.now()

	var latest *domain.FinancialModel
	for _, m := range s.models {
		if m.UserID == model.UserID && (latest == nil || m.ID > latest.ID) {
			latest = m
		}
	}
	if latest != nil && model.OrderID != nil && latest.OrderID != nil && *latest.OrderID == *model.OrderID {
		id, created := latest.ID, latest.CreatedAt
		*latest = *model
		latest.ID, latest.CreatedAt, latest.UpdatedAt = id, created, now
		c := *latest
		return &c, nil
	}

	s.lastModelID++
	m := *model
	m.ID = s.lastModelID
	m.CreatedAt, m.UpdatedAt = now, now
	s.models[m.ID] = &m
	c := m
	return &c, nil
}
