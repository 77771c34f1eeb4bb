package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	sq "github.com/Masterminds/squirrel"
	"github.com/MikeRez0/cashhealer/internal/adapter/storage"
	"github.com/MikeRez0/cashhealer/internal/core/domain"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

var (
	userColumns = []string{"id", "telegram_id", "username", "first_name", "last_name",
		"is_admin", "created_at", "updated_at"}
	orderColumns = []string{"o.id", "o.user_id", "o.service_type", "o.status", "o.price", "o.form_url",
		"o.notes", "o.created_at", "o.updated_at", "o.completed_at",
		"u.id", "u.telegram_id", "u.username", "u.first_name", "u.last_name",
		"u.is_admin", "u.created_at", "u.updated_at"}
	paymentColumns = []string{"id", "order_id", "gateway_payment_id", "amount", "currency",
		"status", "payment_url", "created_at", "updated_at", "paid_at"}
	modelColumns = []string{"id", "user_id", "order_id", "current_balance", "next_income",
		"next_income_date", "expenses", "wishes", "total_expenses", "created_at", "updated_at"}
)

type Repository struct {
	db *storage.DB
}

func NewRepository(db *storage.DB) (*Repository, error) {
	return &Repository{db: db}, nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation
}

type rowScanner interface {
	Scan(dest ...any) error
}

// querier is satisfied by both the pool and an open transaction.
type querier interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

func scanUser(row rowScanner) (*domain.User, error) {
	u := domain.User{}
	err := row.Scan(&u.ID, &u.TelegramID, &u.Username, &u.FirstName, &u.LastName,
		&u.IsAdmin, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrDataNotFound
		}
		return nil, err
	}
	return &u, nil
}

func scanOrder(row rowScanner) (*domain.Order, error) {
	o := domain.Order{User: &domain.User{}}
	err := row.Scan(&o.ID, &o.UserID, &o.ServiceType, &o.Status, &o.Price, &o.FormURL,
		&o.Notes, &o.CreatedAt, &o.UpdatedAt, &o.CompletedAt,
		&o.User.ID, &o.User.TelegramID, &o.User.Username, &o.User.FirstName, &o.User.LastName,
		&o.User.IsAdmin, &o.User.CreatedAt, &o.User.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrDataNotFound
		}
		return nil, err
	}
	return &o, nil
}

func scanPayment(row rowScanner) (*domain.Payment, error) {
	p := domain.Payment{}
	err := row.Scan(&p.ID, &p.OrderID, &p.GatewayPaymentID, &p.Amount, &p.Currency,
		&p.Status, &p.PaymentURL, &p.CreatedAt, &p.UpdatedAt, &p.PaidAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrDataNotFound
		}
		return nil, err
	}
	return &p, nil
}

func scanModel(row rowScanner) (*domain.FinancialModel, error) {
	m := domain.FinancialModel{}
	var expenses, wishes []byte
	err := row.Scan(&m.ID, &m.UserID, &m.OrderID, &m.CurrentBalance, &m.NextIncome,
		&m.NextIncomeDate, &expenses, &wishes, &m.TotalExpenses, &m.CreatedAt, &m.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrDataNotFound
		}
		return nil, err
	}
	if err = json.Unmarshal(expenses, &m.Expenses); err != nil {
		return nil, fmt.Errorf("decode expenses: %w", err)
	}
	if err = json.Unmarshal(wishes, &m.Wishes); err != nil {
		return nil, fmt.Errorf("decode wishes: %w", err)
	}
	return &m, nil
}

func (r *Repository) UpsertUser(ctx context.Context, user *domain.User) (*domain.User, error) {
	statement := r.db.QueryBuilder.
		Insert("users").
		Columns("telegram_id", "username", "first_name", "last_name").
		Values(user.TelegramID, user.Username, user.FirstName, user.LastName).
		Suffix("ON CONFLICT (telegram_id) DO UPDATE SET " +
			"username = EXCLUDED.username, first_name = EXCLUDED.first_name, " +
			"last_name = EXCLUDED.last_name, updated_at = NOW()").
		Suffix("RETURNING " + strings.Join(userColumns, ", "))

	sql, args, err := statement.ToSql()
	if err != nil {
		return nil, err
	}
	return scanUser(r.db.QueryRow(ctx, sql, args...))
}

func (r *Repository) GetUserByTelegramID(ctx context.Context, telegramID string) (*domain.User, error) {
	statement := r.db.QueryBuilder.
		Select(userColumns...).
		From("users").
		Where(sq.Eq{"telegram_id": telegramID})

	sql, args, err := statement.ToSql()
	if err != nil {
		return nil, err
	}
	return scanUser(r.db.QueryRow(ctx, sql, args...))
}

func (r *Repository) ListAdmins(ctx context.Context) ([]*domain.User, error) {
	statement := r.db.QueryBuilder.
		Select(userColumns...).
		From("users").
		Where(sq.Eq{"is_admin": true}).
		OrderBy("id")

	sql, args, err := statement.ToSql()
	if err != nil {
		return nil, err
	}
	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	list := make([]*domain.User, 0)
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, u)
	}
	return list, rows.Err()
}

func (r *Repository) GrantAdmin(ctx context.Context, telegramIDs []string) error {
	if len(telegramIDs) == 0 {
		return nil
	}
	return pgx.BeginFunc(ctx, r.db, func(tx pgx.Tx) error {
		for _, id := range telegramIDs {
			sql, args, err := r.db.QueryBuilder.
				Insert("users").
				Columns("telegram_id", "is_admin").
				Values(id, true).
				Suffix("ON CONFLICT (telegram_id) DO UPDATE SET is_admin = TRUE, updated_at = NOW()").
				ToSql()
			if err != nil {
				return err
			}
			if _, err = tx.Exec(ctx, sql, args...); err != nil {
				return fmt.Errorf("grant admin %s: %w", id, err)
			}
		}
		return nil
	})
}

// CreateOrderWithPayment inserts the order, its payment and the move to
// payment_pending in one transaction.
func (r *Repository) CreateOrderWithPayment(ctx context.Context,
	order *domain.Order, payment *domain.Payment) (*domain.Order, *domain.Payment, error) {
	var orderID, paymentID uint64
	var created *domain.Order
	var createdPayment *domain.Payment
	currency := payment.Currency
	if currency == "" {
		currency = domain.CurrencyRUB
	}

	err := pgx.BeginFunc(ctx, r.db, func(tx pgx.Tx) error {
		sql, args, err := r.db.QueryBuilder.
			Insert("orders").
			Columns("user_id", "service_type", "status", "price", "form_url", "notes").
			Values(order.UserID, order.ServiceType, domain.OrderStatusCreated, order.Price, order.FormURL, order.Notes).
			Suffix("RETURNING id").
			ToSql()
		if err != nil {
			return err
		}
		if err = tx.QueryRow(ctx, sql, args...).Scan(&orderID); err != nil {
			return fmt.Errorf("insert order: %w", err)
		}

		sql, args, err = r.db.QueryBuilder.
			Insert("payments").
			Columns("order_id", "gateway_payment_id", "amount", "currency", "status", "payment_url").
			Values(orderID, payment.GatewayPaymentID, payment.Amount, currency,
				domain.PaymentStatusPending, payment.PaymentURL).
			Suffix("RETURNING id").
			ToSql()
		if err != nil {
			return err
		}
		if err = tx.QueryRow(ctx, sql, args...).Scan(&paymentID); err != nil {
			return fmt.Errorf("insert payment: %w", err)
		}

		if err = r.setOrderStatus(ctx, tx, orderID, domain.OrderStatusPaymentPending); err != nil {
			return err
		}

		if created, err = r.readOrder(ctx, tx, orderID); err != nil {
			return fmt.Errorf("read order: %w", err)
		}
		if createdPayment, err = r.readPayment(ctx, tx, paymentID); err != nil {
			return fmt.Errorf("read payment: %w", err)
		}
		return nil
	})
	if err != nil {
		if isUniqueViolation(err) {
			return nil, nil, domain.ErrConflictingData
		}
		return nil, nil, err
	}
	return created, createdPayment, nil
}

func (r *Repository) ReadOrder(ctx context.Context, orderID uint64) (*domain.Order, error) {
	return r.readOrder(ctx, r.db, orderID)
}

func (r *Repository) readOrder(ctx context.Context, q querier, orderID uint64) (*domain.Order, error) {
	sql, args, err := r.selectOrders().Where(sq.Eq{"o.id": orderID}).ToSql()
	if err != nil {
		return nil, err
	}
	return scanOrder(q.QueryRow(ctx, sql, args...))
}

func (r *Repository) selectOrders() sq.SelectBuilder {
	return r.db.QueryBuilder.
		Select(orderColumns...).
		From("orders o").
		Join("users u ON u.id = o.user_id")
}

// UpdateOrderStatus locks the order row and applies the move only when the
// state machine allows it. The returned order is read in the same
// transaction, so an error means nothing was committed.
func (r *Repository) UpdateOrderStatus(ctx context.Context, orderID uint64,
	status domain.OrderStatus) (*domain.Order, error) {
	var updated *domain.Order
	err := pgx.BeginFunc(ctx, r.db, func(tx pgx.Tx) error {
		err := r.setOrderStatus(ctx, tx, orderID, status)
		if err != nil {
			return err
		}
		updated, err = r.readOrder(ctx, tx, orderID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

func (r *Repository) setOrderStatus(ctx context.Context, tx pgx.Tx, orderID uint64, status domain.OrderStatus) error {
	sql, args, err := r.db.QueryBuilder.
		Select("status").
		From("orders").
		Where(sq.Eq{"id": orderID}).
		Suffix("FOR UPDATE").
		ToSql()
	if err != nil {
		return err
	}
	var current domain.OrderStatus
	if err = tx.QueryRow(ctx, sql, args...).Scan(&current); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.ErrDataNotFound
		}
		return err
	}
	if err = current.CanTransition(status); err != nil {
		return err
	}
	if current == status {
		return nil
	}

	update := r.db.QueryBuilder.
		Update("orders").
		Set("status", status).
		Set("updated_at", sq.Expr("NOW()")).
		Where(sq.Eq{"id": orderID})
	if status == domain.OrderStatusCompleted {
		update = update.Set("completed_at", sq.Expr("NOW()"))
	}
	sql, args, err = update.ToSql()
	if err != nil {
		return err
	}
	_, err = tx.Exec(ctx, sql, args...)
	return err
}

func (r *Repository) ListOrdersByStatus(ctx context.Context, statuses []domain.OrderStatus) ([]*domain.Order, error) {
	values := make([]string, 0, len(statuses))
	for _, s := range statuses {
		values = append(values, string(s))
	}
	return r.listOrders(ctx, r.selectOrders().
		Where(sq.Eq{"o.status": values}).
		OrderBy("o.created_at", "o.id"))
}

// ListOrdersByUser returns the user's orders, newest first. It is outside
// port.Repository and serves inspection and tests.
func (r *Repository) ListOrdersByUser(ctx context.Context, userID uint64) ([]*domain.Order, error) {
	return r.listOrders(ctx, r.selectOrders().
		Where(sq.Eq{"o.user_id": userID}).
		OrderBy("o.created_at DESC", "o.id DESC"))
}

func (r *Repository) listOrders(ctx context.Context, statement sq.SelectBuilder) ([]*domain.Order, error) {
	sql, args, err := statement.ToSql()
	if err != nil {
		return nil, err
	}
	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	list := make([]*domain.Order, 0)
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, o)
	}
	return list, rows.Err()
}

func (r *Repository) LatestPaymentByOrder(ctx context.Context, orderID uint64) (*domain.Payment, error) {
	sql, args, err := r.db.QueryBuilder.
		Select(paymentColumns...).
		From("payments").
		Where(sq.Eq{"order_id": orderID}).
		OrderBy("created_at DESC", "id DESC").
		Limit(1).
		ToSql()
	if err != nil {
		return nil, err
	}
	return scanPayment(r.db.QueryRow(ctx, sql, args...))
}

func (r *Repository) readPayment(ctx context.Context, q querier, paymentID uint64) (*domain.Payment, error) {
	sql, args, err := r.db.QueryBuilder.
		Select(paymentColumns...).
		From("payments").
		Where(sq.Eq{"id": paymentID}).
		ToSql()
	if err != nil {
		return nil, err
	}
	return scanPayment(q.QueryRow(ctx, sql, args...))
}

// UpdatePaymentStatus mirrors UpdateOrderStatus for payments.
func (r *Repository) UpdatePaymentStatus(ctx context.Context, paymentID uint64,
	status domain.PaymentStatus) (*domain.Payment, error) {
	var updated *domain.Payment
	err := pgx.BeginFunc(ctx, r.db, func(tx pgx.Tx) error {
		sql, args, err := r.db.QueryBuilder.
			Select("status").
			From("payments").
			Where(sq.Eq{"id": paymentID}).
			Suffix("FOR UPDATE").
			ToSql()
		if err != nil {
			return err
		}
		var current domain.PaymentStatus
		if err = tx.QueryRow(ctx, sql, args...).Scan(&current); err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return domain.ErrDataNotFound
			}
			return err
		}
		if err = current.CanTransition(status); err != nil {
			return err
		}
		if current != status {
			if err = r.setPaymentStatus(ctx, tx, paymentID, status); err != nil {
				return err
			}
		}
		updated, err = r.readPayment(ctx, tx, paymentID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

func (r *Repository) setPaymentStatus(ctx context.Context, tx pgx.Tx, paymentID uint64,
	status domain.PaymentStatus) error {
	update := r.db.QueryBuilder.
		Update("payments").
		Set("status", status).
		Set("updated_at", sq.Expr("NOW()")).
		Where(sq.Eq{"id": paymentID})
	if status == domain.PaymentStatusSucceeded {
		update = update.Set("paid_at", sq.Expr("NOW()"))
	}
	sql, args, err := update.ToSql()
	if err != nil {
		return err
	}
	_, err = tx.Exec(ctx, sql, args...)
	return err
}

// SaveFinancialModel updates the user's latest model when it belongs to the
// same order and inserts a new one otherwise.
func (r *Repository) SaveFinancialModel(ctx context.Context,
	model *domain.FinancialModel) (*domain.FinancialModel, error) {
	expenses, err := json.Marshal(nonNil(model.Expenses))
	if err != nil {
		return nil, fmt.Errorf("encode expenses: %w", err)
	}
	wishes, err := json.Marshal(nonNil(model.Wishes))
	if err != nil {
		return nil, fmt.Errorf("encode wishes: %w", err)
	}

	var saved *domain.FinancialModel
	err = pgx.BeginFunc(ctx, r.db, func(tx pgx.Tx) error {
		sql, args, err := r.db.QueryBuilder.
			Select("id", "order_id").
			From("financial_models").
			Where(sq.Eq{"user_id": model.UserID}).
			OrderBy("created_at DESC", "id DESC").
			Limit(1).
			Suffix("FOR UPDATE").
			ToSql()
		if err != nil {
			return err
		}
		var latestID uint64
		var latestOrder *uint64
		err = tx.QueryRow(ctx, sql, args...).Scan(&latestID, &latestOrder)
		if err != nil && !errors.Is(err, pgx.ErrNoRows) {
			return err
		}
		found := err == nil

		var statement sq.Sqlizer
		if found && model.OrderID != nil && latestOrder != nil && *latestOrder == *model.OrderID {
			statement = r.db.QueryBuilder.
				Update("financial_models").
				Set("current_balance", model.CurrentBalance).
				Set("next_income", model.NextIncome).
				Set("next_income_date", model.NextIncomeDate).
				Set("expenses", expenses).
				Set("wishes", wishes).
				Set("total_expenses", model.TotalExpenses).
				Set("updated_at", sq.Expr("NOW()")).
				Where(sq.Eq{"id": latestID}).
				Suffix("RETURNING " + strings.Join(modelColumns, ", "))
		} else {
			statement = r.db.QueryBuilder.
				Insert("financial_models").
				Columns("user_id", "order_id", "current_balance", "next_income", "next_income_date",
					"expenses", "wishes", "total_expenses").
				Values(model.UserID, model.OrderID, model.CurrentBalance, model.NextIncome,
					model.NextIncomeDate, expenses, wishes, model.TotalExpenses).
				Suffix("RETURNING " + strings.Join(modelColumns, ", "))
		}

		sql, args, err = statement.ToSql()
		if err != nil {
			return err
		}
		saved, err = scanModel(tx.QueryRow(ctx, sql, args...))
		return err
	})
	if err != nil {
		return nil, err
	}
	return saved, nil
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
