package subscriptions

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"resume-matcher/internal/shared/storage/db"
)

// SQLRepo implements Repo on PostgreSQL or SQLite.
type SQLRepo struct {
	DB      *sql.DB
	Dialect string
}

func (r *SQLRepo) CreatePending(ctx context.Context, order Order) (string, error) {
	const query = `
INSERT INTO subscription_orders (
	id, email, name, phone, plan, amount_minor, currency, status, payment_link, created_at
)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := r.DB.ExecContext(ctx, db.Rebind(r.Dialect, query),
		order.ID,
		order.Email,
		order.Name,
		order.Phone,
		order.Plan,
		order.AmountMinor,
		order.Currency,
		StatusPending,
		order.PaymentLink,
		order.CreatedAt.UTC(),
	)
	if err != nil {
		return "", err
	}
	return order.ID, nil
}

func (r *SQLRepo) MarkCompleted(ctx context.Context, id string, completedAt, expiresAt time.Time) error {
	const query = `
UPDATE subscription_orders
SET status = ?, completed_at = ?, expires_at = ?
WHERE id = ?`
	res, err := r.DB.ExecContext(ctx, db.Rebind(r.Dialect, query), StatusCompleted, completedAt.UTC(), expiresAt.UTC(), id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *SQLRepo) Find(ctx context.Context, id string) (Order, error) {
	const query = `
SELECT id, email, name, phone, plan, amount_minor, currency, status, payment_link,
       created_at, completed_at, expires_at
FROM subscription_orders
WHERE id = ?
LIMIT 1`
	var o Order
	var createdAt, completedAt, expiresAt db.NullTime
	err := r.DB.QueryRowContext(ctx, db.Rebind(r.Dialect, query), id).Scan(
		&o.ID,
		&o.Email,
		&o.Name,
		&o.Phone,
		&o.Plan,
		&o.AmountMinor,
		&o.Currency,
		&o.Status,
		&o.PaymentLink,
		&createdAt,
		&completedAt,
		&expiresAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Order{}, ErrNotFound
		}
		return Order{}, err
	}
	o.CreatedAt = createdAt.Time
	o.CompletedAt = completedAt.Ptr()
	o.ExpiresAt = expiresAt.Ptr()
	return o, nil
}
