package users

import (
	"context"
	"database/sql"
	"errors"

	"resume-matcher/internal/shared/storage/db"
)

// SQLRepo implements Repo on PostgreSQL or SQLite.
type SQLRepo struct {
	DB      *sql.DB
	Dialect string
}

func (r *SQLRepo) Upsert(ctx context.Context, user User) error {
	const query = `
INSERT INTO users (email, name, phone, created_at, updated_at)
VALUES (?, ?, ?, ?, ?)
ON CONFLICT (email) DO UPDATE SET
  name = excluded.name,
  phone = excluded.phone,
  updated_at = excluded.updated_at`
	_, err := r.DB.ExecContext(ctx, db.Rebind(r.Dialect, query),
		user.Email,
		user.Name,
		user.Phone,
		user.CreatedAt.UTC(),
		user.UpdatedAt.UTC(),
	)
	return err
}

func (r *SQLRepo) FindByEmail(ctx context.Context, email string) (User, error) {
	const query = `
SELECT email, name, phone, created_at, updated_at
FROM users
WHERE email = ?
LIMIT 1`
	var user User
	var createdAt, updatedAt db.NullTime
	err := r.DB.QueryRowContext(ctx, db.Rebind(r.Dialect, query), email).Scan(
		&user.Email,
		&user.Name,
		&user.Phone,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return User{}, ErrNotFound
		}
		return User{}, err
	}
	user.CreatedAt = createdAt.Time
	user.UpdatedAt = updatedAt.Time
	return user, nil
}
