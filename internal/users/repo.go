package users

import (
	"context"
	"errors"
)

var ErrNotFound = errors.New("user not found")

// Repo persists profiles. Upsert is last-write-wins by email and keeps the original
// CreatedAt.
type Repo interface {
	FindByEmail(ctx context.Context, email string) (User, error)
	Upsert(ctx context.Context, user User) error
}
