package subscriptions

import (
	"context"
	"errors"
	"time"
)

var ErrNotFound = errors.New("order not found")

// Repo persists orders.
type Repo interface {
	CreatePending(ctx context.Context, order Order) (string, error)
	MarkCompleted(ctx context.Context, id string, completedAt, expiresAt time.Time) error
	Find(ctx context.Context, id string) (Order, error)
}
