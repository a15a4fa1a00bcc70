package subscriptions

import (
	"context"
	"sync"
	"time"
)

// MemoryRepo stores orders in memory and is safe for concurrent use.
type MemoryRepo struct {
	mu     sync.RWMutex
	orders map[string]Order
}

func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{orders: make(map[string]Order)}
}

func (r *MemoryRepo) CreatePending(ctx context.Context, order Order) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	order.Status = StatusPending
	r.orders[order.ID] = order
	return order.ID, nil
}

func (r *MemoryRepo) MarkCompleted(ctx context.Context, id string, completedAt, expiresAt time.Time) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	order, ok := r.orders[id]
	if !ok {
		return ErrNotFound
	}
	c, e := completedAt.UTC(), expiresAt.UTC()
	order.Status = StatusCompleted
	order.CompletedAt = &c
	order.ExpiresAt = &e
	r.orders[id] = order
	return nil
}

func (r *MemoryRepo) Find(ctx context.Context, id string) (Order, error) {
	if err := ctx.Err(); err != nil {
		return Order{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	order, ok := r.orders[id]
	if !ok {
		return Order{}, ErrNotFound
	}
	return order, nil
}
