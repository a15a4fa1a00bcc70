package analyses

import (
	"context"
	"sort"
	"sync"
)

// MemoryRepo stores analyses in memory and is safe for concurrent use.
type MemoryRepo struct {
	mu     sync.RWMutex
	byUser map[string][]Record
}

// NewMemoryRepo constructs a MemoryRepo.
func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{byUser: make(map[string][]Record)}
}

func userKey(kind Kind, email string) string {
	return string(kind) + "|" + email
}

// Insert stores the record.
func (r *MemoryRepo) Insert(ctx context.Context, record Record) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	key := userKey(record.Kind, record.Email)
	r.byUser[key] = append(r.byUser[key], record)
	return nil
}

// CountByUser returns how many records the user has for kind.
func (r *MemoryRepo) CountByUser(ctx context.Context, kind Kind, email string) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.byUser[userKey(kind, email)]), nil
}

// ListRecentByUser returns up to limit records, newest first. limit <= 0 means all.
func (r *MemoryRepo) ListRecentByUser(ctx context.Context, kind Kind, email string, limit int) ([]Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	userRecords := r.byUser[userKey(kind, email)]
	records := make([]Record, len(userRecords))
	copy(records, userRecords)
	r.mu.RUnlock()

	sort.SliceStable(records, func(i, j int) bool {
		return records[i].CreatedAt.After(records[j].CreatedAt)
	})
	if limit > 0 && len(records) > limit {
		records = records[:limit]
	}
	return records, nil
}
