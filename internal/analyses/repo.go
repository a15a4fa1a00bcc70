package analyses

import "context"

// Repo persists analysis records.
type Repo interface {
	Insert(ctx context.Context, record Record) error
	CountByUser(ctx context.Context, kind Kind, email string) (int, error)
	// ListRecentByUser returns newest first.
	ListRecentByUser(ctx context.Context, kind Kind, email string, limit int) ([]Record, error)
}
