package analyses

import (
	"context"
	"database/sql"

	"resume-matcher/internal/shared/storage/db"
)

// SQLRepo implements Repo on PostgreSQL or SQLite.
type SQLRepo struct {
	DB      *sql.DB
	Dialect string
}

// Insert adds a record. Score is stored as a double so 75.0 reads back as 75.0.
func (r *SQLRepo) Insert(ctx context.Context, record Record) error {
	const query = `
INSERT INTO analyses (id, email, kind, score, text_prefix, feedback, created_at)
VALUES (?, ?, ?, ?, ?, ?, ?)`
	_, err := r.DB.ExecContext(ctx, db.Rebind(r.Dialect, query),
		record.ID,
		record.Email,
		string(record.Kind),
		float64(record.Score),
		record.TextPrefix,
		record.Feedback,
		record.CreatedAt.UTC(),
	)
	return err
}

// CountByUser returns how many records the user has for kind.
func (r *SQLRepo) CountByUser(ctx context.Context, kind Kind, email string) (int, error) {
	const query = `SELECT COUNT(*) FROM analyses WHERE kind = ? AND email = ?`
	var n int
	if err := r.DB.QueryRowContext(ctx, db.Rebind(r.Dialect, query), string(kind), email).Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}

// ListRecentByUser returns up to limit records, newest first. limit <= 0 means all.
func (r *SQLRepo) ListRecentByUser(ctx context.Context, kind Kind, email string, limit int) ([]Record, error) {
	query := `
SELECT id, email, kind, score, text_prefix, feedback, created_at
FROM analyses
WHERE kind = ? AND email = ?
ORDER BY created_at DESC, id DESC`
	args := []any{string(kind), email}
	if limit > 0 {
		query += `
LIMIT ?`
		args = append(args, limit)
	}
	rows, err := r.DB.QueryContext(ctx, db.Rebind(r.Dialect, query), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	records := make([]Record, 0)
	for rows.Next() {
		var rec Record
		var kindRaw string
		var score float64
		var createdAt db.NullTime
		if err := rows.Scan(&rec.ID, &rec.Email, &kindRaw, &score, &rec.TextPrefix, &rec.Feedback, &createdAt); err != nil {
			return nil, err
		}
		rec.Kind = Kind(kindRaw)
		rec.Score = Score(score)
		rec.CreatedAt = createdAt.Time
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return records, nil
}
