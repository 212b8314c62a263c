package repository

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/blog-service/internal/domain"
)

// ViewRepository persists per (post, ip) view cooldown state together with the post counter.
type ViewRepository interface {
	FindView(ctx context.Context, postID int64, ip string) (*domain.ViewRecord, error)
	InsertView(ctx context.Context, record *domain.ViewRecord) error
	TouchView(ctx context.Context, postID int64, ip string, prev, now time.Time) (bool, error)
}

type viewRepository struct {
	pool DB
}

// NewViewRepository returns a Postgres-backed implementation.
func NewViewRepository(pool DB) ViewRepository {
	return &viewRepository{pool: pool}
}

// FindView returns nil without error when the pair has never been recorded.
func (r *viewRepository) FindView(ctx context.Context, postID int64, ip string) (*domain.ViewRecord, error) {
	const query = `
        SELECT id, post_id, ip_address, last_viewed_at
        FROM post_views WHERE post_id=$1 AND ip_address=$2`

	var rec domain.ViewRecord
	if err := r.pool.QueryRow(ctx, query, postID, ip).Scan(
		&rec.ID,
		&rec.PostID,
		&rec.ViewerIP,
		&rec.LastViewedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &rec, nil
}

// InsertView records the first view and bumps the post counter in one transaction.
// A concurrent insert for the same pair yields ErrDuplicate and no increment.
func (r *viewRepository) InsertView(ctx context.Context, record *domain.ViewRecord) error {
	const insertQuery = `
        INSERT INTO post_views (post_id, ip_address, last_viewed_at)
        VALUES ($1, $2, $3)
        RETURNING id`

	err := pgx.BeginFunc(ctx, r.pool, func(tx pgx.Tx) error {
		if err := tx.QueryRow(ctx, insertQuery,
			record.PostID,
			record.ViewerIP,
			dbTime(record.LastViewedAt),
		).Scan(&record.ID); err != nil {
			return err
		}
		return incrementViewCount(ctx, tx, record.PostID)
	})
	switch {
	case err == nil:
		return nil
	case isUniqueViolation(err):
		return ErrDuplicate
	case isForeignKeyViolation(err):
		return pgx.ErrNoRows
	default:
		return err
	}
}

// TouchView moves last_viewed_at from prev to now and bumps the counter, only if nobody
// else touched the row since prev was read. It reports whether this call won.
func (r *viewRepository) TouchView(ctx context.Context, postID int64, ip string, prev, now time.Time) (bool, error) {
	const touchQuery = `
        UPDATE post_views SET last_viewed_at=$1
        WHERE post_id=$2 AND ip_address=$3 AND last_viewed_at=$4`

	touched := false
	err := pgx.BeginFunc(ctx, r.pool, func(tx pgx.Tx) error {
		cmd, err := tx.Exec(ctx, touchQuery, dbTime(now), postID, ip, dbTime(prev))
		if err != nil {
			return err
		}
		if cmd.RowsAffected() == 0 {
			return nil
		}
		touched = true
		return incrementViewCount(ctx, tx, postID)
	})
	if err != nil {
		return false, err
	}
	return touched, nil
}

func incrementViewCount(ctx context.Context, tx pgx.Tx, postID int64) error {
	const query = `UPDATE posts SET view_count = view_count + 1 WHERE id=$1`
	cmd, err := tx.Exec(ctx, query, postID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

// dbTime matches Postgres timestamptz precision so compare-and-swap on the stored value works.
func dbTime(t time.Time) time.Time {
	return t.UTC().Truncate(time.Microsecond)
}
