package repository

import (
	"context"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/blog-service/internal/domain"
)

// LikeRepository persists like records. Rows are never deleted; cancelling clears active.
type LikeRepository interface {
	HasActiveLike(ctx context.Context, postID int64, owner domain.LikeOwner) (bool, error)
	InsertLike(ctx context.Context, postID int64, owner domain.LikeOwner) error
	DeactivateLike(ctx context.Context, postID int64, owner domain.LikeOwner) (bool, error)
	CountActiveLikes(ctx context.Context, postID int64) (int64, error)
}

type likeRepository struct {
	pool DB
}

// NewLikeRepository returns a Postgres-backed implementation.
func NewLikeRepository(pool DB) LikeRepository {
	return &likeRepository{pool: pool}
}

func (r *likeRepository) HasActiveLike(ctx context.Context, postID int64, owner domain.LikeOwner) (bool, error) {
	const query = `
        SELECT EXISTS (
            SELECT 1 FROM post_likes
            WHERE post_id=$1 AND owner_kind=$2 AND owner_identity=$3 AND active
        )`

	var exists bool
	if err := r.pool.QueryRow(ctx, query, postID, owner.Kind, owner.Identity).Scan(&exists); err != nil {
		return false, err
	}
	return exists, nil
}

// InsertLike creates an active record. The partial unique index on active rows turns a
// concurrent duplicate into ErrDuplicate.
func (r *likeRepository) InsertLike(ctx context.Context, postID int64, owner domain.LikeOwner) error {
	const query = `
        INSERT INTO post_likes (post_id, owner_kind, owner_identity, active)
        VALUES ($1, $2, $3, TRUE)`

	_, err := r.pool.Exec(ctx, query, postID, owner.Kind, owner.Identity)
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

// DeactivateLike flips the active record to inactive and reports whether one existed.
func (r *likeRepository) DeactivateLike(ctx context.Context, postID int64, owner domain.LikeOwner) (bool, error) {
	const query = `
        UPDATE post_likes SET active=FALSE, updated_at=NOW()
        WHERE post_id=$1 AND owner_kind=$2 AND owner_identity=$3 AND active`

	cmd, err := r.pool.Exec(ctx, query, postID, owner.Kind, owner.Identity)
	if err != nil {
		return false, err
	}
	return cmd.RowsAffected() > 0, nil
}

func (r *likeRepository) CountActiveLikes(ctx context.Context, postID int64) (int64, error) {
	const query = `SELECT COUNT(*) FROM post_likes WHERE post_id=$1 AND active`

	var count int64
	if err := r.pool.QueryRow(ctx, query, postID).Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}
