package repository

import (
	"context"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/blog-service/internal/domain"
)

// CommentRepository manages comment persistence.
type CommentRepository interface {
	Create(ctx context.Context, comment *domain.Comment) error
	UpdateContent(ctx context.Context, comment *domain.Comment) error
	SoftDelete(ctx context.Context, id int64) error
	GetActiveByID(ctx context.Context, id int64) (*domain.Comment, error)
	ListActiveByPost(ctx context.Context, postID int64, limit, offset int) ([]domain.Comment, error)
}

type commentRepository struct {
	pool DB
}

// NewCommentRepository constructs repository.
func NewCommentRepository(pool DB) CommentRepository {
	return &commentRepository{pool: pool}
}

func (r *commentRepository) Create(ctx context.Context, comment *domain.Comment) error {
	const query = `
        INSERT INTO comments (post_id, user_id, author_name, password_hash, content)
        VALUES ($1, $2, $3, NULLIF($4, ''), $5)
        RETURNING id, created_at, updated_at`
	err := r.pool.QueryRow(ctx, query,
		comment.PostID,
		comment.UserID,
		comment.AuthorName,
		comment.SecretHash,
		comment.Content,
	).Scan(&comment.ID, &comment.CreatedAt, &comment.UpdatedAt)
	if isForeignKeyViolation(err) {
		return pgx.ErrNoRows
	}
	return err
}

func (r *commentRepository) UpdateContent(ctx context.Context, comment *domain.Comment) error {
	const query = `
        UPDATE comments SET content=$1, updated_at=NOW()
        WHERE id=$2 AND NOT deleted
        RETURNING updated_at`
	return r.pool.QueryRow(ctx, query, comment.Content, comment.ID).Scan(&comment.UpdatedAt)
}

func (r *commentRepository) SoftDelete(ctx context.Context, id int64) error {
	const query = `UPDATE comments SET deleted=TRUE, updated_at=NOW() WHERE id=$1 AND NOT deleted`
	cmd, err := r.pool.Exec(ctx, query, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *commentRepository) GetActiveByID(ctx context.Context, id int64) (*domain.Comment, error) {
	const query = `
        SELECT id, post_id, user_id, author_name, COALESCE(password_hash, ''), content, deleted, created_at, updated_at
        FROM comments WHERE id=$1 AND NOT deleted`
	return scanComment(r.pool.QueryRow(ctx, query, id))
}

func (r *commentRepository) ListActiveByPost(ctx context.Context, postID int64, limit, offset int) ([]domain.Comment, error) {
	const query = `
        SELECT id, post_id, user_id, author_name, COALESCE(password_hash, ''), content, deleted, created_at, updated_at
        FROM comments WHERE post_id=$1 AND NOT deleted
        ORDER BY created_at ASC, id ASC
        LIMIT $2 OFFSET $3`
	rows, err := r.pool.Query(ctx, query, postID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var comments []domain.Comment
	for rows.Next() {
		comment, err := scanComment(rows)
		if err != nil {
			return nil, err
		}
		comments = append(comments, *comment)
	}
	return comments, rows.Err()
}

func scanComment(row pgx.Row) (*domain.Comment, error) {
	var c domain.Comment
	if err := row.Scan(
		&c.ID,
		&c.PostID,
		&c.UserID,
		&c.AuthorName,
		&c.SecretHash,
		&c.Content,
		&c.Deleted,
		&c.CreatedAt,
		&c.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &c, nil
}
