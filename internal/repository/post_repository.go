package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/blog-service/internal/domain"
)

// PostFilter captures listing parameters.
type PostFilter struct {
	Keyword    *string
	CategoryID *int64
	Limit      int
	Offset     int
}

// PostRepository encapsulates post persistence.
type PostRepository interface {
	Create(ctx context.Context, post *domain.Post) error
	Update(ctx context.Context, post *domain.Post) error
	SoftDelete(ctx context.Context, id int64) error
	GetActiveByID(ctx context.Context, id int64) (*domain.Post, error)
	ExistsActive(ctx context.Context, id int64) (bool, error)
	List(ctx context.Context, filter PostFilter) ([]domain.Post, error)
}

type postRepository struct {
	pool DB
}

// NewPostRepository instantiates repository.
func NewPostRepository(pool DB) PostRepository {
	return &postRepository{pool: pool}
}

const postColumns = `
        p.id, p.author_id, u.nickname, p.category_id, p.title, p.content,
        p.view_count, p.deleted, p.created_at, p.updated_at`

func (r *postRepository) Create(ctx context.Context, post *domain.Post) error {
	const query = `
        INSERT INTO posts (author_id, category_id, title, content)
        VALUES ($1, $2, $3, $4)
        RETURNING id, view_count, created_at, updated_at`
	err := r.pool.QueryRow(ctx, query,
		post.AuthorID,
		post.CategoryID,
		post.Title,
		post.Content,
	).Scan(&post.ID, &post.ViewCount, &post.CreatedAt, &post.UpdatedAt)
	if isForeignKeyViolation(err) {
		return pgx.ErrNoRows
	}
	return err
}

// Update never touches view_count; only the view engine's transactions move it.
func (r *postRepository) Update(ctx context.Context, post *domain.Post) error {
	const query = `
        UPDATE posts SET category_id=$1, title=$2, content=$3, updated_at=NOW()
        WHERE id=$4 AND NOT deleted
        RETURNING updated_at`
	err := r.pool.QueryRow(ctx, query,
		post.CategoryID,
		post.Title,
		post.Content,
		post.ID,
	).Scan(&post.UpdatedAt)
	if isForeignKeyViolation(err) {
		return pgx.ErrNoRows
	}
	return err
}

func (r *postRepository) SoftDelete(ctx context.Context, id int64) error {
	const query = `UPDATE posts SET deleted=TRUE, updated_at=NOW() WHERE id=$1 AND NOT deleted`
	cmd, err := r.pool.Exec(ctx, query, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *postRepository) GetActiveByID(ctx context.Context, id int64) (*domain.Post, error) {
	query := `SELECT` + postColumns + `
        FROM posts p JOIN users u ON u.id = p.author_id
        WHERE p.id=$1 AND NOT p.deleted`
	row := r.pool.QueryRow(ctx, query, id)
	return scanPost(row)
}

func (r *postRepository) ExistsActive(ctx context.Context, id int64) (bool, error) {
	const query = `SELECT EXISTS (SELECT 1 FROM posts WHERE id=$1 AND NOT deleted)`
	var exists bool
	if err := r.pool.QueryRow(ctx, query, id).Scan(&exists); err != nil {
		return false, err
	}
	return exists, nil
}

func (r *postRepository) List(ctx context.Context, filter PostFilter) ([]domain.Post, error) {
	var (
		clauses = []string{"NOT p.deleted"}
		args    []any
	)
	addArg := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	if filter.Keyword != nil && strings.TrimSpace(*filter.Keyword) != "" {
		placeholder := addArg("%" + strings.TrimSpace(*filter.Keyword) + "%")
		clauses = append(clauses, fmt.Sprintf("(p.title ILIKE %s OR p.content ILIKE %s)", placeholder, placeholder))
	}
	if filter.CategoryID != nil {
		clauses = append(clauses, "p.category_id = "+addArg(*filter.CategoryID))
	}

	limit := filter.Limit
	if limit <= 0 || limit > 100 {
		limit = 10
	}
	offset := filter.Offset
	if offset < 0 {
		offset = 0
	}

	query := `SELECT` + postColumns + `
        FROM posts p JOIN users u ON u.id = p.author_id
        WHERE ` + strings.Join(clauses, " AND ") + `
        ORDER BY p.created_at DESC, p.id DESC
        LIMIT ` + addArg(limit) + ` OFFSET ` + addArg(offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var posts []domain.Post
	for rows.Next() {
		post, err := scanPost(rows)
		if err != nil {
			return nil, err
		}
		posts = append(posts, *post)
	}
	return posts, rows.Err()
}

func scanPost(row pgx.Row) (*domain.Post, error) {
	var post domain.Post
	if err := row.Scan(
		&post.ID,
		&post.AuthorID,
		&post.AuthorName,
		&post.CategoryID,
		&post.Title,
		&post.Content,
		&post.ViewCount,
		&post.Deleted,
		&post.CreatedAt,
		&post.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &post, nil
}
