package service

import (
	"context"
	"strings"
	"sync"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/blog-service/internal/domain"
	"github.com/spec-kit/blog-service/internal/repository"
)

type memoryUsers struct {
	mu    sync.Mutex
	users []*domain.User
}

func (m *memoryUsers) Create(_ context.Context, user *domain.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.Email == user.Email {
			return repository.ErrDuplicate
		}
	}
	user.ID = int64(len(m.users) + 1)
	copied := *user
	m.users = append(m.users, &copied)
	return nil
}

func (m *memoryUsers) GetByID(_ context.Context, id int64) (*domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.ID == id {
			copied := *u
			return &copied, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (m *memoryUsers) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.Email == email {
			copied := *u
			return &copied, nil
		}
	}
	return nil, pgx.ErrNoRows
}

type memoryCategories struct {
	rows []*domain.Category
}

func (m *memoryCategories) Create(_ context.Context, c *domain.Category) error {
	for _, r := range m.rows {
		if !r.Deleted && r.Name == c.Name {
			return repository.ErrDuplicate
		}
	}
	c.ID = int64(len(m.rows) + 1)
	copied := *c
	m.rows = append(m.rows, &copied)
	return nil
}

func (m *memoryCategories) Update(_ context.Context, c *domain.Category) error {
	for _, r := range m.rows {
		if !r.Deleted && r.Name == c.Name && r.ID != c.ID {
			return repository.ErrDuplicate
		}
	}
	for _, r := range m.rows {
		if r.ID == c.ID && !r.Deleted {
			*r = *c
			return nil
		}
	}
	return pgx.ErrNoRows
}

func (m *memoryCategories) SoftDelete(_ context.Context, id int64) error {
	for _, r := range m.rows {
		if r.ID == id && !r.Deleted {
			r.Deleted = true
			return nil
		}
	}
	return pgx.ErrNoRows
}

func (m *memoryCategories) GetActiveByID(_ context.Context, id int64) (*domain.Category, error) {
	for _, r := range m.rows {
		if r.ID == id && !r.Deleted {
			copied := *r
			return &copied, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (m *memoryCategories) ListActive(context.Context) ([]domain.Category, error) {
	var out []domain.Category
	for _, r := range m.rows {
		if !r.Deleted {
			out = append(out, *r)
		}
	}
	return out, nil
}

type memoryPosts struct {
	rows       []*domain.Post
	lastFilter repository.PostFilter
}

func (m *memoryPosts) Create(_ context.Context, p *domain.Post) error {
	p.ID = int64(len(m.rows) + 1)
	copied := *p
	m.rows = append(m.rows, &copied)
	return nil
}

func (m *memoryPosts) Update(_ context.Context, p *domain.Post) error {
	for _, r := range m.rows {
		if r.ID == p.ID && !r.Deleted {
			r.Title, r.Content, r.CategoryID = p.Title, p.Content, p.CategoryID
			return nil
		}
	}
	return pgx.ErrNoRows
}

func (m *memoryPosts) SoftDelete(_ context.Context, id int64) error {
	for _, r := range m.rows {
		if r.ID == id && !r.Deleted {
			r.Deleted = true
			return nil
		}
	}
	return pgx.ErrNoRows
}

func (m *memoryPosts) GetActiveByID(_ context.Context, id int64) (*domain.Post, error) {
	for _, r := range m.rows {
		if r.ID == id && !r.Deleted {
			copied := *r
			return &copied, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (m *memoryPosts) ExistsActive(_ context.Context, id int64) (bool, error) {
	for _, r := range m.rows {
		if r.ID == id && !r.Deleted {
			return true, nil
		}
	}
	return false, nil
}

func (m *memoryPosts) List(_ context.Context, filter repository.PostFilter) ([]domain.Post, error) {
	m.lastFilter = filter
	var out []domain.Post
	for i := len(m.rows) - 1; i >= 0; i-- {
		r := m.rows[i]
		if r.Deleted {
			continue
		}
		if filter.Keyword != nil && !strings.Contains(r.Title+r.Content, *filter.Keyword) {
			continue
		}
		out = append(out, *r)
	}
	return out, nil
}

type memoryComments struct {
	rows []*domain.Comment
}

func (m *memoryComments) Create(_ context.Context, c *domain.Comment) error {
	c.ID = int64(len(m.rows) + 1)
	copied := *c
	m.rows = append(m.rows, &copied)
	return nil
}

func (m *memoryComments) UpdateContent(_ context.Context, c *domain.Comment) error {
	for _, r := range m.rows {
		if r.ID == c.ID && !r.Deleted {
			r.Content = c.Content
			return nil
		}
	}
	return pgx.ErrNoRows
}

func (m *memoryComments) SoftDelete(_ context.Context, id int64) error {
	for _, r := range m.rows {
		if r.ID == id && !r.Deleted {
			r.Deleted = true
			return nil
		}
	}
	return pgx.ErrNoRows
}

func (m *memoryComments) GetActiveByID(_ context.Context, id int64) (*domain.Comment, error) {
	for _, r := range m.rows {
		if r.ID == id && !r.Deleted {
			copied := *r
			return &copied, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (m *memoryComments) ListActiveByPost(_ context.Context, postID int64, limit, offset int) ([]domain.Comment, error) {
	var out []domain.Comment
	for _, r := range m.rows {
		if r.PostID == postID && !r.Deleted {
			out = append(out, *r)
		}
	}
	if offset >= len(out) {
		return nil, nil
	}
	out = out[offset:]
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}
