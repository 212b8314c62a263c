package dto

import (
	"time"

	"github.com/spec-kit/blog-service/internal/domain"
)

// PostRequest is the create and update payload.
type PostRequest struct {
	Title      string `json:"title"`
	Content    string `json:"content"`
	CategoryID *int64 `json:"category_id"`
}

// PostResponse is the public view of a post.
type PostResponse struct {
	ID         int64     `json:"id"`
	AuthorID   int64     `json:"author_id"`
	AuthorName string    `json:"author_name"`
	CategoryID *int64    `json:"category_id,omitempty"`
	Title      string    `json:"title"`
	Content    string    `json:"content"`
	ViewCount  int64     `json:"view_count"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// PostDetailResponse adds the outcome of view registration.
type PostDetailResponse struct {
	PostResponse
	ViewCounted bool `json:"view_counted"`
}

// NewPostResponse maps a post.
func NewPostResponse(p *domain.Post) PostResponse {
	return PostResponse{
		ID:         p.ID,
		AuthorID:   p.AuthorID,
		AuthorName: p.AuthorName,
		CategoryID: p.CategoryID,
		Title:      p.Title,
		Content:    p.Content,
		ViewCount:  p.ViewCount,
		CreatedAt:  p.CreatedAt,
		UpdatedAt:  p.UpdatedAt,
	}
}

// CategoryRequest is the create and update payload.
type CategoryRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// CategoryResponse is the public view of a category.
type CategoryResponse struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

// NewCategoryResponse maps a category.
func NewCategoryResponse(c *domain.Category) CategoryResponse {
	return CategoryResponse{ID: c.ID, Name: c.Name, Description: c.Description}
}
