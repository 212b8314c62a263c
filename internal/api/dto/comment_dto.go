package dto

import (
	"time"

	"github.com/spec-kit/blog-service/internal/domain"
)

// CommentCreateRequest carries author_name and password for anonymous callers.
type CommentCreateRequest struct {
	Content    string `json:"content"`
	AuthorName string `json:"author_name"`
	Password   string `json:"password"`
}

// CommentUpdateRequest edits content; password authorizes anonymous comments.
type CommentUpdateRequest struct {
	Content  string `json:"content"`
	Password string `json:"password"`
}

// CommentDeleteRequest optionally carries the anonymous password.
type CommentDeleteRequest struct {
	Password string `json:"password"`
}

// CommentResponse never includes the secret hash.
type CommentResponse struct {
	ID         int64     `json:"id"`
	PostID     int64     `json:"post_id"`
	UserID     *int64    `json:"user_id,omitempty"`
	AuthorName string    `json:"author_name"`
	Anonymous  bool      `json:"anonymous"`
	Content    string    `json:"content"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// NewCommentResponse maps a comment.
func NewCommentResponse(c *domain.Comment) CommentResponse {
	return CommentResponse{
		ID:         c.ID,
		PostID:     c.PostID,
		UserID:     c.UserID,
		AuthorName: c.AuthorName,
		Anonymous:  c.Anonymous(),
		Content:    c.Content,
		CreatedAt:  c.CreatedAt,
		UpdatedAt:  c.UpdatedAt,
	}
}
