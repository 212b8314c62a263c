package domain

import "time"

// Post is a blog article.
type Post struct {
	ID         int64
	AuthorID   int64
	AuthorName string
	CategoryID *int64
	Title      string
	Content    string
	ViewCount  int64
	Deleted    bool
	CreatedAt  time.Time
	UpdatedAt  time.Time
}
