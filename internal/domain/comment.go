package domain

import "time"

// Comment is written either by a member (UserID set) or anonymously (SecretHash set).
type Comment struct {
	ID         int64
	PostID     int64
	UserID     *int64
	AuthorName string
	SecretHash string
	Content    string
	Deleted    bool
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// Anonymous reports whether the comment was created without an account.
func (c *Comment) Anonymous() bool {
	return c.UserID == nil
}
