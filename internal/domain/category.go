package domain

import "time"

// Category groups posts by topic.
type Category struct {
	ID          int64
	Name        string
	Description string
	Deleted     bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
