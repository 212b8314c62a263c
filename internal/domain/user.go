package domain

import "time"

// User is a registered blog member.
type User struct {
	ID           int64
	Email        string
	PasswordHash string
	Nickname     string
	Role         Role
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
