package domain

import "time"

// User represents a registered account.
type User struct {
	ID           int64
	Username     string
	PasswordHash string
	About        string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
