package domain

import "time"

// Account is the login identity for everyone using the helpdesk.
type Account struct {
	ID           int64
	Username     string
	Email        string
	PasswordHash string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
