package domain

import "time"

type User struct {
	Id         int64
	Username   string
	Email      string
	PassHash   string
	IsVerified bool
}

type Credentials struct {
	Email    Email
	Password Password
}

type ConfirmationData struct {
	Email    Email
	CodeHash string
	Expires  time.Time
}

// LoginToken lets a browser session re-authenticate without a password.
// Single table row, 1 hour expiry, deleted on logout.
type LoginToken struct {
	Email     Email
	Token     string
	ExpiresAt time.Time
}
