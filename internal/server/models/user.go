// Package models holds the entities passed by value between repositories,
// services and transports.
package models

import "time"

// User is a registered account. PasswordHash is an opaque encoded digest,
// never the plaintext.
type User struct {
	ID           int64
	Email        string
	Username     string
	PasswordHash string
	CreatedAt    time.Time
}

// NewUser is the insert shape; the repository assigns ID and CreatedAt.
type NewUser struct {
	Email        string
	Username     string
	PasswordHash string
}

// Principal is the caller identity resolved from a verified token. It lives
// for one request and is never persisted.
type Principal struct {
	ID    int64
	Email string

	// TokenID and TokenExpiresAt identify the presented token so it can be
	// revoked on logout.
	TokenID        string
	TokenExpiresAt time.Time
}
