package model

import "time"

// UserID uniquely identifies a user account
type UserID int64

// User is a registered account that can log in
// Stored separately from sessions so the hash never travels with a session
type User struct {
	ID           UserID
	Username     string // login username (immutable, case-sensitive)
	PasswordHash string // bcrypt hash
	CreatedAt    time.Time
}
