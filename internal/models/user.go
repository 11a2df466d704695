package models

import "time"

// User represents an account of the together application.
type User struct {
	// ID is the unique identifier for the user (UUID format).
	ID string

	// Username is the unique login name.
	Username string

	FirstName string
	LastName  string

	// Email is optional.
	Email string

	// PasswordHash is the bcrypt hash of the user's password.
	// Empty for users that cannot log in.
	PasswordHash string

	// IsStaff marks users allowed to sign in to the admin console.
	IsStaff bool

	// RoomID is the room the user joined, or empty if none.
	RoomID string

	// Room is populated by list queries when RoomID is set. Nil otherwise.
	Room *Room

	// CreatedAt is the Unix timestamp when the account was created.
	CreatedAt int64
}

// NewStaffUser creates a staff user with a fresh timestamp.
// The ID is assigned by the store.
func NewStaffUser(username, email, passwordHash string) *User {
	return &User{
		Username:     username,
		Email:        email,
		PasswordHash: passwordHash,
		IsStaff:      true,
		CreatedAt:    time.Now().Unix(),
	}
}
