package types

import "time"

// User represents an account in the marketplace.
type User struct {
	// ID is the unique identifier of the user.
	ID int `json:"id" db:"id"`

	// Username is the unique login name chosen by the user.
	Username string `json:"username" db:"username"`

	// Email is the user's unique email address.
	Email string `json:"email" db:"email"`

	// Name is the user's display name. Optional.
	Name string `json:"name" db:"name"`

	// Bio is a short free-form profile description. Optional.
	Bio string `json:"bio" db:"bio"`

	// Avatar is a URL pointing at the user's profile image. Optional.
	Avatar string `json:"avatar" db:"avatar"`

	// PasswordHash stores the hashed representation of the user's password.
	// This field is never exposed in API responses.
	PasswordHash string `json:"-" db:"password_hash"`

	// CreatedAt is the timestamp when the user account was created.
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// UserUpdate describes a partial update to a user profile. Nil fields are
// left unchanged. Only profile fields are mutable after registration.
type UserUpdate struct {
	Name   *string `json:"name"`
	Bio    *string `json:"bio"`
	Avatar *string `json:"avatar"`
}
