package models

import (
	"time"

	"github.com/alexedwards/argon2id"
	"github.com/rs/zerolog/log"
)

// User is an admin account of the dashboard.
// Accounts authenticate with e-mail and password only.
type User struct {
	// ID is the unique identifier for the user.
	ID uint64 `gorm:"primaryKey" json:"id"`
	// Active indicates whether the account may log in.
	Active bool `json:"active"`
	// Email is the unique login name.
	Email string `gorm:"unique;size:255;not null" json:"email"`
	// Password is the Argon2id hash of the password.
	Password string `gorm:"size:255;not null" json:"-"`
	// Name is shown in the dashboard header.
	Name string `gorm:"size:255" json:"name"`
	// CreatedAt is managed by GORM.
	CreatedAt time.Time `json:"created_at"`
	// UpdatedAt is managed by GORM.
	UpdatedAt time.Time `json:"updated_at"`
}

// HashPassword hashes a plaintext password using Argon2id with the default parameters.
func HashPassword(password string) (string, error) {
	return argon2id.CreateHash(password, argon2id.DefaultParams) //nolint:wrapcheck
}

// VerifyPassword verifies a plaintext password against the stored hash.
// It uses constant-time comparison and returns false on malformed hashes.
func (u *User) VerifyPassword(password string) bool {
	match, err := argon2id.ComparePasswordAndHash(password, u.Password)
	if err != nil {
		log.Error().Err(err).Uint64("user", u.ID).Msg("failed to verify password")
		return false
	}

	return match
}
