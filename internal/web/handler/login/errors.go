// Package login provides the admin login page.
//
// This file defines exported error values used throughout the login flow.
package login

import "errors"

var (
	// ErrInvalidFormData is returned when the submitted login form cannot be parsed
	// or misses a field.
	ErrInvalidFormData = errors.New("invalid form data")

	// ErrInvalidCredentials is returned when the email and password do not
	// match an account.
	ErrInvalidCredentials = errors.New("invalid email or password")

	// ErrAccountDisabled is returned for accounts that may not log in.
	ErrAccountDisabled = errors.New("account is disabled")

	// ErrInternalServerError is returned for unexpected failures during the login
	// process.
	ErrInternalServerError = errors.New("internal server error")
)
