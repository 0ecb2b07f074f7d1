// Package auth authenticates admin accounts stored in the local database.
//
// Accounts log in with e-mail and password. Passwords are stored as Argon2id
// hashes; see models.HashPassword.
//
// Example usage:
//
//	lp := auth.NewLocalProvider(db)
//	user, err := lp.Authenticate("admin@example.com", "secret")
package auth
