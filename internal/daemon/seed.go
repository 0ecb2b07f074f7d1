package daemon

import (
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/CodeCraft-Studio/studio-site/internal/auth"
	"github.com/CodeCraft-Studio/studio-site/internal/config"
)

// seed creates the configured admin account when no account exists.
func seed(cfg *config.Config, users *auth.LocalProvider) error {
	if cfg.Admin.Email == "" || cfg.Admin.Password == "" {
		return nil
	}

	count, err := users.CountUsers()
	if err != nil {
		return fmt.Errorf("count users: %w", err)
	}

	if count > 0 {
		return nil
	}

	if _, err = users.CreateUser(cfg.Admin.Email, cfg.Admin.Password, cfg.Admin.Name); err != nil {
		return fmt.Errorf("seed admin: %w", err)
	}

	log.Warn().Str("email", cfg.Admin.Email).Msg("created initial admin account, change its password")

	return nil
}
