// Package logout ends admin sessions.
package logout

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/CodeCraft-Studio/studio-site/internal/web/handler"
	"github.com/CodeCraft-Studio/studio-site/internal/web/handler/login"
	"github.com/CodeCraft-Studio/studio-site/internal/web/session"
)

// Path is the logout route.
const Path = handler.AdminPath + "/logout"

// Service is the logout handler service.
type Service struct {
	handler.Service
	sessions *session.Manager
}

// Init initializes the logout handler.
func (s *Service) Init(app *fiber.App, deps *handler.Deps) error {
	if app == nil || deps == nil || deps.Sessions == nil {
		return handler.ErrNilDeps
	}

	s.sessions = deps.Sessions

	app.Get(Path, s.Logout)
	app.Post(Path, s.Logout)

	return nil
}

// Logout handles user logout by clearing the session.
func (s *Service) Logout(c *fiber.Ctx) error {
	if err := s.sessions.Delete(s.sessions.Token(c)); err != nil {
		log.Error().Err(err).Msg("failed to delete session")
	}

	s.sessions.ClearCookie(c)

	return c.Redirect(login.Path)
}
