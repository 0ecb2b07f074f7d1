package login

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/CodeCraft-Studio/studio-site/internal/auth"
	"github.com/CodeCraft-Studio/studio-site/internal/db/models"
	"github.com/CodeCraft-Studio/studio-site/internal/web/handler"
	"github.com/CodeCraft-Studio/studio-site/internal/web/session"
)

const (
	// Path is the path to the login page.
	Path = handler.AdminPath + "/login"

	// TemplateName is the login template.
	TemplateName = "login"
)

// Form is the submitted login form.
type Form struct {
	Email    string `form:"email"`
	Password string `form:"password"`
}

// Service is the login handler service.
type Service struct {
	handler.Service
	users    *auth.LocalProvider
	sessions *session.Manager
}

// Init initializes the login handler.
func (s *Service) Init(app *fiber.App, deps *handler.Deps) error {
	if app == nil || deps == nil || deps.Users == nil || deps.Sessions == nil {
		return handler.ErrNilDeps
	}

	s.users = deps.Users
	s.sessions = deps.Sessions

	app.Route(Path, func(router fiber.Router) {
		router.Get(handler.RouterRootPath, s.Get)
		router.Post(handler.RouterRootPath, s.Post)
	})

	return nil
}

// Get handles the login page rendering.
func (s *Service) Get(c *fiber.Ctx) error {
	return c.Render(TemplateName, fiber.Map{})
}

// Post handles the login form submission.
func (s *Service) Post(c *fiber.Ctx) error {
	form := new(Form)

	if err := c.BodyParser(form); err != nil || strings.TrimSpace(form.Email) == "" || form.Password == "" {
		return s.renderError(c, ErrInvalidFormData, form.Email)
	}

	user, err := s.authenticate(form.Email, form.Password)
	if err != nil {
		return s.renderError(c, err, form.Email)
	}

	sessionID, err := s.sessions.Create(*user)
	if err != nil {
		log.Error().Err(err).Msg("failed to write session")
		return s.renderError(c, ErrInternalServerError, form.Email)
	}

	s.sessions.SetCookie(c, sessionID)

	log.Info().Str("email", user.Email).Msg("admin login")

	return c.Redirect(handler.AdminPath)
}

func (s *Service) authenticate(email, password string) (*models.User, error) {
	user, err := s.users.Authenticate(email, password)

	switch {
	case errors.Is(err, auth.ErrUserNotFound), errors.Is(err, auth.ErrInvalidPassword):
		log.Debug().Str("email", email).Msg("login rejected")
		return nil, ErrInvalidCredentials
	case errors.Is(err, auth.ErrUserAccountDisabled):
		return nil, ErrAccountDisabled
	case err != nil:
		log.Error().Err(err).Msg("login failed")
		return nil, ErrInternalServerError
	}

	return user, nil
}

func (s *Service) renderError(c *fiber.Ctx, err error, email string) error {
	return c.Render(TemplateName, fiber.Map{
		"error": err.Error(),
		"email": email,
	})
}
