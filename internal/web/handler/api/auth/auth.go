// Package auth serves the JSON login API used by API clients and the
// companion CLI. The returned token is the server side session id.
package auth

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	localauth "github.com/CodeCraft-Studio/studio-site/internal/auth"
	"github.com/CodeCraft-Studio/studio-site/internal/db/models"
	"github.com/CodeCraft-Studio/studio-site/internal/web/handler"
	"github.com/CodeCraft-Studio/studio-site/internal/web/session"
)

// Path is the base path of the auth API.
const Path = handler.APIPath + "/auth"

const msgInvalidCredentials = "invalid email or password"

// User is the public view of an account.
type User struct {
	ID    uint64 `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
}

type loginRequest struct {
	Email    string `json:"email" form:"email"`
	Password string `json:"password" form:"password"`
}

// Service is the auth API handler service.
type Service struct {
	handler.Service
	users    *localauth.LocalProvider
	sessions *session.Manager
}

// Init registers the routes.
func (s *Service) Init(app *fiber.App, deps *handler.Deps) error {
	if app == nil || deps == nil || deps.Users == nil || deps.Sessions == nil {
		return handler.ErrNilDeps
	}

	s.users = deps.Users
	s.sessions = deps.Sessions

	app.Route(Path, func(router fiber.Router) {
		router.Post("/login", s.Login)
		router.Post("/logout", s.Logout)
		router.Get("/session", s.Session)
	})

	return nil
}

// Login checks the credentials, opens a session and sets its cookie.
func (s *Service) Login(c *fiber.Ctx) error {
	var req loginRequest
	if err := c.BodyParser(&req); err != nil {
		return handler.JSONError(c, fiber.StatusBadRequest, "invalid request body")
	}

	if strings.TrimSpace(req.Email) == "" || req.Password == "" {
		return handler.JSONError(c, fiber.StatusBadRequest, "email and password are required")
	}

	user, err := s.users.Authenticate(req.Email, req.Password)

	switch {
	case errors.Is(err, localauth.ErrUserNotFound), errors.Is(err, localauth.ErrInvalidPassword):
		return handler.JSONError(c, fiber.StatusUnauthorized, msgInvalidCredentials)
	case errors.Is(err, localauth.ErrUserAccountDisabled):
		return handler.JSONError(c, fiber.StatusForbidden, err.Error())
	case err != nil:
		log.Error().Err(err).Msg("api login failed")
		return handler.JSONError(c, fiber.StatusInternalServerError, "internal server error")
	}

	token, err := s.sessions.Create(*user)
	if err != nil {
		log.Error().Err(err).Msg("failed to create session")
		return handler.JSONError(c, fiber.StatusInternalServerError, "internal server error")
	}

	s.sessions.SetCookie(c, token)

	log.Info().Str("email", user.Email).Msg("api login")

	return c.JSON(fiber.Map{"token": token, "user": view(user)})
}

// Logout ends the session of the request.
func (s *Service) Logout(c *fiber.Ctx) error {
	token := s.sessions.Token(c)

	_, found, err := s.sessions.Lookup(token)
	if err != nil || !found {
		s.sessions.ClearCookie(c)
		return handler.JSONError(c, fiber.StatusUnauthorized, "unauthorized")
	}

	if err = s.sessions.Delete(token); err != nil {
		log.Error().Err(err).Msg("failed to delete session")
	}

	s.sessions.ClearCookie(c)

	return handler.JSONMessage(c, fiber.StatusOK, "logged out")
}

// Session returns the user of a valid session.
func (s *Service) Session(c *fiber.Ctx) error {
	data, found, err := s.sessions.Lookup(s.sessions.Token(c))
	if err != nil {
		log.Warn().Err(err).Msg("session lookup failed")
	}

	if err != nil || !found {
		return handler.JSONError(c, fiber.StatusUnauthorized, "unauthorized")
	}

	return c.JSON(fiber.Map{"user": view(&data.User)})
}

func view(u *models.User) User {
	return User{ID: u.ID, Email: u.Email, Name: u.Name}
}
