package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/CodeCraft-Studio/studio-site/internal/auth"
	"github.com/CodeCraft-Studio/studio-site/internal/backend"
	"github.com/CodeCraft-Studio/studio-site/internal/blob"
	"github.com/CodeCraft-Studio/studio-site/internal/config"
	"github.com/CodeCraft-Studio/studio-site/internal/db/controller/content"
	"github.com/CodeCraft-Studio/studio-site/internal/web/session"
)

// ErrNilDeps is returned by Init when a required dependency is missing.
var ErrNilDeps = errors.New(ErrNilDepsFatalLogMsg)

// Deps bundles the services handlers are built on.
type Deps struct {
	Cfg       *config.Config
	Content   *content.Store
	Validator *content.Validator
	Users     *auth.LocalProvider
	Sessions  *session.Manager
	Blobs     blob.Store
	Backend   *backend.Client // nil when no project backend is configured
}

// Service is the interface for a web handler service.
type Service interface {
	Init(app *fiber.App, deps *Deps) error
}

// JSONError writes {"error": msg} with status.
func JSONError(c *fiber.Ctx, status int, msg string) error {
	return c.Status(status).JSON(fiber.Map{"error": msg})
}

// JSONMessage writes {"message": msg} with status.
func JSONMessage(c *fiber.Ctx, status int, msg string) error {
	return c.Status(status).JSON(fiber.Map{"message": msg})
}
