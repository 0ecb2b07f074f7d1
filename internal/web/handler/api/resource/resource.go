// Package resource serves the content repositories as a JSON CRUD API.
package resource

import (
	"bytes"
	"errors"
	"fmt"
	"strings"

	"github.com/goccy/go-json"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/CodeCraft-Studio/studio-site/internal/db/controller/content"
	"github.com/CodeCraft-Studio/studio-site/internal/db/repository"
	"github.com/CodeCraft-Studio/studio-site/internal/web/handler"
)

// Service serves one content resource below /api/<name>.
// Reads are public, writes pass through the guard handler.
type Service[T any, P interface {
	*T
	repository.Record
}, I content.Input] struct {
	name      string
	repo      *repository.Repository[T, P]
	validator *content.Validator
}

// New creates the API service for repo.
func New[T any, P interface {
	*T
	repository.Record
}, I content.Input](name string, repo *repository.Repository[T, P], v *content.Validator) *Service[T, P, I] {
	return &Service[T, P, I]{name: name, repo: repo, validator: v}
}

// Path is the collection path of the resource.
func (s *Service[T, P, I]) Path() string {
	return handler.APIPath + "/" + s.name
}

// Register adds the routes to app. Unsupported methods on known paths
// answer 405 through fiber's router.
func (s *Service[T, P, I]) Register(app *fiber.App, guard fiber.Handler) {
	app.Route(s.Path(), func(router fiber.Router) {
		router.Get(handler.RouterRootPath, s.List)
		router.Post(handler.RouterRootPath, guard, s.Create)
		router.Get("/:id", s.Get)
		router.Put("/:id", guard, s.Update)
		router.Patch("/:id", guard, s.Update)
		router.Delete("/:id", guard, s.Delete)
	})
}

// List returns all records, newest first.
func (s *Service[T, P, I]) List(c *fiber.Ctx) error {
	items, err := s.repo.GetAll(c.UserContext())
	if err != nil {
		return s.fail(c, err)
	}

	if items == nil {
		items = []T{}
	}

	return c.JSON(items)
}

// Get returns one record.
func (s *Service[T, P, I]) Get(c *fiber.Ctx) error {
	item, err := s.repo.GetByID(c.UserContext(), c.Params("id"))
	if err != nil {
		return s.fail(c, err)
	}

	return c.JSON(item)
}

// Create validates the body and stores a new record.
func (s *Service[T, P, I]) Create(c *fiber.Ctx) error {
	in, err := s.parse(c)
	if err != nil {
		return handler.JSONError(c, fiber.StatusBadRequest, err.Error())
	}

	if err = s.validator.Create(in); err != nil {
		return s.fail(c, err)
	}

	item, err := s.repo.Create(c.UserContext(), in.Values())
	if err != nil {
		return s.fail(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(item)
}

// Update applies the body as a partial change and returns the record.
func (s *Service[T, P, I]) Update(c *fiber.Ctx) error {
	in, err := s.parse(c)
	if err != nil {
		return handler.JSONError(c, fiber.StatusBadRequest, err.Error())
	}

	if err = s.validator.Update(in); err != nil {
		return s.fail(c, err)
	}

	id := c.Params("id")

	if err = s.repo.Update(c.UserContext(), id, in.Values()); err != nil {
		return s.fail(c, err)
	}

	item, err := s.repo.GetByID(c.UserContext(), id)
	if err != nil {
		return s.fail(c, err)
	}

	return c.JSON(item)
}

// Delete removes a record and its children.
func (s *Service[T, P, I]) Delete(c *fiber.Ctx) error {
	if err := s.repo.Delete(c.UserContext(), c.Params("id")); err != nil {
		return s.fail(c, err)
	}

	return handler.JSONMessage(c, fiber.StatusOK, s.name+" deleted")
}

func (s *Service[T, P, I]) parse(c *fiber.Ctx) (I, error) {
	var in I

	if !strings.HasPrefix(strings.ToLower(c.Get(fiber.HeaderContentType)), fiber.MIMEApplicationJSON) {
		if err := c.BodyParser(&in); err != nil {
			return in, errors.New("invalid request body")
		}

		return in, nil
	}

	// keys the input type does not declare are rejected, not dropped
	dec := json.NewDecoder(bytes.NewReader(c.Body()))
	dec.DisallowUnknownFields()

	if err := dec.Decode(&in); err != nil {
		return in, fmt.Errorf("invalid request body: %w", err)
	}

	return in, nil
}

func (s *Service[T, P, I]) fail(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, content.ErrInvalidInput):
		return handler.JSONError(c, fiber.StatusBadRequest, err.Error())
	case errors.Is(err, repository.ErrNotFound):
		return handler.JSONError(c, fiber.StatusNotFound, s.name+" not found")
	case errors.Is(err, repository.ErrUnknownField):
		return handler.JSONError(c, fiber.StatusBadRequest, err.Error())
	default:
		log.Error().Err(err).Str("resource", s.name).Str("path", c.Path()).Msg("storage failure")
		return handler.JSONError(c, fiber.StatusInternalServerError, "internal server error")
	}
}
