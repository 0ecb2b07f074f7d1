// Package projects provides the admin pages for projects, which live on the
// REST backend. Requests are made with the admin's session token.
package projects

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/CodeCraft-Studio/studio-site/internal/backend"
	"github.com/CodeCraft-Studio/studio-site/internal/db/controller/content"
	"github.com/CodeCraft-Studio/studio-site/internal/web/handler"
	"github.com/CodeCraft-Studio/studio-site/internal/web/handler/api/upload"
	"github.com/CodeCraft-Studio/studio-site/internal/web/handler/login"
	"github.com/CodeCraft-Studio/studio-site/internal/web/navigation"
	"github.com/CodeCraft-Studio/studio-site/internal/web/session"
)

const (
	// Path is the base path for project management.
	Path = handler.AdminPath + "/projects"

	// TemplateList is the template for listing projects.
	TemplateList = "admin/projects/list"
	// TemplateForm is the template for creating/updating a project.
	TemplateForm = "admin/projects/form"

	defaultTimeout = 30 * time.Second
)

// ErrNoBackend is shown when no project backend is configured.
var ErrNoBackend = errors.New("project backend is not configured")

// Form is the submitted project form. Tags and features are one per line.
type Form struct {
	Title       string `form:"title" validate:"required,max=255"`
	Description string `form:"description" validate:"required"`
	Link        string `form:"link" validate:"omitempty,url,max=1024"`
	Gradient    string `form:"gradient" validate:"max=255"`
	Image       string `form:"image" validate:"omitempty,max=1024"`
	Tags        string `form:"tags"`
	Features    string `form:"features"`
}

func (f *Form) input() backend.ProjectInput {
	return backend.ProjectInput{
		Title:       strings.TrimSpace(f.Title),
		Description: strings.TrimSpace(f.Description),
		Link:        strings.TrimSpace(f.Link),
		Gradient:    strings.TrimSpace(f.Gradient),
		ImageURL:    strings.TrimSpace(f.Image),
		Tags:        content.SplitLines(f.Tags),
		Features:    content.SplitLines(f.Features),
	}
}

// Service provides CRUD pages for projects.
type Service struct {
	handler.Service
	client    *backend.Client
	sessions  *session.Manager
	validator *validator.Validate
	maxSize   int64
}

// Init registers routes.
func (s *Service) Init(app *fiber.App, deps *handler.Deps) error {
	if app == nil || deps == nil || deps.Sessions == nil {
		return handler.ErrNilDeps
	}

	s.client = deps.Backend
	s.sessions = deps.Sessions
	s.validator = validator.New()

	if deps.Cfg != nil {
		s.maxSize = deps.Cfg.Upload.MaxSize
	}

	app.Route(Path, func(router fiber.Router) {
		router.Get(handler.RouterRootPath, s.List)
		router.Get("/new", s.New)
		router.Post(handler.RouterRootPath, s.Create)
		router.Get("/:id/edit", s.Edit)
		router.Post("/:id", s.Update)
		router.Post("/:id/delete", s.Delete)
	})

	return nil
}

func (s *Service) projects(c *fiber.Ctx) (*backend.Projects, error) {
	if s.client == nil {
		return nil, ErrNoBackend
	}

	return s.client.WithToken(backend.StaticToken(s.sessions.Token(c))).Projects(), nil
}

func nav(active string) *navigation.Context {
	return navigation.Page("Projects", navigation.SectionContent, "projects", Path).Child(active)
}

// List shows all projects.
func (s *Service) List(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.UserContext(), defaultTimeout)
	defer cancel()

	p, err := s.projects(c)
	if err != nil {
		return s.renderList(c, nil, err)
	}

	items, err := p.List(ctx)
	if err != nil {
		if errors.Is(err, backend.ErrUnauthorized) {
			return s.reauthenticate(c)
		}

		log.Error().Err(err).Msg("failed to list projects")
	}

	return s.renderList(c, items, err)
}

// New renders an empty form.
func (s *Service) New(c *fiber.Ctx) error {
	return s.renderForm(c, fiber.StatusOK, "", &Form{}, nil)
}

// Create sends a new project to the backend.
func (s *Service) Create(c *fiber.Ctx) error {
	return s.save(c, "")
}

// Edit renders the form of an existing project.
func (s *Service) Edit(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.UserContext(), defaultTimeout)
	defer cancel()

	p, err := s.projects(c)
	if err != nil {
		return s.renderForm(c, fiber.StatusServiceUnavailable, "", &Form{}, err)
	}

	id := c.Params("id")

	item, err := p.Get(ctx, id)

	switch {
	case errors.Is(err, backend.ErrUnauthorized):
		return s.reauthenticate(c)
	case backend.IsNotFound(err):
		return fiber.ErrNotFound
	case err != nil:
		log.Error().Err(err).Str("id", id).Msg("failed to load project")
		return s.renderForm(c, fiber.StatusBadGateway, id, &Form{}, err)
	}

	return s.renderForm(c, fiber.StatusOK, id, &Form{
		Title:       item.Title,
		Description: item.Description,
		Link:        item.Link,
		Gradient:    item.Gradient,
		Image:       item.Image,
		Tags:        strings.Join(item.Tags, "\n"),
		Features:    strings.Join(item.Features, "\n"),
	}, nil)
}

// Update sends the changed project to the backend.
func (s *Service) Update(c *fiber.Ctx) error {
	return s.save(c, c.Params("id"))
}

// Delete removes a project.
func (s *Service) Delete(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.UserContext(), defaultTimeout)
	defer cancel()

	p, err := s.projects(c)
	if err != nil {
		return s.renderList(c, nil, err)
	}

	err = p.Delete(ctx, c.Params("id"))

	switch {
	case errors.Is(err, backend.ErrUnauthorized):
		return s.reauthenticate(c)
	case backend.IsNotFound(err):
		return fiber.ErrNotFound
	case err != nil:
		log.Error().Err(err).Str("id", c.Params("id")).Msg("failed to delete project")
		return s.renderList(c, nil, err)
	}

	return c.Redirect(Path)
}

func (s *Service) save(c *fiber.Ctx, id string) error {
	form := new(Form)
	if err := c.BodyParser(form); err != nil {
		return s.renderForm(c, fiber.StatusBadRequest, id, form, errors.New("invalid form data"))
	}

	if err := s.validator.Struct(form); err != nil {
		return s.renderForm(c, fiber.StatusBadRequest, id, form, describe(err))
	}

	in := form.input()

	file, err := s.imageFile(c)
	if err != nil {
		return s.renderForm(c, fiber.StatusBadRequest, id, form, err)
	}

	in.File = file

	p, err := s.projects(c)
	if err != nil {
		return s.renderForm(c, fiber.StatusServiceUnavailable, id, form, err)
	}

	ctx, cancel := context.WithTimeout(c.UserContext(), defaultTimeout)
	defer cancel()

	if id == "" {
		_, err = p.Create(ctx, in)
	} else {
		_, err = p.Update(ctx, id, in)
	}

	switch {
	case errors.Is(err, backend.ErrUnauthorized):
		return s.reauthenticate(c)
	case backend.IsNotFound(err):
		return fiber.ErrNotFound
	case err != nil:
		log.Error().Err(err).Str("id", id).Msg("failed to save project")
		return s.renderForm(c, fiber.StatusBadGateway, id, form, err)
	}

	return c.Redirect(Path)
}

// reauthenticate drops the session the backend refused and sends the
// browser to the login page.
func (s *Service) reauthenticate(c *fiber.Ctx) error {
	if err := s.sessions.Delete(s.sessions.Token(c)); err != nil {
		log.Error().Err(err).Msg("failed to delete session")
	}

	s.sessions.ClearCookie(c)

	return c.Redirect(login.Path)
}

func (s *Service) renderList(c *fiber.Ctx, items []backend.Project, err error) error {
	data := fiber.Map{
		"Navigation": nav(""),
		"Items":      items,
	}

	status := fiber.StatusOK

	if err != nil {
		data["error"] = err.Error()
		status = fiber.StatusBadGateway

		if errors.Is(err, ErrNoBackend) {
			status = fiber.StatusServiceUnavailable
		}
	}

	return c.Status(status).Render(TemplateList, data, handler.BaseLayout)
}

func (s *Service) renderForm(c *fiber.Ctx, status int, id string, form *Form, err error) error {
	label, action := "New", Path
	if id != "" {
		label, action = "Edit", Path+"/"+id
	}

	data := fiber.Map{
		"Navigation": nav(label),
		"Form":       form,
		"Action":     action,
		"ID":         id,
	}

	if err != nil {
		data["error"] = err.Error()
	}

	return c.Status(status).Render(TemplateForm, data, handler.BaseLayout)
}

// imageFile returns the optional uploaded image, checked like /api/upload.
func (s *Service) imageFile(c *fiber.Ctx) (*backend.FormFile, error) {
	fh, err := c.FormFile("image_file")
	if err != nil {
		return nil, nil //nolint:nilerr // no file part
	}

	img, err := upload.ReadImage(fh, s.maxSize)
	if err != nil {
		return nil, errors.New(upload.Message(err, s.maxSize)) //nolint:goerr113
	}

	return &backend.FormFile{
		Name:        img.Name,
		ContentType: img.MIME.String(),
		Data:        img.Data,
	}, nil
}

func describe(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}

	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, strings.ToLower(fe.Field())+" is invalid ("+fe.Tag()+")")
	}

	return errors.New(strings.Join(msgs, ", "))
}
