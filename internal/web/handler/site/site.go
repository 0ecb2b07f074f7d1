// Package site renders the public marketing pages.
package site

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/CodeCraft-Studio/studio-site/internal/backend"
	"github.com/CodeCraft-Studio/studio-site/internal/db/controller/content"
	"github.com/CodeCraft-Studio/studio-site/internal/web/handler"
)

const defaultTimeout = 10 * time.Second

// Step is one stage of the delivery process page.
type Step struct {
	Title       string
	Description string
}

// Process is the fixed content of the process page.
var Process = []Step{ //nolint:gochecknoglobals
	{"Discovery", "We learn your goals, users and constraints."},
	{"Design", "We shape the solution and agree on scope."},
	{"Development", "We build in short iterations with regular demos."},
	{"Launch", "We ship, monitor and hand over."},
	{"Support", "We keep improving after go-live."},
}

// Service is the public pages handler service.
type Service struct {
	handler.Service
	title   string
	store   *content.Store
	backend *backend.Client
}

// Init registers the public routes.
func (s *Service) Init(app *fiber.App, deps *handler.Deps) error {
	if app == nil || deps == nil || deps.Content == nil {
		return handler.ErrNilDeps
	}

	s.store = deps.Content
	s.backend = deps.Backend

	if deps.Cfg != nil {
		s.title = deps.Cfg.Title
	}

	app.Get(handler.RootPath, s.Home)
	app.Get("/services", s.Services)
	app.Get("/process", s.ProcessPage)
	app.Get("/team", s.Team)
	app.Get("/industries", s.Industries)
	app.Get("/projects", s.Projects)

	return nil
}

func (s *Service) render(c *fiber.Ctx, page string, data fiber.Map) error {
	data["SiteTitle"] = s.title
	data["Page"] = page

	return c.Render("site/"+page, data, handler.PublicLayout)
}

// Home shows services and experts side by side.
func (s *Service) Home(c *fiber.Ctx) error {
	return s.render(c, "home", fiber.Map{
		"Services": load(c, "services", s.store.Services.GetAll),
		"Experts":  load(c, "experts", s.store.Experts.GetAll),
	})
}

// Services lists the services.
func (s *Service) Services(c *fiber.Ctx) error {
	return s.render(c, "services", fiber.Map{"Services": load(c, "services", s.store.Services.GetAll)})
}

// ProcessPage shows the delivery process.
func (s *Service) ProcessPage(c *fiber.Ctx) error {
	return s.render(c, "process", fiber.Map{"Steps": Process})
}

// Team lists the experts.
func (s *Service) Team(c *fiber.Ctx) error {
	return s.render(c, "team", fiber.Map{"Experts": load(c, "experts", s.store.Experts.GetAll)})
}

// Industries lists the industries.
func (s *Service) Industries(c *fiber.Ctx) error {
	return s.render(c, "industries", fiber.Map{"Industries": load(c, "industries", s.store.Industries.GetAll)})
}

// Projects lists the projects of the backend. Failures render the empty state.
func (s *Service) Projects(c *fiber.Ctx) error {
	items := []backend.Project{}

	if s.backend != nil {
		ctx, cancel := context.WithTimeout(c.UserContext(), defaultTimeout)
		defer cancel()

		list, err := s.backend.Projects().List(ctx)
		if err != nil {
			log.Warn().Err(err).Msg("failed to load projects")
		} else {
			items = list
		}
	}

	return s.render(c, "projects", fiber.Map{"Projects": items})
}

// load runs a repository listing. Errors are logged and yield an empty list.
func load[T any](c *fiber.Ctx, name string, fn func(context.Context) ([]T, error)) []T {
	ctx, cancel := context.WithTimeout(c.UserContext(), defaultTimeout)
	defer cancel()

	items, err := fn(ctx)
	if err != nil {
		log.Warn().Err(err).Str("resource", name).Msg("failed to load content")
		return []T{}
	}

	if items == nil {
		return []T{}
	}

	return items
}
