// Package dashboard provides the admin landing page with content counts.
package dashboard

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/CodeCraft-Studio/studio-site/internal/backend"
	"github.com/CodeCraft-Studio/studio-site/internal/db/controller/content"
	"github.com/CodeCraft-Studio/studio-site/internal/web/handler"
	"github.com/CodeCraft-Studio/studio-site/internal/web/middleware/gate"
	"github.com/CodeCraft-Studio/studio-site/internal/web/navigation"
	"github.com/CodeCraft-Studio/studio-site/internal/web/session"
)

const (
	// Path is the path to the dashboard page.
	Path = handler.AdminPath

	// TemplateName is the name of the dashboard template.
	TemplateName = "dashboard/dashboard"

	defaultTimeout = 10 * time.Second
)

// Counts are the numbers shown on the dashboard. A negative value means the
// source could not be reached.
type Counts struct {
	Experts    int64
	Services   int64
	Industries int64
	Projects   int64
}

// Service is the dashboard handler service.
type Service struct {
	handler.Service
	store    *content.Store
	backend  *backend.Client
	sessions *session.Manager
}

// Init initializes the dashboard handler.
func (s *Service) Init(app *fiber.App, deps *handler.Deps) error {
	if app == nil || deps == nil || deps.Content == nil || deps.Sessions == nil {
		return handler.ErrNilDeps
	}

	s.store = deps.Content
	s.backend = deps.Backend
	s.sessions = deps.Sessions

	app.Get(Path, s.Get)

	return nil
}

// Get handles the dashboard page rendering.
func (s *Service) Get(c *fiber.Ctx) error {
	nav := navigation.NewContext("Dashboard", navigation.SectionDashboard, "dashboard").
		AddBreadcrumb("Dashboard", Path, true)

	ctx, cancel := context.WithTimeout(c.UserContext(), defaultTimeout)
	defer cancel()

	counts := s.counts(ctx, s.sessions.Token(c))

	log.Debug().
		Int64("experts", counts.Experts).
		Int64("services", counts.Services).
		Int64("industries", counts.Industries).
		Int64("projects", counts.Projects).
		Msg("dashboard counts retrieved")

	user, _ := gate.CurrentUser(c)

	return c.Render(TemplateName, fiber.Map{
		"Navigation": nav,
		"Counts":     counts,
		"User":       user,
	}, handler.BaseLayout)
}

func (s *Service) counts(ctx context.Context, token string) Counts {
	count := func(name string, fn func(context.Context) (int64, error)) int64 {
		n, err := fn(ctx)
		if err != nil {
			log.Error().Err(err).Str("resource", name).Msg("failed to count")
			return -1
		}

		return n
	}

	out := Counts{
		Experts:    count("experts", s.store.Experts.Count),
		Services:   count("services", s.store.Services.Count),
		Industries: count("industries", s.store.Industries.Count),
		Projects:   -1,
	}

	if s.backend != nil {
		out.Projects = count("projects", func(ctx context.Context) (int64, error) {
			list, err := s.backend.WithToken(backend.StaticToken(token)).Projects().List(ctx)
			return int64(len(list)), err
		})
	}

	return out
}
