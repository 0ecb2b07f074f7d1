// Package web assembles the fiber application serving the public site, the
// admin dashboard and the JSON API.
package web

import (
	"errors"
	"html/template"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/goccy/go-json"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/filesystem"
	"github.com/gofiber/template/html/v2"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"

	"github.com/CodeCraft-Studio/studio-site/internal/blob"
	adapter "github.com/CodeCraft-Studio/studio-site/internal/logger/adapter/fiber"
	"github.com/CodeCraft-Studio/studio-site/internal/web/handler"
	"github.com/CodeCraft-Studio/studio-site/internal/web/handler/admin/content"
	"github.com/CodeCraft-Studio/studio-site/internal/web/handler/admin/projects"
	"github.com/CodeCraft-Studio/studio-site/internal/web/handler/admin/user"
	apiauth "github.com/CodeCraft-Studio/studio-site/internal/web/handler/api/auth"
	"github.com/CodeCraft-Studio/studio-site/internal/web/handler/api/resource"
	"github.com/CodeCraft-Studio/studio-site/internal/web/handler/api/upload"
	"github.com/CodeCraft-Studio/studio-site/internal/web/handler/dashboard"
	"github.com/CodeCraft-Studio/studio-site/internal/web/handler/login"
	"github.com/CodeCraft-Studio/studio-site/internal/web/handler/logout"
	"github.com/CodeCraft-Studio/studio-site/internal/web/handler/site"
	"github.com/CodeCraft-Studio/studio-site/internal/web/middleware/gate"
)

const (
	// CheckAlivePath answers liveness checks.
	CheckAlivePath = "/checkalive"

	// MetricsPath exposes prometheus metrics.
	MetricsPath = "/metrics"

	base64Alphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789+/="

	// uploadOverhead is multipart framing allowed on top of the upload ceiling.
	uploadOverhead = 1 << 20
)

// Service represents the web service.
type Service struct {
	App          *fiber.App
	deps         *handler.Deps
	fastShutDown bool
	alive        atomic.Bool
}

// Start starts the web service on the given address.
func (s *Service) Start(addr string) error {
	var doneFiber = make(chan bool)

	go func() {
		if err := s.App.Listen(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Msgf("fiber listen error: %v", err)
		}

		doneFiber <- true
	}()

	<-doneFiber // wait for fiber to stop

	return nil
}

// WaitShutdown waits for a signal and shuts the server down gracefully.
func (s *Service) WaitShutdown() {
	irqSig := make(chan os.Signal, 1)
	signal.Notify(irqSig, syscall.SIGINT, syscall.SIGTERM)

	sig := <-irqSig
	log.Info().Msgf("shutdown request (signal: %v)", sig)

	// Graceful shutdown for reverse proxies: set status to fail, so checkalive returns fail.
	if !s.fastShutDown {
		log.Info().Msgf(
			"graceful shutdown: return 503 while %d seconds to let LB to remove this pod from active targets",
			s.deps.Cfg.Webserver.ShutDownTime,
		)

		s.alive.Store(false)
		time.Sleep(time.Duration(s.deps.Cfg.Webserver.ShutDownTime) * time.Second)
	}

	serverShutdown := make(chan struct{})

	go func() {
		log.Info().Msg("stopping http server ...")

		if err := s.App.Shutdown(); err != nil {
			log.Error().Err(err).Msg("")
		}

		serverShutdown <- struct{}{}
	}()

	<-serverShutdown
	log.Info().Msg("http server was stopped ... good bye...")
}

// Alive reports whether checkalive answers OK.
func (s *Service) Alive() bool { return s.alive.Load() }

// New creates a new web service on deps.
func New(deps *handler.Deps) (*Service, error) {
	if deps == nil || deps.Cfg == nil || deps.Content == nil || deps.Sessions == nil || deps.Users == nil {
		return nil, handler.ErrNilDeps
	}

	cfg := deps.Cfg

	app := fiber.New(
		fiber.Config{
			ReadBufferSize: 8192,
			AppName:        cfg.Title,
			CaseSensitive:  true,
			Prefork:        false,
			Immutable:      true,
			Views:          newTemplateEngine(cfg.DevMode),
			BodyLimit:      int(uploadLimit(cfg.Upload.MaxSize)),
			JSONEncoder:    json.Marshal,
			JSONDecoder:    json.Unmarshal,
			ErrorHandler:   NewErrorHandler(cfg.Upload.MaxSize),
		},
	)

	service := &Service{App: app, deps: deps}
	service.alive.Store(true)

	app.Use(adapter.New(adapter.Config{
		Config:            cfg.Log,
		CacheControlError: adapter.ConfigDefault.CacheControlError,
		CheckAliveURI:     CheckAlivePath,
		SkipPrefixes:      []string{"/static"},
	}))

	app.Get(CheckAlivePath, func(c *fiber.Ctx) error {
		if !service.alive.Load() {
			return c.SendStatus(fiber.StatusServiceUnavailable)
		}

		return c.SendString("OK")
	})
	app.Get(MetricsPath, adaptor.HTTPHandler(promhttp.Handler()))

	app.Use("/static",
		filesystem.New(
			filesystem.Config{
				Root:       http.FS(embeddedStaticFiles),
				PathPrefix: "static",
				Browse:     cfg.Webserver.BrowseStatic,
			},
		),
	)

	if fs, ok := deps.Blobs.(*blob.FS); ok {
		app.Static(fs.URLPath(), fs.Root())
	}

	app.Use(gate.New(deps.Sessions, gate.DefaultPaths()))

	guard := gate.RequireAPISession(deps.Sessions)

	resource.RegisterAll(app, deps.Content, deps.Validator, guard)

	if deps.Blobs != nil {
		upload.New(deps.Blobs, cfg.Upload.MaxSize).Register(app, guard)
	}

	services := []handler.Service{
		&apiauth.Service{},
		&login.Service{},
		&logout.Service{},
		&dashboard.Service{},
		&user.Service{},
		&projects.Service{},
		&site.Service{},
	}

	for _, svc := range services {
		if err := svc.Init(app, deps); err != nil {
			return nil, err
		}
	}

	content.RegisterAll(app, deps)

	return service, nil
}

// NewErrorHandler answers JSON below /api and plain text elsewhere.
// Upload bodies over the app body limit are refused before the upload
// handler runs; they get the handler's 400 answer instead of 413.
func NewErrorHandler(uploadMaxSize int64) fiber.ErrorHandler {
	if uploadMaxSize <= 0 {
		uploadMaxSize = upload.DefaultMaxSize
	}

	return func(c *fiber.Ctx, err error) error {
		return handleError(c, err, uploadMaxSize)
	}
}

func handleError(c *fiber.Ctx, err error, uploadMaxSize int64) error {
	code := fiber.StatusInternalServerError
	msg := "internal server error"

	var fe *fiber.Error
	if errors.As(err, &fe) {
		code = fe.Code
		msg = fe.Message
	} else {
		log.Error().Err(err).Str("path", c.Path()).Msg("unhandled error")
	}

	if code == fiber.StatusRequestEntityTooLarge && c.Path() == upload.Path {
		code = fiber.StatusBadRequest
		msg = upload.TooLarge(uploadMaxSize)
	}

	if strings.HasPrefix(c.Path(), handler.APIPath+"/") || c.Path() == handler.APIPath {
		return handler.JSONError(c, code, msg)
	}

	c.Set(fiber.HeaderContentType, fiber.MIMETextPlainCharsetUTF8)

	return c.Status(code).SendString(msg)
}

func newTemplateEngine(devMode bool) *html.Engine {
	engine := html.NewFileSystem(templateFS(), ".gohtml")

	// in dev mode, use local filesystem for templates
	if devMode {
		engine = html.New(TemplateDir, ".gohtml")
		engine.ShouldReload = true

		log.Warn().Msg("dev mode enabled: using local filesystem for templates")
	}

	engine.AddFunc("join", strings.Join)
	engine.AddFunc("imageURL", imageURL)
	engine.AddFunc("add", func(a, b int) int {
		return a + b
	})
	engine.AddFunc("sub", func(a, b int) int {
		return a - b
	})

	return engine
}

// imageURL marks base64 data URIs of allowed image types as safe for src
// attributes. Anything else stays a plain string and is filtered by
// html/template as usual.
func imageURL(src string) any {
	for _, t := range blob.ImageTypes {
		payload, ok := strings.CutPrefix(src, "data:"+t+";base64,")
		if ok && payload != "" && strings.Trim(payload, base64Alphabet) == "" {
			return template.URL(src) //nolint:gosec
		}
	}

	return src
}

func uploadLimit(maxSize int64) int64 {
	if maxSize <= 0 {
		maxSize = upload.DefaultMaxSize
	}

	return maxSize + uploadOverhead
}
