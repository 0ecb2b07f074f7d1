// Package daemon wires configuration, storage and the web service together.
package daemon

import (
	"context"
	"fmt"

	"github.com/gofiber/fiber/v2"
	sessionmysql "github.com/gofiber/storage/mysql/v2"
	sessionpostgres "github.com/gofiber/storage/postgres/v3"
	"github.com/rs/zerolog/log"

	"github.com/CodeCraft-Studio/studio-site/internal/auth"
	"github.com/CodeCraft-Studio/studio-site/internal/backend"
	"github.com/CodeCraft-Studio/studio-site/internal/blob"
	"github.com/CodeCraft-Studio/studio-site/internal/config"
	"github.com/CodeCraft-Studio/studio-site/internal/db"
	"github.com/CodeCraft-Studio/studio-site/internal/db/controller/content"
	"github.com/CodeCraft-Studio/studio-site/internal/db/dsn"
	"github.com/CodeCraft-Studio/studio-site/internal/db/query"
	"github.com/CodeCraft-Studio/studio-site/internal/web"
	"github.com/CodeCraft-Studio/studio-site/internal/web/handler"
	"github.com/CodeCraft-Studio/studio-site/internal/web/session"
)

// SessionTable holds server side sessions on sql engines.
const SessionTable = "sessions"

// Daemon represents the main application daemon.
type Daemon struct {
	webService *web.Service
	addr       string
}

// Start runs the web service until a shutdown signal arrives.
func (d *Daemon) Start() error {
	go func() {
		if err := d.webService.Start(d.addr); err != nil {
			log.Error().Err(err).Msg("web service stopped")
		}
	}()

	log.Info().Str("addr", d.addr).Msg("web service started")

	d.webService.WaitShutdown()

	return nil
}

// New creates a new Daemon instance with the provided configuration.
func New(ctx context.Context, cfg *config.Config) (*Daemon, error) {
	if cfg == nil {
		return nil, handler.ErrNilDeps
	}

	deps, err := Wire(ctx, cfg, sessionStorage(cfg))
	if err != nil {
		return nil, err
	}

	svc, err := web.New(deps)
	if err != nil {
		return nil, err
	}

	return &Daemon{
		webService: svc,
		addr:       fmt.Sprintf(":%d", cfg.Webserver.Port),
	}, nil
}

// Wire opens the database and builds the handler dependencies. A nil
// storage keeps sessions in memory.
func Wire(ctx context.Context, cfg *config.Config, storage fiber.Storage) (*handler.Deps, error) {
	gdb, err := db.Open(cfg)
	if err != nil {
		return nil, err
	}

	if err = db.Migrate(gdb); err != nil {
		return nil, err
	}

	users := auth.NewLocalProvider(gdb)

	if err = seed(cfg, users); err != nil {
		return nil, err
	}

	blobs, err := blob.Open(ctx, cfg.Upload)
	if err != nil {
		return nil, err
	}

	client, err := backendClient(cfg)
	if err != nil {
		return nil, err
	}

	return &handler.Deps{
		Cfg:       cfg,
		Content:   content.New(query.New(gdb)),
		Validator: content.NewValidator(),
		Users:     users,
		Sessions:  session.NewManager(storage, cfg.Webserver.Session, cfg.DevMode).WithAccounts(users),
		Blobs:     blobs,
		Backend:   client,
	}, nil
}

func backendClient(cfg *config.Config) (*backend.Client, error) {
	if cfg.Backend.URL == "" {
		log.Warn().Msg("no project backend configured, project pages stay empty")
		return nil, nil //nolint:nilnil
	}

	return backend.New(cfg.Backend.URL, cfg.Backend.Timeout)
}

// sessionStorage keeps sessions next to the content on sql servers and in
// memory for sqlite.
func sessionStorage(cfg *config.Config) fiber.Storage {
	switch cfg.DB.GormEngine {
	case config.EngineMySQL:
		return sessionmysql.New(sessionmysql.Config{
			ConnectionURI: dsn.MySQL(&cfg.DB),
			Table:         SessionTable,
		})
	case config.EnginePostgres:
		return sessionpostgres.New(sessionpostgres.Config{
			ConnectionURI: dsn.Postgres(&cfg.DB),
			Table:         SessionTable,
		})
	default:
		return nil
	}
}
