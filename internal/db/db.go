// Package db opens the relational content store for the configured engine
// and migrates its schema.
package db

import (
	"fmt"

	"github.com/glebarez/sqlite"
	"github.com/rs/zerolog/log"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/CodeCraft-Studio/studio-site/internal/config"
	"github.com/CodeCraft-Studio/studio-site/internal/db/dsn"
	"github.com/CodeCraft-Studio/studio-site/internal/db/models"
)

const memoryPath = ":memory:"

// Open connects to the database selected by cfg.DB.GormEngine.
func Open(cfg *config.Config) (*gorm.DB, error) {
	var dialector gorm.Dialector

	switch cfg.DB.GormEngine {
	case config.EnginePostgres:
		dialector = postgres.Open(dsn.Create(cfg))
	case config.EngineMySQL:
		dialector = mysql.Open(dsn.Create(cfg))
	case config.EngineSQLite:
		return OpenSQLite(cfg.DB.Path)
	default:
		return nil, fmt.Errorf("%w: %q", config.ErrUnknownGormEngine, cfg.DB.GormEngine)
	}

	db, err := gorm.Open(dialector, gormConfig(cfg.DevMode))
	if err != nil {
		return nil, fmt.Errorf("open %s database: %w", cfg.DB.GormEngine, err)
	}

	log.Info().Str("engine", cfg.DB.GormEngine).Str("host", cfg.DB.Host).Msg("database connected")

	return db, nil
}

// OpenSQLite opens a sqlite database with foreign keys enforced.
// An in-memory database is limited to a single connection so every caller
// sees the same schema.
func OpenSQLite(path string) (*gorm.DB, error) {
	if path == "" {
		path = memoryPath
	}

	db, err := gorm.Open(sqlite.Open(dsn.SQLite(path)), gormConfig(false))
	if err != nil {
		return nil, fmt.Errorf("open sqlite database %s: %w", path, err)
	}

	if path == memoryPath {
		sqlDB, err := db.DB()
		if err != nil {
			return nil, fmt.Errorf("sqlite pool: %w", err)
		}

		sqlDB.SetMaxOpenConns(1)
	}

	return db, nil
}

// Migrate creates or updates all tables including the child collection
// tables and their cascade rules.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(models.All()...); err != nil {
		return fmt.Errorf("migrate database: %w", err)
	}

	return nil
}

func gormConfig(devMode bool) *gorm.Config {
	level := gormlogger.Warn
	if devMode {
		level = gormlogger.Info
	}

	return &gorm.Config{Logger: gormlogger.Default.LogMode(level)}
}
