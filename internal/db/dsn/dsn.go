// Package dsn provides Data Source Name construction utilities for database connections.
package dsn

import (
	"fmt"
	"strings"

	"github.com/CodeCraft-Studio/studio-site/internal/config"
)

// Create builds the Data Source Name for the configured gorm engine.
func Create(cfg *config.Config) string {
	switch cfg.DB.GormEngine {
	case config.EnginePostgres:
		return Postgres(&cfg.DB)
	case config.EngineSQLite:
		return SQLite(cfg.DB.Path)
	default:
		return MySQL(&cfg.DB)
	}
}

// MySQL builds a go-sql-driver style DSN.
func MySQL(db *config.DB) string {
	return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?%s",
		db.User,
		db.Password,
		db.Host,
		db.Port,
		db.Name,
		db.Extras,
	)
}

// Postgres builds a keyword/value DSN understood by pgx.
func Postgres(db *config.DB) string {
	out := fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s",
		db.Host,
		db.Port,
		db.User,
		db.Password,
		db.Name,
	)

	if db.Extras != "" {
		out += " " + db.Extras
	}

	return out
}

// SQLite builds a DSN for the pure go sqlite driver with foreign keys enabled
// on every pooled connection.
func SQLite(path string) string {
	const pragma = "_pragma=foreign_keys(1)"

	if strings.Contains(path, "?") {
		return path + "&" + pragma
	}

	return path + "?" + pragma
}
