// Package query wraps the gorm connection pool with a small raw SQL executor.
//
// Statements use ? placeholders; gorm rewrites them for the active dialect.
package query

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/CodeCraft-Studio/studio-site/internal/logger"
)

// Executor runs parameterized statements on a pool or on one transaction.
type Executor struct {
	db  *gorm.DB
	log zerolog.Logger
}

// New returns an executor bound to the pool of db.
func New(db *gorm.DB) *Executor {
	return &Executor{db: db, log: logger.Component("query")}
}

// Run executes stmt and scans all rows into dest, which must point to a slice.
func (e *Executor) Run(ctx context.Context, dest any, stmt string, params ...any) error {
	if err := e.db.WithContext(ctx).Raw(stmt, params...).Scan(dest).Error; err != nil {
		return fmt.Errorf("query: %w", err)
	}

	return nil
}

// RunOne executes stmt and scans the first row into dest.
// It reports false when the statement returned no row.
func (e *Executor) RunOne(ctx context.Context, dest any, stmt string, params ...any) (bool, error) {
	res := e.db.WithContext(ctx).Raw(stmt, params...).Scan(dest)
	if res.Error != nil {
		return false, fmt.Errorf("query one: %w", res.Error)
	}

	return res.RowsAffected > 0, nil
}

// Exec executes a statement without result rows and returns the affected row count.
func (e *Executor) Exec(ctx context.Context, stmt string, params ...any) (int64, error) {
	res := e.db.WithContext(ctx).Exec(stmt, params...)
	if res.Error != nil {
		return 0, fmt.Errorf("exec: %w", res.Error)
	}

	return res.RowsAffected, nil
}

// WithTransaction runs work on a single pooled connection inside a transaction.
// The transaction commits when work returns nil and rolls back when it returns
// an error or panics; a panic is re-raised after the rollback. The connection
// goes back to the pool on every path.
func WithTransaction[T any](ctx context.Context, e *Executor, work func(tx *Executor) (T, error)) (T, error) {
	var out T

	err := e.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		v, err := work(&Executor{db: tx, log: e.log})
		if err != nil {
			return err
		}

		out = v

		return nil
	})
	if err != nil {
		e.log.Debug().Err(err).Msg("transaction rolled back")

		var zero T

		return zero, err //nolint:wrapcheck
	}

	return out, nil
}
