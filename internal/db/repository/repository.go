// Package repository implements create, read, update and delete over one
// parent table and its one-to-many child collection tables.
//
// A Repository is parameterized by a Descriptor; the same code serves every
// content resource.
package repository

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/CodeCraft-Studio/studio-site/internal/db/query"
	"github.com/CodeCraft-Studio/studio-site/internal/logger"
)

var (
	// ErrNotFound is returned when no row has the requested id.
	ErrNotFound = errors.New("record not found")
	// ErrUnknownField is returned for patch keys the descriptor does not declare.
	ErrUnknownField = errors.New("unknown field")
)

// Record is implemented by the model pointers a repository scans into.
type Record interface {
	GetID() string
	SetCollection(field string, values []string)
}

// Collection describes a child table holding one string per row.
type Collection struct {
	Field      string // key in Values and Record.SetCollection
	Table      string
	ForeignKey string
	Column     string
}

// Descriptor describes the tables of one resource.
// Table, column and field names are trusted identifiers, never user input.
type Descriptor struct {
	Table       string
	Scalars     []string
	Collections []Collection
}

// Values carries scalar columns and child collections for Create and Update.
//
// For Update, a scalar is applied only when present with a non-empty value and
// a collection is replaced only when its key is present; an empty slice clears it.
type Values struct {
	Scalars     map[string]string
	Collections map[string][]string
}

// Option configures a Repository.
type Option func(*options)

type options struct {
	now   func() time.Time
	newID func() string
}

// WithClock replaces the clock used for created_at and updated_at.
func WithClock(now func() time.Time) Option {
	return func(o *options) { o.now = now }
}

// WithIDGenerator replaces the surrogate id generator.
func WithIDGenerator(newID func() string) Option {
	return func(o *options) { o.newID = newID }
}

// Repository stores records of type T, scanned through P.
type Repository[T any, P interface {
	*T
	Record
}] struct {
	exec  *query.Executor
	desc  Descriptor
	log   zerolog.Logger
	now   func() time.Time
	newID func() string
}

// New returns a repository for the resource described by desc.
func New[T any, P interface {
	*T
	Record
}](exec *query.Executor, desc Descriptor, opts ...Option) *Repository[T, P] {
	o := options{
		now:   func() time.Time { return time.Now().UTC() },
		newID: uuid.NewString,
	}

	for _, opt := range opts {
		opt(&o)
	}

	return &Repository[T, P]{
		exec:  exec,
		desc:  desc,
		log:   logger.Component("repository").With().Str("table", desc.Table).Logger(),
		now:   o.now,
		newID: o.newID,
	}
}

// GetAll returns every record, newest first, with its child collections.
// Collections are loaded with one query per record and collection.
func (r *Repository[T, P]) GetAll(ctx context.Context) ([]T, error) {
	var rows []T

	stmt := fmt.Sprintf("SELECT %s FROM %s ORDER BY created_at DESC, id DESC", r.columns(), r.desc.Table)
	if err := r.exec.Run(ctx, &rows, stmt); err != nil {
		return nil, r.fail("get all", "", err)
	}

	for i := range rows {
		if err := r.loadCollections(ctx, r.exec, P(&rows[i])); err != nil {
			return nil, r.fail("get all", P(&rows[i]).GetID(), err)
		}
	}

	if rows == nil {
		rows = []T{}
	}

	return rows, nil
}

// GetByID returns one record with its child collections or ErrNotFound.
func (r *Repository[T, P]) GetByID(ctx context.Context, id string) (P, error) {
	rec, err := r.get(ctx, r.exec, id)
	if err != nil {
		return nil, r.fail("get", id, err)
	}

	return rec, nil
}

// Create inserts the parent row and every non-empty child collection in one
// transaction and returns the stored record. Nothing is kept when any insert fails.
func (r *Repository[T, P]) Create(ctx context.Context, in Values) (P, error) {
	if err := r.check(in); err != nil {
		return nil, r.fail("create", "", err)
	}

	rec, err := query.WithTransaction(ctx, r.exec, func(tx *query.Executor) (P, error) {
		id := r.newID()
		now := r.now()

		cols := make([]string, 0, len(r.desc.Scalars)+3) //nolint:mnd
		args := make([]any, 0, cap(cols))

		cols = append(cols, "id")
		args = append(args, id)

		for _, name := range r.desc.Scalars {
			cols = append(cols, name)
			args = append(args, in.Scalars[name])
		}

		cols = append(cols, "created_at", "updated_at")
		args = append(args, now, now)

		stmt := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)",
			r.desc.Table, strings.Join(cols, ", "), placeholders(len(cols)))
		if _, err := tx.Exec(ctx, stmt, args...); err != nil {
			return nil, err
		}

		for _, c := range r.desc.Collections {
			if err := insertChildren(ctx, tx, c, id, in.Collections[c.Field]); err != nil {
				return nil, err
			}
		}

		return r.get(ctx, tx, id)
	})
	if err != nil {
		return nil, r.fail("create", "", err)
	}

	r.log.Debug().Str("id", rec.GetID()).Msg("record created")

	return rec, nil
}

// Update applies a partial change in one transaction.
// The scalar SET clause holds only present non-empty values and is skipped
// when there are none. Each present collection is deleted and re-inserted.
// updated_at is refreshed whenever anything changed.
func (r *Repository[T, P]) Update(ctx context.Context, id string, patch Values) error {
	if err := r.check(patch); err != nil {
		return r.fail("update", id, err)
	}

	_, err := query.WithTransaction(ctx, r.exec, func(tx *query.Executor) (struct{}, error) {
		var found string

		ok, err := tx.RunOne(ctx, &found, fmt.Sprintf("SELECT id FROM %s WHERE id = ?", r.desc.Table), id)
		if err != nil {
			return struct{}{}, err
		}

		if !ok {
			return struct{}{}, ErrNotFound
		}

		var (
			sets    []string
			args    []any
			changed bool
		)

		for _, name := range r.desc.Scalars {
			if v := patch.Scalars[name]; v != "" {
				sets = append(sets, name+" = ?")
				args = append(args, v)
			}
		}

		for _, c := range r.desc.Collections {
			values, present := patch.Collections[c.Field]
			if !present {
				continue
			}

			stmt := fmt.Sprintf("DELETE FROM %s WHERE %s = ?", c.Table, c.ForeignKey)
			if _, err := tx.Exec(ctx, stmt, id); err != nil {
				return struct{}{}, err
			}

			if err := insertChildren(ctx, tx, c, id, values); err != nil {
				return struct{}{}, err
			}

			changed = true
		}

		if len(sets) == 0 && !changed {
			return struct{}{}, nil
		}

		sets = append(sets, "updated_at = ?")
		args = append(args, r.now(), id)

		stmt := fmt.Sprintf("UPDATE %s SET %s WHERE id = ?", r.desc.Table, strings.Join(sets, ", "))
		_, err = tx.Exec(ctx, stmt, args...)

		return struct{}{}, err
	})
	if err != nil {
		return r.fail("update", id, err)
	}

	return nil
}

// Delete removes the parent row; child rows go with it through ON DELETE CASCADE.
func (r *Repository[T, P]) Delete(ctx context.Context, id string) error {
	n, err := r.exec.Exec(ctx, fmt.Sprintf("DELETE FROM %s WHERE id = ?", r.desc.Table), id)
	if err != nil {
		return r.fail("delete", id, err)
	}

	if n == 0 {
		return r.fail("delete", id, ErrNotFound)
	}

	return nil
}

// Count returns the number of parent rows.
func (r *Repository[T, P]) Count(ctx context.Context) (int64, error) {
	var n int64

	if _, err := r.exec.RunOne(ctx, &n, fmt.Sprintf("SELECT COUNT(*) FROM %s", r.desc.Table)); err != nil {
		return 0, r.fail("count", "", err)
	}

	return n, nil
}

func (r *Repository[T, P]) get(ctx context.Context, exec *query.Executor, id string) (P, error) {
	var row T

	stmt := fmt.Sprintf("SELECT %s FROM %s WHERE id = ?", r.columns(), r.desc.Table)

	found, err := exec.RunOne(ctx, &row, stmt, id)
	if err != nil {
		return nil, err
	}

	if !found {
		return nil, ErrNotFound
	}

	rec := P(&row)
	if err := r.loadCollections(ctx, exec, rec); err != nil {
		return nil, err
	}

	return rec, nil
}

func (r *Repository[T, P]) loadCollections(ctx context.Context, exec *query.Executor, rec P) error {
	for _, c := range r.desc.Collections {
		var values []string

		stmt := fmt.Sprintf("SELECT %s FROM %s WHERE %s = ? ORDER BY id", c.Column, c.Table, c.ForeignKey)
		if err := exec.Run(ctx, &values, stmt, rec.GetID()); err != nil {
			return err
		}

		if values == nil {
			values = []string{}
		}

		rec.SetCollection(c.Field, values)
	}

	return nil
}

func (r *Repository[T, P]) columns() string {
	cols := make([]string, 0, len(r.desc.Scalars)+3) //nolint:mnd
	cols = append(cols, "id")
	cols = append(cols, r.desc.Scalars...)
	cols = append(cols, "created_at", "updated_at")

	return strings.Join(cols, ", ")
}

func (r *Repository[T, P]) check(v Values) error {
	for name := range v.Scalars {
		if !slices.Contains(r.desc.Scalars, name) {
			return fmt.Errorf("%w: %s", ErrUnknownField, name)
		}
	}

	for field := range v.Collections {
		known := slices.ContainsFunc(r.desc.Collections, func(c Collection) bool { return c.Field == field })
		if !known {
			return fmt.Errorf("%w: %s", ErrUnknownField, field)
		}
	}

	return nil
}

// fail logs a storage failure and returns it wrapped with the operation.
func (r *Repository[T, P]) fail(op, id string, err error) error {
	ev := r.log.Error()
	if errors.Is(err, ErrNotFound) || errors.Is(err, ErrUnknownField) {
		ev = r.log.Debug()
	}

	ev.Err(err).Str("op", op).Str("id", id).Msg("repository operation failed")

	return fmt.Errorf("%s %s: %w", op, r.desc.Table, err)
}

func insertChildren(ctx context.Context, tx *query.Executor, c Collection, id string, values []string) error {
	if len(values) == 0 {
		return nil
	}

	rows := make([]string, 0, len(values))
	args := make([]any, 0, 2*len(values)) //nolint:mnd

	for _, v := range values {
		rows = append(rows, "(?, ?)")
		args = append(args, id, v)
	}

	stmt := fmt.Sprintf("INSERT INTO %s (%s, %s) VALUES %s",
		c.Table, c.ForeignKey, c.Column, strings.Join(rows, ", "))
	_, err := tx.Exec(ctx, stmt, args...)

	return err //nolint:wrapcheck
}

func placeholders(n int) string {
	return strings.TrimSuffix(strings.Repeat("?, ", n), ", ")
}
