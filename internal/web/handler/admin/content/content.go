// Package content provides the admin pages editing experts, services and
// industries.
package content

import (
	"errors"
	"strings"

	"github.com/goccy/go-json"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/CodeCraft-Studio/studio-site/internal/blob"
	dbcontent "github.com/CodeCraft-Studio/studio-site/internal/db/controller/content"
	"github.com/CodeCraft-Studio/studio-site/internal/db/repository"
	"github.com/CodeCraft-Studio/studio-site/internal/web/handler"
	"github.com/CodeCraft-Studio/studio-site/internal/web/handler/api/upload"
	"github.com/CodeCraft-Studio/studio-site/internal/web/navigation"
)

const (
	// TemplateList is the template for listing records.
	TemplateList = "admin/content/list"
	// TemplateForm is the template for creating/updating a record.
	TemplateForm = "admin/content/form"
)

// Field describes one form input.
type Field struct {
	Name     string
	Label    string
	Required bool
	Text     bool // multi line text
	Lines    bool // collection, one entry per line
}

// Resource serves the admin pages of one content repository.
type Resource[T any, P interface {
	*T
	repository.Record
}, I dbcontent.Input] struct {
	name      string
	title     string
	fields    []Field
	repo      *repository.Repository[T, P]
	validator *dbcontent.Validator
	parse     func(c *fiber.Ctx) (I, error)
	withImage func(in I, url string) I

	// blobs receives files of the image_file input, nil disables it.
	blobs   blob.Store
	maxSize int64
}

// WithUploads enables the image_file input, storing files in store below
// a folder named after the resource.
func (r *Resource[T, P, I]) WithUploads(store blob.Store, maxSize int64) *Resource[T, P, I] {
	r.blobs = store
	r.maxSize = maxSize

	return r
}

// Path is the list page of the resource.
func (r *Resource[T, P, I]) Path() string {
	return handler.AdminPath + "/" + r.name
}

// Register adds the routes to app.
func (r *Resource[T, P, I]) Register(app *fiber.App) {
	app.Route(r.Path(), func(router fiber.Router) {
		router.Get(handler.RouterRootPath, r.List)
		router.Get("/new", r.New)
		router.Post(handler.RouterRootPath, r.Create)
		router.Get("/:id/edit", r.Edit)
		router.Post("/:id", r.Update)
		router.Post("/:id/delete", r.Delete)
	})
}

func (r *Resource[T, P, I]) nav(active string) *navigation.Context {
	return navigation.Page(r.title, navigation.SectionContent, r.name, r.Path()).Child(active)
}

// List shows all records, newest first.
func (r *Resource[T, P, I]) List(c *fiber.Ctx) error {
	items, err := r.repo.GetAll(c.UserContext())
	if err != nil {
		log.Error().Err(err).Str("resource", r.name).Msg("list failed")

		return c.Status(fiber.StatusInternalServerError).Render(TemplateList, fiber.Map{
			"Navigation": r.nav(""),
			"error":      "Failed to load " + r.name,
			"Resource":   r.name,
		}, handler.BaseLayout)
	}

	rows := make([]map[string]string, 0, len(items))
	for i := range items {
		rows = append(rows, formValues(&items[i]))
	}

	return c.Render(TemplateList, fiber.Map{
		"Navigation": r.nav(""),
		"Resource":   r.name,
		"Title":      r.title,
		"Fields":     r.fields,
		"Items":      rows,
		"Path":       r.Path(),
	}, handler.BaseLayout)
}

// New renders an empty form.
func (r *Resource[T, P, I]) New(c *fiber.Ctx) error {
	return r.renderForm(c, fiber.StatusOK, "", map[string]string{}, "")
}

// Create stores a new record from the form.
func (r *Resource[T, P, I]) Create(c *fiber.Ctx) error {
	img, err := r.image(c)
	if err != nil {
		return r.renderForm(c, fiber.StatusBadRequest, "", r.submitted(c), upload.Message(err, r.maxSize))
	}

	in, err := r.parse(c)
	if err == nil {
		err = r.validator.Create(in)
	}

	if err != nil {
		return r.renderForm(c, fiber.StatusBadRequest, "", r.submitted(c), message(err))
	}

	if in, err = r.storeImage(c, in, img); err != nil {
		return r.renderForm(c, fiber.StatusInternalServerError, "", r.submitted(c), "Failed to store image")
	}

	if _, err = r.repo.Create(c.UserContext(), in.Values()); err != nil {
		log.Error().Err(err).Str("resource", r.name).Msg("create failed")
		return r.renderForm(c, fiber.StatusInternalServerError, "", r.submitted(c), "Failed to save")
	}

	return c.Redirect(r.Path())
}

// Edit renders the form of an existing record.
func (r *Resource[T, P, I]) Edit(c *fiber.Ctx) error {
	id := c.Params("id")

	item, err := r.repo.GetByID(c.UserContext(), id)
	if err != nil {
		return r.failLookup(err)
	}

	return r.renderForm(c, fiber.StatusOK, id, formValues(item), "")
}

// Update applies the form to a record. Collections are replaced.
func (r *Resource[T, P, I]) Update(c *fiber.Ctx) error {
	id := c.Params("id")

	img, err := r.image(c)
	if err != nil {
		return r.renderForm(c, fiber.StatusBadRequest, id, r.submitted(c), upload.Message(err, r.maxSize))
	}

	in, err := r.parse(c)
	if err == nil {
		err = r.validator.Update(in)
	}

	if err != nil {
		return r.renderForm(c, fiber.StatusBadRequest, id, r.submitted(c), message(err))
	}

	if in, err = r.storeImage(c, in, img); err != nil {
		return r.renderForm(c, fiber.StatusInternalServerError, id, r.submitted(c), "Failed to store image")
	}

	if err = r.repo.Update(c.UserContext(), id, in.Values()); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return fiber.ErrNotFound
		}

		log.Error().Err(err).Str("resource", r.name).Str("id", id).Msg("update failed")

		return r.renderForm(c, fiber.StatusInternalServerError, id, r.submitted(c), "Failed to save")
	}

	return c.Redirect(r.Path())
}

// Delete removes a record.
func (r *Resource[T, P, I]) Delete(c *fiber.Ctx) error {
	if err := r.repo.Delete(c.UserContext(), c.Params("id")); err != nil {
		return r.failLookup(err)
	}

	return c.Redirect(r.Path())
}

// image reads the optional image_file part. Without uploads or without a
// file it returns nil.
func (r *Resource[T, P, I]) image(c *fiber.Ctx) (*upload.Image, error) {
	if r.blobs == nil {
		return nil, nil //nolint:nilnil
	}

	fh, err := c.FormFile("image_file")
	if err != nil {
		return nil, nil //nolint:nilerr // no file part
	}

	return upload.ReadImage(fh, r.maxSize) //nolint:wrapcheck
}

// storeImage writes img and points the input's image at it.
func (r *Resource[T, P, I]) storeImage(c *fiber.Ctx, in I, img *upload.Image) (I, error) {
	if img == nil {
		return in, nil
	}

	res, err := upload.Store(c.UserContext(), r.blobs, r.name, img)
	if err != nil {
		return in, err //nolint:wrapcheck
	}

	return r.withImage(in, res.URL), nil
}

func (r *Resource[T, P, I]) failLookup(err error) error {
	if errors.Is(err, repository.ErrNotFound) {
		return fiber.ErrNotFound
	}

	log.Error().Err(err).Str("resource", r.name).Msg("lookup failed")

	return fiber.ErrInternalServerError
}

func (r *Resource[T, P, I]) renderForm(c *fiber.Ctx, status int, id string, values map[string]string, errMsg string) error {
	label := "New"
	action := r.Path()

	if id != "" {
		label = "Edit"
		action = r.Path() + "/" + id
	}

	data := fiber.Map{
		"Navigation": r.nav(label),
		"Resource":   r.name,
		"Title":      r.title,
		"Fields":     r.fields,
		"Values":     values,
		"Action":     action,
		"ID":         id,
		"Uploads":    r.blobs != nil,
	}

	if errMsg != "" {
		data["error"] = errMsg
	}

	return c.Status(status).Render(TemplateForm, data, handler.BaseLayout)
}

func (r *Resource[T, P, I]) submitted(c *fiber.Ctx) map[string]string {
	out := make(map[string]string, len(r.fields))
	for _, f := range r.fields {
		out[f.Name] = c.FormValue(f.Name)
	}

	return out
}

// formValues flattens a record into form values, collections one per line.
func formValues(record any) map[string]string {
	out := map[string]string{}

	raw, err := json.Marshal(record)
	if err != nil {
		return out
	}

	var fields map[string]any
	if err = json.Unmarshal(raw, &fields); err != nil {
		return out
	}

	for k, v := range fields {
		switch val := v.(type) {
		case string:
			out[k] = val
		case []any:
			lines := make([]string, 0, len(val))
			for _, item := range val {
				if s, ok := item.(string); ok {
					lines = append(lines, s)
				}
			}

			out[k] = strings.Join(lines, "\n")
		}
	}

	return out
}

func message(err error) string {
	if errors.Is(err, dbcontent.ErrInvalidInput) {
		return strings.TrimPrefix(err.Error(), dbcontent.ErrInvalidInput.Error()+": ")
	}

	return "Invalid form data"
}
