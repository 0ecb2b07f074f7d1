package content

import (
	"github.com/gofiber/fiber/v2"

	dbcontent "github.com/CodeCraft-Studio/studio-site/internal/db/controller/content"
	"github.com/CodeCraft-Studio/studio-site/internal/db/models"
	"github.com/CodeCraft-Studio/studio-site/internal/web/handler"
	"github.com/CodeCraft-Studio/studio-site/internal/web/handler/api/resource"
)

// Experts returns the expert pages.
func Experts(store *dbcontent.Store, v *dbcontent.Validator) *Resource[models.Expert, *models.Expert, dbcontent.ExpertInput] {
	return &Resource[models.Expert, *models.Expert, dbcontent.ExpertInput]{
		name:  resource.Experts,
		title: "Experts",
		fields: []Field{
			{Name: "name", Label: "Name", Required: true},
			{Name: "role", Label: "Role", Required: true},
			{Name: "experience", Label: "Experience"},
			{Name: "image", Label: "Image URL"},
			{Name: "bio", Label: "Bio", Text: true},
			{Name: "expertise", Label: "Expertise", Lines: true},
		},
		repo:      store.Experts,
		validator: v,
		withImage: func(in dbcontent.ExpertInput, url string) dbcontent.ExpertInput {
			in.Image = url
			return in
		},
		parse: func(c *fiber.Ctx) (dbcontent.ExpertInput, error) {
			var in dbcontent.ExpertInput
			err := c.BodyParser(&in)
			in.Expertise = dbcontent.SplitLines(c.FormValue("expertise"))

			return in, err
		},
	}
}

// Services returns the service pages.
func Services(store *dbcontent.Store, v *dbcontent.Validator) *Resource[models.Service, *models.Service, dbcontent.ServiceInput] {
	return &Resource[models.Service, *models.Service, dbcontent.ServiceInput]{
		name:  resource.Services,
		title: "Services",
		fields: []Field{
			{Name: "title", Label: "Title", Required: true},
			{Name: "description", Label: "Description", Required: true, Text: true},
			{Name: "image", Label: "Image URL"},
			{Name: "features", Label: "Features", Lines: true},
			{Name: "benefits", Label: "Benefits", Lines: true},
		},
		repo:      store.Services,
		validator: v,
		withImage: func(in dbcontent.ServiceInput, url string) dbcontent.ServiceInput {
			in.Image = url
			return in
		},
		parse: func(c *fiber.Ctx) (dbcontent.ServiceInput, error) {
			var in dbcontent.ServiceInput
			err := c.BodyParser(&in)
			in.Features = dbcontent.SplitLines(c.FormValue("features"))
			in.Benefits = dbcontent.SplitLines(c.FormValue("benefits"))

			return in, err
		},
	}
}

// Industries returns the industry pages.
func Industries(store *dbcontent.Store, v *dbcontent.Validator) *Resource[models.Industry, *models.Industry, dbcontent.IndustryInput] {
	return &Resource[models.Industry, *models.Industry, dbcontent.IndustryInput]{
		name:  resource.Industries,
		title: "Industries",
		fields: []Field{
			{Name: "name", Label: "Name", Required: true},
			{Name: "description", Label: "Description", Text: true},
			{Name: "image", Label: "Image URL"},
		},
		repo:      store.Industries,
		validator: v,
		withImage: func(in dbcontent.IndustryInput, url string) dbcontent.IndustryInput {
			in.Image = url
			return in
		},
		parse: func(c *fiber.Ctx) (dbcontent.IndustryInput, error) {
			var in dbcontent.IndustryInput
			err := c.BodyParser(&in)

			return in, err
		},
	}
}

// RegisterAll adds the pages of every content repository.
// Image files go to deps.Blobs when it is set.
func RegisterAll(app *fiber.App, deps *handler.Deps) {
	var maxSize int64
	if deps.Cfg != nil {
		maxSize = deps.Cfg.Upload.MaxSize
	}

	Experts(deps.Content, deps.Validator).WithUploads(deps.Blobs, maxSize).Register(app)
	Services(deps.Content, deps.Validator).WithUploads(deps.Blobs, maxSize).Register(app)
	Industries(deps.Content, deps.Validator).WithUploads(deps.Blobs, maxSize).Register(app)
}
