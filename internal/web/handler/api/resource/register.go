package resource

import (
	"github.com/gofiber/fiber/v2"

	"github.com/CodeCraft-Studio/studio-site/internal/db/controller/content"
	"github.com/CodeCraft-Studio/studio-site/internal/db/models"
)

// Resource names as used in API and admin paths.
const (
	Experts    = "experts"
	Services   = "services"
	Industries = "industries"
)

// RegisterAll serves every content repository of store.
func RegisterAll(app *fiber.App, store *content.Store, v *content.Validator, guard fiber.Handler) {
	New[models.Expert, *models.Expert, content.ExpertInput](Experts, store.Experts, v).Register(app, guard)
	New[models.Service, *models.Service, content.ServiceInput](Services, store.Services, v).Register(app, guard)
	New[models.Industry, *models.Industry, content.IndustryInput](Industries, store.Industries, v).Register(app, guard)
}
