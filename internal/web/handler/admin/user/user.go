// Package user provides handlers for managing admin accounts.
package user

import (
	"errors"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/CodeCraft-Studio/studio-site/internal/auth"
	"github.com/CodeCraft-Studio/studio-site/internal/db/models"
	"github.com/CodeCraft-Studio/studio-site/internal/web/handler"
	"github.com/CodeCraft-Studio/studio-site/internal/web/middleware/gate"
	"github.com/CodeCraft-Studio/studio-site/internal/web/navigation"
)

const (
	// Path is the base path for user management.
	Path = handler.AdminPath + "/users"

	// TemplateList is the template for listing users.
	TemplateList = "admin/user/list"
	// TemplateForm is the template for creating/updating a user.
	TemplateForm = "admin/user/form"
)

// CreateForm is the form creating an account.
type CreateForm struct {
	Email    string `form:"email" validate:"required,email,max=255"`
	Name     string `form:"name" validate:"max=255"`
	Password string `form:"password" validate:"required,min=8,max=255"`
}

// UpdateForm is the form editing an account. An empty password keeps the
// current one.
type UpdateForm struct {
	Name     string `form:"name" validate:"max=255"`
	Password string `form:"password" validate:"omitempty,min=8,max=255"`
	Active   bool   `form:"active"`
}

// Service provides CRUD operations for users.
type Service struct {
	handler.Service
	users     *auth.LocalProvider
	validator *validator.Validate
}

// Init registers routes.
func (s *Service) Init(app *fiber.App, deps *handler.Deps) error {
	if app == nil || deps == nil || deps.Users == nil {
		return handler.ErrNilDeps
	}

	s.users = deps.Users
	s.validator = validator.New()

	app.Get(Path, s.List)
	app.Get(Path+"/new", s.New)
	app.Post(Path, s.Create)
	app.Get(Path+"/:id/edit", s.Edit)
	app.Post(Path+"/:id", s.Update)
	app.Post(Path+"/:id/delete", s.Delete)

	return nil
}

func nav(title, active string) *navigation.Context {
	n := navigation.Page("Users", navigation.SectionAdmin, "users", Path).Child(active)
	n.PageTitle = title

	return n
}

// List shows users with simple pagination and search.
func (s *Service) List(c *fiber.Ctx) error {
	page := c.QueryInt("page", 1)
	if page < 1 {
		page = 1
	}

	pageSize := c.QueryInt("pageSize", handler.DefaultPageSize)
	if pageSize < 1 || pageSize > 100 {
		pageSize = handler.DefaultPageSize
	}

	search := c.Query("search", "")

	users, totalCount, err := s.users.ListUsers(search, pageSize, (page-1)*pageSize)
	if err != nil {
		log.Error().Err(err).Msg("query users failed")
		return s.renderList(c, fiber.StatusInternalServerError, "Failed to load users")
	}

	totalPages := int((totalCount + int64(pageSize) - 1) / int64(pageSize))
	if totalPages == 0 {
		totalPages = 1
	}

	current, _ := gate.CurrentUser(c)

	return c.Render(TemplateList, fiber.Map{
		"Navigation":    nav("Users", ""),
		"Users":         users,
		"CurrentUserID": current.ID,
		"Search":        search,
		"Page":          page,
		"PageSize":      pageSize,
		"TotalItems":    totalCount,
		"TotalPages":    totalPages,
		"HasPrev":       page > 1,
		"HasNext":       page < totalPages,
		"PrevPage":      page - 1,
		"NextPage":      page + 1,
	}, handler.BaseLayout)
}

// New shows the creation form.
func (s *Service) New(c *fiber.Ctx) error {
	return s.renderForm(c, fiber.StatusOK, models.User{Active: true}, true, "")
}

// Create creates a new user.
func (s *Service) Create(c *fiber.Ctx) error {
	var in CreateForm

	if err := c.BodyParser(&in); err != nil {
		return s.renderForm(c, fiber.StatusBadRequest, models.User{Active: true}, true, "Invalid form data")
	}

	draft := models.User{Email: in.Email, Name: in.Name, Active: true}

	if err := s.validator.Struct(in); err != nil {
		return s.renderForm(c, fiber.StatusBadRequest, draft, true, "Please correct the highlighted errors")
	}

	if _, err := s.users.CreateUser(in.Email, in.Password, in.Name); err != nil {
		if errors.Is(err, auth.ErrEmailExists) {
			return s.renderForm(c, fiber.StatusBadRequest, draft, true, err.Error())
		}

		log.Error().Err(err).Msg("failed to create user")

		return s.renderForm(c, fiber.StatusInternalServerError, draft, true, "Failed to create user")
	}

	return c.Redirect(Path)
}

// Edit shows the edit form for a user.
func (s *Service) Edit(c *fiber.Ctx) error {
	id, ok := userID(c)
	if !ok {
		return c.Redirect(Path)
	}

	user, err := s.users.GetUserByID(id)
	if errors.Is(err, auth.ErrUserNotFound) {
		return c.Redirect(Path)
	}

	if err != nil {
		log.Error().Err(err).Uint64("id", id).Msg("failed to load user")
		return s.renderForm(c, fiber.StatusInternalServerError, models.User{}, false, "Failed to load user")
	}

	return s.renderForm(c, fiber.StatusOK, *user, false, "")
}

// Update updates a user.
func (s *Service) Update(c *fiber.Ctx) error {
	id, ok := userID(c)
	if !ok {
		return c.Redirect(Path)
	}

	user, err := s.users.GetUserByID(id)
	if errors.Is(err, auth.ErrUserNotFound) {
		return c.Redirect(Path)
	}

	if err != nil {
		log.Error().Err(err).Uint64("id", id).Msg("failed to load user")
		return s.renderForm(c, fiber.StatusInternalServerError, models.User{}, false, "Failed to load user")
	}

	var in UpdateForm
	if err = c.BodyParser(&in); err != nil {
		return s.renderForm(c, fiber.StatusBadRequest, *user, false, "Invalid form data")
	}

	if err = s.validator.Struct(in); err != nil {
		return s.renderForm(c, fiber.StatusBadRequest, *user, false, "Please correct the highlighted errors")
	}

	if err = s.users.UpdateUser(id, in.Name, in.Active); err != nil {
		if errors.Is(err, auth.ErrLastActiveUser) {
			return s.renderForm(c, fiber.StatusBadRequest, *user, false, err.Error())
		}

		log.Error().Err(err).Uint64("id", id).Msg("failed to update user")

		return s.renderForm(c, fiber.StatusInternalServerError, *user, false, "Failed to update user")
	}

	if in.Password != "" {
		if err = s.users.ResetPassword(id, in.Password); err != nil {
			log.Error().Err(err).Uint64("id", id).Msg("failed to reset password")
			return s.renderForm(c, fiber.StatusInternalServerError, *user, false, "Failed to set password")
		}
	}

	return c.Redirect(Path)
}

// Delete removes a user. Admins cannot delete themselves or the last active account.
func (s *Service) Delete(c *fiber.Ctx) error {
	id, ok := userID(c)
	if !ok {
		return c.Redirect(Path)
	}

	if current, found := gate.CurrentUser(c); found && current.ID == id {
		return s.renderList(c, fiber.StatusBadRequest, "You cannot delete your own account.")
	}

	err := s.users.DeleteUser(id)

	switch {
	case err == nil, errors.Is(err, auth.ErrUserNotFound):
		return c.Redirect(Path)
	case errors.Is(err, auth.ErrLastActiveUser):
		return s.renderList(c, fiber.StatusBadRequest, err.Error())
	default:
		log.Error().Err(err).Uint64("id", id).Msg("failed to delete user")
		return s.renderList(c, fiber.StatusInternalServerError, "Failed to delete user")
	}
}

func (s *Service) renderList(c *fiber.Ctx, status int, errMsg string) error {
	return c.Status(status).Render(TemplateList, fiber.Map{
		"Navigation": nav("Users", ""),
		"error":      errMsg,
	}, handler.BaseLayout)
}

func (s *Service) renderForm(c *fiber.Ctx, status int, user models.User, create bool, errMsg string) error {
	title, active := "Edit User", "Edit"
	if create {
		title, active = "New User", "New"
	}

	data := fiber.Map{
		"Navigation": nav(title, active),
		"User":       user,
		"IsCreate":   create,
	}

	if errMsg != "" {
		data["error"] = errMsg
	}

	return c.Status(status).Render(TemplateForm, data, handler.BaseLayout)
}

func userID(c *fiber.Ctx) (uint64, bool) {
	id, err := strconv.ParseUint(c.Params("id"), 10, 64)
	return id, err == nil && id > 0
}
