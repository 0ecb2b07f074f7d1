package auth_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apiauth "github.com/CodeCraft-Studio/studio-site/internal/web/handler/api/auth"
	"github.com/CodeCraft-Studio/studio-site/internal/web/handler/handlertest"
)

func TestLoginSessionLogout(t *testing.T) {
	deps := handlertest.NewDeps(t)
	_, err := deps.Users.CreateUser(handlertest.AdminEmail, handlertest.AdminPassword, "Admin")
	require.NoError(t, err)

	app := handlertest.NewApp()

	var s apiauth.Service
	require.NoError(t, s.Init(app, deps))

	resp := handlertest.JSON(t, app, http.MethodPost, apiauth.Path+"/login",
		`{"email":"ADMIN@example.com ","password":"`+handlertest.AdminPassword+`"}`, "")
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Contains(t, resp.Header.Get(fiber.HeaderSetCookie), handlertest.CookieName+"=")

	var login struct {
		Token string       `json:"token"`
		User  apiauth.User `json:"user"`
	}
	handlertest.Decode(t, resp, &login)
	require.NotEmpty(t, login.Token)
	assert.Equal(t, handlertest.AdminEmail, login.User.Email)

	resp = handlertest.JSON(t, app, http.MethodGet, apiauth.Path+"/session", "", login.Token)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Contains(t, handlertest.Body(t, resp), `"name":"Admin"`)

	req := httptest.NewRequest(http.MethodGet, apiauth.Path+"/session", nil)
	req.Header.Set(fiber.HeaderAuthorization, "Bearer "+login.Token)
	bearer, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, bearer.StatusCode)

	resp = handlertest.JSON(t, app, http.MethodPost, apiauth.Path+"/logout", "", login.Token)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	resp = handlertest.JSON(t, app, http.MethodGet, apiauth.Path+"/session", "", login.Token)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)

	resp = handlertest.JSON(t, app, http.MethodPost, apiauth.Path+"/logout", "", login.Token)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func TestLoginFailures(t *testing.T) {
	deps := handlertest.NewDeps(t)
	user, err := deps.Users.CreateUser(handlertest.AdminEmail, handlertest.AdminPassword, "Admin")
	require.NoError(t, err)

	app := handlertest.NewApp()

	var s apiauth.Service
	require.NoError(t, s.Init(app, deps))

	tests := []struct {
		name string
		body string
		want int
	}{
		{"malformed", `{`, fiber.StatusBadRequest},
		{"missing password", `{"email":"admin@example.com"}`, fiber.StatusBadRequest},
		{"wrong password", `{"email":"admin@example.com","password":"nope"}`, fiber.StatusUnauthorized},
		{"unknown user", `{"email":"who@example.com","password":"nope"}`, fiber.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := handlertest.JSON(t, app, http.MethodPost, apiauth.Path+"/login", tt.body, "")
			assert.Equal(t, tt.want, resp.StatusCode)
			assert.Empty(t, resp.Header.Get(fiber.HeaderSetCookie))
		})
	}

	// a second account keeps the first one from being the last active user
	_, err = deps.Users.CreateUser("other@example.com", "other-pass", "Other")
	require.NoError(t, err)
	require.NoError(t, deps.Users.UpdateUser(user.ID, "Admin", false))

	resp := handlertest.Request(t, app, http.MethodPost, apiauth.Path+"/login",
		strings.NewReader(`{"email":"admin@example.com","password":"`+handlertest.AdminPassword+`"}`),
		fiber.MIMEApplicationJSON, "")
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)
}

func TestInitRejectsNilDeps(t *testing.T) {
	var s apiauth.Service
	assert.Error(t, s.Init(handlertest.NewApp(), nil))
}
