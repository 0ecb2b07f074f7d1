package user_test

import (
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/CodeCraft-Studio/studio-site/internal/db/models"
	"github.com/CodeCraft-Studio/studio-site/internal/web/handler"
	"github.com/CodeCraft-Studio/studio-site/internal/web/handler/admin/user"
	"github.com/CodeCraft-Studio/studio-site/internal/web/handler/handlertest"
	"github.com/CodeCraft-Studio/studio-site/internal/web/middleware/gate"
)

func setup(t *testing.T) (*fiber.App, *handlertest.CaptureViews, *handler.Deps, string) {
	t.Helper()

	deps := handlertest.NewDeps(t)
	token := handlertest.Login(t, deps)

	app, views := handlertest.NewCaptureApp()
	app.Use(gate.New(deps.Sessions, gate.DefaultPaths()))

	var s user.Service
	require.NoError(t, s.Init(app, deps))

	return app, views, deps, token
}

func post(t *testing.T, app *fiber.App, target string, form url.Values, token string) *http.Response {
	t.Helper()

	return handlertest.Request(t, app, http.MethodPost, target,
		strings.NewReader(form.Encode()), fiber.MIMEApplicationForm, token)
}

func TestCreateListUpdate(t *testing.T) {
	app, views, deps, token := setup(t)

	resp := post(t, app, user.Path, url.Values{
		"email": {"new@example.com"}, "name": {"New"}, "password": {"long-enough"},
	}, token)
	require.Equal(t, fiber.StatusFound, resp.StatusCode)

	resp = handlertest.Request(t, app, http.MethodGet, user.Path+"?search=new", nil, "", token)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	_, data := views.Last()
	users, ok := data["Users"].([]models.User)
	require.True(t, ok)
	require.Len(t, users, 1)
	assert.Equal(t, "new@example.com", users[0].Email)

	id := strconv.FormatUint(users[0].ID, 10)

	resp = post(t, app, user.Path+"/"+id, url.Values{"name": {"Renamed"}, "password": {"another-pass"}}, token)
	require.Equal(t, fiber.StatusFound, resp.StatusCode)

	got, err := deps.Users.Authenticate("new@example.com", "another-pass")
	require.ErrorContains(t, err, "disabled")
	assert.Nil(t, got)

	u, err := deps.Users.GetUserByID(users[0].ID)
	require.NoError(t, err)
	assert.Equal(t, "Renamed", u.Name)
	assert.False(t, u.Active)
}

func TestCreateRejects(t *testing.T) {
	app, views, _, token := setup(t)

	resp := post(t, app, user.Path, url.Values{"email": {"not-an-email"}, "password": {"long-enough"}}, token)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	resp = post(t, app, user.Path, url.Values{"email": {handlertest.AdminEmail}, "password": {"long-enough"}}, token)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	_, data := views.Last()
	assert.Contains(t, data["error"], "already exists")
}

func TestDeleteRules(t *testing.T) {
	app, _, deps, token := setup(t)

	admin, err := deps.Users.Authenticate(handlertest.AdminEmail, handlertest.AdminPassword)
	require.NoError(t, err)

	self := user.Path + "/" + strconv.FormatUint(admin.ID, 10) + "/delete"

	resp := post(t, app, self, nil, token)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	other, err := deps.Users.CreateUser("other@example.com", "long-enough", "Other")
	require.NoError(t, err)

	resp = post(t, app, user.Path+"/"+strconv.FormatUint(other.ID, 10)+"/delete", nil, token)
	require.Equal(t, fiber.StatusFound, resp.StatusCode)

	_, err = deps.Users.GetUserByID(other.ID)
	assert.Error(t, err)
}

func TestAccountChangesEndSessions(t *testing.T) {
	app, _, deps, token := setup(t)

	paused, err := deps.Users.CreateUser("paused@example.com", "long-enough", "Paused")
	require.NoError(t, err)

	gone, err := deps.Users.CreateUser("gone@example.com", "long-enough", "Gone")
	require.NoError(t, err)

	pausedToken, err := deps.Sessions.Create(*paused)
	require.NoError(t, err)

	goneToken, err := deps.Sessions.Create(*gone)
	require.NoError(t, err)

	for _, tok := range []string{pausedToken, goneToken} {
		resp := handlertest.Request(t, app, http.MethodGet, user.Path, nil, "", tok)
		require.Equal(t, fiber.StatusOK, resp.StatusCode)
	}

	resp := post(t, app, user.Path+"/"+strconv.FormatUint(paused.ID, 10), url.Values{"name": {"Paused"}}, token)
	require.Equal(t, fiber.StatusFound, resp.StatusCode)

	resp = post(t, app, user.Path+"/"+strconv.FormatUint(gone.ID, 10)+"/delete", nil, token)
	require.Equal(t, fiber.StatusFound, resp.StatusCode)

	for _, tok := range []string{pausedToken, goneToken} {
		resp = handlertest.Request(t, app, http.MethodGet, user.Path, nil, "", tok)
		require.Equal(t, fiber.StatusFound, resp.StatusCode)
		assert.Equal(t, "/admin/login", resp.Header.Get(fiber.HeaderLocation))

		_, found, err := deps.Sessions.Lookup(tok)
		require.NoError(t, err)
		assert.False(t, found)
	}

	resp = handlertest.Request(t, app, http.MethodGet, user.Path, nil, "", token)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}

func TestRequiresSession(t *testing.T) {
	app, _, _, _ := setup(t)

	resp := handlertest.Request(t, app, http.MethodGet, user.Path, nil, "", "")
	require.Equal(t, fiber.StatusFound, resp.StatusCode)
	assert.Equal(t, "/admin/login", resp.Header.Get(fiber.HeaderLocation))
}
