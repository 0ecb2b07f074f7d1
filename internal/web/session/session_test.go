package session_test

import (
	"errors"
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/CodeCraft-Studio/studio-site/internal/auth"
	"github.com/CodeCraft-Studio/studio-site/internal/config"
	"github.com/CodeCraft-Studio/studio-site/internal/db/models"
	"github.com/CodeCraft-Studio/studio-site/internal/web/session"
)

func newManager() *session.Manager {
	return session.NewManager(nil, config.Session{ExpiryTime: time.Hour, CookieName: "session"}, false)
}

func TestCreateLookupDelete(t *testing.T) {
	m := newManager()

	id, err := m.Create(models.User{ID: 7, Email: "a@example.com", Name: "Ann"})
	require.NoError(t, err)
	assert.Len(t, id, 64)

	data, found, err := m.Lookup(id)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, uint64(7), data.User.ID)
	assert.Equal(t, "a@example.com", data.User.Email)
	assert.Empty(t, data.User.Password)

	require.NoError(t, m.Delete(id))

	_, found, err = m.Lookup(id)
	require.NoError(t, err)
	assert.False(t, found)

	_, found, err = m.Lookup("")
	require.NoError(t, err)
	assert.False(t, found)

	_, found, err = m.Lookup("unknown")
	require.NoError(t, err)
	assert.False(t, found)
}

type fakeAccounts map[uint64]*models.User

var errStorage = errors.New("database is locked")

func (f fakeAccounts) GetUserByID(id uint64) (*models.User, error) {
	if id == 99 {
		return nil, errStorage
	}

	u, ok := f[id]
	if !ok {
		return nil, auth.ErrUserNotFound
	}

	cp := *u

	return &cp, nil
}

func TestLookupRechecksAccount(t *testing.T) {
	accounts := fakeAccounts{
		1: {ID: 1, Active: true, Email: "a@example.com", Name: "Renamed", Password: "hash"},
		2: {ID: 2, Active: false, Email: "b@example.com"},
	}
	m := newManager().WithAccounts(accounts)

	active, err := m.Create(models.User{ID: 1, Email: "a@example.com", Name: "Ann"})
	require.NoError(t, err)

	data, found, err := m.Lookup(active)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, "Renamed", data.User.Name)
	assert.Empty(t, data.User.Password)

	for _, u := range []models.User{{ID: 2}, {ID: 3}} {
		id, err := m.Create(u)
		require.NoError(t, err)

		_, found, err = m.Lookup(id)
		require.NoError(t, err)
		assert.False(t, found, "user %d", u.ID)

		// the session is gone even if the account comes back
		accounts[u.ID] = &models.User{ID: u.ID, Active: true}

		_, found, err = m.Lookup(id)
		require.NoError(t, err)
		assert.False(t, found, "user %d", u.ID)
	}

	broken, err := m.Create(models.User{ID: 99})
	require.NoError(t, err)

	_, found, err = m.Lookup(broken)
	require.ErrorIs(t, err, errStorage)
	assert.False(t, found)
}

func TestToken(t *testing.T) {
	m := newManager()

	app := fiber.New()
	app.Get("/", func(c *fiber.Ctx) error {
		return c.SendString(m.Token(c))
	})

	tests := []struct {
		name   string
		cookie string
		header string
		want   string
	}{
		{name: "none"},
		{name: "cookie", cookie: "abc", want: "abc"},
		{name: "bearer", header: "Bearer xyz", want: "xyz"},
		{name: "cookie wins", cookie: "abc", header: "Bearer xyz", want: "abc"},
		{name: "other scheme", header: "Basic xyz"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(fiber.MethodGet, "/", nil)
			if tt.cookie != "" {
				req.Header.Set(fiber.HeaderCookie, "session="+tt.cookie)
			}

			if tt.header != "" {
				req.Header.Set(fiber.HeaderAuthorization, tt.header)
			}

			resp, err := app.Test(req, -1)
			require.NoError(t, err)

			body, err := io.ReadAll(resp.Body)
			require.NoError(t, err)
			assert.Equal(t, tt.want, string(body))
		})
	}
}

func TestCookies(t *testing.T) {
	m := newManager()

	app := fiber.New()
	app.Get("/set", func(c *fiber.Ctx) error {
		m.SetCookie(c, "abc")
		return nil
	})
	app.Get("/clear", func(c *fiber.Ctx) error {
		m.ClearCookie(c)
		return nil
	})

	resp, err := app.Test(httptest.NewRequest(fiber.MethodGet, "/set", nil), -1)
	require.NoError(t, err)

	set := resp.Header.Get(fiber.HeaderSetCookie)
	assert.Contains(t, set, "session=abc")
	assert.Contains(t, set, "max-age=3600")
	assert.Contains(t, set, "HttpOnly")
	assert.Contains(t, set, "secure")

	resp, err = app.Test(httptest.NewRequest(fiber.MethodGet, "/clear", nil), -1)
	require.NoError(t, err)
	assert.Contains(t, resp.Header.Get(fiber.HeaderSetCookie), "session=;")
}
