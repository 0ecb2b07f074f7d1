package daemon

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/CodeCraft-Studio/studio-site/internal/config"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()

	dir := t.TempDir()

	return &config.Config{
		Title: "Studio",
		DB:    config.DB{GormEngine: config.EngineSQLite, Path: filepath.Join(dir, "site.db")},
		Webserver: config.Webserver{
			Port:    8080,
			URL:     "http://localhost:8080",
			Session: config.Session{ExpiryTime: time.Hour, CookieName: "session"},
		},
		Admin:  config.Admin{Email: "Admin@Example.com", Password: "changeme", Name: "Admin"},
		Upload: config.Upload{Driver: config.UploadDriverFS, Root: filepath.Join(dir, "uploads"), URLPath: "/uploads"},
	}
}

func TestWireSeedsAdminOnce(t *testing.T) {
	cfg := testConfig(t)

	deps, err := Wire(context.Background(), cfg, nil)
	require.NoError(t, err)
	assert.Nil(t, deps.Backend)
	assert.Equal(t, "fs", deps.Blobs.Driver())

	user, err := deps.Users.Authenticate("admin@example.com", "changeme")
	require.NoError(t, err)
	assert.Equal(t, "Admin", user.Name)

	// a second start keeps the existing account
	cfg.Admin.Password = "other"

	deps, err = Wire(context.Background(), cfg, nil)
	require.NoError(t, err)

	n, err := deps.Users.CountUsers()
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)

	_, err = deps.Users.Authenticate("admin@example.com", "changeme")
	require.NoError(t, err)
}

func TestWireBackend(t *testing.T) {
	cfg := testConfig(t)
	cfg.Backend = config.Backend{URL: "http://localhost:8000/api", Timeout: time.Second}

	deps, err := Wire(context.Background(), cfg, nil)
	require.NoError(t, err)
	assert.NotNil(t, deps.Backend)

	cfg.Backend.URL = "not a url"
	_, err = Wire(context.Background(), cfg, nil)
	require.Error(t, err)
}

func TestNew(t *testing.T) {
	d, err := New(context.Background(), testConfig(t))
	require.NoError(t, err)
	assert.Equal(t, ":8080", d.addr)

	_, err = New(context.Background(), nil)
	require.Error(t, err)
}

func TestSessionStorageForSQLite(t *testing.T) {
	assert.Nil(t, sessionStorage(testConfig(t)))
}
