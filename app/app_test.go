package app

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/CodeCraft-Studio/studio-site/internal/backend"
	"github.com/CodeCraft-Studio/studio-site/internal/backend/auth"
)

const testConfigTOML = `
Title = "Studio"

[Webserver]
Port = 9090
URL = "http://localhost:9090"

[DB]
GormEngine = "sqlite"
Path = ":memory:"

[Log]
LogLevel = "info"
AppName = "test"
ServiceName = "test"
`

func runRoot(t *testing.T, args ...string) (string, error) {
	t.Helper()

	var out bytes.Buffer

	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)

	err := rootCmd.Execute()

	return out.String(), err
}

func TestConfigDump(t *testing.T) {
	dir := t.TempDir() + string(filepath.Separator)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "main.toml"), []byte(testConfigTOML), 0o600))

	out, err := runRoot(t, "--config", dir, "config", "dump")
	require.NoError(t, err)
	assert.Contains(t, out, "Port = 9090")

	out, err = runRoot(t, "--config", dir, "config", "dump", "--json")
	require.NoError(t, err)
	assert.Contains(t, out, `"Port": 9090`)

	dumpJSON = false
}

func TestConfigDumpMissingFile(t *testing.T) {
	_, err := runRoot(t, "--config", t.TempDir()+"/missing/", "config", "dump")
	require.Error(t, err)
}

func TestProjectsNeedBackend(t *testing.T) {
	dir := t.TempDir() + string(filepath.Separator)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "main.toml"), []byte(testConfigTOML), 0o600))

	_, err := runRoot(t, "--config", dir, "projects", "list")
	require.Error(t, err)
}

func TestDeleteProjectExpiresRejectedSession(t *testing.T) {
	site := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/auth/login":
			_, _ = io.WriteString(w, `{"token":"cli-token","user":{"id":1,"email":"admin@example.com"}}`)
		case "/api/auth/logout":
			_, _ = io.WriteString(w, `{"message":"logged out"}`)
		default:
			w.WriteHeader(http.StatusUnauthorized)
		}
	}))
	defer site.Close()

	var bearer string

	api := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		bearer = r.Header.Get("Authorization")

		w.WriteHeader(http.StatusUnauthorized)
		_, _ = io.WriteString(w, `{"error":"token expired"}`)
	}))
	defer api.Close()

	saved, savedEmail, savedPassword := cfg, email, password
	t.Cleanup(func() { cfg, email, password = saved, savedEmail, savedPassword })

	cfg.Webserver.URL = site.URL
	cfg.Webserver.Session.CookieName = "session"
	cfg.Backend.URL = api.URL
	email, password = "admin@example.com", "secret"

	ctx := context.Background()

	sess, err := signIn(ctx)
	require.NoError(t, err)
	require.Equal(t, auth.Authenticated, sess.provider.State())
	require.Equal(t, auth.LandingPath, sess.nav.Path())

	err = sess.deleteProject(ctx, "7")
	require.ErrorIs(t, err, backend.ErrUnauthorized)

	assert.Equal(t, "Bearer cli-token", bearer)
	assert.Equal(t, auth.Unauthenticated, sess.provider.State())
	assert.Nil(t, sess.provider.User())
	assert.Empty(t, sess.cookies.Token())
	assert.Equal(t, auth.LoginPath, sess.nav.Path())

	sess.close(ctx)
}
