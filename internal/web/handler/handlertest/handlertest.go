// Package handlertest holds fixtures shared by the handler tests.
package handlertest

import (
	"bytes"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"

	"github.com/CodeCraft-Studio/studio-site/internal/auth"
	"github.com/CodeCraft-Studio/studio-site/internal/blob"
	"github.com/CodeCraft-Studio/studio-site/internal/config"
	"github.com/CodeCraft-Studio/studio-site/internal/db"
	"github.com/CodeCraft-Studio/studio-site/internal/db/controller/content"
	"github.com/CodeCraft-Studio/studio-site/internal/db/query"
	"github.com/CodeCraft-Studio/studio-site/internal/web/handler"
	"github.com/CodeCraft-Studio/studio-site/internal/web/session"
)

const (
	// AdminEmail is the account created by Login.
	AdminEmail = "admin@example.com"
	// AdminPassword is its password.
	AdminPassword = "s3cr3t-pass"
	// CookieName is the session cookie name of the fixtures.
	CookieName = "session"
)

// NoOpViews is a minimal fiber views engine. It writes the "error" entry of
// a fiber.Map when present and the template name otherwise.
type NoOpViews struct{}

// Load implements fiber.Views.
func (NoOpViews) Load() error { return nil }

// Render implements fiber.Views.
func (NoOpViews) Render(w io.Writer, name string, data interface{}, _ ...string) error {
	if m, ok := data.(fiber.Map); ok {
		if v, exists := m["error"]; exists && v != nil {
			_, _ = io.WriteString(w, v.(string))
			return nil
		}
	}

	_, _ = io.WriteString(w, name)

	return nil
}

// NewApp returns a fiber app rendering with NoOpViews.
func NewApp() *fiber.App {
	return fiber.New(fiber.Config{Views: NoOpViews{}, Immutable: true})
}

// NewDeps wires in-memory services: sqlite, memory sessions and an fs blob
// store below a temp dir.
func NewDeps(t *testing.T) *handler.Deps {
	t.Helper()

	gdb, err := db.OpenSQLite("")
	require.NoError(t, err)
	require.NoError(t, db.Migrate(gdb))

	blobs, err := blob.NewFS(t.TempDir(), "/uploads")
	require.NoError(t, err)

	cfg := &config.Config{
		DevMode: true,
		Webserver: config.Webserver{
			URL:     "http://localhost",
			Session: config.Session{ExpiryTime: time.Hour, CookieName: CookieName},
		},
		Upload: config.Upload{Driver: config.UploadDriverFS, MaxSize: 1 << 20},
	}

	users := auth.NewLocalProvider(gdb)

	return &handler.Deps{
		Cfg:       cfg,
		Content:   content.New(query.New(gdb)),
		Validator: content.NewValidator(),
		Users:     users,
		Sessions:  session.NewManager(nil, cfg.Webserver.Session, true).WithAccounts(users),
		Blobs:     blobs,
	}
}

// Login creates the admin account when missing and returns a session token.
func Login(t *testing.T, deps *handler.Deps) string {
	t.Helper()

	user, err := deps.Users.Authenticate(AdminEmail, AdminPassword)
	if err != nil {
		user, err = deps.Users.CreateUser(AdminEmail, AdminPassword, "Admin")
		require.NoError(t, err)
	}

	token, err := deps.Sessions.Create(*user)
	require.NoError(t, err)

	return token
}

// Request runs one request against app. A non-empty token is sent as the
// session cookie.
func Request(t *testing.T, app *fiber.App, method, target string, body io.Reader, contentType, token string) *http.Response {
	t.Helper()

	req := httptest.NewRequest(method, target, body)
	if contentType != "" {
		req.Header.Set(fiber.HeaderContentType, contentType)
	}

	if token != "" {
		req.AddCookie(&http.Cookie{Name: CookieName, Value: token})
	}

	resp, err := app.Test(req, -1)
	require.NoError(t, err)

	t.Cleanup(func() { _ = resp.Body.Close() })

	return resp
}

// JSON sends payload encoded as JSON.
func JSON(t *testing.T, app *fiber.App, method, target, payload, token string) *http.Response {
	t.Helper()

	var body io.Reader
	if payload != "" {
		body = strings.NewReader(payload)
	}

	return Request(t, app, method, target, body, fiber.MIMEApplicationJSON, token)
}

// Decode reads a JSON response body into out.
func Decode(t *testing.T, resp *http.Response, out any) {
	t.Helper()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(raw, out), "body %q", string(raw))
}

// Body returns the response body as a string.
func Body(t *testing.T, resp *http.Response) string {
	t.Helper()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	return string(raw)
}

// CaptureViews records the last rendered template and its data.
type CaptureViews struct {
	mu   sync.Mutex
	name string
	data fiber.Map
}

// Load implements fiber.Views.
func (v *CaptureViews) Load() error { return nil }

// Render implements fiber.Views. It writes the template name.
func (v *CaptureViews) Render(w io.Writer, name string, data interface{}, _ ...string) error {
	v.mu.Lock()
	defer v.mu.Unlock()

	v.name = name
	v.data, _ = data.(fiber.Map)

	_, _ = io.WriteString(w, name)

	return nil
}

// Last returns the last template name and data.
func (v *CaptureViews) Last() (string, fiber.Map) {
	v.mu.Lock()
	defer v.mu.Unlock()

	return v.name, v.data
}

// NewCaptureApp returns a fiber app rendering with a CaptureViews.
func NewCaptureApp() (*fiber.App, *CaptureViews) {
	views := &CaptureViews{}

	return fiber.New(fiber.Config{Views: views, Immutable: true}), views
}

// PNG is a minimal png header that content sniffing accepts as image/png.
var PNG = append([]byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR"), make([]byte, 32)...) //nolint:gochecknoglobals

// Part is one file of a multipart form.
type Part struct {
	Field, Name, ContentType string
	Data                     []byte
}

// Multipart encodes fields and files as a multipart form and returns the
// body with its content type.
func Multipart(t *testing.T, fields map[string]string, parts ...Part) (io.Reader, string) {
	t.Helper()

	buf := new(bytes.Buffer)
	w := multipart.NewWriter(buf)

	for k, v := range fields {
		require.NoError(t, w.WriteField(k, v))
	}

	for _, p := range parts {
		h := textproto.MIMEHeader{}
		h.Set("Content-Disposition", `form-data; name="`+p.Field+`"; filename="`+p.Name+`"`)
		h.Set("Content-Type", p.ContentType)

		pw, err := w.CreatePart(h)
		require.NoError(t, err)

		_, err = pw.Write(p.Data)
		require.NoError(t, err)
	}

	require.NoError(t, w.Close())

	return buf, w.FormDataContentType()
}
