// Package session keeps server side admin sessions in a fiber storage.
// The session id is the bearer token handed to browsers and API clients.
package session

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/session"

	"github.com/CodeCraft-Studio/studio-site/internal/auth"
	"github.com/CodeCraft-Studio/studio-site/internal/config"
	"github.com/CodeCraft-Studio/studio-site/internal/db/models"
)

const bearerPrefix = "Bearer "

// Data represents the session data structure.
type Data struct {
	User      models.User `json:"user"`
	CreatedAt time.Time   `json:"created_at"`
}

// Accounts loads the current state of a session's user.
type Accounts interface {
	GetUserByID(userID uint64) (*models.User, error)
}

// Manager reads and writes sessions and the cookie carrying their id.
type Manager struct {
	store      *session.Store
	accounts   Accounts
	expiry     time.Duration
	cookieName string
	secure     bool
}

// NewManager returns a manager on storage. A nil storage keeps sessions in memory.
// Cookies are marked secure unless devMode is set.
func NewManager(storage fiber.Storage, cfg config.Session, devMode bool) *Manager {
	return &Manager{
		store: session.New(session.Config{
			Storage:    storage,
			Expiration: cfg.ExpiryTime,
			KeyLookup:  "cookie:" + cfg.CookieName,
		}),
		expiry:     cfg.ExpiryTime,
		cookieName: cfg.CookieName,
		secure:     !devMode,
	}
}

// WithAccounts makes Lookup re-read the session's user on every call.
// Sessions of deleted or deactivated accounts are removed and not found.
func (m *Manager) WithAccounts(accounts Accounts) *Manager {
	m.accounts = accounts
	return m
}

// Expiry is the lifetime of a session and its cookie.
func (m *Manager) Expiry() time.Duration { return m.expiry }

// CookieName is the name of the session cookie.
func (m *Manager) CookieName() string { return m.cookieName }

// Create stores a new session for user and returns its id.
func (m *Manager) Create(user models.User) (string, error) {
	id, err := GenerateSessionID()
	if err != nil {
		return "", fmt.Errorf("generate session id: %w", err)
	}

	data := Data{User: user, CreatedAt: time.Now().UTC()}

	out, err := json.Marshal(&data)
	if err != nil {
		return "", fmt.Errorf("encode session: %w", err)
	}

	if err := m.store.Storage.Set(id, out, m.expiry); err != nil {
		return "", fmt.Errorf("write session: %w", err)
	}

	return id, nil
}

// Lookup returns the session stored under id. found is false for an empty
// id and for unknown or expired sessions.
func (m *Manager) Lookup(id string) (*Data, bool, error) {
	if id == "" {
		return nil, false, nil
	}

	raw, err := m.store.Storage.Get(id)
	if err != nil {
		return nil, false, fmt.Errorf("read session: %w", err)
	}

	if len(raw) == 0 {
		return nil, false, nil
	}

	data := new(Data)
	if err := json.Unmarshal(raw, data); err != nil {
		return nil, false, fmt.Errorf("decode session: %w", err)
	}

	if data.User.ID == 0 {
		return nil, false, nil
	}

	if m.accounts == nil {
		return data, true, nil
	}

	user, err := m.accounts.GetUserByID(data.User.ID)

	switch {
	case errors.Is(err, auth.ErrUserNotFound):
	case err != nil:
		return nil, false, fmt.Errorf("read session user: %w", err)
	case user.Active:
		user.Password = ""
		data.User = *user

		return data, true, nil
	}

	if err := m.Delete(id); err != nil {
		return nil, false, fmt.Errorf("drop session: %w", err)
	}

	return nil, false, nil
}

// Delete removes the session stored under id.
func (m *Manager) Delete(id string) error {
	if id == "" {
		return nil
	}

	return m.store.Storage.Delete(id) //nolint:wrapcheck
}

// Token returns the session id of the request, taken from the session cookie
// or from an Authorization bearer header.
func (m *Manager) Token(c *fiber.Ctx) string {
	if v := c.Cookies(m.cookieName); v != "" {
		return v
	}

	if h := c.Get(fiber.HeaderAuthorization); strings.HasPrefix(h, bearerPrefix) {
		return strings.TrimSpace(strings.TrimPrefix(h, bearerPrefix))
	}

	return ""
}

// SetCookie writes the session cookie.
func (m *Manager) SetCookie(c *fiber.Ctx, id string) {
	c.Cookie(&fiber.Cookie{
		Name:     m.cookieName,
		Value:    id,
		Path:     "/",
		MaxAge:   int(m.expiry.Seconds()),
		Secure:   m.secure,
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteLaxMode,
	})
}

// ClearCookie expires the session cookie.
func (m *Manager) ClearCookie(c *fiber.Ctx) {
	c.Cookie(&fiber.Cookie{
		Name:     m.cookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		Expires:  time.Unix(0, 0),
		Secure:   m.secure,
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteLaxMode,
	})
}

// GenerateSessionID generates a new secure random session ID.
func GenerateSessionID() (string, error) {
	// 32 bytes = 256 bits
	b := make([]byte, 32) //nolint:mnd
	if _, err := rand.Read(b); err != nil {
		return "", err
	}

	return hex.EncodeToString(b), nil
}
