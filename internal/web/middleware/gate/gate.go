package gate

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/CodeCraft-Studio/studio-site/internal/db/models"
	"github.com/CodeCraft-Studio/studio-site/internal/web/session"
)

// CurrentUserKey is the fiber.Locals key holding the logged in models.User.
const CurrentUserKey = "CurrentUser"

// Action is the outcome of a gate decision.
type Action int

const (
	// Allow lets the request through.
	Allow Action = iota
	// RedirectToLogin sends the browser to the login page.
	RedirectToLogin
	// RedirectToLanding sends the browser to the protected landing page.
	RedirectToLanding
)

// Decision is the result of Decide.
type Decision struct {
	Action   Action
	Location string
}

// Paths configures the protected area.
type Paths struct {
	Prefix  string // everything below is protected
	Login   string // login page, never protected
	Landing string // target after login
	Skip    []string
}

// DefaultPaths protects /admin.
func DefaultPaths() Paths {
	return Paths{
		Prefix:  "/admin",
		Login:   "/admin/login",
		Landing: "/admin",
		Skip:    []string{"/static", "/uploads", "/api", "/metrics", "/checkalive"},
	}
}

// Sessions resolves the session of a request.
type Sessions interface {
	Token(c *fiber.Ctx) string
	Lookup(id string) (*session.Data, bool, error)
}

// Decide applies the gate rules. A failed session lookup counts as no
// session on protected paths and is ignored everywhere else.
func Decide(p Paths, path string, hasSession bool, lookupErr error) Decision {
	path = normalize(path)

	isLogin := path == p.Login
	protected := !isLogin && (path == p.Prefix || strings.HasPrefix(path, p.Prefix+"/"))

	switch {
	case protected && (lookupErr != nil || !hasSession):
		return Decision{Action: RedirectToLogin, Location: p.Login}
	case isLogin && lookupErr == nil && hasSession:
		return Decision{Action: RedirectToLanding, Location: p.Landing}
	default:
		return Decision{Action: Allow}
	}
}

// New returns the gate middleware.
func New(sessions Sessions, p Paths) fiber.Handler {
	return func(c *fiber.Ctx) error {
		for _, prefix := range p.Skip {
			if strings.HasPrefix(c.Path(), prefix) {
				return c.Next()
			}
		}

		NoCache(c)

		data, found, err := sessions.Lookup(sessions.Token(c))
		if err != nil {
			log.Warn().Err(err).Str("path", c.Path()).Msg("session lookup failed")
		}

		d := Decide(p, c.Path(), found, err)
		if d.Action != Allow {
			return c.Redirect(d.Location, fiber.StatusFound)
		}

		if err == nil && found {
			c.Locals(CurrentUserKey, data.User)
		}

		return c.Next()
	}
}

// RequireAPISession rejects API requests without a valid session with 401.
func RequireAPISession(sessions Sessions) fiber.Handler {
	return func(c *fiber.Ctx) error {
		data, found, err := sessions.Lookup(sessions.Token(c))
		if err != nil {
			log.Warn().Err(err).Str("path", c.Path()).Msg("session lookup failed")
		}

		if err != nil || !found {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "unauthorized"})
		}

		c.Locals(CurrentUserKey, data.User)

		return c.Next()
	}
}

// NoCache stamps headers that forbid caching of the response.
func NoCache(c *fiber.Ctx) {
	c.Set(fiber.HeaderCacheControl, "no-store, no-cache, must-revalidate, proxy-revalidate")
	c.Set(fiber.HeaderPragma, "no-cache")
	c.Set(fiber.HeaderExpires, "0")
}

// CurrentUser returns the user the gate attached to the request.
func CurrentUser(c *fiber.Ctx) (models.User, bool) {
	u, ok := c.Locals(CurrentUserKey).(models.User)
	return u, ok
}

func normalize(path string) string {
	if len(path) > 1 {
		path = strings.TrimRight(path, "/")
	}

	if path == "" {
		return "/"
	}

	return path
}
