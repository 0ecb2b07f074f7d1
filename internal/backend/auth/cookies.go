package auth

import (
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"time"
)

// DefaultCookieName names the token cookie.
const DefaultCookieName = "session"

// CookieStore keeps the bearer token in a cookie jar scoped to the site URL.
// It implements backend.TokenSource.
type CookieStore struct {
	jar  http.CookieJar
	site *url.URL
	name string
}

// NewCookieStore returns a store for cookies of siteURL.
func NewCookieStore(siteURL, name string) (*CookieStore, error) {
	u, err := url.Parse(siteURL)
	if err != nil {
		return nil, err
	}

	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, err
	}

	if name == "" {
		name = DefaultCookieName
	}

	return &CookieStore{jar: jar, site: u, name: name}, nil
}

// Set stores token with the given lifetime.
func (s *CookieStore) Set(token string, lifetime time.Duration) {
	s.jar.SetCookies(s.site, []*http.Cookie{{
		Name:    s.name,
		Value:   token,
		Path:    "/",
		Expires: time.Now().Add(lifetime),
	}})
}

// Clear removes the token cookie.
func (s *CookieStore) Clear() {
	s.jar.SetCookies(s.site, []*http.Cookie{{
		Name:   s.name,
		Value:  "",
		Path:   "/",
		MaxAge: -1,
	}})
}

// Token returns the stored token or "".
func (s *CookieStore) Token() string {
	for _, c := range s.jar.Cookies(s.site) {
		if c.Name == s.name {
			return c.Value
		}
	}

	return ""
}

// ClearToken implements backend.TokenSource.
func (s *CookieStore) ClearToken() { s.Clear() }
