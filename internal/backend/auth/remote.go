package auth

import (
	"context"
	"errors"
	"net/http"
	"sync"

	"github.com/CodeCraft-Studio/studio-site/internal/backend"
)

// Remote is an Upstream backed by the site's JSON auth API.
// Tokens are read from and written to the CookieStore by the Provider.
type Remote struct {
	client  *backend.Client
	cookies *CookieStore

	mu        sync.Mutex
	listeners map[int]func(Event)
	nextID    int
}

// NewRemote returns an upstream using client, which must point at the site.
func NewRemote(client *backend.Client, cookies *CookieStore) *Remote {
	return &Remote{
		client:    client.WithToken(cookies),
		cookies:   cookies,
		listeners: map[int]func(Event){},
	}
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type sessionResponse struct {
	Token string `json:"token"`
	User  *User  `json:"user"`
}

// Configure restores a stored session: a cookie accepted by the site emits
// a signed in event, a rejected one a signed out event.
func (r *Remote) Configure(ctx context.Context) error {
	if r.cookies.Token() == "" {
		return nil
	}

	token := r.cookies.Token()

	var out sessionResponse

	err := r.client.JSON(ctx, http.MethodGet, "/api/auth/session", nil, &out)

	switch {
	case errors.Is(err, backend.ErrUnauthorized):
		r.emit(Event{})
		return nil
	case err != nil:
		return err
	}

	r.emit(Event{User: out.User, Token: token})

	return nil
}

// SignIn implements Upstream.
func (r *Remote) SignIn(ctx context.Context, email, password string) (Event, error) {
	var out sessionResponse

	if err := r.client.JSON(ctx, http.MethodPost, "/api/auth/login", loginRequest{Email: email, Password: password}, &out); err != nil {
		return Event{}, err //nolint:wrapcheck
	}

	ev := Event{User: out.User, Token: out.Token}
	r.emit(ev)

	return ev, nil
}

// SignOut implements Upstream.
func (r *Remote) SignOut(ctx context.Context) error {
	err := r.client.JSON(ctx, http.MethodPost, "/api/auth/logout", nil, nil)
	if errors.Is(err, backend.ErrUnauthorized) {
		err = nil
	}

	r.emit(Event{})

	return err
}

// Subscribe implements Upstream.
func (r *Remote) Subscribe(fn func(Event)) func() {
	r.mu.Lock()
	defer r.mu.Unlock()

	id := r.nextID
	r.nextID++
	r.listeners[id] = fn

	return func() {
		r.mu.Lock()
		defer r.mu.Unlock()

		delete(r.listeners, id)
	}
}

func (r *Remote) emit(ev Event) {
	r.mu.Lock()
	fns := make([]func(Event), 0, len(r.listeners))

	for _, fn := range r.listeners {
		fns = append(fns, fn)
	}
	r.mu.Unlock()

	for _, fn := range fns {
		fn(ev)
	}
}

// Listeners returns the number of subscribed listeners.
func (r *Remote) Listeners() int {
	r.mu.Lock()
	defer r.mu.Unlock()

	return len(r.listeners)
}
