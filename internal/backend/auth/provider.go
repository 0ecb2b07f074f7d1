// Package auth keeps the client side view of an admin session: who is logged
// in, the token cookie mirroring the server session, and the navigation that
// follows logging in and out.
package auth

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"

	"github.com/CodeCraft-Studio/studio-site/internal/logger"
)

// CookieLifetime is the lifetime of the token cookie minted on sign in.
const CookieLifetime = 7 * 24 * time.Hour

// Default navigation targets.
const (
	LoginPath   = "/admin/login"
	LandingPath = "/admin"
)

// State of a Provider.
type State int32

// Provider states.
const (
	Uninitialized State = iota
	Initializing
	Authenticated
	Unauthenticated
)

func (s State) String() string {
	switch s {
	case Uninitialized:
		return "uninitialized"
	case Initializing:
		return "initializing"
	case Authenticated:
		return "authenticated"
	case Unauthenticated:
		return "unauthenticated"
	default:
		return "unknown"
	}
}

// User is the signed in account.
type User struct {
	ID    uint64 `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
}

// Event is an upstream authentication change. A nil User means signed out.
type Event struct {
	User  *User
	Token string
}

// Upstream is the authority that signs users in and out.
type Upstream interface {
	// Configure prepares session persistence, e.g. restores a stored session.
	Configure(ctx context.Context) error
	SignIn(ctx context.Context, email, password string) (Event, error)
	SignOut(ctx context.Context) error
	// Subscribe registers fn for every change and returns the unsubscribe func.
	Subscribe(fn func(Event)) func()
}

// Navigator moves the user to another page.
type Navigator interface {
	Path() string
	Navigate(path string)
}

// Provider is the session state machine.
type Provider struct {
	upstream Upstream
	cookies  *CookieStore
	nav      Navigator
	log      zerolog.Logger

	mu    sync.RWMutex
	state State
	user  *User

	loading     atomic.Int32
	unsubscribe func()
	closeOnce   sync.Once
}

// NewProvider returns a provider in the Uninitialized state.
func NewProvider(upstream Upstream, cookies *CookieStore, nav Navigator) *Provider {
	return &Provider{
		upstream: upstream,
		cookies:  cookies,
		nav:      nav,
		log:      logger.Component("auth-provider"),
	}
}

// Start subscribes to upstream changes and configures persistence.
// Afterwards the provider is Unauthenticated unless a change notification
// already authenticated it. A configuration failure is logged only.
func (p *Provider) Start(ctx context.Context) {
	p.setState(Initializing, nil, false)

	p.mu.Lock()
	p.unsubscribe = p.upstream.Subscribe(p.onChange)
	p.mu.Unlock()

	if err := p.upstream.Configure(ctx); err != nil {
		p.log.Warn().Err(err).Msg("configure session persistence failed")
	}

	p.mu.Lock()
	if p.state == Initializing {
		p.state = Unauthenticated
	}
	p.mu.Unlock()
}

// Close unsubscribes from upstream changes. It is safe to call more than once.
func (p *Provider) Close() {
	p.closeOnce.Do(func() {
		p.mu.Lock()
		unsubscribe := p.unsubscribe
		p.unsubscribe = nil
		p.mu.Unlock()

		if unsubscribe != nil {
			unsubscribe()
		}
	})
}

// State returns the current state.
func (p *Provider) State() State {
	p.mu.RLock()
	defer p.mu.RUnlock()

	return p.state
}

// User returns the signed in user or nil.
func (p *Provider) User() *User {
	p.mu.RLock()
	defer p.mu.RUnlock()

	if p.user == nil {
		return nil
	}

	u := *p.user

	return &u
}

// Loading reports whether a login or logout is in flight.
func (p *Provider) Loading() bool {
	return p.loading.Load() > 0
}

// Login signs in upstream, stores the token cookie and moves to the landing
// page. Upstream errors are returned unchanged.
func (p *Provider) Login(ctx context.Context, email, password string) error {
	p.loading.Add(1)
	defer p.loading.Add(-1)

	ev, err := p.upstream.SignIn(ctx, email, password)
	if err != nil {
		return err //nolint:wrapcheck
	}

	p.apply(ev)

	if p.nav.Path() != LandingPath {
		p.nav.Navigate(LandingPath)
	}

	return nil
}

// Logout signs out upstream, clears the token cookie and moves to the login
// page. Local state is cleared even when upstream fails; that error is returned.
func (p *Provider) Logout(ctx context.Context) error {
	p.loading.Add(1)
	defer p.loading.Add(-1)

	err := p.upstream.SignOut(ctx)
	if err != nil {
		p.log.Warn().Err(err).Msg("upstream sign out failed")
	}

	p.apply(Event{})

	if p.nav.Path() != LoginPath {
		p.nav.Navigate(LoginPath)
	}

	return err //nolint:wrapcheck
}

// Expire drops the local session after the backend rejected its token and
// moves to the login page. Upstream is not contacted.
func (p *Provider) Expire() {
	if p.State() == Authenticated {
		p.log.Info().Msg("session rejected by backend")
	}

	p.apply(Event{})

	if p.nav.Path() != LoginPath {
		p.nav.Navigate(LoginPath)
	}
}

func (p *Provider) onChange(ev Event) {
	p.apply(ev)
}

func (p *Provider) apply(ev Event) {
	if ev.User != nil && ev.Token != "" {
		p.cookies.Set(ev.Token, CookieLifetime)
		p.setState(Authenticated, ev.User, true)

		return
	}

	p.cookies.Clear()
	p.setState(Unauthenticated, nil, true)
}

func (p *Provider) setState(s State, u *User, setUser bool) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.state = s

	if setUser {
		p.user = u
	}
}
