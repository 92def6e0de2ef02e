// Package auth holds the client's authentication state.
//
// Container is the single owner of the in-memory session and the only
// code allowed to read or write the session store. Screens call its
// operations and render from Snapshot; they never see the store.
package auth

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/naveenspark/teamwork/internal/storage"
	"github.com/naveenspark/teamwork/pkg/client"
	"github.com/naveenspark/teamwork/pkg/domain"
)

// DefaultRestoreDelay keeps the loading screen up long enough to read.
const DefaultRestoreDelay = 500 * time.Millisecond

// Failure reasons surfaced to the screens.
const (
	ReasonInvalidLogin    = "Invalid login data"
	ReasonSaveFailed      = "Failed to save login data"
	ReasonLogoutFailed    = "Failed to logout properly"
	ReasonRegisterFailed  = "Registration failed"
	ReasonLoginFailed     = "Login failed"
	ReasonRestoreFailed   = "Failed to restore session"
	ReasonNetworkFailure  = client.NetworkFailureMessage
	reasonUnknownIdentity = "identity source returned no user"
)

// Container owns the session.
type Container struct {
	store        *storage.SessionStore
	identity     IdentitySource
	logger       *slog.Logger
	restoreDelay time.Duration
	clock        func() time.Time

	mu        sync.RWMutex
	session   Session
	listeners []func(Session)

	restoreOnce   sync.Once
	restoreResult Result
}

// Option configures a Container.
type Option func(*Container)

// WithRestoreDelay sets the cosmetic delay before Restore reads the
// store. Zero disables it.
func WithRestoreDelay(d time.Duration) Option {
	return func(c *Container) { c.restoreDelay = d }
}

// WithLogger sets the logger used for failures.
func WithLogger(l *slog.Logger) Option {
	return func(c *Container) { c.logger = l }
}

// WithIdentity replaces the default LocalIdentity.
func WithIdentity(src IdentitySource) Option {
	return func(c *Container) { c.identity = src }
}

// WithClock sets the time source used to stamp tokens minted by the
// default LocalIdentity. It has no effect together with WithIdentity.
func WithClock(now func() time.Time) Option {
	return func(c *Container) { c.clock = now }
}

// New returns a Container in the loading state. Call Restore once
// before routing.
func New(store *storage.SessionStore, opts ...Option) *Container {
	c := &Container{
		store:        store,
		restoreDelay: DefaultRestoreDelay,
		session:      Session{IsLoading: true},
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.logger == nil {
		c.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if c.identity == nil {
		local := NewLocalIdentity()
		if c.clock != nil {
			local.now = c.clock
		}
		c.identity = local
	}
	return c
}

// Snapshot returns a copy of the current session.
func (c *Container) Snapshot() Session {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.session.clone()
}

// Token returns the current bearer token, or "" when signed out.
// It satisfies client.TokenSource.
func (c *Container) Token() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.session.Token
}

// Subscribe registers fn to be called with the new session after every
// state change. fn runs on the goroutine that made the change.
func (c *Container) Subscribe(fn func(Session)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.listeners = append(c.listeners, fn)
}

// Restore repopulates the session from the store. Only the first call
// does any work; later calls return the first call's result. Canceling
// ctx cuts the delay short but the store is still read.
func (c *Container) Restore(ctx context.Context) Result {
	c.restoreOnce.Do(func() {
		c.restoreResult = c.restore(ctx)
	})
	return c.restoreResult
}

func (c *Container) restore(ctx context.Context) Result {
	if c.restoreDelay > 0 {
		timer := time.NewTimer(c.restoreDelay)
		select {
		case <-timer.C:
		case <-ctx.Done():
			timer.Stop()
		}
	}

	user, token, err := c.store.Load(context.WithoutCancel(ctx))
	var restored *Session
	result := succeeded()
	switch {
	case errors.Is(err, storage.ErrMalformedStoredData):
		c.logger.Warn("cleared malformed stored session", "error", err)
	case err != nil:
		c.logger.Warn("restore session", "error", err)
		result = failed(ReasonRestoreFailed)
	case user != nil:
		restored = &Session{User: user, Token: token, IsAuthenticated: true}
		c.logger.Debug("restored session", "user_id", user.ID)
	}

	c.update(func(s *Session) {
		// A login that landed while the store was being read wins.
		if restored != nil && !s.IsAuthenticated {
			*s = *restored
		}
		s.IsLoading = false
	})
	return result
}

// Login persists user and token and makes them the current session.
// When the store rejects the write the session is left unchanged.
func (c *Container) Login(ctx context.Context, user *domain.User, token string) Result {
	if user == nil || user.ID == "" || token == "" {
		return failed(ReasonInvalidLogin)
	}
	if err := c.store.Save(ctx, *user, token); err != nil {
		c.logger.Warn("login: save session", "user_id", user.ID, "error", err)
		return failed(ReasonSaveFailed)
	}
	u := *user
	c.update(func(s *Session) {
		s.User = &u
		s.Token = token
		s.IsAuthenticated = true
	})
	c.logger.Info("logged in", "user_id", u.ID)
	return succeeded()
}

// Logout ends the session. The in-memory session is always reset, even
// when clearing the store fails; the result reports the failure.
func (c *Container) Logout(ctx context.Context) Result {
	if r, ok := c.identity.(revoker); ok && c.Token() != "" {
		if err := r.Revoke(ctx); err != nil {
			c.logger.Warn("logout: revoke remote session", "error", err)
		}
	}
	err := c.store.Clear(ctx)
	c.update(func(s *Session) {
		s.User = nil
		s.Token = ""
		s.IsAuthenticated = false
	})
	if err != nil {
		c.logger.Warn("logout: clear session", "error", err)
		return failed(ReasonLogoutFailed)
	}
	c.logger.Info("logged out")
	return succeeded()
}

// Register creates an identity for candidate and signs it in. It
// succeeds exactly when the resulting Login succeeds.
func (c *Container) Register(ctx context.Context, candidate domain.Registration) Result {
	if strings.TrimSpace(candidate.FullName) == "" || strings.TrimSpace(candidate.Email) == "" {
		return failed(ReasonRegisterFailed)
	}
	user, token, err := c.identity.Register(ctx, candidate)
	if err != nil {
		c.logger.Warn("register", "email", candidate.Email, "error", err)
		return failed(identityReason(err, ReasonRegisterFailed))
	}
	if user.ID == "" {
		c.logger.Warn("register", "email", candidate.Email, "error", reasonUnknownIdentity)
		return failed(ReasonRegisterFailed)
	}
	return c.Login(ctx, &user, token)
}

// Authenticate signs in with credentials through the identity source.
func (c *Container) Authenticate(ctx context.Context, creds domain.Credentials) Result {
	if strings.TrimSpace(creds.Email) == "" {
		return failed(ReasonLoginFailed)
	}
	user, token, err := c.identity.Authenticate(ctx, creds)
	if err != nil {
		c.logger.Warn("authenticate", "email", creds.Email, "error", err)
		return failed(identityReason(err, ReasonLoginFailed))
	}
	return c.Login(ctx, &user, token)
}

func (c *Container) update(mutate func(*Session)) {
	c.mu.Lock()
	mutate(&c.session)
	s := c.session
	listeners := make([]func(Session), len(c.listeners))
	copy(listeners, c.listeners)
	c.mu.Unlock()

	for _, fn := range listeners {
		fn(s.clone())
	}
}

func identityReason(err error, fallback string) string {
	var httpErr *client.HTTPError
	if client.IsNetwork(err) || errors.As(err, &httpErr) {
		return client.Reason(err)
	}
	return fallback
}
