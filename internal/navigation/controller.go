package navigation

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/singleflight"

	"github.com/movers-solution/movers/internal/access"
	"github.com/movers-solution/movers/internal/backend"
	"github.com/movers-solution/movers/internal/session"
)

// HomePath is where a successful logout navigates to
const HomePath = "/"

// DefaultLogoutTimeout bounds a shared logout call when no timeout is configured
const DefaultLogoutTimeout = 10 * time.Second

// LogoutClient ends the backend session
type LogoutClient interface {
	Logout(ctx context.Context) backend.Result
}

// SessionStore reads and resets client sessions
type SessionStore interface {
	Get(ctx context.Context, key string) (session.Session, error)
	Clear(ctx context.Context, key string) error
}

// LogoutResult is the outcome of a logout and, on success, where to go next
type LogoutResult struct {
	backend.Result
	Redirect string
}

// Controller renders the navigation bar and runs the logout transition
type Controller struct {
	policy   *access.Policy
	sessions SessionStore
	client   LogoutClient
	logger   zerolog.Logger

	inflight singleflight.Group
	timeout  time.Duration
	observe  func(backend.Outcome)
}

// Option configures a Controller
type Option func(*Controller)

// WithOutcomeObserver registers fn to be called once per backend logout call
func WithOutcomeObserver(fn func(backend.Outcome)) Option {
	return func(c *Controller) {
		c.observe = fn
	}
}

// WithLogoutTimeout bounds each shared backend logout call
func WithLogoutTimeout(d time.Duration) Option {
	return func(c *Controller) {
		if d > 0 {
			c.timeout = d
		}
	}
}

func NewController(policy *access.Policy, sessions SessionStore, client LogoutClient, logger zerolog.Logger, opts ...Option) *Controller {
	c := &Controller{
		policy:   policy,
		sessions: sessions,
		client:   client,
		logger:   logger,
		timeout:  DefaultLogoutTimeout,
		observe:  func(backend.Outcome) {},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Controller) Policy() *access.Policy {
	return c.policy
}

// Render returns the navigation bar for the session stored under key
func (c *Controller) Render(ctx context.Context, key string) (View, session.Session, error) {
	s, err := c.sessions.Get(ctx, key)
	if err != nil {
		return Render(c.policy, session.Empty()), session.Empty(), fmt.Errorf("failed to load session: %w", err)
	}
	return Render(c.policy, s), s, nil
}

// Logout ends the backend session and, only if the backend confirms,
// resets the client's session. Concurrent calls for the same key share one
// backend request. The shared request outlives any single caller, so a caller
// that gives up gets Fatal while the others still receive the real outcome.
func (c *Controller) Logout(ctx context.Context, key string) LogoutResult {
	ch := c.inflight.DoChan(key, func() (interface{}, error) {
		callCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), c.timeout)
		defer cancel()
		return c.logout(callCtx, key), nil
	})

	select {
	case r := <-ch:
		if r.Shared {
			c.logger.Debug().Str("session_key", key).Msg("Joined in-flight logout")
		}
		return r.Val.(LogoutResult)
	case <-ctx.Done():
		c.logger.Warn().Err(ctx.Err()).Str("session_key", key).Msg("Caller left before logout finished")
		return LogoutResult{Result: backend.Result{
			Outcome: backend.Fatal,
			Err:     fmt.Errorf("logout abandoned: %w", ctx.Err()),
		}}
	}
}

func (c *Controller) logout(ctx context.Context, key string) LogoutResult {
	res := c.client.Logout(ctx)
	c.observe(res.Outcome)

	if !res.OK() {
		c.logger.Error().
			Err(res.Err).
			Str("session_key", key).
			Str("outcome", res.Outcome.String()).
			Int("status", res.StatusCode).
			Msg("Failed to log out")
		return LogoutResult{Result: res}
	}

	if err := c.sessions.Clear(ctx, key); err != nil {
		c.logger.Error().Err(err).Str("session_key", key).Msg("Backend logged out but session could not be cleared")
		return LogoutResult{Result: backend.Result{
			Outcome:    backend.Recoverable,
			StatusCode: res.StatusCode,
			Err:        fmt.Errorf("failed to clear session: %w", err),
		}}
	}

	c.logger.Info().Str("session_key", key).Msg("User logged out")
	return LogoutResult{Result: res, Redirect: HomePath}
}
