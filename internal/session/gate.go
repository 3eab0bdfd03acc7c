// Package session tracks whether an admin is signed in.
package session

import (
	"context"
	"sync"

	"lexron-admin/internal/backend"

	"go.uber.org/zap"
)

// State of the gate. Routes are not committed while it is Unknown.
type State int

const (
	Unknown State = iota
	Authenticated
	Unauthenticated
)

func (s State) String() string {
	switch s {
	case Authenticated:
		return "authenticated"
	case Unauthenticated:
		return "unauthenticated"
	default:
		return "unknown"
	}
}

// Gate follows the auth state of the backend. It probes the current session
// once at Start and then follows change notifications until Close.
type Gate struct {
	auth   backend.Auth
	logger *zap.Logger

	mu      sync.RWMutex
	state   State
	session *backend.Session
	sub     backend.Subscription
	closed  bool
	changes chan State
	known   chan struct{}
}

func NewGate(auth backend.Auth, logger *zap.Logger) *Gate {
	return &Gate{
		auth:    auth,
		logger:  logger,
		changes: make(chan State, 1),
		known:   make(chan struct{}),
	}
}

// Start subscribes to auth changes and probes the current session. A
// failed probe leaves the gate Unauthenticated. A change that arrives
// while the probe is in flight wins over the probe's answer.
func (g *Gate) Start(ctx context.Context) error {
	sub := g.auth.OnAuthStateChange(func(change backend.AuthChange) {
		g.logger.Debug("Auth change received", zap.String("event", string(change.Event)))
		g.set(change.Session, false)
	})

	g.mu.Lock()
	g.sub = sub
	g.mu.Unlock()

	s, err := g.auth.GetSession(ctx)
	if err != nil {
		g.logger.Warn("Session probe failed", zap.Error(err))
		g.set(nil, true)
		return err
	}
	g.set(s, true)
	return nil
}

// set moves the gate to the state implied by s. A probe result is dropped
// when the state is already known.
func (g *Gate) set(s *backend.Session, probe bool) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.closed || (probe && g.state != Unknown) {
		return
	}

	next := Unauthenticated
	if s != nil {
		next = Authenticated
	}

	wasUnknown := g.state == Unknown
	changed := g.state != next
	g.state = next
	g.session = s

	if wasUnknown {
		close(g.known)
	}
	if changed {
		g.publish(next)
	}
}

// publish hands next to the observer, replacing a value it has not
// consumed yet. Callers hold g.mu.
func (g *Gate) publish(next State) {
	select {
	case <-g.changes:
	default:
	}
	g.changes <- next
}

// Changes delivers the latest state after every transition. Only the most
// recent state is kept for a slow reader. The channel is closed by Close.
func (g *Gate) Changes() <-chan State {
	return g.changes
}

func (g *Gate) State() State {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.state
}

// Session is the signed-in session, or nil
func (g *Gate) Session() *backend.Session {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.session
}

// Wait blocks until the state is known
func (g *Gate) Wait(ctx context.Context) (State, error) {
	select {
	case <-g.known:
		return g.State(), nil
	case <-ctx.Done():
		return Unknown, ctx.Err()
	}
}

// Logout signs out and moves to Unauthenticated at once, without waiting
// for the backend's notification
func (g *Gate) Logout(ctx context.Context) error {
	err := g.auth.SignOut(ctx)
	if err != nil {
		g.logger.Warn("Sign out failed", zap.Error(err))
	}
	g.set(nil, false)
	return err
}

// Close releases the subscription and closes Changes
func (g *Gate) Close() {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.closed {
		return
	}
	g.closed = true
	if g.sub != nil {
		g.sub.Unsubscribe()
	}
	close(g.changes)
}
