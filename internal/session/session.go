// Package session keeps one dashboard controller per browser session.
//
// Sessions are identified by an opaque cookie and never share state. Idle
// sessions are evicted by [Manager.Run] after the configured TTL.
package session

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/san-kum/gapdash/internal/dashboard"
	"github.com/san-kum/gapdash/internal/metrics"
)

// Generator produces unique session identifiers.
type Generator func() string

// UUIDv7 is the default Generator: time-sortable and unguessable enough for
// a cookie that only keys UI state.
func UUIDv7() Generator {
	return func() string {
		return uuid.Must(uuid.NewV7()).String()
	}
}

type entry struct {
	ctrl     *dashboard.Controller
	lastSeen time.Time
}

// Manager maps session ids to controllers.
type Manager struct {
	mu       sync.Mutex
	sessions map[string]*entry
	factory  func() *dashboard.Controller
	ttl      time.Duration
	newID    Generator
	now      func() time.Time
	logger   *slog.Logger
}

type Option func(*Manager)

func WithTTL(d time.Duration) Option {
	return func(m *Manager) { m.ttl = d }
}

func WithLogger(l *slog.Logger) Option {
	return func(m *Manager) { m.logger = l }
}

// NewManager creates an empty registry. factory is called once per new
// session and must return a controller that shares nothing mutable with
// the others.
func NewManager(factory func() *dashboard.Controller, opts ...Option) *Manager {
	m := &Manager{
		sessions: make(map[string]*entry),
		factory:  factory,
		ttl:      30 * time.Minute,
		newID:    UUIDv7(),
		now:      time.Now,
		logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, o := range opts {
		o(m)
	}
	return m
}

// Get returns the controller for id and marks the session as used.
func (m *Manager) Get(id string) (*dashboard.Controller, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	e, ok := m.sessions[id]
	if !ok {
		return nil, false
	}
	e.lastSeen = m.now()
	return e.ctrl, true
}

// Create starts a new session.
func (m *Manager) Create() (string, *dashboard.Controller) {
	ctrl := m.factory()
	id := m.newID()

	m.mu.Lock()
	m.sessions[id] = &entry{ctrl: ctrl, lastSeen: m.now()}
	m.mu.Unlock()

	metrics.SessionCreated()
	m.logger.Debug("session created", "session", id)
	return id, ctrl
}

// Resolve returns the session for id, creating one when id is unknown.
// created reports whether a new id was issued.
func (m *Manager) Resolve(id string) (sid string, ctrl *dashboard.Controller, created bool) {
	if id != "" {
		if ctrl, ok := m.Get(id); ok {
			return id, ctrl, false
		}
	}
	sid, ctrl = m.Create()
	return sid, ctrl, true
}

// Len returns the number of live sessions.
func (m *Manager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sessions)
}

// Sweep evicts sessions idle for longer than the TTL and returns how many
// were removed.
func (m *Manager) Sweep() int {
	cutoff := m.now().Add(-m.ttl)

	m.mu.Lock()
	n := 0
	for id, e := range m.sessions {
		if e.lastSeen.Before(cutoff) {
			delete(m.sessions, id)
			n++
		}
	}
	m.mu.Unlock()

	if n > 0 {
		metrics.SessionsEvicted(n)
		m.logger.Debug("sessions evicted", "count", n)
	}
	return n
}

// Run sweeps periodically until ctx is done.
func (m *Manager) Run(ctx context.Context) {
	interval := m.ttl / 4
	if interval < time.Second {
		interval = time.Second
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			m.Sweep()
		}
	}
}
