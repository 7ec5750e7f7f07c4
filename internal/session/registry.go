// Package session keeps one view controller per browser session.
package session

import (
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/MikhailRaia/shortify/internal/metrics"
	"github.com/MikhailRaia/shortify/internal/ui"
)

// DefaultIdleTTL is how long an unused controller is kept.
const DefaultIdleTTL = 30 * time.Minute

// Factory builds the controller of a new client.
type Factory func(clientID string) *ui.Controller

type entry struct {
	controller *ui.Controller
	lastSeen   time.Time
}

// Registry maps client ids to live controllers.
type Registry struct {
	mu       sync.Mutex
	sessions map[string]*entry
	factory  Factory
	ttl      time.Duration
	now      func() time.Time
}

// NewRegistry creates an empty registry evicting controllers idle for ttl.
func NewRegistry(factory Factory, ttl time.Duration) *Registry {
	if ttl <= 0 {
		ttl = DefaultIdleTTL
	}
	return &Registry{
		sessions: make(map[string]*entry),
		factory:  factory,
		ttl:      ttl,
		now:      time.Now,
	}
}

// Get returns the controller of clientID, creating it on first use.
// The second result reports whether the controller was just created.
func (r *Registry) Get(clientID string) (*ui.Controller, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.now()
	if e, ok := r.sessions[clientID]; ok {
		e.lastSeen = now
		return e.controller, false
	}

	c := r.factory(clientID)
	r.sessions[clientID] = &entry{controller: c, lastSeen: now}
	metrics.ActiveSessions.Set(float64(len(r.sessions)))

	log.Debug().Str("client_id", clientID).Msg("Session controller created")
	return c, true
}

// Len returns the number of live controllers.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sessions)
}

// CleanupLoop evicts idle controllers every interval until stop is closed.
func (r *Registry) CleanupLoop(interval time.Duration, stop <-chan struct{}) {
	t := time.NewTicker(interval)
	defer t.Stop()

	for {
		select {
		case <-t.C:
			r.Cleanup()
		case <-stop:
			return
		}
	}
}

// Cleanup evicts controllers idle for longer than the TTL and returns how many
// were removed.
func (r *Registry) Cleanup() int {
	now := r.now()

	r.mu.Lock()
	defer r.mu.Unlock()

	removed := 0
	for clientID, e := range r.sessions {
		if now.Sub(e.lastSeen) > r.ttl && e.controller.State() != ui.StateSubmitting {
			e.controller.Close()
			delete(r.sessions, clientID)
			removed++
		}
	}

	if removed > 0 {
		metrics.ActiveSessions.Set(float64(len(r.sessions)))
		log.Info().Int("evicted", removed).Int("active", len(r.sessions)).Msg("Idle sessions evicted")
	}

	return removed
}

// Close drops every controller.
func (r *Registry) Close() {
	r.mu.Lock()
	defer r.mu.Unlock()

	for clientID, e := range r.sessions {
		e.controller.Close()
		delete(r.sessions, clientID)
	}
	metrics.ActiveSessions.Set(0)
}
