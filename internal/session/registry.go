package session

import (
	"log/slog"
	"sync"

	"github.com/google/uuid"

	"github.com/solaris-viz/solaris/internal/catalog"
	"github.com/solaris-viz/solaris/internal/describe"
)

// Registry holds the mounted explorers, keyed by session id.
type Registry struct {
	mu       sync.RWMutex
	sessions map[string]*Explorer
	retired  Stats // counters of unmounted sessions

	catalog  *catalog.Catalog
	describe *describe.Service
	opts     Options
	logger   *slog.Logger
}

// NewRegistry creates an empty registry. Every explorer shares cat and desc.
func NewRegistry(cat *catalog.Catalog, desc *describe.Service, opts Options, logger *slog.Logger) *Registry {
	if logger == nil {
		logger = slog.Default()
	}
	return &Registry{
		sessions: make(map[string]*Explorer),
		catalog:  cat,
		describe: desc,
		opts:     opts,
		logger:   logger,
	}
}

// Catalog returns the shared catalog.
func (r *Registry) Catalog() *catalog.Catalog {
	return r.catalog
}

// Create mounts a new explorer under a fresh id.
func (r *Registry) Create() (*Explorer, error) {
	id := uuid.NewString()
	e, err := New(id, r.catalog, r.describe, r.opts, r.logger)
	if err != nil {
		return nil, err
	}

	r.mu.Lock()
	r.sessions[id] = e
	r.mu.Unlock()

	r.logger.Info("session mounted", "session", id)
	return e, nil
}

// Get looks up a session.
func (r *Registry) Get(id string) (*Explorer, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.sessions[id]
	return e, ok
}

// Remove unmounts a session. It returns false if id was unknown.
func (r *Registry) Remove(id string) bool {
	r.mu.Lock()
	e, ok := r.sessions[id]
	if !ok {
		r.mu.Unlock()
		return false
	}
	delete(r.sessions, id)
	at := e.Stats()
	r.retired = r.retired.add(at)
	r.mu.Unlock()

	final := r.retire(e, at)
	r.logger.Info("session unmounted", "session", id, "frames", final.Frames)
	return true
}

// retire closes e and folds in whatever it counted after at was taken, such as
// a fetch that finished while closing.
func (r *Registry) retire(e *Explorer, at Stats) Stats {
	e.Close()
	final := e.Stats()

	r.mu.Lock()
	r.retired = r.retired.add(final.sub(at))
	r.mu.Unlock()
	return final
}

// Len returns the number of mounted sessions.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}

// Each calls fn for every session. fn must not call back into the registry.
func (r *Registry) Each(fn func(*Explorer)) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, e := range r.sessions {
		fn(e)
	}
}

// Stats sums the counters of every session mounted since the registry was
// created. Totals never decrease when a session unmounts.
func (r *Registry) Stats() Stats {
	r.mu.RLock()
	defer r.mu.RUnlock()
	total := r.retired
	for _, e := range r.sessions {
		total = total.add(e.Stats())
	}
	return total
}

// Close unmounts every session.
func (r *Registry) Close() {
	r.mu.Lock()
	sessions := r.sessions
	r.sessions = make(map[string]*Explorer)
	snaps := make(map[*Explorer]Stats, len(sessions))
	for _, e := range sessions {
		at := e.Stats()
		snaps[e] = at
		r.retired = r.retired.add(at)
	}
	r.mu.Unlock()

	for e, at := range snaps {
		r.retire(e, at)
	}
}
