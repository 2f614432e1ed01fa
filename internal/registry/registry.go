// Package registry implements the Session Registry (SPEC_FULL.md §4.2):
// the set of currently-connected clients, each with a measured one-way
// latency and an epoch-scoped ready flag. Adapted from the teacher's
// inline subscribers map (internal/service/room.Room.subscribers) but
// split into its own component per the re-architecture note in §9 —
// sessions are tracked independently of Room State and are never
// persisted.
package registry

import (
	"sync"
	"time"

	"github.com/xGuatx/youtube-sync-multi-client/internal/model"
	"github.com/xGuatx/youtube-sync-multi-client/internal/syncjamerr"
)

const (
	minLatencyMs = 0
	maxLatencyMs = 10000
)

// Registry tracks connected client sessions. Safe for concurrent use.
type Registry struct {
	mu       sync.RWMutex
	sessions map[string]*model.Session
}

// New returns an empty Registry.
func New() *Registry {
	return &Registry{sessions: make(map[string]*model.Session)}
}

// Attach registers sessionId, or returns the existing session if it is
// already attached (idempotent per §4.2).
func (r *Registry) Attach(sessionID string) *model.Session {
	r.mu.Lock()
	defer r.mu.Unlock()

	if s, ok := r.sessions[sessionID]; ok {
		return s
	}
	s := &model.Session{ID: sessionID}
	r.sessions[sessionID] = s
	return s
}

// Detach removes a session, releasing its ready bit without touching
// room mode.
func (r *Registry) Detach(sessionID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.sessions, sessionID)
}

// RecordLatency computes latencyMs = rttMs/2 and stores it, rejecting
// out-of-range measurements per I5 rather than clamping them.
func (r *Registry) RecordLatency(sessionID string, rttMs int64, now time.Time) error {
	if rttMs < 0 {
		return syncjamerr.ErrInvalidLatency
	}
	latency := rttMs / 2

	r.mu.Lock()
	defer r.mu.Unlock()

	s, ok := r.sessions[sessionID]
	if !ok {
		return syncjamerr.ErrSessionNotFound
	}
	if latency < minLatencyMs || latency > maxLatencyMs {
		return syncjamerr.ErrInvalidLatency
	}
	s.LatencyMs = latency
	s.LastPingAt = now
	return nil
}

// MarkReady sets ready=true for sessionID. No-op if the session is gone.
func (r *Registry) MarkReady(sessionID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if s, ok := r.sessions[sessionID]; ok {
		s.Ready = true
	}
}

// ResetReadyAll clears ready for every currently-attached session
// (I4: entering Preparing resets every session's ready flag).
func (r *Registry) ResetReadyAll() {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, s := range r.sessions {
		s.Ready = false
	}
}

// SnapshotReady returns (readyCount, totalCount) across attached
// sessions, used to evaluate ready convergence.
func (r *Registry) SnapshotReady() (ready, total int) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, s := range r.sessions {
		total++
		if s.Ready {
			ready++
		}
	}
	return ready, total
}

// Get returns a copy of the session, if attached.
func (r *Registry) Get(sessionID string) (model.Session, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.sessions[sessionID]
	if !ok {
		return model.Session{}, false
	}
	return *s, true
}

// Count returns the number of attached sessions.
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}

// IDs returns the currently-attached session IDs.
func (r *Registry) IDs() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	ids := make([]string, 0, len(r.sessions))
	for id := range r.sessions {
		ids = append(ids, id)
	}
	return ids
}
