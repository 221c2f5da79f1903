package session

import (
	"sync"
	"time"
)

// DefaultTTL is how long an inactive conversation is kept before it becomes
// eligible for eviction.
const DefaultTTL = 30 * time.Minute

// Store manages sessions keyed by conversation ID. It hands out exclusive
// per-conversation access so that no two turns of the same conversation can
// ever interleave, while different conversations proceed in parallel.
//
// Store is safe for concurrent use.
type Store struct {
	mu       sync.Mutex
	ttl      time.Duration
	sessions map[string]*entry
	now      func() time.Time // injectable clock for tests
}

// entry pairs a session with its own lock and last-activity timestamp.
type entry struct {
	mu       sync.Mutex
	sess     *Session
	lastSeen time.Time
}

// NewStore returns a Store with the given idle TTL. A ttl ≤ 0 falls back to
// DefaultTTL.
func NewStore(ttl time.Duration) *Store {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Store{
		ttl:      ttl,
		sessions: make(map[string]*entry),
		now:      time.Now,
	}
}

// lookup returns the live entry for id, creating one when absent or expired.
func (st *Store) lookup(id string) *entry {
	st.mu.Lock()
	defer st.mu.Unlock()

	now := st.now()
	e, ok := st.sessions[id]
	if ok && now.Sub(e.lastSeen) > st.ttl {
		delete(st.sessions, id)
		ok = false
	}
	if !ok {
		e = &entry{sess: New(id), lastSeen: now}
		st.sessions[id] = e
	}
	e.lastSeen = now
	return e
}

// WithSession runs fn with exclusive access to the session for id, creating
// the session on first use. The return value of fn is passed through.
func (st *Store) WithSession(id string, fn func(*Session) string) string {
	e := st.lookup(id)
	e.mu.Lock()
	defer e.mu.Unlock()
	return fn(e.sess)
}

// Snapshot returns a read-only copy of the session for id, or nil when the
// conversation does not exist yet.
func (st *Store) Snapshot(id string) *Session {
	st.mu.Lock()
	e, ok := st.sessions[id]
	if ok && st.now().Sub(e.lastSeen) > st.ttl {
		delete(st.sessions, id)
		ok = false
	}
	st.mu.Unlock()
	if !ok {
		return nil
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	o := e.sess.Order.Clone()
	return &Session{
		ID:        e.sess.ID,
		Order:     &o,
		State:     e.sess.State,
		Expecting: e.sess.Expecting,
	}
}

// Reset discards the session state for id while keeping the conversation
// alive (host-triggered reset).
func (st *Store) Reset(id string) {
	e := st.lookup(id)
	e.mu.Lock()
	defer e.mu.Unlock()
	e.sess.Reset()
}

// Delete removes the conversation entirely.
func (st *Store) Delete(id string) {
	st.mu.Lock()
	defer st.mu.Unlock()
	delete(st.sessions, id)
}

// PruneExpired drops every conversation that has been idle longer than the
// TTL. Intended to be called from a periodic background task.
func (st *Store) PruneExpired() int {
	st.mu.Lock()
	defer st.mu.Unlock()

	cutoff := st.now().Add(-st.ttl)
	pruned := 0
	for id, e := range st.sessions {
		if e.lastSeen.Before(cutoff) {
			delete(st.sessions, id)
			pruned++
		}
	}
	return pruned
}
