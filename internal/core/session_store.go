package core

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
)

// DefaultSessionIdleTimeout is how long an untouched session is kept.
const DefaultSessionIdleTimeout = 2 * time.Hour

// SessionStore keeps the live sessions of one process in memory.
// Sessions are never persisted; an expired or restarted session starts over.
type SessionStore struct {
	tax         *Taxonomy
	opts        SessionOptions
	idleTimeout time.Duration
	maxSessions int

	mu       sync.RWMutex
	sessions map[string]*Session
}

// StoreOptions configures a SessionStore.
type StoreOptions struct {
	Session     SessionOptions
	IdleTimeout time.Duration
	MaxSessions int // 0 means unlimited
}

// NewSessionStore creates an empty store handing out sessions over tax.
func NewSessionStore(tax *Taxonomy, opts StoreOptions) *SessionStore {
	if opts.IdleTimeout <= 0 {
		opts.IdleTimeout = DefaultSessionIdleTimeout
	}
	if opts.Session.Now == nil {
		opts.Session.Now = time.Now
	}
	return &SessionStore{
		tax:         tax,
		opts:        opts.Session,
		idleTimeout: opts.IdleTimeout,
		maxSessions: opts.MaxSessions,
		sessions:    make(map[string]*Session),
	}
}

// Taxonomy returns the taxonomy shared by every session.
func (st *SessionStore) Taxonomy() *Taxonomy {
	return st.tax
}

// Create starts a new session with a random id. A full store first drops
// its expired sessions; ErrTooManySessions is returned only when every
// stored session is still live.
func (st *SessionStore) Create() (*Session, error) {
	st.mu.Lock()
	defer st.mu.Unlock()

	if st.maxSessions > 0 && len(st.sessions) >= st.maxSessions {
		if st.removeExpired() == 0 {
			return nil, ErrTooManySessions
		}
	}

	id := uuid.NewString()
	sess := NewSession(id, st.tax, st.opts)
	st.sessions[id] = sess
	return sess, nil
}

// Get returns a live session. Expired sessions are reported as not found.
func (st *SessionStore) Get(id string) (*Session, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, ErrSessionNotFound
	}

	st.mu.RLock()
	sess, ok := st.sessions[id]
	st.mu.RUnlock()

	if !ok || st.expired(sess) {
		return nil, ErrSessionNotFound
	}
	sess.Touch()
	return sess, nil
}

// GetOrCreate returns the session for id, or a new one when id is unknown.
// The boolean reports whether a session was created.
func (st *SessionStore) GetOrCreate(id string) (*Session, bool, error) {
	if id != "" {
		if sess, err := st.Get(id); err == nil {
			return sess, false, nil
		}
	}
	sess, err := st.Create()
	if err != nil {
		return nil, false, err
	}
	return sess, true, nil
}

// Delete drops a session.
func (st *SessionStore) Delete(id string) {
	st.mu.Lock()
	defer st.mu.Unlock()
	delete(st.sessions, id)
}

// Len returns the number of stored sessions, including expired ones not yet swept.
func (st *SessionStore) Len() int {
	st.mu.RLock()
	defer st.mu.RUnlock()
	return len(st.sessions)
}

// Sweep removes expired sessions and returns how many were removed.
func (st *SessionStore) Sweep() int {
	st.mu.Lock()
	defer st.mu.Unlock()
	return st.removeExpired()
}

// removeExpired must be called with st.mu held.
func (st *SessionStore) removeExpired() int {
	removed := 0
	for id, sess := range st.sessions {
		if st.expired(sess) {
			delete(st.sessions, id)
			removed++
		}
	}
	return removed
}

// StartSweeper runs Sweep every interval until ctx is cancelled.
func (st *SessionStore) StartSweeper(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = time.Minute
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := st.Sweep(); n > 0 {
				slog.Debug("expired sessions removed", "count", n, "remaining", st.Len())
			}
		}
	}
}

func (st *SessionStore) expired(sess *Session) bool {
	return st.opts.Now().Sub(sess.LastSeen()) > st.idleTimeout
}
