package session

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/rs/xid"
)

// Store maps session identifiers to live sessions. It is the only shared
// mutable structure in the pipeline; sessions are created lazily and live in
// memory for the process lifetime unless idle eviction is enabled.
type Store struct {
	mu       sync.Mutex
	sessions map[string]*Session
}

// NewStore creates an empty session store.
func NewStore() *Store {
	return &Store{sessions: make(map[string]*Session)}
}

// Resolve returns the session for id, creating it when id is empty or
// unknown. When a new session is minted the effective identifier is
// returned alongside it. Resolve never fails.
func (st *Store) Resolve(id string) (*Session, string) {
	st.mu.Lock()
	defer st.mu.Unlock()

	if id != "" {
		if s, ok := st.sessions[id]; ok {
			// Refresh the idle clock here, not just in BeginRun: a session
			// handed to a request must not be eviction-eligible in the
			// window before the run installs its handle.
			s.touch()
			return s, id
		}
	}
	if id == "" {
		id = xid.New().String()
	}
	s := newSession(id)
	st.sessions[id] = s
	return s, id
}

// Get returns an existing session without creating one.
func (st *Store) Get(id string) (*Session, bool) {
	st.mu.Lock()
	defer st.mu.Unlock()
	s, ok := st.sessions[id]
	return s, ok
}

// Cancel signals the active run of the identified session. It reports false
// when the session is unknown or has no run in flight.
func (st *Store) Cancel(id string) bool {
	st.mu.Lock()
	s, ok := st.sessions[id]
	st.mu.Unlock()
	if !ok {
		return false
	}
	return s.Cancel()
}

// Len returns the number of live sessions.
func (st *Store) Len() int {
	st.mu.Lock()
	defer st.mu.Unlock()
	return len(st.sessions)
}

// EvictIdle removes sessions idle longer than ttl that have no run in
// flight. Returns the number evicted.
func (st *Store) EvictIdle(ttl time.Duration) int {
	now := time.Now()

	st.mu.Lock()
	defer st.mu.Unlock()

	evicted := 0
	for id, s := range st.sessions {
		if s.running() {
			continue
		}
		if s.idleSince(now) > ttl {
			delete(st.sessions, id)
			evicted++
		}
	}
	return evicted
}

// RunEvictor periodically evicts idle sessions until ctx is done. A ttl of
// zero disables eviction and returns immediately; history then lives for the
// process lifetime, which is the default.
func (st *Store) RunEvictor(ctx context.Context, ttl time.Duration) {
	if ttl <= 0 {
		return
	}

	interval := ttl / 2
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
			if n := st.EvictIdle(ttl); n > 0 {
				slog.DebugContext(ctx, "evicted idle sessions", slog.Int("count", n))
			}
		}
	}
}
