// Package session manages conversation sessions: their bounded history, the
// single active cancellation handle per session, and the store that owns
// their lifecycle.
package session

import (
	"sync"
	"time"

	"github.com/alinavoice/alina/pkg/conversation"
)

// Session holds per-conversation mutable state. All access is thread-safe.
// A session has at most one running pipeline at any instant; BeginRun
// enforces this by signalling the previous run's handle before installing a
// new one.
type Session struct {
	id string

	mu       sync.Mutex
	history  []conversation.Turn
	active   *CancelHandle
	lastUsed time.Time
}

func newSession(id string) *Session {
	return &Session{id: id, lastUsed: time.Now()}
}

// ID returns the session identifier.
func (s *Session) ID() string {
	return s.id
}

// BeginRun installs a fresh cancellation handle as the session's active run.
// If a run is already in flight its handle is signalled first (barge-in),
// so two concurrent callers can never both believe they own an unchallenged
// run.
func (s *Session) BeginRun() *CancelHandle {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.active != nil {
		s.active.Signal()
	}
	h := NewCancelHandle()
	s.active = h
	s.lastUsed = time.Now()
	return h
}

// EndRun clears the active handle, but only if h still owns it. A run that
// was superseded by a newer one must not clear the newer run's handle.
func (s *Session) EndRun(h *CancelHandle) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.active == h {
		s.active = nil
	}
	s.lastUsed = time.Now()
}

// Cancel signals the active handle, if any, and reports whether a run was
// actually in flight.
func (s *Session) Cancel() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.active == nil {
		return false
	}
	s.active.Signal()
	return true
}

// History returns a copy of the session's conversation history.
func (s *Session) History() []conversation.Turn {
	s.mu.Lock()
	defer s.mu.Unlock()

	cp := make([]conversation.Turn, len(s.history))
	copy(cp, s.history)
	return cp
}

// AppendPair commits one user/assistant turn pair and trims the history to
// the most recent maxTurns pairs. Turns are only ever committed in pairs so
// role alternation stays well-formed for the language-model backend.
func (s *Session) AppendPair(userText, assistantText string, maxTurns int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.history = append(s.history,
		conversation.User(userText),
		conversation.Assistant(assistantText),
	)
	s.history = conversation.Trim(s.history, maxTurns)
	s.lastUsed = time.Now()
}

// Len returns the current history length.
func (s *Session) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.history)
}

// touch marks the session as just used so the evictor leaves it alone while
// a freshly resolved request is still installing its run handle.
func (s *Session) touch() {
	s.mu.Lock()
	s.lastUsed = time.Now()
	s.mu.Unlock()
}

func (s *Session) idleSince(now time.Time) time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	return now.Sub(s.lastUsed)
}

func (s *Session) running() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.active != nil
}
