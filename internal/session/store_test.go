package session

import (
	"sync"
	"testing"
	"time"
)

func TestResolveMintsID(t *testing.T) {
	st := NewStore()

	s, id := st.Resolve("")
	if s == nil {
		t.Fatal("expected a session")
	}
	if id == "" {
		t.Fatal("expected a minted id")
	}
	if s.ID() != id {
		t.Errorf("session id = %q, want %q", s.ID(), id)
	}

	again, id2 := st.Resolve(id)
	if again != s || id2 != id {
		t.Error("resolving a known id should return the same session")
	}
}

func TestResolveUnknownIDCreates(t *testing.T) {
	st := NewStore()

	s, id := st.Resolve("client-chosen")
	if id != "client-chosen" {
		t.Errorf("id = %q, want client-chosen", id)
	}
	if s.ID() != "client-chosen" {
		t.Errorf("session id = %q, want client-chosen", s.ID())
	}
	if st.Len() != 1 {
		t.Errorf("store len = %d, want 1", st.Len())
	}
}

func TestBeginRunSupersedes(t *testing.T) {
	st := NewStore()
	s, _ := st.Resolve("")

	first := s.BeginRun()
	if first.Signalled() {
		t.Fatal("fresh handle must not be signalled")
	}

	second := s.BeginRun()
	if !first.Signalled() {
		t.Error("starting a new run must signal the previous handle")
	}
	if second.Signalled() {
		t.Error("the superseding handle must start unsignalled")
	}

	// The superseded run finishing must not clear the newer handle.
	s.EndRun(first)
	if !s.Cancel() {
		t.Error("second run should still be active after first's EndRun")
	}
	s.EndRun(second)
	if s.Cancel() {
		t.Error("no run should be active after owner's EndRun")
	}
}

func TestCancel(t *testing.T) {
	st := NewStore()

	if st.Cancel("nope") {
		t.Error("cancel of unknown session should report false")
	}

	s, id := st.Resolve("")
	if st.Cancel(id) {
		t.Error("cancel with no run in flight should report false")
	}

	h := s.BeginRun()
	if !st.Cancel(id) {
		t.Error("cancel with a run in flight should report true")
	}
	if !h.Signalled() {
		t.Error("cancel must signal the active handle")
	}

	// Idempotent: a second cancel still sees the (signalled) active run.
	if !st.Cancel(id) {
		t.Error("repeated cancel before EndRun should still report true")
	}
}

func TestAppendPairBoundsHistory(t *testing.T) {
	st := NewStore()
	s, _ := st.Resolve("")

	for i := 0; i < 10; i++ {
		s.AppendPair("q", "a", 3)
	}
	if got := s.Len(); got != 6 {
		t.Errorf("history len = %d, want 6", got)
	}

	h := s.History()
	for i, turn := range h {
		want := "user"
		if i%2 == 1 {
			want = "assistant"
		}
		if string(turn.Role) != want {
			t.Errorf("turn %d role = %q, want %q", i, turn.Role, want)
		}
	}
}

func TestHistoryReturnsCopy(t *testing.T) {
	st := NewStore()
	s, _ := st.Resolve("")
	s.AppendPair("q", "a", 6)

	h := s.History()
	h[0].Text = "mutated"

	if got := s.History()[0].Text; got != "q" {
		t.Errorf("history was mutated through the returned slice: %q", got)
	}
}

func TestConcurrentBeginRunSingleWinner(t *testing.T) {
	st := NewStore()
	s, _ := st.Resolve("")

	const n = 50
	handles := make([]*CancelHandle, n)
	var wg sync.WaitGroup
	wg.Add(n)
	for i := 0; i < n; i++ {
		go func(i int) {
			defer wg.Done()
			handles[i] = s.BeginRun()
		}(i)
	}
	wg.Wait()

	unsignalled := 0
	for _, h := range handles {
		if !h.Signalled() {
			unsignalled++
		}
	}
	if unsignalled != 1 {
		t.Errorf("unsignalled handles = %d, want exactly 1", unsignalled)
	}
}

func TestEvictIdle(t *testing.T) {
	st := NewStore()
	idle, _ := st.Resolve("idle")
	running, _ := st.Resolve("running")
	running.BeginRun()

	// Backdate both so the ttl has elapsed.
	idle.mu.Lock()
	idle.lastUsed = time.Now().Add(-time.Hour)
	idle.mu.Unlock()
	running.mu.Lock()
	running.lastUsed = time.Now().Add(-time.Hour)
	running.mu.Unlock()

	if n := st.EvictIdle(time.Minute); n != 1 {
		t.Errorf("evicted = %d, want 1 (running sessions are kept)", n)
	}
	if _, ok := st.Get("idle"); ok {
		t.Error("idle session should be gone")
	}
	if _, ok := st.Get("running"); !ok {
		t.Error("running session must survive eviction")
	}
}

func TestResolveRefreshesIdleClock(t *testing.T) {
	st := NewStore()
	s, _ := st.Resolve("s1")

	s.mu.Lock()
	s.lastUsed = time.Now().Add(-time.Hour)
	s.mu.Unlock()

	// A session just handed to a request must not be eviction-eligible
	// before the run installs its handle.
	got, _ := st.Resolve("s1")
	if n := st.EvictIdle(time.Minute); n != 0 {
		t.Fatalf("evicted = %d, want 0 for a just-resolved session", n)
	}

	h := got.BeginRun()
	again, _ := st.Resolve("s1")
	if again != got {
		t.Fatal("a second request minted a distinct session for the same id")
	}
	h2 := again.BeginRun()
	if !h.Signalled() {
		t.Error("first run's handle must be signalled by the superseding run")
	}
	if !st.Cancel("s1") {
		t.Error("cancel must reach the session's active run")
	}
	if !h2.Signalled() {
		t.Error("cancel must signal the current run's handle")
	}
}

func TestCancelHandleIdempotent(t *testing.T) {
	h := NewCancelHandle()
	if h.Signalled() {
		t.Fatal("fresh handle must not be signalled")
	}
	h.Signal()
	h.Signal()
	if !h.Signalled() {
		t.Error("handle must stay signalled")
	}
}
