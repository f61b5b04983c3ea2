package chain

import (
	"testing"
	"time"
)

func TestBreakerClosed(t *testing.T) {
	b := newBreaker(BreakerConfig{FailureThreshold: 3, ResetTimeout: time.Second})

	if !b.allow() {
		t.Error("closed breaker should allow requests")
	}
	if b.currentState() != stateClosed {
		t.Errorf("state = %q, want %q", b.currentState(), stateClosed)
	}
}

func TestBreakerOpensAtThreshold(t *testing.T) {
	b := newBreaker(BreakerConfig{FailureThreshold: 2, ResetTimeout: time.Hour})

	b.failure()
	if b.currentState() != stateClosed {
		t.Error("should still be closed after 1 failure")
	}

	b.failure()
	if b.currentState() != stateOpen {
		t.Errorf("state = %q, want %q after threshold", b.currentState(), stateOpen)
	}
	if b.allow() {
		t.Error("open breaker should not allow requests")
	}
}

func TestBreakerHalfOpenRecovers(t *testing.T) {
	b := newBreaker(BreakerConfig{FailureThreshold: 1, ResetTimeout: 10 * time.Millisecond})

	b.failure()
	if b.currentState() != stateOpen {
		t.Fatal("expected open")
	}

	time.Sleep(20 * time.Millisecond)

	if !b.allow() {
		t.Error("should allow a probe after the reset timeout")
	}
	if b.currentState() != stateHalfOpen {
		t.Errorf("state = %q, want %q", b.currentState(), stateHalfOpen)
	}

	b.success()
	if b.currentState() != stateClosed {
		t.Errorf("state = %q, want %q after probe success", b.currentState(), stateClosed)
	}
}

func TestBreakerHalfOpenFailureReopens(t *testing.T) {
	b := newBreaker(BreakerConfig{FailureThreshold: 1, ResetTimeout: 10 * time.Millisecond})

	b.failure()
	time.Sleep(20 * time.Millisecond)
	b.allow() // transitions to half-open

	b.failure()
	if b.currentState() != stateOpen {
		t.Errorf("state = %q, want %q after probe failure", b.currentState(), stateOpen)
	}
}

func TestBreakerZeroConfigDefaults(t *testing.T) {
	b := newBreaker(BreakerConfig{})
	if b.cfg.FailureThreshold != 3 || b.cfg.ResetTimeout != 30*time.Second {
		t.Errorf("defaults = %+v, want threshold 3 and 30s reset", b.cfg)
	}
}
