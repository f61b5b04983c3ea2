package chain

import (
	"sync"
	"time"
)

// Breaker states.
const (
	stateClosed   = "closed"
	stateOpen     = "open"
	stateHalfOpen = "half_open"
)

// BreakerConfig holds the parameters for a per-backend circuit breaker.
type BreakerConfig struct {
	FailureThreshold int
	ResetTimeout     time.Duration
}

// DefaultBreakerConfig trips a backend after three consecutive failures and
// probes it again after thirty seconds.
func DefaultBreakerConfig() BreakerConfig {
	return BreakerConfig{FailureThreshold: 3, ResetTimeout: 30 * time.Second}
}

// breaker is a minimal circuit breaker guarding one backend in a fallback
// chain. While open, the chain skips the backend entirely so an outage of
// the primary provider costs one request, not one timeout per request.
type breaker struct {
	mu          sync.Mutex
	cfg         BreakerConfig
	state       string
	failures    int
	lastFailure time.Time
}

func newBreaker(cfg BreakerConfig) *breaker {
	if cfg.FailureThreshold <= 0 {
		cfg.FailureThreshold = 3
	}
	if cfg.ResetTimeout <= 0 {
		cfg.ResetTimeout = 30 * time.Second
	}
	return &breaker{cfg: cfg, state: stateClosed}
}

// allow reports whether a request should be attempted.
func (b *breaker) allow() bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.state == stateOpen {
		if time.Since(b.lastFailure) > b.cfg.ResetTimeout {
			b.state = stateHalfOpen
			return true
		}
		return false
	}
	return true
}

func (b *breaker) success() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.failures = 0
	b.state = stateClosed
}

func (b *breaker) failure() {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.failures++
	b.lastFailure = time.Now()

	if b.state == stateHalfOpen || b.failures >= b.cfg.FailureThreshold {
		b.state = stateOpen
	}
}

func (b *breaker) currentState() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.state
}
