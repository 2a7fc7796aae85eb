package resilience

import (
	"errors"
	"log/slog"
	"sync"
	"time"
)

// ErrCircuitOpen is returned by Execute while calls are being short-circuited.
var ErrCircuitOpen = errors.New("circuit breaker is open")

type State int

const (
	StateClosed State = iota
	StateOpen
	StateHalfOpen
)

func (s State) String() string {
	switch s {
	case StateClosed:
		return "closed"
	case StateOpen:
		return "open"
	case StateHalfOpen:
		return "half-open"
	}
	return "unknown"
}

type BreakerConfig struct {
	// FailureThreshold is the number of consecutive failures that opens the
	// circuit.
	FailureThreshold int
	// Cooldown is how long the circuit stays open before one probe call is
	// let through.
	Cooldown time.Duration
	// OnStateChange, if set, is called with the new state. It runs under the
	// breaker's lock and must not call back into the breaker.
	OnStateChange func(State)
}

// CircuitBreaker stops calling an unhealthy dependency. After
// FailureThreshold consecutive failures it rejects calls for Cooldown, then
// lets a single probe decide whether to close again.
type CircuitBreaker struct {
	name   string
	cfg    BreakerConfig
	now    func() time.Time
	logger *slog.Logger

	mu       sync.Mutex
	state    State
	failures int
	openedAt time.Time
	probing  bool
}

func NewCircuitBreaker(name string, cfg BreakerConfig) *CircuitBreaker {
	if cfg.FailureThreshold <= 0 {
		cfg.FailureThreshold = 5
	}
	if cfg.Cooldown <= 0 {
		cfg.Cooldown = 30 * time.Second
	}
	return &CircuitBreaker{
		name:   name,
		cfg:    cfg,
		now:    time.Now,
		logger: slog.Default().With("component", "circuit-breaker", "name", name),
	}
}

// Execute runs fn unless the circuit is open. Errors from fn count as
// failures; callers that treat some errors as normal outcomes should map
// them to nil inside fn.
func (cb *CircuitBreaker) Execute(fn func() error) error {
	if !cb.allow() {
		return ErrCircuitOpen
	}
	err := fn()
	cb.record(err == nil)
	return err
}

func (cb *CircuitBreaker) State() State {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	return cb.state
}

func (cb *CircuitBreaker) allow() bool {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	switch cb.state {
	case StateOpen:
		if cb.now().Sub(cb.openedAt) < cb.cfg.Cooldown {
			return false
		}
		cb.setState(StateHalfOpen)
		cb.probing = true
		return true
	case StateHalfOpen:
		if cb.probing {
			return false
		}
		cb.probing = true
	}
	return true
}

func (cb *CircuitBreaker) record(ok bool) {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	if ok {
		cb.failures = 0
		if cb.state == StateHalfOpen {
			cb.probing = false
			cb.setState(StateClosed)
			cb.logger.Info("circuit closed")
		}
		return
	}

	cb.failures++
	switch {
	case cb.state == StateHalfOpen:
		cb.probing = false
		cb.open()
	case cb.state == StateClosed && cb.failures >= cb.cfg.FailureThreshold:
		cb.open()
	}
}

func (cb *CircuitBreaker) open() {
	cb.openedAt = cb.now()
	cb.setState(StateOpen)
	cb.logger.Warn("circuit opened", "consecutive_failures", cb.failures, "cooldown", cb.cfg.Cooldown)
}

func (cb *CircuitBreaker) setState(s State) {
	if cb.state == s {
		return
	}
	cb.state = s
	if cb.cfg.OnStateChange != nil {
		cb.cfg.OnStateChange(s)
	}
}
