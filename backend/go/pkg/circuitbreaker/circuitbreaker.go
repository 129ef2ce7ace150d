package circuitbreaker

import (
	"errors"
	"sync"
	"time"
)

// State represents the state of the circuit breaker.
type State int

const (
	// Closed is the initial state where calls are allowed.
	Closed State = iota
	// Open state is when the circuit has tripped and calls are rejected.
	Open
	// HalfOpen lets trial calls through to test whether the dependency recovered.
	HalfOpen
)

// String returns the string representation of the state.
func (s State) String() string {
	switch s {
	case Closed:
		return "Closed"
	case Open:
		return "Open"
	case HalfOpen:
		return "Half-Open"
	default:
		return "Unknown"
	}
}

// ErrCircuitOpen is returned when the circuit breaker is in the Open state.
var ErrCircuitOpen = errors.New("circuit breaker is open")

// CircuitBreaker is the interface for the circuit breaker pattern.
type CircuitBreaker interface {
	// Execute runs fn unless the circuit is open. A non-nil error from fn
	// counts as a failure.
	Execute(fn func() error) error
	// State returns the current state of the circuit breaker.
	State() State
}

type breaker struct {
	failureThreshold uint32        // Consecutive failures that trip the circuit.
	successThreshold uint32        // Consecutive HalfOpen successes that close it.
	timeout          time.Duration // How long the circuit stays Open.
	now              func() time.Time

	mutex                sync.Mutex
	state                State
	consecutiveSuccesses uint32
	consecutiveFailures  uint32
	openedAt             time.Time
}

// New creates a circuit breaker.
// failureThreshold: consecutive failures required to open the circuit.
// successThreshold: consecutive successes in the half-open state required to close it.
// timeout: how long the circuit remains open before going half-open.
func New(failureThreshold, successThreshold uint32, timeout time.Duration) CircuitBreaker {
	return newWithClock(failureThreshold, successThreshold, timeout, time.Now)
}

func newWithClock(failureThreshold, successThreshold uint32, timeout time.Duration, now func() time.Time) *breaker {
	if failureThreshold == 0 {
		failureThreshold = 1
	}
	if successThreshold == 0 {
		successThreshold = 1
	}
	return &breaker{
		failureThreshold: failureThreshold,
		successThreshold: successThreshold,
		timeout:          timeout,
		now:              now,
		state:            Closed,
	}
}

// State returns the current state of the circuit breaker.
func (cb *breaker) State() State {
	cb.mutex.Lock()
	defer cb.mutex.Unlock()
	cb.refresh()
	return cb.state
}

// Execute wraps fn with the circuit breaker logic.
func (cb *breaker) Execute(fn func() error) error {
	cb.mutex.Lock()
	cb.refresh()
	if cb.state == Open {
		cb.mutex.Unlock()
		return ErrCircuitOpen
	}
	cb.mutex.Unlock()

	err := fn()

	cb.mutex.Lock()
	defer cb.mutex.Unlock()
	if err != nil {
		cb.onFailure()
		return err
	}
	cb.onSuccess()
	return nil
}

// refresh moves an Open circuit to HalfOpen once the timeout has passed.
// Callers must hold the mutex.
func (cb *breaker) refresh() {
	if cb.state == Open && cb.now().Sub(cb.openedAt) >= cb.timeout {
		cb.state = HalfOpen
		cb.consecutiveSuccesses = 0
	}
}

func (cb *breaker) onSuccess() {
	switch cb.state {
	case HalfOpen:
		cb.consecutiveSuccesses++
		if cb.consecutiveSuccesses >= cb.successThreshold {
			cb.reset()
		}
	case Closed:
		cb.consecutiveFailures = 0
	}
}

func (cb *breaker) onFailure() {
	switch cb.state {
	case HalfOpen:
		cb.trip()
	case Closed:
		cb.consecutiveFailures++
		if cb.consecutiveFailures >= cb.failureThreshold {
			cb.trip()
		}
	}
}

func (cb *breaker) trip() {
	cb.state = Open
	cb.openedAt = cb.now()
	cb.consecutiveFailures = 0
	cb.consecutiveSuccesses = 0
}

func (cb *breaker) reset() {
	cb.state = Closed
	cb.consecutiveFailures = 0
	cb.consecutiveSuccesses = 0
}
