package circuit_breaker

import (
	"errors"
	"sync"
	"time"
)

type Status uint8

const (
	Closed   Status = 1
	Open     Status = 2
	HalfOpen Status = 3
)

var ErrOpenCB = errors.New("circuit breaker is open")

type CircuitBreaker interface {
	Call(service func() error) error
	Reset()
}

type circuitBreaker struct {
	mu    sync.Mutex
	state Status

	// sliding window of the last recordLength outcomes, true = failed
	window []bool
	pos    int

	// share of failures in the window that trips the breaker
	failRate float64
	// how long to stay Open before probing with HalfOpen
	timeout       time.Duration
	lastOpenedAt  time.Time
	// consecutive successes in HalfOpen required to close again
	recoveryCount int
	successCount  int
}

func New(windowSize int, timeout time.Duration, failRate float64, recoveryCount int) CircuitBreaker {
	return &circuitBreaker{
		state:         Closed,
		window:        make([]bool, windowSize),
		failRate:      failRate,
		timeout:       timeout,
		recoveryCount: recoveryCount,
	}
}

func (cb *circuitBreaker) Call(service func() error) error {
	cb.mu.Lock()
	if cb.state == Open {
		if time.Since(cb.lastOpenedAt) <= cb.timeout {
			cb.mu.Unlock()
			return ErrOpenCB
		}
		cb.state = HalfOpen
		cb.successCount = 0
	}
	cb.mu.Unlock()

	err := service()

	cb.mu.Lock()
	defer cb.mu.Unlock()

	cb.window[cb.pos] = err != nil
	cb.pos = (cb.pos + 1) % len(cb.window)

	if cb.state == HalfOpen {
		if err != nil {
			cb.state = Open
			cb.successCount = 0
			cb.lastOpenedAt = time.Now()
		} else {
			cb.successCount++
			if cb.successCount > cb.recoveryCount {
				cb.Reset()
			}
		}
		return err
	}

	fails := 0
	for _, failed := range cb.window {
		if failed {
			fails++
		}
	}
	if float64(fails)/float64(len(cb.window)) >= cb.failRate {
		cb.state = Open
		cb.successCount = 0
		cb.lastOpenedAt = time.Now()
	}

	return err
}

func (cb *circuitBreaker) Reset() {
	for i := range cb.window {
		cb.window[i] = false
	}
	cb.successCount = 0
	cb.pos = 0
	cb.state = Closed
}
