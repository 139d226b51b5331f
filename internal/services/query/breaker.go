package query

import (
	"context"
	"errors"
	"sync"
	"time"

	"rtlwatch/internal/config"
	"rtlwatch/internal/logger"
	"rtlwatch/internal/models"
)

// BreakerState is the current mode of the backend circuit breaker
type BreakerState int

const (
	BreakerClosed BreakerState = iota
	BreakerHalfOpen
	BreakerOpen
)

func (s BreakerState) String() string {
	switch s {
	case BreakerClosed:
		return "closed"
	case BreakerHalfOpen:
		return "half-open"
	case BreakerOpen:
		return "open"
	default:
		return "unknown"
	}
}

// BreakerOpenError is returned when a fetch is blocked because the
// backend has failed repeatedly and the reset timeout has not elapsed.
type BreakerOpenError struct {
	Failures int
	RetryIn  time.Duration
}

func (e *BreakerOpenError) Error() string {
	return "backend unavailable, retrying in " + e.RetryIn.Round(time.Second).String()
}

// Breaker trips after consecutive backend failures so a dead backend is
// not hammered every poll cycle. After the reset timeout one probe is
// let through; its outcome decides between closing and re-opening.
type Breaker struct {
	maxFailures  int
	resetTimeout time.Duration

	mu           sync.Mutex
	state        BreakerState
	failures     int
	lastFailTime time.Time
	log          *logger.Logger
}

func NewBreaker(maxFailures int, resetTimeout time.Duration) *Breaker {
	if maxFailures <= 0 {
		maxFailures = 5
	}
	if resetTimeout <= 0 {
		resetTimeout = time.Minute
	}
	return &Breaker{
		maxFailures:  maxFailures,
		resetTimeout: resetTimeout,
		state:        BreakerClosed,
		log:          logger.Default().WithComponent("breaker"),
	}
}

// Allow reports whether a fetch may proceed. An open breaker whose
// reset timeout has elapsed moves to half-open and admits one probe.
func (b *Breaker) Allow() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	switch b.state {
	case BreakerClosed, BreakerHalfOpen:
		return nil
	case BreakerOpen:
		if time.Since(b.lastFailTime) > b.resetTimeout {
			b.setState(BreakerHalfOpen)
			return nil
		}
		return &BreakerOpenError{
			Failures: b.failures,
			RetryIn:  b.resetTimeout - time.Since(b.lastFailTime),
		}
	default:
		return nil
	}
}

// RecordSuccess closes the breaker and clears the failure count
func (b *Breaker) RecordSuccess() {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.failures = 0
	if b.state != BreakerClosed {
		b.setState(BreakerClosed)
	}
}

// RecordFailure counts a backend failure; enough of them in a row,
// or one during a half-open probe, trip the breaker open.
func (b *Breaker) RecordFailure() {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.failures++
	b.lastFailTime = time.Now()

	switch b.state {
	case BreakerClosed:
		if b.failures >= b.maxFailures {
			b.setState(BreakerOpen)
		}
	case BreakerHalfOpen:
		b.setState(BreakerOpen)
	}
}

// State returns the current breaker state
func (b *Breaker) State() BreakerState {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.state
}

// setState transitions and updates metrics; callers hold the lock
func (b *Breaker) setState(newState BreakerState) {
	oldState := b.state
	if oldState == newState {
		return
	}
	b.state = newState

	config.CircuitBreakerStateGauge.Set(float64(newState))
	config.CircuitBreakerTripsTotal.WithLabelValues(newState.String()).Inc()

	if newState == BreakerOpen {
		b.log.Warn("Backend circuit breaker opened",
			"failures", b.failures,
			"reset_timeout", b.resetTimeout.String())
	} else {
		b.log.Info("Backend circuit breaker state changed",
			"from", oldState.String(),
			"to", newState.String())
	}
}

// GuardedClient runs range queries through the circuit breaker. A
// backend-level query rejection counts as a healthy backend and does
// not feed the breaker; transport and decode failures do.
type GuardedClient struct {
	client  *Client
	breaker *Breaker
}

func NewGuardedClient(client *Client, breaker *Breaker) *GuardedClient {
	return &GuardedClient{client: client, breaker: breaker}
}

func (g *GuardedClient) FetchRange(ctx context.Context, q models.RangeQuery) ([]models.RawSeries, error) {
	if err := g.breaker.Allow(); err != nil {
		return nil, err
	}

	out, err := g.client.FetchRange(ctx, q)
	if err != nil {
		var backendErr *BackendError
		if errors.As(err, &backendErr) {
			g.breaker.RecordSuccess()
		} else {
			g.breaker.RecordFailure()
		}
		return nil, err
	}

	g.breaker.RecordSuccess()
	return out, nil
}
