package query

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"rtlwatch/internal/models"
)

func TestBreakerTripsAfterMaxFailures(t *testing.T) {
	b := NewBreaker(3, time.Minute)

	b.RecordFailure()
	b.RecordFailure()
	if err := b.Allow(); err != nil {
		t.Fatalf("breaker tripped before reaching max failures: %v", err)
	}

	b.RecordFailure()
	if b.State() != BreakerOpen {
		t.Fatalf("state = %v after max failures, want open", b.State())
	}

	err := b.Allow()
	var openErr *BreakerOpenError
	if !errors.As(err, &openErr) {
		t.Fatalf("Allow returned %v, want *BreakerOpenError", err)
	}
	if openErr.Failures != 3 {
		t.Errorf("open error reports %d failures, want 3", openErr.Failures)
	}
}

func TestBreakerHalfOpenProbeAfterTimeout(t *testing.T) {
	b := NewBreaker(1, 20*time.Millisecond)

	b.RecordFailure()
	if err := b.Allow(); err == nil {
		t.Fatal("expected the open breaker to block")
	}

	time.Sleep(30 * time.Millisecond)

	if err := b.Allow(); err != nil {
		t.Fatalf("expected a probe after the reset timeout, got %v", err)
	}
	if b.State() != BreakerHalfOpen {
		t.Fatalf("state = %v after timeout, want half-open", b.State())
	}

	b.RecordSuccess()
	if b.State() != BreakerClosed {
		t.Fatalf("state = %v after successful probe, want closed", b.State())
	}
}

func TestBreakerReopensOnFailedProbe(t *testing.T) {
	b := NewBreaker(1, 20*time.Millisecond)

	b.RecordFailure()
	time.Sleep(30 * time.Millisecond)

	if err := b.Allow(); err != nil {
		t.Fatalf("expected a probe, got %v", err)
	}
	b.RecordFailure()

	if b.State() != BreakerOpen {
		t.Fatalf("state = %v after failed probe, want open", b.State())
	}
	if err := b.Allow(); err == nil {
		t.Fatal("expected the re-opened breaker to block")
	}
}

func TestBreakerSuccessResetsFailureCount(t *testing.T) {
	b := NewBreaker(3, time.Minute)

	b.RecordFailure()
	b.RecordFailure()
	b.RecordSuccess()
	b.RecordFailure()
	b.RecordFailure()

	if b.State() != BreakerClosed {
		t.Fatalf("state = %v, want closed; success should reset the count", b.State())
	}
}

func TestGuardedClientSkipsBackendWhenOpen(t *testing.T) {
	var hits int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt64(&hits, 1)
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	breaker := NewBreaker(2, time.Minute)
	guarded := NewGuardedClient(NewClient(srv.URL, time.Second), breaker)
	q := models.RangeQuery{Query: "up", StartSec: 0, EndSec: 60, StepSec: 15}

	ctx := context.Background()
	for i := 0; i < 2; i++ {
		if _, err := guarded.FetchRange(ctx, q); err == nil {
			t.Fatal("expected an error from the failing backend")
		}
	}
	if got := atomic.LoadInt64(&hits); got != 2 {
		t.Fatalf("backend hit %d times, want 2", got)
	}

	_, err := guarded.FetchRange(ctx, q)
	var openErr *BreakerOpenError
	if !errors.As(err, &openErr) {
		t.Fatalf("expected *BreakerOpenError once tripped, got %v", err)
	}
	if got := atomic.LoadInt64(&hits); got != 2 {
		t.Fatalf("open breaker still reached the backend: %d hits", got)
	}
}

func TestGuardedClientBackendErrorDoesNotTrip(t *testing.T) {
	var hits int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt64(&hits, 1)
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"error","errorType":"bad_data","error":"invalid query"}`))
	}))
	defer srv.Close()

	breaker := NewBreaker(1, time.Minute)
	guarded := NewGuardedClient(NewClient(srv.URL, time.Second), breaker)
	q := models.RangeQuery{Query: "nonsense(", StartSec: 0, EndSec: 60, StepSec: 15}

	ctx := context.Background()
	_, err := guarded.FetchRange(ctx, q)
	var backendErr *BackendError
	if !errors.As(err, &backendErr) {
		t.Fatalf("expected *BackendError, got %v", err)
	}
	if breaker.State() != BreakerClosed {
		t.Fatal("a query rejection must not trip the breaker")
	}

	guarded.FetchRange(ctx, q)
	if got := atomic.LoadInt64(&hits); got != 2 {
		t.Fatalf("backend hit %d times, want 2", got)
	}
}
