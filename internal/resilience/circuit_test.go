package resilience

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"
)

func failN(cb *CircuitBreaker, n int) {
	for i := 0; i < n; i++ {
		_ = cb.Execute(context.Background(), func(_ context.Context) error {
			return errors.New("fail")
		})
	}
}

func TestCircuitBreaker_OpensAfterThreshold(t *testing.T) {
	cb := NewCircuitBreaker(CircuitBreakerConfig{FailureThreshold: 3, ResetTimeout: time.Minute})
	failN(cb, 3)

	if cb.State() != CircuitOpen {
		t.Fatalf("expected open, got %s", cb.State())
	}
	err := cb.Execute(context.Background(), func(_ context.Context) error {
		t.Error("should not be called while open")
		return nil
	})
	if !errors.Is(err, ErrCircuitOpen) {
		t.Errorf("expected ErrCircuitOpen, got %v", err)
	}
}

func TestCircuitBreaker_SuccessResetsCount(t *testing.T) {
	cb := NewCircuitBreaker(CircuitBreakerConfig{FailureThreshold: 3, ResetTimeout: time.Minute})
	failN(cb, 2)
	_ = cb.Execute(context.Background(), func(_ context.Context) error { return nil })
	failN(cb, 2)

	if cb.State() != CircuitClosed {
		t.Errorf("expected closed, got %s", cb.State())
	}
}

func TestCircuitBreaker_HalfOpenTrial(t *testing.T) {
	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	cb := NewCircuitBreaker(CircuitBreakerConfig{FailureThreshold: 1, ResetTimeout: time.Minute})
	cb.nowFunc = func() time.Time { return now }

	failN(cb, 1)
	if cb.State() != CircuitOpen {
		t.Fatalf("expected open, got %s", cb.State())
	}

	now = now.Add(2 * time.Minute)
	if cb.State() != CircuitHalfOpen {
		t.Fatalf("expected half-open, got %s", cb.State())
	}

	got, err := ExecuteVal(context.Background(), cb, func(_ context.Context) (int, error) { return 7, nil })
	if err != nil || got != 7 {
		t.Fatalf("trial call failed: %d %v", got, err)
	}
	if cb.State() != CircuitClosed {
		t.Errorf("expected closed after trial call, got %s", cb.State())
	}
}

func TestCircuitBreaker_ShouldTrip(t *testing.T) {
	cb := NewCircuitBreaker(CircuitBreakerConfig{
		FailureThreshold: 1,
		ShouldTrip:       IsTransient,
	})
	_ = cb.Execute(context.Background(), func(_ context.Context) error {
		return errors.New("unexpected status 404: not found")
	})
	if cb.State() != CircuitClosed {
		t.Errorf("non-transient error should not trip, got %s", cb.State())
	}
}

func TestCircuitBreaker_Reset(t *testing.T) {
	var transitions []CircuitState
	cb := NewCircuitBreaker(CircuitBreakerConfig{
		FailureThreshold: 1,
		OnStateChange:    func(_, to CircuitState) { transitions = append(transitions, to) },
	})
	failN(cb, 1)
	cb.Reset()

	if cb.State() != CircuitClosed {
		t.Errorf("expected closed after reset, got %s", cb.State())
	}
	if len(transitions) != 2 || transitions[0] != CircuitOpen || transitions[1] != CircuitClosed {
		t.Errorf("unexpected transitions %v", transitions)
	}
}

func TestServiceBreakers_PerProvider(t *testing.T) {
	sb := NewServiceBreakers(CircuitBreakerConfig{FailureThreshold: 1})

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = sb.Get("serper")
		}()
	}
	wg.Wait()

	if sb.Get("serper") != sb.Get("serper") {
		t.Error("expected the same breaker for the same provider")
	}
	failN(sb.Get("newsapi"), 1)

	states := sb.States()
	if states["newsapi"] != CircuitOpen || states["serper"] != CircuitClosed {
		t.Errorf("unexpected states %v", states)
	}
}

func TestCircuitBreaker_CallerCancelDoesNotTrip(t *testing.T) {
	cb := NewCircuitBreaker(CircuitBreakerConfig{FailureThreshold: 2, ResetTimeout: time.Minute})

	for i := 0; i < 5; i++ {
		ctx, cancel := context.WithTimeout(context.Background(), time.Millisecond)
		err := cb.Execute(ctx, func(ctx context.Context) error {
			<-ctx.Done()
			return ctx.Err()
		})
		cancel()
		if err == nil {
			t.Fatal("expected error")
		}
	}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_ = cb.Execute(ctx, func(ctx context.Context) error { return ctx.Err() })

	if cb.State() != CircuitClosed {
		t.Fatalf("expected closed after caller cancellations, got %s", cb.State())
	}
}

func TestCircuitBreaker_CallTimeoutTrips(t *testing.T) {
	cb := NewCircuitBreaker(CircuitBreakerConfig{FailureThreshold: 2, ResetTimeout: time.Minute})

	for i := 0; i < 2; i++ {
		ctx, cancel := WithCallTimeout(context.Background(), time.Millisecond)
		_ = cb.Execute(ctx, func(ctx context.Context) error {
			<-ctx.Done()
			return ctx.Err()
		})
		cancel()
	}

	if cb.State() != CircuitOpen {
		t.Fatalf("expected open after call timeouts, got %s", cb.State())
	}
}

func TestWithCallTimeout_ParentCancelIsCallerDone(t *testing.T) {
	parent, cancelParent := context.WithCancel(context.Background())
	ctx, cancel := WithCallTimeout(parent, time.Minute)
	defer cancel()

	cancelParent()
	if !callerDone(ctx) {
		t.Error("parent cancellation should count as caller done")
	}

	expired, cancelExpired := WithCallTimeout(context.Background(), time.Nanosecond)
	defer cancelExpired()
	<-expired.Done()
	if callerDone(expired) {
		t.Error("own call timeout should not count as caller done")
	}
	if !errors.Is(expired.Err(), context.DeadlineExceeded) {
		t.Errorf("expected deadline exceeded, got %v", expired.Err())
	}
}
