package retry

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"
)

// recordingPolicy returns a policy whose sleeps are recorded instead of
// actually waiting.
func recordingPolicy(p Policy, slept *[]time.Duration) Policy {
	p.sleep = func(ctx context.Context, d time.Duration) error {
		*slept = append(*slept, d)
		return ctx.Err()
	}
	return p
}

func TestDo_FirstTry(t *testing.T) {
	var slept []time.Duration
	p := recordingPolicy(Policy{}, &slept)

	calls := 0
	v, err := Do(context.Background(), p, func(ctx context.Context, endpoint int) (int, error) {
		calls++
		return 42, nil
	})
	if err != nil {
		t.Fatalf("Do: %v", err)
	}
	if v != 42 || calls != 1 {
		t.Errorf("expected one call returning 42, got %d after %d calls", v, calls)
	}
	if len(slept) != 0 {
		t.Errorf("expected no sleeps, got %v", slept)
	}
}

func TestDo_ImmediateRetriesStaySameEndpoint(t *testing.T) {
	var slept []time.Duration
	p := recordingPolicy(Policy{ImmediateRetries: 3}, &slept)

	var endpoints []int
	fails := 3
	_, err := Do(context.Background(), p, func(ctx context.Context, endpoint int) (int, error) {
		endpoints = append(endpoints, endpoint)
		if fails > 0 {
			fails--
			return 0, errors.New("transient")
		}
		return 1, nil
	})
	if err != nil {
		t.Fatalf("Do: %v", err)
	}
	// Three failures stay within the immediate budget: same endpoint,
	// no sleeping.
	for i, ep := range endpoints {
		if ep != 0 {
			t.Errorf("attempt %d used endpoint %d, want 0", i, ep)
		}
	}
	if len(slept) != 0 {
		t.Errorf("expected no sleeps, got %v", slept)
	}
}

func TestDo_RotatesAfterThreshold(t *testing.T) {
	var slept []time.Duration
	p := recordingPolicy(Policy{ImmediateRetries: 2, Backoff: time.Second}, &slept)

	var endpoints []int
	fails := 4
	_, err := Do(context.Background(), p, func(ctx context.Context, endpoint int) (int, error) {
		endpoints = append(endpoints, endpoint)
		if fails > 0 {
			fails--
			return 0, errors.New("transient")
		}
		return 1, nil
	})
	if err != nil {
		t.Fatalf("Do: %v", err)
	}

	// Attempts 1-3 on endpoint 0 (initial + 2 immediate retries), then
	// each further failure sleeps and rotates.
	want := []int{0, 0, 0, 1, 2}
	if len(endpoints) != len(want) {
		t.Fatalf("expected %d attempts, got %d", len(want), len(endpoints))
	}
	for i := range want {
		if endpoints[i] != want[i] {
			t.Errorf("attempt %d used endpoint %d, want %d", i, endpoints[i], want[i])
		}
	}
	if len(slept) != 2 || slept[0] != time.Second || slept[1] != time.Second {
		t.Errorf("expected two 1s sleeps, got %v", slept)
	}
}

func TestDo_RateLimitHint(t *testing.T) {
	var slept []time.Duration
	p := recordingPolicy(Policy{ImmediateRetries: 1, Backoff: 2 * time.Second, MaxBackoff: 3 * time.Second}, &slept)

	fails := 2
	_, err := Do(context.Background(), p, func(ctx context.Context, endpoint int) (int, error) {
		if fails > 0 {
			fails--
			return 0, &RateLimited{RetryAfter: 10 * time.Second}
		}
		return 1, nil
	})
	if err != nil {
		t.Fatalf("Do: %v", err)
	}
	// The server hint wins over the default backoff but is capped.
	if len(slept) != 1 || slept[0] != 3*time.Second {
		t.Errorf("expected one capped 3s sleep, got %v", slept)
	}
}

func TestDo_WrappedRateLimitHint(t *testing.T) {
	var slept []time.Duration
	p := recordingPolicy(Policy{ImmediateRetries: 1, Backoff: 2 * time.Second, MaxBackoff: 30 * time.Second}, &slept)

	fails := 2
	_, err := Do(context.Background(), p, func(ctx context.Context, endpoint int) (int, error) {
		if fails > 0 {
			fails--
			return 0, errorWrapping(&RateLimited{RetryAfter: 5 * time.Second})
		}
		return 1, nil
	})
	if err != nil {
		t.Fatalf("Do: %v", err)
	}
	if len(slept) != 1 || slept[0] != 5*time.Second {
		t.Errorf("expected one 5s sleep from wrapped hint, got %v", slept)
	}
}

func errorWrapping(err error) error {
	return &wrapped{err}
}

type wrapped struct{ err error }

func (w *wrapped) Error() string { return "wrapped: " + w.err.Error() }
func (w *wrapped) Unwrap() error { return w.err }

func TestDo_ContextCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	calls := 0
	_, err := Do(ctx, Policy{}, func(ctx context.Context, endpoint int) (int, error) {
		calls++
		cancel()
		return 0, errors.New("transient")
	})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if calls != 1 {
		t.Errorf("expected 1 call before cancellation, got %d", calls)
	}
}

func TestFromResponse(t *testing.T) {
	ok := &http.Response{StatusCode: http.StatusOK, Header: http.Header{}}
	if FromResponse(ok) != nil {
		t.Error("expected nil for 200")
	}

	limited := &http.Response{StatusCode: http.StatusTooManyRequests, Header: http.Header{}}
	rl := FromResponse(limited)
	if rl == nil {
		t.Fatal("expected RateLimited for 429")
	}
	if rl.RetryAfter != 0 {
		t.Errorf("expected no hint, got %s", rl.RetryAfter)
	}

	limited.Header.Set("Retry-After", "1.5")
	rl = FromResponse(limited)
	if rl == nil || rl.RetryAfter != 1500*time.Millisecond {
		t.Errorf("expected 1.5s hint, got %+v", rl)
	}
}
