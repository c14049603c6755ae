// Package retry implements the remote-call policy shared by every chain
// client and the price client: a small number of immediate retries
// against the same endpoint, then rate-limit-aware backoff combined with
// endpoint rotation. There is no attempt cap; a call retries until it
// produces a value or its context is canceled.
package retry

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"
)

// Default policy values.
const (
	DefaultImmediateRetries = 3
	DefaultBackoff          = 2 * time.Second
	DefaultMaxBackoff       = 30 * time.Second
)

// RateLimited is returned by transports when the remote replied with
// "too many requests". RetryAfter carries the server's hint, zero when
// the server gave none.
type RateLimited struct {
	RetryAfter time.Duration
}

func (e *RateLimited) Error() string {
	if e.RetryAfter > 0 {
		return fmt.Sprintf("rate limited (429), retry after %s", e.RetryAfter)
	}
	return "rate limited (429)"
}

// FromResponse inspects an HTTP response and returns a RateLimited error
// when the status is 429, parsing the Retry-After header if present.
// For any other status it returns nil.
func FromResponse(resp *http.Response) *RateLimited {
	if resp.StatusCode != http.StatusTooManyRequests {
		return nil
	}
	e := &RateLimited{}
	if v := resp.Header.Get("Retry-After"); v != "" {
		if secs, err := strconv.ParseFloat(v, 64); err == nil && secs > 0 {
			e.RetryAfter = time.Duration(secs * float64(time.Second))
		}
	}
	return e
}

// Policy configures the retry behavior. The zero value is usable and
// falls back to the defaults above.
type Policy struct {
	// ImmediateRetries is how many failures are retried against the same
	// endpoint index with no sleep before rotation kicks in.
	ImmediateRetries int

	// Backoff is slept after the immediate-retry threshold when the
	// server gave no hint.
	Backoff time.Duration

	// MaxBackoff caps server-provided hints.
	MaxBackoff time.Duration

	// sleep is swapped out in tests.
	sleep func(ctx context.Context, d time.Duration) error
}

func (p Policy) withDefaults() Policy {
	if p.ImmediateRetries <= 0 {
		p.ImmediateRetries = DefaultImmediateRetries
	}
	if p.Backoff <= 0 {
		p.Backoff = DefaultBackoff
	}
	if p.MaxBackoff <= 0 {
		p.MaxBackoff = DefaultMaxBackoff
	}
	if p.sleep == nil {
		p.sleep = sleepCtx
	}
	return p
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(d):
		return nil
	}
}

// Func performs one attempt against the endpoint at the given rotation
// index. Transports wrap endpoint lists, so the index may exceed the
// list length and is taken modulo by the callee.
type Func[T any] func(ctx context.Context, endpoint int) (T, error)

// Do runs fn under the policy until it succeeds or ctx is canceled.
// Attempt and endpoint counters are local to this invocation, so
// concurrent calls never share failover state.
func Do[T any](ctx context.Context, p Policy, fn Func[T]) (T, error) {
	p = p.withDefaults()
	attempts := 0
	endpoint := 0
	for {
		v, err := fn(ctx, endpoint)
		if err == nil {
			return v, nil
		}
		if ctx.Err() != nil {
			var zero T
			return zero, ctx.Err()
		}
		attempts++
		if attempts <= p.ImmediateRetries {
			continue
		}
		d := p.Backoff
		var rl *RateLimited
		if errors.As(err, &rl) && rl.RetryAfter > 0 {
			d = rl.RetryAfter
			if d > p.MaxBackoff {
				d = p.MaxBackoff
			}
		}
		if serr := p.sleep(ctx, d); serr != nil {
			var zero T
			return zero, serr
		}
		endpoint++
	}
}
