package httpclient

import (
	"context"
	"errors"
	"math"
	"math/rand"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"
)

// retryTransport retries idempotent requests on transient failures with
// exponential backoff and up to 20% jitter.
type retryTransport struct {
	base        http.RoundTripper
	maxAttempts int
	baseBackoff time.Duration
	maxBackoff  time.Duration
}

func newRetryTransport(base http.RoundTripper, cfg Config) *retryTransport {
	if base == nil {
		base = http.DefaultTransport
	}
	return &retryTransport{
		base:        base,
		maxAttempts: cfg.RetryAttempts + 1,
		baseBackoff: cfg.RetryBackoff,
		maxBackoff:  cfg.MaxBackoff,
	}
}

func (t *retryTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	// POST/PATCH/DELETE against Taiga are not safe to replay.
	if !isIdempotent(req.Method) {
		return t.base.RoundTrip(req)
	}

	var lastErr error
	var lastResp *http.Response

	for attempt := 1; attempt <= t.maxAttempts; attempt++ {
		if attempt > 1 {
			delay := t.retryDelay(attempt-1, lastResp)
			select {
			case <-time.After(delay):
			case <-req.Context().Done():
				return nil, req.Context().Err()
			}
		}

		resp, err := t.base.RoundTrip(req)
		if err == nil && !retryableStatus(resp.StatusCode) {
			return resp, nil
		}
		if err != nil && !retryableError(err) {
			return nil, err
		}

		// Keep the final response intact so the caller can read its body.
		if attempt == t.maxAttempts {
			return resp, err
		}

		lastErr = err
		lastResp = resp
		if resp != nil && resp.Body != nil {
			resp.Body.Close()
		}
		if req.Context().Err() != nil {
			return nil, req.Context().Err()
		}
	}

	return nil, lastErr
}

func isIdempotent(method string) bool {
	switch strings.ToUpper(method) {
	case http.MethodGet, http.MethodHead, http.MethodOptions:
		return true
	default:
		return false
	}
}

func retryableStatus(code int) bool {
	switch {
	case code >= 500 && code < 600:
		return true
	case code == http.StatusRequestTimeout, code == http.StatusTooManyRequests:
		return true
	default:
		return false
	}
}

func retryableError(err error) bool {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}
	msg := strings.ToLower(err.Error())
	for _, s := range []string{"connection refused", "connection reset", "no such host", "network unreachable", "eof"} {
		if strings.Contains(msg, s) {
			return true
		}
	}
	return false
}

func (t *retryTransport) backoff(attempt int) time.Duration {
	b := float64(t.baseBackoff) * math.Pow(2, float64(attempt-1))
	if b > float64(t.maxBackoff) {
		b = float64(t.maxBackoff)
	}
	return time.Duration(b + rand.Float64()*b*0.2)
}

// retryDelay is the backoff for attempt, stretched to the server's
// Retry-After (capped at maxBackoff) when that asks for longer.
func (t *retryTransport) retryDelay(attempt int, last *http.Response) time.Duration {
	delay := t.backoff(attempt)
	if last == nil {
		return delay
	}
	if ra := min(parseRetryAfter(last), t.maxBackoff); ra > delay {
		delay = ra
	}
	return delay
}

// parseRetryAfter accepts both delta-seconds and HTTP-date forms.
func parseRetryAfter(resp *http.Response) time.Duration {
	h := resp.Header.Get("Retry-After")
	if h == "" {
		return 0
	}
	if secs, err := strconv.Atoi(h); err == nil && secs > 0 {
		return time.Duration(secs) * time.Second
	}
	if when, err := http.ParseTime(h); err == nil {
		if d := time.Until(when); d > 0 {
			return d
		}
	}
	return 0
}
