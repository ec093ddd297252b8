package httpclient

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"
	"golang.org/x/time/rate"
)

// RequestIDHeader carries a per-request UUID so failures can be matched
// against server logs.
const RequestIDHeader = "X-Request-ID"

type loggingTransport struct {
	base      http.RoundTripper
	userAgent string
}

func newLoggingTransport(base http.RoundTripper, userAgent string) *loggingTransport {
	if base == nil {
		base = http.DefaultTransport
	}
	return &loggingTransport{base: base, userAgent: userAgent}
}

func (t *loggingTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	start := time.Now()

	if req.Header.Get("User-Agent") == "" {
		req.Header.Set("User-Agent", t.userAgent)
	}
	reqID := req.Header.Get(RequestIDHeader)
	if reqID == "" {
		reqID = uuid.NewString()
		req.Header.Set(RequestIDHeader, reqID)
	}

	resp, err := t.base.RoundTrip(req)
	duration := time.Since(start).Milliseconds()
	logURL := sanitizeURL(req.URL)

	if err != nil {
		slog.Warn("http request failed",
			"method", req.Method,
			"url", logURL,
			"request_id", reqID,
			"duration_ms", duration,
			"error", err.Error(),
		)
		return nil, err
	}

	level := slog.LevelDebug
	if resp.StatusCode >= 400 {
		level = slog.LevelWarn
	}
	slog.Log(req.Context(), level, "http request",
		"method", req.Method,
		"url", logURL,
		"status", resp.StatusCode,
		"request_id", reqID,
		"duration_ms", duration,
	)
	return resp, nil
}

// rateLimitTransport blocks each request until the limiter grants a token.
type rateLimitTransport struct {
	base    http.RoundTripper
	limiter *rate.Limiter
}

func newRateLimitTransport(base http.RoundTripper, limiter *rate.Limiter) *rateLimitTransport {
	return &rateLimitTransport{base: base, limiter: limiter}
}

func (t *rateLimitTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if err := t.limiter.Wait(req.Context()); err != nil {
		return nil, err
	}
	return t.base.RoundTrip(req)
}
