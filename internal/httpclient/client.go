// Package httpclient builds the *http.Client used to talk to Taiga.
//
// Transports are layered outermost first: rate limiting, retries, then
// logging (which also sets User-Agent and X-Request-ID).
package httpclient

import (
	"crypto/tls"
	"fmt"
	"net"
	"net/http"
	"time"

	"golang.org/x/time/rate"
)

// Config controls timeouts, retries and client-side rate limiting.
type Config struct {
	// Timeout is the total request timeout, retries included.
	Timeout time.Duration

	// RetryAttempts is the number of retries after the first try (0 disables).
	RetryAttempts int
	RetryBackoff  time.Duration
	MaxBackoff    time.Duration

	// RateLimit is the sustained requests per second. 0 disables limiting.
	RateLimit float64
	Burst     int

	UserAgent string
}

// DefaultConfig returns settings suitable for the public Taiga cloud.
func DefaultConfig() Config {
	return Config{
		Timeout:       30 * time.Second,
		RetryAttempts: 3,
		RetryBackoff:  200 * time.Millisecond,
		MaxBackoff:    10 * time.Second,
		RateLimit:     10,
		Burst:         10,
		UserAgent:     "taiga-cli",
	}
}

// Validate reports the first invalid setting.
func (c Config) Validate() error {
	if c.Timeout <= 0 {
		return fmt.Errorf("timeout must be > 0, got %v", c.Timeout)
	}
	if c.RetryAttempts < 0 {
		return fmt.Errorf("retry attempts must be >= 0, got %d", c.RetryAttempts)
	}
	if c.RetryAttempts > 0 {
		if c.RetryBackoff <= 0 {
			return fmt.Errorf("retry backoff must be > 0 when retries are enabled, got %v", c.RetryBackoff)
		}
		if c.MaxBackoff < c.RetryBackoff {
			return fmt.Errorf("max backoff (%v) must be >= retry backoff (%v)", c.MaxBackoff, c.RetryBackoff)
		}
	}
	if c.RateLimit < 0 {
		return fmt.Errorf("rate limit must be >= 0, got %v", c.RateLimit)
	}
	if c.UserAgent == "" {
		return fmt.Errorf("user agent is required")
	}
	return nil
}

// New returns an HTTP client with the transport stack described by cfg.
func New(cfg Config) (*http.Client, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	base := &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		TLSClientConfig: &tls.Config{
			MinVersion: tls.VersionTLS12,
		},
		MaxIdleConns:        20,
		MaxIdleConnsPerHost: 10,
		IdleConnTimeout:     90 * time.Second,
		DialContext: (&net.Dialer{
			Timeout:   10 * time.Second,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		TLSHandshakeTimeout:   10 * time.Second,
		ResponseHeaderTimeout: cfg.Timeout,
	}

	var rt http.RoundTripper = newLoggingTransport(base, cfg.UserAgent)
	if cfg.RetryAttempts > 0 {
		rt = newRetryTransport(rt, cfg)
	}
	if cfg.RateLimit > 0 {
		burst := cfg.Burst
		if burst < 1 {
			burst = 1
		}
		rt = newRateLimitTransport(rt, rate.NewLimiter(rate.Limit(cfg.RateLimit), burst))
	}

	return &http.Client{Transport: rt, Timeout: cfg.Timeout}, nil
}
