package httpclient

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync/atomic"
	"testing"
	"time"
)

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"default", func(*Config) {}, ""},
		{"zero timeout", func(c *Config) { c.Timeout = 0 }, "timeout"},
		{"negative retries", func(c *Config) { c.RetryAttempts = -1 }, "retry attempts"},
		{"zero backoff", func(c *Config) { c.RetryBackoff = 0 }, "retry backoff"},
		{"max below base", func(c *Config) { c.MaxBackoff = time.Millisecond }, "max backoff"},
		{"negative rate", func(c *Config) { c.RateLimit = -1 }, "rate limit"},
		{"empty agent", func(c *Config) { c.UserAgent = "" }, "user agent"},
		{"retries disabled ignore backoff", func(c *Config) { c.RetryAttempts = 0; c.RetryBackoff = 0 }, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error = %v, want containing %q", err, tt.wantErr)
			}
		})
	}
}

func TestNewSetsHeaders(t *testing.T) {
	var gotUA, gotID string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUA = r.Header.Get("User-Agent")
		gotID = r.Header.Get(RequestIDHeader)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	cfg := DefaultConfig()
	cfg.UserAgent = "taiga-test/1.0"
	client, err := New(cfg)
	if err != nil {
		t.Fatal(err)
	}
	resp, err := client.Get(srv.URL)
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()

	if gotUA != "taiga-test/1.0" {
		t.Errorf("User-Agent = %q", gotUA)
	}
	if len(gotID) != 36 {
		t.Errorf("X-Request-ID = %q, want a UUID", gotID)
	}
}

func TestRetryTransportRetriesGet(t *testing.T) {
	var attempts int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&attempts, 1) < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	cfg := DefaultConfig()
	cfg.RetryBackoff = time.Millisecond
	rt := newRetryTransport(http.DefaultTransport, cfg)

	req, _ := http.NewRequest(http.MethodGet, srv.URL, nil)
	resp, err := rt.RoundTrip(req)
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Errorf("status = %d, want 200", resp.StatusCode)
	}
	if attempts != 3 {
		t.Errorf("attempts = %d, want 3", attempts)
	}
}

func TestRetryTransportReturnsLastResponse(t *testing.T) {
	var attempts int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&attempts, 1)
		w.WriteHeader(http.StatusBadGateway)
		_, _ = w.Write([]byte("upstream down"))
	}))
	defer srv.Close()

	cfg := DefaultConfig()
	cfg.RetryAttempts = 2
	cfg.RetryBackoff = time.Millisecond
	rt := newRetryTransport(http.DefaultTransport, cfg)

	req, _ := http.NewRequest(http.MethodGet, srv.URL, nil)
	resp, err := rt.RoundTrip(req)
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusBadGateway {
		t.Errorf("status = %d, want 502", resp.StatusCode)
	}
	if attempts != 3 {
		t.Errorf("attempts = %d, want 3", attempts)
	}
}

func TestRetryTransportSkipsPost(t *testing.T) {
	var attempts int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&attempts, 1)
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	cfg := DefaultConfig()
	cfg.RetryBackoff = time.Millisecond
	rt := newRetryTransport(http.DefaultTransport, cfg)

	req, _ := http.NewRequest(http.MethodPost, srv.URL, nil)
	resp, err := rt.RoundTrip(req)
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()

	if attempts != 1 {
		t.Errorf("attempts = %d, want 1", attempts)
	}
}

func TestParseRetryAfter(t *testing.T) {
	resp := &http.Response{Header: http.Header{}}
	if d := parseRetryAfter(resp); d != 0 {
		t.Errorf("missing header = %v, want 0", d)
	}
	resp.Header.Set("Retry-After", "3")
	if d := parseRetryAfter(resp); d != 3*time.Second {
		t.Errorf("seconds = %v, want 3s", d)
	}
	resp.Header.Set("Retry-After", "soon")
	if d := parseRetryAfter(resp); d != 0 {
		t.Errorf("garbage = %v, want 0", d)
	}
}

func TestSanitizeURL(t *testing.T) {
	u, _ := url.Parse("https://api.taiga.io/api/v1/search?project=1&text=bug&auth_token=abc")
	got := sanitizeURL(u)
	if strings.Contains(got, "abc") {
		t.Errorf("sanitizeURL leaked token: %s", got)
	}
	if !strings.Contains(got, "text=bug") {
		t.Errorf("sanitizeURL dropped plain param: %s", got)
	}
	if sanitizeURL(nil) != "" {
		t.Error("sanitizeURL(nil) should be empty")
	}
}

func TestRetryDelayHonorsRetryAfter(t *testing.T) {
	cfg := DefaultConfig()
	cfg.RetryBackoff = time.Millisecond
	cfg.MaxBackoff = 50 * time.Millisecond
	rt := newRetryTransport(http.DefaultTransport, cfg)

	if d := rt.retryDelay(1, nil); d > 2*time.Millisecond {
		t.Errorf("plain backoff = %v, want about 1ms", d)
	}

	throttled := &http.Response{StatusCode: http.StatusTooManyRequests, Header: http.Header{}}
	throttled.Header.Set("Retry-After", "30")
	if d := rt.retryDelay(1, throttled); d != 50*time.Millisecond {
		t.Errorf("Retry-After 30s = %v, want the 50ms cap", d)
	}

	cfg.MaxBackoff = time.Minute
	rt = newRetryTransport(http.DefaultTransport, cfg)
	if d := rt.retryDelay(1, throttled); d != 30*time.Second {
		t.Errorf("Retry-After 30s = %v, want 30s", d)
	}

	noHeader := &http.Response{StatusCode: http.StatusServiceUnavailable, Header: http.Header{}}
	if d := rt.retryDelay(1, noHeader); d > 2*time.Millisecond {
		t.Errorf("no Retry-After = %v, want about 1ms", d)
	}
}
