// Package env reads the TAIGA_* environment variables that override the
// config file.
package env

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/protocollar/taiga/internal/httpclient"
)

const (
	APIURL    = "TAIGA_API_URL"
	Token     = "TAIGA_TOKEN"
	Username  = "TAIGA_USERNAME"
	Password  = "TAIGA_PASSWORD"
	Project   = "TAIGA_PROJECT"
	RateLimit = "TAIGA_RATE_LIMIT"
	Timeout   = "TAIGA_TIMEOUT"
)

// Settings is the parsed environment. Zero values mean "not set".
type Settings struct {
	APIURL    string
	Token     string
	Username  string
	Password  string
	Project   int
	RateLimit float64
	Timeout   time.Duration
}

// Load reads the process environment.
func Load() (Settings, error) {
	return FromLookup(os.LookupEnv)
}

// FromLookup parses settings through lookup, which has the signature of
// os.LookupEnv.
func FromLookup(lookup func(string) (string, bool)) (Settings, error) {
	get := func(k string) string {
		v, _ := lookup(k)
		return v
	}
	s := Settings{
		APIURL:   get(APIURL),
		Token:    get(Token),
		Username: get(Username),
		Password: get(Password),
	}

	if v := get(Project); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			return s, fmt.Errorf("%s: invalid project id %q", Project, v)
		}
		s.Project = n
	}
	if v := get(RateLimit); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil || f < 0 {
			return s, fmt.Errorf("%s: invalid rate %q", RateLimit, v)
		}
		s.RateLimit = f
	}
	if v := get(Timeout); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			// Bare numbers are seconds.
			secs, err2 := strconv.Atoi(v)
			if err2 != nil || secs <= 0 {
				return s, fmt.Errorf("%s: invalid duration %q", Timeout, v)
			}
			d = time.Duration(secs) * time.Second
		}
		s.Timeout = d
	}
	return s, nil
}

// HasLogin reports whether username and password are both set.
func (s Settings) HasLogin() bool {
	return s.Username != "" && s.Password != ""
}

// HTTPConfig applies the HTTP tuning variables to the default transport
// settings.
func (s Settings) HTTPConfig(userAgent string) httpclient.Config {
	cfg := httpclient.DefaultConfig()
	if userAgent != "" {
		cfg.UserAgent = userAgent
	}
	if s.RateLimit > 0 {
		cfg.RateLimit = s.RateLimit
	}
	if s.Timeout > 0 {
		cfg.Timeout = s.Timeout
	}
	return cfg
}
