package httpclient

import (
	"net/url"
	"strings"
)

var sensitiveParams = []string{"token", "password", "secret", "key", "auth"}

// sanitizeURL redacts query parameters that look like credentials.
func sanitizeURL(u *url.URL) string {
	if u == nil {
		return ""
	}
	q := u.Query()
	for param := range q {
		lower := strings.ToLower(param)
		for _, s := range sensitiveParams {
			if strings.Contains(lower, s) {
				q.Set(param, "[REDACTED]")
				break
			}
		}
	}
	safe := *u
	safe.RawQuery = q.Encode()
	return safe.String()
}
