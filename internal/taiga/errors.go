package taiga

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// APIError is a non-2xx response from Taiga. Use errors.As to inspect it.
type APIError struct {
	Method     string
	Path       string
	StatusCode int
	Status     string
	Body       string
	// Message is the server's human readable explanation, when it sent one.
	Message string
}

func (e *APIError) Error() string {
	return strings.TrimSpace(fmt.Sprintf("API request failed: %s %s", e.Status, e.Body))
}

func newAPIError(req *http.Request, resp *http.Response, body []byte) *APIError {
	status := http.StatusText(resp.StatusCode)
	if status == "" {
		status = resp.Status
	}
	e := &APIError{
		Method:     req.Method,
		Path:       req.URL.Path,
		StatusCode: resp.StatusCode,
		Status:     status,
		Body:       strings.TrimSpace(string(body)),
	}
	var payload struct {
		ErrorMessage string `json:"_error_message"`
		Detail       string `json:"detail"`
	}
	if json.Unmarshal(body, &payload) == nil {
		e.Message = payload.ErrorMessage
		if e.Message == "" {
			e.Message = payload.Detail
		}
	}
	return e
}

// IsNotFound reports whether err is a 404 from Taiga.
func IsNotFound(err error) bool {
	return hasStatus(err, http.StatusNotFound)
}

// IsUnauthorized reports whether err is a 401 or 403 from Taiga.
func IsUnauthorized(err error) bool {
	return hasStatus(err, http.StatusUnauthorized) || hasStatus(err, http.StatusForbidden)
}

func hasStatus(err error, code int) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode == code
}
