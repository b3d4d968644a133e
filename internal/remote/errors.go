package remote

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"quarry/internal/services"
)

// Error is a failed request. Status is 0 when no response was received.
type Error struct {
	Method  string
	Path    string
	Status  int
	Payload any
	Body    string
	Err     error
}

func (e *Error) Error() string {
	if e.Status == 0 {
		if e.Err != nil {
			return fmt.Sprintf("remote: %s %s: request failed: %v", e.Method, e.Path, e.Err)
		}
		return fmt.Sprintf("remote: %s %s: request failed", e.Method, e.Path)
	}
	return fmt.Sprintf("remote: %s %s: status %d: %s", e.Method, e.Path, e.Status, e.Detail())
}

// Unwrap exposes the classification sentinel alongside the cause.
func (e *Error) Unwrap() []error {
	marker := services.ErrRemote
	if e.connectivity() {
		marker = services.ErrConnectivity
	}
	if e.Err == nil {
		return []error{marker}
	}
	return []error{marker, e.Err}
}

// Detail returns the server-provided message for display.
func (e *Error) Detail() string {
	if msg := payloadMessage(e.Payload); msg != "" {
		return msg
	}
	if body := strings.TrimSpace(e.Body); body != "" {
		return body
	}
	if text := http.StatusText(e.Status); text != "" {
		return strings.ToLower(text)
	}
	return "unknown error"
}

func (e *Error) connectivity() bool {
	return e.Status == 0 || e.Status == http.StatusNotFound
}

// IsConnectivity reports whether err means the service could not be reached
// or located: no response, status 0, or status 404.
func IsConnectivity(err error) bool {
	var remoteErr *Error
	if errors.As(err, &remoteErr) {
		return remoteErr.connectivity()
	}
	return false
}

// StatusOf returns the HTTP status carried by err, or 0.
func StatusOf(err error) int {
	var remoteErr *Error
	if errors.As(err, &remoteErr) {
		return remoteErr.Status
	}
	return 0
}

func payloadMessage(payload any) string {
	switch v := payload.(type) {
	case string:
		return strings.TrimSpace(v)
	case map[string]any:
		for _, key := range []string{"detail", "error", "message"} {
			if msg := payloadMessage(v[key]); msg != "" {
				return msg
			}
		}
		if msg, ok := v["msg"].(string); ok {
			return strings.TrimSpace(msg)
		}
	case []any:
		parts := make([]string, 0, len(v))
		for _, item := range v {
			if msg := payloadMessage(item); msg != "" {
				parts = append(parts, msg)
			}
		}
		return strings.Join(parts, "; ")
	}
	return ""
}
