package api

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrUnavailable wraps transport-level failures (connection refused,
	// timeouts). The caller may retry by repeating the action; nothing is
	// retried automatically.
	ErrUnavailable = errors.New("server unavailable")

	// ErrUnauthorized maps HTTP 401. The session is stale; the user has to
	// sign in again.
	ErrUnauthorized = errors.New("unauthorized")
)

// WindowClosedError reports a sale update rejected with 403/422, which the
// backend uses to signal that the edit window has closed (or an equivalent
// validation failure). The server is authoritative: the controller locks the
// record even if the local countdown still shows time left.
type WindowClosedError struct {
	Code    int
	Message string
}

func (e *WindowClosedError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("edit rejected (%d): %s", e.Code, e.Message)
	}
	return fmt.Sprintf("edit rejected (%d)", e.Code)
}

// MentionsTiming reports whether the server message already explains the
// time limit, in which case it is shown verbatim instead of the client's
// own window-closed text.
func (e *WindowClosedError) MentionsTiming() bool {
	m := strings.ToLower(e.Message)
	return strings.Contains(m, "tiempo") || strings.Contains(m, "time")
}

// StatusError is any other non-2xx response. Message carries the server's
// own text when the body had one.
type StatusError struct {
	Method  string
	Path    string
	Code    int
	Message string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("unexpected status: %s %s -> %d message=%q", e.Method, e.Path, e.Code, e.Message)
}
