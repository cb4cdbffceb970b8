package refiner

import (
	"errors"
	"fmt"
)

// Sentinel errors for common failure modes.
var (
	// ErrValidation indicates the project description failed validation.
	ErrValidation = errors.New("validation error")

	// ErrTransport indicates the server could not be reached or the
	// response could not be read or decoded.
	ErrTransport = errors.New("transport error")

	// ErrTimeout indicates the request exceeded its time budget.
	ErrTimeout = errors.New("timeout")

	// ErrApplication indicates a 2xx response carrying an explicit error field.
	ErrApplication = errors.New("application error")

	// ErrNoRoadmap indicates a download was requested before any roadmap
	// was generated.
	ErrNoRoadmap = errors.New("no roadmap")

	// ErrInFlight indicates a generation request is already pending.
	ErrInFlight = errors.New("request in flight")
)

// HTTPError is returned when the server responds with a non-2xx status.
type HTTPError struct {
	StatusCode int
	Body       string
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("HTTP %d: %s", e.StatusCode, e.Body)
}

// ApplicationError wraps the error field of a 2xx response.
type ApplicationError struct {
	Message string
}

func (e *ApplicationError) Error() string { return e.Message }

// Unwrap lets errors.Is match ErrApplication.
func (e *ApplicationError) Unwrap() error { return ErrApplication }

// User-visible messages.
const (
	MsgEmptyDescription = "Please provide a project description"
	MsgNoRoadmap        = "No roadmap to download. Generate one first."
	MsgNetwork          = "Network error: unable to reach the server. Please check that it is running."
	MsgTimeout          = "Request timed out. The roadmap is taking longer than expected; please try again."
)

// ErrorMessage maps an error to the message shown to the user.
func ErrorMessage(err error) string {
	if err == nil {
		return ""
	}
	var httpErr *HTTPError
	var appErr *ApplicationError
	switch {
	case errors.Is(err, ErrValidation):
		return MsgEmptyDescription
	case errors.Is(err, ErrNoRoadmap):
		return MsgNoRoadmap
	case errors.As(err, &appErr):
		return appErr.Message
	case errors.As(err, &httpErr):
		return fmt.Sprintf("Server error (HTTP %d): %s", httpErr.StatusCode, httpErr.Body)
	case errors.Is(err, ErrTimeout):
		return MsgTimeout
	case errors.Is(err, ErrTransport):
		return MsgNetwork
	default:
		return fmt.Sprintf("Unexpected error: %v", err)
	}
}
