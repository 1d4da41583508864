package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
)

// ErrNetwork marks failures where no HTTP answer was received.
var ErrNetwork = errors.New("network error")

// Error is a non-2xx answer from the backend.
type Error struct {
	Status int
	// Message is the backend-provided "message" field, if any.
	Message string
}

func (e *Error) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("backend error %d: %s", e.Status, e.Message)
	}
	return fmt.Sprintf("backend error %d: %s", e.Status, http.StatusText(e.Status))
}

func newError(status int, body []byte) *Error {
	var payload struct {
		Message string `json:"message"`
	}
	_ = json.Unmarshal(body, &payload)
	return &Error{Status: status, Message: payload.Message}
}

// MessageOr returns the text to show the operator for err: the backend's
// message when it sent one, "Network error" for transport failures, and
// fallback otherwise.
func MessageOr(err error, fallback string) string {
	var apiErr *Error
	switch {
	case err == nil:
		return ""
	case errors.As(err, &apiErr) && apiErr.Message != "":
		return apiErr.Message
	case errors.Is(err, ErrNetwork):
		return "Network error"
	}
	return fallback
}

// IsNetwork reports whether err is a transport failure.
func IsNetwork(err error) bool {
	return errors.Is(err, ErrNetwork)
}
