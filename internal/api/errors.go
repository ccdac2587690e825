package api

import (
	"errors"
	"fmt"
)

// Error is a structured failure reported by the remote API: the
// transport worked but the server answered with an error payload.
type Error struct {
	StatusCode int
	Message    string
}

func (e *Error) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("api: request failed with status %d", e.StatusCode)
	}
	return fmt.Sprintf("api: %s (status %d)", e.Message, e.StatusCode)
}

// IsUnauthorized reports whether err is a structured 401 from the API.
func IsUnauthorized(err error) bool {
	var apiErr *Error
	return errors.As(err, &apiErr) && apiErr.StatusCode == 401
}

// UserMessage returns the server-supplied message for structured API
// errors and fallback for everything else (transport failures, bad
// payloads). Validation happens before any call, so every error passed
// here came back from the network.
func UserMessage(err error, fallback string) string {
	var apiErr *Error
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message
	}
	return fallback
}
