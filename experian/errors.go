package experian

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
)

// Precondition errors. These are returned before any request is sent.
var (
	// ErrConfiguration indicates missing or invalid client construction arguments
	ErrConfiguration = errors.New("invalid experian configuration")
	// ErrValidation indicates missing or invalid call arguments
	ErrValidation = errors.New("invalid argument")
	// ErrNotAuthenticated indicates a call was made before a successful login
	ErrNotAuthenticated = errors.New(`user not authenticated - use the "login" method before calling an API`)
)

// IsPrecondition reports whether err was produced by an argument or session check
// rather than by a request to the API.
func IsPrecondition(err error) bool {
	return errors.Is(err, ErrConfiguration) ||
		errors.Is(err, ErrValidation) ||
		errors.Is(err, ErrNotAuthenticated)
}

// TransportError wraps a network, timeout or read failure.
type TransportError struct {
	Method string
	URL    string
	Err    error
}

// Error implements the error interface
func (e *TransportError) Error() string {
	return fmt.Sprintf("experian transport error: %s %s: %v", e.Method, e.URL, e.Err)
}

// Unwrap returns the underlying transport cause
func (e *TransportError) Unwrap() error {
	return e.Err
}

// AuthenticationError is returned when the token endpoint was reached but did not
// issue a token.
type AuthenticationError struct {
	StatusCode int
	Body       json.RawMessage
}

// Error implements the error interface
func (e *AuthenticationError) Error() string {
	return fmt.Sprintf("experian authentication failed: status %d: %s", e.StatusCode, truncate(e.Body))
}

// DomainError is returned when an authenticated call got a non-200 status, or a
// 200 whose body did not satisfy the endpoint group's success check. Body is the
// response body verbatim.
type DomainError struct {
	StatusCode int
	Body       json.RawMessage
}

// Error implements the error interface
func (e *DomainError) Error() string {
	return fmt.Sprintf("experian API error: status %d: %s", e.StatusCode, truncate(e.Body))
}

// IsUnauthorized checks if the error indicates a rejected or expired token
func (e *DomainError) IsUnauthorized() bool {
	return e.StatusCode == http.StatusUnauthorized || e.StatusCode == http.StatusForbidden
}

// IsNotFound checks if the error indicates a not found response
func (e *DomainError) IsNotFound() bool {
	return e.StatusCode == http.StatusNotFound
}

// Details decodes the errors array Experian attaches to failed responses.
// It returns nil when the body carries none.
func (e *DomainError) Details() []ErrorDetail {
	var envelope struct {
		Errors []ErrorDetail `json:"errors"`
	}
	if err := json.Unmarshal(e.Body, &envelope); err != nil {
		return nil
	}
	return envelope.Errors
}

const maxErrorBody = 256

func truncate(body []byte) string {
	if len(body) <= maxErrorBody {
		return string(body)
	}
	return string(body[:maxErrorBody]) + "..."
}
