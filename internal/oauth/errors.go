package oauth

import (
	"fmt"

	"toolbridge/internal/credstore"
)

// AuthRequiredError indicates that no usable stored credentials exist
// for a (service, user) pair: either no record at all, or a record that
// is due for refresh but carries no refresh token.
type AuthRequiredError struct {
	Service string
	User    string

	// Hint is an extra instruction shown in local environments, where
	// the user can fix the situation by running the auth flow.
	Hint string
}

// Error implements the error interface.
func (e *AuthRequiredError) Error() string {
	msg := fmt.Sprintf("credentials not found for user %s (service %s)", e.User, e.Service)
	if e.Hint != "" {
		msg += ". " + e.Hint
	}
	return msg
}

// Unwrap allows errors.Is(err, credstore.ErrNotFound) checks.
func (e *AuthRequiredError) Unwrap() error {
	return credstore.ErrNotFound
}

// FlowError wraps a failure of the interactive authorization flow:
// provider-signaled errors, listener timeouts, and failed token
// exchanges. None of these are retried automatically; re-running the
// flow is the only recovery.
type FlowError struct {
	Service string
	Err     error
}

// Error implements the error interface.
func (e *FlowError) Error() string {
	return fmt.Sprintf("%s authentication failed: %v", e.Service, e.Err)
}

// Unwrap returns the underlying error.
func (e *FlowError) Unwrap() error {
	return e.Err
}
