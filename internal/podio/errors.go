package podio

import (
	"errors"
	"fmt"
)

// ErrRecordNotFound is returned when an item fetch comes back 404. Callers
// treat it as "nothing to do", not as a hard failure.
var ErrRecordNotFound = errors.New("podio: record not found")

// AuthError is terminal: credentials are missing/rejected or the token
// endpoint stayed unreachable through every retry. Callers must abort the
// operation rather than retry further.
type AuthError struct {
	Tenant string
	Err    error
}

func (e *AuthError) Error() string {
	return fmt.Sprintf("podio: could not obtain access token for app %q: %v", e.Tenant, e.Err)
}

func (e *AuthError) Unwrap() error { return e.Err }

// IsAuthError reports whether err is (or wraps) an AuthError.
func IsAuthError(err error) bool {
	var ae *AuthError
	return errors.As(err, &ae)
}

// FieldWriteError wraps a failed item-field write. Batch runs count these and
// continue; they never abort the run.
type FieldWriteError struct {
	ItemID int64
	Err    error
}

func (e *FieldWriteError) Error() string {
	return fmt.Sprintf("podio: write to item %d failed: %v", e.ItemID, e.Err)
}

func (e *FieldWriteError) Unwrap() error { return e.Err }

// StatusError is a non-2xx API response.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("podio: unexpected status %d: %s", e.StatusCode, e.Body)
}
