package domain

import "errors"

var (
	// ErrAuthRequired means the operation needs a session and none exists.
	// Raised locally, before any request is made.
	ErrAuthRequired = errors.New("authentication required")
	// ErrNotFound means the requested article does not exist
	ErrNotFound = errors.New("article not found")
	// ErrForbidden means the viewer may not access the article
	ErrForbidden = errors.New("you do not have permission to access this article")
	// ErrServer means the backend failed internally
	ErrServer = errors.New("server error")
	// ErrNetwork covers transport failures and unmapped statuses
	ErrNetwork = errors.New("network error, unable to reach the server")
	// ErrSessionExpired means the backend rejected the token; the session
	// has already been destroyed by the time callers see this.
	ErrSessionExpired = errors.New("your session has expired, please log in again")
)

// ValidationError carries a server-side validation message from a rejected
// create or update.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return "Validation error: " + e.Message
}

// AsValidation unwraps err as a ValidationError, or returns nil.
func AsValidation(err error) *ValidationError {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve
	}
	return nil
}
