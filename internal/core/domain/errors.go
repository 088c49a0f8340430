package domain

import "errors"

var (
	// ErrInvalidCredential covers every token failure: malformed, tampered,
	// expired or of the wrong kind. Callers cannot tell them apart.
	ErrInvalidCredential = errors.New("invalid credential")
	// ErrInvalidCredentials is a failed username/password check.
	ErrInvalidCredentials = errors.New("invalid credentials")

	ErrAuthenticationRequired = errors.New("authentication required")
	ErrPermissionDenied       = errors.New("permission denied")

	ErrUserNotFound    = errors.New("user not found")
	ErrUserExists      = errors.New("user already exists")
	ErrNoteNotFound    = errors.New("note not found")
	ErrCommentNotFound = errors.New("comment not found")

	ErrTooManyAttempts = errors.New("too many failed login attempts")

	// ErrValidation is matched by every *ValidationError via errors.Is.
	ErrValidation = errors.New("validation failed")
)

// ValidationError carries the specific rule a request violated.
type ValidationError struct {
	Msg string
}

func NewValidationError(msg string) *ValidationError {
	return &ValidationError{Msg: msg}
}

func (e *ValidationError) Error() string { return e.Msg }

func (e *ValidationError) Is(target error) bool { return target == ErrValidation }

// IsNotFound reports whether err signals an absent user, note or comment.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrUserNotFound) ||
		errors.Is(err, ErrNoteNotFound) ||
		errors.Is(err, ErrCommentNotFound)
}
