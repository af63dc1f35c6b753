// Package domain defines domain-level errors for the identity feature.
package domain

import "fmt"

// Kind classifies a domain error so callers can branch on it with errors.Is.
type Kind string

const (
	// KindValidation marks input that cannot form a valid user or credential.
	KindValidation Kind = "VALIDATION"
	// KindConflict marks a login that is already registered.
	KindConflict Kind = "CONFLICT"
	// KindCredentialMismatch marks a wrong current password on change.
	KindCredentialMismatch Kind = "CREDENTIAL_MISMATCH"
	// KindNotAuthenticated marks a failed login. It never says why.
	KindNotAuthenticated Kind = "NOT_AUTHENTICATED"
)

// Error is the identity domain error. Message is meant to be shown to the
// caller and must be enough to fix the input.
type Error struct {
	Kind    Kind
	Message string
	Cause   error
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Message == "" {
		return string(e.Kind)
	}
	return e.Message
}

// Unwrap returns the underlying cause for error chain traversal.
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is reports whether target is a domain error of the same kind.
func (e *Error) Is(target error) bool {
	if t, ok := target.(*Error); ok {
		return e.Kind == t.Kind
	}
	return false
}

// Sentinels for errors.Is checks. Only the Kind is compared.
var (
	// ErrValidation matches every validation failure.
	ErrValidation = &Error{Kind: KindValidation, Message: "invalid input"}

	// ErrConflict is returned when a user with the same login already exists.
	ErrConflict = &Error{Kind: KindConflict, Message: "a user with this login already exists"}

	// ErrCredentialMismatch is returned when the current password does not match.
	ErrCredentialMismatch = &Error{Kind: KindCredentialMismatch, Message: "the entered password does not match the current password"}

	// ErrNotAuthenticated is returned by login for unknown users and wrong passwords alike.
	ErrNotAuthenticated = &Error{Kind: KindNotAuthenticated, Message: "not authenticated"}
)

// Validationf builds a validation error with a formatted message.
func Validationf(format string, args ...any) *Error {
	return &Error{Kind: KindValidation, Message: fmt.Sprintf(format, args...)}
}

// Conflict builds a conflict error naming the taken login.
func Conflict(login string, cause error) *Error {
	return &Error{
		Kind:    KindConflict,
		Message: fmt.Sprintf("a user with login %q already exists", login),
		Cause:   cause,
	}
}
