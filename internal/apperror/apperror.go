// Package apperror defines the typed errors raised by the service layer.
// Handlers translate these into HTTP responses; only the Message field is
// ever shown to clients, the wrapped cause stays server-side.
package apperror

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrorType classifies an application error.
type ErrorType int

const (
	// UnknownError is for unspecified failures.
	UnknownError ErrorType = iota
	// DatabaseError represents an error originating from the store.
	DatabaseError
	// UnauthenticatedError means the operation requires a signed-in caller
	// and none was present.
	UnauthenticatedError
	// ForbiddenError means the caller is signed in but does not own the
	// target record.
	ForbiddenError
	// NotFoundError represents a lookup on a missing record.
	NotFoundError
	// AuthenticationError is a sign-in failure. The message is deliberately
	// identical for unknown accounts and wrong passwords.
	AuthenticationError
	// AccountCreationError is a sign-up failure. The underlying store error
	// (duplicate username/email or otherwise) is not surfaced.
	AccountCreationError
	// InvalidCredentialError means a bearer token was supplied but is
	// malformed or carries a bad signature. The request must be aborted
	// before any resolver runs; absence of a token is not this error.
	InvalidCredentialError
)

// AppError is the error type carried between services and handlers. It
// wraps an optional underlying cause for errors.Is/As inspection.
type AppError struct {
	Type    ErrorType
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap returns the underlying error for errors.Is/errors.As.
func (e *AppError) Unwrap() error {
	return e.Err
}

// StatusCode maps the error type to the HTTP status handlers respond with.
func (e *AppError) StatusCode() int {
	switch e.Type {
	case UnauthenticatedError, AuthenticationError, InvalidCredentialError:
		return http.StatusUnauthorized
	case ForbiddenError:
		return http.StatusForbidden
	case NotFoundError:
		return http.StatusNotFound
	case AccountCreationError:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// New creates an AppError with an explicit type.
func New(errType ErrorType, message string, underlying error) *AppError {
	return &AppError{Type: errType, Message: message, Err: underlying}
}

// NewUnauthenticated creates an UnauthenticatedError.
func NewUnauthenticated(message string) *AppError {
	return New(UnauthenticatedError, message, nil)
}

// NewForbidden creates a ForbiddenError.
func NewForbidden(message string) *AppError {
	return New(ForbiddenError, message, nil)
}

// NewNotFound creates a NotFoundError.
func NewNotFound(message string, underlying error) *AppError {
	return New(NotFoundError, message, underlying)
}

// NewAuthentication creates an AuthenticationError.
func NewAuthentication(message string, underlying error) *AppError {
	return New(AuthenticationError, message, underlying)
}

// NewAccountCreation creates an AccountCreationError.
func NewAccountCreation(message string, underlying error) *AppError {
	return New(AccountCreationError, message, underlying)
}

// NewInvalidCredential creates an InvalidCredentialError.
func NewInvalidCredential(message string, underlying error) *AppError {
	return New(InvalidCredentialError, message, underlying)
}

// NewDatabase creates a DatabaseError.
func NewDatabase(message string, underlying error) *AppError {
	return New(DatabaseError, message, underlying)
}

// FromError attempts to interpret err as an *AppError anywhere in its chain.
func FromError(err error) (*AppError, bool) {
	var ae *AppError
	if errors.As(err, &ae) {
		return ae, true
	}
	return nil, false
}

// IsType reports whether err is an AppError of the given type.
func IsType(err error, t ErrorType) bool {
	ae, ok := FromError(err)
	return ok && ae.Type == t
}
