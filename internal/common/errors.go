package common

import (
	"errors"
)

var (
	// Input errors, detected before any store call.
	ErrorValidation      = errors.New("validation error")
	ErrorInvalidArgument = errors.New("invalid argument")

	// Repository-level errors.
	ErrorNotFound = errors.New("not found")
	ErrorConflict = errors.New("already exists")
	ErrorStore    = errors.New("store error")

	// Service-level errors.
	ErrorInternal     = errors.New("internal error")
	ErrorUnauthorized = errors.New("unauthorized")

	// Auth errors (invalid or malformed token).
	ErrInvalidToken = errors.New("invalid token")
	ErrTokenExpired = errors.New("token expired")
)

var codes = map[error]string{
	ErrorValidation:      "VALIDATION_ERROR",
	ErrorInvalidArgument: "INVALID_ARGUMENT",
	ErrorNotFound:        "NOT_FOUND",
	ErrorConflict:        "CONFLICT",
	ErrorStore:           "STORE_ERROR",
	ErrorInternal:        "INTERNAL",
	ErrorUnauthorized:    "UNAUTHORIZED",
	ErrInvalidToken:      "UNAUTHORIZED",
	ErrTokenExpired:      "UNAUTHORIZED",
}

// Error is a failure tagged with one of the sentinel kinds above. Message is
// what the caller sees; Err, if set, is the underlying cause.
//
// errors.Is(err, common.ErrorNotFound) matches on Kind, so callers branch on
// the kind instead of parsing text.
type Error struct {
	Kind    error
	Message string
	Err     error
}

// NewError returns an *Error of the given kind.
func NewError(kind error, msg string) *Error {
	return &Error{Kind: kind, Message: msg}
}

// WrapError returns an *Error of the given kind with err as the cause.
// The cause is appended to the message.
func WrapError(kind error, err error, msg string) *Error {
	return &Error{Kind: kind, Message: msg, Err: err}
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

func (e *Error) Is(target error) bool { return target == e.Kind }

// Extensions is picked up by the GraphQL error formatter.
func (e *Error) Extensions() map[string]interface{} {
	return map[string]interface{}{"code": Code(e)}
}

// Code maps err to a stable, transport-neutral error code. Errors that carry
// no known kind are reported as INTERNAL.
func Code(err error) string {
	var e *Error
	if errors.As(err, &e) {
		if c, ok := codes[e.Kind]; ok {
			return c
		}
	}
	for kind, c := range codes {
		if errors.Is(err, kind) {
			return c
		}
	}
	return codes[ErrorInternal]
}
