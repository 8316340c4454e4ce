// Package common defines the domain-error taxonomy and shared constants used
// across the client and server layers. Callers should use errors.Is to match
// these values.
package common

import (
	"errors"
	"fmt"
)

// Kind classifies a domain error. The set is closed; every transport encoder
// must handle each value.
type Kind int

const (
	KindInternal Kind = iota
	KindValidation
	KindNotFound
	KindUnauthorized
	KindForbidden
	KindAlreadyExists
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindNotFound:
		return "not_found"
	case KindUnauthorized:
		return "unauthorized"
	case KindForbidden:
		return "forbidden"
	case KindAlreadyExists:
		return "already_exists"
	default:
		return "internal"
	}
}

// Error is a domain error. Message is safe to show to clients, cause is not.
type Error struct {
	Kind     Kind
	Message  string
	Resource string
	cause    error
}

func (e *Error) Error() string {
	switch e.Kind {
	case KindValidation:
		return "validation error: " + e.Message
	case KindNotFound:
		return "not found: " + e.Resource
	case KindUnauthorized:
		return "unauthorized"
	case KindForbidden:
		return "forbidden"
	case KindAlreadyExists:
		return "already exists: " + e.Message
	default:
		return "internal server error"
	}
}

func (e *Error) Unwrap() error { return e.cause }

// Is reports kind equality, so errors.Is(err, ErrorNotFound) matches any
// NotFound regardless of its resource.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind
}

var (
	// Kind sentinels for errors.Is.
	ErrorValidation    = &Error{Kind: KindValidation}
	ErrorNotFound      = &Error{Kind: KindNotFound}
	ErrorUnauthorized  = &Error{Kind: KindUnauthorized}
	ErrorForbidden     = &Error{Kind: KindForbidden}
	ErrorAlreadyExists = &Error{Kind: KindAlreadyExists}
	ErrorInternal      = &Error{Kind: KindInternal}

	// Repository-level errors. Services translate them into the taxonomy above.
	ErrRecordNotFound  = errors.New("record not found")
	ErrUniqueViolation = errors.New("unique constraint violation")

	// Token errors. The guard collapses all of them into Unauthorized.
	ErrInvalidToken = errors.New("invalid token")
	ErrTokenExpired = errors.New("token expired")
	ErrTokenRevoked = errors.New("token revoked")
)

func Validation(msg string) *Error {
	return &Error{Kind: KindValidation, Message: msg}
}

func NotFound(resource string) *Error {
	return &Error{Kind: KindNotFound, Resource: resource}
}

func Unauthorized() *Error {
	return &Error{Kind: KindUnauthorized}
}

func Forbidden() *Error {
	return &Error{Kind: KindForbidden}
}

func AlreadyExists(msg string) *Error {
	return &Error{Kind: KindAlreadyExists, Message: msg}
}

// Internal wraps cause for server-side diagnostics. The cause never reaches
// a client.
func Internal(format string, args ...any) *Error {
	return &Error{Kind: KindInternal, cause: fmt.Errorf(format, args...)}
}

// KindOf classifies err. Anything outside the taxonomy is Internal.
func KindOf(err error) Kind {
	var de *Error
	if errors.As(err, &de) {
		return de.Kind
	}
	return KindInternal
}

// AsError returns err as a domain error, wrapping foreign errors as Internal.
func AsError(err error) *Error {
	var de *Error
	if errors.As(err, &de) {
		return de
	}
	return &Error{Kind: KindInternal, cause: err}
}
