package domain

import (
	"errors"
	"fmt"
)

// Kind classifies an Error for the transport layer.
type Kind int

const (
	KindInternal Kind = iota
	KindBadRequest
	KindValidation
	KindUnauthorized
	KindForbidden
	KindNotFound
	KindConflict
	KindBadGateway
)

func (k Kind) String() string {
	switch k {
	case KindBadRequest:
		return "bad_request"
	case KindValidation:
		return "validation_failed"
	case KindUnauthorized:
		return "unauthorized"
	case KindForbidden:
		return "forbidden"
	case KindNotFound:
		return "not_found"
	case KindConflict:
		return "conflict"
	case KindBadGateway:
		return "bad_gateway"
	default:
		return "internal"
	}
}

// Sentinels usable with errors.Is against any *Error of the same kind.
var (
	ErrNotFound     = &Error{Kind: KindNotFound, Message: "not found"}
	ErrConflict     = &Error{Kind: KindConflict, Message: "conflict"}
	ErrUnauthorized = &Error{Kind: KindUnauthorized, Message: "unauthorized"}
	ErrForbidden    = &Error{Kind: KindForbidden, Message: "forbidden"}
	ErrBadGateway   = &Error{Kind: KindBadGateway, Message: "upstream service unavailable"}
)

// Error is the application error carried from services to handlers.
// Details maps a field name to human-readable messages.
type Error struct {
	Kind    Kind
	Message string
	Details map[string][]string
	// Status is an upstream HTTP status to pass through, when non-zero.
	Status int
	Err    error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

// Is matches on Kind so callers can write errors.Is(err, domain.ErrNotFound).
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind
}

func BadRequest(msg string) *Error { return &Error{Kind: KindBadRequest, Message: msg} }

func NotFound(msg string) *Error { return &Error{Kind: KindNotFound, Message: msg} }

func Forbidden(msg string) *Error { return &Error{Kind: KindForbidden, Message: msg} }

func Unauthorized(msg string) *Error { return &Error{Kind: KindUnauthorized, Message: msg} }

// Validation builds a ValidationFailed error with per-field messages.
func Validation(details map[string][]string) *Error {
	return &Error{Kind: KindValidation, Message: "validation failed", Details: details}
}

// Conflict reports a uniqueness violation on field.
func Conflict(field, msg string) *Error {
	e := &Error{Kind: KindConflict, Message: msg}
	if field != "" {
		e.Details = map[string][]string{field: {"already exists"}}
	}
	return e
}

// BadGateway wraps an upstream failure.
func BadGateway(msg string, err error) *Error {
	return &Error{Kind: KindBadGateway, Message: msg, Err: err}
}

// Internal wraps an unexpected failure. The message is not shown to clients.
func Internal(err error) *Error {
	return &Error{Kind: KindInternal, Message: "internal server error", Err: err}
}

// KindOf returns the kind of the first *Error in err's chain, or KindInternal.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}
