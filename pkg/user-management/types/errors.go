package types

import "errors"

type ErrorKind string

const (
	KindInvalidCredentials ErrorKind = "invalid_credentials"
	KindAccountLocked      ErrorKind = "account_locked"
	KindUnauthorized       ErrorKind = "unauthorized"
	KindForbidden          ErrorKind = "forbidden"
	KindNotFound           ErrorKind = "not_found"
	KindValidation         ErrorKind = "validation_error"
	KindConflict           ErrorKind = "conflict"
	KindDeliveryFailed     ErrorKind = "delivery_failed"
	KindInternal           ErrorKind = "internal_error"
)

// Error carries one of the error kinds above. Msg is safe to show to clients,
// Err holds the underlying cause for logging.
type Error struct {
	Kind ErrorKind
	Msg  string
	Err  error
}

func (e *Error) Error() string {
	msg := e.Msg
	if msg == "" {
		msg = string(e.Kind)
	}
	if e.Err != nil {
		return msg + ": " + e.Err.Error()
	}
	return msg
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches any *Error of the same kind, so errors.Is(err, ErrNotFound) works
// for every not found error regardless of message.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind
}

func NewError(kind ErrorKind, msg string, err error) *Error {
	return &Error{Kind: kind, Msg: msg, Err: err}
}

var (
	ErrInvalidCredentials = &Error{Kind: KindInvalidCredentials, Msg: "invalid credentials"}
	ErrAccountLocked      = &Error{Kind: KindAccountLocked, Msg: "account locked"}
	ErrUnauthorized       = &Error{Kind: KindUnauthorized, Msg: "unauthorized"}
	ErrForbidden          = &Error{Kind: KindForbidden, Msg: "forbidden"}
	ErrNotFound           = &Error{Kind: KindNotFound, Msg: "not found"}
	ErrValidation         = &Error{Kind: KindValidation, Msg: "validation error"}
	ErrConflict           = &Error{Kind: KindConflict, Msg: "conflict"}
	ErrDeliveryFailed     = &Error{Kind: KindDeliveryFailed, Msg: "delivery failed"}
	ErrInternal           = &Error{Kind: KindInternal, Msg: "internal error"}
)

// KindOf returns the kind of err, or KindInternal for errors outside the taxonomy.
func KindOf(err error) ErrorKind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}

// MessageOf returns the client-safe message of err.
func MessageOf(err error) string {
	var e *Error
	if errors.As(err, &e) && e.Msg != "" {
		return e.Msg
	}
	return string(KindInternal)
}
