package errs

import (
	"errors"
	"fmt"
)

// Kinds of failure surfaced by the core. Handlers map each kind to a status code.
var (
	ErrValidation        = errors.New("validation error")
	ErrNotFound          = errors.New("not found")
	ErrNotAuthorized     = errors.New("not authorized")
	ErrInvalidTransition = errors.New("invalid transition")
	ErrDuplicateKey      = errors.New("duplicate key")
	ErrStore             = errors.New("store error")

	// ErrUnauthenticated means no valid identity was presented at all.
	ErrUnauthenticated = errors.New("unauthenticated")
)

// Error carries a failure kind plus a human readable message.
type Error struct {
	Kind error
	Msg  string
	Err  error
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	msg := e.Msg
	if msg == "" {
		msg = e.Kind.Error()
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return msg
}

// Unwrap exposes both the kind and the underlying cause to errors.Is.
func (e *Error) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}

func newf(kind error, format string, args ...any) error {
	return &Error{Kind: kind, Msg: fmt.Sprintf(format, args...)}
}

func Validationf(format string, args ...any) error { return newf(ErrValidation, format, args...) }

func NotFoundf(format string, args ...any) error { return newf(ErrNotFound, format, args...) }

func NotAuthorizedf(format string, args ...any) error { return newf(ErrNotAuthorized, format, args...) }

func InvalidTransitionf(format string, args ...any) error {
	return newf(ErrInvalidTransition, format, args...)
}

func Unauthenticatedf(format string, args ...any) error {
	return newf(ErrUnauthenticated, format, args...)
}

func DuplicateKeyf(format string, args ...any) error { return newf(ErrDuplicateKey, format, args...) }

// Store wraps an underlying persistence failure.
func Store(msg string, err error) error {
	return &Error{Kind: ErrStore, Msg: msg, Err: err}
}

// Message returns the text meant for API callers, without wrapped driver detail
// for store failures.
func Message(err error) string {
	var e *Error
	if errors.As(err, &e) {
		if errors.Is(e.Kind, ErrStore) {
			if e.Msg != "" {
				return e.Msg
			}
			return ErrStore.Error()
		}
		return e.Error()
	}
	return err.Error()
}
