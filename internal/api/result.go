package api

import (
	"context"
	"errors"
	"net"

	apperrors "github.com/Makepad-fr/debts/internal/errors"
)

const (
	NetworkErrorMessage    = "Network error"
	FallbackMessage        = "Request failed"
	InvalidResponseMessage = "Invalid response"
	InvalidBodyMessage     = "Invalid request body"
)

// Error is the failure variant of a Result. Status 0 means no HTTP response
// was obtained.
type Error struct {
	Status  int
	Message string
	Kind    apperrors.Kind
	Cause   error
}

func (e *Error) Error() string { return e.Message }

func (e *Error) Unwrap() error { return e.Cause }

// Transport reports whether the request never produced an HTTP response.
func (e *Error) Transport() bool { return e.Status == 0 && e.Kind == apperrors.KindTransport }

// Unauthorized reports a 401 answer.
func (e *Error) Unauthorized() bool { return e.Status == 401 }

// Timeout reports whether the underlying transport failure was a timeout.
// The message stays "Network error" either way.
func (e *Error) Timeout() bool {
	if e.Cause == nil {
		return false
	}
	if errors.Is(e.Cause, context.DeadlineExceeded) {
		return true
	}
	var ne net.Error
	return errors.As(e.Cause, &ne) && ne.Timeout()
}

// AsError extracts an *Error from err's chain.
func AsError(err error) (*Error, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e, true
	}
	return nil, false
}

// Result holds exactly one of a decoded payload or an *Error.
// The zero Result is a success carrying the zero T.
type Result[T any] struct {
	data T
	err  *Error
}

// Ok builds the success variant.
func Ok[T any](data T) Result[T] {
	return Result[T]{data: data}
}

// Fail builds the failure variant. A nil err becomes a generic failure.
func Fail[T any](err *Error) Result[T] {
	if err == nil {
		err = &Error{Message: FallbackMessage, Kind: apperrors.KindUnknown}
	}
	return Result[T]{err: err}
}

func (r Result[T]) OK() bool { return r.err == nil }

// Data is the payload; the zero T on failure.
func (r Result[T]) Data() T { return r.data }

// Err is the failure; nil on success.
func (r Result[T]) Err() *Error { return r.err }

// Get unpacks the result into Go's usual (value, error) pair.
func (r Result[T]) Get() (T, error) {
	if r.err != nil {
		var zero T
		return zero, r.err
	}
	return r.data, nil
}

func networkError(cause error) *Error {
	return &Error{Status: 0, Message: NetworkErrorMessage, Kind: apperrors.KindTransport, Cause: cause}
}
