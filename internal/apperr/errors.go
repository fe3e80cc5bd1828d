// Package apperr carries the error taxonomy shared by usecases and handlers:
// not-found, validation failure, persistence failure. All three propagate to
// the caller; nothing is retried or suppressed inside a workflow.
package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

type Kind int

const (
	KindNotFound Kind = iota + 1
	KindValidation
	KindPersistence
)

type Error struct {
	Kind Kind
	Msg  string
	Err  error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Msg, e.Err)
	}
	return e.Msg
}

func (e *Error) Unwrap() error { return e.Err }

func NotFound(format string, args ...interface{}) error {
	return &Error{Kind: KindNotFound, Msg: fmt.Sprintf(format, args...)}
}

func Invalid(format string, args ...interface{}) error {
	return &Error{Kind: KindValidation, Msg: fmt.Sprintf(format, args...)}
}

// Persistence wraps a store error, preserving it for errors.Is/As.
func Persistence(err error, msg string) error {
	return &Error{Kind: KindPersistence, Msg: msg, Err: err}
}

func kindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return 0
}

func IsNotFound(err error) bool    { return kindOf(err) == KindNotFound }
func IsValidation(err error) bool  { return kindOf(err) == KindValidation }
func IsPersistence(err error) bool { return kindOf(err) == KindPersistence }

// Status maps an error to the HTTP status the handlers respond with.
func Status(err error) int {
	switch kindOf(err) {
	case KindNotFound:
		return http.StatusNotFound
	case KindValidation:
		return http.StatusUnprocessableEntity
	case KindPersistence:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
