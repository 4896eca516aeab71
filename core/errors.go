package core

import (
	"fmt"

	"github.com/pkg/errors"
)

// ErrorKind classifies failures surfaced by the domain services.
type ErrorKind string

const (
	KindValidation          ErrorKind = "validation"
	KindAuthorizationDenied ErrorKind = "authorization_denied"
	KindNotFound            ErrorKind = "not_found"
	KindLimitExceeded       ErrorKind = "limit_exceeded"
	KindResourceUnavailable ErrorKind = "resource_unavailable"
	KindPersistenceFailure  ErrorKind = "persistence_failure"
)

var ErrAuthorizationDenied = errors.New("permission denied: admin or staff role required")

// FieldError is used to indicate an error with a specific struct field.
type FieldError struct {
	Field string
	Error string
}

type ValidationError struct {
	Err    error
	Fields []FieldError
}

func NewValidationError(err error, flds ...FieldError) error {
	return &ValidationError{err, flds}
}

func (err ValidationError) Error() string {
	if err.Err == nil {
		if len(err.Fields) > 0 {
			return err.Fields[0].Field + ": " + err.Fields[0].Error
		}
		return ""
	}
	return err.Err.Error()
}

// NotFoundError reports a missing row.
type NotFoundError struct {
	Resource string
	ID       string
}

func NewNotFoundError(resource, id string) error {
	return &NotFoundError{Resource: resource, ID: id}
}

func (err NotFoundError) Error() string {
	return err.Resource + " not found"
}

// LimitExceededError carries the numbers of a refused annual quota so callers can render
// "current X + new Y = Z, limit L".
type LimitExceededError struct {
	Check   string `json:"check"`
	Label   string `json:"label"`
	Current int64  `json:"current"`
	New     int64  `json:"new"`
	Limit   int64  `json:"limit"`
	IsCount bool   `json:"is_count"`
}

func (err LimitExceededError) Error() string {
	if err.IsCount {
		return fmt.Sprintf("annual %s limit reached: %d of %d used this year", err.label(), err.Current, err.Limit)
	}
	return fmt.Sprintf("annual %s limit exceeded: current %s + new %s = %s, limit %s",
		err.label(), FormatWon(err.Current), FormatWon(err.New-err.Current), FormatWon(err.New), FormatWon(err.Limit))
}

func (err LimitExceededError) label() string {
	if err.Label != "" {
		return err.Label
	}
	return err.Check
}

// UnavailableError reports a resource that is not in an assignable state.
type UnavailableError struct {
	Resource string
	ID       string
	Status   string
}

func NewUnavailableError(resource, id, status string) error {
	return &UnavailableError{Resource: resource, ID: id, Status: status}
}

func (err UnavailableError) Error() string {
	return fmt.Sprintf("%s is not available (status: %s)", err.Resource, err.Status)
}

// KindOf maps err to its ErrorKind. Anything unknown is an infrastructure failure; nil has no kind.
func KindOf(err error) ErrorKind {
	if err == nil {
		return ""
	}
	switch errors.Cause(err).(type) {
	case *ValidationError:
		return KindValidation
	case *NotFoundError:
		return KindNotFound
	case *LimitExceededError:
		return KindLimitExceeded
	case *UnavailableError:
		return KindResourceUnavailable
	}
	if errors.Cause(err) == ErrAuthorizationDenied {
		return KindAuthorizationDenied
	}
	return KindPersistenceFailure
}

type shutdown struct {
	message string
}

func NewShutdownError(msg string) error {
	return &shutdown{message: msg}
}

func (s shutdown) Error() string {
	return s.message
}

func IsShutdown(err error) bool {
	_, ok := errors.Cause(err).(*shutdown)
	return ok
}
