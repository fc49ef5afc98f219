package answer

import (
	"errors"
	"fmt"
)

// ErrorKind categorizes engine failures for the transport layer.
type ErrorKind string

const (
	KindValidation ErrorKind = "validation"
	KindNotFound   ErrorKind = "not_found"
	KindInternal   ErrorKind = "internal"
)

// DomainError carries an error kind alongside the message so handlers can map
// failures to status codes without string matching.
type DomainError struct {
	Kind    ErrorKind
	Message string
	Err     error
}

func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (%v)", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *DomainError) Unwrap() error {
	return e.Err
}

func (e *DomainError) Is(target error) bool {
	t, ok := target.(*DomainError)
	if !ok {
		return false
	}
	return e.Kind == t.Kind
}

func validationError(msg string) *DomainError {
	return &DomainError{Kind: KindValidation, Message: msg}
}

func notFoundError(msg string) *DomainError {
	return &DomainError{Kind: KindNotFound, Message: msg}
}

func internalError(msg string, err error) *DomainError {
	return &DomainError{Kind: KindInternal, Message: msg, Err: err}
}

// KindOf extracts the error kind, defaulting to internal.
func KindOf(err error) ErrorKind {
	var de *DomainError
	if errors.As(err, &de) {
		return de.Kind
	}
	return KindInternal
}
