package services

import (
	"errors"
	"fmt"
)

// ErrorKind classifies a DomainError. Handlers map kinds to HTTP status codes.
type ErrorKind string

const (
	KindInvalidInput        ErrorKind = "invalid_input"
	KindUnauthorized        ErrorKind = "unauthorized"
	KindNotFound            ErrorKind = "not_found"
	KindForbidden           ErrorKind = "forbidden"
	KindConflict            ErrorKind = "conflict"
	KindSelfReviewForbidden ErrorKind = "self_review_forbidden"
	KindDuplicateReview     ErrorKind = "duplicate_review"
)

// DomainError is a typed, expected failure returned to the caller.
type DomainError struct {
	Kind    ErrorKind
	Message string
}

func (e *DomainError) Error() string {
	if e.Message == "" {
		return string(e.Kind)
	}
	return e.Message
}

// Is matches any DomainError of the same kind, so callers can compare
// against the sentinels below regardless of the message.
func (e *DomainError) Is(target error) bool {
	t, ok := target.(*DomainError)
	return ok && t.Kind == e.Kind
}

var (
	ErrInvalidInput        = &DomainError{Kind: KindInvalidInput}
	ErrUnauthorized        = &DomainError{Kind: KindUnauthorized}
	ErrNotFound            = &DomainError{Kind: KindNotFound}
	ErrForbidden           = &DomainError{Kind: KindForbidden}
	ErrConflict            = &DomainError{Kind: KindConflict}
	ErrSelfReviewForbidden = &DomainError{Kind: KindSelfReviewForbidden}
	ErrDuplicateReview     = &DomainError{Kind: KindDuplicateReview}
)

func newError(kind ErrorKind, format string, args ...interface{}) *DomainError {
	return &DomainError{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// KindOf returns the kind of a DomainError anywhere in err's chain, or "".
func KindOf(err error) ErrorKind {
	var de *DomainError
	if errors.As(err, &de) {
		return de.Kind
	}
	return ""
}
