package apperr

import (
	"errors"
	"fmt"
)

// Error kinds returned by the storage and album core. Callers test them with errors.Is.
var (
	ErrValidation          = errors.New("validation error")
	ErrInvalidName         = errors.New("invalid file name")
	ErrMissingExtension    = errors.New("missing file extension")
	ErrDisallowedExtension = errors.New("file extension not allowed")
	ErrNotFound            = errors.New("not found")
	ErrForbidden           = errors.New("forbidden")
	ErrIOFailure           = errors.New("io failure")
)

var kinds = []error{
	ErrValidation,
	ErrInvalidName,
	ErrMissingExtension,
	ErrDisallowedExtension,
	ErrNotFound,
	ErrForbidden,
	ErrIOFailure,
}

type wrapped struct {
	kind  error
	cause error
}

func (w *wrapped) Error() string {
	return w.kind.Error() + ": " + w.cause.Error()
}

func (w *wrapped) Unwrap() []error {
	return []error{w.kind, w.cause}
}

// Wrap tags cause with kind. Both stay reachable through errors.Is / errors.As.
func Wrap(kind, cause error) error {
	if cause == nil {
		return kind
	}
	return &wrapped{kind: kind, cause: cause}
}

// Errorf formats a message and tags it with kind.
func Errorf(kind error, format string, args ...any) error {
	return fmt.Errorf("%w: "+format, append([]any{kind}, args...)...)
}

// KindOf returns the kind sentinel carried by err, or nil for untyped errors.
func KindOf(err error) error {
	if err == nil {
		return nil
	}
	for _, k := range kinds {
		if errors.Is(err, k) {
			return k
		}
	}
	return nil
}
