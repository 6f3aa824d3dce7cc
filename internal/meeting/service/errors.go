package service

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound = errors.New("not found")
)

// ValidationError rejects a request before anything is written.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

func invalid(field, format string, args ...interface{}) error {
	return &ValidationError{Field: field, Message: fmt.Sprintf(format, args...)}
}

// StorageError wraps an unexpected failure from the persistence layer.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string { return fmt.Sprintf("%s: %v", e.Op, e.Err) }

func (e *StorageError) Unwrap() error { return e.Err }

// IsValidation reports whether err is (or wraps) a ValidationError.
func IsValidation(err error) bool {
	var v *ValidationError
	return errors.As(err, &v)
}

// IsStorage reports whether err is (or wraps) a StorageError.
func IsStorage(err error) bool {
	var s *StorageError
	return errors.As(err, &s)
}
