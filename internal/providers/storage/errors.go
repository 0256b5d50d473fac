package storage

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound is returned when a document or blob does not exist
	ErrNotFound = errors.New("storage: not found")

	// ErrDecode is returned when a document exists but cannot be decoded
	ErrDecode = errors.New("storage: decode failure")
)

// IOError wraps a permission or disk error from the underlying filesystem
type IOError struct {
	Op   string
	Path string
	Err  error
}

func (e *IOError) Error() string {
	return fmt.Sprintf("storage: %s %s: %v", e.Op, e.Path, e.Err)
}

func (e *IOError) Unwrap() error {
	return e.Err
}

// IsNotFound reports whether err means the document is absent
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsRecoverable reports whether a read error should fall back to a default.
// Missing and corrupt documents are both recoverable.
func IsRecoverable(err error) bool {
	return errors.Is(err, ErrNotFound) || errors.Is(err, ErrDecode)
}
