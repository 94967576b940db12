package domain

import "errors"

// Error kinds surfaced to callers. Concrete errors wrap exactly one of them,
// so adapters can classify failures with errors.Is.
var (
	ErrValidation = errors.New("validation failed")
	ErrNotFound   = errors.New("not found")
	ErrStorage    = errors.New("storage failure")
)

// kindError carries a human readable message and unwraps to its kind
type kindError struct {
	kind error
	msg  string
}

func (e *kindError) Error() string { return e.msg }

func (e *kindError) Unwrap() error { return e.kind }

// NewValidationError returns an error that matches ErrValidation
func NewValidationError(msg string) error {
	return &kindError{kind: ErrValidation, msg: msg}
}

// NewNotFoundError returns an error that matches ErrNotFound
func NewNotFoundError(msg string) error {
	return &kindError{kind: ErrNotFound, msg: msg}
}

// storageError keeps the driver error in the chain next to ErrStorage
type storageError struct {
	op  string
	err error
}

func (e *storageError) Error() string { return e.op + ": " + e.err.Error() }

func (e *storageError) Unwrap() []error { return []error{ErrStorage, e.err} }

// NewStorageError wraps a persistence failure. op describes what was attempted,
// e.g. "failed to insert history entry".
func NewStorageError(op string, err error) error {
	if err == nil {
		err = errors.New("unknown error")
	}
	return &storageError{op: op, err: err}
}

// IsValidation reports whether err is a validation failure
func IsValidation(err error) bool { return errors.Is(err, ErrValidation) }

// IsNotFound reports whether err is a missing-record failure
func IsNotFound(err error) bool { return errors.Is(err, ErrNotFound) }

// IsStorage reports whether err is a persistence failure
func IsStorage(err error) bool { return errors.Is(err, ErrStorage) }
