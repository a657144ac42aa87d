package serialization

import (
	"errors"
	"fmt"
)

// Common errors.
var (
	ErrUnsupportedDType  = errors.New("unsupported dtype")
	ErrOffsetOverlap     = errors.New("tensor offsets overlap")
	ErrOutOfBounds       = errors.New("tensor extends beyond data section")
	ErrNegativeOffset    = errors.New("negative offset or size")
	ErrTooManyTensors    = errors.New("too many tensors in file")
	ErrTensorNameTooLong = errors.New("tensor name too long")
	ErrInvalidTensorName = errors.New("invalid tensor name")
	ErrDuplicateName     = errors.New("duplicate tensor name")
	ErrHeaderTooLarge    = errors.New("header exceeds maximum size")
	ErrSizeMismatch      = errors.New("tensor byte size does not match shape and dtype")
	ErrInvalidBool       = errors.New("bool tensor holds a byte other than 0 or 1")
)

// ValidationError provides detailed information about validation failures.
type ValidationError struct {
	Kind    error  // One of the Err* sentinels.
	Tensor  string // Primary tensor name involved
	Tensor2 string // Secondary tensor name (for overlap errors)
	Details string // Additional details
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	if e.Tensor2 != "" {
		return fmt.Sprintf("%v: tensors %q and %q: %s", e.Kind, e.Tensor, e.Tensor2, e.Details)
	}
	if e.Tensor != "" {
		return fmt.Sprintf("%v: tensor %q: %s", e.Kind, e.Tensor, e.Details)
	}
	return fmt.Sprintf("%v: %s", e.Kind, e.Details)
}

// Unwrap returns the sentinel so errors.Is works.
func (e *ValidationError) Unwrap() error {
	return e.Kind
}
