package collate

import (
	"errors"
	"fmt"
)

// Error kinds. Every error returned by Collate wraps exactly one of these.
var (
	ErrEmptyBatch        = errors.New("empty batch")
	ErrStructureMismatch = errors.New("structure mismatch")
	ErrTypeMismatch      = errors.New("type mismatch")
	ErrShapeMismatch     = errors.New("shape mismatch")
)

// Error describes where in the sample structure a collation failed.
type Error struct {
	Kind    error  // One of the Err* sentinels.
	Path    string // Leaf or node path, e.g. "pose.data" or "[1].id". Empty for the root.
	Sample  int    // Index of the offending sample, or -1 if not tied to one.
	Details string
}

// Error implements the error interface.
func (e *Error) Error() string {
	path := e.Path
	if path == "" {
		path = "<root>"
	}
	if e.Sample >= 0 {
		return fmt.Sprintf("%v at %s (sample %d): %s", e.Kind, path, e.Sample, e.Details)
	}
	return fmt.Sprintf("%v at %s: %s", e.Kind, path, e.Details)
}

// Unwrap returns the error kind so errors.Is matches the sentinels.
func (e *Error) Unwrap() error {
	return e.Kind
}

func structureErr(path string, sample int, format string, args ...any) error {
	return &Error{Kind: ErrStructureMismatch, Path: path, Sample: sample, Details: fmt.Sprintf(format, args...)}
}

func typeErr(path string, sample int, format string, args ...any) error {
	return &Error{Kind: ErrTypeMismatch, Path: path, Sample: sample, Details: fmt.Sprintf(format, args...)}
}

func shapeErr(path string, sample int, format string, args ...any) error {
	return &Error{Kind: ErrShapeMismatch, Path: path, Sample: sample, Details: fmt.Sprintf(format, args...)}
}
