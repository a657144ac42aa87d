package tensor

import "fmt"

// Shape represents the dimensions of a tensor.
type Shape []int

// NumElements returns the total number of elements in the tensor.
func (s Shape) NumElements() int {
	if len(s) == 0 {
		return 1 // Scalar has 1 element
	}
	n := 1
	for _, dim := range s {
		n *= dim
	}
	return n
}

// Validate checks that no dimension is negative. Zero-length dimensions are
// valid and describe empty tensors.
func (s Shape) Validate() error {
	for i, dim := range s {
		if dim < 0 {
			return fmt.Errorf("invalid dimension at index %d: %d (must be >= 0)", i, dim)
		}
	}
	return nil
}

// Equal checks if two shapes are equal.
func (s Shape) Equal(other Shape) bool {
	if len(s) != len(other) {
		return false
	}
	for i := range s {
		if s[i] != other[i] {
			return false
		}
	}
	return true
}

// Clone returns a copy of the shape.
func (s Shape) Clone() Shape {
	clone := make(Shape, len(s))
	copy(clone, s)
	return clone
}

// Leading returns the size of the first dimension, or 0 for a scalar shape.
func (s Shape) Leading() int {
	if len(s) == 0 {
		return 0
	}
	return s[0]
}

// Trailing returns every dimension after the first.
// The result aliases s.
func (s Shape) Trailing() Shape {
	if len(s) == 0 {
		return Shape{}
	}
	return s[1:]
}

// WithLeading returns a copy of s with the first dimension replaced by n.
func (s Shape) WithLeading(n int) Shape {
	out := s.Clone()
	if len(out) > 0 {
		out[0] = n
	}
	return out
}

// Prepend returns a new shape with n inserted before the existing dimensions.
func (s Shape) Prepend(n int) Shape {
	out := make(Shape, 0, len(s)+1)
	out = append(out, n)
	return append(out, s...)
}

// ComputeStrides calculates row-major strides for the shape.
// Strides define memory layout: stride[i] = product of all dimensions after i.
func (s Shape) ComputeStrides() []int {
	strides := make([]int, len(s))
	if len(s) == 0 {
		return strides
	}

	strides[len(s)-1] = 1
	for i := len(s) - 2; i >= 0; i-- {
		strides[i] = strides[i+1] * s[i+1]
	}
	return strides
}
