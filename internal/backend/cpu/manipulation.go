package cpu

import (
	"fmt"

	"github.com/born-ml/padcollate/internal/parallel"
	"github.com/born-ml/padcollate/internal/tensor"
)

// Cat concatenates tensors along the specified dimension.
//
// All tensors must have the same dtype and the same shape except along the
// concatenation dimension. Supports negative dim indexing (-1 = last dimension).
// The copy is dtype-agnostic: rows are moved as raw bytes.
//
// Example:
//
//	seq := ... // Shape: [3, 4]
//	pad, _ := tensor.Zeros(tensor.Shape{2, 4}, seq.DType(), seq.Device())
//	out := backend.Cat([]*tensor.RawTensor{seq, pad}, 0) // Shape: [5, 4]
func (cpu *CPUBackend) Cat(tensors []*tensor.RawTensor, dim int) *tensor.RawTensor {
	if len(tensors) == 0 {
		panic("cat: at least one tensor required")
	}

	shape := tensors[0].Shape()
	ndim := len(shape)
	dtype := tensors[0].DType()

	if dim < 0 {
		dim = ndim + dim
	}
	if dim < 0 || dim >= ndim {
		panic(fmt.Sprintf("cat: dimension %d out of range for %dD tensor", dim, ndim))
	}

	totalDim := 0
	for i, t := range tensors {
		tShape := t.Shape()
		if len(tShape) != ndim {
			panic(fmt.Sprintf("cat: tensor %d has %d dimensions, expected %d", i, len(tShape), ndim))
		}
		if t.DType() != dtype {
			panic(fmt.Sprintf("cat: tensor %d has dtype %s, expected %s", i, t.DType(), dtype))
		}
		for d := 0; d < ndim; d++ {
			if d == dim {
				totalDim += tShape[d]
			} else if tShape[d] != shape[d] {
				panic(fmt.Sprintf("cat: tensor %d dimension %d is %d, expected %d", i, d, tShape[d], shape[d]))
			}
		}
	}

	outShape := shape.Clone()
	outShape[dim] = totalDim

	result, err := tensor.NewRaw(outShape, dtype, tensors[0].Device())
	if err != nil {
		panic(fmt.Sprintf("cat: %v", err))
	}

	catBytes(tensors, result, dim, cpu.parallel)
	return result
}

// catBytes interleaves contiguous blocks: for every index over the dimensions
// before dim, each input contributes one block of shape[dim:] elements.
func catBytes(tensors []*tensor.RawTensor, result *tensor.RawTensor, dim int, cfg parallel.Config) {
	outShape := result.Shape()
	elemSize := result.DType().Size()

	outer := outShape[:dim].NumElements()
	blocks := make([]int, len(tensors))
	rowBytes := 0
	for i, t := range tensors {
		blocks[i] = t.Shape()[dim:].NumElements() * elemSize
		rowBytes += blocks[i]
	}

	out := result.Data()
	copyRows := func(lo, hi int) {
		for o := lo; o < hi; o++ {
			pos := o * rowBytes
			for i, t := range tensors {
				n := blocks[i]
				copy(out[pos:pos+n], t.Data()[o*n:(o+1)*n])
				pos += n
			}
		}
	}
	parallel.ForRange(outer, len(out), copyRows, cfg)
}

// Stack joins tensors of identical shape and dtype along a new dimension.
//
// Stacking along dim 0 copies each input into its own slab of the result, with
// the inputs split across goroutines. Other dims go through Unsqueeze and Cat.
//
// Example:
//
//	a, b := ... // Shape: [5, 4]
//	out := backend.Stack([]*tensor.RawTensor{a, b}, 0) // Shape: [2, 5, 4]
func (cpu *CPUBackend) Stack(tensors []*tensor.RawTensor, dim int) *tensor.RawTensor {
	if len(tensors) == 0 {
		panic("stack: at least one tensor required")
	}

	shape := tensors[0].Shape()
	dtype := tensors[0].DType()
	for i, t := range tensors {
		if !t.Shape().Equal(shape) {
			panic(fmt.Sprintf("stack: tensor %d has shape %v, expected %v", i, t.Shape(), shape))
		}
		if t.DType() != dtype {
			panic(fmt.Sprintf("stack: tensor %d has dtype %s, expected %s", i, t.DType(), dtype))
		}
	}

	ndim := len(shape)
	if dim < 0 {
		dim = ndim + 1 + dim
	}
	if dim < 0 || dim > ndim {
		panic(fmt.Sprintf("stack: dimension %d out of range for %dD tensor (valid: [0, %d])", dim, ndim, ndim))
	}

	if dim == 0 {
		result, err := tensor.NewRaw(shape.Prepend(len(tensors)), dtype, tensors[0].Device())
		if err != nil {
			panic(fmt.Sprintf("stack: %v", err))
		}
		stackBytes(tensors, result, cpu.parallel)
		return result
	}

	expanded := make([]*tensor.RawTensor, len(tensors))
	for i, t := range tensors {
		expanded[i] = cpu.Unsqueeze(t, dim)
	}
	result := cpu.Cat(expanded, dim)
	for _, t := range expanded {
		t.Release()
	}
	return result
}

// stackBytes copies input i into the i-th slab of result and returns the number
// of ranges the copy was split into.
func stackBytes(tensors []*tensor.RawTensor, result *tensor.RawTensor, cfg parallel.Config) int {
	out := result.Data()
	slab := len(out) / len(tensors)
	copySlabs := func(lo, hi int) {
		for i := lo; i < hi; i++ {
			copy(out[i*slab:(i+1)*slab], tensors[i].Data())
		}
	}
	return parallel.ForRange(len(tensors), len(out), copySlabs, cfg)
}

// Unsqueeze adds a dimension of size 1 at the specified position.
//
// Supports negative dim indexing. This is a view operation.
//
// Example:
//
//	y := backend.Unsqueeze(x, 0) // [5, 4] -> [1, 5, 4]
func (cpu *CPUBackend) Unsqueeze(x *tensor.RawTensor, dim int) *tensor.RawTensor {
	shape := x.Shape()
	ndim := len(shape)

	// For unsqueeze, valid range is [0, ndim].
	if dim < 0 {
		dim = ndim + 1 + dim
	}
	if dim < 0 || dim > ndim {
		panic(fmt.Sprintf("unsqueeze: dimension %d out of range for %dD tensor (valid: [0, %d])", dim, ndim, ndim))
	}

	newShape := make(tensor.Shape, 0, ndim+1)
	newShape = append(newShape, shape[:dim]...)
	newShape = append(newShape, 1)
	newShape = append(newShape, shape[dim:]...)

	return cpu.Reshape(x, newShape)
}
