package collate

import (
	"github.com/born-ml/padcollate/internal/tensor"
)

// checkSequences validates that items can be padded together and returns the
// longest leading dimension. Only the leading dimension may differ.
func checkSequences(path string, items []*tensor.RawTensor) (int, error) {
	first := items[0]
	if first == nil {
		return 0, typeErr(path, 0, "nil tensor")
	}
	maxLen := first.Shape().Leading()

	for i, t := range items[1:] {
		i++
		if t == nil {
			return 0, typeErr(path, i, "nil tensor")
		}
		if t.DType() != first.DType() {
			return 0, typeErr(path, i, "dtype %s, expected %s", t.DType(), first.DType())
		}
		if t.Device() != first.Device() {
			return 0, typeErr(path, i, "device %s, expected %s", t.Device(), first.Device())
		}
		shape := t.Shape()
		if len(shape) != len(first.Shape()) {
			return 0, shapeErr(path, i, "rank %d, expected %d", len(shape), len(first.Shape()))
		}
		if !shape.Trailing().Equal(first.Shape().Trailing()) {
			return 0, shapeErr(path, i, "shape %v, expected [* %v]", shape, first.Shape().Trailing())
		}
		maxLen = max(maxLen, shape.Leading())
	}
	return maxLen, nil
}

// padTo appends a zero block of shape (length-l, trailing...) after t, created with
// t's dtype and on t's device. Tensors already at length pass through unchanged.
func padTo(t *tensor.RawTensor, length int, b tensor.Backend) *tensor.RawTensor {
	missing := length - t.Shape().Leading()
	if missing <= 0 {
		return t
	}

	padding, err := tensor.Zeros(t.Shape().WithLeading(missing), t.DType(), t.Device())
	if err != nil {
		panic(err) // Shape validation above should prevent this
	}
	return b.Cat([]*tensor.RawTensor{t, padding}, 0)
}

// padAndStack pads every item to the batch's maximum length and stacks them into
// (batch, maxLen, trailing...). Fixed-size (0-D) items are stacked directly.
func padAndStack(path string, items []*tensor.RawTensor, b tensor.Backend) (*tensor.RawTensor, error) {
	maxLen, err := checkSequences(path, items)
	if err != nil {
		return nil, err
	}
	if len(items[0].Shape()) == 0 {
		return b.Stack(items, 0), nil
	}

	padded := make([]*tensor.RawTensor, len(items))
	for i, t := range items {
		padded[i] = padTo(t, maxLen, b)
	}
	return b.Stack(padded, 0), nil
}

// padAndStackMasked applies padAndStack to values and masks in lockstep. Each item's
// padding amount comes from its value length, which equals its mask length.
func padAndStackMasked(path string, items []*MaskedTensor, b tensor.Backend) (*MaskedTensor, error) {
	data := make([]*tensor.RawTensor, len(items))
	for i, m := range items {
		if m == nil {
			return nil, typeErr(path, i, "nil masked tensor")
		}
		if kind, details := m.check(); kind != nil {
			return nil, &Error{Kind: kind, Path: path, Sample: i, Details: details}
		}
		data[i] = m.Data
	}

	maxLen, err := checkSequences(path, data)
	if err != nil {
		return nil, err
	}
	if len(data[0].Shape()) == 0 {
		return stackMasked(items, b), nil
	}

	padded := make([]*MaskedTensor, len(items))
	for i, m := range items {
		padded[i] = m.PadTo(maxLen, b)
	}
	return stackMasked(padded, b), nil
}
