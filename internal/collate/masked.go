package collate

import (
	"fmt"

	"github.com/born-ml/padcollate/internal/tensor"
)

// MaskedTensor pairs a value tensor with a boolean validity mask of identical shape.
// Padding and stacking always apply to both components together.
type MaskedTensor struct {
	Data *tensor.RawTensor
	Mask *tensor.RawTensor
}

// NewMasked pairs data with mask. The mask must be Bool, have data's shape and live
// on data's device. Failures wrap ErrTypeMismatch or ErrShapeMismatch.
func NewMasked(data, mask *tensor.RawTensor) (*MaskedTensor, error) {
	m := &MaskedTensor{Data: data, Mask: mask}
	if kind, details := m.check(); kind != nil {
		return nil, fmt.Errorf("masked tensor: %s: %w", details, kind)
	}
	return m, nil
}

// MaskAll pairs data with an all-true mask.
func MaskAll(data *tensor.RawTensor) (*MaskedTensor, error) {
	mask, err := tensor.NewRaw(data.Shape(), tensor.Bool, data.Device())
	if err != nil {
		return nil, err
	}
	valid := mask.AsBool()
	for i := range valid {
		valid[i] = true
	}
	return &MaskedTensor{Data: data, Mask: mask}, nil
}

func (m *MaskedTensor) check() (kind error, details string) {
	switch {
	case m.Data == nil || m.Mask == nil:
		return ErrTypeMismatch, "data and mask are required"
	case m.Mask.DType() != tensor.Bool:
		return ErrTypeMismatch, fmt.Sprintf("mask dtype is %s, want bool", m.Mask.DType())
	case m.Mask.Device() != m.Data.Device():
		return ErrTypeMismatch, fmt.Sprintf("mask on %s, data on %s", m.Mask.Device(), m.Data.Device())
	case !m.Mask.Shape().Equal(m.Data.Shape()):
		return ErrShapeMismatch, fmt.Sprintf("mask shape %v differs from data shape %v", m.Mask.Shape(), m.Data.Shape())
	}
	return nil, ""
}

// Len returns the sequence length (size of the leading dimension).
func (m *MaskedTensor) Len() int {
	return m.Data.Shape().Leading()
}

// String implements fmt.Stringer.
func (m *MaskedTensor) String() string {
	return m.Data.String()
}

// PadTo zero-extends data and false-extends mask along the leading dimension to length.
// Both components receive the same number of new rows.
func (m *MaskedTensor) PadTo(length int, b tensor.Backend) *MaskedTensor {
	return &MaskedTensor{
		Data: padTo(m.Data, length, b),
		Mask: padTo(m.Mask, length, b),
	}
}

// stackMasked stacks values and masks along a new leading batch axis.
func stackMasked(items []*MaskedTensor, b tensor.Backend) *MaskedTensor {
	data := make([]*tensor.RawTensor, len(items))
	mask := make([]*tensor.RawTensor, len(items))
	for i, m := range items {
		data[i] = m.Data
		mask[i] = m.Mask
	}
	return &MaskedTensor{
		Data: b.Stack(data, 0),
		Mask: b.Stack(mask, 0),
	}
}
