package tensor

import (
	"encoding/binary"
	"fmt"
	"math"

	bfloat16 "github.com/d4l3k/go-bfloat16"
	"github.com/x448/float16"
)

// Zeros creates a zero-filled tensor.
//
// Example:
//
//	pad, err := tensor.Zeros(tensor.Shape{2, 4}, tensor.Float32, tensor.CPU)
func Zeros(shape Shape, dtype DataType, device Device) (*RawTensor, error) {
	return NewRaw(shape, dtype, device)
}

// FromSlice creates a tensor from a Go slice.
// The slice is copied into the tensor's memory.
//
// Example:
//
//	seq, err := tensor.FromSlice([]float32{1, 2, 3, 4, 5, 6}, tensor.Shape{3, 2}, tensor.CPU)
func FromSlice[T DType](data []T, shape Shape, device Device) (*RawTensor, error) {
	if shape.NumElements() != len(data) {
		return nil, fmt.Errorf("shape %v requires %d elements, but got %d", shape, shape.NumElements(), len(data))
	}

	var dummy T
	raw, err := NewRaw(shape, inferDataType(dummy), device)
	if err != nil {
		return nil, err
	}

	copyTyped(raw, data)
	return raw, nil
}

func copyTyped[T DType](raw *RawTensor, data []T) {
	switch src := any(data).(type) {
	case []float32:
		copy(raw.AsFloat32(), src)
	case []float64:
		copy(raw.AsFloat64(), src)
	case []int32:
		copy(raw.AsInt32(), src)
	case []int64:
		copy(raw.AsInt64(), src)
	case []uint8:
		copy(raw.AsUint8(), src)
	case []bool:
		copy(raw.AsBool(), src)
	default:
		panic("unsupported type")
	}
}

// FromFloat32 creates a floating-point tensor of the given dtype from float32 values,
// narrowing to half precision where requested.
func FromFloat32(data []float32, shape Shape, dtype DataType, device Device) (*RawTensor, error) {
	if !dtype.IsFloat() {
		return nil, fmt.Errorf("from float32: dtype %s is not floating-point", dtype)
	}
	if shape.NumElements() != len(data) {
		return nil, fmt.Errorf("shape %v requires %d elements, but got %d", shape, shape.NumElements(), len(data))
	}

	raw, err := NewRaw(shape, dtype, device)
	if err != nil {
		return nil, err
	}

	switch dtype {
	case Float32:
		copy(raw.AsFloat32(), data)
	case Float64:
		dst := raw.AsFloat64()
		for i, v := range data {
			dst[i] = float64(v)
		}
	case Float16:
		dst := raw.AsFloat16()
		for i, v := range data {
			dst[i] = float16.Fromfloat32(v)
		}
	case BFloat16:
		copy(raw.Data(), bfloat16.EncodeFloat32(data))
	}
	return raw, nil
}

// Float32s returns a widened copy of a floating-point tensor's values.
func (r *RawTensor) Float32s() ([]float32, error) {
	switch r.dtype {
	case Float32:
		return append([]float32(nil), r.AsFloat32()...), nil
	case Float64:
		src := r.AsFloat64()
		out := make([]float32, len(src))
		for i, v := range src {
			out[i] = float32(v)
		}
		return out, nil
	case Float16:
		src := r.AsFloat16()
		out := make([]float32, len(src))
		for i, v := range src {
			out[i] = v.Float32()
		}
		return out, nil
	case BFloat16:
		return bfloat16.DecodeFloat32(r.Data()), nil
	default:
		return nil, fmt.Errorf("float32s: dtype %s is not floating-point", r.dtype)
	}
}

// IsZero reports whether every element of r is zero (false for Bool).
// Negative zero counts as zero for float dtypes.
func (r *RawTensor) IsZero() bool {
	data := r.Data()
	switch r.dtype {
	case Float32:
		for i := 0; i+4 <= len(data); i += 4 {
			if math.Float32frombits(binary.LittleEndian.Uint32(data[i:])) != 0 {
				return false
			}
		}
		return true
	case Float64:
		for i := 0; i+8 <= len(data); i += 8 {
			if math.Float64frombits(binary.LittleEndian.Uint64(data[i:])) != 0 {
				return false
			}
		}
		return true
	case Float16, BFloat16:
		for i := 0; i+2 <= len(data); i += 2 {
			if binary.LittleEndian.Uint16(data[i:])&0x7fff != 0 {
				return false
			}
		}
		return true
	default:
		for _, b := range data {
			if b != 0 {
				return false
			}
		}
		return true
	}
}
