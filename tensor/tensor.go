// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package tensor

import (
	"github.com/born-ml/padcollate/internal/tensor"
)

// RawTensor is a reference-counted tensor buffer with shape, dtype and device.
//
// Example:
//
//	raw, _ := tensor.NewRaw(tensor.Shape{2, 3}, tensor.Float32, tensor.CPU)
//	data := raw.AsFloat32()  // Type-safe access
//	clone := raw.Clone()     // Shares buffer via reference counting
type RawTensor = tensor.RawTensor

// Shape represents the dimensions of a tensor.
type Shape = tensor.Shape

// DataType identifies the element type of a tensor.
type DataType = tensor.DataType

// Device identifies where a tensor's memory lives.
type Device = tensor.Device

// DType is the constraint for Go element types accepted by FromSlice.
type DType = tensor.DType

// Backend provides the manipulation kernels used for padding and stacking.
type Backend = tensor.Backend

// Data types.
const (
	Float32  = tensor.Float32
	Float64  = tensor.Float64
	Int32    = tensor.Int32
	Int64    = tensor.Int64
	Uint8    = tensor.Uint8
	Bool     = tensor.Bool
	Float16  = tensor.Float16
	BFloat16 = tensor.BFloat16
)

// Devices.
const (
	CPU    = tensor.CPU
	CUDA   = tensor.CUDA
	Vulkan = tensor.Vulkan
	Metal  = tensor.Metal
	WebGPU = tensor.WebGPU
)

// NewRaw allocates a zeroed tensor.
func NewRaw(shape Shape, dtype DataType, device Device) (*RawTensor, error) {
	return tensor.NewRaw(shape, dtype, device)
}

// Zeros allocates a zeroed tensor.
func Zeros(shape Shape, dtype DataType, device Device) (*RawTensor, error) {
	return tensor.Zeros(shape, dtype, device)
}

// FromSlice copies data into a new tensor of the matching dtype.
func FromSlice[T DType](data []T, shape Shape, device Device) (*RawTensor, error) {
	return tensor.FromSlice(data, shape, device)
}

// FromFloat32 creates a floating-point tensor of dtype, narrowing to half precision where needed.
func FromFloat32(data []float32, shape Shape, dtype DataType, device Device) (*RawTensor, error) {
	return tensor.FromFloat32(data, shape, dtype, device)
}

// ParseDataType looks up a data type by name, e.g. "float32" or "bf16".
func ParseDataType(name string) (DataType, bool) {
	return tensor.ParseDataType(name)
}
