// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package tensor provides the tensor storage types consumed and produced by the collator.
//
// # Overview
//
// A RawTensor is a contiguous row-major buffer with a shape, a data type and a
// device. Tensors share buffers through reference counting; views such as
// reshapes and unsqueezes never copy.
//
// # Basic Usage
//
//	import "github.com/born-ml/padcollate/tensor"
//
//	seq, err := tensor.FromSlice([]float32{1, 2, 3, 4, 5, 6}, tensor.Shape{3, 2}, tensor.CPU)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	half, err := tensor.FromFloat32(seq.AsFloat32(), seq.Shape(), tensor.Float16, tensor.CPU)
//
// # Supported Data Types
//
//   - float32, float64, float16, bfloat16 (floating-point)
//   - int32, int64 (signed integers)
//   - uint8 (unsigned integers)
//   - bool (validity masks)
//
// Half-precision values are stored as raw 16-bit words; use FromFloat32 and
// Float32s to convert.
package tensor
