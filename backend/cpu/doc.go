// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package cpu provides the pure Go CPU backend used for padding and stacking.
//
// # Overview
//
// The backend implements tensor.Backend with:
//   - Pure Go implementation (no CGO)
//   - Byte-level concatenation that works for every dtype, including float16 and bfloat16
//   - Parallel row copies for large batches
//   - Zero-copy Reshape and Unsqueeze views
//
// # Basic Usage
//
//	import (
//	    "github.com/born-ml/padcollate/backend/cpu"
//	    "github.com/born-ml/padcollate/collate"
//	)
//
//	func main() {
//	    c := collate.New(collate.Config{Backend: cpu.New()})
//	    batch, err := c.Collate(samples)
//	}
package cpu
