// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package cpu

import (
	internalcpu "github.com/born-ml/padcollate/internal/backend/cpu"
	"github.com/born-ml/padcollate/internal/parallel"
	"github.com/born-ml/padcollate/tensor"
)

// Backend represents the CPU backend implementation.
type Backend = internalcpu.CPUBackend

// ParallelConfig controls how row copies are split across goroutines.
type ParallelConfig = parallel.Config

// Compile-time check that Backend implements tensor.Backend.
var _ tensor.Backend = (*Backend)(nil)

// New creates a CPU backend that parallelizes large copies over all CPUs.
func New() *Backend {
	return internalcpu.New()
}

// NewWithConfig creates a CPU backend with explicit parallelism settings.
//
// Example:
//
//	cfg := cpu.DefaultParallelConfig()
//	cfg.Workers = 4
//	backend := cpu.NewWithConfig(cfg)
func NewWithConfig(cfg ParallelConfig) *Backend {
	return internalcpu.NewWithConfig(cfg)
}

// DefaultParallelConfig returns the parallelism settings used by New.
func DefaultParallelConfig() ParallelConfig {
	return parallel.DefaultConfig()
}
