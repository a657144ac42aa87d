// Package cpu implements the CPU backend for tensor manipulation.
package cpu

import (
	"fmt"

	"github.com/born-ml/padcollate/internal/parallel"
	"github.com/born-ml/padcollate/internal/tensor"
)

// CPUBackend implements tensor manipulation on host memory.
type CPUBackend struct {
	device   tensor.Device
	parallel parallel.Config
}

// New creates a new CPU backend.
func New() *CPUBackend {
	return &CPUBackend{
		device:   tensor.CPU,
		parallel: parallel.DefaultConfig(),
	}
}

// NewWithConfig creates a CPU backend with explicit copy parallelism.
func NewWithConfig(cfg parallel.Config) *CPUBackend {
	return &CPUBackend{
		device:   tensor.CPU,
		parallel: cfg,
	}
}

// Name returns the backend name.
func (cpu *CPUBackend) Name() string {
	return "CPU"
}

// Device returns the compute device.
func (cpu *CPUBackend) Device() tensor.Device {
	return cpu.device
}

// Reshape returns a view of t with a new shape (zero-copy).
func (cpu *CPUBackend) Reshape(t *tensor.RawTensor, newShape tensor.Shape) *tensor.RawTensor {
	if err := newShape.Validate(); err != nil {
		panic(fmt.Sprintf("reshape: invalid shape: %v", err))
	}

	view, err := t.View(newShape)
	if err != nil {
		panic(fmt.Sprintf("reshape: incompatible shapes: %v -> %v", t.Shape(), newShape))
	}
	return view
}
