// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package collate combines a batch of nested samples into one batched structure.
//
// Each sample is a tree of mappings, tuples and leaves. Collate walks all samples
// in lockstep and rebuilds the tree with batched leaves:
//   - token leaves become a Tokens leaf holding every string unchanged
//   - scalar leaves become a 1-D int64 tensor
//   - dense sequences are zero-padded along their first dimension and stacked
//   - masked sequences pad data with zeros and mask with false, then stack both
//   - anything else is passed through as a List
//
// Example:
//
//	samples := []collate.Structure{
//	    collate.NewMapping().Set("id", collate.Scalar(1)).Set("seq", collate.Dense(a)),
//	    collate.NewMapping().Set("id", collate.Scalar(2)).Set("seq", collate.Dense(b)),
//	}
//	batch, err := collate.Collate(samples)
//	if errors.Is(err, collate.ErrShapeMismatch) {
//	    // trailing dimensions differ
//	}
package collate

import (
	"github.com/born-ml/padcollate/internal/collate"
	"github.com/born-ml/padcollate/tensor"
)

type (
	// Structure is a Leaf, a Tuple or a *Mapping.
	Structure = collate.Structure
	// Leaf is a terminal value.
	Leaf = collate.Leaf
	// LeafKind enumerates the leaf variants.
	LeafKind = collate.LeafKind
	// Tuple is an ordered, fixed-arity structure.
	Tuple = collate.Tuple
	// Mapping is a keyed structure with insertion-ordered keys.
	Mapping = collate.Mapping
	// MaskedTensor pairs a value tensor with a boolean mask of the same shape.
	MaskedTensor = collate.MaskedTensor
	// Collator collates batches with a configurable backend.
	Collator = collate.Collator
	// Config controls how batches are materialized.
	Config = collate.Config
	// Error describes where collation failed.
	Error = collate.Error
)

// Leaf kinds.
const (
	LeafToken  = collate.LeafToken
	LeafScalar = collate.LeafScalar
	LeafDense  = collate.LeafDense
	LeafMasked = collate.LeafMasked
	LeafOpaque = collate.LeafOpaque
	LeafTokens = collate.LeafTokens
	LeafList   = collate.LeafList
)

// Error kinds matched with errors.Is.
var (
	ErrEmptyBatch        = collate.ErrEmptyBatch
	ErrStructureMismatch = collate.ErrStructureMismatch
	ErrTypeMismatch      = collate.ErrTypeMismatch
	ErrShapeMismatch     = collate.ErrShapeMismatch
)

// Collate collates samples on the CPU backend.
func Collate(samples []Structure) (Structure, error) {
	return collate.Collate(samples)
}

// New creates a Collator.
func New(cfg Config) *Collator {
	return collate.New(cfg)
}

// DefaultConfig returns a Config that collates on the CPU backend.
func DefaultConfig() Config {
	return collate.DefaultConfig()
}

// Walk visits every leaf of s depth-first in structural order.
func Walk(s Structure, fn func(path string, leaf Leaf) error) error {
	return collate.Walk(s, fn)
}

// NewMapping returns an empty mapping.
func NewMapping() *Mapping { return collate.NewMapping() }

// Token makes a string leaf.
func Token(s string) Leaf { return collate.Token(s) }

// Scalar makes an integer leaf.
func Scalar(v int64) Leaf { return collate.Scalar(v) }

// Dense makes a variable-length sequence leaf.
func Dense(t *tensor.RawTensor) Leaf { return collate.Dense(t) }

// Masked makes a masked sequence leaf.
func Masked(m *MaskedTensor) Leaf { return collate.Masked(m) }

// Opaque wraps any other value.
func Opaque(v any) Leaf { return collate.Opaque(v) }

// NewMasked pairs data with a bool mask of the same shape and device.
func NewMasked(data, mask *tensor.RawTensor) (*MaskedTensor, error) {
	return collate.NewMasked(data, mask)
}

// MaskAll pairs data with an all-true mask.
func MaskAll(data *tensor.RawTensor) (*MaskedTensor, error) {
	return collate.MaskAll(data)
}
