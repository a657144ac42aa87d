// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package collate_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/born-ml/padcollate/backend/cpu"
	"github.com/born-ml/padcollate/collate"
	"github.com/born-ml/padcollate/tensor"
)

func TestPublicAPI_PadsAndStacks(t *testing.T) {
	a, err := tensor.FromSlice([]float32{1, 2}, tensor.Shape{1, 2}, tensor.CPU)
	require.NoError(t, err)
	b, err := tensor.FromSlice([]float32{3, 4, 5, 6}, tensor.Shape{2, 2}, tensor.CPU)
	require.NoError(t, err)

	c := collate.New(collate.Config{Backend: cpu.New()})
	batch, err := c.Collate([]collate.Structure{
		collate.Tuple{collate.Dense(a), collate.Token("x")},
		collate.Tuple{collate.Dense(b), collate.Token("y")},
	})
	require.NoError(t, err)

	tup := batch.(collate.Tuple)
	assert.Equal(t, []float32{1, 2, 0, 0, 3, 4, 5, 6}, tup[0].(collate.Leaf).Tensor().AsFloat32())
	assert.Equal(t, []string{"x", "y"}, tup[1].(collate.Leaf).Tokens())
}

func TestPublicAPI_Errors(t *testing.T) {
	_, err := collate.Collate(nil)
	assert.True(t, errors.Is(err, collate.ErrEmptyBatch))

	var cerr *collate.Error
	_, err = collate.Collate([]collate.Structure{collate.Scalar(1), collate.Token("a")})
	require.True(t, errors.As(err, &cerr))
	assert.Equal(t, collate.ErrTypeMismatch, cerr.Kind)
}
