package serialization

import (
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/born-ml/padcollate/internal/collate"
	"github.com/born-ml/padcollate/internal/tensor"
)

func sampleBatch(t *testing.T) collate.Structure {
	t.Helper()
	seq := func(rows int) *tensor.RawTensor {
		data := make([]float32, rows*2)
		for i := range data {
			data[i] = float32(i + 1)
		}
		raw, err := tensor.FromSlice(data, tensor.Shape{rows, 2}, tensor.CPU)
		require.NoError(t, err)
		return raw
	}
	masked := func(rows int) collate.Structure {
		m, err := collate.MaskAll(seq(rows))
		require.NoError(t, err)
		return collate.Masked(m)
	}

	batch, err := collate.Collate([]collate.Structure{
		collate.NewMapping().
			Set("id", collate.Scalar(1)).
			Set("text", collate.Token("hello")).
			Set("pose", collate.NewMapping().Set("data", masked(3))).
			Set("pair", collate.Tuple{collate.Dense(seq(1)), collate.Opaque(0.5)}),
		collate.NewMapping().
			Set("id", collate.Scalar(2)).
			Set("text", collate.Token("world")).
			Set("pose", collate.NewMapping().Set("data", masked(2))).
			Set("pair", collate.Tuple{collate.Dense(seq(2)), collate.Opaque(1.5)}),
	})
	require.NoError(t, err)
	return batch
}

func TestFlattenBatch(t *testing.T) {
	tensors, metadata, err := FlattenBatch(sampleBatch(t))
	require.NoError(t, err)

	names := make([]string, 0, len(tensors))
	for name := range tensors {
		names = append(names, name)
	}
	assert.ElementsMatch(t, []string{"id", "pose.data.data", "pose.data.mask", "pair[0]"}, names)

	assert.Equal(t, tensor.Shape{2, 3, 2}, tensors["pose.data.data"].Shape())
	assert.Equal(t, tensor.Bool, tensors["pose.data.mask"].DType())
	assert.Equal(t, tensor.Shape{2, 2, 2}, tensors["pair[0]"].Shape())

	var text []string
	require.NoError(t, json.Unmarshal([]byte(metadata["text"]), &text))
	assert.Equal(t, []string{"hello", "world"}, text)
	assert.JSONEq(t, `[0.5, 1.5]`, metadata["pair[1]"])
}

func TestFlattenBatch_RootLeaf(t *testing.T) {
	batch, err := collate.Collate([]collate.Structure{collate.Scalar(3), collate.Scalar(4)})
	require.NoError(t, err)

	tensors, _, err := FlattenBatch(batch)
	require.NoError(t, err)
	require.Contains(t, tensors, RootName)
	assert.Equal(t, []int64{3, 4}, tensors[RootName].AsInt64())
}

func TestFlattenBatch_DuplicateNames(t *testing.T) {
	one, err := tensor.FromSlice([]float32{1}, tensor.Shape{1}, tensor.CPU)
	require.NoError(t, err)
	m, err := collate.MaskAll(one)
	require.NoError(t, err)

	// "x.data" collides with the data half of masked leaf "x".
	batch := collate.NewMapping().
		Set("x", collate.Masked(m)).
		Set("x.data", collate.Dense(one))

	_, _, err = FlattenBatch(batch)
	assert.ErrorIs(t, err, ErrDuplicateName)
}

func TestFlattenBatch_RejectsSampleLeaves(t *testing.T) {
	_, _, err := FlattenBatch(collate.NewMapping().Set("s", collate.Scalar(1)))
	assert.Error(t, err)
}

func TestWriteBatch_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "batch-00000.safetensors")
	batch := sampleBatch(t)

	require.NoError(t, WriteBatch(path, batch, map[string]string{"batch_id": "abc"}))

	tensors, metadata, err := ReadSafeTensors(path)
	require.NoError(t, err)
	assert.Equal(t, "abc", metadata["batch_id"])
	assert.Contains(t, metadata, "text")
	assert.Equal(t, []int64{1, 2}, tensors["id"].AsInt64())
	assert.Equal(t, []bool{
		true, true, true, true, true, true,
		true, true, true, true, false, false,
	}, tensors["pose.data.mask"].AsBool())

	err = WriteBatch(path, batch, map[string]string{"text": "clash"})
	assert.ErrorIs(t, err, ErrDuplicateName)
}
