package sample

import (
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/born-ml/padcollate/internal/collate"
	"github.com/born-ml/padcollate/internal/tensor"
)

func TestDecode_Mapping(t *testing.T) {
	s, err := Decode([]byte(`{"text": "hello", "id": 7, "fps": 25.5, "ok": true, "none": null, "pair": ["a", 1]}`))
	require.NoError(t, err)

	m, ok := s.(*collate.Mapping)
	require.True(t, ok)
	if diff := cmp.Diff([]string{"text", "id", "fps", "ok", "none", "pair"}, m.Keys()); diff != "" {
		t.Errorf("key order (-want +got):\n%s", diff)
	}

	leaf := func(key string) collate.Leaf {
		v, ok := m.Get(key)
		require.True(t, ok, key)
		return v.(collate.Leaf)
	}
	assert.Equal(t, "hello", leaf("text").Token())
	assert.Equal(t, int64(7), leaf("id").Scalar())
	assert.Equal(t, collate.LeafOpaque, leaf("fps").Kind())
	assert.Equal(t, 25.5, leaf("fps").Value())
	assert.Equal(t, true, leaf("ok").Value())
	assert.Nil(t, leaf("none").Value())

	pair, _ := m.Get("pair")
	tup, ok := pair.(collate.Tuple)
	require.True(t, ok)
	require.Len(t, tup, 2)
	assert.Equal(t, collate.LeafToken, tup[0].(collate.Leaf).Kind())
	assert.Equal(t, collate.LeafScalar, tup[1].(collate.Leaf).Kind())
}

func TestDecode_DenseTensor(t *testing.T) {
	s, err := Decode([]byte(`{"$tensor": {"dtype": "float32", "shape": [2, 3], "data": [1, 2, 3, 4, 5, 6]}}`))
	require.NoError(t, err)

	leaf := s.(collate.Leaf)
	require.Equal(t, collate.LeafDense, leaf.Kind())
	assert.Equal(t, tensor.Shape{2, 3}, leaf.Tensor().Shape())
	assert.Equal(t, []float32{1, 2, 3, 4, 5, 6}, leaf.Tensor().AsFloat32())
}

func TestDecode_EmptySequence(t *testing.T) {
	s, err := Decode([]byte(`{"pose": {"$tensor": {"dtype": "float32", "shape": [0, 2], "data": [], "mask": []}}}`))
	require.NoError(t, err)

	pose, ok := s.(*collate.Mapping).Get("pose")
	require.True(t, ok)
	leaf := pose.(collate.Leaf)
	require.Equal(t, collate.LeafMasked, leaf.Kind())
	assert.Equal(t, tensor.Shape{0, 2}, leaf.Masked().Data.Shape())
	assert.Equal(t, 0, leaf.Masked().Len())
}

func TestDecode_MaskedTensor(t *testing.T) {
	s, err := Decode([]byte(`{"$tensor": {"dtype": "f16", "shape": [2], "data": [0.5, 9], "mask": [true, false]}}`))
	require.NoError(t, err)

	leaf := s.(collate.Leaf)
	require.Equal(t, collate.LeafMasked, leaf.Kind())
	m := leaf.Masked()
	assert.Equal(t, tensor.Float16, m.Data.DType())
	assert.Equal(t, []bool{true, false}, m.Mask.AsBool())

	values, err := m.Data.Float32s()
	require.NoError(t, err)
	assert.Equal(t, []float32{0.5, 9}, values)
}

func TestDecode_IntegerTensors(t *testing.T) {
	s, err := Decode([]byte(`{"$tensor": {"dtype": "uint8", "shape": [3], "data": [0, 128, 255]}}`))
	require.NoError(t, err)
	assert.Equal(t, []uint8{0, 128, 255}, s.(collate.Leaf).Tensor().AsUint8())

	s, err = Decode([]byte(`{"$tensor": {"dtype": "int64", "shape": [], "data": [42]}}`))
	require.NoError(t, err)
	assert.Equal(t, []int64{42}, s.(collate.Leaf).Tensor().AsInt64())
	assert.Empty(t, s.(collate.Leaf).Tensor().Shape())
}

func TestDecode_Errors(t *testing.T) {
	tests := map[string]string{
		"syntax":          `{"a": }`,
		"unknown dtype":   `{"$tensor": {"dtype": "complex64", "shape": [1], "data": [1]}}`,
		"data length":     `{"$tensor": {"dtype": "float32", "shape": [2, 2], "data": [1, 2, 3]}}`,
		"mask length":     `{"$tensor": {"dtype": "float32", "shape": [2], "data": [1, 2], "mask": [true]}}`,
		"bad shape":       `{"$tensor": {"dtype": "float32", "shape": [-1], "data": []}}`,
		"extra keys":      `{"$tensor": {"dtype": "float32", "shape": [1], "data": [1]}, "x": 1}`,
		"unknown field":   `{"$tensor": {"dtype": "float32", "shape": [1], "data": [1], "stride": [1]}}`,
		"uint8 overflow":  `{"$tensor": {"dtype": "uint8", "shape": [1], "data": [256]}}`,
		"nested mismatch": `{"pose": {"$tensor": {"dtype": "bool", "shape": [1], "data": [1]}}}`,
	}
	for name, doc := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := Decode([]byte(doc))
			assert.ErrorIs(t, err, ErrInvalidSample)
		})
	}

	_, err := Decode([]byte(`{"pose": {"data": {"$tensor": {"dtype": "x", "shape": [1], "data": [1]}}}}`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "pose.data")
}

func TestReadJSONL(t *testing.T) {
	input := strings.Join([]string{
		`{"id": 1, "text": "a"}`,
		``,
		`{"id": 2, "text": "b"}`,
		`   `,
		`{"id": 3, "text": "c"}`,
	}, "\n")

	samples, err := ReadJSONL(strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, samples, 3)

	batch, err := collate.Collate(samples)
	require.NoError(t, err)
	ids, _ := batch.(*collate.Mapping).Get("id")
	assert.Equal(t, []int64{1, 2, 3}, ids.(collate.Leaf).Tensor().AsInt64())
}

func TestReadJSONL_LineNumbers(t *testing.T) {
	input := "{\"id\": 1}\n\n{\"id\": }\n"

	_, err := ReadJSONL(strings.NewReader(input))
	require.Error(t, err)

	var lineErr *LineError
	require.True(t, errors.As(err, &lineErr))
	assert.Equal(t, 3, lineErr.Line)
	assert.ErrorIs(t, err, ErrInvalidSample)
}
