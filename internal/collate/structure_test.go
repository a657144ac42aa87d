package collate

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMapping_InsertionOrder(t *testing.T) {
	m := NewMapping().Set("b", Scalar(1)).Set("a", Scalar(2)).Set("c", Scalar(3))
	m.Set("b", Scalar(9))

	if diff := cmp.Diff([]string{"b", "a", "c"}, m.Keys()); diff != "" {
		t.Errorf("keys (-want +got):\n%s", diff)
	}
	v, ok := m.Get("b")
	require.True(t, ok)
	assert.Equal(t, int64(9), v.(Leaf).Scalar())
	assert.Equal(t, 3, m.Len())
}

func TestMapping_ZeroValue(t *testing.T) {
	var m Mapping
	assert.Equal(t, 0, m.Len())
	assert.Empty(t, m.Keys())
	_, ok := m.Get("x")
	assert.False(t, ok)

	m.Set("x", Token("y"))
	assert.Equal(t, []string{"x"}, m.Keys())
}

func TestStructure_String(t *testing.T) {
	s := NewMapping().
		Set("text", Token("hi")).
		Set("pair", Tuple{Scalar(3), Opaque(1.5)})
	assert.Equal(t, `{text: token("hi"), pair: (scalar(3), opaque(1.5))}`, s.String())
}

func TestLeaf_Value(t *testing.T) {
	tests := []struct {
		leaf Leaf
		want any
	}{
		{Token("a"), "a"},
		{Scalar(4), int64(4)},
		{Opaque(2.5), 2.5},
		{Tokens([]string{"x"}), []string{"x"}},
		{List([]any{1}), []any{1}},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.leaf.Value(), tt.leaf.Kind().String())
	}
}

func TestWalk_StopsOnError(t *testing.T) {
	s := Tuple{Scalar(1), Scalar(2), Scalar(3)}
	stop := errors.New("stop")

	var visited []string
	err := Walk(s, func(path string, _ Leaf) error {
		visited = append(visited, path)
		if path == "[1]" {
			return stop
		}
		return nil
	})
	assert.ErrorIs(t, err, stop)
	assert.Equal(t, []string{"[0]", "[1]"}, visited)
}

func TestWalk_RootLeafHasEmptyPath(t *testing.T) {
	var paths []string
	require.NoError(t, Walk(Token("x"), func(path string, _ Leaf) error {
		paths = append(paths, path)
		return nil
	}))
	assert.Equal(t, []string{""}, paths)
}

func TestWalk_NilStructure(t *testing.T) {
	err := Walk(Tuple{nil}, func(string, Leaf) error { return nil })
	assert.Error(t, err)
}
