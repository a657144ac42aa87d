package collate

import (
	"fmt"

	"github.com/born-ml/padcollate/internal/tensor"
)

// classify collates one leaf position. All leaves must share a kind.
func (c *Collator) classify(path string, leaves []Leaf) (Structure, error) {
	kind := leaves[0].Kind()
	for i, leaf := range leaves {
		if leaf.Kind() != kind {
			return nil, typeErr(path, i, "%s leaf, expected %s", leaf.Kind(), kind)
		}
	}

	switch kind {
	case LeafToken:
		tokens := make([]string, len(leaves))
		for i, leaf := range leaves {
			tokens[i] = leaf.Token()
		}
		return Tokens(tokens), nil

	case LeafScalar:
		values := make([]int64, len(leaves))
		for i, leaf := range leaves {
			values[i] = leaf.Scalar()
		}
		stacked, err := tensor.FromSlice(values, tensor.Shape{len(values)}, c.backend.Device())
		if err != nil {
			return nil, fmt.Errorf("collate %s: %w", path, err)
		}
		return Dense(stacked), nil

	case LeafDense:
		items := make([]*tensor.RawTensor, len(leaves))
		for i, leaf := range leaves {
			items[i] = leaf.Tensor()
		}
		stacked, err := padAndStack(path, items, c.backend)
		if err != nil {
			return nil, err
		}
		return Dense(stacked), nil

	case LeafMasked:
		items := make([]*MaskedTensor, len(leaves))
		for i, leaf := range leaves {
			items[i] = leaf.Masked()
		}
		stacked, err := padAndStackMasked(path, items, c.backend)
		if err != nil {
			return nil, err
		}
		return Masked(stacked), nil

	case LeafOpaque, LeafTokens, LeafList:
		values := make([]any, len(leaves))
		for i, leaf := range leaves {
			values[i] = leaf.Value()
		}
		c.logger.Debug("passing leaves through unmodified", "path", path, "kind", kind, "count", len(values))
		return List(values), nil

	default:
		panic(fmt.Sprintf("collate: unknown leaf kind %d", kind))
	}
}
