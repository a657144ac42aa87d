package loader

import (
	"fmt"

	"github.com/born-ml/padcollate/internal/collate"
	"github.com/born-ml/padcollate/internal/tensor"
	"github.com/born-ml/padcollate/internal/tokenizer"
)

// Transform rewrites one sample before collation. It must be safe for concurrent use.
type Transform func(collate.Structure) (collate.Structure, error)

// Chain applies transforms left to right. Nil entries are skipped.
func Chain(transforms ...Transform) Transform {
	return func(s collate.Structure) (collate.Structure, error) {
		var err error
		for _, t := range transforms {
			if t == nil {
				continue
			}
			if s, err = t(s); err != nil {
				return nil, err
			}
		}
		return s, nil
	}
}

// TokenizeField replaces the top-level token leaf at key with a masked Int32 sequence
// of token ids on the CPU. Padding added by the collator is marked invalid in the mask.
// Text that encodes to no tokens yields a zero-length sequence.
//
// The sample's other fields are shared with the result, not copied.
func TokenizeField(key string, tok tokenizer.Tokenizer) Transform {
	return TokenizeFieldOn(key, tok, tensor.CPU)
}

// TokenizeFieldOn is TokenizeField with the token ids placed on device, usually the
// device of the collator's backend.
func TokenizeFieldOn(key string, tok tokenizer.Tokenizer, device tensor.Device) Transform {
	return func(s collate.Structure) (collate.Structure, error) {
		m, ok := s.(*collate.Mapping)
		if !ok {
			return nil, fmt.Errorf("tokenize %q: sample is not a mapping", key)
		}
		v, ok := m.Get(key)
		if !ok {
			return nil, fmt.Errorf("tokenize %q: missing field", key)
		}
		leaf, ok := v.(collate.Leaf)
		if !ok || leaf.Kind() != collate.LeafToken {
			return nil, fmt.Errorf("tokenize %q: field is %v, want a token", key, v)
		}

		ids, err := tok.Encode(leaf.Token())
		if err != nil {
			return nil, fmt.Errorf("tokenize %q: %w", key, err)
		}
		raw, err := tensor.FromSlice(ids, tensor.Shape{len(ids)}, device)
		if err != nil {
			return nil, fmt.Errorf("tokenize %q: %w", key, err)
		}
		masked, err := collate.MaskAll(raw)
		if err != nil {
			return nil, fmt.Errorf("tokenize %q: %w", key, err)
		}

		out := collate.NewMapping()
		for _, k := range m.Keys() {
			field, _ := m.Get(k)
			if k == key {
				field = collate.Masked(masked)
			}
			out.Set(k, field)
		}
		return out, nil
	}
}
