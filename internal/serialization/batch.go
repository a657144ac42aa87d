package serialization

import (
	"encoding/json"
	"fmt"

	"github.com/born-ml/padcollate/internal/collate"
	"github.com/born-ml/padcollate/internal/tensor"
)

// RootName names the tensor of a batch whose root is a single leaf.
const RootName = "batch"

// FlattenBatch maps every leaf of batch to SafeTensors entries.
//
// Dense leaves are stored under their path and masked leaves under "<path>.data"
// and "<path>.mask". Tokens and List leaves are JSON-encoded into the returned
// metadata under their path.
func FlattenBatch(batch collate.Structure) (map[string]*tensor.RawTensor, map[string]string, error) {
	tensors := make(map[string]*tensor.RawTensor)
	metadata := make(map[string]string)

	add := func(name string, raw *tensor.RawTensor) error {
		if _, dup := tensors[name]; dup {
			return &ValidationError{Kind: ErrDuplicateName, Tensor: name, Details: "two leaves flatten to the same name"}
		}
		if _, dup := metadata[name]; dup {
			return &ValidationError{Kind: ErrDuplicateName, Tensor: name, Details: "name already used by metadata"}
		}
		tensors[name] = raw
		return nil
	}

	err := collate.Walk(batch, func(path string, leaf collate.Leaf) error {
		if path == "" {
			path = RootName
		}
		switch leaf.Kind() {
		case collate.LeafDense:
			return add(path, leaf.Tensor())
		case collate.LeafMasked:
			m := leaf.Masked()
			if err := add(path+".data", m.Data); err != nil {
				return err
			}
			return add(path+".mask", m.Mask)
		case collate.LeafTokens, collate.LeafList:
			encoded, err := json.Marshal(leaf.Value())
			if err != nil {
				return fmt.Errorf("leaf %s: %w", path, err)
			}
			if _, dup := tensors[path]; dup {
				return &ValidationError{Kind: ErrDuplicateName, Tensor: path, Details: "name already used by a tensor"}
			}
			metadata[path] = string(encoded)
			return nil
		default:
			return fmt.Errorf("leaf %s: %s leaf is not a collated batch leaf", path, leaf.Kind())
		}
	})
	if err != nil {
		return nil, nil, err
	}
	return tensors, metadata, nil
}

// WriteBatch flattens batch and writes it to path. Entries in extra are added to
// the metadata and must not collide with leaf paths.
func WriteBatch(path string, batch collate.Structure, extra map[string]string) error {
	tensors, metadata, err := FlattenBatch(batch)
	if err != nil {
		return fmt.Errorf("flatten batch: %w", err)
	}
	for k, v := range extra {
		if _, dup := metadata[k]; dup {
			return &ValidationError{Kind: ErrDuplicateName, Tensor: k, Details: "metadata key collides with a batch leaf"}
		}
		metadata[k] = v
	}
	return WriteSafeTensors(path, tensors, metadata)
}
