package loader

import (
	"fmt"

	"github.com/born-ml/padcollate/internal/collate"
)

// Dataset is a random-access collection of samples.
// Get must be safe for concurrent use.
type Dataset interface {
	Len() int
	Get(i int) (collate.Structure, error)
}

// SliceDataset serves samples from memory.
type SliceDataset []collate.Structure

// Len returns the number of samples.
func (s SliceDataset) Len() int { return len(s) }

// Get returns sample i.
func (s SliceDataset) Get(i int) (collate.Structure, error) {
	if i < 0 || i >= len(s) {
		return nil, fmt.Errorf("sample %d out of range [0, %d)", i, len(s))
	}
	return s[i], nil
}
