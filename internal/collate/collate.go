// Package collate turns an ordered batch of nested samples into one batched structure,
// zero-padding variable-length sequence leaves to the batch maximum and stacking them.
package collate

import (
	"fmt"
	"log/slog"

	"github.com/born-ml/padcollate/internal/backend/cpu"
	"github.com/born-ml/padcollate/internal/tensor"
)

// Config controls how batches are materialized.
type Config struct {
	Backend tensor.Backend // Kernels for concatenation and stacking. Defaults to the CPU backend.
	Logger  *slog.Logger   // Defaults to slog.Default().
}

// DefaultConfig returns a Config that collates on the CPU backend.
func DefaultConfig() Config {
	return Config{
		Backend: cpu.New(),
		Logger:  slog.Default(),
	}
}

// Collator collates batches. It holds no per-call state and is safe for concurrent use.
type Collator struct {
	backend tensor.Backend
	logger  *slog.Logger
}

// New creates a Collator, filling unset Config fields with defaults.
func New(cfg Config) *Collator {
	def := DefaultConfig()
	if cfg.Backend == nil {
		cfg.Backend = def.Backend
	}
	if cfg.Logger == nil {
		cfg.Logger = def.Logger
	}
	return &Collator{backend: cfg.Backend, logger: cfg.Logger}
}

// Backend returns the backend used for padding and stacking.
func (c *Collator) Backend() tensor.Backend {
	return c.backend
}

// Collate combines samples into a batch with the same structural shape as each sample.
//
// Mappings and tuples are rebuilt field by field; key order follows the first sample.
// Token leaves become a Tokens leaf, scalars a 1-D Int64 tensor, dense and masked
// sequences are zero-padded to the batch maximum and stacked, and anything else is
// passed through as a List. On error no batch is returned.
func (c *Collator) Collate(samples []Structure) (Structure, error) {
	if len(samples) == 0 {
		return nil, &Error{Kind: ErrEmptyBatch, Sample: -1, Details: "no samples to collate"}
	}
	return c.collate("", samples)
}

var defaultCollator = New(Config{})

// Collate collates samples with the default CPU collator.
func Collate(samples []Structure) (Structure, error) {
	return defaultCollator.Collate(samples)
}

func (c *Collator) collate(path string, samples []Structure) (Structure, error) {
	switch first := samples[0].(type) {
	case Leaf:
		leaves := make([]Leaf, len(samples))
		for i, s := range samples {
			leaf, ok := s.(Leaf)
			if !ok {
				return nil, structureErr(path, i, "%s, expected %s", nodeName(s), nodeName(first))
			}
			leaves[i] = leaf
		}
		return c.classify(path, leaves)

	case Tuple:
		for i, s := range samples {
			tup, ok := s.(Tuple)
			if !ok || len(tup) != len(first) {
				return nil, structureErr(path, i, "%s, expected %s", nodeName(s), nodeName(first))
			}
		}
		out := make(Tuple, len(first))
		column := make([]Structure, len(samples))
		for j := range first {
			for i, s := range samples {
				column[i] = s.(Tuple)[j]
			}
			batched, err := c.collate(fmt.Sprintf("%s[%d]", path, j), column)
			if err != nil {
				return nil, err
			}
			out[j] = batched
		}
		return out, nil

	case *Mapping:
		keys := first.Keys()
		for i, s := range samples {
			m, ok := s.(*Mapping)
			if !ok {
				return nil, structureErr(path, i, "%s, expected mapping", nodeName(s))
			}
			if err := sameKeys(path, i, keys, m); err != nil {
				return nil, err
			}
		}
		out := NewMapping()
		column := make([]Structure, len(samples))
		for _, key := range keys {
			for i, s := range samples {
				column[i], _ = s.(*Mapping).Get(key)
			}
			batched, err := c.collate(joinKey(path, key), column)
			if err != nil {
				return nil, err
			}
			out.Set(key, batched)
		}
		return out, nil

	default:
		return nil, structureErr(path, 0, "nil structure")
	}
}

// sameKeys checks that m exposes exactly keys, in any order.
func sameKeys(path string, sample int, keys []string, m *Mapping) error {
	for _, k := range keys {
		if _, ok := m.Get(k); !ok {
			return structureErr(path, sample, "missing key %q", k)
		}
	}
	if m.Len() != len(keys) {
		for _, k := range m.Keys() {
			if !contains(keys, k) {
				return structureErr(path, sample, "unexpected key %q", k)
			}
		}
	}
	return nil
}

func contains(keys []string, k string) bool {
	for _, key := range keys {
		if key == k {
			return true
		}
	}
	return false
}

func joinKey(path, key string) string {
	if path == "" {
		return key
	}
	return path + "." + key
}
