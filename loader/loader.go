// Package loader batches a dataset and collates the batches on a pool of workers.
//
// Example usage:
//
//	import (
//	    "github.com/born-ml/padcollate/collate"
//	    "github.com/born-ml/padcollate/loader"
//	)
//
//	cfg := loader.DefaultConfig()
//	cfg.BatchSize = 32
//	cfg.Shuffle = true
//
//	l := loader.New(loader.SliceDataset(samples), collate.New(collate.DefaultConfig()), cfg)
//	err := l.Run(ctx, func(i int, batch collate.Structure) error {
//	    return train(batch)
//	})
package loader

import (
	"github.com/born-ml/padcollate/internal/collate"
	"github.com/born-ml/padcollate/internal/loader"
	"github.com/born-ml/padcollate/internal/tensor"
	"github.com/born-ml/padcollate/internal/tokenizer"
)

// Dataset is a random-access collection of samples.
type Dataset = loader.Dataset

// SliceDataset serves samples from memory.
type SliceDataset = loader.SliceDataset

// Config controls batching and worker concurrency.
type Config = loader.Config

// Loader batches a Dataset. Each call to Run is one epoch.
type Loader = loader.Loader

// Transform rewrites one sample before collation.
type Transform = loader.Transform

// DefaultConfig returns the configuration used when fields are left zero.
func DefaultConfig() Config {
	return loader.DefaultConfig()
}

// New creates a Loader. A nil collator collates on the CPU backend.
func New(ds Dataset, collator *collate.Collator, cfg Config) *Loader {
	return loader.New(ds, collator, cfg)
}

// Chain applies transforms left to right.
func Chain(transforms ...Transform) Transform {
	return loader.Chain(transforms...)
}

// TokenizeField replaces the top-level token leaf at key with a masked sequence of token ids.
func TokenizeField(key string, tok tokenizer.Tokenizer) Transform {
	return loader.TokenizeField(key, tok)
}

// TokenizeFieldOn is TokenizeField with the token ids placed on device.
func TokenizeFieldOn(key string, tok tokenizer.Tokenizer, device tensor.Device) Transform {
	return loader.TokenizeFieldOn(key, tok, device)
}
