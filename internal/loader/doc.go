// Package loader groups dataset samples into batches and collates them on a pool of workers.
//
// A Loader walks a Dataset in batch-size chunks, optionally shuffled, applies a
// per-sample Transform and hands each chunk to a collate.Collator. Batches are
// delivered to the caller in plan order while later batches are prepared
// concurrently.
//
// Example:
//
//	ds := loader.SliceDataset(samples)
//	cfg := loader.DefaultConfig()
//	cfg.BatchSize = 16
//	cfg.Shuffle = true
//
//	l := loader.New(ds, collate.New(collate.DefaultConfig()), cfg)
//	err := l.Run(ctx, func(i int, batch collate.Structure) error {
//	    fmt.Println(i, batch)
//	    return nil
//	})
package loader
