package loader

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand"
	"runtime"
	"sync/atomic"

	"golang.org/x/sync/errgroup"

	"github.com/born-ml/padcollate/internal/collate"
)

// Config controls batching and worker concurrency.
type Config struct {
	BatchSize  int       // Samples per batch.
	Shuffle    bool      // Reorder samples every epoch.
	Seed       int64     // Shuffle seed; epoch e uses Seed+e.
	DropLast   bool      // Drop a trailing batch smaller than BatchSize.
	NumWorkers int       // Concurrent collation workers.
	Prefetch   int       // Batches prepared ahead per worker.
	Transform  Transform // Optional per-sample rewrite applied before collation.
	Logger     *slog.Logger
}

// DefaultConfig returns the configuration used when fields are left zero.
func DefaultConfig() Config {
	return Config{
		BatchSize:  1,
		NumWorkers: runtime.NumCPU(),
		Prefetch:   2,
		Logger:     slog.Default(),
	}
}

// Loader batches a Dataset. Each call to Run is one epoch.
type Loader struct {
	ds       Dataset
	collator *collate.Collator
	cfg      Config
	epoch    atomic.Int64
}

// New creates a Loader, filling unset Config fields with defaults.
func New(ds Dataset, collator *collate.Collator, cfg Config) *Loader {
	def := DefaultConfig()
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = def.BatchSize
	}
	if cfg.NumWorkers <= 0 {
		cfg.NumWorkers = def.NumWorkers
	}
	if cfg.Prefetch <= 0 {
		cfg.Prefetch = def.Prefetch
	}
	if cfg.Logger == nil {
		cfg.Logger = def.Logger
	}
	if collator == nil {
		collator = collate.New(collate.DefaultConfig())
	}
	return &Loader{ds: ds, collator: collator, cfg: cfg}
}

// Config returns the effective configuration.
func (l *Loader) Config() Config {
	return l.cfg
}

// NumBatches returns the number of batches one epoch yields.
func (l *Loader) NumBatches() int {
	n := l.ds.Len()
	if l.cfg.DropLast {
		return n / l.cfg.BatchSize
	}
	return (n + l.cfg.BatchSize - 1) / l.cfg.BatchSize
}

// plan splits the epoch's sample order into batches of indices.
func (l *Loader) plan(epoch int64) [][]int {
	order := make([]int, l.ds.Len())
	for i := range order {
		order[i] = i
	}
	if l.cfg.Shuffle {
		rng := rand.New(rand.NewSource(l.cfg.Seed + epoch)) //nolint:gosec // G404: deterministic seed for reproducible epochs
		rng.Shuffle(len(order), func(i, j int) {
			order[i], order[j] = order[j], order[i]
		})
	}

	batches := make([][]int, 0, l.NumBatches())
	for lo := 0; lo < len(order); lo += l.cfg.BatchSize {
		hi := min(lo+l.cfg.BatchSize, len(order))
		if hi-lo < l.cfg.BatchSize && l.cfg.DropLast {
			break
		}
		batches = append(batches, order[lo:hi])
	}
	return batches
}

// Batch loads, transforms and collates the samples at indices.
func (l *Loader) Batch(indices []int) (collate.Structure, error) {
	samples := make([]collate.Structure, len(indices))
	for i, idx := range indices {
		s, err := l.ds.Get(idx)
		if err != nil {
			return nil, fmt.Errorf("sample %d: %w", idx, err)
		}
		if l.cfg.Transform != nil {
			if s, err = l.cfg.Transform(s); err != nil {
				return nil, fmt.Errorf("sample %d: %w", idx, err)
			}
		}
		samples[i] = s
	}
	return l.collator.Collate(samples)
}

// Run collates one epoch and calls fn with each batch in plan order.
//
// Up to NumWorkers batches are collated concurrently and at most
// NumWorkers*Prefetch batches are in flight at once. fn runs on a single
// goroutine. The first error from a worker or from fn cancels the epoch and is
// returned; cancelling ctx stops it with ctx.Err().
func (l *Loader) Run(ctx context.Context, fn func(i int, batch collate.Structure) error) error {
	epoch := l.epoch.Add(1) - 1
	plan := l.plan(epoch)
	log := l.cfg.Logger.With("epoch", epoch)
	log.Debug("starting epoch", "batches", len(plan), "workers", l.cfg.NumWorkers)

	results := make([]chan collate.Structure, len(plan))
	for i := range results {
		results[i] = make(chan collate.Structure, 1)
	}
	slots := make(chan struct{}, l.cfg.NumWorkers*l.cfg.Prefetch)
	jobs := make(chan int)

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		defer close(jobs)
		for i := range plan {
			select {
			case slots <- struct{}{}:
			case <-ctx.Done():
				return ctx.Err()
			}
			select {
			case jobs <- i:
			case <-ctx.Done():
				return ctx.Err()
			}
		}
		return nil
	})

	for range l.cfg.NumWorkers {
		g.Go(func() error {
			for i := range jobs {
				log.Debug("collating batch", "batch", i, "samples", len(plan[i]))
				batch, err := l.Batch(plan[i])
				if err != nil {
					log.Error("batch failed", "batch", i, "error", err)
					return fmt.Errorf("batch %d: %w", i, err)
				}
				results[i] <- batch
			}
			return nil
		})
	}

	g.Go(func() error {
		for i := range plan {
			if err := ctx.Err(); err != nil {
				return err
			}
			var batch collate.Structure
			select {
			case batch = <-results[i]:
			case <-ctx.Done():
				return ctx.Err()
			}
			if err := fn(i, batch); err != nil {
				return err
			}
			<-slots
		}
		return nil
	})

	return g.Wait()
}
