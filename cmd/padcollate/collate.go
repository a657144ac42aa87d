package main

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/born-ml/padcollate/internal/collate"
	"github.com/born-ml/padcollate/internal/envconfig"
	"github.com/born-ml/padcollate/internal/loader"
	"github.com/born-ml/padcollate/internal/sample"
	"github.com/born-ml/padcollate/internal/serialization"
	"github.com/born-ml/padcollate/internal/tokenizer"
)

func newCollateCmd() *cobra.Command {
	collateCmd := &cobra.Command{
		Use:   "collate FILE.jsonl",
		Short: "Batch and zero-pad the samples of a JSON Lines file",
		Args:  cobra.ExactArgs(1),
		RunE:  CollateHandler,
	}

	collateCmd.Flags().IntP("batch-size", "b", 8, "Samples per batch")
	collateCmd.Flags().IntP("workers", "w", int(envconfig.Workers()), "Collation workers (0 = number of CPUs)") //nolint:gosec // G115: small config value.
	collateCmd.Flags().Bool("shuffle", false, "Shuffle samples before batching")
	collateCmd.Flags().Int64("seed", 0, "Shuffle seed")
	collateCmd.Flags().Bool("drop-last", false, "Drop the final batch if it is smaller than the batch size")
	collateCmd.Flags().String("tokenize", "", "Replace this top-level text field with token ids")
	collateCmd.Flags().String("encoding", tokenizer.EncodingChar, "Tokenizer for --tokenize: char or a tiktoken encoding")
	collateCmd.Flags().StringP("out", "o", "", "Write each batch as a SafeTensors file into this directory")

	return collateCmd
}

// CollateHandler reads samples, collates them in batches and reports or exports each batch.
func CollateHandler(cmd *cobra.Command, args []string) error {
	flags := cmd.Flags()
	batchSize, _ := flags.GetInt("batch-size")
	workers, _ := flags.GetInt("workers")
	shuffle, _ := flags.GetBool("shuffle")
	seed, _ := flags.GetInt64("seed")
	dropLast, _ := flags.GetBool("drop-last")
	field, _ := flags.GetString("tokenize")
	encoding, _ := flags.GetString("encoding")
	outDir, _ := flags.GetString("out")

	if batchSize <= 0 {
		return fmt.Errorf("--batch-size must be positive, got %d", batchSize)
	}

	f, err := os.Open(args[0])
	if err != nil {
		return err
	}
	samples, err := sample.ReadJSONL(f)
	_ = f.Close()
	if err != nil {
		return fmt.Errorf("%s: %w", args[0], err)
	}

	collator := collate.New(collate.Config{Logger: slog.Default()})
	cfg := loader.Config{
		BatchSize:  batchSize,
		Shuffle:    shuffle,
		Seed:       seed,
		DropLast:   dropLast,
		NumWorkers: workers,
		Prefetch:   int(envconfig.Prefetch()), //nolint:gosec // G115: small config value.
		Logger:     slog.Default(),
	}
	if field != "" {
		tok, err := tokenizer.ForEncoding(encoding, fieldTexts(samples, field))
		if err != nil {
			return err
		}
		cfg.Transform = loader.TokenizeFieldOn(field, tok, collator.Backend().Device())
		slog.Debug("tokenizing field", "field", field, "encoding", encoding, "vocab", tok.VocabSize())
	}

	if outDir != "" {
		if err := os.MkdirAll(outDir, 0o755); err != nil {
			return err
		}
	}

	l := loader.New(loader.SliceDataset(samples), collator, cfg)
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "%d samples, %d batches\n", len(samples), l.NumBatches())

	return l.Run(cmd.Context(), func(i int, batch collate.Structure) error {
		rows, err := describeBatch(batch)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "\nbatch %d\n", i)
		renderTable(out, []string{"PATH", "KIND", "DTYPE", "SHAPE"}, rows)

		if outDir == "" {
			return nil
		}
		id, err := uuid.NewV7()
		if err != nil {
			return err
		}
		path := filepath.Join(outDir, fmt.Sprintf("batch-%05d.safetensors", i))
		meta := map[string]string{
			"batch_id":    id.String(),
			"batch_index": strconv.Itoa(i),
		}
		if err := serialization.WriteBatch(path, batch, meta); err != nil {
			return fmt.Errorf("write %s: %w", path, err)
		}
		slog.Debug("wrote batch", "path", path, "batch_id", id)
		return nil
	})
}

// fieldTexts collects the top-level token values of field, used to build a char vocabulary.
func fieldTexts(samples []collate.Structure, field string) []string {
	var texts []string
	for _, s := range samples {
		m, ok := s.(*collate.Mapping)
		if !ok {
			continue
		}
		if v, ok := m.Get(field); ok {
			if leaf, ok := v.(collate.Leaf); ok && leaf.Kind() == collate.LeafToken {
				texts = append(texts, leaf.Token())
			}
		}
	}
	return texts
}
