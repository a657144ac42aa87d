package main

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/born-ml/padcollate/internal/serialization"
)

func newInspectCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "inspect FILE.safetensors",
		Short: "List the tensors and metadata of an exported batch",
		Args:  cobra.ExactArgs(1),
		RunE:  InspectHandler,
	}
}

// InspectHandler prints the header of a SafeTensors file.
func InspectHandler(cmd *cobra.Command, args []string) error {
	r, err := serialization.NewSafeTensorsReader(args[0])
	if err != nil {
		return err
	}
	defer func() {
		_ = r.Close()
	}()

	var rows [][]string
	for _, name := range r.TensorNames() {
		info, err := r.TensorInfo(name)
		if err != nil {
			return err
		}
		rows = append(rows, []string{name, string(info.DType), fmt.Sprint(info.Shape)})
	}
	out := cmd.OutOrStdout()
	renderTable(out, []string{"NAME", "DTYPE", "SHAPE"}, rows)

	metadata := r.Metadata()
	if len(metadata) == 0 {
		return nil
	}
	keys := make([]string, 0, len(metadata))
	for k := range metadata {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	rows = rows[:0]
	for _, k := range keys {
		rows = append(rows, []string{k, metadata[k]})
	}
	fmt.Fprintln(out)
	renderTable(out, []string{"KEY", "VALUE"}, rows)
	return nil
}
