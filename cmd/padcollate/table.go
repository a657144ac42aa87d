package main

import (
	"fmt"
	"io"

	"github.com/olekukonko/tablewriter"

	"github.com/born-ml/padcollate/internal/collate"
)

func renderTable(w io.Writer, header []string, rows [][]string) {
	table := tablewriter.NewWriter(w)
	table.SetHeader(header)
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetAutoFormatHeaders(false)
	table.SetHeaderLine(false)
	table.SetBorder(false)
	table.SetNoWhiteSpace(true)
	table.SetTablePadding("    ")
	table.AppendBulk(rows)
	table.Render()
}

// describeBatch lists one row per leaf: path, kind, dtype and shape.
func describeBatch(batch collate.Structure) ([][]string, error) {
	var rows [][]string
	err := collate.Walk(batch, func(path string, leaf collate.Leaf) error {
		if path == "" {
			path = "<root>"
		}
		switch leaf.Kind() {
		case collate.LeafDense:
			t := leaf.Tensor()
			rows = append(rows, []string{path, leaf.Kind().String(), t.DType().String(), fmt.Sprint(t.Shape())})
		case collate.LeafMasked:
			m := leaf.Masked()
			rows = append(rows, []string{path, leaf.Kind().String(), m.Data.DType().String(), fmt.Sprint(m.Data.Shape())})
		case collate.LeafTokens:
			rows = append(rows, []string{path, leaf.Kind().String(), "-", fmt.Sprintf("[%d]", len(leaf.Tokens()))})
		case collate.LeafList:
			rows = append(rows, []string{path, leaf.Kind().String(), "-", fmt.Sprintf("[%d]", len(leaf.List()))})
		default:
			return fmt.Errorf("%s: unexpected %s leaf in batch", path, leaf.Kind())
		}
		return nil
	})
	return rows, err
}
