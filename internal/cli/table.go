package cli

import (
	"io"

	"github.com/olekukonko/tablewriter"
	"github.com/samber/lo"
)

const contentPreviewLength = 40

func renderTable(w io.Writer, header []string, rows [][]string) error {
	table := tablewriter.NewWriter(w)
	table.Header(lo.ToAnySlice(header)...)
	for _, row := range rows {
		if err := table.Append(row); err != nil {
			return err
		}
	}
	return table.Render()
}

func preview(s string) string {
	return lo.Ellipsis(s, contentPreviewLength)
}
