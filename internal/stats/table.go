package stats

import (
	"strings"

	"github.com/mattn/go-runewidth"
)

// formatTable lays out headers and rows in columns sized to their widest
// cell. Columns listed in rightAligned are padded on the left.
func formatTable(headers []string, rows [][]string, rightAligned ...int) []string {
	widths := columnWidths(append([][]string{headers}, rows...))
	if len(widths) == 0 {
		return nil
	}
	right := make([]bool, len(widths))
	for _, col := range rightAligned {
		if col >= 0 && col < len(right) {
			right[col] = true
		}
	}

	lines := make([]string, 0, len(rows)+1)
	if len(headers) > 0 {
		lines = append(lines, joinRow(headers, widths, right))
	}
	for _, row := range rows {
		lines = append(lines, joinRow(row, widths, right))
	}
	return lines
}

func columnWidths(rows [][]string) []int {
	var widths []int
	for _, row := range rows {
		for i, cell := range row {
			if i >= len(widths) {
				widths = append(widths, 0)
			}
			widths[i] = max(widths[i], runewidth.StringWidth(cell))
		}
	}
	return widths
}

func joinRow(row []string, widths []int, right []bool) string {
	cells := make([]string, len(widths))
	for i, width := range widths {
		var cell string
		if i < len(row) {
			cell = row[i]
		}
		pad := strings.Repeat(" ", max(width-runewidth.StringWidth(cell), 0))
		if right[i] {
			cells[i] = pad + cell
		} else {
			cells[i] = cell + pad
		}
	}
	return strings.Join(cells, " ")
}
