package algorithm

import (
	"bufio"
	"fmt"
	"io"
)

// Placeholder is printed for cells the fill never reached.
const Placeholder = "-"

// Dump writes the table one row per line, labelled by denomination.
// Unreached cells print as Placeholder.
func (t *Table) Dump(w io.Writer) error {
	bw := bufio.NewWriter(w)
	for i, d := range t.denominations {
		fmt.Fprintf(bw, "%3d: ", d)
		for a := 0; a < t.cols; a++ {
			if v, ok := t.Value(i, a); ok {
				fmt.Fprintf(bw, "%3d", v)
			} else {
				fmt.Fprintf(bw, "%3s", Placeholder)
			}
		}
		bw.WriteByte('\n')
	}
	bw.WriteByte('\n')
	return bw.Flush()
}

// Grid exports the table with nil for unreached cells.
func (t *Table) Grid() [][]*int {
	grid := make([][]*int, len(t.denominations))
	for i := range grid {
		row := make([]*int, t.cols)
		for a := range row {
			if v, ok := t.Value(i, a); ok {
				row[a] = &v
			}
		}
		grid[i] = row
	}
	return grid
}
