package cli

import (
	"fmt"
	"io"
	"strings"

	"golang.org/x/text/width"
)

// table renders fixed-width columns. Widths are measured in terminal cells,
// so East Asian wide runes count twice.
type table struct {
	headers []string
	rows    [][]string
}

func newTable(headers ...string) *table {
	return &table{headers: headers}
}

func (t *table) add(cells ...string) {
	t.rows = append(t.rows, cells)
}

func (t *table) render(w io.Writer) error {
	widths := make([]int, len(t.headers))
	for i, h := range t.headers {
		widths[i] = displayWidth(h)
	}
	for _, row := range t.rows {
		for i, cell := range row {
			if i < len(widths) && displayWidth(cell) > widths[i] {
				widths[i] = displayWidth(cell)
			}
		}
	}

	separators := make([]string, len(widths))
	for i, n := range widths {
		separators[i] = strings.Repeat("-", n)
	}

	if err := writeRow(w, widths, t.headers); err != nil {
		return err
	}
	if err := writeRow(w, widths, separators); err != nil {
		return err
	}
	for _, row := range t.rows {
		if err := writeRow(w, widths, row); err != nil {
			return err
		}
	}
	return nil
}

func writeRow(w io.Writer, widths []int, cells []string) error {
	var b strings.Builder
	for i, n := range widths {
		cell := ""
		if i < len(cells) {
			cell = cells[i]
		}
		if i > 0 {
			b.WriteString(" | ")
		}
		b.WriteString(cell)
		if i < len(widths)-1 {
			b.WriteString(strings.Repeat(" ", n-displayWidth(cell)))
		}
	}
	_, err := fmt.Fprintln(w, b.String())
	return err
}

func displayWidth(s string) int {
	n := 0
	for _, r := range s {
		switch width.LookupRune(r).Kind() {
		case width.EastAsianWide, width.EastAsianFullwidth:
			n += 2
		default:
			n++
		}
	}
	return n
}
