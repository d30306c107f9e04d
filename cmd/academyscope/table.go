package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/mattn/go-runewidth"

	"academyscope/internal/model"
	"academyscope/internal/search"
)

const (
	maxCellWidth = 36
	columnGap    = "  "
)

// tableSink prints each result as an aligned text table.
type tableSink struct {
	out   io.Writer
	limit int
}

func (s *tableSink) Render(res search.Result) {
	fmt.Fprint(s.out, renderTable(res, s.limit))
}

// visibleColumns returns the shown columns in table order. Columns with no
// backing data are never printed.
func visibleColumns(vis model.Visibility) []model.Column {
	var cols []model.Column
	for _, c := range model.Columns() {
		if c.Info().Field != "" && vis.Visible(c) {
			cols = append(cols, c)
		}
	}
	return cols
}

func header(c model.Column, sort *model.Sort) string {
	h := c.String()
	if sort != nil && sort.Column == c {
		if sort.Direction == model.Ascending {
			return h + " ▲"
		}
		return h + " ▼"
	}
	return h
}

// renderTable lays out up to limit rows. Widths are measured in terminal
// cells so Turkish letters and wide runes line up.
func renderTable(res search.Result, limit int) string {
	if len(res.Rows) == 0 {
		return "No programs match the current filters.\n"
	}

	rows := res.Rows
	if limit > 0 && len(rows) > limit {
		rows = rows[:limit]
	}
	cols := visibleColumns(res.Visibility)

	heads := make([]string, len(cols))
	widths := make([]int, len(cols))
	for i, c := range cols {
		heads[i] = header(c, res.Sort)
		widths[i] = runewidth.StringWidth(heads[i])
	}
	cells := make([][]string, len(rows))
	for r, row := range rows {
		cells[r] = make([]string, len(cols))
		for i, c := range cols {
			v := runewidth.Truncate(row.Cell(c), maxCellWidth, "…")
			cells[r][i] = v
			widths[i] = max(widths[i], runewidth.StringWidth(v))
		}
	}

	var b strings.Builder
	writeLine := func(values []string) {
		parts := make([]string, len(values))
		for i, v := range values {
			if cols[i].Info().Text {
				parts[i] = runewidth.FillRight(v, widths[i])
			} else {
				parts[i] = runewidth.FillLeft(v, widths[i])
			}
		}
		b.WriteString(strings.TrimRight(strings.Join(parts, columnGap), " "))
		b.WriteByte('\n')
	}

	writeLine(heads)
	rules := make([]string, len(cols))
	for i, w := range widths {
		rules[i] = strings.Repeat("-", w)
	}
	b.WriteString(strings.Join(rules, columnGap))
	b.WriteByte('\n')
	for _, r := range cells {
		writeLine(r)
	}

	if len(rows) < len(res.Rows) {
		fmt.Fprintf(&b, "(%d of %d programs)\n", len(rows), len(res.Rows))
	} else {
		fmt.Fprintf(&b, "(%d programs)\n", len(res.Rows))
	}
	return b.String()
}
