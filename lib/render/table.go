// Package render turns tables, infoboxes and stacked charts into terminal
// text (go-pretty), HTML tables and SVG.
package render

import (
	"fmt"
	"io"
	"math"
	"strings"

	"launchboard/lib/aggregate"
	"launchboard/lib/htmlutil"
	"launchboard/lib/infobox"
	"launchboard/lib/launchdata"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
)

func NewTable(out io.Writer) table.Writer {
	t := table.NewWriter()
	t.SetStyle(table.StyleRounded)
	if out != nil {
		t.SetOutputMirror(out)
	}
	return t
}

// maxCellWidth keeps sequence cells of the raw table readable
const maxCellWidth = 48

func truncate(s string, width int) string {
	s = htmlutil.NormalizeText(s)
	if text.RuneWidthWithoutEscSequences(s) <= width {
		return s
	}
	return text.Trim(s, width-1) + "…"
}

// DataTable builds a writer over `columns` of `t` (every column when empty),
// showing at most `limit` rows (every row when limit <= 0).
func DataTable(out io.Writer, t launchdata.Table, columns []string, limit int) table.Writer {
	if len(columns) == 0 {
		columns = t.Columns
	}

	tw := NewTable(out)
	header := make(table.Row, len(columns))
	for i, c := range columns {
		header[i] = c
	}
	tw.AppendHeader(header)

	rows := t.Rows
	if limit > 0 && len(rows) > limit {
		rows = rows[:limit]
	}
	for _, row := range rows {
		r := make(table.Row, len(columns))
		for i, c := range columns {
			r[i] = truncate(launchdata.FormatValue(row[c]), maxCellWidth)
		}
		tw.AppendRow(r)
	}
	if len(rows) < t.Len() {
		tw.SetCaption("showing %d of %d rows", len(rows), t.Len())
	}
	return tw
}

// InfoboxTable builds a writer over an infobox, cells are whitespace
// normalized.
func InfoboxTable(out io.Writer, t infobox.Table) table.Writer {
	t = t.Normalized()

	tw := NewTable(out)
	header := make(table.Row, len(t.Header))
	for i, h := range t.Header {
		header[i] = h
	}
	tw.AppendHeader(header, table.RowConfig{AutoMerge: true})
	for _, row := range t.Rows {
		r := make(table.Row, len(row))
		for i, cell := range row {
			r[i] = cell
		}
		tw.AppendRow(r)
	}
	return tw
}

var barGlyphs = []rune{'█', '▓', '▒', '░', '#', '=', '+', '*'}

// glyphFor picks the glyph of the i-th series.
func glyphFor(i int) rune {
	return barGlyphs[i%len(barGlyphs)]
}

// Bar draws the stacked bar at `index` as a line of glyphs `width` runes
// long for the tallest bar of the chart. Each series occupies the runes
// between its scaled Bottom and Top.
func Bar(c aggregate.Chart, index int, width int) string {
	tallest := c.Max()
	if tallest == 0 || width <= 0 {
		return ""
	}
	scale := float64(width) / tallest

	var out strings.Builder
	drawn := 0
	for i, s := range c.Series {
		end := int(math.Round(s.Top(index) * scale))
		start := int(math.Round(s.Bottom[index] * scale))
		if start < drawn {
			start = drawn
		}
		if end > start {
			out.WriteString(strings.Repeat(string(glyphFor(i)), end-start))
			drawn = end
		}
	}
	return out.String()
}

func formatQuantity(v float64) string {
	if v == math.Trunc(v) {
		return fmt.Sprintf("%d", int64(v))
	}
	return fmt.Sprintf("%.1f", v)
}

// ChartTable builds a writer listing every series per index, the total and
// a text bar `barWidth` runes wide at most.
func ChartTable(out io.Writer, c aggregate.Chart, barWidth int) table.Writer {
	tw := NewTable(out)
	tw.SetTitle("%s", c.Title)

	header := table.Row{c.XLabel}
	legend := make([]string, len(c.Series))
	for i, s := range c.Series {
		header = append(header, s.Name)
		legend[i] = fmt.Sprintf("%c %s", glyphFor(i), s.Name)
	}
	header = append(header, "Total", c.YLabel)
	tw.AppendHeader(header)

	totals := c.Totals()
	for i, label := range c.Index {
		row := table.Row{label}
		for _, s := range c.Series {
			row = append(row, formatQuantity(s.Values[i]))
		}
		row = append(row, formatQuantity(totals[i]), Bar(c, i, barWidth))
		tw.AppendRow(row)
	}

	configs := []table.ColumnConfig{}
	for i := 2; i <= len(c.Series)+2; i++ {
		configs = append(configs, table.ColumnConfig{Number: i, Align: text.AlignRight})
	}
	tw.SetColumnConfigs(configs)
	tw.SetCaption("%s", strings.Join(legend, "  "))
	return tw
}
