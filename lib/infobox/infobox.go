// Package infobox extracts the key/value summary table of a wiki article
// into a rectangular grid, resolving rowspan and colspan.
package infobox

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"

	"launchboard/lib/htmlutil"

	"github.com/PuerkitoBio/goquery"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

var tracer = otel.Tracer("launchboard.lib.infobox")

// DefaultSelector matches the product infobox of a wikipedia article.
const DefaultSelector = "table.infobox.hproduct"

var (
	ErrNotFound = errors.New("no matching infobox table")
	ErrParse    = errors.New("failed to parse html document")
)

// Table is the extracted infobox: the first grid row is the header.
type Table struct {
	Header []string
	Rows   [][]string
}

// Normalized returns a copy with whitespace collapsed in every cell.
func (t Table) Normalized() Table {
	out := Table{
		Header: make([]string, len(t.Header)),
		Rows:   make([][]string, len(t.Rows)),
	}
	for i, h := range t.Header {
		out.Header[i] = htmlutil.NormalizeText(h)
	}
	for i, row := range t.Rows {
		out.Rows[i] = make([]string, len(row))
		for j, cell := range row {
			out.Rows[i][j] = htmlutil.NormalizeText(cell)
		}
	}
	return out
}

// ExtractTable extracts the first table matching DefaultSelector.
func ExtractTable(ctx context.Context, r io.Reader) (Table, error) {
	return ExtractTableMatching(ctx, r, DefaultSelector)
}

// ExtractTableMatching extracts the first table matching `selector`, any
// other match is ignored.
func ExtractTableMatching(ctx context.Context, r io.Reader, selector string) (Table, error) {
	ctx, span := tracer.Start(ctx, "ExtractTable")
	defer span.End()
	span.SetAttributes(attribute.String("selector", selector))

	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to parse html")
		return Table{}, fmt.Errorf("%w: %w", ErrParse, err)
	}

	tables := doc.Find(selector)
	if tables.Length() == 0 {
		span.SetStatus(codes.Error, "infobox not found")
		return Table{}, fmt.Errorf("%w: %s", ErrNotFound, selector)
	}
	if tables.Length() > 1 {
		slog.DebugContext(ctx, "ignoring extra infobox tables", "count", tables.Length())
	}

	grid := FillGrid(ctx, tables.First())
	span.SetAttributes(
		attribute.Int("rows", grid.Rows()),
		attribute.Int("cols", grid.Cols()),
	)
	return gridToTable(grid), nil
}

// largest spans browsers honor
const (
	maxColspan = 1000
	maxRowspan = 65534
)

// parseSpan reads a colspan/rowspan attribute, anything that is not a
// positive integer counts as 1 and spans are capped at `limit`.
func parseSpan(ctx context.Context, cell *goquery.Selection, name string, limit int) int {
	raw, ok := cell.Attr(name)
	if !ok {
		return 1
	}
	span, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || span < 1 {
		slog.DebugContext(ctx, "malformed span attribute, using 1", "attr", name, "value", raw)
		return 1
	}
	if span > limit {
		slog.DebugContext(ctx, "span attribute too large, capping", "attr", name, "value", raw, "limit", limit)
		return limit
	}
	return span
}

// FillGrid lays the cells of `table` out on a grid as wide as its widest row.
//
// Each cell starts at its position in the source row, shifted right past
// slots already claimed by rowspans from earlier rows, and its text is
// appended to every slot it covers. Rowspans stop at the last row and
// colspans running past the last column land in the last column.
func FillGrid(ctx context.Context, table *goquery.Selection) *Grid {
	rows := table.Find("tr")

	ncols := 0
	rows.Each(func(_ int, row *goquery.Selection) {
		n := row.Find("th, td").Length()
		if n > ncols {
			ncols = n
		}
	})
	nrows := rows.Length()
	grid := NewGrid(nrows, ncols)
	if ncols == 0 {
		return grid
	}

	rows.Each(func(i int, row *goquery.Selection) {
		row.Find("th, td").Each(func(j int, cell *goquery.Selection) {
			text := htmlutil.GetText(cell.Get(0))
			colspan := parseSpan(ctx, cell, "colspan", maxColspan)
			rowspan := parseSpan(ctx, cell, "rowspan", maxRowspan)
			if i+rowspan > nrows {
				rowspan = nrows - i
			}

			shift := 0
			for k := 0; k < rowspan; k++ {
				for j+shift < ncols-1 && grid.claimed(i+k, j+shift) {
					shift++
				}
				start := j + shift
				inRange := min(colspan, ncols-1-start)
				for m := 0; m < inRange; m++ {
					grid.appendText(i+k, start+m, text)
				}
				// every copy from the last column on lands in the last column
				overflow := colspan - inRange
				if overflow > 0 {
					grid.appendText(i+k, ncols-1, strings.Repeat(text, overflow))
				}
			}
		})
	})

	return grid
}

func gridToTable(grid *Grid) Table {
	if grid.Rows() == 0 {
		return Table{}
	}

	table := Table{Header: grid.Row(0)}
	for i := 1; i < grid.Rows(); i++ {
		row := grid.Row(i)
		// every grid row is complete, this only guards against short rows
		if len(row) != len(table.Header) {
			continue
		}
		table.Rows = append(table.Rows, row)
	}
	return table
}
