// Package aggregate groups launch tables into stacked bar series.
package aggregate

import (
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"launchboard/lib/flatten"
	"launchboard/lib/launchdata"
)

var ErrUnknownColumn = errors.New("unknown column")

// Series is one stacked layer. Bottom[i] is the sum of every series drawn
// below this one at Index[i].
type Series struct {
	Name   string
	Values []float64
	Bottom []float64
}

// Top returns the height reached by the series at index i.
func (s Series) Top(i int) float64 {
	return s.Bottom[i] + s.Values[i]
}

// Chart is a stacked bar chart, Series[0] is drawn at the bottom.
type Chart struct {
	Title  string
	XLabel string
	YLabel string
	Index  []string
	Series []Series
}

// Totals returns the full bar height at each index.
func (c Chart) Totals() []float64 {
	totals := make([]float64, len(c.Index))
	for _, s := range c.Series {
		for i, v := range s.Values {
			totals[i] += v
		}
	}
	return totals
}

// Max returns the tallest bar.
func (c Chart) Max() float64 {
	var tallest float64
	for _, total := range c.Totals() {
		if total > tallest {
			tallest = total
		}
	}
	return tallest
}

// pivot accumulates values keyed by (index, series).
type pivot struct {
	cells  map[string]map[string]float64
	index  map[string]struct{}
	series map[string]struct{}
}

func newPivot() pivot {
	return pivot{
		cells:  map[string]map[string]float64{},
		index:  map[string]struct{}{},
		series: map[string]struct{}{},
	}
}

func (p pivot) add(index, series string, value float64) {
	p.index[index] = struct{}{}
	p.series[series] = struct{}{}
	row, ok := p.cells[index]
	if !ok {
		row = map[string]float64{}
		p.cells[index] = row
	}
	row[series] += value
}

// labelLess orders numeric labels by value ahead of the other labels, which
// sort as strings.
func labelLess(a, b string) bool {
	x, errA := strconv.ParseFloat(a, 64)
	y, errB := strconv.ParseFloat(b, 64)
	switch {
	case errA == nil && errB == nil:
		if x != y {
			return x < y
		}
		return a < b
	case errA == nil:
		return true
	case errB == nil:
		return false
	}
	return a < b
}

func sortedSet(set map[string]struct{}) []string {
	out := make([]string, 0, len(set))
	for k := range set {
		out = append(out, k)
	}
	sort.Slice(out, func(i, j int) bool {
		return labelLess(out[i], out[j])
	})
	return out
}

func (p pivot) indexLabels() []string {
	return sortedSet(p.index)
}

func (p pivot) seriesNames() []string {
	return sortedSet(p.series)
}

// column returns the values of `series` at every index label, 0 where the
// combination never occurred.
func (p pivot) column(index []string, series string) []float64 {
	values := make([]float64, len(index))
	for i, label := range index {
		values[i] = p.cells[label][series]
	}
	return values
}

// stack computes each series' Bottom from the series before it.
func stack(series []Series, length int) {
	running := make([]float64, length)
	for i := range series {
		series[i].Bottom = make([]float64, length)
		copy(series[i].Bottom, running)
		for j, v := range series[i].Values {
			running[j] += v
		}
	}
}

func checkColumns(t launchdata.Table, cols []string) error {
	for _, c := range cols {
		if !t.HasColumn(c) {
			return fmt.Errorf("%w: %q", ErrUnknownColumn, c)
		}
	}
	return nil
}

// groupKey formats the grouping values of a row, ok is false when any of
// them is nil (such rows are not grouped).
func groupKey(row flatten.Row, cols []string) (string, bool) {
	parts := make([]string, len(cols))
	for i, c := range cols {
		v := row[c]
		if v == nil {
			return "", false
		}
		parts[i] = launchdata.FormatValue(v)
	}
	return strings.Join(parts, ", "), true
}

// StackedBar counts rows grouped by `cols`. The last column becomes the
// series, the others form the index. Missing combinations are 0 and rows
// with a nil grouping value are not counted.
func StackedBar(t launchdata.Table, cols []string, ylabel, title string) (Chart, error) {
	if len(cols) < 2 {
		return Chart{}, fmt.Errorf("stacked bar needs at least 2 grouping columns, got %d", len(cols))
	}
	err := checkColumns(t, cols)
	if err != nil {
		return Chart{}, err
	}

	indexCols := cols[:len(cols)-1]
	seriesCol := cols[len(cols)-1]

	p := newPivot()
	for _, row := range t.Rows {
		index, ok := groupKey(row, indexCols)
		if !ok {
			continue
		}
		series, ok := groupKey(row, []string{seriesCol})
		if !ok {
			continue
		}
		p.add(index, series, 1)
	}

	chart := Chart{
		Title:  title,
		XLabel: "Years",
		YLabel: ylabel,
		Index:  p.indexLabels(),
	}
	for _, name := range p.seriesNames() {
		chart.Series = append(chart.Series, Series{
			Name:   name,
			Values: p.column(chart.Index, name),
		})
	}
	stack(chart.Series, len(chart.Index))
	return chart, nil
}

const OthersSeries = "OTHERS"

// payloadStackOrder is the bottom to top order of the named orbits, OTHERS
// always comes first.
var payloadStackOrder = []string{"VLEO", "PO", "ISS", "GTO"}

func numeric(v any) float64 {
	switch value := v.(type) {
	case float64:
		return value
	case int:
		return float64(value)
	case int64:
		return float64(value)
	}
	return 0
}

// StackedPayloads sums payload mass per (year, orbit), `cols` being the
// year, orbit and mass columns in that order. Orbits whose total mass is at
// or below the mean total across orbits, and any orbit named OTHERS, are
// merged into OTHERS. The stack runs OTHERS, VLEO, PO, ISS, GTO from the
// bottom, followed by any other major orbit in name order.
func StackedPayloads(t launchdata.Table, cols []string) (Chart, error) {
	if len(cols) != 3 {
		return Chart{}, fmt.Errorf("stacked payloads needs year, orbit and mass columns, got %d", len(cols))
	}
	err := checkColumns(t, cols)
	if err != nil {
		return Chart{}, err
	}
	yearCol, orbitCol, massCol := cols[0], cols[1], cols[2]

	p := newPivot()
	for _, row := range t.Rows {
		year, ok := groupKey(row, []string{yearCol})
		if !ok {
			continue
		}
		orbit, ok := groupKey(row, []string{orbitCol})
		if !ok {
			continue
		}
		p.add(year, orbit, numeric(row[massCol]))
	}

	chart := Chart{
		Title:  "Payload Upmass by Orbit",
		XLabel: "Years",
		YLabel: "Payload mass (kg)",
		Index:  p.indexLabels(),
	}

	orbits := p.seriesNames()
	columns := make(map[string][]float64, len(orbits))
	totals := make(map[string]float64, len(orbits))
	var sum float64
	for _, orbit := range orbits {
		values := p.column(chart.Index, orbit)
		columns[orbit] = values
		for _, v := range values {
			totals[orbit] += v
		}
		sum += totals[orbit]
	}
	var thresh float64
	if len(orbits) > 0 {
		thresh = sum / float64(len(orbits))
	}

	others := make([]float64, len(chart.Index))
	majors := map[string]struct{}{}
	for _, orbit := range orbits {
		// an orbit literally named OTHERS always joins the synthetic series
		if totals[orbit] > thresh && orbit != OthersSeries {
			majors[orbit] = struct{}{}
			continue
		}
		for i, v := range columns[orbit] {
			others[i] += v
		}
	}

	chart.Series = append(chart.Series, Series{Name: OthersSeries, Values: others})
	for _, orbit := range payloadStackOrder {
		if _, ok := majors[orbit]; !ok {
			continue
		}
		chart.Series = append(chart.Series, Series{Name: orbit, Values: columns[orbit]})
		delete(majors, orbit)
	}
	for _, orbit := range sortedSet(majors) {
		chart.Series = append(chart.Series, Series{Name: orbit, Values: columns[orbit]})
	}

	stack(chart.Series, len(chart.Index))
	return chart, nil
}
