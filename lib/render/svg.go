package render

import (
	"fmt"
	"html"
	"io"
	"math"
	"strings"

	"launchboard/lib/aggregate"
)

// palette is assigned to series bottom to top
var palette = []string{
	"#4c72b0", "#dd8452", "#55a868", "#c44e52",
	"#8172b3", "#937860", "#da8bc3", "#8c8c8c",
}

type SvgOptions struct {
	Width  int
	Height int
	// fraction of each slot taken by its bar
	BarWidth float64
}

func DefaultSvgOptions() SvgOptions {
	return SvgOptions{Width: 720, Height: 420, BarWidth: 0.6}
}

const (
	marginLeft   = 64
	marginRight  = 16
	marginTop    = 40
	marginBottom = 56
)

// niceStep picks a tick spacing of 1, 2 or 5 times a power of ten giving
// roughly `ticks` ticks up to `top`.
func niceStep(top float64, ticks int) float64 {
	if top <= 0 {
		return 1
	}
	raw := top / float64(ticks)
	magnitude := math.Pow(10, math.Floor(math.Log10(raw)))
	for _, m := range []float64{1, 2, 5, 10} {
		if raw <= m*magnitude {
			step := m * magnitude
			if step < 1 {
				return 1
			}
			return step
		}
	}
	return 10 * magnitude
}

// WriteSvg draws the chart as an SVG document. Each series rectangle starts
// at its Bottom offset, series are drawn top first so lower layers end up
// painted last.
func WriteSvg(w io.Writer, c aggregate.Chart, opts SvgOptions) error {
	if opts.Width <= 0 || opts.Height <= 0 {
		opts = DefaultSvgOptions()
	}
	if opts.BarWidth <= 0 || opts.BarWidth > 1 {
		opts.BarWidth = 0.6
	}

	plotWidth := float64(opts.Width - marginLeft - marginRight)
	plotHeight := float64(opts.Height - marginTop - marginBottom)
	plotBottom := float64(marginTop) + plotHeight

	step := niceStep(c.Max(), 5)
	yMax := step * math.Max(1, math.Ceil(c.Max()/step))
	yScale := plotHeight / yMax

	slot := plotWidth
	if len(c.Index) > 0 {
		slot = plotWidth / float64(len(c.Index))
	}
	barWidth := slot * opts.BarWidth

	var b strings.Builder
	fmt.Fprintf(
		&b,
		`<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d" font-family="sans-serif">`+"\n",
		opts.Width, opts.Height, opts.Width, opts.Height,
	)
	fmt.Fprintf(
		&b, `<text x="%d" y="24" font-size="15" text-anchor="middle">%s</text>`+"\n",
		opts.Width/2, html.EscapeString(c.Title),
	)

	for tick := 0.0; tick <= yMax; tick += step {
		y := plotBottom - tick*yScale
		fmt.Fprintf(
			&b, `<line x1="%d" y1="%.1f" x2="%.1f" y2="%.1f" stroke="#e5e5e5"/>`+"\n",
			marginLeft, y, float64(marginLeft)+plotWidth, y,
		)
		fmt.Fprintf(
			&b, `<text x="%d" y="%.1f" font-size="7" text-anchor="end">%s</text>`+"\n",
			marginLeft-6, y+3, formatQuantity(tick),
		)
	}

	for s := len(c.Series) - 1; s >= 0; s-- {
		series := c.Series[s]
		color := palette[s%len(palette)]
		for i := range c.Index {
			if series.Values[i] == 0 {
				continue
			}
			x := float64(marginLeft) + float64(i)*slot + (slot-barWidth)/2
			y := plotBottom - series.Top(i)*yScale
			fmt.Fprintf(
				&b,
				`<rect x="%.1f" y="%.1f" width="%.1f" height="%.1f" fill="%s"><title>%s %s: %s</title></rect>`+"\n",
				x, y, barWidth, series.Values[i]*yScale, color,
				html.EscapeString(series.Name), html.EscapeString(c.Index[i]), formatQuantity(series.Values[i]),
			)
		}
	}

	for i, label := range c.Index {
		x := float64(marginLeft) + float64(i)*slot + slot/2
		fmt.Fprintf(
			&b, `<text x="%.1f" y="%.1f" font-size="7" text-anchor="middle">%s</text>`+"\n",
			x, plotBottom+14, html.EscapeString(label),
		)
	}

	fmt.Fprintf(
		&b, `<text x="%.1f" y="%d" font-size="9" text-anchor="middle">%s</text>`+"\n",
		float64(marginLeft)+plotWidth/2, opts.Height-12, html.EscapeString(c.XLabel),
	)
	fmt.Fprintf(
		&b, `<text x="14" y="%.1f" font-size="9" text-anchor="middle" transform="rotate(-90 14 %.1f)">%s</text>`+"\n",
		float64(marginTop)+plotHeight/2, float64(marginTop)+plotHeight/2, html.EscapeString(c.YLabel),
	)

	// legend in the upper left corner, top series first like the stack
	for row, s := 0, len(c.Series)-1; s >= 0; row, s = row+1, s-1 {
		y := marginTop + 4 + row*14
		fmt.Fprintf(
			&b, `<rect x="%d" y="%d" width="10" height="10" fill="%s"/>`+"\n",
			marginLeft+8, y, palette[s%len(palette)],
		)
		fmt.Fprintf(
			&b, `<text x="%d" y="%d" font-size="10">%s</text>`+"\n",
			marginLeft+22, y+9, html.EscapeString(c.Series[s].Name),
		)
	}

	b.WriteString("</svg>\n")
	_, err := io.WriteString(w, b.String())
	return err
}
