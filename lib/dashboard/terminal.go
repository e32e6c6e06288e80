package dashboard

import (
	"fmt"
	"io"

	"launchboard/lib/render"

	"github.com/jedib0t/go-pretty/v6/text"
)

type TextOptions struct {
	// rows of the raw table, every row when <= 0
	Limit int
	// widest text bar of a chart
	BarWidth int
}

func DefaultTextOptions() TextOptions {
	return TextOptions{Limit: 20, BarWidth: 40}
}

// WriteText renders a view for a terminal.
func WriteText(w io.Writer, view View, opts TextOptions) {
	fmt.Fprintln(w, text.Bold.Sprint(view.Heading))
	fmt.Fprintln(w, view.Intro)
	for _, note := range view.Notes {
		fmt.Fprintln(w, text.Faint.Sprint(note))
	}
	fmt.Fprintln(w)

	if view.Table != nil {
		render.DataTable(w, *view.Table, view.Columns, opts.Limit).Render()
	}
	if view.Chart != nil {
		render.ChartTable(w, *view.Chart, opts.BarWidth).Render()
	}

	switch {
	case view.Infobox != nil:
		fmt.Fprintln(w)
		render.InfoboxTable(w, *view.Infobox).Render()
		fmt.Fprintln(w, text.Faint.Sprintf("Source: %s", view.Source))
	case view.InfoboxErr != nil:
		fmt.Fprintln(w)
		fmt.Fprintln(w, text.FgRed.Sprintf("infobox unavailable: %v", view.InfoboxErr))
	}
	fmt.Fprintln(w)
}
