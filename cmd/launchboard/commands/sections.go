package commands

import (
	"launchboard/cmd/launchboard/globals"
	"launchboard/lib/dashboard"

	"github.com/spf13/cobra"
)

var (
	rawColumns    []string
	rawLimit      int
	rocket        string
	withInfobox   bool
	chartBarWidth int
)

func renderSection(cmd *cobra.Command, section dashboard.Section) error {
	ctx := cmd.Context()
	g := globals.Get(ctx)

	dataset, err := g.Dashboard.Load(ctx)
	if err != nil {
		return err
	}
	view, err := g.Dashboard.Build(ctx, dataset, section, dashboard.Options{
		Rocket:  rocket,
		Infobox: withInfobox,
		Columns: rawColumns,
	})
	if err != nil {
		return err
	}

	dashboard.WriteText(cmd.OutOrStdout(), view, dashboard.TextOptions{
		Limit:    rawLimit,
		BarWidth: chartBarWidth,
	})
	return nil
}

func sectionCmd(section dashboard.Section, short string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   string(section),
		Short: short,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return renderSection(cmd, section)
		},
	}
	cmd.Flags().IntVar(&chartBarWidth, "bar-width", dashboard.DefaultTextOptions().BarWidth, "Width of the widest chart bar, in characters.")
	return cmd
}

func init() {
	raw := sectionCmd(dashboard.SectionRaw, "Print the flattened launch table.")
	raw.Flags().StringSliceVar(&rawColumns, "columns", nil, "Columns to print, a summary of each launch when omitted.")
	raw.Flags().IntVar(&rawLimit, "limit", dashboard.DefaultTextOptions().Limit, "Maximum number of rows to print, 0 prints every row.")

	launches := sectionCmd(dashboard.SectionLaunches, "Chart a rocket's launches per year by outcome.")
	launches.Flags().StringVar(&rocket, "rocket", "", "Rocket to chart, matched loosely against the rockets in the feed.")
	launches.Flags().BoolVar(&withInfobox, "infobox", false, "Also print the rocket's wiki infobox.")

	rootCmd.AddCommand(
		raw,
		launches,
		sectionCmd(dashboard.SectionPayloads, "Chart payload mass per year by orbit."),
		sectionCmd(dashboard.SectionLandings, "Chart first stage landings per year by platform."),
		sectionCmd(dashboard.SectionReuse, "Chart launches per year by first stage reuse."),
	)
}
