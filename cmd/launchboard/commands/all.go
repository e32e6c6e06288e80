package commands

import (
	"errors"
	"fmt"
	"log/slog"

	"launchboard/cmd/launchboard/globals"
	"launchboard/lib/dashboard"

	"github.com/spf13/cobra"
)

func init() {
	allCmd.Flags().StringVar(&rocket, "rocket", "", "Rocket of the launches section.")
	allCmd.Flags().BoolVar(&withInfobox, "infobox", false, "Also print the rocket's wiki infobox.")
	allCmd.Flags().IntVar(&rawLimit, "limit", dashboard.DefaultTextOptions().Limit, "Maximum number of raw rows to print, 0 prints every row.")
	rootCmd.AddCommand(allCmd)
}

var allCmd = &cobra.Command{
	Use:   "all",
	Short: "Print every section of the dashboard.",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		g := globals.Get(ctx)

		dataset, err := g.Dashboard.Load(ctx)
		if err != nil {
			return err
		}

		opts := dashboard.TextOptions{
			Limit:    rawLimit,
			BarWidth: dashboard.DefaultTextOptions().BarWidth,
		}
		var errs []error
		for _, section := range dashboard.Sections {
			view, err := g.Dashboard.Build(ctx, dataset, section, dashboard.Options{
				Rocket:  rocket,
				Infobox: withInfobox,
			})
			if err != nil {
				slog.ErrorContext(ctx, "failed to build section", "section", section, "err", err)
				errs = append(errs, fmt.Errorf("%s: %w", section, err))
				continue
			}
			dashboard.WriteText(cmd.OutOrStdout(), view, opts)
		}
		return errors.Join(errs...)
	},
}
