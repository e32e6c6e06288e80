package commands

import (
	"fmt"
	"sort"

	"launchboard/cmd/launchboard/globals"
	"launchboard/lib/dashboard"
	"launchboard/lib/render"

	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(infoboxCmd)
}

var infoboxCmd = &cobra.Command{
	Use:   "infobox <rocket>",
	Short: "Print the wiki infobox of one of the configured rockets.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		g := globals.Get(ctx)

		rockets := make([]string, 0, len(g.Config.Wiki.Pages))
		for name := range g.Config.Wiki.Pages {
			rockets = append(rockets, name)
		}
		sort.Strings(rockets)
		name, err := dashboard.ResolveRocket(rockets, args[0])
		if err != nil {
			return err
		}

		page := g.Config.Wiki.Pages[name]
		table, err := g.Wiki.Fetch(ctx, page)
		if err != nil {
			return fmt.Errorf("fetch infobox of %s: %w", name, err)
		}

		render.InfoboxTable(cmd.OutOrStdout(), table).Render()
		fmt.Fprintln(cmd.OutOrStdout(), "Source:", page)
		return nil
	},
}
