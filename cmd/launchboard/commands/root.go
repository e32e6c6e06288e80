package commands

import (
	"fmt"
	"path/filepath"

	"launchboard/cmd/launchboard/globals"
	"launchboard/internal/config"
	"launchboard/lib/dashboard"
	"launchboard/lib/fetch"
	"launchboard/lib/infobox"
	"launchboard/lib/restyutil"
	"launchboard/lib/serviceutil"
	"launchboard/lib/spacexapi"
	"launchboard/lib/telemetry"

	"github.com/spf13/cobra"
)

const serviceName = "launchboard"

var (
	verbose    bool
	configPath string
	tel        telemetry.Telemetry
)

var rootCmd = &cobra.Command{
	Use:   "launchboard",
	Short: "launchboard renders a dashboard of SpaceX's launch history.",
	Long: "launchboard fetches the SpaceX launch feed, reshapes it into launch, landing " +
		"and payload tables and renders them as tables and stacked bar charts, " +
		"in the terminal or over HTTP.",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		telemetry.InitSlog(verbose)

		ctx := cmd.Context()
		var err error
		tel, err = telemetry.SetupFromEnv(ctx, serviceName)
		if err != nil {
			return fmt.Errorf("setup telemetry: %w", err)
		}

		cfg, err := config.Load(configPath)
		if err != nil {
			return fmt.Errorf("read config: %w", err)
		}

		var output restyutil.InstrumentOutput
		if verbose {
			fsOutput, err := restyutil.NewFilesystemOutput(filepath.Join(".dev", "resty", serviceName))
			if err != nil {
				return err
			}
			output = fsOutput
		}

		feedHttp := fetch.NewClient("launchboard.feed", fetch.ClientOptions{
			Timeout:   cfg.Timeout(),
			UserAgent: cfg.UserAgent,
			Output:    output,
		})
		wikiHttp := fetch.NewClient("launchboard.wiki", fetch.ClientOptions{
			Timeout: cfg.Timeout(),
			Output:  output,
		})
		wiki := infobox.NewClient(wikiHttp, infobox.ClientOptions{
			BypassCloudflare: cfg.Wiki.BypassCloudflare,
		})

		cmd.SetContext(globals.Set(ctx, &globals.Value{
			Config: cfg,
			Dashboard: dashboard.New(
				spacexapi.NewClient(feedHttp),
				wiki,
				cfg.DatasetUrl,
				cfg.Wiki.Pages,
			),
			Wiki: wiki,
		}))
		return nil
	},
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		return tel.Shutdown(cmd.Context())
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging and dump http exchanges to .dev/resty.")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", config.DefaultPath, "Path to the json5 config file.")
}

func Execute() {
	err := rootCmd.ExecuteContext(serviceutil.SignalContext())
	if err != nil {
		serviceutil.Fatal("command failed", err)
	}
}
