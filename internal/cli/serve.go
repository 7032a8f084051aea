package cli

import (
	"github.com/spf13/cobra"

	"github.com/MrSnakeDoc/armada/internal/app"
	"github.com/MrSnakeDoc/armada/internal/config"
)

func init() {
	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the monitor with the HTTP status API until interrupted",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.Load()
			if flagConfig != "" {
				cfg.SitesFile = flagConfig
			}
			if flagLogLevel != "" {
				cfg.LogLevel = flagLogLevel
			}
			a, err := app.New(cfg)
			if err != nil {
				return err
			}
			return a.Run()
		},
	}
	rootCmd.AddCommand(serveCmd)
}
