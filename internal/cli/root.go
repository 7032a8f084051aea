package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/MrSnakeDoc/armada/internal/config"
	"github.com/MrSnakeDoc/armada/internal/domain"
	"github.com/MrSnakeDoc/armada/internal/logger"
)

var (
	flagConfig   string
	flagLogLevel string
)

var rootCmd = &cobra.Command{
	Use:   "armada",
	Short: "Deploy and monitor a fleet of websites from one config file",
	Long: `Armada pushes locally built websites to their hosts over FTP, rsync or
git, runs pre/post-deploy hooks, health-checks the result, and keeps
timestamped backups for rollback.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&flagConfig, "config", "c", "", "path to the sites file (default sites.yaml or $ARMADA_SITES_FILE)")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "", "log level: debug, info, warn, error")
}

// loadEnv resolves config from environment plus flags and opens the logger.
func loadEnv() (*config.Config, logger.Logger) {
	cfg := config.Load()
	if flagConfig != "" {
		cfg.SitesFile = flagConfig
	}
	if flagLogLevel != "" {
		cfg.LogLevel = flagLogLevel
	}
	return cfg, logger.NewWithFile(cfg.LogLevel, cfg.PrettyLog, cfg.LogFile())
}

// loadSites loads the site definitions, wrapping the common error cases in
// operator-friendly messages.
func loadSites(cfg *config.Config) ([]domain.Site, error) {
	sites, err := config.LoadSites(cfg.SitesFile)
	if err != nil {
		return nil, fmt.Errorf("failed to load %s: %w", cfg.SitesFile, err)
	}
	return sites, nil
}

// selectSites filters the configured sites down to the names given on the
// command line. With no names, every site is selected.
func selectSites(sites []domain.Site, names []string) ([]domain.Site, error) {
	if len(names) == 0 {
		return sites, nil
	}
	selected := make([]domain.Site, 0, len(names))
	for _, name := range names {
		site, ok := config.FindSite(sites, name)
		if !ok {
			return nil, fmt.Errorf("unknown site: %s", name)
		}
		selected = append(selected, *site)
	}
	return selected, nil
}
