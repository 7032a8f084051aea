package cli

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/MrSnakeDoc/armada/internal/health"
	"github.com/MrSnakeDoc/armada/internal/logger"
	"github.com/MrSnakeDoc/armada/internal/monitor"
	"github.com/MrSnakeDoc/armada/internal/notify"
)

func init() {
	monitorCmd := &cobra.Command{
		Use:   "monitor",
		Short: "Continuously health-check every site until interrupted",
		RunE:  runMonitor,
	}
	rootCmd.AddCommand(monitorCmd)
}

func runMonitor(cmd *cobra.Command, args []string) error {
	cfg, log := loadEnv()
	sites, err := loadSites(cfg)
	if err != nil {
		return err
	}

	var notifier notify.Notifier
	if cfg.AlertWebhookURL != "" {
		notifier = notify.NewWebhookNotifier(cfg.AlertWebhookURL)
	} else {
		notifier = notify.NewLogNotifier(log)
	}

	checker := health.NewChecker(cfg.HealthTimeout)
	mon := monitor.New(sites, checker, notifier, monitor.NewState(), log, cfg.MonitorInterval)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := mon.Start(ctx); err != nil {
		return err
	}
	log.Info("monitoring started",
		logger.Int("sites", len(sites)),
		logger.Duration("interval", cfg.MonitorInterval))

	<-ctx.Done()
	mon.Stop()
	log.Info("monitoring stopped")
	return nil
}
