package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/MrSnakeDoc/armada/internal/backup"
	"github.com/MrSnakeDoc/armada/internal/config"
	"github.com/MrSnakeDoc/armada/internal/deploy"
	"github.com/MrSnakeDoc/armada/internal/domain"
	"github.com/MrSnakeDoc/armada/internal/health"
	"github.com/MrSnakeDoc/armada/internal/logger"
	"github.com/MrSnakeDoc/armada/internal/redis"
	"github.com/MrSnakeDoc/armada/internal/runner"
	redisstore "github.com/MrSnakeDoc/armada/internal/store/redis"
	"github.com/MrSnakeDoc/armada/internal/transfer"
)

var (
	flagParallel bool
	flagWorkers  int
	flagDryRun   bool
	flagBackup   bool
)

func init() {
	deployCmd := &cobra.Command{
		Use:   "deploy [site...]",
		Short: "Deploy all sites, or only the named ones",
		RunE:  runDeploy,
	}
	deployCmd.Flags().BoolVarP(&flagParallel, "parallel", "p", false, "deploy sites concurrently")
	deployCmd.Flags().IntVarP(&flagWorkers, "workers", "w", 0, "parallel worker count (default from config)")
	deployCmd.Flags().BoolVar(&flagDryRun, "dry-run", false, "log every step without touching any host")
	deployCmd.Flags().BoolVar(&flagBackup, "backup", false, "snapshot each site's local tree before transfer")
	rootCmd.AddCommand(deployCmd)
}

func runDeploy(cmd *cobra.Command, args []string) error {
	cfg, log := loadEnv()

	sites, err := loadSites(cfg)
	if err != nil {
		return err
	}
	sites, err = selectSites(sites, args)
	if err != nil {
		return err
	}

	workers := cfg.ParallelWorkers
	if flagWorkers > 0 {
		workers = flagWorkers
	}
	opts := deploy.Options{
		Parallel:           flagParallel,
		Workers:            workers,
		Pause:              cfg.DeployPause,
		BackupBeforeDeploy: flagBackup || cfg.BackupBeforeDeploy,
	}

	exec := runner.New(cfg.CommandTimeout, log)
	checker := health.NewChecker(cfg.HealthTimeout)
	store := backup.NewStore(cfg.BackupDir, cfg.BackupKeep, log)

	var orch *deploy.Orchestrator
	if flagDryRun {
		log.Info("dry-run: no host will be modified")
		dry := &dryRun{log: log}
		orch = deploy.New(dry, dry, dry, dry, log, opts)
	} else {
		executor := transfer.NewExecutor(exec, log, func(site, event string) {
			log.Debugf("[%s] %s", site, event)
		})
		orch = deploy.New(executor, exec, checker, store, log, opts)
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	report := orch.DeployAll(ctx, sites)

	if !flagDryRun {
		writer := deploy.NewReportWriter(cfg.LogDir, log)
		if path, err := writer.Write(report); err != nil {
			log.Warn("failed to write run report", logger.Error(err))
		} else {
			log.Info("run report written", logger.String("path", path))
		}
		saveRunHistory(ctx, cfg, log, report)
	}

	if report.Failed > 0 {
		return &deployError{failed: report.Failed}
	}
	return nil
}

// saveRunHistory persists the report to Redis when configured. Failures are
// logged and ignored: history is a convenience, not part of the deploy.
func saveRunHistory(ctx context.Context, cfg *config.Config, log logger.Logger, report *domain.RunReport) {
	if !cfg.RedisEnabled() {
		return
	}
	client, err := redis.New(redis.ConnectOptions{
		Addr:           cfg.RedisAddr,
		User:           cfg.RedisUser,
		Password:       cfg.RedisPassword,
		RedisDB:        cfg.RedisDB,
		DialTimeout:    cfg.RedisDT,
		ReadTimeout:    cfg.RedisRT,
		WriteTimeout:   cfg.RedisWT,
		PoolSize:       cfg.RedisPoolSize,
		ConnectTimeout: cfg.RedisConnectTimeout,
		RetryInterval:  cfg.RedisRetryInterval,
		MaxWait:        cfg.RedisMaxWait,
		PingTimeout:    cfg.RedisPingTimeout,
		WarnThreshold:  cfg.RedisWarnThreshold,
	}, log)
	if err != nil {
		log.Warn("run history not saved", logger.Error(err))
		return
	}
	defer func() { _ = client.Close() }()

	if err := redisstore.NewStore(client).SaveRun(ctx, report); err != nil {
		log.Warn("run history not saved", logger.Error(err))
	}
}

type deployError struct {
	failed int
}

func (e *deployError) Error() string {
	if e.failed == 1 {
		return "1 site failed to deploy"
	}
	return fmt.Sprintf("%d sites failed to deploy", e.failed)
}
