package app

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/MrSnakeDoc/armada/internal/config"
	"github.com/MrSnakeDoc/armada/internal/health"
	"github.com/MrSnakeDoc/armada/internal/httpserver"
	"github.com/MrSnakeDoc/armada/internal/httpserver/deps"
	"github.com/MrSnakeDoc/armada/internal/logger"
	"github.com/MrSnakeDoc/armada/internal/monitor"
	"github.com/MrSnakeDoc/armada/internal/notify"
	"github.com/MrSnakeDoc/armada/internal/redis"
	redisstore "github.com/MrSnakeDoc/armada/internal/store/redis"
	"github.com/MrSnakeDoc/armada/internal/version"
)

// App is the long-running serve mode: the monitor sweeping every site plus
// the HTTP status API.
type App struct {
	cfg         *config.Config
	logger      logger.Logger
	server      *httpserver.Server
	redisClient *goredis.Client
	monitor     *monitor.Monitor
}

func New(cfg *config.Config) (*App, error) {
	loggerClient := logger.NewWithFile(cfg.LogLevel, cfg.PrettyLog, cfg.LogFile())

	sites, err := config.LoadSites(cfg.SitesFile)
	if err != nil {
		return nil, fmt.Errorf("failed to load sites: %w", err)
	}
	loggerClient.Infof("loaded %d sites from %s", len(sites), cfg.SitesFile)

	// Redis is optional: without it the /api/runs endpoint reports 503 and
	// deploy history lives only in the JSON report files.
	var redisClient *goredis.Client
	var history *redisstore.Store
	if cfg.RedisEnabled() {
		redisClient, err = redis.New(redis.ConnectOptions{
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
		}, loggerClient)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to redis: %w", err)
		}
		history = redisstore.NewStore(redisClient)
	} else {
		loggerClient.Info("redis not configured, run history disabled")
	}

	state := monitor.NewState()
	checker := health.NewChecker(cfg.HealthTimeout)

	var notifier notify.Notifier
	if cfg.AlertWebhookURL != "" {
		notifier = notify.NewWebhookNotifier(cfg.AlertWebhookURL)
	} else {
		notifier = notify.NewLogNotifier(loggerClient)
	}

	mon := monitor.New(sites, checker, notifier, state, loggerClient, cfg.MonitorInterval)

	d := deps.Deps{
		Logger:    loggerClient,
		StartTime: time.Now(),
		Version:   version.Version,
		Commit:    version.Commit,
		BuildDate: version.BuildDate,
		GoVersion: version.GoVersion,
		TimeNow:   time.Now,
		SitesFile: cfg.SitesFile,
		Sites:     sites,
		Monitor:   state,
		History:   history,
	}

	server := httpserver.New(cfg, loggerClient, d)

	return &App{
		cfg:         cfg,
		logger:      loggerClient,
		server:      server,
		redisClient: redisClient,
		monitor:     mon,
	}, nil
}

func (a *App) Run() error {
	a.logger.Infof("starting armada v%s on %s", version.Version, a.cfg.ListenPort)
	a.logger.Infof("armada %s (commit=%s, built=%s, go=%s)",
		version.Version, version.Commit, version.BuildDate, version.GoVersion)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := a.monitor.Start(ctx); err != nil {
		return fmt.Errorf("failed to start monitor: %w", err)
	}
	a.logger.Info("monitor started",
		logger.Duration("interval", a.cfg.MonitorInterval))

	errCh := make(chan error, 1)
	go func() {
		if err := a.server.Start(); err != nil {
			errCh <- fmt.Errorf("http server error: %w", err)
		}
	}()

	select {
	case <-ctx.Done():
		a.logger.Info("shutting down gracefully...")
	case err := <-errCh:
		return err
	}

	a.monitor.Stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.ShutdownTimeout)
	defer cancel()
	if err := a.server.Stop(shutdownCtx); err != nil {
		return fmt.Errorf("failed to stop server: %w", err)
	}

	if a.redisClient != nil {
		if err := a.redisClient.Close(); err != nil {
			a.logger.Warnf("failed to close redis: %v", err)
		}
	}

	a.logger.Info("armada stopped cleanly")
	return nil
}
