package config

import (
	"os"
	"path/filepath"
	"strconv"
	"time"
)

type Config struct {
	SitesFile string // path to the sites.yaml file listing deployable sites

	LogLevel  string // "debug" | "info" | "warn" | "error"
	PrettyLog bool   // true => zap dev (color), false => zap prod (JSON)
	LogDir    string // directory for the rotating log file and run summaries

	BackupDir          string // root directory for site snapshots
	BackupKeep         int    // backups retained per site (oldest pruned first)
	BackupBeforeDeploy bool   // snapshot the local tree before each transfer

	CommandTimeout  time.Duration // hard timeout per hook command (default 300s)
	HealthTimeout   time.Duration // timeout per health probe (default 10s)
	DeployPause     time.Duration // pause between sequential site deploys (default 1s)
	ParallelWorkers int           // worker pool size for parallel runs (default 3)

	MonitorInterval time.Duration // interval between monitor sweeps
	AlertWebhookURL string        // optional webhook for down-site alerts

	// serve mode
	ListenPort      string        // ex: ":8080"
	ShutdownTimeout time.Duration // ex: 5s

	// Redis (optional; empty addr disables the run-history store)
	RedisAddr           string
	RedisUser           string
	RedisPassword       string
	RedisDB             int
	RedisDT             time.Duration // dial timeout
	RedisRT             time.Duration // read timeout
	RedisWT             time.Duration // write timeout
	RedisPoolSize       int
	RedisConnectTimeout time.Duration
	RedisRetryInterval  time.Duration
	RedisMaxWait        time.Duration
	RedisPingTimeout    time.Duration
	RedisWarnThreshold  int
}

func Load() *Config {
	return &Config{
		SitesFile: getenv("ARMADA_SITES_FILE", "sites.yaml"),

		LogLevel:  getenv("ARMADA_LOG_LEVEL", "info"),
		PrettyLog: mustBool("ARMADA_PRETTY_LOG", true),
		LogDir:    getenv("ARMADA_LOG_DIR", "logs"),

		BackupDir:          getenv("ARMADA_BACKUP_DIR", "backups"),
		BackupKeep:         getenvInt("ARMADA_BACKUP_KEEP", 5),
		BackupBeforeDeploy: mustBool("ARMADA_BACKUP_BEFORE_DEPLOY", false),

		CommandTimeout:  mustDuration("ARMADA_COMMAND_TIMEOUT", 300*time.Second),
		HealthTimeout:   mustDuration("ARMADA_HEALTH_TIMEOUT", 10*time.Second),
		DeployPause:     mustDuration("ARMADA_DEPLOY_PAUSE", time.Second),
		ParallelWorkers: getenvInt("ARMADA_PARALLEL_WORKERS", 3),

		MonitorInterval: mustDuration("ARMADA_MONITOR_INTERVAL", time.Minute),
		AlertWebhookURL: getenv("ARMADA_ALERT_WEBHOOK_URL", ""),

		ListenPort:      getenv("ARMADA_LISTEN_PORT", ":8080"),
		ShutdownTimeout: mustDuration("ARMADA_SHUTDOWN_TIMEOUT", 5*time.Second),

		RedisAddr:           getenv("ARMADA_REDIS_ADDR", ""),
		RedisUser:           getenv("ARMADA_REDIS_USERNAME", "default"),
		RedisPassword:       getenv("ARMADA_REDIS_PASSWORD", ""),
		RedisDB:             getenvInt("ARMADA_REDIS_DB", 0),
		RedisDT:             mustDuration("ARMADA_REDIS_DIAL_TIMEOUT", 5*time.Second),
		RedisRT:             mustDuration("ARMADA_REDIS_READ_TIMEOUT", 3*time.Second),
		RedisWT:             mustDuration("ARMADA_REDIS_WRITE_TIMEOUT", 3*time.Second),
		RedisPoolSize:       getenvInt("ARMADA_REDIS_POOL_SIZE", 10),
		RedisConnectTimeout: mustDuration("ARMADA_REDIS_CONNECT_TIMEOUT", 30*time.Second),
		RedisRetryInterval:  mustDuration("ARMADA_REDIS_RETRY_INTERVAL", 2*time.Second),
		RedisMaxWait:        mustDuration("ARMADA_REDIS_MAX_WAIT", 10*time.Second),
		RedisPingTimeout:    mustDuration("ARMADA_REDIS_PING_TIMEOUT", 5*time.Second),
		RedisWarnThreshold:  getenvInt("ARMADA_REDIS_WARN_THRESHOLD", 3),
	}
}

// LogFile returns the path of the rotating log file inside LogDir.
func (c *Config) LogFile() string {
	return filepath.Join(c.LogDir, "armada.log")
}

// RedisEnabled reports whether the optional Redis store is configured.
func (c *Config) RedisEnabled() bool {
	return c.RedisAddr != ""
}

// helpers
func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getenvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return def
}

func mustBool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		b, err := strconv.ParseBool(v)
		if err == nil {
			return b
		}
	}
	return def
}

func mustDuration(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}
