package deploy

import (
	"context"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/MrSnakeDoc/armada/internal/domain"
	"github.com/MrSnakeDoc/armada/internal/logger"
)

// Phase names the per-site state machine states. Transitions are strictly
// ordered; the first unrecoverable error moves the site to FAILED and every
// remaining step is skipped.
type Phase string

const (
	PhasePending      Phase = "PENDING"
	PhaseValidating   Phase = "VALIDATING"
	PhasePreDeploy    Phase = "PRE_DEPLOY"
	PhaseTransferring Phase = "TRANSFERRING"
	PhasePostDeploy   Phase = "POST_DEPLOY"
	PhaseHealthCheck  Phase = "HEALTH_CHECK"
	PhaseSucceeded    Phase = "SUCCEEDED"
	PhaseFailed       Phase = "FAILED"
)

// Transferer uploads a site's local tree to its host.
type Transferer interface {
	Transfer(ctx context.Context, site *domain.Site) error
}

// HookRunner executes pre/post-deploy hook commands.
type HookRunner interface {
	RunShell(ctx context.Context, dir, command string) (string, error)
	RunRemote(ctx context.Context, site *domain.Site, command string) (string, error)
}

// HealthChecker probes a site after deployment. The result is advisory.
type HealthChecker interface {
	CheckSite(ctx context.Context, site *domain.Site) *domain.HealthResult
}

// Snapshotter captures a pre-deploy backup of the local tree.
type Snapshotter interface {
	Create(siteName, sitePath string) (*domain.Backup, error)
}

type Options struct {
	Parallel           bool
	Workers            int           // parallel worker pool size, default 3
	Pause              time.Duration // pause between sequential deploys
	BackupBeforeDeploy bool
}

// Orchestrator drives the per-site deployment lifecycle and aggregates
// results across a multi-site run.
type Orchestrator struct {
	transfer Transferer
	hooks    HookRunner
	health   HealthChecker
	backups  Snapshotter
	log      logger.Logger
	opts     Options
}

func New(transfer Transferer, hooks HookRunner, health HealthChecker, backups Snapshotter, log logger.Logger, opts Options) *Orchestrator {
	if opts.Workers <= 0 {
		opts.Workers = 3
	}
	return &Orchestrator{
		transfer: transfer,
		hooks:    hooks,
		health:   health,
		backups:  backups,
		log:      log,
		opts:     opts,
	}
}

// DeploySite runs the full state machine for one site and returns its
// Result. Site-level errors never escape as errors; they become a failed
// Result.
func (o *Orchestrator) DeploySite(ctx context.Context, site *domain.Site) domain.Result {
	start := time.Now()
	o.log.Info("deploying site",
		logger.String("site", site.Name),
		logger.String("method", string(site.DeployMethod)))

	if err := o.runSite(ctx, site); err != nil {
		o.log.Error("deployment failed",
			logger.String("site", site.Name),
			logger.Error(err))
		return domain.Result{
			Site:      site.Name,
			Status:    domain.StatusFailed,
			Error:     err.Error(),
			Timestamp: time.Now(),
		}
	}

	elapsed := time.Since(start)
	o.log.Info("site deployed",
		logger.String("site", site.Name),
		logger.Duration("elapsed", elapsed))
	return domain.Result{
		Site:      site.Name,
		Status:    domain.StatusSuccess,
		Seconds:   elapsed.Seconds(),
		Timestamp: time.Now(),
	}
}

func (o *Orchestrator) runSite(ctx context.Context, site *domain.Site) error {
	// VALIDATING
	if _, err := os.Stat(site.LocalPath); err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("local path not found: %s", site.LocalPath)
		}
		return fmt.Errorf("local path not accessible: %w", err)
	}
	if err := site.Validate(); err != nil {
		return err
	}

	if o.opts.BackupBeforeDeploy && o.backups != nil {
		if _, err := o.backups.Create(site.Name, site.LocalPath); err != nil {
			// Deploying without the rollback point the operator asked for
			// is worse than failing fast.
			return fmt.Errorf("pre-deploy backup: %w", err)
		}
	}

	// PRE_DEPLOY: local, in the site's source directory, in order.
	for _, cmd := range site.PreDeploy {
		o.log.Info("running pre-deploy hook",
			logger.String("site", site.Name),
			logger.String("cmd", cmd))
		if _, err := o.hooks.RunShell(ctx, site.LocalPath, cmd); err != nil {
			return fmt.Errorf("pre-deploy %q: %w", cmd, err)
		}
	}

	// TRANSFERRING
	if err := o.transfer.Transfer(ctx, site); err != nil {
		return err
	}

	// POST_DEPLOY: on the remote host, in order.
	for _, cmd := range site.PostDeploy {
		o.log.Info("running post-deploy hook",
			logger.String("site", site.Name),
			logger.String("cmd", cmd))
		if _, err := o.hooks.RunRemote(ctx, site, cmd); err != nil {
			return fmt.Errorf("post-deploy %q: %w", cmd, err)
		}
	}

	// HEALTH_CHECK: advisory only. A DOWN or ERROR result is logged as a
	// warning but never fails the site.
	if result := o.health.CheckSite(ctx, site); result != nil {
		switch result.Status {
		case domain.HealthUp:
			o.log.Info("health check passed",
				logger.String("site", site.Name),
				logger.Float64("response_ms", result.ResponseTimeMS))
		case domain.HealthDown:
			o.log.Warn("health check reports DOWN",
				logger.String("site", site.Name),
				logger.Int("status_code", result.StatusCode))
		default:
			o.log.Warn("health check errored",
				logger.String("site", site.Name),
				logger.String("error", result.Error))
		}
	}

	return nil
}

// DeployAll attempts every configured site. A single site's failure never
// aborts the run; the report carries one Result per site, in input order
// for sequential runs and completion order for parallel runs.
func (o *Orchestrator) DeployAll(ctx context.Context, sites []domain.Site) *domain.RunReport {
	start := time.Now()
	o.log.Infof("starting deployment of %d sites (parallel=%v)", len(sites), o.opts.Parallel)

	var results []domain.Result
	if o.opts.Parallel {
		results = o.deployParallel(ctx, sites)
	} else {
		results = o.deploySequential(ctx, sites)
	}

	report := &domain.RunReport{
		ID:        uuid.NewString(),
		Timestamp: time.Now(),
		Results:   results,
		Seconds:   time.Since(start).Seconds(),
	}
	for _, r := range results {
		if r.Status == domain.StatusSuccess {
			report.Succeeded++
		} else {
			report.Failed++
		}
	}

	o.logSummary(report)
	return report
}

func (o *Orchestrator) deploySequential(ctx context.Context, sites []domain.Site) []domain.Result {
	results := make([]domain.Result, 0, len(sites))
	for i := range sites {
		results = append(results, o.DeploySite(ctx, &sites[i]))

		// Brief pause between deployments to reduce contention on the
		// deploying host.
		if i < len(sites)-1 && o.opts.Pause > 0 {
			select {
			case <-time.After(o.opts.Pause):
			case <-ctx.Done():
				return results
			}
		}
	}
	return results
}

func (o *Orchestrator) deployParallel(ctx context.Context, sites []domain.Site) []domain.Result {
	workers := o.opts.Workers
	if workers > len(sites) {
		workers = len(sites)
	}

	jobs := make(chan *domain.Site)
	var mu sync.Mutex
	results := make([]domain.Result, 0, len(sites))

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for site := range jobs {
				result := o.DeploySite(ctx, site)
				mu.Lock()
				results = append(results, result)
				mu.Unlock()
			}
		}()
	}

	for i := range sites {
		jobs <- &sites[i]
	}
	close(jobs)
	wg.Wait()

	return results
}

func (o *Orchestrator) logSummary(report *domain.RunReport) {
	o.log.Infof("deployment summary: %d/%d succeeded, %d failed (%.2fs)",
		report.Succeeded, len(report.Results), report.Failed, report.Seconds)

	for _, r := range report.Failures() {
		o.log.Error("site failed",
			logger.String("site", r.Site),
			logger.String("error", r.Error))
	}
}
