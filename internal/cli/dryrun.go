package cli

import (
	"context"
	"time"

	"github.com/MrSnakeDoc/armada/internal/domain"
	"github.com/MrSnakeDoc/armada/internal/logger"
)

// dryRun stands in for every deploy collaborator: it logs what would happen
// and succeeds. Validation and the local path check still run for real, so a
// dry run catches config mistakes.
type dryRun struct {
	log logger.Logger
}

func (d *dryRun) Transfer(_ context.Context, site *domain.Site) error {
	d.log.Infof("[dry-run] would transfer %s via %s", site.Name, site.DeployMethod)
	return nil
}

func (d *dryRun) RunShell(_ context.Context, dir, command string) (string, error) {
	d.log.Infof("[dry-run] would run locally in %s: %s", dir, command)
	return "", nil
}

func (d *dryRun) RunRemote(_ context.Context, site *domain.Site, command string) (string, error) {
	d.log.Infof("[dry-run] would run on %s: %s", site.SSHHost, command)
	return "", nil
}

func (d *dryRun) CheckSite(_ context.Context, site *domain.Site) *domain.HealthResult {
	if site.HealthCheckURL == "" {
		return nil
	}
	d.log.Infof("[dry-run] would probe %s", site.HealthCheckURL)
	return nil
}

func (d *dryRun) Create(siteName, sitePath string) (*domain.Backup, error) {
	d.log.Infof("[dry-run] would snapshot %s from %s", siteName, sitePath)
	return &domain.Backup{SiteName: siteName, Path: sitePath, CreatedAt: time.Now()}, nil
}
