package transfer

import (
	"context"
	"fmt"

	"github.com/MrSnakeDoc/armada/internal/domain"
	"github.com/MrSnakeDoc/armada/internal/logger"
	"github.com/MrSnakeDoc/armada/internal/runner"
)

// TransferError wraps any transport failure. A site transfer is atomic from
// the orchestrator's point of view: either the whole operation was
// attempted or it aborted with this error.
type TransferError struct {
	Site   string
	Method domain.DeployMethod
	Err    error
}

func (e *TransferError) Error() string {
	return fmt.Sprintf("transfer failed (%s, %s): %v", e.Site, e.Method, e.Err)
}

func (e *TransferError) Unwrap() error { return e.Err }

// Observer receives purely informational progress events (uploaded files,
// completed steps). It carries no contract beyond logging.
type Observer func(site, event string)

// Executor moves a site's local tree to its host using the method selected
// by the site descriptor.
type Executor struct {
	exec     *runner.Exec
	log      logger.Logger
	observer Observer
}

func NewExecutor(exec *runner.Exec, log logger.Logger, observer Observer) *Executor {
	return &Executor{exec: exec, log: log, observer: observer}
}

// Transfer uploads the entire contents of the site's local path to its
// remote path. Any failure is returned as a *TransferError.
func (x *Executor) Transfer(ctx context.Context, site *domain.Site) error {
	var err error
	switch site.DeployMethod {
	case domain.MethodFTP:
		err = x.transferFTP(ctx, site)
	case domain.MethodSSH:
		err = x.transferRsync(ctx, site)
	case domain.MethodGit:
		err = x.transferGit(ctx, site)
	default:
		err = fmt.Errorf("unknown deploy method: %q", site.DeployMethod)
	}

	if err != nil {
		return &TransferError{Site: site.Name, Method: site.DeployMethod, Err: err}
	}
	return nil
}

func (x *Executor) notify(site, event string) {
	if x.observer != nil {
		x.observer(site, event)
	}
}
