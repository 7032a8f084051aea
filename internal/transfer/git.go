package transfer

import (
	"context"
	"strings"
	"time"

	"github.com/MrSnakeDoc/armada/internal/domain"
)

// transferGit stages local changes, commits with a timestamped message, and
// pushes to the configured remote/branch. Success is defined by the push
// exit status. An empty diff is a no-op, not a failure: the commit step is
// skipped and the push still runs.
func (x *Executor) transferGit(ctx context.Context, site *domain.Site) error {
	dir := site.LocalPath

	status, err := x.exec.Run(ctx, dir, "git", "status", "--porcelain")
	if err != nil {
		return err
	}

	if strings.TrimSpace(status) == "" {
		x.notify(site.Name, "working tree clean, nothing to commit")
	} else {
		if _, err := x.exec.Run(ctx, dir, "git", "add", "-A"); err != nil {
			return err
		}
		msg := "Deploy: " + time.Now().Format("2006-01-02 15:04:05")
		if _, err := x.exec.Run(ctx, dir, "git", "commit", "-m", msg); err != nil {
			return err
		}
		x.notify(site.Name, "committed local changes")
	}

	if _, err := x.exec.Run(ctx, dir, "git", "push", site.GitRemote, site.GitBranch); err != nil {
		return err
	}
	x.notify(site.Name, "pushed to "+site.GitRemote+"/"+site.GitBranch)
	return nil
}
