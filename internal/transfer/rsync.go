package transfer

import (
	"context"
	"fmt"
	"strings"

	"github.com/MrSnakeDoc/armada/internal/domain"
)

// transferRsync mirrors the local tree onto the remote host: remote files
// that no longer exist locally are deleted. Version-control metadata and
// dependency directories never travel.
func (x *Executor) transferRsync(ctx context.Context, site *domain.Site) error {
	if _, err := x.exec.Run(ctx, "", "rsync", rsyncArgs(site)...); err != nil {
		return err
	}
	x.notify(site.Name, "rsync mirror complete")
	return nil
}

// rsyncArgs builds the argument vector for a mirror sync. Config values go
// in as discrete arguments, never interpolated into a shell string.
func rsyncArgs(site *domain.Site) []string {
	src := strings.TrimSuffix(site.LocalPath, "/") + "/"
	dst := fmt.Sprintf("%s@%s:%s/", site.SSHUser, site.SSHHost, strings.TrimSuffix(site.RemotePath, "/"))

	return []string{
		"-avz",
		"--delete",
		"--exclude=.git",
		"--exclude=node_modules",
		"--exclude=__pycache__",
		"--exclude=*.log",
		"-e", fmt.Sprintf("ssh -p %d", site.SSHPortOrDefault()),
		src,
		dst,
	}
}
