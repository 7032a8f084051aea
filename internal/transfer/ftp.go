package transfer

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/jlaffaye/ftp"

	"github.com/MrSnakeDoc/armada/internal/domain"
	"github.com/MrSnakeDoc/armada/internal/logger"
)

const ftpDialTimeout = 30 * time.Second

// transferFTP performs a full mirror upload: every file is re-sent, no
// diffing. Directory creation errors are ignored because the directory
// usually already exists from a previous deploy.
func (x *Executor) transferFTP(ctx context.Context, site *domain.Site) error {
	addr := fmt.Sprintf("%s:%d", site.FTPHost, site.FTPPortOrDefault())

	conn, err := ftp.Dial(addr,
		ftp.DialWithContext(ctx),
		ftp.DialWithTimeout(ftpDialTimeout),
	)
	if err != nil {
		return fmt.Errorf("ftp connect to %s: %w", addr, err)
	}
	defer func() { _ = conn.Quit() }()

	if err := conn.Login(site.FTPUser, site.FTPPassword); err != nil {
		return fmt.Errorf("ftp login as %s: %w", site.FTPUser, err)
	}

	if err := conn.ChangeDir(site.RemotePath); err != nil {
		return fmt.Errorf("ftp chdir to %s: %w", site.RemotePath, err)
	}

	root := site.LocalPath
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}

		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		if rel == "." {
			return nil
		}

		// Remote side always uses forward slashes.
		remote := filepath.ToSlash(rel)

		if d.IsDir() {
			_ = conn.MakeDir(remote) // already exists on re-deploy
			return nil
		}
		if !d.Type().IsRegular() {
			return nil
		}

		f, err := os.Open(path)
		if err != nil {
			return err
		}
		storErr := conn.Stor(remote, f)
		closeErr := f.Close()
		if storErr != nil {
			return fmt.Errorf("upload %s: %w", remote, storErr)
		}
		if closeErr != nil {
			return closeErr
		}

		x.notify(site.Name, "uploaded "+remote)
		x.log.Debug("uploaded file",
			logger.String("site", site.Name),
			logger.String("file", remote))
		return nil
	})
}
