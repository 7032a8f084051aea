package backup

import (
	"fmt"
	"os"

	"github.com/MrSnakeDoc/armada/internal/domain"
	"github.com/MrSnakeDoc/armada/internal/logger"
)

// Rollback restores a site's live directory from a stored backup.
type Rollback struct {
	store *Store
	log   logger.Logger
}

func NewRollback(store *Store, log logger.Logger) *Rollback {
	return &Rollback{store: store, log: log}
}

// Restore replaces sitePath with the content of the selected backup. An
// empty backupID selects the most recent one; otherwise the identifier must
// match exactly.
//
// The backup is first copied into a staging directory next to the live
// path, then the live path is removed and the staging directory renamed
// into place. That narrows the destructive window to the remove+rename
// pair; only a failure between those two steps can leave the site path
// absent.
func (r *Rollback) Restore(siteName, sitePath, backupID string) error {
	backups, err := r.store.List(siteName)
	if err != nil {
		return err
	}
	if len(backups) == 0 {
		return fmt.Errorf("%w: no backups for site %s", ErrBackupNotFound, siteName)
	}

	var chosen *domain.Backup
	if backupID == "" {
		chosen = &backups[0]
	} else {
		for i := range backups {
			if backups[i].ID == backupID {
				chosen = &backups[i]
				break
			}
		}
		if chosen == nil {
			return fmt.Errorf("%w: %s", ErrBackupNotFound, backupID)
		}
	}

	r.log.Info("rolling back",
		logger.String("site", siteName),
		logger.String("backup", chosen.ID))

	staging := sitePath + ".restore-" + chosen.ID
	if err := copyTree(chosen.Path, staging); err != nil {
		_ = os.RemoveAll(staging)
		return fmt.Errorf("rollback staging failed: %w", err)
	}

	if _, err := os.Lstat(sitePath); err == nil {
		if err := os.RemoveAll(sitePath); err != nil {
			_ = os.RemoveAll(staging)
			return fmt.Errorf("rollback failed to remove current deployment: %w", err)
		}
	}

	if err := os.Rename(staging, sitePath); err != nil {
		// Cross-device staging; fall back to a direct copy.
		if copyErr := copyTree(staging, sitePath); copyErr != nil {
			return fmt.Errorf("rollback restore failed (site path may be absent): %w", copyErr)
		}
		_ = os.RemoveAll(staging)
	}

	r.log.Info("rollback complete",
		logger.String("site", siteName),
		logger.String("backup", chosen.ID))
	return nil
}
