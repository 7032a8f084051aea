package backup

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/MrSnakeDoc/armada/internal/domain"
	"github.com/MrSnakeDoc/armada/internal/logger"
)

const (
	// DefaultKeep is the retention limit per site.
	DefaultKeep = 5

	// timestampLayout is fixed-width and zero-padded, so lexical order on
	// backup IDs of one site matches chronological order.
	timestampLayout = "20060102_150405"
)

var (
	// ErrSourceNotFound means the site path to snapshot does not exist.
	ErrSourceNotFound = errors.New("site path not found")

	// ErrBackupNotFound means no backup matched (none exist, or the
	// requested identifier is unknown).
	ErrBackupNotFound = errors.New("backup not found")
)

var timestampPattern = regexp.MustCompile(`^\d{8}_\d{6}$`)

// Store owns the backup directory tree. Backups live directly under root,
// one directory per snapshot, named <site>_<YYYYMMDD_HHMMSS>.
type Store struct {
	root string
	keep int
	log  logger.Logger
	now  func() time.Time
}

func NewStore(root string, keep int, log logger.Logger) *Store {
	if keep <= 0 {
		keep = DefaultKeep
	}
	return &Store{
		root: root,
		keep: keep,
		log:  log,
		now:  time.Now,
	}
}

// Create snapshots sitePath into a new timestamped backup directory, then
// enforces retention for the site.
func (s *Store) Create(siteName, sitePath string) (*domain.Backup, error) {
	info, err := os.Stat(sitePath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrSourceNotFound, sitePath)
		}
		return nil, fmt.Errorf("backup failed: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("backup failed: %s is not a directory", sitePath)
	}

	createdAt := s.now()
	id := siteName + "_" + createdAt.Format(timestampLayout)
	dest := filepath.Join(s.root, id)

	if err := os.MkdirAll(s.root, 0o755); err != nil {
		return nil, fmt.Errorf("backup failed: %w", err)
	}

	s.log.Info("creating backup",
		logger.String("site", siteName),
		logger.String("backup", id))

	if err := copyTree(sitePath, dest); err != nil {
		_ = os.RemoveAll(dest)
		return nil, fmt.Errorf("backup copy failed: %w", err)
	}

	if removed, err := s.Prune(siteName, s.keep); err != nil {
		s.log.Warn("backup retention pruning failed",
			logger.String("site", siteName),
			logger.Error(err))
	} else if removed > 0 {
		s.log.Info("pruned old backups",
			logger.String("site", siteName),
			logger.Int("removed", removed))
	}

	return &domain.Backup{
		ID:        id,
		SiteName:  siteName,
		Path:      dest,
		CreatedAt: createdAt,
	}, nil
}

// List returns the site's backups, most recent first. Directory names that
// carry the site prefix but not a valid timestamp are ignored.
func (s *Store) List(siteName string) ([]domain.Backup, error) {
	entries, err := os.ReadDir(s.root)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read backup dir: %w", err)
	}

	prefix := siteName + "_"
	var backups []domain.Backup
	for _, entry := range entries {
		if !entry.IsDir() || !strings.HasPrefix(entry.Name(), prefix) {
			continue
		}
		ts := strings.TrimPrefix(entry.Name(), prefix)
		if !timestampPattern.MatchString(ts) {
			continue
		}
		createdAt, err := time.ParseInLocation(timestampLayout, ts, time.Local)
		if err != nil {
			continue
		}
		backups = append(backups, domain.Backup{
			ID:        entry.Name(),
			SiteName:  siteName,
			Path:      filepath.Join(s.root, entry.Name()),
			CreatedAt: createdAt,
		})
	}

	// IDs of one site share a fixed-width prefix, so this is newest-first.
	sort.Slice(backups, func(i, j int) bool { return backups[i].ID > backups[j].ID })
	return backups, nil
}

// Prune deletes every backup for the site beyond the most recent keep,
// oldest first. It returns how many were removed.
func (s *Store) Prune(siteName string, keep int) (int, error) {
	if keep <= 0 {
		keep = s.keep
	}

	backups, err := s.List(siteName)
	if err != nil {
		return 0, err
	}
	if len(backups) <= keep {
		return 0, nil
	}

	doomed := backups[keep:]
	removed := 0
	for i := len(doomed) - 1; i >= 0; i-- {
		if err := os.RemoveAll(doomed[i].Path); err != nil {
			return removed, fmt.Errorf("failed to remove backup %s: %w", doomed[i].ID, err)
		}
		removed++
	}
	return removed, nil
}
