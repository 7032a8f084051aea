package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/MrSnakeDoc/armada/internal/backup"
	"github.com/MrSnakeDoc/armada/internal/config"
)

func init() {
	rollbackCmd := &cobra.Command{
		Use:   "rollback <site> [backup-id]",
		Short: "Restore a site's local tree from a backup (latest if no ID given)",
		Args:  cobra.RangeArgs(1, 2),
		RunE:  runRollback,
	}
	rootCmd.AddCommand(rollbackCmd)
}

func runRollback(cmd *cobra.Command, args []string) error {
	cfg, log := loadEnv()
	sites, err := loadSites(cfg)
	if err != nil {
		return err
	}
	site, ok := config.FindSite(sites, args[0])
	if !ok {
		return fmt.Errorf("unknown site: %s", args[0])
	}

	backupID := ""
	if len(args) == 2 {
		backupID = args[1]
	}

	store := backup.NewStore(cfg.BackupDir, cfg.BackupKeep, log)
	if err := backup.NewRollback(store, log).Restore(site.Name, site.LocalPath, backupID); err != nil {
		return fmt.Errorf("rollback failed: %w", err)
	}
	fmt.Printf("restored %s\n", site.Name)
	return nil
}
