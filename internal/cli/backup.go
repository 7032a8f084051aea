package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/MrSnakeDoc/armada/internal/backup"
	"github.com/MrSnakeDoc/armada/internal/config"
)

func init() {
	backupCmd := &cobra.Command{
		Use:   "backup",
		Short: "Manage site backups",
	}

	createCmd := &cobra.Command{
		Use:   "create <site>",
		Short: "Snapshot a site's local tree",
		Args:  cobra.ExactArgs(1),
		RunE:  runBackupCreate,
	}

	listCmd := &cobra.Command{
		Use:   "list <site>",
		Short: "List backups for a site, newest first",
		Args:  cobra.ExactArgs(1),
		RunE:  runBackupList,
	}

	backupCmd.AddCommand(createCmd, listCmd)
	rootCmd.AddCommand(backupCmd)
}

func runBackupCreate(cmd *cobra.Command, args []string) error {
	cfg, log := loadEnv()
	sites, err := loadSites(cfg)
	if err != nil {
		return err
	}
	site, ok := config.FindSite(sites, args[0])
	if !ok {
		return fmt.Errorf("unknown site: %s", args[0])
	}

	store := backup.NewStore(cfg.BackupDir, cfg.BackupKeep, log)
	b, err := store.Create(site.Name, site.LocalPath)
	if err != nil {
		return fmt.Errorf("backup failed: %w", err)
	}
	fmt.Printf("created %s\n", b.ID)
	return nil
}

func runBackupList(cmd *cobra.Command, args []string) error {
	cfg, log := loadEnv()
	sites, err := loadSites(cfg)
	if err != nil {
		return err
	}
	site, ok := config.FindSite(sites, args[0])
	if !ok {
		return fmt.Errorf("unknown site: %s", args[0])
	}

	store := backup.NewStore(cfg.BackupDir, cfg.BackupKeep, log)
	backups, err := store.List(site.Name)
	if err != nil {
		return err
	}
	if len(backups) == 0 {
		fmt.Printf("no backups for %s\n", site.Name)
		return nil
	}
	for _, b := range backups {
		fmt.Printf("%s  %s\n", b.ID, b.CreatedAt.Format("2006-01-02 15:04:05"))
	}
	return nil
}
