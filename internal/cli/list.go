package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func init() {
	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List configured sites",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, _ := loadEnv()
			sites, err := loadSites(cfg)
			if err != nil {
				return err
			}

			fmt.Printf("%-20s %-8s %-30s %s\n", "NAME", "METHOD", "LOCAL PATH", "HEALTH CHECK")
			for _, s := range sites {
				health := s.HealthCheckURL
				if health == "" {
					health = "-"
				}
				fmt.Printf("%-20s %-8s %-30s %s\n", s.Name, s.DeployMethod, s.LocalPath, health)
			}
			return nil
		},
	}
	rootCmd.AddCommand(listCmd)
}
