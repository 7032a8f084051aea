package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/MrSnakeDoc/armada/internal/domain"
	"github.com/MrSnakeDoc/armada/internal/health"
)

func init() {
	statusCmd := &cobra.Command{
		Use:   "status [site...]",
		Short: "Probe every site's health check URL once and print the results",
		RunE:  runStatus,
	}
	rootCmd.AddCommand(statusCmd)
}

func runStatus(cmd *cobra.Command, args []string) error {
	cfg, _ := loadEnv()
	sites, err := loadSites(cfg)
	if err != nil {
		return err
	}
	sites, err = selectSites(sites, args)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	checker := health.NewChecker(cfg.HealthTimeout)

	down := 0
	fmt.Printf("%-20s %-7s %-6s %s\n", "SITE", "STATUS", "CODE", "RESPONSE")
	for i := range sites {
		result := checker.CheckSite(ctx, &sites[i])
		if result == nil {
			fmt.Printf("%-20s %-7s %-6s %s\n", sites[i].Name, "-", "-", "no health check url")
			continue
		}
		switch result.Status {
		case domain.HealthUp:
			fmt.Printf("%-20s %-7s %-6d %.0fms\n", result.Site, result.Status, result.StatusCode, result.ResponseTimeMS)
		case domain.HealthDown:
			down++
			fmt.Printf("%-20s %-7s %-6d %.0fms\n", result.Site, result.Status, result.StatusCode, result.ResponseTimeMS)
		default:
			down++
			fmt.Printf("%-20s %-7s %-6s %s\n", result.Site, result.Status, "-", result.Error)
		}
	}

	if down > 0 {
		return fmt.Errorf("%d site(s) not healthy", down)
	}
	return nil
}
