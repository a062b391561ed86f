package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var healthCmd = &cobra.Command{
	Use:   "health",
	Short: "Check the backend health",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := getConfig()
		if err != nil {
			return err
		}
		printVerbose("Backend: %s", cfg.BaseURL)

		reqCtx, cancel := context.WithTimeout(context.Background(), cfg.RequestTimeout())
		defer cancel()

		status, err := createClient(cfg).Search.Health(reqCtx)
		if err != nil {
			return fmt.Errorf("health check failed: %w", err)
		}

		if isJSONOutput() || getOutputFile() != "" {
			return outputResult(status, getOutputFile(), isJSONOutput())
		}
		if !status.Healthy() {
			printWarning("%s is %s", cfg.BaseURL, status.Status)
			return fmt.Errorf("backend unhealthy")
		}
		printSuccess("%s is healthy", cfg.BaseURL)
		return nil
	},
}
