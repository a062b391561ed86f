package commands

import (
	"github.com/spf13/cobra"

	"github.com/hupe1980/ragstream/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Configuration management",
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write the default configuration",
	Long: `Write the default configuration to the config file.

An existing file is overwritten.

Examples:
  ragstream config init
  ragstream --config ./ragstream.yaml config init`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		path := cfgFile
		if path == "" {
			p, err := config.DefaultPath()
			if err != nil {
				return err
			}
			path = p
		}

		cfg := config.Default()
		if baseURL != "" {
			cfg.BaseURL = baseURL
		}
		if err := cfg.SaveTo(path); err != nil {
			return err
		}

		printSuccess("Wrote %s", path)
		return nil
	},
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the effective configuration",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := getConfig()
		if err != nil {
			return err
		}
		printVerbose("Config file: %s", cfg.Path())
		return outputResult(cfg, getOutputFile(), isJSONOutput())
	},
}

func init() {
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configShowCmd)
}
