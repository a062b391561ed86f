package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/hupe1980/ragstream/config"
)

var (
	// Global flags
	cfgFile    string
	baseURL    string
	outputFile string
	outputJSON bool
	verbose    bool

	// Global configuration
	globalConfig *config.Config
	configErr    error
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "ragstream",
	Short: "Document assistant CLI",
	Long: `ragstream - A command line client for a retrieval-augmented document assistant.

Ask questions against uploaded documents and watch the answer stream in,
including the thinking progress and the images, tables and charts the
answer refers to. Upload documents in concurrent batches.

Configuration is read from ~/.ragstream/config.yaml. The backend URL can be
overridden with --base-url or RAGSTREAM_BASE_URL.

Examples:
  # Ask a question in a new session
  ragstream ask "What does the report say about revenue?"

  # Continue a session and print the result as JSON
  ragstream ask --session 4f1c... "And in 2023?" --json

  # Upload all PDFs in a directory, three at a time
  ragstream upload docs/*.pdf
`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ~/.ragstream/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&baseURL, "base-url", "", "backend base URL (overrides config)")
	rootCmd.PersistentFlags().StringVarP(&outputFile, "output", "o", "", "output file (default: stdout)")
	rootCmd.PersistentFlags().BoolVar(&outputJSON, "json", false, "output as JSON (for piping)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")

	rootCmd.AddCommand(askCmd)
	rootCmd.AddCommand(uploadCmd)
	rootCmd.AddCommand(fileCmd)
	rootCmd.AddCommand(sessionCmd)
	rootCmd.AddCommand(healthCmd)
	rootCmd.AddCommand(configCmd)
}

// initConfig loads the configuration. Errors are reported by the commands
// that need it so that "config init" works with a broken file.
func initConfig() {
	globalConfig, configErr = config.Load(cfgFile)
	if configErr == nil && baseURL != "" {
		globalConfig.BaseURL = baseURL
	}
}

// getConfig returns the global configuration
func getConfig() (*config.Config, error) {
	if configErr != nil {
		return nil, configErr
	}
	if globalConfig == nil {
		return nil, fmt.Errorf("configuration not initialized")
	}
	return globalConfig, nil
}

// getOutputFile returns the output file path
func getOutputFile() string {
	return outputFile
}

// isJSONOutput returns whether output should be JSON
func isJSONOutput() bool {
	return outputJSON
}

// isVerbose returns whether verbose mode is enabled
func isVerbose() bool {
	return verbose
}
