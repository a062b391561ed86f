package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var fileCmd = &cobra.Command{
	Use:   "file",
	Short: "Document management",
	Long: `Document management.

List uploaded documents, follow their processing, rename and delete them.`,
}

var fileListCmd = &cobra.Command{
	Use:   "list",
	Short: "List uploaded documents",
	Long: `List uploaded documents.

Examples:
  ragstream file list
  ragstream file list --json | jq '.[].file_id'`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := getConfig()
		if err != nil {
			return err
		}

		reqCtx, cancel := context.WithTimeout(context.Background(), cfg.RequestTimeout())
		defer cancel()

		files, err := createClient(cfg).Files.List(reqCtx)
		if err != nil {
			return fmt.Errorf("list files failed: %w", err)
		}

		return outputResult(files, getOutputFile(), isJSONOutput())
	},
}

var fileStatusCmd = &cobra.Command{
	Use:   "status <file_id>",
	Short: "Show the processing status of a document",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := getConfig()
		if err != nil {
			return err
		}

		reqCtx, cancel := context.WithTimeout(context.Background(), cfg.RequestTimeout())
		defer cancel()

		status, err := createClient(cfg).Files.Status(reqCtx, args[0])
		if err != nil {
			return fmt.Errorf("get status failed: %w", err)
		}

		return outputResult(status, getOutputFile(), isJSONOutput())
	},
}

var fileInfoCmd = &cobra.Command{
	Use:   "info <file_id>",
	Short: "Show document metadata and statistics",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := getConfig()
		if err != nil {
			return err
		}

		reqCtx, cancel := context.WithTimeout(context.Background(), cfg.RequestTimeout())
		defer cancel()

		info, err := createClient(cfg).Files.Info(reqCtx, args[0])
		if err != nil {
			return fmt.Errorf("get info failed: %w", err)
		}

		return outputResult(info, getOutputFile(), isJSONOutput())
	},
}

var fileRenameCmd = &cobra.Command{
	Use:   "rename <file_id> <new_filename>",
	Short: "Rename a document",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := getConfig()
		if err != nil {
			return err
		}

		reqCtx, cancel := context.WithTimeout(context.Background(), cfg.RequestTimeout())
		defer cancel()

		if err := createClient(cfg).Files.Rename(reqCtx, args[0], args[1]); err != nil {
			return fmt.Errorf("rename failed: %w", err)
		}

		printSuccess("Renamed %s to %s", args[0], args[1])
		return nil
	},
}

var fileDeleteCmd = &cobra.Command{
	Use:   "delete <file_id>",
	Short: "Delete a document",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := getConfig()
		if err != nil {
			return err
		}

		reqCtx, cancel := context.WithTimeout(context.Background(), cfg.RequestTimeout())
		defer cancel()

		if err := createClient(cfg).Files.Delete(reqCtx, args[0]); err != nil {
			return fmt.Errorf("delete failed: %w", err)
		}

		printSuccess("Deleted %s", args[0])
		return nil
	},
}

func init() {
	fileCmd.AddCommand(fileListCmd)
	fileCmd.AddCommand(fileStatusCmd)
	fileCmd.AddCommand(fileInfoCmd)
	fileCmd.AddCommand(fileRenameCmd)
	fileCmd.AddCommand(fileDeleteCmd)
}
