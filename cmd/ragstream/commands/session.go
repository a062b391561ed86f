package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var sessionCmd = &cobra.Command{
	Use:   "session",
	Short: "Server-side conversation sessions",
}

var sessionNewCmd = &cobra.Command{
	Use:   "new",
	Short: "Create a new session",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := getConfig()
		if err != nil {
			return err
		}

		reqCtx, cancel := context.WithTimeout(context.Background(), cfg.RequestTimeout())
		defer cancel()

		id, err := createClient(cfg).Search.CreateSession(reqCtx)
		if err != nil {
			return fmt.Errorf("create session failed: %w", err)
		}

		if isJSONOutput() {
			return outputResult(map[string]string{"session_id": id}, getOutputFile(), true)
		}
		fmt.Println(id)
		return nil
	},
}

var sessionHistoryCmd = &cobra.Command{
	Use:   "history <session_id>",
	Short: "Show the conversation history of a session",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := getConfig()
		if err != nil {
			return err
		}

		reqCtx, cancel := context.WithTimeout(context.Background(), cfg.RequestTimeout())
		defer cancel()

		history, err := createClient(cfg).Search.History(reqCtx, args[0])
		if err != nil {
			return fmt.Errorf("get history failed: %w", err)
		}

		return outputResult(history, getOutputFile(), isJSONOutput())
	},
}

var sessionClearCmd = &cobra.Command{
	Use:   "clear <session_id>",
	Short: "Clear the conversation history of a session",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := getConfig()
		if err != nil {
			return err
		}

		reqCtx, cancel := context.WithTimeout(context.Background(), cfg.RequestTimeout())
		defer cancel()

		if err := createClient(cfg).Search.ClearHistory(reqCtx, args[0]); err != nil {
			return fmt.Errorf("clear history failed: %w", err)
		}

		printSuccess("Cleared history of %s", args[0])
		return nil
	},
}

var sessionSuggestCmd = &cobra.Command{
	Use:   "suggest <partial_query>",
	Short: "Show query suggestions",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := getConfig()
		if err != nil {
			return err
		}

		reqCtx, cancel := context.WithTimeout(context.Background(), cfg.RequestTimeout())
		defer cancel()

		suggestions, err := createClient(cfg).Search.Suggestions(reqCtx, args[0])
		if err != nil {
			return fmt.Errorf("get suggestions failed: %w", err)
		}

		return outputResult(suggestions, getOutputFile(), isJSONOutput())
	},
}

func init() {
	sessionCmd.AddCommand(sessionNewCmd)
	sessionCmd.AddCommand(sessionHistoryCmd)
	sessionCmd.AddCommand(sessionClearCmd)
	sessionCmd.AddCommand(sessionSuggestCmd)
}
