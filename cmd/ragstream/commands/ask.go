package commands

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"

	"github.com/spf13/cobra"

	"github.com/hupe1980/ragstream"
	"github.com/hupe1980/ragstream/config"
	"github.com/hupe1980/ragstream/core"
	"github.com/hupe1980/ragstream/dispatch"
)

var (
	askSession  string
	askEnhanced bool
)

var askCmd = &cobra.Command{
	Use:   "ask <question>",
	Short: "Ask a question and stream the answer",
	Long: `Ask a question against the uploaded documents.

Thinking progress is printed to stderr while the backend works; the answer
is printed to stdout with images, tables and charts shown in place.

Examples:
  ragstream ask "Summarize the quarterly report"
  ragstream ask --session 4f1c... "What about the previous quarter?"
  ragstream ask "List the figures" --json | jq '.parts'
  ragstream ask --enhanced "Which charts show revenue?"`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := getConfig()
		if err != nil {
			return err
		}

		question := strings.Join(args, " ")
		printVerbose("Backend: %s", cfg.BaseURL)
		printVerbose("Question: %s", question)

		if askEnhanced {
			return askEnhancedQuestion(cfg, question)
		}

		var observer dispatch.Observer = dispatch.NoOpObserver{}
		if !isJSONOutput() {
			observer = newTerminalRenderer(os.Stdout, os.Stderr)
		}

		rs := ragstream.New(ragstream.WithConfig(cfg), func(o *ragstream.Options) {
			o.Client = createClient(cfg)
			o.Logger = createLogger(cfg)
			o.Observer = observer
		})

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		defer stop()

		res, err := rs.Ask(ctx, askSession, question)
		if res == nil {
			return err
		}

		if isJSONOutput() || getOutputFile() != "" {
			if outErr := outputResult(newAskOutput(res.SessionID, res.Turn), getOutputFile(), isJSONOutput()); outErr != nil {
				return outErr
			}
		}
		if !isJSONOutput() {
			fmt.Fprintf(os.Stderr, "\nsession: %s\n", res.SessionID)
		}

		if errors.Is(err, context.Canceled) {
			return errors.New("interrupted")
		}
		return err
	},
}

// askEnhancedQuestion runs a non-streaming enhanced search and prints its
// sections in layout order.
func askEnhancedQuestion(cfg *config.Config, question string) error {
	reqCtx, cancel := context.WithTimeout(context.Background(), cfg.RequestTimeout())
	defer cancel()

	resp, err := createClient(cfg).Search.Enhanced(reqCtx, question, askSession)
	if err != nil {
		return fmt.Errorf("enhanced search failed: %w", err)
	}

	if isJSONOutput() || getOutputFile() != "" {
		return outputResult(resp, getOutputFile(), isJSONOutput())
	}

	for _, sec := range resp.Ordered() {
		fmt.Printf("== %s ==\n", sec.Title)
		if sec.Content != "" {
			fmt.Println(sec.Content)
		}
		if len(sec.Contents) > 0 {
			fmt.Printf("(%d item(s))\n", len(sec.Contents))
		}
		if sec.Analysis != "" {
			fmt.Println(sec.Analysis)
		}
		fmt.Println()
	}
	for _, p := range resp.Answer.KeyPoints {
		fmt.Printf("• %s\n", p)
	}
	return nil
}

// askOutput is the machine-readable result of a turn.
type askOutput struct {
	SessionID string      `json:"session_id" yaml:"session_id"`
	TurnID    string      `json:"turn_id" yaml:"turn_id"`
	State     string      `json:"state" yaml:"state"`
	Answer    string      `json:"answer,omitempty" yaml:"answer,omitempty"`
	Parts     []core.Part `json:"parts,omitempty" yaml:"-"`
	Error     string      `json:"error,omitempty" yaml:"error,omitempty"`
}

func newAskOutput(sessionID string, snap dispatch.Snapshot) askOutput {
	out := askOutput{
		SessionID: sessionID,
		TurnID:    snap.ID,
		State:     snap.State.String(),
		Parts:     snap.Parts,
		Error:     snap.ErrorMessage,
	}
	switch {
	case snap.Answer != nil:
		out.Answer = snap.Answer.TextContent
	default:
		out.Answer = snap.AnswerText
	}
	return out
}

func init() {
	askCmd.Flags().BoolVar(&askEnhanced, "enhanced", false, "non-streaming answer organised into layout sections")
	askCmd.Flags().StringVarP(&askSession, "session", "s", "", "session id to continue (default: new session)")
}
