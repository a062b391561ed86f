package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/hupe1980/ragstream"
	"github.com/hupe1980/ragstream/upload"
)

var uploadConcurrency int

var uploadCmd = &cobra.Command{
	Use:   "upload <file_path>...",
	Short: "Upload documents in batches",
	Long: `Upload documents for indexing.

Files are validated first (type and size, see upload.allowed_extensions and
upload.max_file_size_mb); all rejections are reported together. Accepted
files are uploaded in batches of upload.concurrency files, one batch after
the other. The destination is selected by upload.target (http, s3, memory).

Examples:
  ragstream upload report.pdf
  ragstream upload docs/*.pdf --concurrency 5
  ragstream upload docs/*.pdf --json`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := getConfig()
		if err != nil {
			return err
		}
		if cmd.Flags().Changed("concurrency") {
			cfg.Upload.Concurrency = uploadConcurrency
		}

		files := make([]upload.File, 0, len(args))
		for _, p := range args {
			f, err := upload.FromPath(p)
			if err != nil {
				return fmt.Errorf("cannot open file: %w", err)
			}
			printVerbose("File: %s (%s)", p, formatBytes(f.Size))
			files = append(files, f)
		}

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		defer stop()

		c := createClient(cfg)
		submitter, err := createSubmitter(ctx, cfg, c)
		if err != nil {
			return err
		}
		printVerbose("Target: %s", cfg.Upload.Target)

		var notifier upload.Notifier = upload.NoOpNotifier{}
		if !isJSONOutput() {
			notifier = &progressNotifier{w: os.Stdout}
		}

		rs := ragstream.New(ragstream.WithConfig(cfg), func(o *ragstream.Options) {
			o.Client = c
			o.Logger = createLogger(cfg)
			o.Submitter = submitter
			o.Notifier = notifier
		})

		report, err := rs.UploadFiles(ctx, files)
		if err != nil && !errors.Is(err, upload.ErrNoAcceptedFiles) {
			return err
		}

		if isJSONOutput() || getOutputFile() != "" {
			if outErr := outputResult(newUploadOutput(report), getOutputFile(), isJSONOutput()); outErr != nil {
				return outErr
			}
		}
		if err != nil {
			return err
		}
		if report.Summary.Outcome == upload.OutcomeAllFailed {
			return errors.New("all uploads failed")
		}
		return nil
	},
}

// progressNotifier prints upload progress line by line.
type progressNotifier struct {
	w io.Writer
}

func (n *progressNotifier) OnRejected(notice upload.Notice) {
	fmt.Fprintf(n.w, "⚠ %d file(s) rejected:\n", len(notice.Reasons))
	for _, r := range notice.Reasons {
		fmt.Fprintf(n.w, "  - %s\n", r)
	}
}

func (n *progressNotifier) OnBatchStart(batch, size int) {
	fmt.Fprintf(n.w, "batch %d: uploading %d file(s)\n", batch+1, size)
}

func (n *progressNotifier) OnTaskSettled(t upload.Task) {
	if t.Status == upload.StatusSucceeded {
		fmt.Fprintf(n.w, "  ✓ %s\n", t.File.Name)
		return
	}
	msg := t.Result.Message
	if t.Err != nil {
		msg = t.Err.Error()
	}
	fmt.Fprintf(n.w, "  ✗ %s: %s\n", t.File.Name, msg)
}

func (n *progressNotifier) OnComplete(s upload.Summary) {
	switch s.Outcome {
	case upload.OutcomeAllSucceeded:
		fmt.Fprintf(n.w, "✓ %d file(s) uploaded\n", s.Succeeded)
	case upload.OutcomePartialSuccess:
		fmt.Fprintf(n.w, "⚠ %d file(s) uploaded, %d failed\n", s.Succeeded, s.Failed)
	default:
		fmt.Fprintf(n.w, "✗ all %d upload(s) failed\n", s.Failed)
	}
}

// uploadOutput is the machine-readable result of an upload run.
type uploadOutput struct {
	Outcome   string            `json:"outcome,omitempty" yaml:"outcome,omitempty"`
	Succeeded int               `json:"succeeded" yaml:"succeeded"`
	Failed    int               `json:"failed" yaml:"failed"`
	Rejected  []string          `json:"rejected,omitempty" yaml:"rejected,omitempty"`
	Files     []uploadFileEntry `json:"files" yaml:"files"`
}

type uploadFileEntry struct {
	Name    string `json:"name" yaml:"name"`
	Status  string `json:"status" yaml:"status"`
	FileID  string `json:"file_id,omitempty" yaml:"file_id,omitempty"`
	Message string `json:"message,omitempty" yaml:"message,omitempty"`
}

func newUploadOutput(r *upload.Report) uploadOutput {
	out := uploadOutput{
		Succeeded: r.Summary.Succeeded,
		Failed:    r.Summary.Failed,
	}
	if r.Summary.Accepted > 0 {
		out.Outcome = r.Summary.Outcome.String()
	}
	if r.Rejections != nil {
		out.Rejected = r.Rejections.Reasons
	}
	for _, t := range r.Tasks {
		e := uploadFileEntry{Name: t.File.Name, Status: t.Status.String(), FileID: t.Result.FileID, Message: t.Result.Message}
		switch {
		case t.Status == upload.StatusRejected:
			e.Message = t.Reason
		case t.Err != nil:
			e.Message = t.Err.Error()
		}
		out.Files = append(out.Files, e)
	}
	return out
}

var _ upload.Notifier = (*progressNotifier)(nil)

func init() {
	uploadCmd.Flags().IntVar(&uploadConcurrency, "concurrency", 0, "files per batch (default from config)")
}
