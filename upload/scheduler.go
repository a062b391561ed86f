package upload

import (
	"context"
	"errors"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/hupe1980/ragstream/logging"
)

var (
	// ErrNoFiles is returned for an empty input set.
	ErrNoFiles = errors.New("upload: no files given")
	// ErrNoAcceptedFiles is returned when validation rejected every file.
	ErrNoAcceptedFiles = errors.New("upload: no file passed validation")
)

// DefaultConcurrency is the default batch size.
const DefaultConcurrency = 3

// Options configure a Scheduler.
type Options struct {
	// Concurrency is the maximum batch size and therefore the peak number of
	// concurrent submissions.
	Concurrency int
	// Validator checks files before submission.
	Validator Validator
	// Notifier receives progress notifications.
	Notifier Notifier
	// Logger receives per-task debug output and a summary per run.
	Logger logging.Logger
}

// Scheduler submits files in sequential, internally concurrent batches. It
// holds no state across runs and may be used concurrently.
type Scheduler struct {
	submitter Submitter
	opts      Options
}

// NewScheduler creates a scheduler around submitter.
func NewScheduler(submitter Submitter, optFns ...func(o *Options)) *Scheduler {
	opts := Options{
		Concurrency: DefaultConcurrency,
		Validator:   ExtensionSizeValidator{Allowed: DefaultAllowedExtensions, MaxSize: DefaultMaxSize},
		Notifier:    NoOpNotifier{},
		Logger:      logging.NoOpLogger{},
	}

	for _, fn := range optFns {
		fn(&opts)
	}

	if opts.Concurrency < 1 {
		opts.Concurrency = 1
	}
	if opts.Validator == nil {
		opts.Validator = ValidatorFunc(func(File) string { return "" })
	}
	if opts.Notifier == nil {
		opts.Notifier = NoOpNotifier{}
	}
	if opts.Logger == nil {
		opts.Logger = logging.NoOpLogger{}
	}

	return &Scheduler{submitter: submitter, opts: opts}
}

// Run validates and submits files. It fails as a whole only for an empty
// input (ErrNoFiles) or when no file passed validation (ErrNoAcceptedFiles);
// in the latter case the report carries the rejection notice. Submission
// failures are recorded per task. If ctx is cancelled between batches, the
// remaining tasks fail with the context error and the run still completes
// with a terminal notification.
func (s *Scheduler) Run(ctx context.Context, files []File) (*Report, error) {
	if len(files) == 0 {
		return nil, ErrNoFiles
	}
	start := time.Now()

	report := &Report{Tasks: make([]Task, len(files))}
	var (
		accepted []int
		reasons  []string
	)
	for i, f := range files {
		report.Tasks[i] = Task{File: f, Status: StatusPending, Batch: -1}
		if reason := s.opts.Validator.Validate(f); reason != "" {
			report.Tasks[i].Status = StatusRejected
			report.Tasks[i].Reason = reason
			reasons = append(reasons, reason)
			continue
		}
		accepted = append(accepted, i)
	}

	if len(reasons) > 0 {
		report.Rejections = &Notice{Reasons: reasons}
		s.opts.Notifier.OnRejected(*report.Rejections)
	}
	if len(accepted) == 0 {
		report.Summary = Summary{Rejected: len(reasons), Duration: time.Since(start)}
		return report, ErrNoAcceptedFiles
	}

	tracker := newInflight(s.opts.Concurrency)
	for batch, lo := 0, 0; lo < len(accepted); batch, lo = batch+1, lo+s.opts.Concurrency {
		hi := min(lo+s.opts.Concurrency, len(accepted))
		indices := accepted[lo:hi]

		if err := ctx.Err(); err != nil {
			for _, i := range accepted[lo:] {
				report.Tasks[i].Status = StatusFailed
				report.Tasks[i].Err = err
			}
			s.opts.Logger.Warn("upload run cancelled", "remaining", len(accepted)-lo, "error", err)
			break
		}

		report.BatchSizes = append(report.BatchSizes, len(indices))
		s.opts.Notifier.OnBatchStart(batch, len(indices))

		var g errgroup.Group
		g.SetLimit(s.opts.Concurrency)
		for _, i := range indices {
			task := &report.Tasks[i]
			task.Batch = batch
			g.Go(func() error {
				s.submit(ctx, tracker, task)
				return nil
			})
		}
		g.Wait()

		for _, i := range indices {
			s.opts.Notifier.OnTaskSettled(report.Tasks[i])
		}
	}

	sum := Summary{Accepted: len(accepted), Rejected: len(reasons), Batches: len(report.BatchSizes)}
	for _, t := range report.Tasks {
		switch t.Status {
		case StatusSucceeded:
			sum.Succeeded++
		case StatusFailed:
			sum.Failed++
		}
	}
	sum.Outcome = Classify(sum.Succeeded, sum.Failed)
	sum.Duration = time.Since(start)
	report.Summary = sum
	report.PeakInFlight = tracker.Peak()

	s.logSummary(sum)
	s.opts.Notifier.OnComplete(sum)

	return report, nil
}

// submit runs one submission in isolation. Panics and errors are recorded
// on the task and never propagate to siblings.
func (s *Scheduler) submit(ctx context.Context, tracker *inflight, task *Task) {
	start := time.Now()
	defer func() {
		if r := recover(); r != nil {
			task.Status = StatusFailed
			task.Err = fmt.Errorf("upload: submitter panic: %v", r)
			if sl, ok := s.opts.Logger.(logging.StackLogger); ok {
				sl.ErrorWithStack(task.Err, "submitter panicked", "file", task.File.Name)
			} else {
				s.opts.Logger.Error("submitter panicked", "file", task.File.Name, "panic", r)
			}
		}
		task.Duration = time.Since(start)
		s.opts.Logger.Debug("upload settled", "file", task.File.Name, "status", task.Status.String(), "duration", task.Duration)
	}()

	if err := tracker.acquire(); err != nil {
		task.Status = StatusFailed
		task.Err = err
		return
	}
	defer tracker.release()

	res, err := s.submitter.Submit(ctx, task.File)
	task.Result = res
	switch {
	case err != nil:
		task.Status = StatusFailed
		task.Err = err
	case !res.Success:
		task.Status = StatusFailed
		msg := res.Message
		if msg == "" {
			msg = "submission rejected"
		}
		task.Err = errors.New(msg)
	default:
		task.Status = StatusSucceeded
	}
}

func (s *Scheduler) logSummary(sum Summary) {
	if ul, ok := s.opts.Logger.(logging.UploadSummaryLogger); ok {
		ul.LogUploadSummary(sum.Outcome.String(), sum.Accepted, sum.Rejected, sum.Succeeded, sum.Failed, sum.Duration)
		return
	}
	s.opts.Logger.Info("upload run settled",
		"outcome", sum.Outcome.String(),
		"succeeded", sum.Succeeded,
		"failed", sum.Failed,
	)
}
