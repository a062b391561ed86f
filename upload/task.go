package upload

import (
	"strings"
	"time"
)

// Status is the lifecycle state of an upload task.
type Status int

const (
	// StatusPending means the task was accepted but has not settled.
	StatusPending Status = iota
	// StatusRejected means validation refused the file; it is never submitted.
	StatusRejected
	// StatusSucceeded means the submission succeeded.
	StatusSucceeded
	// StatusFailed means the submission failed.
	StatusFailed
)

// String returns the string representation of the status.
func (s Status) String() string {
	switch s {
	case StatusPending:
		return "pending"
	case StatusRejected:
		return "rejected"
	case StatusSucceeded:
		return "succeeded"
	case StatusFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Result is the response of one submission.
type Result struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	FileID  string `json:"file_id,omitempty"`
}

// Task tracks one candidate file through validation and submission.
type Task struct {
	File     File
	Status   Status
	Reason   string // rejection reason
	Batch    int    // zero-based batch index; -1 for rejected tasks
	Result   Result
	Err      error
	Duration time.Duration
}

// Notice aggregates every rejection of a run into one message.
type Notice struct {
	Reasons []string
}

// String joins the rejection reasons line by line.
func (n Notice) String() string {
	return strings.Join(n.Reasons, "\n")
}

// Outcome classifies a settled upload run.
type Outcome int

const (
	// OutcomeAllSucceeded means no submission failed.
	OutcomeAllSucceeded Outcome = iota
	// OutcomePartialSuccess means some submissions failed and some succeeded.
	OutcomePartialSuccess
	// OutcomeAllFailed means every submission failed.
	OutcomeAllFailed
)

// String returns the string representation of the outcome.
func (o Outcome) String() string {
	switch o {
	case OutcomeAllSucceeded:
		return "all-succeeded"
	case OutcomePartialSuccess:
		return "partial-success"
	case OutcomeAllFailed:
		return "all-failed"
	default:
		return "unknown"
	}
}

// Classify maps settled counts to exactly one outcome.
func Classify(succeeded, failed int) Outcome {
	switch {
	case failed == 0:
		return OutcomeAllSucceeded
	case succeeded == 0:
		return OutcomeAllFailed
	default:
		return OutcomePartialSuccess
	}
}

// Summary is the payload of the terminal notification.
type Summary struct {
	Outcome   Outcome
	Accepted  int
	Rejected  int
	Succeeded int
	Failed    int
	Batches   int
	Duration  time.Duration
}

// Report is the full result of a scheduler run.
type Report struct {
	Tasks        []Task
	Rejections   *Notice
	BatchSizes   []int
	PeakInFlight int
	Summary      Summary
}

// Succeeded returns the tasks that succeeded, in input order.
func (r *Report) Succeeded() []Task { return r.filter(StatusSucceeded) }

// Failed returns the tasks that failed, in input order.
func (r *Report) Failed() []Task { return r.filter(StatusFailed) }

func (r *Report) filter(s Status) []Task {
	var out []Task
	for _, t := range r.Tasks {
		if t.Status == s {
			out = append(out, t)
		}
	}
	return out
}
