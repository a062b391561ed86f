// Package ragstream provides a high-level façade over the streaming search
// client, the per-turn event dispatcher and the batched upload scheduler of
// a retrieval-augmented document assistant. Most applications interact with
// this package by:
//  1. Creating a RAGStream via New(), optionally from a loaded config.Config
//  2. Asking questions with Ask and rendering the returned content parts
//  3. Uploading documents with UploadFiles or UploadPaths
//
// All defaults are safe for local development: the backend is expected at
// client.DefaultBaseURL, session history is kept in memory and uploads go
// through the backend file service.
package ragstream

import (
	"context"
	"fmt"
	"time"

	"github.com/hupe1980/ragstream/client"
	"github.com/hupe1980/ragstream/config"
	"github.com/hupe1980/ragstream/core"
	"github.com/hupe1980/ragstream/dispatch"
	"github.com/hupe1980/ragstream/logging"
	"github.com/hupe1980/ragstream/runner"
	"github.com/hupe1980/ragstream/session"
	"github.com/hupe1980/ragstream/upload"
)

// Options configures the RAGStream instance.
type Options struct {
	// Client talks to the backend. Defaults to client.New().
	Client *client.Client

	// ThinkingDelay is the pause between the end of the thinking phase and
	// the opening of the answer.
	ThinkingDelay time.Duration
	// Observer receives the presentation hooks of every turn.
	Observer dispatch.Observer
	// FallbackMessage is shown for failed turns.
	FallbackMessage string
	// SessionStore records finished turns (defaults to in-memory).
	SessionStore core.SessionStore

	// Submitter delivers uploaded files. Defaults to the client's file service.
	Submitter upload.Submitter
	// Concurrency is the upload batch size.
	Concurrency int
	// Validator checks files before upload.
	Validator upload.Validator
	// Notifier receives upload progress.
	Notifier upload.Notifier

	// Logger (defaults to NoOp logger if nil)
	Logger logging.Logger
}

// WithConfig applies a loaded configuration. Options set after it win.
func WithConfig(cfg *config.Config) func(o *Options) {
	return func(o *Options) {
		logger := cfg.Logger()
		o.Logger = logger
		o.Client = client.New(
			client.WithBaseURL(cfg.BaseURL),
			client.WithTimeout(cfg.RequestTimeout()),
			client.WithRetry(cfg.MaxRetries),
			client.WithLogger(logger.WithComponent("client")),
		)
		o.ThinkingDelay = cfg.ThinkingDelayDuration()
		o.Concurrency = cfg.Upload.Concurrency
		o.Validator = upload.NewExtensionSizeValidator(cfg.Upload.AllowedExtensions, cfg.Upload.MaxFileSizeMB)
	}
}

// RAGStream is the high-level façade aggregating client, runner and scheduler.
type RAGStream struct {
	opts      Options
	client    *client.Client
	runner    *runner.Runner
	scheduler *upload.Scheduler
}

// New creates a new RAGStream instance with optional overrides.
func New(optFns ...func(o *Options)) *RAGStream {
	opts := Options{
		ThinkingDelay:   500 * time.Millisecond,
		Observer:        dispatch.NoOpObserver{},
		FallbackMessage: dispatch.DefaultFallbackMessage,
		SessionStore:    session.NewInMemoryStore(),
		Concurrency:     upload.DefaultConcurrency,
		Validator:       upload.ExtensionSizeValidator{Allowed: upload.DefaultAllowedExtensions, MaxSize: upload.DefaultMaxSize},
		Notifier:        upload.NoOpNotifier{},
		Logger:          logging.NoOpLogger{},
	}

	for _, fn := range optFns {
		fn(&opts)
	}

	if opts.Logger == nil {
		opts.Logger = logging.NoOpLogger{}
	}
	if opts.Client == nil {
		opts.Client = client.New(client.WithLogger(opts.Logger))
	}
	if opts.Submitter == nil {
		opts.Submitter = opts.Client.Files
	}

	r := runner.New(opts.Client.Search, func(o *runner.Options) {
		o.ThinkingDelay = opts.ThinkingDelay
		o.Observer = opts.Observer
		o.FallbackMessage = opts.FallbackMessage
		o.SessionStore = opts.SessionStore
		o.Logger = opts.Logger
	})

	s := upload.NewScheduler(opts.Submitter, func(o *upload.Options) {
		o.Concurrency = opts.Concurrency
		o.Validator = opts.Validator
		o.Notifier = opts.Notifier
		o.Logger = opts.Logger
	})

	return &RAGStream{opts: opts, client: opts.Client, runner: r, scheduler: s}
}

// Client returns the backend client.
func (m *RAGStream) Client() *client.Client { return m.client }

// Runner returns the underlying turn runner.
func (m *RAGStream) Runner() *runner.Runner { return m.runner }

// Ask streams the answer to question and blocks until the turn settles.
func (m *RAGStream) Ask(ctx context.Context, sessionID, question string) (*runner.Result, error) {
	return m.runner.Ask(ctx, sessionID, question)
}

// Cancel discards the in-flight turn with the given id.
func (m *RAGStream) Cancel(turnID string) error { return m.runner.Cancel(turnID) }

// History returns the locally recorded turns of a session.
func (m *RAGStream) History(sessionID string) ([]core.TurnRecord, error) {
	return m.runner.History(sessionID)
}

// UploadFiles validates and submits files in batches.
func (m *RAGStream) UploadFiles(ctx context.Context, files []upload.File) (*upload.Report, error) {
	return m.scheduler.Run(ctx, files)
}

// UploadPaths uploads local files. A path that cannot be read fails the call
// before anything is submitted.
func (m *RAGStream) UploadPaths(ctx context.Context, paths ...string) (*upload.Report, error) {
	files := make([]upload.File, 0, len(paths))
	for _, p := range paths {
		f, err := upload.FromPath(p)
		if err != nil {
			return nil, fmt.Errorf("failed to open %s: %w", p, err)
		}
		files = append(files, f)
	}
	return m.scheduler.Run(ctx, files)
}
