package client

import (
	"net/http"
	"time"

	"github.com/hupe1980/ragstream/logging"
	"github.com/hupe1980/ragstream/stream"
)

const (
	// DefaultBaseURL is the default backend base URL.
	DefaultBaseURL = "http://localhost:5000"

	// DefaultTimeout is the default timeout of non-streaming requests.
	DefaultTimeout = 30 * time.Second

	// DefaultMaxRetries is the default maximum number of retries.
	DefaultMaxRetries = 2
)

// Client is the backend API client.
type Client struct {
	// Search provides query and conversation operations.
	Search *SearchService

	// Files provides document management operations.
	Files *FileService

	config *clientConfig
	http   *httpClient
}

// clientConfig holds the client configuration.
type clientConfig struct {
	baseURL    string
	httpClient *http.Client
	timeout    time.Duration
	maxRetries int
	userAgent  string
	decoder    *stream.Decoder
	logger     logging.Logger
}

// Option is a function that configures the client.
type Option func(*clientConfig)

// WithBaseURL sets the backend base URL.
func WithBaseURL(url string) Option {
	return func(c *clientConfig) {
		c.baseURL = url
	}
}

// WithHTTPClient sets a custom HTTP client. Its Timeout is not applied to
// answer streams.
func WithHTTPClient(client *http.Client) Option {
	return func(c *clientConfig) {
		c.httpClient = client
	}
}

// WithTimeout sets the timeout of non-streaming requests.
func WithTimeout(timeout time.Duration) Option {
	return func(c *clientConfig) {
		c.timeout = timeout
	}
}

// WithRetry sets the maximum number of retries for transient errors.
func WithRetry(maxRetries int) Option {
	return func(c *clientConfig) {
		c.maxRetries = maxRetries
	}
}

// WithDecoder sets the decoder used for answer streams.
func WithDecoder(d *stream.Decoder) Option {
	return func(c *clientConfig) {
		c.decoder = d
	}
}

// WithLogger sets the logger for request diagnostics.
func WithLogger(l logging.Logger) Option {
	return func(c *clientConfig) {
		c.logger = l
	}
}

// WithUserAgent overrides the User-Agent header.
func WithUserAgent(ua string) Option {
	return func(c *clientConfig) {
		c.userAgent = ua
	}
}

// New creates a backend API client.
//
// Example:
//
//	c := client.New()
//	c := client.New(client.WithBaseURL("http://rag.internal:5000"), client.WithTimeout(time.Minute))
func New(opts ...Option) *Client {
	cfg := &clientConfig{
		baseURL:    DefaultBaseURL,
		timeout:    DefaultTimeout,
		maxRetries: DefaultMaxRetries,
		userAgent:  "ragstream-go/1.0",
		logger:     logging.NoOpLogger{},
	}

	for _, opt := range opts {
		opt(cfg)
	}

	if cfg.httpClient == nil {
		cfg.httpClient = &http.Client{
			Timeout: cfg.timeout,
		}
	}
	if cfg.logger == nil {
		cfg.logger = logging.NoOpLogger{}
	}
	if cfg.decoder == nil {
		cfg.decoder = stream.NewDecoder(func(o *stream.Options) { o.Logger = cfg.logger })
	}

	c := &Client{
		config: cfg,
		http:   newHTTPClient(cfg),
	}

	c.Search = newSearchService(c)
	c.Files = newFileService(c)

	return c
}

// BaseURL returns the configured base URL.
func (c *Client) BaseURL() string {
	return c.config.baseURL
}
