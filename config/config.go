package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/goccy/go-yaml"

	"github.com/hupe1980/ragstream/logging"
)

const (
	// DefaultConfigFile is the default configuration filename.
	DefaultConfigFile = "config.yaml"
	// DefaultBaseDir is the configuration directory below the user's home.
	DefaultBaseDir = ".ragstream"
	// EnvBaseURL overrides Config.BaseURL.
	EnvBaseURL = "RAGSTREAM_BASE_URL"
)

// Upload targets.
const (
	TargetHTTP   = "http"
	TargetS3     = "s3"
	TargetMemory = "memory"
)

// Config is the client configuration.
type Config struct {
	// BaseURL is the backend base URL.
	BaseURL string `yaml:"base_url"`

	// Timeout is the request timeout in seconds.
	Timeout int `yaml:"timeout"`

	// MaxRetries is the maximum number of retries of idempotent requests.
	MaxRetries int `yaml:"max_retries"`

	// ThinkingDelay is the pause in milliseconds between the end of the
	// thinking phase and the opening of the answer.
	ThinkingDelay int `yaml:"thinking_delay"`

	// Upload configures batched uploads.
	Upload Upload `yaml:"upload"`

	// S3 configures the S3 upload target.
	S3 S3 `yaml:"s3,omitempty"`

	// Log configures logging.
	Log Log `yaml:"log"`

	path string
}

// Upload configures the upload scheduler.
type Upload struct {
	Concurrency       int      `yaml:"concurrency"`
	AllowedExtensions []string `yaml:"allowed_extensions"`
	MaxFileSizeMB     int      `yaml:"max_file_size_mb"`
	Target            string   `yaml:"target"`
}

// S3 configures the S3 artifact store.
type S3 struct {
	Bucket string `yaml:"bucket,omitempty"`
	Prefix string `yaml:"prefix,omitempty"`
	Region string `yaml:"region,omitempty"`
}

// Log configures the logger.
type Log struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// Default returns the default configuration.
func Default() *Config {
	return &Config{
		BaseURL:       "http://localhost:5000",
		Timeout:       30,
		MaxRetries:    2,
		ThinkingDelay: 500,
		Upload: Upload{
			Concurrency:       3,
			AllowedExtensions: []string{".pdf"},
			MaxFileSizeMB:     50,
			Target:            TargetHTTP,
		},
		Log: Log{Level: "info", Format: "text"},
	}
}

// DefaultPath returns ~/.ragstream/config.yaml.
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(home, DefaultBaseDir, DefaultConfigFile), nil
}

// Load reads the configuration at path on top of the defaults. An empty
// path uses DefaultPath; a missing file is not an error. The result is
// validated.
func Load(path string) (*Config, error) {
	if path == "" {
		p, err := DefaultPath()
		if err != nil {
			return nil, err
		}
		path = p
	}

	cfg := Default()
	cfg.path = path

	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, os.ErrNotExist):
	case err != nil:
		return nil, fmt.Errorf("failed to read config: %w", err)
	default:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config: %w", err)
		}
	}

	if v := os.Getenv(EnvBaseURL); v != "" {
		cfg.BaseURL = v
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Save writes the configuration to its path.
func (c *Config) Save() error {
	if c.path == "" {
		return errors.New("config has no path")
	}
	if err := os.MkdirAll(filepath.Dir(c.path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(c.path, data, 0o600); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}

// SaveTo writes the configuration to path, which becomes its path.
func (c *Config) SaveTo(path string) error {
	c.path = path
	return c.Save()
}

// Path returns the config file path.
func (c *Config) Path() string { return c.path }

// Validate checks the configuration for values the client cannot work with.
func (c *Config) Validate() error {
	var errs []error

	if strings.TrimSpace(c.BaseURL) == "" {
		errs = append(errs, errors.New("base_url must not be empty"))
	}
	if c.Timeout < 0 {
		errs = append(errs, errors.New("timeout must not be negative"))
	}
	if c.MaxRetries < 0 {
		errs = append(errs, errors.New("max_retries must not be negative"))
	}
	if c.ThinkingDelay < 0 {
		errs = append(errs, errors.New("thinking_delay must not be negative"))
	}
	if c.Upload.Concurrency < 1 {
		errs = append(errs, errors.New("upload.concurrency must be at least 1"))
	}
	if len(c.Upload.AllowedExtensions) == 0 {
		errs = append(errs, errors.New("upload.allowed_extensions must not be empty"))
	}
	if c.Upload.MaxFileSizeMB <= 0 {
		errs = append(errs, errors.New("upload.max_file_size_mb must be positive"))
	}
	switch c.Upload.Target {
	case TargetHTTP, TargetMemory:
	case TargetS3:
		if c.S3.Bucket == "" {
			errs = append(errs, errors.New("s3.bucket is required for the s3 upload target"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown upload.target %q", c.Upload.Target))
	}
	if _, err := logging.ParseLevel(c.Log.Level); err != nil {
		errs = append(errs, err)
	}
	switch c.Log.Format {
	case "", "text", "json":
	default:
		errs = append(errs, fmt.Errorf("unknown log.format %q", c.Log.Format))
	}

	if len(errs) > 0 {
		return fmt.Errorf("invalid config: %w", errors.Join(errs...))
	}
	return nil
}

// RequestTimeout returns Timeout as a duration.
func (c *Config) RequestTimeout() time.Duration {
	return time.Duration(c.Timeout) * time.Second
}

// ThinkingDelayDuration returns ThinkingDelay as a duration.
func (c *Config) ThinkingDelayDuration() time.Duration {
	return time.Duration(c.ThinkingDelay) * time.Millisecond
}

// Logger builds the configured logger.
func (c *Config) Logger() *logging.ClientLogger {
	level, _ := logging.ParseLevel(c.Log.Level)
	return logging.NewSlogLogger(level, c.Log.Format, false)
}
