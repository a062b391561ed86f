package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	t.Setenv(EnvBaseURL, "")
	path := filepath.Join(t.TempDir(), "missing.yaml")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, Default().BaseURL, cfg.BaseURL)
	assert.Equal(t, 3, cfg.Upload.Concurrency)
	assert.Equal(t, []string{".pdf"}, cfg.Upload.AllowedExtensions)
	assert.Equal(t, 50, cfg.Upload.MaxFileSizeMB)
	assert.Equal(t, 30*time.Second, cfg.RequestTimeout())
	assert.Equal(t, 500*time.Millisecond, cfg.ThinkingDelayDuration())
	assert.Equal(t, path, cfg.Path())
}

func TestLoad_File(t *testing.T) {
	t.Setenv(EnvBaseURL, "")
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
base_url: http://rag.internal:5000
timeout: 10
thinking_delay: 0
upload:
  concurrency: 5
  allowed_extensions: [".pdf", ".docx"]
  target: s3
s3:
  bucket: docs
  prefix: uploads
log:
  level: debug
  format: json
`), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "http://rag.internal:5000", cfg.BaseURL)
	assert.Equal(t, 10*time.Second, cfg.RequestTimeout())
	assert.Equal(t, time.Duration(0), cfg.ThinkingDelayDuration())
	assert.Equal(t, 5, cfg.Upload.Concurrency)
	assert.Equal(t, []string{".pdf", ".docx"}, cfg.Upload.AllowedExtensions)
	assert.Equal(t, 50, cfg.Upload.MaxFileSizeMB)
	assert.Equal(t, TargetS3, cfg.Upload.Target)
	assert.Equal(t, "docs", cfg.S3.Bucket)
	assert.Equal(t, 2, cfg.MaxRetries)
	assert.NotNil(t, cfg.Logger())
}

func TestLoad_EnvOverride(t *testing.T) {
	t.Setenv(EnvBaseURL, "http://from-env:8080")

	cfg, err := Load(filepath.Join(t.TempDir(), "none.yaml"))
	require.NoError(t, err)
	assert.Equal(t, "http://from-env:8080", cfg.BaseURL)
}

func TestLoad_Invalid(t *testing.T) {
	t.Setenv(EnvBaseURL, "")
	dir := t.TempDir()

	bad := filepath.Join(dir, "bad.yaml")
	require.NoError(t, os.WriteFile(bad, []byte("upload: [not, a, map"), 0o600))
	_, err := Load(bad)
	assert.ErrorContains(t, err, "failed to parse config")

	invalid := filepath.Join(dir, "invalid.yaml")
	require.NoError(t, os.WriteFile(invalid, []byte("upload:\n  concurrency: 0\n"), 0o600))
	_, err = Load(invalid)
	assert.ErrorContains(t, err, "upload.concurrency")
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(c *Config)
		want   string
	}{
		{name: "defaults", mutate: func(*Config) {}},
		{name: "empty extensions", mutate: func(c *Config) { c.Upload.AllowedExtensions = nil }, want: "allowed_extensions"},
		{name: "size", mutate: func(c *Config) { c.Upload.MaxFileSizeMB = 0 }, want: "max_file_size_mb"},
		{name: "s3 without bucket", mutate: func(c *Config) { c.Upload.Target = TargetS3 }, want: "s3.bucket"},
		{name: "unknown target", mutate: func(c *Config) { c.Upload.Target = "ftp" }, want: "upload.target"},
		{name: "log level", mutate: func(c *Config) { c.Log.Level = "loud" }, want: "log level"},
		{name: "log format", mutate: func(c *Config) { c.Log.Format = "xml" }, want: "log.format"},
		{name: "negative delay", mutate: func(c *Config) { c.ThinkingDelay = -1 }, want: "thinking_delay"},
		{name: "base url", mutate: func(c *Config) { c.BaseURL = " " }, want: "base_url"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.want == "" {
				assert.NoError(t, err)
				return
			}
			assert.ErrorContains(t, err, tt.want)
		})
	}
}

func TestSaveRoundTrip(t *testing.T) {
	t.Setenv(EnvBaseURL, "")
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")

	cfg, err := Load(path)
	require.NoError(t, err)
	cfg.Upload.Concurrency = 7
	require.NoError(t, cfg.Save())

	again, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 7, again.Upload.Concurrency)

	assert.Error(t, Default().Save())
}

func TestSaveTo(t *testing.T) {
	t.Setenv(EnvBaseURL, "")
	path := filepath.Join(t.TempDir(), "config.yaml")

	cfg := Default()
	cfg.BaseURL = "http://rag:9000"
	require.NoError(t, cfg.SaveTo(path))
	assert.Equal(t, path, cfg.Path())

	again, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "http://rag:9000", again.BaseURL)
}
