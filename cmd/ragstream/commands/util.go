package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	awss3 "github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/goccy/go-yaml"

	"github.com/hupe1980/ragstream/artifact"
	artifacts3 "github.com/hupe1980/ragstream/artifact/s3"
	"github.com/hupe1980/ragstream/client"
	"github.com/hupe1980/ragstream/config"
	"github.com/hupe1980/ragstream/logging"
	"github.com/hupe1980/ragstream/upload"
)

// createLogger builds the configured logger; --verbose forces debug output.
func createLogger(cfg *config.Config) *logging.ClientLogger {
	level, _ := logging.ParseLevel(cfg.Log.Level)
	if isVerbose() {
		level = logging.LogLevelDebug
	}
	return logging.NewSlogLogger(level, cfg.Log.Format, false)
}

// createClient creates a backend client from the configuration
func createClient(cfg *config.Config) *client.Client {
	return client.New(
		client.WithBaseURL(cfg.BaseURL),
		client.WithTimeout(cfg.RequestTimeout()),
		client.WithRetry(cfg.MaxRetries),
		client.WithLogger(createLogger(cfg).WithComponent("client")),
	)
}

// createSubmitter returns the upload destination selected by upload.target.
func createSubmitter(ctx context.Context, cfg *config.Config, c *client.Client) (upload.Submitter, error) {
	switch cfg.Upload.Target {
	case config.TargetS3:
		var opts []func(*awsconfig.LoadOptions) error
		if cfg.S3.Region != "" {
			opts = append(opts, awsconfig.WithRegion(cfg.S3.Region))
		}
		awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
		if err != nil {
			return nil, fmt.Errorf("failed to load AWS config: %w", err)
		}
		store := artifacts3.New(awss3.NewFromConfig(awsCfg), cfg.S3.Bucket, cfg.S3.Prefix)
		return upload.StoreSubmitter{Store: store, SessionID: "uploads", KeepName: true}, nil
	case config.TargetMemory:
		return upload.StoreSubmitter{Store: artifact.NewInMemoryStore(), SessionID: "uploads"}, nil
	default:
		return c.Files, nil
	}
}

// outputResult writes result as YAML, or as JSON with --json.
func outputResult(result any, outputPath string, asJSON bool) error {
	var w io.Writer = os.Stdout
	if outputPath != "" {
		f, err := os.Create(outputPath)
		if err != nil {
			return fmt.Errorf("failed to create output file: %w", err)
		}
		defer f.Close()
		w = f
	}

	if asJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(result)
	}

	data, err := yaml.Marshal(result)
	if err != nil {
		return fmt.Errorf("failed to format output: %w", err)
	}
	_, err = w.Write(data)
	return err
}

// printSuccess prints a success message
func printSuccess(format string, args ...any) {
	fmt.Printf("✓ "+format+"\n", args...)
}

// printWarning prints a warning message
func printWarning(format string, args ...any) {
	fmt.Printf("⚠ "+format+"\n", args...)
}

// printVerbose prints verbose output if enabled
func printVerbose(format string, args ...any) {
	if isVerbose() {
		fmt.Fprintf(os.Stderr, "[verbose] "+format+"\n", args...)
	}
}

// formatBytes formats bytes to human readable string
func formatBytes(n int64) string {
	const unit = 1024
	if n < unit {
		return fmt.Sprintf("%d B", n)
	}
	div, exp := int64(unit), 0
	for m := n / unit; m >= unit; m /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %cB", float64(n)/float64(div), "KMGTPE"[exp])
}
