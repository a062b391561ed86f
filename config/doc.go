// Package config loads the YAML configuration of the ragstream client.
//
// A missing file yields the defaults. The backend base URL can be overridden
// with the RAGSTREAM_BASE_URL environment variable. Durations are plain
// integers: timeout in seconds, thinking_delay in milliseconds.
//
// Example file:
//
//	base_url: http://localhost:5000
//	timeout: 30
//	thinking_delay: 500
//	upload:
//	  concurrency: 3
//	  allowed_extensions: [".pdf"]
//	  max_file_size_mb: 50
//	  target: http
//	log:
//	  level: info
//	  format: text
package config
