// Package main provides the ragstream CLI tool.
//
// Usage:
//
//	ragstream [flags] <command> [args]
//
// Commands:
//
//	ask      - Ask a question and stream the answer
//	upload   - Upload documents in batches
//	file     - Document management (list, status, info, rename, delete)
//	session  - Server-side conversation sessions
//	health   - Backend health check
//	config   - Configuration management
//
// Configuration:
//
//	The CLI reads ~/.ragstream/config.yaml. Use 'ragstream config init'
//	to write the defaults.
package main

import (
	"fmt"
	"os"

	"github.com/hupe1980/ragstream/cmd/ragstream/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
