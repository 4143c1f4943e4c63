// Package cli provides the finsight command-line interface.
package cli

import (
	"fmt"
	"os"
)

// Version is reported by the version command and the MCP handshake.
const Version = "1.0.0"

// Run starts the CLI application
func Run() {
	rootCmd := NewRootCmd()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
