// ABOUTME: Entry point for the footprints CLI
// ABOUTME: Executes the root command and maps failures to a non-zero exit status

package main

import (
	"fmt"
	"os"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
