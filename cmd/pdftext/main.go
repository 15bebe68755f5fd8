package main

import (
	"fmt"
	"os"
)

// Set with -ldflags "-X main.version=..."
var (
	version   = "dev"
	gitCommit = "none"
	buildTime = "unknown"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
