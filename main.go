package main

import (
	"fmt"
	"os"

	"github.com/chazu/armature/cmd"
	"github.com/chazu/armature/pkg/logger"
)

// Build information injected via ldflags at build time.
var (
	version = "dev"
	commit  = "none"
)

func main() {
	// Subcommands configure their own logger from config; this covers
	// anything logged through the standard logger before that.
	if _, err := logger.Init(logger.LogOptions{}); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	cmd.SetVersion(fmt.Sprintf("%s (commit: %s)", version, commit))
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
