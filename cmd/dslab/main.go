// Package main is the entry point for the dslab CLI.
//
// dslab provisions self-contained data science workspaces on AWS: a security
// group, an SSH key pair, a fleet of notebook instances, and a shared S3
// bucket, deployed as one unit with automatic rollback on failure.
//
// Commands: init, deploy, cleanup, version.
//
// For detailed usage information, run:
//
//	dslab --help
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/imamik/dslab/cmd/dslab/commands"
)

// Version information set by goreleaser at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	commands.SetVersionInfo(version, commit, date)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := commands.Root().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
