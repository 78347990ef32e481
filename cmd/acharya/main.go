// Package main is the entry point of the acharya command-line client.
//
// acharya keeps a local view of a student registration API in sync with
// the server: it lists, searches, registers, edits and deletes students.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/acharya/acharya/internal/interface/cli"
)

// Set via -ldflags at build time.
var version = "dev"

// ══════════════════════════════════════════════════════════════════════════════
// MAIN
// ══════════════════════════════════════════════════════════════════════════════

func main() {
	// Cancel in-flight requests on ctrl+c or SIGTERM
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		stop()
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string) error {
	cli.Version = version
	return cli.Execute(ctx, args, cli.StdIO())
}
