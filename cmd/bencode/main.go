// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Command bencode inspects, converts, and validates bencoded data.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/bureau-foundation/bencode/cmd/bencode/cli"
	"github.com/bureau-foundation/bencode/cmd/bencode/tool"
)

func main() {
	if err := run(); err != nil {
		// Commands that report through their own output (validate,
		// jq filters) return an ExitError with the desired exit code.
		// Don't print a redundant "error:" line for those.
		var exitErr *cli.ExitError
		if errors.As(err, &exitErr) {
			os.Exit(exitErr.Code)
		}
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		if coder, ok := err.(interface{ ExitCode() int }); ok {
			os.Exit(coder.ExitCode())
		}
		os.Exit(1)
	}
}

func run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return rootCommand().Execute(ctx, os.Args[1:])
}

func rootCommand() *cli.Command {
	return tool.Root()
}
