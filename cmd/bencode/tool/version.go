// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package tool

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/bureau-foundation/bencode/cmd/bencode/cli"
	"github.com/bureau-foundation/bencode/lib/infohash"
	"github.com/bureau-foundation/bencode/lib/version"
	"github.com/spf13/pflag"
)

type versionParams struct {
	Full bool `flag:"full" desc:"include Go version, platform, and a BLAKE3 digest of the binary"`
}

func versionCommand() *cli.Command {
	var params versionParams

	return &cli.Command{
		Name:    "version",
		Summary: "Print version information",
		Usage:   "bencode version [--full]",
		Flags: func() *pflag.FlagSet {
			return cli.FlagsFromParams("version", &params)
		},
		Run: func(ctx context.Context, args []string, logger *slog.Logger) error {
			if len(args) > 0 {
				return cli.Validation("version takes no arguments, got %q", args[0])
			}
			return writeVersion(stdout, params.Full)
		},
	}
}

func writeVersion(w io.Writer, full bool) error {
	if !full {
		_, err := fmt.Fprintf(w, "bencode %s\n", version.Info())
		return err
	}
	fmt.Fprintf(w, "bencode %s\n", version.Full())
	hash, binaryPath, err := version.ComputeSelfHash(infohash.BLAKE3)
	if err != nil {
		return cli.Internal("%w", err)
	}
	_, err = fmt.Fprintf(w, "  Binary: %s\n  BLAKE3: %s\n", binaryPath, hash)
	return err
}
