// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package tool

import (
	"context"
	"log/slog"

	"github.com/bureau-foundation/bencode/cmd/bencode/cli"
	"github.com/spf13/pflag"
)

// rootParams holds the parameters for the top-level "bencode" command.
// The root has both Subcommands and a Run fallback. When the first
// positional argument matches a subcommand, the framework routes
// there. Otherwise Run handles it: no args means decode to JSON;
// anything else is a jq filter expression.
type rootParams struct {
	SourceFlags
	Compact   bool `flag:"compact,c" desc:"compact output (no indentation)"`
	RawOutput bool `flag:"raw-output,r" desc:"raw string output (passed to jq)"`
	Slurp     bool `flag:"slurp,s" desc:"read concatenated values as a list"`
}

// Root returns the "bencode" command tree.
func Root() *cli.Command {
	var params rootParams

	return &cli.Command{
		Name:    "bencode",
		Summary: "Inspect, convert, and validate bencoded data",
		Description: `Tools for working with bencode from the command line.

With no arguments, decodes bencode on stdin to pretty-printed JSON on
stdout (equivalent to "bencode decode").

When the first argument is not a subcommand name, it is treated as a
jq filter expression. The input is decoded to JSON internally and
piped through jq. Common jq flags (-c, -r, -s) are supported and
passed through.

All commands that read bencode accept an optional trailing file path.
With --hex, input is hex-encoded rather than raw binary. zstd and LZ4
compressed input is detected and decompressed automatically.`,
		Subcommands: []*cli.Command{
			decodeCommand(),
			encodeCommand(),
			diagCommand(),
			validateCommand(),
			infohashCommand(),
			torrentCommand(),
			versionCommand(),
		},
		Flags: func() *pflag.FlagSet {
			return cli.FlagsFromParams("bencode", &params)
		},
		Run: func(ctx context.Context, args []string, logger *slog.Logger) error {
			cfg, err := params.Config()
			if err != nil {
				return err
			}
			data, remainingArgs, err := params.Read(args, logger)
			if err != nil {
				return err
			}
			options, err := decodeOptions(cfg, "", false)
			if err != nil {
				return err
			}

			if len(remainingArgs) == 0 {
				writer, err := newDocumentWriter(OutputFlags{Format: "json", Compact: params.Compact}, cfg.Output, stdout)
				if err != nil {
					return err
				}
				value, err := decodeDocument(data, options, params.Slurp)
				if err != nil {
					return err
				}
				return writer.write(stdout, value)
			}

			var jqArgs []string
			if params.Compact {
				jqArgs = append(jqArgs, "-c")
			}
			if params.RawOutput {
				jqArgs = append(jqArgs, "-r")
			}
			jqArgs = append(jqArgs, remainingArgs...)
			logger.Debug("filtering through jq", "filter", remainingArgs[0])

			return filterDocument(ctx, cfg, data, options, params.Slurp, jqArgs, stdout, stderr)
		},
		Examples: []cli.Example{
			{
				Description: "Decode bencode to pretty JSON",
				Command:     "bencode < state.bencode",
			},
			{
				Description: "Extract a field with jq",
				Command:     "bencode '.info.name' ubuntu.torrent",
			},
			{
				Description: "Raw string output from a jq filter",
				Command:     "bencode -r '.announce' ubuntu.torrent",
			},
			{
				Description: "Decode hex-encoded bencode",
				Command:     "echo '64313a61693165' | bencode --hex",
			},
			{
				Description: "Round-trip: encode then decode",
				Command:     "echo '{\"count\":42}' | bencode encode | bencode decode",
			},
			{
				Description: "Compute the info hash of a torrent",
				Command:     "bencode infohash ubuntu.torrent",
			},
		},
	}
}
