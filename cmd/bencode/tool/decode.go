// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package tool

import (
	"context"
	"log/slog"

	"github.com/bureau-foundation/bencode/cmd/bencode/cli"
	"github.com/bureau-foundation/bencode/lib/bencode"
	"github.com/bureau-foundation/bencode/lib/config"
	"github.com/spf13/pflag"
)

// decodeParams holds the parameters for the "bencode decode" command.
type decodeParams struct {
	SourceFlags
	OutputFlags
	Behavior string `flag:"behavior,b" desc:"byte string policy: auto (text when valid UTF-8) or simple (always binary)"`
	Strict   bool   `flag:"strict" desc:"reject leading zeros, -0 and '+' in integers and lengths"`
	Slurp    bool   `flag:"slurp,s" desc:"read concatenated values and output them as a list"`
}

func decodeCommand() *cli.Command {
	var params decodeParams

	return &cli.Command{
		Name:    "decode",
		Summary: "Convert bencode to JSON, YAML, or CBOR",
		Description: `Read bencoded data and write the equivalent document to stdout.

Dictionaries keep their wire order. Byte strings that are valid UTF-8
print as text under the auto behavior; everything else is binary.
Binary values appear in JSON as {"$hex": "..."} and binary dictionary
keys as "$hex:<hex>", which "bencode encode" reverses. YAML uses
!!binary and CBOR uses byte strings.

With -s, reads a stream of concatenated values and outputs them as a
list.`,
		Usage: "bencode decode [flags] [file]",
		Examples: []cli.Example{
			{
				Description: "Show a torrent as pretty JSON",
				Command:     "bencode decode ubuntu.torrent",
			},
			{
				Description: "Decode hex from a packet capture as YAML",
				Command:     "echo 'd1:ai1ee' | xxd -p | bencode decode --hex -f yaml",
			},
			{
				Description: "Treat every byte string as binary",
				Command:     "bencode decode --behavior simple peers.dat",
			},
		},
		Flags: func() *pflag.FlagSet {
			return cli.FlagsFromParams("decode", &params)
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
			if err := noPositional("decode", remainingArgs); err != nil {
				return err
			}
			options, err := decodeOptions(cfg, params.Behavior, params.Strict)
			if err != nil {
				return err
			}
			writer, err := newDocumentWriter(params.OutputFlags, cfg.Output, stdout)
			if err != nil {
				return err
			}

			value, err := decodeDocument(data, options, params.Slurp)
			if err != nil {
				return err
			}
			logger.Debug("decoded document", "bytes", len(data), "behavior", options.Behavior.String(), "format", string(writer.format))
			return writer.write(stdout, value)
		},
	}
}

// decodeOptions merges the decode flags over the config.
func decodeOptions(cfg *config.Config, behavior string, strict bool) (bencode.DecOptions, error) {
	options, err := cfg.DecOptions()
	if err != nil {
		return bencode.DecOptions{}, cli.Validation("%w", err)
	}
	if behavior != "" {
		options.Behavior, err = bencode.ParseBehavior(behavior)
		if err != nil {
			return bencode.DecOptions{}, cli.Validation("--behavior: %w", err)
		}
	}
	if strict {
		options.Strict = true
	}
	return options, nil
}

// decodeDocument decodes data into a generic value tree. The whole
// input must be one value, or with slurp any number of concatenated
// values returned as a list.
func decodeDocument(data []byte, options bencode.DecOptions, slurp bool) (any, error) {
	mode, err := options.DecMode()
	if err != nil {
		return nil, cli.Validation("%w", err)
	}
	decoder := mode.NewDecoder(data)

	if slurp {
		items := []any{}
		for decoder.Remaining() > 0 {
			value, err := decoder.DecodeAny()
			if err != nil {
				return nil, cli.Validation("decode bencode stream item %d: %w", len(items), err)
			}
			items = append(items, value)
		}
		return items, nil
	}

	value, err := decoder.DecodeAny()
	if err != nil {
		return nil, cli.Validation("decode bencode: %w", err)
	}
	if err := decoder.Finish(); err != nil {
		return nil, cli.Validation("decode bencode: %w", err)
	}
	return value, nil
}
