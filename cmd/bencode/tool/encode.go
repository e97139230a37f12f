// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package tool

import (
	"bytes"
	"context"
	"encoding/hex"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/bureau-foundation/bencode/cmd/bencode/cli"
	"github.com/bureau-foundation/bencode/lib/bencode"
	"github.com/bureau-foundation/bencode/lib/compress"
	"github.com/bureau-foundation/bencode/lib/transcode"
	"github.com/spf13/pflag"
)

// encodeParams holds the parameters for the "bencode encode" command.
type encodeParams struct {
	ConfigPath string `flag:"config" desc:"config file (default: $BENCODE_CONFIG, else built-in defaults)"`
	From       string `flag:"from" desc:"input format: json, jsonc, yaml, or cbor" default:"json"`
	Unordered  bool   `flag:"unordered" desc:"keep input key order instead of sorting dictionary keys"`
	Bool       bool   `flag:"bool" desc:"encode booleans as i1e and i0e instead of rejecting them"`
	Compress   string `flag:"compress" desc:"wrap the output in a frame: none, zstd, or lz4" default:"none"`
	Hex        bool   `flag:"hex,x" desc:"write hex instead of binary"`
	Output     string `flag:"output,o" desc:"write to a file instead of stdout"`
}

func encodeCommand() *cli.Command {
	var params encodeParams

	return &cli.Command{
		Name:    "encode",
		Summary: "Convert JSON, YAML, or CBOR to bencode",
		Description: `Read a document and write the equivalent bencode.

Dictionary keys are sorted by their raw bytes unless --unordered is
given or the config disables canonical output. Integers must be whole
numbers; any floating point value is an error. A null dictionary value
drops its key in canonical output.

Binary data is written in JSON as {"$hex": "..."} and binary keys as
"$hex:<hex>", matching "bencode decode" output, so decode and encode
round-trip exactly.`,
		Usage: "bencode encode [flags] [file]",
		Examples: []cli.Example{
			{
				Description: "Encode a JSON object",
				Command:     "echo '{\"b\": 1, \"a\": \"x\"}' | bencode encode",
			},
			{
				Description: "Edit a torrent as YAML and write it back",
				Command:     "bencode decode -f yaml a.torrent > a.yaml && bencode encode --from yaml -o a.torrent a.yaml",
			},
			{
				Description: "Compress the output with zstd",
				Command:     "bencode encode --compress zstd state.json > state.bencode.zst",
			},
		},
		Flags: func() *pflag.FlagSet {
			return cli.FlagsFromParams("encode", &params)
		},
		Run: func(ctx context.Context, args []string, logger *slog.Logger) error {
			cfg, err := loadConfig(params.ConfigPath)
			if err != nil {
				return err
			}
			data, remainingArgs, err := readInput(args, false, logger)
			if err != nil {
				return err
			}
			if err := noPositional("encode", remainingArgs); err != nil {
				return err
			}

			format, err := transcode.ParseFormat(params.From)
			if err != nil {
				return cli.Validation("--from: %w", err)
			}
			algorithm, err := compress.ParseAlgorithm(params.Compress)
			if err != nil {
				return cli.Validation("--compress: %w", err)
			}
			options := cfg.EncOptions()
			if params.Unordered {
				options.Canonical = false
			}
			if params.Bool {
				options.Bool = true
			}

			encoded, err := encodeDocument(data, format, options)
			if err != nil {
				return err
			}
			logger.Debug("encoded document", "from", string(format), "bytes", len(encoded),
				"canonical", options.Canonical, "compression", algorithm.String())

			if params.Output == "" {
				return writeEncoded(stdout, encoded, algorithm, params.Hex)
			}
			return writeEncodedFile(params.Output, encoded, algorithm, params.Hex)
		},
	}
}

// encodeDocument parses data in format and encodes the result.
func encodeDocument(data []byte, format transcode.Format, options bencode.EncOptions) ([]byte, error) {
	value, err := transcode.Parse(format, data)
	if err != nil {
		return nil, cli.Validation("%w", err)
	}
	mode, err := options.EncMode()
	if err != nil {
		return nil, cli.Validation("%w", err)
	}
	encoded, err := mode.Marshal(value)
	if err != nil {
		return nil, cli.Validation("encode bencode: %w", err)
	}
	return encoded, nil
}

// writeEncoded writes encoded to w, compressed and then hex-encoded as
// requested.
func writeEncoded(w io.Writer, encoded []byte, algorithm compress.Algorithm, hexOutput bool) error {
	var framed bytes.Buffer
	writer, err := compress.NewWriter(&framed, algorithm)
	if err != nil {
		return cli.Internal("%w", err)
	}
	if _, err := writer.Write(encoded); err != nil {
		return cli.Internal("compress output: %w", err)
	}
	if err := writer.Close(); err != nil {
		return cli.Internal("compress output: %w", err)
	}

	if hexOutput {
		_, err = fmt.Fprintln(w, hex.EncodeToString(framed.Bytes()))
	} else {
		_, err = w.Write(framed.Bytes())
	}
	if err != nil {
		return cli.Internal("write output: %w", err)
	}
	return nil
}

// writeEncodedFile writes to path through a temporary file renamed into
// place, so a failed encode never truncates an existing file.
func writeEncodedFile(path string, encoded []byte, algorithm compress.Algorithm, hexOutput bool) error {
	var buffer bytes.Buffer
	if err := writeEncoded(&buffer, encoded, algorithm, hexOutput); err != nil {
		return err
	}
	temporary := path + ".tmp"
	if err := os.WriteFile(temporary, buffer.Bytes(), 0o644); err != nil {
		return cli.Internal("write %s: %w", temporary, err)
	}
	if err := os.Rename(temporary, path); err != nil {
		os.Remove(temporary)
		return cli.Internal("rename %s: %w", temporary, err)
	}
	return nil
}
