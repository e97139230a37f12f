// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package tool

import (
	"bytes"
	"encoding/hex"
	"io"
	"log/slog"
	"os"
	"unicode"

	"github.com/bureau-foundation/bencode/cmd/bencode/cli"
	"github.com/bureau-foundation/bencode/lib/compress"
	"github.com/bureau-foundation/bencode/lib/config"
	"github.com/spf13/pflag"
)

// stdin is replaced in tests.
var stdin io.Reader = os.Stdin

// SourceFlags are the input flags every reading command shares. It
// binds its own flags so the same names and help text appear on each
// command.
type SourceFlags struct {
	ConfigPath string
	Hex        bool
}

// AddFlags implements [cli.FlagBinder].
func (s *SourceFlags) AddFlags(flagSet *pflag.FlagSet) {
	flagSet.StringVar(&s.ConfigPath, "config", "", "config file (default: $"+config.EnvVar+", else built-in defaults)")
	flagSet.BoolVarP(&s.Hex, "hex", "x", false, "treat input as hex-encoded bencode")
}

// Config loads the configuration the flags select.
func (s *SourceFlags) Config() (*config.Config, error) {
	return loadConfig(s.ConfigPath)
}

// Read resolves the input and returns it with the consumed file path
// removed from args.
func (s *SourceFlags) Read(args []string, logger *slog.Logger) ([]byte, []string, error) {
	return readInput(args, s.Hex, logger)
}

// loadConfig loads path, or the file BENCODE_CONFIG names, or falls
// back to the defaults when neither is set.
func loadConfig(path string) (*config.Config, error) {
	var (
		cfg *config.Config
		err error
	)
	switch {
	case path != "":
		cfg, err = config.LoadFile(path)
	case os.Getenv(config.EnvVar) != "":
		cfg, err = config.Load()
	default:
		return config.Default(), nil
	}
	if err != nil {
		return nil, cli.Validation("loading config: %w", err)
	}
	return cfg, nil
}

// readInput resolves input data from either a file (the last element
// of args, if it names a regular file on disk) or stdin.
//
// When hexMode is true, the raw bytes are treated as hex-encoded
// bencode: whitespace is stripped and the hex is decoded to binary.
// A zstd or LZ4 frame around the data is then removed.
//
// Returns the input bytes and the args with any consumed file path
// removed. The caller is responsible for validating that the returned
// args are acceptable.
func readInput(args []string, hexMode bool, logger *slog.Logger) ([]byte, []string, error) {
	var data []byte
	remainingArgs := args
	source := "stdin"

	if length := len(args); length > 0 {
		candidate := args[length-1]
		info, err := os.Stat(candidate)
		if err == nil && !info.IsDir() {
			data, err = os.ReadFile(candidate)
			if err != nil {
				return nil, nil, cli.Internal("read %s: %w", candidate, err)
			}
			remainingArgs = args[:length-1]
			source = candidate
		}
	}

	if data == nil {
		var err error
		data, err = io.ReadAll(stdin)
		if err != nil {
			return nil, nil, cli.Internal("read stdin: %w", err)
		}
	}

	if hexMode {
		decoded, err := decodeHexInput(data)
		if err != nil {
			return nil, nil, err
		}
		data = decoded
	}

	decompressed, algorithm, err := compress.Decompress(data)
	if err != nil {
		return nil, nil, cli.Validation("%s: %w", source, err)
	}
	if algorithm != compress.None {
		logger.Debug("decompressed input", "input", source, "compression", algorithm.String(),
			"compressed_bytes", len(data), "bytes", len(decompressed))
	}

	if len(decompressed) == 0 {
		return nil, nil, cli.Validation("empty input: expected data on stdin or a file argument")
	}
	return decompressed, remainingArgs, nil
}

// decodeHexInput strips whitespace from hex-encoded input and decodes
// it to binary bytes. Whitespace between hex digit pairs is allowed
// (e.g., "64 31 3a 61 69 31 65 65" or "64313a61693165").
func decodeHexInput(data []byte) ([]byte, error) {
	cleaned := bytes.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, data)

	if len(cleaned) == 0 {
		return nil, cli.Validation("empty input after stripping whitespace from hex")
	}

	decoded := make([]byte, hex.DecodedLen(len(cleaned)))
	count, err := hex.Decode(decoded, cleaned)
	if err != nil {
		return nil, cli.Validation("decode hex: %w", err)
	}
	return decoded[:count], nil
}

// noPositional rejects leftover positional arguments.
func noPositional(command string, args []string) error {
	if len(args) > 0 {
		return cli.Validation("%s takes no positional arguments besides an optional file path, got %q", command, args[0])
	}
	return nil
}
