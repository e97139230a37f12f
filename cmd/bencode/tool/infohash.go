// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package tool

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"text/tabwriter"

	"github.com/bureau-foundation/bencode/cmd/bencode/cli"
	"github.com/bureau-foundation/bencode/lib/bencode"
	"github.com/bureau-foundation/bencode/lib/infohash"
	"github.com/spf13/pflag"
)

// infohashParams holds the parameters for the "bencode infohash" command.
type infohashParams struct {
	SourceFlags
	Algorithms []string `flag:"algo,a" desc:"digest algorithms: sha1, sha256, blake3, blake2b" default:"sha1"`
	Key        string   `flag:"key,k" desc:"top-level dictionary key to hash; empty hashes the whole document" default:"info"`
	Check      string   `flag:"check" desc:"compare with this hex digest and exit 1 on mismatch (one algorithm only)"`
}

func infohashCommand() *cli.Command {
	var params infohashParams

	return &cli.Command{
		Name:    "infohash",
		Summary: "Hash the raw bytes of a torrent's info dictionary",
		Description: `Digest the info dictionary exactly as it appears in the input.

The hash covers the original encoded bytes of the value under --key
(default "info"), not a re-encoding, so non-canonical torrents hash
the way every other client hashes them. SHA-1 gives the BitTorrent v1
info hash and SHA-256 the v2 hash.

With one algorithm the digest is printed alone; with several, each
line is "<algorithm>  <digest>". With --check, prints "ok" when the
digest matches and exits 1 otherwise.`,
		Usage: "bencode infohash [flags] [file]",
		Examples: []cli.Example{
			{
				Description: "Print the v1 info hash",
				Command:     "bencode infohash ubuntu.torrent",
			},
			{
				Description: "Print v1 and v2 hashes",
				Command:     "bencode infohash -a sha1,sha256 hybrid.torrent",
			},
			{
				Description: "Verify a torrent against a magnet link's hash",
				Command:     "bencode infohash --check 3f19b149f53a50e14fc0b79926a391896eabab6f ubuntu.torrent",
			},
			{
				Description: "Hash a whole document",
				Command:     "bencode infohash --key '' --algo blake3 state.bencode",
			},
		},
		Flags: func() *pflag.FlagSet {
			return cli.FlagsFromParams("infohash", &params)
		},
		Run: func(ctx context.Context, args []string, logger *slog.Logger) error {
			data, remainingArgs, err := params.Read(args, logger)
			if err != nil {
				return err
			}
			if err := noPositional("infohash", remainingArgs); err != nil {
				return err
			}
			algorithms, err := parseAlgorithms(params.Algorithms)
			if err != nil {
				return err
			}
			raw, err := extractRaw(data, params.Key)
			if err != nil {
				return err
			}
			logger.Debug("hashing raw value", "key", params.Key, "bytes", len(raw))
			if params.Check != "" {
				return checkDigest(stdout, raw, algorithms, params.Check)
			}
			return writeDigests(stdout, raw, algorithms)
		},
	}
}

func parseAlgorithms(names []string) ([]infohash.Algorithm, error) {
	if len(names) == 0 {
		return nil, cli.Validation("--algo needs at least one algorithm")
	}
	algorithms := make([]infohash.Algorithm, 0, len(names))
	for _, name := range names {
		algorithm, err := infohash.ParseAlgorithm(name)
		if err != nil {
			return nil, cli.Validation("--algo: %w", err)
		}
		algorithms = append(algorithms, algorithm)
	}
	return algorithms, nil
}

// extractRaw returns the encoded bytes of the value under key in the
// top-level dictionary, or of the whole document when key is empty.
func extractRaw(data []byte, key string) (bencode.RawMessage, error) {
	decoder := bencode.NewDecoder(data)
	var raw bencode.RawMessage

	if key == "" {
		if err := decoder.Decode(&raw); err != nil {
			return nil, cli.Validation("decode bencode: %w", err)
		}
	} else {
		found := false
		err := decoder.DecodeDictFunc(func(entryKey []byte, value *bencode.Decoder) error {
			if found || string(entryKey) != key {
				return value.Skip()
			}
			found = true
			return value.Decode(&raw)
		})
		if err != nil {
			return nil, cli.Validation("decode bencode: %w", err)
		}
		if !found {
			return nil, cli.Validation("top-level dictionary has no %q key", key).
				WithHint("Use --key to pick another key, or --key '' to hash the whole document.")
		}
	}

	if err := decoder.Finish(); err != nil {
		return nil, cli.Validation("decode bencode: %w", err)
	}
	return raw, nil
}

// writeDigests prints the digest of raw under each algorithm.
func writeDigests(w io.Writer, raw []byte, algorithms []infohash.Algorithm) error {
	if len(algorithms) == 1 {
		digest, err := infohash.Sum(algorithms[0], raw)
		if err != nil {
			return cli.Internal("%w", err)
		}
		_, err = fmt.Fprintln(w, infohash.Format(digest))
		return err
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	for _, algorithm := range algorithms {
		digest, err := infohash.Sum(algorithm, raw)
		if err != nil {
			return cli.Internal("%w", err)
		}
		fmt.Fprintf(tw, "%s\t%s\n", algorithm, infohash.Format(digest))
	}
	return tw.Flush()
}

// checkDigest compares the digest of raw with expected. A mismatch is
// reported on w and yields an [cli.ExitError] with code 1.
func checkDigest(w io.Writer, raw []byte, algorithms []infohash.Algorithm, expected string) error {
	if len(algorithms) != 1 {
		return cli.Validation("--check needs exactly one --algo, got %d", len(algorithms))
	}
	want, err := infohash.Parse(algorithms[0], expected)
	if err != nil {
		return cli.Validation("--check: %w", err)
	}
	got, err := infohash.Sum(algorithms[0], raw)
	if err != nil {
		return cli.Internal("%w", err)
	}
	if !bytes.Equal(got, want) {
		fmt.Fprintf(w, "mismatch: got %s\n", infohash.Format(got))
		return &cli.ExitError{Code: 1}
	}
	_, err = fmt.Fprintln(w, "ok")
	return err
}
