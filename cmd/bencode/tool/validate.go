// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package tool

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/bureau-foundation/bencode/cmd/bencode/cli"
	"github.com/bureau-foundation/bencode/lib/bencode"
	"github.com/spf13/pflag"
)

// validateParams holds the parameters for the "bencode validate" command.
type validateParams struct {
	SourceFlags
	Quiet bool `flag:"quiet,q" desc:"print nothing; report only through the exit code"`
}

func validateCommand() *cli.Command {
	var params validateParams

	return &cli.Command{
		Name:    "validate",
		Summary: "Check whether bencoded data is in canonical form",
		Description: `Read bencoded data and verify it is canonical: integers and string
lengths without leading zeros, no "-0", and dictionary keys unique
and sorted by their raw bytes.

Exits 0 and prints "valid" for canonical input. Well-formed input that
is not canonical exits 1 with the offset of the first problem.
Malformed input, including bytes after the top-level value, exits 2.

Canonical form matters wherever a hash is taken over encoded bytes:
two encoders agree on a torrent's info hash only if both produce the
canonical encoding.`,
		Usage: "bencode validate [flags] [file]",
		Examples: []cli.Example{
			{
				Description: "Validate a torrent file",
				Command:     "bencode validate ubuntu.torrent",
			},
			{
				Description: "Check encoder output in a pipeline",
				Command:     "echo '{\"b\":1,\"a\":2}' | bencode encode --unordered | bencode validate",
			},
		},
		Flags: func() *pflag.FlagSet {
			return cli.FlagsFromParams("validate", &params)
		},
		Run: func(ctx context.Context, args []string, logger *slog.Logger) error {
			data, remainingArgs, err := params.Read(args, logger)
			if err != nil {
				return err
			}
			if err := noPositional("validate", remainingArgs); err != nil {
				return err
			}
			output := stdout
			if params.Quiet {
				output = io.Discard
			}
			return validateDocument(data, output)
		},
	}
}

// validateDocument checks data for canonical form and writes the
// verdict to w. A non-canonical document yields an [cli.ExitError]
// with code 1; malformed input yields a validation error.
func validateDocument(data []byte, w io.Writer) error {
	lenient := bencode.NewDecoder(data)
	if err := lenient.Skip(); err != nil {
		return cli.Validation("decode bencode: %w", err)
	}
	if err := lenient.Finish(); err != nil {
		return cli.Validation("decode bencode: %w", err)
	}

	// The input is well-formed, so any failure of the strict walk is
	// a canonical form violation.
	mode, err := bencode.DecOptions{Behavior: bencode.Simple, Strict: true}.DecMode()
	if err != nil {
		return cli.Internal("%w", err)
	}
	checker := &orderChecker{}
	if err := checker.value(mode.NewDecoder(data)); err != nil {
		problem := checker.problem
		if problem == "" {
			problem = err.Error()
		}
		fmt.Fprintf(w, "not canonical: %s\n", problem)
		return &cli.ExitError{Code: 1}
	}
	fmt.Fprintln(w, "valid")
	return nil
}

// errKeyOrder stops the walk at the first ordering problem.
var errKeyOrder = errors.New("dictionary keys out of order")

// orderChecker walks a document and records the first dictionary whose
// keys are not strictly increasing.
type orderChecker struct {
	problem string
}

func (c *orderChecker) value(decoder *bencode.Decoder) error {
	return decoder.DecodeShape(bencode.AnyShape, &orderVisitor{
		UnexpectedVisitor: bencode.UnexpectedVisitor{Expecting: "bencode value"},
		checker:           c,
		decoder:           decoder,
	})
}

type orderVisitor struct {
	bencode.UnexpectedVisitor
	checker *orderChecker
	decoder *bencode.Decoder
}

func (v *orderVisitor) VisitInt(int64) error    { return nil }
func (v *orderVisitor) VisitUint(uint64) error  { return nil }
func (v *orderVisitor) VisitText([]byte) error  { return nil }
func (v *orderVisitor) VisitBytes([]byte) error { return nil }

func (v *orderVisitor) VisitList(list *bencode.ListAccess) error {
	for {
		more, err := list.Next()
		if err != nil || !more {
			return err
		}
		if err := v.checker.value(list.Decoder()); err != nil {
			return err
		}
	}
}

func (v *orderVisitor) VisitDict(dict *bencode.DictAccess) error {
	var previous []byte
	first := true
	for {
		more, err := dict.Next()
		if err != nil || !more {
			return err
		}
		offset := dict.Decoder().Offset()
		key, err := dict.Key()
		if err != nil {
			return err
		}
		if !first {
			switch comparison := bytes.Compare(previous, key); {
			case comparison == 0:
				v.checker.problem = fmt.Sprintf("duplicate dictionary key %q at byte %d", key, offset)
				return errKeyOrder
			case comparison > 0:
				v.checker.problem = fmt.Sprintf("dictionary key %q at byte %d sorts before the previous key %q", key, offset, previous)
				return errKeyOrder
			}
		}
		previous, first = key, false
		if err := v.checker.value(dict.Decoder()); err != nil {
			return err
		}
	}
}
