// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package tool

import (
	"context"
	"encoding/hex"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/bureau-foundation/bencode/cmd/bencode/cli"
	"github.com/bureau-foundation/bencode/lib/bencode"
	"github.com/bureau-foundation/bencode/lib/transcode"
	"github.com/spf13/pflag"
)

// diagParams holds the parameters for the "bencode diag" command.
type diagParams struct {
	SourceFlags
	Width int  `flag:"width,w" desc:"show at most this many bytes of each byte string (0 for all)" default:"32"`
	CBOR  bool `flag:"cbor" desc:"print the CBOR diagnostic notation of the converted document instead"`
}

func diagCommand() *cli.Command {
	var params diagParams

	return &cli.Command{
		Name:    "diag",
		Summary: "Show the structure of bencoded data with byte offsets",
		Description: `Read bencoded data and print one line per value, indented by
nesting depth and prefixed with the value's byte offset.

Unlike JSON output, the tree preserves the wire representation: the
declared length of each byte string, integer signs, the position of
each container's terminating 'e', and dictionary keys in wire order
even when they are unsorted. Text is shown quoted, binary as h'..'.

With --cbor, the document is converted to CBOR (as "bencode decode -f
cbor" would) and printed in CBOR diagnostic notation.`,
		Usage: "bencode diag [flags] [file]",
		Examples: []cli.Example{
			{
				Description: "Inspect a torrent's layout",
				Command:     "bencode diag ubuntu.torrent",
			},
			{
				Description: "Inspect a hex dump without truncating strings",
				Command:     "echo '64313a61693165' | bencode diag --hex --width 0",
			},
		},
		Flags: func() *pflag.FlagSet {
			return cli.FlagsFromParams("diag", &params)
		},
		Run: func(ctx context.Context, args []string, logger *slog.Logger) error {
			data, remainingArgs, err := params.Read(args, logger)
			if err != nil {
				return err
			}
			if err := noPositional("diag", remainingArgs); err != nil {
				return err
			}
			if params.CBOR {
				return diagCBOR(data, stdout)
			}
			if params.Width < 0 {
				return cli.Validation("--width must not be negative")
			}
			return diagDocument(data, stdout, params.Width)
		},
	}
}

// diagDocument writes the annotated tree of every value in data.
// Concatenated values are printed one after another.
func diagDocument(data []byte, w io.Writer, width int) error {
	printer := &diagPrinter{w: w, width: width, offsetWidth: len(strconv.Itoa(len(data)))}
	decoder := bencode.NewDecoder(data)
	for decoder.Remaining() > 0 {
		if err := printer.value(decoder, 0, ""); err != nil {
			return cli.Validation("diagnose bencode: %w", err)
		}
	}
	return printer.err
}

// diagCBOR writes the CBOR diagnostic notation of the single value in
// data.
func diagCBOR(data []byte, w io.Writer) error {
	value, err := decodeDocument(data, bencode.DecOptions{Behavior: bencode.Auto}, false)
	if err != nil {
		return err
	}
	encoded, err := transcode.MarshalCBOR(value)
	if err != nil {
		return cli.Validation("%w", err)
	}
	notation, err := transcode.DiagnoseCBOR(encoded)
	if err != nil {
		return cli.Internal("%w", err)
	}
	_, err = fmt.Fprintln(w, notation)
	return err
}

type diagPrinter struct {
	w           io.Writer
	width       int
	offsetWidth int
	err         error
}

// value decodes and prints the next value. label prefixes the line
// (a dictionary key).
func (p *diagPrinter) value(decoder *bencode.Decoder, depth int, label string) error {
	visitor := &diagVisitor{
		UnexpectedVisitor: bencode.UnexpectedVisitor{Expecting: "bencode value"},
		printer:           p,
		decoder:           decoder,
		offset:            decoder.Offset(),
		depth:             depth,
		label:             label,
	}
	return decoder.DecodeShape(bencode.AnyShape, visitor)
}

func (p *diagPrinter) line(offset, depth int, label, text string) {
	if p.err != nil {
		return
	}
	_, p.err = fmt.Fprintf(p.w, "%*d  %s%s%s\n", p.offsetWidth, offset, strings.Repeat("  ", depth), label, text)
}

// byteString renders a byte string: quoted text when it is valid
// UTF-8, h'..' otherwise, truncated to the configured width.
func (p *diagPrinter) byteString(data []byte) string {
	shown := data
	if p.width > 0 && len(shown) > p.width {
		shown = shown[:p.width]
	}
	var text string
	if utf8.Valid(data) {
		text = strconv.Quote(string(shown))
	} else {
		text = "h'" + hex.EncodeToString(shown) + "'"
	}
	if len(shown) < len(data) {
		text += fmt.Sprintf(" ... (+%d bytes)", len(data)-len(shown))
	}
	return text
}

type diagVisitor struct {
	bencode.UnexpectedVisitor
	printer *diagPrinter
	decoder *bencode.Decoder
	offset  int
	depth   int
	label   string
}

func (v *diagVisitor) VisitInt(n int64) error {
	v.printer.line(v.offset, v.depth, v.label, fmt.Sprintf("int %d", n))
	return nil
}

func (v *diagVisitor) VisitUint(n uint64) error {
	v.printer.line(v.offset, v.depth, v.label, fmt.Sprintf("int %d", n))
	return nil
}

func (v *diagVisitor) VisitText(s []byte) error {
	v.printer.line(v.offset, v.depth, v.label, fmt.Sprintf("str(%d) %s", len(s), v.printer.byteString(s)))
	return nil
}

func (v *diagVisitor) VisitBytes(b []byte) error {
	v.printer.line(v.offset, v.depth, v.label, fmt.Sprintf("str(%d) %s", len(b), v.printer.byteString(b)))
	return nil
}

func (v *diagVisitor) VisitList(list *bencode.ListAccess) error {
	v.printer.line(v.offset, v.depth, v.label, "list")
	count := 0
	for {
		more, err := list.Next()
		if err != nil {
			return err
		}
		if !more {
			break
		}
		if err := v.printer.value(list.Decoder(), v.depth+1, ""); err != nil {
			return err
		}
		count++
	}
	v.printer.line(v.decoder.Offset()-1, v.depth, "", fmt.Sprintf("end (%d %s)", count, plural(count, "element", "elements")))
	return nil
}

func (v *diagVisitor) VisitDict(dict *bencode.DictAccess) error {
	v.printer.line(v.offset, v.depth, v.label, "dict")
	count := 0
	for {
		more, err := dict.Next()
		if err != nil {
			return err
		}
		if !more {
			break
		}
		key, err := dict.Key()
		if err != nil {
			return err
		}
		if err := v.printer.value(dict.Decoder(), v.depth+1, v.printer.byteString(key)+": "); err != nil {
			return err
		}
		count++
	}
	v.printer.line(v.decoder.Offset()-1, v.depth, "", fmt.Sprintf("end (%d %s)", count, plural(count, "entry", "entries")))
	return nil
}

func plural(count int, singular, many string) string {
	if count == 1 {
		return singular
	}
	return many
}
