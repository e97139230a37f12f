// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package tool

import (
	"bytes"
	"fmt"
	"io"
	"os"

	"github.com/alecthomas/chroma/v2/quick"
	"github.com/bureau-foundation/bencode/cmd/bencode/cli"
	"github.com/bureau-foundation/bencode/lib/config"
	"github.com/bureau-foundation/bencode/lib/transcode"
	"github.com/spf13/pflag"
)

// stdout is replaced in tests.
var stdout io.Writer = os.Stdout

// OutputFlags select how a decoded document is printed. Empty values
// defer to the config file's output section.
type OutputFlags struct {
	Format  string
	Color   string
	Compact bool
}

// AddFlags implements [cli.FlagBinder].
func (o *OutputFlags) AddFlags(flagSet *pflag.FlagSet) {
	flagSet.StringVarP(&o.Format, "format", "f", "", "output format: json, yaml, or cbor (default from config)")
	flagSet.StringVar(&o.Color, "color", "", "colorize output: auto, always, or never (default from config)")
	flagSet.BoolVarP(&o.Compact, "compact", "c", false, "compact JSON output (no indentation)")
}

// documentWriter prints bencode value trees in one output format.
type documentWriter struct {
	format  transcode.Format
	compact bool
	color   bool
}

// newDocumentWriter merges the flags over the config's output section.
// Color is only ever applied to text formats.
func newDocumentWriter(flags OutputFlags, output config.OutputConfig, out io.Writer) (*documentWriter, error) {
	formatName := output.Format
	if flags.Format != "" {
		formatName = flags.Format
	}
	format, err := transcode.ParseFormat(formatName)
	if err != nil {
		return nil, cli.Validation("%w", err)
	}
	if format == transcode.JSONC {
		format = transcode.JSON
	}

	colorMode := output.Color
	if flags.Color != "" {
		colorMode = flags.Color
	}
	color, err := useColor(colorMode, out)
	if err != nil {
		return nil, err
	}

	return &documentWriter{
		format:  format,
		compact: flags.Compact || output.Compact,
		color:   color && format != transcode.CBOR,
	}, nil
}

// useColor resolves a color mode. "auto" colors terminals unless
// NO_COLOR is set.
func useColor(mode string, out io.Writer) (bool, error) {
	switch mode {
	case "always":
		return true, nil
	case "never":
		return false, nil
	case "auto", "":
		file, ok := out.(*os.File)
		return ok && os.Getenv("NO_COLOR") == "" && cli.IsTerminal(file), nil
	default:
		return false, cli.Validation("unknown color mode %q (want auto, always, or never)", mode)
	}
}

// write prints value to w.
func (d *documentWriter) write(w io.Writer, value any) error {
	var buffer bytes.Buffer
	switch d.format {
	case transcode.JSON:
		if err := transcode.WriteJSON(&buffer, value, d.compact); err != nil {
			return cli.Validation("%w", err)
		}
	case transcode.YAML:
		if err := transcode.WriteYAML(&buffer, value); err != nil {
			return cli.Validation("%w", err)
		}
	case transcode.CBOR:
		data, err := transcode.MarshalCBOR(value)
		if err != nil {
			return cli.Validation("%w", err)
		}
		_, err = w.Write(data)
		return err
	default:
		return cli.Internal("no writer for format %q", d.format)
	}

	if d.color {
		return highlight(w, buffer.String(), string(d.format))
	}
	_, err := w.Write(buffer.Bytes())
	return err
}

// highlight writes source through chroma's terminal formatter.
func highlight(w io.Writer, source, language string) error {
	if err := quick.Highlight(w, source, language, "terminal256", "monokai"); err != nil {
		return fmt.Errorf("highlight %s: %w", language, err)
	}
	return nil
}
