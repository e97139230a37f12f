// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package cli

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/spf13/pflag"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestCommand_Execute_DispatchesToSubcommand(t *testing.T) {
	var called string

	root := &Command{
		Name:   "bencode",
		Logger: discardLogger(),
		Subcommands: []*Command{
			{
				Name: "version",
				Run: func(ctx context.Context, args []string, logger *slog.Logger) error {
					called = "version"
					return nil
				},
			},
			{
				Name: "decode",
				Run: func(ctx context.Context, args []string, logger *slog.Logger) error {
					called = "decode"
					return nil
				},
			},
		},
	}

	if err := root.Execute(context.Background(), []string{"decode"}); err != nil {
		t.Fatalf("Execute() error: %v", err)
	}
	if called != "decode" {
		t.Errorf("dispatched to %q, want %q", called, "decode")
	}
}

func TestCommand_Execute_NestedSubcommands(t *testing.T) {
	var called string
	var receivedArgs []string

	root := &Command{
		Name:   "bencode",
		Logger: discardLogger(),
		Subcommands: []*Command{
			{
				Name: "torrent",
				Subcommands: []*Command{
					{
						Name: "show",
						Run: func(ctx context.Context, args []string, logger *slog.Logger) error {
							called = "torrent show"
							receivedArgs = args
							return nil
						},
					},
				},
			},
		},
	}

	if err := root.Execute(context.Background(), []string{"torrent", "show", "ubuntu.torrent"}); err != nil {
		t.Fatalf("Execute() error: %v", err)
	}
	if called != "torrent show" {
		t.Errorf("dispatched to %q, want %q", called, "torrent show")
	}
	if len(receivedArgs) != 1 || receivedArgs[0] != "ubuntu.torrent" {
		t.Errorf("args = %v, want [ubuntu.torrent]", receivedArgs)
	}
}

func TestCommand_Execute_ScopesLogger(t *testing.T) {
	var buffer bytes.Buffer
	root := &Command{
		Name:   "bencode",
		Logger: slog.New(slog.NewTextHandler(&buffer, nil)),
		Subcommands: []*Command{
			{
				Name: "validate",
				Run: func(ctx context.Context, args []string, logger *slog.Logger) error {
					logger.Info("checked")
					return nil
				},
			},
		},
	}

	if err := root.Execute(context.Background(), []string{"validate"}); err != nil {
		t.Fatalf("Execute() error: %v", err)
	}
	if !strings.Contains(buffer.String(), `command="bencode validate"`) {
		t.Errorf("log output %q lacks the command attribute", buffer.String())
	}
}

func TestCommand_Execute_PassesContext(t *testing.T) {
	type key struct{}
	ctx := context.WithValue(context.Background(), key{}, "marker")

	var got any
	command := &Command{
		Name:   "decode",
		Logger: discardLogger(),
		Run: func(ctx context.Context, args []string, logger *slog.Logger) error {
			got = ctx.Value(key{})
			return nil
		},
	}
	if err := command.Execute(ctx, nil); err != nil {
		t.Fatalf("Execute() error: %v", err)
	}
	if got != "marker" {
		t.Errorf("context value = %v, want marker", got)
	}
}

func TestCommand_Execute_FlagParsing(t *testing.T) {
	var algorithm string
	var target string

	command := &Command{
		Name:   "infohash",
		Logger: discardLogger(),
		Flags: func() *pflag.FlagSet {
			flagSet := pflag.NewFlagSet("infohash", pflag.ContinueOnError)
			flagSet.StringVar(&algorithm, "algo", "sha1", "hash algorithm")
			return flagSet
		},
		Run: func(ctx context.Context, args []string, logger *slog.Logger) error {
			if len(args) > 0 {
				target = args[0]
			}
			return nil
		},
	}

	if err := command.Execute(context.Background(), []string{"--algo", "sha256", "debian.torrent"}); err != nil {
		t.Fatalf("Execute() error: %v", err)
	}
	if algorithm != "sha256" {
		t.Errorf("algorithm = %q, want %q", algorithm, "sha256")
	}
	if target != "debian.torrent" {
		t.Errorf("target = %q, want %q", target, "debian.torrent")
	}
}

func TestCommand_Execute_UnknownFlagSuggestion(t *testing.T) {
	command := &Command{
		Name: "encode",
		Flags: func() *pflag.FlagSet {
			flagSet := pflag.NewFlagSet("encode", pflag.ContinueOnError)
			flagSet.Bool("unordered", false, "keep input key order")
			flagSet.String("compress", "", "compress output")
			return flagSet
		},
		Run: func(ctx context.Context, args []string, logger *slog.Logger) error { return nil },
	}

	err := command.Execute(context.Background(), []string{"--unorderd"})
	if err == nil {
		t.Fatal("Execute() = nil, want error for unknown flag")
	}
	errStr := err.Error()
	if !strings.Contains(errStr, "did you mean --unordered") {
		t.Errorf("error = %q, want suggestion for '--unordered'", errStr)
	}
	if !strings.Contains(errStr, "unorderd") {
		t.Errorf("error = %q, should mention the bad flag", errStr)
	}
	if !strings.Contains(errStr, "--help") {
		t.Errorf("error = %q, should point to --help", errStr)
	}

	var toolErr *ToolError
	if !errors.As(err, &toolErr) || toolErr.Category != CategoryValidation {
		t.Errorf("error = %#v, want a validation ToolError", err)
	}
}

func TestCommand_Execute_UnknownFlagNoSuggestion(t *testing.T) {
	command := &Command{
		Name: "encode",
		Flags: func() *pflag.FlagSet {
			flagSet := pflag.NewFlagSet("encode", pflag.ContinueOnError)
			flagSet.Bool("unordered", false, "keep input key order")
			return flagSet
		},
		Run: func(ctx context.Context, args []string, logger *slog.Logger) error { return nil },
	}

	err := command.Execute(context.Background(), []string{"--zzzzzzzzz"})
	if err == nil {
		t.Fatal("Execute() = nil, want error for unknown flag")
	}
	if strings.Contains(err.Error(), "did you mean") {
		t.Errorf("error = %q, should not suggest for distant flag", err.Error())
	}
	if !strings.Contains(err.Error(), "--help") {
		t.Errorf("error = %q, should point to --help", err.Error())
	}
}

func TestCommand_Execute_UnknownSubcommandSuggestion(t *testing.T) {
	root := &Command{
		Name: "bencode",
		Subcommands: []*Command{
			{Name: "decode"},
			{Name: "encode"},
			{Name: "validate"},
		},
	}

	err := root.Execute(context.Background(), []string{"valdate"})
	if err == nil {
		t.Fatal("Execute() = nil, want error for unknown subcommand")
	}
	if !strings.Contains(err.Error(), "did you mean \"validate\"") {
		t.Errorf("error = %q, want suggestion for 'validate'", err.Error())
	}
}

func TestCommand_Execute_UnknownSubcommandNoSuggestion(t *testing.T) {
	root := &Command{
		Name: "bencode",
		Subcommands: []*Command{
			{Name: "decode"},
			{Name: "validate"},
		},
	}

	err := root.Execute(context.Background(), []string{"zzzzzzz"})
	if err == nil {
		t.Fatal("Execute() = nil, want error for unknown subcommand")
	}
	if strings.Contains(err.Error(), "did you mean") {
		t.Errorf("error = %q, should not contain suggestion for distant input", err.Error())
	}
}

func TestCommand_Execute_HelpFlag(t *testing.T) {
	for _, helpArg := range []string{"-h", "--help", "help"} {
		t.Run(helpArg, func(t *testing.T) {
			root := &Command{
				Name:    "bencode",
				Summary: "Bencode codec tool",
				Subcommands: []*Command{
					{Name: "decode", Summary: "Decode bencode to JSON, YAML, or CBOR"},
				},
			}

			if err := root.Execute(context.Background(), []string{helpArg}); err != nil {
				t.Errorf("Execute(%q) error: %v", helpArg, err)
			}
		})
	}
}

func TestCommand_Execute_NoArgsShowsHelp(t *testing.T) {
	root := &Command{
		Name: "bencode",
		Subcommands: []*Command{
			{Name: "decode", Summary: "Decode bencode"},
		},
	}

	err := root.Execute(context.Background(), []string{})
	if err == nil {
		t.Fatal("Execute() = nil, want error for missing subcommand")
	}
	if !strings.Contains(err.Error(), "subcommand required") {
		t.Errorf("error = %q, want 'subcommand required'", err.Error())
	}
}

func TestCommand_PrintHelp(t *testing.T) {
	command := &Command{
		Name:        "bencode",
		Description: "Inspect, convert, and validate bencoded data.",
		Subcommands: []*Command{
			{Name: "decode", Summary: "Decode bencode to JSON, YAML, or CBOR"},
			{Name: "infohash", Summary: "Hash the info dictionary of a torrent"},
			{Name: "version", Summary: "Print version information"},
		},
		Examples: []Example{
			{
				Description: "Show a torrent as JSON",
				Command:     "bencode decode ubuntu.torrent",
			},
			{
				Description: "Compute a v2 info hash",
				Command:     "bencode infohash --algo sha256 ubuntu.torrent",
			},
		},
	}

	var buffer bytes.Buffer
	command.PrintHelp(&buffer)
	output := buffer.String()

	for _, want := range []string{
		"Inspect, convert, and validate bencoded data.",
		"Usage:",
		"bencode <command> [flags]",
		"Commands:",
		"decode",
		"Decode bencode to JSON, YAML, or CBOR",
		"infohash",
		"Hash the info dictionary of a torrent",
		"Examples:",
		"bencode decode ubuntu.torrent",
		"bencode infohash --algo sha256",
		"Run 'bencode <command> --help'",
	} {
		if !strings.Contains(output, want) {
			t.Errorf("help output missing %q\n\nFull output:\n%s", want, output)
		}
	}
}

func TestCommand_PrintHelp_WithFlags(t *testing.T) {
	command := &Command{
		Name:    "decode",
		Summary: "Decode bencode",
		Usage:   "bencode decode [flags] [file]",
		Flags: func() *pflag.FlagSet {
			flagSet := pflag.NewFlagSet("decode", pflag.ContinueOnError)
			flagSet.String("format", "json", "output format")
			flagSet.Bool("hex", false, "input is hex-encoded")
			return flagSet
		},
	}

	var buffer bytes.Buffer
	command.PrintHelp(&buffer)
	output := buffer.String()

	for _, want := range []string{
		"bencode decode [flags] [file]",
		"Flags:",
		"--format",
		"--hex",
	} {
		if !strings.Contains(output, want) {
			t.Errorf("help output missing %q\n\nFull output:\n%s", want, output)
		}
	}
}

func TestCommand_FullName(t *testing.T) {
	root := &Command{Name: "bencode"}
	torrent := &Command{Name: "torrent", parent: root}
	show := &Command{Name: "show", parent: torrent}

	if got := root.fullName(); got != "bencode" {
		t.Errorf("root.fullName() = %q, want %q", got, "bencode")
	}
	if got := torrent.fullName(); got != "bencode torrent" {
		t.Errorf("torrent.fullName() = %q, want %q", got, "bencode torrent")
	}
	if got := show.fullName(); got != "bencode torrent show" {
		t.Errorf("show.fullName() = %q, want %q", got, "bencode torrent show")
	}
}

func TestCommand_Execute_RunFallback(t *testing.T) {
	var received []string
	var compact bool
	root := &Command{
		Name:   "bencode",
		Logger: discardLogger(),
		Flags: func() *pflag.FlagSet {
			flagSet := pflag.NewFlagSet("bencode", pflag.ContinueOnError)
			flagSet.BoolVarP(&compact, "compact", "c", false, "compact output")
			return flagSet
		},
		Subcommands: []*Command{
			{Name: "decode", Run: func(ctx context.Context, args []string, logger *slog.Logger) error {
				t.Error("decode should not run")
				return nil
			}},
		},
		Run: func(ctx context.Context, args []string, logger *slog.Logger) error {
			received = args
			return nil
		},
	}

	if err := root.Execute(context.Background(), []string{".info.name", "-c", "a.torrent"}); err != nil {
		t.Fatalf("Execute() error: %v", err)
	}
	if len(received) != 2 || received[0] != ".info.name" || received[1] != "a.torrent" {
		t.Errorf("args = %v, want [.info.name a.torrent]", received)
	}
	if !compact {
		t.Error("flags after the filter were not parsed")
	}

	received = nil
	if err := root.Execute(context.Background(), nil); err != nil {
		t.Fatalf("Execute() error: %v", err)
	}
	if len(received) != 0 {
		t.Errorf("args = %v, want none", received)
	}
}
