// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"strings"
	"testing"

	"github.com/bureau-foundation/bencode/cmd/bencode/cli"
)

// TestCommandTreeHelp walks the full command tree and checks that
// every command can describe itself: a summary for the parent's
// listing, a usage line for leaves, and unique names among siblings.
func TestCommandTreeHelp(t *testing.T) {
	root := rootCommand()
	walkCommands(root, nil, func(command *cli.Command, path []string) {
		name := strings.Join(path, " ")
		if command.Summary == "" {
			t.Errorf("%s: missing Summary", name)
		}
		if len(command.Subcommands) == 0 && command.Usage == "" {
			t.Errorf("%s: leaf command missing Usage", name)
		}
		seen := make(map[string]bool)
		for _, sub := range command.Subcommands {
			if seen[sub.Name] {
				t.Errorf("%s: duplicate subcommand %q", name, sub.Name)
			}
			seen[sub.Name] = true
		}
		// Building the flag set panics on a malformed params struct.
		if command.Flags != nil {
			command.Flags()
		}
	})
}

// walkCommands recursively visits every command in the tree,
// calling visit for each node with the accumulated command path.
func walkCommands(command *cli.Command, path []string, visit func(*cli.Command, []string)) {
	current := make([]string, len(path)+1)
	copy(current, path)
	current[len(path)] = command.Name
	visit(command, current)
	for _, sub := range command.Subcommands {
		walkCommands(sub, current, visit)
	}
}
