// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package tool

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"os/exec"

	"github.com/bureau-foundation/bencode/cmd/bencode/cli"
	"github.com/bureau-foundation/bencode/lib/bencode"
	"github.com/bureau-foundation/bencode/lib/config"
	"github.com/bureau-foundation/bencode/lib/transcode"
)

// stderr is replaced in tests.
var stderr io.Writer = os.Stderr

// filterDocument decodes data, converts it to JSON, and pipes it
// through jq with the given arguments (the filter expression followed
// by anything jq should see). jq's output goes to w and its
// diagnostics to errOutput.
func filterDocument(ctx context.Context, cfg *config.Config, data []byte, options bencode.DecOptions, slurp bool, jqArgs []string, w, errOutput io.Writer) error {
	value, err := decodeDocument(data, options, slurp)
	if err != nil {
		return err
	}

	var jsonData bytes.Buffer
	if err := transcode.WriteJSON(&jsonData, value, true); err != nil {
		return cli.Validation("encode JSON for jq: %w", err)
	}

	jqPath, err := cfg.JQPath()
	if err != nil {
		return cli.NotFound("%w", err).
			WithHint("Install jq, set tools.jq in the config file, or use \"bencode decode\" for plain JSON output.")
	}
	return runJQ(ctx, jqPath, jsonData.Bytes(), jqArgs, w, errOutput)
}

// runJQ executes jq with the given arguments, feeding jsonData to its
// stdin.
func runJQ(ctx context.Context, jqPath string, jsonData []byte, jqArgs []string, w, errOutput io.Writer) error {
	cmd := exec.CommandContext(ctx, jqPath, jqArgs...)
	cmd.Stdin = bytes.NewReader(jsonData)
	cmd.Stdout = w
	cmd.Stderr = errOutput

	if err := cmd.Run(); err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			// Propagate jq's exit code so piped commands behave
			// correctly (e.g., jq -e returns 1 for false/null).
			return &cli.ExitError{Code: exitErr.ExitCode()}
		}
		return cli.Internal("run jq: %w", err)
	}
	return nil
}
