// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package testutil

import (
	"encoding/hex"
	"errors"
	"fmt"
)

// TB is the subset of testing.TB the helpers need.
type TB interface {
	Helper()
	Fatalf(format string, args ...any)
}

// RequireErrorIs fails the test unless errors.Is(err, target).
//
//	testutil.RequireErrorIs(t, err, bencode.ErrUnexpectedEOF, "decoding %q", input)
func RequireErrorIs(t TB, err, target error, msgAndArgs ...any) {
	t.Helper()
	if err == nil {
		t.Fatalf("expected error matching %v, got nil: %s", target, formatMessage(msgAndArgs))
	}
	if !errors.Is(err, target) {
		t.Fatalf("error %v (%T) does not match %v: %s", err, err, target, formatMessage(msgAndArgs))
	}
}

// RequireNoError fails the test if err is non-nil.
func RequireNoError(t TB, err error, msgAndArgs ...any) {
	t.Helper()
	if err != nil {
		t.Fatalf("unexpected error: %v: %s", err, formatMessage(msgAndArgs))
	}
}

// MustHex decodes a hex string, ignoring spaces, or fails the test.
//
//	frame := testutil.MustHex(t, "28b52ffd 0058 ...")
func MustHex(t TB, text string) []byte {
	t.Helper()
	compact := make([]byte, 0, len(text))
	for index := 0; index < len(text); index++ {
		if text[index] != ' ' && text[index] != '\n' && text[index] != '\t' {
			compact = append(compact, text[index])
		}
	}
	data, err := hex.DecodeString(string(compact))
	if err != nil {
		t.Fatalf("invalid hex fixture %q: %v", text, err)
	}
	return data
}

// formatMessage formats optional message arguments into a string.
// Accepts either a single string or a format string followed by args.
func formatMessage(msgAndArgs []any) string {
	if len(msgAndArgs) == 0 {
		return "(no message)"
	}
	if len(msgAndArgs) == 1 {
		if s, ok := msgAndArgs[0].(string); ok {
			return s
		}
		return fmt.Sprintf("%v", msgAndArgs[0])
	}
	if format, ok := msgAndArgs[0].(string); ok {
		return fmt.Sprintf(format, msgAndArgs[1:]...)
	}
	return fmt.Sprintf("%v", msgAndArgs)
}
