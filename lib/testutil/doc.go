// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package testutil provides shared test helpers for the bencode
// packages and commands.
//
// [WriteFile] and [ReadFile] put fixture bytes on disk under
// t.TempDir() for the commands that read files or stdin.
//
// [RequireErrorIs] and [RequireNoError] encapsulate the errors.Is
// check that codec tests repeat for every malformed input, with the
// same optional message arguments the other helpers take.
//
// [MustHex] decodes hex fixtures. Binary test vectors (piece hashes,
// compressed frames) read better as hex than as escaped Go strings.
//
// All helpers call t.Fatalf on failure rather than returning errors,
// since test setup failures are not recoverable.
//
// This package has no dependencies on the rest of the module.
package testutil
