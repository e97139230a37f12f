// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package tool implements the bencode command tree: decode, encode,
// diag, validate, infohash, torrent, and version, plus a jq filter
// fallback on the root command.
//
// Every command that reads bencode accepts an optional trailing file
// path and otherwise reads stdin. Input may be hex-encoded (--hex) and
// may be wrapped in a zstd or LZ4 frame, which is removed
// transparently.
//
// Codec defaults come from the config file named by --config or
// BENCODE_CONFIG (see lib/config). Command flags override the file.
//
// The command logic lives in functions over []byte and io.Writer so
// tests can drive it without a process; the Run closures only resolve
// input, configuration and the output stream.
package tool
