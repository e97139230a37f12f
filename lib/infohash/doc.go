// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package infohash computes content digests of encoded bencode values.
//
// The BitTorrent info hash is the SHA-1 digest of the info
// dictionary's bytes exactly as they appear in the metainfo file (v1)
// or their SHA-256 digest (v2). Hashing a re-encoding would only be
// correct if the original was canonical, so callers pass the raw span
// captured by a bencode.RawMessage.
//
// BLAKE3 and BLAKE2b-256 are available for content-addressing encoded
// values outside of BitTorrent.
//
// The API surface:
//
//   - [Sum] -- digests a byte slice with the given [Algorithm]
//   - [HashReader] and [HashFile] -- stream input through the hash
//     with constant memory usage regardless of size
//   - [Format] and [Parse] -- convert digests to and from their
//     canonical lowercase hex form, validating length for the algorithm
//
// This package has no dependencies on other packages in this module.
package infohash
