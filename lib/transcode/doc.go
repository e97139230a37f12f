// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package transcode converts between bencode's self-describing values
// and JSON, JSONC, YAML and CBOR.
//
// The bencode side is the generic value tree produced by
// [bencode.Decoder.DecodeAny]: uint64 and int64 integers, string text,
// []byte binary strings, []any lists and [bencode.Dict] dictionaries.
// The To* functions turn such a tree into a document; the From*
// functions parse a document back into one, ready for
// [bencode.EncMode.Marshal].
//
// Bencode byte strings need not be UTF-8. Each target format carries
// them its own way:
//
//   - JSON: a value {"$hex": "<hex>"}; a dictionary key "$hex:<hex>".
//   - YAML: a !!binary scalar, for keys and values alike.
//   - CBOR: a byte string (major type 2), for keys and values alike.
//
// Dictionary order survives JSON and YAML in both directions, so
// non-canonical inputs can be reproduced. CBOR maps are unordered
// here; their entries come back sorted by key.
//
// Floating point numbers are rejected with an error matching
// [bencode.ErrFloatingPointNotSupported].
package transcode
