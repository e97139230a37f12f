// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package bencode encodes and decodes the BitTorrent bencode format.
//
// Bencode has four wire forms:
//
//	<len>:<bytes>   byte string, length in ASCII decimal
//	i<int>e         integer, ASCII decimal with optional '-'
//	l<values>e      list
//	d<pairs>e       dictionary; keys are byte strings
//
// Everything else is layered on top of those forms. Booleans are i0e
// and i1e (and only encoded when [EncOptions.Bool] is set, since they
// cannot be told apart from integers). Unit and struct{} are the empty
// byte string "0:". A payload-free enum variant is its name as a byte
// string; a variant with a payload is a one-entry dictionary mapping
// the name to the payload. Floating point has no representation and
// fails in both directions.
//
// For buffer-oriented use:
//
//	data, err := bencode.Marshal(value)
//	err = bencode.Unmarshal(data, &value)
//
// The package-level functions use canonical encoding (dictionary
// entries sorted by the raw bytes of their keys, as BitTorrent
// requires for info dictionaries) and Auto decoding. Build an
// [EncMode] or [DecMode] from options for anything else:
//
//	mode, err := bencode.EncOptions{Canonical: false, Bool: true}.EncMode()
//	data, err := mode.Marshal(value)
//
// # Struct Tags
//
// Struct fields are dictionary entries named by their `bencode` tag,
// or by the Go field name when untagged. The "omitempty" option skips
// zero values; a tag of "-" skips the field. Nil pointer fields are
// absent and are left out of the dictionary unless
// [EncOptions.NoneIsError] is set:
//
//	type Info struct {
//	    Name        string             `bencode:"name"`
//	    PieceLength uint64             `bencode:"piece length"`
//	    Pieces      bencode.Borrowed   `bencode:"pieces"`
//	    Length      *uint64            `bencode:"length"`
//	    Private     *uint8             `bencode:"private,omitempty"`
//	}
//
// # Borrowing
//
// Decoding never copies the input to find values. string and []byte
// targets receive their own copies; [Borrowed] and [RawMessage]
// targets alias the input, which must then outlive them.
// [DecMode.UnmarshalString] views the string's memory directly.
//
// # Shape-Directed Decoding
//
// Below the reflection layer, [Decoder.DecodeShape] takes a [Shape]
// naming what the caller expects and a [Visitor] that receives what
// was found. [KindAny] infers the shape from the next byte. Types
// implement [Unmarshaler] and [Marshaler] to drive the decoder and
// the [Emitter] directly; this is how enumerations are written:
//
//	func (s Shape) MarshalBencode(e bencode.Emitter) error {
//	    if err := e.BeginVariant("Circle"); err != nil {
//	        return err
//	    }
//	    if err := e.EmitUint(s.Radius); err != nil {
//	        return err
//	    }
//	    return e.EndVariant()
//	}
//
// # Errors
//
// Decode failures are *[DecodeError] and encode failures are
// *[EncodeError]. Both carry a kind and match the package's sentinel
// errors with errors.Is:
//
//	if errors.Is(err, bencode.ErrUnexpectedEOF) { ... }
package bencode
