// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package bencode

import (
	"fmt"
	"unicode/utf8"
)

// Marshaler is implemented by types that describe their own encoding
// through an [Emitter]. Enumerations implement it to choose between
// EmitUnitVariant and a BeginVariant/EndVariant frame.
type Marshaler interface {
	MarshalBencode(e Emitter) error
}

// Unmarshaler is implemented by types that drive their own decoding,
// typically with [Decoder.DecodeVariantFunc] or [Decoder.DecodeShape].
// The implementation must consume exactly one value.
type Unmarshaler interface {
	UnmarshalBencode(d *Decoder) error
}

// RawMessage is a complete encoded value kept as bytes. Decoding
// into a RawMessage captures the exact input span of the value
// without copying; encoding one writes it verbatim.
//
// The info dictionary of a torrent is the usual case: its hash must
// be computed over the bytes as they appeared, not a re-encoding.
type RawMessage []byte

// MarshalBencode writes m unchanged. An empty RawMessage is absent.
func (m RawMessage) MarshalBencode(e Emitter) error {
	if len(m) == 0 {
		return e.EmitNone()
	}
	return e.EmitRaw(m)
}

// UnmarshalBencode records the span of the next value.
func (m *RawMessage) UnmarshalBencode(d *Decoder) error {
	start := d.Offset()
	if err := d.Skip(); err != nil {
		return err
	}
	*m = d.cursor.buf[start:d.Offset():d.Offset()]
	return nil
}

// Borrowed is a byte string that aliases the decode input instead of
// owning a copy. It stays valid only while the input buffer does.
type Borrowed []byte

func (b Borrowed) MarshalBencode(e Emitter) error { return e.EmitBytes(b) }

func (b *Borrowed) UnmarshalBencode(d *Decoder) error {
	value, err := d.DecodeBytes()
	if err != nil {
		return err
	}
	*b = Borrowed(value[:len(value):len(value)])
	return nil
}

// Char is a single Unicode code point, encoded as its UTF-8 bytes.
type Char rune

func (c Char) String() string { return string(rune(c)) }

func (c Char) MarshalBencode(e Emitter) error { return e.EmitChar(rune(c)) }

func (c *Char) UnmarshalBencode(d *Decoder) error {
	r, err := d.DecodeChar()
	if err != nil {
		return err
	}
	*c = Char(r)
	return nil
}

// ParseChar converts a one-character string to a Char.
func ParseChar(s string) (Char, error) {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError || size != len(s) {
		return 0, fmt.Errorf("bencode: %q is not a single character", s)
	}
	return Char(r), nil
}
