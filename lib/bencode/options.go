// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package bencode

import (
	"bytes"
	"fmt"
	"io"
	"unicode/utf8"
	"unsafe"
)

// DefaultMaxDepth bounds container nesting when an options struct
// leaves MaxDepth at zero.
const DefaultMaxDepth = 512

// Behavior selects how a self-describing decode interprets a byte
// string. It has no effect when the target shape is known.
type Behavior uint8

const (
	// Simple always yields byte strings as opaque bytes.
	Simple Behavior = iota
	// Auto yields valid UTF-8 as text and everything else as bytes.
	Auto
)

func (b Behavior) String() string {
	switch b {
	case Simple:
		return "simple"
	case Auto:
		return "auto"
	default:
		return fmt.Sprintf("behavior(%d)", uint8(b))
	}
}

// ParseBehavior parses "simple" or "auto".
func ParseBehavior(name string) (Behavior, error) {
	switch name {
	case "simple":
		return Simple, nil
	case "auto":
		return Auto, nil
	default:
		return 0, fmt.Errorf("unknown decode behavior %q (want simple or auto)", name)
	}
}

// DecOptions configures decoding. Compile it into a [DecMode] once
// and reuse the mode.
type DecOptions struct {
	// Behavior applies to self-describing byte strings only.
	Behavior Behavior

	// Strict rejects integers with leading zeros, "-0", a leading
	// '+', and byte string lengths with leading zeros.
	Strict bool

	// MaxDepth bounds nesting of lists, dictionaries and framed
	// variants. Zero means DefaultMaxDepth.
	MaxDepth int
}

// DecMode is an immutable decoding configuration. The zero value is
// not usable; build one with [DecOptions.DecMode].
type DecMode struct {
	behavior Behavior
	strict   bool
	maxDepth int
}

// DecMode validates the options and returns the compiled mode.
func (o DecOptions) DecMode() (DecMode, error) {
	if o.Behavior != Simple && o.Behavior != Auto {
		return DecMode{}, fmt.Errorf("bencode: invalid decode behavior %d", uint8(o.Behavior))
	}
	if o.MaxDepth < 0 {
		return DecMode{}, fmt.Errorf("bencode: MaxDepth must not be negative, got %d", o.MaxDepth)
	}
	depth := o.MaxDepth
	if depth == 0 {
		depth = DefaultMaxDepth
	}
	return DecMode{behavior: o.Behavior, strict: o.Strict, maxDepth: depth}, nil
}

// NewDecoder returns a decoder over data.
func (m DecMode) NewDecoder(data []byte) *Decoder {
	return &Decoder{
		cursor:   cursor{buf: data},
		behavior: m.behavior,
		strict:   m.strict,
		maxDepth: m.maxDepth,
	}
}

// Unmarshal decodes the single value in data into v, which must be a
// non-nil pointer. The whole buffer must be consumed.
//
// Values of type [Borrowed] and [RawMessage] inside v alias data.
func (m DecMode) Unmarshal(data []byte, v any) error {
	decoder := m.NewDecoder(data)
	if err := decoder.Decode(v); err != nil {
		return err
	}
	return decoder.Finish()
}

// UnmarshalString is Unmarshal over a string without copying it.
// Borrowed values alias the string's memory and must not be modified.
func (m DecMode) UnmarshalString(s string, v any) error {
	return m.Unmarshal(unsafe.Slice(unsafe.StringData(s), len(s)), v)
}

// EncOptions configures encoding. Compile it into an [EncMode] once
// and reuse the mode.
type EncOptions struct {
	// Canonical sorts the entries of every dictionary by the raw
	// bytes of their keys. Otherwise entries are written in the order
	// the caller supplies them.
	Canonical bool

	// Bool permits encoding booleans as i0e and i1e. They are
	// indistinguishable from integers on the wire, so the encoder
	// refuses them unless this is set.
	Bool bool

	// NoneIsError makes an absent optional value an encode error
	// instead of emitting nothing.
	NoneIsError bool

	// MaxDepth bounds container nesting. Zero means DefaultMaxDepth.
	MaxDepth int
}

// CanonicalEncOptions returns the options used by [Marshal]: sorted
// dictionaries, booleans refused, absent values omitted.
func CanonicalEncOptions() EncOptions {
	return EncOptions{Canonical: true}
}

// EncMode is an immutable encoding configuration.
type EncMode struct {
	options EncOptions
}

// EncMode validates the options and returns the compiled mode.
func (o EncOptions) EncMode() (EncMode, error) {
	if o.MaxDepth < 0 {
		return EncMode{}, fmt.Errorf("bencode: MaxDepth must not be negative, got %d", o.MaxDepth)
	}
	if o.MaxDepth == 0 {
		o.MaxDepth = DefaultMaxDepth
	}
	return EncMode{options: o}, nil
}

// Options returns the options the mode was built from.
func (m EncMode) Options() EncOptions { return m.options }

// NewEncoder returns an encoder writing to w.
func (m EncMode) NewEncoder(w io.Writer) *Encoder {
	return newEncoder(w, m.options)
}

// Encode writes the encoding of v to w.
func (m EncMode) Encode(w io.Writer, v any) error {
	encoder := m.NewEncoder(w)
	if err := encoder.Encode(v); err != nil {
		return err
	}
	return encoder.Close()
}

// Marshal returns the encoding of v.
func (m EncMode) Marshal(v any) ([]byte, error) {
	var buffer bytes.Buffer
	if err := m.Encode(&buffer, v); err != nil {
		return nil, err
	}
	return buffer.Bytes(), nil
}

// MarshalToString returns the encoding of v as text. It fails with
// ErrInvalidUTF8Output when v contains binary byte strings.
func (m EncMode) MarshalToString(v any) (string, error) {
	data, err := m.Marshal(v)
	if err != nil {
		return "", err
	}
	if !utf8.Valid(data) {
		return "", &EncodeError{Kind: KindInvalidUTF8Output}
	}
	return string(data), nil
}

var (
	defaultEncMode EncMode
	defaultDecMode DecMode
)

func init() {
	var err error
	defaultEncMode, err = CanonicalEncOptions().EncMode()
	if err != nil {
		panic("bencode: default encoder initialization failed: " + err.Error())
	}
	defaultDecMode, err = DecOptions{Behavior: Auto}.DecMode()
	if err != nil {
		panic("bencode: default decoder initialization failed: " + err.Error())
	}
}

// Marshal encodes v with canonical dictionary ordering.
func Marshal(v any) ([]byte, error) { return defaultEncMode.Marshal(v) }

// MarshalToString encodes v with canonical ordering as text.
func MarshalToString(v any) (string, error) { return defaultEncMode.MarshalToString(v) }

// Encode writes the canonical encoding of v to w.
func Encode(w io.Writer, v any) error { return defaultEncMode.Encode(w, v) }

// NewEncoder returns a canonical encoder writing to w.
func NewEncoder(w io.Writer) *Encoder { return defaultEncMode.NewEncoder(w) }

// Unmarshal decodes data into v using Auto behavior.
func Unmarshal(data []byte, v any) error { return defaultDecMode.Unmarshal(data, v) }

// UnmarshalString decodes s into v using Auto behavior.
func UnmarshalString(s string, v any) error { return defaultDecMode.UnmarshalString(s, v) }

// NewDecoder returns an Auto-behavior decoder over data.
func NewDecoder(data []byte) *Decoder { return defaultDecMode.NewDecoder(data) }
