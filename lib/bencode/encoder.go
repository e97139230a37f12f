// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package bencode

import (
	"bytes"
	"io"
	"slices"
	"strconv"
	"unicode/utf8"
)

// Emitter is the write side of the shape protocol. The mapping layer
// (and [Marshaler] implementations) describe a value as a sequence of
// calls; the emitter turns them into wire bytes.
//
// Containers are bracketed: BeginList/EndList around elements,
// BeginDict/EndDict around key/value pairs (each key written through
// DictKey or EmitKey, then exactly one value), and
// BeginVariant/EndVariant around exactly one payload.
type Emitter interface {
	EmitBool(v bool) error
	EmitInt(v int64) error
	EmitUint(v uint64) error
	EmitFloat(v float64) error
	EmitChar(r rune) error
	EmitText(s string) error
	EmitBytes(b []byte) error
	EmitNone() error
	EmitUnit() error
	EmitUnitStruct(name string) error
	EmitUnitVariant(variant string) error
	// EmitRaw writes raw, which must hold exactly one complete encoded
	// value, without re-encoding it.
	EmitRaw(raw []byte) error

	BeginList() error
	EndList() error

	BeginDict() error
	// DictKey returns an emitter for the next key. It accepts only
	// text and byte strings; every other shape fails with
	// ErrDictionaryKeyMustBeString.
	DictKey() Emitter
	EmitKey(key string) error
	EndDict() error

	BeginVariant(variant string) error
	EndVariant() error

	// Encode describes v through this emitter using the reflection
	// mapping layer.
	Encode(v any) error
}

type frameKind uint8

const (
	frameList frameKind = iota
	frameDict
	frameVariant
)

// frame tracks one open container. Canonical dictionaries buffer
// their entries until EndDict; everything else writes through.
type frame struct {
	kind     frameKind
	buffered bool
	// awaitingValue is set between a dictionary key and its value.
	awaitingValue bool
	payloadSeen   bool
	variant       string
	lastKey       []byte
	entries       []*bufferedEntry
}

type bufferedEntry struct {
	key   []byte
	value bytes.Buffer
}

// Encoder writes bencoded values to an io.Writer. It implements
// [Emitter]. An Encoder is not safe for concurrent use.
type Encoder struct {
	w       io.Writer
	options EncOptions
	frames  []*frame
	scratch []byte
}

func newEncoder(w io.Writer, options EncOptions) *Encoder {
	if options.MaxDepth == 0 {
		options.MaxDepth = DefaultMaxDepth
	}
	return &Encoder{w: w, options: options, scratch: make([]byte, 0, 24)}
}

// Close reports containers that were begun but never ended.
func (e *Encoder) Close() error {
	if len(e.frames) > 0 {
		return encodeMessage("%d container(s) left open", len(e.frames))
	}
	return nil
}

// sink returns where the next bytes belong: the current entry of the
// innermost buffering dictionary, or the underlying writer.
func (e *Encoder) sink() io.Writer {
	for index := len(e.frames) - 1; index >= 0; index-- {
		current := e.frames[index]
		if current.buffered && len(current.entries) > 0 {
			return &current.entries[len(current.entries)-1].value
		}
	}
	return e.w
}

func (e *Encoder) write(p []byte) error {
	if _, err := e.sink().Write(p); err != nil {
		return &EncodeError{Kind: KindIO, Err: err}
	}
	return nil
}

func (e *Encoder) writeByteString(p []byte) error {
	e.scratch = strconv.AppendInt(e.scratch[:0], int64(len(p)), 10)
	e.scratch = append(e.scratch, markerColon)
	if err := e.write(e.scratch); err != nil {
		return err
	}
	return e.write(p)
}

func (e *Encoder) top() *frame {
	if len(e.frames) == 0 {
		return nil
	}
	return e.frames[len(e.frames)-1]
}

// beginValue records that a value is starting in the current
// container and rejects values the container cannot hold.
func (e *Encoder) beginValue() error {
	current := e.top()
	if current == nil {
		return nil
	}
	switch current.kind {
	case frameDict:
		if !current.awaitingValue {
			return encodeMessage("dictionary value written without a key")
		}
		current.awaitingValue = false
	case frameVariant:
		if current.payloadSeen {
			return encodeMessage("variant %q already has a payload", current.variant)
		}
		current.payloadSeen = true
	}
	return nil
}

func (e *Encoder) push(kind frameKind) (*frame, error) {
	if len(e.frames) >= e.options.MaxDepth {
		return nil, &EncodeError{Kind: KindEncodeTooDeep, Message: strconv.Itoa(e.options.MaxDepth)}
	}
	current := &frame{kind: kind}
	e.frames = append(e.frames, current)
	return current, nil
}

func (e *Encoder) pop(kind frameKind, name string) (*frame, error) {
	current := e.top()
	if current == nil || current.kind != kind {
		return nil, encodeMessage("%s without matching begin", name)
	}
	e.frames = e.frames[:len(e.frames)-1]
	return current, nil
}

func (e *Encoder) EmitBool(v bool) error {
	if !e.options.Bool {
		return &EncodeError{Kind: KindBoolNotSupported}
	}
	if v {
		return e.EmitUint(1)
	}
	return e.EmitUint(0)
}

func (e *Encoder) EmitInt(v int64) error {
	if err := e.beginValue(); err != nil {
		return err
	}
	e.scratch = append(e.scratch[:0], markerInteger)
	e.scratch = strconv.AppendInt(e.scratch, v, 10)
	e.scratch = append(e.scratch, markerEnd)
	return e.write(e.scratch)
}

func (e *Encoder) EmitUint(v uint64) error {
	if err := e.beginValue(); err != nil {
		return err
	}
	e.scratch = append(e.scratch[:0], markerInteger)
	e.scratch = strconv.AppendUint(e.scratch, v, 10)
	e.scratch = append(e.scratch, markerEnd)
	return e.write(e.scratch)
}

func (e *Encoder) EmitFloat(float64) error {
	return &EncodeError{Kind: KindFloatingPointNotSupported}
}

func (e *Encoder) EmitChar(r rune) error {
	if !utf8.ValidRune(r) {
		return encodeMessage("invalid character %U", r)
	}
	return e.EmitText(string(r))
}

func (e *Encoder) EmitText(s string) error {
	if err := e.beginValue(); err != nil {
		return err
	}
	return e.writeByteString([]byte(s))
}

func (e *Encoder) EmitBytes(b []byte) error {
	if err := e.beginValue(); err != nil {
		return err
	}
	return e.writeByteString(b)
}

// EmitNone writes nothing, or fails when NoneIsError is set. In a
// canonical dictionary the pending key is dropped with it; an
// unordered dictionary has already written the key and cannot.
func (e *Encoder) EmitNone() error {
	if e.options.NoneIsError {
		return &EncodeError{Kind: KindNoneNotSupported}
	}
	current := e.top()
	if current == nil || current.kind != frameDict || !current.awaitingValue {
		return nil
	}
	current.awaitingValue = false
	if current.buffered {
		current.entries = current.entries[:len(current.entries)-1]
		return nil
	}
	return encodeMessage("absent value for dictionary key %q", current.lastKey)
}

// EmitUnit writes the empty byte string "0:".
func (e *Encoder) EmitUnit() error {
	if err := e.beginValue(); err != nil {
		return err
	}
	return e.write([]byte("0:"))
}

func (e *Encoder) EmitUnitStruct(name string) error { return e.EmitText(name) }

func (e *Encoder) EmitUnitVariant(variant string) error { return e.EmitText(variant) }

// EmitRaw validates raw as a single encoded value and copies it to
// the output verbatim. Dictionaries inside raw keep their order even
// in canonical mode.
func (e *Encoder) EmitRaw(raw []byte) error {
	check := &Decoder{cursor: cursor{buf: raw}, behavior: Simple, maxDepth: e.options.MaxDepth}
	if err := check.Skip(); err != nil {
		return encodeMessage("invalid raw value: %v", err)
	}
	if err := check.Finish(); err != nil {
		return encodeMessage("invalid raw value: %v", err)
	}
	if err := e.beginValue(); err != nil {
		return err
	}
	return e.write(raw)
}

func (e *Encoder) BeginList() error {
	if err := e.beginValue(); err != nil {
		return err
	}
	if err := e.write([]byte{markerList}); err != nil {
		return err
	}
	_, err := e.push(frameList)
	return err
}

func (e *Encoder) EndList() error {
	if _, err := e.pop(frameList, "EndList"); err != nil {
		return err
	}
	return e.write([]byte{markerEnd})
}

func (e *Encoder) BeginDict() error {
	if err := e.beginValue(); err != nil {
		return err
	}
	if err := e.write([]byte{markerDict}); err != nil {
		return err
	}
	current, err := e.push(frameDict)
	if err != nil {
		return err
	}
	current.buffered = e.options.Canonical
	return nil
}

func (e *Encoder) DictKey() Emitter { return keyEmitter{encoder: e} }

func (e *Encoder) EmitKey(key string) error { return e.writeKey([]byte(key)) }

func (e *Encoder) writeKey(key []byte) error {
	current := e.top()
	if current == nil || current.kind != frameDict {
		return encodeMessage("dictionary key %q written outside a dictionary", key)
	}
	if current.awaitingValue {
		return encodeMessage("dictionary key %q written before the value of %q", key, current.lastKey)
	}
	current.lastKey = append(current.lastKey[:0], key...)
	if current.buffered {
		current.entries = append(current.entries, &bufferedEntry{key: bytes.Clone(key)})
	} else if err := e.writeByteString(key); err != nil {
		return err
	}
	current.awaitingValue = true
	return nil
}

func (e *Encoder) EndDict() error {
	if current := e.top(); current != nil && current.kind == frameDict && current.awaitingValue {
		return encodeMessage("dictionary key %q has no value", current.lastKey)
	}
	current, err := e.pop(frameDict, "EndDict")
	if err != nil {
		return err
	}
	if current.buffered {
		slices.SortStableFunc(current.entries, func(a, b *bufferedEntry) int {
			return bytes.Compare(a.key, b.key)
		})
		for _, entry := range current.entries {
			if err := e.writeByteString(entry.key); err != nil {
				return err
			}
			if err := e.write(entry.value.Bytes()); err != nil {
				return err
			}
		}
	}
	return e.write([]byte{markerEnd})
}

func (e *Encoder) BeginVariant(variant string) error {
	if err := e.beginValue(); err != nil {
		return err
	}
	if err := e.write([]byte{markerDict}); err != nil {
		return err
	}
	if err := e.writeByteString([]byte(variant)); err != nil {
		return err
	}
	current, err := e.push(frameVariant)
	if err != nil {
		return err
	}
	current.variant = variant
	return nil
}

func (e *Encoder) EndVariant() error {
	current := e.top()
	if current != nil && current.kind == frameVariant && !current.payloadSeen {
		return encodeMessage("variant %q has no payload", current.variant)
	}
	if _, err := e.pop(frameVariant, "EndVariant"); err != nil {
		return err
	}
	return e.write([]byte{markerEnd})
}

// Encode describes v through the reflection mapping layer.
func (e *Encoder) Encode(v any) error {
	return encodeAny(e, v)
}
