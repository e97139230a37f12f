// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package bencode

import (
	"strconv"
	"unicode/utf8"
)

// Decoder reads bencoded values from an in-memory buffer. It borrows
// the buffer: byte and text slices handed to visitors alias it, so
// the buffer must outlive every value produced from it.
//
// A Decoder is not safe for concurrent use. Create one per input with
// [DecMode.NewDecoder] or [NewDecoder].
type Decoder struct {
	cursor   cursor
	behavior Behavior
	strict   bool
	maxDepth int
	depth    int
}

// Offset returns the number of input bytes consumed so far.
func (d *Decoder) Offset() int { return d.cursor.pos }

// Remaining returns the number of unconsumed input bytes.
func (d *Decoder) Remaining() int { return d.cursor.remaining() }

// Finish reports trailing input. Top-level entry points call it after
// decoding one value: the whole buffer must belong to that value.
func (d *Decoder) Finish() error {
	if d.cursor.empty() {
		return nil
	}
	return &DecodeError{Kind: KindSyntax, Offset: d.cursor.pos, Got: d.cursor.buf[d.cursor.pos]}
}

// DecodeShape decodes the next value according to shape and feeds it
// to v. With [KindAny] the shape is inferred from the next byte.
func (d *Decoder) DecodeShape(shape Shape, v Visitor) error {
	start := d.cursor.pos
	switch shape.Kind {
	case KindAny:
		return d.decodeAny(v)
	case KindBool:
		value, err := d.DecodeBool()
		if err != nil {
			return err
		}
		return wrapVisitorError(start, v.VisitBool(value))
	case KindInt:
		value, err := d.DecodeInt(shape.bits())
		if err != nil {
			return err
		}
		return wrapVisitorError(start, v.VisitInt(value))
	case KindUint:
		value, err := d.DecodeUint(shape.bits())
		if err != nil {
			return err
		}
		return wrapVisitorError(start, v.VisitUint(value))
	case KindFloat:
		return d.DecodeFloat()
	case KindChar:
		value, err := d.DecodeChar()
		if err != nil {
			return err
		}
		return wrapVisitorError(start, v.VisitChar(value))
	case KindText:
		value, err := d.DecodeText()
		if err != nil {
			return err
		}
		return wrapVisitorError(start, v.VisitText(value))
	case KindBytes:
		value, err := d.DecodeBytes()
		if err != nil {
			return err
		}
		return wrapVisitorError(start, v.VisitBytes(value))
	case KindUnit:
		if err := d.DecodeUnit(); err != nil {
			return err
		}
		return wrapVisitorError(start, v.VisitUnit())
	case KindUnitStruct:
		if err := d.DecodeUnitStruct(shape.Name); err != nil {
			return err
		}
		return wrapVisitorError(start, v.VisitUnit())
	case KindOption:
		return d.DecodeOption(v)
	case KindList:
		return d.DecodeList(v)
	case KindDict:
		return d.DecodeDict(v)
	case KindVariant:
		return d.DecodeVariant(v)
	default:
		return &DecodeError{Kind: KindDecodeMessage, Offset: start, Message: "unknown shape " + shape.String()}
	}
}

// decodeAny dispatches purely on the lookahead byte.
func (d *Decoder) decodeAny(v Visitor) error {
	start := d.cursor.pos
	next, err := d.cursor.peek()
	if err != nil {
		return err
	}
	switch {
	case next == markerInteger:
		second, err := d.cursor.peekSecond()
		if err != nil {
			return err
		}
		if second == markerMinus {
			value, err := d.readSigned(64)
			if err != nil {
				return err
			}
			return wrapVisitorError(start, v.VisitInt(value))
		}
		value, err := d.readUnsigned(64)
		if err != nil {
			return err
		}
		return wrapVisitorError(start, v.VisitUint(value))
	case next == markerList:
		return d.DecodeList(v)
	case next == markerDict:
		return d.DecodeDict(v)
	case isDigit(next):
		value, err := d.readByteString()
		if err != nil {
			return err
		}
		if d.behavior == Auto && utf8.Valid(value) {
			return wrapVisitorError(start, v.VisitText(value))
		}
		return wrapVisitorError(start, v.VisitBytes(value))
	default:
		return &DecodeError{Kind: KindSyntax, Offset: start, Got: next}
	}
}

// DecodeBool reads i0e or i1e.
func (d *Decoder) DecodeBool() (bool, error) {
	start := d.cursor.pos
	marker, err := d.cursor.advance()
	if err != nil {
		return false, err
	}
	if marker != markerInteger {
		return false, &DecodeError{Kind: KindExpectedInteger, Offset: start, Got: marker}
	}
	digits, err := d.cursor.takeUntil(markerEnd)
	if err != nil {
		return false, err
	}
	if len(digits) != 1 || (digits[0] != '0' && digits[0] != '1') {
		return false, &DecodeError{Kind: KindDecodeMessage, Offset: start + 1, Message: "expected integer 0 or 1 for boolean"}
	}
	return digits[0] == '1', nil
}

// DecodeInt reads a signed integer bounded to bits.
func (d *Decoder) DecodeInt(bits int) (int64, error) {
	return d.readSigned(bits)
}

// DecodeUint reads an unsigned integer bounded to bits.
func (d *Decoder) DecodeUint(bits int) (uint64, error) {
	return d.readUnsigned(bits)
}

// DecodeFloat always fails: bencode has no floating point form.
func (d *Decoder) DecodeFloat() error {
	return d.cursor.fail(KindFloatingPoint)
}

// DecodeText reads a byte string and validates it as UTF-8. The
// returned slice aliases the input.
func (d *Decoder) DecodeText() ([]byte, error) {
	value, err := d.readByteString()
	if err != nil {
		return nil, err
	}
	if !utf8.Valid(value) {
		return nil, &DecodeError{Kind: KindInvalidUTF8, Offset: d.cursor.pos - len(value)}
	}
	return value, nil
}

// DecodeString reads a UTF-8 byte string into an owned Go string.
func (d *Decoder) DecodeString() (string, error) {
	value, err := d.DecodeText()
	if err != nil {
		return "", err
	}
	return string(value), nil
}

// DecodeBytes reads a byte string. The returned slice aliases the
// input.
func (d *Decoder) DecodeBytes() ([]byte, error) {
	return d.readByteString()
}

// DecodeChar reads a byte string holding exactly one code point.
func (d *Decoder) DecodeChar() (rune, error) {
	start := d.cursor.pos
	value, err := d.readByteString()
	if err != nil {
		return 0, err
	}
	if len(value) > utf8.UTFMax {
		return 0, &DecodeError{Kind: KindExpectedCharString, Offset: start}
	}
	if !utf8.Valid(value) {
		return 0, &DecodeError{Kind: KindInvalidUTF8, Offset: start}
	}
	if utf8.RuneCount(value) != 1 {
		return 0, &DecodeError{Kind: KindExpectedCharString, Offset: start}
	}
	r, _ := utf8.DecodeRune(value)
	return r, nil
}

// DecodeUnit consumes the two bytes of a unit value, which must be
// the empty byte string "0:".
func (d *Decoder) DecodeUnit() error {
	start := d.cursor.pos
	frame, err := d.cursor.take(2)
	if err != nil {
		return err
	}
	if frame[0] != '0' {
		return &DecodeError{Kind: KindSyntax, Offset: start, Got: frame[0], Expected: '0', HasExpected: true}
	}
	if frame[1] != markerColon {
		return &DecodeError{Kind: KindSyntax, Offset: start + 1, Got: frame[1], Expected: markerColon, HasExpected: true}
	}
	return nil
}

// DecodeUnitStruct reads a byte string that must equal name.
func (d *Decoder) DecodeUnitStruct(name string) error {
	start := d.cursor.pos
	value, err := d.readByteString()
	if err != nil {
		return err
	}
	if string(value) != name {
		return &DecodeError{Kind: KindExpectedUnitStructName, Offset: start, Message: name}
	}
	return nil
}

// DecodeOption treats an exhausted buffer as absent and anything else
// as a present value. There is no wire marker for "none".
func (d *Decoder) DecodeOption(v Visitor) error {
	start := d.cursor.pos
	if d.cursor.empty() {
		return wrapVisitorError(start, v.VisitNone())
	}
	return wrapVisitorError(start, v.VisitSome(d))
}

// DecodeList reads "l...e" and hands the elements to v one at a time
// through a [ListAccess].
func (d *Decoder) DecodeList(v Visitor) error {
	start := d.cursor.pos
	if err := d.cursor.expect(markerList); err != nil {
		return err
	}
	if err := d.enter(start); err != nil {
		return err
	}
	access := &ListAccess{decoder: d}
	if err := wrapVisitorError(start, v.VisitList(access)); err != nil {
		return err
	}
	if err := access.close(); err != nil {
		return err
	}
	d.leave()
	return nil
}

// DecodeDict reads "d...e" and hands the entries to v one at a time
// through a [DictAccess].
func (d *Decoder) DecodeDict(v Visitor) error {
	start := d.cursor.pos
	if err := d.cursor.expect(markerDict); err != nil {
		return err
	}
	if err := d.enter(start); err != nil {
		return err
	}
	access := &DictAccess{decoder: d}
	if err := wrapVisitorError(start, v.VisitDict(access)); err != nil {
		return err
	}
	if err := access.close(); err != nil {
		return err
	}
	d.leave()
	return nil
}

// DecodeVariant reads an enum value. A bare byte string names a
// variant without payload; a dictionary with exactly one entry names
// the variant (key) and carries its payload (value).
func (d *Decoder) DecodeVariant(v Visitor) error {
	start := d.cursor.pos
	next, err := d.cursor.peek()
	if err != nil {
		return err
	}
	switch {
	case next == markerDict:
		d.cursor.pos++
		if err := d.enter(start); err != nil {
			return err
		}
		name, err := d.DecodeText()
		if err != nil {
			return err
		}
		access := &VariantAccess{decoder: d, framed: true}
		if err := wrapVisitorError(start, v.VisitVariant(name, access)); err != nil {
			return err
		}
		offset := d.cursor.pos
		closing, err := d.cursor.advance()
		if err != nil {
			return err
		}
		if closing != markerEnd {
			return &DecodeError{Kind: KindExpectedEndOfDictionary, Offset: offset, Got: closing}
		}
		d.leave()
		return nil
	case isDigit(next):
		name, err := d.DecodeText()
		if err != nil {
			return err
		}
		return wrapVisitorError(start, v.VisitVariant(name, &VariantAccess{decoder: d}))
	default:
		return &DecodeError{Kind: KindExpectedDictionary, Offset: start, Got: next}
	}
}

func (d *Decoder) enter(offset int) error {
	d.depth++
	if d.maxDepth > 0 && d.depth > d.maxDepth {
		return &DecodeError{Kind: KindTooDeep, Offset: offset, Message: strconv.Itoa(d.maxDepth)}
	}
	return nil
}

func (d *Decoder) leave() { d.depth-- }
