// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package bencode

import (
	"strconv"
)

// Wire markers.
const (
	markerInteger byte = 'i'
	markerList    byte = 'l'
	markerDict    byte = 'd'
	markerEnd     byte = 'e'
	markerColon   byte = ':'
	markerMinus   byte = '-'
)

func isDigit(b byte) bool { return b >= '0' && b <= '9' }

// readByteString parses "<len>:<bytes>" and returns the payload as a
// view into the input.
func (d *Decoder) readByteString() ([]byte, error) {
	start := d.cursor.pos
	first, err := d.cursor.peek()
	if err != nil {
		return nil, err
	}
	if !isDigit(first) {
		return nil, &DecodeError{Kind: KindExpectedString, Offset: start, Got: first}
	}
	digits, err := d.cursor.takeUntil(markerColon)
	if err != nil {
		return nil, err
	}
	if d.strict && len(digits) > 1 && digits[0] == '0' {
		return nil, &DecodeError{Kind: KindSyntax, Offset: start + 1, Got: digits[1], Expected: markerColon, HasExpected: true}
	}
	length, err := strconv.ParseUint(string(digits), 10, strconv.IntSize-1)
	if err != nil {
		return nil, &DecodeError{Kind: KindParseInteger, Offset: start, Err: err}
	}
	payload, err := d.cursor.take(int(length))
	if err != nil {
		return nil, err
	}
	return payload, nil
}

// readIntegerToken consumes "i<digits>e" and returns the digits.
func (d *Decoder) readIntegerToken() ([]byte, int, error) {
	if err := d.cursor.expect(markerInteger); err != nil {
		return nil, 0, err
	}
	start := d.cursor.pos
	digits, err := d.cursor.takeUntil(markerEnd)
	if err != nil {
		return nil, 0, err
	}
	if d.strict {
		if err := checkCanonicalInteger(digits, start); err != nil {
			return nil, 0, err
		}
	}
	return digits, start, nil
}

// readSigned parses an integer token into a signed value that fits
// in bits.
func (d *Decoder) readSigned(bits int) (int64, error) {
	digits, start, err := d.readIntegerToken()
	if err != nil {
		return 0, err
	}
	value, err := strconv.ParseInt(string(digits), 10, bits)
	if err != nil {
		return 0, &DecodeError{Kind: KindParseInteger, Offset: start, Err: err}
	}
	return value, nil
}

// readUnsigned parses an integer token into an unsigned value that
// fits in bits.
func (d *Decoder) readUnsigned(bits int) (uint64, error) {
	digits, start, err := d.readIntegerToken()
	if err != nil {
		return 0, err
	}
	value, err := strconv.ParseUint(string(digits), 10, bits)
	if err != nil {
		return 0, &DecodeError{Kind: KindParseInteger, Offset: start, Err: err}
	}
	return value, nil
}

// checkCanonicalInteger enforces the strict integer grammar: no sign
// other than a single leading '-', no leading zeros, and no "-0".
func checkCanonicalInteger(digits []byte, start int) error {
	body := digits
	offset := start
	if len(body) > 0 && body[0] == markerMinus {
		body = body[1:]
		offset++
		if len(body) > 0 && body[0] == '0' {
			return &DecodeError{Kind: KindSyntax, Offset: offset, Got: '0'}
		}
	}
	if len(body) == 0 {
		return &DecodeError{Kind: KindParseInteger, Offset: start, Err: strconv.ErrSyntax}
	}
	for index, b := range body {
		if !isDigit(b) {
			return &DecodeError{Kind: KindSyntax, Offset: offset + index, Got: b}
		}
	}
	if len(body) > 1 && body[0] == '0' {
		return &DecodeError{Kind: KindSyntax, Offset: offset, Got: '0'}
	}
	return nil
}
