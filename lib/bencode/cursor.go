// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package bencode

import "bytes"

// cursor is a forward-only view over a borrowed input buffer. It
// never copies: every slice it returns aliases buf, and the position
// only moves forward for the lifetime of a decode call.
type cursor struct {
	buf []byte
	pos int
}

func (c *cursor) remaining() int { return len(c.buf) - c.pos }

func (c *cursor) empty() bool { return c.pos >= len(c.buf) }

// peek returns the next byte without consuming it.
func (c *cursor) peek() (byte, error) {
	if c.pos >= len(c.buf) {
		return 0, c.eof()
	}
	return c.buf[c.pos], nil
}

// peekSecond returns the byte after the next one. Used only to tell a
// negative integer ("i-") from a non-negative one.
func (c *cursor) peekSecond() (byte, error) {
	if c.pos+1 >= len(c.buf) {
		return 0, c.eof()
	}
	return c.buf[c.pos+1], nil
}

// advance consumes and returns one byte.
func (c *cursor) advance() (byte, error) {
	if c.pos >= len(c.buf) {
		return 0, c.eof()
	}
	b := c.buf[c.pos]
	c.pos++
	return b, nil
}

// take consumes exactly n bytes. Short input is an error; the cursor
// does not move in that case.
func (c *cursor) take(n int) ([]byte, error) {
	if n < 0 || n > c.remaining() {
		return nil, c.eof()
	}
	start := c.pos
	c.pos += n
	return c.buf[start:c.pos:c.pos], nil
}

// takeUntil consumes bytes up to and including delim and returns the
// prefix before it, which may be empty.
func (c *cursor) takeUntil(delim byte) ([]byte, error) {
	index := bytes.IndexByte(c.buf[c.pos:], delim)
	if index < 0 {
		return nil, c.eofAt(len(c.buf))
	}
	start := c.pos
	c.pos += index + 1
	return c.buf[start : start+index : start+index], nil
}

// expect consumes one byte and fails with a syntax error naming the
// marker if it is not want.
func (c *cursor) expect(want byte) error {
	offset := c.pos
	got, err := c.advance()
	if err != nil {
		return err
	}
	if got != want {
		return &DecodeError{Kind: KindSyntax, Offset: offset, Got: got, Expected: want, HasExpected: true}
	}
	return nil
}

func (c *cursor) eof() *DecodeError { return c.eofAt(len(c.buf)) }

func (c *cursor) eofAt(offset int) *DecodeError {
	return &DecodeError{Kind: KindUnexpectedEOF, Offset: offset}
}

func (c *cursor) fail(kind DecodeErrorKind) *DecodeError {
	return &DecodeError{Kind: kind, Offset: c.pos}
}
