// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package bencode

import (
	"errors"
	"fmt"
)

// Visitor receives the data a [Decoder] matched in the input. The
// decoder calls exactly one method per value.
//
// Slices passed to VisitText and VisitBytes alias the input buffer.
// They are valid only as long as that buffer is; a visitor that keeps
// them past the decode call must either guarantee the buffer outlives
// the value or copy.
type Visitor interface {
	VisitBool(v bool) error
	VisitInt(v int64) error
	VisitUint(v uint64) error
	VisitChar(r rune) error
	// VisitText receives a byte string already validated as UTF-8.
	VisitText(s []byte) error
	VisitBytes(b []byte) error
	VisitUnit() error
	VisitNone() error
	VisitSome(d *Decoder) error
	VisitList(list *ListAccess) error
	VisitDict(dict *DictAccess) error
	VisitVariant(name []byte, variant *VariantAccess) error
}

// UnexpectedVisitor rejects every value. Embed it in a visitor and
// override only the methods for the shapes you accept; the rest fail
// with an "invalid type" error naming Expecting.
type UnexpectedVisitor struct {
	Expecting string
}

func (u UnexpectedVisitor) invalid(got string) error {
	return InvalidType(got, u.Expecting)
}

func (u UnexpectedVisitor) VisitBool(bool) error     { return u.invalid("boolean") }
func (u UnexpectedVisitor) VisitInt(int64) error     { return u.invalid("integer") }
func (u UnexpectedVisitor) VisitUint(uint64) error   { return u.invalid("integer") }
func (u UnexpectedVisitor) VisitChar(rune) error     { return u.invalid("character") }
func (u UnexpectedVisitor) VisitText([]byte) error   { return u.invalid("text string") }
func (u UnexpectedVisitor) VisitBytes([]byte) error  { return u.invalid("byte string") }
func (u UnexpectedVisitor) VisitUnit() error         { return u.invalid("unit") }
func (u UnexpectedVisitor) VisitNone() error         { return u.invalid("absent value") }
func (u UnexpectedVisitor) VisitSome(*Decoder) error { return u.invalid("optional value") }
func (u UnexpectedVisitor) VisitList(*ListAccess) error {
	return u.invalid("list")
}
func (u UnexpectedVisitor) VisitDict(*DictAccess) error {
	return u.invalid("dictionary")
}
func (u UnexpectedVisitor) VisitVariant([]byte, *VariantAccess) error {
	return u.invalid("enum variant")
}

// InvalidType builds the error a visitor returns when handed a shape
// it cannot accept.
func InvalidType(got, expecting string) error {
	if expecting == "" {
		return fmt.Errorf("invalid type: %s", got)
	}
	return fmt.Errorf("invalid type: %s, expected %s", got, expecting)
}

// wrapVisitorError attaches an input offset to an error returned by a
// visitor. Errors that already belong to the taxonomy pass through.
func wrapVisitorError(offset int, err error) error {
	if err == nil {
		return nil
	}
	var decodeErr *DecodeError
	if errors.As(err, &decodeErr) {
		return err
	}
	return &DecodeError{Kind: KindDecodeMessage, Offset: offset, Message: err.Error(), Err: err}
}
