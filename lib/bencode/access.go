// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package bencode

// ListAccess iterates the elements of a list being decoded. Call
// Next before each element; when it returns true, decode exactly one
// value from Decoder.
//
//	for {
//	    more, err := list.Next()
//	    if err != nil || !more {
//	        return err
//	    }
//	    if err := list.Decoder().DecodeShape(bencode.Int64Shape, elem); err != nil {
//	        return err
//	    }
//	}
type ListAccess struct {
	decoder *Decoder
	done    bool
}

// Next reports whether another element follows. It peeks for the
// terminating 'e' and consumes it when found.
func (a *ListAccess) Next() (bool, error) {
	return nextElement(a.decoder, &a.done)
}

// Decoder returns the decoder positioned at the next element.
func (a *ListAccess) Decoder() *Decoder { return a.decoder }

func (a *ListAccess) close() error {
	return closeContainer(a.decoder, &a.done)
}

// DictAccess iterates the entries of a dictionary being decoded. Call
// Next before each entry, then Key, then decode exactly one value
// from Decoder.
type DictAccess struct {
	decoder *Decoder
	done    bool
}

// Next reports whether another entry follows.
func (a *DictAccess) Next() (bool, error) {
	return nextElement(a.decoder, &a.done)
}

// Key reads the next entry's key. Keys are always byte strings; any
// other shape is ErrExpectedString. The returned slice aliases the
// input.
func (a *DictAccess) Key() ([]byte, error) {
	return a.decoder.readByteString()
}

// Decoder returns the decoder positioned at the current entry's value.
func (a *DictAccess) Decoder() *Decoder { return a.decoder }

func (a *DictAccess) close() error {
	return closeContainer(a.decoder, &a.done)
}

// VariantAccess gives a variant visitor access to the payload of the
// variant it was handed.
type VariantAccess struct {
	decoder *Decoder
	framed  bool
}

// IsUnit reports whether the variant was encoded as a bare name with
// no payload.
func (a *VariantAccess) IsUnit() bool { return !a.framed }

// Unit confirms a payload-free variant. A dictionary-framed variant
// carries a payload, so asking for a unit is ErrExpectedString.
func (a *VariantAccess) Unit() error {
	if a.framed {
		return a.decoder.cursor.fail(KindExpectedString)
	}
	return nil
}

// Payload returns the decoder positioned at the variant's payload.
// A bare-name variant has none, which is ErrExpectedDictionary.
func (a *VariantAccess) Payload() (*Decoder, error) {
	if !a.framed {
		return nil, a.decoder.cursor.fail(KindExpectedDictionary)
	}
	return a.decoder, nil
}

func nextElement(d *Decoder, done *bool) (bool, error) {
	if *done {
		return false, nil
	}
	next, err := d.cursor.peek()
	if err != nil {
		return false, err
	}
	if next == markerEnd {
		d.cursor.pos++
		*done = true
		return false, nil
	}
	return true, nil
}

// closeContainer consumes the terminating 'e' if the visitor stopped
// iterating early. Leftover elements are a syntax error.
func closeContainer(d *Decoder, done *bool) error {
	if *done {
		return nil
	}
	if err := d.cursor.expect(markerEnd); err != nil {
		return err
	}
	*done = true
	return nil
}

// funcVisitor adapts callbacks to the Visitor interface for the
// container helpers below.
type funcVisitor struct {
	UnexpectedVisitor
	list    func(*Decoder) error
	dict    func([]byte, *Decoder) error
	variant func([]byte, *VariantAccess) error
}

func (f *funcVisitor) VisitList(list *ListAccess) error {
	if f.list == nil {
		return f.UnexpectedVisitor.VisitList(list)
	}
	for {
		more, err := list.Next()
		if err != nil || !more {
			return err
		}
		if err := f.list(list.Decoder()); err != nil {
			return err
		}
	}
}

func (f *funcVisitor) VisitDict(dict *DictAccess) error {
	if f.dict == nil {
		return f.UnexpectedVisitor.VisitDict(dict)
	}
	for {
		more, err := dict.Next()
		if err != nil || !more {
			return err
		}
		key, err := dict.Key()
		if err != nil {
			return err
		}
		if err := f.dict(key, dict.Decoder()); err != nil {
			return err
		}
	}
}

func (f *funcVisitor) VisitVariant(name []byte, variant *VariantAccess) error {
	if f.variant == nil {
		return f.UnexpectedVisitor.VisitVariant(name, variant)
	}
	return f.variant(name, variant)
}

// DecodeListFunc decodes a list, calling element once per element
// with the decoder positioned at it. element must consume exactly one
// value.
func (d *Decoder) DecodeListFunc(element func(d *Decoder) error) error {
	return d.DecodeList(&funcVisitor{UnexpectedVisitor: UnexpectedVisitor{Expecting: "list"}, list: element})
}

// DecodeDictFunc decodes a dictionary, calling entry once per entry
// with the key and the decoder positioned at the value.
func (d *Decoder) DecodeDictFunc(entry func(key []byte, d *Decoder) error) error {
	return d.DecodeDict(&funcVisitor{UnexpectedVisitor: UnexpectedVisitor{Expecting: "dictionary"}, dict: entry})
}

// DecodeVariantFunc decodes an enum value, calling variant with its
// name and payload access.
func (d *Decoder) DecodeVariantFunc(variant func(name []byte, access *VariantAccess) error) error {
	return d.DecodeVariant(&funcVisitor{UnexpectedVisitor: UnexpectedVisitor{Expecting: "enum variant"}, variant: variant})
}
