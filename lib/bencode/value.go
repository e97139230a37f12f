// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package bencode

import (
	"bytes"
	"reflect"
)

// DictEntry is one key/value pair of a [Dict].
type DictEntry struct {
	Key   []byte
	Value any
}

// Dict is a dictionary decoded without a target type. Entries keep
// the order they had on the wire, which is how a caller can tell a
// canonical dictionary from one that merely decodes.
//
// Values are int64 (negative integers), uint64, string (Auto behavior,
// valid UTF-8), []byte, []any, or Dict.
type Dict []DictEntry

// Get returns the value of the first entry whose key equals key.
func (d Dict) Get(key string) (any, bool) {
	for _, entry := range d {
		if string(entry.Key) == key {
			return entry.Value, true
		}
	}
	return nil, false
}

// Keys returns the entry keys in order.
func (d Dict) Keys() [][]byte {
	keys := make([][]byte, len(d))
	for index, entry := range d {
		keys[index] = entry.Key
	}
	return keys
}

// MarshalBencode writes the entries in order. A canonical encoder
// sorts them.
func (d Dict) MarshalBencode(e Emitter) error {
	if err := e.BeginDict(); err != nil {
		return err
	}
	skipNone := omitsNone(e)
	for _, entry := range d {
		if skipNone && isNone(reflect.ValueOf(entry.Value)) {
			continue
		}
		if err := e.DictKey().EmitBytes(entry.Key); err != nil {
			return err
		}
		if err := e.Encode(entry.Value); err != nil {
			return err
		}
	}
	return e.EndDict()
}

// UnmarshalBencode decodes a dictionary of self-describing values.
func (d *Dict) UnmarshalBencode(decoder *Decoder) error {
	entries := Dict{}
	err := decoder.DecodeDictFunc(func(key []byte, value *Decoder) error {
		decoded, err := value.DecodeAny()
		if err != nil {
			return err
		}
		entries = append(entries, DictEntry{Key: bytes.Clone(key), Value: decoded})
		return nil
	})
	if err != nil {
		return err
	}
	*d = entries
	return nil
}

// DecodeAny decodes the next value without a target type. Byte
// strings are copied out of the input.
func (d *Decoder) DecodeAny() (any, error) {
	var visitor valueVisitor
	if err := d.DecodeShape(AnyShape, &visitor); err != nil {
		return nil, err
	}
	return visitor.value, nil
}

// Skip consumes the next value and discards it.
func (d *Decoder) Skip() error {
	return d.DecodeShape(AnyShape, discardVisitor{})
}

type valueVisitor struct {
	value any
}

func (v *valueVisitor) VisitBool(b bool) error     { v.value = b; return nil }
func (v *valueVisitor) VisitInt(n int64) error     { v.value = n; return nil }
func (v *valueVisitor) VisitUint(n uint64) error   { v.value = n; return nil }
func (v *valueVisitor) VisitChar(r rune) error     { v.value = string(r); return nil }
func (v *valueVisitor) VisitText(s []byte) error   { v.value = string(s); return nil }
func (v *valueVisitor) VisitBytes(b []byte) error  { v.value = append([]byte{}, b...); return nil }
func (v *valueVisitor) VisitUnit() error           { v.value = []byte{}; return nil }
func (v *valueVisitor) VisitNone() error           { v.value = nil; return nil }
func (v *valueVisitor) VisitSome(d *Decoder) error { return d.DecodeShape(AnyShape, v) }

func (v *valueVisitor) VisitList(list *ListAccess) error {
	elements := []any{}
	for {
		more, err := list.Next()
		if err != nil {
			return err
		}
		if !more {
			break
		}
		element, err := list.Decoder().DecodeAny()
		if err != nil {
			return err
		}
		elements = append(elements, element)
	}
	v.value = elements
	return nil
}

func (v *valueVisitor) VisitDict(dict *DictAccess) error {
	entries := Dict{}
	for {
		more, err := dict.Next()
		if err != nil {
			return err
		}
		if !more {
			break
		}
		key, err := dict.Key()
		if err != nil {
			return err
		}
		value, err := dict.Decoder().DecodeAny()
		if err != nil {
			return err
		}
		entries = append(entries, DictEntry{Key: bytes.Clone(key), Value: value})
	}
	v.value = entries
	return nil
}

// VisitVariant is only reachable through an explicit variant shape;
// the name becomes a single-entry Dict, or a string for unit variants.
func (v *valueVisitor) VisitVariant(name []byte, variant *VariantAccess) error {
	if variant.IsUnit() {
		v.value = string(name)
		return nil
	}
	payload, err := variant.Payload()
	if err != nil {
		return err
	}
	value, err := payload.DecodeAny()
	if err != nil {
		return err
	}
	v.value = Dict{{Key: bytes.Clone(name), Value: value}}
	return nil
}

type discardVisitor struct{}

func (discardVisitor) VisitBool(bool) error     { return nil }
func (discardVisitor) VisitInt(int64) error     { return nil }
func (discardVisitor) VisitUint(uint64) error   { return nil }
func (discardVisitor) VisitChar(rune) error     { return nil }
func (discardVisitor) VisitText([]byte) error   { return nil }
func (discardVisitor) VisitBytes([]byte) error  { return nil }
func (discardVisitor) VisitUnit() error         { return nil }
func (discardVisitor) VisitNone() error         { return nil }
func (discardVisitor) VisitSome(*Decoder) error { return nil }

func (discardVisitor) VisitList(list *ListAccess) error {
	for {
		more, err := list.Next()
		if err != nil || !more {
			return err
		}
		if err := list.Decoder().Skip(); err != nil {
			return err
		}
	}
}

func (discardVisitor) VisitDict(dict *DictAccess) error {
	for {
		more, err := dict.Next()
		if err != nil || !more {
			return err
		}
		if _, err := dict.Key(); err != nil {
			return err
		}
		if err := dict.Decoder().Skip(); err != nil {
			return err
		}
	}
}

func (discardVisitor) VisitVariant(_ []byte, variant *VariantAccess) error {
	if variant.IsUnit() {
		return nil
	}
	payload, err := variant.Payload()
	if err != nil {
		return err
	}
	return payload.Skip()
}
