// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package bencode

import (
	"cmp"
	"reflect"
	"slices"
)

var (
	marshalerType  = reflect.TypeFor[Marshaler]()
	rawMessageType = reflect.TypeFor[RawMessage]()
)

// encodeAny describes v through em. This is the reflection mapping
// from Go types to shapes:
//
//	bool                     integer 0/1 (only with EncOptions.Bool)
//	intN, uintN              integer
//	floatN                   always ErrFloatingPointNotSupported
//	string                   byte string
//	[]byte, [N]byte          byte string (list with the ",list" tag)
//	struct{}                 unit ("0:")
//	slice, array             list
//	map[string-kind]V        dictionary
//	struct                   dictionary of its fields
//	pointer, interface       the pointee; nil is absent
//
// Types implementing [Marshaler] describe themselves. That includes
// byte-kinded element types: a []T whose T implements [Marshaler] or
// [Unmarshaler] is a list, not a byte string.
func encodeAny(em Emitter, v any) error {
	return encodeValue(em, reflect.ValueOf(v))
}

func encodeValue(em Emitter, v reflect.Value) error {
	if !v.IsValid() {
		return em.EmitNone()
	}
	switch v.Kind() {
	case reflect.Pointer, reflect.Interface:
		if v.IsNil() {
			return em.EmitNone()
		}
	}
	if v.Type().Implements(marshalerType) {
		return v.Interface().(Marshaler).MarshalBencode(em)
	}
	if v.CanAddr() && v.Addr().Type().Implements(marshalerType) {
		return v.Addr().Interface().(Marshaler).MarshalBencode(em)
	}

	switch v.Kind() {
	case reflect.Bool:
		return em.EmitBool(v.Bool())
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return em.EmitInt(v.Int())
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return em.EmitUint(v.Uint())
	case reflect.Float32, reflect.Float64:
		return em.EmitFloat(v.Float())
	case reflect.String:
		return em.EmitText(v.String())
	case reflect.Slice:
		if isByteSequence(v.Type()) {
			return em.EmitBytes(v.Bytes())
		}
		return encodeList(em, v)
	case reflect.Array:
		if isByteSequence(v.Type()) {
			data := make([]byte, v.Len())
			reflect.Copy(reflect.ValueOf(data), v)
			return em.EmitBytes(data)
		}
		return encodeList(em, v)
	case reflect.Map:
		return encodeMap(em, v)
	case reflect.Struct:
		if v.NumField() == 0 {
			return em.EmitUnit()
		}
		return encodeStruct(em, v)
	case reflect.Pointer, reflect.Interface:
		return encodeValue(em, v.Elem())
	default:
		return encodeMessage("unsupported type %s", v.Type())
	}
}

// isByteSequence reports whether a slice or array type maps to a byte
// string. Element types with their own codec keep list form.
func isByteSequence(t reflect.Type) bool {
	elem := t.Elem()
	if elem.Kind() != reflect.Uint8 {
		return false
	}
	pointer := reflect.PointerTo(elem)
	return !elem.Implements(marshalerType) && !pointer.Implements(marshalerType) && !pointer.Implements(unmarshalerType)
}

func encodeList(em Emitter, v reflect.Value) error {
	if err := em.BeginList(); err != nil {
		return err
	}
	for index := 0; index < v.Len(); index++ {
		if err := encodeValue(em, v.Index(index)); err != nil {
			return err
		}
	}
	return em.EndList()
}

// omitsNone reports whether absent values should be skipped before
// their key is written rather than passed to EmitNone.
func omitsNone(em Emitter) bool {
	encoder, ok := em.(*Encoder)
	return !ok || !encoder.options.NoneIsError
}

func isNone(v reflect.Value) bool {
	if v.IsValid() && v.Type() == rawMessageType {
		return v.Len() == 0
	}
	switch v.Kind() {
	case reflect.Pointer, reflect.Interface:
		return v.IsNil()
	default:
		return !v.IsValid()
	}
}

func encodeMap(em Emitter, v reflect.Value) error {
	if v.Type().Key().Kind() != reflect.String {
		return &EncodeError{Kind: KindDictionaryKeyMustBeString, Message: v.Type().Key().String()}
	}
	keys := v.MapKeys()
	slices.SortFunc(keys, func(a, b reflect.Value) int {
		return cmp.Compare(a.String(), b.String())
	})
	skipNone := omitsNone(em)
	if err := em.BeginDict(); err != nil {
		return err
	}
	for _, key := range keys {
		value := v.MapIndex(key)
		if skipNone && isNone(value) {
			continue
		}
		if err := em.DictKey().EmitText(key.String()); err != nil {
			return err
		}
		if err := encodeValue(em, value); err != nil {
			return err
		}
	}
	return em.EndDict()
}

func encodeStruct(em Emitter, v reflect.Value) error {
	skipNone := omitsNone(em)
	if err := em.BeginDict(); err != nil {
		return err
	}
	for _, field := range cachedFields(v.Type()).list {
		value := v.FieldByIndex(field.index)
		if field.omitEmpty && isEmpty(value) {
			continue
		}
		if skipNone && isNone(value) {
			continue
		}
		if err := em.EmitKey(field.name); err != nil {
			return err
		}
		if field.list && isSequence(value) {
			if err := encodeList(em, value); err != nil {
				return err
			}
			continue
		}
		if err := encodeValue(em, value); err != nil {
			return err
		}
	}
	return em.EndDict()
}

func isSequence(v reflect.Value) bool {
	return v.Kind() == reflect.Slice || v.Kind() == reflect.Array
}
