// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package bencode

import (
	"fmt"
	"reflect"
)

var unmarshalerType = reflect.TypeFor[Unmarshaler]()

// Decode decodes the next value into v, which must be a non-nil
// pointer. It applies the inverse of the mapping [Marshal] uses;
// string and []byte targets receive copies, [Borrowed] and
// [RawMessage] alias the input.
//
// Decode does not check for trailing input. Call [Decoder.Finish]
// when the value should have been the last one.
func (d *Decoder) Decode(v any) error {
	target := reflect.ValueOf(v)
	if target.Kind() != reflect.Pointer || target.IsNil() {
		return &DecodeError{Kind: KindDecodeMessage, Offset: d.cursor.pos, Message: fmt.Sprintf("Decode target must be a non-nil pointer, got %T", v)}
	}
	return d.decodeValue(target.Elem())
}

func (d *Decoder) decodeValue(v reflect.Value) error {
	if v.Kind() != reflect.Pointer && v.CanAddr() && v.Addr().Type().Implements(unmarshalerType) {
		return d.decodeUnmarshaler(v.Addr().Interface().(Unmarshaler))
	}

	switch v.Kind() {
	case reflect.Bool:
		value, err := d.DecodeBool()
		if err != nil {
			return err
		}
		v.SetBool(value)
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		value, err := d.DecodeInt(v.Type().Bits())
		if err != nil {
			return err
		}
		v.SetInt(value)
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		value, err := d.DecodeUint(v.Type().Bits())
		if err != nil {
			return err
		}
		v.SetUint(value)
	case reflect.Float32, reflect.Float64:
		return d.DecodeFloat()
	case reflect.String:
		value, err := d.DecodeString()
		if err != nil {
			return err
		}
		v.SetString(value)
	case reflect.Slice:
		if isByteSequence(v.Type()) {
			value, err := d.DecodeBytes()
			if err != nil {
				return err
			}
			v.SetBytes(append([]byte{}, value...))
			return nil
		}
		return d.decodeSlice(v)
	case reflect.Array:
		if isByteSequence(v.Type()) {
			return d.decodeByteArray(v)
		}
		return d.decodeArray(v)
	case reflect.Map:
		return d.decodeMap(v)
	case reflect.Struct:
		if v.NumField() == 0 {
			return d.DecodeUnit()
		}
		return d.decodeStruct(v)
	case reflect.Pointer:
		return d.DecodeOption(&optionVisitor{target: v})
	case reflect.Interface:
		return d.decodeInterface(v)
	default:
		return &DecodeError{Kind: KindDecodeMessage, Offset: d.cursor.pos, Message: "unsupported type " + v.Type().String()}
	}
	return nil
}

// decodeUnmarshaler runs a custom decoder and attaches its offset to
// errors that lack one.
func (d *Decoder) decodeUnmarshaler(u Unmarshaler) error {
	start := d.cursor.pos
	return wrapVisitorError(start, u.UnmarshalBencode(d))
}

func (d *Decoder) decodeSlice(v reflect.Value) error {
	out := reflect.MakeSlice(v.Type(), 0, 0)
	err := d.DecodeListFunc(func(element *Decoder) error {
		item := reflect.New(v.Type().Elem()).Elem()
		if err := element.decodeValue(item); err != nil {
			return err
		}
		out = reflect.Append(out, item)
		return nil
	})
	if err != nil {
		return err
	}
	v.Set(out)
	return nil
}

func (d *Decoder) decodeArray(v reflect.Value) error {
	count := 0
	err := d.DecodeListFunc(func(element *Decoder) error {
		if count >= v.Len() {
			return fmt.Errorf("invalid length %d, expected list of %d elements", count+1, v.Len())
		}
		if err := element.decodeValue(v.Index(count)); err != nil {
			return err
		}
		count++
		return nil
	})
	if err != nil {
		return err
	}
	if count != v.Len() {
		return &DecodeError{Kind: KindDecodeMessage, Offset: d.cursor.pos, Message: fmt.Sprintf("invalid length %d, expected list of %d elements", count, v.Len())}
	}
	return nil
}

func (d *Decoder) decodeByteArray(v reflect.Value) error {
	start := d.cursor.pos
	value, err := d.DecodeBytes()
	if err != nil {
		return err
	}
	if len(value) != v.Len() {
		return &DecodeError{Kind: KindDecodeMessage, Offset: start, Message: fmt.Sprintf("invalid length %d, expected byte string of %d bytes", len(value), v.Len())}
	}
	reflect.Copy(v, reflect.ValueOf(value))
	return nil
}

func (d *Decoder) decodeMap(v reflect.Value) error {
	mapType := v.Type()
	if mapType.Key().Kind() != reflect.String {
		return &DecodeError{Kind: KindDecodeMessage, Offset: d.cursor.pos, Message: "map key type " + mapType.Key().String() + " is not string-kinded", Err: ErrDictionaryKeyMustBeString}
	}
	if v.IsNil() {
		v.Set(reflect.MakeMap(mapType))
	}
	return d.DecodeDictFunc(func(key []byte, value *Decoder) error {
		item := reflect.New(mapType.Elem()).Elem()
		if err := value.decodeValue(item); err != nil {
			return err
		}
		v.SetMapIndex(reflect.ValueOf(string(key)).Convert(mapType.Key()), item)
		return nil
	})
}

// decodeStruct fills fields by key. Keys with no matching field are
// skipped.
func (d *Decoder) decodeStruct(v reflect.Value) error {
	fields := cachedFields(v.Type())
	return d.DecodeDictFunc(func(key []byte, value *Decoder) error {
		field, ok := fields.byName[string(key)]
		if !ok {
			return value.Skip()
		}
		target := v.FieldByIndex(field.index)
		if field.list {
			switch target.Kind() {
			case reflect.Slice:
				return value.decodeSlice(target)
			case reflect.Array:
				return value.decodeArray(target)
			}
		}
		return value.decodeValue(target)
	})
}

func (d *Decoder) decodeInterface(v reflect.Value) error {
	if v.NumMethod() == 0 {
		value, err := d.DecodeAny()
		if err != nil {
			return err
		}
		v.Set(reflect.ValueOf(value))
		return nil
	}
	if !v.IsNil() && v.Elem().Kind() == reflect.Pointer && !v.Elem().IsNil() {
		return d.decodeValue(v.Elem().Elem())
	}
	return &DecodeError{Kind: KindDecodeMessage, Offset: d.cursor.pos, Message: "cannot decode into interface " + v.Type().String()}
}

// optionVisitor decodes the pointee of a pointer target, allocating
// it when needed. An exhausted input leaves the pointer nil.
type optionVisitor struct {
	UnexpectedVisitor
	target reflect.Value
}

func (o *optionVisitor) VisitNone() error {
	o.target.SetZero()
	return nil
}

func (o *optionVisitor) VisitSome(d *Decoder) error {
	if o.target.IsNil() {
		o.target.Set(reflect.New(o.target.Type().Elem()))
	}
	return d.decodeValue(o.target.Elem())
}
