// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package bencode

import (
	"reflect"
	"strings"
	"sync"
)

// field is one dictionary entry of a struct type.
type field struct {
	name      string
	index     []int
	omitEmpty bool
	// list keeps a byte-kinded slice or array in list form.
	list bool
}

type structFields struct {
	list   []field
	byName map[string]*field
}

var fieldCache sync.Map // map[reflect.Type]*structFields

// cachedFields returns the entries of struct type t. Exported fields
// become entries named by their `bencode` tag or, without one, by the
// Go field name. Untagged embedded structs are flattened. A tag of "-"
// drops the field. The "omitempty" option skips zero values and the
// "list" option encodes a []byte or [N]byte field as a list of integers.
func cachedFields(t reflect.Type) *structFields {
	if cached, ok := fieldCache.Load(t); ok {
		return cached.(*structFields)
	}
	fields := &structFields{byName: make(map[string]*field)}
	collectFields(t, nil, fields)
	for index := range fields.list {
		fields.byName[fields.list[index].name] = &fields.list[index]
	}
	actual, _ := fieldCache.LoadOrStore(t, fields)
	return actual.(*structFields)
}

func collectFields(t reflect.Type, parent []int, fields *structFields) {
	for position := 0; position < t.NumField(); position++ {
		structField := t.Field(position)
		tag, hasTag := structField.Tag.Lookup("bencode")
		if tag == "-" {
			continue
		}
		index := append(append([]int{}, parent...), position)
		if structField.Anonymous && !hasTag && structField.Type.Kind() == reflect.Struct {
			collectFields(structField.Type, index, fields)
			continue
		}
		if !structField.IsExported() {
			continue
		}
		name, options, _ := strings.Cut(tag, ",")
		if name == "" {
			name = structField.Name
		}
		if _, duplicate := fields.byName[name]; duplicate {
			continue
		}
		fields.byName[name] = nil
		fields.list = append(fields.list, field{
			name:      name,
			index:     index,
			omitEmpty: hasOption(options, "omitempty"),
			list:      hasOption(options, "list"),
		})
	}
}

func hasOption(options, want string) bool {
	for options != "" {
		var option string
		option, options, _ = strings.Cut(options, ",")
		if option == want {
			return true
		}
	}
	return false
}

// isEmpty reports whether v counts as empty for omitempty.
func isEmpty(v reflect.Value) bool {
	switch v.Kind() {
	case reflect.Slice, reflect.Map, reflect.String:
		return v.Len() == 0
	case reflect.Pointer, reflect.Interface:
		return v.IsNil()
	default:
		return v.IsZero()
	}
}
