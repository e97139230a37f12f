// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package bencode

import (
	"errors"
	"fmt"
	"reflect"
	"testing"

	"github.com/bureau-foundation/bencode/lib/testutil"
)

type point struct {
	X int64 `bencode:"x"`
	Y int64 `bencode:"y"`
}

// command exercises every variant form: Stop is a unit variant,
// Repeat a newtype variant, Move a tuple variant and Goto a struct
// variant.
type command struct {
	variant string
	count   int64
	move    [2]int64
	target  point
}

func (c command) MarshalBencode(e Emitter) error {
	switch c.variant {
	case "Stop":
		return e.EmitUnitVariant("Stop")
	case "Repeat", "Move", "Goto":
	default:
		return fmt.Errorf("unknown command %q", c.variant)
	}
	if err := e.BeginVariant(c.variant); err != nil {
		return err
	}
	var err error
	switch c.variant {
	case "Repeat":
		err = e.EmitInt(c.count)
	case "Move":
		err = e.Encode(c.move)
	case "Goto":
		err = e.Encode(c.target)
	}
	if err != nil {
		return err
	}
	return e.EndVariant()
}

func (c *command) UnmarshalBencode(d *Decoder) error {
	return d.DecodeVariantFunc(func(name []byte, variant *VariantAccess) error {
		c.variant = string(name)
		if c.variant == "Stop" {
			return variant.Unit()
		}
		payload, err := variant.Payload()
		if err != nil {
			return err
		}
		switch c.variant {
		case "Repeat":
			c.count, err = payload.DecodeInt(64)
			return err
		case "Move":
			return payload.Decode(&c.move)
		case "Goto":
			return payload.Decode(&c.target)
		default:
			return fmt.Errorf("unknown variant %q", name)
		}
	})
}

func TestVariants(t *testing.T) {
	tests := []struct {
		value command
		wire  string
	}{
		{command{variant: "Stop"}, "4:Stop"},
		{command{variant: "Repeat", count: 3}, "d6:Repeati3ee"},
		{command{variant: "Move", move: [2]int64{1, -2}}, "d4:Moveli1ei-2eee"},
		{command{variant: "Goto", target: point{X: 1, Y: 2}}, "d4:Gotod1:xi1e1:yi2eee"},
	}
	for _, test := range tests {
		t.Run(test.value.variant, func(t *testing.T) {
			data, err := Marshal(test.value)
			if err != nil {
				t.Fatalf("Marshal: %v", err)
			}
			if string(data) != test.wire {
				t.Errorf("Marshal = %q, want %q", data, test.wire)
			}
			var decoded command
			if err := Unmarshal(data, &decoded); err != nil {
				t.Fatalf("Unmarshal: %v", err)
			}
			if decoded != test.value {
				t.Errorf("roundtrip mismatch: got %+v, want %+v", decoded, test.value)
			}
		})
	}
}

func TestVariantFramingErrors(t *testing.T) {
	tests := []struct {
		input string
		err   error
	}{
		{"d4:Stopi1ee", ErrExpectedString},
		{"4:Move", ErrExpectedDictionary},
		{"d6:Repeati3ei4ee", ErrExpectedEndOfDictionary},
		{"i3e", ErrExpectedDictionary},
		{"d6:Repeati3e", ErrUnexpectedEOF},
		{"di1ei3ee", ErrExpectedString},
	}
	for _, test := range tests {
		var value command
		testutil.RequireErrorIs(t, UnmarshalString(test.input, &value), test.err, "decoding %q", test.input)
	}

	var value command
	err := UnmarshalString("d4:Halti1ee", &value)
	var decodeErr *DecodeError
	if !errors.As(err, &decodeErr) || decodeErr.Kind != KindDecodeMessage {
		t.Errorf("unknown variant: got %v, want a message error", err)
	}
}

func TestVariantsInContainers(t *testing.T) {
	program := []command{
		{variant: "Repeat", count: 2},
		{variant: "Stop"},
	}
	data, err := Marshal(program)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	if want := "ld6:Repeati2ee4:Stope"; string(data) != want {
		t.Fatalf("Marshal = %q, want %q", data, want)
	}
	var decoded []command
	if err := Unmarshal(data, &decoded); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if !reflect.DeepEqual(decoded, program) {
		t.Errorf("got %+v, want %+v", decoded, program)
	}
}

func TestMarshalScalars(t *testing.T) {
	type kilograms uint32
	tests := []struct {
		name  string
		value any
		want  string
	}{
		{"negative", int64(-1), "i-1e"},
		{"zero", 0, "i0e"},
		{"uint64 max", uint64(18446744073709551615), "i18446744073709551615e"},
		{"int64 min", int64(-9223372036854775808), "i-9223372036854775808e"},
		{"empty string", "", "0:"},
		{"text", "spam", "4:spam"},
		{"bytes", []byte{0, 1}, "2:\x00\x01"},
		{"byte array", [3]byte{'a', 'b', 'c'}, "3:abc"},
		{"char", Char('A'), "1:A"},
		{"wide char", Char('é'), "2:é"},
		{"unit", struct{}{}, "0:"},
		{"unit struct", heartbeat{}, "9:Heartbeat"},
		{"newtype", struct{ N kilograms }{N: 1}, "d1:Ni1ee"},
		{"list", []int{1, 2, 3}, "li1ei2ei3ee"},
		{"empty list", []string{}, "le"},
		{"nested list", [][]string{{"a"}, {}}, "ll1:aelee"},
		{"empty map", map[string]int{}, "de"},
		{"borrowed", Borrowed("xy"), "2:xy"},
		{"dict", Dict{{Key: []byte("k"), Value: "v"}}, "d1:k1:ve"},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			data, err := Marshal(test.value)
			if err != nil {
				t.Fatalf("Marshal: %v", err)
			}
			if string(data) != test.want {
				t.Errorf("got %q, want %q", data, test.want)
			}
		})
	}
}

func TestMarshalStructTags(t *testing.T) {
	type base struct {
		Created int64 `bencode:"creation date"`
	}
	type document struct {
		base
		Title    string   `bencode:"title"`
		Comment  string   `bencode:"comment,omitempty"`
		Tags     []string `bencode:"tags,omitempty"`
		Internal string   `bencode:"-"`
		hidden   string
		Plain    int
	}
	value := document{
		base:     base{Created: 1700000000},
		Title:    "t",
		Internal: "skip",
		hidden:   "skip",
		Plain:    4,
	}
	data, err := Marshal(value)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	want := "d5:Plaini4e13:creation datei1700000000e5:title1:te"
	if string(data) != want {
		t.Errorf("got %q, want %q", data, want)
	}

	var decoded document
	if err := Unmarshal(data, &decoded); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	value.Internal, value.hidden = "", ""
	if !reflect.DeepEqual(decoded, value) {
		t.Errorf("roundtrip mismatch: got %+v, want %+v", decoded, value)
	}

	unordered := mustEncMode(t, EncOptions{})
	data, err = unordered.Marshal(value)
	if err != nil {
		t.Fatalf("unordered Marshal: %v", err)
	}
	want = "d13:creation datei1700000000e5:title1:t5:Plaini4ee"
	if string(data) != want {
		t.Errorf("unordered got %q, want %q", data, want)
	}
}

func TestMarshalNestedCanonical(t *testing.T) {
	value := map[string]any{
		"z": []any{map[string]any{"b": 1, "a": 2}},
		"a": "x",
	}
	data, err := Marshal(value)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	if want := "d1:a1:x1:zld1:ai2e1:bi1eeee"; string(data) != want {
		t.Errorf("got %q, want %q", data, want)
	}
}

func TestMarshalUnsupported(t *testing.T) {
	for name, value := range map[string]any{
		"channel":  make(chan int),
		"function": func() {},
		"complex":  complex(1, 2),
	} {
		if _, err := Marshal(value); err == nil {
			t.Errorf("Marshal(%s) succeeded", name)
		}
	}
}

func TestRoundtripGenericDict(t *testing.T) {
	input := "d1:ad1:xle1:yi-3ee1:b2:\xff\x00e"
	var value Dict
	if err := UnmarshalString(input, &value); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	data, err := Marshal(value)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	if string(data) != input {
		t.Errorf("got %q, want %q", data, input)
	}
}

func TestUnmarshalIntoMap(t *testing.T) {
	type label string
	var value map[label][]uint16
	if err := UnmarshalString("d1:ali1ee1:blee", &value); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	want := map[label][]uint16{"a": {1}, "b": {}}
	if !reflect.DeepEqual(value, want) {
		t.Errorf("got %v, want %v", value, want)
	}

	var badKeys map[int]int
	testutil.RequireErrorIs(t, UnmarshalString("de", &badKeys), ErrDictionaryKeyMustBeString)
	_, err := Marshal(map[int]int{1: 1})
	testutil.RequireErrorIs(t, err, ErrDictionaryKeyMustBeString)
}

// level is byte-kinded but encodes itself as a name.
type level uint8

var levelNames = []string{"debug", "info"}

func (l level) MarshalBencode(e Emitter) error {
	if int(l) >= len(levelNames) {
		return fmt.Errorf("unknown level %d", uint8(l))
	}
	return e.EmitText(levelNames[l])
}

func (l *level) UnmarshalBencode(d *Decoder) error {
	name, err := d.DecodeString()
	if err != nil {
		return err
	}
	for index, candidate := range levelNames {
		if candidate == name {
			*l = level(index)
			return nil
		}
	}
	return fmt.Errorf("unknown level %q", name)
}

func TestMarshalByteKindedMarshaler(t *testing.T) {
	levels := []level{0, 1}
	data, err := Marshal(levels)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	if want := "l5:debug4:infoe"; string(data) != want {
		t.Fatalf("Marshal = %q, want %q", data, want)
	}
	var decoded []level
	if err := Unmarshal(data, &decoded); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if !reflect.DeepEqual(decoded, levels) {
		t.Errorf("got %v, want %v", decoded, levels)
	}

	fixed := [2]level{1, 0}
	data, err = Marshal(fixed)
	if err != nil {
		t.Fatalf("Marshal array: %v", err)
	}
	if want := "l4:info5:debuge"; string(data) != want {
		t.Errorf("Marshal array = %q, want %q", data, want)
	}
}

func TestListTag(t *testing.T) {
	type sample struct {
		Values []uint8  `bencode:"values,list"`
		Digest [2]byte  `bencode:"digest,list"`
		Raw    []byte   `bencode:"raw"`
		Empty  []uint8  `bencode:"empty,list,omitempty"`
		Words  []string `bencode:"words,list,omitempty"`
	}
	input := "d6:digestli7ei8ee3:raw2:hi6:valuesli1ei2ei3eee"
	var value sample
	if err := UnmarshalString(input, &value); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	want := sample{Values: []uint8{1, 2, 3}, Digest: [2]byte{7, 8}, Raw: []byte("hi")}
	if !reflect.DeepEqual(value, want) {
		t.Errorf("got %+v, want %+v", value, want)
	}
	data, err := Marshal(value)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	if string(data) != input {
		t.Errorf("Marshal = %q, want %q", data, input)
	}

	var bytesForm sample
	if err := UnmarshalString("d6:values3:\x01\x02\x03e", &bytesForm); err == nil {
		t.Error("byte string accepted for a list-tagged field")
	}
	var overflow sample
	testutil.RequireErrorIs(t, UnmarshalString("d6:valuesli256eee", &overflow), ErrParseInteger)
}

func TestOmitAbsentUnordered(t *testing.T) {
	type record struct {
		A RawMessage `bencode:"a"`
		B int        `bencode:"b"`
	}
	entries := Dict{
		{Key: []byte("a"), Value: nil},
		{Key: []byte("b"), Value: int64(1)},
		{Key: []byte("c"), Value: (*int)(nil)},
		{Key: []byte("d"), Value: RawMessage(nil)},
	}
	for _, options := range []EncOptions{{}, {Canonical: true}} {
		mode := mustEncMode(t, options)
		for name, value := range map[string]any{"struct": record{B: 1}, "dict": entries} {
			data, err := mode.Marshal(value)
			if err != nil {
				t.Fatalf("canonical=%v %s: Marshal: %v", options.Canonical, name, err)
			}
			if want := "d1:bi1ee"; string(data) != want {
				t.Errorf("canonical=%v %s: got %q, want %q", options.Canonical, name, data, want)
			}
		}
	}

	strict := mustEncMode(t, EncOptions{NoneIsError: true})
	for name, value := range map[string]any{"struct": record{B: 1}, "dict": entries} {
		_, err := strict.Marshal(value)
		testutil.RequireErrorIs(t, err, ErrNoneNotSupported, "NoneIsError %s", name)
	}
}
