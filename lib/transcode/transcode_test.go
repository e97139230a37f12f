// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package transcode

import (
	"bytes"
	"reflect"
	"strings"
	"testing"

	"github.com/bureau-foundation/bencode/lib/bencode"
	"github.com/bureau-foundation/bencode/lib/testutil"
)

// sample decodes a bencoded document the way the CLI does.
func sample(t *testing.T, wire string) any {
	t.Helper()
	value, err := bencode.NewDecoder([]byte(wire)).DecodeAny()
	if err != nil {
		t.Fatalf("DecodeAny(%q): %v", wire, err)
	}
	return value
}

func TestParseFormat(t *testing.T) {
	for name, want := range map[string]Format{
		"json":  JSON,
		"JSONC": JSONC,
		"yml":   YAML,
		"yaml":  YAML,
		"cbor":  CBOR,
	} {
		got, err := ParseFormat(name)
		if err != nil {
			t.Fatalf("ParseFormat(%q): %v", name, err)
		}
		if got != want {
			t.Errorf("ParseFormat(%q) = %q, want %q", name, got, want)
		}
	}
	if _, err := ParseFormat("toml"); err == nil {
		t.Error("ParseFormat(toml) succeeded")
	}
}

func TestWriteJSON(t *testing.T) {
	tests := []struct {
		name string
		wire string
		want string
	}{
		{"integers", "li-3ei0ei18446744073709551615ee", `[-3,0,18446744073709551615]`},
		{"wire order kept", "d1:bi1e1:ai2ee", `{"b":1,"a":2}`},
		{"text", "d4:spam4:eggse", `{"spam":"eggs"}`},
		{"binary value", "2:\xff\x00", `{"$hex":"ff00"}`},
		{"binary key", "d1:\xffi1ee", `{"$hex:ff":1}`},
		{"prefixed text key", "d6:$hex:6i1ee", `{"$hex:246865783a36":1}`},
		{"marker text key", "d4:$hex2:abe", `{"$hex:24686578":"ab"}`},
		{"no html escaping", "3:<&>", `"<&>"`},
		{"empty containers", "ldelee", `[{},[]]`},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			var buffer bytes.Buffer
			if err := WriteJSON(&buffer, sample(t, test.wire), true); err != nil {
				t.Fatalf("WriteJSON: %v", err)
			}
			if got := strings.TrimSuffix(buffer.String(), "\n"); got != test.want {
				t.Errorf("got %s, want %s", got, test.want)
			}
		})
	}
}

func TestWriteJSONIndented(t *testing.T) {
	var buffer bytes.Buffer
	if err := WriteJSON(&buffer, sample(t, "d1:ali1eee"), false); err != nil {
		t.Fatalf("WriteJSON: %v", err)
	}
	want := "{\n  \"a\": [\n    1\n  ]\n}\n"
	if buffer.String() != want {
		t.Errorf("got %q, want %q", buffer.String(), want)
	}
}

func TestJSONRoundtrip(t *testing.T) {
	// Non-canonical order and binary data must both come back intact.
	wires := []string{
		"d1:zi1e1:ai-2ee",
		"l2:\xff\xfed1:\x80lee0:e",
		"d6:$hex:6i1e4:$hexi2ee",
		"d4:$hex2:abe",
	}
	unordered, err := bencode.EncOptions{}.EncMode()
	if err != nil {
		t.Fatalf("EncMode: %v", err)
	}
	for _, wire := range wires {
		var buffer bytes.Buffer
		if err := WriteJSON(&buffer, sample(t, wire), true); err != nil {
			t.Fatalf("WriteJSON(%q): %v", wire, err)
		}
		value, err := FromJSON(buffer.Bytes())
		if err != nil {
			t.Fatalf("FromJSON(%s): %v", buffer.String(), err)
		}
		data, err := unordered.Marshal(value)
		if err != nil {
			t.Fatalf("Marshal: %v", err)
		}
		if string(data) != wire {
			t.Errorf("roundtrip of %q through %s gave %q", wire, buffer.String(), data)
		}
	}
}

func TestFromJSON(t *testing.T) {
	value, err := FromJSON([]byte(`{"b": [1, -1, "x"], "a": {"$hex": "00ff"}, "n": true}`))
	if err != nil {
		t.Fatalf("FromJSON: %v", err)
	}
	want := bencode.Dict{
		{Key: []byte("b"), Value: []any{uint64(1), int64(-1), "x"}},
		{Key: []byte("a"), Value: []byte{0x00, 0xff}},
		{Key: []byte("n"), Value: true},
	}
	if !reflect.DeepEqual(value, want) {
		t.Errorf("got %#v, want %#v", value, want)
	}
}

func TestFromJSONErrors(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"empty", ""},
		{"float", `[1.5]`},
		{"exponent", `1e3`},
		{"overflow", `18446744073709551616`},
		{"trailing value", `1 2`},
		{"truncated", `{"a": [1`},
		{"bad hex", `{"$hex": "zz"}`},
		{"hex not a string", `{"$hex": 1}`},
		{"bad hex key", `{"$hex:q": 1}`},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			if _, err := FromJSON([]byte(test.input)); err == nil {
				t.Errorf("FromJSON(%q) succeeded", test.input)
			}
		})
	}

	_, err := FromJSON([]byte(`{"ratio": 0.5}`))
	testutil.RequireErrorIs(t, err, bencode.ErrFloatingPointNotSupported)
}

func TestFromJSONC(t *testing.T) {
	input := `{
		// announce URL
		"announce": "http://tracker.example/announce",
		"info": {
			"length": 12, /* bytes */
		},
	}`
	value, err := FromJSONC([]byte(input))
	if err != nil {
		t.Fatalf("FromJSONC: %v", err)
	}
	data, err := bencode.Marshal(value)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	want := "d8:announce31:http://tracker.example/announce4:infod6:lengthi12eee"
	if string(data) != want {
		t.Errorf("got %q, want %q", data, want)
	}
}

func TestWriteYAML(t *testing.T) {
	var buffer bytes.Buffer
	if err := WriteYAML(&buffer, sample(t, "d1:b3:1231:ali-1ei2ee1:c2:\xff\x00e")); err != nil {
		t.Fatalf("WriteYAML: %v", err)
	}
	want := "b: \"123\"\na:\n  - -1\n  - 2\nc: !!binary /wA=\n"
	if buffer.String() != want {
		t.Errorf("got:\n%s\nwant:\n%s", buffer.String(), want)
	}
}

func TestYAMLRoundtrip(t *testing.T) {
	wires := []string{
		"d1:zi1e1:ai-2ee",
		"d1:\xffl0:2:\xff\x00ee",
		"l4:true4:null0:e",
	}
	unordered, err := bencode.EncOptions{}.EncMode()
	if err != nil {
		t.Fatalf("EncMode: %v", err)
	}
	for _, wire := range wires {
		var buffer bytes.Buffer
		if err := WriteYAML(&buffer, sample(t, wire)); err != nil {
			t.Fatalf("WriteYAML(%q): %v", wire, err)
		}
		value, err := FromYAML(buffer.Bytes())
		if err != nil {
			t.Fatalf("FromYAML(%s): %v", buffer.String(), err)
		}
		data, err := unordered.Marshal(value)
		if err != nil {
			t.Fatalf("Marshal: %v", err)
		}
		if string(data) != wire {
			t.Errorf("roundtrip of %q through\n%s gave %q", wire, buffer.String(), data)
		}
	}
}

func TestFromYAML(t *testing.T) {
	input := `
defaults: &defaults
  piece length: 0x4000
  private: 1
info:
  <<: *defaults
name: test
offset: -7
`
	value, err := FromYAML([]byte(input))
	if err != nil {
		t.Fatalf("FromYAML: %v", err)
	}
	dict, ok := value.(bencode.Dict)
	if !ok {
		t.Fatalf("got %T, want bencode.Dict", value)
	}
	if got, _ := dict.Get("offset"); got != int64(-7) {
		t.Errorf("offset = %#v, want int64(-7)", got)
	}
	defaults, _ := dict.Get("defaults")
	pieceLength, _ := defaults.(bencode.Dict).Get("piece length")
	if pieceLength != uint64(16384) {
		t.Errorf("piece length = %#v, want uint64(16384)", pieceLength)
	}
	info, _ := dict.Get("info")
	merged, ok := info.(bencode.Dict).Get("<<")
	if !ok || !reflect.DeepEqual(merged, defaults) {
		t.Errorf("alias not expanded: got %#v", merged)
	}
}

func TestFromYAMLErrors(t *testing.T) {
	for name, input := range map[string]string{
		"empty":          "",
		"float":          "ratio: 0.5",
		"complex key":    "? [a]\n: 1",
		"malformed":      "a: [1",
		"bad binary":     "!!binary '***'",
		"unsupported":    "!custom 1",
		"large negative": "-9223372036854775809",
	} {
		if _, err := FromYAML([]byte(input)); err == nil {
			t.Errorf("%s: FromYAML(%q) succeeded", name, input)
		}
	}
	_, err := FromYAML([]byte("- 1.25"))
	testutil.RequireErrorIs(t, err, bencode.ErrFloatingPointNotSupported)
}

func TestCBORRoundtrip(t *testing.T) {
	value := sample(t, "d1:bl2:\xff\x00i-5ee1:\x80i7e1:a4:texte")
	data, err := MarshalCBOR(value)
	if err != nil {
		t.Fatalf("MarshalCBOR: %v", err)
	}
	back, err := FromCBOR(data)
	if err != nil {
		t.Fatalf("FromCBOR: %v", err)
	}
	// CBOR maps come back in key order.
	want := bencode.Dict{
		{Key: []byte("a"), Value: "text"},
		{Key: []byte("b"), Value: []any{[]byte{0xff, 0x00}, int64(-5)}},
		{Key: []byte{0x80}, Value: uint64(7)},
	}
	if !reflect.DeepEqual(back, want) {
		t.Errorf("got %#v, want %#v", back, want)
	}

	diagnostic, err := DiagnoseCBOR(data)
	if err != nil {
		t.Fatalf("DiagnoseCBOR: %v", err)
	}
	if !strings.Contains(diagnostic, `h'80': 7`) {
		t.Errorf("diagnostic %s lacks the byte string key", diagnostic)
	}
}

func TestFromCBORErrors(t *testing.T) {
	tests := []struct {
		name  string
		input []byte
	}{
		{"float", testutil.MustHex(t, "f93e00")},
		{"tag", testutil.MustHex(t, "c11a514b67b0")},
		{"integer key", testutil.MustHex(t, "a10102")},
		{"bignum", testutil.MustHex(t, "c249010000000000000000")},
		{"truncated", testutil.MustHex(t, "82")},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			if _, err := FromCBOR(test.input); err == nil {
				t.Errorf("FromCBOR(%x) succeeded", test.input)
			}
		})
	}
}

func TestToCBORDuplicateKeys(t *testing.T) {
	value := bencode.Dict{{Key: []byte("a"), Value: uint64(1)}, {Key: []byte("a"), Value: uint64(2)}}
	if _, err := MarshalCBOR(value); err == nil {
		t.Error("duplicate keys accepted")
	}
}

func TestParseDispatch(t *testing.T) {
	inputs := map[Format]string{
		JSON:  `{"k": 1}`,
		JSONC: `{"k": 1, /* c */}`,
		YAML:  "k: 1\n",
		CBOR:  string(testutil.MustHex(t, "a1616b01")),
	}
	want := bencode.Dict{{Key: []byte("k"), Value: uint64(1)}}
	for format, input := range inputs {
		value, err := Parse(format, []byte(input))
		if err != nil {
			t.Fatalf("Parse(%s): %v", format, err)
		}
		if !reflect.DeepEqual(value, want) {
			t.Errorf("Parse(%s) = %#v, want %#v", format, value, want)
		}
	}
}
