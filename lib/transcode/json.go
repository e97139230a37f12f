// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package transcode

import (
	"bytes"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/bureau-foundation/bencode/lib/bencode"
	"github.com/tidwall/jsonc"
)

const (
	// HexMember is the single member of a JSON object standing for a
	// binary byte string.
	HexMember = "$hex"

	// HexKeyPrefix marks a JSON object key holding a hex-encoded
	// dictionary key. Binary keys use it, as do text keys that would
	// otherwise be mistaken for either marker.
	HexKeyPrefix = "$hex:"
)

// jsonObject is a JSON object that keeps its member order.
type jsonObject []jsonMember

type jsonMember struct {
	key   string
	value any
}

func (o jsonObject) MarshalJSON() ([]byte, error) {
	var buffer bytes.Buffer
	buffer.WriteByte('{')
	for index, member := range o {
		if index > 0 {
			buffer.WriteByte(',')
		}
		if err := writeJSONValue(&buffer, member.key); err != nil {
			return nil, err
		}
		buffer.WriteByte(':')
		if err := writeJSONValue(&buffer, member.value); err != nil {
			return nil, err
		}
	}
	buffer.WriteByte('}')
	return buffer.Bytes(), nil
}

func writeJSONValue(buffer *bytes.Buffer, value any) error {
	encoder := json.NewEncoder(buffer)
	encoder.SetEscapeHTML(false)
	if err := encoder.Encode(value); err != nil {
		return err
	}
	// Encode terminates every value with a newline.
	buffer.Truncate(buffer.Len() - 1)
	return nil
}

// ToJSON converts a bencode value tree into a value encoding/json
// marshals faithfully. Dictionaries keep their order.
func ToJSON(v any) (any, error) {
	switch value := v.(type) {
	case nil, bool, int64, uint64, string:
		return value, nil
	case []byte:
		return jsonObject{{key: HexMember, value: hex.EncodeToString(value)}}, nil
	case []any:
		result := make([]any, len(value))
		for index, element := range value {
			converted, err := ToJSON(element)
			if err != nil {
				return nil, fmt.Errorf("[%d]: %w", index, err)
			}
			result[index] = converted
		}
		return result, nil
	case bencode.Dict:
		result := make(jsonObject, len(value))
		for index, entry := range value {
			converted, err := ToJSON(entry.Value)
			if err != nil {
				return nil, fmt.Errorf("%q: %w", entry.Key, err)
			}
			result[index] = jsonMember{key: jsonKey(entry.Key), value: converted}
		}
		return result, nil
	default:
		return nil, unsupportedValue(v)
	}
}

func jsonKey(key []byte) string {
	text := string(key)
	if utf8.Valid(key) && text != HexMember && !strings.HasPrefix(text, HexKeyPrefix) {
		return text
	}
	return HexKeyPrefix + hex.EncodeToString(key)
}

// WriteJSON writes v (a bencode value tree) as JSON followed by a
// newline. Output is indented by two spaces unless compact is set.
func WriteJSON(w io.Writer, v any, compact bool) error {
	converted, err := ToJSON(v)
	if err != nil {
		return err
	}
	encoder := json.NewEncoder(w)
	encoder.SetEscapeHTML(false)
	if !compact {
		encoder.SetIndent("", "  ")
	}
	if err := encoder.Encode(converted); err != nil {
		return fmt.Errorf("encode JSON: %w", err)
	}
	return nil
}

// FromJSON parses a single JSON document into a bencode value tree.
// Object member order is preserved. Numbers must be integers; null
// becomes nil, which an encoder omits from dictionaries.
func FromJSON(data []byte) (any, error) {
	decoder := json.NewDecoder(bytes.NewReader(data))
	decoder.UseNumber()
	value, err := readJSON(decoder)
	if err != nil {
		return nil, fmt.Errorf("parse JSON: %w", err)
	}
	if _, err := decoder.Token(); !errors.Is(err, io.EOF) {
		if err == nil {
			return nil, fmt.Errorf("parse JSON: unexpected data after the top-level value at offset %d", decoder.InputOffset())
		}
		return nil, fmt.Errorf("parse JSON: %w", err)
	}
	return value, nil
}

// FromJSONC parses JSON with comments and trailing commas.
func FromJSONC(data []byte) (any, error) {
	return FromJSON(jsonc.ToJSON(data))
}

func readJSON(decoder *json.Decoder) (any, error) {
	token, err := decoder.Token()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, io.ErrUnexpectedEOF
		}
		return nil, err
	}
	switch token := token.(type) {
	case json.Delim:
		switch token {
		case '[':
			return readJSONArray(decoder)
		case '{':
			return readJSONObject(decoder)
		default:
			return nil, fmt.Errorf("unexpected %q at offset %d", rune(token), decoder.InputOffset())
		}
	case json.Number:
		return parseInteger(string(token))
	case string, bool, nil:
		return token, nil
	default:
		return nil, unsupportedValue(token)
	}
}

func readJSONArray(decoder *json.Decoder) (any, error) {
	list := []any{}
	for decoder.More() {
		element, err := readJSON(decoder)
		if err != nil {
			return nil, fmt.Errorf("[%d]: %w", len(list), err)
		}
		list = append(list, element)
	}
	if _, err := decoder.Token(); err != nil {
		return nil, err
	}
	return list, nil
}

func readJSONObject(decoder *json.Decoder) (any, error) {
	dict := bencode.Dict{}
	marked := false
	for decoder.More() {
		token, err := decoder.Token()
		if err != nil {
			return nil, err
		}
		name, ok := token.(string)
		if !ok {
			return nil, fmt.Errorf("object key %v is not a string", token)
		}
		key, err := parseJSONKey(name)
		if err != nil {
			return nil, err
		}
		value, err := readJSON(decoder)
		if err != nil {
			return nil, fmt.Errorf("%q: %w", name, err)
		}
		marked = len(dict) == 0 && name == HexMember
		dict = append(dict, bencode.DictEntry{Key: key, Value: value})
	}
	if _, err := decoder.Token(); err != nil {
		return nil, err
	}

	if marked && len(dict) == 1 {
		text, ok := dict[0].Value.(string)
		if !ok {
			return nil, fmt.Errorf("%s member must be a string", HexMember)
		}
		data, err := hex.DecodeString(text)
		if err != nil {
			return nil, fmt.Errorf("%s member: %w", HexMember, err)
		}
		return data, nil
	}
	return dict, nil
}

func parseJSONKey(name string) ([]byte, error) {
	encoded, ok := strings.CutPrefix(name, HexKeyPrefix)
	if !ok {
		return []byte(name), nil
	}
	key, err := hex.DecodeString(encoded)
	if err != nil {
		return nil, fmt.Errorf("key %q: %w", name, err)
	}
	return key, nil
}
