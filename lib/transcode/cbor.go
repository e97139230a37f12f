// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package transcode

import (
	"fmt"
	"math/big"
	"unicode/utf8"

	"github.com/bureau-foundation/bencode/lib/bencode"
	"github.com/fxamacker/cbor/v2"
)

// cborEncMode writes Core Deterministic Encoding (RFC 8949 §4.2), so
// equal value trees produce identical CBOR.
var cborEncMode cbor.EncMode

// cborDecMode decodes maps as map[any]any so byte string keys survive
// as cbor.ByteString.
var cborDecMode cbor.DecMode

func init() {
	var err error
	cborEncMode, err = cbor.CoreDetEncOptions().EncMode()
	if err != nil {
		panic("transcode: CBOR encoder initialization failed: " + err.Error())
	}
	cborDecMode, err = cbor.DecOptions{
		MapKeyByteString: cbor.MapKeyByteStringAllowed,
	}.DecMode()
	if err != nil {
		panic("transcode: CBOR decoder initialization failed: " + err.Error())
	}
}

// ToCBOR converts a bencode value tree into values the CBOR encoder
// maps onto native CBOR types. Dictionary keys that are valid UTF-8
// become text strings; the rest become byte strings.
func ToCBOR(v any) (any, error) {
	switch value := v.(type) {
	case nil, bool, int64, uint64, string, []byte:
		return value, nil
	case []any:
		result := make([]any, len(value))
		for index, element := range value {
			converted, err := ToCBOR(element)
			if err != nil {
				return nil, fmt.Errorf("[%d]: %w", index, err)
			}
			result[index] = converted
		}
		return result, nil
	case bencode.Dict:
		result := make(map[any]any, len(value))
		for _, entry := range value {
			converted, err := ToCBOR(entry.Value)
			if err != nil {
				return nil, fmt.Errorf("%q: %w", entry.Key, err)
			}
			var key any = cbor.ByteString(entry.Key)
			if utf8.Valid(entry.Key) {
				key = string(entry.Key)
			}
			if _, duplicate := result[key]; duplicate {
				return nil, fmt.Errorf("duplicate dictionary key %q cannot be represented in a CBOR map", entry.Key)
			}
			result[key] = converted
		}
		return result, nil
	default:
		return nil, unsupportedValue(v)
	}
}

// MarshalCBOR encodes v (a bencode value tree) as deterministic CBOR.
func MarshalCBOR(v any) ([]byte, error) {
	converted, err := ToCBOR(v)
	if err != nil {
		return nil, err
	}
	data, err := cborEncMode.Marshal(converted)
	if err != nil {
		return nil, fmt.Errorf("encode CBOR: %w", err)
	}
	return data, nil
}

// DiagnoseCBOR returns the RFC 8949 diagnostic notation of data.
func DiagnoseCBOR(data []byte) (string, error) {
	return cbor.Diagnose(data)
}

// FromCBOR decodes a single CBOR data item into a bencode value tree.
// Map entries come back sorted by key bytes. Floating point values,
// tags, and integers outside the 64-bit range are rejected.
func FromCBOR(data []byte) (any, error) {
	var decoded any
	if err := cborDecMode.Unmarshal(data, &decoded); err != nil {
		return nil, fmt.Errorf("parse CBOR: %w", err)
	}
	value, err := fromCBORValue(decoded)
	if err != nil {
		return nil, fmt.Errorf("parse CBOR: %w", err)
	}
	return value, nil
}

func fromCBORValue(v any) (any, error) {
	switch value := v.(type) {
	case nil, bool, uint64, string, []byte:
		return value, nil
	case int64:
		if value >= 0 {
			return uint64(value), nil
		}
		return value, nil
	case float32, float64:
		return nil, fmt.Errorf("number %v: %w", value, bencode.ErrFloatingPointNotSupported)
	case big.Int:
		return nil, fmt.Errorf("integer %s does not fit in 64 bits", value.String())
	case cbor.Tag:
		return nil, fmt.Errorf("tag %d has no bencode representation", value.Number)
	case []any:
		result := make([]any, len(value))
		for index, element := range value {
			converted, err := fromCBORValue(element)
			if err != nil {
				return nil, fmt.Errorf("[%d]: %w", index, err)
			}
			result[index] = converted
		}
		return result, nil
	case map[any]any:
		dict := make(bencode.Dict, 0, len(value))
		for rawKey, element := range value {
			var key []byte
			switch typed := rawKey.(type) {
			case string:
				key = []byte(typed)
			case cbor.ByteString:
				key = typed.Bytes()
			default:
				return nil, fmt.Errorf("map key %v of type %T is not a string", rawKey, rawKey)
			}
			converted, err := fromCBORValue(element)
			if err != nil {
				return nil, fmt.Errorf("%q: %w", key, err)
			}
			dict = append(dict, bencode.DictEntry{Key: key, Value: converted})
		}
		sortEntries(dict)
		return dict, nil
	default:
		return nil, unsupportedValue(v)
	}
}
