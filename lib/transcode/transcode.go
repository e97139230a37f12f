// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package transcode

import (
	"bytes"
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/bureau-foundation/bencode/lib/bencode"
)

// Format names a document format on the other side of a conversion.
type Format string

const (
	JSON  Format = "json"
	JSONC Format = "jsonc"
	YAML  Format = "yaml"
	CBOR  Format = "cbor"
)

// Formats lists every supported format, for help text and validation.
var Formats = []Format{JSON, JSONC, YAML, CBOR}

// ParseFormat accepts a format name case-insensitively. "yml" is
// accepted for YAML.
func ParseFormat(name string) (Format, error) {
	lowered := strings.ToLower(name)
	if lowered == "yml" {
		return YAML, nil
	}
	for _, format := range Formats {
		if string(format) == lowered {
			return format, nil
		}
	}
	return "", fmt.Errorf("unknown format %q (want json, jsonc, yaml, or cbor)", name)
}

// Parse reads a document in format and returns the equivalent bencode
// value tree.
func Parse(format Format, data []byte) (any, error) {
	switch format {
	case JSON:
		return FromJSON(data)
	case JSONC:
		return FromJSONC(data)
	case YAML:
		return FromYAML(data)
	case CBOR:
		return FromCBOR(data)
	default:
		return nil, fmt.Errorf("unknown format %q", format)
	}
}

// parseInteger turns the text of a document number into the integer
// type DecodeAny would produce for the same bencode integer: int64 for
// negative values, uint64 otherwise.
func parseInteger(text string) (any, error) {
	if strings.ContainsAny(text, ".eE") {
		return nil, fmt.Errorf("number %s: %w", text, bencode.ErrFloatingPointNotSupported)
	}
	if strings.HasPrefix(text, "-") {
		value, err := strconv.ParseInt(text, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("integer %s: %w", text, err)
		}
		if value == 0 {
			return uint64(0), nil
		}
		return value, nil
	}
	value, err := strconv.ParseUint(text, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("integer %s: %w", text, err)
	}
	return value, nil
}

// sortEntries orders dictionary entries by key bytes, for sources
// whose maps carry no order.
func sortEntries(dict bencode.Dict) {
	slices.SortStableFunc(dict, func(a, b bencode.DictEntry) int {
		return bytes.Compare(a.Key, b.Key)
	})
}

func unsupportedValue(v any) error {
	return fmt.Errorf("unsupported value of type %T", v)
}
