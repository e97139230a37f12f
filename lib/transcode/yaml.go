// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package transcode

import (
	"encoding/base64"
	"fmt"
	"io"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/bureau-foundation/bencode/lib/bencode"
	"gopkg.in/yaml.v3"
)

// ToYAML converts a bencode value tree into a YAML node. Binary byte
// strings become !!binary scalars.
func ToYAML(v any) (*yaml.Node, error) {
	switch value := v.(type) {
	case nil:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!null", Value: "null"}, nil
	case bool:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!bool", Value: strconv.FormatBool(value)}, nil
	case int64:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!int", Value: strconv.FormatInt(value, 10)}, nil
	case uint64:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!int", Value: strconv.FormatUint(value, 10)}, nil
	case string:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: value}, nil
	case []byte:
		return binaryNode(value), nil
	case []any:
		node := &yaml.Node{Kind: yaml.SequenceNode, Tag: "!!seq"}
		for index, element := range value {
			child, err := ToYAML(element)
			if err != nil {
				return nil, fmt.Errorf("[%d]: %w", index, err)
			}
			node.Content = append(node.Content, child)
		}
		return node, nil
	case bencode.Dict:
		node := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
		for _, entry := range value {
			child, err := ToYAML(entry.Value)
			if err != nil {
				return nil, fmt.Errorf("%q: %w", entry.Key, err)
			}
			node.Content = append(node.Content, yamlKey(entry.Key), child)
		}
		return node, nil
	default:
		return nil, unsupportedValue(v)
	}
}

func binaryNode(data []byte) *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!binary", Value: base64.StdEncoding.EncodeToString(data)}
}

func yamlKey(key []byte) *yaml.Node {
	if utf8.Valid(key) {
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: string(key)}
	}
	return binaryNode(key)
}

// WriteYAML writes v (a bencode value tree) as a YAML document.
func WriteYAML(w io.Writer, v any) error {
	node, err := ToYAML(v)
	if err != nil {
		return err
	}
	encoder := yaml.NewEncoder(w)
	encoder.SetIndent(2)
	if err := encoder.Encode(node); err != nil {
		return fmt.Errorf("encode YAML: %w", err)
	}
	return encoder.Close()
}

// FromYAML parses a single YAML document into a bencode value tree.
// Mapping order is preserved and aliases are expanded. Mapping keys
// must be scalars; a non-binary key contributes its literal text.
func FromYAML(data []byte) (any, error) {
	var document yaml.Node
	if err := yaml.Unmarshal(data, &document); err != nil {
		return nil, fmt.Errorf("parse YAML: %w", err)
	}
	if document.Kind == 0 || len(document.Content) == 0 {
		return nil, fmt.Errorf("parse YAML: empty document")
	}
	value, err := fromYAMLNode(&document)
	if err != nil {
		return nil, fmt.Errorf("parse YAML: %w", err)
	}
	return value, nil
}

func fromYAMLNode(node *yaml.Node) (any, error) {
	switch node.Kind {
	case yaml.DocumentNode:
		return fromYAMLNode(node.Content[0])
	case yaml.AliasNode:
		return fromYAMLNode(node.Alias)
	case yaml.ScalarNode:
		return fromYAMLScalar(node)
	case yaml.SequenceNode:
		list := make([]any, 0, len(node.Content))
		for index, child := range node.Content {
			element, err := fromYAMLNode(child)
			if err != nil {
				return nil, fmt.Errorf("[%d]: %w", index, err)
			}
			list = append(list, element)
		}
		return list, nil
	case yaml.MappingNode:
		dict := make(bencode.Dict, 0, len(node.Content)/2)
		for index := 0; index+1 < len(node.Content); index += 2 {
			keyNode, valueNode := node.Content[index], node.Content[index+1]
			key, err := fromYAMLKey(keyNode)
			if err != nil {
				return nil, err
			}
			value, err := fromYAMLNode(valueNode)
			if err != nil {
				return nil, fmt.Errorf("%q: %w", key, err)
			}
			dict = append(dict, bencode.DictEntry{Key: key, Value: value})
		}
		return dict, nil
	default:
		return nil, fmt.Errorf("line %d: unsupported YAML node kind %d", node.Line, node.Kind)
	}
}

func fromYAMLKey(node *yaml.Node) ([]byte, error) {
	if node.Kind == yaml.AliasNode {
		node = node.Alias
	}
	if node.Kind != yaml.ScalarNode {
		return nil, fmt.Errorf("line %d: mapping key must be a scalar", node.Line)
	}
	if node.ShortTag() == "!!binary" {
		return decodeBinary(node)
	}
	return []byte(node.Value), nil
}

func fromYAMLScalar(node *yaml.Node) (any, error) {
	switch node.ShortTag() {
	case "!!str", "!!timestamp":
		return node.Value, nil
	case "!!int":
		if strings.HasPrefix(node.Value, "-") {
			var value int64
			if err := node.Decode(&value); err != nil {
				return nil, fmt.Errorf("line %d: %w", node.Line, err)
			}
			if value == 0 {
				return uint64(0), nil
			}
			return value, nil
		}
		var value uint64
		if err := node.Decode(&value); err != nil {
			return nil, fmt.Errorf("line %d: %w", node.Line, err)
		}
		return value, nil
	case "!!bool":
		var value bool
		if err := node.Decode(&value); err != nil {
			return nil, fmt.Errorf("line %d: %w", node.Line, err)
		}
		return value, nil
	case "!!null":
		return nil, nil
	case "!!binary":
		return decodeBinary(node)
	case "!!float":
		return nil, fmt.Errorf("line %d: number %s: %w", node.Line, node.Value, bencode.ErrFloatingPointNotSupported)
	default:
		return nil, fmt.Errorf("line %d: unsupported YAML tag %s", node.Line, node.ShortTag())
	}
}

func decodeBinary(node *yaml.Node) ([]byte, error) {
	data, err := base64.StdEncoding.DecodeString(strings.Join(strings.Fields(node.Value), ""))
	if err != nil {
		return nil, fmt.Errorf("line %d: !!binary: %w", node.Line, err)
	}
	return data, nil
}
