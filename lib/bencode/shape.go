// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package bencode

import "fmt"

// Kind names the structure a caller expects to find next in the
// input.
type Kind uint8

const (
	// KindAny requests self-describing decode: the shape is inferred
	// from the next byte.
	KindAny Kind = iota
	KindBool
	KindInt
	KindUint
	KindFloat
	KindChar
	KindText
	KindBytes
	KindUnit
	KindUnitStruct
	KindOption
	KindList
	KindDict
	KindVariant
)

func (k Kind) String() string {
	switch k {
	case KindAny:
		return "any"
	case KindBool:
		return "bool"
	case KindInt:
		return "int"
	case KindUint:
		return "uint"
	case KindFloat:
		return "float"
	case KindChar:
		return "char"
	case KindText:
		return "text"
	case KindBytes:
		return "bytes"
	case KindUnit:
		return "unit"
	case KindUnitStruct:
		return "unit struct"
	case KindOption:
		return "option"
	case KindList:
		return "list"
	case KindDict:
		return "dictionary"
	case KindVariant:
		return "variant"
	default:
		return fmt.Sprintf("kind(%d)", uint8(k))
	}
}

// Shape describes a target value's structure. Bits bounds the
// magnitude of KindInt and KindUint (8, 16, 32 or 64; zero means 64).
// Name is the literal a KindUnitStruct must match.
type Shape struct {
	Kind Kind
	Bits int
	Name string
}

// Convenience shapes for the common cases.
var (
	AnyShape     = Shape{Kind: KindAny}
	BoolShape    = Shape{Kind: KindBool}
	Int64Shape   = Shape{Kind: KindInt, Bits: 64}
	Uint64Shape  = Shape{Kind: KindUint, Bits: 64}
	TextShape    = Shape{Kind: KindText}
	BytesShape   = Shape{Kind: KindBytes}
	CharShape    = Shape{Kind: KindChar}
	UnitShape    = Shape{Kind: KindUnit}
	OptionShape  = Shape{Kind: KindOption}
	ListShape    = Shape{Kind: KindList}
	DictShape    = Shape{Kind: KindDict}
	VariantShape = Shape{Kind: KindVariant}
)

// IntShape returns a signed integer shape bounded to bits.
func IntShape(bits int) Shape { return Shape{Kind: KindInt, Bits: bits} }

// UintShape returns an unsigned integer shape bounded to bits.
func UintShape(bits int) Shape { return Shape{Kind: KindUint, Bits: bits} }

// UnitStructShape returns a shape matching the byte string name.
func UnitStructShape(name string) Shape { return Shape{Kind: KindUnitStruct, Name: name} }

func (s Shape) bits() int {
	if s.Bits <= 0 || s.Bits > 64 {
		return 64
	}
	return s.Bits
}

func (s Shape) String() string {
	switch s.Kind {
	case KindInt, KindUint:
		return fmt.Sprintf("%s%d", s.Kind, s.bits())
	case KindUnitStruct:
		return fmt.Sprintf("unit struct %q", s.Name)
	default:
		return s.Kind.String()
	}
}
