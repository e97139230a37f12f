// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package bencode

import (
	"errors"
	"fmt"
)

// DecodeErrorKind classifies a decode failure. The set is closed:
// every error returned by a [Decoder] is a [*DecodeError] carrying
// one of these kinds.
type DecodeErrorKind uint8

const (
	// KindDecodeMessage is a free-form error raised by a visitor or
	// the mapping layer (type mismatches, out-of-range lengths).
	KindDecodeMessage DecodeErrorKind = iota
	KindUnexpectedEOF
	// KindSyntax reports an unexpected byte. Expected is set when a
	// specific marker was required.
	KindSyntax
	KindParseInteger
	KindInvalidUTF8
	KindExpectedString
	KindExpectedDictionary
	KindExpectedEndOfDictionary
	KindExpectedUnitStructName
	KindExpectedCharString
	KindExpectedInteger
	KindFloatingPoint
	KindTooDeep
)

func (k DecodeErrorKind) String() string {
	switch k {
	case KindDecodeMessage:
		return "message"
	case KindUnexpectedEOF:
		return "unexpected_eof"
	case KindSyntax:
		return "syntax"
	case KindParseInteger:
		return "parse_integer"
	case KindInvalidUTF8:
		return "invalid_utf8"
	case KindExpectedString:
		return "expected_string"
	case KindExpectedDictionary:
		return "expected_dictionary"
	case KindExpectedEndOfDictionary:
		return "expected_end_of_dictionary"
	case KindExpectedUnitStructName:
		return "expected_unit_struct_name"
	case KindExpectedCharString:
		return "expected_char_string"
	case KindExpectedInteger:
		return "expected_integer"
	case KindFloatingPoint:
		return "floating_point_not_supported"
	case KindTooDeep:
		return "too_deep"
	default:
		return fmt.Sprintf("unknown(%d)", uint8(k))
	}
}

// DecodeError is the error type returned by every decode operation.
//
// Offset is the byte position in the input where the failure was
// detected. Got and Expected are meaningful for KindSyntax: Got is
// the offending byte, Expected the required marker when HasExpected
// is true. Err holds the underlying cause for KindParseInteger
// (*strconv.NumError) and KindInvalidUTF8. A map target with a
// non-string key type wraps ErrDictionaryKeyMustBeString, so one
// errors.Is check covers both directions.
type DecodeError struct {
	Kind        DecodeErrorKind
	Offset      int
	Got         byte
	Expected    byte
	HasExpected bool
	Message     string
	Err         error
}

func (e *DecodeError) Error() string {
	var text string
	switch e.Kind {
	case KindDecodeMessage:
		text = e.Message
	case KindUnexpectedEOF:
		text = "unexpected end of input"
	case KindSyntax:
		if e.HasExpected {
			text = fmt.Sprintf("syntax error: expected %s, got %s", quoteByte(e.Expected), quoteByte(e.Got))
		} else {
			text = fmt.Sprintf("syntax error: unexpected %s", quoteByte(e.Got))
		}
	case KindParseInteger:
		text = fmt.Sprintf("parse integer: %v", e.Err)
	case KindInvalidUTF8:
		text = "invalid UTF-8 in text string"
	case KindExpectedString:
		text = "expected byte string"
	case KindExpectedDictionary:
		text = "expected dictionary"
	case KindExpectedEndOfDictionary:
		text = "expected end of dictionary"
	case KindExpectedUnitStructName:
		text = fmt.Sprintf("expected name of the unit struct %q", e.Message)
	case KindExpectedCharString:
		text = "expected byte string holding exactly one character (at most 4 bytes)"
	case KindExpectedInteger:
		text = "expected integer"
	case KindFloatingPoint:
		text = "floating point numbers are not supported"
	case KindTooDeep:
		text = fmt.Sprintf("input nested deeper than %s levels", e.Message)
	default:
		text = e.Kind.String()
	}
	return fmt.Sprintf("bencode: %s at offset %d", text, e.Offset)
}

func (e *DecodeError) Unwrap() error { return e.Err }

// Is matches sentinel errors by kind, so callers can write
// errors.Is(err, bencode.ErrUnexpectedEOF) without caring about the
// offset or offending byte.
func (e *DecodeError) Is(target error) bool {
	sentinel, ok := target.(*DecodeError)
	if !ok {
		return false
	}
	return sentinel.Kind == e.Kind
}

// Sentinel decode errors for use with errors.Is.
var (
	ErrUnexpectedEOF           = &DecodeError{Kind: KindUnexpectedEOF}
	ErrSyntax                  = &DecodeError{Kind: KindSyntax}
	ErrParseInteger            = &DecodeError{Kind: KindParseInteger}
	ErrInvalidUTF8             = &DecodeError{Kind: KindInvalidUTF8}
	ErrExpectedString          = &DecodeError{Kind: KindExpectedString}
	ErrExpectedDictionary      = &DecodeError{Kind: KindExpectedDictionary}
	ErrExpectedEndOfDictionary = &DecodeError{Kind: KindExpectedEndOfDictionary}
	ErrExpectedUnitStructName  = &DecodeError{Kind: KindExpectedUnitStructName}
	ErrExpectedCharString      = &DecodeError{Kind: KindExpectedCharString}
	ErrExpectedInteger         = &DecodeError{Kind: KindExpectedInteger}
	ErrFloatDecode             = &DecodeError{Kind: KindFloatingPoint}
	ErrTooDeep                 = &DecodeError{Kind: KindTooDeep}
)

// EncodeErrorKind classifies an encode failure.
type EncodeErrorKind uint8

const (
	// KindEncodeMessage covers protocol misuse by the caller
	// (unbalanced containers, a value without a key) and mapping
	// layer failures such as unsupported Go types.
	KindEncodeMessage EncodeErrorKind = iota
	KindFloatingPointNotSupported
	KindDictionaryKeyMustBeString
	KindNoneNotSupported
	KindBoolNotSupported
	KindIO
	KindInvalidUTF8Output
	KindEncodeTooDeep
)

func (k EncodeErrorKind) String() string {
	switch k {
	case KindEncodeMessage:
		return "message"
	case KindFloatingPointNotSupported:
		return "floating_point_not_supported"
	case KindDictionaryKeyMustBeString:
		return "dictionary_key_must_be_string"
	case KindNoneNotSupported:
		return "none_not_supported"
	case KindBoolNotSupported:
		return "bool_not_supported"
	case KindIO:
		return "io"
	case KindInvalidUTF8Output:
		return "invalid_utf8_output"
	case KindEncodeTooDeep:
		return "too_deep"
	default:
		return fmt.Sprintf("unknown(%d)", uint8(k))
	}
}

// EncodeError is the error type returned by every encode operation.
// For KindIO the sink's error is wrapped and reachable via
// errors.Unwrap.
type EncodeError struct {
	Kind    EncodeErrorKind
	Message string
	Err     error
}

func (e *EncodeError) Error() string {
	switch e.Kind {
	case KindEncodeMessage:
		return "bencode: " + e.Message
	case KindFloatingPointNotSupported:
		return "bencode: floating point numbers are not supported"
	case KindDictionaryKeyMustBeString:
		return "bencode: only byte strings are allowed as dictionary keys"
	case KindNoneNotSupported:
		return "bencode: absent optional values are not supported"
	case KindBoolNotSupported:
		return "bencode: booleans are disabled (enable EncOptions.Bool to encode them as i0e/i1e)"
	case KindIO:
		return fmt.Sprintf("bencode: write: %v", e.Err)
	case KindInvalidUTF8Output:
		return "bencode: encoded output is not valid UTF-8"
	case KindEncodeTooDeep:
		return fmt.Sprintf("bencode: value nested deeper than %s levels", e.Message)
	default:
		return "bencode: " + e.Kind.String()
	}
}

func (e *EncodeError) Unwrap() error { return e.Err }

// Is matches sentinel errors by kind.
func (e *EncodeError) Is(target error) bool {
	sentinel, ok := target.(*EncodeError)
	if !ok {
		return false
	}
	return sentinel.Kind == e.Kind
}

// Sentinel encode errors for use with errors.Is.
var (
	ErrFloatingPointNotSupported = &EncodeError{Kind: KindFloatingPointNotSupported}
	ErrDictionaryKeyMustBeString = &EncodeError{Kind: KindDictionaryKeyMustBeString}
	ErrNoneNotSupported          = &EncodeError{Kind: KindNoneNotSupported}
	ErrBoolNotSupported          = &EncodeError{Kind: KindBoolNotSupported}
	ErrInvalidUTF8Output         = &EncodeError{Kind: KindInvalidUTF8Output}
	ErrEncodeTooDeep             = &EncodeError{Kind: KindEncodeTooDeep}
)

// IsFloatingPoint reports whether err is a floating point rejection
// from either direction.
func IsFloatingPoint(err error) bool {
	return errors.Is(err, ErrFloatingPointNotSupported) || errors.Is(err, ErrFloatDecode)
}

func encodeMessage(format string, args ...any) *EncodeError {
	return &EncodeError{Kind: KindEncodeMessage, Message: fmt.Sprintf(format, args...)}
}

// quoteByte renders a byte for diagnostics: printable ASCII as a
// quoted character, everything else as hex.
func quoteByte(b byte) string {
	if b >= 0x20 && b < 0x7f {
		return fmt.Sprintf("'%c'", b)
	}
	return fmt.Sprintf("0x%02x", b)
}
