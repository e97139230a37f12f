// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package bencode

// keyEmitter is the restricted emitter used for dictionary keys. Only
// text and byte strings get through; a key that describes itself as
// anything else is rejected before a byte is written.
type keyEmitter struct {
	encoder *Encoder
}

func keyMustBeString() error { return &EncodeError{Kind: KindDictionaryKeyMustBeString} }

func (k keyEmitter) EmitText(s string) error  { return k.encoder.writeKey([]byte(s)) }
func (k keyEmitter) EmitBytes(b []byte) error { return k.encoder.writeKey(b) }

// EmitRaw accepts a raw value only when it is a single byte string.
func (k keyEmitter) EmitRaw(raw []byte) error {
	check := &Decoder{cursor: cursor{buf: raw}}
	key, err := check.DecodeBytes()
	if err != nil || check.Finish() != nil {
		return keyMustBeString()
	}
	return k.encoder.writeKey(key)
}

func (k keyEmitter) EmitBool(bool) error          { return keyMustBeString() }
func (k keyEmitter) EmitInt(int64) error          { return keyMustBeString() }
func (k keyEmitter) EmitUint(uint64) error        { return keyMustBeString() }
func (k keyEmitter) EmitFloat(float64) error      { return keyMustBeString() }
func (k keyEmitter) EmitChar(rune) error          { return keyMustBeString() }
func (k keyEmitter) EmitNone() error              { return keyMustBeString() }
func (k keyEmitter) EmitUnit() error              { return keyMustBeString() }
func (k keyEmitter) EmitUnitStruct(string) error  { return keyMustBeString() }
func (k keyEmitter) EmitUnitVariant(string) error { return keyMustBeString() }
func (k keyEmitter) BeginList() error             { return keyMustBeString() }
func (k keyEmitter) EndList() error               { return keyMustBeString() }
func (k keyEmitter) BeginDict() error             { return keyMustBeString() }
func (k keyEmitter) DictKey() Emitter             { return k }
func (k keyEmitter) EmitKey(string) error         { return keyMustBeString() }
func (k keyEmitter) EndDict() error               { return keyMustBeString() }
func (k keyEmitter) BeginVariant(string) error    { return keyMustBeString() }
func (k keyEmitter) EndVariant() error            { return keyMustBeString() }
func (k keyEmitter) Encode(v any) error           { return encodeAny(k, v) }
