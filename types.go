// Copyright 2025 Kim Wittenburg. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package der

import "unicode/utf8"

//region [UNIVERSAL 1] BOOLEAN

// Boolean implements the ASN.1 BOOLEAN type. DER encodes false as 0x00 and true
// as 0xFF. Any other content octet is rejected when decoding.
type Boolean bool

func (Boolean) Tag() Tag { return Universal(TagBoolean) }

func (Boolean) ValueLen() (int, error) { return 1, nil }

func (b Boolean) EncodeValue(e *Encoder) error {
	if b {
		return e.WriteByte(0xff)
	}
	return e.WriteByte(0x00)
}

func (b *Boolean) DecodeValue(d *Decoder, h Header) error {
	if h.Length != 1 {
		return d.Fail(ErrInvalidValue, "BOOLEAN must have exactly one content octet")
	}
	switch d.peek()[0] {
	case 0x00:
		*b = false
	case 0xff:
		*b = true
	default:
		return d.Fail(ErrNonCanonical, "BOOLEAN content octet must be 0x00 or 0xFF")
	}
	d.pos++
	return nil
}

//endregion

//region [UNIVERSAL 3] BIT STRING

// BitString implements the ASN.1 BIT STRING type. A bit string is padded up to
// the nearest byte in memory and the number of valid bits is recorded. Padding
// bits are always encoded as zero bits and must be zero when decoding.
//
// See also section 22 of Rec. ITU-T X.680.
type BitString struct {
	Bytes     []byte // bits packed into bytes.
	BitLength int    // length in bits.
}

// NewBitString returns a [BitString] holding all bits of b except for the
// trailing unused bits of the last byte.
func NewBitString(b []byte, unused int) (BitString, error) {
	if unused < 0 || unused > 7 || (len(b) == 0 && unused != 0) {
		return BitString{}, newError(ErrInvalidValue, Universal(TagBitString), 0, "invalid number of unused bits")
	}
	return BitString{Bytes: b, BitLength: len(b)*8 - unused}, nil
}

// IsValid reports whether there are enough bytes in s for the indicated
// BitLength.
func (s BitString) IsValid() bool {
	return s.BitLength >= 0 && len(s.Bytes) >= (s.BitLength+8-1)/8
}

// Len returns the number of bits in s.
func (s BitString) Len() int {
	return s.BitLength
}

// UnusedBits returns the number of padding bits in the last byte of s.
func (s BitString) UnusedBits() int {
	return (8 - s.BitLength%8) % 8
}

// At returns the bit at the given index. If the index is out of range At panics.
func (s BitString) At(i int) int {
	if i < 0 || i >= s.BitLength {
		panic("index out of range")
	}
	x := i / 8
	y := 7 - uint(i%8)
	return int(s.Bytes[x]>>y) & 1
}

func (BitString) Tag() Tag { return Universal(TagBitString) }

func (s BitString) ValueLen() (int, error) {
	if !s.IsValid() {
		return 0, newError(ErrInvalidValue, Universal(TagBitString), 0, "BitLength exceeds Bytes")
	}
	return 1 + (s.BitLength+8-1)/8, nil
}

func (s BitString) EncodeValue(e *Encoder) error {
	n := (s.BitLength + 8 - 1) / 8
	padding := s.UnusedBits()
	if err := e.WriteByte(byte(padding)); err != nil {
		return err
	}
	if n == 0 {
		return nil
	}
	if _, err := e.Write(s.Bytes[:n-1]); err != nil {
		return err
	}
	// zero out any padding bits
	return e.WriteByte(s.Bytes[n-1] & ^byte(1<<uint(padding)-1))
}

func (s *BitString) DecodeValue(d *Decoder, h Header) error {
	if h.Length == 0 {
		return d.Fail(ErrInvalidValue, "zero length BIT STRING")
	}
	b := d.peek()
	padding := int(b[0])
	if padding > 7 || (h.Length == 1 && padding > 0) {
		return d.Fail(ErrInvalidValue, "invalid padding bits in BIT STRING")
	}
	if b[len(b)-1]&byte(1<<uint(padding)-1) != 0 {
		return d.Fail(ErrNonCanonical, "non-zero padding bits in BIT STRING")
	}
	d.pos++
	bs := d.Bytes()
	*s = BitString{Bytes: bs, BitLength: len(bs)*8 - padding}
	return nil
}

//endregion

//region [UNIVERSAL 4] OCTET STRING

// OctetString implements the ASN.1 OCTET STRING type. A decoded OctetString
// shares memory with the input.
type OctetString []byte

func (OctetString) Tag() Tag { return Universal(TagOctetString) }

func (s OctetString) ValueLen() (int, error) { return len(s), nil }

func (s OctetString) EncodeValue(e *Encoder) error {
	_, err := e.Write(s)
	return err
}

func (s *OctetString) DecodeValue(d *Decoder, _ Header) error {
	*s = d.Bytes()
	return nil
}

//endregion

//region [UNIVERSAL 5] NULL

// Null represents the ASN.1 NULL type. If your data structure contains fixed
// NULL elements this type offers a convenient way to indicate their presence.
//
// See also section 24 of Rec. ITU-T X.680.
type Null struct{}

func (Null) Tag() Tag { return Universal(TagNull) }

func (Null) ValueLen() (int, error) { return 0, nil }

func (Null) EncodeValue(*Encoder) error { return nil }

func (*Null) DecodeValue(d *Decoder, h Header) error {
	if h.Length != 0 {
		return d.Fail(ErrInvalidValue, "NULL must not have content octets")
	}
	return nil
}

//endregion

//region [UNIVERSAL 12] UTF8String

// UTF8String implements the ASN.1 UTF8String type. Only the primitive encoding
// is permitted. Invalid UTF-8 is rejected when encoding and decoding.
type UTF8String string

// IsValid reports whether s is valid UTF-8.
func (s UTF8String) IsValid() bool {
	return utf8.ValidString(string(s))
}

func (UTF8String) Tag() Tag { return Universal(TagUTF8String) }

func (s UTF8String) ValueLen() (int, error) {
	if !s.IsValid() {
		return 0, newError(ErrInvalidValue, Universal(TagUTF8String), 0, "UTF8String contains invalid characters")
	}
	return len(s), nil
}

func (s UTF8String) EncodeValue(e *Encoder) error {
	_, err := e.Write([]byte(s))
	return err
}

func (s *UTF8String) DecodeValue(d *Decoder, _ Header) error {
	if !utf8.Valid(d.peek()) {
		return d.Fail(ErrInvalidValue, "UTF8String contains invalid characters")
	}
	*s = UTF8String(d.Bytes())
	return nil
}

//endregion
