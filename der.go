// Copyright 2025 Kim Wittenburg. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package der implements decoding and encoding of ASN.1 values using the
// Distinguished Encoding Rules (DER) as specified in [Rec. ITU-T X.690].
// See also “[A Layman's Guide to a Subset of ASN.1, BER, and DER]”.
//
// The package operates on in-memory byte slices only. Input is treated as
// untrusted: every malformed, truncated or non-canonical encoding is reported
// as an error and never causes a panic. Only the DER subset of BER is accepted.
// In particular indefinite-length encodings, non-minimal lengths, BOOLEAN
// values other than 0x00 and 0xFF and non-minimal INTEGER encodings are
// rejected.
//
// # Headers and Values
//
// Each value is encoded in a tag-length-value format. The tag and length (we
// call them a header) are represented by the [Header] type. The [Decoder] type
// reads values from a byte slice, the [Encoder] type writes values into a byte
// slice.
//
// Types that can be encoded implement the [Value] interface. Encoding follows a
// measure-then-write contract: [Value.ValueLen] computes the number of content
// octets, then [Value.EncodeValue] writes exactly that many octets. Because the
// length of every value is known before it is written, composite values such as
// a [Sequence] never need a second pass over the output.
//
// Types that can be decoded implement the [Decodable] interface. Decoded values
// borrow from the input buffer: an [OctetString] or [Any] is a sub-slice of the
// bytes passed to [NewDecoder]. Callers that need values to outlive the input
// must copy them, for example using [Any.Clone].
//
// # Supported Types
//
// The following ASN.1 types are supported:
//
//   - BOOLEAN: [Boolean]
//   - INTEGER: [Integer] (arbitrary precision)
//   - BIT STRING: [BitString]
//   - OCTET STRING: [OctetString]
//   - NULL: [Null]
//   - OBJECT IDENTIFIER: [ObjectIdentifier]
//   - UTF8String: [UTF8String]
//   - SEQUENCE: [Sequence] and [Decoder.Sequence]
//   - EXPLICIT context-specific tags: [ContextSpecific]
//   - any other value: [Any]
//
// [Rec. ITU-T X.690]: https://www.itu.int/rec/T-REC-X.690
// [A Layman's Guide to a Subset of ASN.1, BER, and DER]: http://luca.ntop.org/Teaching/Appunti/asn1.html
package der

import (
	"strconv"
	"strings"
)

// Class holds the class part of an ASN.1 tag. The class acts as a namespace for
// the tag number. A Class value is an unsigned 2-bit integer. Class values
// whose value exceeds 2 bits are invalid.
//
//go:generate stringer -type=Class -trimprefix=Class
type Class uint8

// IsValid reports whether c is a valid Class value.
func (c Class) IsValid() bool {
	return c <= 3
}

// Predefined [Class] constants. These are all the possible values that can be
// encoded in the [Class] type.
const (
	ClassUniversal Class = iota
	ClassApplication
	ClassContextSpecific
	ClassPrivate
)

// Tag constitutes an ASN.1 tag as it appears in the identifier octets of an
// encoding: its class, the constructed bit and the tag number. Two tags are
// only equal if they agree in all three components. For details, see Section 8
// of Rec. ITU-T X.680 and Section 8.1.2 of Rec. ITU-T X.690.
type Tag struct {
	Class       Class
	Constructed bool
	Number      uint32
}

// Universal returns the primitive [ClassUniversal] tag with the given number.
func Universal(number uint32) Tag {
	return Tag{Class: ClassUniversal, Number: number}
}

// ContextSpecificTag returns a [ClassContextSpecific] tag with the given
// number.
func ContextSpecificTag(number uint32, constructed bool) Tag {
	return Tag{Class: ClassContextSpecific, Constructed: constructed, Number: number}
}

// String returns a string representation t in a format similar to the one used
// in ASN.1 notation. The tag number is enclosed by square brackets and prefixed
// with the class used. To avoid ambiguity the UNIVERSAL word is used for
// universal tags, although this is not valid ASN.1 syntax.
func (t Tag) String() string {
	if t.Class == ClassContextSpecific {
		return "[" + strconv.FormatUint(uint64(t.Number), 10) + "]"
	}
	return "[" + strings.ToUpper(t.Class.String()) + " " + strconv.FormatUint(uint64(t.Number), 10) + "]"
}

// These are the ASN.1 tag numbers in the [ClassUniversal] namespace used by this
// package. These assignments are defined in Rec. ITU-T X.680, Section 8, Table
// 1.
const (
	TagReserved    uint32 = 0 // end-of-contents, never valid in DER
	TagBoolean     uint32 = 1
	TagInteger     uint32 = 2
	TagBitString   uint32 = 3
	TagOctetString uint32 = 4
	TagNull        uint32 = 5
	TagOID         uint32 = 6
	TagUTF8String  uint32 = 12
	TagSequence    uint32 = 16
	TagSet         uint32 = 17
)

// Header represents a DER header: the identifier and length octets of an
// encoded value. Length is the number of content octets and is never negative.
type Header struct {
	Tag    Tag
	Length int
}

// String returns a string representation of h.
func (h Header) String() string {
	s := h.Tag.String()
	if h.Tag.Constructed {
		s += "/c"
	} else {
		s += "/p"
	}
	s += ":" + strconv.Itoa(h.Length)
	return s
}
