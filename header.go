// Copyright 2025 Kim Wittenburg. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package der

import (
	"errors"

	"codello.dev/der/internal/vlq"
)

// DecodeHeader decodes the identifier and length octets at the start of b and
// returns them as a [Header] value together with the number of bytes consumed.
// If the encoding is invalid an [*Error] is returned whose Offset is relative to
// b.
//
// Tag numbers of 31 and above use the high-tag-number form. The high-tag-number
// form must be minimal and may not be used for smaller tag numbers. The
// end-of-contents tag [UNIVERSAL 0] has no place in DER and is rejected.
//
// DecodeHeader does not check that the input contains Length content octets.
func DecodeHeader(b []byte) (h Header, n int, err error) {
	if len(b) == 0 {
		return Header{}, 0, newError(ErrInsufficientData, Tag{}, 0, "missing identifier octets")
	}
	c := b[0]
	h.Tag = Tag{
		Class:       Class(c >> 6),
		Constructed: c&0x20 == 0x20,
		Number:      uint32(c & 0x1f),
	}
	n = 1

	// If the bottom five bits are set, then the tag number is actually VLQ-encoded
	if c&0x1f == 0x1f {
		num, l, err := vlq.Decode[uint32](b[1:])
		switch {
		case errors.Is(err, vlq.ErrTruncated):
			return h, 0, newError(ErrInsufficientData, Tag{}, int64(len(b)), "truncated tag number")
		case err != nil:
			return h, 0, &Error{Kind: ErrInvalidTag, Offset: 1, Err: err}
		case num < 0x1f:
			return h, 0, newError(ErrInvalidTag, Tag{}, 1, "high-tag-number form for small tag number")
		}
		h.Tag.Number = num
		n += l
	}
	if h.Tag.isEndOfContents() {
		return h, 0, newError(ErrInvalidTag, Tag{}, 0, "end-of-contents")
	}

	length, l, err := DecodeLength(b[n:])
	if err != nil {
		return h, 0, relocate(err, int64(n), h.Tag)
	}
	h.Length = length
	return h, n + l, nil
}

// isEndOfContents reports whether t is [UNIVERSAL 0] in either form.
func (t Tag) isEndOfContents() bool {
	return t.Class == ClassUniversal && t.Number == TagReserved
}

// checkTag returns an [ErrInvalidTag] error if t cannot be encoded.
func checkTag(t Tag) error {
	if !t.Class.IsValid() {
		return newError(ErrInvalidTag, t, 0, "invalid class")
	}
	if t.isEndOfContents() {
		return newError(ErrInvalidTag, t, 0, "end-of-contents")
	}
	return nil
}

// tagSize returns the number of identifier octets of t.
func (t Tag) tagSize() int {
	if t.Number < 0x1f {
		return 1
	}
	return 1 + vlq.Size(t.Number)
}

// EncodedLen returns the number of bytes required to DER-encode h. The Append
// method will append this exact number of bytes.
func (h Header) EncodedLen() int {
	return h.Tag.tagSize() + LengthSize(h.Length)
}

// Append appends the DER encoding of h to dst and returns the extended slice.
// If h cannot be encoded, dst is returned unchanged together with an error.
func (h Header) Append(dst []byte) ([]byte, error) {
	if err := checkTag(h.Tag); err != nil {
		return dst, err
	}
	if h.Length < 0 {
		return dst, newError(ErrInvalidValue, h.Tag, 0, "negative length")
	}
	b := byte(h.Tag.Class) << 6
	if h.Tag.Constructed {
		b |= 0x20
	}
	if h.Tag.Number < 0x1f {
		dst = append(dst, b|byte(h.Tag.Number))
	} else {
		dst = append(dst, b|0x1f)
		dst = vlq.Append(dst, h.Tag.Number)
	}
	// h.Length is known to be non-negative
	dst, _ = AppendLength(dst, h.Length)
	return dst, nil
}
