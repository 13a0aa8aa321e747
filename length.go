// Copyright 2025 Kim Wittenburg. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package der

import (
	"math"
	"math/bits"
)

// maxLengthOctets is the maximum number of long-form length octets whose value
// can be represented by an int.
const maxLengthOctets = bits.UintSize / 8

// DecodeLength decodes the length octets at the start of b. It returns the
// length and the number of bytes consumed.
//
// Only the definite forms are accepted. The long form must be minimal: it must
// not be used for lengths below 128 and must not contain leading zero octets.
// The returned error is an [*Error] whose Offset is relative to b.
func DecodeLength(b []byte) (length int, n int, err error) {
	if len(b) == 0 {
		return 0, 0, newError(ErrInsufficientData, Tag{}, 0, "missing length octets")
	}
	c := b[0]
	if c&0x80 == 0 {
		// The length is encoded in the bottom 7 bits.
		return int(c), 1, nil
	}
	switch {
	case c == 0x80:
		return 0, 0, newError(ErrNonCanonical, Tag{}, 0, "indefinite length")
	case c == 0xff:
		return 0, 0, newError(ErrInvalidValue, Tag{}, 0, "reserved length octet")
	}

	// Bottom 7 bits give the number of length bytes to follow.
	numBytes := int(c & 0x7f)
	if numBytes > maxLengthOctets {
		return 0, 0, newError(ErrOverflow, Tag{}, 0, "length too large")
	}
	if len(b) < 1+numBytes {
		return 0, 0, newError(ErrInsufficientData, Tag{}, int64(len(b)), "truncated length octets")
	}
	if b[1] == 0 {
		return 0, 0, newError(ErrNonCanonical, Tag{}, 1, "length has leading zero octet")
	}
	for _, c := range b[1 : 1+numBytes] {
		if length > math.MaxInt>>8 {
			// We can't shift length up without overflowing.
			return 0, 0, newError(ErrOverflow, Tag{}, 0, "length too large")
		}
		length = length<<8 | int(c)
	}
	if length < 128 {
		return 0, 0, newError(ErrNonCanonical, Tag{}, 0, "long-form length below 128")
	}
	return length, 1 + numBytes, nil
}

// LengthSize returns the number of octets [AppendLength] produces for length.
func LengthSize(length int) int {
	if length < 128 {
		return 1
	}
	return 1 + (bits.Len(uint(length))+7)/8
}

// AppendLength appends the DER length octets for length to dst. Lengths up to
// 127 use the short form, all other lengths use the minimal long form. A
// negative length results in an [ErrInvalidValue] error.
func AppendLength(dst []byte, length int) ([]byte, error) {
	if length < 0 {
		return dst, newError(ErrInvalidValue, Tag{}, 0, "negative length")
	}
	if length < 128 {
		return append(dst, byte(length)), nil
	}
	numBytes := (bits.Len(uint(length)) + 7) / 8
	dst = append(dst, 0x80|byte(numBytes))
	for ; numBytes > 0; numBytes-- {
		dst = append(dst, byte(length>>uint((numBytes-1)*8)))
	}
	return dst, nil
}
