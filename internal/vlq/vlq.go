// Copyright 2025 Kim Wittenburg. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package vlq implements [Variable-length quantity] encoding as used in BER
// tag numbers and OBJECT IDENTIFIER arcs. A VLQ is essentially a base-128
// representation of an unsigned integer with the addition of the eighth bit to
// mark continuation of bytes. VLQ is identical to [LEB128] except in
// endianness.
//
// [Variable-length quantity]: https://en.wikipedia.org/wiki/Variable-length_quantity
// [LEB128]: https://en.wikipedia.org/wiki/LEB128
package vlq

import (
	"errors"

	"golang.org/x/exp/constraints"
)

var (
	// ErrNotMinimal is returned if a VLQ starts with a 0x80 byte.
	ErrNotMinimal = errors.New("vlq is not minimally encoded")
	// ErrOverflow is returned if a VLQ does not fit into the target type.
	ErrOverflow = errors.New("vlq too large for target type")
	// ErrTruncated is returned if the input ends before the last byte of a VLQ.
	ErrTruncated = errors.New("vlq is truncated")
)

// Decode parses a minimally encoded unsigned VLQ from the start of b. It returns
// the value and the number of bytes consumed. The maximum allowed value is
// limited by the size of T.
//
// If b is empty or ends in the middle of a VLQ, ErrTruncated is returned.
func Decode[T constraints.Unsigned](b []byte) (ret T, n int, err error) {
	if len(b) == 0 {
		return 0, 0, ErrTruncated
	}
	if b[0] == 0x80 {
		return 0, 0, ErrNotMinimal
	}
	limit := ^T(0) >> 7
	for n < len(b) {
		c := b[n]
		n++
		if ret > limit {
			return 0, n, ErrOverflow
		}
		ret = ret<<7 | T(c&0x7f)
		if c&0x80 == 0 {
			return ret, n, nil
		}
	}
	return 0, n, ErrTruncated
}

// Size returns the number of bytes needed to encode n as a VLQ.
func Size[T constraints.Unsigned](n T) int {
	if n == 0 {
		return 1
	}
	l := 0
	for i := n; i > 0; i >>= 7 {
		l++
	}
	return l
}

// Append appends the VLQ encoding of i to dst and returns the extended slice.
func Append[T constraints.Unsigned](dst []byte, i T) []byte {
	for j := Size(i) - 1; j >= 0; j-- {
		b := byte(i>>(j*7)) & 0x7f
		if j > 0 {
			b |= 0x80
		}
		dst = append(dst, b)
	}
	return dst
}
