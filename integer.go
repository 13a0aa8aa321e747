// Copyright 2025 Kim Wittenburg. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package der

import (
	"bytes"
	"math/big"
	"math/bits"

	"golang.org/x/exp/constraints"
)

// Integer implements the ASN.1 INTEGER type with arbitrary precision. An
// Integer holds the minimal big-endian two's-complement encoding of its value.
// The zero value of Integer represents the number 0.
//
// A decoded Integer shares memory with the input.
type Integer struct {
	b []byte // minimal two's-complement, nil for 0
}

// NewInteger returns an [Integer] for the two's-complement representation b.
// b must be minimal: it must not start with 0x00 followed by a byte with the high
// bit clear, or with 0xFF followed by a byte with the high bit set. The returned
// Integer shares memory with b.
func NewInteger(b []byte) (Integer, error) {
	if err := checkInteger(b); err != nil {
		return Integer{}, err
	}
	return Integer{b: b}, nil
}

// checkInteger validates the content octets of an INTEGER. Errors are reported
// at offset 0.
func checkInteger(b []byte) error {
	if len(b) == 0 {
		return newError(ErrInvalidValue, Universal(TagInteger), 0, "empty INTEGER")
	}
	if len(b) > 1 && ((b[0] == 0x00 && b[1]&0x80 == 0) || (b[0] == 0xff && b[1]&0x80 == 0x80)) {
		return newError(ErrNonCanonical, Universal(TagInteger), 0, "INTEGER not minimally-encoded")
	}
	return nil
}

// IntegerFrom returns the [Integer] representing v.
func IntegerFrom[T constraints.Integer](v T) Integer {
	var bs [8]byte
	if v < 0 {
		i := int64(v)
		l := 1
		for x := i; x < -128; x >>= 8 {
			l++
		}
		putUint64(bs[:], uint64(i))
		return Integer{b: bs[8-l:]}
	}
	u := uint64(v)
	if u == 0 {
		return Integer{}
	}
	l := bits.Len64(u)/8 + 1
	putUint64(bs[:], u)
	if l > 8 {
		// We'll have to pad this with 0x00 in order to stop it
		// looking like a negative number.
		return Integer{b: append([]byte{0x00}, bs[:]...)}
	}
	return Integer{b: bs[8-l:]}
}

func putUint64(b []byte, v uint64) {
	_ = b[7]
	for i := range 8 {
		b[i] = byte(v >> (56 - 8*i))
	}
}

// IntegerFromBig returns the [Integer] representing n.
func IntegerFromBig(n *big.Int) Integer {
	switch n.Sign() {
	case 0:
		return Integer{}
	case 1:
		bs := n.Bytes()
		if bs[0]&0x80 != 0 {
			// We'll have to pad this with 0x00 in order to stop it
			// looking like a negative number.
			bs = append([]byte{0x00}, bs...)
		}
		return Integer{b: bs}
	}
	// A negative number has to be converted to two's-complement
	// form. So we'll invert and subtract 1. If the
	// most-significant-bit isn't set then we'll need to pad the
	// beginning with 0xff in order to keep the number negative.
	nMinus1 := new(big.Int).Neg(n)
	nMinus1.Sub(nMinus1, bigOne)
	bs := nMinus1.Bytes()
	for i := range bs {
		bs[i] ^= 0xff
	}
	if len(bs) == 0 || bs[0]&0x80 == 0 {
		bs = append([]byte{0xff}, bs...)
	}
	return Integer{b: bs}
}

var bigOne = big.NewInt(1)

// Bytes returns the minimal two's-complement representation of i. The returned
// slice must not be modified.
func (i Integer) Bytes() []byte {
	if len(i.b) == 0 {
		return []byte{0x00}
	}
	return i.b
}

// Sign returns -1, 0 or +1 depending on the sign of i.
func (i Integer) Sign() int {
	switch {
	case len(i.b) == 0:
		return 0
	case i.b[0]&0x80 != 0:
		return -1
	case len(i.b) == 1 && i.b[0] == 0:
		return 0
	}
	return 1
}

// Big returns the value of i as a newly allocated [big.Int].
func (i Integer) Big() *big.Int {
	n := new(big.Int)
	if i.Sign() >= 0 {
		return n.SetBytes(i.b)
	}
	// negative integer, calculate 2s complement
	bs := make([]byte, len(i.b))
	for j, c := range i.b {
		bs[j] = ^c
	}
	n.SetBytes(bs)
	n.Add(n, bigOne)
	return n.Neg(n)
}

// Int64 returns the value of i as an int64. If the value does not fit, an error
// of kind [ErrOverflow] is returned.
func (i Integer) Int64() (int64, error) {
	return IntegerValue[int64](i)
}

// Equal reports whether i and other represent the same number.
func (i Integer) Equal(other Integer) bool {
	return bytes.Equal(i.Bytes(), other.Bytes())
}

// String returns the decimal representation of i.
func (i Integer) String() string {
	return i.Big().String()
}

// IntegerValue returns the value of i as a T. If the value does not fit into T,
// an error of kind [ErrOverflow] is returned.
func IntegerValue[T constraints.Integer](i Integer) (T, error) {
	b := i.Bytes()
	if b[0]&0x80 != 0 {
		var zero T
		if zero-1 > 0 || len(b) > 8 {
			return 0, errIntegerOverflow()
		}
		v := int64(-1)
		for _, c := range b {
			v = v<<8 | int64(c)
		}
		if t := T(v); int64(t) == v {
			return t, nil
		}
		return 0, errIntegerOverflow()
	}
	if len(b) > 9 || (len(b) == 9 && b[0] != 0) {
		return 0, errIntegerOverflow()
	}
	var u uint64
	for _, c := range b {
		u = u<<8 | uint64(c)
	}
	if t := T(u); t >= 0 && uint64(t) == u {
		return t, nil
	}
	return 0, errIntegerOverflow()
}

func errIntegerOverflow() error {
	return newError(ErrOverflow, Universal(TagInteger), 0, "integer too large")
}

func (Integer) Tag() Tag { return Universal(TagInteger) }

func (i Integer) ValueLen() (int, error) {
	return len(i.Bytes()), nil
}

func (i Integer) EncodeValue(e *Encoder) error {
	_, err := e.Write(i.Bytes())
	return err
}

func (i *Integer) DecodeValue(d *Decoder, _ Header) error {
	if err := checkInteger(d.peek()); err != nil {
		return d.fail(relocate(err, d.InputOffset(), d.tag))
	}
	*i = Integer{b: d.Bytes()}
	return nil
}
