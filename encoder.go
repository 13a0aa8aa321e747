// Copyright 2025 Kim Wittenburg. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package der

import "math"

// Value is implemented by types that can be DER-encoded.
//
// Tag returns the tag used for the encoding. ValueLen returns the number of
// content octets of the encoding. It must validate the value: if ValueLen
// succeeds, EncodeValue must write exactly ValueLen bytes to the [Encoder] and
// may only fail if the encoder runs out of space. ValueLen may be called more
// than once during encoding and must be free of side effects.
type Value interface {
	Tag() Tag
	ValueLen() (int, error)
	EncodeValue(e *Encoder) error
}

// EncodedLen returns the number of bytes needed to encode v including its
// header. Tags that cannot be encoded are reported here, so that validating a
// value by measuring it covers all nested values.
func EncodedLen(v Value) (int, error) {
	if err := checkTag(v.Tag()); err != nil {
		return 0, err
	}
	l, err := v.ValueLen()
	if err != nil {
		return 0, err
	}
	h := Header{Tag: v.Tag(), Length: l}
	n := h.EncodedLen()
	if l > math.MaxInt-n {
		return 0, newError(ErrOverflow, v.Tag(), 0, "encoding too large")
	}
	return n + l, nil
}

// Marshal returns the DER encoding of v. The returned slice is allocated with
// the exact size of the encoding.
func Marshal(v Value) ([]byte, error) {
	n, err := EncodedLen(v)
	if err != nil {
		return nil, relocate(err, 0, v.Tag())
	}
	e := NewEncoder(make([]byte, 0, n))
	if err = e.Encode(v); err != nil {
		return nil, err
	}
	return e.Bytes(), nil
}

// EncodeTo writes the DER encoding of v into buf and returns the prefix of buf
// holding the encoding. If buf does not have enough capacity an error of kind
// [ErrShortBuffer] is returned.
func EncodeTo(buf []byte, v Value) ([]byte, error) {
	e := NewEncoder(buf)
	if err := e.Encode(v); err != nil {
		return nil, err
	}
	return e.Bytes(), nil
}

// An Encoder writes DER-encoded values into a fixed buffer. An Encoder never
// grows its buffer: writes that exceed its capacity fail with [ErrShortBuffer].
type Encoder struct {
	buf []byte
}

// NewEncoder creates an [Encoder] that writes into buf[:0]. The encoder uses at
// most cap(buf) bytes.
func NewEncoder(buf []byte) *Encoder {
	return &Encoder{buf: buf[:0]}
}

// Bytes returns the bytes written so far.
func (e *Encoder) Bytes() []byte {
	return e.buf
}

// Len returns the number of bytes written so far.
func (e *Encoder) Len() int {
	return len(e.buf)
}

// available returns the number of bytes that can still be written.
func (e *Encoder) available() int {
	return cap(e.buf) - len(e.buf)
}

// Encode writes the header and contents of v. The length of v is computed before
// anything is written: if v is invalid or does not fit into the remaining buffer,
// no bytes are written.
func (e *Encoder) Encode(v Value) error {
	start := len(e.buf)
	tag := v.Tag()
	if err := checkTag(tag); err != nil {
		return relocate(err, int64(start), tag)
	}
	l, err := v.ValueLen()
	if err != nil {
		return relocate(err, int64(start), tag)
	}
	h := Header{Tag: tag, Length: l}
	if hl := h.EncodedLen(); l > e.available()-hl {
		return newError(ErrShortBuffer, tag, int64(start), "")
	}
	if e.buf, err = h.Append(e.buf); err != nil {
		return relocate(err, int64(start), tag)
	}
	end := len(e.buf) + l
	if err = v.EncodeValue(e); err != nil {
		e.buf = e.buf[:start]
		return err
	}
	if len(e.buf) != end {
		e.buf = e.buf[:start]
		return newError(ErrInvalidValue, tag, int64(start), "content length differs from measured length")
	}
	return nil
}

// Write appends p to the output. It implements [io.Writer]. If p does not fit,
// nothing is written.
func (e *Encoder) Write(p []byte) (int, error) {
	if len(p) > e.available() {
		return 0, newError(ErrShortBuffer, Tag{}, int64(len(e.buf)), "")
	}
	e.buf = append(e.buf, p...)
	return len(p), nil
}

// WriteByte appends c to the output. It implements [io.ByteWriter].
func (e *Encoder) WriteByte(c byte) error {
	if e.available() < 1 {
		return newError(ErrShortBuffer, Tag{}, int64(len(e.buf)), "")
	}
	e.buf = append(e.buf, c)
	return nil
}
