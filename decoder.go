// Copyright 2025 Kim Wittenburg. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package der

import "errors"

// Decodable is implemented by types that can decode themselves from a DER
// encoding. The methods are typically implemented on a pointer receiver.
//
// Tag returns the tag that identifies the type. [Decoder.Decode] compares the
// tag of the next value against Tag before invoking DecodeValue. Tag may be
// called on the zero value.
//
// DecodeValue decodes the content octets described by h. The [Decoder] passed
// to DecodeValue is scoped to exactly h.Length bytes. An implementation must
// consume all of them, otherwise decoding fails with [ErrTrailingData]. Errors
// should be created using [Decoder.Fail] so that they carry the location in
// the input. An implementation must not retain d after it returns. If
// DecodeValue returns an error the receiver should be left unchanged.
type Decodable interface {
	Tag() Tag
	DecodeValue(d *Decoder, h Header) error
}

// A Decoder reads DER-encoded values from a byte slice. A Decoder never reads
// past the end of its input and never copies it: values returned by the
// Decoder share memory with the input.
//
// Errors are sticky. After the first error every subsequent operation returns
// the same error without consuming input.
type Decoder struct {
	buf    []byte // input, capacity is clipped
	pos    int    // read position in buf
	offset int64  // input offset of buf[0]
	tag    Tag    // tag of the enclosing value, if any
	err    error

	sub *Decoder // reused for nested values
}

// NewDecoder creates a new [Decoder] reading from b.
func NewDecoder(b []byte) *Decoder {
	return &Decoder{buf: b[:len(b):len(b)]}
}

// Unmarshal decodes a single DER value from b into v. The value must span all
// of b, otherwise [ErrTrailingData] is returned.
func Unmarshal(b []byte, v Decodable) error {
	d := NewDecoder(b)
	if err := d.Decode(v); err != nil {
		return err
	}
	return d.Finish()
}

// Err returns the first error encountered by d, if any.
func (d *Decoder) Err() error {
	return d.err
}

// Fail records an error of the given kind at the current position of d and
// returns it. The error is associated with the tag of the value d is scoped to.
// Fail is intended to be used by implementations of [Decodable]. If d has
// already failed, the original error is returned.
func (d *Decoder) Fail(kind ErrorKind, detail string) error {
	return d.fail(newError(kind, d.tag, d.InputOffset(), detail))
}

func (d *Decoder) fail(err error) error {
	if d.err == nil {
		d.err = err
	}
	return d.err
}

// InputOffset returns the current read position of d relative to the start of
// the top-level input.
func (d *Decoder) InputOffset() int64 {
	return d.offset + int64(d.pos)
}

// Remaining returns the number of unread bytes.
func (d *Decoder) Remaining() int {
	return len(d.buf) - d.pos
}

// IsEmpty reports whether all input has been consumed.
func (d *Decoder) IsEmpty() bool {
	return d.pos >= len(d.buf)
}

// Finish reports whether d has been consumed successfully. If any bytes remain
// [ErrTrailingData] is returned.
func (d *Decoder) Finish() error {
	if d.err != nil {
		return d.err
	}
	if !d.IsEmpty() {
		return d.fail(newError(ErrTrailingData, d.tag, d.InputOffset(), ""))
	}
	return nil
}

// peekHeader decodes the next header without consuming it. It returns the
// header and its encoded size. The declared length is checked against the
// remaining input.
func (d *Decoder) peekHeader() (Header, int, error) {
	if d.err != nil {
		return Header{}, 0, d.err
	}
	h, n, err := DecodeHeader(d.buf[d.pos:])
	if err != nil {
		return h, 0, d.fail(relocate(err, d.InputOffset(), Tag{}))
	}
	if h.Length > d.Remaining()-n {
		return h, 0, d.fail(newError(ErrInsufficientData, h.Tag, d.InputOffset()+int64(n), "content octets exceed input"))
	}
	return h, n, nil
}

// PeekHeader returns the next header without consuming it. The declared length
// is guaranteed to fit into the remaining input.
func (d *Decoder) PeekHeader() (Header, error) {
	h, _, err := d.peekHeader()
	return h, err
}

// PeekTag returns the tag of the next value without consuming it.
func (d *Decoder) PeekTag() (Tag, error) {
	h, _, err := d.peekHeader()
	return h.Tag, err
}

// Decode decodes the next value into v. If the tag of the next value does not
// match v.Tag() an error of kind [ErrTagMismatch] is returned and no input is
// consumed.
func (d *Decoder) Decode(v Decodable) error {
	h, n, err := d.peekHeader()
	if err != nil {
		return err
	}
	if want := v.Tag(); h.Tag != want {
		return d.fail(&Error{Kind: ErrTagMismatch, Tag: h.Tag, Offset: d.InputOffset(), Err: errMismatch(want)})
	}
	return d.decodeValue(h, n, v.DecodeValue)
}

// DecodeOptional decodes the next value into v if its tag matches v.Tag(). If
// d is empty or the next value has a different tag, DecodeOptional returns
// false and v is left unchanged.
func (d *Decoder) DecodeOptional(v Decodable) (present bool, err error) {
	if d.err != nil {
		return false, d.err
	}
	if d.IsEmpty() {
		return false, nil
	}
	h, n, err := d.peekHeader()
	if err != nil {
		return false, err
	}
	if h.Tag != v.Tag() {
		return false, nil
	}
	if err = d.decodeValue(h, n, v.DecodeValue); err != nil {
		return false, err
	}
	return true, nil
}

// DecodeAny decodes the next value without interpreting its contents.
func (d *Decoder) DecodeAny() (Any, error) {
	h, n, err := d.peekHeader()
	if err != nil {
		return Any{}, err
	}
	start := d.pos + n
	end := start + h.Length
	d.pos = end
	return Any{tag: h.Tag, value: d.buf[start:end:end]}, nil
}

// Sequence decodes a SEQUENCE and invokes fn with a [Decoder] scoped to its
// contents. fn must consume the contents completely.
func (d *Decoder) Sequence(fn func(d *Decoder) error) error {
	return d.Nested(Tag{Class: ClassUniversal, Constructed: true, Number: TagSequence}, fn)
}

// Nested decodes a value with the given tag and invokes fn with a [Decoder]
// scoped to its contents. fn must consume the contents completely, otherwise
// [ErrTrailingData] is returned.
func (d *Decoder) Nested(tag Tag, fn func(d *Decoder) error) error {
	h, n, err := d.peekHeader()
	if err != nil {
		return err
	}
	if h.Tag != tag {
		return d.fail(&Error{Kind: ErrTagMismatch, Tag: h.Tag, Offset: d.InputOffset(), Err: errMismatch(tag)})
	}
	return d.decodeValue(h, n, func(sub *Decoder, _ Header) error {
		return fn(sub)
	})
}

// decodeValue invokes fn with a decoder scoped to the contents of the value with
// header h. n is the size of the encoded header.
func (d *Decoder) decodeValue(h Header, n int, fn func(*Decoder, Header) error) error {
	start := d.pos + n
	end := start + h.Length
	if d.sub == nil {
		d.sub = new(Decoder)
	}
	sub := d.sub
	*sub = Decoder{
		buf:    d.buf[start:end:end],
		offset: d.offset + int64(start),
		tag:    h.Tag,
		sub:    sub.sub,
	}
	err := fn(sub, h)
	if err == nil {
		err = sub.err
	}
	if err == nil && !sub.IsEmpty() {
		err = newError(ErrTrailingData, h.Tag, sub.InputOffset(), "")
	}
	sub.buf = nil
	if err != nil {
		return d.fail(err)
	}
	d.pos = end
	return nil
}

// ReadByte reads a single content octet.
func (d *Decoder) ReadByte() (byte, error) {
	if d.err != nil {
		return 0, d.err
	}
	if d.IsEmpty() {
		return 0, d.Fail(ErrInsufficientData, "")
	}
	c := d.buf[d.pos]
	d.pos++
	return c, nil
}

// Bytes consumes and returns all remaining bytes of d. The returned slice
// shares memory with the input but has its capacity clipped. If d has failed,
// Bytes returns nil.
func (d *Decoder) Bytes() []byte {
	if d.err != nil {
		return nil
	}
	b := d.buf[d.pos:]
	d.pos = len(d.buf)
	return b
}

// errMismatch returns the detail error of a tag mismatch.
func errMismatch(want Tag) error {
	return errors.New("want " + want.String())
}

// peek returns the remaining bytes without consuming them.
func (d *Decoder) peek() []byte {
	return d.buf[d.pos:]
}
