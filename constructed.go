// Copyright 2025 Kim Wittenburg. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package der

import (
	"bytes"
	"math"
)

//region [UNIVERSAL 16] SEQUENCE

// Sequence implements the ASN.1 SEQUENCE type as an ordered list of values.
// Encoding a Sequence encodes its elements in order.
//
// A Sequence can also be used for decoding if every element is a pointer
// implementing [Decodable]. The elements are then decoded in order:
//
//	var version der.Integer
//	var key der.OctetString
//	err := der.Unmarshal(b, &der.Sequence{&version, &key})
//
// Sequences with optional elements can be decoded using [Decoder.Sequence].
type Sequence []Value

func (Sequence) Tag() Tag {
	return Tag{Class: ClassUniversal, Constructed: true, Number: TagSequence}
}

func (s Sequence) ValueLen() (int, error) {
	l := 0
	for _, v := range s {
		n, err := EncodedLen(v)
		if err != nil {
			return 0, err
		}
		if n > math.MaxInt-l {
			return 0, newError(ErrOverflow, s.Tag(), 0, "encoding too large")
		}
		l += n
	}
	return l, nil
}

func (s Sequence) EncodeValue(e *Encoder) error {
	for _, v := range s {
		if err := e.Encode(v); err != nil {
			return err
		}
	}
	return nil
}

func (s *Sequence) DecodeValue(d *Decoder, _ Header) error {
	for _, v := range *s {
		dv, ok := v.(Decodable)
		if !ok {
			return d.Fail(ErrInvalidValue, "sequence element does not implement Decodable")
		}
		if err := d.Decode(dv); err != nil {
			return err
		}
	}
	return nil
}

//endregion

//region Context-Specific

// ContextSpecific implements an EXPLICIT context-specific tag. It wraps a single
// value in a constructed value whose context-specific tag number is Number.
//
// When decoding, Number must be set to the expected tag number beforehand.
type ContextSpecific struct {
	Number uint32
	Value  Any
}

// Explicit returns a [ContextSpecific] value that wraps the encoding of v in an
// EXPLICIT [number] tag.
func Explicit(number uint32, v Value) (ContextSpecific, error) {
	a, err := AnyOf(v)
	if err != nil {
		return ContextSpecific{}, err
	}
	return ContextSpecific{Number: number, Value: a}, nil
}

func (c ContextSpecific) Tag() Tag {
	return ContextSpecificTag(c.Number, true)
}

func (c ContextSpecific) ValueLen() (int, error) {
	return EncodedLen(c.Value)
}

func (c ContextSpecific) EncodeValue(e *Encoder) error {
	return e.Encode(c.Value)
}

func (c *ContextSpecific) DecodeValue(d *Decoder, _ Header) error {
	a, err := d.DecodeAny()
	if err != nil {
		return err
	}
	c.Value = a
	return nil
}

//endregion

//region ANY

// Any holds an arbitrary DER value that has not been interpreted. The content
// octets of a decoded Any share memory with the input. Use [Any.Clone] to
// obtain an independent copy.
//
// The zero value of Any has no tag and cannot be encoded.
type Any struct {
	tag   Tag
	value []byte
}

// NewAny returns an [Any] with the given tag and content octets. The returned
// value shares memory with value.
func NewAny(tag Tag, value []byte) (Any, error) {
	if err := checkTag(tag); err != nil {
		return Any{}, err
	}
	return Any{tag: tag, value: value}, nil
}

// AnyOf encodes v and returns the result as an [Any].
func AnyOf(v Value) (Any, error) {
	tag := v.Tag()
	if err := checkTag(tag); err != nil {
		return Any{}, err
	}
	l, err := v.ValueLen()
	if err != nil {
		return Any{}, relocate(err, 0, tag)
	}
	e := NewEncoder(make([]byte, 0, l))
	if err = v.EncodeValue(e); err != nil {
		return Any{}, err
	}
	if e.Len() != l {
		return Any{}, newError(ErrInvalidValue, tag, 0, "content length differs from measured length")
	}
	return Any{tag: tag, value: e.Bytes()}, nil
}

// Tag returns the tag of a.
func (a Any) Tag() Tag {
	return a.tag
}

// Header returns the header of a.
func (a Any) Header() Header {
	return Header{Tag: a.tag, Length: len(a.value)}
}

// Bytes returns the content octets of a. The returned slice must not be
// modified.
func (a Any) Bytes() []byte {
	return a.value
}

// Equal reports whether a and other have the same tag and content octets.
func (a Any) Equal(other Any) bool {
	return a.tag == other.tag && bytes.Equal(a.value, other.value)
}

// Clone returns a copy of a that does not share memory with the input it was
// decoded from.
func (a Any) Clone() Any {
	return Any{tag: a.tag, value: bytes.Clone(a.value)}
}

// Decode interprets the contents of a as v. If the tag of a does not match
// v.Tag() an error of kind [ErrTagMismatch] is returned. Error offsets are
// relative to the content octets of a.
func (a Any) Decode(v Decodable) error {
	if want := v.Tag(); a.tag != want {
		return &Error{Kind: ErrTagMismatch, Tag: a.tag, Err: errMismatch(want)}
	}
	d := &Decoder{buf: a.value[:len(a.value):len(a.value)], tag: a.tag}
	if err := v.DecodeValue(d, a.Header()); err != nil {
		return err
	}
	return d.Finish()
}

func (a Any) ValueLen() (int, error) {
	return len(a.value), nil
}

func (a Any) EncodeValue(e *Encoder) error {
	_, err := e.Write(a.value)
	return err
}

// DecodeValue stores the header tag and contents in a. Use [Decoder.DecodeAny]
// to decode values with arbitrary tags.
func (a *Any) DecodeValue(d *Decoder, h Header) error {
	*a = Any{tag: h.Tag, value: d.Bytes()}
	return nil
}

//endregion
