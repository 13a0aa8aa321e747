// Copyright 2025 Kim Wittenburg. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package der

import (
	"errors"
	"strconv"
)

// ErrorKind classifies the errors reported by this package. Every ErrorKind
// is itself an error, so callers can test for a specific kind using
// [errors.Is]:
//
//	if errors.Is(err, der.ErrTrailingData) {
//		// ...
//	}
//
//go:generate stringer -type=ErrorKind -trimprefix=Err
type ErrorKind uint8

const (
	// ErrInsufficientData indicates that the input is shorter than a declared
	// length requires.
	ErrInsufficientData ErrorKind = iota + 1

	// ErrOverflow indicates that a length, tag number, OID arc or integer does not
	// fit into the Go type used to represent it.
	ErrOverflow

	// ErrNonCanonical indicates an encoding that is valid BER but violates the
	// DER rules: non-minimal lengths, indefinite lengths, BOOLEAN values other
	// than 0x00 and 0xFF, non-minimal INTEGERs, non-zero unused bits in a BIT
	// STRING or non-minimal OID arcs.
	ErrNonCanonical

	// ErrInvalidTag indicates malformed identifier octets.
	ErrInvalidTag

	// ErrTagMismatch indicates that a decoded tag does not match the tag expected
	// for the requested type.
	ErrTagMismatch

	// ErrTrailingData indicates that a constructed value has not been consumed
	// completely or that bytes remain after the top-level value.
	ErrTrailingData

	// ErrInvalidValue indicates contents that are semantically invalid for an
	// otherwise well-formed header.
	ErrInvalidValue

	// ErrShortBuffer indicates that an [Encoder] does not have enough capacity
	// left for a value.
	ErrShortBuffer
)

// Error implements the error interface.
func (k ErrorKind) Error() string {
	switch k {
	case ErrInsufficientData:
		return "der: insufficient data"
	case ErrOverflow:
		return "der: value overflows its representation"
	case ErrNonCanonical:
		return "der: non-canonical encoding"
	case ErrInvalidTag:
		return "der: invalid tag"
	case ErrTagMismatch:
		return "der: tag mismatch"
	case ErrTrailingData:
		return "der: trailing data"
	case ErrInvalidValue:
		return "der: invalid value"
	case ErrShortBuffer:
		return "der: short buffer"
	}
	return "der: error " + strconv.Itoa(int(k))
}

// Error is the error type returned by decoding and encoding operations. It
// records the [ErrorKind] together with the location of the error.
//
// Use [errors.Is] with an [ErrorKind] to test for a kind and [errors.As] to
// access the location.
type Error struct {
	Kind ErrorKind

	// Tag is the tag of the value whose encoding is malformed. Tag is the zero Tag
	// if the error occurred before a tag could be decoded.
	Tag Tag

	// Offset is the location of the error in the input. For decoding errors this
	// is relative to the start of the buffer passed to [NewDecoder]. For encoding
	// errors Offset is the output offset at which the value would have been
	// written.
	Offset int64

	Err error // optional detail
}

func (e *Error) Unwrap() error { return e.Err }

// Is reports whether target is the [ErrorKind] of e.
func (e *Error) Is(target error) bool {
	k, ok := target.(ErrorKind)
	return ok && k == e.Kind
}

func (e *Error) Error() string {
	b := []byte(e.Kind.Error())
	if e.Tag != (Tag{}) {
		b = append(b, " within "...)
		b = append(b, e.Tag.String()...)
	}
	if e.Offset > 0 {
		b = strconv.AppendInt(append(b, " at offset "...), e.Offset, 10)
	}
	if e.Err != nil {
		b = append(b, ": "...)
		b = append(b, e.Err.Error()...)
	}
	return string(b)
}

// newError creates an *Error of the given kind with a detail message.
func newError(kind ErrorKind, tag Tag, offset int64, msg string) *Error {
	e := &Error{Kind: kind, Tag: tag, Offset: offset}
	if msg != "" {
		e.Err = errors.New(msg)
	}
	return e
}

// relocate returns err with its offset shifted by base and its tag set to tag
// if it does not have one yet. Errors of other types are returned unchanged.
func relocate(err error, base int64, tag Tag) error {
	var e *Error
	if !errors.As(err, &e) {
		return err
	}
	ne := *e
	ne.Offset += base
	if ne.Tag == (Tag{}) {
		ne.Tag = tag
	}
	return &ne
}
