// Copyright 2025 Kim Wittenburg. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package der

import (
	"bytes"
	"errors"
	"iter"
	"math/bits"
	"strconv"
	"strings"

	"codello.dev/der/internal/vlq"
)

// An ObjectIdentifier represents an ASN.1 OBJECT IDENTIFIER. The semantics of
// an object identifier are specified in [Rec. ITU-T X.660].
//
// An ObjectIdentifier stores the validated content octets of its encoding. Arcs
// are computed on demand. A decoded ObjectIdentifier shares memory with the
// input. The zero value is not a valid object identifier and cannot be encoded.
//
// See also section 32 of Rec. ITU-T X.680.
//
// [Rec. ITU-T X.660]: https://www.itu.int/rec/T-REC-X.660
type ObjectIdentifier struct {
	b []byte
}

// NewObjectIdentifier returns the [ObjectIdentifier] consisting of the given
// arcs. There must be at least two arcs. The first arc must be 0, 1 or 2. If
// the first arc is 0 or 1 the second arc must be less than 40.
func NewObjectIdentifier(arcs ...uint) (ObjectIdentifier, error) {
	if len(arcs) < 2 {
		return ObjectIdentifier{}, newError(ErrInvalidValue, Universal(TagOID), 0, "OBJECT IDENTIFIER needs at least two arcs")
	}
	// The first varint is 40*value1 + value2:
	// According to this packing, value1 can take the values 0, 1 and 2 only.
	// When value1 = 0 or value1 = 1, then value2 is <= 39. When value1 = 2,
	// then there are no restrictions on value2.
	if arcs[0] > 2 || (arcs[0] < 2 && arcs[1] >= 40) {
		return ObjectIdentifier{}, newError(ErrInvalidValue, Universal(TagOID), 0, "invalid first arcs")
	}
	if arcs[1] > ^uint(0)-80 {
		return ObjectIdentifier{}, newError(ErrOverflow, Universal(TagOID), 0, "second arc too large")
	}
	first := arcs[0]*40 + arcs[1]
	l := vlq.Size(first)
	for _, arc := range arcs[2:] {
		l += vlq.Size(arc)
	}
	b := make([]byte, 0, l)
	b = vlq.Append(b, first)
	for _, arc := range arcs[2:] {
		b = vlq.Append(b, arc)
	}
	return ObjectIdentifier{b: b}, nil
}

// ParseObjectIdentifier parses the dot-separated notation of an object
// identifier, for example "1.2.840.113549.1.1.1".
func ParseObjectIdentifier(s string) (ObjectIdentifier, error) {
	parts := strings.Split(s, ".")
	arcs := make([]uint, len(parts))
	for i, part := range parts {
		arc, err := strconv.ParseUint(part, 10, bits.UintSize)
		if errors.Is(err, strconv.ErrRange) {
			return ObjectIdentifier{}, &Error{Kind: ErrOverflow, Tag: Universal(TagOID), Err: err}
		} else if err != nil {
			return ObjectIdentifier{}, &Error{Kind: ErrInvalidValue, Tag: Universal(TagOID), Err: err}
		}
		arcs[i] = uint(arc)
	}
	return NewObjectIdentifier(arcs...)
}

// MustObjectIdentifier is like [ParseObjectIdentifier] but panics if s cannot
// be parsed. It simplifies the initialization of global variables holding
// object identifiers.
func MustObjectIdentifier(s string) ObjectIdentifier {
	oid, err := ParseObjectIdentifier(s)
	if err != nil {
		panic(`der: ParseObjectIdentifier(` + strconv.Quote(s) + `): ` + err.Error())
	}
	return oid
}

// checkOID validates the content octets of an OBJECT IDENTIFIER. Errors are
// reported relative to b.
func checkOID(b []byte) error {
	if len(b) == 0 {
		return newError(ErrInvalidValue, Universal(TagOID), 0, "zero length OBJECT IDENTIFIER")
	}
	for i := 0; i < len(b); {
		_, n, err := vlq.Decode[uint](b[i:])
		switch {
		case errors.Is(err, vlq.ErrNotMinimal):
			return &Error{Kind: ErrNonCanonical, Tag: Universal(TagOID), Offset: int64(i), Err: err}
		case errors.Is(err, vlq.ErrOverflow):
			return &Error{Kind: ErrOverflow, Tag: Universal(TagOID), Offset: int64(i), Err: err}
		case err != nil:
			return &Error{Kind: ErrInvalidValue, Tag: Universal(TagOID), Offset: int64(i), Err: err}
		}
		i += n
	}
	return nil
}

// Bytes returns the content octets of oid. The returned slice must not be
// modified.
func (oid ObjectIdentifier) Bytes() []byte {
	return oid.b
}

// Clone returns a copy of oid that does not share memory with the input it was
// decoded from.
func (oid ObjectIdentifier) Clone() ObjectIdentifier {
	return ObjectIdentifier{b: bytes.Clone(oid.b)}
}

// Len returns the number of arcs in oid.
func (oid ObjectIdentifier) Len() int {
	if len(oid.b) == 0 {
		return 0
	}
	n := 1
	for _, c := range oid.b {
		if c&0x80 == 0 {
			n++
		}
	}
	return n
}

// All returns an iterator over the arcs of oid.
func (oid ObjectIdentifier) All() iter.Seq[uint] {
	return func(yield func(uint) bool) {
		if len(oid.b) == 0 {
			return
		}
		v, n, _ := vlq.Decode[uint](oid.b)
		if v < 80 {
			if !yield(v/40) || !yield(v%40) {
				return
			}
		} else if !yield(2) || !yield(v-80) {
			return
		}
		for i := n; i < len(oid.b); i += n {
			v, n, _ = vlq.Decode[uint](oid.b[i:])
			if !yield(v) {
				return
			}
		}
	}
}

// Arcs returns the arcs of oid in a newly allocated slice.
func (oid ObjectIdentifier) Arcs() []uint {
	arcs := make([]uint, 0, oid.Len())
	for arc := range oid.All() {
		arcs = append(arcs, arc)
	}
	return arcs
}

// Equal reports whether oid and other represent the same identifier.
func (oid ObjectIdentifier) Equal(other ObjectIdentifier) bool {
	return bytes.Equal(oid.b, other.b)
}

// String returns the dot-separated notation of oid.
func (oid ObjectIdentifier) String() string {
	var s strings.Builder
	s.Grow(32)

	buf := make([]byte, 0, 20)
	i := 0
	for v := range oid.All() {
		if i > 0 {
			s.WriteByte('.')
		}
		s.Write(strconv.AppendUint(buf, uint64(v), 10))
		i++
	}

	return s.String()
}

func (ObjectIdentifier) Tag() Tag { return Universal(TagOID) }

func (oid ObjectIdentifier) ValueLen() (int, error) {
	if len(oid.b) == 0 {
		return 0, newError(ErrInvalidValue, Universal(TagOID), 0, "empty OBJECT IDENTIFIER")
	}
	return len(oid.b), nil
}

func (oid ObjectIdentifier) EncodeValue(e *Encoder) error {
	_, err := e.Write(oid.b)
	return err
}

func (oid *ObjectIdentifier) DecodeValue(d *Decoder, _ Header) error {
	if err := checkOID(d.peek()); err != nil {
		return d.fail(relocate(err, d.InputOffset(), d.tag))
	}
	*oid = ObjectIdentifier{b: d.Bytes()}
	return nil
}
