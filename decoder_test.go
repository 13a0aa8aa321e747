// Copyright 2025 Kim Wittenburg. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package der

import (
	"errors"
	"slices"
	"testing"

	"golang.org/x/sync/errgroup"
)

// pair is a SEQUENCE { a INTEGER, b OCTET STRING OPTIONAL } used in tests.
type pair struct {
	A    Integer
	B    OctetString
	HasB bool
}

func (pair) Tag() Tag { return Sequence{}.Tag() }

func (p *pair) DecodeValue(d *Decoder, _ Header) error {
	var v pair
	if err := d.Decode(&v.A); err != nil {
		return err
	}
	var err error
	if v.HasB, err = d.DecodeOptional(&v.B); err != nil {
		return err
	}
	*p = v
	return nil
}

func TestDecoder_Decode(t *testing.T) {
	tests := map[string]struct {
		data    []byte
		want    pair
		wantErr error
	}{
		"Both":          {[]byte{0x30, 0x06, 0x02, 0x01, 0x05, 0x04, 0x01, 0xAA}, pair{IntegerFrom(5), OctetString{0xAA}, true}, nil},
		"Optional":      {[]byte{0x30, 0x03, 0x02, 0x01, 0x05}, pair{A: IntegerFrom(5)}, nil},
		"TagMismatch":   {[]byte{0x31, 0x03, 0x02, 0x01, 0x05}, pair{}, ErrTagMismatch},
		"FieldMismatch": {[]byte{0x30, 0x03, 0x04, 0x01, 0x05}, pair{}, ErrTagMismatch},
		"Trailing":      {[]byte{0x30, 0x05, 0x02, 0x01, 0x05, 0x05, 0x00}, pair{}, ErrTrailingData},
		"ShortSequence": {[]byte{0x30, 0x05, 0x02, 0x01, 0x05, 0x04, 0x01, 0xAA}, pair{}, ErrInsufficientData},
		"LongSequence":  {[]byte{0x30, 0x07, 0x02, 0x01, 0x05, 0x04, 0x01, 0xAA}, pair{}, ErrInsufficientData},
		"TopLevelExtra": {[]byte{0x30, 0x03, 0x02, 0x01, 0x05, 0x00}, pair{}, ErrTrailingData},
		"NonCanonical":  {[]byte{0x30, 0x04, 0x02, 0x02, 0x00, 0x05}, pair{}, ErrNonCanonical},
	}
	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			var got pair
			err := Unmarshal(tc.data, &got)
			if !errors.Is(err, tc.wantErr) {
				t.Fatalf("Unmarshal(% X) error = %v, wantErr %v", tc.data, err, tc.wantErr)
			}
			if err != nil {
				if !got.A.Equal(Integer{}) || got.B != nil {
					t.Errorf("Unmarshal(% X) modified value on error: %+v", tc.data, got)
				}
				return
			}
			if !got.A.Equal(tc.want.A) || !slices.Equal(got.B, tc.want.B) || got.HasB != tc.want.HasB {
				t.Errorf("Unmarshal(% X) = %+v, want %+v", tc.data, got, tc.want)
			}
		})
	}
}

func TestDecoder_Truncated(t *testing.T) {
	data := []byte{0x30, 0x0E, 0x02, 0x01, 0x00, 0x30, 0x05, 0x06, 0x03, 0x2B, 0x65, 0x70, 0x04, 0x02, 0x04, 0x00}
	var oid ObjectIdentifier
	var key OctetString
	decode := func(b []byte) error {
		d := NewDecoder(b)
		err := d.Sequence(func(d *Decoder) error {
			var version Integer
			if err := d.Decode(&version); err != nil {
				return err
			}
			if err := d.Sequence(func(d *Decoder) error {
				return d.Decode(&oid)
			}); err != nil {
				return err
			}
			return d.Decode(&key)
		})
		if err != nil {
			return err
		}
		return d.Finish()
	}
	if err := decode(data); err != nil {
		t.Fatalf("decode(% X) error = %v, want nil", data, err)
	}
	for i := 1; i < len(data); i++ {
		if err := decode(data[:i]); err == nil {
			t.Errorf("decode(% X) error = nil, want error", data[:i])
		}
	}
}

func TestDecoder_Sticky(t *testing.T) {
	d := NewDecoder([]byte{0x01, 0x01, 0x01, 0x05, 0x00})
	var b Boolean
	err := d.Decode(&b)
	if !errors.Is(err, ErrNonCanonical) {
		t.Fatalf("Decode() error = %v, want %v", err, ErrNonCanonical)
	}
	var n Null
	if got := d.Decode(&n); got != err {
		t.Errorf("Decode() after error = %v, want %v", got, err)
	}
	if _, got := d.ReadByte(); got != err {
		t.Errorf("ReadByte() after error = %v, want %v", got, err)
	}
	if _, got := d.PeekTag(); got != err {
		t.Errorf("PeekTag() after error = %v, want %v", got, err)
	}
	if got := d.Finish(); got != err {
		t.Errorf("Finish() after error = %v, want %v", got, err)
	}
	if got := d.Err(); got != err {
		t.Errorf("Err() = %v, want %v", got, err)
	}
	if got := d.Bytes(); got != nil {
		t.Errorf("Bytes() after error = % X, want nil", got)
	}
}

func TestDecoder_ErrorOffset(t *testing.T) {
	// SEQUENCE { NULL, SEQUENCE { BOOLEAN 0x01 } }
	data := []byte{0x30, 0x07, 0x05, 0x00, 0x30, 0x03, 0x01, 0x01, 0x01}
	err := NewDecoder(data).Sequence(func(d *Decoder) error {
		if err := d.Decode(&Null{}); err != nil {
			return err
		}
		return d.Decode(&Sequence{new(Boolean)})
	})
	var e *Error
	if !errors.As(err, &e) {
		t.Fatalf("Sequence() error = %v, want *Error", err)
	}
	if e.Kind != ErrNonCanonical {
		t.Errorf("Sequence() error kind = %v, want %v", e.Kind, ErrNonCanonical)
	}
	if e.Offset != 8 {
		t.Errorf("Sequence() error offset = %d, want 8", e.Offset)
	}
	if want := Universal(TagBoolean); e.Tag != want {
		t.Errorf("Sequence() error tag = %v, want %v", e.Tag, want)
	}
}

func TestDecoder_Peek(t *testing.T) {
	data := []byte{0xA1, 0x03, 0x02, 0x01, 0x07}
	d := NewDecoder(data)
	h, err := d.PeekHeader()
	if err != nil {
		t.Fatalf("PeekHeader() error = %v", err)
	}
	if want := (Header{ContextSpecificTag(1, true), 3}); h != want {
		t.Errorf("PeekHeader() = %v, want %v", h, want)
	}
	if d.Remaining() != len(data) || d.InputOffset() != 0 {
		t.Errorf("PeekHeader() consumed input")
	}
	var i Integer
	err = d.Nested(ContextSpecificTag(1, true), func(d *Decoder) error {
		return d.Decode(&i)
	})
	if err != nil {
		t.Fatalf("Nested() error = %v", err)
	}
	if got, _ := i.Int64(); got != 7 {
		t.Errorf("Nested() decoded %d, want 7", got)
	}
	if !d.IsEmpty() || d.InputOffset() != int64(len(data)) {
		t.Errorf("Nested() did not consume input")
	}
	if _, err = d.PeekTag(); !errors.Is(err, ErrInsufficientData) {
		t.Errorf("PeekTag() at end error = %v, want %v", err, ErrInsufficientData)
	}
}

func TestDecoder_PeekLengthExceedsInput(t *testing.T) {
	d := NewDecoder([]byte{0x04, 0x05, 0x01})
	if _, err := d.PeekHeader(); !errors.Is(err, ErrInsufficientData) {
		t.Errorf("PeekHeader() error = %v, want %v", err, ErrInsufficientData)
	}
}

func TestDecoder_DecodeOptional(t *testing.T) {
	d := NewDecoder([]byte{0x05, 0x00})
	var b Boolean
	if ok, err := d.DecodeOptional(&b); ok || err != nil {
		t.Errorf("DecodeOptional(Boolean) = %v, %v, want false, nil", ok, err)
	}
	var n Null
	if ok, err := d.DecodeOptional(&n); !ok || err != nil {
		t.Errorf("DecodeOptional(Null) = %v, %v, want true, nil", ok, err)
	}
	if ok, err := d.DecodeOptional(&n); ok || err != nil {
		t.Errorf("DecodeOptional(Null) at end = %v, %v, want false, nil", ok, err)
	}
	if err := d.Finish(); err != nil {
		t.Errorf("Finish() error = %v", err)
	}
}

func TestDecoder_DecodeAny(t *testing.T) {
	data := []byte{0xC3, 0x02, 0xAB, 0xCD, 0x05, 0x00}
	d := NewDecoder(data)
	a, err := d.DecodeAny()
	if err != nil {
		t.Fatalf("DecodeAny() error = %v", err)
	}
	if want := (Tag{ClassPrivate, false, 3}); a.Tag() != want {
		t.Errorf("DecodeAny() tag = %v, want %v", a.Tag(), want)
	}
	if !slices.Equal(a.Bytes(), []byte{0xAB, 0xCD}) {
		t.Errorf("DecodeAny() value = % X, want AB CD", a.Bytes())
	}
	if cap(a.Bytes()) != 2 {
		t.Errorf("DecodeAny() value capacity = %d, want 2", cap(a.Bytes()))
	}
	if d.Remaining() != 2 {
		t.Errorf("Remaining() = %d, want 2", d.Remaining())
	}
}

func TestDecoder_Concurrent(t *testing.T) {
	data := []byte{0x30, 0x06, 0x02, 0x01, 0x05, 0x04, 0x01, 0xAA}
	var g errgroup.Group
	for range 16 {
		g.Go(func() error {
			for range 100 {
				var p pair
				if err := Unmarshal(data, &p); err != nil {
					return err
				}
				if v, _ := p.A.Int64(); v != 5 || !p.HasB {
					return errors.New("unexpected value")
				}
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		t.Errorf("concurrent Unmarshal() error = %v", err)
	}
}

func BenchmarkUnmarshal(b *testing.B) {
	data := []byte{0x30, 0x06, 0x02, 0x01, 0x05, 0x04, 0x01, 0xAA}
	var p pair
	for b.Loop() {
		_ = Unmarshal(data, &p)
	}
}
