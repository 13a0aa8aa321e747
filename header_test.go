// Copyright 2025 Kim Wittenburg. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package der

import (
	"errors"
	"slices"
	"testing"
)

func TestHeader_Append(t *testing.T) {
	tests := map[string]struct {
		Header
		want []byte
	}{
		"Integer":      {Header{Universal(TagInteger), 1}, []byte{0x02, 0x01}},
		"UTF8String":   {Header{Universal(TagUTF8String), 5}, []byte{0x0C, 0x05}},
		"LongTag":      {Header{ContextSpecificTag(173, true), 8}, []byte{0xBF, 0x81, 0x2D, 0x08}},
		"Tag31":        {Header{Tag{ClassApplication, false, 31}, 0}, []byte{0x5F, 0x1F, 0x00}},
		"Sequence":     {Header{Tag{ClassUniversal, true, TagSequence}, 60}, []byte{0x30, 60}},
		"LongSequence": {Header{Tag{ClassUniversal, true, TagSequence}, 746}, []byte{0x30, 0x82, 0x02, 0xEA}},
		"Private":      {Header{Tag{ClassPrivate, false, 0}, 0}, []byte{0xC0, 0x00}},
	}
	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			if got := tc.Header.EncodedLen(); got != len(tc.want) {
				t.Errorf("EncodedLen() = %v, want %v", got, len(tc.want))
			}
			got, err := tc.Header.Append(nil)
			if err != nil {
				t.Fatalf("Append() error = %v, want nil", err)
			}
			if !slices.Equal(got, tc.want) {
				t.Errorf("Append() = % X, want % X", got, tc.want)
			}
			h, n, err := DecodeHeader(got)
			if err != nil {
				t.Fatalf("DecodeHeader(% X) error = %v, want nil", got, err)
			}
			if h != tc.Header || n != len(got) {
				t.Errorf("DecodeHeader(% X) = %v, %d, want %v, %d", got, h, n, tc.Header, len(got))
			}
		})
	}
}

func TestHeader_AppendInvalid(t *testing.T) {
	tests := map[string]struct {
		Header
		wantErr error
	}{
		"EndOfContents":  {Header{Tag{}, 0}, ErrInvalidTag},
		"ConstructedEOC": {Header{Tag{Constructed: true}, 0}, ErrInvalidTag},
		"InvalidClass":   {Header{Tag{Class: 4, Number: 1}, 0}, ErrInvalidTag},
		"NegativeLength": {Header{Universal(TagNull), -1}, ErrInvalidValue},
	}
	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			got, err := tc.Header.Append(nil)
			if !errors.Is(err, tc.wantErr) {
				t.Errorf("Append() error = %v, want %v", err, tc.wantErr)
			}
			if len(got) != 0 {
				t.Errorf("Append() = % X, want nothing", got)
			}
		})
	}
}

func TestDecodeHeader(t *testing.T) {
	tests := map[string]struct {
		data    []byte
		want    Header
		n       int
		wantErr error
	}{
		"Boolean":         {[]byte{0x01, 0x01, 0xFF}, Header{Universal(TagBoolean), 1}, 2, nil},
		"Constructed":     {[]byte{0xA0, 0x03}, Header{ContextSpecificTag(0, true), 3}, 2, nil},
		"HighTag":         {[]byte{0x9F, 0x87, 0x68, 0x00}, Header{ContextSpecificTag(1000, false), 0}, 4, nil},
		"MaxTag":          {[]byte{0x1F, 0x8F, 0xFF, 0xFF, 0xFF, 0x7F, 0x00}, Header{Universal(1<<32 - 1), 0}, 7, nil},
		"Empty":           {nil, Header{}, 0, ErrInsufficientData},
		"MissingLength":   {[]byte{0x04}, Header{}, 0, ErrInsufficientData},
		"EndOfContents":   {[]byte{0x00, 0x00}, Header{}, 0, ErrInvalidTag},
		"ConstructedEOC":  {[]byte{0x20, 0x00}, Header{}, 0, ErrInvalidTag},
		"TruncatedTag":    {[]byte{0x1F, 0x81}, Header{}, 0, ErrInsufficientData},
		"LongFormSmall":   {[]byte{0x1F, 0x05, 0x00}, Header{}, 0, ErrInvalidTag},
		"NonMinimalTag":   {[]byte{0x1F, 0x80, 0x21, 0x00}, Header{}, 0, ErrInvalidTag},
		"TagOverflow":     {[]byte{0x1F, 0x90, 0x80, 0x80, 0x80, 0x00, 0x00}, Header{}, 0, ErrInvalidTag},
		"Indefinite":      {[]byte{0x30, 0x80}, Header{}, 0, ErrNonCanonical},
		"NonMinimalShort": {[]byte{0x04, 0x81, 0x05}, Header{}, 0, ErrNonCanonical},
	}
	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			got, n, err := DecodeHeader(tc.data)
			if !errors.Is(err, tc.wantErr) {
				t.Fatalf("DecodeHeader(% X) error = %v, wantErr %v", tc.data, err, tc.wantErr)
			}
			if err != nil {
				return
			}
			if got != tc.want {
				t.Errorf("DecodeHeader(% X) = %v, want %v", tc.data, got, tc.want)
			}
			if n != tc.n {
				t.Errorf("DecodeHeader(% X) n = %d, want %d", tc.data, n, tc.n)
			}
		})
	}
}

func TestDecodeHeader_ErrorOffset(t *testing.T) {
	// long-form length below 128 after a three byte tag
	data := []byte{0x9F, 0x87, 0x68, 0x81, 0x05}
	_, _, err := DecodeHeader(data)
	var e *Error
	if !errors.As(err, &e) {
		t.Fatalf("DecodeHeader(% X) error = %v, want *Error", data, err)
	}
	if e.Offset != 3 {
		t.Errorf("DecodeHeader(% X) error offset = %d, want 3", data, e.Offset)
	}
	if want := ContextSpecificTag(1000, false); e.Tag != want {
		t.Errorf("DecodeHeader(% X) error tag = %v, want %v", data, e.Tag, want)
	}
}

func TestHeader_String(t *testing.T) {
	tests := map[string]struct {
		Header
		want string
	}{
		"Primitive":   {Header{Universal(TagOctetString), 12}, "[UNIVERSAL 4]/p:12"},
		"Constructed": {Header{ContextSpecificTag(3, true), 2}, "[3]/c:2"},
	}
	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			if got := tc.Header.String(); got != tc.want {
				t.Errorf("String() = %q, want %q", got, tc.want)
			}
		})
	}
}
