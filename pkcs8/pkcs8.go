// Copyright 2025 Kim Wittenburg. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package pkcs8 implements the private key containers of PKCS #8 as specified
// in [RFC 5208] on top of the der package.
//
// The types of this package implement [der.Value] and [der.Decodable] and can
// be embedded in other structures. Values returned by [ParsePrivateKeyInfo]
// and [ParseEncryptedPrivateKeyInfo] share memory with the input. Use the
// Owned variants or Clone to obtain independent copies.
//
// This package does not perform any cryptographic operations. Encrypted keys
// are neither decrypted nor encrypted and private keys are not interpreted.
//
// [RFC 5208]: https://www.rfc-editor.org/rfc/rfc5208
package pkcs8

import (
	"bytes"
	"errors"

	"github.com/sirupsen/logrus"

	"codello.dev/der"
)

// Version is the only supported version of a [PrivateKeyInfo].
const Version = 0

var (
	tagSequence   = der.Sequence{}.Tag()
	tagAttributes = der.ContextSpecificTag(0, true)
)

//region AlgorithmIdentifier

// AlgorithmIdentifier identifies an algorithm and its parameters:
//
//	AlgorithmIdentifier ::= SEQUENCE {
//	    algorithm   OBJECT IDENTIFIER,
//	    parameters  ANY DEFINED BY algorithm OPTIONAL }
type AlgorithmIdentifier struct {
	Algorithm der.ObjectIdentifier

	// Parameters are the raw parameters, nil if absent.
	Parameters *der.Any
}

// ParametersOID decodes the parameters of a as an object identifier, as used
// by id-ecPublicKey to identify a named curve.
func (a AlgorithmIdentifier) ParametersOID() (der.ObjectIdentifier, error) {
	if a.Parameters == nil {
		return der.ObjectIdentifier{}, &der.Error{Kind: der.ErrInvalidValue, Tag: tagSequence, Err: errors.New("missing parameters")}
	}
	var oid der.ObjectIdentifier
	if err := a.Parameters.Decode(&oid); err != nil {
		return der.ObjectIdentifier{}, err
	}
	return oid, nil
}

// IsNullParameters reports whether the parameters of a are present and NULL.
func (a AlgorithmIdentifier) IsNullParameters() bool {
	return a.Parameters != nil && a.Parameters.Tag() == der.Universal(der.TagNull) && len(a.Parameters.Bytes()) == 0
}

// Clone returns a deep copy of a.
func (a AlgorithmIdentifier) Clone() AlgorithmIdentifier {
	c := AlgorithmIdentifier{Algorithm: a.Algorithm.Clone()}
	if a.Parameters != nil {
		p := a.Parameters.Clone()
		c.Parameters = &p
	}
	return c
}

func (a AlgorithmIdentifier) sequence() der.Sequence {
	if a.Parameters == nil {
		return der.Sequence{a.Algorithm}
	}
	return der.Sequence{a.Algorithm, *a.Parameters}
}

func (AlgorithmIdentifier) Tag() der.Tag { return tagSequence }

func (a AlgorithmIdentifier) ValueLen() (int, error) {
	return a.sequence().ValueLen()
}

func (a AlgorithmIdentifier) EncodeValue(e *der.Encoder) error {
	return a.sequence().EncodeValue(e)
}

func (a *AlgorithmIdentifier) DecodeValue(d *der.Decoder, _ der.Header) error {
	var v AlgorithmIdentifier
	if err := d.Decode(&v.Algorithm); err != nil {
		return err
	}
	if !d.IsEmpty() {
		params, err := d.DecodeAny()
		if err != nil {
			return err
		}
		v.Parameters = &params
	}
	if err := d.Finish(); err != nil {
		return err
	}
	*a = v
	return nil
}

//endregion

//region PrivateKeyInfo

// PrivateKeyInfo holds an unencrypted private key:
//
//	PrivateKeyInfo ::= SEQUENCE {
//	    version                   Version,
//	    privateKeyAlgorithm       PrivateKeyAlgorithmIdentifier,
//	    privateKey                PrivateKey,
//	    attributes           [0]  IMPLICIT Attributes OPTIONAL }
//
// Only version 0 is supported. Decoding or encoding any other version fails
// with [der.ErrInvalidValue].
type PrivateKeyInfo struct {
	Version             int
	PrivateKeyAlgorithm AlgorithmIdentifier

	// PrivateKey holds the encoding of the private key. Its format depends on
	// PrivateKeyAlgorithm.
	PrivateKey der.OctetString

	// Attributes holds the raw [0] IMPLICIT SET OF Attribute, nil if absent.
	// Its tag is always [0] constructed.
	Attributes *der.Any
}

// ParsePrivateKeyInfo parses a DER-encoded [PrivateKeyInfo]. The result shares
// memory with b.
func ParsePrivateKeyInfo(b []byte) (*PrivateKeyInfo, error) {
	p := new(PrivateKeyInfo)
	if err := der.Unmarshal(b, p); err != nil {
		if debugEnabled() {
			logFields("ParsePrivateKeyInfo", logrus.Fields{"size": len(b), "error": err}).Debug("Failed to parse private key info")
		}
		return nil, err
	}
	if debugEnabled() {
		logFields("ParsePrivateKeyInfo", logrus.Fields{
			"algorithm":  algorithmName(p.PrivateKeyAlgorithm.Algorithm),
			"size":       len(b),
			"attributes": p.Attributes != nil,
		}).Debug("Parsed private key info")
	}
	return p, nil
}

// ParsePrivateKeyInfoOwned is like [ParsePrivateKeyInfo] but copies b first.
// The result does not share memory with b.
func ParsePrivateKeyInfoOwned(b []byte) (*PrivateKeyInfo, error) {
	return ParsePrivateKeyInfo(bytes.Clone(b))
}

// Marshal returns the DER encoding of p.
func (p *PrivateKeyInfo) Marshal() ([]byte, error) {
	b, err := der.Marshal(p)
	if err != nil {
		if debugEnabled() {
			logFields("PrivateKeyInfo.Marshal", logrus.Fields{"error": err}).Debug("Failed to marshal private key info")
		}
		return nil, err
	}
	if debugEnabled() {
		logFields("PrivateKeyInfo.Marshal", logrus.Fields{
			"algorithm": algorithmName(p.PrivateKeyAlgorithm.Algorithm),
			"size":      len(b),
		}).Debug("Marshaled private key info")
	}
	return b, nil
}

// Clone returns a deep copy of p.
func (p *PrivateKeyInfo) Clone() *PrivateKeyInfo {
	c := &PrivateKeyInfo{
		Version:             p.Version,
		PrivateKeyAlgorithm: p.PrivateKeyAlgorithm.Clone(),
		PrivateKey:          bytes.Clone(p.PrivateKey),
	}
	if p.Attributes != nil {
		attrs := p.Attributes.Clone()
		c.Attributes = &attrs
	}
	return c
}

func (p PrivateKeyInfo) sequence() (der.Sequence, error) {
	if p.Version != Version {
		return nil, &der.Error{Kind: der.ErrInvalidValue, Tag: der.Universal(der.TagInteger), Err: errUnsupportedVersion}
	}
	s := der.Sequence{der.IntegerFrom(p.Version), p.PrivateKeyAlgorithm, p.PrivateKey}
	if p.Attributes != nil {
		if p.Attributes.Tag() != tagAttributes {
			return nil, &der.Error{Kind: der.ErrInvalidTag, Tag: p.Attributes.Tag(), Err: errors.New("attributes must be tagged [0]")}
		}
		s = append(s, *p.Attributes)
	}
	return s, nil
}

var errUnsupportedVersion = errors.New("unsupported version")

func (PrivateKeyInfo) Tag() der.Tag { return tagSequence }

func (p PrivateKeyInfo) ValueLen() (int, error) {
	s, err := p.sequence()
	if err != nil {
		return 0, err
	}
	return s.ValueLen()
}

func (p PrivateKeyInfo) EncodeValue(e *der.Encoder) error {
	s, err := p.sequence()
	if err != nil {
		return err
	}
	return s.EncodeValue(e)
}

func (p *PrivateKeyInfo) DecodeValue(d *der.Decoder, _ der.Header) error {
	var (
		v       PrivateKeyInfo
		version der.Integer
	)
	offset := d.InputOffset()
	if err := d.Decode(&version); err != nil {
		return err
	}
	if version.Sign() != 0 {
		return &der.Error{Kind: der.ErrInvalidValue, Tag: der.Universal(der.TagInteger), Offset: offset, Err: errUnsupportedVersion}
	}
	if err := d.Decode(&v.PrivateKeyAlgorithm); err != nil {
		return err
	}
	if err := d.Decode(&v.PrivateKey); err != nil {
		return err
	}
	attrs, _ := der.NewAny(tagAttributes, nil)
	if ok, err := d.DecodeOptional(&attrs); err != nil {
		return err
	} else if ok {
		v.Attributes = &attrs
	}
	if err := d.Finish(); err != nil {
		return err
	}
	*p = v
	return nil
}

//endregion

//region EncryptedPrivateKeyInfo

// EncryptedPrivateKeyInfo holds an encrypted [PrivateKeyInfo]:
//
//	EncryptedPrivateKeyInfo ::= SEQUENCE {
//	    encryptionAlgorithm  EncryptionAlgorithmIdentifier,
//	    encryptedData        EncryptedData }
type EncryptedPrivateKeyInfo struct {
	EncryptionAlgorithm AlgorithmIdentifier
	EncryptedData       der.OctetString
}

// ParseEncryptedPrivateKeyInfo parses a DER-encoded [EncryptedPrivateKeyInfo].
// The result shares memory with b.
func ParseEncryptedPrivateKeyInfo(b []byte) (*EncryptedPrivateKeyInfo, error) {
	p := new(EncryptedPrivateKeyInfo)
	if err := der.Unmarshal(b, p); err != nil {
		if debugEnabled() {
			logFields("ParseEncryptedPrivateKeyInfo", logrus.Fields{"size": len(b), "error": err}).Debug("Failed to parse encrypted private key info")
		}
		return nil, err
	}
	if debugEnabled() {
		logFields("ParseEncryptedPrivateKeyInfo", logrus.Fields{
			"algorithm": algorithmName(p.EncryptionAlgorithm.Algorithm),
			"size":      len(b),
		}).Debug("Parsed encrypted private key info")
	}
	return p, nil
}

// ParseEncryptedPrivateKeyInfoOwned is like [ParseEncryptedPrivateKeyInfo] but
// copies b first.
func ParseEncryptedPrivateKeyInfoOwned(b []byte) (*EncryptedPrivateKeyInfo, error) {
	return ParseEncryptedPrivateKeyInfo(bytes.Clone(b))
}

// Marshal returns the DER encoding of p.
func (p *EncryptedPrivateKeyInfo) Marshal() ([]byte, error) {
	b, err := der.Marshal(p)
	if err != nil {
		if debugEnabled() {
			logFields("EncryptedPrivateKeyInfo.Marshal", logrus.Fields{"error": err}).Debug("Failed to marshal encrypted private key info")
		}
		return nil, err
	}
	if debugEnabled() {
		logFields("EncryptedPrivateKeyInfo.Marshal", logrus.Fields{
			"algorithm": algorithmName(p.EncryptionAlgorithm.Algorithm),
			"size":      len(b),
		}).Debug("Marshaled encrypted private key info")
	}
	return b, nil
}

// Clone returns a deep copy of p.
func (p *EncryptedPrivateKeyInfo) Clone() *EncryptedPrivateKeyInfo {
	return &EncryptedPrivateKeyInfo{
		EncryptionAlgorithm: p.EncryptionAlgorithm.Clone(),
		EncryptedData:       bytes.Clone(p.EncryptedData),
	}
}

func (p EncryptedPrivateKeyInfo) sequence() der.Sequence {
	return der.Sequence{p.EncryptionAlgorithm, p.EncryptedData}
}

func (EncryptedPrivateKeyInfo) Tag() der.Tag { return tagSequence }

func (p EncryptedPrivateKeyInfo) ValueLen() (int, error) {
	return p.sequence().ValueLen()
}

func (p EncryptedPrivateKeyInfo) EncodeValue(e *der.Encoder) error {
	return p.sequence().EncodeValue(e)
}

func (p *EncryptedPrivateKeyInfo) DecodeValue(d *der.Decoder, _ der.Header) error {
	var v EncryptedPrivateKeyInfo
	if err := d.Decode(&v.EncryptionAlgorithm); err != nil {
		return err
	}
	if err := d.Decode(&v.EncryptedData); err != nil {
		return err
	}
	if err := d.Finish(); err != nil {
		return err
	}
	*p = v
	return nil
}

//endregion
