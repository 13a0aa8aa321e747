// Copyright 2025 Kim Wittenburg. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package pkcs8

import "codello.dev/der"

// PEM block types for the containers of this package, as used in the
// -----BEGIN ...----- line of a PEM encoding. See RFC 7468.
const (
	PEMType          = "PRIVATE KEY"
	PEMTypeEncrypted = "ENCRYPTED PRIVATE KEY"
)

// Well-known algorithm identifiers.
var (
	OIDRSAEncryption = der.MustObjectIdentifier("1.2.840.113549.1.1.1")  // RFC 8017
	OIDECPublicKey   = der.MustObjectIdentifier("1.2.840.10045.2.1")     // RFC 5480
	OIDEd25519       = der.MustObjectIdentifier("1.3.101.112")           // RFC 8410
	OIDX25519        = der.MustObjectIdentifier("1.3.101.110")           // RFC 8410
	OIDEd448         = der.MustObjectIdentifier("1.3.101.113")           // RFC 8410
	OIDX448          = der.MustObjectIdentifier("1.3.101.111")           // RFC 8410
	OIDPBES2         = der.MustObjectIdentifier("1.2.840.113549.1.5.13") // RFC 8018
)

// Named curves used as parameters of [OIDECPublicKey].
var (
	OIDNamedCurveP256 = der.MustObjectIdentifier("1.2.840.10045.3.1.7")
	OIDNamedCurveP384 = der.MustObjectIdentifier("1.3.132.0.34")
)

var algorithmNames = map[string]string{
	string(OIDRSAEncryption.Bytes()): "rsaEncryption",
	string(OIDECPublicKey.Bytes()):   "id-ecPublicKey",
	string(OIDEd25519.Bytes()):       "Ed25519",
	string(OIDX25519.Bytes()):        "X25519",
	string(OIDEd448.Bytes()):         "Ed448",
	string(OIDX448.Bytes()):          "X448",
	string(OIDPBES2.Bytes()):         "PBES2",
}

// algorithmName returns a human-readable name of oid for diagnostics.
func algorithmName(oid der.ObjectIdentifier) string {
	if name, ok := algorithmNames[string(oid.Bytes())]; ok {
		return name
	}
	return oid.String()
}
