package objects

import (
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rsa"
	"crypto/sha1"
	"crypto/x509"
	"encoding/asn1"
	"fmt"

	"cloud.google.com/go/kms/apiv1/kmspb"

	"github.com/niclabs/kmsp11/core"
	"github.com/niclabs/kmsp11/criptoki"
)

type CryptoObjectKind int

const (
	PrivateKeyObject CryptoObjectKind = iota
	PublicKeyObject
	CertificateObject
)

// A cryptoObject installed on a token. Key holds the remote key version
// backing the object; certificate objects leave it nil. Objects are
// immutable once installed.
type CryptoObject struct {
	Handle     criptoki.ObjectHandle
	Kind       CryptoObjectKind
	Attributes Attributes
	Key        *KeyInfo
}

// A map of cryptoObjects.
type CryptoObjects map[criptoki.ObjectHandle]*CryptoObject

// KeyInfo ties an object to the key version that serves its operations.
type KeyInfo struct {
	VersionName string
	Algorithm   core.Algorithm
}

// NewKeyObjects builds the objects one key entry contributes to a
// token: the private key, its public counterpart, and the certificate when
// the entry carries one. Handles are drawn from nextHandle in that order.
func NewKeyObjects(entry core.KeyEntry, nextHandle func() criptoki.ObjectHandle) ([]*CryptoObject, error) {
	label := core.CryptoKeyID(entry.Version.Name)
	id := objectID(entry.Version.Name)
	keyInfo := &KeyInfo{VersionName: entry.Version.Name, Algorithm: entry.Algorithm}

	private, err := newPrivateKeyObject(nextHandle(), label, id, entry, keyInfo)
	if err != nil {
		return nil, err
	}
	public, err := newPublicKeyObject(nextHandle(), label, id, entry, keyInfo)
	if err != nil {
		return nil, err
	}
	result := []*CryptoObject{private, public}
	if entry.Certificate != nil {
		cert, err := newCertificateObject(nextHandle(), label, id, entry.Certificate)
		if err != nil {
			return nil, err
		}
		result = append(result, cert)
	}
	return result, nil
}

func newPrivateKeyObject(handle criptoki.ObjectHandle, label string, id []byte, entry core.KeyEntry, key *KeyInfo) (*CryptoObject, error) {
	signs := entry.Purpose == kmspb.CryptoKey_ASYMMETRIC_SIGN
	decrypts := entry.Purpose == kmspb.CryptoKey_ASYMMETRIC_DECRYPT

	attrs := make(Attributes)
	attrs.Add(
		NewULongAttribute(criptoki.CKA_CLASS, criptoki.ULong(criptoki.CKO_PRIVATE_KEY)),
		NewBoolAttribute(criptoki.CKA_TOKEN, true),
		NewBoolAttribute(criptoki.CKA_PRIVATE, true),
		NewStringAttribute(criptoki.CKA_LABEL, label),
		NewBytesAttribute(criptoki.CKA_ID, id),
		NewBoolAttribute(criptoki.CKA_SIGN, signs),
		NewBoolAttribute(criptoki.CKA_DECRYPT, decrypts),
		NewBoolAttribute(criptoki.CKA_SENSITIVE, true),
		NewBoolAttribute(criptoki.CKA_EXTRACTABLE, false),
		NewBoolAttribute(criptoki.CKA_ALWAYS_SENSITIVE, true),
		NewBoolAttribute(criptoki.CKA_NEVER_EXTRACTABLE, true),
		NewBoolAttribute(criptoki.CKA_MODIFIABLE, false),
		NewBytesAttribute(criptoki.CKA_PUBLIC_KEY_INFO, entry.PublicKeyInfo),
		NewSensitiveAttribute(criptoki.CKA_VALUE),
	)
	if err := addKeyMaterial(attrs, entry, false); err != nil {
		return nil, err
	}
	return &CryptoObject{Handle: handle, Kind: PrivateKeyObject, Attributes: attrs, Key: key}, nil
}

func newPublicKeyObject(handle criptoki.ObjectHandle, label string, id []byte, entry core.KeyEntry, key *KeyInfo) (*CryptoObject, error) {
	signs := entry.Purpose == kmspb.CryptoKey_ASYMMETRIC_SIGN
	decrypts := entry.Purpose == kmspb.CryptoKey_ASYMMETRIC_DECRYPT

	attrs := make(Attributes)
	attrs.Add(
		NewULongAttribute(criptoki.CKA_CLASS, criptoki.ULong(criptoki.CKO_PUBLIC_KEY)),
		NewBoolAttribute(criptoki.CKA_TOKEN, true),
		NewBoolAttribute(criptoki.CKA_PRIVATE, false),
		NewStringAttribute(criptoki.CKA_LABEL, label),
		NewBytesAttribute(criptoki.CKA_ID, id),
		NewBoolAttribute(criptoki.CKA_VERIFY, signs),
		NewBoolAttribute(criptoki.CKA_ENCRYPT, decrypts),
		NewBoolAttribute(criptoki.CKA_MODIFIABLE, false),
		NewBytesAttribute(criptoki.CKA_PUBLIC_KEY_INFO, entry.PublicKeyInfo),
	)
	if err := addKeyMaterial(attrs, entry, true); err != nil {
		return nil, err
	}
	return &CryptoObject{Handle: handle, Kind: PublicKeyObject, Attributes: attrs, Key: key}, nil
}

func newCertificateObject(handle criptoki.ObjectHandle, label string, id []byte, der []byte) (*CryptoObject, error) {
	cert, err := x509.ParseCertificate(der)
	if err != nil {
		return nil, NewError("newCertificateObject", fmt.Sprintf("cannot parse certificate: %v", err), criptoki.CKR_DEVICE_ERROR)
	}
	attrs := make(Attributes)
	attrs.Add(
		NewULongAttribute(criptoki.CKA_CLASS, criptoki.ULong(criptoki.CKO_CERTIFICATE)),
		NewULongAttribute(criptoki.CKA_CERTIFICATE_TYPE, criptoki.ULong(criptoki.CKC_X_509)),
		NewBoolAttribute(criptoki.CKA_TOKEN, true),
		NewBoolAttribute(criptoki.CKA_PRIVATE, false),
		NewStringAttribute(criptoki.CKA_LABEL, label),
		NewBytesAttribute(criptoki.CKA_ID, id),
		NewBytesAttribute(criptoki.CKA_VALUE, der),
		NewBytesAttribute(criptoki.CKA_SUBJECT, cert.RawSubject),
		NewBytesAttribute(criptoki.CKA_ISSUER, cert.RawIssuer),
		NewBytesAttribute(criptoki.CKA_SERIAL_NUMBER, cert.SerialNumber.Bytes()),
		NewBoolAttribute(criptoki.CKA_MODIFIABLE, false),
	)
	return &CryptoObject{Handle: handle, Kind: CertificateObject, Attributes: attrs}, nil
}

// addKeyMaterial installs the public key material attributes shared by the
// private object (as public shadows) and the public object. CKA_EC_POINT is
// defined only on public key objects, so the private object leaves it
// absent.
func addKeyMaterial(attrs Attributes, entry core.KeyEntry, isPublic bool) error {
	switch publicKey := entry.PublicKey.(type) {
	case *ecdsa.PublicKey:
		params, err := ecParams(publicKey.Curve)
		if err != nil {
			return err
		}
		attrs.Add(
			NewULongAttribute(criptoki.CKA_KEY_TYPE, criptoki.ULong(criptoki.CKK_EC)),
			NewBytesAttribute(criptoki.CKA_EC_PARAMS, params),
		)
		if isPublic {
			point, err := ecPoint(publicKey)
			if err != nil {
				return err
			}
			attrs.Add(NewBytesAttribute(criptoki.CKA_EC_POINT, point))
		}
	case *rsa.PublicKey:
		attrs.Add(
			NewULongAttribute(criptoki.CKA_KEY_TYPE, criptoki.ULong(criptoki.CKK_RSA)),
			NewBytesAttribute(criptoki.CKA_MODULUS, publicKey.N.Bytes()),
			NewULongAttribute(criptoki.CKA_MODULUS_BITS, criptoki.ULong(publicKey.N.BitLen())),
			NewBytesAttribute(criptoki.CKA_PUBLIC_EXPONENT, bigEndianExponent(publicKey.E)),
		)
	default:
		return NewError("addKeyMaterial",
			fmt.Sprintf("unsupported public key type %T for %q", entry.PublicKey, entry.Version.Name),
			criptoki.CKR_DEVICE_ERROR)
	}
	return nil
}

var (
	oidNamedCurveP256 = asn1.ObjectIdentifier{1, 2, 840, 10045, 3, 1, 7}
	oidNamedCurveP384 = asn1.ObjectIdentifier{1, 3, 132, 0, 34}
)

// ecParams is the DER encoding of the named curve OID, the form CKA_EC_PARAMS
// mandates for curves the token supports.
func ecParams(curve elliptic.Curve) ([]byte, error) {
	switch curve {
	case elliptic.P256():
		return asn1.Marshal(oidNamedCurveP256)
	case elliptic.P384():
		return asn1.Marshal(oidNamedCurveP384)
	default:
		return nil, NewError("ecParams", fmt.Sprintf("unsupported curve %s", curve.Params().Name), criptoki.CKR_DEVICE_ERROR)
	}
}

// ecPoint is the uncompressed EC point wrapped in a DER OCTET STRING, the
// CKA_EC_POINT encoding.
func ecPoint(publicKey *ecdsa.PublicKey) ([]byte, error) {
	point := elliptic.Marshal(publicKey.Curve, publicKey.X, publicKey.Y)
	return asn1.Marshal(point)
}

func bigEndianExponent(e int) []byte {
	buf := []byte{byte(e >> 24), byte(e >> 16), byte(e >> 8), byte(e)}
	for len(buf) > 1 && buf[0] == 0 {
		buf = buf[1:]
	}
	return buf
}

// objectID is the stable CKA_ID every object derived from one key version
// shares, so callers can pair certificates with their keys.
func objectID(versionName string) []byte {
	sum := sha1.Sum([]byte(versionName))
	return sum[:]
}

// GetAttributeValue fills the template in place, one entry at a time. Every
// entry is processed even after a failure; the error returned is the first
// failing entry's.
func (object *CryptoObject) GetAttributeValue(template []criptoki.Attribute) error {
	var firstErr error
	for i := range template {
		if err := object.getAttribute(&template[i]); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

func (object *CryptoObject) getAttribute(entry *criptoki.Attribute) error {
	attribute, ok := object.Attributes[entry.Type]
	if !ok {
		entry.Len = criptoki.CK_UNAVAILABLE_INFORMATION
		return NewError("CryptoObject.GetAttributeValue",
			fmt.Sprintf("attribute 0x%x not present on object %d", entry.Type, object.Handle),
			criptoki.CKR_ATTRIBUTE_TYPE_INVALID)
	}
	if attribute.Sensitive {
		entry.Len = criptoki.CK_UNAVAILABLE_INFORMATION
		return NewError("CryptoObject.GetAttributeValue",
			fmt.Sprintf("attribute 0x%x on object %d is sensitive", entry.Type, object.Handle),
			criptoki.CKR_ATTRIBUTE_SENSITIVE)
	}
	size := criptoki.ULong(len(attribute.Value))
	if entry.Value == nil {
		entry.Len = size
		return nil
	}
	if criptoki.ULong(len(entry.Value)) < size {
		// No copy, but the caller learns the exact length it needs.
		entry.Len = size
		return NewError("CryptoObject.GetAttributeValue",
			fmt.Sprintf("buffer for attribute 0x%x holds %d bytes, need %d", entry.Type, len(entry.Value), size),
			criptoki.CKR_BUFFER_TOO_SMALL)
	}
	copy(entry.Value, attribute.Value)
	entry.Len = size
	return nil
}

// Match reports whether the object satisfies every template entry.
func (object *CryptoObject) Match(template []criptoki.Attribute) bool {
	return object.Attributes.Match(template)
}

// Equals returns true if the cryptoObjects are equal.
func (object *CryptoObject) Equals(object2 *CryptoObject) bool {
	return object.Handle == object2.Handle &&
		object.Attributes.Equals(object2.Attributes)
}
