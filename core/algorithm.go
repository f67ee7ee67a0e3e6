package core

import (
	"crypto"
	"crypto/elliptic"
	"fmt"

	"cloud.google.com/go/kms/apiv1/kmspb"
)

// SignScheme distinguishes the padding or signature scheme a key version
// speaks. It decides which mechanisms may be bound to the key.
type SignScheme int

const (
	SchemeRSAPKCS1 SignScheme = iota
	SchemeRSAPSS
	SchemeRSAOAEP
	SchemeECDSA
)

// Algorithm describes what a KMS key version algorithm means in terms the
// token can expose: the digest the service expects, the key size, and the
// curve for elliptic keys.
type Algorithm struct {
	Scheme SignScheme
	Hash   crypto.Hash
	Bits   int
	Curve  elliptic.Curve
}

// Signing reports whether key versions with this algorithm serve
// AsymmetricSign; the alternative is AsymmetricDecrypt.
func (a Algorithm) Signing() bool {
	return a.Scheme != SchemeRSAOAEP
}

// AlgorithmDetails maps a key version algorithm to its Algorithm
// description. Algorithms outside the supported asymmetric set, such as
// symmetric encryption or MAC keys, return an error and the version is
// skipped during token construction.
func AlgorithmDetails(alg kmspb.CryptoKeyVersion_CryptoKeyVersionAlgorithm) (Algorithm, error) {
	switch alg {
	case kmspb.CryptoKeyVersion_EC_SIGN_P256_SHA256:
		return Algorithm{Scheme: SchemeECDSA, Hash: crypto.SHA256, Bits: 256, Curve: elliptic.P256()}, nil
	case kmspb.CryptoKeyVersion_EC_SIGN_P384_SHA384:
		return Algorithm{Scheme: SchemeECDSA, Hash: crypto.SHA384, Bits: 384, Curve: elliptic.P384()}, nil
	case kmspb.CryptoKeyVersion_RSA_SIGN_PKCS1_2048_SHA256:
		return Algorithm{Scheme: SchemeRSAPKCS1, Hash: crypto.SHA256, Bits: 2048}, nil
	case kmspb.CryptoKeyVersion_RSA_SIGN_PKCS1_3072_SHA256:
		return Algorithm{Scheme: SchemeRSAPKCS1, Hash: crypto.SHA256, Bits: 3072}, nil
	case kmspb.CryptoKeyVersion_RSA_SIGN_PKCS1_4096_SHA256:
		return Algorithm{Scheme: SchemeRSAPKCS1, Hash: crypto.SHA256, Bits: 4096}, nil
	case kmspb.CryptoKeyVersion_RSA_SIGN_PKCS1_4096_SHA512:
		return Algorithm{Scheme: SchemeRSAPKCS1, Hash: crypto.SHA512, Bits: 4096}, nil
	case kmspb.CryptoKeyVersion_RSA_SIGN_PSS_2048_SHA256:
		return Algorithm{Scheme: SchemeRSAPSS, Hash: crypto.SHA256, Bits: 2048}, nil
	case kmspb.CryptoKeyVersion_RSA_SIGN_PSS_3072_SHA256:
		return Algorithm{Scheme: SchemeRSAPSS, Hash: crypto.SHA256, Bits: 3072}, nil
	case kmspb.CryptoKeyVersion_RSA_SIGN_PSS_4096_SHA256:
		return Algorithm{Scheme: SchemeRSAPSS, Hash: crypto.SHA256, Bits: 4096}, nil
	case kmspb.CryptoKeyVersion_RSA_SIGN_PSS_4096_SHA512:
		return Algorithm{Scheme: SchemeRSAPSS, Hash: crypto.SHA512, Bits: 4096}, nil
	case kmspb.CryptoKeyVersion_RSA_DECRYPT_OAEP_2048_SHA256:
		return Algorithm{Scheme: SchemeRSAOAEP, Hash: crypto.SHA256, Bits: 2048}, nil
	case kmspb.CryptoKeyVersion_RSA_DECRYPT_OAEP_3072_SHA256:
		return Algorithm{Scheme: SchemeRSAOAEP, Hash: crypto.SHA256, Bits: 3072}, nil
	case kmspb.CryptoKeyVersion_RSA_DECRYPT_OAEP_4096_SHA256:
		return Algorithm{Scheme: SchemeRSAOAEP, Hash: crypto.SHA256, Bits: 4096}, nil
	case kmspb.CryptoKeyVersion_RSA_DECRYPT_OAEP_4096_SHA512:
		return Algorithm{Scheme: SchemeRSAOAEP, Hash: crypto.SHA512, Bits: 4096}, nil
	default:
		return Algorithm{}, fmt.Errorf("unsupported key version algorithm %s", alg)
	}
}
