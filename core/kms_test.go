package core

import (
	"context"
	"crypto"
	"crypto/ecdsa"
	"crypto/rsa"
	"crypto/sha256"
	"crypto/x509"
	"testing"

	"cloud.google.com/go/kms/apiv1/kmspb"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

const testKeyRing = "projects/test/locations/us-central1/keyRings/kr1"

func TestLoadKeyRing(t *testing.T) {
	mock := NewMockKMSClient()
	_, err := mock.AddAsymmetricKey(testKeyRing, "ec", kmspb.CryptoKeyVersion_EC_SIGN_P256_SHA256)
	require.NoError(t, err)
	_, err = mock.AddAsymmetricKey(testKeyRing, "rsa", kmspb.CryptoKeyVersion_RSA_DECRYPT_OAEP_2048_SHA256)
	require.NoError(t, err)

	entries, err := LoadKeyRing(context.Background(), mock, testKeyRing, false)
	require.NoError(t, err)
	require.Len(t, entries, 2)

	ec := entries[0]
	require.Equal(t, kmspb.CryptoKey_ASYMMETRIC_SIGN, ec.Purpose)
	require.Equal(t, SchemeECDSA, ec.Algorithm.Scheme)
	require.IsType(t, &ecdsa.PublicKey{}, ec.PublicKey)
	require.NotEmpty(t, ec.PublicKeyInfo)
	require.Nil(t, ec.Certificate)

	// The SPKI bytes round-trip through the parsed key.
	parsed, err := x509.ParsePKIXPublicKey(ec.PublicKeyInfo)
	require.NoError(t, err)
	require.True(t, parsed.(*ecdsa.PublicKey).Equal(ec.PublicKey))

	rsaEntry := entries[1]
	require.Equal(t, kmspb.CryptoKey_ASYMMETRIC_DECRYPT, rsaEntry.Purpose)
	require.Equal(t, SchemeRSAOAEP, rsaEntry.Algorithm.Scheme)
	require.IsType(t, &rsa.PublicKey{}, rsaEntry.PublicKey)
}

func TestLoadKeyRingEmpty(t *testing.T) {
	mock := NewMockKMSClient()
	entries, err := LoadKeyRing(context.Background(), mock, testKeyRing, false)
	require.NoError(t, err)
	require.Empty(t, entries)
}

func TestLoadKeyRingSkipsDisabledVersions(t *testing.T) {
	mock := NewMockKMSClient()
	version, err := mock.AddAsymmetricKey(testKeyRing, "ec", kmspb.CryptoKeyVersion_EC_SIGN_P256_SHA256)
	require.NoError(t, err)
	version.State = kmspb.CryptoKeyVersion_DISABLED

	entries, err := LoadKeyRing(context.Background(), mock, testKeyRing, false)
	require.NoError(t, err)
	require.Empty(t, entries)
}

func TestLoadKeyRingPropagatesRemoteFailure(t *testing.T) {
	mock := NewMockKMSClient()
	mock.ListCryptoKeysFunc = func(ctx context.Context, req *kmspb.ListCryptoKeysRequest) ([]*kmspb.CryptoKey, error) {
		return nil, status.Error(codes.PermissionDenied, "nope")
	}
	_, err := LoadKeyRing(context.Background(), mock, testKeyRing, false)
	require.Error(t, err)
	require.Equal(t, codes.PermissionDenied, status.Code(err))
}

func TestLoadKeyRingRejectsCorruptPublicKey(t *testing.T) {
	mock := NewMockKMSClient()
	_, err := mock.AddAsymmetricKey(testKeyRing, "ec", kmspb.CryptoKeyVersion_EC_SIGN_P256_SHA256)
	require.NoError(t, err)
	mock.GetPublicKeyFunc = func(ctx context.Context, req *kmspb.GetPublicKeyRequest) (*kmspb.PublicKey, error) {
		return &kmspb.PublicKey{
			Pem:       "-----BEGIN PUBLIC KEY-----\nAAAA\n-----END PUBLIC KEY-----\n",
			PemCrc32C: CRC32CWrapper([]byte("something else")),
		}, nil
	}
	_, err = LoadKeyRing(context.Background(), mock, testKeyRing, false)
	require.ErrorContains(t, err, "CRC32C")
}

func TestGenerateCertificate(t *testing.T) {
	mock := NewMockKMSClient()
	_, err := mock.AddAsymmetricKey(testKeyRing, "ec", kmspb.CryptoKeyVersion_EC_SIGN_P256_SHA256)
	require.NoError(t, err)

	entries, err := LoadKeyRing(context.Background(), mock, testKeyRing, true)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	require.NotEmpty(t, entries[0].Certificate)

	cert, err := x509.ParseCertificate(entries[0].Certificate)
	require.NoError(t, err)
	require.Equal(t, "ec", cert.Subject.CommonName)
	require.NoError(t, cert.CheckSignatureFrom(cert))
}

func TestNoCertificateForDecryptKeys(t *testing.T) {
	mock := NewMockKMSClient()
	_, err := mock.AddAsymmetricKey(testKeyRing, "rsa", kmspb.CryptoKeyVersion_RSA_DECRYPT_OAEP_2048_SHA256)
	require.NoError(t, err)

	entries, err := LoadKeyRing(context.Background(), mock, testKeyRing, true)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	require.Nil(t, entries[0].Certificate)
}

func TestSigner(t *testing.T) {
	mock := NewMockKMSClient()
	version, err := mock.AddAsymmetricKey(testKeyRing, "ec", kmspb.CryptoKeyVersion_EC_SIGN_P256_SHA256)
	require.NoError(t, err)

	entries, err := LoadKeyRing(context.Background(), mock, testKeyRing, false)
	require.NoError(t, err)

	signer := &Signer{
		Client:      mock,
		VersionName: version.Name,
		Public_:     entries[0].PublicKey,
		Hash:        crypto.SHA256,
	}
	digest := sha256.Sum256([]byte("payload"))
	signature, err := signer.Sign(nil, digest[:], crypto.SHA256)
	require.NoError(t, err)
	require.True(t, ecdsa.VerifyASN1(signer.Public().(*ecdsa.PublicKey), digest[:], signature))

	_, err = signer.Sign(nil, digest[:], crypto.SHA512)
	require.Error(t, err)
}

func TestCryptoKeyID(t *testing.T) {
	require.Equal(t, "ck",
		CryptoKeyID("projects/p/locations/l/keyRings/kr/cryptoKeys/ck/cryptoKeyVersions/1"))
	require.Equal(t, "ck", CryptoKeyID("projects/p/locations/l/keyRings/kr/cryptoKeys/ck"))
	require.Equal(t, "weird", CryptoKeyID("weird"))
}

func TestAlgorithmDetails(t *testing.T) {
	alg, err := AlgorithmDetails(kmspb.CryptoKeyVersion_EC_SIGN_P384_SHA384)
	require.NoError(t, err)
	require.Equal(t, 384, alg.Bits)
	require.Equal(t, crypto.SHA384, alg.Hash)
	require.True(t, alg.Signing())

	alg, err = AlgorithmDetails(kmspb.CryptoKeyVersion_RSA_DECRYPT_OAEP_4096_SHA512)
	require.NoError(t, err)
	require.Equal(t, 4096, alg.Bits)
	require.False(t, alg.Signing())

	_, err = AlgorithmDetails(kmspb.CryptoKeyVersion_GOOGLE_SYMMETRIC_ENCRYPTION)
	require.Error(t, err)
}
