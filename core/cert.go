package core

import (
	"context"
	"crypto"
	"crypto/rand"
	"crypto/x509"
	"crypto/x509/pkix"
	"fmt"
	"math/big"
	"strings"
	"time"
)

// Synthesized certificates exist so TLS stacks that insist on pairing a
// certificate with each private key can use the token; the horizon just has
// to outlive any realistic process lifetime.
const certValidity = 10 * 365 * 24 * time.Hour

// GenerateCertificate builds a self-signed X.509 certificate for a
// sign-capable key version, using the key version itself as the signer.
func GenerateCertificate(ctx context.Context, client KeyManagementClient, entry KeyEntry) ([]byte, error) {
	sigAlg, err := signatureAlgorithm(entry.Algorithm)
	if err != nil {
		return nil, err
	}
	serial, err := rand.Int(rand.Reader, new(big.Int).Lsh(big.NewInt(1), 64))
	if err != nil {
		return nil, err
	}
	now := time.Now()
	template := &x509.Certificate{
		SerialNumber:          serial,
		Subject:               pkix.Name{CommonName: CryptoKeyID(entry.Version.Name)},
		NotBefore:             now.Add(-5 * time.Minute),
		NotAfter:              now.Add(certValidity),
		SignatureAlgorithm:    sigAlg,
		KeyUsage:              x509.KeyUsageDigitalSignature | x509.KeyUsageCertSign,
		BasicConstraintsValid: true,
		IsCA:                  true,
	}
	signer := &Signer{
		Client:      client,
		VersionName: entry.Version.Name,
		Public_:     entry.PublicKey,
		Hash:        entry.Algorithm.Hash,
	}
	der, err := x509.CreateCertificate(rand.Reader, template, template, entry.PublicKey, signer)
	if err != nil {
		return nil, fmt.Errorf("cannot create certificate for %q: %w", entry.Version.Name, err)
	}
	return der, nil
}

func signatureAlgorithm(algorithm Algorithm) (x509.SignatureAlgorithm, error) {
	switch {
	case algorithm.Scheme == SchemeECDSA && algorithm.Hash == crypto.SHA256:
		return x509.ECDSAWithSHA256, nil
	case algorithm.Scheme == SchemeECDSA && algorithm.Hash == crypto.SHA384:
		return x509.ECDSAWithSHA384, nil
	case algorithm.Scheme == SchemeRSAPKCS1 && algorithm.Hash == crypto.SHA256:
		return x509.SHA256WithRSA, nil
	case algorithm.Scheme == SchemeRSAPKCS1 && algorithm.Hash == crypto.SHA512:
		return x509.SHA512WithRSA, nil
	case algorithm.Scheme == SchemeRSAPSS && algorithm.Hash == crypto.SHA256:
		return x509.SHA256WithRSAPSS, nil
	case algorithm.Scheme == SchemeRSAPSS && algorithm.Hash == crypto.SHA512:
		return x509.SHA512WithRSAPSS, nil
	default:
		return 0, fmt.Errorf("no certificate signature algorithm for scheme %d with hash %s", algorithm.Scheme, algorithm.Hash)
	}
}

// CryptoKeyID extracts the crypto key identifier from a key version resource
// name (projects/.../cryptoKeys/<id>/cryptoKeyVersions/<n>). Objects derived
// from the version carry it as their label.
func CryptoKeyID(versionName string) string {
	const keysSegment = "/cryptoKeys/"
	const versionsSegment = "/cryptoKeyVersions/"
	i := strings.Index(versionName, keysSegment)
	if i < 0 {
		return versionName
	}
	rest := versionName[i+len(keysSegment):]
	if j := strings.Index(rest, versionsSegment); j >= 0 {
		return rest[:j]
	}
	return rest
}
