package core

import (
	"context"
	"crypto"
	"crypto/ecdsa"
	"crypto/rand"
	"crypto/rsa"
	_ "crypto/sha256" // registers SHA-256/384/512 for crypto.Hash.New
	_ "crypto/sha512"
	"crypto/x509"
	"encoding/pem"
	"fmt"
	"sync"

	"cloud.google.com/go/kms/apiv1/kmspb"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// MockKMSClient is an in-memory implementation of KeyManagementClient.
// Keys added through AddAsymmetricKey are real local key pairs, so sign and
// decrypt behave like the service and results verify against the published
// public keys. The Func fields override individual calls for failure
// injection.
type MockKMSClient struct {
	ListCryptoKeysFunc        func(ctx context.Context, req *kmspb.ListCryptoKeysRequest) ([]*kmspb.CryptoKey, error)
	ListCryptoKeyVersionsFunc func(ctx context.Context, req *kmspb.ListCryptoKeyVersionsRequest) ([]*kmspb.CryptoKeyVersion, error)
	GetPublicKeyFunc          func(ctx context.Context, req *kmspb.GetPublicKeyRequest) (*kmspb.PublicKey, error)
	AsymmetricSignFunc        func(ctx context.Context, req *kmspb.AsymmetricSignRequest) (*kmspb.AsymmetricSignResponse, error)
	AsymmetricDecryptFunc     func(ctx context.Context, req *kmspb.AsymmetricDecryptRequest) (*kmspb.AsymmetricDecryptResponse, error)
	CloseFunc                 func() error

	mu       sync.Mutex
	keys     map[string]*mockKey     // crypto key name -> key
	byRing   map[string][]string     // key ring name -> crypto key names
	versions map[string]*mockVersion // version name -> version
}

type mockKey struct {
	cryptoKey *kmspb.CryptoKey
	versions  []string
}

type mockVersion struct {
	version *kmspb.CryptoKeyVersion
	private crypto.PrivateKey
}

func NewMockKMSClient() *MockKMSClient {
	return &MockKMSClient{
		keys:     make(map[string]*mockKey),
		byRing:   make(map[string][]string),
		versions: make(map[string]*mockVersion),
	}
}

// AddAsymmetricKey creates a crypto key under keyRing with one enabled
// version of the given algorithm, generating a fresh local key pair.
func (m *MockKMSClient) AddAsymmetricKey(keyRing, keyID string, alg kmspb.CryptoKeyVersion_CryptoKeyVersionAlgorithm) (*kmspb.CryptoKeyVersion, error) {
	algorithm, err := AlgorithmDetails(alg)
	if err != nil {
		return nil, err
	}
	var private crypto.PrivateKey
	if algorithm.Curve != nil {
		private, err = ecdsa.GenerateKey(algorithm.Curve, rand.Reader)
	} else {
		private, err = rsa.GenerateKey(rand.Reader, algorithm.Bits)
	}
	if err != nil {
		return nil, err
	}

	purpose := kmspb.CryptoKey_ASYMMETRIC_SIGN
	if !algorithm.Signing() {
		purpose = kmspb.CryptoKey_ASYMMETRIC_DECRYPT
	}
	keyName := keyRing + "/cryptoKeys/" + keyID
	versionName := keyName + "/cryptoKeyVersions/1"

	m.mu.Lock()
	defer m.mu.Unlock()
	key, ok := m.keys[keyName]
	if !ok {
		key = &mockKey{cryptoKey: &kmspb.CryptoKey{Name: keyName, Purpose: purpose}}
		m.keys[keyName] = key
		m.byRing[keyRing] = append(m.byRing[keyRing], keyName)
	} else {
		versionName = fmt.Sprintf("%s/cryptoKeyVersions/%d", keyName, len(key.versions)+1)
	}
	version := &kmspb.CryptoKeyVersion{
		Name:      versionName,
		State:     kmspb.CryptoKeyVersion_ENABLED,
		Algorithm: alg,
	}
	key.versions = append(key.versions, versionName)
	m.versions[versionName] = &mockVersion{version: version, private: private}
	return version, nil
}

func (m *MockKMSClient) ListCryptoKeys(ctx context.Context, req *kmspb.ListCryptoKeysRequest) ([]*kmspb.CryptoKey, error) {
	if m.ListCryptoKeysFunc != nil {
		return m.ListCryptoKeysFunc(ctx, req)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	var keys []*kmspb.CryptoKey
	for _, name := range m.byRing[req.Parent] {
		keys = append(keys, m.keys[name].cryptoKey)
	}
	return keys, nil
}

func (m *MockKMSClient) ListCryptoKeyVersions(ctx context.Context, req *kmspb.ListCryptoKeyVersionsRequest) ([]*kmspb.CryptoKeyVersion, error) {
	if m.ListCryptoKeyVersionsFunc != nil {
		return m.ListCryptoKeyVersionsFunc(ctx, req)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	key, ok := m.keys[req.Parent]
	if !ok {
		return nil, status.Errorf(codes.NotFound, "crypto key %q not found", req.Parent)
	}
	var versions []*kmspb.CryptoKeyVersion
	for _, name := range key.versions {
		versions = append(versions, m.versions[name].version)
	}
	return versions, nil
}

func (m *MockKMSClient) GetPublicKey(ctx context.Context, req *kmspb.GetPublicKeyRequest) (*kmspb.PublicKey, error) {
	if m.GetPublicKeyFunc != nil {
		return m.GetPublicKeyFunc(ctx, req)
	}
	version, err := m.lookupVersion(req.Name)
	if err != nil {
		return nil, err
	}
	der, err := x509.MarshalPKIXPublicKey(version.private.(crypto.Signer).Public())
	if err != nil {
		return nil, err
	}
	pemBytes := pem.EncodeToMemory(&pem.Block{Type: "PUBLIC KEY", Bytes: der})
	return &kmspb.PublicKey{
		Pem:       string(pemBytes),
		Algorithm: version.version.Algorithm,
		PemCrc32C: CRC32CWrapper(pemBytes),
		Name:      req.Name,
	}, nil
}

func (m *MockKMSClient) AsymmetricSign(ctx context.Context, req *kmspb.AsymmetricSignRequest) (*kmspb.AsymmetricSignResponse, error) {
	if m.AsymmetricSignFunc != nil {
		return m.AsymmetricSignFunc(ctx, req)
	}
	version, err := m.lookupVersion(req.Name)
	if err != nil {
		return nil, err
	}
	algorithm, err := AlgorithmDetails(version.version.Algorithm)
	if err != nil {
		return nil, status.Error(codes.FailedPrecondition, err.Error())
	}
	digest, err := digestBytes(req.Digest, algorithm.Hash)
	if err != nil {
		return nil, err
	}

	var signature []byte
	switch key := version.private.(type) {
	case *ecdsa.PrivateKey:
		signature, err = ecdsa.SignASN1(rand.Reader, key, digest)
	case *rsa.PrivateKey:
		switch algorithm.Scheme {
		case SchemeRSAPKCS1:
			signature, err = rsa.SignPKCS1v15(rand.Reader, key, algorithm.Hash, digest)
		case SchemeRSAPSS:
			signature, err = rsa.SignPSS(rand.Reader, key, algorithm.Hash, digest,
				&rsa.PSSOptions{SaltLength: rsa.PSSSaltLengthEqualsHash})
		default:
			return nil, status.Errorf(codes.FailedPrecondition, "key version %q does not sign", req.Name)
		}
	default:
		return nil, status.Errorf(codes.Internal, "unexpected key material for %q", req.Name)
	}
	if err != nil {
		return nil, status.Error(codes.Internal, err.Error())
	}
	return &kmspb.AsymmetricSignResponse{
		Signature:       signature,
		SignatureCrc32C: CRC32CWrapper(signature),
		Name:            req.Name,
	}, nil
}

func (m *MockKMSClient) AsymmetricDecrypt(ctx context.Context, req *kmspb.AsymmetricDecryptRequest) (*kmspb.AsymmetricDecryptResponse, error) {
	if m.AsymmetricDecryptFunc != nil {
		return m.AsymmetricDecryptFunc(ctx, req)
	}
	version, err := m.lookupVersion(req.Name)
	if err != nil {
		return nil, err
	}
	algorithm, err := AlgorithmDetails(version.version.Algorithm)
	if err != nil {
		return nil, status.Error(codes.FailedPrecondition, err.Error())
	}
	key, ok := version.private.(*rsa.PrivateKey)
	if !ok || algorithm.Scheme != SchemeRSAOAEP {
		return nil, status.Errorf(codes.FailedPrecondition, "key version %q does not decrypt", req.Name)
	}
	plaintext, err := rsa.DecryptOAEP(algorithm.Hash.New(), rand.Reader, key, req.Ciphertext, nil)
	if err != nil {
		return nil, status.Error(codes.InvalidArgument, err.Error())
	}
	return &kmspb.AsymmetricDecryptResponse{
		Plaintext:       plaintext,
		PlaintextCrc32C: CRC32CWrapper(plaintext),
	}, nil
}

func (m *MockKMSClient) Close() error {
	if m.CloseFunc != nil {
		return m.CloseFunc()
	}
	return nil
}

func (m *MockKMSClient) lookupVersion(name string) (*mockVersion, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	version, ok := m.versions[name]
	if !ok {
		return nil, status.Errorf(codes.NotFound, "crypto key version %q not found", name)
	}
	return version, nil
}

func digestBytes(digest *kmspb.Digest, hash crypto.Hash) ([]byte, error) {
	if digest == nil {
		return nil, status.Error(codes.InvalidArgument, "missing digest")
	}
	var value []byte
	var got crypto.Hash
	switch d := digest.Digest.(type) {
	case *kmspb.Digest_Sha256:
		value, got = d.Sha256, crypto.SHA256
	case *kmspb.Digest_Sha384:
		value, got = d.Sha384, crypto.SHA384
	case *kmspb.Digest_Sha512:
		value, got = d.Sha512, crypto.SHA512
	default:
		return nil, status.Error(codes.InvalidArgument, "unsupported digest type")
	}
	if got != hash {
		return nil, status.Errorf(codes.InvalidArgument, "digest is %s, key expects %s", got, hash)
	}
	if len(value) != hash.Size() {
		return nil, status.Errorf(codes.InvalidArgument, "digest is %d bytes, want %d", len(value), hash.Size())
	}
	return value, nil
}
