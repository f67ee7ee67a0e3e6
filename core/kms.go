package core

import (
	"context"
	"crypto"
	"crypto/x509"
	"encoding/pem"
	"fmt"
	"hash/crc32"

	kms "cloud.google.com/go/kms/apiv1"
	"cloud.google.com/go/kms/apiv1/kmspb"
	"google.golang.org/api/iterator"
	"google.golang.org/api/option"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

// KeyManagementClient is the slice of the Cloud KMS surface the provider
// consumes. Wrapping the generated client behind it keeps token
// construction and session operations testable against MockKMSClient.
type KeyManagementClient interface {
	ListCryptoKeys(ctx context.Context, req *kmspb.ListCryptoKeysRequest) ([]*kmspb.CryptoKey, error)
	ListCryptoKeyVersions(ctx context.Context, req *kmspb.ListCryptoKeyVersionsRequest) ([]*kmspb.CryptoKeyVersion, error)
	GetPublicKey(ctx context.Context, req *kmspb.GetPublicKeyRequest) (*kmspb.PublicKey, error)
	AsymmetricSign(ctx context.Context, req *kmspb.AsymmetricSignRequest) (*kmspb.AsymmetricSignResponse, error)
	AsymmetricDecrypt(ctx context.Context, req *kmspb.AsymmetricDecryptRequest) (*kmspb.AsymmetricDecryptResponse, error)
	Close() error
}

// realKMSClient adapts the generated client to the interface, draining the
// list iterators into slices.
type realKMSClient struct {
	*kms.KeyManagementClient
}

func (r *realKMSClient) ListCryptoKeys(ctx context.Context, req *kmspb.ListCryptoKeysRequest) ([]*kmspb.CryptoKey, error) {
	it := r.KeyManagementClient.ListCryptoKeys(ctx, req)
	var keys []*kmspb.CryptoKey
	for {
		key, err := it.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, err
		}
		keys = append(keys, key)
	}
	return keys, nil
}

func (r *realKMSClient) ListCryptoKeyVersions(ctx context.Context, req *kmspb.ListCryptoKeyVersionsRequest) ([]*kmspb.CryptoKeyVersion, error) {
	it := r.KeyManagementClient.ListCryptoKeyVersions(ctx, req)
	var versions []*kmspb.CryptoKeyVersion
	for {
		version, err := it.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, err
		}
		versions = append(versions, version)
	}
	return versions, nil
}

func (r *realKMSClient) GetPublicKey(ctx context.Context, req *kmspb.GetPublicKeyRequest) (*kmspb.PublicKey, error) {
	return r.KeyManagementClient.GetPublicKey(ctx, req)
}

func (r *realKMSClient) AsymmetricSign(ctx context.Context, req *kmspb.AsymmetricSignRequest) (*kmspb.AsymmetricSignResponse, error) {
	return r.KeyManagementClient.AsymmetricSign(ctx, req)
}

func (r *realKMSClient) AsymmetricDecrypt(ctx context.Context, req *kmspb.AsymmetricDecryptRequest) (*kmspb.AsymmetricDecryptResponse, error) {
	return r.KeyManagementClient.AsymmetricDecrypt(ctx, req)
}

// NewKMSClient dials the key service named by the configuration.
func NewKMSClient(ctx context.Context, config *Config) (KeyManagementClient, error) {
	var opts []option.ClientOption
	if config.KMSEndpoint != "" {
		opts = append(opts, option.WithEndpoint(config.KMSEndpoint))
	}
	if config.UseInsecureGRPCChannelCredentials {
		opts = append(opts,
			option.WithGRPCDialOption(grpc.WithTransportCredentials(insecure.NewCredentials())),
			option.WithoutAuthentication())
	}
	client, err := kms.NewKeyManagementClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("cannot connect to KMS endpoint %q: %w", config.KMSEndpoint, err)
	}
	return &realKMSClient{client}, nil
}

// KeyEntry is one enabled key version with its public material resolved: the
// raw material a token turns into crypto objects.
type KeyEntry struct {
	Version       *kmspb.CryptoKeyVersion
	Purpose       kmspb.CryptoKey_CryptoKeyPurpose
	Algorithm     Algorithm
	PublicKey     crypto.PublicKey
	PublicKeyInfo []byte
	Certificate   []byte
}

// LoadKeyRing fetches every enabled, supported key version in the key ring
// together with its public key, optionally synthesizing a certificate per
// sign-capable version. Versions with unsupported algorithms are skipped.
func LoadKeyRing(ctx context.Context, client KeyManagementClient, keyRing string, generateCerts bool) ([]KeyEntry, error) {
	keys, err := client.ListCryptoKeys(ctx, &kmspb.ListCryptoKeysRequest{Parent: keyRing})
	if err != nil {
		return nil, fmt.Errorf("cannot list keys in %q: %w", keyRing, err)
	}
	var entries []KeyEntry
	for _, key := range keys {
		switch key.Purpose {
		case kmspb.CryptoKey_ASYMMETRIC_SIGN, kmspb.CryptoKey_ASYMMETRIC_DECRYPT:
		default:
			continue
		}
		versions, err := client.ListCryptoKeyVersions(ctx, &kmspb.ListCryptoKeyVersionsRequest{Parent: key.Name})
		if err != nil {
			return nil, fmt.Errorf("cannot list versions of %q: %w", key.Name, err)
		}
		for _, version := range versions {
			if version.State != kmspb.CryptoKeyVersion_ENABLED {
				continue
			}
			algorithm, err := AlgorithmDetails(version.Algorithm)
			if err != nil {
				continue
			}
			entry := KeyEntry{Version: version, Purpose: key.Purpose, Algorithm: algorithm}
			if err := resolvePublicKey(ctx, client, &entry); err != nil {
				return nil, err
			}
			if generateCerts && algorithm.Signing() {
				cert, err := GenerateCertificate(ctx, client, entry)
				if err != nil {
					return nil, err
				}
				entry.Certificate = cert
			}
			entries = append(entries, entry)
		}
	}
	return entries, nil
}

func resolvePublicKey(ctx context.Context, client KeyManagementClient, entry *KeyEntry) error {
	name := entry.Version.Name
	resp, err := client.GetPublicKey(ctx, &kmspb.GetPublicKeyRequest{Name: name})
	if err != nil {
		return fmt.Errorf("cannot get public key of %q: %w", name, err)
	}
	if resp.PemCrc32C != nil && CRC32C([]byte(resp.Pem)) != resp.PemCrc32C.Value {
		return fmt.Errorf("public key of %q failed the CRC32C integrity check", name)
	}
	block, _ := pem.Decode([]byte(resp.Pem))
	if block == nil {
		return fmt.Errorf("public key of %q is not PEM encoded", name)
	}
	publicKey, err := x509.ParsePKIXPublicKey(block.Bytes)
	if err != nil {
		return fmt.Errorf("cannot parse public key of %q: %w", name, err)
	}
	entry.PublicKey = publicKey
	entry.PublicKeyInfo = block.Bytes
	return nil
}

var castagnoli = crc32.MakeTable(crc32.Castagnoli)

// CRC32C computes the checksum KMS uses for request and response integrity
// fields.
func CRC32C(data []byte) int64 {
	return int64(crc32.Checksum(data, castagnoli))
}

// CRC32CWrapper wraps the checksum for the optional proto integrity fields.
func CRC32CWrapper(data []byte) *wrapperspb.Int64Value {
	return wrapperspb.Int64(CRC32C(data))
}

// DigestProto wraps an already computed digest in the oneof KMS expects.
func DigestProto(hash crypto.Hash, digest []byte) (*kmspb.Digest, error) {
	switch hash {
	case crypto.SHA256:
		return &kmspb.Digest{Digest: &kmspb.Digest_Sha256{Sha256: digest}}, nil
	case crypto.SHA384:
		return &kmspb.Digest{Digest: &kmspb.Digest_Sha384{Sha384: digest}}, nil
	case crypto.SHA512:
		return &kmspb.Digest{Digest: &kmspb.Digest_Sha512{Sha512: digest}}, nil
	default:
		return nil, fmt.Errorf("digest algorithm %s is not supported by the key service", hash)
	}
}
