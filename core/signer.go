package core

import (
	"context"
	"crypto"
	"fmt"
	"io"

	"cloud.google.com/go/kms/apiv1/kmspb"
)

// Signer is a crypto.Signer whose private half lives in the key service.
// Digests go out, signatures come back; the scalar never crosses the wire.
type Signer struct {
	Client      KeyManagementClient
	VersionName string
	Public_     crypto.PublicKey
	Hash        crypto.Hash
}

func (s *Signer) Public() crypto.PublicKey {
	return s.Public_
}

func (s *Signer) Sign(_ io.Reader, digest []byte, opts crypto.SignerOpts) ([]byte, error) {
	if opts != nil && opts.HashFunc() != s.Hash {
		return nil, fmt.Errorf("key version %q signs %s digests, got %s", s.VersionName, s.Hash, opts.HashFunc())
	}
	digestProto, err := DigestProto(s.Hash, digest)
	if err != nil {
		return nil, err
	}
	resp, err := s.Client.AsymmetricSign(context.Background(), &kmspb.AsymmetricSignRequest{
		Name:         s.VersionName,
		Digest:       digestProto,
		DigestCrc32C: CRC32CWrapper(digest),
	})
	if err != nil {
		return nil, fmt.Errorf("asymmetric sign with %q failed: %w", s.VersionName, err)
	}
	if resp.SignatureCrc32C != nil && CRC32C(resp.Signature) != resp.SignatureCrc32C.Value {
		return nil, fmt.Errorf("signature from %q failed the CRC32C integrity check", s.VersionName)
	}
	return resp.Signature, nil
}
