package objects

import (
	"context"
	"fmt"
	"sync"

	"cloud.google.com/go/kms/apiv1/kmspb"

	"github.com/niclabs/kmsp11/core"
	"github.com/niclabs/kmsp11/criptoki"
)

// OperationState is the session's current operation. At most one operation
// is active at a time; starting a second one fails CKR_OPERATION_ACTIVE.
type OperationState int

const (
	OperationNone OperationState = iota
	OperationFind
	OperationSign
	OperationDecrypt
)

// A session: a caller's cursor on one slot. All state below mu is owned by
// the session lock; the slot and handle are immutable.
type Session struct {
	Handle criptoki.SessionHandle
	Slot   *Slot

	app   *Application
	flags criptoki.Flags

	mu           sync.Mutex
	operation    OperationState
	foundObjects []criptoki.ObjectHandle
	operationKey *CryptoObject
}

// Sessions maps handles to sessions.
type Sessions map[criptoki.SessionHandle]*Session

// GetInfo fills a CK_SESSION_INFO. The state is derived from the token's
// login view, so all sessions on a slot report the same state.
func (session *Session) GetInfo(info *criptoki.SessionInfo) error {
	if info == nil {
		return NewError("Session.GetInfo", "got NULL pointer", criptoki.CKR_ARGUMENTS_BAD)
	}
	state := criptoki.CKS_RO_PUBLIC_SESSION
	if session.Slot.GetToken().SecurityLevel() == User {
		state = criptoki.CKS_RO_USER_FUNCTIONS
	}
	*info = criptoki.SessionInfo{
		SlotID:      session.Slot.ID,
		State:       state,
		Flags:       session.flags,
		DeviceError: 0,
	}
	return nil
}

// FindObjectsInit builds the result set for a find operation. A nil
// template matches every object on the token.
func (session *Session) FindObjectsInit(template []criptoki.Attribute) error {
	session.mu.Lock()
	defer session.mu.Unlock()
	if session.operation != OperationNone {
		return NewError("Session.FindObjectsInit", "operation already initialized", criptoki.CKR_OPERATION_ACTIVE)
	}
	session.foundObjects = session.Slot.GetToken().FindObjects(template)
	session.operation = OperationFind
	return nil
}

// FindObjects draws up to maxCount handles from the find cursor. Returning
// zero handles signals the end of the result set and is not an error.
func (session *Session) FindObjects(maxCount criptoki.ULong) ([]criptoki.ObjectHandle, error) {
	session.mu.Lock()
	defer session.mu.Unlock()
	if session.operation != OperationFind {
		return nil, NewError("Session.FindObjects", "operation not initialized", criptoki.CKR_OPERATION_NOT_INITIALIZED)
	}
	limit := int(maxCount)
	if limit > len(session.foundObjects) {
		limit = len(session.foundObjects)
	}
	result := session.foundObjects[:limit]
	session.foundObjects = session.foundObjects[limit:]
	return result, nil
}

// FindObjectsFinal tears down the find cursor.
func (session *Session) FindObjectsFinal() error {
	session.mu.Lock()
	defer session.mu.Unlock()
	if session.operation != OperationFind {
		return NewError("Session.FindObjectsFinal", "operation not initialized", criptoki.CKR_OPERATION_NOT_INITIALIZED)
	}
	session.operation = OperationNone
	session.foundObjects = nil
	return nil
}

// GetObject resolves an object handle against the session's token. Handles
// minted for another token's objects do not resolve here.
func (session *Session) GetObject(hObject criptoki.ObjectHandle) (*CryptoObject, error) {
	return session.Slot.GetToken().GetObject(hObject)
}

// SignInit binds a sign operation to a key object. The mechanism must be in
// the registry, carry CKF_SIGN, and agree with the key's type and scheme.
func (session *Session) SignInit(mechanism *criptoki.Mechanism, hKey criptoki.ObjectHandle) error {
	session.mu.Lock()
	defer session.mu.Unlock()
	if session.operation != OperationNone {
		return NewError("Session.SignInit", "operation already initialized", criptoki.CKR_OPERATION_ACTIVE)
	}
	object, err := session.Slot.GetToken().GetObject(hKey)
	if err != nil {
		return err
	}
	if err := checkKeyMechanism(object, mechanism, criptoki.CKF_SIGN); err != nil {
		return err
	}
	session.operation = OperationSign
	session.operationKey = object
	return nil
}

// Sign delegates the caller's digest to the key service. A nil signature
// buffer probes the worst-case signature size and leaves the operation
// active, as does a too-small buffer; any call past those checks consumes
// it, whether it then fails locally, fails remotely or succeeds.
func (session *Session) Sign(data []byte, signature []byte, signatureLen *criptoki.ULong) error {
	session.mu.Lock()
	defer session.mu.Unlock()
	if session.operation != OperationSign {
		return NewError("Session.Sign", "operation not initialized", criptoki.CKR_OPERATION_NOT_INITIALIZED)
	}
	key := session.operationKey.Key
	ceiling := signatureCeiling(key.Algorithm)
	if signature == nil {
		*signatureLen = ceiling
		return nil
	}
	if criptoki.ULong(len(signature)) < ceiling {
		*signatureLen = ceiling
		return NewError("Session.Sign", "signature buffer too small", criptoki.CKR_BUFFER_TOO_SMALL)
	}
	session.operation = OperationNone
	session.operationKey = nil

	if len(data) != key.Algorithm.Hash.Size() {
		return NewError("Session.Sign",
			fmt.Sprintf("got %d bytes of data, the key signs %d-byte digests", len(data), key.Algorithm.Hash.Size()),
			criptoki.CKR_DATA_LEN_RANGE)
	}
	digest, err := core.DigestProto(key.Algorithm.Hash, data)
	if err != nil {
		return NewError("Session.Sign", err.Error(), criptoki.CKR_MECHANISM_INVALID)
	}
	resp, err := session.app.KMS.AsymmetricSign(context.Background(), &kmspb.AsymmetricSignRequest{
		Name:         key.VersionName,
		Digest:       digest,
		DigestCrc32C: core.CRC32CWrapper(data),
	})
	if err != nil {
		return WrapRemoteError("Session.Sign", err)
	}
	*signatureLen = criptoki.ULong(copy(signature, resp.Signature))
	return nil
}

// DecryptInit binds a decrypt operation to a key object.
func (session *Session) DecryptInit(mechanism *criptoki.Mechanism, hKey criptoki.ObjectHandle) error {
	session.mu.Lock()
	defer session.mu.Unlock()
	if session.operation != OperationNone {
		return NewError("Session.DecryptInit", "operation already initialized", criptoki.CKR_OPERATION_ACTIVE)
	}
	object, err := session.Slot.GetToken().GetObject(hKey)
	if err != nil {
		return err
	}
	if err := checkKeyMechanism(object, mechanism, criptoki.CKF_DECRYPT); err != nil {
		return err
	}
	session.operation = OperationDecrypt
	session.operationKey = object
	return nil
}

// Decrypt sends the ciphertext to the key service. The plaintext length is
// not knowable before the call, so a probe reports the modulus size.
func (session *Session) Decrypt(ciphertext []byte, data []byte, dataLen *criptoki.ULong) error {
	session.mu.Lock()
	defer session.mu.Unlock()
	if session.operation != OperationDecrypt {
		return NewError("Session.Decrypt", "operation not initialized", criptoki.CKR_OPERATION_NOT_INITIALIZED)
	}
	key := session.operationKey.Key
	ceiling := criptoki.ULong(key.Algorithm.Bits / 8)
	if data == nil {
		*dataLen = ceiling
		return nil
	}
	if criptoki.ULong(len(data)) < ceiling {
		*dataLen = ceiling
		return NewError("Session.Decrypt", "plaintext buffer too small", criptoki.CKR_BUFFER_TOO_SMALL)
	}
	session.operation = OperationNone
	session.operationKey = nil

	if len(ciphertext) != key.Algorithm.Bits/8 {
		return NewError("Session.Decrypt",
			fmt.Sprintf("got %d bytes of ciphertext, the key takes %d", len(ciphertext), key.Algorithm.Bits/8),
			criptoki.CKR_ENCRYPTED_DATA_LEN_RANGE)
	}
	resp, err := session.app.KMS.AsymmetricDecrypt(context.Background(), &kmspb.AsymmetricDecryptRequest{
		Name:             key.VersionName,
		Ciphertext:       ciphertext,
		CiphertextCrc32C: core.CRC32CWrapper(ciphertext),
	})
	if err != nil {
		return WrapRemoteError("Session.Decrypt", err)
	}
	*dataLen = criptoki.ULong(copy(data, resp.Plaintext))
	return nil
}

// checkKeyMechanism validates a mechanism against the registry and against
// the key object it is being bound to.
func checkKeyMechanism(object *CryptoObject, mechanism *criptoki.Mechanism, required criptoki.Flags) error {
	if mechanism == nil {
		return NewError("Session.checkKeyMechanism", "got NULL mechanism", criptoki.CKR_ARGUMENTS_BAD)
	}
	info, err := MechanismInfo(mechanism.Mechanism)
	if err != nil {
		return err
	}
	if info.Flags&required == 0 {
		return NewError("Session.checkKeyMechanism",
			fmt.Sprintf("mechanism 0x%x does not support this operation", mechanism.Mechanism),
			criptoki.CKR_MECHANISM_INVALID)
	}
	if object.Kind != PrivateKeyObject || object.Key == nil {
		return NewError("Session.checkKeyMechanism", "object is not a private key", criptoki.CKR_KEY_FUNCTION_NOT_PERMITTED)
	}
	scheme := object.Key.Algorithm.Scheme
	var want criptoki.MechanismType
	switch scheme {
	case core.SchemeRSAPKCS1:
		want = criptoki.CKM_RSA_PKCS
	case core.SchemeRSAPSS:
		want = criptoki.CKM_RSA_PKCS_PSS
	case core.SchemeRSAOAEP:
		want = criptoki.CKM_RSA_PKCS_OAEP
	case core.SchemeECDSA:
		want = criptoki.CKM_ECDSA
	}
	if mechanism.Mechanism != want {
		return NewError("Session.checkKeyMechanism",
			fmt.Sprintf("mechanism 0x%x does not match the key's algorithm", mechanism.Mechanism),
			criptoki.CKR_KEY_TYPE_INCONSISTENT)
	}
	return nil
}

// signatureCeiling is the largest signature the key can produce: the modulus
// size for RSA, the DER ceiling for ECDSA (two integers, each possibly
// carrying a leading zero, plus framing).
func signatureCeiling(algorithm core.Algorithm) criptoki.ULong {
	if algorithm.Curve != nil {
		n := (algorithm.Curve.Params().BitSize + 7) / 8
		return criptoki.ULong(2*(n+1) + 8)
	}
	return criptoki.ULong(algorithm.Bits / 8)
}
