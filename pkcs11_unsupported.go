package main

import (
	"github.com/niclabs/kmsp11/criptoki"
)

// Entry points the token cannot honor. The token is permanently write
// protected and the key service performs no local crypto, so everything
// below is rejected wholesale; the not-initialized override still applies
// first.
func unsupported() criptoki.RV {
	appMu.RLock()
	defer appMu.RUnlock()
	if App == nil {
		return criptoki.CKR_CRYPTOKI_NOT_INITIALIZED
	}
	return criptoki.CKR_FUNCTION_NOT_SUPPORTED
}

func C_InitToken(slotID criptoki.SlotID, pPin []byte, pLabel []byte) criptoki.RV {
	return unsupported()
}

func C_InitPIN(hSession criptoki.SessionHandle, pPin []byte) criptoki.RV {
	return unsupported()
}

func C_SetPIN(hSession criptoki.SessionHandle, pOldPin, pNewPin []byte) criptoki.RV {
	return unsupported()
}

func C_GetOperationState(hSession criptoki.SessionHandle, pOperationState []byte, pulOperationStateLen *criptoki.ULong) criptoki.RV {
	return unsupported()
}

func C_SetOperationState(hSession criptoki.SessionHandle, pOperationState []byte, hEncryptionKey, hAuthenticationKey criptoki.ObjectHandle) criptoki.RV {
	return unsupported()
}

func C_CreateObject(hSession criptoki.SessionHandle, pTemplate []criptoki.Attribute, ulCount criptoki.ULong, phObject *criptoki.ObjectHandle) criptoki.RV {
	return unsupported()
}

func C_CopyObject(hSession criptoki.SessionHandle, hObject criptoki.ObjectHandle, pTemplate []criptoki.Attribute, ulCount criptoki.ULong, phNewObject *criptoki.ObjectHandle) criptoki.RV {
	return unsupported()
}

func C_DestroyObject(hSession criptoki.SessionHandle, hObject criptoki.ObjectHandle) criptoki.RV {
	return unsupported()
}

func C_GetObjectSize(hSession criptoki.SessionHandle, hObject criptoki.ObjectHandle, pulSize *criptoki.ULong) criptoki.RV {
	return unsupported()
}

func C_SetAttributeValue(hSession criptoki.SessionHandle, hObject criptoki.ObjectHandle, pTemplate []criptoki.Attribute, ulCount criptoki.ULong) criptoki.RV {
	return unsupported()
}

func C_EncryptInit(hSession criptoki.SessionHandle, pMechanism *criptoki.Mechanism, hKey criptoki.ObjectHandle) criptoki.RV {
	return unsupported()
}

func C_Encrypt(hSession criptoki.SessionHandle, pData []byte, pEncryptedData []byte, pulEncryptedDataLen *criptoki.ULong) criptoki.RV {
	return unsupported()
}

func C_EncryptUpdate(hSession criptoki.SessionHandle, pPart []byte, pEncryptedPart []byte, pulEncryptedPartLen *criptoki.ULong) criptoki.RV {
	return unsupported()
}

func C_EncryptFinal(hSession criptoki.SessionHandle, pLastEncryptedPart []byte, pulLastEncryptedPartLen *criptoki.ULong) criptoki.RV {
	return unsupported()
}

func C_DecryptUpdate(hSession criptoki.SessionHandle, pEncryptedPart []byte, pPart []byte, pulPartLen *criptoki.ULong) criptoki.RV {
	return unsupported()
}

func C_DecryptFinal(hSession criptoki.SessionHandle, pLastPart []byte, pulLastPartLen *criptoki.ULong) criptoki.RV {
	return unsupported()
}

func C_DigestInit(hSession criptoki.SessionHandle, pMechanism *criptoki.Mechanism) criptoki.RV {
	return unsupported()
}

func C_Digest(hSession criptoki.SessionHandle, pData []byte, pDigest []byte, pulDigestLen *criptoki.ULong) criptoki.RV {
	return unsupported()
}

func C_DigestUpdate(hSession criptoki.SessionHandle, pPart []byte) criptoki.RV {
	return unsupported()
}

func C_DigestKey(hSession criptoki.SessionHandle, hKey criptoki.ObjectHandle) criptoki.RV {
	return unsupported()
}

func C_DigestFinal(hSession criptoki.SessionHandle, pDigest []byte, pulDigestLen *criptoki.ULong) criptoki.RV {
	return unsupported()
}

func C_SignUpdate(hSession criptoki.SessionHandle, pPart []byte) criptoki.RV {
	return unsupported()
}

func C_SignFinal(hSession criptoki.SessionHandle, pSignature []byte, pulSignatureLen *criptoki.ULong) criptoki.RV {
	return unsupported()
}

func C_SignRecoverInit(hSession criptoki.SessionHandle, pMechanism *criptoki.Mechanism, hKey criptoki.ObjectHandle) criptoki.RV {
	return unsupported()
}

func C_SignRecover(hSession criptoki.SessionHandle, pData []byte, pSignature []byte, pulSignatureLen *criptoki.ULong) criptoki.RV {
	return unsupported()
}

func C_VerifyInit(hSession criptoki.SessionHandle, pMechanism *criptoki.Mechanism, hKey criptoki.ObjectHandle) criptoki.RV {
	return unsupported()
}

func C_Verify(hSession criptoki.SessionHandle, pData []byte, pSignature []byte) criptoki.RV {
	return unsupported()
}

func C_VerifyUpdate(hSession criptoki.SessionHandle, pPart []byte) criptoki.RV {
	return unsupported()
}

func C_VerifyFinal(hSession criptoki.SessionHandle, pSignature []byte) criptoki.RV {
	return unsupported()
}

func C_VerifyRecoverInit(hSession criptoki.SessionHandle, pMechanism *criptoki.Mechanism, hKey criptoki.ObjectHandle) criptoki.RV {
	return unsupported()
}

func C_VerifyRecover(hSession criptoki.SessionHandle, pSignature []byte, pData []byte, pulDataLen *criptoki.ULong) criptoki.RV {
	return unsupported()
}

func C_DigestEncryptUpdate(hSession criptoki.SessionHandle, pPart []byte, pEncryptedPart []byte, pulEncryptedPartLen *criptoki.ULong) criptoki.RV {
	return unsupported()
}

func C_DecryptDigestUpdate(hSession criptoki.SessionHandle, pEncryptedPart []byte, pPart []byte, pulPartLen *criptoki.ULong) criptoki.RV {
	return unsupported()
}

func C_SignEncryptUpdate(hSession criptoki.SessionHandle, pPart []byte, pEncryptedPart []byte, pulEncryptedPartLen *criptoki.ULong) criptoki.RV {
	return unsupported()
}

func C_DecryptVerifyUpdate(hSession criptoki.SessionHandle, pEncryptedPart []byte, pPart []byte, pulPartLen *criptoki.ULong) criptoki.RV {
	return unsupported()
}

func C_GenerateKey(hSession criptoki.SessionHandle, pMechanism *criptoki.Mechanism, pTemplate []criptoki.Attribute, ulCount criptoki.ULong, phKey *criptoki.ObjectHandle) criptoki.RV {
	return unsupported()
}

func C_GenerateKeyPair(hSession criptoki.SessionHandle, pMechanism *criptoki.Mechanism, pPublicKeyTemplate []criptoki.Attribute, ulPublicKeyAttributeCount criptoki.ULong, pPrivateKeyTemplate []criptoki.Attribute, ulPrivateKeyAttributeCount criptoki.ULong, phPublicKey, phPrivateKey *criptoki.ObjectHandle) criptoki.RV {
	return unsupported()
}

func C_WrapKey(hSession criptoki.SessionHandle, pMechanism *criptoki.Mechanism, hWrappingKey, hKey criptoki.ObjectHandle, pWrappedKey []byte, pulWrappedKeyLen *criptoki.ULong) criptoki.RV {
	return unsupported()
}

func C_UnwrapKey(hSession criptoki.SessionHandle, pMechanism *criptoki.Mechanism, hUnwrappingKey criptoki.ObjectHandle, pWrappedKey []byte, pTemplate []criptoki.Attribute, ulAttributeCount criptoki.ULong, phKey *criptoki.ObjectHandle) criptoki.RV {
	return unsupported()
}

func C_DeriveKey(hSession criptoki.SessionHandle, pMechanism *criptoki.Mechanism, hBaseKey criptoki.ObjectHandle, pTemplate []criptoki.Attribute, ulAttributeCount criptoki.ULong, phKey *criptoki.ObjectHandle) criptoki.RV {
	return unsupported()
}

func C_SeedRandom(hSession criptoki.SessionHandle, pSeed []byte) criptoki.RV {
	return unsupported()
}

func C_GenerateRandom(hSession criptoki.SessionHandle, pRandomData []byte) criptoki.RV {
	return unsupported()
}

// The legacy status functions have their own fixed answers in the standard.
// Unlike the stubs above, they return that answer without checking whether
// the provider is initialized.
func C_GetFunctionStatus(hSession criptoki.SessionHandle) criptoki.RV {
	return criptoki.CKR_FUNCTION_NOT_PARALLEL
}

func C_CancelFunction(hSession criptoki.SessionHandle) criptoki.RV {
	return criptoki.CKR_FUNCTION_NOT_PARALLEL
}

func C_WaitForSlotEvent(flags criptoki.Flags, pSlot *criptoki.SlotID, pReserved *byte) criptoki.RV {
	return unsupported()
}

var functionList *criptoki.FunctionList

func init() {
	functionList = &criptoki.FunctionList{
		Version: criptoki.Version{Major: 2, Minor: 40},

		C_Initialize:       C_Initialize,
		C_Finalize:         C_Finalize,
		C_GetInfo:          C_GetInfo,
		C_GetFunctionList:  C_GetFunctionList,
		C_GetSlotList:      C_GetSlotList,
		C_GetSlotInfo:      C_GetSlotInfo,
		C_GetTokenInfo:     C_GetTokenInfo,
		C_GetMechanismList: C_GetMechanismList,
		C_GetMechanismInfo: C_GetMechanismInfo,
		C_InitToken:        C_InitToken,
		C_InitPIN:          C_InitPIN,
		C_SetPIN:           C_SetPIN,

		C_OpenSession:       C_OpenSession,
		C_CloseSession:      C_CloseSession,
		C_CloseAllSessions:  C_CloseAllSessions,
		C_GetSessionInfo:    C_GetSessionInfo,
		C_GetOperationState: C_GetOperationState,
		C_SetOperationState: C_SetOperationState,
		C_Login:             C_Login,
		C_Logout:            C_Logout,

		C_CreateObject:      C_CreateObject,
		C_CopyObject:        C_CopyObject,
		C_DestroyObject:     C_DestroyObject,
		C_GetObjectSize:     C_GetObjectSize,
		C_GetAttributeValue: C_GetAttributeValue,
		C_SetAttributeValue: C_SetAttributeValue,
		C_FindObjectsInit:   C_FindObjectsInit,
		C_FindObjects:       C_FindObjects,
		C_FindObjectsFinal:  C_FindObjectsFinal,

		C_EncryptInit:   C_EncryptInit,
		C_Encrypt:       C_Encrypt,
		C_EncryptUpdate: C_EncryptUpdate,
		C_EncryptFinal:  C_EncryptFinal,
		C_DecryptInit:   C_DecryptInit,
		C_Decrypt:       C_Decrypt,
		C_DecryptUpdate: C_DecryptUpdate,
		C_DecryptFinal:  C_DecryptFinal,

		C_DigestInit:   C_DigestInit,
		C_Digest:       C_Digest,
		C_DigestUpdate: C_DigestUpdate,
		C_DigestKey:    C_DigestKey,
		C_DigestFinal:  C_DigestFinal,

		C_SignInit:        C_SignInit,
		C_Sign:            C_Sign,
		C_SignUpdate:      C_SignUpdate,
		C_SignFinal:       C_SignFinal,
		C_SignRecoverInit: C_SignRecoverInit,
		C_SignRecover:     C_SignRecover,

		C_VerifyInit:        C_VerifyInit,
		C_Verify:            C_Verify,
		C_VerifyUpdate:      C_VerifyUpdate,
		C_VerifyFinal:       C_VerifyFinal,
		C_VerifyRecoverInit: C_VerifyRecoverInit,
		C_VerifyRecover:     C_VerifyRecover,

		C_DigestEncryptUpdate: C_DigestEncryptUpdate,
		C_DecryptDigestUpdate: C_DecryptDigestUpdate,
		C_SignEncryptUpdate:   C_SignEncryptUpdate,
		C_DecryptVerifyUpdate: C_DecryptVerifyUpdate,

		C_GenerateKey:     C_GenerateKey,
		C_GenerateKeyPair: C_GenerateKeyPair,
		C_WrapKey:         C_WrapKey,
		C_UnwrapKey:       C_UnwrapKey,
		C_DeriveKey:       C_DeriveKey,

		C_SeedRandom:     C_SeedRandom,
		C_GenerateRandom: C_GenerateRandom,

		C_GetFunctionStatus: C_GetFunctionStatus,
		C_CancelFunction:    C_CancelFunction,
		C_WaitForSlotEvent:  C_WaitForSlotEvent,
	}
}
