package criptoki

// InitArgs mirrors CK_C_INITIALIZE_ARGS. Reserved carries the configuration
// file path when the caller passes one through pReserved; the empty string
// stands for NULL.
type InitArgs struct {
	Flags    Flags
	Reserved string
}

// FunctionList mirrors CK_FUNCTION_LIST: the versioned table of entry points
// a caller obtains through C_GetFunctionList. The cgo shim wires the C table
// to these fields one to one.
type FunctionList struct {
	Version Version

	C_Initialize       func(pInitArgs *InitArgs) RV
	C_Finalize         func(pReserved *byte) RV
	C_GetInfo          func(pInfo *Info) RV
	C_GetFunctionList  func(ppFunctionList **FunctionList) RV
	C_GetSlotList      func(tokenPresent bool, pSlotList []SlotID, pulCount *ULong) RV
	C_GetSlotInfo      func(slotID SlotID, pInfo *SlotInfo) RV
	C_GetTokenInfo     func(slotID SlotID, pInfo *TokenInfo) RV
	C_GetMechanismList func(slotID SlotID, pMechanismList []MechanismType, pulCount *ULong) RV
	C_GetMechanismInfo func(slotID SlotID, mechType MechanismType, pInfo *MechanismInfo) RV
	C_InitToken        func(slotID SlotID, pPin []byte, pLabel []byte) RV
	C_InitPIN          func(hSession SessionHandle, pPin []byte) RV
	C_SetPIN           func(hSession SessionHandle, pOldPin, pNewPin []byte) RV

	C_OpenSession       func(slotID SlotID, flags Flags, pApplication *byte, notify Notify, phSession *SessionHandle) RV
	C_CloseSession      func(hSession SessionHandle) RV
	C_CloseAllSessions  func(slotID SlotID) RV
	C_GetSessionInfo    func(hSession SessionHandle, pInfo *SessionInfo) RV
	C_GetOperationState func(hSession SessionHandle, pOperationState []byte, pulOperationStateLen *ULong) RV
	C_SetOperationState func(hSession SessionHandle, pOperationState []byte, hEncryptionKey, hAuthenticationKey ObjectHandle) RV
	C_Login             func(hSession SessionHandle, userType UserType, pPin []byte) RV
	C_Logout            func(hSession SessionHandle) RV

	C_CreateObject      func(hSession SessionHandle, pTemplate []Attribute, ulCount ULong, phObject *ObjectHandle) RV
	C_CopyObject        func(hSession SessionHandle, hObject ObjectHandle, pTemplate []Attribute, ulCount ULong, phNewObject *ObjectHandle) RV
	C_DestroyObject     func(hSession SessionHandle, hObject ObjectHandle) RV
	C_GetObjectSize     func(hSession SessionHandle, hObject ObjectHandle, pulSize *ULong) RV
	C_GetAttributeValue func(hSession SessionHandle, hObject ObjectHandle, pTemplate []Attribute, ulCount ULong) RV
	C_SetAttributeValue func(hSession SessionHandle, hObject ObjectHandle, pTemplate []Attribute, ulCount ULong) RV
	C_FindObjectsInit   func(hSession SessionHandle, pTemplate []Attribute, ulCount ULong) RV
	C_FindObjects       func(hSession SessionHandle, phObject []ObjectHandle, ulMaxObjectCount ULong, pulObjectCount *ULong) RV
	C_FindObjectsFinal  func(hSession SessionHandle) RV

	C_EncryptInit   func(hSession SessionHandle, pMechanism *Mechanism, hKey ObjectHandle) RV
	C_Encrypt       func(hSession SessionHandle, pData []byte, pEncryptedData []byte, pulEncryptedDataLen *ULong) RV
	C_EncryptUpdate func(hSession SessionHandle, pPart []byte, pEncryptedPart []byte, pulEncryptedPartLen *ULong) RV
	C_EncryptFinal  func(hSession SessionHandle, pLastEncryptedPart []byte, pulLastEncryptedPartLen *ULong) RV
	C_DecryptInit   func(hSession SessionHandle, pMechanism *Mechanism, hKey ObjectHandle) RV
	C_Decrypt       func(hSession SessionHandle, pEncryptedData []byte, pData []byte, pulDataLen *ULong) RV
	C_DecryptUpdate func(hSession SessionHandle, pEncryptedPart []byte, pPart []byte, pulPartLen *ULong) RV
	C_DecryptFinal  func(hSession SessionHandle, pLastPart []byte, pulLastPartLen *ULong) RV

	C_DigestInit   func(hSession SessionHandle, pMechanism *Mechanism) RV
	C_Digest       func(hSession SessionHandle, pData []byte, pDigest []byte, pulDigestLen *ULong) RV
	C_DigestUpdate func(hSession SessionHandle, pPart []byte) RV
	C_DigestKey    func(hSession SessionHandle, hKey ObjectHandle) RV
	C_DigestFinal  func(hSession SessionHandle, pDigest []byte, pulDigestLen *ULong) RV

	C_SignInit        func(hSession SessionHandle, pMechanism *Mechanism, hKey ObjectHandle) RV
	C_Sign            func(hSession SessionHandle, pData []byte, pSignature []byte, pulSignatureLen *ULong) RV
	C_SignUpdate      func(hSession SessionHandle, pPart []byte) RV
	C_SignFinal       func(hSession SessionHandle, pSignature []byte, pulSignatureLen *ULong) RV
	C_SignRecoverInit func(hSession SessionHandle, pMechanism *Mechanism, hKey ObjectHandle) RV
	C_SignRecover     func(hSession SessionHandle, pData []byte, pSignature []byte, pulSignatureLen *ULong) RV

	C_VerifyInit        func(hSession SessionHandle, pMechanism *Mechanism, hKey ObjectHandle) RV
	C_Verify            func(hSession SessionHandle, pData []byte, pSignature []byte) RV
	C_VerifyUpdate      func(hSession SessionHandle, pPart []byte) RV
	C_VerifyFinal       func(hSession SessionHandle, pSignature []byte) RV
	C_VerifyRecoverInit func(hSession SessionHandle, pMechanism *Mechanism, hKey ObjectHandle) RV
	C_VerifyRecover     func(hSession SessionHandle, pSignature []byte, pData []byte, pulDataLen *ULong) RV

	C_DigestEncryptUpdate func(hSession SessionHandle, pPart []byte, pEncryptedPart []byte, pulEncryptedPartLen *ULong) RV
	C_DecryptDigestUpdate func(hSession SessionHandle, pEncryptedPart []byte, pPart []byte, pulPartLen *ULong) RV
	C_SignEncryptUpdate   func(hSession SessionHandle, pPart []byte, pEncryptedPart []byte, pulEncryptedPartLen *ULong) RV
	C_DecryptVerifyUpdate func(hSession SessionHandle, pEncryptedPart []byte, pPart []byte, pulPartLen *ULong) RV

	C_GenerateKey     func(hSession SessionHandle, pMechanism *Mechanism, pTemplate []Attribute, ulCount ULong, phKey *ObjectHandle) RV
	C_GenerateKeyPair func(hSession SessionHandle, pMechanism *Mechanism, pPublicKeyTemplate []Attribute, ulPublicKeyAttributeCount ULong, pPrivateKeyTemplate []Attribute, ulPrivateKeyAttributeCount ULong, phPublicKey, phPrivateKey *ObjectHandle) RV
	C_WrapKey         func(hSession SessionHandle, pMechanism *Mechanism, hWrappingKey, hKey ObjectHandle, pWrappedKey []byte, pulWrappedKeyLen *ULong) RV
	C_UnwrapKey       func(hSession SessionHandle, pMechanism *Mechanism, hUnwrappingKey ObjectHandle, pWrappedKey []byte, pTemplate []Attribute, ulAttributeCount ULong, phKey *ObjectHandle) RV
	C_DeriveKey       func(hSession SessionHandle, pMechanism *Mechanism, hBaseKey ObjectHandle, pTemplate []Attribute, ulAttributeCount ULong, phKey *ObjectHandle) RV

	C_SeedRandom     func(hSession SessionHandle, pSeed []byte) RV
	C_GenerateRandom func(hSession SessionHandle, pRandomData []byte) RV

	C_GetFunctionStatus func(hSession SessionHandle) RV
	C_CancelFunction    func(hSession SessionHandle) RV
	C_WaitForSlotEvent  func(flags Flags, pSlot *SlotID, pReserved *byte) RV
}
