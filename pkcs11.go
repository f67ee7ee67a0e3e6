package main

import (
	"context"
	"io"
	"os"
	"sync"

	"github.com/google/logger"
	"google.golang.org/grpc/codes"

	"github.com/niclabs/kmsp11/core"
	"github.com/niclabs/kmsp11/criptoki"
	"github.com/niclabs/kmsp11/objects"
)

// App is the provider singleton. appMu is the initialization latch:
// C_Initialize and C_Finalize take it exclusively, every other entry point
// takes it shared, so a caller can never observe a half-built provider.
var (
	appMu sync.RWMutex
	App   *objects.Application
)

// newKMSClient is swapped out by tests to run the bridge against a mock key
// service.
var newKMSClient = core.NewKMSClient

// lg is the provider's logger. Init is re-run on every C_Initialize so the
// configured log file takes effect; the instance is used directly because
// the package-level default only binds to the first Init of the process.
var (
	lg      = logger.Init("kmsp11", false, false, io.Discard)
	logFile *os.File
)

func initLogger(config *core.Config) {
	out := io.Writer(os.Stderr)
	if config.LogFile != "" {
		f, err := os.OpenFile(config.LogFile, os.O_RDWR|os.O_APPEND|os.O_CREATE, 0o644)
		if err != nil {
			lg = logger.Init("kmsp11", false, false, os.Stderr)
			lg.Errorf("cannot create logfile in given path: %s", err)
			return
		}
		logFile = f
		out = f
	}
	lg = logger.Init("kmsp11", false, false, out)
}

func closeLogger() {
	lg = logger.Init("kmsp11", false, false, io.Discard)
	if logFile != nil {
		logFile.Close()
		logFile = nil
	}
}

func C_Initialize(pInitArgs *criptoki.InitArgs) criptoki.RV {
	appMu.Lock()
	defer appMu.Unlock()
	if App != nil {
		return criptoki.CKR_CRYPTOKI_ALREADY_INITIALIZED
	}

	reserved := ""
	if pInitArgs != nil {
		reserved = pInitArgs.Reserved
	}
	path, err := core.ResolveConfigPath(reserved)
	if err != nil {
		return ErrorToRV(objects.NewErrorKind("C_Initialize", err.Error(),
			codes.FailedPrecondition, criptoki.CKR_ARGUMENTS_BAD))
	}
	config, err := core.LoadConfig(path)
	if err != nil {
		return ErrorToRV(objects.NewErrorKind("C_Initialize", err.Error(),
			codes.FailedPrecondition, criptoki.CKR_GENERAL_ERROR))
	}
	initLogger(config)

	ctx := context.Background()
	client, err := newKMSClient(ctx, config)
	if err != nil {
		closeLogger()
		return ErrorToRV(objects.NewError("C_Initialize", err.Error(), criptoki.CKR_DEVICE_ERROR))
	}
	app, err := objects.NewApplication(ctx, config, client)
	if err != nil {
		client.Close()
		closeLogger()
		return ErrorToRV(err)
	}
	App = app
	lg.Infof("provider initialized with %d token(s)", len(app.Slots))
	return criptoki.CKR_OK
}

func C_Finalize(pReserved *byte) criptoki.RV {
	appMu.Lock()
	defer appMu.Unlock()
	if App == nil {
		return criptoki.CKR_CRYPTOKI_NOT_INITIALIZED
	}
	if pReserved != nil {
		return criptoki.CKR_ARGUMENTS_BAD
	}
	err := App.Finalize()
	App = nil
	closeLogger()
	return ErrorToRV(err)
}

func C_GetInfo(pInfo *criptoki.Info) criptoki.RV {
	appMu.RLock()
	defer appMu.RUnlock()
	if App == nil {
		return criptoki.CKR_CRYPTOKI_NOT_INITIALIZED
	}
	if pInfo == nil {
		return criptoki.CKR_ARGUMENTS_BAD
	}
	*pInfo = criptoki.Info{
		CryptokiVersion: criptoki.Version{Major: 2, Minor: 40},
		LibraryVersion:  criptoki.Version{Major: objects.VersionMajor, Minor: objects.VersionMinor},
	}
	criptoki.PadSlice(pInfo.ManufacturerID[:], objects.ManufacturerID)
	criptoki.PadSlice(pInfo.LibraryDescription[:], "Cloud KMS PKCS#11 library")
	return criptoki.CKR_OK
}

func C_GetFunctionList(ppFunctionList **criptoki.FunctionList) criptoki.RV {
	if ppFunctionList == nil {
		return criptoki.CKR_ARGUMENTS_BAD
	}
	*ppFunctionList = functionList
	return criptoki.CKR_OK
}

func C_GetSlotList(tokenPresent bool, pSlotList []criptoki.SlotID, pulCount *criptoki.ULong) criptoki.RV {
	appMu.RLock()
	defer appMu.RUnlock()
	if App == nil {
		return criptoki.CKR_CRYPTOKI_NOT_INITIALIZED
	}
	if pulCount == nil {
		return criptoki.CKR_ARGUMENTS_BAD
	}
	count := criptoki.ULong(len(App.Slots))
	if pSlotList == nil {
		*pulCount = count
		return criptoki.CKR_OK
	}
	if criptoki.ULong(len(pSlotList)) < count {
		*pulCount = count
		return criptoki.CKR_BUFFER_TOO_SMALL
	}
	for i := range App.Slots {
		pSlotList[i] = criptoki.SlotID(i)
	}
	*pulCount = count
	return criptoki.CKR_OK
}

func C_GetSlotInfo(slotID criptoki.SlotID, pInfo *criptoki.SlotInfo) criptoki.RV {
	appMu.RLock()
	defer appMu.RUnlock()
	if App == nil {
		return criptoki.CKR_CRYPTOKI_NOT_INITIALIZED
	}
	slot, err := App.GetSlot(slotID)
	if err != nil {
		return ErrorToRV(err)
	}
	return ErrorToRV(slot.GetInfo(pInfo))
}

func C_GetTokenInfo(slotID criptoki.SlotID, pInfo *criptoki.TokenInfo) criptoki.RV {
	appMu.RLock()
	defer appMu.RUnlock()
	if App == nil {
		return criptoki.CKR_CRYPTOKI_NOT_INITIALIZED
	}
	slot, err := App.GetSlot(slotID)
	if err != nil {
		return ErrorToRV(err)
	}
	return ErrorToRV(slot.GetToken().GetInfo(pInfo))
}

func C_GetMechanismList(slotID criptoki.SlotID, pMechanismList []criptoki.MechanismType, pulCount *criptoki.ULong) criptoki.RV {
	appMu.RLock()
	defer appMu.RUnlock()
	if App == nil {
		return criptoki.CKR_CRYPTOKI_NOT_INITIALIZED
	}
	if _, err := App.GetSlot(slotID); err != nil {
		return ErrorToRV(err)
	}
	if pulCount == nil {
		return criptoki.CKR_ARGUMENTS_BAD
	}
	mechanisms := objects.Mechanisms()
	count := criptoki.ULong(len(mechanisms))
	if pMechanismList == nil {
		*pulCount = count
		return criptoki.CKR_OK
	}
	if criptoki.ULong(len(pMechanismList)) < count {
		*pulCount = count
		return criptoki.CKR_BUFFER_TOO_SMALL
	}
	copy(pMechanismList, mechanisms)
	*pulCount = count
	return criptoki.CKR_OK
}

func C_GetMechanismInfo(slotID criptoki.SlotID, mechType criptoki.MechanismType, pInfo *criptoki.MechanismInfo) criptoki.RV {
	appMu.RLock()
	defer appMu.RUnlock()
	if App == nil {
		return criptoki.CKR_CRYPTOKI_NOT_INITIALIZED
	}
	if _, err := App.GetSlot(slotID); err != nil {
		return ErrorToRV(err)
	}
	info, err := objects.MechanismInfo(mechType)
	if err != nil {
		return ErrorToRV(err)
	}
	if pInfo == nil {
		return criptoki.CKR_ARGUMENTS_BAD
	}
	*pInfo = info
	return criptoki.CKR_OK
}

func C_OpenSession(slotID criptoki.SlotID, flags criptoki.Flags, pApplication *byte, notify criptoki.Notify, phSession *criptoki.SessionHandle) criptoki.RV {
	appMu.RLock()
	defer appMu.RUnlock()
	if App == nil {
		return criptoki.CKR_CRYPTOKI_NOT_INITIALIZED
	}
	if phSession == nil {
		return criptoki.CKR_ARGUMENTS_BAD
	}
	handle, err := App.OpenSession(slotID, flags)
	if err != nil {
		return ErrorToRV(err)
	}
	*phSession = handle
	return criptoki.CKR_OK
}

func C_CloseSession(hSession criptoki.SessionHandle) criptoki.RV {
	appMu.RLock()
	defer appMu.RUnlock()
	if App == nil {
		return criptoki.CKR_CRYPTOKI_NOT_INITIALIZED
	}
	return ErrorToRV(App.CloseSession(hSession))
}

func C_CloseAllSessions(slotID criptoki.SlotID) criptoki.RV {
	appMu.RLock()
	defer appMu.RUnlock()
	if App == nil {
		return criptoki.CKR_CRYPTOKI_NOT_INITIALIZED
	}
	return ErrorToRV(App.CloseAllSessions(slotID))
}

func C_GetSessionInfo(hSession criptoki.SessionHandle, pInfo *criptoki.SessionInfo) criptoki.RV {
	appMu.RLock()
	defer appMu.RUnlock()
	if App == nil {
		return criptoki.CKR_CRYPTOKI_NOT_INITIALIZED
	}
	session, err := App.GetSession(hSession)
	if err != nil {
		return ErrorToRV(err)
	}
	return ErrorToRV(session.GetInfo(pInfo))
}

func C_Login(hSession criptoki.SessionHandle, userType criptoki.UserType, pPin []byte) criptoki.RV {
	appMu.RLock()
	defer appMu.RUnlock()
	if App == nil {
		return criptoki.CKR_CRYPTOKI_NOT_INITIALIZED
	}
	session, err := App.GetSession(hSession)
	if err != nil {
		return ErrorToRV(err)
	}
	// The PIN is not consulted; access control is the key service's.
	return ErrorToRV(session.Slot.GetToken().Login(userType))
}

func C_Logout(hSession criptoki.SessionHandle) criptoki.RV {
	appMu.RLock()
	defer appMu.RUnlock()
	if App == nil {
		return criptoki.CKR_CRYPTOKI_NOT_INITIALIZED
	}
	session, err := App.GetSession(hSession)
	if err != nil {
		return ErrorToRV(err)
	}
	return ErrorToRV(session.Slot.GetToken().Logout())
}

func C_GetAttributeValue(hSession criptoki.SessionHandle, hObject criptoki.ObjectHandle, pTemplate []criptoki.Attribute, ulCount criptoki.ULong) criptoki.RV {
	appMu.RLock()
	defer appMu.RUnlock()
	if App == nil {
		return criptoki.CKR_CRYPTOKI_NOT_INITIALIZED
	}
	session, err := App.GetSession(hSession)
	if err != nil {
		return ErrorToRV(err)
	}
	object, err := session.GetObject(hObject)
	if err != nil {
		return ErrorToRV(err)
	}
	if pTemplate == nil && ulCount > 0 {
		return criptoki.CKR_ARGUMENTS_BAD
	}
	return ErrorToRV(object.GetAttributeValue(pTemplate))
}

func C_FindObjectsInit(hSession criptoki.SessionHandle, pTemplate []criptoki.Attribute, ulCount criptoki.ULong) criptoki.RV {
	appMu.RLock()
	defer appMu.RUnlock()
	if App == nil {
		return criptoki.CKR_CRYPTOKI_NOT_INITIALIZED
	}
	session, err := App.GetSession(hSession)
	if err != nil {
		return ErrorToRV(err)
	}
	if pTemplate == nil && ulCount > 0 {
		return criptoki.CKR_ARGUMENTS_BAD
	}
	return ErrorToRV(session.FindObjectsInit(pTemplate))
}

func C_FindObjects(hSession criptoki.SessionHandle, phObject []criptoki.ObjectHandle, ulMaxObjectCount criptoki.ULong, pulObjectCount *criptoki.ULong) criptoki.RV {
	appMu.RLock()
	defer appMu.RUnlock()
	if App == nil {
		return criptoki.CKR_CRYPTOKI_NOT_INITIALIZED
	}
	session, err := App.GetSession(hSession)
	if err != nil {
		return ErrorToRV(err)
	}
	if phObject == nil || pulObjectCount == nil {
		return criptoki.CKR_ARGUMENTS_BAD
	}
	found, err := session.FindObjects(ulMaxObjectCount)
	if err != nil {
		return ErrorToRV(err)
	}
	*pulObjectCount = criptoki.ULong(copy(phObject, found))
	return criptoki.CKR_OK
}

func C_FindObjectsFinal(hSession criptoki.SessionHandle) criptoki.RV {
	appMu.RLock()
	defer appMu.RUnlock()
	if App == nil {
		return criptoki.CKR_CRYPTOKI_NOT_INITIALIZED
	}
	session, err := App.GetSession(hSession)
	if err != nil {
		return ErrorToRV(err)
	}
	return ErrorToRV(session.FindObjectsFinal())
}

func C_SignInit(hSession criptoki.SessionHandle, pMechanism *criptoki.Mechanism, hKey criptoki.ObjectHandle) criptoki.RV {
	appMu.RLock()
	defer appMu.RUnlock()
	if App == nil {
		return criptoki.CKR_CRYPTOKI_NOT_INITIALIZED
	}
	session, err := App.GetSession(hSession)
	if err != nil {
		return ErrorToRV(err)
	}
	return ErrorToRV(session.SignInit(pMechanism, hKey))
}

func C_Sign(hSession criptoki.SessionHandle, pData []byte, pSignature []byte, pulSignatureLen *criptoki.ULong) criptoki.RV {
	appMu.RLock()
	defer appMu.RUnlock()
	if App == nil {
		return criptoki.CKR_CRYPTOKI_NOT_INITIALIZED
	}
	session, err := App.GetSession(hSession)
	if err != nil {
		return ErrorToRV(err)
	}
	if pData == nil || pulSignatureLen == nil {
		return criptoki.CKR_ARGUMENTS_BAD
	}
	return ErrorToRV(session.Sign(pData, pSignature, pulSignatureLen))
}

func C_DecryptInit(hSession criptoki.SessionHandle, pMechanism *criptoki.Mechanism, hKey criptoki.ObjectHandle) criptoki.RV {
	appMu.RLock()
	defer appMu.RUnlock()
	if App == nil {
		return criptoki.CKR_CRYPTOKI_NOT_INITIALIZED
	}
	session, err := App.GetSession(hSession)
	if err != nil {
		return ErrorToRV(err)
	}
	return ErrorToRV(session.DecryptInit(pMechanism, hKey))
}

func C_Decrypt(hSession criptoki.SessionHandle, pEncryptedData []byte, pData []byte, pulDataLen *criptoki.ULong) criptoki.RV {
	appMu.RLock()
	defer appMu.RUnlock()
	if App == nil {
		return criptoki.CKR_CRYPTOKI_NOT_INITIALIZED
	}
	session, err := App.GetSession(hSession)
	if err != nil {
		return ErrorToRV(err)
	}
	if pEncryptedData == nil || pulDataLen == nil {
		return criptoki.CKR_ARGUMENTS_BAD
	}
	return ErrorToRV(session.Decrypt(pEncryptedData, pData, pulDataLen))
}
