package objects

import (
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/niclabs/kmsp11/core"
	"github.com/niclabs/kmsp11/criptoki"
)

// Security level of a token. There is no Security Officer level: the SO role
// is permanently locked on this token.
type SecurityLevel int

const (
	Public SecurityLevel = iota
	User
)

// A token of the PKCS#11 device: the objects derived from one remote key
// ring plus the login view every session on the slot shares. The object
// table is frozen at construction; only the security level mutates
// afterwards, under the token lock.
type Token struct {
	Label   string
	Objects CryptoObjects

	serialNumber  string
	ordered       []criptoki.ObjectHandle
	tokenFlags    criptoki.Flags
	mu            sync.Mutex
	securityLevel SecurityLevel
}

// NewToken materializes a token from the key entries fetched out of one key
// ring. Object handles are drawn from nextHandle; this is the only moment
// handles are minted.
func NewToken(label string, entries []core.KeyEntry, nextHandle func() criptoki.ObjectHandle) (*Token, error) {
	if len(label) > 32 {
		return nil, NewError("NewToken", "label with more than 32 chars", criptoki.CKR_ARGUMENTS_BAD)
	}
	token := &Token{
		Label:        label,
		Objects:      make(CryptoObjects),
		serialNumber: strings.ReplaceAll(uuid.NewString(), "-", "")[:16],
		tokenFlags: criptoki.CKF_WRITE_PROTECTED |
			criptoki.CKF_USER_PIN_INITIALIZED |
			criptoki.CKF_TOKEN_INITIALIZED,
	}
	for _, entry := range entries {
		objects, err := NewKeyObjects(entry, nextHandle)
		if err != nil {
			return nil, err
		}
		for _, object := range objects {
			token.Objects[object.Handle] = object
			token.ordered = append(token.ordered, object.Handle)
		}
	}
	return token, nil
}

// GetInfo fills a CK_TOKEN_INFO. Session counts and memory gauges are not
// tracked per token and report as unavailable; PIN bounds are zero because
// no PIN is ever checked.
func (token *Token) GetInfo(info *criptoki.TokenInfo) error {
	if info == nil {
		return NewError("Token.GetInfo", "got NULL pointer", criptoki.CKR_ARGUMENTS_BAD)
	}
	*info = criptoki.TokenInfo{
		Flags:              token.tokenFlags,
		MaxSessionCount:    criptoki.CK_EFFECTIVELY_INFINITE,
		SessionCount:       criptoki.CK_UNAVAILABLE_INFORMATION,
		MaxRwSessionCount:  0,
		RwSessionCount:     criptoki.CK_UNAVAILABLE_INFORMATION,
		TotalPublicMemory:  criptoki.CK_UNAVAILABLE_INFORMATION,
		FreePublicMemory:   criptoki.CK_UNAVAILABLE_INFORMATION,
		TotalPrivateMemory: criptoki.CK_UNAVAILABLE_INFORMATION,
		FreePrivateMemory:  criptoki.CK_UNAVAILABLE_INFORMATION,
		HardwareVersion:    criptoki.Version{Major: VersionMajor, Minor: VersionMinor},
		FirmwareVersion:    criptoki.Version{Major: VersionMajor, Minor: VersionMinor},
	}
	criptoki.PadSlice(info.Label[:], token.Label)
	criptoki.PadSlice(info.ManufacturerID[:], ManufacturerID)
	criptoki.PadSlice(info.Model[:], Model)
	criptoki.PadSlice(info.SerialNumber[:], token.serialNumber)
	criptoki.PadSlice(info.UTCTime[:], "")
	return nil
}

// SecurityLevel returns the login view shared by every session on the slot.
func (token *Token) SecurityLevel() SecurityLevel {
	token.mu.Lock()
	defer token.mu.Unlock()
	return token.securityLevel
}

// Login moves the token to the user view. The PIN is not consulted:
// authentication is federated through the key service's own credentials.
func (token *Token) Login(userType criptoki.UserType) error {
	switch userType {
	case criptoki.CKU_SO:
		return NewError("Token.Login", "the security officer role is locked", criptoki.CKR_PIN_LOCKED)
	case criptoki.CKU_USER:
		token.mu.Lock()
		defer token.mu.Unlock()
		if token.securityLevel == User {
			return NewError("Token.Login", "user already logged in", criptoki.CKR_USER_ALREADY_LOGGED_IN)
		}
		token.securityLevel = User
		return nil
	case criptoki.CKU_CONTEXT_SPECIFIC:
		return NewError("Token.Login", "context-specific login requires an active operation", criptoki.CKR_OPERATION_NOT_INITIALIZED)
	default:
		return NewError("Token.Login", "bad userType", criptoki.CKR_USER_TYPE_INVALID)
	}
}

// Logout moves the token back to the public view, observable by every
// session on the slot.
func (token *Token) Logout() error {
	token.mu.Lock()
	defer token.mu.Unlock()
	if token.securityLevel == Public {
		return NewError("Token.Logout", "user is not logged in", criptoki.CKR_USER_NOT_LOGGED_IN)
	}
	token.securityLevel = Public
	return nil
}

// GetObject returns the object that uses the handle provided.
func (token *Token) GetObject(handle criptoki.ObjectHandle) (*CryptoObject, error) {
	object, ok := token.Objects[handle]
	if !ok {
		return nil, NewError("Token.GetObject", "object not found", criptoki.CKR_OBJECT_HANDLE_INVALID)
	}
	return object, nil
}

// FindObjects returns the handles of every object matching the template, in
// construction order. A nil template matches everything.
func (token *Token) FindObjects(template []criptoki.Attribute) []criptoki.ObjectHandle {
	var found []criptoki.ObjectHandle
	for _, handle := range token.ordered {
		if token.Objects[handle].Match(template) {
			found = append(found, handle)
		}
	}
	return found
}
