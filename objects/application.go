package objects

import (
	"context"
	"sync"

	"github.com/niclabs/kmsp11/core"
	"github.com/niclabs/kmsp11/criptoki"
)

// Application is the provider state behind the initialization latch: the
// token per configured key ring, the session table, and the handle
// counters. It is constructed whole by NewApplication or not at all; a
// failure while building any token discards everything.
type Application struct {
	Config *core.Config
	KMS    core.KeyManagementClient
	Slots  []*Slot

	sessionMu         sync.RWMutex
	sessions          Sessions
	nextSessionHandle criptoki.SessionHandle
	nextObjectHandle  criptoki.ObjectHandle
}

func NewApplication(ctx context.Context, config *core.Config, client core.KeyManagementClient) (*Application, error) {
	app := &Application{
		Config:   config,
		KMS:      client,
		Slots:    make([]*Slot, len(config.Tokens)),
		sessions: make(Sessions),
	}
	for i, tokenConf := range config.Tokens {
		entries, err := core.LoadKeyRing(ctx, client, tokenConf.KeyRing, config.GenerateCerts)
		if err != nil {
			return nil, WrapRemoteError("NewApplication", err)
		}
		token, err := NewToken(tokenConf.Label, entries, app.mintObjectHandle)
		if err != nil {
			return nil, err
		}
		app.Slots[i] = NewSlot(criptoki.SlotID(i), token)
	}
	return app, nil
}

// mintObjectHandle hands out object handles during token construction.
// Handles are provider-global, so a handle can never be valid on two tokens.
func (app *Application) mintObjectHandle() criptoki.ObjectHandle {
	app.nextObjectHandle++
	return app.nextObjectHandle
}

// Finalize drops every session and closes the key service connection.
func (app *Application) Finalize() error {
	app.sessionMu.Lock()
	app.sessions = make(Sessions)
	app.sessionMu.Unlock()
	return app.KMS.Close()
}

func (app *Application) GetSlot(id criptoki.SlotID) (*Slot, error) {
	if int(id) >= len(app.Slots) {
		return nil, NewError("Application.GetSlot", "index out of bounds", criptoki.CKR_SLOT_ID_INVALID)
	}
	return app.Slots[int(id)], nil
}

// OpenSession validates the session flags against the write-protected token
// and installs a session with no active operation. Handles count up from 1
// and are never reused within the process lifetime.
func (app *Application) OpenSession(slotID criptoki.SlotID, flags criptoki.Flags) (criptoki.SessionHandle, error) {
	if flags&criptoki.CKF_SERIAL_SESSION == 0 {
		return 0, NewError("Application.OpenSession", "parallel sessions are not supported", criptoki.CKR_SESSION_PARALLEL_NOT_SUPPORTED)
	}
	if flags&criptoki.CKF_RW_SESSION != 0 {
		return 0, NewError("Application.OpenSession", "the token is write protected", criptoki.CKR_TOKEN_WRITE_PROTECTED)
	}
	slot, err := app.GetSlot(slotID)
	if err != nil {
		return 0, err
	}
	app.sessionMu.Lock()
	defer app.sessionMu.Unlock()
	app.nextSessionHandle++
	session := &Session{
		Handle: app.nextSessionHandle,
		Slot:   slot,
		app:    app,
		flags:  flags,
	}
	app.sessions[session.Handle] = session
	return session.Handle, nil
}

func (app *Application) CloseSession(handle criptoki.SessionHandle) error {
	app.sessionMu.Lock()
	defer app.sessionMu.Unlock()
	if _, ok := app.sessions[handle]; !ok {
		return NewError("Application.CloseSession", "session not found", criptoki.CKR_SESSION_HANDLE_INVALID)
	}
	delete(app.sessions, handle)
	return nil
}

// CloseAllSessions drops every session on one slot.
func (app *Application) CloseAllSessions(slotID criptoki.SlotID) error {
	if _, err := app.GetSlot(slotID); err != nil {
		return err
	}
	app.sessionMu.Lock()
	defer app.sessionMu.Unlock()
	for handle, session := range app.sessions {
		if session.Slot.ID == slotID {
			delete(app.sessions, handle)
		}
	}
	return nil
}

func (app *Application) GetSession(handle criptoki.SessionHandle) (*Session, error) {
	app.sessionMu.RLock()
	defer app.sessionMu.RUnlock()
	session, ok := app.sessions[handle]
	if !ok {
		return nil, NewError("Application.GetSession", "session not found", criptoki.CKR_SESSION_HANDLE_INVALID)
	}
	return session, nil
}
