// Heavily based on tests found in github.com/miekg/pkcs11
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package pkcs11_test

// These tests drive a built kmsp11.so through a real PKCS#11 client. They
// need a reachable key service, so they only run when the environment names
// the module:
//
//   KMSP11_TEST_MODULE: complete path to the built shared library
//   KMS_PKCS11_CONFIG:  configuration file the module should load

import (
	"os"
	"testing"

	"github.com/miekg/pkcs11"
)

func setenv(t *testing.T) *pkcs11.Ctx {
	t.Helper()
	module := os.Getenv("KMSP11_TEST_MODULE")
	if module == "" {
		t.Skip("KMSP11_TEST_MODULE is not set")
	}
	t.Logf("loading %s", module)
	p := pkcs11.New(module)
	if p == nil {
		t.Fatal("failed to load module")
	}
	return p
}

func TestInitialize(t *testing.T) {
	p := setenv(t)
	if e := p.Initialize(); e != nil {
		t.Fatalf("init error %s\n", e)
	}
	p.Finalize()
	p.Destroy()
}

func TestGetInfo(t *testing.T) {
	p := setenv(t)
	if e := p.Initialize(); e != nil {
		t.Fatalf("init error %s\n", e)
	}
	defer p.Destroy()
	defer p.Finalize()

	info, err := p.GetInfo()
	if err != nil {
		t.Fatalf("non zero error %s\n", err)
	}
	if info.ManufacturerID != "NICLabs" {
		t.Fatalf("ID should be NICLabs and is %s", info.ManufacturerID)
	}
	t.Logf("%+v\n", info)
}

func TestSlotsAndMechanisms(t *testing.T) {
	p := setenv(t)
	if e := p.Initialize(); e != nil {
		t.Fatalf("init error %s\n", e)
	}
	defer p.Destroy()
	defer p.Finalize()

	slots, err := p.GetSlotList(true)
	if err != nil {
		t.Fatalf("slots %s\n", err)
	}
	if len(slots) == 0 {
		t.Fatal("no slots configured")
	}
	mechanisms, err := p.GetMechanismList(slots[0])
	if err != nil {
		t.Fatalf("mechanisms %s\n", err)
	}
	if len(mechanisms) != 4 {
		t.Fatalf("expected 4 mechanisms, got %d", len(mechanisms))
	}
}

func TestFindAndReadObjects(t *testing.T) {
	p := setenv(t)
	if e := p.Initialize(); e != nil {
		t.Fatalf("init error %s\n", e)
	}
	defer p.Destroy()
	defer p.Finalize()

	slots, err := p.GetSlotList(true)
	if err != nil {
		t.Fatalf("slots %s\n", err)
	}
	session, err := p.OpenSession(slots[0], pkcs11.CKF_SERIAL_SESSION)
	if err != nil {
		t.Fatalf("session %s\n", err)
	}
	defer p.CloseSession(session)

	template := []*pkcs11.Attribute{
		pkcs11.NewAttribute(pkcs11.CKA_CLASS, pkcs11.CKO_PRIVATE_KEY),
	}
	if err := p.FindObjectsInit(session, template); err != nil {
		t.Fatalf("find init %s\n", err)
	}
	objects, _, err := p.FindObjects(session, 16)
	if err != nil {
		t.Fatalf("find %s\n", err)
	}
	if err := p.FindObjectsFinal(session); err != nil {
		t.Fatalf("find final %s\n", err)
	}
	for _, object := range objects {
		attrs, err := p.GetAttributeValue(session, object, []*pkcs11.Attribute{
			pkcs11.NewAttribute(pkcs11.CKA_LABEL, nil),
			pkcs11.NewAttribute(pkcs11.CKA_KEY_TYPE, nil),
		})
		if err != nil {
			t.Fatalf("attributes %s\n", err)
		}
		t.Logf("object %d label %q", object, string(attrs[0].Value))
	}
}

func TestSessionStateSharedAcrossSessions(t *testing.T) {
	p := setenv(t)
	if e := p.Initialize(); e != nil {
		t.Fatalf("init error %s\n", e)
	}
	defer p.Destroy()
	defer p.Finalize()

	slots, err := p.GetSlotList(true)
	if err != nil {
		t.Fatalf("slots %s\n", err)
	}
	s1, err := p.OpenSession(slots[0], pkcs11.CKF_SERIAL_SESSION)
	if err != nil {
		t.Fatalf("session %s\n", err)
	}
	s2, err := p.OpenSession(slots[0], pkcs11.CKF_SERIAL_SESSION)
	if err != nil {
		t.Fatalf("session %s\n", err)
	}
	defer p.CloseSession(s1)
	defer p.CloseSession(s2)

	if err := p.Login(s1, pkcs11.CKU_USER, ""); err != nil {
		t.Fatalf("login %s\n", err)
	}
	info, err := p.GetSessionInfo(s2)
	if err != nil {
		t.Fatalf("session info %s\n", err)
	}
	if info.State != pkcs11.CKS_RO_USER_FUNCTIONS {
		t.Fatalf("expected user state on the second session, got %d", info.State)
	}
	p.Logout(s1)
}
