package objects

import (
	"fmt"

	"github.com/niclabs/kmsp11/criptoki"
)

// Descriptive strings and versions reported through the info structs.
const (
	ManufacturerID = "NICLabs"
	Model          = "Cloud KMS"
	VersionMajor   = 1
	VersionMinor   = 0
)

// A slot is a fixed position in the configured token list. The token is
// installed at construction and never removed, so the slot is little more
// than its index plus descriptive info.
type Slot struct {
	ID    criptoki.SlotID
	token *Token
}

func NewSlot(id criptoki.SlotID, token *Token) *Slot {
	return &Slot{ID: id, token: token}
}

func (slot *Slot) GetToken() *Token {
	return slot.token
}

func (slot *Slot) GetInfo(info *criptoki.SlotInfo) error {
	if info == nil {
		return NewError("Slot.GetInfo", "got NULL pointer", criptoki.CKR_ARGUMENTS_BAD)
	}
	*info = criptoki.SlotInfo{
		Flags:           criptoki.CKF_TOKEN_PRESENT,
		HardwareVersion: criptoki.Version{Major: VersionMajor, Minor: VersionMinor},
		FirmwareVersion: criptoki.Version{Major: VersionMajor, Minor: VersionMinor},
	}
	criptoki.PadSlice(info.SlotDescription[:], fmt.Sprintf("Cloud KMS slot (%s)", slot.token.Label))
	criptoki.PadSlice(info.ManufacturerID[:], ManufacturerID)
	return nil
}
