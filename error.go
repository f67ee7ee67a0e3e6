package main

import (
	"errors"

	"github.com/niclabs/kmsp11/criptoki"
	"github.com/niclabs/kmsp11/objects"
)

// ErrorToRV extracts the return value from an error, and logs it. The bridge
// is the only place a return value is produced from an internal error.
func ErrorToRV(err error) criptoki.RV {
	if err == nil {
		return criptoki.CKR_OK
	}
	var p11err *objects.P11Error
	if errors.As(err, &p11err) {
		lg.Errorf("[%s] %s [Code 0x%x]", p11err.Who, p11err.Description, uint64(p11err.Code))
		return p11err.Code
	}
	lg.Errorf("[general error] %+v [Code 0x%x]", err, uint64(criptoki.CKR_GENERAL_ERROR))
	return criptoki.CKR_GENERAL_ERROR
}
