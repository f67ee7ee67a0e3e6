package objects

import (
	"fmt"

	"github.com/niclabs/kmsp11/criptoki"
)

// The mechanisms the token supports, in the order GetMechanismList reports
// them. The set is fixed: it mirrors what the key service can do with
// asymmetric keys, not what the local process could compute.
var mechanismTypes = []criptoki.MechanismType{
	criptoki.CKM_RSA_PKCS,
	criptoki.CKM_RSA_PKCS_OAEP,
	criptoki.CKM_RSA_PKCS_PSS,
	criptoki.CKM_ECDSA,
}

var mechanismInfos = map[criptoki.MechanismType]criptoki.MechanismInfo{
	criptoki.CKM_RSA_PKCS: {
		MinKeySize: 2048, MaxKeySize: 4096, Flags: criptoki.CKF_SIGN,
	},
	criptoki.CKM_RSA_PKCS_PSS: {
		MinKeySize: 2048, MaxKeySize: 4096, Flags: criptoki.CKF_SIGN,
	},
	criptoki.CKM_RSA_PKCS_OAEP: {
		MinKeySize: 2048, MaxKeySize: 4096, Flags: criptoki.CKF_DECRYPT,
	},
	criptoki.CKM_ECDSA: {
		MinKeySize: 256, MaxKeySize: 384,
		Flags: criptoki.CKF_SIGN | criptoki.CKF_EC_F_P | criptoki.CKF_EC_NAMEDCURVE | criptoki.CKF_EC_UNCOMPRESS,
	},
}

// Mechanisms lists the supported mechanism types in enumeration order.
func Mechanisms() []criptoki.MechanismType {
	result := make([]criptoki.MechanismType, len(mechanismTypes))
	copy(result, mechanismTypes)
	return result
}

// MechanismInfo returns the key-size bounds and capability flags of a
// mechanism, or CKR_MECHANISM_INVALID for anything outside the table.
func MechanismInfo(mechType criptoki.MechanismType) (criptoki.MechanismInfo, error) {
	info, ok := mechanismInfos[mechType]
	if !ok {
		return criptoki.MechanismInfo{}, NewError("MechanismInfo",
			fmt.Sprintf("mechanism 0x%x is not supported", mechType), criptoki.CKR_MECHANISM_INVALID)
	}
	return info, nil
}
