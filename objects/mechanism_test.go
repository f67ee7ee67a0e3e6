package objects

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/niclabs/kmsp11/criptoki"
)

func TestSupportedMechanisms(t *testing.T) {
	require.Equal(t, []criptoki.MechanismType{
		criptoki.CKM_RSA_PKCS,
		criptoki.CKM_RSA_PKCS_OAEP,
		criptoki.CKM_RSA_PKCS_PSS,
		criptoki.CKM_ECDSA,
	}, Mechanisms())
}

func TestMechanismDecryptFlag(t *testing.T) {
	info, err := MechanismInfo(criptoki.CKM_RSA_PKCS_OAEP)
	require.NoError(t, err)
	require.Equal(t, criptoki.CKF_DECRYPT, info.Flags&criptoki.CKF_DECRYPT)
}

func TestMechanismSignFlag(t *testing.T) {
	info, err := MechanismInfo(criptoki.CKM_RSA_PKCS_PSS)
	require.NoError(t, err)
	require.Equal(t, criptoki.CKF_SIGN, info.Flags&criptoki.CKF_SIGN)
}

func TestMechanismRsaBounds(t *testing.T) {
	info, err := MechanismInfo(criptoki.CKM_RSA_PKCS)
	require.NoError(t, err)
	require.Equal(t, criptoki.ULong(2048), info.MinKeySize)
	require.Equal(t, criptoki.ULong(4096), info.MaxKeySize)
}

func TestMechanismEcBounds(t *testing.T) {
	info, err := MechanismInfo(criptoki.CKM_ECDSA)
	require.NoError(t, err)
	require.Equal(t, criptoki.ULong(256), info.MinKeySize)
	require.Equal(t, criptoki.ULong(384), info.MaxKeySize)
	require.Equal(t, criptoki.CKF_EC_F_P, info.Flags&criptoki.CKF_EC_F_P)
	require.Equal(t, criptoki.CKF_EC_NAMEDCURVE, info.Flags&criptoki.CKF_EC_NAMEDCURVE)
	require.Equal(t, criptoki.CKF_EC_UNCOMPRESS, info.Flags&criptoki.CKF_EC_UNCOMPRESS)
}

func TestMechanismUnsupported(t *testing.T) {
	_, err := MechanismInfo(criptoki.CKM_AES_GCM)
	require.Error(t, err)
	var p11err *P11Error
	require.ErrorAs(t, err, &p11err)
	require.Equal(t, criptoki.CKR_MECHANISM_INVALID, p11err.Code)
}
