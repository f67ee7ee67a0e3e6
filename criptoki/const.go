package criptoki

// Return values.
const (
	CKR_OK                             RV = 0x00000000
	CKR_CANCEL                         RV = 0x00000001
	CKR_HOST_MEMORY                    RV = 0x00000002
	CKR_SLOT_ID_INVALID                RV = 0x00000003
	CKR_GENERAL_ERROR                  RV = 0x00000005
	CKR_FUNCTION_FAILED                RV = 0x00000006
	CKR_ARGUMENTS_BAD                  RV = 0x00000007
	CKR_NO_EVENT                       RV = 0x00000008
	CKR_ATTRIBUTE_READ_ONLY            RV = 0x00000010
	CKR_ATTRIBUTE_SENSITIVE            RV = 0x00000011
	CKR_ATTRIBUTE_TYPE_INVALID         RV = 0x00000012
	CKR_ATTRIBUTE_VALUE_INVALID        RV = 0x00000013
	CKR_DATA_INVALID                   RV = 0x00000020
	CKR_DATA_LEN_RANGE                 RV = 0x00000021
	CKR_DEVICE_ERROR                   RV = 0x00000030
	CKR_DEVICE_MEMORY                  RV = 0x00000031
	CKR_DEVICE_REMOVED                 RV = 0x00000032
	CKR_ENCRYPTED_DATA_INVALID         RV = 0x00000040
	CKR_ENCRYPTED_DATA_LEN_RANGE       RV = 0x00000041
	CKR_FUNCTION_CANCELED              RV = 0x00000050
	CKR_FUNCTION_NOT_PARALLEL          RV = 0x00000051
	CKR_FUNCTION_NOT_SUPPORTED         RV = 0x00000054
	CKR_KEY_HANDLE_INVALID             RV = 0x00000060
	CKR_KEY_SIZE_RANGE                 RV = 0x00000062
	CKR_KEY_TYPE_INCONSISTENT          RV = 0x00000063
	CKR_KEY_FUNCTION_NOT_PERMITTED     RV = 0x00000068
	CKR_MECHANISM_INVALID              RV = 0x00000070
	CKR_MECHANISM_PARAM_INVALID        RV = 0x00000071
	CKR_OBJECT_HANDLE_INVALID          RV = 0x00000082
	CKR_OPERATION_ACTIVE               RV = 0x00000090
	CKR_OPERATION_NOT_INITIALIZED      RV = 0x00000091
	CKR_PIN_INCORRECT                  RV = 0x000000a0
	CKR_PIN_INVALID                    RV = 0x000000a1
	CKR_PIN_LEN_RANGE                  RV = 0x000000a2
	CKR_PIN_EXPIRED                    RV = 0x000000a3
	CKR_PIN_LOCKED                     RV = 0x000000a4
	CKR_SESSION_CLOSED                 RV = 0x000000b0
	CKR_SESSION_COUNT                  RV = 0x000000b1
	CKR_SESSION_HANDLE_INVALID         RV = 0x000000b3
	CKR_SESSION_PARALLEL_NOT_SUPPORTED RV = 0x000000b4
	CKR_SESSION_READ_ONLY              RV = 0x000000b5
	CKR_SESSION_EXISTS                 RV = 0x000000b6
	CKR_SESSION_READ_ONLY_EXISTS       RV = 0x000000b7
	CKR_SESSION_READ_WRITE_SO_EXISTS   RV = 0x000000b8
	CKR_SIGNATURE_INVALID              RV = 0x000000c0
	CKR_SIGNATURE_LEN_RANGE            RV = 0x000000c1
	CKR_TEMPLATE_INCOMPLETE            RV = 0x000000d0
	CKR_TEMPLATE_INCONSISTENT          RV = 0x000000d1
	CKR_TOKEN_NOT_PRESENT              RV = 0x000000e0
	CKR_TOKEN_NOT_RECOGNIZED           RV = 0x000000e1
	CKR_TOKEN_WRITE_PROTECTED          RV = 0x000000e2
	CKR_USER_ALREADY_LOGGED_IN         RV = 0x00000100
	CKR_USER_NOT_LOGGED_IN             RV = 0x00000101
	CKR_USER_PIN_NOT_INITIALIZED       RV = 0x00000102
	CKR_USER_TYPE_INVALID              RV = 0x00000103
	CKR_USER_ANOTHER_ALREADY_LOGGED_IN RV = 0x00000104
	CKR_USER_TOO_MANY_TYPES            RV = 0x00000105
	CKR_BUFFER_TOO_SMALL               RV = 0x00000150
	CKR_SAVED_STATE_INVALID            RV = 0x00000160
	CKR_INFORMATION_SENSITIVE          RV = 0x00000170
	CKR_STATE_UNSAVEABLE               RV = 0x00000180
	CKR_CRYPTOKI_NOT_INITIALIZED       RV = 0x00000190
	CKR_CRYPTOKI_ALREADY_INITIALIZED   RV = 0x00000191
	CKR_MUTEX_BAD                      RV = 0x000001a0
	CKR_MUTEX_NOT_LOCKED               RV = 0x000001a1
	CKR_FUNCTION_REJECTED              RV = 0x00000200
)

// Object classes.
const (
	CKO_DATA        ObjectClass = 0x00000000
	CKO_CERTIFICATE ObjectClass = 0x00000001
	CKO_PUBLIC_KEY  ObjectClass = 0x00000002
	CKO_PRIVATE_KEY ObjectClass = 0x00000003
	CKO_SECRET_KEY  ObjectClass = 0x00000004
)

// Key types.
const (
	CKK_RSA KeyType = 0x00000000
	CKK_DSA KeyType = 0x00000001
	CKK_DH  KeyType = 0x00000002
	CKK_EC  KeyType = 0x00000003
)

// Certificate types.
const (
	CKC_X_509 CertificateType = 0x00000000
)

// Attribute types.
const (
	CKA_CLASS               AttributeType = 0x00000000
	CKA_TOKEN               AttributeType = 0x00000001
	CKA_PRIVATE             AttributeType = 0x00000002
	CKA_LABEL               AttributeType = 0x00000003
	CKA_VALUE               AttributeType = 0x00000011
	CKA_CERTIFICATE_TYPE    AttributeType = 0x00000080
	CKA_ISSUER              AttributeType = 0x00000081
	CKA_SERIAL_NUMBER       AttributeType = 0x00000082
	CKA_KEY_TYPE            AttributeType = 0x00000100
	CKA_SUBJECT             AttributeType = 0x00000101
	CKA_ID                  AttributeType = 0x00000102
	CKA_SENSITIVE           AttributeType = 0x00000103
	CKA_ENCRYPT             AttributeType = 0x00000104
	CKA_DECRYPT             AttributeType = 0x00000105
	CKA_WRAP                AttributeType = 0x00000106
	CKA_UNWRAP              AttributeType = 0x00000107
	CKA_SIGN                AttributeType = 0x00000108
	CKA_SIGN_RECOVER        AttributeType = 0x00000109
	CKA_VERIFY              AttributeType = 0x0000010a
	CKA_VERIFY_RECOVER      AttributeType = 0x0000010b
	CKA_DERIVE              AttributeType = 0x0000010c
	CKA_MODULUS             AttributeType = 0x00000120
	CKA_MODULUS_BITS        AttributeType = 0x00000121
	CKA_PUBLIC_EXPONENT     AttributeType = 0x00000122
	CKA_PUBLIC_KEY_INFO     AttributeType = 0x00000129
	CKA_EXTRACTABLE         AttributeType = 0x00000162
	CKA_LOCAL               AttributeType = 0x00000163
	CKA_NEVER_EXTRACTABLE   AttributeType = 0x00000164
	CKA_ALWAYS_SENSITIVE    AttributeType = 0x00000165
	CKA_KEY_GEN_MECHANISM   AttributeType = 0x00000166
	CKA_MODIFIABLE          AttributeType = 0x00000170
	CKA_COPYABLE            AttributeType = 0x00000171
	CKA_DESTROYABLE         AttributeType = 0x00000172
	CKA_EC_PARAMS           AttributeType = 0x00000180
	CKA_EC_POINT            AttributeType = 0x00000181
	CKA_ALWAYS_AUTHENTICATE AttributeType = 0x00000202
)

// Mechanism types.
const (
	CKM_RSA_PKCS_KEY_PAIR_GEN MechanismType = 0x00000000
	CKM_RSA_PKCS              MechanismType = 0x00000001
	CKM_RSA_9796              MechanismType = 0x00000002
	CKM_RSA_X_509             MechanismType = 0x00000003
	CKM_RSA_PKCS_OAEP         MechanismType = 0x00000009
	CKM_RSA_X9_31             MechanismType = 0x0000000b
	CKM_RSA_PKCS_PSS          MechanismType = 0x0000000d
	CKM_SHA256_RSA_PKCS       MechanismType = 0x00000040
	CKM_SHA256_RSA_PKCS_PSS   MechanismType = 0x00000043
	CKM_ECDSA                 MechanismType = 0x00001041
	CKM_ECDSA_SHA1            MechanismType = 0x00001042
	CKM_AES_GCM               MechanismType = 0x00001087
)

// User types.
const (
	CKU_SO               UserType = 0
	CKU_USER             UserType = 1
	CKU_CONTEXT_SPECIFIC UserType = 2
)

// Session states.
const (
	CKS_RO_PUBLIC_SESSION State = 0
	CKS_RO_USER_FUNCTIONS State = 1
	CKS_RW_PUBLIC_SESSION State = 2
	CKS_RW_USER_FUNCTIONS State = 3
	CKS_RW_SO_FUNCTIONS   State = 4
)

// Session flags.
const (
	CKF_RW_SESSION     Flags = 0x00000002
	CKF_SERIAL_SESSION Flags = 0x00000004
)

// Slot flags.
const (
	CKF_TOKEN_PRESENT    Flags = 0x00000001
	CKF_REMOVABLE_DEVICE Flags = 0x00000002
	CKF_HW_SLOT          Flags = 0x00000004
)

// Token flags.
const (
	CKF_RNG                  Flags = 0x00000001
	CKF_WRITE_PROTECTED      Flags = 0x00000002
	CKF_LOGIN_REQUIRED       Flags = 0x00000004
	CKF_USER_PIN_INITIALIZED Flags = 0x00000008
	CKF_TOKEN_INITIALIZED    Flags = 0x00000400
)

// Mechanism flags.
const (
	CKF_HW                Flags = 0x00000001
	CKF_ENCRYPT           Flags = 0x00000100
	CKF_DECRYPT           Flags = 0x00000200
	CKF_DIGEST            Flags = 0x00000400
	CKF_SIGN              Flags = 0x00000800
	CKF_SIGN_RECOVER      Flags = 0x00001000
	CKF_VERIFY            Flags = 0x00002000
	CKF_VERIFY_RECOVER    Flags = 0x00004000
	CKF_GENERATE          Flags = 0x00008000
	CKF_GENERATE_KEY_PAIR Flags = 0x00010000
	CKF_WRAP              Flags = 0x00020000
	CKF_UNWRAP            Flags = 0x00040000
	CKF_DERIVE            Flags = 0x00080000
	CKF_EC_F_P            Flags = 0x00100000
	CKF_EC_F_2M           Flags = 0x00200000
	CKF_EC_ECPARAMETERS   Flags = 0x00400000
	CKF_EC_NAMEDCURVE     Flags = 0x00800000
	CKF_EC_UNCOMPRESS     Flags = 0x01000000
	CKF_EC_COMPRESS       Flags = 0x02000000
)

// Boolean values use a single-byte representation on the wire.
const (
	CK_FALSE byte = 0x00
	CK_TRUE  byte = 0x01
)

const (
	// CK_INVALID_HANDLE is never a valid session or object handle.
	CK_INVALID_HANDLE = 0

	// CK_UNAVAILABLE_INFORMATION marks lengths and gauges that cannot be
	// reported to the caller.
	CK_UNAVAILABLE_INFORMATION = ^ULong(0)

	// CK_EFFECTIVELY_INFINITE marks limits the token does not enforce.
	CK_EFFECTIVELY_INFINITE = ^ULong(0)
)
