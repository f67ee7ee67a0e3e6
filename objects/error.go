package objects

import (
	"fmt"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/niclabs/kmsp11/criptoki"
)

// P11Error is the internal error value. Who names the component that
// produced it, Code is the return value the bridge will hand back to the
// caller, and Kind classifies the failure with the same taxonomy the KMS
// transport uses.
type P11Error struct {
	Who         string
	Description string
	Code        criptoki.RV
	Kind        codes.Code
}

func NewError(who, description string, code criptoki.RV) *P11Error {
	return &P11Error{
		Who:         who,
		Description: description,
		Code:        code,
		Kind:        defaultKind(code),
	}
}

// NewErrorKind builds an error whose kind does not follow from its return
// value, such as a FailedPrecondition surfaced as CKR_ARGUMENTS_BAD.
func NewErrorKind(who, description string, kind codes.Code, code criptoki.RV) *P11Error {
	return &P11Error{
		Who:         who,
		Description: description,
		Code:        code,
		Kind:        kind,
	}
}

// WrapRemoteError converts a failure from the key service into a P11Error,
// keeping the gRPC code as the kind and deriving the return value from it.
func WrapRemoteError(who string, err error) *P11Error {
	kind := status.Code(err)
	return &P11Error{
		Who:         who,
		Description: err.Error(),
		Code:        kindRV(kind),
		Kind:        kind,
	}
}

func (err *P11Error) Error() string {
	return fmt.Sprintf("%s: %s", err.Who, err.Description)
}

func (err *P11Error) RV() criptoki.RV {
	return err.Code
}

func defaultKind(code criptoki.RV) codes.Code {
	switch code {
	case criptoki.CKR_ARGUMENTS_BAD, criptoki.CKR_MECHANISM_PARAM_INVALID,
		criptoki.CKR_DATA_LEN_RANGE, criptoki.CKR_ENCRYPTED_DATA_LEN_RANGE:
		return codes.InvalidArgument
	case criptoki.CKR_SLOT_ID_INVALID, criptoki.CKR_SESSION_HANDLE_INVALID,
		criptoki.CKR_OBJECT_HANDLE_INVALID, criptoki.CKR_MECHANISM_INVALID,
		criptoki.CKR_ATTRIBUTE_TYPE_INVALID:
		return codes.NotFound
	case criptoki.CKR_CRYPTOKI_NOT_INITIALIZED, criptoki.CKR_CRYPTOKI_ALREADY_INITIALIZED,
		criptoki.CKR_OPERATION_ACTIVE, criptoki.CKR_OPERATION_NOT_INITIALIZED,
		criptoki.CKR_USER_ALREADY_LOGGED_IN, criptoki.CKR_USER_NOT_LOGGED_IN:
		return codes.FailedPrecondition
	case criptoki.CKR_ATTRIBUTE_SENSITIVE, criptoki.CKR_PIN_LOCKED,
		criptoki.CKR_TOKEN_WRITE_PROTECTED, criptoki.CKR_KEY_FUNCTION_NOT_PERMITTED:
		return codes.PermissionDenied
	case criptoki.CKR_BUFFER_TOO_SMALL:
		return codes.OutOfRange
	case criptoki.CKR_FUNCTION_NOT_SUPPORTED:
		return codes.Unimplemented
	default:
		return codes.Internal
	}
}

func kindRV(kind codes.Code) criptoki.RV {
	switch kind {
	case codes.InvalidArgument:
		return criptoki.CKR_ARGUMENTS_BAD
	case codes.OutOfRange:
		return criptoki.CKR_DATA_LEN_RANGE
	case codes.Unimplemented:
		return criptoki.CKR_FUNCTION_NOT_SUPPORTED
	case codes.FailedPrecondition:
		return criptoki.CKR_FUNCTION_FAILED
	default:
		return criptoki.CKR_DEVICE_ERROR
	}
}
