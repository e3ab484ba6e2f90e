package rpc_types

import (
	"github.com/LeJamon/goOracle/internal/core/engine"
)

// RpcError represents an RPC error with code and message
type RpcError struct {
	Code        int    `json:"error_code"`
	ErrorString string `json:"error"`
	Type        string `json:"type"`
	Message     string `json:"error_message,omitempty"`
}

func (e RpcError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return e.ErrorString
}

// Error codes
const (
	// Universal errors
	RpcUNKNOWN          = -1
	RpcMETHOD_NOT_FOUND = -32601
	RpcINVALID_PARAMS   = -32602
	RpcINTERNAL         = -32603

	// General purpose errors
	RpcMISSING_COMMAND   = 2
	RpcCOMMAND_UNTRUSTED = 3

	// Permission errors
	RpcNO_PERMISSION = 14

	// Account errors
	RpcACT_NOT_FOUND = 19

	// Stream errors
	RpcSTREAM_MALFORMED = 26

	// API version
	RpcINVALID_API_VERSION = 38

	// Balance errors
	RpcINSUFFICIENT_FUNDS = 54

	// Object errors
	RpcOBJECT_NOT_FOUND = 92
)

func NewRpcError(code int, error, errorType, message string) *RpcError {
	return &RpcError{
		Code:        code,
		ErrorString: error,
		Type:        errorType,
		Message:     message,
	}
}

func RpcErrorInvalidParams(message string) *RpcError {
	return NewRpcError(RpcINVALID_PARAMS, "invalidParams", "invalidParams", message)
}

func RpcErrorMethodNotFound(method string) *RpcError {
	return NewRpcError(RpcMETHOD_NOT_FOUND, "unknownCmd", "unknownCmd", "Unknown method: "+method)
}

func RpcErrorInternal(message string) *RpcError {
	return NewRpcError(RpcINTERNAL, "internal", "internal", message)
}

func RpcErrorInvalidApiVersion(version string) *RpcError {
	return NewRpcError(RpcINVALID_API_VERSION, "invalidApiVersion", "invalidApiVersion", "Invalid API version: "+version)
}

func RpcErrorStreamMalformed(stream string) *RpcError {
	return NewRpcError(RpcSTREAM_MALFORMED, "malformedStream", "malformedStream", "Unknown stream: "+stream)
}

// RpcErrorMissingField returns an error for missing required field
func RpcErrorMissingField(field string) *RpcError {
	return NewRpcError(RpcINVALID_PARAMS, "invalidParams", "invalidParams", "Missing field '"+field+"'.")
}

// RpcErrorInvalidField returns an error for invalid field value
func RpcErrorInvalidField(field string) *RpcError {
	return NewRpcError(RpcINVALID_PARAMS, "invalidParams", "invalidParams", "Invalid field '"+field+"'.")
}

// RpcErrorFromEngine maps an engine error to an RPC error. The engine
// result code is reported in Type.
func RpcErrorFromEngine(err error) *RpcError {
	result := engine.ResultFor(err)
	switch result {
	case engine.TemMALFORMED:
		return NewRpcError(RpcINVALID_PARAMS, "invalidParams", result.String(), err.Error())
	case engine.TerNO_ACCOUNT:
		return NewRpcError(RpcACT_NOT_FOUND, "actNotFound", result.String(), err.Error())
	case engine.TecNO_TARGET:
		return NewRpcError(RpcOBJECT_NOT_FOUND, "objectNotFound", result.String(), err.Error())
	case engine.TecNO_PERMISSION:
		return NewRpcError(RpcNO_PERMISSION, "noPermission", result.String(), err.Error())
	case engine.TemBAD_SIGNATURE:
		return NewRpcError(RpcNO_PERMISSION, "badSignature", result.String(), err.Error())
	case engine.TefPAST_SEQ, engine.TerPRE_SEQ:
		return NewRpcError(RpcINVALID_PARAMS, "badSequence", result.String(), err.Error())
	case engine.TecINSUFFICIENT_FUNDS:
		return NewRpcError(RpcINSUFFICIENT_FUNDS, "insufficientFunds", result.String(), err.Error())
	default:
		return NewRpcError(RpcINTERNAL, "internal", result.String(), err.Error())
	}
}
