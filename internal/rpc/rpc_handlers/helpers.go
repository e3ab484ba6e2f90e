package rpc_handlers

import (
	"encoding/hex"
	"encoding/json"

	"github.com/LeJamon/goOracle/internal/core/engine"
	"github.com/LeJamon/goOracle/internal/core/types"
	"github.com/LeJamon/goOracle/internal/rpc/rpc_types"
)

var allApiVersions = []int{rpc_types.ApiVersion1, rpc_types.ApiVersion2}

// parseParams decodes params into v. Missing params decode as an empty object.
func parseParams(params json.RawMessage, v interface{}) *rpc_types.RpcError {
	if len(params) == 0 {
		return nil
	}
	if err := json.Unmarshal(params, v); err != nil {
		return rpc_types.RpcErrorInvalidParams("Invalid parameters: " + err.Error())
	}
	return nil
}

func parseAccount(field, s string) (types.AccountAddress, *rpc_types.RpcError) {
	if s == "" {
		return types.AccountAddress{}, rpc_types.RpcErrorMissingField(field)
	}
	addr, err := types.ParseAccountAddress(s)
	if err != nil {
		return types.AccountAddress{}, rpc_types.RpcErrorInvalidField(field)
	}
	return addr, nil
}

func parseComponent(field, s string) (types.ComponentAddress, *rpc_types.RpcError) {
	if s == "" {
		return types.ComponentAddress{}, rpc_types.RpcErrorMissingField(field)
	}
	addr, err := types.ParseComponentAddress(s)
	if err != nil {
		return types.ComponentAddress{}, rpc_types.RpcErrorInvalidField(field)
	}
	return addr, nil
}

func parseResource(field, s string) (types.ResourceAddress, *rpc_types.RpcError) {
	if s == "" {
		return types.ResourceAddress{}, rpc_types.RpcErrorMissingField(field)
	}
	addr, err := types.ParseResourceAddress(s)
	if err != nil {
		return types.ResourceAddress{}, rpc_types.RpcErrorInvalidField(field)
	}
	return addr, nil
}

// authRequest carries the signing account of a state-changing method.
type authRequest struct {
	Account   string  `json:"account"`
	Sequence  *uint32 `json:"sequence"`
	Signature string  `json:"signature"`
}

func (r authRequest) parse() (engine.Auth, *rpc_types.RpcError) {
	account, rpcErr := parseAccount("account", r.Account)
	if rpcErr != nil {
		return engine.Auth{}, rpcErr
	}
	if r.Sequence == nil {
		return engine.Auth{}, rpc_types.RpcErrorMissingField("sequence")
	}
	if r.Signature == "" {
		return engine.Auth{}, rpc_types.RpcErrorMissingField("signature")
	}
	sig, err := hex.DecodeString(r.Signature)
	if err != nil {
		return engine.Auth{}, rpc_types.RpcErrorInvalidField("signature")
	}
	return engine.Auth{Account: account, Sequence: *r.Sequence, Signature: sig}, nil
}
