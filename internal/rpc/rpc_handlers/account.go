package rpc_handlers

import (
	"encoding/json"

	"github.com/LeJamon/goOracle/internal/core/engine"
	"github.com/LeJamon/goOracle/internal/core/types"
	"github.com/LeJamon/goOracle/internal/crypto/secp256k1"
	"github.com/LeJamon/goOracle/internal/rpc/rpc_types"
)

// AccountCreateMethod handles the account_create RPC method. The new
// account is controlled by the private key of public_key.
type AccountCreateMethod struct {
	Services *rpc_types.ServiceContainer
}

func (m *AccountCreateMethod) Handle(ctx *rpc_types.RpcContext, params json.RawMessage) (interface{}, *rpc_types.RpcError) {
	var request struct {
		PublicKey string `json:"public_key"`
	}
	if rpcErr := parseParams(params, &request); rpcErr != nil {
		return nil, rpcErr
	}
	if request.PublicKey == "" {
		return nil, rpc_types.RpcErrorMissingField("public_key")
	}
	pub, err := secp256k1.ParsePublicKeyHex(request.PublicKey)
	if err != nil {
		return nil, rpc_types.RpcErrorInvalidField("public_key")
	}

	receipt, err := m.Services.Engine.CreateAccount(ctx.Context, pub)
	if err != nil {
		return nil, rpc_types.RpcErrorFromEngine(err)
	}

	return map[string]interface{}{
		"account":       receipt.NewAccounts[0].String(),
		"sequence":      engine.FirstSequence,
		"tx_id":         receipt.ID.String(),
		"engine_result": receipt.Result.String(),
	}, nil
}

func (m *AccountCreateMethod) RequiredRole() rpc_types.Role {
	return rpc_types.RoleGuest
}

func (m *AccountCreateMethod) SupportedApiVersions() []int {
	return allApiVersions
}

// AccountInfoMethod handles the account_info RPC method. Clients read the
// sequence to sign their next invocation.
type AccountInfoMethod struct {
	Services *rpc_types.ServiceContainer
}

func (m *AccountInfoMethod) Handle(ctx *rpc_types.RpcContext, params json.RawMessage) (interface{}, *rpc_types.RpcError) {
	var request struct {
		Account string `json:"account"`
	}
	if rpcErr := parseParams(params, &request); rpcErr != nil {
		return nil, rpcErr
	}
	account, rpcErr := parseAccount("account", request.Account)
	if rpcErr != nil {
		return nil, rpcErr
	}

	info, err := m.Services.Engine.Account(ctx.Context, account)
	if err != nil {
		return nil, rpc_types.RpcErrorFromEngine(err)
	}

	return map[string]interface{}{
		"account":    info.Address.String(),
		"public_key": info.PublicKey.String(),
		"sequence":   info.Sequence,
	}, nil
}

func (m *AccountInfoMethod) RequiredRole() rpc_types.Role {
	return rpc_types.RoleGuest
}

func (m *AccountInfoMethod) SupportedApiVersions() []int {
	return allApiVersions
}

// AccountBalanceMethod handles the account_balance RPC method
type AccountBalanceMethod struct {
	Services *rpc_types.ServiceContainer
}

func (m *AccountBalanceMethod) Handle(ctx *rpc_types.RpcContext, params json.RawMessage) (interface{}, *rpc_types.RpcError) {
	var request struct {
		Account string `json:"account"`
	}
	if rpcErr := parseParams(params, &request); rpcErr != nil {
		return nil, rpcErr
	}
	account, rpcErr := parseAccount("account", request.Account)
	if rpcErr != nil {
		return nil, rpcErr
	}

	balances, err := m.Services.Engine.Balances(ctx.Context, account)
	if err != nil {
		return nil, rpc_types.RpcErrorFromEngine(err)
	}

	return map[string]interface{}{
		"account":  account.String(),
		"balances": balances,
	}, nil
}

func (m *AccountBalanceMethod) RequiredRole() rpc_types.Role {
	return rpc_types.RoleGuest
}

func (m *AccountBalanceMethod) SupportedApiVersions() []int {
	return allApiVersions
}

// TransferMethod handles the transfer RPC method
type TransferMethod struct {
	Services *rpc_types.ServiceContainer
}

func (m *TransferMethod) Handle(ctx *rpc_types.RpcContext, params json.RawMessage) (interface{}, *rpc_types.RpcError) {
	var request struct {
		authRequest
		Destination string `json:"destination"`
		Resource    string `json:"resource"`
		Amount      string `json:"amount"`
	}
	if rpcErr := parseParams(params, &request); rpcErr != nil {
		return nil, rpcErr
	}
	auth, rpcErr := request.authRequest.parse()
	if rpcErr != nil {
		return nil, rpcErr
	}
	to, rpcErr := parseAccount("destination", request.Destination)
	if rpcErr != nil {
		return nil, rpcErr
	}
	res, rpcErr := parseResource("resource", request.Resource)
	if rpcErr != nil {
		return nil, rpcErr
	}
	if request.Amount == "" {
		return nil, rpc_types.RpcErrorMissingField("amount")
	}
	amount, err := types.ParseDecimal(request.Amount)
	if err != nil {
		return nil, rpc_types.RpcErrorInvalidField("amount")
	}

	receipt, err := m.Services.Engine.Transfer(ctx.Context, auth, to, res, amount)
	if err != nil {
		return nil, rpc_types.RpcErrorFromEngine(err)
	}

	return map[string]interface{}{
		"tx_id":         receipt.ID.String(),
		"engine_result": receipt.Result.String(),
	}, nil
}

func (m *TransferMethod) RequiredRole() rpc_types.Role {
	return rpc_types.RoleGuest
}

func (m *TransferMethod) SupportedApiVersions() []int {
	return allApiVersions
}
