package rpc_handlers

import (
	"encoding/json"

	"github.com/LeJamon/goOracle/internal/core/resource"
	"github.com/LeJamon/goOracle/internal/core/types"
	"github.com/LeJamon/goOracle/internal/rpc/rpc_types"
)

// ResourceInfoMethod handles the resource_info RPC method
type ResourceInfoMethod struct {
	Services *rpc_types.ServiceContainer
}

func (m *ResourceInfoMethod) Handle(ctx *rpc_types.RpcContext, params json.RawMessage) (interface{}, *rpc_types.RpcError) {
	var request struct {
		Resource string `json:"resource"`
	}
	if rpcErr := parseParams(params, &request); rpcErr != nil {
		return nil, rpcErr
	}
	res, rpcErr := parseResource("resource", request.Resource)
	if rpcErr != nil {
		return nil, rpcErr
	}

	def, err := m.Services.Engine.ResourceInfo(ctx.Context, res)
	if err != nil {
		return nil, rpc_types.RpcErrorFromEngine(err)
	}

	metadata := def.Metadata
	if metadata == nil {
		metadata = map[string]string{}
	}

	return map[string]interface{}{
		"resource":     def.Address.String(),
		"divisibility": def.Divisibility,
		"total_supply": def.TotalSupply,
		"metadata":     metadata,
	}, nil
}

func (m *ResourceInfoMethod) RequiredRole() rpc_types.Role {
	return rpc_types.RoleGuest
}

func (m *ResourceInfoMethod) SupportedApiVersions() []int {
	return allApiVersions
}

// ResourceCreateMethod handles the resource_create RPC method. The whole
// supply is deposited into the signing account.
type ResourceCreateMethod struct {
	Services *rpc_types.ServiceContainer
}

func (m *ResourceCreateMethod) Handle(ctx *rpc_types.RpcContext, params json.RawMessage) (interface{}, *rpc_types.RpcError) {
	var request struct {
		authRequest
		Supply       string            `json:"supply"`
		Divisibility *uint8            `json:"divisibility"`
		Metadata     map[string]string `json:"metadata"`
	}
	if rpcErr := parseParams(params, &request); rpcErr != nil {
		return nil, rpcErr
	}
	auth, rpcErr := request.authRequest.parse()
	if rpcErr != nil {
		return nil, rpcErr
	}
	if request.Supply == "" {
		return nil, rpc_types.RpcErrorMissingField("supply")
	}
	supply, err := types.ParseDecimal(request.Supply)
	if err != nil {
		return nil, rpc_types.RpcErrorInvalidField("supply")
	}
	divisibility := resource.MaxDivisibility
	if request.Divisibility != nil {
		divisibility = *request.Divisibility
	}

	receipt, err := m.Services.Engine.CreateFungibleResource(ctx.Context, auth, supply, divisibility, request.Metadata)
	if err != nil {
		return nil, rpc_types.RpcErrorFromEngine(err)
	}

	return map[string]interface{}{
		"resource":      receipt.NewResources[0].String(),
		"tx_id":         receipt.ID.String(),
		"engine_result": receipt.Result.String(),
	}, nil
}

func (m *ResourceCreateMethod) RequiredRole() rpc_types.Role {
	return rpc_types.RoleGuest
}

func (m *ResourceCreateMethod) SupportedApiVersions() []int {
	return allApiVersions
}
