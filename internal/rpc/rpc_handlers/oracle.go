package rpc_handlers

import (
	"encoding/json"

	"github.com/LeJamon/goOracle/internal/core/ledger/entry"
	"github.com/LeJamon/goOracle/internal/core/types"
	"github.com/LeJamon/goOracle/internal/rpc/rpc_types"
)

// InstantiateOracleMethod handles the instantiate_oracle RPC method. The
// admin badges are deposited into the signing account.
type InstantiateOracleMethod struct {
	Services *rpc_types.ServiceContainer
}

func (m *InstantiateOracleMethod) Handle(ctx *rpc_types.RpcContext, params json.RawMessage) (interface{}, *rpc_types.RpcError) {
	var request struct {
		authRequest
		NumOfAdmins *int `json:"num_of_admins"`
	}
	if rpcErr := parseParams(params, &request); rpcErr != nil {
		return nil, rpcErr
	}
	auth, rpcErr := request.authRequest.parse()
	if rpcErr != nil {
		return nil, rpcErr
	}
	if request.NumOfAdmins == nil {
		return nil, rpc_types.RpcErrorMissingField("num_of_admins")
	}

	receipt, err := m.Services.Engine.InstantiateOracle(ctx.Context, auth, *request.NumOfAdmins)
	if err != nil {
		return nil, rpc_types.RpcErrorFromEngine(err)
	}

	return map[string]interface{}{
		"component":     receipt.NewComponents[0].String(),
		"admin_badge":   receipt.NewResources[0].String(),
		"tx_id":         receipt.ID.String(),
		"engine_result": receipt.Result.String(),
	}, nil
}

func (m *InstantiateOracleMethod) RequiredRole() rpc_types.Role {
	return rpc_types.RoleGuest
}

func (m *InstantiateOracleMethod) SupportedApiVersions() []int {
	return allApiVersions
}

type pairRequest struct {
	Component string `json:"component"`
	Base      string `json:"base"`
	Quote     string `json:"quote"`
}

func (r pairRequest) parse() (types.ComponentAddress, types.ResourceAddress, types.ResourceAddress, *rpc_types.RpcError) {
	component, rpcErr := parseComponent("component", r.Component)
	if rpcErr != nil {
		return component, types.ResourceAddress{}, types.ResourceAddress{}, rpcErr
	}
	base, rpcErr := parseResource("base", r.Base)
	if rpcErr != nil {
		return component, base, types.ResourceAddress{}, rpcErr
	}
	quote, rpcErr := parseResource("quote", r.Quote)
	return component, base, quote, rpcErr
}

// GetPriceMethod handles the get_price RPC method
type GetPriceMethod struct {
	Services *rpc_types.ServiceContainer
}

func (m *GetPriceMethod) Handle(ctx *rpc_types.RpcContext, params json.RawMessage) (interface{}, *rpc_types.RpcError) {
	var request pairRequest
	if rpcErr := parseParams(params, &request); rpcErr != nil {
		return nil, rpcErr
	}
	component, base, quote, rpcErr := request.parse()
	if rpcErr != nil {
		return nil, rpcErr
	}

	price, ok, err := m.Services.Engine.GetPrice(ctx.Context, component, base, quote)
	if err != nil {
		return nil, rpc_types.RpcErrorFromEngine(err)
	}

	response := map[string]interface{}{
		"component": component.String(),
		"base":      base.String(),
		"quote":     quote.String(),
		"found":     ok,
	}
	if ok {
		response["price"] = price
	}
	return response, nil
}

func (m *GetPriceMethod) RequiredRole() rpc_types.Role {
	return rpc_types.RoleGuest
}

func (m *GetPriceMethod) SupportedApiVersions() []int {
	return allApiVersions
}

// UpdatePriceMethod handles the update_price RPC method. The admin badge
// proof is created from the vault of the signing account.
type UpdatePriceMethod struct {
	Services *rpc_types.ServiceContainer
}

func (m *UpdatePriceMethod) Handle(ctx *rpc_types.RpcContext, params json.RawMessage) (interface{}, *rpc_types.RpcError) {
	var request struct {
		pairRequest
		authRequest
		Price string `json:"price"`
	}
	if rpcErr := parseParams(params, &request); rpcErr != nil {
		return nil, rpcErr
	}
	auth, rpcErr := request.authRequest.parse()
	if rpcErr != nil {
		return nil, rpcErr
	}
	component, base, quote, rpcErr := request.pairRequest.parse()
	if rpcErr != nil {
		return nil, rpcErr
	}
	if request.Price == "" {
		return nil, rpc_types.RpcErrorMissingField("price")
	}
	price, err := types.ParseDecimal(request.Price)
	if err != nil {
		return nil, rpc_types.RpcErrorInvalidField("price")
	}

	receipt, err := m.Services.Engine.UpdatePrice(ctx.Context, auth, component, base, quote, price)
	if err != nil {
		return nil, rpc_types.RpcErrorFromEngine(err)
	}

	return map[string]interface{}{
		"tx_id":         receipt.ID.String(),
		"engine_result": receipt.Result.String(),
		"price":         receipt.Outputs[0],
		"inverse_price": receipt.Outputs[1],
		"new_pair":      len(receipt.Metadata.Created(entry.TypePrice)) > 0,
	}, nil
}

func (m *UpdatePriceMethod) RequiredRole() rpc_types.Role {
	return rpc_types.RoleGuest
}

func (m *UpdatePriceMethod) SupportedApiVersions() []int {
	return allApiVersions
}
