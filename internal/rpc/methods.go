package rpc

import (
	"github.com/LeJamon/goOracle/internal/rpc/rpc_handlers"
	"github.com/LeJamon/goOracle/internal/rpc/rpc_types"
)

// registerAllMethods registers every RPC method
func registerAllMethods(registry *rpc_types.MethodRegistry, services *rpc_types.ServiceContainer) {
	// Server Information Methods
	registry.Register("server_info", &rpc_handlers.ServerInfoMethod{Services: services})
	registry.Register("ping", &rpc_handlers.PingMethod{})

	// Account Methods
	registry.Register("account_create", &rpc_handlers.AccountCreateMethod{Services: services})
	registry.Register("account_info", &rpc_handlers.AccountInfoMethod{Services: services})
	registry.Register("account_balance", &rpc_handlers.AccountBalanceMethod{Services: services})
	registry.Register("transfer", &rpc_handlers.TransferMethod{Services: services})

	// Resource Methods
	registry.Register("resource_info", &rpc_handlers.ResourceInfoMethod{Services: services})
	registry.Register("resource_create", &rpc_handlers.ResourceCreateMethod{Services: services})

	// Oracle Methods
	registry.Register("instantiate_oracle", &rpc_handlers.InstantiateOracleMethod{Services: services})
	registry.Register("get_price", &rpc_handlers.GetPriceMethod{Services: services})
	registry.Register("update_price", &rpc_handlers.UpdatePriceMethod{Services: services})
}
