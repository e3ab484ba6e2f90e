package rpc_handlers

import (
	"encoding/json"
	"time"

	"github.com/LeJamon/goOracle/internal/rpc/rpc_types"
)

// ServerInfoMethod handles the server_info RPC method
type ServerInfoMethod struct {
	Services *rpc_types.ServiceContainer
}

func (m *ServerInfoMethod) Handle(ctx *rpc_types.RpcContext, params json.RawMessage) (interface{}, *rpc_types.RpcError) {
	if m.Services == nil || m.Services.Engine == nil {
		return nil, rpc_types.RpcErrorInternal("Engine not available")
	}

	hits, misses := m.Services.Engine.Ledger().CacheStats()

	return map[string]interface{}{
		"info": map[string]interface{}{
			"build_version": m.Services.Version,
			"server_state":  "full",
			"uptime":        int64(time.Since(m.Services.StartTime).Seconds()),
			"database":      m.Services.Database,
			"components":    m.Services.Engine.Components(),
			"ledger_cache": map[string]interface{}{
				"hits":   hits,
				"misses": misses,
			},
		},
	}, nil
}

func (m *ServerInfoMethod) RequiredRole() rpc_types.Role {
	return rpc_types.RoleGuest
}

func (m *ServerInfoMethod) SupportedApiVersions() []int {
	return allApiVersions
}
