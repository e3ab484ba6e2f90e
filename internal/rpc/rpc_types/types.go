package rpc_types

import (
	"context"
	"encoding/json"
	"time"

	"github.com/LeJamon/goOracle/internal/core/engine"
)

// API Version constants
const (
	ApiVersion1       = 1
	ApiVersion2       = 2
	DefaultApiVersion = ApiVersion1
)

// Role-based access control
type Role int

const (
	RoleGuest Role = iota
	RoleUser
	RoleAdmin
)

// RPC Context contains request-specific information
type RpcContext struct {
	Context    context.Context
	Role       Role
	ApiVersion int
	IsAdmin    bool
	ClientIP   string
}

// Method handler interface - all RPC methods implement this
type MethodHandler interface {
	Handle(ctx *RpcContext, params json.RawMessage) (interface{}, *RpcError)
	RequiredRole() Role
	SupportedApiVersions() []int
}

// Method registry for dynamic method registration
type MethodRegistry struct {
	methods map[string]MethodHandler
}

func NewMethodRegistry() *MethodRegistry {
	return &MethodRegistry{
		methods: make(map[string]MethodHandler),
	}
}

func (r *MethodRegistry) Register(name string, handler MethodHandler) {
	r.methods[name] = handler
}

func (r *MethodRegistry) Get(name string) (MethodHandler, bool) {
	handler, exists := r.methods[name]
	return handler, exists
}

func (r *MethodRegistry) List() []string {
	methods := make([]string, 0, len(r.methods))
	for name := range r.methods {
		methods = append(methods, name)
	}
	return methods
}

// ServiceContainer holds the services RPC handlers run against
type ServiceContainer struct {
	Engine *engine.Engine

	// Reported by server_info
	Version   string
	Database  string
	StartTime time.Time
}

// Request format: {"method": "method_name", "params": [{...}]}
type Request struct {
	Method string            `json:"method"`
	Params []json.RawMessage `json:"params,omitempty"`
}

// WebSocket specific structures
type WebSocketCommand struct {
	ID      interface{}     `json:"id,omitempty"`
	Command string          `json:"command"`
	Params  json.RawMessage `json:"params,omitempty"`
}

type WebSocketResponse struct {
	Type       string      `json:"type"`
	ID         interface{} `json:"id,omitempty"`
	Status     string      `json:"status"`
	Result     interface{} `json:"result,omitempty"`
	Error      *RpcError   `json:"error,omitempty"`
	ApiVersion int         `json:"api_version,omitempty"`
}

// Stream names accepted by subscribe
type SubscriptionType string

const (
	SubPrices SubscriptionType = "prices"
)

type SubscriptionRequest struct {
	Streams []SubscriptionType `json:"streams,omitempty"`
}
