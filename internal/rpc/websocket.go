package rpc

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/LeJamon/goOracle/internal/rpc/rpc_types"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

const (
	wsMaxMessageSize = 512 * 1024
	wsPongWait       = 60 * time.Second
	wsPingPeriod     = 54 * time.Second
	wsWriteWait      = 10 * time.Second
	wsSendBuffer     = 256
)

// WebSocketServer handles WebSocket connections for method calls and
// stream subscriptions
type WebSocketServer struct {
	upgrader         websocket.Upgrader
	methodRegistry   *rpc_types.MethodRegistry
	connections      map[string]*WebSocketConnection
	connectionsMutex sync.RWMutex
	timeout          time.Duration
	log              *zap.Logger
}

// WebSocketConnection represents a single WebSocket connection
type WebSocketConnection struct {
	ID            string
	conn          *websocket.Conn
	subscriptions map[rpc_types.SubscriptionType]struct{}
	sendChannel   chan []byte
	mutex         sync.RWMutex
	ctx           context.Context
	cancel        context.CancelFunc
	closeOnce     sync.Once
}

// NewWebSocketServer creates a WebSocket server dispatching method calls to registry
func NewWebSocketServer(timeout time.Duration, registry *rpc_types.MethodRegistry, logger *zap.Logger) *WebSocketServer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &WebSocketServer{
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
		},
		methodRegistry: registry,
		connections:    make(map[string]*WebSocketConnection),
		timeout:        timeout,
		log:            logger.Named("ws"),
	}
}

// ServeHTTP handles WebSocket upgrade requests
func (ws *WebSocketServer) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := ws.upgrader.Upgrade(w, r, nil)
	if err != nil {
		ws.log.Warn("websocket upgrade failed", zap.Error(err))
		return
	}

	// The request context ends when ServeHTTP returns
	ctx, cancel := context.WithCancel(context.Background())

	wsConn := &WebSocketConnection{
		ID:            uuid.NewString(),
		conn:          conn,
		subscriptions: make(map[rpc_types.SubscriptionType]struct{}),
		sendChannel:   make(chan []byte, wsSendBuffer),
		ctx:           ctx,
		cancel:        cancel,
	}

	ws.connectionsMutex.Lock()
	ws.connections[wsConn.ID] = wsConn
	ws.connectionsMutex.Unlock()

	ws.log.Debug("websocket connection opened", zap.String("conn", wsConn.ID))

	go ws.handleConnection(wsConn)
	go ws.handleSend(wsConn)
}

// handleConnection reads messages from a WebSocket connection
func (ws *WebSocketServer) handleConnection(wsConn *WebSocketConnection) {
	defer ws.closeConnection(wsConn)

	wsConn.conn.SetReadLimit(wsMaxMessageSize)
	_ = wsConn.conn.SetReadDeadline(time.Now().Add(wsPongWait))
	wsConn.conn.SetPongHandler(func(string) error {
		return wsConn.conn.SetReadDeadline(time.Now().Add(wsPongWait))
	})

	for {
		_, message, err := wsConn.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				ws.log.Debug("websocket read failed", zap.String("conn", wsConn.ID), zap.Error(err))
			}
			return
		}
		ws.handleMessage(wsConn, message)
	}
}

// handleSend writes queued messages and keepalive pings
func (ws *WebSocketServer) handleSend(wsConn *WebSocketConnection) {
	ticker := time.NewTicker(wsPingPeriod)
	defer ticker.Stop()
	defer ws.closeConnection(wsConn)

	for {
		select {
		case <-wsConn.ctx.Done():
			return
		case <-ticker.C:
			_ = wsConn.conn.SetWriteDeadline(time.Now().Add(wsWriteWait))
			if err := wsConn.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		case message := <-wsConn.sendChannel:
			_ = wsConn.conn.SetWriteDeadline(time.Now().Add(wsWriteWait))
			if err := wsConn.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				ws.log.Debug("websocket send failed", zap.String("conn", wsConn.ID), zap.Error(err))
				return
			}
		}
	}
}

// handleMessage processes a single message. Commands carry their
// parameters at the top level: {"command": "...", "id": ..., ...}
func (ws *WebSocketServer) handleMessage(wsConn *WebSocketConnection, message []byte) {
	var cmdMap map[string]interface{}
	if err := json.Unmarshal(message, &cmdMap); err != nil {
		ws.sendError(wsConn, rpc_types.RpcErrorInvalidParams("Invalid JSON: "+err.Error()), nil)
		return
	}

	command, ok := cmdMap["command"].(string)
	if !ok || command == "" {
		ws.sendError(wsConn, rpc_types.NewRpcError(rpc_types.RpcMISSING_COMMAND, "missingCommand", "missingCommand", "Missing command field"), cmdMap["id"])
		return
	}

	cmd := rpc_types.WebSocketCommand{
		Command: command,
		ID:      cmdMap["id"],
	}
	delete(cmdMap, "command")
	delete(cmdMap, "id")

	apiVersion := rpc_types.DefaultApiVersion
	if apiVer, exists := cmdMap["api_version"]; exists {
		if ver, ok := apiVer.(float64); ok {
			apiVersion = int(ver)
		}
		delete(cmdMap, "api_version")
	}

	if len(cmdMap) > 0 {
		paramsBytes, _ := json.Marshal(cmdMap)
		cmd.Params = paramsBytes
	}

	rpcCtx := &rpc_types.RpcContext{
		Context:    wsConn.ctx,
		Role:       rpc_types.RoleGuest,
		ApiVersion: apiVersion,
		ClientIP:   getWebSocketClientIP(wsConn.conn),
	}

	switch cmd.Command {
	case "subscribe":
		ws.handleSubscribe(wsConn, rpcCtx, cmd, true)
	case "unsubscribe":
		ws.handleSubscribe(wsConn, rpcCtx, cmd, false)
	default:
		ws.handleRPCMethod(wsConn, rpcCtx, cmd)
	}
}

func knownStream(s rpc_types.SubscriptionType) bool {
	return s == rpc_types.SubPrices
}

// handleSubscribe adds or removes stream subscriptions
func (ws *WebSocketServer) handleSubscribe(wsConn *WebSocketConnection, ctx *rpc_types.RpcContext, cmd rpc_types.WebSocketCommand, subscribe bool) {
	var request rpc_types.SubscriptionRequest
	if len(cmd.Params) > 0 {
		if err := json.Unmarshal(cmd.Params, &request); err != nil {
			ws.sendError(wsConn, rpc_types.RpcErrorInvalidParams("Invalid subscription parameters"), cmd.ID)
			return
		}
	}
	if len(request.Streams) == 0 {
		ws.sendError(wsConn, rpc_types.RpcErrorMissingField("streams"), cmd.ID)
		return
	}
	for _, s := range request.Streams {
		if !knownStream(s) {
			ws.sendError(wsConn, rpc_types.RpcErrorStreamMalformed(string(s)), cmd.ID)
			return
		}
	}

	wsConn.mutex.Lock()
	for _, s := range request.Streams {
		if subscribe {
			wsConn.subscriptions[s] = struct{}{}
		} else {
			delete(wsConn.subscriptions, s)
		}
	}
	wsConn.mutex.Unlock()

	ws.sendResponse(wsConn, rpc_types.WebSocketResponse{
		Type:       "response",
		ID:         cmd.ID,
		Status:     "success",
		Result:     map[string]interface{}{},
		ApiVersion: ctx.ApiVersion,
	})
}

// handleRPCMethod processes regular RPC method calls over WebSocket
func (ws *WebSocketServer) handleRPCMethod(wsConn *WebSocketConnection, ctx *rpc_types.RpcContext, cmd rpc_types.WebSocketCommand) {
	handler, exists := ws.methodRegistry.Get(cmd.Command)
	if !exists {
		ws.sendError(wsConn, rpc_types.RpcErrorMethodNotFound(cmd.Command), cmd.ID)
		return
	}

	if ctx.Role < handler.RequiredRole() {
		ws.sendError(wsConn, rpc_types.NewRpcError(rpc_types.RpcCOMMAND_UNTRUSTED, "commandUntrusted", "commandUntrusted",
			fmt.Sprintf("Command '%s' requires higher privileges", cmd.Command)), cmd.ID)
		return
	}

	if rpcErr := checkApiVersion(handler, ctx.ApiVersion); rpcErr != nil {
		ws.sendError(wsConn, rpcErr, cmd.ID)
		return
	}

	if ws.timeout > 0 {
		c, cancel := context.WithTimeout(ctx.Context, ws.timeout)
		defer cancel()
		ctx.Context = c
	}

	result, rpcErr := handler.Handle(ctx, cmd.Params)
	if rpcErr != nil {
		ws.sendError(wsConn, rpcErr, cmd.ID)
		return
	}

	ws.sendResponse(wsConn, rpc_types.WebSocketResponse{
		Type:       "response",
		ID:         cmd.ID,
		Status:     "success",
		Result:     result,
		ApiVersion: ctx.ApiVersion,
	})
}

func (ws *WebSocketServer) sendResponse(wsConn *WebSocketConnection, response rpc_types.WebSocketResponse) {
	data, err := json.Marshal(response)
	if err != nil {
		ws.log.Error("failed to marshal websocket response", zap.Error(err))
		return
	}
	ws.enqueue(wsConn, data)
}

// sendError sends an error response with the error fields at the top level
func (ws *WebSocketServer) sendError(wsConn *WebSocketConnection, rpcErr *rpc_types.RpcError, id interface{}) {
	response := map[string]interface{}{
		"type":          "response",
		"status":        "error",
		"error":         rpcErr.ErrorString,
		"error_code":    rpcErr.Code,
		"error_message": rpcErr.Message,
	}
	if rpcErr.Type != "" && rpcErr.Type != rpcErr.ErrorString {
		response["engine_result"] = rpcErr.Type
	}
	if id != nil {
		response["id"] = id
	}

	data, err := json.Marshal(response)
	if err != nil {
		ws.log.Error("failed to marshal websocket error", zap.Error(err))
		return
	}
	ws.enqueue(wsConn, data)
}

func (ws *WebSocketServer) enqueue(wsConn *WebSocketConnection, data []byte) {
	select {
	case wsConn.sendChannel <- data:
	case <-wsConn.ctx.Done():
	default:
		ws.log.Warn("websocket send channel full, closing connection", zap.String("conn", wsConn.ID))
		ws.closeConnection(wsConn)
	}
}

// closeConnection closes a WebSocket connection
func (ws *WebSocketServer) closeConnection(wsConn *WebSocketConnection) {
	wsConn.closeOnce.Do(func() {
		wsConn.cancel()

		ws.connectionsMutex.Lock()
		delete(ws.connections, wsConn.ID)
		ws.connectionsMutex.Unlock()

		_ = wsConn.conn.Close()
		ws.log.Debug("websocket connection closed", zap.String("conn", wsConn.ID))
	})
}

// Close closes every open connection
func (ws *WebSocketServer) Close() {
	ws.connectionsMutex.RLock()
	conns := make([]*WebSocketConnection, 0, len(ws.connections))
	for _, c := range ws.connections {
		conns = append(conns, c)
	}
	ws.connectionsMutex.RUnlock()

	for _, c := range conns {
		ws.closeConnection(c)
	}
}

// BroadcastToSubscribers sends a message to all connections subscribed to a stream
func (ws *WebSocketServer) BroadcastToSubscribers(stream rpc_types.SubscriptionType, message interface{}) {
	data, err := json.Marshal(message)
	if err != nil {
		ws.log.Error("failed to marshal broadcast message", zap.Error(err))
		return
	}

	ws.connectionsMutex.RLock()
	defer ws.connectionsMutex.RUnlock()

	for _, conn := range ws.connections {
		conn.mutex.RLock()
		_, subscribed := conn.subscriptions[stream]
		conn.mutex.RUnlock()
		if !subscribed {
			continue
		}
		select {
		case conn.sendChannel <- data:
		default:
			ws.log.Warn("skipping slow websocket connection", zap.String("conn", conn.ID))
		}
	}
}

// GetSubscriberCount returns the number of connections subscribed to a stream
func (ws *WebSocketServer) GetSubscriberCount(stream rpc_types.SubscriptionType) int {
	ws.connectionsMutex.RLock()
	defer ws.connectionsMutex.RUnlock()

	n := 0
	for _, conn := range ws.connections {
		conn.mutex.RLock()
		if _, ok := conn.subscriptions[stream]; ok {
			n++
		}
		conn.mutex.RUnlock()
	}
	return n
}

func getWebSocketClientIP(conn *websocket.Conn) string {
	remoteAddr := conn.RemoteAddr().String()
	for i := len(remoteAddr) - 1; i >= 0; i-- {
		if remoteAddr[i] == ':' {
			return remoteAddr[:i]
		}
	}
	return remoteAddr
}
