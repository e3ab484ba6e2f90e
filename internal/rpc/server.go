package rpc

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/LeJamon/goOracle/internal/rpc/rpc_types"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// maxRequestBytes bounds the body of a POST request.
const maxRequestBytes = 1 << 20

// Server handles HTTP JSON-RPC requests of the form
// {"method": "method_name", "params": [{...}]}
type Server struct {
	registry *rpc_types.MethodRegistry
	timeout  time.Duration
	log      *zap.Logger
}

// NewServer creates a new RPC server with the given timeout
func NewServer(timeout time.Duration, services *rpc_types.ServiceContainer, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	server := &Server{
		registry: rpc_types.NewMethodRegistry(),
		timeout:  timeout,
		log:      logger.Named("rpc"),
	}

	registerAllMethods(server.registry, services)

	return server
}

// Registry returns the method registry shared with the WebSocket server
func (s *Server) Registry() *rpc_types.MethodRegistry {
	return s.registry
}

// ServeHTTP implements http.Handler interface
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Access-Control-Allow-Methods", "POST, GET, OPTIONS")
	w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
	w.Header().Set("Content-Type", "application/json")

	if r.Method == http.MethodOptions {
		w.WriteHeader(http.StatusOK)
		return
	}

	if r.Method != http.MethodPost && r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	if r.Method == http.MethodGet {
		s.handleGetRequest(w, r)
		return
	}

	s.handlePostRequest(w, r)
}

func (s *Server) newContext(r *http.Request) *rpc_types.RpcContext {
	return &rpc_types.RpcContext{
		Context:    r.Context(),
		Role:       rpc_types.RoleGuest,
		ApiVersion: rpc_types.DefaultApiVersion,
		ClientIP:   getClientIP(r),
	}
}

// handleGetRequest processes GET requests with query parameters
func (s *Server) handleGetRequest(w http.ResponseWriter, r *http.Request) {
	method := r.URL.Query().Get("command")
	if method == "" {
		method = "server_info"
	}

	result, rpcErr := s.executeMethod(method, nil, s.newContext(r))
	s.writeResponse(w, nil, result, rpcErr)
}

// handlePostRequest processes POST requests with a JSON-RPC payload
func (s *Server) handlePostRequest(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxRequestBytes))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			s.writeError(w, nil, "tooLarge", "Request body exceeds "+strconv.FormatInt(tooLarge.Limit, 10)+" bytes")
			return
		}
		s.writeError(w, nil, "internal", "Failed to read request body")
		return
	}
	defer r.Body.Close()

	var request rpc_types.Request
	if err := json.Unmarshal(body, &request); err != nil {
		s.writeError(w, nil, "jsonInvalid", "Invalid JSON: "+err.Error())
		return
	}

	if request.Method == "" {
		s.writeError(w, nil, "missingCommand", "Missing method field")
		return
	}

	// params is an array holding one object
	var params json.RawMessage
	if len(request.Params) > 0 {
		params = request.Params[0]
	}

	ctx := s.newContext(r)

	if params != nil {
		var versioned struct {
			ApiVersion *int `json:"api_version"`
		}
		if err := json.Unmarshal(params, &versioned); err == nil && versioned.ApiVersion != nil {
			ctx.ApiVersion = *versioned.ApiVersion
		}
	}

	result, rpcErr := s.executeMethod(request.Method, params, ctx)

	var requestObj interface{}
	if rpcErr != nil {
		reqMap := map[string]interface{}{}
		if params != nil {
			_ = json.Unmarshal(params, &reqMap)
		}
		reqMap["command"] = request.Method
		requestObj = reqMap
	}

	s.writeResponse(w, requestObj, result, rpcErr)
}

// executeMethod executes an RPC method with the given parameters
func (s *Server) executeMethod(method string, params json.RawMessage, ctx *rpc_types.RpcContext) (interface{}, *rpc_types.RpcError) {
	handler, exists := s.registry.Get(method)
	if !exists {
		return nil, rpc_types.RpcErrorMethodNotFound(method)
	}

	if err := checkApiVersion(handler, ctx.ApiVersion); err != nil {
		return nil, err
	}

	if s.timeout > 0 {
		c, cancel := context.WithTimeout(ctx.Context, s.timeout)
		defer cancel()
		ctx.Context = c
	}

	start := time.Now()
	result, rpcErr := handler.Handle(ctx, params)
	s.log.Debug("rpc call",
		zap.String("method", method),
		zap.String("client", ctx.ClientIP),
		zap.Duration("elapsed", time.Since(start)),
		zap.Bool("ok", rpcErr == nil))
	return result, rpcErr
}

func checkApiVersion(handler rpc_types.MethodHandler, version int) *rpc_types.RpcError {
	supported := handler.SupportedApiVersions()
	if len(supported) == 0 {
		return nil
	}
	for _, v := range supported {
		if v == version {
			return nil
		}
	}
	return rpc_types.RpcErrorInvalidApiVersion(strconv.Itoa(version))
}

// writeResponse writes a JSON-RPC response. result.status is "success" or
// "error"; error responses carry error, error_code and error_message.
func (s *Server) writeResponse(w http.ResponseWriter, request interface{}, result interface{}, rpcErr *rpc_types.RpcError) {
	var resultObj map[string]interface{}

	if rpcErr != nil {
		resultObj = map[string]interface{}{
			"status":        "error",
			"error":         rpcErr.ErrorString,
			"error_code":    rpcErr.Code,
			"error_message": rpcErr.Message,
		}
		if rpcErr.Type != "" && rpcErr.Type != rpcErr.ErrorString {
			resultObj["engine_result"] = rpcErr.Type
		}
		if request != nil {
			resultObj["request"] = request
		}
	} else if resultMap, ok := result.(map[string]interface{}); ok {
		resultMap["status"] = "success"
		resultObj = resultMap
	} else {
		resultObj = map[string]interface{}{
			"status": "success",
			"data":   result,
		}
	}

	s.writeJSON(w, map[string]interface{}{"result": resultObj})
}

// writeError writes an error response for requests that never reached a method
func (s *Server) writeError(w http.ResponseWriter, request interface{}, errorCode string, message string) {
	resultObj := map[string]interface{}{
		"status":        "error",
		"error":         errorCode,
		"error_message": message,
	}
	if request != nil {
		resultObj["request"] = request
	}
	s.writeJSON(w, map[string]interface{}{"result": resultObj})
}

func (s *Server) writeJSON(w http.ResponseWriter, response interface{}) {
	data, err := json.Marshal(response)
	if err != nil {
		s.log.Error("failed to marshal response", zap.Error(err))
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

// getClientIP extracts the client IP from the request
func getClientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		ips := strings.Split(xff, ",")
		return strings.TrimSpace(ips[0])
	}

	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		return xri
	}

	ip := r.RemoteAddr
	if idx := strings.LastIndex(ip, ":"); idx != -1 {
		ip = ip[:idx]
	}
	return ip
}
