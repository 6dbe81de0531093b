// Package toolserver exposes the analyzer service as a synchronous
// request/response tool surface: JSON-RPC 2.0 over HTTP POST /mcp.
package toolserver

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/sells-group/sales-analyzer/internal/analyzer"
)

// ServerName and ServerVersion identify the server in the initialize
// handshake.
const (
	ServerName    = "sales-analyzer"
	ServerVersion = "1.0.0"
)

// Server handles the tool-call surface. Each incoming call is handled
// independently; the loaded table behind the analyzer is read-only shared
// state, so no locking happens here.
type Server struct {
	svc *analyzer.Service
}

// New creates a tool server over the analyzer service.
func New(svc *analyzer.Service) *Server {
	return &Server{svc: svc}
}

// Router builds the HTTP handler: health probe plus the JSON-RPC endpoint.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type"},
	}))
	r.Use(requestLogger)

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_ = json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
	})

	r.Post("/mcp", s.handleRPC)

	return r
}

// requestLogger tags each request with an ID and logs its outcome.
func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := uuid.New().String()
		start := time.Now()
		next.ServeHTTP(w, r)
		zap.L().Debug("request handled",
			zap.String("request_id", id),
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Duration("duration", time.Since(start)),
		)
	})
}

func (s *Server) handleRPC(w http.ResponseWriter, r *http.Request) {
	var req rpcRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeRPC(w, rpcResponse{
			JSONRPC: jsonrpcVersion,
			Error:   &rpcError{Code: codeParseError, Message: "parse error: " + err.Error()},
		})
		return
	}

	resp := rpcResponse{JSONRPC: jsonrpcVersion, ID: req.ID}

	switch req.Method {
	case "initialize":
		resp.Result = map[string]any{
			"protocolVersion": "2025-03-26",
			"serverInfo": map[string]string{
				"name":    ServerName,
				"version": ServerVersion,
			},
			"capabilities": map[string]any{"tools": map[string]any{}},
		}

	case "tools/list":
		resp.Result = map[string]any{"tools": Tools()}

	case "tools/call":
		var params callParams
		if err := json.Unmarshal(req.Params, &params); err != nil {
			resp.Error = &rpcError{Code: codeInvalidParams, Message: "invalid params: " + err.Error()}
			break
		}
		result, err := s.callTool(r.Context(), params)
		if err != nil {
			resp.Error = &rpcError{Code: codeInvalidParams, Message: err.Error()}
			break
		}
		if result.IsError {
			zap.L().Warn("tool call failed",
				zap.String("tool", params.Name),
				zap.String("detail", result.Content[0].Text),
			)
		}
		resp.Result = result

	default:
		resp.Error = &rpcError{Code: codeMethodNotFound, Message: "method not found: " + req.Method}
	}

	writeRPC(w, resp)
}

func writeRPC(w http.ResponseWriter, resp rpcResponse) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		zap.L().Error("write response", zap.Error(err))
	}
}
