package mcpclient

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func rpcStub(t *testing.T, handler func(method string, params json.RawMessage) (any, *rpcError)) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var req rpcRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "2.0", req.JSONRPC)
		assert.NotZero(t, req.ID)

		params, err := json.Marshal(req.Params)
		require.NoError(t, err)

		result, rpcErr := handler(req.Method, params)
		resp := map[string]any{"jsonrpc": "2.0", "id": req.ID}
		if rpcErr != nil {
			resp["error"] = rpcErr
		} else {
			resp["result"] = result
		}

		w.Header().Set("Content-Type", "application/json")
		require.NoError(t, json.NewEncoder(w).Encode(resp))
	}))
}

func TestInitialize(t *testing.T) {
	srv := rpcStub(t, func(method string, _ json.RawMessage) (any, *rpcError) {
		assert.Equal(t, "initialize", method)
		return map[string]any{
			"serverInfo": map[string]string{"name": "sales-analyzer", "version": "1.0.0"},
		}, nil
	})
	defer srv.Close()

	info, err := NewClient(srv.URL).Initialize(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "sales-analyzer", info.Name)
	assert.Equal(t, "1.0.0", info.Version)
}

func TestListTools(t *testing.T) {
	srv := rpcStub(t, func(method string, _ json.RawMessage) (any, *rpcError) {
		assert.Equal(t, "tools/list", method)
		return map[string]any{
			"tools": []map[string]any{
				{"name": "compute_sales_kpis", "description": "KPIs"},
				{"name": "filter_sales_data", "description": "preview"},
			},
		}, nil
	})
	defer srv.Close()

	tools, err := NewClient(srv.URL).ListTools(context.Background())
	require.NoError(t, err)
	require.Len(t, tools, 2)
	assert.Equal(t, "compute_sales_kpis", tools[0].Name)
}

func TestCallTool(t *testing.T) {
	srv := rpcStub(t, func(method string, params json.RawMessage) (any, *rpcError) {
		assert.Equal(t, "tools/call", method)

		var p struct {
			Name      string         `json:"name"`
			Arguments map[string]any `json:"arguments"`
		}
		require.NoError(t, json.Unmarshal(params, &p))
		assert.Equal(t, "compute_sales_kpis", p.Name)
		assert.Contains(t, p.Arguments, "filters")

		return map[string]any{
			"content":           []map[string]string{{"type": "text", "text": `{"row_count":2}`}},
			"structuredContent": map[string]any{"row_count": 2},
		}, nil
	})
	defer srv.Close()

	res, err := NewClient(srv.URL).CallTool(context.Background(), "compute_sales_kpis", map[string]any{"filters": map[string]any{}})
	require.NoError(t, err)
	assert.False(t, res.IsError)
	assert.Equal(t, float64(2), res.StructuredContent["row_count"])
	require.Len(t, res.Content, 1)
}

func TestCallTool_RPCError(t *testing.T) {
	srv := rpcStub(t, func(string, json.RawMessage) (any, *rpcError) {
		return nil, &rpcError{Code: -32601, Message: "method not found"}
	})
	defer srv.Close()

	_, err := NewClient(srv.URL).CallTool(context.Background(), "nope", nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "method not found")
}

func TestCallTool_TransportError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "bad gateway", http.StatusBadGateway)
	}))
	defer srv.Close()

	_, err := NewClient(srv.URL).CallTool(context.Background(), "compute_sales_kpis", nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unexpected status 502")
}
