// Package mcpclient is a synchronous JSON-RPC tool-call client for the
// sales analyzer tool server, plus the result-unwrapping rules shared by
// interactive consumers.
package mcpclient

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/rotisserie/eris"
)

// ContentBlock is one content item in a tool result.
type ContentBlock struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

// CallToolResult is the payload of a tools/call response.
type CallToolResult struct {
	Content           []ContentBlock `json:"content"`
	StructuredContent map[string]any `json:"structuredContent"`
	IsError           bool           `json:"isError"`
}

// ToolInfo describes one tool advertised by tools/list.
type ToolInfo struct {
	Name        string          `json:"name"`
	Description string          `json:"description"`
	InputSchema json.RawMessage `json:"inputSchema"`
}

// ServerInfo identifies the remote server.
type ServerInfo struct {
	Name    string `json:"name"`
	Version string `json:"version"`
}

// Option configures the client.
type Option func(*Client)

// WithHTTPClient overrides the default http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.http = hc
	}
}

// Client issues tool calls against a server URL. One call is in flight at
// a time per interactive session; the client itself is still safe for
// concurrent use.
type Client struct {
	url    string
	http   *http.Client
	nextID atomic.Int64
}

// NewClient creates a tool-call client for the given endpoint URL.
func NewClient(url string, opts ...Option) *Client {
	c := &Client{
		url: url,
		http: &http.Client{
			// Generous: the insight tool blocks on the upstream model.
			Timeout: 5 * time.Minute,
		},
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

type rpcRequest struct {
	JSONRPC string `json:"jsonrpc"`
	ID      int64  `json:"id"`
	Method  string `json:"method"`
	Params  any    `json:"params,omitempty"`
}

type rpcResponse struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      json.RawMessage `json:"id"`
	Result  json.RawMessage `json:"result"`
	Error   *rpcError       `json:"error"`
}

type rpcError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func (c *Client) call(ctx context.Context, method string, params, result any) error {
	body, err := json.Marshal(rpcRequest{
		JSONRPC: "2.0",
		ID:      c.nextID.Add(1),
		Method:  method,
		Params:  params,
	})
	if err != nil {
		return eris.Wrap(err, "mcpclient: marshal request")
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return eris.Wrap(err, "mcpclient: create request")
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(httpReq)
	if err != nil {
		return eris.Wrap(err, "mcpclient: send request")
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return eris.Wrap(err, "mcpclient: read response")
	}
	if resp.StatusCode != http.StatusOK {
		return eris.Errorf("mcpclient: unexpected status %d: %s", resp.StatusCode, string(respBody))
	}

	var rpcResp rpcResponse
	if err := json.Unmarshal(respBody, &rpcResp); err != nil {
		return eris.Wrap(err, "mcpclient: unmarshal response")
	}
	if rpcResp.Error != nil {
		return eris.Errorf("mcpclient: rpc error %d: %s", rpcResp.Error.Code, rpcResp.Error.Message)
	}

	if result != nil && len(rpcResp.Result) > 0 {
		if err := json.Unmarshal(rpcResp.Result, result); err != nil {
			return eris.Wrap(err, "mcpclient: unmarshal result")
		}
	}
	return nil
}

// Initialize performs the handshake and returns server identity.
func (c *Client) Initialize(ctx context.Context) (*ServerInfo, error) {
	var result struct {
		ServerInfo ServerInfo `json:"serverInfo"`
	}
	if err := c.call(ctx, "initialize", map[string]any{}, &result); err != nil {
		return nil, err
	}
	return &result.ServerInfo, nil
}

// ListTools returns the advertised tool descriptors.
func (c *Client) ListTools(ctx context.Context) ([]ToolInfo, error) {
	var result struct {
		Tools []ToolInfo `json:"tools"`
	}
	if err := c.call(ctx, "tools/list", map[string]any{}, &result); err != nil {
		return nil, err
	}
	return result.Tools, nil
}

// CallTool invokes one tool. Tool-level failures come back inside the
// result with IsError set; see UnwrapResult.
func (c *Client) CallTool(ctx context.Context, name string, arguments any) (*CallToolResult, error) {
	var result CallToolResult
	params := map[string]any{"name": name, "arguments": arguments}
	if err := c.call(ctx, "tools/call", params, &result); err != nil {
		return nil, err
	}
	return &result, nil
}
