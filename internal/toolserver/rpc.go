package toolserver

import "encoding/json"

// JSON-RPC 2.0 framing for the tool surface. Tool-level failures travel
// inside a CallToolResult with IsError set; rpcError is reserved for
// protocol problems (unknown method, malformed params).

const jsonrpcVersion = "2.0"

// Standard JSON-RPC error codes.
const (
	codeParseError     = -32700
	codeInvalidRequest = -32600
	codeMethodNotFound = -32601
	codeInvalidParams  = -32602
)

type rpcRequest struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      json.RawMessage `json:"id"`
	Method  string          `json:"method"`
	Params  json.RawMessage `json:"params"`
}

type rpcResponse struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      json.RawMessage `json:"id,omitempty"`
	Result  any             `json:"result,omitempty"`
	Error   *rpcError       `json:"error,omitempty"`
}

type rpcError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// TextContent is a single text block in a tool result.
type TextContent struct {
	Type string `json:"type"` // always "text"
	Text string `json:"text"`
}

// CallToolResult is the payload returned by tools/call. Structured
// results are carried twice: as structuredContent and as a JSON text
// block, for clients that cannot read structured payloads. The
// duplication happens here in the transport adapter, not in domain code.
type CallToolResult struct {
	Content           []TextContent   `json:"content"`
	StructuredContent json.RawMessage `json:"structuredContent,omitempty"`
	IsError           bool            `json:"isError,omitempty"`
}

// toolResult serializes v into the dual structured/text form.
func toolResult(v any) (*CallToolResult, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	return &CallToolResult{
		Content:           []TextContent{{Type: "text", Text: string(b)}},
		StructuredContent: json.RawMessage(b),
	}, nil
}

// toolError wraps a tool-level failure as a result, leaving other tools
// usable.
func toolError(err error) *CallToolResult {
	return &CallToolResult{
		Content: []TextContent{{Type: "text", Text: err.Error()}},
		IsError: true,
	}
}
