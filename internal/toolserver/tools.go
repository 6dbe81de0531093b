package toolserver

import (
	"context"
	"encoding/json"

	"github.com/rotisserie/eris"

	"github.com/sells-group/sales-analyzer/internal/model"
)

// ToolInfo describes one callable tool for tools/list.
type ToolInfo struct {
	Name        string          `json:"name"`
	Description string          `json:"description"`
	InputSchema json.RawMessage `json:"inputSchema"`
}

const filtersSchema = `{
	"type": "object",
	"properties": {
		"start_date": {"type": "string", "description": "YYYY-MM-DD (inclusive). Example: 2024-01-01"},
		"end_date": {"type": "string", "description": "YYYY-MM-DD (inclusive). Example: 2024-12-31"},
		"region": {"type": "array", "items": {"type": "string"}, "description": "Filter by Region values"},
		"product_category": {"type": "array", "items": {"type": "string"}, "description": "Filter by Product Category values"},
		"payment_method": {"type": "array", "items": {"type": "string"}, "description": "Filter by Payment Method values"},
		"product_name_contains": {"type": "string", "description": "Substring match for Product Name"},
		"limit": {"type": "integer", "minimum": 1, "maximum": 2000, "default": 200, "description": "Max preview rows returned"}
	}
}`

// Tools lists the exposed tool surface.
func Tools() []ToolInfo {
	filterInput := json.RawMessage(`{
		"type": "object",
		"properties": {"filters": ` + filtersSchema + `}
	}`)

	return []ToolInfo{
		{
			Name:        "filter_sales_data",
			Description: "Return filtered rows preview from the sales dataset.",
			InputSchema: filterInput,
		},
		{
			Name:        "compute_sales_kpis",
			Description: "Compute KPI aggregates from the sales dataset (after applying filters). Ignores limit.",
			InputSchema: filterInput,
		},
		{
			Name:        "openai_generate_insights",
			Description: "Use OpenAI to generate analytical insights from a KPI summary.",
			InputSchema: json.RawMessage(`{
				"type": "object",
				"required": ["kpis"],
				"properties": {
					"kpis": {"type": "object", "description": "A KPI summary as returned by compute_sales_kpis"},
					"question": {"type": "string", "description": "Free-text question about the KPIs"}
				}
			}`),
		},
	}
}

type callParams struct {
	Name      string          `json:"name"`
	Arguments json.RawMessage `json:"arguments"`
}

type filterArgs struct {
	Filters model.FilterParams `json:"filters"`
}

type insightArgs struct {
	KPIs     model.KPISummary `json:"kpis"`
	Question string           `json:"question"`
}

// callTool dispatches one tools/call invocation. The returned error is a
// protocol error; tool failures come back inside the result.
func (s *Server) callTool(ctx context.Context, params callParams) (*CallToolResult, error) {
	switch params.Name {
	case "filter_sales_data":
		var args filterArgs
		if err := unmarshalArgs(params.Arguments, &args); err != nil {
			return nil, err
		}
		data, err := s.svc.FilterSalesData(args.Filters)
		if err != nil {
			return toolError(err), nil
		}
		return toolResult(data)

	case "compute_sales_kpis":
		var args filterArgs
		if err := unmarshalArgs(params.Arguments, &args); err != nil {
			return nil, err
		}
		kpis, err := s.svc.ComputeKPIs(args.Filters)
		if err != nil {
			return toolError(err), nil
		}
		return toolResult(kpis)

	case "openai_generate_insights":
		var args insightArgs
		if err := unmarshalArgs(params.Arguments, &args); err != nil {
			return nil, err
		}
		report, err := s.svc.GenerateInsights(ctx, args.KPIs, args.Question)
		if err != nil {
			return toolError(err), nil
		}
		return toolResult(report)

	default:
		return nil, eris.Errorf("unknown tool %q", params.Name)
	}
}

func unmarshalArgs(raw json.RawMessage, v any) error {
	if len(raw) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return eris.Wrap(err, "toolserver: decode arguments")
	}
	return nil
}
