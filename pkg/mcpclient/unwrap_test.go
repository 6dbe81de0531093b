package mcpclient

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractStructured_PrefersStructuredContent(t *testing.T) {
	res := &CallToolResult{
		Content:           []ContentBlock{{Type: "text", Text: `{"ignored": true}`}},
		StructuredContent: map[string]any{"row_count": float64(3)},
	}

	got := ExtractStructured(res)
	assert.Equal(t, map[string]any{"row_count": float64(3)}, got)
}

func TestExtractStructured_JSONText(t *testing.T) {
	res := &CallToolResult{
		Content: []ContentBlock{{Type: "text", Text: `{"a":1}`}},
	}

	got := ExtractStructured(res)
	assert.Equal(t, map[string]any{"a": float64(1)}, got)
}

func TestExtractStructured_ConcatenatesTextBlocks(t *testing.T) {
	res := &CallToolResult{
		Content: []ContentBlock{
			{Type: "text", Text: `{"a":`},
			{Type: "text", Text: `1}`},
		},
	}

	got := ExtractStructured(res)
	assert.Equal(t, map[string]any{"a": float64(1)}, got)
}

func TestExtractStructured_Empty(t *testing.T) {
	got := ExtractStructured(&CallToolResult{})
	assert.Equal(t, map[string]any{}, got)
}

func TestParseTextPayload(t *testing.T) {
	tests := []struct {
		name string
		text string
		want map[string]any
	}{
		{
			name: "strict json",
			text: `{"a":1}`,
			want: map[string]any{"a": float64(1)},
		},
		{
			name: "python literal",
			text: `{'note': 'it\'s fine', 'ok': True, 'missing': None}`,
			want: map[string]any{"note": "it's fine", "ok": true, "missing": nil},
		},
		{
			name: "python nested",
			text: `{'insights': ['a', 'b'], 'count': 2, 'flag': False}`,
			want: map[string]any{"insights": []any{"a", "b"}, "count": float64(2), "flag": false},
		},
		{
			name: "free text wraps under text key",
			text: "the model refused to answer",
			want: map[string]any{"text": "the model refused to answer"},
		},
		{
			name: "json array wraps under text key",
			text: `[1, 2, 3]`,
			want: map[string]any{"text": "[1, 2, 3]"},
		},
		{
			name: "surrounding whitespace trimmed",
			text: "  {\"a\":1}\n",
			want: map[string]any{"a": float64(1)},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseTextPayload(tt.text))
		})
	}
}

func TestUnwrapResult_ErrorRaisesWithDetail(t *testing.T) {
	res := &CallToolResult{
		Content: []ContentBlock{{Type: "text", Text: "dataset file not found"}},
		IsError: true,
	}

	_, err := UnwrapResult(res)
	require.Error(t, err)

	var toolErr *ToolError
	require.ErrorAs(t, err, &toolErr)
	assert.Equal(t, "dataset file not found", toolErr.Detail)
}

func TestUnwrapResult_Success(t *testing.T) {
	res := &CallToolResult{
		StructuredContent: map[string]any{"summary": "ok"},
	}

	got, err := UnwrapResult(res)
	require.NoError(t, err)
	assert.Equal(t, "ok", got["summary"])
}
