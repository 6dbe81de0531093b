package insight

import (
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/rotisserie/eris"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/sales-analyzer/internal/config"
	"github.com/sells-group/sales-analyzer/internal/model"
	"github.com/sells-group/sales-analyzer/pkg/openai"
)

// fakeClient records the request and returns a canned response.
type fakeClient struct {
	req  openai.ChatCompletionRequest
	resp *openai.ChatCompletionResponse
	err  error
}

func (f *fakeClient) ChatCompletion(_ context.Context, req openai.ChatCompletionRequest) (*openai.ChatCompletionResponse, error) {
	f.req = req
	return f.resp, f.err
}

func testKPIs() model.KPISummary {
	return model.KPISummary{
		RowCount:     2,
		OrdersCount:  2,
		TotalUnits:   3,
		TotalRevenue: 150,
		RevenueByRegion: []model.GroupMetric{
			{Name: "Europe", Revenue: 100, Units: 2, Orders: 1},
			{Name: "Asia", Revenue: 50, Units: 1, Orders: 1},
		},
	}
}

func reportResponse(t *testing.T, report model.InsightsReport) *openai.ChatCompletionResponse {
	t.Helper()
	b, err := json.Marshal(report)
	require.NoError(t, err)
	return &openai.ChatCompletionResponse{
		Choices: []openai.Choice{{Message: openai.Message{Role: "assistant", Content: string(b)}}},
	}
}

func TestGenerate_NoKeyIsDeferredConfigurationError(t *testing.T) {
	g := NewGenerator(config.OpenAIConfig{Model: "gpt-4o-mini"})

	_, err := g.Generate(context.Background(), testKPIs(), "why?")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNoAPIKey)
}

func TestGenerate_BuildsPromptAndParsesReport(t *testing.T) {
	want := model.InsightsReport{
		Note:            "based on provided KPIs only",
		Insights:        []string{"Europe drives 66.7% of revenue"},
		Summary:         "Revenue concentrates in Europe.",
		Recommendations: []string{"Investigate Asia underperformance"},
	}
	fake := &fakeClient{resp: reportResponse(t, want)}

	g := NewGenerator(
		config.OpenAIConfig{Model: "gpt-4o-mini", Temperature: 0.2, MaxOutputTokens: 700},
		WithClient(fake),
	)

	report, err := g.Generate(context.Background(), testKPIs(), "Analyze the data")
	require.NoError(t, err)
	assert.Equal(t, &want, report)

	// Request shape.
	require.Len(t, fake.req.Messages, 2)
	assert.Equal(t, "system", fake.req.Messages[0].Role)
	assert.Contains(t, fake.req.Messages[0].Content, "business data analyst")
	assert.Equal(t, "user", fake.req.Messages[1].Role)
	assert.True(t, strings.HasPrefix(fake.req.Messages[1].Content, "Question: Analyze the data"))
	assert.Contains(t, fake.req.Messages[1].Content, "KPI (JSON):")
	assert.Contains(t, fake.req.Messages[1].Content, `"total_revenue":150`)

	require.NotNil(t, fake.req.Temperature)
	assert.Equal(t, 0.2, *fake.req.Temperature)
	require.NotNil(t, fake.req.MaxTokens)
	assert.Equal(t, 700, *fake.req.MaxTokens)

	require.NotNil(t, fake.req.ResponseFormat)
	assert.Equal(t, "json_schema", fake.req.ResponseFormat.Type)
	require.NotNil(t, fake.req.ResponseFormat.JSONSchema)
	assert.Equal(t, "insights_report", fake.req.ResponseFormat.JSONSchema.Name)
	assert.True(t, fake.req.ResponseFormat.JSONSchema.Strict)
}

func TestGenerate_DefaultQuestion(t *testing.T) {
	fake := &fakeClient{resp: reportResponse(t, model.InsightsReport{Summary: "ok"})}
	g := NewGenerator(config.OpenAIConfig{}, WithClient(fake))

	_, err := g.Generate(context.Background(), testKPIs(), "")
	require.NoError(t, err)
	assert.Contains(t, fake.req.Messages[1].Content, DefaultQuestion)
}

func TestGenerate_UpstreamFailures(t *testing.T) {
	tests := []struct {
		name    string
		fake    *fakeClient
		wantErr string
	}{
		{
			name:    "completion error",
			fake:    &fakeClient{err: eris.New("boom")},
			wantErr: "completion call",
		},
		{
			name:    "no choices",
			fake:    &fakeClient{resp: &openai.ChatCompletionResponse{}},
			wantErr: "no choices",
		},
		{
			name: "unparsable content",
			fake: &fakeClient{resp: &openai.ChatCompletionResponse{
				Choices: []openai.Choice{{Message: openai.Message{Content: "not json"}}},
			}},
			wantErr: "parse model output",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := NewGenerator(config.OpenAIConfig{}, WithClient(tt.fake))
			_, err := g.Generate(context.Background(), testKPIs(), "q")
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
