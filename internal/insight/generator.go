// Package insight turns a KPI summary and a question into a structured
// narrative report via the OpenAI completions API.
package insight

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/rotisserie/eris"

	"github.com/sells-group/sales-analyzer/internal/config"
	"github.com/sells-group/sales-analyzer/internal/model"
	"github.com/sells-group/sales-analyzer/pkg/openai"
)

// ErrNoAPIKey indicates insight generation was requested without a
// configured credential. Surfaced only on the call that needs it; the
// data tools stay usable.
var ErrNoAPIKey = eris.New("insight: openai key is not configured (set SALES_OPENAI_KEY)")

// DefaultQuestion is used when the caller passes an empty question.
const DefaultQuestion = "Give analytical insights and recommendations based on the KPIs only."

const systemInstructions = "You are a business data analyst. " +
	"Answer in an analytical (not creative) style. " +
	"Use only the data provided in the KPI. " +
	"If information is missing, state that it cannot be inferred. " +
	"Each insight should include numbers/percentages when possible. " +
	"Return structured output according to the given schema."

// reportSchema is the JSON schema the model output must conform to,
// matching model.InsightsReport.
var reportSchema = json.RawMessage(`{
	"type": "object",
	"additionalProperties": false,
	"required": ["note", "insights", "summary", "recommendations"],
	"properties": {
		"note": {"type": "string"},
		"insights": {"type": "array", "items": {"type": "string"}},
		"summary": {"type": "string"},
		"recommendations": {"type": "array", "items": {"type": "string"}}
	}
}`)

// Generator produces insight reports. The OpenAI client is built lazily on
// first use so the service can start without a credential present.
type Generator struct {
	cfg config.OpenAIConfig

	mu     sync.Mutex
	client openai.Client
}

// Option configures the generator.
type Option func(*Generator)

// WithClient injects a pre-built OpenAI client (tests).
func WithClient(c openai.Client) Option {
	return func(g *Generator) {
		g.client = c
	}
}

// NewGenerator creates a Generator from OpenAI configuration.
func NewGenerator(cfg config.OpenAIConfig, opts ...Option) *Generator {
	g := &Generator{cfg: cfg}
	for _, o := range opts {
		o(g)
	}
	return g
}

func (g *Generator) ensureClient() (openai.Client, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.client != nil {
		return g.client, nil
	}
	if g.cfg.Key == "" {
		return nil, ErrNoAPIKey
	}

	var opts []openai.Option
	if g.cfg.Model != "" {
		opts = append(opts, openai.WithModel(g.cfg.Model))
	}
	if g.cfg.BaseURL != "" {
		opts = append(opts, openai.WithBaseURL(g.cfg.BaseURL))
	}
	g.client = openai.NewClient(g.cfg.Key, opts...)
	return g.client, nil
}

// Generate asks the model for an insights report over kpis. The call
// blocks for the duration of the completion; there are no retries.
func (g *Generator) Generate(ctx context.Context, kpis model.KPISummary, question string) (*model.InsightsReport, error) {
	client, err := g.ensureClient()
	if err != nil {
		return nil, err
	}

	if question == "" {
		question = DefaultQuestion
	}

	kpisJSON, err := json.Marshal(kpis)
	if err != nil {
		return nil, eris.Wrap(err, "insight: marshal kpis")
	}
	userContent := "Question: " + question + "\n\nKPI (JSON):\n" + string(kpisJSON)

	temperature := g.cfg.Temperature
	maxTokens := g.cfg.MaxOutputTokens
	if maxTokens <= 0 {
		maxTokens = 700
	}

	resp, err := client.ChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       g.cfg.Model,
		Temperature: &temperature,
		MaxTokens:   &maxTokens,
		Messages: []openai.Message{
			{Role: "system", Content: systemInstructions},
			{Role: "user", Content: userContent},
		},
		ResponseFormat: &openai.ResponseFormat{
			Type: "json_schema",
			JSONSchema: &openai.JSONSchema{
				Name:   "insights_report",
				Strict: true,
				Schema: reportSchema,
			},
		},
	})
	if err != nil {
		return nil, eris.Wrap(err, "insight: completion call")
	}

	if len(resp.Choices) == 0 {
		return nil, eris.New("insight: completion returned no choices")
	}

	var report model.InsightsReport
	if err := json.Unmarshal([]byte(resp.Choices[0].Message.Content), &report); err != nil {
		return nil, eris.Wrap(err, "insight: parse model output")
	}

	return &report, nil
}
