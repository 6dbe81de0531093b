// Package analyzer wires the dataset, KPI aggregation and insight
// generation behind one explicitly constructed service object. Handlers
// receive it by reference; there is no ambient global state.
package analyzer

import (
	"context"

	"github.com/sells-group/sales-analyzer/internal/dataset"
	"github.com/sells-group/sales-analyzer/internal/insight"
	"github.com/sells-group/sales-analyzer/internal/kpi"
	"github.com/sells-group/sales-analyzer/internal/model"
)

// Service owns the cached table and the lazily-built insight generator.
type Service struct {
	data     *dataset.Service
	insights *insight.Generator
}

// New creates the analyzer service. Neither the dataset file nor the
// OpenAI credential is touched until first use.
func New(data *dataset.Service, insights *insight.Generator) *Service {
	return &Service{data: data, insights: insights}
}

// FilterSalesData returns a filtered preview of at most filters.Limit rows.
// The reported row count covers every matching row, not just the preview.
func (s *Service) FilterSalesData(filters model.FilterParams) (*model.FilteredData, error) {
	filters, err := filters.Normalize()
	if err != nil {
		return nil, err
	}

	t, err := s.data.Table()
	if err != nil {
		return nil, err
	}

	rows := dataset.Filter(t, filters)

	n := len(rows)
	if n > filters.Limit {
		n = filters.Limit
	}
	preview := make([]map[string]any, 0, n)
	for _, r := range rows[:n] {
		preview = append(preview, dataset.PreviewRow(r))
	}

	return &model.FilteredData{
		RowCount: len(rows),
		Columns:  t.Columns,
		Preview:  preview,
	}, nil
}

// ComputeKPIs aggregates over every row passing the filters. Limit is
// ignored here; it only caps previews.
func (s *Service) ComputeKPIs(filters model.FilterParams) (*model.KPISummary, error) {
	filters, err := filters.Normalize()
	if err != nil {
		return nil, err
	}

	t, err := s.data.Table()
	if err != nil {
		return nil, err
	}

	summary := kpi.Compute(dataset.Filter(t, filters), filters)
	return &summary, nil
}

// GenerateInsights forwards a KPI summary and question to the model.
func (s *Service) GenerateInsights(ctx context.Context, kpis model.KPISummary, question string) (*model.InsightsReport, error) {
	return s.insights.Generate(ctx, kpis, question)
}
