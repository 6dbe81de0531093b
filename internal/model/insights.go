package model

// InsightsReport is the structured narrative produced by the model from a
// KPI summary and a question. Ephemeral; never stored.
type InsightsReport struct {
	Note            string   `json:"note"`
	Insights        []string `json:"insights"`
	Summary         string   `json:"summary"`
	Recommendations []string `json:"recommendations"`
}
