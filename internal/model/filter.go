package model

import (
	"time"

	"github.com/rotisserie/eris"
)

// Limit bounds for preview results.
const (
	DefaultLimit = 200
	MaxLimit     = 2000
)

// DateLayout is the expected format for filter date bounds.
const DateLayout = "2006-01-02"

// FilterParams narrows which sales rows participate in a computation.
// All predicates are conjunctive; absent predicates pass every row.
type FilterParams struct {
	StartDate           string   `json:"start_date,omitempty"`            // YYYY-MM-DD, inclusive
	EndDate             string   `json:"end_date,omitempty"`              // YYYY-MM-DD, inclusive
	Region              []string `json:"region,omitempty"`                // exact match, case-sensitive
	ProductCategory     []string `json:"product_category,omitempty"`      // exact match, case-sensitive
	PaymentMethod       []string `json:"payment_method,omitempty"`        // exact match, case-sensitive
	ProductNameContains string   `json:"product_name_contains,omitempty"` // case-insensitive substring
	// Limit caps preview rows from filter_sales_data only.
	// compute_sales_kpis ignores it.
	Limit int `json:"limit,omitempty"`
}

// Normalize validates date bounds and clamps Limit into [1, MaxLimit],
// defaulting it when unset. Returns the normalized copy.
func (f FilterParams) Normalize() (FilterParams, error) {
	if f.StartDate != "" {
		if _, err := time.Parse(DateLayout, f.StartDate); err != nil {
			return f, eris.Errorf("filter: invalid start_date %q (want YYYY-MM-DD)", f.StartDate)
		}
	}
	if f.EndDate != "" {
		if _, err := time.Parse(DateLayout, f.EndDate); err != nil {
			return f, eris.Errorf("filter: invalid end_date %q (want YYYY-MM-DD)", f.EndDate)
		}
	}
	if f.Limit <= 0 {
		f.Limit = DefaultLimit
	}
	if f.Limit > MaxLimit {
		f.Limit = MaxLimit
	}
	return f, nil
}

// Empty reports whether no predicate is active (Limit does not count).
// A whitespace-only substring still counts as active, matching the filter
// engine.
func (f FilterParams) Empty() bool {
	return f.StartDate == "" &&
		f.EndDate == "" &&
		len(f.Region) == 0 &&
		len(f.ProductCategory) == 0 &&
		len(f.PaymentMethod) == 0 &&
		f.ProductNameContains == ""
}
