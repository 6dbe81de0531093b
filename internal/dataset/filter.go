package dataset

import (
	"strings"
	"time"

	"github.com/sells-group/sales-analyzer/internal/model"
)

// Filter returns the rows of t satisfying every active predicate in f, in
// original row order. The returned slice shares Row values with the table;
// neither is mutated. Date bounds must already be validated
// (model.FilterParams.Normalize); a bound that fails to parse here is
// treated as unbounded.
func Filter(t *Table, f model.FilterParams) []Row {
	var (
		start, end       time.Time
		hasStart, hasEnd bool
	)
	if f.StartDate != "" {
		if ts, err := time.Parse(model.DateLayout, f.StartDate); err == nil {
			start, hasStart = ts, true
		}
	}
	if f.EndDate != "" {
		if ts, err := time.Parse(model.DateLayout, f.EndDate); err == nil {
			end, hasEnd = ts, true
		}
	}

	regions := toSet(f.Region)
	categories := toSet(f.ProductCategory)
	payments := toSet(f.PaymentMethod)

	nameActive := f.ProductNameContains != ""
	needle := strings.ToLower(strings.TrimSpace(f.ProductNameContains))

	out := make([]Row, 0, len(t.Rows))
	for _, r := range t.Rows {
		// Rows without a parsed date fail any active date bound.
		if hasStart && (!r.HasDate || r.Date.Before(start)) {
			continue
		}
		if hasEnd && (!r.HasDate || r.Date.After(end)) {
			continue
		}
		if regions != nil && !member(regions, r.Region) {
			continue
		}
		if categories != nil && !member(categories, r.Category) {
			continue
		}
		if payments != nil && !member(payments, r.PaymentMethod) {
			continue
		}
		if nameActive {
			// Missing product names never match.
			if r.ProductName == "" || !strings.Contains(strings.ToLower(r.ProductName), needle) {
				continue
			}
		}
		out = append(out, r)
	}
	return out
}

func toSet(vals []string) map[string]struct{} {
	if len(vals) == 0 {
		return nil
	}
	set := make(map[string]struct{}, len(vals))
	for _, v := range vals {
		set[v] = struct{}{}
	}
	return set
}

func member(set map[string]struct{}, v string) bool {
	_, ok := set[v]
	return ok
}

// PreviewRow renders a row as a column-name keyed record for preview
// output. Dates render as YYYY-MM-DD, or empty when unparsed.
func PreviewRow(r Row) map[string]any {
	date := ""
	if r.HasDate {
		date = r.Date.Format(model.DateLayout)
	}
	return map[string]any{
		"Date":             date,
		"Transaction ID":   r.TransactionID,
		"Region":           r.Region,
		"Product Category": r.Category,
		"Product Name":     r.ProductName,
		"Payment Method":   r.PaymentMethod,
		"Units Sold":       r.UnitsSold,
		"Unit Price":       r.UnitPrice,
		"Total Revenue":    r.TotalRevenue,
	}
}
