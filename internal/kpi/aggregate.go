// Package kpi computes aggregate metrics over a filtered sales view.
// Everything here is a pure function of its input: no I/O, no shared state.
package kpi

import (
	"sort"

	"github.com/sells-group/sales-analyzer/internal/dataset"
	"github.com/sells-group/sales-analyzer/internal/model"
)

// TopN is how many groups each ranked aggregate keeps.
const TopN = 10

// Compute derives a KPISummary from a filtered view. An empty view yields
// zero metrics and empty group lists.
func Compute(rows []dataset.Row, applied model.FilterParams) model.KPISummary {
	summary := model.KPISummary{
		AppliedFilters:       applied,
		RevenueByCategory:    []model.GroupMetric{},
		RevenueByRegion:      []model.GroupMetric{},
		TopProductsByRevenue: []model.ProductMetric{},
	}
	if len(rows) == 0 {
		return summary
	}

	txns := make(map[string]struct{}, len(rows))
	var priceSum float64
	for _, r := range rows {
		txns[r.TransactionID] = struct{}{}
		summary.TotalUnits += r.UnitsSold
		summary.TotalRevenue += r.TotalRevenue
		priceSum += r.UnitPrice
	}

	summary.RowCount = len(rows)
	summary.OrdersCount = len(txns)
	summary.AvgUnitPriceSimple = priceSum / float64(len(rows))
	if summary.TotalUnits > 0 {
		summary.AvgUnitPriceWeighted = summary.TotalRevenue / float64(summary.TotalUnits)
	}

	summary.RevenueByCategory = TopGroups(rows, func(r dataset.Row) string { return r.Category })
	summary.RevenueByRegion = TopGroups(rows, func(r dataset.Row) string { return r.Region })

	for _, g := range TopGroups(rows, func(r dataset.Row) string { return r.ProductName }) {
		summary.TopProductsByRevenue = append(summary.TopProductsByRevenue, model.ProductMetric{
			ProductName: g.Name,
			Revenue:     g.Revenue,
			Units:       g.Units,
			Orders:      g.Orders,
		})
	}

	return summary
}

// TopGroups groups rows by key, sums revenue and units and counts rows per
// group, and returns the top TopN groups by descending revenue. Rows with
// a missing value group under the empty name rather than being dropped.
// Equal-revenue groups order by ascending name; ranking is deterministic
// regardless of row order.
func TopGroups(rows []dataset.Row, key func(dataset.Row) string) []model.GroupMetric {
	agg := make(map[string]*model.GroupMetric)
	for _, r := range rows {
		k := key(r)
		g, ok := agg[k]
		if !ok {
			g = &model.GroupMetric{Name: k}
			agg[k] = g
		}
		g.Revenue += r.TotalRevenue
		g.Units += r.UnitsSold
		g.Orders++
	}

	groups := make([]model.GroupMetric, 0, len(agg))
	for _, g := range agg {
		groups = append(groups, *g)
	}
	sort.Slice(groups, func(i, j int) bool {
		if groups[i].Revenue != groups[j].Revenue {
			return groups[i].Revenue > groups[j].Revenue
		}
		return groups[i].Name < groups[j].Name
	})

	if len(groups) > TopN {
		groups = groups[:TopN]
	}
	return groups
}
