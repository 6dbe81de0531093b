package model

// FilteredData is the preview result of filter_sales_data.
type FilteredData struct {
	RowCount int              `json:"row_count"`
	Columns  []string         `json:"columns"`
	Preview  []map[string]any `json:"preview"`
}

// GroupMetric aggregates revenue/units/orders for one dimension value
// (a region or a product category).
type GroupMetric struct {
	Name    string  `json:"name"`
	Revenue float64 `json:"revenue"`
	Units   int     `json:"units"`
	Orders  int     `json:"orders"`
}

// ProductMetric aggregates revenue/units/orders for one product.
type ProductMetric struct {
	ProductName string  `json:"product_name"`
	Revenue     float64 `json:"revenue"`
	Units       int     `json:"units"`
	Orders      int     `json:"orders"`
}

// KPISummary is a read-only snapshot of aggregates over a filtered view,
// together with the filters that produced it. Recomputed in full on every
// request; never mutated.
type KPISummary struct {
	AppliedFilters       FilterParams    `json:"applied_filters"`
	RowCount             int             `json:"row_count"`
	OrdersCount          int             `json:"orders_count"`
	TotalUnits           int             `json:"total_units"`
	TotalRevenue         float64         `json:"total_revenue"`
	AvgUnitPriceSimple   float64         `json:"avg_unit_price_simple"`
	AvgUnitPriceWeighted float64         `json:"avg_unit_price_weighted"`
	RevenueByCategory    []GroupMetric   `json:"revenue_by_category"`
	RevenueByRegion      []GroupMetric   `json:"revenue_by_region"`
	TopProductsByRevenue []ProductMetric `json:"top_products_by_revenue"`
}
