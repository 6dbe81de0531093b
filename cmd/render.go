package main

import (
	"fmt"
	"io"

	"github.com/jedib0t/go-pretty/v6/table"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/sells-group/sales-analyzer/internal/dataset"
	"github.com/sells-group/sales-analyzer/internal/model"
)

var numPrinter = message.NewPrinter(language.English)

func money(v float64) string {
	return numPrinter.Sprintf("%.2f", v)
}

func renderKPIs(w io.Writer, k *model.KPISummary) {
	fmt.Fprintf(w, "rows=%d  orders=%d  units=%s  revenue=%s  avg_price=%s  weighted_avg_price=%s\n",
		k.RowCount,
		k.OrdersCount,
		numPrinter.Sprintf("%d", k.TotalUnits),
		money(k.TotalRevenue),
		money(k.AvgUnitPriceSimple),
		money(k.AvgUnitPriceWeighted),
	)

	renderGroups(w, "Revenue by category", k.RevenueByCategory)
	renderGroups(w, "Revenue by region", k.RevenueByRegion)

	if len(k.TopProductsByRevenue) == 0 {
		return
	}
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)
	t.SetTitle("Top products by revenue")
	t.AppendHeader(table.Row{"Product", "Revenue", "Units", "Orders"})
	for _, p := range k.TopProductsByRevenue {
		t.AppendRow(table.Row{p.ProductName, money(p.Revenue), p.Units, p.Orders})
	}
	t.Render()
}

func renderGroups(w io.Writer, title string, groups []model.GroupMetric) {
	if len(groups) == 0 {
		return
	}
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)
	t.SetTitle(title)
	t.AppendHeader(table.Row{"Name", "Revenue", "Units", "Orders"})
	for _, g := range groups {
		name := g.Name
		if name == "" {
			name = "(blank)"
		}
		t.AppendRow(table.Row{name, money(g.Revenue), g.Units, g.Orders})
	}
	t.Render()
}

func renderPreview(w io.Writer, data *model.FilteredData) {
	if len(data.Preview) == 0 {
		fmt.Fprintf(w, "(0 of %d rows)\n", data.RowCount)
		return
	}

	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)

	header := make(table.Row, len(data.Columns))
	for i, col := range data.Columns {
		header[i] = col
	}
	t.AppendHeader(header)

	for _, rec := range data.Preview {
		row := make(table.Row, len(data.Columns))
		for i, col := range data.Columns {
			row[i] = rec[col]
		}
		t.AppendRow(row)
	}
	t.Render()
	fmt.Fprintf(w, "(%d of %d rows)\n", len(data.Preview), data.RowCount)
}

func renderReport(w io.Writer, report *model.InsightsReport) {
	if report.Note != "" {
		fmt.Fprintf(w, "\nNote: %s\n", report.Note)
	}

	fmt.Fprintln(w, "\n=== INSIGHTS ===")
	for i, item := range report.Insights {
		fmt.Fprintf(w, "%d. %s\n", i+1, item)
	}

	fmt.Fprintln(w, "\n=== SUMMARY ===")
	fmt.Fprintln(w, report.Summary)

	fmt.Fprintln(w, "\n=== RECOMMENDATIONS ===")
	for i, item := range report.Recommendations {
		fmt.Fprintf(w, "%d. %s\n", i+1, item)
	}
}

// filterFlags declares the shared predicate flags for local commands.
type filterFlags struct {
	start    string
	end      string
	region   []string
	category []string
	payment  []string
	contains string
	limit    int
}

func (f *filterFlags) params() model.FilterParams {
	return model.FilterParams{
		StartDate:           f.start,
		EndDate:             f.end,
		Region:              f.region,
		ProductCategory:     f.category,
		PaymentMethod:       f.payment,
		ProductNameContains: f.contains,
		Limit:               f.limit,
	}
}

// loadTable loads the configured dataset for local one-shot commands.
func loadTable() (*dataset.Table, error) {
	return dataset.NewService(cfg.Dataset.Path).Table()
}
