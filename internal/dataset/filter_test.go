package dataset

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/sales-analyzer/internal/model"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func testTable() *Table {
	return &Table{
		Columns: RequiredColumns,
		Rows: []Row{
			{Date: day(2024, 1, 10), HasDate: true, TransactionID: "t1", Region: "Europe", Category: "Electronics", ProductName: "Laptop Pro", PaymentMethod: "Credit Card", UnitsSold: 2, UnitPrice: 500, TotalRevenue: 1000},
			{Date: day(2024, 2, 15), HasDate: true, TransactionID: "t2", Region: "Asia", Category: "Books", ProductName: "Go Primer", PaymentMethod: "PayPal", UnitsSold: 1, UnitPrice: 50, TotalRevenue: 50},
			{Date: day(2024, 3, 20), HasDate: true, TransactionID: "t3", Region: "Europe", Category: "Electronics", ProductName: "laptop sleeve", PaymentMethod: "Cash", UnitsSold: 3, UnitPrice: 20, TotalRevenue: 60},
			{HasDate: false, TransactionID: "t4", Region: "Americas", Category: "Books", ProductName: "", PaymentMethod: "Credit Card", UnitsSold: 1, UnitPrice: 30, TotalRevenue: 30},
		},
	}
}

func TestFilter_NoPredicatesIsIdentity(t *testing.T) {
	table := testTable()
	out := Filter(table, model.FilterParams{Limit: 5})
	assert.Equal(t, table.Rows, out)
}

func TestFilter_DateBoundsInclusive(t *testing.T) {
	table := testTable()

	out := Filter(table, model.FilterParams{StartDate: "2024-02-15", EndDate: "2024-03-20"})
	require.Len(t, out, 2)
	assert.Equal(t, "t2", out[0].TransactionID)
	assert.Equal(t, "t3", out[1].TransactionID)
}

func TestFilter_DatelessRowsFailActiveBounds(t *testing.T) {
	table := testTable()

	// t4 has no parsed date and must be excluded once a bound is active.
	out := Filter(table, model.FilterParams{StartDate: "2020-01-01"})
	for _, r := range out {
		assert.True(t, r.HasDate)
	}
	require.Len(t, out, 3)

	// Without bounds it passes.
	out = Filter(table, model.FilterParams{})
	assert.Len(t, out, 4)
}

func TestFilter_SetMembershipCaseSensitive(t *testing.T) {
	table := testTable()

	out := Filter(table, model.FilterParams{Region: []string{"Europe"}})
	assert.Len(t, out, 2)

	out = Filter(table, model.FilterParams{Region: []string{"europe"}})
	assert.Empty(t, out)

	out = Filter(table, model.FilterParams{
		Region:        []string{"Europe", "Asia"},
		PaymentMethod: []string{"PayPal"},
	})
	require.Len(t, out, 1)
	assert.Equal(t, "t2", out[0].TransactionID)
}

func TestFilter_SubstringCaseInsensitiveNASafe(t *testing.T) {
	table := testTable()

	out := Filter(table, model.FilterParams{ProductNameContains: "LAPTOP"})
	require.Len(t, out, 2)
	assert.Equal(t, "t1", out[0].TransactionID)
	assert.Equal(t, "t3", out[1].TransactionID)

	// A whitespace-only needle is active and matches any row that has a
	// product name; t4's missing name never matches.
	out = Filter(table, model.FilterParams{ProductNameContains: " "})
	assert.Len(t, out, 3)
}

func TestFilter_PreservesRowOrder(t *testing.T) {
	table := testTable()

	out := Filter(table, model.FilterParams{ProductCategory: []string{"Electronics", "Books"}})
	ids := make([]string, 0, len(out))
	for _, r := range out {
		ids = append(ids, r.TransactionID)
	}
	assert.Equal(t, []string{"t1", "t2", "t3", "t4"}, ids)
}

func TestPreviewRow(t *testing.T) {
	r := testTable().Rows[0]
	rec := PreviewRow(r)
	assert.Equal(t, "2024-01-10", rec["Date"])
	assert.Equal(t, "t1", rec["Transaction ID"])
	assert.Equal(t, 2, rec["Units Sold"])
	assert.Equal(t, 1000.0, rec["Total Revenue"])

	noDate := PreviewRow(testTable().Rows[3])
	assert.Equal(t, "", noDate["Date"])
}
