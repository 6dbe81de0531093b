package main

import (
	"encoding/json"
	"os"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/sells-group/sales-analyzer/internal/dataset"
	"github.com/sells-group/sales-analyzer/internal/kpi"
)

var (
	kpisFlags filterFlags
	kpisJSON  bool
)

var kpisCmd = &cobra.Command{
	Use:   "kpis",
	Short: "Compute KPI aggregates from the local dataset",
	Long: `Loads the configured dataset, applies the given filters and prints
the KPI summary. Runs entirely locally; no server needed.

Examples:
  sales-analyzer kpis
  sales-analyzer kpis --region Europe --start 2024-01-01 --end 2024-06-30
  sales-analyzer kpis --category Electronics --json`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		filters, err := kpisFlags.params().Normalize()
		if err != nil {
			return eris.Wrap(err, "kpis: invalid filters")
		}

		t, err := loadTable()
		if err != nil {
			return err
		}

		summary := kpi.Compute(dataset.Filter(t, filters), filters)

		if kpisJSON {
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(summary)
		}

		renderKPIs(cmd.OutOrStdout(), &summary)
		return nil
	},
}

func init() {
	kpisCmd.Flags().StringVar(&kpisFlags.start, "start", "", "start date (YYYY-MM-DD, inclusive)")
	kpisCmd.Flags().StringVar(&kpisFlags.end, "end", "", "end date (YYYY-MM-DD, inclusive)")
	kpisCmd.Flags().StringSliceVar(&kpisFlags.region, "region", nil, "filter by region values")
	kpisCmd.Flags().StringSliceVar(&kpisFlags.category, "category", nil, "filter by product category values")
	kpisCmd.Flags().StringSliceVar(&kpisFlags.payment, "payment", nil, "filter by payment method values")
	kpisCmd.Flags().StringVar(&kpisFlags.contains, "contains", "", "product name substring (case-insensitive)")
	kpisCmd.Flags().BoolVar(&kpisJSON, "json", false, "print the summary as JSON")
	rootCmd.AddCommand(kpisCmd)
}
