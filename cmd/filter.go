package main

import (
	"encoding/json"
	"os"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/sells-group/sales-analyzer/internal/analyzer"
	"github.com/sells-group/sales-analyzer/internal/dataset"
	"github.com/sells-group/sales-analyzer/internal/insight"
)

var (
	filterCmdFlags filterFlags
	filterJSON     bool
)

var filterCmd = &cobra.Command{
	Use:   "filter",
	Short: "Preview filtered rows from the local dataset",
	Long: `Loads the configured dataset, applies the given filters and prints a
preview of at most --limit rows. The reported row count covers every
matching row.

Examples:
  sales-analyzer filter --region Europe --limit 20
  sales-analyzer filter --contains laptop --json`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		svc := analyzer.New(
			dataset.NewService(cfg.Dataset.Path),
			insight.NewGenerator(cfg.OpenAI),
		)

		data, err := svc.FilterSalesData(filterCmdFlags.params())
		if err != nil {
			return eris.Wrap(err, "filter: preview")
		}

		if filterJSON {
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(data)
		}

		renderPreview(cmd.OutOrStdout(), data)
		return nil
	},
}

func init() {
	filterCmd.Flags().StringVar(&filterCmdFlags.start, "start", "", "start date (YYYY-MM-DD, inclusive)")
	filterCmd.Flags().StringVar(&filterCmdFlags.end, "end", "", "end date (YYYY-MM-DD, inclusive)")
	filterCmd.Flags().StringSliceVar(&filterCmdFlags.region, "region", nil, "filter by region values")
	filterCmd.Flags().StringSliceVar(&filterCmdFlags.category, "category", nil, "filter by product category values")
	filterCmd.Flags().StringSliceVar(&filterCmdFlags.payment, "payment", nil, "filter by payment method values")
	filterCmd.Flags().StringVar(&filterCmdFlags.contains, "contains", "", "product name substring (case-insensitive)")
	filterCmd.Flags().IntVar(&filterCmdFlags.limit, "limit", 0, "max preview rows (1-2000, default 200)")
	filterCmd.Flags().BoolVar(&filterJSON, "json", false, "print the preview as JSON")
	rootCmd.AddCommand(filterCmd)
}
