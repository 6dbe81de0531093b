package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/sales-analyzer/internal/config"
)

var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:   "sales-analyzer",
	Short: "Sales dataset tool server and interactive client",
	Long:  "Serves filtering, KPI aggregation and model-generated insight tools over a sales dataset, with an interactive client and local one-shot commands.",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		c, err := config.Load()
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		cfg = c

		if err := config.InitLogger(cfg.Log); err != nil {
			return fmt.Errorf("init logger: %w", err)
		}

		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = zap.L().Sync()
	},
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
