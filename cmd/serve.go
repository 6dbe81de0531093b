package main

import (
	"fmt"
	"net/http"
	"os/signal"
	"syscall"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/sales-analyzer/internal/analyzer"
	"github.com/sells-group/sales-analyzer/internal/dataset"
	"github.com/sells-group/sales-analyzer/internal/insight"
	"github.com/sells-group/sales-analyzer/internal/toolserver"
)

var servePort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the sales tool server",
	Long: `Starts the JSON-RPC tool server exposing filter_sales_data,
compute_sales_kpis and openai_generate_insights. The dataset loads on
first use; an OpenAI key is required only when insights are requested.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		svc := analyzer.New(
			dataset.NewService(cfg.Dataset.Path),
			insight.NewGenerator(cfg.OpenAI),
		)

		port := servePort
		if port == 0 {
			port = cfg.Server.Port
		}

		srv := &http.Server{
			Addr:    fmt.Sprintf(":%d", port),
			Handler: toolserver.New(svc).Router(),
		}

		// Graceful shutdown
		go func() {
			<-ctx.Done()
			zap.L().Info("shutting down server")
			srv.Shutdown(ctx)
		}()

		zap.L().Info("starting server",
			zap.Int("port", port),
			zap.String("dataset", cfg.Dataset.Path),
		)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return eris.Wrap(err, "server listen")
		}

		return nil
	},
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "server port (default from config)")
	rootCmd.AddCommand(serveCmd)
}
