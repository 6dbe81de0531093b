package main

import (
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/sells-group/sales-analyzer/pkg/mcpclient"
)

var toolsServerURL string

var toolsCmd = &cobra.Command{
	Use:   "tools",
	Short: "List tools advertised by a running server",
	RunE: func(cmd *cobra.Command, _ []string) error {
		url := toolsServerURL
		if url == "" {
			url = cfg.Client.ServerURL
		}
		client := mcpclient.NewClient(url)

		info, err := client.Initialize(cmd.Context())
		if err != nil {
			return eris.Wrap(err, "tools: initialize")
		}

		tools, err := client.ListTools(cmd.Context())
		if err != nil {
			return eris.Wrap(err, "tools: list")
		}

		t := table.NewWriter()
		t.SetOutputMirror(cmd.OutOrStdout())
		t.SetStyle(table.StyleLight)
		t.SetTitle("%s %s", info.Name, info.Version)
		t.AppendHeader(table.Row{"Tool", "Description"})
		for _, tool := range tools {
			t.AppendRow(table.Row{tool.Name, tool.Description})
		}
		t.Render()
		return nil
	},
}

func init() {
	toolsCmd.Flags().StringVar(&toolsServerURL, "server", "", "server endpoint URL (default from config)")
	rootCmd.AddCommand(toolsCmd)
}
