package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/chzyer/readline"
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/sells-group/sales-analyzer/internal/model"
	"github.com/sells-group/sales-analyzer/pkg/mcpclient"
)

var replServerURL string

const replPrompt = "sales> "

var replCmd = &cobra.Command{
	Use:   "repl",
	Short: "Interactive client for a running tool server",
	Long: `Connects to the tool server and starts an interactive session.

Commands:
  :filters [json]   replace the active filters, then recompute
  :recompute        recompute KPIs with the current filters
  :kpis             print the current KPI summary
  :tools            list the server's tools
  :help             show this help
  :exit             leave the session

Any other non-empty input is sent as a question to the insight tool.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		url := replServerURL
		if url == "" {
			url = cfg.Client.ServerURL
		}
		return runREPL(cmd.Context(), cmd.OutOrStdout(), mcpclient.NewClient(url))
	},
}

// replSession holds the client-side state: the current filter
// set and the last KPI payload (sent verbatim to the insight
// tool, the way it was unwrapped).
type replSession struct {
	client  *mcpclient.Client
	out     io.Writer
	filters model.FilterParams
	kpis    map[string]any
	summary *model.KPISummary
}

func runREPL(ctx context.Context, out io.Writer, client *mcpclient.Client) error {
	info, err := client.Initialize(ctx)
	if err != nil {
		return eris.Wrap(err, "repl: initialize (is the server running?)")
	}
	fmt.Fprintf(out, "Connected to %s %s\n", info.Name, info.Version)
	fmt.Fprintln(out, "Type :help for commands, :exit to leave")
	fmt.Fprintln(out)

	rl, err := readline.NewEx(&readline.Config{
		Prompt:          replPrompt,
		HistoryFile:     cfg.Client.HistoryFile,
		InterruptPrompt: "^C",
		EOFPrompt:       ":exit",
	})
	if err != nil {
		return eris.Wrap(err, "repl: initialize readline")
	}
	defer func() { _ = rl.Close() }()

	sess := &replSession{client: client, out: out}

	// First computation with no active predicates.
	if err := sess.recompute(ctx); err != nil {
		fmt.Fprintf(out, "Error: %v\n", err)
	}

	for {
		line, err := rl.Readline()
		if errors.Is(err, readline.ErrInterrupt) {
			continue
		}
		if errors.Is(err, io.EOF) {
			break
		}

		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		switch {
		case line == ":exit" || line == ":quit":
			return nil

		case line == ":help":
			printREPLHelp(out)

		case line == ":kpis":
			if sess.summary == nil {
				fmt.Fprintln(out, "No KPIs yet; run :recompute")
				continue
			}
			renderKPIs(out, sess.summary)

		case line == ":recompute":
			if err := sess.recompute(ctx); err != nil {
				fmt.Fprintf(out, "Error: %v\n", err)
			}

		case strings.HasPrefix(line, ":filters"):
			arg := strings.TrimSpace(strings.TrimPrefix(line, ":filters"))
			if arg == "" {
				rl.SetPrompt("filters> ")
				arg, err = rl.Readline()
				rl.SetPrompt(replPrompt)
				if err != nil {
					continue
				}
				arg = strings.TrimSpace(arg)
			}
			if err := sess.setFilters(ctx, arg); err != nil {
				// Keep the previous filters; the session continues.
				fmt.Fprintf(out, "Invalid filters (kept previous): %v\n", err)
			}

		case line == ":tools":
			tools, err := sess.client.ListTools(ctx)
			if err != nil {
				fmt.Fprintf(out, "Error: %v\n", err)
				continue
			}
			for _, tool := range tools {
				fmt.Fprintf(out, "  %-26s %s\n", tool.Name, tool.Description)
			}

		default:
			if err := sess.ask(ctx, line); err != nil {
				fmt.Fprintf(out, "Error: %v\n", err)
			}
		}
	}

	return nil
}

// setFilters parses a JSON filter object, validates it and swaps it
// in, recomputing KPIs. Malformed input leaves the previous filters alone.
func (s *replSession) setFilters(ctx context.Context, spec string) error {
	var filters model.FilterParams
	if spec != "" && spec != "{}" {
		dec := json.NewDecoder(strings.NewReader(spec))
		dec.DisallowUnknownFields()
		if err := dec.Decode(&filters); err != nil {
			return err
		}
	}

	normalized, err := filters.Normalize()
	if err != nil {
		return err
	}

	s.filters = normalized
	return s.recompute(ctx)
}

// recompute fetches a fresh KPI summary for the current filters.
func (s *replSession) recompute(ctx context.Context) error {
	res, err := s.client.CallTool(ctx, "compute_sales_kpis", map[string]any{"filters": s.filters})
	if err != nil {
		return err
	}

	payload, err := mcpclient.UnwrapResult(res)
	if err != nil {
		return err
	}

	var summary model.KPISummary
	b, _ := json.Marshal(payload)
	if err := json.Unmarshal(b, &summary); err != nil {
		return eris.Wrap(err, "repl: decode kpi summary")
	}

	s.kpis = payload
	s.summary = &summary

	scope := "all rows"
	if !s.filters.Empty() {
		scope = "filtered"
	}
	fmt.Fprintf(s.out, "KPIs (%s): rows=%d orders=%d revenue=%s (type :kpis for detail)\n",
		scope, summary.RowCount, summary.OrdersCount, money(summary.TotalRevenue))
	return nil
}

// ask forwards a question plus the current KPI payload to the insight tool.
func (s *replSession) ask(ctx context.Context, question string) error {
	if s.kpis == nil {
		if err := s.recompute(ctx); err != nil {
			return err
		}
	}

	fmt.Fprintln(s.out, "Thinking...")
	res, err := s.client.CallTool(ctx, "openai_generate_insights", map[string]any{
		"kpis":     s.kpis,
		"question": question,
	})
	if err != nil {
		return err
	}

	payload, err := mcpclient.UnwrapResult(res)
	if err != nil {
		return err
	}

	// A payload that is only raw text could not be parsed as a report;
	// show it rather than dropping it.
	if text, ok := payload["text"].(string); ok && len(payload) == 1 {
		fmt.Fprintln(s.out, text)
		return nil
	}

	var report model.InsightsReport
	b, _ := json.Marshal(payload)
	if err := json.Unmarshal(b, &report); err != nil {
		return eris.Wrap(err, "repl: decode insights report")
	}

	renderReport(s.out, &report)
	return nil
}

func printREPLHelp(w io.Writer) {
	fmt.Fprintln(w, `Commands:
  :filters [json]   replace the active filters, then recompute
                    e.g. :filters {"region":["Europe"],"start_date":"2024-01-01"}
  :recompute        recompute KPIs with the current filters
  :kpis             print the current KPI summary
  :tools            list the server's tools
  :help             show this help
  :exit             leave the session

Anything else is sent as a question to the insight tool.`)
}

func init() {
	replCmd.Flags().StringVar(&replServerURL, "server", "", "server endpoint URL (default from config)")
	rootCmd.AddCommand(replCmd)
}
