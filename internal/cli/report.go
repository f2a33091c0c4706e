package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/rustyeddy/performancepro/journal"
	"github.com/rustyeddy/performancepro/ledger"
	"github.com/rustyeddy/performancepro/metrics"
	"github.com/rustyeddy/performancepro/store"
)

// groupKeys maps --by values to grouping keys.
var groupKeys = map[string]func(ledger.Trade) string{
	"strategy":   metrics.ByStrategy,
	"instrument": metrics.ByInstrument,
	"session":    metrics.BySession,
}

func checkGroupBy(by string) error {
	if by == "" {
		return nil
	}
	if _, ok := groupKeys[by]; !ok {
		return fmt.Errorf("bad --by %q (want strategy, instrument or session)", by)
	}
	return nil
}

// groupNames maps the IDs that --by groups on to readable names.
func groupNames(ctx context.Context, st *store.Store, by string) (map[string]string, error) {
	names := map[string]string{}
	switch by {
	case "strategy":
		list, err := st.ListStrategies(ctx)
		if err != nil {
			return nil, err
		}
		for _, s := range list {
			names[s.ID] = s.Name
		}
	case "instrument":
		list, err := st.ListInstruments(ctx)
		if err != nil {
			return nil, err
		}
		for _, in := range list {
			names[in.ID] = in.Symbol
		}
	case "session":
		list, err := st.ListSessions(ctx)
		if err != nil {
			return nil, err
		}
		for _, s := range list {
			names[s.ID] = s.Date.Local().Format(dayLayout) + " " + s.ID
		}
	}
	return names, nil
}

// tradeReport fills the trade half of a report: the overall summary and,
// when by is set, one summary per group sorted by name.
func tradeReport(ctx context.Context, st *store.Store, tf *tradeFlags, by string) (journal.Report, error) {
	var r journal.Report
	if err := checkGroupBy(by); err != nil {
		return r, err
	}

	filter, err := tf.filter(ctx, st)
	if err != nil {
		return r, err
	}
	trades, err := st.ListTrades(ctx, filter)
	if err != nil {
		return r, err
	}

	r.From = filter.From
	if !filter.To.IsZero() {
		r.To = filter.To.AddDate(0, 0, -1)
	}
	if r.Trades, err = metrics.Trades(trades); err != nil {
		return r, err
	}
	if by == "" {
		return r, nil
	}

	groups, err := metrics.TradesBy(trades, groupKeys[by])
	if err != nil {
		return r, err
	}
	names, err := groupNames(ctx, st, by)
	if err != nil {
		return r, err
	}
	for id, summary := range groups {
		name := names[id]
		if name == "" {
			name = id
		}
		r.Groups = append(r.Groups, journal.GroupSummary{Name: name, Summary: summary})
	}
	sort.Slice(r.Groups, func(i, j int) bool { return r.Groups[i].Name < r.Groups[j].Name })
	r.GroupBy = by
	return r, nil
}

func lifetimeSummary(ctx context.Context, st *store.Store) (metrics.LifetimeSummary, error) {
	expenses, err := st.ListExpenses(ctx, store.ExpenseFilter{})
	if err != nil {
		return metrics.LifetimeSummary{}, err
	}
	payouts, err := st.ListPayouts(ctx, store.PayoutFilter{})
	if err != nil {
		return metrics.LifetimeSummary{}, err
	}
	return metrics.Lifetime(expenses, payouts), nil
}

func fundingSummary(ctx context.Context, st *store.Store) (metrics.FundingSummary, error) {
	evals, err := st.ListEvaluations(ctx)
	if err != nil {
		return metrics.FundingSummary{}, err
	}
	accounts, err := st.ListFundedAccounts(ctx)
	if err != nil {
		return metrics.FundingSummary{}, err
	}
	return metrics.Funding(evals, accounts), nil
}

// fullReport is tradeReport plus the lifetime and funding summaries, which
// always cover every record.
func fullReport(ctx context.Context, st *store.Store, tf *tradeFlags, by string) (journal.Report, error) {
	r, err := tradeReport(ctx, st, tf, by)
	if err != nil {
		return r, err
	}
	if r.Lifetime, err = lifetimeSummary(ctx, st); err != nil {
		return r, err
	}
	if r.Funding, err = fundingSummary(ctx, st); err != nil {
		return r, err
	}
	r.Created = time.Now()
	return r, nil
}

// outputPath places relative paths under the configured report directory.
func (rc *rootConfig) outputPath(path string) string {
	if filepath.IsAbs(path) || rc.cfg.Report.OutDir == "" {
		return path
	}
	return filepath.Join(rc.cfg.Report.OutDir, path)
}

func newReportCmd(rc *rootConfig) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "report",
		Short: "Render performance reports",
	}

	var (
		tf      tradeFlags
		by, out string
		title   string
		notes   []string
	)
	orgCmd := &cobra.Command{
		Use:   "org",
		Short: "Render an Org-mode performance report",
		Long: `Render trade, lifetime and funding metrics as an Org-mode document.

Example:
  perfpro report org --from 2024-04-01 --to 2024-04-30 --by strategy --out april.org`,
		Args: cobra.NoArgs,
		RunE: rc.withStore(func(ctx context.Context, cmd *cobra.Command, st *store.Store, args []string) error {
			r, err := fullReport(ctx, st, &tf, by)
			if err != nil {
				return err
			}
			r.Title = title
			r.Notes = notes

			if out == "" {
				return r.WriteOrg(cmd.OutOrStdout())
			}
			path := rc.outputPath(out)
			if err := writeFile(path, r.WriteOrg); err != nil {
				return err
			}
			rc.log.Info("report written", zap.String("path", path))
			fmt.Fprintf(cmd.OutOrStdout(), "✓ Wrote %s\n", path)
			return nil
		}),
	}
	tf.register(orgCmd)
	orgCmd.Flags().StringVar(&by, "by", "", "also break trades down by strategy|instrument|session")
	orgCmd.Flags().StringVarP(&out, "out", "o", "", "output file (default stdout)")
	orgCmd.Flags().StringVar(&title, "title", "", "report title")
	orgCmd.Flags().StringArrayVar(&notes, "note", nil, "observation to include (repeatable)")

	cmd.AddCommand(orgCmd)
	return cmd
}

func writeFile(path string, write func(io.Writer) error) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create %s: %w", dir, err)
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := write(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func newExportCmd(rc *rootConfig) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export records for other tools",
	}

	var (
		tf  tradeFlags
		out string
	)
	csvCmd := &cobra.Command{
		Use:   "csv",
		Short: "Export trades with computed P&L as CSV",
		Args:  cobra.NoArgs,
		RunE: rc.withStore(func(ctx context.Context, cmd *cobra.Command, st *store.Store, args []string) error {
			filter, err := tf.filter(ctx, st)
			if err != nil {
				return err
			}
			trades, err := st.ListTrades(ctx, filter)
			if err != nil {
				return err
			}

			path := rc.outputPath(out)
			exp, err := journal.NewCSV(path)
			if err != nil {
				return err
			}
			if err := exp.ExportAll(trades); err != nil {
				exp.Close()
				return err
			}
			if err := exp.Close(); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "✓ Exported %d trades to %s\n", len(trades), path)
			return nil
		}),
	}
	tf.register(csvCmd)
	csvCmd.Flags().StringVarP(&out, "out", "o", "", "output CSV file (required)")
	_ = csvCmd.MarkFlagRequired("out")

	cmd.AddCommand(csvCmd)
	return cmd
}
