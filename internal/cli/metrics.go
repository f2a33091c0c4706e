package cli

import (
	"context"
	"fmt"
	"io"
	"sort"

	"github.com/spf13/cobra"

	"github.com/rustyeddy/performancepro/journal"
	"github.com/rustyeddy/performancepro/store"
)

// printMetrics writes name: value lines in name order.
func printMetrics(w io.Writer, m map[string]float64) {
	names := make([]string, 0, len(m))
	for name := range m {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		fmt.Fprintf(w, "%-15s %s\n", name+":", journal.FormatNum(m[name]))
	}
}

func newMetricsCmd(rc *rootConfig) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "metrics",
		Short: "Compute performance metrics",
		Long: `Compute metrics from the recorded data.

Subcommands:
  trades   - P&L, win rate, expectancy, drawdown and profit factor
  lifetime - expenses, payouts, net profit and ROI
  funding  - evaluation pass rate and active funding
  all      - everything, as text or Org per report.format`,
	}

	var (
		tf tradeFlags
		by string
	)
	tradesCmd := &cobra.Command{
		Use:   "trades",
		Short: "Trade metrics over the matching trades",
		Args:  cobra.NoArgs,
		RunE: rc.withStore(func(ctx context.Context, cmd *cobra.Command, st *store.Store, args []string) error {
			r, err := tradeReport(ctx, st, &tf, by)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%-15s %d (%d wins, %d losses)\n", "trades:", r.Trades.Trades, r.Trades.Wins, r.Trades.Losses)
			printMetrics(out, r.Trades.Map())
			for _, g := range r.Groups {
				fmt.Fprintf(out, "\n[%s] %d trades\n", g.Name, g.Summary.Trades)
				printMetrics(out, g.Summary.Map())
			}
			return nil
		}),
	}
	tf.register(tradesCmd)
	tradesCmd.Flags().StringVar(&by, "by", "", "group by strategy|instrument|session")

	lifetimeCmd := &cobra.Command{
		Use:   "lifetime",
		Short: "Lifetime business metrics",
		Args:  cobra.NoArgs,
		RunE: rc.withStore(func(ctx context.Context, cmd *cobra.Command, st *store.Store, args []string) error {
			s, err := lifetimeSummary(ctx, st)
			if err != nil {
				return err
			}
			printMetrics(cmd.OutOrStdout(), s.Map())
			return nil
		}),
	}

	fundingCmd := &cobra.Command{
		Use:   "funding",
		Short: "Evaluation and funding metrics",
		Args:  cobra.NoArgs,
		RunE: rc.withStore(func(ctx context.Context, cmd *cobra.Command, st *store.Store, args []string) error {
			s, err := fundingSummary(ctx, st)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%-15s %d (%d passed)\n", "evaluations:", s.Evaluations, s.Passed)
			fmt.Fprintf(out, "%-15s %d\n", "active:", s.ActiveAccounts)
			printMetrics(out, s.Map())
			return nil
		}),
	}

	var (
		allFlags tradeFlags
		allBy    string
	)
	allCmd := &cobra.Command{
		Use:   "all",
		Short: "Every metric family in one summary",
		Args:  cobra.NoArgs,
		RunE: rc.withStore(func(ctx context.Context, cmd *cobra.Command, st *store.Store, args []string) error {
			r, err := fullReport(ctx, st, &allFlags, allBy)
			if err != nil {
				return err
			}
			if rc.cfg.Report.Format == "org" {
				return r.WriteOrg(cmd.OutOrStdout())
			}
			journal.PrintSummary(cmd.OutOrStdout(), r)
			return nil
		}),
	}
	allFlags.register(allCmd)
	allCmd.Flags().StringVar(&allBy, "by", "", "also group trades by strategy|instrument|session")

	cmd.AddCommand(tradesCmd, lifetimeCmd, fundingCmd, allCmd)
	return cmd
}
