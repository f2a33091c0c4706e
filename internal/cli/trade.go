package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rustyeddy/performancepro/journal"
	"github.com/rustyeddy/performancepro/ledger"
	"github.com/rustyeddy/performancepro/metrics"
	"github.com/rustyeddy/performancepro/store"
)

func newTradeCmd(rc *rootConfig) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "trade",
		Short: "Record, list and show trades",
	}
	cmd.AddCommand(newTradeAddCmd(rc), newTradeListCmd(rc), newTradeShowCmd(rc))
	return cmd
}

func newTradeAddCmd(rc *rootConfig) *cobra.Command {
	var (
		t                   ledger.Trade
		instrument, strat   string
		direction           string
		entryTime, exitTime string
	)

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Record a closed trade",
		Long: `Record a closed trade. Prints the new trade ID.

Example:
  perfpro trade add --session 01HV... --instrument MES --strategy orb \
    --direction short --qty 2 --entry 5120.25 --exit 5112.50 \
    --entry-time "2024-04-10 09:41" --exit-time "2024-04-10 09:58" --fees 1.24`,
		Args: cobra.NoArgs,
		RunE: rc.withStore(func(ctx context.Context, cmd *cobra.Command, st *store.Store, args []string) error {
			dir, err := ledger.ParseDirection(direction)
			if err != nil {
				return err
			}
			t.Direction = dir

			in, err := st.InstrumentBySymbol(ctx, instrument)
			if err != nil {
				return err
			}
			t.InstrumentID = in.ID

			s, err := st.StrategyByName(ctx, strat)
			if err != nil {
				return err
			}
			t.StrategyID = s.ID

			if t.EntryTime, err = parseTime(entryTime); err != nil {
				return fmt.Errorf("bad --entry-time: %w", err)
			}
			if t.ExitTime, err = parseTime(exitTime); err != nil {
				return fmt.Errorf("bad --exit-time: %w", err)
			}

			saved, err := st.AddTrade(ctx, t)
			if err != nil {
				return fmt.Errorf("add trade: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), saved.ID)
			return nil
		}),
	}

	fs := cmd.Flags()
	fs.StringVar(&t.SessionID, "session", "", "session ID (required)")
	fs.StringVar(&instrument, "instrument", "", "instrument symbol (required)")
	fs.StringVar(&strat, "strategy", "", "strategy name (required)")
	fs.StringVar(&direction, "direction", "", "long or short (required)")
	fs.IntVar(&t.Quantity, "qty", 1, "contracts")
	fs.Float64Var(&t.EntryPrice, "entry", 0, "entry price")
	fs.Float64Var(&t.ExitPrice, "exit", 0, "exit price")
	fs.StringVar(&entryTime, "entry-time", "", "entry time (required)")
	fs.StringVar(&exitTime, "exit-time", "", "exit time (required)")
	fs.Float64Var(&t.FeesCommissions, "fees", 0, "fees and commissions")
	fs.StringSliceVar(&t.Tags, "tag", nil, "tag (repeatable)")
	for _, name := range []string{"session", "instrument", "strategy", "direction", "entry-time", "exit-time"} {
		_ = cmd.MarkFlagRequired(name)
	}

	return cmd
}

func newTradeListCmd(rc *rootConfig) *cobra.Command {
	var tf tradeFlags

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List trades in execution order",
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

			out := cmd.OutOrStdout()
			for _, t := range trades {
				pnl, err := metrics.TradePnL(t)
				if err != nil {
					return err
				}
				fmt.Fprintf(out, "%s  %s  %-5s %3d  %10.2f -> %10.2f  %10s\n",
					t.ID, t.ExitTime.Local().Format("2006-01-02 15:04"), t.Direction, t.Quantity,
					t.EntryPrice, t.ExitPrice, journal.FormatNum(pnl))
			}
			fmt.Fprintf(out, "%d trades\n", len(trades))
			return nil
		}),
	}
	tf.register(cmd)
	return cmd
}

func newTradeShowCmd(rc *rootConfig) *cobra.Command {
	return &cobra.Command{
		Use:   "show <trade-id>",
		Short: "Print a trade as an Org-mode journal block",
		Args:  cobra.ExactArgs(1),
		RunE: rc.withStore(func(ctx context.Context, cmd *cobra.Command, st *store.Store, args []string) error {
			t, err := st.GetTrade(ctx, args[0])
			if err != nil {
				return fmt.Errorf("get trade: %w", err)
			}
			pnl, err := metrics.TradePnL(t)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), journal.FormatTradeOrg(t, pnl))
			return nil
		}),
	}
}
