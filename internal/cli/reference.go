package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rustyeddy/performancepro/ledger"
	"github.com/rustyeddy/performancepro/store"
)

func newInstrumentCmd(rc *rootConfig) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "instrument",
		Short: "Manage traded instruments",
	}

	var in ledger.Instrument
	addCmd := &cobra.Command{
		Use:   "add <symbol>",
		Short: "Add an instrument",
		Args:  cobra.ExactArgs(1),
		RunE: rc.withStore(func(ctx context.Context, cmd *cobra.Command, st *store.Store, args []string) error {
			in.Symbol = args[0]
			saved, err := st.AddInstrument(ctx, in)
			if err != nil {
				return fmt.Errorf("add instrument: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), saved.ID)
			return nil
		}),
	}
	addCmd.Flags().StringVar(&in.Name, "name", "", "display name")
	addCmd.Flags().StringVar(&in.Exchange, "exchange", "", "exchange, e.g. CME")
	addCmd.Flags().Float64Var(&in.TickSize, "tick-size", 0, "minimum price increment")
	addCmd.Flags().Float64Var(&in.TickValue, "tick-value", 0, "value of one tick per contract")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List instruments",
		Args:  cobra.NoArgs,
		RunE: rc.withStore(func(ctx context.Context, cmd *cobra.Command, st *store.Store, args []string) error {
			list, err := st.ListInstruments(ctx)
			if err != nil {
				return err
			}
			for _, in := range list {
				fmt.Fprintf(cmd.OutOrStdout(), "%-8s %-24s %-6s tick %g = %g  %s\n",
					in.Symbol, in.Name, in.Exchange, in.TickSize, in.TickValue, in.ID)
			}
			return nil
		}),
	}

	cmd.AddCommand(addCmd, listCmd)
	return cmd
}

func newStrategyCmd(rc *rootConfig) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "strategy",
		Short: "Manage strategies",
	}

	var description string
	addCmd := &cobra.Command{
		Use:   "add <name>",
		Short: "Add a strategy",
		Args:  cobra.ExactArgs(1),
		RunE: rc.withStore(func(ctx context.Context, cmd *cobra.Command, st *store.Store, args []string) error {
			saved, err := st.AddStrategy(ctx, ledger.Strategy{Name: args[0], Description: description})
			if err != nil {
				return fmt.Errorf("add strategy: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), saved.ID)
			return nil
		}),
	}
	addCmd.Flags().StringVar(&description, "description", "", "what the strategy trades")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List strategies",
		Args:  cobra.NoArgs,
		RunE: rc.withStore(func(ctx context.Context, cmd *cobra.Command, st *store.Store, args []string) error {
			list, err := st.ListStrategies(ctx)
			if err != nil {
				return err
			}
			for _, s := range list {
				fmt.Fprintf(cmd.OutOrStdout(), "%-24s %s  %s\n", s.Name, s.ID, s.Description)
			}
			return nil
		}),
	}

	cmd.AddCommand(addCmd, listCmd)
	return cmd
}

func newTagCmd(rc *rootConfig) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tag",
		Short: "Manage tags",
	}

	addCmd := &cobra.Command{
		Use:   "add <name>",
		Short: "Create a tag (no-op when it exists)",
		Args:  cobra.ExactArgs(1),
		RunE: rc.withStore(func(ctx context.Context, cmd *cobra.Command, st *store.Store, args []string) error {
			tag, err := st.EnsureTag(ctx, args[0])
			if err != nil {
				return fmt.Errorf("add tag: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), tag.ID)
			return nil
		}),
	}

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List tags",
		Args:  cobra.NoArgs,
		RunE: rc.withStore(func(ctx context.Context, cmd *cobra.Command, st *store.Store, args []string) error {
			tags, err := st.ListTags(ctx)
			if err != nil {
				return err
			}
			for _, t := range tags {
				fmt.Fprintln(cmd.OutOrStdout(), t.Name)
			}
			return nil
		}),
	}

	cmd.AddCommand(addCmd, listCmd)
	return cmd
}
