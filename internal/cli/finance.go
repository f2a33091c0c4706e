package cli

import (
	"context"
	"fmt"

	"github.com/moznion/go-optional"
	"github.com/spf13/cobra"

	"github.com/rustyeddy/performancepro/ledger"
	"github.com/rustyeddy/performancepro/store"
)

// optionalID is None for an empty flag value.
func optionalID(s string) optional.Option[string] {
	if s == "" {
		return optional.None[string]()
	}
	return optional.Some(s)
}

func newExpenseCmd(rc *rootConfig) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "expense",
		Short: "Record and list business expenses",
	}

	var (
		e                 ledger.Expense
		date, vendor      string
		evalID, accountID string
	)
	addCmd := &cobra.Command{
		Use:   "add",
		Short: "Record an expense",
		Long: `Record an expense. The vendor is created on first use.

Example:
  perfpro expense add --vendor Apex --category eval --amount 167 --date 2024-04-01`,
		Args: cobra.NoArgs,
		RunE: rc.withStore(func(ctx context.Context, cmd *cobra.Command, st *store.Store, args []string) error {
			day, err := parseDay(date)
			if err != nil {
				return fmt.Errorf("bad --date: %w", err)
			}
			v, err := st.EnsureVendor(ctx, vendor, e.Category)
			if err != nil {
				return fmt.Errorf("vendor: %w", err)
			}

			e.Date = day
			e.VendorID = v.ID
			if e.Currency == "" {
				e.Currency = rc.cfg.Defaults.Currency
			}
			e.EvaluationID = optionalID(evalID)
			e.AccountID = optionalID(accountID)

			saved, err := st.AddExpense(ctx, e)
			if err != nil {
				return fmt.Errorf("add expense: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), saved.ID)
			return nil
		}),
	}
	fs := addCmd.Flags()
	fs.StringVar(&date, "date", "", "expense day YYYY-MM-DD (default today)")
	fs.StringVar(&vendor, "vendor", "", "vendor name (required)")
	fs.StringVar(&e.Category, "category", "", "category, e.g. eval, reset, data, platform")
	fs.Float64Var(&e.Amount, "amount", 0, "amount spent")
	fs.StringVar(&e.Currency, "currency", "", "ISO currency (default from config)")
	fs.StringVar(&e.Notes, "notes", "", "free-form notes")
	fs.StringVar(&evalID, "evaluation", "", "related evaluation ID")
	fs.StringVar(&accountID, "account", "", "related funded account ID")
	_ = addCmd.MarkFlagRequired("vendor")

	var category string
	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List expenses",
		Args:  cobra.NoArgs,
		RunE: rc.withStore(func(ctx context.Context, cmd *cobra.Command, st *store.Store, args []string) error {
			list, err := st.ListExpenses(ctx, store.ExpenseFilter{Category: category})
			if err != nil {
				return err
			}
			for _, e := range list {
				fmt.Fprintf(cmd.OutOrStdout(), "%s  %-10s %10.2f %s  %s\n",
					e.Date.Local().Format(dayLayout), e.Category, e.Amount, e.Currency, e.Notes)
			}
			return nil
		}),
	}
	listCmd.Flags().StringVar(&category, "category", "", "only this category")

	cmd.AddCommand(addCmd, listCmd)
	return cmd
}

func newPayoutCmd(rc *rootConfig) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "payout",
		Short: "Record and list payouts",
	}

	var (
		p    ledger.Payout
		date string
		net  float64
	)
	addCmd := &cobra.Command{
		Use:   "add",
		Short: "Record a payout from a funded account",
		Long: `Record a payout. Without --net the net amount is gross less fees.

Example:
  perfpro payout add --account 01HV... --firm Apex --gross 2000 --fees 200`,
		Args: cobra.NoArgs,
		RunE: rc.withStore(func(ctx context.Context, cmd *cobra.Command, st *store.Store, args []string) error {
			day, err := parseDay(date)
			if err != nil {
				return fmt.Errorf("bad --date: %w", err)
			}
			p.Date = day
			if cmd.Flags().Changed("net") {
				p.AmountNet = optional.Some(net)
			}

			saved, err := st.AddPayout(ctx, p)
			if err != nil {
				return fmt.Errorf("add payout: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), saved.ID)
			return nil
		}),
	}
	fs := addCmd.Flags()
	fs.StringVar(&date, "date", "", "payout day YYYY-MM-DD (default today)")
	fs.StringVar(&p.Firm, "firm", "", "prop firm (required)")
	fs.StringVar(&p.AccountID, "account", "", "funded account ID (required)")
	fs.Float64Var(&p.AmountGross, "gross", 0, "gross amount")
	fs.Float64Var(&p.FeesWithheld, "fees", 0, "fees withheld by the firm")
	fs.Float64Var(&net, "net", 0, "net amount received (default gross - fees)")
	_ = addCmd.MarkFlagRequired("firm")
	_ = addCmd.MarkFlagRequired("account")

	var account string
	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List payouts",
		Args:  cobra.NoArgs,
		RunE: rc.withStore(func(ctx context.Context, cmd *cobra.Command, st *store.Store, args []string) error {
			list, err := st.ListPayouts(ctx, store.PayoutFilter{AccountID: account})
			if err != nil {
				return err
			}
			for _, p := range list {
				fmt.Fprintf(cmd.OutOrStdout(), "%s  %-12s gross %10.2f  net %10.2f  %s\n",
					p.Date.Local().Format(dayLayout), p.Firm, p.AmountGross, p.Net(), p.AccountID)
			}
			return nil
		}),
	}
	listCmd.Flags().StringVar(&account, "account", "", "only this funded account")

	cmd.AddCommand(addCmd, listCmd)
	return cmd
}
