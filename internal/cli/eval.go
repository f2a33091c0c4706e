package cli

import (
	"context"
	"fmt"

	"github.com/moznion/go-optional"
	"github.com/spf13/cobra"

	"github.com/rustyeddy/performancepro/ledger"
	"github.com/rustyeddy/performancepro/store"
)

func newEvalCmd(rc *rootConfig) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "eval",
		Short: "Track prop-firm evaluations",
	}

	var (
		prog         ledger.EvaluationProgram
		e            ledger.Evaluation
		date, status string
		cost         float64
	)
	addCmd := &cobra.Command{
		Use:   "add",
		Short: "Record an evaluation purchase",
		Long: `Record an evaluation purchase. The program (firm + model) is created on
first use. Without --cost the program price is used.

Example:
  perfpro eval add --firm Apex --model 50k --price 167`,
		Args: cobra.NoArgs,
		RunE: rc.withStore(func(ctx context.Context, cmd *cobra.Command, st *store.Store, args []string) error {
			s, err := ledger.ParseEvaluationStatus(status)
			if err != nil {
				return err
			}
			day, err := parseDay(date)
			if err != nil {
				return fmt.Errorf("bad --date: %w", err)
			}

			p, err := st.EnsureProgram(ctx, prog)
			if err != nil {
				return fmt.Errorf("program: %w", err)
			}
			e.ProgramID = p.ID
			e.PurchaseDate = day
			e.Status = s
			if cmd.Flags().Changed("cost") {
				e.CostTotal = optional.Some(cost)
			}

			saved, err := st.AddEvaluation(ctx, e)
			if err != nil {
				return fmt.Errorf("add evaluation: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), saved.ID)
			return nil
		}),
	}
	fs := addCmd.Flags()
	fs.StringVar(&prog.Firm, "firm", "", "prop firm (required)")
	fs.StringVar(&prog.Model, "model", "", "program model, e.g. 50k (required)")
	fs.StringVar(&prog.Rules, "rules", "", "program rules summary")
	fs.Float64Var(&prog.Price, "price", 0, "program list price")
	fs.StringVar(&date, "date", "", "purchase day YYYY-MM-DD (default today)")
	fs.StringVar(&status, "status", string(ledger.EvalBought), "bought|active|passed|failed|expired")
	fs.IntVar(&e.AttemptsCount, "attempts", 0, "attempts so far")
	fs.IntVar(&e.ResetsCount, "resets", 0, "resets so far")
	fs.Float64Var(&cost, "cost", 0, "total paid (default program price)")
	_ = addCmd.MarkFlagRequired("firm")
	_ = addCmd.MarkFlagRequired("model")

	statusCmd := &cobra.Command{
		Use:   "status <evaluation-id> <status>",
		Short: "Change an evaluation's status",
		Args:  cobra.ExactArgs(2),
		RunE: rc.withStore(func(ctx context.Context, cmd *cobra.Command, st *store.Store, args []string) error {
			s, err := ledger.ParseEvaluationStatus(args[1])
			if err != nil {
				return err
			}
			if err := st.UpdateEvaluationStatus(ctx, args[0], s); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", args[0], s)
			return nil
		}),
	}

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List evaluations",
		Args:  cobra.NoArgs,
		RunE: rc.withStore(func(ctx context.Context, cmd *cobra.Command, st *store.Store, args []string) error {
			list, err := st.ListEvaluations(ctx)
			if err != nil {
				return err
			}
			for _, e := range list {
				fmt.Fprintf(cmd.OutOrStdout(), "%s  %s  %-8s cost %8.2f  attempts %d resets %d\n",
					e.PurchaseDate.Local().Format(dayLayout), e.ID, e.Status, e.CostTotal.TakeOr(0), e.AttemptsCount, e.ResetsCount)
			}
			return nil
		}),
	}

	cmd.AddCommand(addCmd, statusCmd, listCmd)
	return cmd
}

func newAccountCmd(rc *rootConfig) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "account",
		Short: "Track funded accounts",
	}

	var (
		a             ledger.FundedAccount
		start, evalID string
	)
	addCmd := &cobra.Command{
		Use:   "add",
		Short: "Record a funded account",
		Args:  cobra.NoArgs,
		RunE: rc.withStore(func(ctx context.Context, cmd *cobra.Command, st *store.Store, args []string) error {
			day, err := parseDay(start)
			if err != nil {
				return fmt.Errorf("bad --start: %w", err)
			}
			a.StartDate = day
			a.Status = ledger.AccountActive
			a.EvaluationID = optionalID(evalID)

			saved, err := st.AddFundedAccount(ctx, a)
			if err != nil {
				return fmt.Errorf("add account: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), saved.ID)
			return nil
		}),
	}
	fs := addCmd.Flags()
	fs.StringVar(&a.Firm, "firm", "", "prop firm (required)")
	fs.StringVar(&start, "start", "", "start day YYYY-MM-DD (default today)")
	fs.Float64Var(&a.AccountSize, "size", 0, "account size")
	fs.Float64Var(&a.CurrentDrawdownBuffer, "buffer", 0, "current drawdown buffer")
	fs.StringVar(&evalID, "evaluation", "", "evaluation that earned the account")
	_ = addCmd.MarkFlagRequired("firm")

	closeCmd := &cobra.Command{
		Use:   "close <account-id>",
		Short: "Mark a funded account closed",
		Args:  cobra.ExactArgs(1),
		RunE: rc.withStore(func(ctx context.Context, cmd *cobra.Command, st *store.Store, args []string) error {
			if err := st.CloseFundedAccount(ctx, args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s closed\n", args[0])
			return nil
		}),
	}

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List funded accounts",
		Args:  cobra.NoArgs,
		RunE: rc.withStore(func(ctx context.Context, cmd *cobra.Command, st *store.Store, args []string) error {
			list, err := st.ListFundedAccounts(ctx)
			if err != nil {
				return err
			}
			for _, a := range list {
				fmt.Fprintf(cmd.OutOrStdout(), "%s  %s  %-12s %-6s size %10.2f  buffer %8.2f\n",
					a.StartDate.Local().Format(dayLayout), a.ID, a.Firm, a.Status, a.AccountSize, a.CurrentDrawdownBuffer)
			}
			return nil
		}),
	}

	cmd.AddCommand(addCmd, closeCmd, listCmd)
	return cmd
}
