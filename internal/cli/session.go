package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rustyeddy/performancepro/ledger"
	"github.com/rustyeddy/performancepro/store"
)

func newSessionCmd(rc *rootConfig) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "session",
		Short: "Record and list trading sessions",
	}

	var (
		date, start, end string
		sess             ledger.Session
	)
	addCmd := &cobra.Command{
		Use:   "add",
		Short: "Record a session",
		Long: `Record a trading session. Prints the new session ID.

Example:
  perfpro session add --date 2024-04-10 --start 09:30 --end 11:00 --tag news`,
		Args: cobra.NoArgs,
		RunE: rc.withStore(func(ctx context.Context, cmd *cobra.Command, st *store.Store, args []string) error {
			day, err := parseDay(date)
			if err != nil {
				return fmt.Errorf("bad --date: %w", err)
			}
			sess.Date = day
			if sess.StartTime, err = parseClock(day, start); err != nil {
				return err
			}
			if sess.EndTime, err = parseClock(day, end); err != nil {
				return err
			}
			if sess.Market == "" {
				sess.Market = rc.cfg.Defaults.Market
			}

			saved, err := st.AddSession(ctx, sess)
			if err != nil {
				return fmt.Errorf("add session: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), saved.ID)
			return nil
		}),
	}
	addCmd.Flags().StringVar(&date, "date", "", "session day YYYY-MM-DD (default today)")
	addCmd.Flags().StringVar(&start, "start", "", "start time HH:MM")
	addCmd.Flags().StringVar(&end, "end", "", "end time HH:MM")
	addCmd.Flags().StringVar(&sess.Market, "market", "", "market or venue (default from config)")
	addCmd.Flags().StringVar(&sess.Notes, "notes", "", "free-form notes")
	addCmd.Flags().StringSliceVar(&sess.Tags, "tag", nil, "tag (repeatable)")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List sessions, newest first",
		Args:  cobra.NoArgs,
		RunE: rc.withStore(func(ctx context.Context, cmd *cobra.Command, st *store.Store, args []string) error {
			list, err := st.ListSessions(ctx)
			if err != nil {
				return err
			}
			for _, s := range list {
				fmt.Fprintf(cmd.OutOrStdout(), "%s  %s  %-10s %v  %s\n",
					s.Date.Local().Format(dayLayout), s.ID, s.Market, s.Tags, s.Notes)
			}
			return nil
		}),
	}

	cmd.AddCommand(addCmd, listCmd)
	return cmd
}
