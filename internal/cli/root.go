// Package cli is the perfpro command tree.
package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/rustyeddy/performancepro/config"
	"github.com/rustyeddy/performancepro/internal/logger"
	"github.com/rustyeddy/performancepro/store"
)

// rootConfig carries the global flags and what PersistentPreRunE builds
// from them to every subcommand.
type rootConfig struct {
	ConfigPath string
	DBPath     string
	LogLevel   string

	cfg *config.Config
	log *logger.Logger
}

// setup loads the config file (if any), applies environment overrides and
// then explicitly set flags, and builds the logger.
func (rc *rootConfig) setup(cmd *cobra.Command) error {
	cfg, err := config.Load(rc.ConfigPath)
	if err != nil {
		return err
	}
	flags := cmd.Flags()
	if flags.Changed("db") {
		cfg.Database.Path = rc.DBPath
	}
	if flags.Changed("log-level") {
		cfg.Log.Level = rc.LogLevel
	}

	log, err := logger.NewLogger(cfg.Log.Level)
	if err != nil {
		return fmt.Errorf("logger: %w", err)
	}
	rc.cfg = cfg
	rc.log = log
	rc.log.Debug("config loaded",
		zap.String("config", rc.ConfigPath),
		zap.String("db", cfg.Database.Path),
	)
	return nil
}

// withStore opens the database for the duration of fn.
func (rc *rootConfig) withStore(fn func(ctx context.Context, cmd *cobra.Command, st *store.Store, args []string) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		st, err := store.Open(rc.cfg.Database.Path, rc.log)
		if err != nil {
			return fmt.Errorf("open db: %w", err)
		}
		defer st.Close()

		if err := fn(cmd.Context(), cmd, st, args); err != nil {
			rc.log.Error("command failed", zap.String("command", cmd.CommandPath()), zap.Error(err))
			return err
		}
		return nil
	}
}

func NewRootCmd() *cobra.Command {
	rc := &rootConfig{}

	cmd := &cobra.Command{
		Use:   "perfpro",
		Short: "Performance tracker for futures prop-firm trading",
		Long: `perfpro records trading sessions, trades, business expenses, payouts,
prop-firm evaluations and funded accounts in a local SQLite database, and
derives trade, lifetime and funding metrics from them.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().StringVar(&rc.ConfigPath, "config", "", "Path to config file (optional)")
	cmd.PersistentFlags().StringVar(&rc.DBPath, "db", "", "SQLite database (overrides config)")
	cmd.PersistentFlags().StringVar(&rc.LogLevel, "log-level", "", "Log level: debug|info|warn|error")

	cmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		return rc.setup(cmd)
	}
	cmd.PersistentPostRun = func(cmd *cobra.Command, args []string) {
		_ = rc.log.Sync()
	}

	cmd.AddCommand(
		newConfigCmd(rc),
		newInstrumentCmd(rc),
		newStrategyCmd(rc),
		newTagCmd(rc),
		newSessionCmd(rc),
		newTradeCmd(rc),
		newExpenseCmd(rc),
		newPayoutCmd(rc),
		newEvalCmd(rc),
		newAccountCmd(rc),
		newMetricsCmd(rc),
		newReportCmd(rc),
		newExportCmd(rc),
		newVersionCmd(),
	)

	return cmd
}

func Execute() {
	if err := NewRootCmd().ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
