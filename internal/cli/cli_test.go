package cli

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rustyeddy/performancepro/pkg/errors"
)

// run executes perfpro against db and returns what it printed.
func run(t *testing.T, db string, args ...string) (string, error) {
	t.Helper()

	cmd := NewRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(append([]string{"--db", db, "--log-level", "error"}, args...))
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func mustRun(t *testing.T, db string, args ...string) string {
	t.Helper()
	out, err := run(t, db, args...)
	require.NoError(t, err, "perfpro %s", strings.Join(args, " "))
	return out
}

func metricLine(name, value string) string {
	return fmt.Sprintf("%-15s %s", name+":", value)
}

// seedTrades records a winning LONG (+9) and a losing SHORT (-1).
func seedTrades(t *testing.T, db string) (sessionID string, tradeIDs []string) {
	t.Helper()

	mustRun(t, db, "instrument", "add", "MES", "--tick-size", "0.25", "--tick-value", "1.25")
	mustRun(t, db, "strategy", "add", "orb", "--description", "opening range breakout")
	sessionID = strings.TrimSpace(mustRun(t, db, "session", "add", "--date", "2024-04-10", "--start", "09:30", "--end", "11:00", "--tag", "news"))

	win := strings.TrimSpace(mustRun(t, db, "trade", "add",
		"--session", sessionID, "--instrument", "MES", "--strategy", "orb",
		"--direction", "long", "--qty", "2", "--entry", "100", "--exit", "105",
		"--entry-time", "2024-04-10 09:41", "--exit-time", "2024-04-10 09:58",
		"--fees", "1", "--tag", "a-setup"))
	loss := strings.TrimSpace(mustRun(t, db, "trade", "add",
		"--session", sessionID, "--instrument", "MES", "--strategy", "orb",
		"--direction", "SHORT", "--qty", "1", "--entry", "100", "--exit", "102",
		"--entry-time", "2024-04-10 10:05", "--exit-time", "2024-04-10 10:20",
		"--fees", "1"))
	return sessionID, []string{win, loss}
}

func TestVersion(t *testing.T) {
	t.Parallel()

	out := mustRun(t, filepath.Join(t.TempDir(), "p.db"), "version")
	assert.Contains(t, out, "perfpro version "+version)
}

func TestConfigInitAndValidate(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	db := filepath.Join(dir, "p.db")
	path := filepath.Join(dir, "perfpro.yaml")

	out := mustRun(t, db, "config", "init", "--output", path)
	assert.Contains(t, out, "Created default configuration")
	assert.FileExists(t, path)

	out = mustRun(t, db, "config", "validate", "--file", path)
	assert.Contains(t, out, "Configuration valid")
	assert.Contains(t, out, "Currency: USD")

	out = mustRun(t, db, "config", "schema")
	assert.Contains(t, out, `"title": "perfpro-config"`)

	bad := filepath.Join(dir, "bad.yaml")
	require.NoError(t, os.WriteFile(bad, []byte("report:\n  format: pdf\n"), 0o644))
	_, err := run(t, db, "config", "validate", "--file", bad)
	require.Error(t, err)
	assert.True(t, errors.HasCode(err, errors.ErrCodeConfig))

	_, err = run(t, db, "config", "validate")
	assert.Error(t, err)
}

func TestTradeWorkflow(t *testing.T) {
	t.Parallel()

	db := filepath.Join(t.TempDir(), "p.db")
	sessionID, ids := seedTrades(t, db)

	out := mustRun(t, db, "session", "list")
	assert.Contains(t, out, "2024-04-10  "+sessionID)

	out = mustRun(t, db, "trade", "list")
	assert.Contains(t, out, "2 trades")
	assert.Less(t, strings.Index(out, ids[0]), strings.Index(out, ids[1]))

	out = mustRun(t, db, "trade", "list", "--tag", "a-setup")
	assert.Contains(t, out, "1 trades")
	assert.Contains(t, out, ids[0])

	out = mustRun(t, db, "trade", "list", "--from", "2024-04-11")
	assert.Contains(t, out, "0 trades")

	out = mustRun(t, db, "trade", "list", "--from", "2024-04-10", "--to", "2024-04-10")
	assert.Contains(t, out, "2 trades")

	out = mustRun(t, db, "trade", "show", ids[1])
	assert.Contains(t, out, ":TRADE_ID: "+ids[1])
	assert.Contains(t, out, ":DIRECTION: SHORT")
	assert.Contains(t, out, ":PNL: -1.00")

	out = mustRun(t, db, "metrics", "trades")
	assert.Contains(t, out, "2 (1 wins, 1 losses)")
	assert.Contains(t, out, metricLine("pnl", "8.00"))
	assert.Contains(t, out, metricLine("win_rate", "0.50"))
	assert.Contains(t, out, metricLine("expectancy", "4.00"))
	assert.Contains(t, out, metricLine("drawdown", "1.00"))
	assert.Contains(t, out, metricLine("profit_factor", "9.00"))

	out = mustRun(t, db, "metrics", "trades", "--by", "strategy")
	assert.Contains(t, out, "[orb] 2 trades")

	out = mustRun(t, db, "metrics", "trades", "--strategy", "orb", "--instrument", "mes")
	assert.Contains(t, out, metricLine("pnl", "8.00"))
}

func TestTradeAddRejects(t *testing.T) {
	t.Parallel()

	db := filepath.Join(t.TempDir(), "p.db")
	sessionID, _ := seedTrades(t, db)

	base := []string{"trade", "add", "--session", sessionID, "--strategy", "orb",
		"--entry-time", "2024-04-10 09:41", "--exit-time", "2024-04-10 09:58"}

	_, err := run(t, db, append(base, "--instrument", "NQ", "--direction", "long")...)
	require.Error(t, err)
	assert.True(t, errors.HasCode(err, errors.ErrCodeNotFound))

	_, err = run(t, db, append(base, "--instrument", "MES", "--direction", "flat")...)
	require.Error(t, err)
	assert.True(t, errors.HasCode(err, errors.ErrCodeInvalidDirection))

	_, err = run(t, db, "trade", "show", "missing")
	require.Error(t, err)
	assert.True(t, errors.HasCode(err, errors.ErrCodeNotFound))

	_, err = run(t, db, "metrics", "trades", "--by", "weekday")
	assert.Error(t, err)
}

func TestBusinessWorkflow(t *testing.T) {
	t.Parallel()

	db := filepath.Join(t.TempDir(), "p.db")

	mustRun(t, db, "expense", "add", "--vendor", "Apex", "--category", "eval", "--amount", "200", "--date", "2024-01-05")
	evalID := strings.TrimSpace(mustRun(t, db, "eval", "add", "--firm", "Apex", "--model", "50k", "--price", "167", "--date", "2024-01-05"))
	mustRun(t, db, "eval", "add", "--firm", "Apex", "--model", "50k", "--status", "failed")

	out := mustRun(t, db, "eval", "status", evalID, "passed")
	assert.Contains(t, out, evalID+" passed")

	acct := strings.TrimSpace(mustRun(t, db, "account", "add", "--firm", "Apex", "--size", "50000", "--evaluation", evalID))
	mustRun(t, db, "payout", "add", "--account", acct, "--firm", "Apex", "--gross", "400", "--fees", "100")

	out = mustRun(t, db, "metrics", "lifetime")
	assert.Contains(t, out, metricLine("total_expenses", "200.00"))
	assert.Contains(t, out, metricLine("total_payouts", "300.00"))
	assert.Contains(t, out, metricLine("net_profit", "100.00"))
	assert.Contains(t, out, metricLine("roi", "1.50"))

	out = mustRun(t, db, "metrics", "funding")
	assert.Contains(t, out, "2 (1 passed)")
	assert.Contains(t, out, metricLine("pass_rate", "0.50"))
	assert.Contains(t, out, metricLine("total_funding", "50000.00"))

	mustRun(t, db, "account", "close", acct)
	out = mustRun(t, db, "metrics", "funding")
	assert.Contains(t, out, metricLine("total_funding", "0.00"))

	_, err := run(t, db, "eval", "status", evalID, "funded")
	require.Error(t, err)
	assert.True(t, errors.HasCode(err, errors.ErrCodeInvalidStatus))

	_, err = run(t, db, "payout", "add", "--account", "ghost", "--firm", "Apex", "--gross", "1")
	require.Error(t, err)
	assert.True(t, errors.HasCode(err, errors.ErrCodeNotFound))
}

func TestReportAndExport(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	db := filepath.Join(dir, "p.db")
	_, ids := seedTrades(t, db)

	reportPath := filepath.Join(dir, "out", "april.org")
	out := mustRun(t, db, "report", "org", "--title", "April", "--by", "instrument", "--note", "sized down", "--out", reportPath)
	assert.Contains(t, out, "Wrote "+reportPath)

	data, err := os.ReadFile(reportPath)
	require.NoError(t, err)
	assert.Contains(t, string(data), "* PERFORMANCE: April")
	assert.Contains(t, string(data), "** By instrument")
	assert.Contains(t, string(data), "| MES | 2 | 8.00 |")
	assert.Contains(t, string(data), "- sized down")

	out = mustRun(t, db, "report", "org")
	assert.Contains(t, out, "* PERFORMANCE: all trades")

	csvPath := filepath.Join(dir, "trades.csv")
	out = mustRun(t, db, "export", "csv", "--out", csvPath)
	assert.Contains(t, out, "Exported 2 trades")

	f, err := os.Open(csvPath)
	require.NoError(t, err)
	defer f.Close()
	rows, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, "trade_id", rows[0][0])
	assert.Equal(t, ids[0], rows[1][0])
	assert.Equal(t, "9.000000", rows[1][11])
	assert.Equal(t, "-1.000000", rows[2][11])
}

func TestMetricsAll(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	db := filepath.Join(dir, "p.db")
	seedTrades(t, db)

	out := mustRun(t, db, "metrics", "all")
	assert.Contains(t, out, "Trade Metrics")
	assert.Contains(t, out, "Net P&L:       8.00")
	assert.Contains(t, out, "Funding")

	cfgPath := filepath.Join(dir, "org.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("report:\n  format: org\n"), 0o644))
	out = mustRun(t, db, "--config", cfgPath, "metrics", "all")
	assert.Contains(t, out, "* PERFORMANCE")
	assert.Contains(t, out, "| Net P&L       | 8.00 |")
}
