package journal

import (
	"bytes"
	"encoding/csv"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rustyeddy/performancepro/ledger"
	"github.com/rustyeddy/performancepro/pkg/errors"
)

func TestCSVHeader(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "trades.csv")
	e, err := NewCSV(path)
	require.NoError(t, err)
	require.NoError(t, e.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	header, err := csv.NewReader(strings.NewReader(string(data))).Read()
	require.NoError(t, err)
	assert.Equal(t, []string{
		"trade_id", "session_id", "instrument_id", "strategy_id", "direction", "quantity",
		"entry_price", "exit_price", "entry_time", "exit_time", "fees", "pnl",
	}, header)
}

func TestCSVExport(t *testing.T) {
	t.Parallel()

	entry := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
	exit := time.Date(2024, 1, 2, 4, 5, 6, 0, time.UTC)

	var buf bytes.Buffer
	e, err := NewCSVWriter(&buf)
	require.NoError(t, err)

	require.NoError(t, e.ExportAll([]ledger.Trade{{
		ID: "T1", SessionID: "S1", InstrumentID: "I1", StrategyID: "X1",
		Quantity: 1, Direction: ledger.Short,
		EntryPrice: 105, ExitPrice: 100, EntryTime: entry, ExitTime: exit,
		FeesCommissions: 1,
	}}))
	require.NoError(t, e.Close())

	rows, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 2)

	assert.Equal(t, []string{
		"T1", "S1", "I1", "X1", "SHORT", "1",
		"105.000000", "100.000000",
		entry.Format(time.RFC3339), exit.Format(time.RFC3339),
		"1.000000", "6.000000",
	}, rows[1])
}

func TestCSVExportRejectsBadDirection(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	e, err := NewCSVWriter(&buf)
	require.NoError(t, err)

	err = e.Export(ledger.Trade{ID: "T1", Quantity: 1, Direction: "FLAT"})
	require.Error(t, err)
	assert.True(t, errors.HasCode(err, errors.ErrCodeInvalidDirection))

	require.NoError(t, e.Close())
	rows, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	assert.Len(t, rows, 1)
}
