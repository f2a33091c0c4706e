package journal

import (
	"encoding/csv"
	"io"
	"os"
	"strconv"
	"time"

	"github.com/rustyeddy/performancepro/ledger"
	"github.com/rustyeddy/performancepro/metrics"
	"github.com/rustyeddy/performancepro/pkg/errors"
)

// CSVHeader is the first row of every export.
var CSVHeader = []string{
	"trade_id", "session_id", "instrument_id", "strategy_id", "direction", "quantity",
	"entry_price", "exit_price", "entry_time", "exit_time", "fees", "pnl",
}

// CSVExporter writes trades with their computed P&L.
type CSVExporter struct {
	w *csv.Writer
	c io.Closer
}

// NewCSV creates path and writes the header.
func NewCSV(path string) (*CSVExporter, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrCodeStorage, err, "create %s", path)
	}
	e, err := NewCSVWriter(f)
	if err != nil {
		f.Close()
		return nil, err
	}
	e.c = f
	return e, nil
}

// NewCSVWriter writes the header to w. Closing the exporter flushes but does
// not close w.
func NewCSVWriter(w io.Writer) (*CSVExporter, error) {
	e := &CSVExporter{w: csv.NewWriter(w)}
	if err := e.w.Write(CSVHeader); err != nil {
		return nil, errors.Wrap(errors.ErrCodeStorage, "write csv header", err)
	}
	return e, nil
}

// Export writes one row. A trade with an unknown direction is rejected and
// nothing is written.
func (e *CSVExporter) Export(t ledger.Trade) error {
	pnl, err := metrics.TradePnL(t)
	if err != nil {
		return err
	}

	err = e.w.Write([]string{
		t.ID,
		t.SessionID,
		t.InstrumentID,
		t.StrategyID,
		string(t.Direction),
		strconv.Itoa(t.Quantity),
		f(t.EntryPrice),
		f(t.ExitPrice),
		t.EntryTime.UTC().Format(time.RFC3339),
		t.ExitTime.UTC().Format(time.RFC3339),
		f(t.FeesCommissions),
		f(pnl),
	})
	if err != nil {
		return errors.Wrap(errors.ErrCodeStorage, "write csv row", err)
	}
	return nil
}

// ExportAll writes every trade, stopping at the first failure.
func (e *CSVExporter) ExportAll(trades []ledger.Trade) error {
	for _, t := range trades {
		if err := e.Export(t); err != nil {
			return err
		}
	}
	return nil
}

func (e *CSVExporter) Close() error {
	e.w.Flush()
	if err := e.w.Error(); err != nil {
		return errors.Wrap(errors.ErrCodeStorage, "flush csv", err)
	}
	if e.c != nil {
		return e.c.Close()
	}
	return nil
}

func f(x float64) string {
	return strconv.FormatFloat(x, 'f', 6, 64)
}
