// Package metrics derives performance and business figures from ledger
// snapshots. Every function here is a pure fold over its input: nothing is
// mutated, persisted or logged, and calls are safe from any goroutine.
package metrics

import (
	"github.com/shopspring/decimal"

	"github.com/rustyeddy/performancepro/ledger"
	"github.com/rustyeddy/performancepro/pkg/errors"
)

// TradePnL returns the realized profit or loss of a closed trade:
//
//	raw = (exit - entry) * quantity - fees
//
// negated for SHORT. Prices are not range checked. A direction other than
// LONG or SHORT is an error.
func TradePnL(t ledger.Trade) (float64, error) {
	raw := decimal.NewFromFloat(t.ExitPrice).
		Sub(decimal.NewFromFloat(t.EntryPrice)).
		Mul(decimal.NewFromInt(int64(t.Quantity))).
		Sub(decimal.NewFromFloat(t.FeesCommissions))

	switch t.Direction {
	case ledger.Long:
	case ledger.Short:
		raw = raw.Neg()
	default:
		return 0, errors.Newf(errors.ErrCodeInvalidDirection,
			"trade %q: unknown direction %q", t.ID, t.Direction)
	}
	return raw.InexactFloat64(), nil
}
