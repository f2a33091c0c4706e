// Package journal renders tracked trades and metrics for humans: Org-mode
// trade blocks and reports, CSV exports and a terminal summary.
package journal

import (
	"fmt"
	"strings"
	"time"

	"github.com/rustyeddy/performancepro/ledger"
)

// FormatTradeOrg renders a trade and its P&L as an Org-mode block suitable
// for pasting into a journal. Structured facts go in the PROPERTIES drawer,
// followed by empty Thesis/Execution/Review sections.
func FormatTradeOrg(t ledger.Trade, pnl float64) string {
	heading := fmt.Sprintf("** Trade: %s %d (%s)", t.Direction, t.Quantity, shortID(t.ID))
	if len(t.Tags) > 0 {
		heading += "  :" + strings.Join(t.Tags, ":") + ":"
	}

	var b strings.Builder
	b.WriteString(heading)
	b.WriteString("\n")
	b.WriteString(":PROPERTIES:\n")
	fmt.Fprintf(&b, ":TRADE_ID: %s\n", t.ID)
	fmt.Fprintf(&b, ":SESSION: %s\n", t.SessionID)
	fmt.Fprintf(&b, ":INSTRUMENT: %s\n", t.InstrumentID)
	fmt.Fprintf(&b, ":STRATEGY: %s\n", t.StrategyID)
	fmt.Fprintf(&b, ":DIRECTION: %s\n", t.Direction)
	fmt.Fprintf(&b, ":QUANTITY: %d\n", t.Quantity)
	fmt.Fprintf(&b, ":ENTRY_PRICE: %.5f\n", t.EntryPrice)
	fmt.Fprintf(&b, ":EXIT_PRICE: %.5f\n", t.ExitPrice)
	fmt.Fprintf(&b, ":ENTRY_TIME: %s\n", t.EntryTime.UTC().Format(time.RFC3339))
	fmt.Fprintf(&b, ":EXIT_TIME: %s\n", t.ExitTime.UTC().Format(time.RFC3339))
	fmt.Fprintf(&b, ":FEES: %.2f\n", t.FeesCommissions)
	fmt.Fprintf(&b, ":PNL: %.2f\n", pnl)
	b.WriteString(":END:\n")
	b.WriteString("\n")
	b.WriteString("*** Thesis\n- \n\n")
	b.WriteString("*** Execution\n- \n\n")
	b.WriteString("*** Review\n- \n")

	return b.String()
}

// FormatTradesOrg renders trades separated by blank lines. pnls is indexed
// like trades.
func FormatTradesOrg(trades []ledger.Trade, pnls []float64) string {
	var b strings.Builder
	for i, t := range trades {
		if i > 0 {
			b.WriteString("\n\n")
		}
		var pnl float64
		if i < len(pnls) {
			pnl = pnls[i]
		}
		b.WriteString(FormatTradeOrg(t, pnl))
	}
	return b.String()
}

func shortID(full string) string {
	if len(full) <= 8 {
		return full
	}
	return full[len(full)-8:]
}
