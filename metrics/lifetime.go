package metrics

import (
	"github.com/shopspring/decimal"

	"github.com/rustyeddy/performancepro/ledger"
)

// LifetimeSummary is what the business has spent and earned.
type LifetimeSummary struct {
	TotalExpenses float64
	TotalPayouts  float64
	NetProfit     float64
	// ROI is payouts over expenses, or 0 with no expenses.
	ROI float64
}

func (s LifetimeSummary) Map() map[string]float64 {
	return map[string]float64{
		"total_expenses": s.TotalExpenses,
		"total_payouts":  s.TotalPayouts,
		"net_profit":     s.NetProfit,
		"roi":            s.ROI,
	}
}

// Lifetime totals every expense against every payout's net amount.
func Lifetime(expenses []ledger.Expense, payouts []ledger.Payout) LifetimeSummary {
	spent := decimal.Zero
	for _, e := range expenses {
		spent = spent.Add(decimal.NewFromFloat(e.Amount))
	}
	earned := decimal.Zero
	for _, p := range payouts {
		earned = earned.Add(decimal.NewFromFloat(p.Net()))
	}

	s := LifetimeSummary{
		TotalExpenses: spent.InexactFloat64(),
		TotalPayouts:  earned.InexactFloat64(),
		NetProfit:     earned.Sub(spent).InexactFloat64(),
	}
	if !spent.IsZero() {
		s.ROI = earned.Div(spent).InexactFloat64()
	}
	return s
}
