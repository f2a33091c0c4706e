package metrics

import (
	"math"

	"github.com/shopspring/decimal"

	"github.com/rustyeddy/performancepro/ledger"
)

// TradeSummary is the fold of a chronological trade sequence.
type TradeSummary struct {
	PnL        float64
	WinRate    float64
	Expectancy float64
	// Drawdown is the largest fall of cumulative P&L from its running peak.
	// The peak starts at zero, so an opening loss counts.
	Drawdown float64
	// ProfitFactor is +Inf when there are wins and no losses.
	ProfitFactor float64

	Trades      int
	Wins        int
	Losses      int
	GrossProfit float64
	GrossLoss   float64
}

// Map returns the named metrics.
func (s TradeSummary) Map() map[string]float64 {
	return map[string]float64{
		"pnl":           s.PnL,
		"win_rate":      s.WinRate,
		"expectancy":    s.Expectancy,
		"drawdown":      s.Drawdown,
		"profit_factor": s.ProfitFactor,
	}
}

// Trades folds trades, which must be in execution order, into a
// TradeSummary. Empty input gives the zero summary.
func Trades(trades []ledger.Trade) (TradeSummary, error) {
	var s TradeSummary
	if len(trades) == 0 {
		return s, nil
	}

	pnl, gain, loss := decimal.Zero, decimal.Zero, decimal.Zero
	peak, drawdown := decimal.Zero, decimal.Zero
	for _, t := range trades {
		v, err := TradePnL(t)
		if err != nil {
			return TradeSummary{}, err
		}
		d := decimal.NewFromFloat(v)

		s.Trades++
		pnl = pnl.Add(d)
		switch d.Sign() {
		case 1:
			s.Wins++
			gain = gain.Add(d)
		case -1:
			s.Losses++
			loss = loss.Add(d)
		}

		if pnl.GreaterThan(peak) {
			peak = pnl
		}
		if dd := peak.Sub(pnl); dd.GreaterThan(drawdown) {
			drawdown = dd
		}
	}

	s.PnL = pnl.InexactFloat64()
	s.GrossProfit = gain.InexactFloat64()
	s.GrossLoss = loss.InexactFloat64()
	s.Drawdown = drawdown.InexactFloat64()

	s.WinRate = float64(s.Wins) / float64(s.Trades)

	var avgWin, avgLoss float64
	if s.Wins > 0 {
		avgWin = s.GrossProfit / float64(s.Wins)
	}
	if s.Losses > 0 {
		avgLoss = math.Abs(s.GrossLoss / float64(s.Losses))
	}
	s.Expectancy = s.WinRate*avgWin - (1-s.WinRate)*avgLoss

	switch {
	case s.Losses > 0 && s.Wins > 0:
		s.ProfitFactor = s.GrossProfit / math.Abs(s.GrossLoss)
	case s.Losses == 0 && s.Wins > 0:
		s.ProfitFactor = math.Inf(1)
	}

	return s, nil
}

// TradesBy splits trades into groups by key, keeping execution order within
// each group, and summarizes every group.
func TradesBy(trades []ledger.Trade, key func(ledger.Trade) string) (map[string]TradeSummary, error) {
	groups := make(map[string][]ledger.Trade)
	for _, t := range trades {
		k := key(t)
		groups[k] = append(groups[k], t)
	}

	out := make(map[string]TradeSummary, len(groups))
	for k, g := range groups {
		s, err := Trades(g)
		if err != nil {
			return nil, err
		}
		out[k] = s
	}
	return out, nil
}

func ByStrategy(t ledger.Trade) string   { return t.StrategyID }
func ByInstrument(t ledger.Trade) string { return t.InstrumentID }
func BySession(t ledger.Trade) string    { return t.SessionID }
