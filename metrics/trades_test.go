package metrics

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rustyeddy/performancepro/ledger"
	"github.com/rustyeddy/performancepro/pkg/errors"
)

// longs returns one LONG trade per pnl, each a single contract from 100.
func longs(pnls ...float64) []ledger.Trade {
	out := make([]ledger.Trade, 0, len(pnls))
	for _, p := range pnls {
		out = append(out, ledger.Trade{
			Direction:  ledger.Long,
			Quantity:   1,
			EntryPrice: 100,
			ExitPrice:  100 + p,
		})
	}
	return out
}

func TestTradesEmpty(t *testing.T) {
	t.Parallel()

	for _, in := range [][]ledger.Trade{nil, {}} {
		s, err := Trades(in)
		require.NoError(t, err)
		assert.Equal(t, map[string]float64{
			"pnl":           0,
			"win_rate":      0,
			"expectancy":    0,
			"drawdown":      0,
			"profit_factor": 0,
		}, s.Map())
		assert.False(t, math.IsInf(s.ProfitFactor, 0))
	}
}

func TestTradesMixedPath(t *testing.T) {
	t.Parallel()

	s, err := Trades(longs(10, -5, 20, -30, 5))
	require.NoError(t, err)

	assert.InDelta(t, 0, s.PnL, 1e-9)
	assert.InDelta(t, 0.6, s.WinRate, 1e-9)
	assert.InDelta(t, 30, s.Drawdown, 1e-9)
	assert.InDelta(t, 1.0, s.ProfitFactor, 1e-9)
	// 0.6 * 35/3 - 0.4 * 17.5
	assert.InDelta(t, 0, s.Expectancy, 1e-9)
	assert.Equal(t, 5, s.Trades)
	assert.Equal(t, 3, s.Wins)
	assert.Equal(t, 2, s.Losses)
	assert.InDelta(t, 35, s.GrossProfit, 1e-9)
	assert.InDelta(t, -35, s.GrossLoss, 1e-9)
}

func TestTradesDrawdown(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		pnls []float64
		want float64
	}{
		{"opening_loss_counts", []float64{-40, 10}, 40},
		{"new_high_resets_peak", []float64{50, -20, 100, -10}, 20},
		{"monotonic_gain", []float64{5, 5, 5}, 0},
		{"deepest_of_two", []float64{10, -8, 2, -15, 30}, 21},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			s, err := Trades(longs(tt.pnls...))
			require.NoError(t, err)
			assert.InDelta(t, tt.want, s.Drawdown, 1e-9)
		})
	}
}

func TestTradesProfitFactorEdges(t *testing.T) {
	t.Parallel()

	allWins, err := Trades(longs(10, 20))
	require.NoError(t, err)
	assert.True(t, math.IsInf(allWins.ProfitFactor, 1))
	assert.InDelta(t, 1.0, allWins.WinRate, 1e-9)
	assert.InDelta(t, 15, allWins.Expectancy, 1e-9)

	allLosses, err := Trades(longs(-10, -20))
	require.NoError(t, err)
	assert.Equal(t, 0.0, allLosses.ProfitFactor)
	assert.InDelta(t, -15, allLosses.Expectancy, 1e-9)
	assert.InDelta(t, 30, allLosses.Drawdown, 1e-9)

	scratches, err := Trades(longs(0, 0))
	require.NoError(t, err)
	assert.Equal(t, 0.0, scratches.ProfitFactor)
	assert.Equal(t, 0.0, scratches.WinRate)
	assert.Equal(t, 0.0, scratches.Expectancy)
}

func TestTradesSumsCents(t *testing.T) {
	t.Parallel()

	s, err := Trades(longs(0.1, 0.2))
	require.NoError(t, err)
	assert.Equal(t, 0.3, s.PnL)
	assert.Equal(t, 0.3, s.GrossProfit)

	s, err = Trades(longs(0.3, -0.1, -0.2))
	require.NoError(t, err)
	assert.Equal(t, 0.0, s.PnL)
	assert.Equal(t, 0.3, s.Drawdown)
	assert.Equal(t, -0.3, s.GrossLoss)
}

func TestTradesWithShorts(t *testing.T) {
	t.Parallel()

	trades := []ledger.Trade{
		{Direction: ledger.Short, EntryPrice: 100, ExitPrice: 90, Quantity: 2, FeesCommissions: 1},
		{Direction: ledger.Long, EntryPrice: 100, ExitPrice: 110, Quantity: 2, FeesCommissions: 1},
	}
	s, err := Trades(trades)
	require.NoError(t, err)
	assert.InDelta(t, 40, s.PnL, 1e-9)
	assert.True(t, math.IsInf(s.ProfitFactor, 1))
}

func TestTradesStopsOnBadDirection(t *testing.T) {
	t.Parallel()

	trades := longs(10)
	trades = append(trades, ledger.Trade{ID: "bad", Quantity: 1})
	_, err := Trades(trades)
	assert.True(t, errors.HasCode(err, errors.ErrCodeInvalidDirection))
}

func TestTradesIsPure(t *testing.T) {
	t.Parallel()

	in := longs(10, -5, 20, -30, 5)
	snapshot := append([]ledger.Trade(nil), in...)

	first, err := Trades(in)
	require.NoError(t, err)
	second, err := Trades(in)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, snapshot, in)
}

func TestTradesBy(t *testing.T) {
	t.Parallel()

	trades := longs(10, -5, 20, -30)
	trades[0].StrategyID = "orb"
	trades[1].StrategyID = "vwap"
	trades[2].StrategyID = "orb"
	trades[3].StrategyID = "vwap"

	got, err := TradesBy(trades, ByStrategy)
	require.NoError(t, err)
	require.Len(t, got, 2)

	assert.InDelta(t, 30, got["orb"].PnL, 1e-9)
	assert.True(t, math.IsInf(got["orb"].ProfitFactor, 1))
	assert.InDelta(t, -35, got["vwap"].PnL, 1e-9)
	assert.InDelta(t, 35, got["vwap"].Drawdown, 1e-9)

	empty, err := TradesBy(nil, BySession)
	require.NoError(t, err)
	assert.Empty(t, empty)
}
