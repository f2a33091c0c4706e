package store

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rustyeddy/performancepro/ledger"
	"github.com/rustyeddy/performancepro/pkg/errors"
)

func (f fixture) trade(exit time.Time, dir ledger.Direction, entryPx, exitPx float64) ledger.Trade {
	return ledger.Trade{
		SessionID:       f.session.ID,
		InstrumentID:    f.instrument.ID,
		StrategyID:      f.strategy.ID,
		Quantity:        2,
		Direction:       dir,
		EntryPrice:      entryPx,
		ExitPrice:       exitPx,
		EntryTime:       exit.Add(-10 * time.Minute),
		ExitTime:        exit,
		FeesCommissions: 1.24,
	}
}

func TestAddAndGetTrade(t *testing.T) {
	t.Parallel()

	s, _ := newTestStore(t)
	ctx := context.Background()
	f := newFixture(t, s)

	exit := time.Date(2024, 4, 10, 14, 5, 0, 0, time.UTC)
	in := f.trade(exit, ledger.Short, 5120.25, 5112.50)
	in.Tags = []string{"a-setup", "trend", "a-setup"}

	saved, err := s.AddTrade(ctx, in)
	require.NoError(t, err)
	require.NotEmpty(t, saved.ID)

	got, err := s.GetTrade(ctx, saved.ID)
	require.NoError(t, err)

	assert.Equal(t, saved.ID, got.ID)
	assert.Equal(t, f.session.ID, got.SessionID)
	assert.Equal(t, f.instrument.ID, got.InstrumentID)
	assert.Equal(t, f.strategy.ID, got.StrategyID)
	assert.Equal(t, 2, got.Quantity)
	assert.Equal(t, ledger.Short, got.Direction)
	assert.InDelta(t, 5120.25, got.EntryPrice, 1e-9)
	assert.InDelta(t, 5112.50, got.ExitPrice, 1e-9)
	assert.True(t, got.ExitTime.Equal(exit))
	assert.True(t, got.EntryTime.Equal(exit.Add(-10*time.Minute)))
	assert.InDelta(t, 1.24, got.FeesCommissions, 1e-9)
	assert.Equal(t, []string{"a-setup", "trend"}, got.Tags)
}

func TestGetTradeNotFound(t *testing.T) {
	t.Parallel()

	s, _ := newTestStore(t)
	_, err := s.GetTrade(context.Background(), "nonexistent")
	require.Error(t, err)
	assert.True(t, errors.HasCode(err, errors.ErrCodeNotFound))
	assert.Contains(t, err.Error(), "not found")
}

func TestAddTradeRejects(t *testing.T) {
	t.Parallel()

	s, _ := newTestStore(t)
	ctx := context.Background()
	f := newFixture(t, s)
	exit := time.Date(2024, 4, 10, 14, 0, 0, 0, time.UTC)

	noDir := f.trade(exit, "", 1, 2)
	_, err := s.AddTrade(ctx, noDir)
	assert.True(t, errors.HasCode(err, errors.ErrCodeInvalidDirection))

	badSession := f.trade(exit, ledger.Long, 1, 2)
	badSession.SessionID = "ghost"
	_, err = s.AddTrade(ctx, badSession)
	assert.True(t, errors.HasCode(err, errors.ErrCodeNotFound))

	badStrategy := f.trade(exit, ledger.Long, 1, 2)
	badStrategy.StrategyID = "ghost"
	_, err = s.AddTrade(ctx, badStrategy)
	assert.True(t, errors.HasCode(err, errors.ErrCodeNotFound))

	all, err := s.ListTrades(ctx, TradeFilter{})
	require.NoError(t, err)
	assert.Empty(t, all)

	tags, err := s.ListTags(ctx)
	require.NoError(t, err)
	assert.Empty(t, tags)
}

func TestListTradesChronological(t *testing.T) {
	t.Parallel()

	s, _ := newTestStore(t)
	ctx := context.Background()
	f := newFixture(t, s)

	base := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	for _, h := range []int{10, 2, 5} {
		_, err := s.AddTrade(ctx, f.trade(base.Add(time.Duration(h)*time.Hour), ledger.Long, 100, 101))
		require.NoError(t, err)
	}

	got, err := s.ListTrades(ctx, TradeFilter{})
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.True(t, got[0].ExitTime.Before(got[1].ExitTime))
	assert.True(t, got[1].ExitTime.Before(got[2].ExitTime))
}

func TestListTradesFilters(t *testing.T) {
	t.Parallel()

	s, _ := newTestStore(t)
	ctx := context.Background()
	f := newFixture(t, s)

	other, err := s.AddStrategy(ctx, ledger.Strategy{Name: "vwap-fade"})
	require.NoError(t, err)
	nq, err := s.AddInstrument(ctx, ledger.Instrument{Symbol: "MNQ"})
	require.NoError(t, err)

	base := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)

	t1 := f.trade(base.Add(1*time.Hour), ledger.Long, 100, 102)
	t1.Tags = []string{"a-setup"}
	t2 := f.trade(base.Add(5*time.Hour), ledger.Long, 100, 99)
	t2.StrategyID = other.ID
	t3 := f.trade(base.Add(10*time.Hour), ledger.Short, 100, 98)
	t3.InstrumentID = nq.ID
	t3.Tags = []string{"a-setup", "late"}
	t4 := f.trade(base.Add(24*time.Hour), ledger.Long, 100, 100)

	var ids []string
	for _, tr := range []ledger.Trade{t1, t2, t3, t4} {
		saved, err := s.AddTrade(ctx, tr)
		require.NoError(t, err)
		ids = append(ids, saved.ID)
	}

	tests := []struct {
		name   string
		filter TradeFilter
		want   []string
	}{
		{"all", TradeFilter{}, ids},
		{"strategy", TradeFilter{StrategyID: other.ID}, ids[1:2]},
		{"instrument", TradeFilter{InstrumentID: nq.ID}, ids[2:3]},
		{"session", TradeFilter{SessionID: f.session.ID}, ids},
		{"tag", TradeFilter{Tag: "a-setup"}, []string{ids[0], ids[2]}},
		{"unknown_tag", TradeFilter{Tag: "none"}, nil},
		{"window", TradeFilter{From: base.Add(3 * time.Hour), To: base.Add(12 * time.Hour)}, ids[1:3]},
		{"from_inclusive", TradeFilter{From: base.Add(time.Hour), To: base.Add(2 * time.Hour)}, ids[0:1]},
		{"to_exclusive", TradeFilter{From: base, To: base.Add(time.Hour)}, nil},
		{"tag_and_window", TradeFilter{Tag: "a-setup", From: base.Add(2 * time.Hour)}, ids[2:3]},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, err := s.ListTrades(ctx, tt.filter)
			require.NoError(t, err)

			var gotIDs []string
			for _, tr := range got {
				gotIDs = append(gotIDs, tr.ID)
			}
			assert.Equal(t, tt.want, gotIDs)
		})
	}
}
