package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/Masterminds/squirrel"
	"go.uber.org/zap"

	"github.com/rustyeddy/performancepro/ledger"
	"github.com/rustyeddy/performancepro/pkg/id"
)

var tradeColumns = []string{
	"t.id", "t.session_id", "t.instrument_id", "t.strategy_id", "t.quantity", "t.direction",
	"t.entry_price", "t.exit_price", "t.entry_time", "t.exit_time", "t.fees_commissions",
}

// TradeFilter narrows ListTrades. Zero fields do not filter. From and To
// bound the exit time as [From, To).
type TradeFilter struct {
	SessionID    string
	InstrumentID string
	StrategyID   string
	Tag          string
	From         time.Time
	To           time.Time
}

// AddTrade stores a closed trade. Its session, instrument and strategy must
// already exist.
func (s *Store) AddTrade(ctx context.Context, t ledger.Trade) (ledger.Trade, error) {
	if err := t.Validate(); err != nil {
		return ledger.Trade{}, err
	}
	if t.ID == "" {
		t.ID = id.New()
	}

	err := s.withTx(ctx, func(tx *sql.Tx) error {
		if err := s.mustExist(ctx, tx, "sessions", "session", t.SessionID); err != nil {
			return err
		}
		if err := s.mustExist(ctx, tx, "instruments", "instrument", t.InstrumentID); err != nil {
			return err
		}
		if err := s.mustExist(ctx, tx, "strategies", "strategy", t.StrategyID); err != nil {
			return err
		}

		_, err := s.exec(ctx, tx, s.sq.Insert("trades").Columns(
			"id", "session_id", "instrument_id", "strategy_id", "quantity", "direction",
			"entry_price", "exit_price", "entry_time", "exit_time", "fees_commissions",
		).Values(
			t.ID, t.SessionID, t.InstrumentID, t.StrategyID, t.Quantity, string(t.Direction),
			t.EntryPrice, t.ExitPrice, utc(t.EntryTime), utc(t.ExitTime), t.FeesCommissions,
		), "add trade")
		if err != nil {
			return err
		}
		return s.linkTags(ctx, tx, "trade_tags", "trade_id", t.ID, t.Tags)
	})
	if err != nil {
		return ledger.Trade{}, err
	}

	s.logger.Debug("trade added",
		zap.String("id", t.ID),
		zap.String("session_id", t.SessionID),
		zap.String("direction", string(t.Direction)),
	)
	return t, nil
}

func scanTrade(r scanner) (ledger.Trade, error) {
	var t ledger.Trade
	var dir string
	err := r.Scan(
		&t.ID, &t.SessionID, &t.InstrumentID, &t.StrategyID, &t.Quantity, &dir,
		&t.EntryPrice, &t.ExitPrice, &t.EntryTime, &t.ExitTime, &t.FeesCommissions,
	)
	t.Direction = ledger.Direction(dir)
	return t, err
}

func (s *Store) GetTrade(ctx context.Context, tradeID string) (ledger.Trade, error) {
	var t ledger.Trade
	err := s.get(ctx, s.db, s.sq.Select(tradeColumns...).From("trades t").Where(squirrel.Eq{"t.id": tradeID}),
		func(r scanner) error {
			var err error
			t, err = scanTrade(r)
			return err
		})
	if err != nil {
		return ledger.Trade{}, s.notFound(err, "trade", tradeID)
	}

	tags, err := s.tagsFor(ctx, s.db, "trade_tags", "trade_id", []string{t.ID})
	if err != nil {
		return ledger.Trade{}, err
	}
	t.Tags = tags[t.ID]
	return t, nil
}

// ListTrades returns matching trades in execution order: by exit time,
// then entry time, then ID.
func (s *Store) ListTrades(ctx context.Context, f TradeFilter) ([]ledger.Trade, error) {
	q := s.sq.Select(tradeColumns...).From("trades t")

	if f.SessionID != "" {
		q = q.Where(squirrel.Eq{"t.session_id": f.SessionID})
	}
	if f.InstrumentID != "" {
		q = q.Where(squirrel.Eq{"t.instrument_id": f.InstrumentID})
	}
	if f.StrategyID != "" {
		q = q.Where(squirrel.Eq{"t.strategy_id": f.StrategyID})
	}
	if f.Tag != "" {
		q = q.Where(squirrel.Expr(
			"t.id IN (SELECT tt.trade_id FROM trade_tags tt JOIN tags g ON g.id = tt.tag_id WHERE g.name = ?)", f.Tag))
	}
	if !f.From.IsZero() {
		q = q.Where(squirrel.GtOrEq{"t.exit_time": utc(f.From)})
	}
	if !f.To.IsZero() {
		q = q.Where(squirrel.Lt{"t.exit_time": utc(f.To)})
	}
	q = q.OrderBy("t.exit_time ASC", "t.entry_time ASC", "t.id ASC")

	rows, err := s.query(ctx, s.db, q, "list trades")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []ledger.Trade
	var ids []string
	for rows.Next() {
		t, err := scanTrade(rows)
		if err != nil {
			return nil, s.storageErr("scan trade", err)
		}
		out = append(out, t)
		ids = append(ids, t.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, s.storageErr("list trades", err)
	}

	tags, err := s.tagsFor(ctx, s.db, "trade_tags", "trade_id", ids)
	if err != nil {
		return nil, err
	}
	for i := range out {
		out[i].Tags = tags[out[i].ID]
	}
	return out, nil
}
