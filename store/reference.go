package store

import (
	"context"
	"database/sql"
	"strings"

	"github.com/Masterminds/squirrel"
	"go.uber.org/zap"

	"github.com/rustyeddy/performancepro/ledger"
	"github.com/rustyeddy/performancepro/pkg/errors"
	"github.com/rustyeddy/performancepro/pkg/id"
)

func (s *Store) AddInstrument(ctx context.Context, in ledger.Instrument) (ledger.Instrument, error) {
	if err := in.Validate(); err != nil {
		return ledger.Instrument{}, err
	}
	if in.ID == "" {
		in.ID = id.New()
	}
	in.Symbol = strings.ToUpper(strings.TrimSpace(in.Symbol))

	_, err := s.exec(ctx, s.db, s.sq.Insert("instruments").
		Columns("id", "symbol", "name", "exchange", "tick_size", "tick_value").
		Values(in.ID, in.Symbol, in.Name, in.Exchange, in.TickSize, in.TickValue), "add instrument")
	if err != nil {
		return ledger.Instrument{}, err
	}
	s.logger.Debug("instrument added", zap.String("id", in.ID), zap.String("symbol", in.Symbol))
	return in, nil
}

func (s *Store) ListInstruments(ctx context.Context) ([]ledger.Instrument, error) {
	rows, err := s.query(ctx, s.db, s.sq.
		Select("id", "symbol", "name", "exchange", "tick_size", "tick_value").
		From("instruments").OrderBy("symbol ASC"), "list instruments")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []ledger.Instrument
	for rows.Next() {
		var in ledger.Instrument
		if err := rows.Scan(&in.ID, &in.Symbol, &in.Name, &in.Exchange, &in.TickSize, &in.TickValue); err != nil {
			return nil, s.storageErr("scan instrument", err)
		}
		out = append(out, in)
	}
	if err := rows.Err(); err != nil {
		return nil, s.storageErr("list instruments", err)
	}
	return out, nil
}

// InstrumentBySymbol looks an instrument up by its (case-insensitive) symbol.
func (s *Store) InstrumentBySymbol(ctx context.Context, symbol string) (ledger.Instrument, error) {
	symbol = strings.ToUpper(strings.TrimSpace(symbol))

	var in ledger.Instrument
	err := s.get(ctx, s.db, s.sq.
		Select("id", "symbol", "name", "exchange", "tick_size", "tick_value").
		From("instruments").Where(squirrel.Eq{"symbol": symbol}),
		func(r scanner) error {
			return r.Scan(&in.ID, &in.Symbol, &in.Name, &in.Exchange, &in.TickSize, &in.TickValue)
		})
	if err != nil {
		return ledger.Instrument{}, s.notFound(err, "instrument", symbol)
	}
	return in, nil
}

func (s *Store) AddStrategy(ctx context.Context, st ledger.Strategy) (ledger.Strategy, error) {
	if err := st.Validate(); err != nil {
		return ledger.Strategy{}, err
	}
	if st.ID == "" {
		st.ID = id.New()
	}

	_, err := s.exec(ctx, s.db, s.sq.Insert("strategies").
		Columns("id", "name", "description").
		Values(st.ID, st.Name, st.Description), "add strategy")
	if err != nil {
		return ledger.Strategy{}, err
	}
	s.logger.Debug("strategy added", zap.String("id", st.ID), zap.String("name", st.Name))
	return st, nil
}

func (s *Store) ListStrategies(ctx context.Context) ([]ledger.Strategy, error) {
	rows, err := s.query(ctx, s.db, s.sq.Select("id", "name", "description").
		From("strategies").OrderBy("name ASC"), "list strategies")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []ledger.Strategy
	for rows.Next() {
		var st ledger.Strategy
		if err := rows.Scan(&st.ID, &st.Name, &st.Description); err != nil {
			return nil, s.storageErr("scan strategy", err)
		}
		out = append(out, st)
	}
	if err := rows.Err(); err != nil {
		return nil, s.storageErr("list strategies", err)
	}
	return out, nil
}

func (s *Store) StrategyByName(ctx context.Context, name string) (ledger.Strategy, error) {
	var st ledger.Strategy
	err := s.get(ctx, s.db, s.sq.Select("id", "name", "description").
		From("strategies").Where(squirrel.Eq{"name": name}),
		func(r scanner) error { return r.Scan(&st.ID, &st.Name, &st.Description) })
	if err != nil {
		return ledger.Strategy{}, s.notFound(err, "strategy", name)
	}
	return st, nil
}

// EnsureTag returns the tag called name, creating it first if needed.
func (s *Store) EnsureTag(ctx context.Context, name string) (ledger.Tag, error) {
	var tag ledger.Tag
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		var err error
		tag, err = s.ensureTag(ctx, tx, name)
		return err
	})
	return tag, err
}

func (s *Store) ensureTag(ctx context.Context, q querier, name string) (ledger.Tag, error) {
	tag := ledger.Tag{Name: strings.TrimSpace(name)}
	if err := tag.Validate(); err != nil {
		return ledger.Tag{}, err
	}

	err := s.get(ctx, q, s.sq.Select("id").From("tags").Where(squirrel.Eq{"name": tag.Name}),
		func(r scanner) error { return r.Scan(&tag.ID) })
	if err == nil {
		return tag, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return ledger.Tag{}, s.storageErr("find tag", err)
	}

	tag.ID = id.New()
	if _, err := s.exec(ctx, q, s.sq.Insert("tags").Columns("id", "name").Values(tag.ID, tag.Name), "add tag"); err != nil {
		return ledger.Tag{}, err
	}
	s.logger.Debug("tag created", zap.String("name", tag.Name))
	return tag, nil
}

func (s *Store) ListTags(ctx context.Context) ([]ledger.Tag, error) {
	rows, err := s.query(ctx, s.db, s.sq.Select("id", "name").From("tags").OrderBy("name ASC"), "list tags")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []ledger.Tag
	for rows.Next() {
		var t ledger.Tag
		if err := rows.Scan(&t.ID, &t.Name); err != nil {
			return nil, s.storageErr("scan tag", err)
		}
		out = append(out, t)
	}
	if err := rows.Err(); err != nil {
		return nil, s.storageErr("list tags", err)
	}
	return out, nil
}

// linkTags attaches the named tags to owner through the join table.
func (s *Store) linkTags(ctx context.Context, q querier, table, ownerCol, ownerID string, names []string) error {
	seen := make(map[string]bool, len(names))
	for _, name := range names {
		tag, err := s.ensureTag(ctx, q, name)
		if err != nil {
			return err
		}
		if seen[tag.ID] {
			continue
		}
		seen[tag.ID] = true
		if _, err := s.exec(ctx, q, s.sq.Insert(table).Columns(ownerCol, "tag_id").Values(ownerID, tag.ID), "link tag"); err != nil {
			return err
		}
	}
	return nil
}

// tagsFor returns owner ID -> tag names for every owner in ids.
func (s *Store) tagsFor(ctx context.Context, q querier, table, ownerCol string, ids []string) (map[string][]string, error) {
	out := make(map[string][]string, len(ids))
	if len(ids) == 0 {
		return out, nil
	}

	rows, err := s.query(ctx, q, s.sq.
		Select("j."+ownerCol, "t.name").
		From(table+" j").
		Join("tags t ON t.id = j.tag_id").
		Where(squirrel.Eq{"j." + ownerCol: ids}).
		OrderBy("t.name ASC"), "load tags")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var owner, name string
		if err := rows.Scan(&owner, &name); err != nil {
			return nil, s.storageErr("scan tag", err)
		}
		out[owner] = append(out[owner], name)
	}
	if err := rows.Err(); err != nil {
		return nil, s.storageErr("load tags", err)
	}
	return out, nil
}
