package store

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/moznion/go-optional"
	"go.uber.org/zap"

	"github.com/rustyeddy/performancepro/ledger"
	"github.com/rustyeddy/performancepro/pkg/errors"
	"github.com/rustyeddy/performancepro/pkg/id"
)

// EnsureVendor returns the vendor called name, creating it with category
// when it does not exist yet. An existing vendor keeps its category.
func (s *Store) EnsureVendor(ctx context.Context, name, category string) (ledger.Vendor, error) {
	v := ledger.Vendor{Name: strings.TrimSpace(name), Category: category}
	if err := v.Validate(); err != nil {
		return ledger.Vendor{}, err
	}

	err := s.withTx(ctx, func(tx *sql.Tx) error {
		err := s.get(ctx, tx, s.sq.Select("id", "category").From("vendors").Where(squirrel.Eq{"name": v.Name}),
			func(r scanner) error { return r.Scan(&v.ID, &v.Category) })
		if err == nil {
			return nil
		}
		if !errors.Is(err, sql.ErrNoRows) {
			return s.storageErr("find vendor", err)
		}

		v.ID = id.New()
		_, err = s.exec(ctx, tx, s.sq.Insert("vendors").Columns("id", "name", "category").
			Values(v.ID, v.Name, v.Category), "add vendor")
		if err == nil {
			s.logger.Debug("vendor created", zap.String("name", v.Name))
		}
		return err
	})
	if err != nil {
		return ledger.Vendor{}, err
	}
	return v, nil
}

func (s *Store) GetVendor(ctx context.Context, vendorID string) (ledger.Vendor, error) {
	var v ledger.Vendor
	err := s.get(ctx, s.db, s.sq.Select("id", "name", "category").From("vendors").Where(squirrel.Eq{"id": vendorID}),
		func(r scanner) error { return r.Scan(&v.ID, &v.Name, &v.Category) })
	if err != nil {
		return ledger.Vendor{}, s.notFound(err, "vendor", vendorID)
	}
	return v, nil
}

// ExpenseFilter narrows ListExpenses; From and To bound the date as [From, To).
type ExpenseFilter struct {
	VendorID string
	Category string
	From     time.Time
	To       time.Time
}

// AddExpense stores an expense. Optional evaluation and account links must
// point at existing records.
func (s *Store) AddExpense(ctx context.Context, e ledger.Expense) (ledger.Expense, error) {
	if e.Currency == "" {
		e.Currency = "USD"
	}
	e.Currency = strings.ToUpper(e.Currency)
	if err := e.Validate(); err != nil {
		return ledger.Expense{}, err
	}
	if e.ID == "" {
		e.ID = id.New()
	}

	err := s.withTx(ctx, func(tx *sql.Tx) error {
		if err := s.mustExist(ctx, tx, "vendors", "vendor", e.VendorID); err != nil {
			return err
		}
		if e.EvaluationID.IsSome() {
			if err := s.mustExist(ctx, tx, "evaluations", "evaluation", e.EvaluationID.Unwrap()); err != nil {
				return err
			}
		}
		if e.AccountID.IsSome() {
			if err := s.mustExist(ctx, tx, "funded_accounts", "funded account", e.AccountID.Unwrap()); err != nil {
				return err
			}
		}

		_, err := s.exec(ctx, tx, s.sq.Insert("expenses").Columns(
			"id", "date", "vendor_id", "category", "amount", "currency", "notes", "evaluation_id", "account_id",
		).Values(
			e.ID, utc(e.Date), e.VendorID, e.Category, e.Amount, e.Currency, e.Notes,
			nullString(e.EvaluationID), nullString(e.AccountID),
		), "add expense")
		return err
	})
	if err != nil {
		return ledger.Expense{}, err
	}

	s.logger.Debug("expense added", zap.String("id", e.ID), zap.Float64("amount", e.Amount))
	return e, nil
}

func (s *Store) ListExpenses(ctx context.Context, f ExpenseFilter) ([]ledger.Expense, error) {
	q := s.sq.Select("id", "date", "vendor_id", "category", "amount", "currency", "notes", "evaluation_id", "account_id").
		From("expenses")
	if f.VendorID != "" {
		q = q.Where(squirrel.Eq{"vendor_id": f.VendorID})
	}
	if f.Category != "" {
		q = q.Where(squirrel.Eq{"category": f.Category})
	}
	if !f.From.IsZero() {
		q = q.Where(squirrel.GtOrEq{"date": utc(f.From)})
	}
	if !f.To.IsZero() {
		q = q.Where(squirrel.Lt{"date": utc(f.To)})
	}

	rows, err := s.query(ctx, s.db, q.OrderBy("date ASC", "id ASC"), "list expenses")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []ledger.Expense
	for rows.Next() {
		var e ledger.Expense
		var evalID, acctID sql.NullString
		if err := rows.Scan(&e.ID, &e.Date, &e.VendorID, &e.Category, &e.Amount, &e.Currency, &e.Notes, &evalID, &acctID); err != nil {
			return nil, s.storageErr("scan expense", err)
		}
		e.EvaluationID = fromNullString(evalID)
		e.AccountID = fromNullString(acctID)
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, s.storageErr("list expenses", err)
	}
	return out, nil
}

// PayoutFilter narrows ListPayouts; From and To bound the date as [From, To).
type PayoutFilter struct {
	AccountID string
	From      time.Time
	To        time.Time
}

// AddPayout stores a payout against an existing funded account. The net
// amount is resolved through Payout.Net before it is written.
func (s *Store) AddPayout(ctx context.Context, p ledger.Payout) (ledger.Payout, error) {
	if err := p.Validate(); err != nil {
		return ledger.Payout{}, err
	}
	if p.ID == "" {
		p.ID = id.New()
	}
	p.AmountNet = optional.Some(p.Net())

	err := s.withTx(ctx, func(tx *sql.Tx) error {
		if err := s.mustExist(ctx, tx, "funded_accounts", "funded account", p.AccountID); err != nil {
			return err
		}
		_, err := s.exec(ctx, tx, s.sq.Insert("payouts").Columns(
			"id", "date", "firm", "account_id", "amount_gross", "fees_withheld", "amount_net",
		).Values(
			p.ID, utc(p.Date), p.Firm, p.AccountID, p.AmountGross, p.FeesWithheld, p.AmountNet.Unwrap(),
		), "add payout")
		return err
	})
	if err != nil {
		return ledger.Payout{}, err
	}

	s.logger.Debug("payout added", zap.String("id", p.ID), zap.Float64("net", p.AmountNet.Unwrap()))
	return p, nil
}

func (s *Store) ListPayouts(ctx context.Context, f PayoutFilter) ([]ledger.Payout, error) {
	q := s.sq.Select("id", "date", "firm", "account_id", "amount_gross", "fees_withheld", "amount_net").
		From("payouts")
	if f.AccountID != "" {
		q = q.Where(squirrel.Eq{"account_id": f.AccountID})
	}
	if !f.From.IsZero() {
		q = q.Where(squirrel.GtOrEq{"date": utc(f.From)})
	}
	if !f.To.IsZero() {
		q = q.Where(squirrel.Lt{"date": utc(f.To)})
	}

	rows, err := s.query(ctx, s.db, q.OrderBy("date ASC", "id ASC"), "list payouts")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []ledger.Payout
	for rows.Next() {
		var p ledger.Payout
		var net float64
		if err := rows.Scan(&p.ID, &p.Date, &p.Firm, &p.AccountID, &p.AmountGross, &p.FeesWithheld, &net); err != nil {
			return nil, s.storageErr("scan payout", err)
		}
		p.AmountNet = optional.Some(net)
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, s.storageErr("list payouts", err)
	}
	return out, nil
}
