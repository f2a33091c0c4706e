package store

import (
	"context"
	"database/sql"
	"strings"

	"github.com/Masterminds/squirrel"
	"github.com/moznion/go-optional"
	"go.uber.org/zap"

	"github.com/rustyeddy/performancepro/ledger"
	"github.com/rustyeddy/performancepro/pkg/errors"
	"github.com/rustyeddy/performancepro/pkg/id"
)

// EnsureProgram returns the stored program with p's firm and model,
// inserting p when there is none. An existing program is returned unchanged.
func (s *Store) EnsureProgram(ctx context.Context, p ledger.EvaluationProgram) (ledger.EvaluationProgram, error) {
	p.Firm = strings.TrimSpace(p.Firm)
	p.Model = strings.TrimSpace(p.Model)
	if err := p.Validate(); err != nil {
		return ledger.EvaluationProgram{}, err
	}

	err := s.withTx(ctx, func(tx *sql.Tx) error {
		existing, err := s.programWhere(ctx, tx, squirrel.Eq{"firm": p.Firm, "model": p.Model})
		if err == nil {
			p = existing
			return nil
		}
		if !errors.Is(err, sql.ErrNoRows) {
			return s.storageErr("find program", err)
		}

		p.ID = id.New()
		_, err = s.exec(ctx, tx, s.sq.Insert("evaluation_programs").
			Columns("id", "firm", "model", "rules", "price").
			Values(p.ID, p.Firm, p.Model, p.Rules, p.Price), "add program")
		if err == nil {
			s.logger.Debug("evaluation program created", zap.String("firm", p.Firm), zap.String("model", p.Model))
		}
		return err
	})
	if err != nil {
		return ledger.EvaluationProgram{}, err
	}
	return p, nil
}

func (s *Store) programWhere(ctx context.Context, q querier, pred squirrel.Sqlizer) (ledger.EvaluationProgram, error) {
	var p ledger.EvaluationProgram
	err := s.get(ctx, q, s.sq.Select("id", "firm", "model", "rules", "price").
		From("evaluation_programs").Where(pred),
		func(r scanner) error { return r.Scan(&p.ID, &p.Firm, &p.Model, &p.Rules, &p.Price) })
	return p, err
}

func (s *Store) GetProgram(ctx context.Context, programID string) (ledger.EvaluationProgram, error) {
	p, err := s.programWhere(ctx, s.db, squirrel.Eq{"id": programID})
	if err != nil {
		return ledger.EvaluationProgram{}, s.notFound(err, "evaluation program", programID)
	}
	return p, nil
}

var evaluationColumns = []string{"id", "program_id", "purchase_date", "status", "attempts_count", "resets_count", "cost_total"}

// AddEvaluation stores a purchase of an existing program. A missing cost is
// taken from the program price.
func (s *Store) AddEvaluation(ctx context.Context, e ledger.Evaluation) (ledger.Evaluation, error) {
	if err := e.Validate(); err != nil {
		return ledger.Evaluation{}, err
	}
	if e.ID == "" {
		e.ID = id.New()
	}

	err := s.withTx(ctx, func(tx *sql.Tx) error {
		prog, err := s.programWhere(ctx, tx, squirrel.Eq{"id": e.ProgramID})
		if err != nil {
			return s.notFound(err, "evaluation program", e.ProgramID)
		}
		if e.CostTotal.IsNone() {
			e.CostTotal = optional.Some(prog.Price)
		}

		_, err = s.exec(ctx, tx, s.sq.Insert("evaluations").Columns(evaluationColumns...).Values(
			e.ID, e.ProgramID, utc(e.PurchaseDate), string(e.Status), e.AttemptsCount, e.ResetsCount, e.CostTotal.Unwrap(),
		), "add evaluation")
		return err
	})
	if err != nil {
		return ledger.Evaluation{}, err
	}

	s.logger.Debug("evaluation added", zap.String("id", e.ID), zap.String("status", string(e.Status)))
	return e, nil
}

func scanEvaluation(r scanner) (ledger.Evaluation, error) {
	var e ledger.Evaluation
	var status string
	var cost float64
	err := r.Scan(&e.ID, &e.ProgramID, &e.PurchaseDate, &status, &e.AttemptsCount, &e.ResetsCount, &cost)
	e.Status = ledger.EvaluationStatus(status)
	e.CostTotal = optional.Some(cost)
	return e, err
}

func (s *Store) GetEvaluation(ctx context.Context, evalID string) (ledger.Evaluation, error) {
	var e ledger.Evaluation
	err := s.get(ctx, s.db, s.sq.Select(evaluationColumns...).From("evaluations").Where(squirrel.Eq{"id": evalID}),
		func(r scanner) error {
			var err error
			e, err = scanEvaluation(r)
			return err
		})
	if err != nil {
		return ledger.Evaluation{}, s.notFound(err, "evaluation", evalID)
	}
	return e, nil
}

// ListEvaluations returns every evaluation in purchase order.
func (s *Store) ListEvaluations(ctx context.Context) ([]ledger.Evaluation, error) {
	rows, err := s.query(ctx, s.db, s.sq.Select(evaluationColumns...).From("evaluations").
		OrderBy("purchase_date ASC", "id ASC"), "list evaluations")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []ledger.Evaluation
	for rows.Next() {
		e, err := scanEvaluation(rows)
		if err != nil {
			return nil, s.storageErr("scan evaluation", err)
		}
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, s.storageErr("list evaluations", err)
	}
	return out, nil
}

// UpdateEvaluationStatus records the outcome of an evaluation.
func (s *Store) UpdateEvaluationStatus(ctx context.Context, evalID string, status ledger.EvaluationStatus) error {
	if _, err := ledger.ParseEvaluationStatus(string(status)); err != nil {
		return err
	}

	res, err := s.exec(ctx, s.db, s.sq.Update("evaluations").Set("status", string(status)).
		Where(squirrel.Eq{"id": evalID}), "update evaluation status")
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return errors.Newf(errors.ErrCodeNotFound, "evaluation %q not found", evalID)
	}

	s.logger.Info("evaluation status changed", zap.String("id", evalID), zap.String("status", string(status)))
	return nil
}

var accountColumns = []string{"id", "firm", "start_date", "status", "account_size", "current_drawdown_buffer", "evaluation_id"}

// AddFundedAccount stores a funded account, optionally linked to the
// evaluation that earned it.
func (s *Store) AddFundedAccount(ctx context.Context, a ledger.FundedAccount) (ledger.FundedAccount, error) {
	if err := a.Validate(); err != nil {
		return ledger.FundedAccount{}, err
	}
	if a.ID == "" {
		a.ID = id.New()
	}

	err := s.withTx(ctx, func(tx *sql.Tx) error {
		if a.EvaluationID.IsSome() {
			if err := s.mustExist(ctx, tx, "evaluations", "evaluation", a.EvaluationID.Unwrap()); err != nil {
				return err
			}
		}
		_, err := s.exec(ctx, tx, s.sq.Insert("funded_accounts").Columns(accountColumns...).Values(
			a.ID, a.Firm, utc(a.StartDate), string(a.Status), a.AccountSize, a.CurrentDrawdownBuffer, nullString(a.EvaluationID),
		), "add funded account")
		return err
	})
	if err != nil {
		return ledger.FundedAccount{}, err
	}

	s.logger.Debug("funded account added", zap.String("id", a.ID), zap.Float64("size", a.AccountSize))
	return a, nil
}

func (s *Store) ListFundedAccounts(ctx context.Context) ([]ledger.FundedAccount, error) {
	rows, err := s.query(ctx, s.db, s.sq.Select(accountColumns...).From("funded_accounts").
		OrderBy("start_date ASC", "id ASC"), "list funded accounts")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []ledger.FundedAccount
	for rows.Next() {
		var a ledger.FundedAccount
		var status string
		var evalID sql.NullString
		if err := rows.Scan(&a.ID, &a.Firm, &a.StartDate, &status, &a.AccountSize, &a.CurrentDrawdownBuffer, &evalID); err != nil {
			return nil, s.storageErr("scan funded account", err)
		}
		a.Status = ledger.AccountStatus(status)
		a.EvaluationID = fromNullString(evalID)
		out = append(out, a)
	}
	if err := rows.Err(); err != nil {
		return nil, s.storageErr("list funded accounts", err)
	}
	return out, nil
}

// CloseFundedAccount marks an account closed. It then no longer counts
// toward active funding.
func (s *Store) CloseFundedAccount(ctx context.Context, accountID string) error {
	res, err := s.exec(ctx, s.db, s.sq.Update("funded_accounts").Set("status", string(ledger.AccountClosed)).
		Where(squirrel.Eq{"id": accountID}), "close funded account")
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return errors.Newf(errors.ErrCodeNotFound, "funded account %q not found", accountID)
	}

	s.logger.Info("funded account closed", zap.String("id", accountID))
	return nil
}
