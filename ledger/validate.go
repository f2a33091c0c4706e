package ledger

import (
	"github.com/go-playground/validator/v10"
	"github.com/moznion/go-optional"

	"github.com/rustyeddy/performancepro/pkg/errors"
)

var validate = validator.New()

func check(kind string, v any) error {
	if err := validate.Struct(v); err != nil {
		return errors.Wrap(errors.ErrCodeValidation, "invalid "+kind, err)
	}
	return nil
}

func (i *Instrument) Validate() error { return check("instrument", i) }
func (s *Strategy) Validate() error   { return check("strategy", s) }
func (t *Tag) Validate() error        { return check("tag", t) }
func (v *Vendor) Validate() error     { return check("vendor", v) }

func (s *Session) Validate() error {
	if err := check("session", s); err != nil {
		return err
	}
	if !s.StartTime.IsZero() && !s.EndTime.IsZero() && s.EndTime.Before(s.StartTime) {
		return errors.New(errors.ErrCodeValidation, "session end time is before start time")
	}
	return nil
}

func (t *Trade) Validate() error {
	if _, err := ParseDirection(string(t.Direction)); err != nil {
		return err
	}
	return check("trade", t)
}

func (e *Expense) Validate() error {
	if err := check("expense", e); err != nil {
		return err
	}
	if err := requireID("expense evaluation id", e.EvaluationID); err != nil {
		return err
	}
	return requireID("expense account id", e.AccountID)
}

func (p *Payout) Validate() error {
	if err := check("payout", p); err != nil {
		return err
	}
	// Checked on the resolved amount so a derived net is held to the same rule.
	if p.Net() < 0 {
		return errors.New(errors.ErrCodeValidation, "payout net amount is negative")
	}
	return nil
}

func (p *EvaluationProgram) Validate() error { return check("evaluation program", p) }

func (e *Evaluation) Validate() error {
	if _, err := ParseEvaluationStatus(string(e.Status)); err != nil {
		return err
	}
	if err := check("evaluation", e); err != nil {
		return err
	}
	if e.CostTotal.IsSome() && e.CostTotal.Unwrap() < 0 {
		return errors.New(errors.ErrCodeValidation, "evaluation cost is negative")
	}
	return nil
}

func (a *FundedAccount) Validate() error {
	if _, err := ParseAccountStatus(string(a.Status)); err != nil {
		return err
	}
	if err := check("funded account", a); err != nil {
		return err
	}
	return requireID("funded account evaluation id", a.EvaluationID)
}

// requireID rejects a present-but-empty link.
func requireID(what string, o optional.Option[string]) error {
	if o.IsSome() && o.Unwrap() == "" {
		return errors.Newf(errors.ErrCodeValidation, "%s is empty", what)
	}
	return nil
}
