package ledger

import (
	"strings"

	"github.com/rustyeddy/performancepro/pkg/errors"
)

// Direction is the side of a closed trade.
type Direction string

const (
	Long  Direction = "LONG"
	Short Direction = "SHORT"
)

// ParseDirection accepts LONG or SHORT in any case. Anything else, the empty
// string included, is rejected.
func ParseDirection(s string) (Direction, error) {
	switch d := Direction(strings.ToUpper(strings.TrimSpace(s))); d {
	case Long, Short:
		return d, nil
	}
	return "", errors.Newf(errors.ErrCodeInvalidDirection, "unknown trade direction %q", s)
}

// EvaluationStatus tracks where a purchased evaluation stands.
type EvaluationStatus string

const (
	EvalBought  EvaluationStatus = "bought"
	EvalActive  EvaluationStatus = "active"
	EvalPassed  EvaluationStatus = "passed"
	EvalFailed  EvaluationStatus = "failed"
	EvalExpired EvaluationStatus = "expired"
)

var evaluationStatuses = []EvaluationStatus{EvalBought, EvalActive, EvalPassed, EvalFailed, EvalExpired}

func ParseEvaluationStatus(s string) (EvaluationStatus, error) {
	v := EvaluationStatus(strings.ToLower(strings.TrimSpace(s)))
	for _, st := range evaluationStatuses {
		if v == st {
			return v, nil
		}
	}
	return "", errors.Newf(errors.ErrCodeInvalidStatus, "unknown evaluation status %q", s)
}

// AccountStatus is the lifecycle state of a funded account.
type AccountStatus string

const (
	AccountActive AccountStatus = "active"
	AccountClosed AccountStatus = "closed"
)

func ParseAccountStatus(s string) (AccountStatus, error) {
	switch v := AccountStatus(strings.ToLower(strings.TrimSpace(s))); v {
	case AccountActive, AccountClosed:
		return v, nil
	}
	return "", errors.Newf(errors.ErrCodeInvalidStatus, "unknown account status %q", s)
}
