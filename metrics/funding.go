package metrics

import (
	"github.com/shopspring/decimal"

	"github.com/rustyeddy/performancepro/ledger"
)

// FundingSummary covers the evaluation funnel and the capital it produced.
type FundingSummary struct {
	PassRate     float64
	TotalFunding float64

	Evaluations    int
	Passed         int
	ActiveAccounts int
}

func (s FundingSummary) Map() map[string]float64 {
	return map[string]float64{
		"pass_rate":     s.PassRate,
		"total_funding": s.TotalFunding,
	}
}

// Funding computes the share of evaluations marked passed and the summed
// size of active funded accounts. Closed accounts never count.
func Funding(evals []ledger.Evaluation, accounts []ledger.FundedAccount) FundingSummary {
	s := FundingSummary{Evaluations: len(evals)}
	for _, e := range evals {
		if e.Status == ledger.EvalPassed {
			s.Passed++
		}
	}
	if s.Evaluations > 0 {
		s.PassRate = float64(s.Passed) / float64(s.Evaluations)
	}

	funding := decimal.Zero
	for _, a := range accounts {
		if a.Status != ledger.AccountActive {
			continue
		}
		s.ActiveAccounts++
		funding = funding.Add(decimal.NewFromFloat(a.AccountSize))
	}
	s.TotalFunding = funding.InexactFloat64()
	return s
}
