// Package ledger holds the records kept by the tracker.
//
// Every record is a plain value identified by a string ID. Links between
// records are ID fields; the record store owns referential integrity and the
// tag index, so no record points at another in memory.
package ledger

import (
	"time"

	"github.com/moznion/go-optional"
)

type Instrument struct {
	ID        string
	Symbol    string `validate:"required"`
	Name      string
	Exchange  string
	TickSize  float64 `validate:"gte=0"`
	TickValue float64 `validate:"gte=0"`
}

type Strategy struct {
	ID          string
	Name        string `validate:"required"`
	Description string
}

type Tag struct {
	ID   string
	Name string `validate:"required"`
}

// Session is one sitting at the screens.
type Session struct {
	ID        string
	Date      time.Time `validate:"required"`
	StartTime time.Time
	EndTime   time.Time
	Market    string
	Notes     string
	Tags      []string
}

// Trade is a closed round trip.
type Trade struct {
	ID              string
	SessionID       string    `validate:"required"`
	InstrumentID    string    `validate:"required"`
	StrategyID      string    `validate:"required"`
	Quantity        int       `validate:"gte=1"`
	Direction       Direction `validate:"required,oneof=LONG SHORT"`
	EntryPrice      float64   `validate:"gte=0"`
	ExitPrice       float64   `validate:"gte=0"`
	EntryTime       time.Time
	ExitTime        time.Time
	FeesCommissions float64 `validate:"gte=0"`
	Tags            []string
}

type Vendor struct {
	ID       string
	Name     string `validate:"required"`
	Category string
}

// Expense is money spent running the business: evaluation fees, resets,
// data feeds, platform subscriptions.
type Expense struct {
	ID           string
	Date         time.Time `validate:"required"`
	VendorID     string    `validate:"required"`
	Category     string
	Amount       float64 `validate:"gte=0"`
	Currency     string  `validate:"required,len=3"`
	Notes        string
	EvaluationID optional.Option[string]
	AccountID    optional.Option[string]
}

// Payout is a withdrawal from a funded account.
type Payout struct {
	ID           string
	Date         time.Time `validate:"required"`
	Firm         string    `validate:"required"`
	AccountID    string    `validate:"required"`
	AmountGross  float64   `validate:"gte=0"`
	FeesWithheld float64   `validate:"gte=0"`
	AmountNet    optional.Option[float64]
}

// Net is the amount that reached the trader: AmountNet when it was given,
// otherwise gross less fees withheld.
func (p Payout) Net() float64 {
	return p.AmountNet.TakeOr(p.AmountGross - p.FeesWithheld)
}

// EvaluationProgram is a product sold by a prop firm. Firm and Model
// together identify it.
type EvaluationProgram struct {
	ID    string
	Firm  string `validate:"required"`
	Model string `validate:"required"`
	Rules string
	Price float64 `validate:"gte=0"`
}

// Evaluation is one purchase of a program.
type Evaluation struct {
	ID            string
	ProgramID     string `validate:"required"`
	PurchaseDate  time.Time
	Status        EvaluationStatus `validate:"required,oneof=bought active passed failed expired"`
	AttemptsCount int              `validate:"gte=0"`
	ResetsCount   int              `validate:"gte=0"`
	// CostTotal falls back to the program price when absent.
	CostTotal optional.Option[float64]
}

type FundedAccount struct {
	ID                    string
	Firm                  string `validate:"required"`
	StartDate             time.Time
	Status                AccountStatus `validate:"required,oneof=active closed"`
	AccountSize           float64       `validate:"gte=0"`
	CurrentDrawdownBuffer float64       `validate:"gte=0"`
	EvaluationID          optional.Option[string]
}
