package journal

import (
	"io"
	"math"
	"strconv"
	"text/template"
	"time"

	"github.com/rustyeddy/performancepro/metrics"
	"github.com/rustyeddy/performancepro/pkg/errors"
)

// GroupSummary is the trade summary of one strategy, instrument or session.
type GroupSummary struct {
	Name    string
	Summary metrics.TradeSummary
}

// Report collects every metric family for one period.
type Report struct {
	Title   string
	Created time.Time

	// From and To bound the trades covered; zero means unbounded.
	From time.Time
	To   time.Time

	Trades   metrics.TradeSummary
	Groups   []GroupSummary
	GroupBy  string
	Lifetime metrics.LifetimeSummary
	Funding  metrics.FundingSummary

	Notes []string
}

var reportFuncs = template.FuncMap{
	"num": FormatNum,
	"pct": func(x float64) string { return FormatNum(x * 100) },
	"day": func(t time.Time, empty string) string {
		if t.IsZero() {
			return empty
		}
		return t.Format("2006-01-02")
	},
	"orTime": func(t time.Time) time.Time {
		if t.IsZero() {
			return time.Now()
		}
		return t
	},
}

var reportTmpl = template.Must(template.New("report").Funcs(reportFuncs).Parse(ReportOrgTemplate))

// WriteOrg renders the report as an Org-mode document.
func (r Report) WriteOrg(w io.Writer) error {
	if err := reportTmpl.Execute(w, r); err != nil {
		return errors.Wrap(errors.ErrCodeUnknown, "render org report", err)
	}
	return nil
}

// FormatNum prints two decimals, or inf for an infinite value.
func FormatNum(x float64) string {
	switch {
	case math.IsInf(x, 1):
		return "inf"
	case math.IsInf(x, -1):
		return "-inf"
	}
	return strconv.FormatFloat(x, 'f', 2, 64)
}

const ReportOrgTemplate = `* PERFORMANCE: {{if .Title}}{{.Title}}{{else}}all trades{{end}}
:PROPERTIES:
:FROM:        {{day .From "(start)"}}
:TO:          {{day .To "(now)"}}
:TRADES:      {{.Trades.Trades}}
:NET_PNL:     {{num .Trades.PnL}}
:WIN_RATE:    {{pct .Trades.WinRate}}
:PROFIT_FAC:  {{num .Trades.ProfitFactor}}
:CREATED:     [{{(orTime .Created).Format "2006-01-02 Mon 15:04"}}]
:END:

** Trade Metrics
| Metric        | Value |
|---------------+-------|
| Net P&L       | {{num .Trades.PnL}} |
| Win Rate %    | {{pct .Trades.WinRate}} |
| Expectancy    | {{num .Trades.Expectancy}} |
| Max Drawdown  | {{num .Trades.Drawdown}} |
| Profit Factor | {{num .Trades.ProfitFactor}} |

** Trade Distribution
| Outcome | Count |
|---------+-------|
| Wins    | {{.Trades.Wins}} |
| Losses  | {{.Trades.Losses}} |
| Total   | {{.Trades.Trades}} |

{{- if .Groups }}

** By {{if .GroupBy}}{{.GroupBy}}{{else}}group{{end}}
| Name | Trades | P&L | Win Rate % | Profit Factor |
|------+--------+-----+------------+---------------|
{{- range .Groups }}
| {{.Name}} | {{.Summary.Trades}} | {{num .Summary.PnL}} | {{pct .Summary.WinRate}} | {{num .Summary.ProfitFactor}} |
{{- end }}
{{- end }}

** Business
- Total Expenses:   *{{num .Lifetime.TotalExpenses}}*
- Total Payouts:    *{{num .Lifetime.TotalPayouts}}*
- Net Profit:       *{{num .Lifetime.NetProfit}}*
- ROI:              *{{pct .Lifetime.ROI}}%*

** Funding
- Evaluations:      {{.Funding.Evaluations}} ({{.Funding.Passed}} passed)
- Pass Rate:        *{{pct .Funding.PassRate}}%*
- Active Accounts:  {{.Funding.ActiveAccounts}}
- Total Funding:    *{{num .Funding.TotalFunding}}*

{{- if .Notes }}

** Notes
{{- range .Notes }}
- {{.}}
{{- end }}
{{- end }}
`
