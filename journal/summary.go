package journal

import (
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/lipgloss"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#7C3AED"))

	headingStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#3B82F6"))
)

const rule = "--------------------------------------------------"

// PrintSummary writes a plain-text rendering of r for the terminal.
func PrintSummary(w io.Writer, r Report) {
	title := r.Title
	if title == "" {
		title = "Performance Summary"
	}
	fmt.Fprintln(w, titleStyle.Render(title))
	if !r.From.IsZero() || !r.To.IsZero() {
		fmt.Fprintf(w, "Period:        %s .. %s\n", day(r.From, "start"), day(r.To, "now"))
	}

	section(w, "Trade Metrics")
	fmt.Fprintf(w, "Trades:        %d (%d wins, %d losses)\n", r.Trades.Trades, r.Trades.Wins, r.Trades.Losses)
	fmt.Fprintf(w, "Net P&L:       %s\n", FormatNum(r.Trades.PnL))
	fmt.Fprintf(w, "Win Rate:      %s%%\n", FormatNum(r.Trades.WinRate*100))
	fmt.Fprintf(w, "Expectancy:    %s\n", FormatNum(r.Trades.Expectancy))
	fmt.Fprintf(w, "Max Drawdown:  %s\n", FormatNum(r.Trades.Drawdown))
	fmt.Fprintf(w, "Profit Factor: %s\n", FormatNum(r.Trades.ProfitFactor))

	if len(r.Groups) > 0 {
		by := r.GroupBy
		if by == "" {
			by = "group"
		}
		section(w, "By "+by)
		for _, g := range r.Groups {
			fmt.Fprintf(w, "%-28s %4d trades  P&L %10s  PF %s\n",
				g.Name, g.Summary.Trades, FormatNum(g.Summary.PnL), FormatNum(g.Summary.ProfitFactor))
		}
	}

	section(w, "Business")
	fmt.Fprintf(w, "Expenses:      %s\n", FormatNum(r.Lifetime.TotalExpenses))
	fmt.Fprintf(w, "Payouts:       %s\n", FormatNum(r.Lifetime.TotalPayouts))
	fmt.Fprintf(w, "Net Profit:    %s\n", FormatNum(r.Lifetime.NetProfit))
	fmt.Fprintf(w, "ROI:           %s%%\n", FormatNum(r.Lifetime.ROI*100))

	section(w, "Funding")
	fmt.Fprintf(w, "Evaluations:   %d (%d passed)\n", r.Funding.Evaluations, r.Funding.Passed)
	fmt.Fprintf(w, "Pass Rate:     %s%%\n", FormatNum(r.Funding.PassRate*100))
	fmt.Fprintf(w, "Active:        %d accounts\n", r.Funding.ActiveAccounts)
	fmt.Fprintf(w, "Total Funding: %s\n", FormatNum(r.Funding.TotalFunding))

	if len(r.Notes) > 0 {
		section(w, "Notes")
		for _, note := range r.Notes {
			fmt.Fprintf(w, "- %s\n", note)
		}
	}

	fmt.Fprintln(w)
}

func section(w io.Writer, name string) {
	fmt.Fprintln(w)
	fmt.Fprintln(w, headingStyle.Render(name))
	fmt.Fprintln(w, rule)
}

func day(t time.Time, empty string) string {
	if t.IsZero() {
		return empty
	}
	return t.Format("2006-01-02")
}
