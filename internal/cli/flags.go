package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/rustyeddy/performancepro/store"
)

const dayLayout = "2006-01-02"

func dayBounds(loc *time.Location, day string) (time.Time, time.Time, error) {
	t, err := time.ParseInLocation(dayLayout, day, loc)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	start := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, loc)
	end := start.AddDate(0, 0, 1)
	return start, end, nil
}

// parseDay reads YYYY-MM-DD in local time; empty means today.
func parseDay(s string) (time.Time, error) {
	if s == "" {
		s = time.Now().Format(dayLayout)
	}
	start, _, err := dayBounds(time.Local, s)
	return start, err
}

var timeLayouts = []string{time.RFC3339, "2006-01-02 15:04:05", "2006-01-02 15:04", "2006-01-02T15:04"}

// parseTime accepts RFC3339 or a local "YYYY-MM-DD HH:MM[:SS]".
func parseTime(s string) (time.Time, error) {
	for _, layout := range timeLayouts {
		if t, err := time.ParseInLocation(layout, s, time.Local); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("bad time %q (want RFC3339 or YYYY-MM-DD HH:MM)", s)
}

// parseClock places an HH:MM time on day. Empty gives the zero time.
func parseClock(day time.Time, s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	c, err := time.Parse("15:04", s)
	if err != nil {
		return time.Time{}, fmt.Errorf("bad clock time %q (want HH:MM)", s)
	}
	return time.Date(day.Year(), day.Month(), day.Day(), c.Hour(), c.Minute(), 0, 0, day.Location()), nil
}

// tradeFlags are the filters shared by every command that reads trades.
type tradeFlags struct {
	session    string
	strategy   string
	instrument string
	tag        string
	from       string
	to         string
}

func (f *tradeFlags) register(cmd *cobra.Command) {
	fs := cmd.Flags()
	fs.StringVar(&f.session, "session", "", "session ID")
	fs.StringVar(&f.strategy, "strategy", "", "strategy name")
	fs.StringVar(&f.instrument, "instrument", "", "instrument symbol")
	fs.StringVar(&f.tag, "tag", "", "tag name")
	fs.StringVar(&f.from, "from", "", "first day (YYYY-MM-DD, inclusive)")
	fs.StringVar(&f.to, "to", "", "last day (YYYY-MM-DD, inclusive)")
}

// filter resolves names to IDs and days to an exit-time window.
func (f *tradeFlags) filter(ctx context.Context, st *store.Store) (store.TradeFilter, error) {
	tf := store.TradeFilter{SessionID: f.session, Tag: f.tag}

	if f.strategy != "" {
		s, err := st.StrategyByName(ctx, f.strategy)
		if err != nil {
			return tf, err
		}
		tf.StrategyID = s.ID
	}
	if f.instrument != "" {
		in, err := st.InstrumentBySymbol(ctx, f.instrument)
		if err != nil {
			return tf, err
		}
		tf.InstrumentID = in.ID
	}
	if f.from != "" {
		start, _, err := dayBounds(time.Local, f.from)
		if err != nil {
			return tf, fmt.Errorf("bad --from: %w", err)
		}
		tf.From = start
	}
	if f.to != "" {
		_, end, err := dayBounds(time.Local, f.to)
		if err != nil {
			return tf, fmt.Errorf("bad --to: %w", err)
		}
		tf.To = end
	}
	return tf, nil
}
