package model

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// OHLCV represents a single candlestick bar.
type OHLCV struct {
	Time   time.Time
	Open   float64
	High   float64
	Low    float64
	Close  float64
	Volume float64
}

// ErrUnknownPeriod is returned when a period token is not one of the supported windows.
var ErrUnknownPeriod = errors.New("unknown period")

// Period is a relative history window token, e.g. "1d" or "1mo".
type Period string

const (
	Period1D  Period = "1d"
	Period5D  Period = "5d"
	Period1M  Period = "1mo"
	Period3M  Period = "3mo"
	Period6M  Period = "6mo"
	Period1Y  Period = "1y"
	Period2Y  Period = "2y"
	Period5Y  Period = "5y"
	Period10Y Period = "10y"
	PeriodYTD Period = "ytd"
	PeriodMax Period = "max"

	DefaultPeriod = Period1M
)

// Periods lists every supported window, shortest first.
var Periods = []Period{
	Period1D, Period5D, Period1M, Period3M, Period6M,
	Period1Y, Period2Y, Period5Y, Period10Y, PeriodYTD, PeriodMax,
}

// periodAliases maps the long spellings callers tend to send onto tokens.
var periodAliases = map[string]Period{
	"1 day":    Period1D,
	"1day":     Period1D,
	"5 days":   Period5D,
	"1 month":  Period1M,
	"1m":       Period1M,
	"3 months": Period3M,
	"6 months": Period6M,
	"1 year":   Period1Y,
	"2 years":  Period2Y,
	"5 years":  Period5Y,
	"10 years": Period10Y,
}

// ParsePeriod normalizes s into a Period. An empty string yields DefaultPeriod.
func ParsePeriod(s string) (Period, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return DefaultPeriod, nil
	}
	for _, p := range Periods {
		if string(p) == s {
			return p, nil
		}
	}
	if p, ok := periodAliases[s]; ok {
		return p, nil
	}
	return "", fmt.Errorf("%w %q (supported: %s)", ErrUnknownPeriod, s, periodList())
}

func periodList() string {
	parts := make([]string, len(Periods))
	for i, p := range Periods {
		parts[i] = string(p)
	}
	return strings.Join(parts, ", ")
}

// Start returns the beginning of the window ending at now.
func (p Period) Start(now time.Time) time.Time {
	switch p {
	case Period1D:
		return now.AddDate(0, 0, -1)
	case Period5D:
		return now.AddDate(0, 0, -5)
	case Period1M:
		return now.AddDate(0, -1, 0)
	case Period3M:
		return now.AddDate(0, -3, 0)
	case Period6M:
		return now.AddDate(0, -6, 0)
	case Period1Y:
		return now.AddDate(-1, 0, 0)
	case Period2Y:
		return now.AddDate(-2, 0, 0)
	case Period5Y:
		return now.AddDate(-5, 0, 0)
	case Period10Y:
		return now.AddDate(-10, 0, 0)
	case PeriodYTD:
		return time.Date(now.Year(), 1, 1, 0, 0, 0, 0, now.Location())
	default:
		return time.Unix(0, 0).In(now.Location())
	}
}

// Days approximates the window length in calendar days.
func (p Period) Days(now time.Time) int {
	d := int(now.Sub(p.Start(now)).Hours() / 24)
	if d < 1 {
		d = 1
	}
	return d
}

// Interval is the bar granularity requested from a provider.
type Interval string

const (
	IntervalDaily  Interval = "1d"
	IntervalWeekly Interval = "1wk"
)

// NormalizeSymbol trims and upper-cases a ticker.
func NormalizeSymbol(symbol string) string {
	return strings.ToUpper(strings.TrimSpace(symbol))
}
