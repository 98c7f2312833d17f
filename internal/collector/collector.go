package collector

import (
	"context"
	"fmt"
	"time"

	log "github.com/sirupsen/logrus"

	"StockMCP/internal/calculator"
	"StockMCP/internal/model"
)

// Indicator windows.
const (
	dailyBarsWanted  = 300
	weeklyBarsWanted = 60
	rsiWindow        = 14
)

// Collector fetches bars for a symbol and computes its indicators.
type Collector struct {
	Adapter *Adapter
}

// NewCollector creates a new Collector.
func NewCollector(adapter *Adapter) *Collector {
	return &Collector{Adapter: adapter}
}

// Collect fetches market data and computes all indicators. Indicators that
// lack data fall back to neutral values with a warning.
func (c *Collector) Collect(ctx context.Context, symbol string) (*model.MarketIndicators, error) {
	price := c.Adapter.FetchLatestClose(ctx, symbol)
	if !price.Found() {
		if price.Err != nil {
			return nil, fmt.Errorf("fetch current price: %w", price.Err)
		}
		return nil, fmt.Errorf("fetch current price: %w", ErrNoQuote)
	}
	symbol = price.Symbol

	daily, err := c.Adapter.Bars(ctx, symbol, model.Period2Y, model.IntervalDaily)
	if err != nil {
		return nil, fmt.Errorf("fetch daily bars: %w", err)
	}
	weekly, err := c.Adapter.Bars(ctx, symbol, model.Period2Y, model.IntervalWeekly)
	if err != nil {
		return nil, fmt.Errorf("fetch weekly bars: %w", err)
	}
	daily = tail(daily, dailyBarsWanted)
	weekly = tail(weekly, weeklyBarsWanted)

	cur := price.Price
	ind := &model.MarketIndicators{Symbol: symbol, AsOf: time.Now(), CurrentPrice: cur}
	warn := log.WithField("symbol", symbol)

	ind.MA200 = orDefault(warn, "MA200", cur)(calculator.MovingAverage(daily, 200))
	ind.MA20w = orDefault(warn, "MA20w", cur)(calculator.MovingAverage(weekly, 20))
	ind.MA50w = orDefault(warn, "MA50w", cur)(calculator.MovingAverage(weekly, 50))
	ind.WeeklyRSI = orDefault(warn, "weekly RSI", 50)(calculator.RSI(weekly, rsiWindow))
	ind.DailyRSI = orDefault(warn, "daily RSI", 50)(calculator.RSI(daily, rsiWindow))

	if h, l, err := calculator.Range(daily, calculator.TradingDays52w); err != nil {
		warn.Warnf("52-week range unavailable: %v, using current price", err)
		ind.High52w, ind.Low52w = cur, cur
	} else {
		ind.High52w, ind.Low52w = h, l
	}
	if h, l, err := calculator.Range(daily, calculator.TradingDays30d); err != nil {
		warn.Warnf("30-day range unavailable: %v, using current price", err)
		ind.High30d, ind.Low30d = cur, cur
	} else {
		ind.High30d, ind.Low30d = h, l
	}
	ind.Position52w = orDefault(warn, "52-week position", 0.5)(calculator.Position(cur, ind.High52w, ind.Low52w))

	return ind, nil
}

func orDefault(entry *log.Entry, name string, fallback float64) func(float64, error) float64 {
	return func(v float64, err error) float64 {
		if err != nil {
			entry.Warnf("%s unavailable: %v, using %.2f", name, err, fallback)
			return fallback
		}
		return v
	}
}

func tail(bars []model.OHLCV, n int) []model.OHLCV {
	if len(bars) > n {
		return bars[len(bars)-n:]
	}
	return bars
}
