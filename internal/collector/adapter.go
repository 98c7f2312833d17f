package collector

import (
	"context"
	"errors"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"

	"StockMCP/internal/model"
)

// DefaultTimeout bounds every provider call made through an Adapter.
const DefaultTimeout = 10 * time.Second

// Adapter normalizes provider outcomes into result variants.
// It makes one attempt per call with no retries.
type Adapter struct {
	Fetcher Fetcher
	Timeout time.Duration
}

// NewAdapter wraps fetcher. A non-positive timeout uses DefaultTimeout.
func NewAdapter(fetcher Fetcher, timeout time.Duration) *Adapter {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Adapter{Fetcher: fetcher, Timeout: timeout}
}

// FetchLatestClose returns the close of the latest one-day bar. When the
// provider returns no bars it falls back to the live quote field.
func (a *Adapter) FetchLatestClose(ctx context.Context, symbol string) model.PriceResult {
	res := model.PriceResult{Symbol: model.NormalizeSymbol(symbol)}
	if res.Symbol == "" {
		res.Status = model.PriceNotFound
		res.Err = ErrEmptySymbol
		return res
	}

	ctx, cancel := context.WithTimeout(ctx, a.Timeout)
	defer cancel()

	bars, err := a.Fetcher.FetchBars(ctx, res.Symbol, model.Period1D, model.IntervalDaily)
	if err != nil {
		return a.priceFailure(res, err)
	}
	if len(bars) > 0 {
		res.Status = model.PriceFound
		res.Price = bars[len(bars)-1].Close
		res.Source = model.SourceClose
		return res
	}

	price, err := a.Fetcher.FetchQuote(ctx, res.Symbol)
	if err != nil {
		return a.priceFailure(res, err)
	}
	if price <= 0 {
		return a.priceFailure(res, ErrNoQuote)
	}
	res.Status = model.PriceFound
	res.Price = price
	res.Source = model.SourceQuote
	return res
}

func (a *Adapter) priceFailure(res model.PriceResult, err error) model.PriceResult {
	entry := log.WithFields(log.Fields{"symbol": res.Symbol, "provider": a.Fetcher.Name()})
	if errors.Is(err, ErrNotFound) || errors.Is(err, ErrNoQuote) {
		res.Status = model.PriceNotFound
		res.Err = err
		entry.Debugf("no price: %v", err)
		return res
	}
	res.Status = model.PriceProviderError
	res.Err = &ProviderError{Provider: a.Fetcher.Name(), Symbol: res.Symbol, Err: err}
	entry.Warnf("price lookup failed: %v", err)
	return res
}

// FetchHistory returns the bars for period. An unknown symbol is reported as
// empty, the same as a known symbol with no rows.
func (a *Adapter) FetchHistory(ctx context.Context, symbol, period string) model.HistoryResult {
	res := model.HistoryResult{Symbol: model.NormalizeSymbol(symbol), Requested: strings.TrimSpace(period)}
	p, err := model.ParsePeriod(period)
	if err != nil {
		res.Period = model.Period(period)
		res.Status = model.HistoryProviderError
		res.Err = err
		return res
	}
	res.Period = p
	if res.Symbol == "" {
		res.Status = model.HistoryProviderError
		res.Err = ErrEmptySymbol
		return res
	}

	bars, err := a.Bars(ctx, res.Symbol, p, model.IntervalDaily)
	entry := log.WithFields(log.Fields{"symbol": res.Symbol, "period": p, "provider": a.Fetcher.Name()})
	switch {
	case errors.Is(err, ErrNotFound):
		entry.Debugf("no history: %v", err)
		res.Status = model.HistoryEmpty
	case err != nil:
		entry.Warnf("history lookup failed: %v", err)
		res.Status = model.HistoryProviderError
		res.Err = &ProviderError{Provider: a.Fetcher.Name(), Symbol: res.Symbol, Err: err}
	case len(bars) == 0:
		res.Status = model.HistoryEmpty
	default:
		res.Status = model.HistoryFound
		res.Bars = bars
	}
	return res
}

// Bars fetches raw bars under the adapter timeout.
func (a *Adapter) Bars(ctx context.Context, symbol string, period model.Period, interval model.Interval) ([]model.OHLCV, error) {
	ctx, cancel := context.WithTimeout(ctx, a.Timeout)
	defer cancel()
	return a.Fetcher.FetchBars(ctx, symbol, period, interval)
}
