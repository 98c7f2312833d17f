package collector

import (
	"context"
	"fmt"
	"strings"
	"time"

	finance "github.com/piquette/finance-go"
	"github.com/piquette/finance-go/chart"
	"github.com/piquette/finance-go/datetime"
	"github.com/piquette/finance-go/quote"
	"github.com/shopspring/decimal"

	"StockMCP/internal/model"
)

// FinanceGoFetcher implements Fetcher with the piquette/finance-go client.
// The quote client takes no context, so calls run in a goroutine and are
// abandoned when ctx is done.
type FinanceGoFetcher struct {
	now func() time.Time
}

func NewFinanceGoFetcher() *FinanceGoFetcher {
	return &FinanceGoFetcher{now: time.Now}
}

func (f *FinanceGoFetcher) Name() string { return "financego" }

func (f *FinanceGoFetcher) FetchBars(ctx context.Context, symbol string, period model.Period, interval model.Interval) ([]model.OHLCV, error) {
	end := f.now()
	start := period.Start(end)

	bars, err := runWithContext(ctx, func() ([]model.OHLCV, error) {
		iter := chart.Get(&chart.Params{
			Symbol:   symbol,
			Start:    datetime.New(&start),
			End:      datetime.New(&end),
			Interval: datetime.OneDay,
			Params:   finance.Params{Context: &ctx},
		})
		var raw []*finance.ChartBar
		for iter.Next() {
			raw = append(raw, iter.Bar())
		}
		if err := iter.Err(); err != nil {
			return nil, fmt.Errorf("finance-go chart %s: %w", symbol, err)
		}
		if len(raw) == 0 {
			return nil, nil
		}
		return convertChartBars(raw, iter.Meta()), nil
	})
	if err != nil {
		return nil, err
	}
	if interval == model.IntervalWeekly {
		return aggregateDailyToWeekly(bars), nil
	}
	return bars, nil
}

func (f *FinanceGoFetcher) FetchQuote(ctx context.Context, symbol string) (float64, error) {
	return runWithContext(ctx, func() (float64, error) {
		q, err := quote.Get(symbol)
		return quotePrice(symbol, q, err)
	})
}

// quotePrice maps a finance-go quote lookup onto the Fetcher errors. The
// client reports an unknown symbol either as an error or as a nil quote.
func quotePrice(symbol string, q *finance.Quote, err error) (float64, error) {
	if err != nil {
		if strings.HasPrefix(err.Error(), "Can't find quote") {
			return 0, fmt.Errorf("%w: %v", ErrNotFound, err)
		}
		return 0, fmt.Errorf("finance-go quote %s: %w", symbol, err)
	}
	if q == nil {
		return 0, ErrNotFound
	}
	if q.RegularMarketPrice <= 0 {
		return 0, ErrNoQuote
	}
	return q.RegularMarketPrice, nil
}

// convertChartBars maps finance-go bars, dating each one in the exchange's zone.
func convertChartBars(raw []*finance.ChartBar, meta finance.ChartMeta) []model.OHLCV {
	loc := exchangeLocation(meta.ExchangeTimezoneName, meta.Gmtoffset)
	bars := make([]model.OHLCV, 0, len(raw))
	for _, b := range raw {
		if b == nil {
			continue
		}
		bars = append(bars, model.OHLCV{
			Time:   time.Unix(int64(b.Timestamp), 0).In(loc),
			Open:   toFloat(b.Open),
			High:   toFloat(b.High),
			Low:    toFloat(b.Low),
			Close:  toFloat(b.Close),
			Volume: float64(b.Volume),
		})
	}
	return bars
}

func toFloat(d decimal.Decimal) float64 {
	v, _ := d.Float64()
	return v
}

func runWithContext[T any](ctx context.Context, fn func() (T, error)) (T, error) {
	if err := ctx.Err(); err != nil {
		var zero T
		return zero, err
	}
	type result struct {
		v   T
		err error
	}
	ch := make(chan result, 1)
	go func() {
		v, err := fn()
		ch <- result{v, err}
	}()
	select {
	case r := <-ch:
		return r.v, r.err
	case <-ctx.Done():
		var zero T
		return zero, ctx.Err()
	}
}
