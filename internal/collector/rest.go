package collector

import (
	"context"
	"fmt"
	"net/http"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"StockMCP/internal/model"
)

// RESTFetcher implements Fetcher against a bars/quote REST API:
//
//	GET /api/v1/bars/daily?symbol=&limit=
//	GET /api/v1/bars/weekly?symbol=&limit=
//	GET /api/v1/quote?symbol=
type RESTFetcher struct {
	client *resty.Client
	now    func() time.Time
}

// NewRESTFetcher creates a REST fetcher authenticated with a bearer API key.
func NewRESTFetcher(baseURL, apiKey, proxyURL string, timeout time.Duration) *RESTFetcher {
	client := resty.New()
	client.SetBaseURL(strings.TrimRight(baseURL, "/"))
	client.SetTimeout(timeout)
	if apiKey != "" {
		client.SetAuthToken(apiKey)
	}
	if proxyURL != "" {
		client.SetProxy(proxyURL)
	}
	return &RESTFetcher{client: client, now: time.Now}
}

func (f *RESTFetcher) Name() string { return "rest" }

// restBar is the JSON shape of one bar.
type restBar struct {
	Timestamp int64   `json:"timestamp"` // trading date at 00:00 UTC
	Open      float64 `json:"open"`
	High      float64 `json:"high"`
	Low       float64 `json:"low"`
	Close     float64 `json:"close"`
	Volume    float64 `json:"volume"`
}

func (f *RESTFetcher) FetchBars(ctx context.Context, symbol string, period model.Period, interval model.Interval) ([]model.OHLCV, error) {
	days := period.Days(f.now())
	if interval != model.IntervalWeekly {
		return f.fetchBars(ctx, "/api/v1/bars/daily", symbol, days)
	}

	weeks := days/7 + 1
	bars, err := f.fetchBars(ctx, "/api/v1/bars/weekly", symbol, weeks)
	if err == nil {
		return bars, nil
	}
	// Not every deployment serves weekly bars; aggregate daily ones instead.
	daily, dailyErr := f.fetchBars(ctx, "/api/v1/bars/daily", symbol, days)
	if dailyErr != nil {
		return nil, fmt.Errorf("weekly fetch failed: %w; daily fallback also failed: %w", err, dailyErr)
	}
	return aggregateDailyToWeekly(daily), nil
}

func (f *RESTFetcher) FetchQuote(ctx context.Context, symbol string) (float64, error) {
	var result struct {
		Price float64 `json:"price"`
	}
	resp, err := f.client.R().
		SetContext(ctx).
		SetQueryParam("symbol", symbol).
		SetResult(&result).
		Get("/api/v1/quote")
	if err != nil {
		return 0, fmt.Errorf("fetch quote: %w", err)
	}
	if err := statusError(resp); err != nil {
		return 0, fmt.Errorf("fetch quote: %w", err)
	}
	if result.Price <= 0 {
		return 0, ErrNoQuote
	}
	return result.Price, nil
}

func (f *RESTFetcher) fetchBars(ctx context.Context, path, symbol string, limit int) ([]model.OHLCV, error) {
	var raw []restBar
	resp, err := f.client.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"symbol": symbol,
			"limit":  strconv.Itoa(limit),
		}).
		SetResult(&raw).
		Get(path)
	if err != nil {
		return nil, fmt.Errorf("fetch bars: %w", err)
	}
	if err := statusError(resp); err != nil {
		return nil, fmt.Errorf("fetch bars: %w", err)
	}

	bars := make([]model.OHLCV, len(raw))
	for i, rb := range raw {
		bars[i] = model.OHLCV{
			Time:   time.Unix(rb.Timestamp, 0).UTC(),
			Open:   rb.Open,
			High:   rb.High,
			Low:    rb.Low,
			Close:  rb.Close,
			Volume: rb.Volume,
		}
	}
	sort.Slice(bars, func(i, j int) bool { return bars[i].Time.Before(bars[j].Time) })
	return bars, nil
}

func statusError(resp *resty.Response) error {
	switch {
	case resp.StatusCode() == http.StatusNotFound:
		return ErrNotFound
	case resp.IsError():
		return fmt.Errorf("status %d, body: %s", resp.StatusCode(), resp.String())
	}
	return nil
}

// aggregateDailyToWeekly folds daily bars into ISO-week bars.
func aggregateDailyToWeekly(daily []model.OHLCV) []model.OHLCV {
	var weekly []model.OHLCV
	lastKey := -1
	for _, d := range daily {
		y, w := d.Time.ISOWeek()
		key := y*100 + w
		if key != lastKey {
			weekly = append(weekly, d)
			lastKey = key
			continue
		}
		cur := &weekly[len(weekly)-1]
		cur.High = max(cur.High, d.High)
		cur.Low = min(cur.Low, d.Low)
		cur.Close = d.Close
		cur.Volume += d.Volume
	}
	return weekly
}
