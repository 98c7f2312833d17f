package collector

import (
	"context"
	"sync"
	"time"

	"StockMCP/internal/model"
)

// MockFetcher returns controllable fixed data for development and testing.
//
// Lookups go Errors, PeriodBars, Bars, then generated bars around Price.
// With Price zero an unknown symbol has no bars and no quote.
type MockFetcher struct {
	Price      float64
	Bars       map[string][]model.OHLCV
	PeriodBars map[string]map[model.Period][]model.OHLCV
	Quotes     map[string]float64
	Errors     map[string]error

	mu    sync.Mutex
	calls map[string]int
}

// NewMockFetcher creates a mock that generates bars around price for any symbol.
func NewMockFetcher(price float64) *MockFetcher {
	return &MockFetcher{Price: price}
}

func (m *MockFetcher) Name() string { return "mock" }

func (m *MockFetcher) FetchBars(ctx context.Context, symbol string, period model.Period, interval model.Interval) ([]model.OHLCV, error) {
	m.count(symbol)
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := m.Errors[symbol]; err != nil {
		return nil, err
	}
	if bars, ok := m.PeriodBars[symbol][period]; ok {
		return bars, nil
	}
	if bars, ok := m.Bars[symbol]; ok {
		return bars, nil
	}
	if m.Price <= 0 {
		return nil, nil
	}
	n := period.Days(time.Now()) * 5 / 7
	if interval == model.IntervalWeekly {
		n = period.Days(time.Now()) / 7
	}
	return generateMockBars(m.Price, max(n, 1)), nil
}

func (m *MockFetcher) FetchQuote(ctx context.Context, symbol string) (float64, error) {
	m.count(symbol)
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	if err := m.Errors[symbol]; err != nil {
		return 0, err
	}
	if q, ok := m.Quotes[symbol]; ok {
		return q, nil
	}
	if m.Price > 0 {
		return m.Price, nil
	}
	return 0, ErrNoQuote
}

// Calls returns how many provider calls were made for symbol.
func (m *MockFetcher) Calls(symbol string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls[symbol]
}

func (m *MockFetcher) count(symbol string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.calls == nil {
		m.calls = make(map[string]int)
	}
	m.calls[symbol]++
}

// generateMockBars builds count daily bars drifting up to basePrice, ending today.
func generateMockBars(basePrice float64, count int) []model.OHLCV {
	today := time.Now().UTC().Truncate(24 * time.Hour)
	bars := make([]model.OHLCV, count)
	for i := range bars {
		p := basePrice * (1 - float64(count-1-i)*0.001)
		bars[i] = model.OHLCV{
			Time:   today.AddDate(0, 0, -(count - 1 - i)),
			Open:   p * 0.999,
			High:   p * 1.005,
			Low:    p * 0.995,
			Close:  p,
			Volume: 1000000,
		}
	}
	return bars
}
