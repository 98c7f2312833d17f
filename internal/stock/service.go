// Package stock implements the read-only stock queries. Typed methods return
// result variants; the Get* methods render them for tool callers and never fail.
package stock

import (
	"context"
	"fmt"

	"StockMCP/internal/collector"
	"StockMCP/internal/model"
)

// Service answers price, history, comparison and indicator queries.
type Service struct {
	adapter   *collector.Adapter
	collector *collector.Collector
}

func NewService(adapter *collector.Adapter) *Service {
	return &Service{adapter: adapter, collector: collector.NewCollector(adapter)}
}

// Provider names the market-data source behind the service.
func (s *Service) Provider() string { return s.adapter.Fetcher.Name() }

func (s *Service) Price(ctx context.Context, symbol string) model.PriceResult {
	return s.adapter.FetchLatestClose(ctx, symbol)
}

// GetPrice returns the latest close, or -1 when none is available.
func (s *Service) GetPrice(ctx context.Context, symbol string) float64 {
	return s.Price(ctx, symbol).Value()
}

// PriceSentence renders the latest price as prose.
func (s *Service) PriceSentence(ctx context.Context, symbol string) string {
	return FormatPriceSentence(s.Price(ctx, symbol))
}

func (s *Service) History(ctx context.Context, symbol, period string) model.HistoryResult {
	return s.adapter.FetchHistory(ctx, symbol, period)
}

// GetHistory returns the series for period as CSV, or a message explaining
// why there is none. An empty period means one month.
func (s *Service) GetHistory(ctx context.Context, symbol, period string) string {
	return RenderHistory(s.History(ctx, symbol, period))
}

// RenderHistory turns a history result into its outward text.
func RenderHistory(res model.HistoryResult) string {
	switch res.Status {
	case model.HistoryFound:
		out, err := FormatHistoryCSV(res.Bars)
		if err != nil {
			return fmt.Sprintf("Error retrieving historical data for symbol '%s': %v", res.Symbol, err)
		}
		return out
	case model.HistoryEmpty:
		return fmt.Sprintf("No historical data found for symbol '%s' with period '%s'.", res.Symbol, res.RequestedPeriod())
	default:
		return fmt.Sprintf("Error retrieving historical data for symbol '%s': %v", res.Symbol, res.Err)
	}
}

// Compare looks up a then b and orders them.
func (s *Service) Compare(ctx context.Context, a, b string) model.Comparison {
	return model.Compare(s.Price(ctx, a), s.Price(ctx, b))
}

// CompareStocks returns a sentence relating the two latest prices.
func (s *Service) CompareStocks(ctx context.Context, a, b string) string {
	return FormatComparison(s.Compare(ctx, a, b))
}

func (s *Service) Indicators(ctx context.Context, symbol string) (*model.MarketIndicators, error) {
	return s.collector.Collect(ctx, symbol)
}

// GetIndicators returns the indicator report, or an error sentence.
func (s *Service) GetIndicators(ctx context.Context, symbol string) string {
	ind, err := s.Indicators(ctx, symbol)
	if err != nil {
		return FormatIndicatorsError(symbol, err)
	}
	return FormatIndicators(ind)
}
