package collector

import (
	"context"
	"errors"
	"fmt"

	"StockMCP/internal/model"
)

var (
	// ErrNotFound means the provider does not know the symbol or has no data for it.
	ErrNotFound = errors.New("symbol not found")
	// ErrNoQuote means the provider returned no live quote for the symbol.
	ErrNoQuote = errors.New("no quote available")
	// ErrEmptySymbol is returned for blank symbols before any provider call.
	ErrEmptySymbol = errors.New("symbol is required")
)

// Fetcher is the boundary to an external market-data provider.
type Fetcher interface {
	// FetchBars returns bars covering period in chronological order.
	// An unknown symbol may yield ErrNotFound or an empty slice.
	FetchBars(ctx context.Context, symbol string, period model.Period, interval model.Interval) ([]model.OHLCV, error)
	// FetchQuote returns the provider's live quote field.
	FetchQuote(ctx context.Context, symbol string) (float64, error)
	Name() string
}

// ProviderError wraps a failure raised while talking to a provider.
type ProviderError struct {
	Provider string
	Symbol   string
	Err      error
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Provider, e.Symbol, e.Err)
}

func (e *ProviderError) Unwrap() error { return e.Err }
