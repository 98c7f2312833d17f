package stock

import (
	"context"
	"encoding/csv"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"StockMCP/internal/collector"
	"StockMCP/internal/model"
)

func bars(closes ...float64) []model.OHLCV {
	start := time.Date(2026, 1, 5, 0, 0, 0, 0, time.UTC)
	out := make([]model.OHLCV, len(closes))
	for i, c := range closes {
		out[i] = model.OHLCV{
			Time:   start.AddDate(0, 0, i),
			Open:   c - 0.5,
			High:   c + 1,
			Low:    c - 1,
			Close:  c,
			Volume: float64(1000 * (i + 1)),
		}
	}
	return out
}

func newService(m *collector.MockFetcher) *Service {
	return NewService(collector.NewAdapter(m, time.Second))
}

func fixture() *collector.MockFetcher {
	return &collector.MockFetcher{
		Bars: map[string][]model.OHLCV{
			"AAPL": bars(149.1, 150.25),
			"GOOG": bars(2795, 2800.00),
			"MSFT": bars(410.5),
			"X1":   bars(100.001),
			"X2":   bars(100.002),
		},
		PeriodBars: map[string]map[model.Period][]model.OHLCV{
			"NEWCO": {model.Period5Y: {}},
		},
		Errors: map[string]error{"ZZZZ": errors.New("invalid symbol")},
	}
}

func TestGetPrice(t *testing.T) {
	svc := newService(fixture())
	ctx := context.Background()

	for _, sym := range []string{"AAPL", "GOOG", "MSFT"} {
		p := svc.GetPrice(ctx, sym)
		assert.NotEqual(t, -1.0, p, sym)
		assert.Greater(t, p, 0.0, sym)
	}
	assert.Equal(t, 150.25, svc.GetPrice(ctx, "AAPL"))
}

func TestGetPrice_NoData(t *testing.T) {
	svc := newService(&collector.MockFetcher{Bars: map[string][]model.OHLCV{"EMPTY": {}}})
	assert.Equal(t, -1.0, svc.GetPrice(context.Background(), "EMPTY"))
	assert.Equal(t, model.PriceNotFound, svc.Price(context.Background(), "EMPTY").Status)
}

func TestGetPrice_ProviderThrows(t *testing.T) {
	svc := newService(fixture())
	ctx := context.Background()

	assert.Equal(t, -1.0, svc.GetPrice(ctx, "ZZZZ"))
	assert.Equal(t, model.PriceProviderError, svc.Price(ctx, "ZZZZ").Status)
	assert.Equal(t, "Error: Could not retrieve price for symbol 'ZZZZ'.", svc.PriceSentence(ctx, "ZZZZ"))
}

func TestPriceSentence(t *testing.T) {
	svc := newService(fixture())
	assert.Equal(t, "The current price of 'GOOG' is $2800.00.", svc.PriceSentence(context.Background(), "GOOG"))
	assert.Equal(t, "The current price of 'AAPL' is $150.25.", svc.PriceSentence(context.Background(), "aapl"))
}

func TestCompareStocks(t *testing.T) {
	svc := newService(fixture())
	ctx := context.Background()

	assert.Equal(t, "AAPL ($150.25) is lower than GOOG ($2800.00).", svc.CompareStocks(ctx, "AAPL", "GOOG"))
	assert.Equal(t, "GOOG ($2800.00) is higher than AAPL ($150.25).", svc.CompareStocks(ctx, "GOOG", "AAPL"))
	assert.Equal(t, "MSFT ($410.50) and MSFT ($410.50) are equal.", svc.CompareStocks(ctx, "MSFT", "MSFT"))
}

func TestCompareStocks_SwapConsistency(t *testing.T) {
	svc := newService(fixture())
	ctx := context.Background()
	syms := []string{"AAPL", "GOOG", "MSFT", "X1", "X2"}

	for _, a := range syms {
		for _, b := range syms {
			ab := svc.Compare(ctx, a, b).Relation
			ba := svc.Compare(ctx, b, a).Relation
			switch ab {
			case model.RelationHigher:
				assert.Equal(t, model.RelationLower, ba, "%s vs %s", a, b)
			case model.RelationLower:
				assert.Equal(t, model.RelationHigher, ba, "%s vs %s", a, b)
			case model.RelationEqual:
				assert.Equal(t, model.RelationEqual, ba, "%s vs %s", a, b)
				assert.Equal(t, a, b)
			default:
				t.Fatalf("unexpected relation for %s vs %s: %v", a, b, ab)
			}
		}
	}
}

func TestCompareStocks_NoEpsilon(t *testing.T) {
	svc := newService(fixture())
	got := svc.CompareStocks(context.Background(), "X1", "X2")
	// both render as $100.00 but are not equal
	assert.Equal(t, "X1 ($100.00) is lower than X2 ($100.00).", got)
}

func TestCompareStocks_Unavailable(t *testing.T) {
	svc := newService(fixture())
	ctx := context.Background()

	want := "Error: Could not retrieve prices for comparison of 'AAPL' and 'ZZZZ'."
	assert.Equal(t, want, svc.CompareStocks(ctx, "AAPL", "ZZZZ"))
	assert.Equal(t, "Error: Could not retrieve prices for comparison of 'ZZZZ' and 'AAPL'.", svc.CompareStocks(ctx, "ZZZZ", "AAPL"))
	assert.Equal(t, model.RelationUnavailable, svc.Compare(ctx, "AAPL", "ZZZZ").Relation)
}

func TestGetHistory(t *testing.T) {
	series := bars(100, 101.5, 99.25, 102, 103.75)
	m := &collector.MockFetcher{Bars: map[string][]model.OHLCV{"AAPL": series}}
	svc := newService(m)

	out := svc.GetHistory(context.Background(), "AAPL", "1mo")
	records, err := csv.NewReader(strings.NewReader(out)).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, len(series)+1)
	assert.Equal(t, []string{"Date", "Open", "High", "Low", "Close", "Volume"}, records[0])
	assert.Equal(t, []string{"2026-01-05", "99.5", "101", "99", "100", "1000"}, records[1])
	assert.Equal(t, []string{"2026-01-09", "103.25", "104.75", "102.75", "103.75", "5000"}, records[5])
}

func TestGetHistory_DefaultPeriodAndLongSpelling(t *testing.T) {
	m := &collector.MockFetcher{
		PeriodBars: map[string]map[model.Period][]model.OHLCV{
			"AAPL": {model.Period1M: bars(1, 2, 3)},
		},
	}
	svc := newService(m)
	ctx := context.Background()

	assert.Equal(t, svc.GetHistory(ctx, "AAPL", ""), svc.GetHistory(ctx, "AAPL", "1 month"))
	assert.Len(t, strings.Split(strings.TrimSpace(svc.GetHistory(ctx, "AAPL", "")), "\n"), 4)
}

func TestGetHistory_Empty(t *testing.T) {
	svc := newService(fixture())
	assert.Equal(t,
		"No historical data found for symbol 'NEWCO' with period '5y'.",
		svc.GetHistory(context.Background(), "NEWCO", "5y"))

	// the message echoes the period as the caller wrote it
	assert.Equal(t,
		"No historical data found for symbol 'NEWCO' with period '5 years'.",
		svc.GetHistory(context.Background(), "newco", " 5 years "))
}

func TestGetHistory_ProviderError(t *testing.T) {
	svc := newService(fixture())
	assert.Equal(t,
		"Error retrieving historical data for symbol 'ZZZZ': mock ZZZZ: invalid symbol",
		svc.GetHistory(context.Background(), "ZZZZ", "1mo"))

	got := svc.GetHistory(context.Background(), "AAPL", "2w")
	assert.True(t, strings.HasPrefix(got, "Error retrieving historical data for symbol 'AAPL': unknown period"), got)
}

func TestGetIndicators(t *testing.T) {
	svc := newService(collector.NewMockFetcher(250))
	out := svc.GetIndicators(context.Background(), "QQQ")
	assert.Contains(t, out, "Indicators for QQQ")
	assert.Contains(t, out, "Current price: $250.00")
	assert.Contains(t, out, "RSI(14)")

	out = newService(fixture()).GetIndicators(context.Background(), "zzzz")
	assert.True(t, strings.HasPrefix(out, "Error: Could not compute indicators for symbol 'ZZZZ':"), out)
}

func TestFormatMoney(t *testing.T) {
	assert.Equal(t, "150.25", FormatMoney(150.25))
	assert.Equal(t, "2800.00", FormatMoney(2800))
	assert.Equal(t, "0.10", FormatMoney(0.1))
	assert.Equal(t, "100.00", FormatMoney(100.001))

	// halves round away from zero on the shortest decimal form of the price,
	// not on its binary expansion as %.2f does
	assert.Equal(t, "150.13", FormatMoney(150.125))
	assert.Equal(t, "1.01", FormatMoney(1.005))
	assert.Equal(t, "-2.35", FormatMoney(-2.345))
}
