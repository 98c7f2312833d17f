package collector

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"StockMCP/internal/model"
)

func TestCollect_GeneratedBars(t *testing.T) {
	c := NewCollector(NewAdapter(NewMockFetcher(100), time.Second))

	ind, err := c.Collect(context.Background(), "spx")
	require.NoError(t, err)
	assert.Equal(t, "SPX", ind.Symbol)
	assert.InDelta(t, 100, ind.CurrentPrice, 1e-9)
	assert.Less(t, ind.MA200, ind.CurrentPrice, "rising series keeps price above MA200")
	assert.Greater(t, ind.DailyRSI, 50.0)
	assert.GreaterOrEqual(t, ind.High52w, ind.CurrentPrice)
	assert.InDelta(t, 1.0, ind.Position52w, 0.1)
}

func TestCollect_ShortHistoryFallsBack(t *testing.T) {
	m := &MockFetcher{Bars: map[string][]model.OHLCV{"NEWCO": dailyBars(10, 11, 12)}}
	c := NewCollector(NewAdapter(m, time.Second))

	ind, err := c.Collect(context.Background(), "NEWCO")
	require.NoError(t, err)
	assert.Equal(t, 12.0, ind.CurrentPrice)
	assert.Equal(t, 12.0, ind.MA200)
	assert.Equal(t, 12.0, ind.MA50w)
	assert.Equal(t, 50.0, ind.DailyRSI)
	assert.Equal(t, 50.0, ind.WeeklyRSI)
	assert.Equal(t, 12.0, ind.High52w)
	assert.Equal(t, 10.0, ind.Low52w)
	assert.Equal(t, 1.0, ind.Position52w)
}

func TestCollect_PriceUnavailable(t *testing.T) {
	boom := errors.New("boom")
	c := NewCollector(NewAdapter(&MockFetcher{Errors: map[string]error{"ZZZZ": boom}}, time.Second))

	_, err := c.Collect(context.Background(), "ZZZZ")
	require.Error(t, err)
	assert.ErrorIs(t, err, boom)

	_, err = NewCollector(NewAdapter(&MockFetcher{}, time.Second)).Collect(context.Background(), "GHOST")
	assert.ErrorIs(t, err, ErrNoQuote)
}
