package calculator

import (
	"errors"
	"fmt"
	"math"

	"StockMCP/internal/model"
)

// ErrInsufficientData is returned when there are fewer bars than an indicator window needs.
var ErrInsufficientData = errors.New("insufficient data")

// Trading-day windows.
const (
	TradingDays52w = 252
	TradingDays30d = 22
)

// SMA computes the simple moving average of the last window values.
func SMA(values []float64, window int) (float64, error) {
	if window <= 0 {
		return 0, errors.New("window must be positive")
	}
	if len(values) < window {
		return 0, fmt.Errorf("%w: sma(%d) over %d values", ErrInsufficientData, window, len(values))
	}
	sum := 0.0
	for _, v := range values[len(values)-window:] {
		sum += v
	}
	return sum / float64(window), nil
}

// MovingAverage is SMA over bar closes.
func MovingAverage(bars []model.OHLCV, window int) (float64, error) {
	return SMA(Closes(bars), window)
}

// RSI computes the Wilder-smoothed relative strength index over bar closes.
// It needs at least window+1 bars.
func RSI(bars []model.OHLCV, window int) (float64, error) {
	if window <= 0 {
		return 0, errors.New("window must be positive")
	}
	if len(bars) < window+1 {
		return 0, fmt.Errorf("%w: rsi(%d) over %d bars", ErrInsufficientData, window, len(bars))
	}
	closes := Closes(bars)
	n := float64(window)

	var gain, loss float64
	for i := 1; i <= window; i++ {
		g, l := split(closes[i] - closes[i-1])
		gain += g
		loss += l
	}
	gain /= n
	loss /= n

	for i := window + 1; i < len(closes); i++ {
		g, l := split(closes[i] - closes[i-1])
		gain = (gain*(n-1) + g) / n
		loss = (loss*(n-1) + l) / n
	}

	if loss == 0 {
		return 100, nil
	}
	return 100 - 100/(1+gain/loss), nil
}

func split(change float64) (gain, loss float64) {
	if change > 0 {
		return change, 0
	}
	return 0, -change
}

// Range returns the highest high and lowest low over the last window bars.
// Fewer bars than window uses all of them.
func Range(bars []model.OHLCV, window int) (high, low float64, err error) {
	if len(bars) == 0 {
		return 0, 0, fmt.Errorf("%w: no bars", ErrInsufficientData)
	}
	start := len(bars) - window
	if start < 0 {
		start = 0
	}
	high, low = math.Inf(-1), math.Inf(1)
	for _, b := range bars[start:] {
		high = math.Max(high, b.High)
		low = math.Min(low, b.Low)
	}
	return high, low, nil
}

// Position places current within [low, high] as a fraction clamped to 0..1.
// A flat range yields 0.5.
func Position(current, high, low float64) (float64, error) {
	if high < low {
		return 0, errors.New("high must be >= low")
	}
	if high == low {
		return 0.5, nil
	}
	return math.Max(0, math.Min(1, (current-low)/(high-low))), nil
}

// Closes extracts close prices in bar order.
func Closes(bars []model.OHLCV) []float64 {
	closes := make([]float64, len(bars))
	for i, b := range bars {
		closes[i] = b.Close
	}
	return closes
}
