package stock

import (
	"encoding/csv"
	"fmt"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"StockMCP/internal/model"
)

// HistoryHeader is the column row of every history table.
var HistoryHeader = []string{"Date", "Open", "High", "Low", "Close", "Volume"}

// FormatMoney renders a price with two decimals. Halves round away from zero
// on the price as quoted, so 1.005 renders as 1.01.
func FormatMoney(v float64) string {
	return decimal.NewFromFloat(v).StringFixed(2)
}

// FormatHistoryCSV renders bars as a header row plus one row per bar, in the given order.
func FormatHistoryCSV(bars []model.OHLCV) (string, error) {
	var b strings.Builder
	w := csv.NewWriter(&b)
	if err := w.Write(HistoryHeader); err != nil {
		return "", fmt.Errorf("write header: %w", err)
	}
	for _, bar := range bars {
		row := []string{
			bar.Time.Format("2006-01-02"),
			decimal.NewFromFloat(bar.Open).String(),
			decimal.NewFromFloat(bar.High).String(),
			decimal.NewFromFloat(bar.Low).String(),
			decimal.NewFromFloat(bar.Close).String(),
			strconv.FormatInt(int64(bar.Volume), 10),
		}
		if err := w.Write(row); err != nil {
			return "", fmt.Errorf("write row: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return "", fmt.Errorf("flush: %w", err)
	}
	return b.String(), nil
}

// FormatComparison renders a comparison as a single sentence.
func FormatComparison(c model.Comparison) string {
	a, b := c.A, c.B
	switch c.Relation {
	case model.RelationHigher:
		return fmt.Sprintf("%s ($%s) is higher than %s ($%s).", a.Symbol, FormatMoney(a.Price), b.Symbol, FormatMoney(b.Price))
	case model.RelationLower:
		return fmt.Sprintf("%s ($%s) is lower than %s ($%s).", a.Symbol, FormatMoney(a.Price), b.Symbol, FormatMoney(b.Price))
	case model.RelationEqual:
		return fmt.Sprintf("%s ($%s) and %s ($%s) are equal.", a.Symbol, FormatMoney(a.Price), b.Symbol, FormatMoney(b.Price))
	default:
		return fmt.Sprintf("Error: Could not retrieve prices for comparison of '%s' and '%s'.", a.Symbol, b.Symbol)
	}
}

// FormatPriceSentence renders a price lookup as prose.
func FormatPriceSentence(r model.PriceResult) string {
	if !r.Found() {
		return fmt.Sprintf("Error: Could not retrieve price for symbol '%s'.", r.Symbol)
	}
	return fmt.Sprintf("The current price of '%s' is $%s.", r.Symbol, FormatMoney(r.Price))
}

// FormatIndicators renders the indicator report.
func FormatIndicators(ind *model.MarketIndicators) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Indicators for %s | %s\n\n", ind.Symbol, ind.AsOf.Format("2006-01-02"))

	fmt.Fprintf(&b, "Current price: $%s\n", FormatMoney(ind.CurrentPrice))
	ma200Dev := 0.0
	if ind.MA200 > 0 {
		ma200Dev = (ind.CurrentPrice - ind.MA200) / ind.MA200 * 100
	}
	fmt.Fprintf(&b, "MA200: $%s (%+.1f%%)\n", FormatMoney(ind.MA200), ma200Dev)
	fmt.Fprintf(&b, "MA20w: $%s | MA50w: $%s\n", FormatMoney(ind.MA20w), FormatMoney(ind.MA50w))
	fmt.Fprintf(&b, "RSI(14): daily %.1f | weekly %.1f\n", ind.DailyRSI, ind.WeeklyRSI)
	fmt.Fprintf(&b, "52w range: $%s - $%s (position %.0f%%)\n",
		FormatMoney(ind.Low52w), FormatMoney(ind.High52w), ind.Position52w*100)
	fmt.Fprintf(&b, "30d range: $%s - $%s\n", FormatMoney(ind.Low30d), FormatMoney(ind.High30d))
	return b.String()
}

// FormatIndicatorsError renders a failed indicator lookup.
func FormatIndicatorsError(symbol string, err error) string {
	return fmt.Sprintf("Error: Could not compute indicators for symbol '%s': %v", model.NormalizeSymbol(symbol), err)
}
