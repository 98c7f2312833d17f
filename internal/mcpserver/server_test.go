package mcpserver

import (
	"context"
	"errors"
	"sort"
	"strings"
	"testing"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"StockMCP/internal/collector"
	"StockMCP/internal/model"
	"StockMCP/internal/recorder"
	"StockMCP/internal/stock"
)

func fixture() *collector.MockFetcher {
	day := time.Date(2026, 1, 5, 0, 0, 0, 0, time.UTC)
	bar := func(i int, c float64) model.OHLCV {
		return model.OHLCV{Time: day.AddDate(0, 0, i), Open: c, High: c, Low: c, Close: c, Volume: 10}
	}
	return &collector.MockFetcher{
		Bars: map[string][]model.OHLCV{
			"AAPL": {bar(0, 149), bar(1, 150.25)},
			"GOOG": {bar(0, 2800)},
		},
		PeriodBars: map[string]map[model.Period][]model.OHLCV{
			"NEWCO": {model.Period5Y: {}},
		},
		Errors: map[string]error{"ZZZZ": errors.New("invalid symbol")},
	}
}

func connect(t *testing.T, m *collector.MockFetcher, rec recorder.Recorder) *mcp.ClientSession {
	t.Helper()
	svc := stock.NewService(collector.NewAdapter(m, time.Second))
	srv := New(svc, rec, Options{Name: "stock-test", Version: "v0.0.1"})

	ctx := context.Background()
	clientT, serverT := mcp.NewInMemoryTransports()
	ss, err := srv.MCP().Connect(ctx, serverT, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = ss.Close() })

	cs, err := mcp.NewClient(&mcp.Implementation{Name: "test-client", Version: "v0.0.1"}, nil).Connect(ctx, clientT, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = cs.Close() })
	return cs
}

func callText(t *testing.T, cs *mcp.ClientSession, name string, args map[string]any) string {
	t.Helper()
	res, err := cs.CallTool(context.Background(), &mcp.CallToolParams{Name: name, Arguments: args})
	require.NoError(t, err)
	require.False(t, res.IsError, "tool %s returned an error result", name)
	require.Len(t, res.Content, 1)
	tc, ok := res.Content[0].(*mcp.TextContent)
	require.True(t, ok, "expected text content, got %T", res.Content[0])
	return tc.Text
}

func readText(t *testing.T, cs *mcp.ClientSession, uri string) string {
	t.Helper()
	res, err := cs.ReadResource(context.Background(), &mcp.ReadResourceParams{URI: uri})
	require.NoError(t, err)
	require.Len(t, res.Contents, 1)
	assert.Equal(t, uri, res.Contents[0].URI)
	return res.Contents[0].Text
}

func TestListTools(t *testing.T) {
	cs := connect(t, fixture(), nil)

	res, err := cs.ListTools(context.Background(), nil)
	require.NoError(t, err)
	var names []string
	for _, tool := range res.Tools {
		names = append(names, tool.Name)
	}
	sort.Strings(names)
	assert.Equal(t, []string{ToolCompare, ToolHistory, ToolIndicators, ToolPrice}, names)

	tmpl, err := cs.ListResourceTemplates(context.Background(), nil)
	require.NoError(t, err)
	require.Len(t, tmpl.ResourceTemplates, 1)
	assert.Equal(t, "stock://{symbol}", tmpl.ResourceTemplates[0].URITemplate)
}

func TestGetStockPriceTool(t *testing.T) {
	cs := connect(t, fixture(), nil)

	assert.Equal(t, "150.25", callText(t, cs, ToolPrice, map[string]any{"symbol": "AAPL"}))
	assert.Equal(t, "-1", callText(t, cs, ToolPrice, map[string]any{"symbol": "ZZZZ"}))
	assert.Equal(t, "-1", callText(t, cs, ToolPrice, map[string]any{"symbol": "GHOST"}))

	res, err := cs.CallTool(context.Background(), &mcp.CallToolParams{
		Name:      ToolPrice,
		Arguments: map[string]any{"symbol": "goog"},
	})
	require.NoError(t, err)
	structured, ok := res.StructuredContent.(map[string]any)
	require.True(t, ok, "structured content: %T", res.StructuredContent)
	assert.Equal(t, "GOOG", structured["symbol"])
	assert.Equal(t, 2800.0, structured["price"])
}

func TestGetStockHistoryTool(t *testing.T) {
	cs := connect(t, fixture(), nil)

	out := callText(t, cs, ToolHistory, map[string]any{"symbol": "AAPL"})
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "Date,Open,High,Low,Close,Volume", lines[0])
	assert.Equal(t, "2026-01-06,150.25,150.25,150.25,150.25,10", lines[2])

	assert.Equal(t,
		"No historical data found for symbol 'NEWCO' with period '5y'.",
		callText(t, cs, ToolHistory, map[string]any{"symbol": "NEWCO", "period": "5y"}))

	assert.Equal(t,
		"Error retrieving historical data for symbol 'ZZZZ': mock ZZZZ: invalid symbol",
		callText(t, cs, ToolHistory, map[string]any{"symbol": "ZZZZ", "period": "1mo"}))
}

func TestCompareStocksTool(t *testing.T) {
	cs := connect(t, fixture(), nil)

	assert.Equal(t, "AAPL ($150.25) is lower than GOOG ($2800.00).",
		callText(t, cs, ToolCompare, map[string]any{"symbol1": "AAPL", "symbol2": "GOOG"}))
	assert.Equal(t, "AAPL ($150.25) and AAPL ($150.25) are equal.",
		callText(t, cs, ToolCompare, map[string]any{"symbol1": "AAPL", "symbol2": "AAPL"}))
	assert.Equal(t, "Error: Could not retrieve prices for comparison of 'AAPL' and 'ZZZZ'.",
		callText(t, cs, ToolCompare, map[string]any{"symbol1": "AAPL", "symbol2": "ZZZZ"}))
}

func TestGetStockIndicatorsTool(t *testing.T) {
	cs := connect(t, collector.NewMockFetcher(321), nil)

	out := callText(t, cs, ToolIndicators, map[string]any{"symbol": "MSFT"})
	assert.Contains(t, out, "Indicators for MSFT")
	assert.Contains(t, out, "Current price: $321.00")

	cs = connect(t, fixture(), nil)
	out = callText(t, cs, ToolIndicators, map[string]any{"symbol": "ZZZZ"})
	assert.True(t, strings.HasPrefix(out, "Error: Could not compute indicators for symbol 'ZZZZ'"), out)
}

func TestStockResource(t *testing.T) {
	cs := connect(t, fixture(), nil)

	assert.Equal(t, "The current price of 'AAPL' is $150.25.", readText(t, cs, "stock://AAPL"))
	assert.Equal(t, "The current price of 'GOOG' is $2800.00.", readText(t, cs, "stock://goog"))
	assert.Equal(t, "Error: Could not retrieve price for symbol 'ZZZZ'.", readText(t, cs, "stock://ZZZZ"))
}

func TestCallsAreJournaled(t *testing.T) {
	rec := &recorder.MockRecorder{}
	rec.On("RecordCall", mock.MatchedBy(func(evt *recorder.CallEvent) bool {
		return evt.Kind == recorder.KindTool && evt.Name == ToolPrice && evt.Outcome == "ok" && evt.ID != ""
	})).Return(nil).Once()
	rec.On("RecordCall", mock.MatchedBy(func(evt *recorder.CallEvent) bool {
		return evt.Kind == recorder.KindResource && evt.Outcome == "provider_error" &&
			evt.Detail == "mock ZZZZ: invalid symbol"
	})).Return(errors.New("journal unavailable")).Once()
	rec.On("RecordCall", mock.MatchedBy(func(evt *recorder.CallEvent) bool {
		return evt.Name == ToolHistory && evt.Period == "5y" && evt.Outcome == "empty"
	})).Return(nil).Once()

	cs := connect(t, fixture(), rec)
	callText(t, cs, ToolPrice, map[string]any{"symbol": "AAPL"})
	// journal failures never reach the caller
	assert.Equal(t, "Error: Could not retrieve price for symbol 'ZZZZ'.", readText(t, cs, "stock://ZZZZ"))
	callText(t, cs, ToolHistory, map[string]any{"symbol": "NEWCO", "period": "5y"})

	rec.AssertExpectations(t)
}
