package mcpserver

import (
	"context"
	"errors"
	"strconv"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"StockMCP/internal/model"
	"StockMCP/internal/recorder"
	"StockMCP/internal/stock"
)

// Tool names.
const (
	ToolPrice      = "get_stock_price"
	ToolHistory    = "get_stock_history"
	ToolCompare    = "compare_stocks"
	ToolIndicators = "get_stock_indicators"
)

type SymbolInput struct {
	Symbol string `json:"symbol" jsonschema:"ticker symbol, e.g. AAPL"`
}

type HistoryInput struct {
	Symbol string `json:"symbol" jsonschema:"ticker symbol, e.g. AAPL"`
	Period string `json:"period,omitempty" jsonschema:"history window: 1d, 5d, 1mo, 3mo, 6mo, 1y, 2y, 5y, 10y, ytd or max. Defaults to 1mo"`
}

type CompareInput struct {
	Symbol1 string `json:"symbol1" jsonschema:"first ticker symbol"`
	Symbol2 string `json:"symbol2" jsonschema:"second ticker symbol"`
}

type PriceOutput struct {
	Symbol string  `json:"symbol"`
	Price  float64 `json:"price" jsonschema:"latest close, or -1 when unavailable"`
}

func (s *Server) registerTools() {
	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        ToolPrice,
		Description: "Get the latest closing price of a stock. Returns -1 if the price cannot be retrieved.",
	}, s.getStockPrice)

	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        ToolHistory,
		Description: "Get historical daily prices for a stock as CSV with columns Date,Open,High,Low,Close,Volume.",
	}, s.getStockHistory)

	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        ToolCompare,
		Description: "Compare the latest prices of two stocks.",
	}, s.compareStocks)

	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        ToolIndicators,
		Description: "Get technical indicators for a stock: moving averages, RSI and 52-week range.",
	}, s.getStockIndicators)
}

func textResult(text string) *mcp.CallToolResult {
	return &mcp.CallToolResult{Content: []mcp.Content{&mcp.TextContent{Text: text}}}
}

func (s *Server) getStockPrice(ctx context.Context, _ *mcp.CallToolRequest, in SymbolInput) (*mcp.CallToolResult, PriceOutput, error) {
	evt := recorder.NewCallEvent(recorder.KindTool, ToolPrice, model.NormalizeSymbol(in.Symbol))
	res := s.svc.Price(ctx, in.Symbol)
	s.journal(evt, res.Status.String(), res.Err)

	v := res.Value()
	return textResult(strconv.FormatFloat(v, 'f', -1, 64)), PriceOutput{Symbol: res.Symbol, Price: v}, nil
}

func (s *Server) getStockHistory(ctx context.Context, _ *mcp.CallToolRequest, in HistoryInput) (*mcp.CallToolResult, any, error) {
	evt := recorder.NewCallEvent(recorder.KindTool, ToolHistory, model.NormalizeSymbol(in.Symbol))
	res := s.svc.History(ctx, in.Symbol, in.Period)
	evt.Period = string(res.Period)
	s.journal(evt, res.Status.String(), res.Err)

	return textResult(stock.RenderHistory(res)), nil, nil
}

func (s *Server) compareStocks(ctx context.Context, _ *mcp.CallToolRequest, in CompareInput) (*mcp.CallToolResult, any, error) {
	evt := recorder.NewCallEvent(recorder.KindTool, ToolCompare,
		model.NormalizeSymbol(in.Symbol1), model.NormalizeSymbol(in.Symbol2))
	cmp := s.svc.Compare(ctx, in.Symbol1, in.Symbol2)
	outcome := "ok"
	if cmp.Relation == model.RelationUnavailable {
		outcome = "unavailable"
	}
	s.journal(evt, outcome, errors.Join(cmp.A.Err, cmp.B.Err))

	return textResult(stock.FormatComparison(cmp)), nil, nil
}

func (s *Server) getStockIndicators(ctx context.Context, _ *mcp.CallToolRequest, in SymbolInput) (*mcp.CallToolResult, any, error) {
	evt := recorder.NewCallEvent(recorder.KindTool, ToolIndicators, model.NormalizeSymbol(in.Symbol))
	ind, err := s.svc.Indicators(ctx, in.Symbol)
	if err != nil {
		s.journal(evt, "unavailable", err)
		return textResult(stock.FormatIndicatorsError(in.Symbol, err)), nil, nil
	}
	s.journal(evt, "ok", nil)
	return textResult(stock.FormatIndicators(ind)), nil, nil
}
