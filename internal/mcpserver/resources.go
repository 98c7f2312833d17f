package mcpserver

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/yosida95/uritemplate/v3"

	"StockMCP/internal/recorder"
	"StockMCP/internal/stock"
)

// StockURITemplate addresses the price summary of one symbol.
const StockURITemplate = "stock://{symbol}"

var stockURI = uritemplate.MustNew(StockURITemplate)

func (s *Server) registerResources() {
	s.mcp.AddResourceTemplate(&mcp.ResourceTemplate{
		Name:        "stock_price",
		Title:       "Stock price",
		URITemplate: StockURITemplate,
		MIMEType:    "text/plain",
		Description: "One-line summary of the latest closing price of a stock.",
	}, s.readStock)
}

func (s *Server) readStock(ctx context.Context, req *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
	uri := req.Params.URI
	vals := stockURI.Match(uri)
	if vals == nil {
		return nil, mcp.ResourceNotFoundError(uri)
	}

	symbol := vals.Get("symbol").String()
	evt := recorder.NewCallEvent(recorder.KindResource, StockURITemplate, symbol)
	res := s.svc.Price(ctx, symbol)
	evt.Symbols = []string{res.Symbol}
	s.journal(evt, res.Status.String(), res.Err)

	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      uri,
			MIMEType: "text/plain",
			Text:     stock.FormatPriceSentence(res),
		}},
	}, nil
}
