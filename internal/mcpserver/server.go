// Package mcpserver publishes the stock queries as MCP tools and resources.
package mcpserver

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/modelcontextprotocol/go-sdk/mcp"
	log "github.com/sirupsen/logrus"

	"StockMCP/internal/recorder"
	"StockMCP/internal/stock"
)

const instructions = `Stock market data tools. Prices are the latest daily close in USD.
get_stock_price returns -1 when no price is available.
Read stock://{symbol} for a one-line price summary.`

// Options configures the published server.
type Options struct {
	Name           string
	Version        string
	SessionTimeout time.Duration // idle timeout for HTTP sessions
}

// Server wraps an mcp.Server backed by a stock.Service.
type Server struct {
	svc  *stock.Service
	rec  recorder.Recorder
	opts Options
	mcp  *mcp.Server
}

// New builds the server and registers every tool and resource.
func New(svc *stock.Service, rec recorder.Recorder, opts Options) *Server {
	if opts.Name == "" {
		opts.Name = "stock-mcp"
	}
	if opts.Version == "" {
		opts.Version = "dev"
	}
	if rec == nil {
		rec = recorder.NewNoopRecorder()
	}
	s := &Server{svc: svc, rec: rec, opts: opts}
	s.mcp = mcp.NewServer(&mcp.Implementation{Name: opts.Name, Version: opts.Version}, &mcp.ServerOptions{
		Instructions: instructions,
		Logger:       slog.New(slog.NewTextHandler(log.StandardLogger().WriterLevel(log.DebugLevel), nil)),
		GetSessionID: uuid.NewString,
	})
	s.registerTools()
	s.registerResources()
	return s
}

// MCP returns the underlying SDK server.
func (s *Server) MCP() *mcp.Server { return s.mcp }

// RunStdio serves a single client over stdin/stdout until ctx is done or the client disconnects.
func (s *Server) RunStdio(ctx context.Context) error {
	log.WithField("server", s.opts.Name).Info("serving MCP over stdio")
	return s.mcp.Run(ctx, &mcp.StdioTransport{})
}

// Handler returns the streamable HTTP handler for this server.
func (s *Server) Handler() http.Handler {
	return mcp.NewStreamableHTTPHandler(func(*http.Request) *mcp.Server { return s.mcp },
		&mcp.StreamableHTTPOptions{SessionTimeout: s.opts.SessionTimeout})
}

// RunHTTP serves the streamable HTTP transport on addr until ctx is done.
func (s *Server) RunHTTP(ctx context.Context, addr string) error {
	mux := http.NewServeMux()
	mux.Handle("/mcp", s.Handler())
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 10 * time.Second}

	errCh := make(chan error, 1)
	go func() {
		log.WithField("addr", addr).Info("serving MCP over HTTP at /mcp")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("http server: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("http shutdown: %w", err)
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) journal(evt *recorder.CallEvent, outcome string, detail error) {
	evt.Finish(outcome, detail)
	log.WithFields(log.Fields{
		"kind":     evt.Kind,
		"call":     evt.Name,
		"symbols":  evt.Symbols,
		"outcome":  outcome,
		"duration": evt.Duration,
	}).Debug("call finished")
	if err := s.rec.RecordCall(evt); err != nil {
		log.WithField("call", evt.Name).Errorf("journal: %v", err)
	}
}
